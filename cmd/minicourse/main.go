// minicourse demonstrates the same numerical kernels under several
// execution strategies: a scalar loop, a bulk array pass, a parallel
// row-band runner and a distributed tile coordinator with remote workers.
package main

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "minicourse",
		Short:         "performance minicourse demos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Every flag can also be set through MINICOURSE_* environment
	// variables, e.g. MINICOURSE_ADDR for --addr.
	viper.SetEnvPrefix("MINICOURSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(
		renderCmd(),
		benchCmd(),
		serveCmd(),
		workerCmd(),
		mcmcCmd(),
		fitCmd(),
		imputeCmd(),
	)
	return root
}

// envString returns the flag value, or its MINICOURSE_* environment
// override when the flag was not set explicitly.
func envString(cmd *cobra.Command, name, flagValue string) string {
	if !cmd.Flags().Changed(name) {
		if v := viper.GetString(name); v != "" {
			return v
		}
	}
	return flagValue
}

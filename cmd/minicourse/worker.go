package main

import (
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gabeclass/go-performance-minicourse/dist"
	"github.com/gabeclass/go-performance-minicourse/escape"
)

func workerCmd() *cobra.Command {
	var (
		addr     string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "compute tiles for a coordinator until its job completes",
		Long: `worker connects to a coordinator started with "serve" and answers tile
requests with its own CPU. The address may be a host:port for plain TCP or
a ws:// URL for the coordinator's websocket endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := escape.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			target := envString(cmd, "addr", addr)

			var conn net.Conn
			if strings.HasPrefix(target, "ws://") || strings.HasPrefix(target, "wss://") {
				conn, err = dist.DialWebsocket(cmd.Context(), target)
			} else {
				conn, err = net.Dial("tcp", target)
			}
			if err != nil {
				return fmt.Errorf("connect to %q: %w", target, err)
			}
			defer conn.Close()

			id := uuid.NewString()
			log.Printf("worker %s connected to %s", id, target)
			if err := dist.ServeWorker(conn, id, dist.LocalWorker{Strategy: strat}); err != nil {
				return err
			}
			log.Printf("coordinator closed the connection, job done")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8081", "coordinator address (host:port or ws:// URL)")
	cmd.Flags().StringVar(&strategy, "strategy", "pointwise", "kernel strategy: pointwise or bulk")
	return cmd
}

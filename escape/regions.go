package escape

import (
	"fmt"
	"sort"
)

// Classic landmark regions of the Mandelbrot set, useful as demo inputs.
var (
	// FullSet covers the whole visible set.
	FullSet = Region{
		Xmin: -2.5,
		Xmax: 1.0,
		Ymin: -1.25,
		Ymax: 1.25,
	}

	// SeahorseValley holds dense filaments with repeating seahorse curls.
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// ElephantValley is the large bulb with trunk-like tendrils.
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// SpiralMinibrot is a small copy of the set with tight spiral arms.
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// TripleSpiral is a threefold symmetric spiral structure.
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// ValleyOfTheDragon holds deep, highly detailed spiral filaments.
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// MinibrotInMiniSpiral is a self-similar copy inside a spiral arm.
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

// Landmarks maps CLI names to the landmark regions.
var Landmarks = map[string]Region{
	"full":            FullSet,
	"seahorse":        SeahorseValley,
	"elephant":        ElephantValley,
	"spiral-minibrot": SpiralMinibrot,
	"triple-spiral":   TripleSpiral,
	"dragon":          ValleyOfTheDragon,
	"minibrot":        MinibrotInMiniSpiral,
}

// LookupRegion resolves a landmark region by name.
func LookupRegion(name string) (Region, error) {
	r, ok := Landmarks[name]
	if !ok {
		names := make([]string, 0, len(Landmarks))
		for n := range Landmarks {
			names = append(names, n)
		}
		sort.Strings(names)
		return Region{}, fmt.Errorf("escape: unknown region %q (have %v)", name, names)
	}
	return r, nil
}

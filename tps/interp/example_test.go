package interp_test

import (
	"fmt"

	"github.com/cwbudde/algo-tps/tps/interp"
)

func ExampleNew() {
	// Energy (MeV) sampled along a trace whose pixel column decreases.
	cols := []float64{400, 300, 200}
	energy := []float64{2, 5, 20}

	in, _ := interp.New(cols, energy, interp.ModeLinear)
	fmt.Printf("%.1f %.1f\n", in.At(250), in.At(450))
	// Output:
	// 12.5 0.5
}

package analysis_test

import (
	"context"
	"fmt"

	"github.com/njchilds90/plotsense/analysis"
)

func ExampleAnalyzer_Analyze() {
	a, err := analysis.New(analysis.DefaultConfig())
	if err != nil {
		panic(err)
	}
	res, err := a.Analyze(context.Background(), "x^3 - 3x", analysis.Interval{Min: -5, Max: 5})
	if err != nil {
		panic(err)
	}
	fmt.Println("f(x) =", res.Simplified)
	fmt.Println("parity:", res.Parity)
	for _, r := range res.Roots.Roots {
		fmt.Printf("root %s = %.6f\n", r.Exact, r.Value)
	}
	fmt.Println("f'(x) =", res.Critical.FirstDerivative)
	for _, c := range res.Critical.Extrema {
		fmt.Printf("%s at x = %s\n", c.Classification, c.Exact)
	}
	// Output:
	// f(x) = x^3 - 3*x
	// parity: odd
	// root -sqrt(3) = -1.732051
	// root 0 = 0.000000
	// root sqrt(3) = 1.732051
	// f'(x) = 3*x^2 - 3
	// maximum at x = -1
	// minimum at x = 1
}

func ExampleAnalyzer_AnalyzePair() {
	a, _ := analysis.New(analysis.DefaultConfig())
	res, err := a.AnalyzePair(context.Background(), "x", "-x + 4", analysis.Interval{Min: -10, Max: 10})
	if err != nil {
		panic(err)
	}
	for _, p := range res.Intersections {
		fmt.Printf("(%g, %g)\n", p.X, *p.Y)
	}
	// Output:
	// (2, 2)
}

func ExampleDedup() {
	fmt.Println(analysis.Dedup([]float64{3, 1, 1.000001, 2}, 1e-5))
	// Output:
	// [1 2 3]
}

// Package pipeline runs the clumping pass followed by the median smoothing
// pass over a pixel grid.
package pipeline

import (
	"fmt"

	"paintbrush/internal/clump"
	"paintbrush/internal/colormetric"
	"paintbrush/internal/grid"
	"paintbrush/internal/smooth"
)

// Default effect strengths, matching the paint command's defaults.
const (
	DefaultAlpha  = 3.0
	DefaultRadius = 2
)

// Params is the per-call configuration of both stages.
type Params struct {
	Alpha  float64 // clumping similarity threshold, >= 0
	Radius int     // median window radius, >= 0

	Metric       colormetric.Metric // nil means Euclidean
	Connectivity clump.Connectivity // zero means clump.Four
	Recolor      clump.Recolor
	Workers      int // smoothing goroutines, <= 0 means NumCPU
}

// DefaultParams returns the default alpha and radius with default strategies.
func DefaultParams() Params {
	return Params{Alpha: DefaultAlpha, Radius: DefaultRadius}
}

// Validate checks the scalar arguments of both stages.
func (p Params) Validate() error {
	if err := clump.ValidateAlpha(p.Alpha); err != nil {
		return err
	}
	return smooth.ValidateRadius(p.Radius)
}

// Apply clumps then smooths g with default strategies.
func Apply(g *grid.Grid, alpha float64, radius int) (*grid.Grid, error) {
	p := DefaultParams()
	p.Alpha = alpha
	p.Radius = radius
	return Run(g, p)
}

// Run clumps g and smooths the clumped result. Arguments are validated
// before either stage runs, and on any failure no grid is returned.
// g is never modified.
func Run(g *grid.Grid, p Params) (*grid.Grid, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	clumped, err := clump.Clump(g, p.Alpha, clump.Options{
		Metric:       p.Metric,
		Connectivity: p.Connectivity,
		Recolor:      p.Recolor,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	smoothed, err := smooth.Median(clumped, p.Radius, smooth.Options{Workers: p.Workers})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return smoothed, nil
}

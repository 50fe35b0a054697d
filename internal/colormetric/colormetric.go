// Package colormetric provides dissimilarity scores between two pixels.
//
// Every metric is symmetric, returns 0 only for identical pixels and grows
// with component-wise difference, so any of them can drive the clumping
// threshold.
package colormetric

import (
	"fmt"
	"math"

	"paintbrush/internal/grid"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Metric returns a non-negative dissimilarity between two pixels.
type Metric func(a, b grid.Pixel) float64

// Metric names accepted by ByName.
const (
	NameEuclidean = "euclidean"
	NameChebyshev = "chebyshev"
	NameCIE76     = "cie76"
)

// Euclidean is the straight-line distance in RGB space, in [0, ~441.7].
func Euclidean(a, b grid.Pixel) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Chebyshev is the largest absolute per-channel difference, in [0, 255].
func Chebyshev(a, b grid.Pixel) float64 {
	d := absDiff(a.R, b.R)
	if g := absDiff(a.G, b.G); g > d {
		d = g
	}
	if bl := absDiff(a.B, b.B); bl > d {
		d = bl
	}
	return float64(d)
}

// CIE76 is the ΔE*76 distance in L*a*b* space, scaled so that a
// just-noticeable difference is roughly 2.3.
func CIE76(a, b grid.Pixel) float64 {
	if a == b {
		return 0
	}
	return toColorful(a).DistanceCIE76(toColorful(b)) * 100
}

// ByName resolves a metric name. The empty name selects Euclidean.
func ByName(name string) (Metric, error) {
	switch name {
	case "", NameEuclidean:
		return Euclidean, nil
	case NameChebyshev:
		return Chebyshev, nil
	case NameCIE76:
		return CIE76, nil
	}
	return nil, fmt.Errorf("colormetric: unknown metric %q: %w", name, grid.ErrInvalidArgument)
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func toColorful(p grid.Pixel) colorful.Color {
	return colorful.Color{
		R: float64(p.R) / 255.0,
		G: float64(p.G) / 255.0,
		B: float64(p.B) / 255.0,
	}
}

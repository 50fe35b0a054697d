// Package clump merges adjacent, similarly colored pixels into uniformly
// colored regions.
package clump

import (
	"fmt"
	"math"

	"paintbrush/internal/colormetric"
	"paintbrush/internal/grid"
)

// Connectivity selects which neighbors count as adjacent.
type Connectivity int

const (
	Four  Connectivity = 4 // up, down, left, right
	Eight Connectivity = 8 // Four plus diagonals
)

// Recolor selects how a region's single output color is chosen.
type Recolor int

const (
	// Mean is the component-wise average of all members, rounded half up.
	Mean Recolor = iota
	// Seed is the color of the region's first member in row-major order.
	Seed
)

// Options configures a clumping pass. The zero value means
// Euclidean distance, 4-connectivity and mean recoloring.
type Options struct {
	Metric       colormetric.Metric
	Connectivity Connectivity
	Recolor      Recolor
}

func (o Options) withDefaults() Options {
	if o.Metric == nil {
		o.Metric = colormetric.Euclidean
	}
	if o.Connectivity == 0 {
		o.Connectivity = Four
	}
	return o
}

func (o Options) validate() error {
	if o.Connectivity != Four && o.Connectivity != Eight {
		return fmt.Errorf("clump: connectivity %d: %w", o.Connectivity, grid.ErrInvalidArgument)
	}
	if o.Recolor != Mean && o.Recolor != Seed {
		return fmt.Errorf("clump: recolor rule %d: %w", o.Recolor, grid.ErrInvalidArgument)
	}
	return nil
}

// ValidateAlpha rejects negative or NaN thresholds.
func ValidateAlpha(alpha float64) error {
	if alpha < 0 || math.IsNaN(alpha) {
		return fmt.Errorf("clump: alpha %v: %w", alpha, grid.ErrInvalidArgument)
	}
	return nil
}

// Clump returns a new grid where every pixel holds the color of its region.
// Two adjacent pixels share a region when their distance is <= alpha, and
// regions are closed under that relation transitively. src is not modified.
func Clump(src *grid.Grid, alpha float64, opts Options) (*grid.Grid, error) {
	ds, err := partition(src, alpha, opts)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	w, h := src.Width(), src.Height()
	pix := src.Pix()
	out, err := grid.New(w, h)
	if err != nil {
		return nil, err
	}
	dst := out.Pix()

	// Roots are not necessarily a region's first member, so colors are
	// resolved lazily per root during the row-major scan.
	colors := make([]grid.Pixel, len(pix))
	resolved := make([]bool, len(pix))

	var sums [][3]uint64
	if opts.Recolor == Mean {
		sums = make([][3]uint64, len(pix))
		for i, p := range pix {
			r := ds.Find(i)
			sums[r][0] += uint64(p.R)
			sums[r][1] += uint64(p.G)
			sums[r][2] += uint64(p.B)
		}
	}

	for i, p := range pix {
		r := ds.Find(i)
		if !resolved[r] {
			if opts.Recolor == Seed {
				colors[r] = p
			} else {
				n := uint64(ds.Size(r))
				colors[r] = grid.Pixel{
					R: roundDiv(sums[r][0], n),
					G: roundDiv(sums[r][1], n),
					B: roundDiv(sums[r][2], n),
				}
			}
			resolved[r] = true
		}
		dst[i] = colors[r]
	}
	return out, nil
}

// Regions labels every pixel with a region number. Labels are dense and
// assigned in row-major order of each region's first pixel.
func Regions(src *grid.Grid, alpha float64, opts Options) (labels []int, count int, err error) {
	ds, err := partition(src, alpha, opts)
	if err != nil {
		return nil, 0, err
	}
	labels = make([]int, ds.Len())
	ids := make(map[int]int)
	for i := range labels {
		r := ds.Find(i)
		id, ok := ids[r]
		if !ok {
			id = len(ids)
			ids[r] = id
		}
		labels[i] = id
	}
	return labels, len(ids), nil
}

// partition builds the disjoint sets by scanning row-major and uniting each
// pixel with its forward neighbors, so every adjacent pair is tested once.
func partition(src *grid.Grid, alpha float64, opts Options) (*DisjointSet, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("clump: %w", err)
	}
	if err := ValidateAlpha(alpha); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	w, h := src.Width(), src.Height()
	pix := src.Pix()
	ds := NewDisjointSet(len(pix))
	dist := opts.Metric

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			p := pix[i]
			if x+1 < w && dist(p, pix[i+1]) <= alpha {
				ds.Union(i, i+1)
			}
			if y+1 < h {
				if dist(p, pix[i+w]) <= alpha {
					ds.Union(i, i+w)
				}
				if opts.Connectivity == Eight {
					if x+1 < w && dist(p, pix[i+w+1]) <= alpha {
						ds.Union(i, i+w+1)
					}
					if x > 0 && dist(p, pix[i+w-1]) <= alpha {
						ds.Union(i, i+w-1)
					}
				}
			}
		}
	}
	return ds, nil
}

func roundDiv(sum, n uint64) uint8 {
	v := (sum + n/2) / n
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

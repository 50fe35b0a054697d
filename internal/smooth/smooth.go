// Package smooth applies a per-channel median filter to a pixel grid.
package smooth

import (
	"fmt"
	"runtime"
	"slices"
	"sync"

	"paintbrush/internal/grid"
)

// Windows up to this radius are sorted directly; larger ones use a
// sliding histogram per row.
const sortRadiusLimit = 2

// Options configures a smoothing pass.
type Options struct {
	// Workers is the number of goroutines filtering rows.
	// Zero or negative means runtime.NumCPU().
	Workers int
}

// ValidateRadius rejects negative radii.
func ValidateRadius(radius int) error {
	if radius < 0 {
		return fmt.Errorf("smooth: radius %d: %w", radius, grid.ErrInvalidArgument)
	}
	return nil
}

// Median returns a new grid where each pixel is the per-channel median of
// the (2*radius+1)² window around it. Coordinates outside the grid are
// clamped to the nearest edge, so borders only see real pixels.
// radius 0 returns an exact copy. src is not modified.
func Median(src *grid.Grid, radius int, opts Options) (*grid.Grid, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}
	if err := ValidateRadius(radius); err != nil {
		return nil, err
	}
	if radius == 0 {
		return src.Clone(), nil
	}

	w, h := src.Width(), src.Height()
	out, err := grid.New(w, h)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}

	rowChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f := newFilter(src, radius)
			for y := range rowChan {
				f.row(out, y)
			}
		}()
	}

	for y := 0; y < h; y++ {
		rowChan <- y
	}
	close(rowChan)
	wg.Wait()

	return out, nil
}

// filter holds the per-worker scratch space. Nothing in it is shared.
type filter struct {
	src    *grid.Grid
	radius int
	rows   []int // clamped row indices of the current window

	// sort path
	r, g, b []uint8

	// histogram path
	hist [3][256]int32
}

func newFilter(src *grid.Grid, radius int) *filter {
	side := 2*radius + 1
	f := &filter{src: src, radius: radius, rows: make([]int, side)}
	if radius <= sortRadiusLimit {
		n := side * side
		f.r = make([]uint8, 0, n)
		f.g = make([]uint8, 0, n)
		f.b = make([]uint8, 0, n)
	}
	return f
}

func (f *filter) row(dst *grid.Grid, y int) {
	h := f.src.Height()
	for j := -f.radius; j <= f.radius; j++ {
		f.rows[j+f.radius] = clamp(y+j, h)
	}
	if f.radius <= sortRadiusLimit {
		f.sortRow(dst, y)
	} else {
		f.histRow(dst, y)
	}
}

func (f *filter) sortRow(dst *grid.Grid, y int) {
	w := f.src.Width()
	pix := f.src.Pix()
	out := dst.Pix()
	for x := 0; x < w; x++ {
		f.r, f.g, f.b = f.r[:0], f.g[:0], f.b[:0]
		for _, sy := range f.rows {
			base := sy * w
			for i := -f.radius; i <= f.radius; i++ {
				p := pix[base+clamp(x+i, w)]
				f.r = append(f.r, p.R)
				f.g = append(f.g, p.G)
				f.b = append(f.b, p.B)
			}
		}
		slices.Sort(f.r)
		slices.Sort(f.g)
		slices.Sort(f.b)
		mid := len(f.r) / 2
		out[y*w+x] = grid.Pixel{R: f.r[mid], G: f.g[mid], B: f.b[mid]}
	}
}

// histRow slides a window of per-channel histograms along row y, removing
// the leftmost column and adding the next one at each step.
func (f *filter) histRow(dst *grid.Grid, y int) {
	w := f.src.Width()
	out := dst.Pix()
	for c := range f.hist {
		clear(f.hist[c][:])
	}
	for i := -f.radius; i <= f.radius; i++ {
		f.column(clamp(i, w), 1)
	}

	side := 2*f.radius + 1
	target := int32(side * side / 2)
	for x := 0; x < w; x++ {
		if x > 0 {
			f.column(clamp(x-1-f.radius, w), -1)
			f.column(clamp(x+f.radius, w), 1)
		}
		out[y*w+x] = grid.Pixel{
			R: medianOf(&f.hist[0], target),
			G: medianOf(&f.hist[1], target),
			B: medianOf(&f.hist[2], target),
		}
	}
}

func (f *filter) column(x int, delta int32) {
	w := f.src.Width()
	pix := f.src.Pix()
	for _, sy := range f.rows {
		p := pix[sy*w+x]
		f.hist[0][p.R] += delta
		f.hist[1][p.G] += delta
		f.hist[2][p.B] += delta
	}
}

// medianOf returns the value at sorted position target.
func medianOf(h *[256]int32, target int32) uint8 {
	var cum int32
	for v := 0; v < 256; v++ {
		cum += h[v]
		if cum > target {
			return uint8(v)
		}
	}
	return 255
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

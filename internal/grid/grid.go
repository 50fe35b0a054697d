package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every validation failure in the
// pixel-grid packages. Callers match it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Pixel is a 3-channel 8-bit color.
type Pixel struct {
	R, G, B uint8
}

// Grid holds pixels as a flat row-major slice for cache locality.
// (x, y) addresses column x of row y.
type Grid struct {
	width  int
	height int
	pix    []Pixel // len = width*height
}

// New allocates a zeroed (black) grid.
func New(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("grid: dimensions %dx%d: %w", w, h, ErrInvalidArgument)
	}
	return &Grid{width: w, height: h, pix: make([]Pixel, w*h)}, nil
}

// FromRows copies a 2D slice of rows into a new grid.
// All rows must have the same non-zero length.
func FromRows(rows [][]Pixel) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("grid: empty rows: %w", ErrInvalidArgument)
	}
	w := len(rows[0])
	g, err := New(w, len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("grid: row %d has length %d, want %d: %w", y, len(row), w, ErrInvalidArgument)
		}
		copy(g.pix[y*w:(y+1)*w], row)
	}
	return g, nil
}

// Fill returns a w×h grid where every pixel is p.
func Fill(w, h int, p Pixel) (*Grid, error) {
	g, err := New(w, h)
	if err != nil {
		return nil, err
	}
	for i := range g.pix {
		g.pix[i] = p
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Len returns the number of pixels.
func (g *Grid) Len() int { return len(g.pix) }

// At returns the pixel at column x, row y.
func (g *Grid) At(x, y int) Pixel { return g.pix[y*g.width+x] }

// Set stores p at column x, row y.
func (g *Grid) Set(x, y int, p Pixel) { g.pix[y*g.width+x] = p }

// Index returns the flat offset of (x, y).
func (g *Grid) Index(x, y int) int { return y*g.width + x }

// Pix exposes the backing slice. Callers must not change its length.
func (g *Grid) Pix() []Pixel { return g.pix }

// Validate reports whether g is usable as input to a pixel-grid stage.
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("grid: nil grid: %w", ErrInvalidArgument)
	}
	if g.width <= 0 || g.height <= 0 {
		return fmt.Errorf("grid: dimensions %dx%d: %w", g.width, g.height, ErrInvalidArgument)
	}
	if len(g.pix) != g.width*g.height {
		return fmt.Errorf("grid: %d pixels for %dx%d: %w", len(g.pix), g.width, g.height, ErrInvalidArgument)
	}
	return nil
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	out := &Grid{width: g.width, height: g.height, pix: make([]Pixel, len(g.pix))}
	copy(out.pix, g.pix)
	return out
}

// Equal reports whether both grids have the same shape and pixels.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.pix {
		if g.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// Rows returns a 2D copy of the grid, one slice per row.
func (g *Grid) Rows() [][]Pixel {
	rows := make([][]Pixel, g.height)
	for y := range rows {
		rows[y] = make([]Pixel, g.width)
		copy(rows[y], g.pix[y*g.width:(y+1)*g.width])
	}
	return rows
}

// DistinctColors counts the distinct pixel values in g.
func DistinctColors(g *Grid) int {
	seen := make(map[Pixel]struct{})
	for _, p := range g.pix {
		seen[p] = struct{}{}
	}
	return len(seen)
}

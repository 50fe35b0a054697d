package clump

import (
	"errors"
	"math"
	"testing"

	"paintbrush/internal/colormetric"
	"paintbrush/internal/grid"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = grid.Pixel{R: 255}
	blue = grid.Pixel{B: 255}
)

func mustRows(t *testing.T, rows [][]grid.Pixel) *grid.Grid {
	t.Helper()
	g, err := grid.FromRows(rows)
	require.NoError(t, err)
	return g
}

func checkerboard(t *testing.T, w, h int, a, b grid.Pixel) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				g.Set(x, y, a)
			} else {
				g.Set(x, y, b)
			}
		}
	}
	return g
}

func TestCheckerboardMergesToAverage(t *testing.T) {
	src := checkerboard(t, 4, 4, red, blue)
	alpha := colormetric.Euclidean(red, blue) + 1

	out, err := Clump(src, alpha, Options{})
	require.NoError(t, err)

	want, err := grid.Fill(4, 4, grid.Pixel{R: 128, B: 128})
	require.NoError(t, err)
	if diff := cmp.Diff(want.Rows(), out.Rows()); diff != "" {
		t.Errorf("clumped checkerboard mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckerboardStaysBelowThreshold(t *testing.T) {
	src := checkerboard(t, 4, 4, red, blue)
	out, err := Clump(src, colormetric.Euclidean(red, blue)-1, Options{})
	require.NoError(t, err)
	assert.True(t, out.Equal(src))
}

func TestZeroAlphaIsIdentityWithoutFlatRegions(t *testing.T) {
	src := mustRows(t, [][]grid.Pixel{
		{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}, {R: 7, G: 8, B: 9}},
		{{R: 10, G: 11, B: 12}, {R: 13, G: 14, B: 15}, {R: 16, G: 17, B: 18}},
	})
	out, err := Clump(src, 0, Options{})
	require.NoError(t, err)
	assert.True(t, out.Equal(src))

	_, n, err := Regions(src, 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestZeroAlphaMergesOnlyIdenticalNeighbors(t *testing.T) {
	a := grid.Pixel{R: 50}
	b := grid.Pixel{R: 51}
	src := mustRows(t, [][]grid.Pixel{
		{a, a, b},
		{b, a, b},
	})
	labels, n, err := Regions(src, 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 2, 0, 1}, labels)
	assert.Equal(t, 3, n)

	out, err := Clump(src, 0, Options{})
	require.NoError(t, err)
	assert.True(t, out.Equal(src))
}

func TestTransitiveChainFormsOneRegion(t *testing.T) {
	// Neighbors differ by 10 but the ends differ by 40.
	row := []grid.Pixel{{R: 0}, {R: 10}, {R: 20}, {R: 30}, {R: 40}}
	src := mustRows(t, [][]grid.Pixel{row})

	out, err := Clump(src, 10, Options{})
	require.NoError(t, err)
	for x := 0; x < 5; x++ {
		assert.Equal(t, grid.Pixel{R: 20}, out.At(x, 0))
	}
}

func TestSingleColumn(t *testing.T) {
	src := mustRows(t, [][]grid.Pixel{{{R: 0}}, {{R: 4}}, {{R: 200}}})
	out, err := Clump(src, 5, Options{})
	require.NoError(t, err)
	assert.Equal(t, grid.Pixel{R: 2}, out.At(0, 0))
	assert.Equal(t, grid.Pixel{R: 2}, out.At(0, 1))
	assert.Equal(t, grid.Pixel{R: 200}, out.At(0, 2))
}

func TestLargeAlphaMakesUniformGrid(t *testing.T) {
	src := mustRows(t, [][]grid.Pixel{
		{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}},
		{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}},
	})
	out, err := Clump(src, math.MaxFloat64, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, grid.DistinctColors(out))
	assert.Equal(t, grid.Pixel{R: 128, G: 128, B: 64}, out.At(1, 1))
}

func TestDiagonalOnlyMergesWithEightConnectivity(t *testing.T) {
	a := grid.Pixel{G: 200}
	b := grid.Pixel{R: 200}
	src := mustRows(t, [][]grid.Pixel{
		{a, b},
		{b, a},
	})

	_, n4, err := Regions(src, 0, Options{Connectivity: Four})
	require.NoError(t, err)
	assert.Equal(t, 4, n4)

	_, n8, err := Regions(src, 0, Options{Connectivity: Eight})
	require.NoError(t, err)
	assert.Equal(t, 2, n8)
}

func TestSeedRecolor(t *testing.T) {
	row := []grid.Pixel{{R: 30}, {R: 20}, {R: 10}}
	src := mustRows(t, [][]grid.Pixel{row})
	out, err := Clump(src, 10, Options{Recolor: Seed})
	require.NoError(t, err)
	for x := 0; x < 3; x++ {
		assert.Equal(t, grid.Pixel{R: 30}, out.At(x, 0))
	}
}

func TestClumpNeverIncreasesDistinctColors(t *testing.T) {
	src, err := grid.New(9, 7)
	require.NoError(t, err)
	for i := range src.Pix() {
		v := uint8(i * 37 % 256)
		src.Pix()[i] = grid.Pixel{R: v, G: v / 2, B: 255 - v}
	}
	for _, alpha := range []float64{0, 5, 40, 120, 500} {
		for _, metric := range []colormetric.Metric{colormetric.Euclidean, colormetric.Chebyshev, colormetric.CIE76} {
			out, err := Clump(src, alpha, Options{Metric: metric})
			require.NoError(t, err)
			assert.LessOrEqual(t, grid.DistinctColors(out), grid.DistinctColors(src))
			assert.Equal(t, src.Width(), out.Width())
			assert.Equal(t, src.Height(), out.Height())
		}
	}
}

func TestClumpDoesNotMutateInput(t *testing.T) {
	src := checkerboard(t, 3, 3, red, blue)
	before := src.Clone()
	_, err := Clump(src, 1000, Options{})
	require.NoError(t, err)
	assert.True(t, src.Equal(before))
}

func TestClumpDeterministic(t *testing.T) {
	src := checkerboard(t, 5, 6, red, grid.Pixel{R: 240, B: 10})
	first, err := Clump(src, 30, Options{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Clump(src, 30, Options{})
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestClumpInvalidArguments(t *testing.T) {
	src := checkerboard(t, 2, 2, red, blue)

	tests := []struct {
		name  string
		grid  *grid.Grid
		alpha float64
		opts  Options
	}{
		{"negative alpha", src, -1, Options{}},
		{"NaN alpha", src, math.NaN(), Options{}},
		{"nil grid", nil, 1, Options{}},
		{"zero area grid", &grid.Grid{}, 1, Options{}},
		{"bad connectivity", src, 1, Options{Connectivity: 6}},
		{"bad recolor", src, 1, Options{Recolor: Recolor(9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Clump(tt.grid, tt.alpha, tt.opts)
			assert.Nil(t, out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, grid.ErrInvalidArgument), "got %v", err)
		})
	}
}

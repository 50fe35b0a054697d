package smooth

import (
	"errors"
	"sort"
	"testing"

	"paintbrush/internal/grid"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noisyGrid fills a grid from a fixed linear congruential sequence.
func noisyGrid(t *testing.T, w, h int) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	seed := uint32(12345)
	next := func() uint8 {
		seed = seed*1103515245 + 12345
		return uint8(seed >> 16)
	}
	for i := range g.Pix() {
		g.Pix()[i] = grid.Pixel{R: next(), G: next(), B: next()}
	}
	return g
}

// bruteMedian is the direct definition: gather the clamped window,
// sort each channel and take the middle element.
func bruteMedian(src *grid.Grid, radius int) *grid.Grid {
	w, h := src.Width(), src.Height()
	out, _ := grid.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b []int
			for j := -radius; j <= radius; j++ {
				for i := -radius; i <= radius; i++ {
					p := src.At(clamp(x+i, w), clamp(y+j, h))
					r = append(r, int(p.R))
					g = append(g, int(p.G))
					b = append(b, int(p.B))
				}
			}
			sort.Ints(r)
			sort.Ints(g)
			sort.Ints(b)
			m := len(r) / 2
			out.Set(x, y, grid.Pixel{R: uint8(r[m]), G: uint8(g[m]), B: uint8(b[m])})
		}
	}
	return out
}

func TestRadiusZeroIsIdentity(t *testing.T) {
	src := noisyGrid(t, 7, 5)
	out, err := Median(src, 0, Options{})
	require.NoError(t, err)
	assert.True(t, out.Equal(src))
	assert.NotSame(t, src, out)
}

func TestCenterOutlierIsRemoved(t *testing.T) {
	bg := grid.Pixel{R: 10, G: 10, B: 10}
	src, err := grid.Fill(3, 3, bg)
	require.NoError(t, err)
	src.Set(1, 1, grid.Pixel{R: 250, G: 250, B: 250})

	out, err := Median(src, 1, Options{})
	require.NoError(t, err)
	assert.Equal(t, bg, out.At(1, 1))
}

func TestBorderUsesEdgeReplication(t *testing.T) {
	white := grid.Pixel{R: 255, G: 255, B: 255}
	src, err := grid.Fill(4, 4, grid.Pixel{})
	require.NoError(t, err)
	src.Set(0, 0, white)
	src.Set(1, 0, white)
	src.Set(0, 1, white)
	src.Set(1, 1, white)

	out, err := Median(src, 1, Options{})
	require.NoError(t, err)
	// The clamped corner window sees only the white 2x2 block. Zero padding
	// would have produced five black samples and a black corner.
	assert.Equal(t, white, out.At(0, 0))
	assert.Equal(t, grid.Pixel{}, out.At(3, 3))
}

func TestUniformGridIsUnchangedAtBorders(t *testing.T) {
	p := grid.Pixel{R: 200, G: 100, B: 50}
	src, err := grid.Fill(5, 3, p)
	require.NoError(t, err)
	for _, radius := range []int{1, 3, 6} {
		out, err := Median(src, radius, Options{})
		require.NoError(t, err)
		assert.True(t, out.Equal(src), "radius %d", radius)
	}
}

func TestMatchesBruteForce(t *testing.T) {
	src := noisyGrid(t, 13, 9)
	for _, radius := range []int{1, 2, 3, 4, 7} {
		want := bruteMedian(src, radius)
		got, err := Median(src, radius, Options{Workers: 3})
		require.NoError(t, err)
		if diff := cmp.Diff(want.Rows(), got.Rows()); diff != "" {
			t.Errorf("radius %d mismatch (-want +got):\n%s", radius, diff)
		}
	}
}

func TestWorkerCountDoesNotChangeResult(t *testing.T) {
	src := noisyGrid(t, 20, 11)
	for _, radius := range []int{1, 3} {
		seq, err := Median(src, radius, Options{Workers: 1})
		require.NoError(t, err)
		par, err := Median(src, radius, Options{Workers: 16})
		require.NoError(t, err)
		assert.True(t, seq.Equal(par), "radius %d", radius)
	}
}

func TestShapePreservedOnDegenerateGrids(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {1, 6}, {6, 1}} {
		src := noisyGrid(t, dims[0], dims[1])
		out, err := Median(src, 2, Options{})
		require.NoError(t, err)
		assert.Equal(t, dims[0], out.Width())
		assert.Equal(t, dims[1], out.Height())
	}
}

func TestRoughnessNonIncreasingWithRadius(t *testing.T) {
	src, err := grid.Fill(8, 8, grid.Pixel{R: 50, G: 60, B: 70})
	require.NoError(t, err)
	speck := grid.Pixel{R: 250, G: 250, B: 250}
	src.Set(2, 2, speck)
	src.Set(5, 5, speck)
	src.Set(6, 1, speck)

	prev := grid.Roughness(src)
	require.Greater(t, prev, 0.0)
	for radius := 1; radius <= 4; radius++ {
		out, err := Median(src, radius, Options{})
		require.NoError(t, err)
		cur := grid.Roughness(out)
		assert.LessOrEqual(t, cur, prev, "radius %d", radius)
		prev = cur
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	src := noisyGrid(t, 6, 6)
	before := src.Clone()
	_, err := Median(src, 2, Options{})
	require.NoError(t, err)
	assert.True(t, src.Equal(before))
}

func TestMedianInvalidArguments(t *testing.T) {
	src := noisyGrid(t, 2, 2)

	_, err := Median(src, -1, Options{})
	assert.True(t, errors.Is(err, grid.ErrInvalidArgument))

	_, err = Median(&grid.Grid{}, 1, Options{})
	assert.True(t, errors.Is(err, grid.ErrInvalidArgument))

	_, err = Median(nil, 1, Options{})
	assert.True(t, errors.Is(err, grid.ErrInvalidArgument))
}

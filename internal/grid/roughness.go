package grid

import "gonum.org/v1/gonum/stat"

// Roughness measures total neighbor-to-neighbor color variance: the mean
// squared channel difference over every horizontal and vertical pixel pair.
// A uniform grid scores 0.
func Roughness(g *Grid) float64 {
	w, h := g.width, g.height
	diffs := make([]float64, 0, 2*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := g.pix[y*w+x]
			if x+1 < w {
				diffs = append(diffs, sqDiff(p, g.pix[y*w+x+1]))
			}
			if y+1 < h {
				diffs = append(diffs, sqDiff(p, g.pix[(y+1)*w+x]))
			}
		}
	}
	if len(diffs) == 0 {
		return 0
	}
	return stat.Mean(diffs, nil)
}

func sqDiff(a, b Pixel) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return dr*dr + dg*dg + db*db
}

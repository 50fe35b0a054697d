package grid

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// FromImage converts any decoded image into a grid. Alpha is discarded:
// non-premultiplied color values are kept as-is.
func FromImage(src image.Image) (*Grid, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("grid: image bounds %v: %w", b, ErrInvalidArgument)
	}

	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
		b = nrgba.Bounds()
	}

	g, err := New(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		off := (y+b.Min.Y-nrgba.Rect.Min.Y)*nrgba.Stride + (b.Min.X-nrgba.Rect.Min.X)*4
		for x := 0; x < w; x++ {
			i := off + x*4
			g.pix[y*w+x] = Pixel{R: nrgba.Pix[i], G: nrgba.Pix[i+1], B: nrgba.Pix[i+2]}
		}
	}
	return g, nil
}

// ToNRGBA renders g as a fully opaque NRGBA image anchored at (0, 0).
func (g *Grid) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		off := y * img.Stride
		for x := 0; x < g.width; x++ {
			p := g.pix[y*g.width+x]
			i := off + x*4
			img.Pix[i] = p.R
			img.Pix[i+1] = p.G
			img.Pix[i+2] = p.B
			img.Pix[i+3] = 255
		}
	}
	return img
}

// Package imageio loads images into pixel grids and saves grids back to
// disk. It is the only place in the repository that touches image files.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"paintbrush/internal/grid"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

// decoders maps lowercase extensions to their decoder. TGA has no magic
// number, so formats are chosen by extension rather than sniffed.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".png":  png.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// Supported reports whether Load can decode files with path's extension.
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load decodes the image at path and converts it to a grid. Alpha is dropped.
func Load(path string) (*grid.Grid, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("imageio: unsupported extension %q: %s", ext, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: read %s: %w", path, err)
	}

	img, err := decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	g, err := grid.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("imageio: %s: %w", path, err)
	}
	return g, nil
}

// Save encodes g to path, choosing the format from the extension:
// .webp is written lossless, .jpg/.jpeg at the given quality, and every
// other extension imaging knows (png, gif, bmp, tif) as-is.
// Parent directories are created as needed.
func Save(path string, g *grid.Grid, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: mkdir for %s: %w", path, err)
	}

	img := g.ToNRGBA()

	if strings.ToLower(filepath.Ext(path)) == ".webp" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("imageio: create %s: %w", path, err)
		}
		defer f.Close()
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("imageio: WebP encode %s: %w", path, err)
		}
		return f.Close()
	}

	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("imageio: %s: %w", path, err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("imageio: save %s: %w", path, err)
	}
	return nil
}

// OutputPath derives a default output path next to input:
// photo.jpg becomes photo_painted.png.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_painted.png"
}

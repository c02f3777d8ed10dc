// Package texture decodes model textures into RGBA images and keeps them in
// a table shared by every material of a model.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "github.com/oov/psd"      // PSD decoder registration
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Decode decodes an encoded image. The name's extension selects the TGA
// decoder; everything else goes through image.Decode. With magentaKey set,
// magenta pixels become transparent.
func Decode(data []byte, name string, magentaKey bool) (*image.RGBA, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: %w", name, ErrEmptyImage)
	}
	return ImageToRGBA(img, magentaKey), nil
}

// IsMagentaKey reports whether a color is the magenta transparency key.
// The tolerance absorbs BMP encoder rounding.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ApplyMagentaKey makes magenta pixels transparent black, so filtering does
// not bleed the key color into neighbours.
func ApplyMagentaKey(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if IsMagentaKey(img.Pix[i], img.Pix[i+1], img.Pix[i+2]) {
				copy(img.Pix[i:i+4], []uint8{0, 0, 0, 0})
			}
		}
	}
}

// ImageToRGBA converts img to an RGBA image with its origin at (0, 0).
func ImageToRGBA(img image.Image, magentaKey bool) *image.RGBA {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	if magentaKey {
		ApplyMagentaKey(rgba)
	}
	return rgba
}

// Solid returns a 1x1 image of the given color, used in place of missing textures.
func Solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

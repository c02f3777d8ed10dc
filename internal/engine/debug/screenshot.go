package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshots writes rendered frames as PNG files into a directory.
type Screenshots struct {
	Dir string
	now func() time.Time
}

// NewScreenshots returns a writer for dir.
func NewScreenshots(dir string) *Screenshots {
	return &Screenshots{Dir: dir, now: time.Now}
}

// FlipRGBA builds an image from bottom-up RGBA pixel rows as returned by
// glReadPixels.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: %dx%d with %d bytes", width, height, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}

// Filename returns the path a screenshot of the named model would get now.
func (s *Screenshots) Filename(model string) string {
	base := strings.TrimSuffix(filepath.Base(model), filepath.Ext(model))
	if base == "" || base == "." {
		base = "skinview"
	}
	name := fmt.Sprintf("%s_%s.png", base, s.now().Format("2006-01-02_15-04-05"))
	return filepath.Join(s.Dir, name)
}

// Save writes img as a screenshot of the named model and returns its path.
func (s *Screenshots) Save(model string, img image.Image) (string, error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return "", fmt.Errorf("creating screenshot dir: %w", err)
		}
	}
	path := s.Filename(model)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating screenshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding screenshot: %w", err)
	}
	return path, nil
}

package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/skinview/pkg/math"
)

func TestGridLines(t *testing.T) {
	v := GridLines(2)
	if len(v) != GridLineCount*2 {
		t.Fatalf("got %d vertices, want %d", len(v), GridLineCount*2)
	}

	red, blue, green := 0, 0, 0
	for i := 0; i < len(v); i += 2 {
		a, b := v[i], v[i+1]
		c := [3]float32{a.R, a.G, a.B}
		switch c {
		case XAxisColor:
			red++
			if a.X != 0 || b.X != 0 {
				t.Errorf("red line at x=%v, want 0", a.X)
			}
		case ZAxisColor:
			blue++
			if a.Z != 0 || b.Z != 0 {
				t.Errorf("blue line at z=%v, want 0", a.Z)
			}
		case YAxisColor:
			green++
			if a.Y != -10 || b.Y != 10 {
				t.Errorf("Y axis spans %v..%v, want -10..10", a.Y, b.Y)
			}
		case GridColor:
			if a.Y != 0 || b.Y != 0 {
				t.Error("grid line off the XZ plane")
			}
		default:
			t.Errorf("unexpected color %v", c)
		}
	}
	if red != 1 || blue != 1 || green != 1 {
		t.Errorf("axis lines red=%d blue=%d green=%d, want one each", red, blue, green)
	}
	// outermost X line sits at 5 * scale
	if v[0].X != -10 || v[0].Z != -10 || v[1].Z != 10 {
		t.Errorf("first line = %+v..%+v", v[0], v[1])
	}
}

func TestBoundsLines(t *testing.T) {
	v := BoundsLines(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{X: -1, Y: -2, Z: -3}, 0.5)
	if len(v) != BoundsLineCount*2 {
		t.Fatalf("got %d vertices, want %d", len(v), BoundsLineCount*2)
	}
	lo := math.Vec3{X: 1e9, Y: 1e9, Z: 1e9}
	hi := lo.Scale(-1)
	for i := 0; i < len(v); i += 2 {
		a, b := v[i], v[i+1]
		// every edge is axis aligned
		diff := 0
		for _, d := range []float32{a.X - b.X, a.Y - b.Y, a.Z - b.Z} {
			if d != 0 {
				diff++
			}
		}
		if diff != 1 {
			t.Errorf("edge %d is not axis aligned: %+v %+v", i/2, a, b)
		}
		for _, p := range []LineVertex{a, b} {
			lo = lo.Min(math.Vec3{X: p.X, Y: p.Y, Z: p.Z})
			hi = hi.Max(math.Vec3{X: p.X, Y: p.Y, Z: p.Z})
		}
	}
	if lo != (math.Vec3{X: -1.5, Y: -2.5, Z: -3.5}) || hi != (math.Vec3{X: 1.5, Y: 2.5, Z: 3.5}) {
		t.Errorf("wireframe spans %v..%v", lo, hi)
	}
}

func TestFlipRGBA(t *testing.T) {
	// bottom row red, top row blue as read back from GL
	pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	img, err := FlipRGBA(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FlipRGBA failed: %v", err)
	}
	if img.Pix[2] != 255 || img.Pix[4] != 255 {
		t.Errorf("rows not flipped: %v", img.Pix)
	}
	if _, err := FlipRGBA(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestScreenshotsSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	img, err := FlipRGBA(make([]byte, 16), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	path, err := s.Save("/models/robot.gltf", img)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if want := filepath.Join(dir, "robot_2024-05-01_12-30-00.png"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("saved file is not a PNG: %v", err)
	}
}

package debug

import "github.com/Faultbox/skinview/pkg/math"

// BoundsColor is the color of the bounding box wireframe.
var BoundsColor = [3]float32{1, 1, 0}

// BoundsLineCount is the number of lines in a box wireframe.
const BoundsLineCount = 12

// BoundsLines returns the 12 edges of the box lo..hi, grown by padding on
// every side. Inverted boxes are normalized first.
func BoundsLines(lo, hi math.Vec3, padding float32) []LineVertex {
	lo, hi = lo.Min(hi), lo.Max(hi)
	p := math.Vec3{X: padding, Y: padding, Z: padding}
	lo, hi = lo.Sub(p), hi.Add(p)

	corner := func(x, y, z bool) [3]float32 {
		c := [3]float32{lo.X, lo.Y, lo.Z}
		if x {
			c[0] = hi.X
		}
		if y {
			c[1] = hi.Y
		}
		if z {
			c[2] = hi.Z
		}
		return c
	}

	vertices := make([]LineVertex, 0, BoundsLineCount*2)
	for _, y := range []bool{false, true} {
		// bottom face, then top face
		vertices = append(vertices, line(corner(false, y, false), corner(true, y, false), BoundsColor)...)
		vertices = append(vertices, line(corner(true, y, false), corner(true, y, true), BoundsColor)...)
		vertices = append(vertices, line(corner(true, y, true), corner(false, y, true), BoundsColor)...)
		vertices = append(vertices, line(corner(false, y, true), corner(false, y, false), BoundsColor)...)
	}
	for _, x := range []bool{false, true} {
		for _, z := range []bool{false, true} {
			vertices = append(vertices, line(corner(x, false, z), corner(x, true, z), BoundsColor)...)
		}
	}
	return vertices
}

// Package debug builds line geometry for the viewer overlays: the reference
// grid and the bounding box wireframe.
package debug

// LineVertex is one endpoint of a colored line.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// GridHalfLines is the number of grid lines on each side of an axis.
const GridHalfLines = 5

// Grid colors.
var (
	GridColor  = [3]float32{0.5, 0.5, 0.5}
	XAxisColor = [3]float32{1, 0, 0}
	ZAxisColor = [3]float32{0, 0, 1}
	YAxisColor = [3]float32{0, 1, 0}
)

func line(a, b, c [3]float32) []LineVertex {
	return []LineVertex{
		{a[0], a[1], a[2], c[0], c[1], c[2]},
		{b[0], b[1], b[2], c[0], c[1], c[2]},
	}
}

// GridLines returns the reference grid on the XZ plane: 11 lines along each
// axis spaced by scale, followed by a vertical Y axis of the same extent.
// The line through x=0 is red and the line through z=0 is blue.
func GridLines(scale float32) []LineVertex {
	extent := GridHalfLines * scale
	vertices := make([]LineVertex, 0, GridLineCount*2)

	for i := -GridHalfLines; i <= GridHalfLines; i++ {
		x := float32(i) * scale
		c := GridColor
		if i == 0 {
			c = XAxisColor
		}
		vertices = append(vertices, line([3]float32{x, 0, -extent}, [3]float32{x, 0, extent}, c)...)
	}
	for i := -GridHalfLines; i <= GridHalfLines; i++ {
		z := float32(i) * scale
		c := GridColor
		if i == 0 {
			c = ZAxisColor
		}
		vertices = append(vertices, line([3]float32{-extent, 0, z}, [3]float32{extent, 0, z}, c)...)
	}
	return append(vertices, line([3]float32{0, -extent, 0}, [3]float32{0, extent, 0}, YAxisColor)...)
}

// GridLineCount is the number of lines GridLines emits.
const GridLineCount = 2*(2*GridHalfLines+1) + 1

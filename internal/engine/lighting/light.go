// Package lighting provides the directional light of the model view.
package lighting

import "math"

// Default light angles in degrees.
const (
	DefaultAzimuth   = 20
	DefaultElevation = 30
)

// Direction converts azimuth and elevation in degrees to a unit vector
// pointing towards the light. Azimuth turns around Y starting at +Z towards
// +X; elevation rises from the horizon. The light is given in view space,
// so it follows the camera.
func Direction(azimuth, elevation float32) [3]float32 {
	az := float64(azimuth) * math.Pi / 180
	el := float64(elevation) * math.Pi / 180

	x := float32(math.Cos(el) * math.Sin(az))
	y := float32(math.Sin(el))
	z := float32(math.Cos(el) * math.Cos(az))
	return [3]float32{x, y, z}
}

// ClampElevation keeps the elevation within [-90, 90].
func ClampElevation(elevation float32) float32 {
	return min(max(elevation, -90), 90)
}

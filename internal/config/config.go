// Package config handles viewer configuration loading and management.
package config

// Animation speed limits shared by the config layer and the playback controls.
const (
	MinSpeed = 0.1
	MaxSpeed = 10.0
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	VSync  bool `yaml:"vsync"`
}

// ViewerConfig holds the initial state of the viewer controls.
type ViewerConfig struct {
	FOV        float32    `yaml:"fov"` // horizontal field of view, degrees
	Background [4]float32 `yaml:"background"`
	ShowGrid   bool       `yaml:"show_grid"`
	ShowBounds bool       `yaml:"show_bounds"`
	TwoSided   bool       `yaml:"two_sided"`
	Animate    bool       `yaml:"animate"`
	Speed      float32    `yaml:"speed"`
	Reverse    bool       `yaml:"reverse"`
	Watch      bool       `yaml:"watch"` // reload the model when its file changes
	LastModel  string     `yaml:"last_model"`

	// Light angles in degrees, relative to the camera.
	LightAzimuth   float32 `yaml:"light_azimuth"`
	LightElevation float32 `yaml:"light_elevation"`

	// ScreenshotDir receives F12 captures. Empty means <tmp>/skinview.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 800,
			VSync:  true,
		},
		Viewer: ViewerConfig{
			FOV:        35,
			Background: [4]float32{0.3, 0.3, 0.3, 1},
			ShowGrid:   true,
			Animate:    true,
			Speed:      1,

			LightAzimuth:   20,
			LightElevation: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Normalize clamps out-of-range values to usable ones.
func (c *Config) Normalize() {
	c.Viewer.Speed = ClampSpeed(c.Viewer.Speed)
	if c.Viewer.FOV <= 0 || c.Viewer.FOV >= 180 {
		c.Viewer.FOV = Default().Viewer.FOV
	}
	if c.Window.Width <= 0 {
		c.Window.Width = Default().Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = Default().Window.Height
	}
}

// ClampSpeed limits an animation speed multiplier to [MinSpeed, MaxSpeed].
func ClampSpeed(s float32) float32 {
	if s < MinSpeed {
		return MinSpeed
	}
	if s > MaxSpeed {
		return MaxSpeed
	}
	return s
}

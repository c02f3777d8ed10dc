package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagWidth  = flag.Int("width", 0, "Window width")
	flagHeight = flag.Int("height", 0, "Window height")
	flagSpeed  = flag.Float64("speed", 0, "Animation speed multiplier (0.1-10)")
	flagNoGrid = flag.Bool("no-grid", false, "Hide the reference grid")
	flagWatch  = flag.Bool("watch", false, "Reload the model when its file changes")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ModelPath returns the first positional argument, the model to open on start.
func ModelPath() string {
	return flag.Arg(0)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagSpeed > 0 {
		cfg.Viewer.Speed = float32(*flagSpeed)
	}
	if *flagNoGrid {
		cfg.Viewer.ShowGrid = false
	}
	if *flagWatch {
		cfg.Viewer.Watch = true
	}
}

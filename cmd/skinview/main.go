// Command skinview is an interactive viewer for skinned, animated models.
//
// Usage:
//
//	skinview [flags] [model.gltf|model.glb|model.rsm]
//
// Drop a file on the window or use Open to load another model.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/config"
	"github.com/Faultbox/skinview/internal/logger"
)

func main() {
	// SDL and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== SkinView ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := NewApp(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}

	path := config.ModelPath()
	if path == "" {
		path = cfg.Viewer.LastModel
	}
	if path != "" {
		// A failed start-up load leaves an empty scene.
		_ = app.Open(path)
	}

	app.Run()
	app.Close()

	if err := cfg.Save(); err != nil {
		logger.Warn("saving config", zap.Error(err))
	}
	logger.Info("viewer closed normally")
}

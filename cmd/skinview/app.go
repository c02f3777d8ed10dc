package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/config"
	"github.com/Faultbox/skinview/internal/engine/camera"
	"github.com/Faultbox/skinview/internal/engine/debug"
	"github.com/Faultbox/skinview/internal/engine/lighting"
	"github.com/Faultbox/skinview/internal/engine/model"
	"github.com/Faultbox/skinview/internal/engine/playback"
	"github.com/Faultbox/skinview/internal/engine/render"
	"github.com/Faultbox/skinview/internal/engine/ui"
	"github.com/Faultbox/skinview/internal/engine/watch"
	"github.com/Faultbox/skinview/internal/logger"
	"github.com/Faultbox/skinview/pkg/scene"
)

const (
	windowTitle = "SkinView"
	panelWidth  = 320
	statusTTL   = 4 * time.Second
)

// App is the viewer state. Everything except the dialog goroutine runs on
// the render thread.
type App struct {
	cfg      *config.Config
	backend  *ui.Backend
	renderer *render.Renderer
	camera   *camera.OrbitCamera
	player   *playback.Player
	watcher  *watch.Watcher
	shots    *debug.Screenshots

	path      string
	lastFrame time.Time
	lastMouse imgui.Vec2

	// Paths picked in the open dialog, consumed on the render thread.
	opened chan string

	status     string
	statusTime time.Time
}

// NewApp creates the window and the GPU resources.
func NewApp(cfg *config.Config) (*App, error) {
	b, err := ui.NewBackend(windowTitle, int32(cfg.Window.Width), int32(cfg.Window.Height))
	if err != nil {
		return nil, err
	}
	r, err := render.New(int32(cfg.Window.Width-panelWidth), int32(cfg.Window.Height))
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	r.LightDir = lighting.Direction(cfg.Viewer.LightAzimuth, cfg.Viewer.LightElevation)

	shotDir := cfg.Viewer.ScreenshotDir
	if shotDir == "" {
		shotDir = filepath.Join(os.TempDir(), "skinview")
	}

	return &App{
		cfg:      cfg,
		backend:  b,
		renderer: r,
		camera:   camera.NewOrbitCamera(cfg.Viewer.FOV),
		player:   playback.New(cfg.Viewer),
		shots:    debug.NewScreenshots(shotDir),
		opened:   make(chan string, 1),
	}, nil
}

// Run blocks until the window is closed.
func (a *App) Run() {
	a.lastFrame = time.Now()
	a.backend.Run(a.render)
}

// Close releases the model, the watcher and the GPU resources.
func (a *App) Close() {
	a.stopWatching()
	a.renderer.Destroy()
	a.syncConfig()
}

// Open loads the model at path and frames it. On failure the current model
// stays loaded.
func (a *App) Open(path string) error {
	if err := a.load(path); err != nil {
		return err
	}
	m := a.player.Model()
	a.camera.Fit(m.Bounds.Min, m.Bounds.Max)

	a.path = path
	if abs, err := filepath.Abs(path); err == nil {
		a.cfg.Viewer.LastModel = abs
	}
	a.backend.SetWindowTitle(fmt.Sprintf("%s - %s", windowTitle, filepath.Base(path)))
	if a.cfg.Viewer.Watch {
		a.startWatching(path)
	}
	return nil
}

// load replaces the model without touching the camera.
func (a *App) load(path string) error {
	start := time.Now()
	m, err := model.Load(path, model.Options{})
	if err != nil {
		logger.Error("load failed", zap.String("path", path), zap.Error(err))
		a.setStatus(loadErrorText(err))
		return err
	}
	a.player.SetModel(m)
	a.renderer.Upload(m)

	vertices, triangles := model.MeshInfo(m)
	logger.Info("model ready",
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(start)))
	a.setStatus(fmt.Sprintf("%s: %d vertices, %d triangles", filepath.Base(path), vertices, triangles))
	return nil
}

func loadErrorText(err error) string {
	switch {
	case errors.Is(err, scene.ErrUnsupportedFormat):
		return "Unsupported file type"
	case errors.Is(err, model.ErrZeroWeightSum):
		return "Broken skin: a vertex has no bone weight"
	default:
		return err.Error()
	}
}

func (a *App) startWatching(path string) {
	a.stopWatching()
	w, err := watch.New(path, watch.DefaultDelay)
	if err != nil {
		logger.Warn("cannot watch model", zap.String("path", path), zap.Error(err))
		return
	}
	a.watcher = w
}

func (a *App) stopWatching() {
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusTime = time.Now()
}

// openDialog shows the native file dialog without blocking the frame.
func (a *App) openDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("Models", scene.SupportedExtensions()...).
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("file dialog", zap.Error(err))
			}
			return
		}
		select {
		case a.opened <- filename:
		default:
		}
	}()
}

// pollFiles handles dialog results, dropped files and watcher reloads.
func (a *App) pollFiles() {
	select {
	case path := <-a.opened:
		_ = a.Open(path)
	default:
	}

	if dropped := a.backend.TakeDropped(); len(dropped) > 0 {
		path := dropped[0]
		if !scene.IsSupported(path) {
			a.setStatus("Unsupported file type: " + filepath.Base(path))
		} else {
			_ = a.Open(path)
		}
	}

	if a.watcher != nil {
		select {
		case path := <-a.watcher.Changed:
			logger.Info("model changed on disk, reloading", zap.String("path", path))
			_ = a.load(path)
		default:
		}
	}
}

func (a *App) render() {
	now := time.Now()
	dt := now.Sub(a.lastFrame).Seconds()
	a.lastFrame = now

	a.pollFiles()
	a.handleKeys()
	a.player.Tick(dt)

	pos, size := ui.Workspace()
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(pos)
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, size.Y))
	if imgui.BeginV("Model", nil, flags) {
		a.renderPanel()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(pos.X+panelWidth, pos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(size.X-panelWidth, size.Y))
	viewFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar
	if imgui.BeginV("##Viewport", nil, viewFlags) {
		a.renderViewport()
	}
	imgui.End()

	if a.status != "" && time.Since(a.statusTime) < statusTTL {
		a.renderStatus(imgui.NewVec2(pos.X+panelWidth+10, pos.Y+10))
	}
}

func (a *App) renderViewport() {
	avail := imgui.ContentRegionAvail()
	a.renderer.Resize(int32(avail.X), int32(avail.Y))

	tex := a.renderer.Draw(a.player.Model(), render.Frame{
		Camera:     a.camera,
		Background: a.cfg.Viewer.Background,
		ShowGrid:   a.player.ShowGrid,
		ShowBounds: a.player.ShowBounds,
		TwoSided:   a.player.TwoSided,
	})

	in := ui.Viewport(tex, avail, &a.lastMouse)
	if in.Dragged {
		a.camera.Drag(camera.DragModeFor(ui.Modifiers()), in.DX, in.DY)
	}
	if in.Wheel != 0 {
		a.camera.Zoom(in.Wheel)
	}
}

func (a *App) renderStatus(pos imgui.Vec2) {
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoFocusOnAppearing
	imgui.SetNextWindowPos(pos)
	imgui.SetNextWindowBgAlpha(0.85)
	if imgui.BeginV("##Status", nil, flags) {
		imgui.Text(a.status)
	}
	imgui.End()
}

func (a *App) handleKeys() {
	switch {
	case ui.IsKeyPressed(imgui.KeyR):
		a.player.Reset()
		if m := a.player.Model(); m != nil {
			a.camera.Fit(m.Bounds.Min, m.Bounds.Max)
		} else {
			a.camera = camera.NewOrbitCamera(a.cfg.Viewer.FOV)
		}
	case ui.IsKeyPressed(imgui.KeySpace):
		a.player.TogglePlay()
	case ui.IsKeyPressed(imgui.KeyM):
		a.player.ToggleNoAnim()
	case ui.IsKeyPressed(imgui.KeyG):
		a.player.ToggleGrid()
	case ui.IsKeyPressed(imgui.KeyB):
		a.player.ToggleBounds()
	case ui.IsKeyPressed(imgui.KeyD):
		a.player.ToggleTwoSided()
	case ui.IsKeyPressed(imgui.KeyF):
		a.player.ToggleReverse()
	case ui.IsKeyPressed(imgui.KeyPeriod):
		a.player.SpeedUp()
	case ui.IsKeyPressed(imgui.KeyComma):
		a.player.SlowDown()
	case ui.IsKeyPressed(imgui.KeyO):
		a.openDialog()
	case ui.IsKeyPressed(imgui.KeyF12):
		a.screenshot()
	}
}

func (a *App) screenshot() {
	fb := a.renderer.Framebuffer()
	w, h := fb.Size()
	img, err := debug.FlipRGBA(fb.ReadPixels(), int(w), int(h))
	if err != nil {
		logger.Error("screenshot", zap.Error(err))
		return
	}
	name := a.path
	if name == "" {
		name = "empty"
	}
	path, err := a.shots.Save(name, img)
	if err != nil {
		logger.Error("screenshot", zap.Error(err))
		a.setStatus("Screenshot failed")
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
	a.setStatus("Saved " + path)
}

// syncConfig copies the runtime toggles back so they are saved on exit.
func (a *App) syncConfig() {
	v := &a.cfg.Viewer
	v.ShowGrid = a.player.ShowGrid
	v.ShowBounds = a.player.ShowBounds
	v.TwoSided = a.player.TwoSided
	v.Animate = a.player.Animate
	v.Speed = float32(a.player.Speed)
	v.Reverse = a.player.Reversed
	v.FOV = a.camera.FOV
}

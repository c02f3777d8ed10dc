// Package ui wraps the ImGui SDL backend and the widgets of the viewer.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/logger"
)

// glyphRanges covers Latin and the CJK blocks node and texture names are
// commonly written in. Pairs of [start, end] terminated by 0.
var glyphRanges = []imgui.Wchar{
	0x0020, 0x00FF, // Basic Latin + Latin Supplement
	0x3000, 0x30FF, // CJK Symbols and Punctuation, Hiragana, Katakana
	0x3130, 0x318F, // Hangul Compatibility Jamo
	0x4E00, 0x9FAF, // CJK Unified Ideographs
	0xAC00, 0xD7AF, // Hangul Syllables
	0xFF00, 0xFFEF, // Halfwidth and Fullwidth Forms
	0, // Terminator
}

var fontPaths = []string{
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"C:\\Windows\\Fonts\\meiryo.ttc",
	"C:\\Windows\\Fonts\\malgun.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
}

// Backend is the application window.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	dropped []string
}

// NewBackend creates the window and initializes OpenGL.
func NewBackend(title string, width, height int32) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	// Fonts must be added before the first frame builds the atlas.
	b.backend.SetAfterCreateContextHook(loadFont)

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, int(width), int(height))
	b.backend.SetDropCallback(func(paths []string) {
		b.dropped = append(b.dropped, paths...)
	})

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}
	logger.Info("window created",
		zap.String("gl", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Int32("width", width),
		zap.Int32("height", height))
	return b, nil
}

func loadFont() {
	var fontPath string
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			fontPath = path
			break
		}
	}
	if fontPath == "" {
		logger.Debug("no CJK font found, using the default font")
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	imgui.CurrentIO().Fonts().AddFontFromFileTTFV(fontPath, 16.0, fontCfg, &glyphRanges[0])
	logger.Debug("font loaded", zap.String("path", fontPath))
}

// Run starts the main render loop.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// TakeDropped returns the files dropped on the window since the last call.
// Drops are delivered on the render thread.
func (b *Backend) TakeDropped() []string {
	paths := b.dropped
	b.dropped = nil
	return paths
}

// Workspace returns the main viewport work area.
func Workspace() (pos, size imgui.Vec2) {
	viewport := imgui.MainViewport()
	return viewport.WorkPos(), viewport.WorkSize()
}

// IsKeyPressed checks if a key was pressed this frame. Presses are ignored
// while a text field has keyboard focus.
func IsKeyPressed(key imgui.Key) bool {
	if imgui.CurrentIO().WantTextInput() {
		return false
	}
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// Modifiers reports whether Shift and Ctrl are held.
func Modifiers() (shift, ctrl bool) {
	return imgui.IsKeyDown(imgui.ModShift), imgui.IsKeyDown(imgui.ModCtrl)
}

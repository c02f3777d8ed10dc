// Package playback holds the runtime controls of the viewer: animation
// play/pause and speed, clip selection and the display toggles.
package playback

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/config"
	"github.com/Faultbox/skinview/internal/engine/model"
	"github.com/Faultbox/skinview/internal/logger"
)

// Speed steps applied by SpeedUp and SlowDown.
const (
	speedUpFactor  = 1.25
	slowDownFactor = 0.95
	defaultSpeed   = 1.0
)

// Player drives a model's animation and carries the display toggles.
type Player struct {
	Animate bool // advance time on Tick
	NoAnim  bool // hold the rest pose
	Speed   float64
	Clip    int
	Time    float64 // seconds since the clip started

	ShowGrid   bool
	ShowBounds bool
	TwoSided   bool
	Reversed   bool

	model *model.Model
}

// New returns a player initialized from the viewer config.
func New(cfg config.ViewerConfig) *Player {
	return &Player{
		Animate:    cfg.Animate,
		Speed:      float64(config.ClampSpeed(cfg.Speed)),
		ShowGrid:   cfg.ShowGrid,
		ShowBounds: cfg.ShowBounds,
		TwoSided:   cfg.TwoSided,
		Reversed:   cfg.Reverse,
	}
}

// Model returns the controlled model, or nil.
func (p *Player) Model() *model.Model {
	return p.model
}

// SetModel hands a freshly loaded model to the player. Time and clip
// restart; the reverse and no-animation toggles are applied to it.
func (p *Player) SetModel(m *model.Model) {
	p.model = m
	p.Time = 0
	p.Clip = 0
	if m == nil {
		return
	}
	if p.Reversed {
		model.Reverse(m)
	}
	if p.NoAnim {
		p.restPose()
	}
}

// Tick advances playback by dt seconds scaled by Speed and poses the model.
// It reports whether the model was posed.
func (p *Player) Tick(dt float64) bool {
	if !p.Animate || p.NoAnim || p.model == nil || !p.model.HasAnim() {
		return false
	}
	p.Time += dt * p.Speed
	p.model.Update(p.Time, p.Clip)
	return true
}

func (p *Player) restPose() {
	model.ResetNodes(p.model)
	p.model.Propagate()
	p.model.UpdateBones()
}

// TogglePlay pauses or resumes playback.
func (p *Player) TogglePlay() {
	p.Animate = !p.Animate
}

// ToggleNoAnim switches the rest-pose hold. Entering it resets every node
// to its load-time transform.
func (p *Player) ToggleNoAnim() {
	p.NoAnim = !p.NoAnim
	if p.NoAnim && p.model != nil {
		p.restPose()
	}
}

// SetSpeed sets the speed multiplier, clamped to the allowed range.
func (p *Player) SetSpeed(s float64) {
	p.Speed = float64(config.ClampSpeed(float32(s)))
	logger.Debug("animation speed", zap.Float64("speed", p.Speed))
}

// SpeedUp raises the speed by a quarter.
func (p *Player) SpeedUp() {
	p.SetSpeed(p.Speed * speedUpFactor)
}

// SlowDown lowers the speed by five percent.
func (p *Player) SlowDown() {
	p.SetSpeed(p.Speed * slowDownFactor)
}

// SelectClip switches to clip i and restarts it. Invalid indices are ignored.
func (p *Player) SelectClip(i int) {
	if p.model == nil || i < 0 || i >= len(p.model.Animations) {
		return
	}
	p.Clip = i
	p.Time = 0
}

// ToggleGrid shows or hides the reference grid.
func (p *Player) ToggleGrid() {
	p.ShowGrid = !p.ShowGrid
}

// ToggleBounds shows or hides the bounding box.
func (p *Player) ToggleBounds() {
	p.ShowBounds = !p.ShowBounds
}

// ToggleTwoSided switches back-face culling off or on.
func (p *Player) ToggleTwoSided() {
	p.TwoSided = !p.TwoSided
}

// ToggleReverse flips the draw order of the model.
func (p *Player) ToggleReverse() {
	p.Reversed = !p.Reversed
	if p.model != nil {
		model.Reverse(p.model)
	}
}

// Reset restores normal playback at the default speed.
func (p *Player) Reset() {
	p.Speed = defaultSpeed
	p.Animate = true
	p.NoAnim = false
}

// Settings returns the flag summary shown in the control panel: D for
// two-sided, A for animating, M for no-animation and F for reversed, each
// replaced by a space when off.
func (p *Player) Settings() string {
	flags := []struct {
		on bool
		c  string
	}{
		{p.TwoSided, "D"},
		{p.Animate, "A"},
		{p.NoAnim, "M"},
		{p.Reversed, "F"},
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = " "
		if f.on {
			parts[i] = f.c
		}
	}
	return strings.Join(parts, " ")
}

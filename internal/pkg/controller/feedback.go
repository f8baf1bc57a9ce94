package controller

import (
	"fmt"

	"github.com/gethiox/cuepad/internal/pkg/cue"
	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/gethiox/cuepad/internal/pkg/midi"
	"github.com/gethiox/cuepad/internal/pkg/midi/driver"
	"github.com/gethiox/cuepad/internal/pkg/surface"
	"go.uber.org/zap"
)

// feedback is always sent on the first channel
const feedbackChannel = 0

// StateColor returns indicator color for cue state, first match wins since state flags may combine.
// No color is returned for a cue that is not running, paused nor stopped.
func StateColor(s cue.State) (surface.LogicalColor, bool) {
	switch {
	case s.Has(cue.IsRunning):
		return surface.Green, true
	case s.Has(cue.IsPaused):
		return surface.GreenBlink, true
	case s.Has(cue.IsStopped):
		return surface.Yellow, true
	default:
		return surface.Off, false
	}
}

type Feedback struct {
	out     driver.Output
	profile surface.Profile
	layout  surface.Layout
	monitor func(control uint8, c surface.LogicalColor)
}

func NewFeedback(out driver.Output, profile surface.Profile) *Feedback {
	return &Feedback{
		out:     out,
		profile: profile,
		layout:  profile.Layout(),
	}
}

// Monitor registers fn called with every requested indicator change, regardless of output state.
// It has to be set before feedback is used.
func (f *Feedback) Monitor(fn func(control uint8, c surface.LogicalColor)) {
	f.monitor = fn
}

// Send lights control with given color. When output is closed message is dropped.
func (f *Feedback) Send(control uint8, c surface.LogicalColor) {
	if f.monitor != nil {
		f.monitor(control, c)
	}

	code := f.profile.MapColor(control, c)

	if f.out == nil || !f.out.IsOpen() {
		log.Info("output closed, feedback dropped", logger.Debug, zap.Uint8("control", control), zap.Uint8("code", code))
		return
	}

	err := f.out.Send(midi.NoteOnMessage(feedbackChannel, control, code))
	if err != nil {
		log.Info(fmt.Sprintf("failed to send feedback: %v", err), logger.Warning, zap.Uint8("control", control))
		return
	}
	log.Info(fmt.Sprintf("feedback: %3d %s", control, c), logger.Feedback)
}

// CueStateChanged updates grid indicators bound to the cue.
func (f *Feedback) CueStateChanged(c cue.Cue) {
	color, ok := StateColor(c.State())
	if !ok {
		return
	}

	for _, e := range c.Bindings(cue.MIDIDomain) {
		msg, err := midi.Parse(e.Key)
		if err != nil {
			log.Info("unreadable cue binding ignored", logger.Debug, zap.String("cue", c.ID()), zap.String("key", e.Key), zap.Error(err))
			continue
		}
		if !msg.HasVelocity() {
			continue
		}
		if !f.layout.PushButtons.Contains(msg.Identifier) {
			continue
		}
		f.Send(msg.Identifier, color)
	}
}

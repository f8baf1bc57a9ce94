package controller

import (
	"sync/atomic"

	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/gethiox/cuepad/internal/pkg/surface"
)

// Shift tracks modal shift layer of the surface. Indicators of the layer
// are lit only on actual transitions.
type Shift struct {
	active     atomic.Bool
	indicators []uint8
	feedback   *Feedback
}

func NewShift(layout surface.Layout, feedback *Feedback) *Shift {
	return &Shift{
		indicators: layout.Indicators(),
		feedback:   feedback,
	}
}

func (s *Shift) Active() bool {
	return s.active.Load()
}

// Enable activates the layer, false is returned when it was already active.
func (s *Shift) Enable() bool {
	if !s.active.CompareAndSwap(false, true) {
		return false
	}
	log.Info("shift enabled", logger.Action)
	s.light(surface.On)
	return true
}

// Disable deactivates the layer, false is returned when it was not active.
func (s *Shift) Disable() bool {
	if !s.active.CompareAndSwap(true, false) {
		return false
	}
	log.Info("shift disabled", logger.Action)
	s.light(surface.Off)
	return true
}

func (s *Shift) light(c surface.LogicalColor) {
	for _, control := range s.indicators {
		s.feedback.Send(control, c)
	}
}

package controller

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gethiox/cuepad/internal/pkg/binding"
	"github.com/gethiox/cuepad/internal/pkg/cue"
	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/gethiox/cuepad/internal/pkg/midi"
	"github.com/gethiox/cuepad/internal/pkg/midi/driver"
	"github.com/gethiox/cuepad/internal/pkg/surface"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Publisher receives canonical form of every handled message.
type Publisher interface {
	Publish(v string)
}

// Engine routes surface messages into show actions and keeps surface
// indicators in sync with cue state.
type Engine struct {
	layout   surface.Layout
	show     cue.Layout
	echo     Publisher
	feedback *Feedback
	shift    *Shift

	bindings atomic.Pointer[binding.Table]

	mu     sync.Mutex
	cancel func()
}

// NewEngine creates engine driving show, echo may be nil.
func NewEngine(profile surface.Profile, show cue.Layout, out driver.Output, echo Publisher) *Engine {
	feedback := NewFeedback(out, profile)
	layout := profile.Layout()

	e := &Engine{
		layout:   layout,
		show:     show,
		echo:     echo,
		feedback: feedback,
		shift:    NewShift(layout, feedback),
	}
	e.bindings.Store(binding.NewTable())
	return e
}

func (e *Engine) Feedback() *Feedback {
	return e.feedback
}

func (e *Engine) ShiftActive() bool {
	return e.shift.Active()
}

// SetBindings swaps binding snapshot, table must not be modified afterwards.
func (e *Engine) SetBindings(t *binding.Table) {
	if t == nil {
		t = binding.NewTable()
	}
	e.bindings.Store(t)
}

func (e *Engine) Bindings() *binding.Table {
	return e.bindings.Load()
}

// Start subscribes cue state notifications, calling it on started engine does nothing.
func (e *Engine) Start(n cue.Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		return
	}
	e.cancel = n.OnStateChanged(e.feedback.CueStateChanged)
	log.Info("engine started", logger.Debug)
}

// Stop unsubscribes cue state notifications and leaves shift layer.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.Reset()
	log.Info("engine stopped", logger.Debug)
}

// Reset brings shift layer back to inactive state.
func (e *Engine) Reset() {
	e.shift.Disable()
}

func (e *Engine) isNote(msg midi.Message, t midi.Type, note uint8) bool {
	return msg.Type == t && msg.Identifier == note
}

// Handle processes single inbound message. Returned error comes from invoked
// binding action, the message is not echoed then.
func (e *Engine) Handle(msg midi.Message) error {
	l := e.layout

	if e.isNote(msg, midi.NoteOn, l.Shift) && e.shift.Enable() {
		return nil
	}

	if e.isNote(msg, midi.NoteOff, l.Shift) && e.shift.Disable() {
		return nil
	}

	if e.shift.Active() && msg.Type == midi.NoteOn {
		switch msg.Identifier {
		case l.StopAll:
			log.Info("stop all", logger.Action)
			e.show.StopAll()
			e.feedback.Send(l.StopAll, surface.Blink)
			return nil
		case l.PreviousPage:
			if p, ok := e.show.(cue.Pager); ok {
				log.Info("previous page", logger.Action)
				p.PreviousPage()
			}
			return nil
		case l.NextPage:
			if p, ok := e.show.(cue.Pager); ok {
				log.Info("next page", logger.Action)
				p.NextPage()
			}
			return nil
		}
	}

	if msg.Type == midi.ControlChange {
		if msg.Identifier == l.MasterFader {
			// reserved for master gain
			return nil
		}
		e.routeFader(msg)
	}

	b, ok := e.bindings.Load().Lookup(binding.KeyOf(msg))
	if ok {
		log.Info(fmt.Sprintf("%s -> %s", msg.Describe(), b.Action), logger.Message)
		err := b.Invoke()
		if err != nil {
			// failed message is not echoed
			return fmt.Errorf("action %q bound to %s failed: %w", b.Action, b.Key, err)
		}
	} else {
		log.Info(msg.Describe(), logger.MessageUnbound)
	}

	if e.echo != nil {
		e.echo.Publish(msg.WithoutVelocity().String())
	}
	return nil
}

func (e *Engine) routeFader(msg midi.Message) {
	if !e.layout.Faders.Contains(msg.Identifier) {
		return
	}

	cl, ok := e.show.(cue.ColumnLayout)
	if !ok {
		return
	}

	column := int(msg.Identifier) - int(e.layout.FaderBase)

	volume := float64(msg.Value) / 127
	for _, c := range cl.CuesAtColumn(column) {
		lv, ok := c.(cue.LiveVolume)
		if !ok {
			continue
		}
		lv.SetLiveVolume(volume)
		log.Info("live volume", logger.Debug, zap.String("cue", c.ID()), zap.Float64("volume", volume))
	}
}

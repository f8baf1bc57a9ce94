package show

import (
	"fmt"
	"sync"

	"github.com/gethiox/cuepad/internal/pkg/binding"
	"github.com/gethiox/cuepad/internal/pkg/cue"
	"github.com/gethiox/cuepad/internal/pkg/logger"
	"go.uber.org/zap"
)

type Cue struct {
	id, name string
	bindings map[string][]binding.Entry

	show *Show
	// self is the outermost value, passed to state-change listeners
	self cue.Cue

	mu    sync.Mutex
	state cue.State
}

type MediaCue struct {
	Cue

	volumeMu sync.Mutex
	volume   float64
}

func newCue(s *Show, spec CueSpec) cue.Cue {
	if spec.Media {
		m := &MediaCue{volume: spec.Volume}
		m.init(s, spec, m)
		return m
	}
	c := &Cue{}
	c.init(s, spec, c)
	return c
}

func (c *Cue) init(s *Show, spec CueSpec, self cue.Cue) {
	c.id = spec.ID
	c.name = spec.Name
	c.bindings = spec.Bindings
	c.show = s
	c.self = self
}

func (c *Cue) ID() string {
	return c.id
}

func (c *Cue) Name() string {
	return c.name
}

func (c *Cue) State() cue.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Cue) Bindings(domain string) []binding.Entry {
	return c.bindings[domain]
}

// next returns state after action, false when action does not apply in current state.
func next(current cue.State, action string) (cue.State, bool, error) {
	switch action {
	case cue.Start:
		if current.Has(cue.IsRunning) {
			return current, false, nil
		}
		return cue.Running, true, nil
	case cue.Resume:
		if !current.Has(cue.IsPaused) {
			return current, false, nil
		}
		return cue.Running, true, nil
	case cue.Pause:
		if !current.Has(cue.IsRunning) {
			return current, false, nil
		}
		return cue.Paused, true, nil
	case cue.Stop, cue.Interrupt:
		if !current.Has(cue.IsRunning | cue.IsPaused) {
			return current, false, nil
		}
		return cue.Stopped, true, nil
	case cue.Toggle:
		if current.Has(cue.IsRunning) {
			return cue.Paused, true, nil
		}
		return cue.Running, true, nil
	default:
		return current, false, fmt.Errorf("%w: cue: %q", cue.ErrUnknownAction, action)
	}
}

func (c *Cue) Execute(action string) error {
	c.mu.Lock()
	state, changed, err := next(c.state, action)
	if changed {
		c.state = state
	}
	c.mu.Unlock()

	if err != nil {
		return err
	}
	if changed {
		log.Info(fmt.Sprintf("%s: %s", c.name, state), logger.Info, zap.String("cue", c.id))
		c.show.notify(c.self)
	}
	return nil
}

func (c *MediaCue) SetLiveVolume(v float64) {
	c.volumeMu.Lock()
	c.volume = v
	c.volumeMu.Unlock()
}

func (c *MediaCue) LiveVolume() float64 {
	c.volumeMu.Lock()
	defer c.volumeMu.Unlock()
	return c.volume
}

package controller

import (
	"sync"

	"github.com/gethiox/cuepad/internal/pkg/binding"
	"github.com/gethiox/cuepad/internal/pkg/cue"
	"github.com/gethiox/cuepad/internal/pkg/midi"
)

type recordingOutput struct {
	closed bool
	sent   []midi.Message
}

func (o *recordingOutput) Name() string { return "recording" }
func (o *recordingOutput) IsOpen() bool { return !o.closed }
func (o *recordingOutput) Close() error { o.closed = true; return nil }

func (o *recordingOutput) Send(msg midi.Message) error {
	o.sent = append(o.sent, msg)
	return nil
}

func (o *recordingOutput) reset() {
	o.sent = nil
}

type recordingPublisher struct {
	echoes []string
}

func (p *recordingPublisher) Publish(v string) {
	p.echoes = append(p.echoes, v)
}

// flatLayout has neither pages nor columns.
type flatLayout struct {
	stopAll int
	actions []string
	err     error
}

func (l *flatLayout) StopAll() {
	l.stopAll++
}

func (l *flatLayout) Execute(action string) error {
	l.actions = append(l.actions, action)
	return l.err
}

type cartLayout struct {
	flatLayout
	previous, next int
	columns        map[int][]cue.Cue
}

func (l *cartLayout) PreviousPage() { l.previous++ }
func (l *cartLayout) NextPage() { l.next++ }

func (l *cartLayout) CuesAtColumn(column int) []cue.Cue {
	return l.columns[column]
}

type fakeCue struct {
	id       string
	state    cue.State
	bindings []binding.Entry
	actions  []string
}

func (c *fakeCue) ID() string { return c.id }
func (c *fakeCue) Name() string { return c.id }
func (c *fakeCue) State() cue.State { return c.state }
func (c *fakeCue) Execute(action string) error {
	c.actions = append(c.actions, action)
	return nil
}

func (c *fakeCue) Bindings(domain string) []binding.Entry {
	if domain != cue.MIDIDomain {
		return nil
	}
	return c.bindings
}

type mediaCue struct {
	fakeCue
	volume  float64
	updates int
}

func (c *mediaCue) SetLiveVolume(v float64) {
	c.volume = v
	c.updates++
}

type fakeNotifier struct {
	mu        sync.Mutex
	listeners map[int]func(cue.Cue)
	next      int
}

func (n *fakeNotifier) OnStateChanged(fn func(c cue.Cue)) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[int]func(cue.Cue))
	}
	id := n.next
	n.next++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

func (n *fakeNotifier) notify(c cue.Cue) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, fn := range n.listeners {
		fn(c)
	}
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

package binding

import (
	"errors"
	"fmt"

	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/gethiox/cuepad/internal/pkg/midi"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var (
	ErrMalformedKey = errors.New("malformed binding key")
	ErrDuplicateKey = errors.New("duplicate binding key")
)

// Key identifies a control regardless of its value or velocity.
type Key struct {
	Type       midi.Type
	Channel    uint8
	Identifier uint8
}

func KeyOf(m midi.Message) Key {
	return Key{Type: m.Type, Channel: m.Channel, Identifier: m.Identifier}
}

func ParseKey(s string) (Key, error) {
	m, err := midi.Parse(s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q: %v", ErrMalformedKey, s, err)
	}
	return KeyOf(m), nil
}

// Message returns zero-valued message addressed to the key.
func (k Key) Message() midi.Message {
	return midi.Message{Type: k.Type, Channel: k.Channel, Identifier: k.Identifier}
}

func (k Key) String() string {
	return k.Message().String()
}

// Normalize prepares captured message for storage, velocity is zeroed.
func Normalize(m midi.Message) midi.Message {
	return m.WithoutVelocity()
}

// Entry is a stored binding, Key is the canonical message text.
type Entry struct {
	Key    string
	Action string
}

type Target interface {
	Execute(action string) error
}

type TargetFunc func(action string) error

func (f TargetFunc) Execute(action string) error {
	return f(action)
}

type Binding struct {
	Key    Key
	Action string
	Target Target
}

func (b Binding) Invoke() error {
	return b.Target.Execute(b.Action)
}

// Table is an ordered set of bindings with unique keys.
// It is not safe for concurrent modification, the engine treats it as read-only snapshot.
type Table struct {
	order    []Key
	bindings map[Key]Binding
}

func NewTable() *Table {
	return &Table{bindings: make(map[Key]Binding)}
}

func (t *Table) Add(b Binding) error {
	if _, ok := t.bindings[b.Key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, b.Key)
	}
	t.order = append(t.order, b.Key)
	t.bindings[b.Key] = b
	return nil
}

func (t *Table) Lookup(k Key) (Binding, bool) {
	if t == nil {
		return Binding{}, false
	}
	b, ok := t.bindings[k]
	return b, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Bindings returns bindings in insertion order.
func (t *Table) Bindings() []Binding {
	if t == nil {
		return nil
	}
	result := make([]Binding, 0, len(t.order))
	for _, k := range t.order {
		result = append(result, t.bindings[k])
	}
	return result
}

// Load adds stored entries bound to target. Malformed and duplicated entries are
// skipped, returned error joins every skipped entry.
func Load(t *Table, target Target, entries []Entry) error {
	var errs []error

	for _, e := range entries {
		key, err := ParseKey(e.Key)
		if err == nil {
			err = t.Add(Binding{Key: key, Action: e.Action, Target: target})
		}
		if err != nil {
			log.Info("binding skipped", logger.Warning, zap.String("key", e.Key), zap.String("action", e.Action), zap.Error(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

package driver

import (
	"testing"

	"github.com/gethiox/cuepad/internal/pkg/midi"
	"github.com/stretchr/testify/assert"
)

type namedPort string

func (n namedPort) Name() string { return string(n) }
func (n namedPort) Close() error { return nil }
func (n namedPort) IsOpen() bool { return true }
func (n namedPort) Send(midi.Message) error { return nil }
func (n namedPort) Listen(func(midi.Message)) (stop func(), err error) { return func() {}, nil }

func TestPort_String(t *testing.T) {
	for _, tc := range []struct {
		name     string
		port     Port
		expected string
	}{
		{
			name:     "both",
			port:     Port{Input: namedPort("APC MINI MIDI 1 20:0"), Output: namedPort("APC MINI MIDI 1 20:1")},
			expected: "APC MINI MIDI 1 20: (Input/Output)",
		}, {
			name:     "input only",
			port:     Port{Input: namedPort("APC MINI")},
			expected: "APC MINI (Input only)",
		}, {
			name:     "output only",
			port:     Port{Output: namedPort("APC MINI")},
			expected: "APC MINI (Output only)",
		}, {
			name:     "none",
			port:     Port{},
			expected: "(unavailable)",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.port.String())
		})
	}
}

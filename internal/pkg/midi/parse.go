package midi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidMessage = errors.New("invalid midi message")

type attribute struct {
	min, max int
	set      func(m *Message, v int)
}

var (
	channelAttr = attribute{0, 15, func(m *Message, v int) { m.Channel = uint8(v) }}
	idAttr      = attribute{0, 127, func(m *Message, v int) { m.Identifier = uint8(v) }}
	valueAttr   = attribute{0, 127, func(m *Message, v int) { m.Value = uint8(v) }}
	pitchAttr   = attribute{-8192, 8191, func(m *Message, v int) { m.Pitch = int16(v) }}

	typeSpecific = map[Type]map[string]attribute{
		NoteOff:       {"channel": channelAttr, "note": idAttr, "velocity": valueAttr},
		NoteOn:        {"channel": channelAttr, "note": idAttr, "velocity": valueAttr},
		PolyTouch:     {"channel": channelAttr, "note": idAttr, "value": valueAttr},
		ControlChange: {"channel": channelAttr, "control": idAttr, "value": valueAttr},
		ProgramChange: {"channel": channelAttr, "program": idAttr},
		Aftertouch:    {"channel": channelAttr, "value": valueAttr},
		PitchWheel:    {"channel": channelAttr, "pitch": pitchAttr},
	}
)

// Parse reads canonical text form produced by Message.String.
// Missing attributes default to zero, "time" attribute is accepted and ignored.
func Parse(s string) (Message, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Message{}, fmt.Errorf("%w: empty string", ErrInvalidMessage)
	}

	t, ok := namesToType[fields[0]]
	if !ok {
		return Message{}, fmt.Errorf("%w: unknown message type %q", ErrInvalidMessage, fields[0])
	}

	m := Message{Type: t}
	attrs := typeSpecific[t]
	seen := make(map[string]struct{}, len(fields)-1)

	for _, field := range fields[1:] {
		name, raw, found := strings.Cut(field, "=")
		if !found {
			return Message{}, fmt.Errorf("%w: attribute without value: %q", ErrInvalidMessage, field)
		}
		if _, dup := seen[name]; dup {
			return Message{}, fmt.Errorf("%w: repeated attribute %q", ErrInvalidMessage, name)
		}
		seen[name] = struct{}{}

		if name == "time" {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return Message{}, fmt.Errorf("%w: time: %v", ErrInvalidMessage, err)
			}
			continue
		}

		attr, ok := attrs[name]
		if !ok {
			return Message{}, fmt.Errorf("%w: %s has no attribute %q", ErrInvalidMessage, t, name)
		}

		v, err := strconv.Atoi(raw)
		if err != nil {
			return Message{}, fmt.Errorf("%w: %s: %v", ErrInvalidMessage, name, err)
		}
		if v < attr.min || v > attr.max {
			return Message{}, fmt.Errorf("%w: %s out of range %d-%d: %d", ErrInvalidMessage, name, attr.min, attr.max, v)
		}
		attr.set(&m, v)
	}

	return m, nil
}

package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Type is the status nibble of a channel voice message.
type Type uint8

const (
	NoteOff       Type = 0b1000 << 4
	NoteOn        Type = 0b1001 << 4
	PolyTouch     Type = 0b1010 << 4 // After-touch
	ControlChange Type = 0b1011 << 4
	ProgramChange Type = 0b1100 << 4
	Aftertouch    Type = 0b1101 << 4 // Channel pressure
	PitchWheel    Type = 0b1110 << 4
)

var typeNames = map[Type]string{
	NoteOff:       "note_off",
	NoteOn:        "note_on",
	PolyTouch:     "polytouch",
	ControlChange: "control_change",
	ProgramChange: "program_change",
	Aftertouch:    "aftertouch",
	PitchWheel:    "pitchwheel",
}

var namesToType = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

func (t Type) String() string {
	name, ok := typeNames[t]
	if !ok {
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
	return name
}

// Message is a decoded channel voice message.
//
// Identifier holds the note, control or program number depending on Type,
// Value holds velocity, pressure or control value. PitchWheel messages carry
// their signed 14 bit value in Pitch.
type Message struct {
	Type       Type
	Channel    uint8
	Identifier uint8
	Value      uint8
	Pitch      int16
}

func NoteOnMessage(channel, note, velocity uint8) Message {
	return Message{Type: NoteOn, Channel: channel, Identifier: note, Value: velocity}
}

func NoteOffMessage(channel, note, velocity uint8) Message {
	return Message{Type: NoteOff, Channel: channel, Identifier: note, Value: velocity}
}

func ControlChangeMessage(channel, control, value uint8) Message {
	return Message{Type: ControlChange, Channel: channel, Identifier: control, Value: value}
}

func ProgramChangeMessage(channel, program uint8) Message {
	return Message{Type: ProgramChange, Channel: channel, Identifier: program}
}

func PolyTouchMessage(channel, note, value uint8) Message {
	return Message{Type: PolyTouch, Channel: channel, Identifier: note, Value: value}
}

func AftertouchMessage(channel, value uint8) Message {
	return Message{Type: Aftertouch, Channel: channel, Value: value}
}

func PitchWheelMessage(channel uint8, pitch int16) Message {
	return Message{Type: PitchWheel, Channel: channel, Pitch: pitch}
}

// HasVelocity reports whether the message is note-class.
func (m Message) HasVelocity() bool {
	return m.Type == NoteOn || m.Type == NoteOff
}

// WithoutVelocity returns a copy with velocity zeroed, other messages are returned unchanged.
func (m Message) WithoutVelocity() Message {
	if m.HasVelocity() {
		m.Value = 0
	}
	return m
}

// String returns canonical text form, e.g. "note_on channel=0 note=40 velocity=0".
func (m Message) String() string {
	switch m.Type {
	case NoteOff, NoteOn:
		return fmt.Sprintf("%s channel=%d note=%d velocity=%d", m.Type, m.Channel, m.Identifier, m.Value)
	case PolyTouch:
		return fmt.Sprintf("%s channel=%d note=%d value=%d", m.Type, m.Channel, m.Identifier, m.Value)
	case ControlChange:
		return fmt.Sprintf("%s channel=%d control=%d value=%d", m.Type, m.Channel, m.Identifier, m.Value)
	case ProgramChange:
		return fmt.Sprintf("%s channel=%d program=%d", m.Type, m.Channel, m.Identifier)
	case Aftertouch:
		return fmt.Sprintf("%s channel=%d value=%d", m.Type, m.Channel, m.Value)
	case PitchWheel:
		return fmt.Sprintf("%s channel=%d pitch=%d", m.Type, m.Channel, m.Pitch)
	default:
		return m.Type.String()
	}
}

func noteToString(note byte) string {
	return fmt.Sprintf("%-2s%2d", NoteToPitch(note), NoteToOctave(note))
}

// Describe returns human-readable form, channels are presented 1-indexed.
func (m Message) Describe() string {
	channel := m.Channel + 1
	switch m.Type {
	case NoteOff:
		return fmt.Sprintf("Note Off: %s (channel: %2d, velocity: %3d)", noteToString(m.Identifier), channel, m.Value)
	case NoteOn:
		return fmt.Sprintf("Note On : %s (channel: %2d, velocity: %3d)", noteToString(m.Identifier), channel, m.Value)
	case PolyTouch:
		return fmt.Sprintf("Polyphonic Key Pressure: %s (channel: %2d, pressure: %3d)", noteToString(m.Identifier), channel, m.Value)
	case ControlChange:
		return fmt.Sprintf("Control Change: %3d, value: %3d (channel: %2d)", m.Identifier, m.Value, channel)
	case ProgramChange:
		return fmt.Sprintf("Program Change: %3d (channel: %2d)", m.Identifier, channel)
	case Aftertouch:
		return fmt.Sprintf("Channel Pressure: %3d (channel: %2d)", m.Value, channel)
	case PitchWheel:
		val := float64(m.Pitch) / 8192
		return fmt.Sprintf("Pitch Bend: %4.0f%% (channel: %2d)", val*100, channel)
	default:
		return fmt.Sprintf("Oof, unexpected message type: %s", m.Type)
	}
}

// Bytes encodes message into wire format.
func (m Message) Bytes() gomidi.Message {
	switch m.Type {
	case NoteOff:
		return gomidi.NoteOffVelocity(m.Channel, m.Identifier, m.Value)
	case NoteOn:
		return gomidi.NoteOn(m.Channel, m.Identifier, m.Value)
	case PolyTouch:
		return gomidi.PolyAfterTouch(m.Channel, m.Identifier, m.Value)
	case ControlChange:
		return gomidi.ControlChange(m.Channel, m.Identifier, m.Value)
	case ProgramChange:
		return gomidi.ProgramChange(m.Channel, m.Identifier)
	case Aftertouch:
		return gomidi.AfterTouch(m.Channel, m.Value)
	case PitchWheel:
		return gomidi.Pitchbend(m.Channel, m.Pitch)
	default:
		return nil
	}
}

// FromBytes decodes wire message, false is returned for anything
// that is not a channel voice message (clock, sysex etc.).
func FromBytes(raw gomidi.Message) (Message, bool) {
	var channel, id, value uint8
	var rel int16
	var abs uint16

	switch {
	case raw.GetNoteOn(&channel, &id, &value):
		return NoteOnMessage(channel, id, value), true
	case raw.GetNoteOff(&channel, &id, &value):
		return NoteOffMessage(channel, id, value), true
	case raw.GetPolyAfterTouch(&channel, &id, &value):
		return PolyTouchMessage(channel, id, value), true
	case raw.GetControlChange(&channel, &id, &value):
		return ControlChangeMessage(channel, id, value), true
	case raw.GetProgramChange(&channel, &id):
		return ProgramChangeMessage(channel, id), true
	case raw.GetAfterTouch(&channel, &value):
		return AftertouchMessage(channel, value), true
	case raw.GetPitchBend(&channel, &rel, &abs):
		return PitchWheelMessage(channel, rel), true
	}
	return Message{}, false
}

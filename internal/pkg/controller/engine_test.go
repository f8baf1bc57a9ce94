package controller

import (
	"errors"
	"testing"

	"github.com/gethiox/cuepad/internal/pkg/binding"
	"github.com/gethiox/cuepad/internal/pkg/cue"
	"github.com/gethiox/cuepad/internal/pkg/midi"
	"github.com/gethiox/cuepad/internal/pkg/surface/apcmini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	shiftOn  = midi.NoteOnMessage(0, 98, 127)
	shiftOff = midi.NoteOffMessage(0, 98, 0)
)

func indicators(code uint8) []midi.Message {
	return []midi.Message{
		midi.NoteOnMessage(0, 89, code),
		midi.NoteOnMessage(0, 66, code),
		midi.NoteOnMessage(0, 67, code),
	}
}

func newTestEngine(t *testing.T, show cue.Layout, entries ...binding.Entry) (*Engine, *recordingOutput, *recordingPublisher) {
	t.Helper()
	out := &recordingOutput{}
	echo := &recordingPublisher{}
	e := NewEngine(apcmini.Profile, show, out, echo)

	table := binding.NewTable()
	require.NoError(t, binding.Load(table, show, entries))
	e.SetBindings(table)
	return e, out, echo
}

func TestEngine_ShiftActivation(t *testing.T) {
	e, out, echo := newTestEngine(t, &flatLayout{})

	require.NoError(t, e.Handle(shiftOn))

	assert.True(t, e.ShiftActive())
	assert.Equal(t, indicators(1), out.sent)
	assert.Empty(t, echo.echoes)
}

func TestEngine_ShiftIdempotent(t *testing.T) {
	e, out, echo := newTestEngine(t, &flatLayout{})

	require.NoError(t, e.Handle(shiftOn))
	require.NoError(t, e.Handle(shiftOn))

	assert.True(t, e.ShiftActive())
	assert.Equal(t, indicators(1), out.sent, "indicators are lit once")
	assert.Equal(t, []string{"note_on channel=0 note=98 velocity=0"}, echo.echoes)

	out.reset()
	require.NoError(t, e.Handle(shiftOff))
	require.NoError(t, e.Handle(shiftOff))

	assert.False(t, e.ShiftActive())
	assert.Equal(t, indicators(0), out.sent, "indicators are cleared once")
	assert.Equal(t, []string{
		"note_on channel=0 note=98 velocity=0",
		"note_off channel=0 note=98 velocity=0",
	}, echo.echoes)
}

func TestEngine_ShiftOffWhileInactive(t *testing.T) {
	e, out, _ := newTestEngine(t, &flatLayout{})

	require.NoError(t, e.Handle(shiftOff))

	assert.False(t, e.ShiftActive())
	assert.Empty(t, out.sent)
}

func TestEngine_StopAll(t *testing.T) {
	show := &flatLayout{}
	e, out, echo := newTestEngine(t, show, binding.Entry{Key: "note_on channel=0 note=89 velocity=0", Action: cue.StopAll})

	require.NoError(t, e.Handle(shiftOn))
	out.reset()

	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 89, 127)))

	assert.Equal(t, 1, show.stopAll)
	assert.Empty(t, show.actions, "binding must not fire for shift command")
	assert.Equal(t, []midi.Message{midi.NoteOnMessage(0, 89, 2)}, out.sent)
	assert.Empty(t, echo.echoes)
}

func TestEngine_StopAllWithoutShift(t *testing.T) {
	show := &flatLayout{}
	e, out, echo := newTestEngine(t, show, binding.Entry{Key: "note_on channel=0 note=89 velocity=0", Action: cue.StopAll})

	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 89, 127)))

	assert.Equal(t, 0, show.stopAll)
	assert.Equal(t, []string{cue.StopAll}, show.actions)
	assert.Empty(t, out.sent)
	assert.Equal(t, []string{"note_on channel=0 note=89 velocity=0"}, echo.echoes)
}

func TestEngine_PageButtons(t *testing.T) {
	show := &cartLayout{}
	e, _, echo := newTestEngine(t, show,
		binding.Entry{Key: "note_on channel=0 note=66 velocity=0", Action: cue.PauseAll},
		binding.Entry{Key: "note_on channel=0 note=67 velocity=0", Action: cue.ResumeAll},
	)

	require.NoError(t, e.Handle(shiftOn))
	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 66, 127)))
	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 67, 127)))
	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 67, 127)))

	assert.Equal(t, 1, show.previous)
	assert.Equal(t, 2, show.next)
	assert.Empty(t, show.actions)
	assert.Empty(t, echo.echoes)
}

func TestEngine_PageButtonsWithoutPages(t *testing.T) {
	show := &flatLayout{}
	e, out, echo := newTestEngine(t, show, binding.Entry{Key: "note_on channel=0 note=66 velocity=0", Action: cue.PauseAll})

	require.NoError(t, e.Handle(shiftOn))
	out.reset()
	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 66, 127)))

	assert.Empty(t, show.actions, "previous page is consumed even without paging support")
	assert.Empty(t, out.sent)
	assert.Empty(t, echo.echoes)
}

func TestEngine_ShiftLayerIsAdditive(t *testing.T) {
	show := &flatLayout{}
	e, _, echo := newTestEngine(t, show,
		binding.Entry{Key: "note_on channel=0 note=40 velocity=0", Action: cue.PauseAll},
		binding.Entry{Key: "note_off channel=0 note=89 velocity=0", Action: cue.InterruptAll},
	)

	require.NoError(t, e.Handle(shiftOn))
	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 40, 127)))
	require.NoError(t, e.Handle(midi.NoteOffMessage(0, 89, 0)))

	assert.Equal(t, []string{cue.PauseAll, cue.InterruptAll}, show.actions)
	assert.Equal(t, []string{
		"note_on channel=0 note=40 velocity=0",
		"note_off channel=0 note=89 velocity=0",
	}, echo.echoes)
}

func TestEngine_EchoZeroesVelocity(t *testing.T) {
	e, _, echo := newTestEngine(t, &flatLayout{})

	for _, msg := range []midi.Message{
		midi.NoteOnMessage(0, 40, 127),
		midi.NoteOffMessage(3, 12, 64),
		midi.ControlChangeMessage(0, 7, 99),
		midi.ProgramChangeMessage(1, 4),
	} {
		require.NoError(t, e.Handle(msg))
	}

	assert.Equal(t, []string{
		"note_on channel=0 note=40 velocity=0",
		"note_off channel=3 note=12 velocity=0",
		"control_change channel=0 control=7 value=99",
		"program_change channel=1 program=4",
	}, echo.echoes)
}

func TestEngine_FaderRouting(t *testing.T) {
	first := &mediaCue{fakeCue: fakeCue{id: "a"}}
	second := &mediaCue{fakeCue: fakeCue{id: "b"}}
	other := &mediaCue{fakeCue: fakeCue{id: "c"}}
	plain := &fakeCue{id: "group"}

	show := &cartLayout{columns: map[int][]cue.Cue{
		0: {other},
		2: {first, plain, second},
	}}
	e, _, echo := newTestEngine(t, show, binding.Entry{Key: "control_change channel=0 control=50 value=0", Action: cue.ResumeAll})

	require.NoError(t, e.Handle(midi.ControlChangeMessage(0, 50, 127)))

	assert.Equal(t, 1.0, first.volume)
	assert.Equal(t, 1.0, second.volume)
	assert.Equal(t, 0, other.updates)
	assert.Equal(t, []string{cue.ResumeAll}, show.actions, "binding lookup continues after fader routing")
	assert.Equal(t, []string{"control_change channel=0 control=50 value=127"}, echo.echoes)

	require.NoError(t, e.Handle(midi.ControlChangeMessage(0, 48, 0)))
	assert.Equal(t, 0.0, other.volume)
	assert.Equal(t, 1, other.updates)

	require.NoError(t, e.Handle(midi.ControlChangeMessage(0, 50, 64)))
	assert.InDelta(t, 64.0/127, first.volume, 1e-9)
}

func TestEngine_FaderBelowBase(t *testing.T) {
	c := &mediaCue{fakeCue: fakeCue{id: "a"}}
	show := &cartLayout{columns: map[int][]cue.Cue{0: {c}}}
	e, _, _ := newTestEngine(t, show)

	require.NoError(t, e.Handle(midi.ControlChangeMessage(0, 7, 100)))
	assert.Equal(t, 0, c.updates)
}

func TestEngine_FaderAboveRange(t *testing.T) {
	c := &mediaCue{fakeCue: fakeCue{id: "a"}}
	show := &cartLayout{columns: map[int][]cue.Cue{12: {c}}}
	e, _, echo := newTestEngine(t, show)

	require.NoError(t, e.Handle(midi.ControlChangeMessage(0, 60, 100)))
	assert.Equal(t, 0, c.updates)
	assert.Equal(t, []string{"control_change channel=0 control=60 value=100"}, echo.echoes)
}

func TestEngine_FaderWithoutColumns(t *testing.T) {
	show := &flatLayout{}
	e, _, echo := newTestEngine(t, show, binding.Entry{Key: "control_change channel=0 control=49 value=0", Action: cue.PauseAll})

	require.NoError(t, e.Handle(midi.ControlChangeMessage(0, 49, 127)))

	assert.Equal(t, []string{cue.PauseAll}, show.actions)
	assert.Equal(t, []string{"control_change channel=0 control=49 value=127"}, echo.echoes)
}

func TestEngine_MasterFaderIsReserved(t *testing.T) {
	c := &mediaCue{fakeCue: fakeCue{id: "a"}}
	show := &cartLayout{columns: map[int][]cue.Cue{8: {c}}}
	e, out, echo := newTestEngine(t, show, binding.Entry{Key: "control_change channel=0 control=56 value=0", Action: cue.StopAll})

	require.NoError(t, e.Handle(midi.ControlChangeMessage(0, 56, 127)))

	assert.Equal(t, 0, c.updates)
	assert.Empty(t, show.actions)
	assert.Empty(t, out.sent)
	assert.Empty(t, echo.echoes)
}

func TestEngine_ActionFailure(t *testing.T) {
	failure := errors.New("media unavailable")
	show := &flatLayout{err: failure}
	e, _, echo := newTestEngine(t, show, binding.Entry{Key: "note_on channel=0 note=1 velocity=0", Action: cue.ResumeAll})

	err := e.Handle(midi.NoteOnMessage(0, 1, 127))

	assert.True(t, errors.Is(err, failure))
	assert.Equal(t, []string{cue.ResumeAll}, show.actions)
	assert.Empty(t, echo.echoes)

	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 2, 127)))
	assert.Len(t, echo.echoes, 1)
}

func TestEngine_CueBinding(t *testing.T) {
	c := &fakeCue{id: "intro"}
	table := binding.NewTable()
	require.NoError(t, binding.Load(table, c, []binding.Entry{{Key: "note_on channel=0 note=40 velocity=0", Action: cue.Toggle}}))

	e, _, _ := newTestEngine(t, &flatLayout{})
	e.SetBindings(table)
	assert.Equal(t, table, e.Bindings())

	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 40, 100)))
	assert.Equal(t, []string{cue.Toggle}, c.actions)

	e.SetBindings(nil)
	require.NoError(t, e.Handle(midi.NoteOnMessage(0, 40, 100)))
	assert.Equal(t, []string{cue.Toggle}, c.actions)
	assert.Equal(t, 0, e.Bindings().Len())
}

func TestEngine_WithoutEcho(t *testing.T) {
	e := NewEngine(apcmini.Profile, &flatLayout{}, &recordingOutput{}, nil)
	assert.NoError(t, e.Handle(midi.NoteOnMessage(0, 40, 100)))
}

func TestEngine_StartStop(t *testing.T) {
	n := &fakeNotifier{}
	e, out, _ := newTestEngine(t, &flatLayout{})

	e.Start(n)
	e.Start(n)
	assert.Equal(t, 1, n.count())

	c := &fakeCue{id: "a", state: cue.Paused, bindings: []binding.Entry{{Key: "note_on channel=0 note=40 velocity=0", Action: cue.Toggle}}}
	n.notify(c)
	assert.Equal(t, []midi.Message{midi.NoteOnMessage(0, 40, 2)}, out.sent)

	require.NoError(t, e.Handle(shiftOn))
	out.reset()

	e.Stop()
	assert.Equal(t, 0, n.count())
	assert.False(t, e.ShiftActive(), "shift is reset on stop")
	assert.Equal(t, indicators(0), out.sent)

	out.reset()
	n.notify(c)
	assert.Empty(t, out.sent)

	e.Stop()
}

// Package cue defines what the controller needs from the show it drives.
package cue

import (
	"errors"
	"strings"

	"github.com/gethiox/cuepad/internal/pkg/binding"
)

var ErrUnknownAction = errors.New("unknown action")

// MIDIDomain names the binding domain holding surface bindings of a cue.
const MIDIDomain = "midi"

// State flags may combine, e.g. Running|PreWait.
type State uint8

const (
	Idle State = 0

	Error State = 1 << (iota - 1)
	Stopped
	Running
	Paused
	PreWait
	PostWait
)

const (
	IsRunning = Running | PreWait | PostWait
	IsPaused  = Paused
	IsStopped = Stopped | Error
)

var stateNames = []struct {
	state State
	name  string
}{
	{Error, "Error"},
	{Stopped, "Stopped"},
	{Running, "Running"},
	{Paused, "Paused"},
	{PreWait, "PreWait"},
	{PostWait, "PostWait"},
}

// Has reports whether any of given flags is set.
func (s State) Has(flags State) bool {
	return s&flags != 0
}

func (s State) String() string {
	if s == Idle {
		return "Idle"
	}
	var names []string
	for _, n := range stateNames {
		if s.Has(n.state) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// cue actions
const (
	Start     = "Start"
	Stop      = "Stop"
	Pause     = "Pause"
	Resume    = "Resume"
	Toggle    = "Toggle"
	Interrupt = "Interrupt"
)

// layout actions
const (
	StopAll      = "StopAll"
	PauseAll     = "PauseAll"
	ResumeAll    = "ResumeAll"
	InterruptAll = "InterruptAll"
	PreviousPage = "PreviousPage"
	NextPage     = "NextPage"
)

type Cue interface {
	binding.Target

	ID() string
	Name() string
	State() State
	// Bindings returns stored bindings of given domain in configured order.
	Bindings(domain string) []binding.Entry
}

type Layout interface {
	binding.Target

	StopAll()
}

// Pager is implemented by layouts organized in pages.
type Pager interface {
	PreviousPage()
	NextPage()
}

// ColumnLayout is implemented by layouts with addressable columns.
type ColumnLayout interface {
	CuesAtColumn(column int) []Cue
}

// LiveVolume is implemented by cues with adjustable playback volume, v is in range 0.0-1.0.
type LiveVolume interface {
	SetLiveVolume(v float64)
}

type Notifier interface {
	// OnStateChanged registers fn for every cue state transition until cancel is called.
	OnStateChanged(fn func(c Cue)) (cancel func())
}

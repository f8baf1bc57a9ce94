// Package apcmini describes Akai APC mini (mk1) control surface.
package apcmini

import (
	"github.com/gethiox/cuepad/internal/pkg/surface"
)

const Name = "apc mini mk1"

var (
	PushButton = surface.Range{Low: 0, High: 63}
	BottomSide = surface.Range{Low: 64, High: 71}
	RightSide  = surface.Range{Low: 82, High: 89}
	Shift      = surface.Range{Low: 98, High: 98}
	Faders     = surface.Range{Low: 48, High: 56} // control change space
)

// side buttons have single color led
const (
	SideOff   uint8 = 0
	SideOn    uint8 = 1
	SideBlink uint8 = 2
)

const (
	PushOff         uint8 = 0
	PushGreen       uint8 = 1
	PushGreenBlink  uint8 = 2
	PushRed         uint8 = 3
	PushRedBlink    uint8 = 4
	PushYellow      uint8 = 5
	PushYellowBlink uint8 = 6
)

var (
	PreviousPage = BottomSide.Low + 2 // 66
	NextPage     = BottomSide.Low + 3 // 67
	StopAll      = RightSide.High     // 89, "Stop All Clips"
	ShiftButton  = Shift.Low
	MasterFader  = Faders.High
	FaderBase    = Faders.Low
)

type profile struct{}

func (profile) Name() string {
	return Name
}

func (profile) Layout() surface.Layout {
	return surface.Layout{
		PushButtons:  PushButton,
		SideButtons:  []surface.Range{BottomSide, RightSide},
		Faders:       Faders,
		Shift:        ShiftButton,
		StopAll:      StopAll,
		PreviousPage: PreviousPage,
		NextPage:     NextPage,
		MasterFader:  MasterFader,
		FaderBase:    FaderBase,
	}
}

// MapColor passes grid colors through, single color buttons get the palette
// folded into on/blink by parity: odd codes light, even codes blink.
func (profile) MapColor(control uint8, c surface.LogicalColor) uint8 {
	if PushButton.Contains(control) {
		return c.Code()
	}
	if c == surface.Off {
		return SideOff
	}
	return (c.Code()-1)%2 + 1
}

// Profile is the registered APC mini profile.
var Profile surface.Profile = profile{}

func init() {
	surface.Register(Profile)
}

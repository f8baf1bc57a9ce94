package surface

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// LogicalColor is device independent indicator state.
type LogicalColor uint8

const (
	Off LogicalColor = iota
	Green
	GreenBlink
	Red
	RedBlink
	Yellow
	YellowBlink

	On    = Green
	Blink = GreenBlink
)

var colorNames = map[LogicalColor]string{
	Off:         "Off",
	Green:       "Green",
	GreenBlink:  "GreenBlink",
	Red:         "Red",
	RedBlink:    "RedBlink",
	Yellow:      "Yellow",
	YellowBlink: "YellowBlink",
}

func (c LogicalColor) String() string {
	name, ok := colorNames[c]
	if !ok {
		return fmt.Sprintf("LogicalColor(%d)", uint8(c))
	}
	return name
}

// Code returns native code of the full palette.
func (c LogicalColor) Code() uint8 {
	return uint8(c)
}

func (c LogicalColor) Blinking() bool {
	return c == GreenBlink || c == RedBlink || c == YellowBlink
}

// Preview returns approximate on-screen color of an indicator.
func (c LogicalColor) Preview() colorful.Color {
	switch c {
	case Green, GreenBlink:
		return colorful.Hsv(120, 0.9, 0.9)
	case Red, RedBlink:
		return colorful.Hsv(0, 0.9, 0.9)
	case Yellow, YellowBlink:
		return colorful.Hsv(55, 0.9, 0.95)
	default:
		return colorful.Color{R: 0.15, G: 0.15, B: 0.15}
	}
}

// Range is an inclusive interval of control identifiers.
type Range struct {
	Low, High uint8
}

func (r Range) Contains(id uint8) bool {
	return r.Low <= id && id <= r.High
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// Layout names controls the engine treats specially.
// Notes: Shift, StopAll, PreviousPage, NextPage. Controls: MasterFader, FaderBase.
type Layout struct {
	PushButtons Range
	// single color buttons, bottom row first, then side column (top to bottom)
	SideButtons []Range
	Faders      Range

	Shift        uint8
	StopAll      uint8
	PreviousPage uint8
	NextPage     uint8

	MasterFader uint8
	FaderBase   uint8
}

// Indicators returns the controls lit while shift layer is active.
func (l Layout) Indicators() []uint8 {
	return []uint8{l.StopAll, l.PreviousPage, l.NextPage}
}

type Profile interface {
	Name() string
	Layout() Layout
	// MapColor returns native color code for given control.
	MapColor(control uint8, c LogicalColor) uint8
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Profile)
)

// Register makes profile available by its name, registering the same name twice panics.
func Register(p Profile) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[p.Name()]; ok {
		panic(fmt.Sprintf("surface profile %q registered twice", p.Name()))
	}
	registry[p.Name()] = p
}

func Get(name string) (Profile, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unsupported surface profile: %q, available: %v", name, names())
	}
	return p, nil
}

func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return names()
}

func names() []string {
	n := make([]string, 0, len(registry))
	for name := range registry {
		n = append(n, name)
	}
	sort.Strings(n)
	return n
}

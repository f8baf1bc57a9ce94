package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/gethiox/cuepad/internal/pkg/cue"
	"github.com/gethiox/cuepad/internal/pkg/show"
	"github.com/gethiox/cuepad/internal/pkg/surface"
	"github.com/logrusorgru/aurora"
	"github.com/lucasb-eyer/go-colorful"
)

// surfaceState mirrors indicator colors requested from the surface.
type surfaceState struct {
	mu     sync.RWMutex
	colors map[uint8]surface.LogicalColor
	shift  bool
}

func newSurfaceState() *surfaceState {
	return &surfaceState{colors: make(map[uint8]surface.LogicalColor)}
}

func (s *surfaceState) Set(control uint8, c surface.LogicalColor) {
	s.mu.Lock()
	s.colors[control] = c
	s.mu.Unlock()
}

func (s *surfaceState) Get(control uint8) surface.LogicalColor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colors[control]
}

func (s *surfaceState) SetShift(active bool) {
	s.mu.Lock()
	s.shift = active
	s.mu.Unlock()
}

func (s *surfaceState) Shift() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shift
}

// index256 converts color into xterm 6x6x6 color cube index
func index256(c colorful.Color) uint8 {
	r, g, b := c.Clamped().RGB255()
	return 16 + 36*(r/43) + 6*(g/43) + b/43
}

func cell(au aurora.Aurora, c surface.LogicalColor, label string) string {
	v := au.BgIndex(index256(c.Preview()), label)
	if c.Blinking() {
		v = v.SlowBlink()
	}
	return v.String()
}

// renderSurface draws grid with top row of notes first, side column on the right and bottom row last.
func renderSurface(au aurora.Aurora, state *surfaceState, layout surface.Layout) []string {
	var lines []string

	grid := layout.PushButtons
	columns := 8
	rows := (int(grid.High) - int(grid.Low) + 1) / columns

	var bottom, side surface.Range
	if len(layout.SideButtons) > 0 {
		bottom = layout.SideButtons[0]
	}
	if len(layout.SideButtons) > 1 {
		side = layout.SideButtons[1]
	}

	for row := rows - 1; row >= 0; row-- {
		var b strings.Builder
		for col := 0; col < columns; col++ {
			note := grid.Low + uint8(row*columns+col)
			b.WriteString(cell(au, state.Get(note), "   "))
		}
		b.WriteString(" ")
		if side != (surface.Range{}) {
			note := side.Low + uint8(rows-1-row)
			b.WriteString(cell(au, state.Get(note), fmt.Sprintf("%2d ", note)))
		}
		lines = append(lines, b.String())
	}

	var b strings.Builder
	for note := int(bottom.Low); bottom != (surface.Range{}) && note <= int(bottom.High); note++ {
		b.WriteString(cell(au, state.Get(uint8(note)), fmt.Sprintf("%2d ", note)))
	}
	lines = append(lines, b.String())

	shift := "shift: off"
	if state.Shift() {
		shift = au.Bold("shift: ON").String()
	}
	lines = append(lines, shift)
	return lines
}

func surfaceView(g *gocui.Gui, colors bool, state *surfaceState, layout surface.Layout) {
	view, err := g.View(ViewSurface)
	if err != nil {
		panic(err)
	}
	au := aurora.NewAurora(colors)

	for {
		lines := renderSurface(au, state, layout)
		g.Update(func(g *gocui.Gui) error {
			view.Clear()
			for _, l := range lines {
				view.Write([]byte(l))
				view.Write([]byte{'\n'})
			}
			return nil
		})
		time.Sleep(time.Millisecond * 100)
	}
}

// showHolder gives UI access to the show currently driven by manager.
type showHolder struct {
	mu   sync.RWMutex
	show *show.Show
}

func (h *showHolder) Set(s *show.Show) {
	h.mu.Lock()
	h.show = s
	h.mu.Unlock()
}

func (h *showHolder) Get() *show.Show {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.show
}

func stateString(au aurora.Aurora, s cue.State) string {
	switch {
	case s.Has(cue.IsRunning):
		return au.Green(s.String()).String()
	case s.Has(cue.IsPaused):
		return au.Yellow(s.String()).String()
	case s.Has(cue.Error):
		return au.Red(s.String()).String()
	default:
		return au.Gray(12, s.String()).String()
	}
}

func renderShow(au aurora.Aurora, s *show.Show, width int) []string {
	if s == nil {
		return []string{"no show loaded"}
	}

	grid := s.Grid()
	lines := []string{fmt.Sprintf("page: %d/%d, cues: %d", s.Page()+1, grid.Pages, len(s.Cues()))}

	for column := 0; column < grid.Columns; column++ {
		for _, c := range s.CuesAtColumn(column) {
			line := fmt.Sprintf("%d: %s %s", column+1, colorForString(au, c.Name()).String(), stateString(au, c.State()))
			if m, ok := c.(*show.MediaCue); ok {
				line += fmt.Sprintf(" vol: %3.0f%%", m.LiveVolume()*100)
			}
			free := width - rawStringLen(line)
			if free < 0 {
				free = 0
			}
			lines = append(lines, line+strings.Repeat(" ", free))
		}
	}
	return lines
}

func overviewView(g *gocui.Gui, colors bool, holder *showHolder) {
	view, err := g.View(ViewOverview)
	if err != nil {
		panic(err)
	}

	au := aurora.NewAurora(colors)

	for {
		x, y := view.Size()
		viewData := renderShow(au, holder.Get(), x)

		g.Update(func(g *gocui.Gui) error {
			view.Rewind()
			for i := 0; i < y; i++ {
				if i > len(viewData)-1 {
					view.Write([]byte(strings.Repeat(" ", x)))
					view.Write([]byte{'\n'})
					continue
				}
				view.Write([]byte(viewData[i]))
				view.Write([]byte{'\n'})
			}
			return nil
		})
		time.Sleep(time.Millisecond * 500)
	}
}

// logView redraws log view on new messages or resize, at most once per rate.
func logView(g *gocui.Gui, color bool, logLevel, bufSize int, rate time.Duration, messages <-chan []byte) {
	feeder, err := NewFeeder(g, ViewLogs, logLevel, aurora.NewAurora(color))
	if err != nil {
		panic(err)
	}

	buf := newLogBuffer(bufSize)

	var newMessage = make(chan bool, 1)

	go func() {
		var lastX, lastY int
		for {
			x, y := feeder.view.Size()
			if x != lastX || y != lastY {
				select {
				case newMessage <- true:
				default:
				}
				lastX = x
				lastY = y
			}
			time.Sleep(time.Millisecond * 100)
		}
	}()

	go func() {
		for msg := range messages {
			buf.WriteMessage(msg)
			select {
			case newMessage <- true:
			default:
			}
		}
	}()

	for range newMessage {
		_, y := feeder.view.Size()
		lastMessages := buf.ReadLastMessages(y)
		g.Update(func(g *gocui.Gui) error {
			feeder.view.Rewind()
			for _, msg := range lastMessages {
				feeder.Write(msg)
			}
			return nil
		})
		time.Sleep(rate)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/awesome-gocui/gocui"
	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
)

const (
	ViewLogs     = "logs"
	ViewOverview = "overview"
	ViewSurface  = "surface"
)

// surface view fits 9 columns of 3 characters and 9 rows
const surfaceWidth, surfaceHeight = 30, 11

func GetCli() (*gocui.Gui, error) {
	g, err := gocui.NewGui(gocui.Output256, true)
	if err != nil {
		return nil, err
	}

	g.SetManagerFunc(Layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return nil, err
	}

	return g, nil
}

func Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView(ViewSurface, 0, 0, surfaceWidth, surfaceHeight, 0); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "[Surface]"
		v.Autoscroll = false
		v.Wrap = false
		v.Frame = true
	}

	if v, err := g.SetView(ViewOverview, surfaceWidth+1, 0, maxX-1, surfaceHeight, 0); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "[Show]"
		v.Autoscroll = false
		v.Wrap = false
		v.Frame = true
	}

	if v, err := g.SetView(ViewLogs, 0, surfaceHeight+1, maxX-1, maxY-1, gocui.TOP); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "[Logs]"
		v.Autoscroll = false
		v.Wrap = false
		v.Frame = true
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

type TimeNanosecond time.Time

func (j *TimeNanosecond) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*j = TimeNanosecond(time.Unix(0, v))
	return nil
}

func (j TimeNanosecond) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(j))
}

type Entry struct {
	Ts     TimeNanosecond `json:"ts"`
	Caller string         `json:"caller"`
	Msg    string         `json:"msg"`
	Level  int            `json:"level"`

	Port   string `json:"port"`
	Cue    string `json:"cue"`
	Key    string `json:"key"`
	Action string `json:"action"`
	Owner  string `json:"owner"`
	Error  string `json:"error"`
}

func unpack(data []byte) (Entry, error) {
	var v Entry
	err := json.Unmarshal(data, &v)
	return v, err
}

type Feeder struct {
	view     *gocui.View
	au       aurora.Aurora
	logLevel int
}

func NewFeeder(gui *gocui.Gui, viewName string, logLevel int, au aurora.Aurora) (Feeder, error) {
	v, err := gui.View(viewName)
	if err != nil {
		return Feeder{}, err
	}

	return Feeder{view: v, logLevel: logLevel, au: au}, nil
}

func gray(v uint8) aurora.Color {
	if v > 23 {
		v = 23
	}
	return aurora.Color(232+v) << 16
}

func color(r, g, b uint8) aurora.Color {
	return aurora.Color(16+36*r+6*g+b) << 16
}

func terminator(r rune) bool {
	if r >= 0x40 && r <= 0x7e {
		return true
	}
	return false
}

// returns random color for string, will return the same color for the same string
func colorForString(au aurora.Aurora, s string) aurora.Value {
	h := fnv.New32a()
	h.Write([]byte(s))
	sum := h.Sum32()

	r, g, b := uint8(sum)&0b00000111, uint8(sum>>8)&0b00000111, uint8(sum>>16)&0b00000111
	if r > 5 {
		r = 5
	}
	if g > 5 {
		g = 5
	}
	if b > 5 {
		b = 5
	}

	// avoid dark colors
	if r+g+b < 3 {
		r += 1
		g += 1
		b += 1
	}

	return au.Index(16+36*r+6*g+b, s)
}

// rawStringLen returns a number of runes in string ignoring included escape sequences
func rawStringLen(s string) int {
	var sequence bool
	var escLens []int
	var escLen int

	for i, r := range s {
		if !sequence {
			if r == '\033' {
				if i >= len(s)-1 { // esc seems to be last character
					continue
				}
				if s[i+1] == '[' {
					sequence = true
					escLen += 1
					continue
				}

			}
		} else {
			if r == '[' && s[i-1] == '\033' {
				escLen += 1
				continue
			}
			if terminator(r) {
				sequence = false
				escLen += 1
				escLens = append(escLens, escLen)
				escLen = 0
			} else {
				escLen += 1
			}
		}
	}
	var sum int
	for _, x := range escLens {
		sum += x
	}
	return utf8.RuneCountInString(s) - sum
}

func levelColor(level int) aurora.Color {
	switch level {
	case logger.ErrorLvl:
		return color(5, 1, 1)
	case logger.WarningLvl:
		return color(5, 5, 1)
	case logger.InfoLvl, logger.ActionLvl:
		return gray(18)
	case logger.MessagesLvl:
		return gray(15)
	case logger.MessagesUnboundLvl:
		return gray(13)
	case logger.FeedbackLvl:
		return gray(11)
	default:
		return gray(9)
	}
}

func (e Entry) fields(au aurora.Aurora, logLevel int) string {
	var fields []string
	for _, f := range []struct{ name, value string }{
		{"port", e.Port},
		{"cue", e.Cue},
		{"owner", e.Owner},
		{"action", e.Action},
		{"key", e.Key},
	} {
		if f.value != "" {
			fields = append(fields, fmt.Sprintf("[%s=%s]", f.name, colorForString(au, f.value).String()))
		}
	}
	if e.Error != "" {
		fields = append(fields, fmt.Sprintf("[error=%s]", au.Red(e.Error).String()))
	}
	if logLevel >= logger.DebugLvl && e.Caller != "" {
		file, line, _ := strings.Cut(e.Caller, ":")
		fields = append(fields, fmt.Sprintf("(%s:%s)", colorForString(au, file).String(), line))
	}
	return strings.Join(fields, " ")
}

// prepareString renders log entry, width -1 disables fitting the line into given width.
// Empty string is returned for entries above logLevel.
func prepareString(msg Entry, au aurora.Aurora, width, logLevel int) string {
	if msg.Level > logLevel {
		return ""
	}

	msgColor := levelColor(msg.Level)

	tf := time.Time(msg.Ts).Format("15:04:05.000")
	timestamp := fmt.Sprintf(
		"[%s]",
		au.Reset(tf).Colorize(color(1, 1, 5)).String(),
	)

	fields := msg.fields(au, logLevel)

	fieldsLen := rawStringLen(fields)
	timeLen := rawStringLen(timestamp)
	msgLen := utf8.RuneCountInString(msg.Msg)

	if width < 0 {
		m := au.Reset(msg.Msg).Colorize(msgColor).String()
		return strings.TrimRight(fmt.Sprintf("%s %s %s", timestamp, m, fields), " ")
	}

	var m string
	freeSpace := width - (timeLen + 1 + msgLen + 1 + fieldsLen)
	if freeSpace < 0 {
		limit := (width - (fieldsLen + 1 + timeLen + 1)) - 3
		if limit < 20 {
			m = au.Reset(msg.Msg).Colorize(msgColor).String()
			fields = au.Gray(12, "(fields hidden)").String()
			freeSpace = width - (timeLen + 1 + msgLen + 1 + rawStringLen(fields))
			if freeSpace < 0 {
				freeSpace = 0
			}
		} else {
			m = au.Reset(string([]rune(msg.Msg)[:limit]) + "(…)").Colorize(msgColor).String()
			freeSpace = 0
		}
	} else {
		m = au.Reset(msg.Msg).Colorize(msgColor).String()
	}

	separators := strings.Repeat(" ", freeSpace)

	return fmt.Sprintf("%s %s%s %s", timestamp, m, separators, fields)
}

func (f *Feeder) Write(data []byte) {
	msg, err := unpack(data)
	if err != nil {
		f.view.Write(data)
		f.view.Write([]byte{'\n'})
		return
	}

	x, _ := f.view.Size()

	s := prepareString(msg, f.au, x, f.logLevel)
	if s != "" {
		f.view.Write([]byte(s))
		f.view.Write([]byte{'\n'})
	}
}

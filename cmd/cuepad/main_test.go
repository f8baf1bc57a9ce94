package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gethiox/cuepad/internal/pkg/surface"
	"github.com/gethiox/cuepad/internal/pkg/surface/apcmini"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cuepad.config")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o666))
	return path
}

func TestLoadCuepadConfig(t *testing.T) {
	path := writeConfig(t, `
[cuepad]
input = APC
virtual_name = show-control
show = shows/main.yaml
log_view_rate = 20
log_buffer_size = 100
`)

	cfg, err := LoadCuepadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "APC", cfg.Cuepad.Input)
	assert.Equal(t, "APC", cfg.Cuepad.Output, "output defaults to input")
	assert.Equal(t, "show-control", cfg.Cuepad.VirtualName)
	assert.Equal(t, "shows/main.yaml", cfg.Cuepad.ShowFile)
	assert.Equal(t, time.Millisecond*50, cfg.Cuepad.LogViewRate)
	assert.Equal(t, 100, cfg.Cuepad.LogBufferSize)
	assert.Equal(t, 256, cfg.Cuepad.MessageBufferSize)
	assert.Equal(t, "apc mini mk1", cfg.Surface.Profile)
}

func TestLoadCuepadConfig_Template(t *testing.T) {
	data, err := templateConfig.ReadFile(configDir + "/cuepad.config")
	require.NoError(t, err)

	cfg, err := LoadCuepadConfig(writeConfig(t, string(data)))
	require.NoError(t, err)

	_, err = surface.Get(cfg.Surface.Profile)
	assert.NoError(t, err)
}

func TestLoadCuepadConfigFail(t *testing.T) {
	for name, data := range map[string]string{
		"missing rate":  "[cuepad]\nlog_buffer_size = 10\n",
		"zero rate":     "[cuepad]\nlog_view_rate = 0\nlog_buffer_size = 10\n",
		"bad buffer":    "[cuepad]\nlog_view_rate = 10\nlog_buffer_size = many\n",
		"missing value": "[cuepad]\nlog_view_rate = 10\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCuepadConfig(writeConfig(t, data))
			assert.Error(t, err)
		})
	}

	_, err := LoadCuepadConfig(filepath.Join(t.TempDir(), "missing.config"))
	assert.Error(t, err)
}

func TestCaptureLine(t *testing.T) {
	for _, tc := range []struct {
		echo, filter string
		expected     string
		ok           bool
	}{
		{
			echo:     "note_on channel=0 note=56 velocity=0",
			expected: `- ["note_on channel=0 note=56 velocity=0", ""]`,
			ok:       true,
		},
		{
			echo:     "control_change channel=0 control=49 value=100",
			expected: `- ["control_change channel=0 control=49 value=100", ""]`,
			ok:       true,
		},
		{
			echo:   "control_change channel=0 control=49 value=100",
			filter: "note_on",
			ok:     false,
		},
		{
			echo:     "note_off channel=1 note=3 velocity=0",
			filter:   "note_off",
			expected: `- ["note_off channel=1 note=3 velocity=0", ""]`,
			ok:       true,
		},
		{echo: "garbage", ok: false},
	} {
		t.Run(tc.echo+"/"+tc.filter, func(t *testing.T) {
			line, ok := captureLine(tc.echo, tc.filter)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, line)
		})
	}
}

func TestRenderSurface(t *testing.T) {
	state := newSurfaceState()
	state.Set(apcmini.StopAll, surface.Green)
	state.SetShift(true)

	lines := renderSurface(aurora.NewAurora(false), state, apcmini.Profile.Layout())
	require.Len(t, lines, 10)

	assert.Contains(t, lines[0], "82", "top row ends with first side button")
	assert.Contains(t, lines[7], "89", "bottom grid row ends with last side button")
	assert.True(t, strings.HasPrefix(lines[8], "64"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[8]), "71"))
	assert.Equal(t, "shift: ON", lines[9])
	assert.Equal(t, surface.Green, state.Get(apcmini.StopAll))
}

package config

import (
	"fmt"
	"os"

	"github.com/gethiox/cuepad/internal/pkg/binding"
	"github.com/gethiox/cuepad/internal/pkg/cue"
	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/gethiox/cuepad/internal/pkg/show"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var log = logger.GetLogger()

// Pair is a stored binding written as two element list: [key, action].
type Pair []string

type YamlCue struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Media  bool    `yaml:"media"`
	Page   int     `yaml:"page"`
	Column int     `yaml:"column"`
	Row    int     `yaml:"row"`
	Volume float64 `yaml:"volume"`
	MIDI   []Pair  `yaml:"midi"`
}

type YamlShowConfig struct {
	Layout struct {
		Pages   int    `yaml:"pages"`
		Columns int    `yaml:"columns"`
		Rows    int    `yaml:"rows"`
		MIDI    []Pair `yaml:"midi"`
	} `yaml:"layout"`

	Cues []YamlCue `yaml:"cues"`
}

func Parse(data []byte) (YamlShowConfig, error) {
	var cfg YamlShowConfig
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return YamlShowConfig{}, fmt.Errorf("failed to parse show config: %w", err)
	}
	return cfg, nil
}

// entries converts pairs into stored bindings, pairs that are not [key, action] are skipped.
func entries(owner string, pairs []Pair) []binding.Entry {
	result := make([]binding.Entry, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			log.Info("malformed binding skipped", logger.Warning, zap.String("owner", owner), zap.Int("index", i), zap.Strings("entry", p))
			continue
		}
		result = append(result, binding.Entry{Key: p[0], Action: p[1]})
	}
	return result
}

// grid of a single APC mini page
const defaultColumns, defaultRows = 8, 8

func (c YamlShowConfig) Build() (*show.Show, error) {
	grid := show.Grid{
		Pages:   c.Layout.Pages,
		Columns: c.Layout.Columns,
		Rows:    c.Layout.Rows,
	}
	if grid.Pages == 0 {
		grid.Pages = 1
	}
	if grid.Columns == 0 {
		grid.Columns = defaultColumns
	}
	if grid.Rows == 0 {
		grid.Rows = defaultRows
	}

	specs := make([]show.CueSpec, 0, len(c.Cues))
	for _, yc := range c.Cues {
		name := yc.Name
		if name == "" {
			name = yc.ID
		}
		volume := yc.Volume
		if yc.Media && volume == 0 {
			volume = 1.0
		}
		specs = append(specs, show.CueSpec{
			ID:       yc.ID,
			Name:     name,
			Media:    yc.Media,
			Page:     yc.Page,
			Column:   yc.Column,
			Row:      yc.Row,
			Volume:   volume,
			Bindings: map[string][]binding.Entry{cue.MIDIDomain: entries(yc.ID, yc.MIDI)},
		})
	}

	s, err := show.New(grid, entries("layout", c.Layout.MIDI), specs)
	if err != nil {
		return nil, fmt.Errorf("invalid show: %w", err)
	}
	return s, nil
}

func LoadShow(path string) (*show.Show, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read show config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

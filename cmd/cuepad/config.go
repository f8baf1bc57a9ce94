package main

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/go-ini/ini"
)

type Cuepad struct {
	Input, Output     string
	VirtualName       string
	ShowFile          string
	LogViewRate       time.Duration
	LogBufferSize     int
	MessageBufferSize int
}

type Surface struct {
	Profile string
}

type CuepadConfig struct {
	Cuepad  Cuepad
	Surface Surface
}

func LoadCuepadConfig(path string) (CuepadConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CuepadConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return CuepadConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	var c CuepadConfig

	// [cuepad]
	cuepad := cfg.Section("cuepad")
	c.Cuepad.Input = cuepad.Key("input").MustString("APC MINI")
	c.Cuepad.Output = cuepad.Key("output").MustString(c.Cuepad.Input)
	c.Cuepad.VirtualName = cuepad.Key("virtual_name").MustString("cuepad")
	c.Cuepad.ShowFile = cuepad.Key("show").MustString(configDir + "/show.yaml")

	rate, err := cuepad.Key("log_view_rate").Int()
	if err != nil {
		return CuepadConfig{}, fmt.Errorf("log_view_rate: %w", err)
	}
	if rate <= 0 {
		return CuepadConfig{}, fmt.Errorf("log_view_rate has to be positive: %d", rate)
	}
	c.Cuepad.LogViewRate = time.Second / time.Duration(rate)

	c.Cuepad.LogBufferSize, err = cuepad.Key("log_buffer_size").Int()
	if err != nil {
		return CuepadConfig{}, fmt.Errorf("log_buffer_size: %w", err)
	}
	c.Cuepad.MessageBufferSize = cuepad.Key("message_buffer_size").MustInt(256)

	// [surface]
	c.Surface.Profile = cfg.Section("surface").Key("profile").MustString("apc mini mk1")

	return c, nil
}

//go:embed cuepad-config/cuepad.config
//go:embed cuepad-config/show.yaml
var templateConfig embed.FS

const configDir = "cuepad-config"

// createConfigDirectoryIfNeeded creates config directory with template files.
// Existing files stay intact, missing ones are recreated.
func createConfigDirectoryIfNeeded() error {
	return fs.WalkDir(templateConfig, configDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			err := os.MkdirAll(path, 0o777)
			if err != nil {
				return fmt.Errorf("cannot create \"%s\" directory: %w", path, err)
			}
			return nil
		}

		_, err = os.Stat(path)
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("unexpected error when reading \"%s\" file: %w", path, err)
		}

		data, err := fs.ReadFile(templateConfig, path)
		if err != nil {
			return fmt.Errorf("cannot read \"%s\" template file: %w", path, err)
		}

		err = os.WriteFile(path, data, 0o666)
		if err != nil {
			return fmt.Errorf("cannot write data into \"%s\" file: %w", path, err)
		}

		log.Info(fmt.Sprintf("Created \"%s\" file", path), logger.Info)
		return nil
	})
}

package main

import (
	"errors"
	"io"
	"io/fs"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "gopkg.in/yaml.v2"

	"github.com/ezrec/rmttx/rmt"
)

const (
	CONFIG_FILE_NAME = "rmttx.yml"
)

type config struct {
	// Tick is the real time length of one simulated pulse item.
	Tick time.Duration `koanf:"tick" yaml:"tick"`

	// Drain is the longest wait for the channels to go idle after the
	// script has run.
	Drain time.Duration `koanf:"drain" yaml:"drain"`

	QueueDepth   int     `koanf:"queuedepth" yaml:"queuedepth"`
	ErrorLogRate float64 `koanf:"errorlograte" yaml:"errorlograte"`
	Verbose      bool    `koanf:"verbose" yaml:"verbose"`

	// Locale for messages; empty uses the environment's.
	Locale string `koanf:"locale" yaml:"locale,omitempty"`
}

func defaultConfig() config {
	return config{
		Tick:         time.Millisecond,
		Drain:        2 * time.Second,
		QueueDepth:   rmt.EVENT_QUEUE_DEPTH,
		ErrorLogRate: rmt.ERROR_LOG_RATE,
	}
}

// loadConfig layers the defaults, the YAML file at path (if it exists),
// and the overrides.
func loadConfig(path string, overrides map[string]any) (cfg config, err error) {
	k := koanf.New(".")

	err = k.Load(structs.Provider(defaultConfig(), "koanf"), nil)
	if err != nil {
		return
	}

	if len(path) != 0 {
		err = k.Load(file.Provider(path), yaml.Parser())
		if errors.Is(err, fs.ErrNotExist) {
			// No file, use the defaults.
			err = nil
		}
		if err != nil {
			return
		}
	}

	if len(overrides) != 0 {
		err = k.Load(confmap.Provider(overrides, "."), nil)
		if err != nil {
			return
		}
	}

	err = k.Unmarshal("", &cfg)
	return
}

func (cfg config) ControllerConfig() rmt.ControllerConfig {
	return rmt.ControllerConfig{
		QueueDepth:   cfg.QueueDepth,
		ErrorLogRate: cfg.ErrorLogRate,
		Verbose:      cfg.Verbose,
	}
}

// writeConfig writes the configuration as YAML.
func writeConfig(w io.Writer, cfg config) error {
	return yml.NewEncoder(w).Encode(cfg)
}

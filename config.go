package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type config struct {
	SampleRate   int                    `yaml:"sample_rate"`
	MasterVolume float64                `yaml:"master_volume"`
	Sink         string                 `yaml:"sink"`
	BufferSize   int                    `yaml:"buffer_size"`
	Preview      map[string]interface{} `yaml:"preview"`
}

func defaultConfig() config {
	return config{
		SampleRate:   44100,
		MasterVolume: 1,
		Sink:         "portaudio",
		BufferSize:   256,
	}
}

// loadConfig reads file over the defaults. A missing file is not an error.
func loadConfig(file string) (config, error) {
	cfg := defaultConfig()
	if file == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", file, err)
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", c.SampleRate)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be positive: %d", c.BufferSize)
	}
	switch c.Sink {
	case "portaudio", "oto", "none":
	default:
		return fmt.Errorf("unknown sink: %q", c.Sink)
	}
	return nil
}

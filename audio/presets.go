package audio

import (
	"fmt"
	"sort"
)

// Device is anything with settable properties, like the preview settings of an Engine.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

var presets = map[string]preset{
	"lead": {
		PropWaveform:   "square",
		PropDuty:       0.25,
		PropEnvAttack:  0.01,
		PropEnvDecay:   0.1,
		PropEnvSustain: 0.7,
		PropEnvRelease: 0.1,
	},
	"bass": {
		PropWaveform:   "triangle",
		PropEnvAttack:  0.005,
		PropEnvDecay:   0.2,
		PropEnvSustain: 0.5,
		PropEnvRelease: 0.05,
	},
	"pad": {
		PropWaveform:   "sine",
		PropLength:     1.5,
		PropEnvAttack:  0.4,
		PropEnvDecay:   0.3,
		PropEnvSustain: 0.8,
		PropEnvRelease: 0.6,
	},
	"pluck": {
		PropWaveform:   "saw",
		PropEnvAttack:  0.001,
		PropEnvDecay:   0.15,
		PropEnvSustain: 0.,
		PropEnvRelease: 0.05,
	},
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return nil
}

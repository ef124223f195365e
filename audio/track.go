package audio

import (
	"errors"
	"fmt"
)

var ErrUnknownTrackKind = errors.New("unknown track kind")

type TrackKind int

const (
	Melodic TrackKind = iota
	Percussion
)

func (k TrackKind) String() string {
	switch k {
	case Melodic:
		return "melodic"
	case Percussion:
		return "percussion"
	}
	return fmt.Sprintf("TrackKind(%d)", int(k))
}

func ParseTrackKind(s string) (TrackKind, error) {
	switch s {
	case "melodic":
		return Melodic, nil
	case "percussion", "drums":
		return Percussion, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTrackKind, s)
}

func (k TrackKind) MarshalText() ([]byte, error) {
	if k != Melodic && k != Percussion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrackKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *TrackKind) UnmarshalText(b []byte) error {
	v, err := ParseTrackKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Track holds either notes or drum events, depending on its kind.
type Track struct {
	Name    string      `yaml:"name" json:"name"`
	Kind    TrackKind   `yaml:"kind" json:"kind"`
	Enabled bool        `yaml:"enabled" json:"enabled"`
	Volume  float64     `yaml:"volume" json:"volume"`
	Notes   []Note      `yaml:"notes,omitempty" json:"notes,omitempty"`
	Drums   []DrumEvent `yaml:"drums,omitempty" json:"drums,omitempty"`
	Effects Effects     `yaml:"effects,omitempty" json:"effects,omitempty"`
}

func (t *Track) Validate() error {
	switch t.Kind {
	case Melodic:
		if len(t.Drums) > 0 {
			return fmt.Errorf("track %q: melodic track holds drum events", t.Name)
		}
	case Percussion:
		if len(t.Notes) > 0 {
			return fmt.Errorf("track %q: percussion track holds notes", t.Name)
		}
	default:
		return fmt.Errorf("track %q: %w: %d", t.Name, ErrUnknownTrackKind, int(t.Kind))
	}
	if t.Volume < 0 || t.Volume > 1 {
		return fmt.Errorf("track %q: volume out of range 0 - 1: %v", t.Name, t.Volume)
	}
	for i, n := range t.Notes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("track %q: note %d: %w", t.Name, i, err)
		}
	}
	for i, d := range t.Drums {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("track %q: drum event %d: %w", t.Name, i, err)
		}
	}
	return t.Effects.Validate()
}

// Effects configures the post processing of a track. A nil block bypasses
// its stage.
type Effects struct {
	Filter  *Filter  `yaml:"filter,omitempty" json:"filter,omitempty"`
	Delay   *Delay   `yaml:"delay,omitempty" json:"delay,omitempty"`
	Tremolo *Tremolo `yaml:"tremolo,omitempty" json:"tremolo,omitempty"`
	Vibrato *Vibrato `yaml:"vibrato,omitempty" json:"vibrato,omitempty"`
}

func (e Effects) Bypass() bool {
	return e.Filter == nil && e.Delay == nil && e.Tremolo == nil && e.Vibrato == nil
}

func (e Effects) Validate() error {
	if f := e.Filter; f != nil {
		if f.Type < Lowpass || f.Type > Bandpass {
			return fmt.Errorf("unknown filter type: %d", int(f.Type))
		}
		if f.Cutoff <= 0 {
			return fmt.Errorf("filter cutoff must be positive: %v", f.Cutoff)
		}
		if f.Resonance < 0 {
			return fmt.Errorf("filter resonance must not be negative: %v", f.Resonance)
		}
	}
	if d := e.Delay; d != nil {
		if d.Time < 0 {
			return fmt.Errorf("delay time must not be negative: %v", d.Time)
		}
		if d.Feedback < 0 || d.Feedback > 1 || d.Mix < 0 || d.Mix > 1 {
			return fmt.Errorf("delay feedback and mix must be in range 0 - 1: %+v", *d)
		}
	}
	if t := e.Tremolo; t != nil && (t.Depth < 0 || t.Depth > 1 || t.Rate < 0) {
		return fmt.Errorf("invalid tremolo: %+v", *t)
	}
	if v := e.Vibrato; v != nil && (v.Depth < 0 || v.Rate < 0) {
		return fmt.Errorf("invalid vibrato: %+v", *v)
	}
	return nil
}

type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
)

func (f FilterType) String() string {
	switch f {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	}
	return fmt.Sprintf("FilterType(%d)", int(f))
}

func (f *FilterType) UnmarshalText(b []byte) error {
	switch s := string(b); s {
	case "lowpass":
		*f = Lowpass
	case "highpass":
		*f = Highpass
	case "bandpass":
		*f = Bandpass
	default:
		return fmt.Errorf("unknown filter type: %q", s)
	}
	return nil
}

func (f FilterType) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

type Filter struct {
	Type      FilterType `yaml:"type" json:"type"`
	Cutoff    float64    `yaml:"cutoff" json:"cutoff"`
	Resonance float64    `yaml:"resonance" json:"resonance"`
}

type Delay struct {
	Time     float64 `yaml:"time" json:"time"`
	Feedback float64 `yaml:"feedback" json:"feedback"`
	Mix      float64 `yaml:"mix" json:"mix"`
}

type Tremolo struct {
	Rate  float64 `yaml:"rate" json:"rate"`
	Depth float64 `yaml:"depth" json:"depth"`
}

// Vibrato modulates pitch. Depth is in semitones.
type Vibrato struct {
	Rate  float64 `yaml:"rate" json:"rate"`
	Depth float64 `yaml:"depth" json:"depth"`
}

// EffectChain post processes the summed buffer of a track.
type EffectChain interface {
	Apply(buf []float64, fx Effects) []float64
}

type bypass struct{}

func (bypass) Apply(buf []float64, _ Effects) []float64 { return buf }

type Project struct {
	Name        string  `yaml:"name" json:"name"`
	BPM         float64 `yaml:"bpm" json:"bpm"`
	OriginalBPM float64 `yaml:"original_bpm,omitempty" json:"original_bpm,omitempty"`
	Tracks      []Track `yaml:"tracks" json:"tracks"`
}

func (p *Project) Validate() error {
	if p.BPM < 0 || p.OriginalBPM < 0 {
		return fmt.Errorf("tempo must not be negative: bpm %v, original bpm %v", p.BPM, p.OriginalBPM)
	}
	for i := range p.Tracks {
		if err := p.Tracks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Track returns the track with the given name, or nil.
func (p *Project) Track(name string) *Track {
	for i := range p.Tracks {
		if p.Tracks[i].Name == name {
			return &p.Tracks[i]
		}
	}
	return nil
}

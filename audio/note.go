package audio

import (
	"errors"
	"fmt"
)

var ErrUnknownDrum = errors.New("unknown drum kind")

// Note is a single pitched event. Start and Duration are seconds on the
// timeline of the track holding the note. A Pitch of 0 or less is a rest.
type Note struct {
	Pitch    int      `yaml:"pitch" json:"pitch"`
	Velocity int      `yaml:"velocity" json:"velocity"`
	Start    float64  `yaml:"start" json:"start"`
	Duration float64  `yaml:"duration" json:"duration"`
	Waveform Waveform `yaml:"waveform" json:"waveform"`
	Duty     float64  `yaml:"duty,omitempty" json:"duty,omitempty"`
	ADSR     *ADSR    `yaml:"adsr,omitempty" json:"adsr,omitempty"`
	Vibrato  *Vibrato `yaml:"vibrato,omitempty" json:"vibrato,omitempty"`
	Slide    *Slide   `yaml:"slide,omitempty" json:"slide,omitempty"`
}

// Slide glides the pitch of a note towards another pitch over its duration.
type Slide struct {
	To    int   `yaml:"to" json:"to"`
	Curve Curve `yaml:"curve" json:"curve"`
}

func (n Note) End() float64 { return n.Start + n.Duration }

func (n Note) IsRest() bool { return n.Pitch <= 0 }

// WithDuration returns a copy of n lasting d seconds.
func (n Note) WithDuration(d float64) Note {
	n.Duration = d
	return n
}

func (n Note) Validate() error {
	if n.Pitch > 127 {
		return fmt.Errorf("pitch out of range 0 - 127: %d", n.Pitch)
	}
	if n.Velocity < 0 || n.Velocity > 127 {
		return fmt.Errorf("velocity out of range 0 - 127: %d", n.Velocity)
	}
	if n.Start < 0 || n.Duration < 0 {
		return fmt.Errorf("note timing must not be negative: start %v, duration %v", n.Start, n.Duration)
	}
	if !n.Waveform.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownWaveform, int(n.Waveform))
	}
	if n.Duty < 0 || n.Duty > 1 {
		return fmt.Errorf("duty cycle out of range 0 - 1: %v", n.Duty)
	}
	if n.ADSR != nil {
		if err := n.ADSR.Validate(); err != nil {
			return err
		}
	}
	if n.Slide != nil {
		if n.Slide.To < 1 || n.Slide.To > 127 {
			return fmt.Errorf("slide target out of range 1 - 127: %d", n.Slide.To)
		}
		if !n.Slide.Curve.Valid() {
			return fmt.Errorf("unknown slide curve: %v", n.Slide.Curve)
		}
	}
	return nil
}

// duty returns the duty cycle used for rendering. Unset means a square wave.
func (n Note) duty() float64 {
	if n.Duty <= 0 {
		return 0.5
	}
	return n.Duty
}

type DrumKind int

const (
	Kick DrumKind = iota
	Snare
	HiHat
	Crash
	OtherDrum
)

var drumNames = map[DrumKind]string{
	Kick:      "kick",
	Snare:     "snare",
	HiHat:     "hihat",
	Crash:     "crash",
	OtherDrum: "other",
}

func (d DrumKind) String() string {
	if s, ok := drumNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DrumKind(%d)", int(d))
}

func ParseDrum(s string) (DrumKind, error) {
	for k, name := range drumNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDrum, s)
}

func (d DrumKind) MarshalText() ([]byte, error) {
	if _, ok := drumNames[d]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDrum, int(d))
	}
	return []byte(d.String()), nil
}

func (d *DrumKind) UnmarshalText(b []byte) error {
	v, err := ParseDrum(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// DrumEvent is a percussion hit. Start and Duration are measured in beats and
// only become seconds at render time.
type DrumEvent struct {
	Kind     DrumKind `yaml:"kind" json:"kind"`
	Start    float64  `yaml:"start" json:"start"`
	Duration float64  `yaml:"duration" json:"duration"`
	Velocity int      `yaml:"velocity" json:"velocity"`
}

func (d DrumEvent) End() float64 { return d.Start + d.Duration }

func (d DrumEvent) Validate() error {
	if _, ok := drumNames[d.Kind]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDrum, int(d.Kind))
	}
	if d.Velocity < 0 || d.Velocity > 127 {
		return fmt.Errorf("velocity out of range 0 - 127: %d", d.Velocity)
	}
	if d.Start < 0 || d.Duration < 0 {
		return fmt.Errorf("drum timing must not be negative: start %v, duration %v", d.Start, d.Duration)
	}
	return nil
}

package audio

import (
	"fmt"
	"math"

	"github.com/viterin/vek"
)

// ADSR describes an amplitude envelope. Attack, decay and release are in
// seconds, sustain is a level relative to the peak.
type ADSR struct {
	Attack  float64 `yaml:"attack" json:"attack"`
	Decay   float64 `yaml:"decay" json:"decay"`
	Sustain float64 `yaml:"sustain" json:"sustain"`
	Release float64 `yaml:"release" json:"release"`
}

var DefaultADSR = ADSR{Attack: 0.01, Decay: 0.1, Sustain: 0.7, Release: 0.2}

func (a ADSR) Validate() error {
	if a.Attack < 0 || a.Decay < 0 || a.Release < 0 {
		return fmt.Errorf("envelope stages must not be negative: %+v", a)
	}
	if a.Sustain < 0 || a.Sustain > 1 {
		return fmt.Errorf("sustain level is not in valid range 0 - 1: %v", a.Sustain)
	}
	return nil
}

// Stages holds the length of each envelope stage in samples.
type Stages struct {
	Attack  int
	Decay   int
	Sustain int
	Release int
}

func (s Stages) Total() int { return s.Attack + s.Decay + s.Sustain + s.Release }

// HoldToEnd makes the sustain stage fill whatever the other stages leave.
const HoldToEnd = -1

// StageLengths fits the stages of p into total samples. The sustain stage lasts
// hold samples, or fills the remainder when hold is HoldToEnd. Stages are
// clamped in order attack, decay, sustain, release so they never overrun total.
func StageLengths(total int, rate float64, p ADSR, hold int) Stages {
	total = max(total, 0)
	var (
		attack  = int(math.Round(p.Attack * rate))
		decay   = int(math.Round(p.Decay * rate))
		release = int(math.Round(p.Release * rate))
	)
	sustain := total - attack - decay - release
	if hold != HoldToEnd {
		sustain = min(hold, sustain)
	}

	var s Stages
	s.Attack = clampInt(attack, 0, total)
	s.Decay = clampInt(decay, 0, total-s.Attack)
	s.Sustain = clampInt(sustain, 0, max(0, total-s.Attack-s.Decay-release))
	s.Release = clampInt(release, 0, total-s.Attack-s.Decay-s.Sustain)
	return s
}

// Envelope computes amplitude envelopes and modulation curves. All methods are
// pure functions of their arguments.
type Envelope struct {
	rate float64
}

func NewEnvelope(sampleRate int) *Envelope {
	return &Envelope{rate: float64(sampleRate)}
}

// ADSR returns the envelope for a note lasting duration seconds, with the
// sustain stage filling the time not taken by the other stages.
func (e *Envelope) ADSR(duration float64, p ADSR) []float64 {
	return e.curve(numSamples(e.rate, duration), p, HoldToEnd)
}

// ADSRHold is like ADSR but holds the sustain level for at most hold seconds.
// Samples after the release stage are silent.
func (e *Envelope) ADSRHold(duration float64, p ADSR, hold float64) []float64 {
	return e.curve(numSamples(e.rate, duration), p, int(math.Round(hold*e.rate)))
}

func (e *Envelope) curve(n int, p ADSR, hold int) []float64 {
	env := make([]float64, n)
	s := StageLengths(n, e.rate, p, hold)

	pos := 0
	linspace(env[pos:pos+s.Attack], 0, 1)
	pos += s.Attack
	linspace(env[pos:pos+s.Decay], 1, p.Sustain)
	pos += s.Decay
	for i := pos; i < pos+s.Sustain; i++ {
		env[i] = p.Sustain
	}
	pos += s.Sustain
	linspace(env[pos:pos+s.Release], p.Sustain, 0)
	return env
}

// Apply multiplies buf by the ADSR envelope covering its length. The result has
// the length of the shorter of the two.
func (e *Envelope) Apply(buf []float64, p ADSR) []float64 {
	env := e.curve(len(buf), p, HoldToEnd)
	n := min(len(buf), len(env))
	if n == 0 {
		return buf[:0]
	}
	vek.Mul_Inplace(buf[:n], env[:n])
	return buf[:n]
}

type Curve int

const (
	Linear Curve = iota
	Exponential
)

func (c Curve) String() string {
	switch c {
	case Linear:
		return "linear"
	case Exponential:
		return "exponential"
	}
	return fmt.Sprintf("Curve(%d)", int(c))
}

func (c Curve) Valid() bool { return c == Linear || c == Exponential }

func ParseCurve(s string) (Curve, error) {
	switch s {
	case "", "linear":
		return Linear, nil
	case "exponential", "exp":
		return Exponential, nil
	}
	return 0, fmt.Errorf("unknown curve: %q", s)
}

func (c *Curve) UnmarshalText(b []byte) error {
	v, err := ParseCurve(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Curve) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Pitch returns a per sample frequency curve going from start to end Hz over
// duration seconds.
func (e *Envelope) Pitch(duration, start, end float64, c Curve) ([]float64, error) {
	freqs := make([]float64, numSamples(e.rate, duration))
	switch c {
	case Linear:
		linspace(freqs, start, end)
	case Exponential:
		if start <= 0 || end <= 0 {
			return nil, fmt.Errorf("exponential pitch curve needs positive frequencies: %v -> %v", start, end)
		}
		linspace(freqs, 0, 1)
		ratio := end / start
		for i, t := range freqs {
			freqs[i] = start * math.Pow(ratio, t)
		}
	default:
		return nil, fmt.Errorf("unknown curve: %v", c)
	}
	return freqs, nil
}

// Vibrato returns a per sample frequency curve that swings from base up to base
// raised by depth semitones, rate times per second. It never goes below base.
func (e *Envelope) Vibrato(base, duration, depth, rate float64) []float64 {
	freqs := make([]float64, numSamples(e.rate, duration))
	r := math.Pow(2, depth/12.0)
	for i := range freqs {
		t := float64(i) / e.rate
		freqs[i] = base * (1 + (r-1)*(math.Sin(twoPi*rate*t)+1)/2)
	}
	return freqs
}

// Tremolo scales buf in place by an amplitude curve oscillating between
// 1-depth and 1, rate times per second.
func (e *Envelope) Tremolo(buf []float64, rate, depth float64) []float64 {
	for i := range buf {
		t := float64(i) / e.rate
		buf[i] *= 1 - depth*(1-math.Sin(twoPi*rate*t))/2
	}
	return buf
}

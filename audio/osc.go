package audio

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

const twoPi = 2 * math.Pi

var (
	ErrUnknownWaveform = errors.New("unknown waveform")
	ErrUnknownNoise    = errors.New("unknown noise type")
)

type Waveform int

const (
	Square Waveform = iota
	Triangle
	Sawtooth
	Sine
	Noise
)

var waveformNames = map[Waveform]string{
	Square:   "square",
	Triangle: "triangle",
	Sawtooth: "sawtooth",
	Sine:     "sine",
	Noise:    "noise",
}

func (w Waveform) String() string {
	if s, ok := waveformNames[w]; ok {
		return s
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

func (w Waveform) Valid() bool {
	_, ok := waveformNames[w]
	return ok
}

func (w Waveform) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWaveform, int(w))
	}
	return []byte(w.String()), nil
}

func (w *Waveform) UnmarshalText(b []byte) error {
	v, err := ParseWaveform(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// ParseWaveform returns the waveform with the given name. "saw" and "pulse" are
// accepted as aliases for sawtooth and square.
func ParseWaveform(s string) (Waveform, error) {
	switch s {
	case "square", "pulse":
		return Square, nil
	case "triangle":
		return Triangle, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "sine":
		return Sine, nil
	case "noise":
		return Noise, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWaveform, s)
}

type NoiseKind int

const (
	White NoiseKind = iota
	Pink
)

func (n NoiseKind) String() string {
	switch n {
	case White:
		return "white"
	case Pink:
		return "pink"
	}
	return fmt.Sprintf("NoiseKind(%d)", int(n))
}

func (n *NoiseKind) UnmarshalText(b []byte) error {
	v, err := ParseNoise(string(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

func ParseNoise(s string) (NoiseKind, error) {
	switch s {
	case "white":
		return White, nil
	case "pink":
		return Pink, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNoise, s)
}

// Pink noise approximation: a 3 pole / 3 zero filter over white noise.
var (
	pinkB = [4]float64{0.049922035, -0.095993537, 0.050612699, -0.004408786}
	pinkA = [4]float64{1, -2.494956002, 2.017265875, -0.522189400}
)

// pinkWarmup is roughly the t60 of the slowest pole of the pink filter. That many
// samples are filtered and thrown away so the output starts in steady state.
const pinkWarmup = 1430

// Oscillator generates fixed length buffers of periodic waveforms and noise.
// It is safe for concurrent use.
type Oscillator struct {
	rate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewOscillator(sampleRate int) *Oscillator {
	return &Oscillator{
		rate: float64(sampleRate),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (o *Oscillator) SampleRate() int { return int(o.rate) }

// Seed resets the noise generator. Used to get reproducible noise.
func (o *Oscillator) Seed(seed int64) {
	o.mu.Lock()
	o.rng.Seed(seed)
	o.mu.Unlock()
}

// Samples returns the number of samples covering duration seconds.
func (o *Oscillator) Samples(duration float64) int {
	return numSamples(o.rate, duration)
}

func numSamples(rate, duration float64) int {
	if duration <= 0 {
		return 0
	}
	return int(math.Round(rate * duration))
}

// Wave renders duration seconds of a periodic waveform at freq Hz, in the range
// [-amplitude, amplitude]. duty only applies to Square, phase is in radians.
// A Noise waveform yields white noise.
func (o *Oscillator) Wave(kind Waveform, freq, duration, amplitude, duty, phase float64) []float64 {
	n := o.Samples(duration)
	buf := make([]float64, n)
	if kind == Noise {
		o.white(buf)
		scale(buf, amplitude)
		return buf
	}
	if kind == Sine {
		for i := range buf {
			t := float64(i) / o.rate
			buf[i] = amplitude * math.Sin(twoPi*freq*t+phase)
		}
		return buf
	}
	offset := phase / twoPi
	for i := range buf {
		t := float64(i) / o.rate
		buf[i] = amplitude * shape(kind, frac(freq*t+offset), duty)
	}
	return buf
}

// Sweep renders one sample per entry of freqs, accumulating phase so the
// frequency can change from sample to sample without discontinuities.
func (o *Oscillator) Sweep(kind Waveform, freqs []float64, amplitude, duty float64) []float64 {
	buf := make([]float64, len(freqs))
	if kind == Noise {
		o.white(buf)
		scale(buf, amplitude)
		return buf
	}
	var phase float64
	for i, f := range freqs {
		buf[i] = amplitude * shape(kind, phase, duty)
		phase = frac(phase + f/o.rate)
	}
	return buf
}

// Noise renders duration seconds of noise in [-amplitude, amplitude].
func (o *Oscillator) Noise(kind NoiseKind, duration, amplitude float64) []float64 {
	buf := make([]float64, o.Samples(duration))
	switch kind {
	case White:
		o.white(buf)
	case Pink:
		o.pink(buf)
	default:
		panic(fmt.Sprintf("audio: invalid noise kind %d", int(kind)))
	}
	scale(buf, amplitude)
	return buf
}

func (o *Oscillator) white(buf []float64) {
	o.mu.Lock()
	for i := range buf {
		buf[i] = 2*o.rng.Float64() - 1
	}
	o.mu.Unlock()
}

func (o *Oscillator) pink(buf []float64) {
	if len(buf) == 0 {
		return
	}
	in := make([]float64, pinkWarmup+len(buf))
	o.white(in)

	// direct form I, zero initial state
	var x, y [4]float64
	for i, v := range in {
		x[3], x[2], x[1], x[0] = x[2], x[1], x[0], v
		out := pinkB[0]*x[0] + pinkB[1]*x[1] + pinkB[2]*x[2] + pinkB[3]*x[3] -
			pinkA[1]*y[0] - pinkA[2]*y[1] - pinkA[3]*y[2]
		y[2], y[1], y[0] = y[1], y[0], out
		if i >= pinkWarmup {
			buf[i-pinkWarmup] = out
		}
	}
	if p := peak(buf); p > 0 {
		scale(buf, 1/p)
	}
}

// shape evaluates one period of a waveform at phase p in [0, 1).
func shape(kind Waveform, p, duty float64) float64 {
	switch kind {
	case Sine:
		return math.Sin(twoPi * p)
	case Square:
		if p < duty {
			return 1
		}
		return -1
	case Sawtooth:
		return 2*p - 1
	case Triangle:
		return 2*math.Abs(2*p-1) - 1
	}
	panic(fmt.Sprintf("audio: invalid waveform %d", int(kind)))
}

func frac(x float64) float64 {
	return x - math.Floor(x)
}

// MidiToFreq converts a MIDI note number to a frequency, with A4 (69) at 440Hz.
func MidiToFreq(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12.0)
}

// FreqToMidi returns the nearest MIDI note number for freq, clamped to 0-127.
func FreqToMidi(freq float64) int {
	if !(freq > 0) {
		return 0
	}
	n := 69 + 12*math.Log2(freq/440)
	return int(math.Round(math.Max(0, math.Min(127, n))))
}

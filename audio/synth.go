package audio

import (
	"fmt"

	"github.com/viterin/vek"
)

// Synth turns single notes and drum hits into finished buffers.
type Synth struct {
	osc *Oscillator
	env *Envelope
}

func NewSynth(sampleRate int) *Synth {
	return &Synth{
		osc: NewOscillator(sampleRate),
		env: NewEnvelope(sampleRate),
	}
}

func (s *Synth) Oscillator() *Oscillator { return s.osc }

func (s *Synth) Envelope() *Envelope { return s.env }

// RenderNote renders n with its amplitude scaled by velocity and volume. Rests
// render as silence of the same length.
func (s *Synth) RenderNote(n Note, volume float64) []float64 {
	if n.IsRest() {
		return make([]float64, s.osc.Samples(n.Duration))
	}
	amp := float64(n.Velocity) / 127 * volume
	freq := MidiToFreq(n.Pitch)

	var buf []float64
	if n.Slide != nil || n.Vibrato != nil {
		buf = s.osc.Sweep(n.Waveform, s.frequencies(n, freq), amp, n.duty())
	} else {
		buf = s.osc.Wave(n.Waveform, freq, n.Duration, amp, n.duty(), 0)
	}
	if n.ADSR != nil {
		buf = s.env.Apply(buf, *n.ADSR)
	}
	return buf
}

// frequencies builds the per sample frequency curve of a sliding or vibrating note.
func (s *Synth) frequencies(n Note, freq float64) []float64 {
	var freqs []float64
	if n.Slide != nil {
		var err error
		// midi frequencies are positive, so only an invalid curve fails here
		freqs, err = s.env.Pitch(n.Duration, freq, MidiToFreq(n.Slide.To), n.Slide.Curve)
		if err != nil {
			panic(fmt.Sprintf("audio: %v", err))
		}
	} else {
		freqs = make([]float64, s.osc.Samples(n.Duration))
		for i := range freqs {
			freqs[i] = freq
		}
	}
	if v := n.Vibrato; v != nil && len(freqs) > 0 {
		// a vibrato around 1Hz gives the ratio to apply to the slide curve
		ratio := s.env.Vibrato(1, n.Duration, v.Depth, v.Rate)
		m := min(len(freqs), len(ratio))
		vek.Mul_Inplace(freqs[:m], ratio[:m])
	}
	return freqs
}

type drumVoice struct {
	noise NoiseKind
	env   ADSR
	gain  float64
}

func voiceFor(kind DrumKind) drumVoice {
	switch kind {
	case Kick:
		return drumVoice{Pink, ADSR{Attack: 0.001, Decay: 0.05, Sustain: 0, Release: 0.05}, 1}
	case Snare:
		return drumVoice{White, ADSR{Attack: 0.001, Decay: 0.1, Sustain: 0.1, Release: 0.1}, 1}
	case HiHat:
		return drumVoice{White, ADSR{Attack: 0.001, Decay: 0.02, Sustain: 0, Release: 0.02}, 0.8}
	case Crash:
		return drumVoice{White, ADSR{Attack: 0.001, Decay: 0.2, Sustain: 0.05, Release: 0.3}, 1}
	default:
		return drumVoice{White, DefaultADSR, 1}
	}
}

// RenderDrum renders a percussion hit lasting duration seconds as shaped noise.
func (s *Synth) RenderDrum(kind DrumKind, duration float64, velocity int, volume float64) []float64 {
	v := voiceFor(kind)
	amp := float64(velocity) / 127 * volume * v.gain
	buf := s.osc.Noise(v.noise, duration, amp)
	return s.env.Apply(buf, v.env)
}

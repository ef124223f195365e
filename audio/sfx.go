package audio

import (
	"fmt"
	"sort"
)

// Sound effect presets in the style of 8-bit games.
var effects = map[string]func(s *Synth) []float64{
	"jump":      jump,
	"collect":   collect,
	"shoot":     shoot,
	"explosion": explosion,
	"powerup":   powerup,
	"click":     click,
	"error":     errorBuzz,
}

func EffectNames() []string {
	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Effect renders the named sound effect.
func (s *Synth) Effect(name string) ([]float64, error) {
	fn, ok := effects[name]
	if !ok {
		return nil, fmt.Errorf("unknown sound effect: %s", name)
	}
	return fn(s), nil
}

// jump slides a square wave up from C4 to E5.
func jump(s *Synth) []float64 {
	const duration = 0.15
	freqs, err := s.env.Pitch(duration, MidiToFreq(60), MidiToFreq(76), Exponential)
	if err != nil {
		panic(err)
	}
	buf := s.osc.Sweep(Square, freqs, 1, 0.5)
	return s.env.Apply(buf, ADSR{Attack: 0.01, Decay: 0.05, Sustain: 0, Release: 0.09})
}

func collect(s *Synth) []float64 {
	return s.arpeggio(0.3, []int{60, 64, 67}, ADSR{Attack: 0.01, Decay: 0.05, Sustain: 0.8, Release: 0.04})
}

func powerup(s *Synth) []float64 {
	return s.arpeggio(0.6, []int{60, 62, 64, 65, 67, 69, 71, 72}, ADSR{Attack: 0.01, Decay: 0.03, Sustain: 0.7, Release: 0.06})
}

// arpeggio plays pitches one after the other as square waves, each shaped by env.
func (s *Synth) arpeggio(duration float64, pitches []int, env ADSR) []float64 {
	out := make([]float64, s.osc.Samples(duration))
	step := duration / float64(len(pitches))
	for i, p := range pitches {
		note := s.osc.Wave(Square, MidiToFreq(p), step, 1, 0.5, 0)
		note = s.env.Apply(note, env)
		place(out, note, i*len(note))
	}
	return out
}

func shoot(s *Synth) []float64 {
	buf := s.osc.Wave(Square, MidiToFreq(80), 0.08, 1, 0.25, 0)
	return s.env.Apply(buf, ADSR{Attack: 0.001, Decay: 0.02, Sustain: 0, Release: 0.059})
}

func click(s *Synth) []float64 {
	buf := s.osc.Wave(Square, MidiToFreq(69), 0.05, 0.8, 0.5, 0)
	return s.env.Apply(buf, ADSR{Attack: 0.001, Decay: 0.01, Sustain: 0, Release: 0.039})
}

// explosion is decaying white noise over a low square rumble.
func explosion(s *Synth) []float64 {
	const duration = 0.4
	env := s.env.ADSR(duration, ADSR{Attack: 0.01, Decay: 0.1, Sustain: 0, Release: 0.29})
	noise := s.osc.Noise(White, duration, 1)
	rumble := s.osc.Wave(Square, 60, duration, 0.15, 0.5, 0)
	accumulate(noise, rumble)
	n := min(len(noise), len(env))
	for i := range noise[:n] {
		noise[i] *= env[i]
	}
	Normalize(noise)
	return noise[:n]
}

// errorBuzz sounds two squares a semitone apart.
func errorBuzz(s *Synth) []float64 {
	const duration = 0.2
	buf := s.osc.Wave(Square, MidiToFreq(60), duration, 0.25, 0.5, 0)
	accumulate(buf, s.osc.Wave(Square, MidiToFreq(61), duration, 0.25, 0.5, 0))
	return s.env.Apply(buf, ADSR{Attack: 0.01, Decay: 0.1, Sustain: 0.3, Release: 0.09})
}

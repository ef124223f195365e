package audio

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

var ErrNoSink = errors.New("no audio sink")

const (
	PropWaveform   = "waveform"
	PropDuty       = "duty"
	PropVelocity   = "velocity"
	PropLength     = "length"
	PropDrumLength = "drum.length"
	PropEnvAttack  = "env.attack"
	PropEnvDecay   = "env.decay"
	PropEnvSustain = "env.sustain"
	PropEnvRelease = "env.release"
)

// Engine is the entry point for previews and export tooling. It renders through
// a Synth and a Mixer and hands finished buffers to a Sink.
type Engine struct {
	*Props
	synth *Synth
	mixer *Mixer
	rate  int

	waveform   *atomic.Value
	duty       *atomic.Value
	velocity   *atomic.Value
	length     *atomic.Value
	drumLength *atomic.Value
	envAttack  *atomic.Value
	envDecay   *atomic.Value
	envSustain *atomic.Value
	envRelease *atomic.Value

	mu      sync.Mutex
	volume  float64
	sink    Sink
	handles []Handle
}

// NewEngine returns an engine playing through sink. A nil sink is allowed for
// offline rendering; playback then fails with ErrNoSink. A nil fx bypasses
// track effects.
func NewEngine(sampleRate int, sink Sink, fx EffectChain) *Engine {
	synth := NewSynth(sampleRate)
	props := NewProps()
	return &Engine{
		Props:      props,
		synth:      synth,
		mixer:      NewMixer(synth, fx),
		rate:       sampleRate,
		volume:     1,
		sink:       sink,
		waveform:   props.MustRegister(PropWaveform, setWaveform, Square),
		duty:       props.MustRegister(PropDuty, setLevel, 0.5),
		velocity:   props.MustRegister(PropVelocity, setVelocity, 100),
		length:     props.MustRegister(PropLength, setLength, 0.3),
		drumLength: props.MustRegister(PropDrumLength, setLength, 0.2),
		envAttack:  props.MustRegister(PropEnvAttack, setEnvTime, DefaultADSR.Attack),
		envDecay:   props.MustRegister(PropEnvDecay, setEnvTime, DefaultADSR.Decay),
		envSustain: props.MustRegister(PropEnvSustain, setLevel, DefaultADSR.Sustain),
		envRelease: props.MustRegister(PropEnvRelease, setEnvTime, DefaultADSR.Release),
	}
}

func (e *Engine) SampleRate() int { return e.rate }

func (e *Engine) Synth() *Synth { return e.synth }

func (e *Engine) Mixer() *Mixer { return e.mixer }

func (e *Engine) RenderNote(n Note, volume float64) []float64 { return e.synth.RenderNote(n, volume) }

func (e *Engine) RenderDrum(kind DrumKind, duration float64, velocity int, volume float64) []float64 {
	return e.synth.RenderDrum(kind, duration, velocity, volume)
}

func (e *Engine) RenderTrack(t *Track, w Window) ([]float64, error) { return e.mixer.RenderTrack(t, w) }

func (e *Engine) MixTracks(tracks []Track, w Window) ([]float64, error) {
	return e.mixer.MixTracks(tracks, w)
}

func (e *Engine) RenderProject(p *Project, start float64, end *float64) ([]float64, error) {
	return e.mixer.RenderProject(p, start, end)
}

// SetMasterVolume sets the volume applied to everything played, clamped to [0, 1].
func (e *Engine) SetMasterVolume(v float64) {
	e.mu.Lock()
	e.volume = clamp(v, 0, 1)
	e.mu.Unlock()
}

func (e *Engine) MasterVolume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Play plays buf at master volume.
func (e *Engine) Play(buf []float64, loop bool) (Handle, error) {
	return e.PlayAt(buf, loop, 1)
}

// PlayAt plays buf at volume relative to the master volume.
func (e *Engine) PlayAt(buf []float64, loop bool, volume float64) (Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sink == nil {
		return nil, ErrNoSink
	}
	h, err := e.sink.Play(PCM16Stereo(buf, volume*e.volume), loop)
	if err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}
	e.prune()
	e.handles = append(e.handles, h)
	return h, nil
}

// prune forgets handles that finished playing. Must hold e.mu.
func (e *Engine) prune() {
	live := e.handles[:0]
	for _, h := range e.handles {
		if h.Playing() {
			live = append(live, h)
		}
	}
	for i := len(live); i < len(e.handles); i++ {
		e.handles[i] = nil
	}
	e.handles = live
}

// StopAll halts everything playing and forgets all handles.
func (e *Engine) StopAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, h := range e.handles {
		if err := h.Stop(); err != nil {
			log.Printf("engine: stop: %v", err)
		}
	}
	e.handles = nil
	if e.sink == nil {
		return nil
	}
	return e.sink.StopAll()
}

func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sink != nil && e.sink.Busy()
}

// PreviewNote is the note a preview of pitch plays with the current properties.
func (e *Engine) PreviewNote(pitch int) Note {
	return Note{
		Pitch:    pitch,
		Velocity: e.velocity.Load().(int),
		Duration: e.length.Load().(float64),
		Waveform: e.waveform.Load().(Waveform),
		Duty:     e.duty.Load().(float64),
		ADSR: &ADSR{
			Attack:  e.envAttack.Load().(float64),
			Decay:   e.envDecay.Load().(float64),
			Sustain: e.envSustain.Load().(float64),
			Release: e.envRelease.Load().(float64),
		},
	}
}

// Preview plays a short note for editors.
func (e *Engine) Preview(pitch int) (Handle, error) {
	return e.Play(e.synth.RenderNote(e.PreviewNote(pitch), 1), false)
}

func (e *Engine) PreviewDrum(kind DrumKind) (Handle, error) {
	buf := e.synth.RenderDrum(kind, e.drumLength.Load().(float64), e.velocity.Load().(int), 1)
	return e.Play(buf, false)
}

// Effect plays the named sound effect.
func (e *Engine) Effect(name string) (Handle, error) {
	buf, err := e.synth.Effect(name)
	if err != nil {
		return nil, err
	}
	return e.Play(buf, false)
}

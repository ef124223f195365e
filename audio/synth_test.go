package audio

import (
	"math"
	"testing"
)

func TestRenderRest(t *testing.T) {
	buf := NewSynth(sampleRate).RenderNote(Note{Pitch: 0, Velocity: 127, Duration: 0.1}, 1)
	if want, got := 4410, len(buf); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d of a rest is %v", i, v)
		}
	}
}

func TestRenderSineNote(t *testing.T) {
	n := Note{Pitch: 60, Velocity: 127, Duration: 0.2, Waveform: Sine}
	buf := NewSynth(sampleRate).RenderNote(n, 1)
	if want, got := 8820, len(buf); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	if buf[0] != 0 {
		t.Errorf("want first sample 0, got %v", buf[0])
	}
	for i, got := range buf {
		want := math.Sin(2 * math.Pi * 261.63 * float64(i) / sampleRate)
		if math.Abs(want-got) > 0.01 {
			t.Fatalf("sample %d: want %v, got %v", i, want, got)
		}
	}
}

func TestRenderVelocity(t *testing.T) {
	s := NewSynth(sampleRate)
	buf := s.RenderNote(Note{Pitch: 69, Velocity: 127, Duration: 0.1, Waveform: Square}, 0.5)
	if want, got := 0.5, peak(buf); want != got {
		t.Errorf("want peak %v, got %v", want, got)
	}
	if got := peak(s.RenderNote(Note{Pitch: 69, Velocity: 0, Duration: 0.1}, 1)); got != 0 {
		t.Errorf("zero velocity should be silent, got peak %v", got)
	}
}

func TestRenderNoteEnvelope(t *testing.T) {
	s := NewSynth(sampleRate)
	adsr := ADSR{Attack: 0.01, Decay: 0.02, Sustain: 0.5, Release: 0.02}
	buf := s.RenderNote(Note{Pitch: 69, Velocity: 127, Duration: 0.1, Waveform: Sawtooth, ADSR: &adsr}, 1)
	if want, got := 4410, len(buf); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	if buf[0] != 0 || buf[len(buf)-1] != 0 {
		t.Errorf("expected envelope to silence both ends")
	}
	if got := peak(buf[2000:2400]); got > 0.5+1e-12 {
		t.Errorf("sustain should hold at 0.5, got peak %v", got)
	}
}

func TestRenderSlideAndVibrato(t *testing.T) {
	s := NewSynth(sampleRate)
	notes := []Note{
		{Pitch: 60, Velocity: 127, Duration: 0.1, Waveform: Square, Slide: &Slide{To: 72, Curve: Exponential}},
		{Pitch: 60, Velocity: 127, Duration: 0.1, Waveform: Triangle, Vibrato: &Vibrato{Rate: 6, Depth: 1}},
		{Pitch: 60, Velocity: 127, Duration: 0.1, Waveform: Sine, Slide: &Slide{To: 48}, Vibrato: &Vibrato{Rate: 6, Depth: 1}},
	}
	for _, n := range notes {
		buf := s.RenderNote(n, 1)
		if want, got := 4410, len(buf); want != got {
			t.Errorf("%v: want %d samples, got %d", n.Waveform, want, got)
		}
		if got := peak(buf); got > 1+1e-12 || got == 0 {
			t.Errorf("%v: unexpected peak %v", n.Waveform, got)
		}
	}
}

func TestSlideFrequencies(t *testing.T) {
	s := NewSynth(sampleRate)
	n := Note{Pitch: 60, Duration: 0.1, Slide: &Slide{To: 72}}
	freqs := s.frequencies(n, MidiToFreq(60))
	if want, got := MidiToFreq(60), freqs[0]; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := MidiToFreq(72), freqs[len(freqs)-1]; math.Abs(want-got) > 1e-9 {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestInvalidSlide(t *testing.T) {
	n := Note{Pitch: 60, Velocity: 127, Duration: 0.1, Slide: &Slide{To: 72, Curve: Curve(7)}}
	if err := n.Validate(); err == nil {
		t.Error("expected error for an unknown slide curve")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic rendering an unknown slide curve")
		}
	}()
	NewSynth(sampleRate).RenderNote(n, 1)
}

func TestKickTail(t *testing.T) {
	buf := NewSynth(sampleRate).RenderDrum(Kick, 0.1, 127, 1)
	if want, got := 4410, len(buf); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	n := int(math.Round(0.005 * sampleRate))
	tail := buf[len(buf)-n:]
	if got := peak(tail); got > 0.01 {
		t.Errorf("expected kick to decay to silence, got peak %v in the last 5ms", got)
	}
	if got := peak(buf); got == 0 {
		t.Error("kick is silent")
	}
}

func TestDrumGain(t *testing.T) {
	s := NewSynth(sampleRate)
	for _, kind := range []DrumKind{Kick, Snare, HiHat, Crash, OtherDrum} {
		buf := s.RenderDrum(kind, 0.3, 127, 1)
		if want, got := 13230, len(buf); want != got {
			t.Errorf("%v: want %d samples, got %d", kind, want, got)
		}
		limit := 1.0
		if kind == HiHat {
			limit = 0.8
		}
		if got := peak(buf); got > limit+1e-12 {
			t.Errorf("%v: peak %v above %v", kind, got, limit)
		}
	}
}

func TestEffects(t *testing.T) {
	s := NewSynth(sampleRate)
	for _, name := range EffectNames() {
		buf, err := s.Effect(name)
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) == 0 {
			t.Errorf("%s: empty buffer", name)
		}
		if got := peak(buf); got > 1+1e-12 || got == 0 {
			t.Errorf("%s: unexpected peak %v", name, got)
		}
	}
	if _, err := s.Effect("boing"); err == nil {
		t.Error("expected error for unknown effect")
	}
}

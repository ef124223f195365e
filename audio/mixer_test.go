package audio

import (
	"math"
	"reflect"
	"sync"
	"testing"
)

func square(start, duration float64) Note {
	return Note{Pitch: 69, Velocity: 127, Start: start, Duration: duration, Waveform: Square}
}

func melodic(volume float64, notes ...Note) Track {
	return Track{Name: "lead", Kind: Melodic, Enabled: true, Volume: volume, Notes: notes}
}

func TestRenderDisabledTrack(t *testing.T) {
	m := NewMixer(NewSynth(sampleRate), nil)
	tr := melodic(1, square(0, 1))
	tr.Enabled = false
	buf, err := m.RenderTrack(&tr, Window{})
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 0 {
		t.Errorf("want empty buffer, got %d samples", len(buf))
	}
}

func TestMixEmpty(t *testing.T) {
	m := NewMixer(NewSynth(sampleRate), nil)
	for _, w := range []Window{{}, {Start: 2, End: Seconds(1)}} {
		buf, err := m.MixTracks(nil, w)
		if err != nil || len(buf) != 0 {
			t.Errorf("want empty buffer, got %d samples (%v)", len(buf), err)
		}
	}
	tr := melodic(1, square(0, 1))
	buf, err := m.MixTracks([]Track{tr}, Window{Start: 1, End: Seconds(1)})
	if err != nil || len(buf) != 0 {
		t.Errorf("want empty buffer for empty window, got %d samples (%v)", len(buf), err)
	}
}

func TestMixNormalize(t *testing.T) {
	m := NewMixer(NewSynth(sampleRate), nil)
	tracks := []Track{
		melodic(0.75, square(0, 0.1)),
		melodic(0.75, square(0, 0.1)),
	}
	stems, err := m.RenderTracks(tracks, Window{})
	if err != nil {
		t.Fatal(err)
	}
	mix, err := m.MixTracks(tracks, Window{})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 4410, len(mix); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	if got := peak(mix); math.Abs(got-1) > 1e-12 {
		t.Errorf("want peak 1, got %v", got)
	}
	for i := range mix {
		want := (stems[0][i] + stems[1][i]) / 1.5
		if math.Abs(want-mix[i]) > 1e-12 {
			t.Fatalf("sample %d: want %v, got %v", i, want, mix[i])
		}
	}
}

func TestMixQuiet(t *testing.T) {
	m := NewMixer(NewSynth(sampleRate), nil)
	mix, err := m.MixTracks([]Track{melodic(0.25, square(0, 0.1)), melodic(0.25, square(0, 0.1))}, Window{})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 0.5, peak(mix); want != got {
		t.Errorf("mix within range should not be scaled: want peak %v, got %v", want, got)
	}
}

// bounds returns the first and last non-silent sample of buf.
func bounds(buf []float64) (int, int) {
	first, last := -1, -1
	for i, v := range buf {
		if v != 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}

func TestTempo(t *testing.T) {
	m := NewMixer(NewSynth(sampleRate), nil)
	tr := melodic(1, square(1, 0.5))

	buf, err := m.RenderTrack(&tr, Window{BPM: 120, OriginalBPM: 120})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 66150, len(buf); want != got {
		t.Errorf("authored tempo: want %d samples, got %d", want, got)
	}
	if first, last := bounds(buf); first != 44100 || last != 66149 {
		t.Errorf("authored tempo: note at samples %d - %d", first, last)
	}

	buf, err = m.RenderTrack(&tr, Window{BPM: 240, OriginalBPM: 120})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 33075, len(buf); want != got {
		t.Errorf("double tempo: want %d samples, got %d", want, got)
	}
	if first, last := bounds(buf); first != 22050 || last != 33074 {
		t.Errorf("double tempo: note at samples %d - %d", first, last)
	}
}

func TestTempoExplicitEnd(t *testing.T) {
	m := NewMixer(NewSynth(sampleRate), nil)
	tr := melodic(1, square(1, 0.5))
	w := Window{Start: 0.25, End: Seconds(1.25), BPM: 240, OriginalBPM: 120}

	// the window is in playback seconds, the ratio only moves the note
	buf, err := m.RenderTrack(&tr, w)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 44100, len(buf); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	if first, last := bounds(buf); first != 11025 || last != 22049 {
		t.Errorf("note at samples %d - %d", first, last)
	}

	mix, err := m.MixTracks([]Track{tr}, w)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := len(buf), len(mix); want != got {
		t.Errorf("track and mix lengths differ: %d, %d", want, got)
	}
}

func TestPercussionTiming(t *testing.T) {
	m := NewMixer(NewSynth(sampleRate), nil)
	tr := Track{Name: "drums", Kind: Percussion, Enabled: true, Volume: 1, Drums: []DrumEvent{
		{Kind: Snare, Start: 1, Duration: 0.5, Velocity: 127},
	}}
	for _, test := range []struct {
		w           Window
		start, size int
	}{
		{Window{}, 22050, 33075},
		{Window{BPM: 60}, 44100, 66150},
		{Window{BPM: 240, OriginalBPM: 120}, 5513, 8269},
	} {
		buf, err := m.RenderTrack(&tr, test.w)
		if err != nil {
			t.Fatal(err)
		}
		if want, got := test.size, len(buf); want != got {
			t.Errorf("%+v: want %d samples, got %d", test.w, want, got)
		}
		if first, _ := bounds(buf); first < test.start || first > test.start+1 {
			t.Errorf("%+v: want hit at sample %d, got %d", test.w, test.start, first)
		}
	}
}

func TestClipping(t *testing.T) {
	s := NewSynth(sampleRate)
	m := NewMixer(s, nil)
	n := square(0, 0.1)
	note := s.RenderNote(n, 1)
	tr := melodic(1, n)

	head, err := m.RenderTrack(&tr, Window{Start: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 2205, len(head); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	if !reflect.DeepEqual(note[2205:], head) {
		t.Error("expected the head of the note to be trimmed")
	}

	tail, err := m.RenderTrack(&tr, Window{End: Seconds(0.05)})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(note[:2205], tail) {
		t.Error("expected the tail of the note to be trimmed")
	}

	none, err := m.RenderTrack(&tr, Window{Start: 0.2, End: Seconds(0.3)})
	if err != nil {
		t.Fatal(err)
	}
	if first, _ := bounds(none); first != -1 {
		t.Errorf("note outside the window should be skipped, found sound at %d", first)
	}
}

func TestRenderProject(t *testing.T) {
	m := NewMixer(NewSynth(sampleRate), nil)
	muted := melodic(1, square(0, 2))
	muted.Enabled = false
	p := &Project{
		BPM: 120,
		Tracks: []Track{
			muted,
			{Name: "drums", Kind: Percussion, Enabled: true, Volume: 1, Drums: []DrumEvent{
				{Kind: Kick, Start: 0, Duration: 1, Velocity: 127},
			}},
		},
	}
	buf, err := m.RenderProject(p, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	// drum-only after muting: one beat at 120bpm
	if want, got := 22050, len(buf); want != got {
		t.Errorf("want %d samples, got %d", want, got)
	}

	p.OriginalBPM = 60
	buf, err = m.RenderProject(p, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 11025, len(buf); want != got {
		t.Errorf("want %d samples, got %d", want, got)
	}
}

func TestRenderInvalidTrack(t *testing.T) {
	m := NewMixer(NewSynth(sampleRate), nil)
	tr := Track{Name: "bad", Kind: Percussion, Enabled: true, Volume: 1, Notes: []Note{square(0, 1)}}
	if _, err := m.MixTracks([]Track{melodic(1, square(0, 1)), tr}, Window{}); err == nil {
		t.Error("expected error for a percussion track holding notes")
	}
}

type recordingChain struct {
	mu    sync.Mutex
	calls []Effects
}

func (c *recordingChain) Apply(buf []float64, fx Effects) []float64 {
	c.mu.Lock()
	c.calls = append(c.calls, fx)
	c.mu.Unlock()
	for i := range buf {
		buf[i] *= 0.5
	}
	return buf
}

func TestEffectChain(t *testing.T) {
	fx := &recordingChain{}
	m := NewMixer(NewSynth(sampleRate), fx)

	plain := melodic(1, square(0, 0.1))
	if _, err := m.RenderTrack(&plain, Window{}); err != nil {
		t.Fatal(err)
	}
	if len(fx.calls) != 0 {
		t.Fatalf("expected no effect chain call without effects, got %d", len(fx.calls))
	}

	wet := melodic(1, square(0, 0.1))
	wet.Effects.Tremolo = &Tremolo{Rate: 4, Depth: 0.5}
	buf, err := m.RenderTrack(&wet, Window{})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 1, len(fx.calls); want != got {
		t.Fatalf("want %d call, got %d", want, got)
	}
	if want, got := *wet.Effects.Tremolo, *fx.calls[0].Tremolo; want != got {
		t.Errorf("want %+v, got %+v", want, got)
	}
	if want, got := 0.5, peak(buf); want != got {
		t.Errorf("want peak %v, got %v", want, got)
	}
}

package audio

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const DefaultBPM = 120.0

// rescaled durations closer than this to the authored one reuse the note as is
const durationTolerance = 0.001

// Window selects the part of a timeline to render. Start and End are playback
// seconds; a nil End renders through the last event. A zero BPM or OriginalBPM
// means the tempo is unset.
type Window struct {
	Start       float64
	End         *float64
	BPM         float64
	OriginalBPM float64
}

// Seconds returns a pointer to t, for use as Window.End.
func Seconds(t float64) *float64 { return &t }

// ratio scales authored time to playback time. A faster current tempo gives a
// ratio below 1.
func (w Window) ratio() float64 {
	if w.BPM > 0 && w.OriginalBPM > 0 {
		return w.OriginalBPM / w.BPM
	}
	return 1
}

// secondsPerBeat converts drum event beats using the current tempo.
func (w Window) secondsPerBeat() float64 {
	if w.BPM > 0 {
		return 60 / w.BPM
	}
	return 60 / DefaultBPM
}

// span is an event placed on the playback timeline.
type span struct {
	start, duration float64
}

func (s span) end() float64 { return s.start + s.duration }

func (w Window) noteSpan(n Note) span {
	r := w.ratio()
	return span{n.Start * r, n.Duration * r}
}

func (w Window) drumSpan(d DrumEvent) span {
	k := w.secondsPerBeat() * w.ratio()
	return span{d.Start * k, d.Duration * k}
}

// outside reports whether s misses the window [start, end) entirely.
func (s span) outside(start, end float64) bool {
	return s.start >= end || s.end() <= start
}

// Mixer schedules notes and drum hits of tracks onto a shared timeline.
type Mixer struct {
	synth *Synth
	fx    EffectChain
	rate  float64
}

// NewMixer returns a mixer rendering with synth. Track effects go through fx;
// a nil fx bypasses them.
func NewMixer(synth *Synth, fx EffectChain) *Mixer {
	if fx == nil {
		fx = bypass{}
	}
	return &Mixer{
		synth: synth,
		fx:    fx,
		rate:  synth.osc.rate,
	}
}

// End returns the playback time at which the last event of t ends.
func (m *Mixer) End(t *Track, w Window) float64 {
	var end float64
	for _, n := range t.Notes {
		end = math.Max(end, w.noteSpan(n).end())
	}
	for _, d := range t.Drums {
		end = math.Max(end, w.drumSpan(d).end())
	}
	return end
}

func (m *Mixer) end(tracks []Track, w Window) float64 {
	if w.End != nil {
		return *w.End
	}
	var end float64
	for i := range tracks {
		end = math.Max(end, m.End(&tracks[i], w))
	}
	return end
}

// RenderTrack renders the events of t inside the window, followed by the track
// effects. Disabled tracks and empty windows render to an empty buffer.
func (m *Mixer) RenderTrack(t *Track, w Window) ([]float64, error) {
	if !t.Enabled {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	end := m.end([]Track{*t}, w)
	out := make([]float64, numSamples(m.rate, end-w.Start))
	if len(out) == 0 {
		return nil, nil
	}

	switch t.Kind {
	case Melodic:
		for _, n := range t.Notes {
			if n.IsRest() {
				continue
			}
			sp := w.noteSpan(n)
			if sp.outside(w.Start, end) {
				continue
			}
			if math.Abs(sp.duration-n.Duration) > durationTolerance {
				n = n.WithDuration(sp.duration)
			}
			buf := m.synth.RenderNote(n, t.Volume)
			place(out, buf, m.offset(sp, w))
		}
	case Percussion:
		for _, d := range t.Drums {
			sp := w.drumSpan(d)
			if sp.outside(w.Start, end) {
				continue
			}
			buf := m.synth.RenderDrum(d.Kind, sp.duration, d.Velocity, t.Volume)
			place(out, buf, m.offset(sp, w))
		}
	}

	if !t.Effects.Bypass() {
		out = m.fx.Apply(out, t.Effects)
	}
	return out, nil
}

func (m *Mixer) offset(sp span, w Window) int {
	return int(math.Round((sp.start - w.Start) * m.rate))
}

// place adds src into dst starting at offset, dropping whatever falls outside dst.
func place(dst, src []float64, offset int) {
	if offset < 0 {
		if -offset >= len(src) {
			return
		}
		src = src[-offset:]
		offset = 0
	}
	if offset >= len(dst) {
		return
	}
	accumulate(dst[offset:], src)
}

// RenderTracks renders every track over the same window concurrently. When the
// window has no end, all tracks run until the last event of any of them.
func (m *Mixer) RenderTracks(tracks []Track, w Window) ([][]float64, error) {
	end := m.end(tracks, w)
	w.End = &end

	stems := make([][]float64, len(tracks))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range tracks {
		g.Go(func() error {
			buf, err := m.RenderTrack(&tracks[i], w)
			if err != nil {
				return err
			}
			stems[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stems, nil
}

// MixTracks sums the rendered tracks into one buffer. When the sum peaks above
// 1.0 the whole buffer is scaled down so that its peak is exactly 1.0.
func (m *Mixer) MixTracks(tracks []Track, w Window) ([]float64, error) {
	if len(tracks) == 0 {
		return nil, nil
	}
	end := m.end(tracks, w)
	out := make([]float64, numSamples(m.rate, end-w.Start))
	if len(out) == 0 {
		return nil, nil
	}
	w.End = &end
	stems, err := m.RenderTracks(tracks, w)
	if err != nil {
		return nil, err
	}
	for _, stem := range stems {
		accumulate(out, stem)
	}
	Normalize(out)
	return out, nil
}

// RenderProject mixes the enabled tracks of p between start and end. Timing is
// rescaled from the tempo the project was written at to its current tempo.
func (m *Mixer) RenderProject(p *Project, start float64, end *float64) ([]float64, error) {
	return m.MixTracks(p.EnabledTracks(), p.Window(start, end))
}

// Window returns the render window for p between start and end.
func (p *Project) Window(start float64, end *float64) Window {
	original := p.OriginalBPM
	if original <= 0 {
		original = p.BPM
	}
	return Window{Start: start, End: end, BPM: p.BPM, OriginalBPM: original}
}

func (p *Project) EnabledTracks() []Track {
	var tracks []Track
	for _, t := range p.Tracks {
		if t.Enabled {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// Package fx is the effect chain applied to rendered tracks.
package fx

import (
	"math"

	"github.com/mrdg/chiptune/audio"
)

const (
	minCutoff = 20.0
	// longest delay the vibrato modulates with
	maxVibratoDelay = 0.05
)

// Chain applies filter, delay, tremolo and vibrato, in that order. Stages whose
// parameters are nil are skipped.
type Chain struct {
	rate float64
	env  *audio.Envelope
}

func NewChain(sampleRate int) *Chain {
	return &Chain{
		rate: float64(sampleRate),
		env:  audio.NewEnvelope(sampleRate),
	}
}

func (c *Chain) Apply(buf []float64, fx audio.Effects) []float64 {
	if len(buf) == 0 {
		return buf
	}
	if fx.Filter != nil {
		buf = c.Filter(buf, *fx.Filter)
	}
	if fx.Delay != nil {
		buf = c.Delay(buf, *fx.Delay)
	}
	if fx.Tremolo != nil {
		buf = c.env.Tremolo(buf, fx.Tremolo.Rate, fx.Tremolo.Depth)
	}
	if fx.Vibrato != nil {
		buf = c.Vibrato(buf, *fx.Vibrato)
	}
	return buf
}

// Filter runs buf through a biquad filter in place. The cutoff is kept between
// 20Hz and just below Nyquist; a resonance of 0 means a Q of 1.
func (c *Chain) Filter(buf []float64, p audio.Filter) []float64 {
	cutoff := math.Max(minCutoff, math.Min(p.Cutoff, c.rate/2-1))
	q := p.Resonance
	if q <= 0 {
		q = 1
	}
	var f filter
	f.calculateCoefficients(p.Type, cutoff, q, c.rate)
	f.process(buf)
	return buf
}

// Delay mixes in an echo of the signal and of the echo itself. The result is
// scaled down when it peaks above 1.
func (c *Chain) Delay(buf []float64, p audio.Delay) []float64 {
	d := int(math.Round(p.Time * c.rate))
	if d <= 0 || d >= len(buf) {
		return buf
	}
	out := make([]float64, len(buf))
	copy(out[:d], buf[:d])
	for i := d; i < len(buf); i++ {
		out[i] = buf[i] + p.Mix*(buf[i-d]+p.Feedback*out[i-d])
	}
	audio.Normalize(out)
	return out
}

// Vibrato modulates pitch by reading the signal through a delay line whose
// length swings with the vibrato rate. The pitch deviates by at most Depth
// semitones.
func (c *Chain) Vibrato(buf []float64, p audio.Vibrato) []float64 {
	if p.Rate <= 0 || p.Depth <= 0 {
		return buf
	}
	r := math.Pow(2, p.Depth/12.0)
	width := math.Min((r-1)/(math.Pi*p.Rate), maxVibratoDelay) * c.rate

	out := make([]float64, len(buf))
	for i := range buf {
		t := float64(i) / c.rate
		pos := float64(i) - width*(1-math.Cos(2*math.Pi*p.Rate*t))/2
		if pos <= 0 {
			out[i] = buf[0]
			continue
		}
		k := int(pos)
		frac := pos - float64(k)
		next := buf[min(k+1, len(buf)-1)]
		out[i] = buf[k]*(1-frac) + next*frac
	}
	return out
}

// Package sink holds the audio sinks buffers are played through.
package sink

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/mrdg/chiptune/audio"
)

const queueSize = 64

// ErrQueueFull is returned by Play while the audio thread has not picked up
// earlier buffers.
var ErrQueueFull = errors.New("too many pending voices")

// voice is one buffer being played. pos is only touched by the audio thread.
type voice struct {
	pcm     []int16
	pos     int
	loop    bool
	stopped atomic.Bool
	done    atomic.Bool
}

func (v *voice) Stop() error {
	v.stopped.Store(true)
	return nil
}

func (v *voice) Playing() bool {
	return !v.stopped.Load() && !v.done.Load()
}

func (v *voice) mix(out []int16) {
	for i := range out {
		if v.pos >= len(v.pcm) {
			if !v.loop {
				break
			}
			v.pos = 0
		}
		out[i] = saturate(int32(out[i]) + int32(v.pcm[v.pos]))
		v.pos++
	}
	if !v.loop && v.pos >= len(v.pcm) {
		v.done.Store(true)
	}
}

func saturate(s int32) int16 {
	if s > math.MaxInt16 {
		return math.MaxInt16
	}
	if s < math.MinInt16 {
		return math.MinInt16
	}
	return int16(s)
}

// Voices sums every buffer played on it into the output of an audio callback.
// Play, StopAll and Busy may be called from any goroutine; Mix belongs to the
// audio thread.
type Voices struct {
	queue  *voiceQueue
	active []*voice

	mu     sync.Mutex
	issued []*voice
}

func NewVoices() *Voices {
	return &Voices{queue: newVoiceQueue(queueSize)}
}

func (vs *Voices) Play(pcm []int16, loop bool) (audio.Handle, error) {
	v := &voice{pcm: pcm, loop: loop}
	if len(pcm) == 0 {
		v.done.Store(true)
		return v, nil
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if !vs.queue.tryPush(v) {
		return nil, ErrQueueFull
	}
	live := vs.issued[:0]
	for _, old := range vs.issued {
		if old.Playing() {
			live = append(live, old)
		}
	}
	vs.issued = append(live, v)
	return v, nil
}

func (vs *Voices) StopAll() error {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	for _, v := range vs.issued {
		v.Stop()
	}
	vs.issued = nil
	return nil
}

func (vs *Voices) Busy() bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	for _, v := range vs.issued {
		if v.Playing() {
			return true
		}
	}
	return false
}

// Mix writes the sum of all playing voices to out, which holds interleaved
// stereo samples. Samples that overflow are saturated.
func (vs *Voices) Mix(out []int16) {
	for i := range out {
		out[i] = 0
	}
	vs.queue.drain(func(v *voice) {
		vs.active = append(vs.active, v)
	})
	live := vs.active[:0]
	for _, v := range vs.active {
		if v.stopped.Load() {
			continue
		}
		v.mix(out)
		if !v.done.Load() {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(vs.active); i++ {
		vs.active[i] = nil
	}
	vs.active = live
}

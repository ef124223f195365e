package sink

import (
	"sync"

	"github.com/mrdg/chiptune/audio"
)

// Recorder is a sink without a device. It keeps everything played on it. One-shot
// buffers finish as soon as they are played; loops run until stopped.
type Recorder struct {
	mu    sync.Mutex
	plays []*Recording
}

type Recording struct {
	PCM  []int16
	Loop bool

	mu      sync.Mutex
	stopped bool
}

func (r *Recording) Stop() error {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	return nil
}

func (r *Recording) Playing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Loop && !r.stopped
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Play(pcm []int16, loop bool) (audio.Handle, error) {
	rec := &Recording{PCM: pcm, Loop: loop}
	r.mu.Lock()
	r.plays = append(r.plays, rec)
	r.mu.Unlock()
	return rec, nil
}

func (r *Recorder) StopAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.plays {
		rec.Stop()
	}
	return nil
}

func (r *Recorder) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.plays {
		if rec.Playing() {
			return true
		}
	}
	return false
}

// Plays returns everything played so far, oldest first.
func (r *Recorder) Plays() []*Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Recording(nil), r.plays...)
}

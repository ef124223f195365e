// Package oto plays buffers through ebitengine/oto, one player per buffer.
package oto

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/mrdg/chiptune/audio"
	"github.com/mrdg/chiptune/sink"
)

type Sink struct {
	ctx *oto.Context

	mu      sync.Mutex
	handles []*handle
}

func Open(sampleRate, bufferSize int) (*Sink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("oto: %w", err)
	}
	<-ready
	return &Sink{ctx: ctx}, nil
}

type handle struct {
	mu     sync.Mutex
	player *oto.Player
	stop   bool
}

func (h *handle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stop {
		h.stop = true
		h.player.Pause()
	}
	return nil
}

func (h *handle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.stop && h.player.IsPlaying()
}

func (s *Sink) Play(pcm []int16, loop bool) (audio.Handle, error) {
	h := &handle{player: s.ctx.NewPlayer(sink.NewReader(pcm, loop))}
	h.player.Play()

	s.mu.Lock()
	live := s.handles[:0]
	for _, old := range s.handles {
		if old.Playing() {
			live = append(live, old)
		}
	}
	s.handles = append(live, h)
	s.mu.Unlock()
	return h, nil
}

func (s *Sink) StopAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.handles {
		h.Stop()
	}
	s.handles = nil
	return nil
}

func (s *Sink) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.handles {
		if h.Playing() {
			return true
		}
	}
	return false
}

func (s *Sink) Close() error {
	s.StopAll()
	return s.ctx.Suspend()
}

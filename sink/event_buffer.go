package sink

import (
	"runtime"
	"sync/atomic"
)

// voiceQueue is a lock-free spsc queue handing new voices to the audio thread.
type voiceQueue struct {
	voices      []*voice
	read, write atomic.Uint32
}

func newVoiceQueue(size int) *voiceQueue {
	if size <= 0 || size&(size-1) != 0 {
		panic("voice queue size must be a power of 2")
	}
	return &voiceQueue{voices: make([]*voice, size)}
}

// push blocks while the queue is full.
func (q *voiceQueue) push(v *voice) {
	for !q.tryPush(v) {
		runtime.Gosched()
	}
}

// tryPush adds v unless the queue is full.
func (q *voiceQueue) tryPush(v *voice) bool {
	write := q.write.Load()
	if write-q.read.Load() == uint32(len(q.voices)) {
		return false
	}
	q.voices[write%uint32(len(q.voices))] = v
	q.write.Store(write + 1)
	return true
}

func (q *voiceQueue) drain(f func(*voice)) {
	read := q.read.Load()
	write := q.write.Load()
	for read != write {
		i := read % uint32(len(q.voices))
		f(q.voices[i])
		q.voices[i] = nil
		read++
	}
	q.read.Store(read)
}

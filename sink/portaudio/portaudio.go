// Package portaudio plays buffers through the default PortAudio output device.
package portaudio

import (
	"fmt"

	pa "github.com/gordonklaus/portaudio"
	"github.com/mrdg/chiptune/sink"
)

type Sink struct {
	*sink.Voices
	stream *pa.Stream
}

// Open starts a stereo output stream. The stream callback mixes every playing
// buffer into blocks of bufferSize frames.
func Open(sampleRate, bufferSize int) (*Sink, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}
	s := &Sink{Voices: sink.NewVoices()}
	stream, err := pa.OpenDefaultStream(0, 2, float64(sampleRate), bufferSize, s.process)
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("portaudio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		pa.Terminate()
		return nil, fmt.Errorf("portaudio: start stream: %w", err)
	}
	s.stream = stream
	return s, nil
}

func (s *Sink) process(out []int16) {
	s.Mix(out)
}

func (s *Sink) Close() error {
	s.StopAll()
	if err := s.stream.Stop(); err != nil {
		return err
	}
	if err := s.stream.Close(); err != nil {
		return err
	}
	return pa.Terminate()
}

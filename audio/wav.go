package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/youpy/go-wav"
)

// WriteWAV encodes buf as a 16 bit mono WAV file. Samples are clamped to [-1, 1].
func WriteWAV(w io.Writer, buf []float64, sampleRate int) error {
	samples := make([]wav.Sample, len(buf))
	for i, v := range PCM16(buf, 1) {
		samples[i].Values[0] = int(v)
	}
	ww := wav.NewWriter(w, uint32(len(samples)), 1, uint32(sampleRate), 16)
	if err := ww.WriteSamples(samples); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

func SaveWAV(file string, buf []float64, sampleRate int) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, buf, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type wavSource interface {
	io.Reader
	io.ReaderAt
}

// ReadWAV decodes a WAV file into mono samples in [-1, 1], averaging channels,
// and returns them with the file's sample rate.
func ReadWAV(r wavSource) ([]float64, int, error) {
	wr := wav.NewReader(r)
	format, err := wr.Format()
	if err != nil {
		return nil, 0, fmt.Errorf("read wav: %w", err)
	}
	// samples carry at most two channels
	channels := min(uint(format.NumChannels), 2)
	if channels == 0 {
		return nil, 0, fmt.Errorf("read wav: no channels")
	}
	full := float64(int(1) << (format.BitsPerSample - 1))
	var buf []float64
	for {
		samples, err := wr.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read wav: %w", err)
		}
		for _, sample := range samples {
			var sum float64
			for ch := uint(0); ch < channels; ch++ {
				sum += float64(wr.IntValue(sample, ch)) / full
			}
			buf = append(buf, sum/float64(channels))
		}
	}
	return buf, int(format.SampleRate), nil
}

func LoadWAV(file string) ([]float64, int, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadWAV(f)
}

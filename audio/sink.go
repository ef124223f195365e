package audio

// Sink plays finished buffers of interleaved 16 bit stereo samples.
type Sink interface {
	// Play starts playing pcm and returns immediately. A looping buffer
	// plays until it is stopped.
	Play(pcm []int16, loop bool) (Handle, error)
	StopAll() error
	Busy() bool
}

// Handle controls a single buffer started on a Sink.
type Handle interface {
	Stop() error
	Playing() bool
}

// PCM16Stereo scales buf by gain, clamps it to [-1, 1] and quantizes it to 16 bit
// samples, writing every sample to both channels.
func PCM16Stereo(buf []float64, gain float64) []int16 {
	pcm := make([]int16, 2*len(buf))
	for i, v := range buf {
		s := int16(clamp(v*gain, -1, 1) * 32767)
		pcm[2*i] = s
		pcm[2*i+1] = s
	}
	return pcm
}

// PCM16 is like PCM16Stereo for a single channel.
func PCM16(buf []float64, gain float64) []int16 {
	pcm := make([]int16, len(buf))
	for i, v := range buf {
		pcm[i] = int16(clamp(v*gain, -1, 1) * 32767)
	}
	return pcm
}

package sink

import (
	"encoding/binary"
	"io"
)

// Reader serves 16 bit samples as little endian bytes, starting over at the end
// when looping.
type Reader struct {
	buf  []byte
	pos  int
	loop bool
}

func NewReader(pcm []int16, loop bool) *Reader {
	buf := make([]byte, 2*len(pcm))
	for i, v := range pcm {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}
	return &Reader{buf: buf, loop: loop}
}

func (r *Reader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		return 0, io.EOF
	}
	var n int
	for n < len(p) {
		if r.pos >= len(r.buf) {
			if !r.loop {
				break
			}
			r.pos = 0
		}
		c := copy(p[n:], r.buf[r.pos:])
		n += c
		r.pos += c
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

package audio

import "github.com/viterin/vek"

func scale(buf []float64, a float64) {
	if len(buf) == 0 || a == 1 {
		return
	}
	vek.MulNumber_Inplace(buf, a)
}

// peak returns the largest absolute sample value in buf.
func peak(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	return vek.Max(vek.Abs(buf))
}

// accumulate adds src into dst, up to the length of the shorter of the two.
func accumulate(dst, src []float64) {
	n := min(len(dst), len(src))
	if n == 0 {
		return
	}
	vek.Add_Inplace(dst[:n], src[:n])
}

// Normalize scales buf down uniformly when its peak exceeds 1.0 and returns the
// peak that was found. Buffers within range are left untouched.
func Normalize(buf []float64) float64 {
	p := peak(buf)
	if p > 1 {
		vek.DivNumber_Inplace(buf, p)
	}
	return p
}

// linspace fills buf with evenly spaced values from start to end, both included.
func linspace(buf []float64, start, end float64) {
	switch n := len(buf); n {
	case 0:
	case 1:
		buf[0] = start
	default:
		step := (end - start) / float64(n-1)
		for i := range buf {
			buf[i] = start + step*float64(i)
		}
		buf[n-1] = end
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package audio

import (
	"math"
	"reflect"
	"testing"
)

func TestStageLengths(t *testing.T) {
	type test struct {
		total int
		adsr  ADSR
		hold  int
		want  Stages
	}
	tests := []test{
		{
			total: 44100,
			adsr:  ADSR{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.1},
			hold:  HoldToEnd,
			want:  Stages{Attack: 4410, Decay: 4410, Sustain: 30870, Release: 4410},
		},
		{
			total: 100,
			adsr:  ADSR{Attack: 1, Decay: 1, Sustain: 0.5, Release: 1},
			hold:  HoldToEnd,
			want:  Stages{Attack: 100},
		},
		{
			total: 4410,
			adsr:  ADSR{Attack: 0.001, Decay: 0.05, Sustain: 0, Release: 0.05},
			hold:  HoldToEnd,
			want:  Stages{Attack: 44, Decay: 2205, Sustain: 0, Release: 2161},
		},
		{
			total: 44100,
			adsr:  ADSR{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.1},
			hold:  8820,
			want:  Stages{Attack: 4410, Decay: 4410, Sustain: 8820, Release: 4410},
		},
	}
	for _, test := range tests {
		got := StageLengths(test.total, sampleRate, test.adsr, test.hold)
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("%+v:\nwant: %+v\ngot:  %+v", test.adsr, test.want, got)
		}
	}
}

func TestStageLengthsFit(t *testing.T) {
	times := []float64{0, 0.001, 0.05, 0.5, 3}
	for _, total := range []int{0, 1, 10, 4410, 44100} {
		for _, a := range times {
			for _, d := range times {
				for _, r := range times {
					for _, hold := range []int{HoldToEnd, 0, 100, 1_000_000} {
						s := StageLengths(total, sampleRate, ADSR{a, d, 0.5, r}, hold)
						if s.Attack < 0 || s.Decay < 0 || s.Sustain < 0 || s.Release < 0 {
							t.Fatalf("negative stage: total %d, %v/%v/%v: %+v", total, a, d, r, s)
						}
						if s.Total() > total {
							t.Fatalf("stages overrun: total %d, %v/%v/%v: %+v", total, a, d, r, s)
						}
					}
				}
			}
		}
	}
}

func TestADSRCurve(t *testing.T) {
	env := NewEnvelope(sampleRate).ADSR(1, ADSR{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.1})
	if want, got := 44100, len(env); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	for i, want := range map[int]float64{
		0:     0,
		4409:  1,
		4410:  1,
		8819:  0.5,
		20000: 0.5,
		39690: 0.5,
		44099: 0,
	} {
		if got := env[i]; math.Abs(want-got) > 1e-12 {
			t.Errorf("sample %d: want %v, got %v", i, want, got)
		}
	}
}

func TestADSRHold(t *testing.T) {
	env := NewEnvelope(sampleRate).ADSRHold(1, ADSR{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.1}, 0.2)
	if want, got := 44100, len(env); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	if want, got := 0.5, env[4410+4410+8819]; want != got {
		t.Errorf("want sustain level %v, got %v", want, got)
	}
	for i := 4410 + 4410 + 8820 + 4410; i < len(env); i++ {
		if env[i] != 0 {
			t.Fatalf("sample %d after release should be silent, got %v", i, env[i])
		}
	}
}

func TestApply(t *testing.T) {
	e := NewEnvelope(sampleRate)
	buf := make([]float64, 4410)
	for i := range buf {
		buf[i] = 1
	}
	out := e.Apply(buf, ADSR{Attack: 0.01, Decay: 0.01, Sustain: 0.5, Release: 0.01})
	if want, got := 4410, len(out); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	if out[0] != 0 || out[len(out)-1] != 0 {
		t.Errorf("expected silent edges, got %v and %v", out[0], out[len(out)-1])
	}
	if want, got := 0.5, out[2000]; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := out[2000], buf[2000]; want != got {
		t.Errorf("envelope should be applied in place: want %v, got %v", want, got)
	}
	if got := e.Apply(nil, DefaultADSR); len(got) != 0 {
		t.Errorf("expected empty result, got %d samples", len(got))
	}
}

func TestPitch(t *testing.T) {
	e := NewEnvelope(1000)

	lin, err := e.Pitch(0.011, 100, 200, Linear)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := []float64{100, 200, 150}, []float64{lin[0], lin[10], lin[5]}; !reflect.DeepEqual(want, got) {
		t.Errorf("linear: want %v, got %v", want, got)
	}

	exp, err := e.Pitch(0.011, 100, 400, Exponential)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range map[int]float64{0: 100, 5: 200, 10: 400} {
		if got := exp[i]; math.Abs(want-got) > 1e-9 {
			t.Errorf("exponential sample %d: want %v, got %v", i, want, got)
		}
	}

	if _, err := e.Pitch(0.011, 0, 400, Exponential); err == nil {
		t.Error("expected error for exponential curve from 0Hz")
	}
}

func TestVibratoCurve(t *testing.T) {
	const base, depth = 440.0, 2.0
	freqs := NewEnvelope(sampleRate).Vibrato(base, 1, depth, 6)
	if want, got := 44100, len(freqs); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	top := base * math.Pow(2, depth/12)
	for i, f := range freqs {
		if f < base-1e-9 || f > top+1e-9 {
			t.Fatalf("sample %d: %v outside %v - %v", i, f, base, top)
		}
	}
	if want, got := (base+top)/2, freqs[0]; math.Abs(want-got) > 1e-9 {
		t.Errorf("want %v at t=0, got %v", want, got)
	}
}

func TestTremoloCurve(t *testing.T) {
	buf := make([]float64, sampleRate)
	for i := range buf {
		buf[i] = 1
	}
	NewEnvelope(sampleRate).Tremolo(buf, 5, 0.4)
	for i, v := range buf {
		if v < 0.6-1e-12 || v > 1+1e-12 {
			t.Fatalf("sample %d: %v outside 0.6 - 1", i, v)
		}
	}
}

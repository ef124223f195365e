package dub

import (
	"reflect"
	"testing"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr       string
		meter      string
		resolution int
		want       []int
	}{
		{
			expr:       "2,4/*",
			meter:      "4/4",
			resolution: 16,
			want:       []int{0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0},
		},
		{
			expr:       "1:4",
			meter:      "4/4",
			resolution: 16,
			want:       []int{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			expr:       "1:2//1:4",
			meter:      "4/4",
			resolution: 16,
			want:       []int{1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			expr:       "*//3,4",
			meter:      "4/4",
			resolution: 16,
			want:       []int{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
		},
		{
			expr:       "*/2",
			meter:      "4/4",
			resolution: 16,
			want:       []int{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		},
		{
			expr:       "5",
			meter:      "5/4",
			resolution: 16,
			want:       []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			expr:       "*",
			meter:      "7/8",
			resolution: 16,
			want:       []int{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
		},
		{
			expr:       "*/2",
			meter:      "7/8",
			resolution: 16,
			want:       []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1},
		},
		{
			expr:       "*",
			meter:      "4/4",
			resolution: 32,
			want: []int{
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
			},
		},
	}
	for _, test := range tests {
		cmd, err := Parse("b '" + test.expr)
		if err != nil {
			t.Error(err)
			continue
		}
		meter, err := ParseMeter(test.meter)
		if err != nil {
			t.Error(err)
			continue
		}
		got, err := cmd.Args[0].(MatchExpr).Eval(meter, test.resolution)
		if err != nil {
			t.Errorf("%s in %s: %v", test.expr, test.meter, err)
			continue
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("%s in %s:\nwant %v\ngot  %v", test.expr, test.meter, test.want, got)
		}
	}
}

func TestEvalTooFine(t *testing.T) {
	cmd, err := Parse("b '*///*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.Args[0].(MatchExpr).Eval(FourFour, 16); err == nil {
		t.Error("expected error matching 32nd notes on a 16 step grid")
	}
}

func TestHits(t *testing.T) {
	cmd, err := Parse("b '1,3")
	if err != nil {
		t.Fatal(err)
	}
	got, err := cmd.Args[0].(MatchExpr).Hits(FourFour, 16)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 8}; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestParseMeter(t *testing.T) {
	m, err := ParseMeter("7/8")
	if err != nil {
		t.Fatal(err)
	}
	if want := (Meter{7, 8}); want != m {
		t.Errorf("want %v, got %v", want, m)
	}
	for _, s := range []string{"", "4", "a/b", "0/4"} {
		if _, err := ParseMeter(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

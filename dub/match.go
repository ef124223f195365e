package dub

import "fmt"

type part struct {
	level int
	sel   selector
}

type selector interface {
	// selects reports whether note n, counted from 1, is selected.
	selects(n int) bool
}

// span selects notes first through last. -1 leaves a side open.
type span struct {
	first, last int
}

func (s span) selects(n int) bool {
	return (s.first == -1 || n >= s.first) && (s.last == -1 || n <= s.last)
}

var matchAll = span{-1, -1}

type set []int

func (s set) selects(n int) bool {
	for _, k := range s {
		if k == n {
			return true
		}
	}
	return false
}

// Meter is a time signature, like 4/4 or 7/8.
type Meter struct {
	Beats    int
	Division int
}

var FourFour = Meter{4, 4}

func ParseMeter(s string) (Meter, error) {
	var m Meter
	if _, err := fmt.Sscanf(s, "%d/%d", &m.Beats, &m.Division); err != nil {
		return m, fmt.Errorf("not a valid time signature: %s", s)
	}
	if m.Beats <= 0 || m.Division <= 0 {
		return m, fmt.Errorf("not a valid time signature: %s", s)
	}
	return m, nil
}

func (m Meter) String() string { return fmt.Sprintf("%d/%d", m.Beats, m.Division) }

// Steps is the number of steps in a bar of m when a whole note is divided into
// resolution steps.
func (m Meter) Steps(resolution int) int {
	return resolution / m.Division * m.Beats
}

// Eval returns one value per step of a bar of m, 1 where the expression hits
// and 0 elsewhere. A step hits when it starts a note of the deepest level and
// every level selects the note that contains it.
func (e MatchExpr) Eval(m Meter, resolution int) ([]int, error) {
	if m.Beats <= 0 || m.Division <= 0 || resolution < m.Division {
		return nil, fmt.Errorf("can't divide %v into %d steps", m, resolution)
	}
	// per level: steps per note and notes per beat
	type grid struct{ width, perBeat int }
	grids := make([]grid, len(e.parts))
	for i, p := range e.parts {
		notes := m.Division << p.level
		if notes > resolution {
			return nil, fmt.Errorf("can't match on %d notes with step size %d", notes, resolution)
		}
		grids[i] = grid{resolution / notes, notes / m.Division}
	}

	seq := make([]int, m.Steps(resolution))
	if len(e.parts) == 0 {
		return seq, nil
	}
	deepest := grids[len(grids)-1]
	for step := 0; step < len(seq); step += deepest.width {
		hit := 1
		for i, p := range e.parts {
			note := step / grids[i].width
			if grids[i].perBeat > 1 {
				note %= grids[i].perBeat
			}
			if !p.sel.selects(note + 1) {
				hit = 0
				break
			}
		}
		seq[step] = hit
	}
	return seq, nil
}

// Hits returns the indexes of the steps e hits in a bar of m.
func (e MatchExpr) Hits(m Meter, resolution int) ([]int, error) {
	seq, err := e.Eval(m, resolution)
	if err != nil {
		return nil, err
	}
	var hits []int
	for i, v := range seq {
		if v != 0 {
			hits = append(hits, i)
		}
	}
	return hits, nil
}

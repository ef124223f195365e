package audio

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// The file types below mirror Project with optional fields left as pointers, so
// that missing values can be told apart from zero values and defaulted.

type projectFile struct {
	Name        string      `yaml:"name" json:"name"`
	BPM         float64     `yaml:"bpm" json:"bpm"`
	OriginalBPM float64     `yaml:"original_bpm" json:"original_bpm"`
	Tracks      []trackFile `yaml:"tracks" json:"tracks"`
}

type trackFile struct {
	Name    string     `yaml:"name" json:"name"`
	Kind    TrackKind  `yaml:"kind" json:"kind"`
	Enabled *bool      `yaml:"enabled" json:"enabled"`
	Volume  *float64   `yaml:"volume" json:"volume"`
	Notes   []noteFile `yaml:"notes" json:"notes"`
	Drums   []drumFile `yaml:"drums" json:"drums"`
	Effects Effects    `yaml:"effects" json:"effects"`
}

type noteFile struct {
	Pitch    int      `yaml:"pitch" json:"pitch"`
	Velocity *int     `yaml:"velocity" json:"velocity"`
	Start    float64  `yaml:"start" json:"start"`
	Duration float64  `yaml:"duration" json:"duration"`
	Waveform Waveform `yaml:"waveform" json:"waveform"`
	Duty     float64  `yaml:"duty" json:"duty"`
	ADSR     *ADSR    `yaml:"adsr" json:"adsr"`
	Vibrato  *Vibrato `yaml:"vibrato" json:"vibrato"`
	Slide    *Slide   `yaml:"slide" json:"slide"`
}

type drumFile struct {
	Kind     DrumKind `yaml:"kind" json:"kind"`
	Start    float64  `yaml:"start" json:"start"`
	Duration float64  `yaml:"duration" json:"duration"`
	Velocity *int     `yaml:"velocity" json:"velocity"`
}

const defaultVelocity = 127

func or[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func (f *projectFile) project() *Project {
	p := &Project{Name: f.Name, BPM: f.BPM, OriginalBPM: f.OriginalBPM}
	for _, tf := range f.Tracks {
		t := Track{
			Name:    tf.Name,
			Kind:    tf.Kind,
			Enabled: or(tf.Enabled, true),
			Volume:  or(tf.Volume, 1.0),
			Effects: tf.Effects,
		}
		for _, nf := range tf.Notes {
			t.Notes = append(t.Notes, Note{
				Pitch:    nf.Pitch,
				Velocity: or(nf.Velocity, defaultVelocity),
				Start:    nf.Start,
				Duration: nf.Duration,
				Waveform: nf.Waveform,
				Duty:     nf.Duty,
				ADSR:     nf.ADSR,
				Vibrato:  nf.Vibrato,
				Slide:    nf.Slide,
			})
		}
		for _, df := range tf.Drums {
			t.Drums = append(t.Drums, DrumEvent{
				Kind:     df.Kind,
				Start:    df.Start,
				Duration: df.Duration,
				Velocity: or(df.Velocity, defaultVelocity),
			})
		}
		p.Tracks = append(p.Tracks, t)
	}
	return p
}

// DecodeProject reads a project from JSON or YAML and validates it. Tracks are
// enabled at full volume and events play at full velocity unless the file says
// otherwise. Unknown waveform, drum or track kind names fail the decode.
func DecodeProject(data []byte) (*Project, error) {
	var f projectFile
	if errJSON := json.Unmarshal(data, &f); errJSON != nil {
		f = projectFile{}
		if errYAML := yaml.Unmarshal(data, &f); errYAML != nil {
			return nil, fmt.Errorf("decode project: %w", errYAML)
		}
	}
	p := f.project()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("project %q: %w", p.Name, err)
	}
	return p, nil
}

func LoadProject(file string) (*Project, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return DecodeProject(data)
}

// EncodeProject writes p as YAML.
func EncodeProject(p *Project) ([]byte, error) {
	return yaml.Marshal(p)
}

func SaveProject(file string, p *Project) error {
	data, err := EncodeProject(p)
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

// SetBPM changes the current tempo of p. The first change records the tempo
// the project was written at, so that rendering rescales note timing.
func (p *Project) SetBPM(bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("tempo must be positive: %v", bpm)
	}
	if p.OriginalBPM <= 0 {
		p.OriginalBPM = p.BPM
	}
	p.BPM = bpm
	return nil
}

// SetHits replaces all hits of kind on a percussion track with one hit per
// step. Steps last stepBeats beats each.
func (t *Track) SetHits(kind DrumKind, steps []int, stepBeats float64, velocity int) error {
	if t.Kind != Percussion {
		return fmt.Errorf("track %q is not a percussion track", t.Name)
	}
	if _, ok := drumNames[kind]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDrum, int(kind))
	}
	drums := t.Drums[:0]
	for _, d := range t.Drums {
		if d.Kind != kind {
			drums = append(drums, d)
		}
	}
	for _, step := range steps {
		drums = append(drums, DrumEvent{
			Kind:     kind,
			Start:    float64(step) * stepBeats,
			Duration: stepBeats,
			Velocity: velocity,
		})
	}
	sort.SliceStable(drums, func(i, j int) bool { return drums[i].Start < drums[j].Start })
	t.Drums = drums
	return nil
}

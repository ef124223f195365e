package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrdg/chiptune/audio"
	"github.com/mrdg/chiptune/dub"
)

var errQuit = errors.New("quit")

// steps per whole note on the grid beat patterns are written on
const stepResolution = 16

var commands = []command{
	{name: "note", help: "note <pitch> [duration]: preview a note", run: noteCommand, minArgs: 1, maxArgs: 2},
	{name: "drum", help: "drum <kind> [duration]: preview a drum hit", run: drumCommand, minArgs: 1, maxArgs: 2, complete: drumNames},
	{name: "sfx", help: "sfx <name>: play a sound effect", run: sfxCommand, minArgs: 1, maxArgs: 1, complete: audio.EffectNames},
	{name: "sample", help: "sample <file>: play a wav file", run: sampleCommand, minArgs: 1, maxArgs: 1},
	{name: "play", help: "play [start] [end]: play the project once", run: playCommand, maxArgs: 2},
	{name: "loop", help: "loop [start] [end]: play the project until stopped", run: loopCommand, maxArgs: 2},
	{name: "stop", help: "stop: stop everything playing", run: stopCommand},
	{name: "volume", help: "volume <0-1>: set the master volume", run: volumeCommand, minArgs: 1, maxArgs: 1},
	{name: "bpm", help: "bpm <tempo>: change the project tempo", run: bpmCommand, minArgs: 1, maxArgs: 1},
	{name: "meter", help: "meter <beats> <division>: time signature of beat patterns", run: meterCommand, minArgs: 2, maxArgs: 2},
	{name: "set", help: "set <property> <value>: change a preview property", run: setCommand, minArgs: 2, maxArgs: 2, complete: propNames},
	{name: "get", help: "get <property>: show a preview property", run: getCommand, minArgs: 1, maxArgs: 1, complete: propNames},
	{name: "props", help: "props: list preview properties", run: propsCommand},
	{name: "preset", help: "preset <name>: load preview properties", run: presetCommand, minArgs: 1, maxArgs: 1, complete: audio.PresetNames},
	{name: "mute", help: "mute <track>: toggle a track", run: muteCommand, minArgs: 1, maxArgs: 1},
	{name: "beat", help: "beat <track> <kind> '<pattern> [velocity]: write the hits of a drum", run: beatCommand, minArgs: 3, maxArgs: 4},
	{name: "tracks", help: "tracks: show the tracks of the project", run: tracksCommand},
	{name: "export", help: "export <file>: render the project to a wav file", run: exportCommand, minArgs: 1, maxArgs: 1},
	{name: "stems", help: "stems <dir>: render each track to its own wav file", run: stemsCommand, minArgs: 1, maxArgs: 1},
	{name: "save", help: "save <file>: write the project as yaml", run: saveCommand, minArgs: 1, maxArgs: 1},
	{name: "quit", help: "quit: leave the prompt", run: quitCommand},
}

func init() {
	commands = append(commands, command{name: "help", help: "help: list commands", run: helpCommand})
}

func drumNames() []string {
	return []string{"kick", "snare", "hihat", "crash", "other"}
}

func propNames() []string {
	return []string{
		audio.PropWaveform, audio.PropDuty, audio.PropVelocity, audio.PropLength, audio.PropDrumLength,
		audio.PropEnvAttack, audio.PropEnvDecay, audio.PropEnvSustain, audio.PropEnvRelease,
	}
}

func noteCommand(e *env, args []dub.Node) (dub.Node, error) {
	var pitch int
	if err := readArgs(args[:1], &pitch); err != nil {
		return nil, err
	}
	if pitch < 1 || pitch > 127 {
		return nil, fmt.Errorf("pitch out of range 1 - 127: %d", pitch)
	}
	n := e.engine.PreviewNote(pitch)
	if len(args) > 1 {
		if err := readArgs(args[1:], &n.Duration); err != nil {
			return nil, err
		}
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	_, err := e.engine.Play(e.engine.RenderNote(n, 1), false)
	return nil, err
}

func drumCommand(e *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args[:1], &name); err != nil {
		return nil, err
	}
	kind, err := audio.ParseDrum(name)
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		_, err = e.engine.PreviewDrum(kind)
		return nil, err
	}
	var dur float64
	if err := readArgs(args[1:], &dur); err != nil {
		return nil, err
	}
	v, err := e.engine.Get(audio.PropVelocity)
	if err != nil {
		return nil, err
	}
	_, err = e.engine.Play(e.engine.RenderDrum(kind, dur, v.(int), 1), false)
	return nil, err
}

func sfxCommand(e *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	_, err := e.engine.Effect(name)
	return nil, err
}

func sampleCommand(e *env, args []dub.Node) (dub.Node, error) {
	var file string
	if err := readArgs(args, &file); err != nil {
		return nil, err
	}
	buf, rate, err := audio.LoadWAV(file)
	if err != nil {
		return nil, err
	}
	if rate != e.engine.SampleRate() {
		return nil, fmt.Errorf("%s: sample rate %d does not match %d", file, rate, e.engine.SampleRate())
	}
	_, err = e.engine.Play(buf, false)
	return nil, err
}

// readWindow reads optional start and end times in seconds.
func readWindow(args []dub.Node) (float64, *float64, error) {
	var start, end float64
	switch len(args) {
	case 0:
		return 0, nil, nil
	case 1:
		err := readArgs(args, &start)
		return start, nil, err
	default:
		err := readArgs(args, &start, &end)
		return start, &end, err
	}
}

func (e *env) render(start float64, end *float64) ([]float64, error) {
	buf, err := e.engine.RenderProject(e.snapshot(), start, end)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, errors.New("nothing to play")
	}
	return buf, nil
}

func playCommand(e *env, args []dub.Node) (dub.Node, error) {
	start, end, err := readWindow(args)
	if err != nil {
		return nil, err
	}
	buf, err := e.render(start, end)
	if err != nil {
		return nil, err
	}
	_, err = e.engine.Play(buf, false)
	return nil, err
}

func loopCommand(e *env, args []dub.Node) (dub.Node, error) {
	start, end, err := readWindow(args)
	if err != nil {
		return nil, err
	}
	buf, err := e.render(start, end)
	if err != nil {
		return nil, err
	}
	h, err := e.engine.Play(buf, true)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	old := e.loop
	e.loop = h
	e.mu.Unlock()
	if old != nil {
		return nil, old.Stop()
	}
	return nil, nil
}

func stopCommand(e *env, args []dub.Node) (dub.Node, error) {
	e.mu.Lock()
	e.loop = nil
	e.mu.Unlock()
	return nil, e.engine.StopAll()
}

func volumeCommand(e *env, args []dub.Node) (dub.Node, error) {
	var v float64
	if err := readArgs(args, &v); err != nil {
		return nil, err
	}
	e.engine.SetMasterVolume(v)
	return dub.Float(e.engine.MasterVolume()), nil
}

func bpmCommand(e *env, args []dub.Node) (dub.Node, error) {
	var bpm float64
	if err := readArgs(args, &bpm); err != nil {
		return nil, err
	}
	return nil, e.update(func(p *audio.Project) error { return p.SetBPM(bpm) })
}

func meterCommand(e *env, args []dub.Node) (dub.Node, error) {
	var beats, division int
	if err := readArgs(args, &beats, &division); err != nil {
		return nil, err
	}
	m, err := dub.ParseMeter(fmt.Sprintf("%d/%d", beats, division))
	if err != nil {
		return nil, err
	}
	if m.Steps(stepResolution) == 0 {
		return nil, fmt.Errorf("%v does not fit a grid of %d steps", m, stepResolution)
	}
	e.mu.Lock()
	e.meter = m
	e.mu.Unlock()
	return nil, nil
}

func setCommand(e *env, args []dub.Node) (dub.Node, error) {
	var prop string
	if err := readArgs(args[:1], &prop); err != nil {
		return nil, err
	}
	v, err := value(args[1])
	if err != nil {
		return nil, err
	}
	return nil, e.engine.Set(prop, v)
}

func getCommand(e *env, args []dub.Node) (dub.Node, error) {
	var prop string
	if err := readArgs(args, &prop); err != nil {
		return nil, err
	}
	v, err := e.engine.Get(prop)
	if err != nil {
		return nil, err
	}
	return dub.String(fmt.Sprint(v)), nil
}

func propsCommand(e *env, args []dub.Node) (dub.Node, error) {
	for _, key := range e.engine.Keys() {
		v, _ := e.engine.Get(key)
		fmt.Fprintf(e.out, "%-12s %v\n", key, v)
	}
	return nil, nil
}

func presetCommand(e *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	return nil, audio.LoadPreset(name, e.engine)
}

func muteCommand(e *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	return nil, e.update(func(p *audio.Project) error {
		t := p.Track(name)
		if t == nil {
			return fmt.Errorf("unknown track: %s", name)
		}
		t.Enabled = !t.Enabled
		return nil
	})
}

func beatCommand(e *env, args []dub.Node) (dub.Node, error) {
	var (
		name, kindName string
		pattern        dub.MatchExpr
		velocity       = 127
	)
	if err := readArgs(args[:3], &name, &kindName, &pattern); err != nil {
		return nil, err
	}
	if len(args) > 3 {
		if err := readArgs(args[3:], &velocity); err != nil {
			return nil, err
		}
	}
	kind, err := audio.ParseDrum(kindName)
	if err != nil {
		return nil, err
	}
	if velocity < 0 || velocity > 127 {
		return nil, fmt.Errorf("velocity out of range 0 - 127: %d", velocity)
	}

	e.mu.Lock()
	meter := e.meter
	e.mu.Unlock()
	hits, err := pattern.Hits(meter, stepResolution)
	if err != nil {
		return nil, err
	}
	// a beat is a quarter note, a whole note has four
	stepBeats := 4.0 / stepResolution

	return nil, e.update(func(p *audio.Project) error {
		t := p.Track(name)
		if t == nil {
			p.Tracks = append(p.Tracks, audio.Track{
				Name:    name,
				Kind:    audio.Percussion,
				Enabled: true,
				Volume:  1,
			})
			t = &p.Tracks[len(p.Tracks)-1]
		}
		return t.SetHits(kind, hits, stepBeats, velocity)
	})
}

func tracksCommand(e *env, args []dub.Node) (dub.Node, error) {
	renderTracks(e.snapshot(), e.out)
	return nil, nil
}

func exportCommand(e *env, args []dub.Node) (dub.Node, error) {
	var file string
	if err := readArgs(args, &file); err != nil {
		return nil, err
	}
	return nil, exportMix(e.engine, e.snapshot(), 0, nil, file)
}

func stemsCommand(e *env, args []dub.Node) (dub.Node, error) {
	var dir string
	if err := readArgs(args, &dir); err != nil {
		return nil, err
	}
	files, err := exportStems(e.engine, e.snapshot(), 0, nil, dir)
	if err != nil {
		return nil, err
	}
	return dub.String(strings.Join(files, "\n")), nil
}

func saveCommand(e *env, args []dub.Node) (dub.Node, error) {
	var file string
	if err := readArgs(args, &file); err != nil {
		return nil, err
	}
	return nil, audio.SaveProject(file, e.snapshot())
}

func quitCommand(e *env, args []dub.Node) (dub.Node, error) {
	return nil, errQuit
}

func helpCommand(e *env, args []dub.Node) (dub.Node, error) {
	for _, cmd := range commands {
		fmt.Fprintln(e.out, cmd.help)
	}
	return nil, nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/mrdg/chiptune/audio"
	"github.com/mrdg/chiptune/dub"
)

// env is the state commands typed at the prompt work on.
type env struct {
	engine *audio.Engine
	out    io.Writer

	mu      sync.Mutex
	project *audio.Project
	meter   dub.Meter
	loop    audio.Handle
}

func newEnv(engine *audio.Engine, project *audio.Project, out io.Writer) *env {
	return &env{engine: engine, project: project, meter: dub.FourFour, out: out}
}

// update runs f with the project locked.
func (e *env) update(f func(p *audio.Project) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return f(e.project)
}

// snapshot returns a copy of the project that is safe to render while the
// prompt keeps editing.
func (e *env) snapshot() *audio.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := *e.project
	p.Tracks = make([]audio.Track, len(e.project.Tracks))
	for i, t := range e.project.Tracks {
		t.Notes = append([]audio.Note(nil), t.Notes...)
		t.Drums = append([]audio.DrumEvent(nil), t.Drums...)
		p.Tracks[i] = t
	}
	return &p
}

func (e *env) eval(input string) (dub.Node, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return nil, err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if n := len(command.Args); n < cmd.minArgs || n > cmd.maxArgs {
			if cmd.minArgs == cmd.maxArgs {
				return nil, fmt.Errorf("%s: wrong number of arguments: want %v, got %v", name, cmd.minArgs, n)
			}
			return nil, fmt.Errorf("%s: wrong number of arguments: want %v to %v, got %v",
				name, cmd.minArgs, cmd.maxArgs, n)
		}
		result, err := cmd.run(e, command.Args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", name, err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("unknown command: %s", name)
}

func repl(e *env) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "> ",
		AutoComplete: completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Fprintln(e.out, err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		result, err := e.eval(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			slog.Debug("command failed", "input", line, "err", err)
			fmt.Fprintln(e.out, colorize(err.Error(), colorRed))
			continue
		}
		if result != nil {
			fmt.Fprintln(e.out, result)
		}
	}
}

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		var args []readline.PrefixCompleterInterface
		if cmd.complete != nil {
			for _, word := range cmd.complete() {
				args = append(args, readline.PcItem(word))
			}
		}
		items = append(items, readline.PcItem(cmd.name, args...))
	}
	return readline.NewPrefixCompleter(items...)
}

type command struct {
	name    string
	help    string
	run     func(*env, []dub.Node) (dub.Node, error)
	minArgs int
	maxArgs int

	// complete lists words offered after the command name.
	complete func() []string
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument %d: expected a string or identifier", n+1)
			}
		case *float64:
			switch v := arg.(type) {
			case dub.Float:
				*p = float64(v)
			case dub.Int:
				*p = float64(v)
			default:
				return fmt.Errorf("argument %d: expected a number", n+1)
			}
		case *int:
			v, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument %d: expected an integer", n+1)
			}
			*p = int(v)
		case *dub.MatchExpr:
			v, ok := arg.(dub.MatchExpr)
			if !ok {
				return fmt.Errorf("argument %d: expected a match expression", n+1)
			}
			*p = v
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}

// value converts a literal argument to the value handed to a property setter.
func value(arg dub.Node) (interface{}, error) {
	switch v := arg.(type) {
	case dub.Int:
		return int(v), nil
	case dub.Float:
		return float64(v), nil
	case dub.String:
		return string(v), nil
	case dub.Identifier:
		return string(v), nil
	}
	return nil, fmt.Errorf("unsupported property value: %v", arg)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/mrdg/chiptune/audio"
	"github.com/mrdg/chiptune/fx"
	"github.com/mrdg/chiptune/sink"
	"github.com/mrdg/chiptune/sink/oto"
	"github.com/mrdg/chiptune/sink/portaudio"
)

type options struct {
	configFile string
	rate       int
	volume     float64
	sink       string
	out        string
	stems      string
	loop       bool
	start      float64
	end        float64
	bpm        float64
	repl       bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configFile, "config", "chiptune.yml", "config file")
	flag.IntVar(&opts.rate, "rate", 0, "sample rate, overrides the config file")
	flag.Float64Var(&opts.volume, "volume", -1, "master volume 0-1, overrides the config file")
	flag.StringVar(&opts.sink, "sink", "", "audio output: portaudio, oto or none")
	flag.StringVar(&opts.out, "o", "", "export the mix to this wav file")
	flag.StringVar(&opts.stems, "stems", "", "export every enabled track to a wav file in this directory")
	flag.BoolVar(&opts.loop, "loop", false, "play the project until interrupted")
	flag.Float64Var(&opts.start, "start", 0, "start time in seconds")
	flag.Float64Var(&opts.end, "end", -1, "end time in seconds, defaults to the end of the project")
	flag.Float64Var(&opts.bpm, "bpm", 0, "play at this tempo instead of the project's")
	flag.BoolVar(&opts.repl, "repl", false, "start a prompt after loading the project")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()
	initLogger(*debug)

	if err := run(opts, flag.Arg(0)); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(opts options, file string) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	if opts.rate > 0 {
		cfg.SampleRate = opts.rate
	}
	if opts.volume >= 0 {
		cfg.MasterVolume = opts.volume
	}
	if opts.sink != "" {
		cfg.Sink = opts.sink
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	project := &audio.Project{Name: "untitled", BPM: audio.DefaultBPM}
	if file != "" {
		if project, err = audio.LoadProject(file); err != nil {
			return err
		}
		slog.Debug("loaded project", "file", file, "tracks", len(project.Tracks))
	}
	if opts.bpm > 0 {
		if err := project.SetBPM(opts.bpm); err != nil {
			return err
		}
	}
	var end *float64
	if opts.end >= 0 {
		end = &opts.end
	}

	exporting := opts.out != "" || opts.stems != ""
	var output audio.Sink
	if !exporting || opts.repl {
		s, closeSink, err := openSink(cfg)
		if err != nil {
			return err
		}
		defer closeSink()
		output = s
	}

	engine := audio.NewEngine(cfg.SampleRate, output, fx.NewChain(cfg.SampleRate))
	engine.SetMasterVolume(cfg.MasterVolume)
	for key, v := range cfg.Preview {
		if err := engine.Set(key, v); err != nil {
			return fmt.Errorf("config: preview: %w", err)
		}
	}

	if opts.out != "" {
		if err := exportMix(engine, project, opts.start, end, opts.out); err != nil {
			return err
		}
	}
	if opts.stems != "" {
		if _, err := exportStems(engine, project, opts.start, end, opts.stems); err != nil {
			return err
		}
	}

	switch {
	case opts.repl:
		return repl(newEnv(engine, project, os.Stdout))
	case !exporting:
		return play(engine, project, opts.start, end, opts.loop)
	}
	return nil
}

// play renders the project and blocks until playback ends or the process is
// interrupted.
func play(engine *audio.Engine, p *audio.Project, start float64, end *float64, loop bool) error {
	buf, err := engine.RenderProject(p, start, end)
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		slog.Info("nothing to play")
		return nil
	}
	if _, err := engine.Play(buf, loop); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for engine.IsPlaying() {
		select {
		case <-ctx.Done():
			return engine.StopAll()
		case <-ticker.C:
		}
	}
	return nil
}

func openSink(cfg config) (audio.Sink, func(), error) {
	switch cfg.Sink {
	case "portaudio":
		s, err := portaudio.Open(cfg.SampleRate, cfg.BufferSize)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { logClose("portaudio", s.Close()) }, nil
	case "oto":
		s, err := oto.Open(cfg.SampleRate, cfg.BufferSize)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { logClose("oto", s.Close()) }, nil
	case "none":
		return sink.NewRecorder(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown sink: %q", cfg.Sink)
}

func logClose(name string, err error) {
	if err != nil {
		slog.Warn("closing sink", "sink", name, "err", err)
	}
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrdg/chiptune/audio"
)

func exportMix(engine *audio.Engine, p *audio.Project, start float64, end *float64, file string) error {
	buf, err := engine.RenderProject(p, start, end)
	if err != nil {
		return err
	}
	if err := audio.SaveWAV(file, buf, engine.SampleRate()); err != nil {
		return fmt.Errorf("export %s: %w", file, err)
	}
	slog.Info("exported mix", "file", file, "seconds", float64(len(buf))/float64(engine.SampleRate()))
	return nil
}

// exportStems writes every enabled track to its own file in dir. Stems share
// the window of the full mix and are not normalised.
func exportStems(engine *audio.Engine, p *audio.Project, start float64, end *float64, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tracks := p.EnabledTracks()
	stems, err := engine.Mixer().RenderTracks(tracks, p.Window(start, end))
	if err != nil {
		return nil, err
	}
	var files []string
	for i, stem := range stems {
		file := filepath.Join(dir, stemName(i, tracks[i].Name))
		if err := audio.SaveWAV(file, stem, engine.SampleRate()); err != nil {
			return files, fmt.Errorf("export %s: %w", file, err)
		}
		slog.Debug("exported stem", "track", tracks[i].Name, "file", file)
		files = append(files, file)
	}
	return files, nil
}

func stemName(i int, track string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, track)
	if name == "" {
		name = "track"
	}
	return fmt.Sprintf("%02d-%s.wav", i+1, name)
}

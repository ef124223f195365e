package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mrdg/chiptune/audio"
)

// renderTracks prints one row per track. Percussion tracks get an extra row per
// drum kind showing the hits of the first bar on a 16 step grid.
func renderTracks(p *audio.Project, w io.Writer) {
	tempo := strconv.FormatFloat(p.BPM, 'f', -1, 64)
	if p.OriginalBPM > 0 && p.OriginalBPM != p.BPM {
		tempo += " (written at " + strconv.FormatFloat(p.OriginalBPM, 'f', -1, 64) + ")"
	}
	fmt.Fprintf(w, "%s  ♩ = %s\n", colorize(p.Name, colorYellow), tempo)
	if len(p.Tracks) == 0 {
		fmt.Fprintln(w, "no tracks")
		return
	}

	var maxNameLen int
	for _, t := range p.Tracks {
		maxNameLen = max(maxNameLen, len(t.Name))
	}
	maxNameLen++

	for i, t := range p.Tracks {
		speaker := "🔈"
		if !t.Enabled {
			speaker = "🔇"
		}
		id := colorize(string(rune(i+int('a'))), colorGreen)
		events := len(t.Notes) + len(t.Drums)
		fmt.Fprintf(w, "%s %s %s %-10s vol %.2f  %d events\n",
			id, formatName(t.Name, maxNameLen), speaker, t.Kind, t.Volume, events)

		if t.Kind != audio.Percussion {
			continue
		}
		for _, kind := range drumKinds(t.Drums) {
			fmt.Fprintf(w, "  %s %s\n", formatName(kind.String(), maxNameLen), steps(t.Drums, kind))
		}
	}
}

const gridSteps = 16

func steps(drums []audio.DrumEvent, kind audio.DrumKind) string {
	var grid [gridSteps]bool
	for _, d := range drums {
		// four steps per beat, first bar only
		step := int(math.Round(d.Start * 4))
		if d.Kind == kind && step >= 0 && step < gridSteps {
			grid[step] = true
		}
	}
	var b strings.Builder
	for i, hit := range grid {
		if hit {
			b.WriteString("⬛️")
		} else {
			b.WriteString("⬜️")
		}
		if i%4 == 3 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func drumKinds(drums []audio.DrumEvent) []audio.DrumKind {
	var seen [audio.OtherDrum + 1]bool
	var kinds []audio.DrumKind
	for _, d := range drums {
		if d.Kind >= 0 && d.Kind <= audio.OtherDrum && !seen[d.Kind] {
			seen[d.Kind] = true
			kinds = append(kinds, d.Kind)
		}
	}
	return kinds
}

func formatName(name string, max int) string {
	if len(name) > max {
		name = name[:max-1]
		name += "…"
	}
	if len(name) < max {
		name += strings.Repeat(" ", max-len(name))
	}
	return colorize(name, colorBlue)
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}

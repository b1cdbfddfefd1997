package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-pianoroll/config"
	"go-pianoroll/debug"
	"go-pianoroll/midifile"
	"go-pianoroll/project"
	"go-pianoroll/raster"
	"go-pianoroll/roll"
	"go-pianoroll/theme"
	"go-pianoroll/tui"
)

var (
	projectVar  string
	paletteVar  string
	pngVar      string
	readOnlyVar bool
	debugVar    bool
	addDurVar   float64
)

func init() {
	flag.StringVar(&projectVar, "project", "", "project folder for saves (default from config)")
	flag.StringVar(&paletteVar, "palette", "", "builtin palette name or .gpl file")
	flag.StringVar(&pngVar, "png", "", "render the roll to this PNG and exit")
	flag.BoolVar(&readOnlyVar, "readonly", false, "open without note editing")
	flag.BoolVar(&debugVar, "debug", false, "log to ~/.config/go-pianoroll/debug.log")
	flag.Float64Var(&addDurVar, "add", -1, "length in seconds of notes added by clicking, 0 disables")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: go-pianoroll [flags] [file.mid]\n")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if err := run(flag.Arg(0)); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(source string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	applyFlags(cfg)

	if cfg.UI.Debug {
		if err := debug.Enable(); err != nil {
			return err
		}
		defer debug.Disable()
	}

	palette, err := theme.Resolve(cfg.UI.Palette)
	if err != nil {
		return err
	}
	th := theme.New(palette)

	var notes roll.Sequence
	if source != "" {
		if notes, err = midifile.ReadFile(source); err != nil {
			return err
		}
		debug.Log("main", "loaded %d notes from %s", len(notes), source)
	}

	painter, err := raster.NewPainter(th)
	if err != nil {
		return err
	}

	if pngVar != "" {
		frame := roll.Render(roll.DefaultGrid(), notes, roll.NoSelection, roll.Cursor{})
		return painter.SavePNG(pngVar, frame, roll.Viewport{})
	}

	store, err := project.DefaultStore()
	if err != nil {
		return err
	}

	m := tui.NewModel(notes, tui.Options{
		Config:  cfg,
		Theme:   th,
		Store:   store,
		Painter: painter,
		Source:  source,
		Project: cfg.UI.LastProject,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}

	return config.Remember(source, m.Project())
}

// applyFlags lays command-line settings over the file and environment
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "project":
			cfg.UI.LastProject = projectVar
		case "palette":
			cfg.UI.Palette = paletteVar
		case "readonly":
			cfg.Editor.ReadOnly = readOnlyVar
		case "debug":
			cfg.UI.Debug = debugVar
		case "add":
			if addDurVar >= 0 {
				cfg.Editor.AddNoteDuration = addDurVar
			}
		}
	})
}

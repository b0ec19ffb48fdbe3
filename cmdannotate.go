package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type AnnotateCmd struct {
	Src string `arg:"" name:"src" help:"G-code file written by the slicer." type:"path"`
	Dst string `arg:"" optional:"" name:"dst" help:"Destination G-code file. The source is overwritten when omitted." type:"path"`

	Slicer       string  `enum:"prusa,orca" default:"prusa" help:"Built-in marker profile (${enum})."`
	Profile      string  `help:"YAML marker profile, unset fields fall back to --slicer." type:"existingfile"`
	TypeLabels   bool    `name:"type-labels" help:"Add a ;TYPE:<TYPE> label after every ;segType: marker."`
	RemoveConfig bool    `name:"remove-config" help:"Drop the configuration dump after the footer end marker."`
	BedOff       float64 `name:"bed-off" placeholder:"MM" help:"Turn the bed heater off once a move reaches this height. 0 disables."`
	NumLayers    bool    `name:"num-layers" help:"Add the total number of layers to the slicer info block."`
	PrusaTypes   bool    `name:"prusa-types" help:"Rename slicer ;TYPE: comments to their PrusaSlicer names."`

	RemoveAllComments bool `name:"remove-all-comments" xor:"comments" help:"Strip every slicer comment. Segment markers are kept."`
	ObscureConfig     bool `name:"obscure-config" xor:"comments" help:"Replace every configuration dump entry with a bogus value."`

	LCDBar   bool   `name:"lcd-bar" help:"Replace M117 layer messages with a progress bar."`
	LCDWidth int    `name:"lcd-width" default:"17" help:"Progress bar width in characters, brackets excluded."`
	LCDChar  string `name:"lcd-char" default:"O" help:"Progress bar fill character."`

	Counter        bool `help:"Prefix the output name with the zero padded export counter."`
	ReverseCounter bool `name:"reverse-counter" help:"Count the export counter down instead of up."`
	Timestamp      bool `help:"Suffix the output name with the export time."`
	Backup         bool `help:"Copy the source to <src>.bak before processing."`

	Wait        time.Duration `default:"5s" help:"How long to wait for the source file to appear."`
	ReportEvery int           `name:"report-every" default:"10" placeholder:"PCT" help:"Log progress every this many percent."`
}

func (cmd *AnnotateCmd) Validate() error {
	switch {
	case len(cmd.LCDChar) != 1:
		return &UsageError{Msg: fmt.Sprintf("--lcd-char must be a single character, got %q", cmd.LCDChar)}
	case cmd.LCDWidth < 3:
		return &UsageError{Msg: fmt.Sprintf("--lcd-width must be at least 3, got %d", cmd.LCDWidth)}
	case cmd.BedOff < 0:
		return &UsageError{Msg: fmt.Sprintf("--bed-off must not be negative, got %g", cmd.BedOff)}
	case cmd.ReportEvery < 1 || cmd.ReportEvery > 100:
		return &UsageError{Msg: fmt.Sprintf("--report-every must be in the range 1-100, got %d", cmd.ReportEvery)}
	case cmd.Wait < 0:
		return &UsageError{Msg: "--wait must not be negative"}
	}
	return nil
}

func (cmd *AnnotateCmd) Run(g *Globals) error {
	if err := waitForFile(context.Background(), cmd.Src, cmd.Wait); err != nil {
		return err
	}

	profile, err := BuiltinProfile(cmd.Slicer)
	if err != nil {
		return &UsageError{Msg: err.Error()}
	}
	if cmd.Profile != "" {
		if profile, err = LoadProfile(cmd.Profile, profile); err != nil {
			return err
		}
	}

	if cmd.Backup {
		if err := copyFile(cmd.Src, cmd.Src+".bak"); err != nil {
			return fmt.Errorf("failed to back up %s: %w", cmd.Src, err)
		}
		VPrintf("backup written to %s.bak\n", cmd.Src)
	}

	lines, format, err := readLines(cmd.Src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.Src, err)
	}
	Printf("Running %s\n", cmd.Src)

	out, stats, err := Annotate(lines, Options{
		Profile:      profile,
		TypeLabels:   cmd.TypeLabels,
		RemoveConfig: cmd.RemoveConfig,
		BedOffHeight: cmd.BedOff,
		NumLayers:    cmd.NumLayers,
		PrusaTypes:   cmd.PrusaTypes,

		RemoveAllComments: cmd.RemoveAllComments,
		ObscureConfig:     cmd.ObscureConfig,

		LCDBar:   cmd.LCDBar,
		LCDWidth: cmd.LCDWidth,
		LCDChar:  cmd.LCDChar[0],
		Progress: progressLogger(slog.Default(), cmd.ReportEvery),
	})
	if err != nil {
		return fmt.Errorf("failed to annotate %s: %w", cmd.Src, err)
	}

	var settings *Settings
	var deco nameDecoration
	if cmd.Counter {
		if settings, err = LoadSettings(g.Settings); err != nil {
			return err
		}
		deco.CounterPrefix = settings.Prefix()
	}
	if cmd.Timestamp {
		deco.Timestamp = time.Now()
	}

	// the slicer handed us a temp file and renames it on its own
	outputName := os.Getenv(outputNameEnv)
	slicerRenames := cmd.Dst == "" && outputName != "" && (cmd.Counter || cmd.Timestamp)

	dest := cmd.Dst
	if dest == "" {
		dest = cmd.Src
	}
	if !slicerRenames {
		dest = decoratePath(dest, deco)
	}

	if err := writeLines(dest, out, format); err != nil {
		return err
	}
	if slicerRenames {
		if err := writeOutputName(cmd.Src, outputName, deco); err != nil {
			return err
		}
	} else if cmd.Dst == "" && dest != cmd.Src {
		if err := os.Remove(cmd.Src); err != nil {
			slog.Warn("failed to remove undecorated source", "path", cmd.Src, "err", err)
		}
	}

	if settings != nil {
		settings.Advance(cmd.ReverseCounter)
		if err := settings.Save(); err != nil {
			return err
		}
	}

	VPrintf("  %d lines in, %d lines out, %d dropped\n", stats.InputLines, stats.OutputLines, stats.Dropped)
	for t := SegSkirt; t <= SegPerimeter; t++ {
		if n := stats.Markers[t]; n > 0 {
			VPrintf("  %-11s %d segments\n", t, n)
		}
	}
	Printf("All done, wrote %s\n", dest)
	return nil
}

// progressLogger logs every `every` percent of processed lines.
func progressLogger(logger *slog.Logger, every int) ProgressFunc {
	next := every
	return func(done, total int) {
		pct := done * 100 / total
		if pct >= next {
			logger.Info("progress", "percent", pct, "lines", done, "total", total)
			for next <= pct {
				next += every
			}
		}
	}
}

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

var verbose = 0

func Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

func VPrintf(format string, a ...interface{}) {
	if verbose > 0 {
		Printf(format, a...)
	}
}

// Globals are bound into every command's Run method.
type Globals struct {
	Verbose  int    `short:"v" type:"counter" help:"Increase output, repeat for debug logging."`
	Settings string `help:"Settings file holding the export counter. Defaults to spp_settings.xml next to the executable." type:"path"`
}

var cli struct {
	Globals

	Annotate AnnotateCmd `cmd:"" default:"withargs" help:"Adds ;segType: markers to a sliced G-code file (default command)."`
	Counter  CounterCmd  `cmd:"" help:"Shows, sets or resets the export counter without processing a file."`
	Svg      SvgCmd      `cmd:"" help:"Renders one layer as an SVG file, colored by segment type."`
}

func logLevel(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("gcode-segtype"),
		kong.Description("Post-processor for Slic3r/PrusaSlicer G-code. Marks toolpath segments "+
			"(skirt, infill, support, perimeter) so CraftWare style viewers can color them.\n\n"+
			"Slicer setup: enable verbose G-code, put \";layer:[layer_num];\" in the before layer change G-code "+
			"and end the footer with \"; END Footer\"."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			// kong only exits cleanly after printing help.
			if code == 0 {
				os.Exit(exitHelp)
			}
			os.Exit(exitFailure)
		}),
	)
	verbose = cli.Verbose
	slog.SetLogLoggerLevel(logLevel(verbose))
	if cli.Settings == "" {
		cli.Settings = DefaultSettingsPath()
	}

	err := ctx.Run(&cli.Globals)
	var notFound *InputNotFoundError
	switch {
	case err == nil, errors.Is(err, errCounterOnly):
	case errors.As(err, &notFound):
		slog.Warn("input missing", "path", notFound.Path, "waited", notFound.Waited, "files", notFound.Summary)
	default:
		slog.Error("post-processing failed", "err", err)
	}
	os.Exit(exitCode(err))
}

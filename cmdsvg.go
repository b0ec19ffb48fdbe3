package main

import (
	"fmt"
	"math"
	"os"
	"strings"
)

type SvgCmd struct {
	Src    string `arg:"" name:"src" help:"G-code file, annotated or straight from the slicer." type:"existingfile"`
	Dst    string `arg:"" name:"dst" help:"Destination svg file" type:"path"`
	Layer  int    `default:"0" help:"0-based layer to render."`
	Slicer string `enum:"prusa,orca" default:"prusa" help:"Built-in marker profile (${enum})."`
}

var segmentColors = map[SegmentType]string{
	SegNone:        "#888",
	SegSkirt:       "#0a0",
	SegInfill:      "#f80",
	SegSupport:     "#08f",
	SegSoftSupport: "#0ff",
	SegPerimeter:   "#f00",
}

func (cmd *SvgCmd) Run(g *Globals) error {
	profile, err := BuiltinProfile(cmd.Slicer)
	if err != nil {
		return &UsageError{Msg: err.Error()}
	}
	lines, _, err := readLines(cmd.Src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.Src, err)
	}
	// Annotating an already annotated file adds no markers.
	annotated, _, err := Annotate(lines, Options{Profile: profile})
	if err != nil {
		return fmt.Errorf("failed to annotate %s: %w", cmd.Src, err)
	}

	moves := layerToolpaths(annotated, profile, cmd.Layer)
	VPrintf("layer %d: %d extrusion moves\n", cmd.Layer, len(moves))
	if len(moves) == 0 {
		return fmt.Errorf("layer %d has no extrusion moves", cmd.Layer)
	}
	if err := os.WriteFile(cmd.Dst, []byte(renderSVG(moves)), 0644); err != nil {
		return fmt.Errorf("failed to write svg file: %v", err)
	}
	return nil
}

func renderSVG(moves []ExtrusionMove) string {
	sb := strings.Builder{}

	width := 1000.0
	height := 1000.0
	margin := 0.05

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, m := range moves {
		minX, maxX = math.Min(minX, math.Min(m.X0, m.X1)), math.Max(maxX, math.Max(m.X0, m.X1))
		minY, maxY = math.Min(minY, math.Min(m.Y0, m.Y1)), math.Max(maxY, math.Max(m.Y0, m.Y1))
	}
	scale := math.Min(width*(1-2*margin)/math.Max(maxX-minX, 1e-9), height*(1-2*margin)/math.Max(maxY-minY, 1e-9))
	// G-code Y grows towards the back, svg Y grows downwards.
	px := func(x float64) float64 { return width*margin + (x-minX)*scale }
	py := func(y float64) float64 { return height - (height*margin + (y-minY)*scale) }

	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%f\" height=\"%f\">\n", width, height)

	for i := 0; i < len(moves); {
		// one path per run of connected moves of the same type
		seg := moves[i].Seg
		fmt.Fprintf(&sb, "<path class=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M%f,%f", seg, segmentColors[seg], px(moves[i].X0), py(moves[i].Y0))
		j := i
		for ; j < len(moves) && moves[j].Seg == seg && (j == i || (moves[j].X0 == moves[j-1].X1 && moves[j].Y0 == moves[j-1].Y1)); j++ {
			fmt.Fprintf(&sb, " L%f,%f", px(moves[j].X1), py(moves[j].Y1))
		}
		sb.WriteString("\"/>\n")
		i = j
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

package main

import (
	"fmt"
	"log/slog"
	"strings"
)

type bodyState int

const (
	bodyBefore bodyState = iota
	bodyActive
	bodyEnded
)

// Lines appended once after the first move at or above the bed cutoff height.
var bedOffLines = []string{
	"M140 S0",
	displayMessageCmd + " Bed heater off",
}

// Options control a single annotation pass.
type Options struct {
	Profile *Profile

	// TypeLabels adds a ";TYPE:<TYPE>" line after every ";segType:" marker.
	TypeLabels bool

	// RemoveConfig drops everything after the footer end marker.
	RemoveConfig bool

	// BedOffHeight turns the bed heater off once a move reaches it. Zero disables.
	BedOffHeight float64

	// NumLayers adds "; total number of layers = N" to the slicer info block.
	NumLayers bool

	// PrusaTypes rewrites ";TYPE:" names through the profile's TypeRenames.
	PrusaTypes bool

	// RemoveAllComments strips every slicer comment. Generated lines are kept.
	RemoveAllComments bool

	// ObscureConfig replaces each configuration dump entry with "; = 0".
	ObscureConfig bool

	LCDBar   bool
	LCDWidth int
	LCDChar  byte

	Progress ProgressFunc
	Logger   *slog.Logger
}

// Stats summarises what a pass changed.
type Stats struct {
	InputLines  int
	OutputLines int
	Dropped     int
	Layers      int
	Labels      int
	Markers     map[SegmentType]int
	FusedLine   int
	BedOffLine  int
}

type annotator struct {
	opts    Options
	profile *Profile
	log     *slog.Logger
	labels  *layerLabeler

	body        bodyState
	footerEnded bool
	dropTail    bool

	zToken      string
	heightKnown bool
	fused       bool

	last   SegmentType
	bedOff bool

	inInfoBlock  bool
	layersNoted  bool
	inConfigDump bool

	lineNo int
	stats  Stats
}

// Annotate runs the segment classifier over lines and returns the rewritten
// file. Any error aborts the pass and no output is returned.
func Annotate(lines []string, opts Options) ([]string, *Stats, error) {
	if opts.Profile == nil {
		p, err := BuiltinProfile("prusa")
		if err != nil {
			return nil, nil, err
		}
		opts.Profile = p
	} else if opts.Profile.layerRx == nil {
		if err := opts.Profile.compile(); err != nil {
			return nil, nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	layers := countLayers(lines, opts.Profile.layerRx)
	a := &annotator{
		opts:    opts,
		profile: opts.Profile,
		log:     logger,
		labels:  newLayerLabeler(layers, opts.LCDBar, opts.LCDWidth, opts.LCDChar),
		stats: Stats{
			InputLines: len(lines),
			Layers:     layers,
			Markers:    map[SegmentType]int{},
		},
	}
	logger.Debug("counted layers", "layers", layers, "lines", len(lines))

	progress := percentReporter{fn: opts.Progress, total: len(lines)}
	out := make([]string, 0, len(lines)+len(lines)/8)
	for i, line := range lines {
		a.lineNo = i + 1
		var err error
		if out, err = a.step(line, out); err != nil {
			return nil, nil, err
		}
		progress.report(i + 1)
	}

	a.stats.OutputLines = len(out)
	logger.Info("annotated",
		"lines", a.stats.InputLines,
		"output", a.stats.OutputLines,
		"layers", a.stats.Layers,
		"markers", a.markerCount(),
		"fused_line", a.stats.FusedLine,
		"bed_off_line", a.stats.BedOffLine)
	if a.body == bodyBefore {
		logger.Warn("body start marker never found, file left unclassified", "marker", a.profile.BodyStart)
	}
	return out, &a.stats, nil
}

func (a *annotator) markerCount() int {
	n := 0
	for _, c := range a.stats.Markers {
		n += c
	}
	return n
}

func hasMarker(line, marker string) bool {
	return marker != "" && strings.Contains(line, marker)
}

func (a *annotator) step(line string, out []string) ([]string, error) {
	if a.dropTail {
		a.stats.Dropped++
		return out, nil
	}
	if a.footerEnded && a.opts.RemoveConfig {
		if strings.TrimSpace(line) == "" {
			a.dropTail = true
		}
		a.stats.Dropped++
		return out, nil
	}

	if a.opts.ObscureConfig {
		switch {
		case strings.TrimSpace(line) == configBegin:
			a.inConfigDump = true
			return a.keep(out, line), nil
		case strings.TrimSpace(line) == configEnd:
			a.inConfigDump = false
			return a.keep(out, line), nil
		case a.inConfigDump:
			return a.keep(out, "; = 0"), nil
		}
	}
	out = a.noteLayers(out, line)

	switch {
	case hasMarker(line, a.profile.BodyStart):
		// the configuration dump can repeat the marker
		if !a.footerEnded {
			a.body = bodyActive
		}
		return a.keep(out, line), nil
	case hasMarker(line, a.profile.HeaderRestart):
		a.body = bodyBefore
		return a.keep(out, line), nil
	case hasMarker(line, a.profile.FooterStart):
		a.body = bodyEnded
		return a.keep(out, line), nil
	case hasMarker(line, a.profile.FooterEnd):
		a.body = bodyEnded
		a.footerEnded = true
		return a.keep(out, line), nil
	}

	if a.body != bodyActive {
		return a.keep(out, line), nil
	}

	var trailer []string
	if a.opts.BedOffHeight > 0 && !a.bedOff {
		z, ok, err := matchMoveZ(line)
		if err != nil {
			return nil, &ProcessingError{Line: a.lineNo, Text: line, Err: err}
		}
		if ok && z >= a.opts.BedOffHeight {
			a.bedOff = true
			a.stats.BedOffLine = a.lineNo
			trailer = bedOffLines
			a.log.Debug("bed heater cutoff", "line", a.lineNo, "z", z)
		}
	}

	out = a.classify(line, out)
	return append(out, trailer...), nil
}

func (a *annotator) classify(line string, out []string) []string {
	if !a.fused {
		if !a.heightKnown {
			if tok, ok := matchLayerHeight(line); ok {
				a.zToken = tok
				a.heightKnown = true
				a.log.Debug("captured first layer height", "line", a.lineNo, "z", tok)
				return out
			}
		} else if fused, ok := fuseFirstPoint(line, a.zToken); ok {
			a.fused = true
			a.stats.FusedLine = a.lineNo
			return append(out, fused)
		}
	}

	if isDisplayMessage(line) {
		a.stats.Labels++
		return append(out, a.labels.next())
	}

	if isCommentOnly(line) {
		name, ok := typeCommentName(line)
		if !ok {
			return a.keep(out, line)
		}
		t, mapped := a.profile.typeCommentType(name)
		switch {
		case !mapped:
			// moves under an unknown type belong to no segment
			a.last = SegNone
		case t != a.last:
			out = a.mark(out, t)
		}
		if a.opts.PrusaTypes {
			line = typeCommentPrefix + a.profile.renameType(name)
		}
		return a.keep(out, line)
	}

	stripped, _ := stripComment(line)
	if t, ok := a.profile.suffixType(line); ok && t != a.last {
		out = a.mark(out, t)
	}
	return a.keep(out, stripped)
}

// keep appends a line taken from the input, dropping its comments when
// RemoveAllComments is set.
func (a *annotator) keep(out []string, line string) []string {
	if !a.opts.RemoveAllComments {
		return append(out, line)
	}
	if bare, ok := dropComments(line); ok {
		return append(out, bare)
	}
	a.stats.Dropped++
	return out
}

// noteLayers puts the layer total before the first blank line that follows
// an "extrusion width" line of the slicer info block.
func (a *annotator) noteLayers(out []string, line string) []string {
	if !a.opts.NumLayers || a.layersNoted {
		return out
	}
	if !a.inInfoBlock {
		a.inInfoBlock = infoBlockRx.MatchString(line)
		return out
	}
	if line != "" {
		return out
	}
	a.layersNoted = true
	a.log.Debug("layer total noted", "line", a.lineNo, "layers", a.stats.Layers)
	return append(out, fmt.Sprintf("; total number of layers = %d", a.stats.Layers))
}

// mark switches the active segment and emits its marker lines.
func (a *annotator) mark(out []string, t SegmentType) []string {
	a.last = t
	a.stats.Markers[t]++
	a.log.Debug("segment", "type", t, "line", a.lineNo)
	out = append(out, t.Marker())
	if a.opts.TypeLabels {
		out = append(out, t.Label())
	}
	return out
}

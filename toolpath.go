package main

import (
	"regexp"
	"strconv"
	"strings"
)

var moveWordRx = regexp.MustCompile(`(?i)(?:^|\s)([XYE])(` + findNumber + `)`)
var setPositionERx = regexp.MustCompile(`(?i)^\s*G92\b.*?\sE(` + findNumber + `)`)

// ExtrusionMove is one extruding XY move in a segment.
type ExtrusionMove struct {
	Seg    SegmentType
	X0, Y0 float64
	X1, Y1 float64
}

// layerToolpaths collects the extruding moves of the given 0-based layer from
// annotated G-code. Layers are counted by the profile's layer marker.
func layerToolpaths(lines []string, p *Profile, layer int) []ExtrusionMove {
	var moves []ExtrusionMove
	seg := SegNone
	cur := -1
	x, y, e := 0.0, 0.0, 0.0
	relativeE := false

	for _, line := range lines {
		if p.layerRx.MatchString(line) && !strings.Contains(line, "before_layer_gcode") {
			cur++
			if cur > layer {
				break
			}
			continue
		}
		if t, ok := strings.CutPrefix(strings.TrimSpace(line), ";segType:"); ok {
			var st SegmentType
			if err := st.UnmarshalText([]byte(t)); err == nil {
				seg = st
			}
			continue
		}

		code, _ := stripComment(line)
		fields := strings.Fields(code)
		if len(fields) == 0 {
			continue
		}
		switch strings.ToUpper(fields[0]) {
		case "M82":
			relativeE = false
		case "M83":
			relativeE = true
		case "G92":
			if m := setPositionERx.FindStringSubmatch(code); m != nil {
				e, _ = strconv.ParseFloat(m[1], 64)
			}
		case "G0", "G1":
			nx, ny, extruding := x, y, false
			for _, m := range moveWordRx.FindAllStringSubmatch(code, -1) {
				v, err := strconv.ParseFloat(m[2], 64)
				if err != nil {
					continue
				}
				switch strings.ToUpper(m[1]) {
				case "X":
					nx = v
				case "Y":
					ny = v
				case "E":
					if relativeE {
						extruding = v > 0
					} else {
						extruding = v > e
						e = v
					}
				}
			}
			if cur == layer && extruding && (nx != x || ny != y) {
				moves = append(moves, ExtrusionMove{Seg: seg, X0: x, Y0: y, X1: nx, Y1: ny})
			}
			x, y = nx, ny
		}
	}
	return moves
}

package main

import (
	"regexp"
	"strconv"
	"strings"
)

const findNumber = `[-+]?\d*\.?\d+`

// G1 Z.2 F7200 ; move to next layer (0)
var layerHeightRx = regexp.MustCompile(`(?i)^\s*G1\s+(Z` + findNumber + `)\s+F` + findNumber)

// G1 X92.706 Y96.155 F7200 ; move to first skirt point
var firstPointRx = regexp.MustCompile(`(?i)^\s*G1\s+X` + findNumber + `\s+Y` + findNumber + `(?:\s+F` + findNumber + `)?\s*(;\s*move to first\b.*\bpoint)\s*$`)

// Any travel or extrusion move that carries a Z word before the comment.
var moveZRx = regexp.MustCompile(`(?i)^\s*G[01]\s[^;]*?\bZ(` + findNumber + `)`)

const displayMessageCmd = "M117"

const typeCommentPrefix = ";TYPE:"

// Bounds of the PrusaSlicer configuration dump.
const (
	configBegin = "; prusaslicer_config = begin"
	configEnd   = "; prusaslicer_config = end"
)

// ; external perimeters extrusion width = 0.45mm
var infoBlockRx = regexp.MustCompile(`(?i)^;\s.*extrusion width`)

// matchLayerHeight returns the Z token ("Z0.2") of a first layer height move.
func matchLayerHeight(line string) (string, bool) {
	if m := layerHeightRx.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// fuseFirstPoint inserts zToken in front of the "; move to first ... point"
// comment of a first positioning move.
func fuseFirstPoint(line, zToken string) (string, bool) {
	m := firstPointRx.FindStringSubmatchIndex(line)
	if m == nil {
		return "", false
	}
	head, fragment := line[:m[2]], line[m[2]:]
	if !strings.HasSuffix(head, " ") && !strings.HasSuffix(head, "\t") {
		head += " "
	}
	return head + zToken + " " + fragment, true
}

// matchMoveZ parses the Z height of a G0/G1 move.
func matchMoveZ(line string) (float64, bool, error) {
	m := moveZRx.FindStringSubmatch(line)
	if m == nil {
		return 0, false, nil
	}
	z, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false, err
	}
	return z, true, nil
}

// stripComment truncates line at its first ';' and trims trailing blanks.
func stripComment(line string) (string, bool) {
	i := strings.IndexByte(line, ';')
	if i < 0 {
		return line, false
	}
	return strings.TrimRight(line[:i], " \t"), true
}

// typeCommentName returns <name> of a slicer ";TYPE:<name>" comment.
func typeCommentName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, typeCommentPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, typeCommentPrefix)), true
}

// dropComments reduces line to its bare command. Comment-only and blank
// lines reduce to nothing.
func dropComments(line string) (string, bool) {
	stripped, _ := stripComment(line)
	stripped = strings.TrimSpace(strings.ReplaceAll(stripped, "\t", ""))
	return stripped, stripped != ""
}

func isCommentOnly(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), ";")
}

func isDisplayMessage(line string) bool {
	if len(line) < len(displayMessageCmd) || !strings.EqualFold(line[:len(displayMessageCmd)], displayMessageCmd) {
		return false
	}
	rest := line[len(displayMessageCmd):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == ';'
}

// countLayers counts layer boundary markers, ignoring the copy of the
// before-layer-change template found in the configuration dump.
func countLayers(lines []string, layerRx *regexp.Regexp) int {
	n := 0
	for _, line := range lines {
		if strings.Contains(line, "before_layer_gcode") {
			continue
		}
		if layerRx.MatchString(line) {
			n++
		}
	}
	return n
}

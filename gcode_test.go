package main

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLayerHeight(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"G1 Z0.2 F600", "Z0.2", true},
		{"G1 Z.2 F7200 ; move to next layer (0)", "Z.2", true},
		{"g1 z-1.5 f300", "z-1.5", true},
		{"G1 Z0.2", "", false},
		{"G1 X1 Z0.2 F600", "", false},
		{"G0 Z0.2 F600", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := matchLayerHeight(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFuseFirstPoint(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"G1 X10 Y20 F1200 ; move to first perimeter point", "G1 X10 Y20 F1200 Z2.4 ; move to first perimeter point", true},
		{"G1 X92.706 Y96.155 ; move to first skirt point", "G1 X92.706 Y96.155 Z2.4 ; move to first skirt point", true},
		{"G1 X1 Y2 F1200; move to first support material interface point", "G1 X1 Y2 F1200 Z2.4 ; move to first support material interface point", true},
		{"G1 X10 Y20 F1200 ; move to next layer", "", false},
		{"G1 X10 F1200 ; move to first perimeter point", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := fuseFirstPoint(tt.line, "Z2.4")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchMoveZ(t *testing.T) {
	z, ok, err := matchMoveZ("G1 X1 Y2 Z0.45 F600 ; lift")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 0.45, z, 1e-9)

	_, ok, err = matchMoveZ("G1 X1 Y2 ; Z9")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = matchMoveZ("M104 S200")
	assert.False(t, ok)
}

func TestStripCommentIsIdempotent(t *testing.T) {
	for _, line := range []string{
		"G1 X1 Y0 ; skirt",
		"G1 X1 Y0\t;\tinfill ; twice",
		"G1 X1 Y0",
		"M104 S200 ; set temperature",
	} {
		once, _ := stripComment(line)
		twice, changed := stripComment(once)
		assert.Equal(t, once, twice)
		assert.False(t, changed)
	}
	got, ok := stripComment("G1 X1 Y0 ; skirt")
	assert.True(t, ok)
	assert.Equal(t, "G1 X1 Y0", got)
}

func TestTypeCommentName(t *testing.T) {
	name, ok := typeCommentName("  ;TYPE: External perimeter ")
	assert.True(t, ok)
	assert.Equal(t, "External perimeter", name)

	_, ok = typeCommentName("; TYPE:Custom")
	assert.False(t, ok)
}

func TestDropComments(t *testing.T) {
	got, ok := dropComments("\tG1 X1\tY0 ; skirt")
	assert.True(t, ok)
	assert.Equal(t, "G1 X1Y0", got)

	_, ok = dropComments("  ; wipe")
	assert.False(t, ok)
	_, ok = dropComments("")
	assert.False(t, ok)
}

func TestIsDisplayMessage(t *testing.T) {
	assert.True(t, isDisplayMessage("M117 Layer 3"))
	assert.True(t, isDisplayMessage("m117"))
	assert.True(t, isDisplayMessage("M117;"))
	assert.False(t, isDisplayMessage("M1170"))
	assert.False(t, isDisplayMessage(" M117 indented"))
	assert.False(t, isDisplayMessage("; M117"))
}

func TestCountLayers(t *testing.T) {
	rx := regexp.MustCompile(`(?i);layer:\s*\d+`)
	lines := []string{
		";layer:0;",
		"G1 X1",
		";LAYER: 1;",
		";layer:2;",
		"; before_layer_gcode = ;layer:3;",
		"; before_layer_gcode = ;layer:[layer_num];",
	}
	assert.Equal(t, 3, countLayers(lines, rx))
}

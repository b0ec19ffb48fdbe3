package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var annotatedTwoLayers = []string{
	"M83",
	";layer:0;",
	";segType:Skirt",
	"G1 X0 Y0",
	"G1 X10 Y0 E1",
	"G1 X10 Y10 E1",
	";segType:Infill",
	"G1 X0 Y10 E0.5",
	"G1 X0 Y0 E-1",
	";layer:1;",
	"G1 X5 Y5 E1",
}

func TestLayerToolpaths(t *testing.T) {
	p, err := BuiltinProfile("prusa")
	require.NoError(t, err)

	moves := layerToolpaths(annotatedTwoLayers, p, 0)
	assert.Equal(t, []ExtrusionMove{
		{Seg: SegSkirt, X0: 0, Y0: 0, X1: 10, Y1: 0},
		{Seg: SegSkirt, X0: 10, Y0: 0, X1: 10, Y1: 10},
		{Seg: SegInfill, X0: 10, Y0: 10, X1: 0, Y1: 10},
	}, moves)

	moves = layerToolpaths(annotatedTwoLayers, p, 1)
	assert.Equal(t, []ExtrusionMove{{Seg: SegInfill, X0: 0, Y0: 0, X1: 5, Y1: 5}}, moves)

	assert.Empty(t, layerToolpaths(annotatedTwoLayers, p, 2))
}

func TestLayerToolpathsAbsoluteExtrusion(t *testing.T) {
	p, err := BuiltinProfile("prusa")
	require.NoError(t, err)

	moves := layerToolpaths([]string{
		"M82",
		";layer:0;",
		";segType:Perimeter",
		"G1 X1 Y0 E1",
		"G1 X2 Y0 E1",
		"G92 E0",
		"G1 X3 Y0 E0.5",
	}, p, 0)
	assert.Equal(t, []ExtrusionMove{
		{Seg: SegPerimeter, X0: 0, Y0: 0, X1: 1, Y1: 0},
		{Seg: SegPerimeter, X0: 2, Y0: 0, X1: 3, Y1: 0},
	}, moves)
}

func TestRenderSVG(t *testing.T) {
	p, err := BuiltinProfile("prusa")
	require.NoError(t, err)

	svg := renderSVG(layerToolpaths(annotatedTwoLayers, p, 0))
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Equal(t, 2, strings.Count(svg, "<path"))
	assert.Contains(t, svg, `class="Skirt"`)
	assert.Contains(t, svg, segmentColors[SegInfill])
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
}

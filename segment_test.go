package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentTypeText(t *testing.T) {
	var s SegmentType
	assert.NoError(t, s.UnmarshalText([]byte(" softsupport ")))
	assert.Equal(t, SegSoftSupport, s)
	assert.Equal(t, ";segType:SoftSupport", s.Marker())
	assert.Equal(t, ";TYPE:SOFTSUPPORT", s.Label())

	assert.Error(t, s.UnmarshalText([]byte("None")))
	assert.Error(t, s.UnmarshalText([]byte("Raft")))
	assert.Equal(t, SegSoftSupport, s, "failed parse must not change the value")

	b, err := SegInfill.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "Infill", string(b))
	assert.Equal(t, "SegmentType(42)", SegmentType(42).String())
}

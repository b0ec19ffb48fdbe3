package main

import (
	"fmt"
	"strings"
)

// SegmentType is the toolpath category announced by a ;segType: marker.
type SegmentType int

const (
	SegNone SegmentType = iota
	SegSkirt
	SegInfill
	SegSupport
	SegSoftSupport
	SegPerimeter
)

var segmentNames = [...]string{
	SegNone:        "None",
	SegSkirt:       "Skirt",
	SegInfill:      "Infill",
	SegSupport:     "Support",
	SegSoftSupport: "SoftSupport",
	SegPerimeter:   "Perimeter",
}

func (s SegmentType) String() string {
	if s < 0 || int(s) >= len(segmentNames) {
		return fmt.Sprintf("SegmentType(%d)", int(s))
	}
	return segmentNames[s]
}

// Marker is the machine readable line placed before the first line of a segment.
func (s SegmentType) Marker() string {
	return ";segType:" + s.String()
}

// Label is the viewer facing line that optionally follows the marker.
func (s SegmentType) Label() string {
	return ";TYPE:" + strings.ToUpper(s.String())
}

func (s *SegmentType) UnmarshalText(text []byte) error {
	name := strings.TrimSpace(string(text))
	for i, n := range segmentNames {
		if SegmentType(i) != SegNone && strings.EqualFold(n, name) {
			*s = SegmentType(i)
			return nil
		}
	}
	return fmt.Errorf("invalid segment type: \"%s\", expected one of Skirt, Infill, Support, SoftSupport, Perimeter", text)
}

func (s SegmentType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

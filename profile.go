package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// SuffixRule maps a trailing inline comment to a segment type.
type SuffixRule struct {
	Suffix string      `yaml:"suffix"`
	Type   SegmentType `yaml:"type"`
}

// Profile holds the marker strings a slicer writes into its G-code.
type Profile struct {
	Name          string                 `yaml:"name"`
	BodyStart     string                 `yaml:"body_start"`
	HeaderRestart string                 `yaml:"header_restart"`
	FooterStart   string                 `yaml:"footer_start"`
	FooterEnd     string                 `yaml:"footer_end"`
	LayerMarker   string                 `yaml:"layer_marker"`
	Suffixes      []SuffixRule           `yaml:"suffixes"`
	TypeComments  map[string]SegmentType `yaml:"type_comments"`
	TypeRenames   map[string]string      `yaml:"type_renames"`

	layerRx *regexp.Regexp
}

var defaultSuffixes = []SuffixRule{
	{"; skirt", SegSkirt},
	{"; brim", SegSkirt},
	{"; infill", SegInfill},
	{"; support material interface", SegSoftSupport},
	{"; support material", SegSupport},
	{"; perimeter", SegPerimeter},
}

var builtinProfiles = map[string]Profile{
	"prusa": {
		Name:          "prusa",
		BodyStart:     ";layer:0;",
		HeaderRestart: "START Header",
		FooterStart:   "START Footer",
		FooterEnd:     "END Footer",
		LayerMarker:   `(?i);layer:\s*\d+`,
		Suffixes:      defaultSuffixes,
		TypeComments: map[string]SegmentType{
			"Skirt/Brim":                 SegSkirt,
			"Support material interface": SegSoftSupport,
			"Support material":           SegSupport,
			"Internal infill":            SegInfill,
			"Solid infill":               SegInfill,
			"Top solid infill":           SegInfill,
			"Bridge infill":              SegInfill,
			"Gap fill":                   SegPerimeter,
			"External perimeter":         SegPerimeter,
			"Overhang perimeter":         SegPerimeter,
			"Perimeter":                  SegPerimeter,
		},
	},
	"orca": {
		Name:          "orca",
		BodyStart:     ";layer:0;",
		HeaderRestart: "START Header",
		FooterStart:   "START Footer",
		FooterEnd:     "END Footer",
		LayerMarker:   `(?i);layer:\s*\d+`,
		Suffixes:      defaultSuffixes,
		TypeComments: map[string]SegmentType{
			"Skirt":                 SegSkirt,
			"Brim":                  SegSkirt,
			"Support interface":     SegSoftSupport,
			"Support":               SegSupport,
			"Sparse infill":         SegInfill,
			"Internal solid infill": SegInfill,
			"Bottom surface":        SegInfill,
			"Top surface":           SegInfill,
			"Bridge":                SegInfill,
			"Gap infill":            SegPerimeter,
			"Outer wall":            SegPerimeter,
			"Inner wall":            SegPerimeter,
			"Overhang wall":         SegPerimeter,
		},
		TypeRenames: map[string]string{
			"Skirt":                 "Skirt/Brim",
			"Brim":                  "Skirt/Brim",
			"Support interface":     "Support material interface",
			"Support":               "Support material",
			"Sparse infill":         "Internal infill",
			"Internal solid infill": "Solid infill",
			"Bridge":                "Bridge infill",
			"Overhang wall":         "Overhang perimeter",
			"Bottom surface":        "Solid infill",
			"Top surface":           "Top solid infill",
			"Outer wall":            "External perimeter",
			"Inner wall":            "Perimeter",
		},
	},
}

// BuiltinProfile returns a copy of a named built-in profile.
func BuiltinProfile(name string) (*Profile, error) {
	p, ok := builtinProfiles[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown slicer profile \"%s\"", name)
	}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadProfile reads a YAML profile; fields it leaves empty are taken from base.
func LoadProfile(path string, base *Profile) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if base != nil {
		p.inherit(base)
	}
	if err := p.compile(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return &p, nil
}

func (p *Profile) inherit(base *Profile) {
	if p.Name == "" {
		p.Name = base.Name
	}
	if p.BodyStart == "" {
		p.BodyStart = base.BodyStart
	}
	if p.HeaderRestart == "" {
		p.HeaderRestart = base.HeaderRestart
	}
	if p.FooterStart == "" {
		p.FooterStart = base.FooterStart
	}
	if p.FooterEnd == "" {
		p.FooterEnd = base.FooterEnd
	}
	if p.LayerMarker == "" {
		p.LayerMarker = base.LayerMarker
	}
	if len(p.Suffixes) == 0 {
		p.Suffixes = base.Suffixes
	}
	if len(p.TypeComments) == 0 {
		p.TypeComments = base.TypeComments
	}
	if len(p.TypeRenames) == 0 {
		p.TypeRenames = base.TypeRenames
	}
}

func (p *Profile) compile() error {
	if p.BodyStart == "" {
		return fmt.Errorf("body_start must not be empty")
	}
	if p.LayerMarker == "" {
		return fmt.Errorf("layer_marker must not be empty")
	}
	for _, r := range p.Suffixes {
		if r.Suffix == "" || r.Type == SegNone {
			return fmt.Errorf("invalid suffix rule %q -> %s", r.Suffix, r.Type)
		}
	}
	rx, err := regexp.Compile(p.LayerMarker)
	if err != nil {
		return fmt.Errorf("layer_marker: %w", err)
	}
	p.layerRx = rx
	return nil
}

// suffixType classifies a line by its trailing comment. The longest matching
// suffix wins, so "; support material interface" never reads as support.
func (p *Profile) suffixType(line string) (SegmentType, bool) {
	trimmed := strings.TrimSpace(line)
	best, bestLen := SegNone, 0
	for _, r := range p.Suffixes {
		if len(r.Suffix) > bestLen && strings.HasSuffix(trimmed, r.Suffix) {
			best, bestLen = r.Type, len(r.Suffix)
		}
	}
	return best, bestLen > 0
}

// typeCommentType maps the name of a slicer ";TYPE:<name>" comment.
func (p *Profile) typeCommentType(name string) (SegmentType, bool) {
	for k, t := range p.TypeComments {
		if strings.EqualFold(k, name) {
			return t, true
		}
	}
	return SegNone, false
}

// renameType returns the PrusaSlicer spelling of a ";TYPE:" name, or name
// itself when the profile has no rename for it.
func (p *Profile) renameType(name string) string {
	for k, v := range p.TypeRenames {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return name
}

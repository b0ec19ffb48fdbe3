package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	settingsFileName = "spp_settings.xml"
	defaultDigits    = 6
	maxDigits        = 12
)

// Settings is the export counter persisted between runs.
type Settings struct {
	Counter int
	Digits  int

	path string
}

// DefaultSettingsPath places the settings file next to the executable.
func DefaultSettingsPath() string {
	exe, err := os.Executable()
	if err != nil {
		return settingsFileName
	}
	return filepath.Join(filepath.Dir(exe), settingsFileName)
}

// LoadSettings reads path, returning defaults when it does not exist yet.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{Digits: defaultDigits, path: path}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			VPrintf("no settings at %s, using defaults\n", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	if counter := doc.FindElement("./settings/counter"); counter != nil {
		if value, err := strconv.Atoi(counter.SelectAttrValue("value", "0")); err != nil {
			return nil, fmt.Errorf("failed to parse counter value %s: %w", counter.FullTag(), err)
		} else {
			s.Counter = value
		}
		if digits, err := strconv.Atoi(counter.SelectAttrValue("digits", strconv.Itoa(defaultDigits))); err != nil {
			return nil, fmt.Errorf("failed to parse counter digits %s: %w", counter.FullTag(), err)
		} else {
			s.Digits = digits
		}
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) validate() error {
	if s.Digits < 1 || s.Digits > maxDigits {
		return fmt.Errorf("counter digits must be in the range 1-%d, got %d", maxDigits, s.Digits)
	}
	if s.Counter < 0 || s.Counter > s.limit() {
		return fmt.Errorf("counter %d does not fit in %d digits", s.Counter, s.Digits)
	}
	return nil
}

// limit is the largest counter value that fits in Digits.
func (s *Settings) limit() int {
	n := 1
	for range s.Digits {
		n *= 10
	}
	return n - 1
}

// Set stores value, rejecting counters that do not fit the configured width.
func (s *Settings) Set(value int) error {
	prev := s.Counter
	s.Counter = value
	if err := s.validate(); err != nil {
		s.Counter = prev
		return err
	}
	return nil
}

func (s *Settings) SetDigits(digits int) error {
	prev := s.Digits
	s.Digits = digits
	if err := s.validate(); err != nil {
		s.Digits = prev
		return err
	}
	return nil
}

// Advance moves the counter one step, wrapping at either end of its range.
func (s *Settings) Advance(reverse bool) {
	if reverse {
		s.Counter--
		if s.Counter < 0 {
			s.Counter = s.limit()
		}
		return
	}
	s.Counter++
	if s.Counter >= s.limit() {
		s.Counter = 0
	}
}

// Prefix is the zero padded counter used in output file names.
func (s *Settings) Prefix() string {
	v := strconv.Itoa(s.Counter)
	if len(v) >= s.Digits {
		return v
	}
	return strings.Repeat("0", s.Digits-len(v)) + v
}

func (s *Settings) Save() error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("settings")
	counter := root.CreateElement("counter")
	counter.CreateAttr("value", strconv.Itoa(s.Counter))
	counter.CreateAttr("digits", strconv.Itoa(s.Digits))
	doc.Indent(2)

	if err := doc.WriteToFile(s.path); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", s.path, err)
	}
	return nil
}

package main

import "fmt"

type CounterCmd struct {
	Reset  bool `help:"Reset the export counter to zero." xor:"value"`
	Set    *int `placeholder:"N" help:"Set the export counter to N." xor:"value"`
	Digits int  `placeholder:"N" help:"Zero padding width of the counter."`
}

// Run prints the export counter. A reset or set exits with exitCounterOnly so
// slicer wrappers can tell that no G-code was processed.
func (cmd *CounterCmd) Run(g *Globals) error {
	s, err := LoadSettings(g.Settings)
	if err != nil {
		return err
	}

	changed := false
	if cmd.Digits != 0 {
		if err := s.SetDigits(cmd.Digits); err != nil {
			return &UsageError{Msg: err.Error()}
		}
		changed = true
	}

	counterChanged := false
	switch {
	case cmd.Reset:
		if err := s.Set(0); err != nil {
			return err
		}
		counterChanged = true
	case cmd.Set != nil:
		if *cmd.Set < 0 {
			return &UsageError{Msg: fmt.Sprintf("--set must not be negative, got %d", *cmd.Set)}
		}
		if err := s.Set(*cmd.Set); err != nil {
			return &UsageError{Msg: err.Error()}
		}
		counterChanged = true
	}

	if changed || counterChanged {
		if err := s.Save(); err != nil {
			return err
		}
		VPrintf("settings written to %s\n", g.Settings)
	}
	Printf("Export counter: %s\n", s.Prefix())
	if counterChanged {
		return errCounterOnly
	}
	return nil
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), settingsFileName))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Counter)
	assert.Equal(t, defaultDigits, s.Digits)
	assert.Equal(t, "000000", s.Prefix())
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	s, err := LoadSettings(path)
	require.NoError(t, err)
	require.NoError(t, s.SetDigits(4))
	require.NoError(t, s.Set(123))
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<counter value="123" digits="4"/>`)

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 123, loaded.Counter)
	assert.Equal(t, 4, loaded.Digits)
	assert.Equal(t, "0123", loaded.Prefix())
}

func TestSettingsRejectsBadValues(t *testing.T) {
	s := &Settings{Digits: 2}
	assert.Error(t, s.Set(100))
	assert.Error(t, s.Set(-1))
	assert.Equal(t, 0, s.Counter)
	assert.Error(t, s.SetDigits(0))
	assert.Equal(t, 2, s.Digits)

	require.NoError(t, s.Set(99))
	assert.Error(t, s.SetDigits(1))

	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(`<settings><counter value="abc" digits="6"/></settings>`), 0644))
	_, err := LoadSettings(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`<settings><counter value="1000" digits="3"/></settings>`), 0644))
	_, err = LoadSettings(path)
	assert.Error(t, err)
}

func TestSettingsAdvanceWraps(t *testing.T) {
	s := &Settings{Digits: 2, Counter: 97}
	s.Advance(false)
	assert.Equal(t, 98, s.Counter)
	s.Advance(false)
	assert.Equal(t, 0, s.Counter)

	s.Advance(true)
	assert.Equal(t, 99, s.Counter)
	s.Advance(true)
	assert.Equal(t, 98, s.Counter)
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const pollInterval = 250 * time.Millisecond

// waitForFile polls until path exists or the wait budget runs out. Slicers
// call post-processors while they may still be flushing the export.
func waitForFile(ctx context.Context, path string, wait time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if _, err := os.Stat(path); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		select {
		case <-ctx.Done():
			return &InputNotFoundError{Path: path, Waited: wait.String(), Summary: dirSummary(path)}
		case <-ticker.C:
		}
	}
}

// dirSummary lists the G-code files next to path for the not-found warning.
func dirSummary(path string) string {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Sprintf("directory %s unreadable: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".gcode") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("no .gcode files in %s", dir)
	}
	return fmt.Sprintf("%d .gcode files in %s: %s", len(names), dir, strings.Join(names, ", "))
}

// lineFormat records how the input terminated its lines so the output can
// match it.
type lineFormat struct {
	CRLF         bool
	FinalNewline bool
}

func (f lineFormat) eol() string {
	if f.CRLF {
		return "\r\n"
	}
	return "\n"
}

// readLines loads the whole file and reports its line format.
func readLines(path string) ([]string, lineFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lineFormat{}, err
	}
	defer f.Close()

	var lines []string
	var format lineFormat
	r := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			format.FinalNewline = strings.HasSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\n")
			if strings.HasSuffix(line, "\r") {
				format.CRLF = true
				line = strings.TrimSuffix(line, "\r")
			}
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, format, nil
		}
		if err != nil {
			return nil, lineFormat{}, err
		}
	}
}

// nameDecoration controls how the output file name is derived.
type nameDecoration struct {
	CounterPrefix string
	Timestamp     time.Time
}

// decoratePath prefixes the counter and suffixes the timestamp on the base name.
func decoratePath(path string, d nameDecoration) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if d.CounterPrefix != "" {
		stem = d.CounterPrefix + "_" + stem
	}
	if !d.Timestamp.IsZero() {
		stem = stem + "_" + d.Timestamp.Format("20060102-150405")
	}
	return filepath.Join(dir, stem+ext)
}

// writeLines serializes lines to a temp file beside dest, then removes dest
// and moves the temp file into place. A crash between those two steps can
// leave dest missing.
func writeLines(dest string, lines []string, format lineFormat) error {
	eol := format.eol()

	dir := filepath.Dir(dest)
	tmpPath := filepath.Join(dir, ".spp-"+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return &WriteError{Step: "create temp file", Path: tmpPath, Err: err}
	}

	bw := bufio.NewWriterSize(tmp, 64*1024)
	for i, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return abortTemp(tmp, tmpPath, err)
		}
		if i == len(lines)-1 && !format.FinalNewline {
			break
		}
		if _, err := bw.WriteString(eol); err != nil {
			return abortTemp(tmp, tmpPath, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return abortTemp(tmp, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return abortTemp(tmp, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &WriteError{Step: "write temp file", Path: tmpPath, Err: err}
	}

	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_ = os.Remove(tmpPath)
		return &WriteError{Step: "remove", Path: dest, Err: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return &WriteError{Step: "move temp file to", Path: dest, Err: err}
	}
	return nil
}

func abortTemp(tmp *os.File, tmpPath string, err error) error {
	_ = tmp.Close()
	_ = os.Remove(tmpPath)
	return &WriteError{Step: "write temp file", Path: tmpPath, Err: err}
}

// PrusaSlicer passes the final export name in this variable and renames its
// temp file to the contents of <src>.output_name when that file exists.
const outputNameEnv = "SLIC3R_PP_OUTPUT_NAME"

// writeOutputName tells the slicer which decorated name to export under.
func writeOutputName(src, outputName string, d nameDecoration) error {
	name := decoratePath(filepath.Base(outputName), d)
	if err := os.WriteFile(src+".output_name", []byte(name), 0o644); err != nil {
		return &WriteError{Step: "write", Path: src + ".output_name", Err: err}
	}
	return nil
}

// copyFile is used for the optional backup of the input.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

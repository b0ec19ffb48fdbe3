package main

import (
	"fmt"
	"strings"
)

// ProgressFunc observes how many input lines have been processed.
type ProgressFunc func(done, total int)

// progressCycle is drawn at the head of the bar and advances on every redraw.
var progressCycle = []byte{'.', ':', '+', '#'}

// layerLabeler turns M117 lines into "Layer i/N" messages or an LCD bar.
type layerLabeler struct {
	total    int
	current  int
	bar      bool
	width    int
	fillChar byte

	lastFilled int
	phase      int
}

func newLayerLabeler(total int, bar bool, width int, fillChar byte) *layerLabeler {
	if width < 1 {
		width = 17
	}
	if fillChar == 0 {
		fillChar = 'O'
	}
	return &layerLabeler{total: total, bar: bar, width: width, fillChar: fillChar, lastFilled: -1}
}

// next returns the replacement for the next display message line.
func (l *layerLabeler) next() string {
	l.current++
	if l.bar {
		return displayMessageCmd + " [" + l.drawBar() + "]"
	}
	if l.total <= 0 {
		return fmt.Sprintf("%s Layer %d", displayMessageCmd, l.current)
	}
	return fmt.Sprintf("%s Layer %d/%d", displayMessageCmd, l.current, l.total)
}

func (l *layerLabeler) drawBar() string {
	filled := 0
	if l.total > 0 {
		filled = l.width * l.current / l.total
	}
	filled = min(filled, l.width)

	if filled != l.lastFilled {
		l.lastFilled = filled
		l.phase = 0
	} else {
		l.phase++
	}

	if filled == l.width {
		return strings.Repeat(string(l.fillChar), l.width)
	}
	sb := strings.Builder{}
	sb.WriteString(strings.Repeat(string(l.fillChar), filled))
	sb.WriteByte(progressCycle[l.phase%len(progressCycle)])
	sb.WriteString(strings.Repeat(" ", l.width-filled-1))
	return sb.String()
}

// percentReporter calls fn once per integer percent of total.
type percentReporter struct {
	fn    ProgressFunc
	total int
	last  int
}

func (r *percentReporter) report(done int) {
	if r.fn == nil || r.total == 0 {
		return
	}
	pct := done * 100 / r.total
	if pct != r.last {
		r.last = pct
		r.fn(done, r.total)
	}
}

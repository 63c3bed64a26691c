package app

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2/data/binding"
)

// lineBuffer keeps the most recent lines of text and mirrors them into a
// string binding. It doubles as the io.Writer behind the on-screen log.
type lineBuffer struct {
	mu      sync.Mutex
	lines   []string
	limit   int
	binding binding.String
}

func newLineBuffer(limit int) *lineBuffer {
	return &lineBuffer{binding: binding.NewString(), limit: limit}
}

// Write splits p into lines and appends the non-empty ones.
func (l *lineBuffer) Write(p []byte) (int, error) {
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			continue
		}
		l.Append(part)
	}
	return len(p), nil
}

// Append adds a single line, dropping the oldest when over the limit.
func (l *lineBuffer) Append(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, line)
	if l.limit > 0 && len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
	joined := strings.Join(l.lines, "\n")
	l.mu.Unlock()
	_ = l.binding.Set(joined)
}

// Lines returns a copy of the buffered lines.
func (l *lineBuffer) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Text returns the buffered lines joined by newlines.
func (l *lineBuffer) Text() string {
	return strings.Join(l.Lines(), "\n")
}

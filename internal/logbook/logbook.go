// Package logbook persists simulation activity to a plain text file.
// It doubles as an event sink so every named simulation event lands in
// the log alongside free-form entries.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jdtull-uark/teams-core/internal/events"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook persists simulation progress to a simple text file.
type Logbook struct {
	path string
	mu   sync.Mutex
}

// New creates a logbook that writes to the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Logbook{path: path}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single entry to the logbook.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s %-5s %s\n",
		time.Now().UTC().Format(time.RFC3339),
		string(level),
		strings.TrimSpace(message),
	)
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Emit records a simulation event, making Logbook an events.Sink.
func (l *Logbook) Emit(ev events.Event) {
	l.Append(LevelInfo, FormatEvent(ev))
}

// FormatEvent renders an event as one log line, with the details keys
// in stable order:
//
//	[Tick 042] Agent 3 - TASK_STARTED | task_id: abc
//
// Model-level events carry MODEL in place of an agent id.
func FormatEvent(ev events.Event) string {
	actor := "MODEL"
	if ev.Agent != events.ModelAgent {
		actor = fmt.Sprintf("Agent %d", ev.Agent)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[Tick %03d] %s - %s", ev.Tick, actor, strings.ToUpper(ev.Name))
	if len(ev.Details) > 0 {
		keys := make([]string, 0, len(ev.Details))
		for k := range ev.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %v", k, ev.Details[k])
		}
		b.WriteString(" | ")
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}

// Tail returns up to maxLines of the most recent log entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) == 0 {
		return nil
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// Printf appends an informational entry. It satisfies the small
// logger interfaces elsewhere in the module.
func (l *Logbook) Printf(format string, args ...any) {
	l.Info(format, args...)
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

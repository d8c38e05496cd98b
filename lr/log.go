package lr

import (
	"fmt"
	"strings"
)

// LogLevel classifies entries of a Log.
type LogLevel int

// Levels for log entries. Logging an error does not stop processing.
const (
	Notice LogLevel = iota
	Warning
	Error
)

func (l LogLevel) String() string {
	switch l {
	case Notice:
		return "notice"
	case Warning:
		return "warning"
	}
	return "error"
}

// LogEntry is a single diagnostic message.
type LogEntry struct {
	Level   LogLevel
	Source  string // component or precept name
	Message string
}

func (e LogEntry) String() string {
	return fmt.Sprintf("%s [%s] %s", e.Level, e.Source, e.Message)
}

// Log is an append-only collection of diagnostics. It survives a complete
// grammar compilation run and may be inspected afterwards. A nil *Log
// discards entries (but still traces them).
type Log struct {
	entries []LogEntry
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) add(level LogLevel, source, format string, args ...interface{}) {
	e := LogEntry{Level: level, Source: source, Message: fmt.Sprintf(format, args...)}
	switch level {
	case Notice:
		tracer().Debugf("%s: %s", source, e.Message)
	case Warning:
		tracer().Infof("%s: %s", source, e.Message)
	default:
		tracer().Errorf("%s: %s", source, e.Message)
	}
	if l != nil {
		l.entries = append(l.entries, e)
	}
}

// Noticef logs an informational message.
func (l *Log) Noticef(source, format string, args ...interface{}) {
	l.add(Notice, source, format, args...)
}

// Warningf logs a warning.
func (l *Log) Warningf(source, format string, args ...interface{}) {
	l.add(Warning, source, format, args...)
}

// Errorf logs an error.
func (l *Log) Errorf(source, format string, args ...interface{}) {
	l.add(Error, source, format, args...)
}

// Entries returns all entries in order of logging.
func (l *Log) Entries() []LogEntry {
	if l == nil {
		return nil
	}
	return append([]LogEntry(nil), l.entries...)
}

// Contains is true if an entry with the given level, source and message
// has been logged.
func (l *Log) Contains(level LogLevel, source, message string) bool {
	if l == nil {
		return false
	}
	for _, e := range l.entries {
		if e.Level == level && e.Source == source && e.Message == message {
			return true
		}
	}
	return false
}

// Count returns the number of entries with a given level.
func (l *Log) Count(level LogLevel) int {
	if l == nil {
		return 0
	}
	n := 0
	for _, e := range l.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

func (l *Log) String() string {
	if l == nil {
		return ""
	}
	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

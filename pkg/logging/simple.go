package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

// Colored level labels using fatih/color
var (
	infoColor  = color.New(color.FgGreen).SprintFunc()
	debugColor = color.New(color.FgCyan).SprintFunc()
	traceColor = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
)

// SimpleLogSink implements the logr.LogSink interface for human-readable output.
type SimpleLogSink struct {
	writer       io.Writer
	minVerbosity int
	name         string
	keyValues    []interface{}
	mutex        sync.Mutex
	callDepth    int
	useColor     bool
}

// NewSimpleLogSink creates a new SimpleLogSink.
// If writer is nil, it defaults to os.Stdout.
// minVerbosity sets the minimum verbosity level to log.
func NewSimpleLogSink(writer io.Writer, minVerbosity int, useColor bool) *SimpleLogSink {
	if writer == nil {
		writer = os.Stdout
	}
	return &SimpleLogSink{
		writer:       writer,
		minVerbosity: minVerbosity,
		name:         "",
		keyValues:    []interface{}{},
		useColor:     useColor,
	}
}

// Init initializes the logger with runtime information.
func (s *SimpleLogSink) Init(info logr.RuntimeInfo) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.callDepth = info.CallDepth
}

// Enabled determines if the logger is enabled for the given verbosity level.
func (s *SimpleLogSink) Enabled(level int) bool {
	return level <= s.minVerbosity
}

// Info logs a non-error message with key-value pairs.
func (s *SimpleLogSink) Info(level int, msg string, keysAndValues ...interface{}) {
	if !s.Enabled(level) {
		return
	}
	s.log(false, level, msg, keysAndValues...)
}

// Error logs an error message with key-value pairs.
func (s *SimpleLogSink) Error(err error, msg string, keysAndValues ...interface{}) {
	allKeysAndValues := append(keysAndValues, "error", err)
	s.log(true, 0, msg, allKeysAndValues...)
}

// WithValues returns a sink whose records carry the additional key-value pairs.
func (s *SimpleLogSink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	clone := s.clone()
	clone.keyValues = append(clone.keyValues, keysAndValues...)
	return clone
}

// WithName returns a sink whose records are prefixed with the (dotted) name.
func (s *SimpleLogSink) WithName(name string) logr.LogSink {
	clone := s.clone()
	if clone.name != "" {
		clone.name = fmt.Sprintf("%s.%s", clone.name, name)
	} else {
		clone.name = name
	}
	return clone
}

// V returns a sink for the given verbosity level. Level filtering happens in
// Enabled, so the sink itself is an unmodified copy.
func (s *SimpleLogSink) V(level int) logr.LogSink {
	return s.clone()
}

func (s *SimpleLogSink) clone() *SimpleLogSink {
	return &SimpleLogSink{
		writer:       s.writer,
		minVerbosity: s.minVerbosity,
		name:         s.name,
		keyValues:    append([]interface{}{}, s.keyValues...),
		callDepth:    s.callDepth,
		useColor:     s.useColor,
	}
}

func (s *SimpleLogSink) label(isError bool, level int) string {
	if isError {
		if s.useColor {
			return errorColor("[ERROR]")
		}
		return "[ERROR]"
	}
	plain := map[int]string{0: "[INFO]", 1: "[DEBUG]", 2: "[TRACE]"}[level]
	if plain == "" {
		return fmt.Sprintf("[LEVEL %d]", level)
	}
	if !s.useColor {
		return plain
	}
	switch level {
	case 0:
		return infoColor(plain)
	case 1:
		return debugColor(plain)
	default:
		return traceColor(plain)
	}
}

// log handles the formatting and writing of log messages.
func (s *SimpleLogSink) log(isError bool, level int, msg string, keysAndValues ...interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	fullMsg := msg
	if s.name != "" {
		fullMsg = fmt.Sprintf("[%s] %s", s.name, msg)
	}
	fmt.Fprintf(s.writer, "%s %s\n", s.label(isError, level), fullMsg)

	// Accumulated WithValues pairs first, then the per-record pairs,
	// indented by two spaces (no color).
	pairs := append(append([]interface{}{}, s.keyValues...), keysAndValues...)
	for i := 0; i < len(pairs)-1; i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			key = fmt.Sprintf("key%d", i/2)
		}
		fmt.Fprintf(s.writer, "  %s: %v\n", key, pairs[i+1])
	}
}

// NewSimpleLogger creates a new logr.Logger using SimpleLogSink.
// If writer is nil, it defaults to os.Stdout.
// minVerbosity sets the minimum verbosity level to log.
func NewSimpleLogger(writer io.Writer, minVerbosity int, useColor bool) logr.Logger {
	sink := NewSimpleLogSink(writer, minVerbosity, useColor)
	return logr.New(sink)
}

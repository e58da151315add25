package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/go-logr/logr"
)

// Test that if writer is nil, the logger defaults to os.Stdout.
func TestDefaultWriter(t *testing.T) {
	s := NewSimpleLogSink(nil, 1, true)
	if s.writer != os.Stdout {
		t.Errorf("expected default writer to be os.Stdout, got %v", s.writer)
	}
}

// Test that the Enabled method returns true only for levels less than or equal to minVerbosity.
func TestEnabled(t *testing.T) {
	s := NewSimpleLogSink(&bytes.Buffer{}, 1, true)
	if !s.Enabled(0) {
		t.Error("expected level 0 to be enabled")
	}
	if !s.Enabled(1) {
		t.Error("expected level 1 to be enabled")
	}
	if s.Enabled(2) {
		t.Error("expected level 2 to be disabled")
	}
}

// Test that Info() writes a properly formatted log message.
func TestInfoLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, 1, true)
	s.Info(0, "Hello world", "key", "value")
	output := buf.String()

	if !strings.Contains(output, "Hello world") {
		t.Errorf("expected output to contain 'Hello world', got %q", output)
	}
	if !strings.Contains(output, "key: value") {
		t.Errorf("expected output to contain key-value pair, got %q", output)
	}
	if !strings.Contains(output, "[INFO]") {
		t.Errorf("expected output to contain [INFO] label, got %q", output)
	}
}

// Test that a log at a level higher than minVerbosity is not written.
func TestInfoNotLoggedWhenDisabled(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, 0, true) // Only level 0 enabled.
	s.Info(1, "This should not be logged", "foo", "bar")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

// Test that with colors disabled the label is plain text.
func TestPlainLabelWithoutColor(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, 2, false)
	s.Info(2, "quiet")
	output := buf.String()

	if !strings.HasPrefix(output, "[TRACE] quiet") {
		t.Errorf("expected plain [TRACE] prefix, got %q", output)
	}
	if strings.Contains(output, "\x1b[") {
		t.Errorf("expected no escape sequences, got %q", output)
	}
}

// Test that Error() writes an error log with the proper label and key/value output.
func TestErrorLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, 0, true)
	err := errors.New("sample error")
	s.Error(err, "An error occurred", "context", "testing")
	output := buf.String()

	if !strings.Contains(output, "[ERROR]") {
		t.Errorf("expected output to contain [ERROR] label, got %q", output)
	}
	if !strings.Contains(output, "An error occurred") {
		t.Errorf("expected error message, got %q", output)
	}
	if !strings.Contains(output, "context: testing") {
		t.Errorf("expected context key-value, got %q", output)
	}
	if !strings.Contains(output, "error: sample error") {
		t.Errorf("expected error key-value, got %q", output)
	}
}

// Test that WithName returns a new logger whose messages include the name prefix.
func TestWithName(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, 1, true)
	named := s.WithName("MyLogger")
	named.Info(0, "Test message")
	output := buf.String()

	if !strings.Contains(output, "[MyLogger]") {
		t.Errorf("expected output to contain [MyLogger], got %q", output)
	}
}

// Test that chaining WithName produces a combined name.
func TestChainedWithName(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, 1, true)
	chain := s.WithName("A").WithName("B").(*SimpleLogSink)
	chain.Info(0, "Chained name")
	output := buf.String()

	if !strings.Contains(output, "[A.B]") {
		t.Errorf("expected output to contain [A.B], got %q", output)
	}
}

// Test that WithValues pairs are carried into every subsequent record.
func TestWithValuesCarryThrough(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, 1, false)
	sink := s.WithValues("sector", 16)
	sink.Info(0, "first")
	sink.Info(0, "second", "extra", true)
	output := buf.String()

	if strings.Count(output, "sector: 16") != 2 {
		t.Errorf("expected sector pair on both records, got %q", output)
	}
	if !strings.Contains(output, "extra: true") {
		t.Errorf("expected per-record pair, got %q", output)
	}
}

// Test that derived sinks keep the color setting of their parent.
func TestCloneKeepsColorSetting(t *testing.T) {
	s := NewSimpleLogSink(&bytes.Buffer{}, 1, true)
	derived := s.WithName("x").(*SimpleLogSink)
	if !derived.useColor {
		t.Error("expected derived sink to keep useColor")
	}
	leveled := s.V(1).(*SimpleLogSink)
	if !leveled.useColor {
		t.Error("expected V() sink to keep useColor")
	}
}

// Test that if a key in the key-value list isn't a string, it is replaced with a formatted key.
func TestNonStringKey(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, 1, true)
	s.Info(0, "Non-string key", 123, "value")
	output := buf.String()

	if !strings.Contains(output, "key0: value") {
		t.Errorf("expected output to contain 'key0: value', got %q", output)
	}
}

// Test that Init records the runtime call depth.
func TestInitSetsCallDepth(t *testing.T) {
	s := NewSimpleLogSink(&bytes.Buffer{}, 1, true)
	s.Init(logr.RuntimeInfo{CallDepth: 5})
	if s.callDepth != 5 {
		t.Errorf("expected callDepth 5, got %d", s.callDepth)
	}
}

// Test that NewSimpleLogger returns a logr.Logger that writes output as expected.
func TestNewSimpleLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewSimpleLogger(buf, 1, true)
	logger.Info("Logger info", "testKey", "testValue")
	output := buf.String()

	if !strings.Contains(output, "Logger info") {
		t.Errorf("expected logger info message, got %q", output)
	}
}

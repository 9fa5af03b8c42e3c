package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  "debug",
		Pretty: false,
		Output: &buf,
	})

	// Test that trace messages are NOT logged at debug level.
	logger.Trace().Msg("trace message")
	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")

	output := buf.String()

	if strings.Contains(output, "trace message") {
		t.Error("Expected trace message to NOT be logged at debug level")
	}
	if !strings.Contains(output, "debug message") {
		t.Error("Expected debug message to be logged at debug level")
	}
	if !strings.Contains(output, "info message") {
		t.Error("Expected info message to be logged at debug level")
	}
}

func TestNew_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  "info",
		Pretty: false,
		Output: &buf,
	})

	// Test that debug messages are NOT logged at info level.
	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")

	output := buf.String()

	if strings.Contains(output, "debug message") {
		t.Error("Expected debug message to NOT be logged at info level")
	}
	if !strings.Contains(output, "info message") {
		t.Error("Expected info message to be logged at info level")
	}
}

func TestNewWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithComponent(Config{
		Level:  "info",
		Pretty: false,
		Output: &buf,
	}, "test-component")

	logger.Info().Msg("test message")

	output := buf.String()

	if !strings.Contains(output, "test-component") {
		t.Error("Expected log to contain component name 'test-component'")
	}
	if !strings.Contains(output, "test message") {
		t.Error("Expected log to contain message 'test message'")
	}
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  "info",
		Pretty: true,
		Output: &buf,
	})

	logger.Info().Msg("test message")

	output := buf.String()

	// Pretty output should contain the message (specific formatting may vary).
	if !strings.Contains(output, "test message") {
		t.Error("Expected pretty output to contain message 'test message'")
	}
}

func TestNew_DefaultOutput(t *testing.T) {
	// Test that logger doesn't panic when Output is nil.
	logger := New(Config{
		Level:  "info",
		Pretty: false,
		Output: nil, // Should default to os.Stderr.
	})

	// This should not panic.
	logger.Info().Msg("test message")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("Expected default level 'info', got '%s'", cfg.Level)
	}
	if !cfg.Pretty {
		t.Error("Expected default pretty to be true")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  "invalid",
		Pretty: false,
		Output: &buf,
	})

	// Invalid level should default to info.
	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")

	output := buf.String()

	// Debug should not be logged (defaults to info level).
	if strings.Contains(output, "debug message") {
		t.Error("Expected debug message to NOT be logged with invalid level (should default to info)")
	}
	if !strings.Contains(output, "info message") {
		t.Error("Expected info message to be logged with invalid level (should default to info)")
	}
}

func TestNew_LevelHierarchy(t *testing.T) {
	// Test the complete level hierarchy.
	levels := []struct {
		level    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}

	for _, tc := range levels {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{
				Level:  tc.level,
				Pretty: false,
				Output: &buf,
			})

			// Check the level is correctly set.
			if logger.GetLevel() != tc.expected {
				t.Errorf("Expected level %v, got %v", tc.expected, logger.GetLevel())
			}
		})
	}
}

func TestNewFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "logs", "session.log")

	logger, closer, err := NewFile(Config{Level: "debug"}, path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	logger.Info().Str("component", "chat").Msg("session started")

	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "session started") {
		t.Errorf("Expected log file to contain message, got %q", output)
	}
	if strings.Contains(output, "\x1b[") {
		t.Errorf("Expected plain JSON output in file, got ANSI sequences: %q", output)
	}
}

func TestNewFile_AppendsAcrossSessions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "session.log")

	for _, msg := range []string{"first session", "second session"} {
		logger, closer, err := NewFile(Config{Level: "info"}, path)
		if err != nil {
			t.Fatalf("NewFile failed: %v", err)
		}
		logger.Info().Msg(msg)
		if err := closer.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "first session") || !strings.Contains(output, "second session") {
		t.Errorf("Expected both sessions in log file, got %q", output)
	}
}

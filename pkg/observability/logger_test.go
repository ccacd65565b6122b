package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// logLine decodes one slog JSON record for assertions.
func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}
	return entry
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	t.Run("debug not logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Debug("debug message")
		if buf.Len() > 0 {
			t.Error("Debug message should not be logged at Info level")
		}
	})

	t.Run("info logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Info("info message")
		if buf.Len() == 0 {
			t.Fatal("Info message should be logged at Info level")
		}

		entry := logLine(t, &buf)
		if entry["level"] != "INFO" {
			t.Errorf("Expected level INFO, got %v", entry["level"])
		}
		if entry["msg"] != "info message" {
			t.Errorf("Expected message 'info message', got %v", entry["msg"])
		}
	})

	t.Run("warn logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Warn("warn message")
		if buf.Len() == 0 {
			t.Error("Warn message should be logged at Info level")
		}
	})

	t.Run("error logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Error("error message")
		if buf.Len() == 0 {
			t.Error("Error message should be logged at Info level")
		}
	})
}

func TestLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithField("outcome", "redirect").Info("message")

	entry := logLine(t, &buf)
	if entry["outcome"] != "redirect" {
		t.Errorf("Expected field 'outcome' to be 'redirect', got %v", entry["outcome"])
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithFields(map[string]interface{}{
		"path":   "/docs/index.html",
		"status": 302,
	}).Info("message")

	entry := logLine(t, &buf)
	if entry["path"] != "/docs/index.html" {
		t.Errorf("Expected field 'path', got %v", entry["path"])
	}
	if entry["status"] != float64(302) {
		t.Errorf("Expected field 'status' to be 302, got %v", entry["status"])
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithError(errors.New("boom")).Error("failed")

	entry := logLine(t, &buf)
	if entry["error"] != "boom" {
		t.Errorf("Expected error field 'boom', got %v", entry["error"])
	}

	// nil error adds nothing
	buf.Reset()
	logger.WithError(nil).Info("clean")
	entry = logLine(t, &buf)
	if _, ok := entry["error"]; ok {
		t.Error("nil error should not add an error field")
	}
}

func TestLogger_Formatted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DebugLevel, &buf)

	logger.Debugf("value %d", 42)
	entry := logLine(t, &buf)
	if entry["msg"] != "value 42" {
		t.Errorf("Expected formatted message, got %v", entry["msg"])
	}

	buf.Reset()
	logger.Warnf("key %q", "missing")
	entry = logLine(t, &buf)
	if entry["msg"] != `key "missing"` {
		t.Errorf("Expected formatted message, got %v", entry["msg"])
	}
}

func TestContext_RequestIDAndEmail(t *testing.T) {
	ctx := context.Background()

	if GetRequestID(ctx) != "" {
		t.Error("Expected empty request ID on fresh context")
	}

	ctx = WithRequestID(ctx, "req-123")
	ctx = WithEmail(ctx, "user@example.com")

	if GetRequestID(ctx) != "req-123" {
		t.Errorf("Expected request ID 'req-123', got %q", GetRequestID(ctx))
	}
	if GetEmail(ctx) != "user@example.com" {
		t.Errorf("Expected email, got %q", GetEmail(ctx))
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithEmail(ctx, "user@example.com")

	FromContext(ctx).Info("decision")

	entry := logLine(t, &buf)
	if entry["request_id"] != "req-123" {
		t.Errorf("Expected request_id 'req-123', got %v", entry["request_id"])
	}
	if entry["email"] != "user@example.com" {
		t.Errorf("Expected email field, got %v", entry["email"])
	}
}

func TestFromContext_NoLogger(t *testing.T) {
	// Falls back to a default logger rather than panicking.
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("FromContext returned nil")
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"ERROR", ErrorLevel},
		{"", InfoLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.name); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

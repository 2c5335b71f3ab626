package infra

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLoggerToProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "production")
	logger.Debug().Msg("hidden")
	logger.Info().Str("task_id", "t1").Msg("job queued")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", line)
	}
	if entry["task_id"] != "t1" || entry["message"] != "job queued" || entry["time"] == nil {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNewLoggerToDevelopmentUsesConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "development")
	logger.Debug().Msg("visible")
	out := buf.String()
	if !strings.Contains(out, "visible") || strings.HasPrefix(out, "{") {
		t.Fatalf("output = %q", out)
	}
}

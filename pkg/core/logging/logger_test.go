package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.in, tt.expected, got)
		}
	}
}

func TestNew_JSONOutputWithServiceFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Environment: "production", ServiceName: "tenderflow", Version: "1.0.0", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("workspace", "acme").Msg("loaded")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "tenderflow" || entry["version"] != "1.0.0" {
		t.Errorf("Expected service fields, got %v", entry)
	}
	if entry["workspace"] != "acme" || entry["message"] != "loaded" {
		t.Errorf("Unexpected entry %v", entry)
	}
}

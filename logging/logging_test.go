package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewDefaultsToInfoOnBadLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "not-a-level")
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info", log.GetLevel())
	}
}

func TestNewEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")
	log.WithFields(EventFields("kraken_collector", "ChecksumMismatch", 42, "relay=signal")).Warn("validation rejected")

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected JSON output, got error: %v (%s)", err, buf.String())
	}
	if decoded["error_kind"] != "ChecksumMismatch" {
		t.Fatalf("error_kind = %v, want ChecksumMismatch", decoded["error_kind"])
	}
	if decoded["sequence"].(float64) != 42 {
		t.Fatalf("sequence = %v, want 42", decoded["sequence"])
	}
}

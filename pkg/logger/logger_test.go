package logger

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// reset tears down the singleton so the next Init call rebuilds it.
func reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
}

func TestInit_WritesJSONWithService(t *testing.T) {
	reset()
	defer reset()

	var buf bytes.Buffer
	log := Init(Options{Level: "info", Output: &buf, Service: "dog-collars"})
	log.Info().Str("dog_id", "d-1").Msg("dog created")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "dog-collars" {
		t.Errorf("expected service field, got %v", entry["service"])
	}
	if entry["message"] != "dog created" || entry["dog_id"] != "d-1" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["caller"]; ok {
		t.Error("caller should be omitted at info level")
	}
}

func TestInit_FiltersBelowLevel(t *testing.T) {
	reset()
	defer reset()

	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Output: &buf})
	log.Info().Msg("hidden")

	if buf.Len() != 0 {
		t.Fatalf("info entry should be filtered, got %q", buf.String())
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	reset()
	defer reset()

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	log := Init(Options{Output: &second})
	log.Info().Msg("hello")

	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("expected output on the first writer only")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

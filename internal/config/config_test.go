package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GORAIL_LOG_LEVEL", "GORAIL_LOG_FORMAT", "GORAIL_TOLERANCE", "GORAIL_HISTORY_STEP", "GORAIL_TWIST_TOLERANCE"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.LogLevel != slog.LevelInfo || c.LogFormat != "text" {
		t.Errorf("logging defaults: %v %q", c.LogLevel, c.LogFormat)
	}
	if c.Tolerance != 1e-6 || c.HistoryStep != 0.1 || c.TwistTolerance != 0.7 {
		t.Errorf("numeric defaults: %+v", c)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GORAIL_LOG_LEVEL", "WARNING")
	t.Setenv("GORAIL_LOG_FORMAT", "JSON")
	t.Setenv("GORAIL_TOLERANCE", "1e-4")
	t.Setenv("GORAIL_HISTORY_STEP", "not a number")
	t.Setenv("GORAIL_TWIST_TOLERANCE", "-1")
	c := Load()
	if c.LogLevel != slog.LevelWarn || c.LogFormat != "json" {
		t.Errorf("logging: %v %q", c.LogLevel, c.LogFormat)
	}
	if c.Tolerance != 1e-4 {
		t.Errorf("tolerance: got %v", c.Tolerance)
	}
	if c.HistoryStep != 0.1 || c.TwistTolerance != 0.7 {
		t.Errorf("invalid values should keep the defaults: %v %v", c.HistoryStep, c.TwistTolerance)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := &Config{LogLevel: slog.LevelWarn, LogFormat: "json"}
	log := c.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("wheel skipped", "wheel", 3)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not json: %v", err)
	}
	if rec["msg"] != "wheel skipped" || rec["wheel"] != float64(3) {
		t.Errorf("record: %v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug", slog.LevelInfo) != slog.LevelDebug || ParseLevel("bogus", slog.LevelError) != slog.LevelError {
		t.Error("unexpected level mapping")
	}
}

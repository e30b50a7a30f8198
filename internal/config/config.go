// Package config reads the runtime settings of gorail from the environment.
package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the settings shared by every command
type Config struct {
	LogLevel  slog.Level
	LogFormat string // text or json

	// Tolerance is the geometric tolerance used to merge polyline vertices
	Tolerance float64
	// HistoryStep is the default time step of movable load histories (s)
	HistoryStep float64
	// TwistTolerance is the wheel to node distance accepted by the twist
	// measure, as a fraction of the average element side
	TwistTolerance float64
}

// Load returns the configuration from the GORAIL_* variables
func Load() *Config {
	return &Config{
		LogLevel:       getLogLevelEnv("GORAIL_LOG_LEVEL", slog.LevelInfo),
		LogFormat:      strings.ToLower(getEnv("GORAIL_LOG_FORMAT", "text")),
		Tolerance:      getFloatEnv("GORAIL_TOLERANCE", 1e-6),
		HistoryStep:    getFloatEnv("GORAIL_HISTORY_STEP", 0.1),
		TwistTolerance: getFloatEnv("GORAIL_TWIST_TOLERANCE", 0.7),
	}
}

// NewLogger builds a logger writing to w in the configured format
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog level, falling back to def
func ParseLevel(v string, def slog.Level) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}

func getLogLevelEnv(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return ParseLevel(v, defaultVal)
}

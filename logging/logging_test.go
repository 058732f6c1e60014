package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stops2control/aeolus/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw   string
		level zerolog.Level
		ok    bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARNING ", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		level, ok := logging.ParseLevel(tt.raw)
		if level != tt.level || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; expected %v, %v", tt.raw, level, ok, tt.level, tt.ok)
		}
	}
}

func TestNewHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, logging.Config{Level: "warn", NoColor: true})
	log.Info().Msg("hidden")
	log.Warn().Str("dir", "Aeolus").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "dir=Aeolus") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "debug")
	t.Setenv(logging.EnvLogNoColor, "true")
	cfg := logging.Config{Level: "error"}
	logging.ApplyEnv(&cfg)
	if cfg.Level != "debug" || !cfg.NoColor {
		t.Fatalf("environment not applied: %+v", cfg)
	}
	t.Setenv(logging.EnvLogLevel, "nonsense")
	cfg = logging.Config{Level: "error"}
	logging.ApplyEnv(&cfg)
	if cfg.Level != "error" {
		t.Fatalf("invalid level should be ignored, got %q", cfg.Level)
	}
}

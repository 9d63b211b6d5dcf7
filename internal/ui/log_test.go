package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		level   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		err := SetLevel(tt.level)
		if (err != nil) != tt.wantErr {
			t.Fatalf("SetLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
		}
		if got := zerolog.GlobalLevel(); got != tt.want {
			t.Errorf("SetLevel(%q) level = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLoggerIsShared(t *testing.T) {
	if Logger() != Logger() {
		t.Fatal("Logger returned different instances")
	}

	saved := logger
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Cleanup(func() { logger = saved })

	var buf bytes.Buffer
	logger = NewLogger(&buf)
	Logger().Info().Str("graph", "shapes").Msg("Loaded")
	Logger().Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, "Loaded") || !strings.Contains(out, "graph=") || !strings.Contains(out, "shapes") {
		t.Errorf("unexpected log output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %q", out)
	}
}

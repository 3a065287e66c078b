package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Paper-Trading-Backend/internal/config"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("writes JSON at the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		if err := setup(config.LogConfig{Level: "warn"}, &buf); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		log.Info().Msg("hidden")
		log.Warn().Str("date", "2026-02-10").Msg("shown")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Expected a single JSON line, got %q: %v", buf.String(), err)
		}
		if entry["message"] != "shown" || entry["date"] != "2026-02-10" {
			t.Errorf("Unexpected entry %v", entry)
		}
	})

	t.Run("empty level defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		if err := setup(config.LogConfig{}, &buf); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if zerolog.GlobalLevel() != zerolog.InfoLevel {
			t.Errorf("Expected info level, got %s", zerolog.GlobalLevel())
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		if err := setup(config.LogConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
			t.Error("Expected error for unknown level")
		}
	})
}

package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-inventory-dashboard/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("json outside dev", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup(&buf, "PROD", "warn")
		logger.Info().Msg("dropped")
		logger.Warn().Str("route", "/products/").Msg("kept")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "kept", line["message"])
		require.Equal(t, "/products/", line["route"])
		require.Equal(t, "warn", line["level"])
	})

	t.Run("console in dev", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup(&buf, "dev", "debug")
		logger.Debug().Msg("hello")
		require.Contains(t, buf.String(), "hello")
		require.NotContains(t, buf.String(), `"message"`)
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		logger := logging.Setup(&bytes.Buffer{}, "PROD", "loud")
		require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

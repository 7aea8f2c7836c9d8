package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecai/factu-core/pkg/logger"
)

func TestNew_ProduccionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	log.Named("auth").Warn().Str("email", "a@b.com").Msg("token próximo a expirar")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "auth", entry["component"])
	assert.Equal(t, "a@b.com", entry["email"])
}

func TestNew_NivelFiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("no debe aparecer")
	assert.Empty(t, buf.String())
}

func TestNew_AppYRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", App: "factu-core", Output: &buf})

	log.Named("http").WithRequestID("req-1").Info().Msg("request")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "factu-core", entry["app"])
	assert.Equal(t, "http", entry["component"])
	assert.Equal(t, "req-1", entry["request_id"])
}

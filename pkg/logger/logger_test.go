package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "costeo-api", Out: &buf})

	l.Component("costing").Info().Str("recipe_id", "r-1").Msg("receta costeada")
	l.Debug().Msg("no se escribe")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "costeo-api", entry["service"])
	assert.Equal(t, "costing", entry["component"])
	assert.Equal(t, "r-1", entry["recipe_id"])
	assert.Equal(t, "receta costeada", entry["message"])
}

func TestNew_AplicaNivel(t *testing.T) {
	l := New(Config{Env: "production", Level: "error", Out: &bytes.Buffer{}})
	assert.Equal(t, zerolog.ErrorLevel, l.Level())
}

func TestNewNop_NoEscribe(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, NewNop().Component("costing").Level())
}

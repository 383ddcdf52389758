package typedis_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/AndrewDonelson/typedis"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := typedis.ZerologLogger(zerolog.New(&buf))

	log.Warn("enqueue failed", "tx", "abc", "command", "SET", "error", errors.New("WRONGTYPE"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "enqueue failed", got["message"])
	assert.Equal(t, "abc", got["tx"])
	assert.Equal(t, "SET", got["command"])
	assert.Equal(t, "WRONGTYPE", got["error"])
}

func TestZerologLogger_LevelFiltered(t *testing.T) {
	var buf bytes.Buffer
	log := typedis.ZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))
	log.Debug("hidden", "k", 1)
	assert.Zero(t, buf.Len())

	log.Info("shown", "dangling")
	assert.Contains(t, buf.String(), `"extra":"dangling"`)
}

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandlerProduction(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newBaseHandler(&buf, false))

	log.Debug("hidden")
	log.Info("goal created", "goal_id", "g1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "goal created", entry["msg"])
	assert.Equal(t, "g1", entry["goal_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestBaseHandlerDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newBaseHandler(&buf, true))

	log.Debug("visible", "user_id", "u1")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "user_id=u1")
}

func TestFanoutWritesToAll(t *testing.T) {
	var a, b bytes.Buffer
	log := slog.New(fanout([]slog.Handler{newBaseHandler(&a, true), newBaseHandler(&b, false)}))

	log.Info("hello")

	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, b.String(), "hello")
}

func TestInitSetsDefault(t *testing.T) {
	flush := Init(false, "")
	defer flush()

	require.NotNil(t, Log)
	assert.Same(t, Log, slog.Default())
}

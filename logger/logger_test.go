package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	payload := make(map[string]any)
	require.NoError(t, json.Unmarshal([]byte(line), &payload))
	return payload
}

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Writer: &buf, Level: "debug"})
	require.NoError(t, err)

	log.With("session", "abc").Info("color selected", "color", "pink")

	payload := decodeLine(t, &buf)
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "color selected", payload["message"])
	assert.Equal(t, "abc", payload["session"])
	assert.Equal(t, "pink", payload["color"])
}

func TestLoggerErrorIncludesErr(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	log.Error(errors.New("boom"), "export failed")

	payload := decodeLine(t, &buf)
	assert.Equal(t, "error", payload["level"])
	assert.Equal(t, "boom", payload["error"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Writer: &buf, Level: "warn"})
	require.NoError(t, err)

	log.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	assert.NotPanics(t, func() {
		log.Info("ignored")
		log.Error(errors.New("x"), "ignored")
		assert.Nil(t, log.With("k", "v"))
	})
}

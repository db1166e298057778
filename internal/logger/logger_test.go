package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")
	l.Debug("hidden")
	l.Info("booking created", "booking_id", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking created", entry["msg"])
	assert.Equal(t, float64(42), entry["booking_id"])
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	scoped := New(&buf, "debug", "text").With("request_id", "abc")
	ctx := NewContext(context.Background(), scoped)

	InfoContext(ctx, "hello")
	assert.Contains(t, buf.String(), "request_id=abc")

	assert.Equal(t, Get(), FromContext(context.Background()))
}

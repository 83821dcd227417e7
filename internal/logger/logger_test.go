package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := globalLogger
	globalLogger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { globalLogger = prev })
	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestWithLogger_AddsFields(t *testing.T) {
	buf := withBuffer(t)
	ctx := WithLogger(context.Background(), map[string]interface{}{"report": "employees"})

	InfoLog(ctx, "generated %d sheets", 2)

	entry := decode(t, buf)
	assert.Equal(t, "employees", entry["report"])
	assert.Equal(t, "generated 2 sheets", entry["message"])
	assert.Equal(t, "info", entry["level"])

	assert.Equal(t, "employees", decodeCtx(t, ctx)["report"])
}

// decodeCtx checks the logger stored in ctx is what zerolog.Ctx hands out.
func decodeCtx(t *testing.T, ctx context.Context) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	l := zerolog.Ctx(ctx).Output(&buf)
	l.Info().Msg("probe")
	return decode(t, &buf)
}

func TestGetLogger_FallsBackToGlobal(t *testing.T) {
	buf := withBuffer(t)
	WarnLog(context.Background(), "no logger in %s", "context")

	entry := decode(t, buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "no logger in context", entry["message"])
}

func TestErrorLog_StructuredError(t *testing.T) {
	buf := withBuffer(t)
	ErrorLog(context.Background(), "export failed for %s: %v", "employees", errors.New("boom"))

	entry := decode(t, buf)
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "export failed for employees: boom", entry["message"])
}

func TestErrorLog_PlainArgs(t *testing.T) {
	buf := withBuffer(t)
	ErrorLog(context.Background(), "code %d", 500)

	entry := decode(t, buf)
	assert.Equal(t, "code 500", entry["message"])
	assert.NotContains(t, entry, "error")
}

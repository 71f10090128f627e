package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultsToInfoAndConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", "")

	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
	assert.Equal(t, zerolog.InfoLevel, zlog.Logger.GetLevel())

	l.Info().Msg("hello")
	out := strings.TrimSpace(buf.String())
	assert.Contains(t, out, "hello")
	assert.False(t, strings.HasPrefix(out, "{"), "expected console output, got %q", out)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "not-a-level", "console")

	l.Debug().Msg("debug-should-not-print")
	l.Info().Msg("info-should-print")

	assert.NotContains(t, buf.String(), "debug-should-not-print")
	assert.Contains(t, buf.String(), "info-should-print")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", "json")

	l.Debug().Str("k", "v").Msg("hello")
	out := strings.TrimSpace(buf.String())

	assert.True(t, strings.HasPrefix(out, "{") && strings.HasSuffix(out, "}"), "expected json line, got %q", out)
	assert.Contains(t, out, `"message":"hello"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestNew_BecomesContextFallback(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json")

	zerolog.Ctx(context.Background()).Info().Msg("from-ctx")
	assert.Contains(t, buf.String(), "from-ctx")
}

package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)

	// Chaining directly on the returned logger must work.
	Ctx(ctx).Info().Str("k", "v").Msg("hello")

	assert.Contains(t, buf.String(), `"k":"v"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	l := Ctx(context.Background())
	assert.NotNil(t, l)
	l.Debug().Msg("fallback")

	L().Debug().Msg("global")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("unknown"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}

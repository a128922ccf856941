package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("ShouldReturnAttachedLogger", func(t *testing.T) {
		log := NewLogger(DefaultConfig())
		ctx := ContextWithLogger(context.Background(), log)
		assert.Same(t, log, FromContext(ctx))
	})
	t.Run("ShouldFallBackToDefault", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
		assert.NotNil(t, FromContext(nil)) //nolint:staticcheck
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("ShouldWriteStructuredFields", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: InfoLevel, Output: &buf})
		log.Info("chunking completed", "chunks", 4)
		out := buf.String()
		assert.Contains(t, out, "chunking completed")
		assert.Contains(t, out, "chunks")
	})
	t.Run("ShouldRespectLevel", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: WarnLevel, Output: &buf})
		log.Info("suppressed")
		assert.Empty(t, buf.String())
		log.Warn("emitted")
		assert.Contains(t, buf.String(), "emitted")
	})
	t.Run("ShouldCarryWithFields", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: InfoLevel, Output: &buf}).With("component", "chunking")
		require.NotNil(t, log)
		log.Info("ready")
		assert.Contains(t, buf.String(), "component")
	})
	t.Run("ShouldDefaultNilConfig", func(t *testing.T) {
		assert.NotNil(t, NewLogger(nil))
	})
}

func TestLogLevel(t *testing.T) {
	t.Run("ShouldStringify", func(t *testing.T) {
		assert.Equal(t, "debug", DebugLevel.String())
	})
}

package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodingNameForModel(t *testing.T) {
	t.Run("ShouldMapKnownModels", func(t *testing.T) {
		assert.Equal(t, "o200k_base", encodingNameForModel("gpt-4o"))
		assert.Equal(t, "cl100k_base", encodingNameForModel("gpt-4"))
		assert.Equal(t, "p50k_base", encodingNameForModel("davinci"))
	})
	t.Run("ShouldFallBackToDefaultEncoding", func(t *testing.T) {
		assert.Equal(t, DefaultEncoding, encodingNameForModel("some-unknown-model"))
	})
}

func TestHandle(t *testing.T) {
	t.Run("ShouldReportEncoding", func(t *testing.T) {
		handle := NewHandle("cl100k_base", nil)
		assert.Equal(t, "cl100k_base", handle.Encoding())
	})
	t.Run("ShouldCountZeroWithoutEncoder", func(t *testing.T) {
		handle := NewHandle("cl100k_base", nil)
		assert.Equal(t, 0, handle.CountTokens("hello world"))
	})
}

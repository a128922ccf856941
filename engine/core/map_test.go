package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMap(t *testing.T) {
	t.Run("ShouldCopyTopLevelEntries", func(t *testing.T) {
		src := map[string]int{"a": 1, "b": 2}
		clone := CloneMap(src)
		clone["a"] = 10
		assert.Equal(t, 1, src["a"])
		assert.Equal(t, 2, clone["b"])
	})
	t.Run("ShouldReturnNilForNilInput", func(t *testing.T) {
		assert.Nil(t, CloneMap[string, int](nil))
	})
}

func TestDeepCopyMap(t *testing.T) {
	t.Run("ShouldNotShareNestedState", func(t *testing.T) {
		src := map[string]any{
			"text":  "alpha",
			"items": []any{map[string]any{"label": "text"}},
		}
		copied := DeepCopyMap(src)
		require.NotNil(t, copied)

		nested, ok := copied["items"].([]any)[0].(map[string]any)
		require.True(t, ok)
		nested["label"] = "mutated"

		original := src["items"].([]any)[0].(map[string]any)
		assert.Equal(t, "text", original["label"])
	})
	t.Run("ShouldReturnNilForNilInput", func(t *testing.T) {
		assert.Nil(t, DeepCopyMap(nil))
	})
}

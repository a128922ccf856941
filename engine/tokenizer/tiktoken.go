package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when no model identifier is configured.
const DefaultEncoding = "cl100k_base"

// Handle wraps a loaded tiktoken encoding. Immutable once built, safe for
// concurrent use, and remains valid after eviction from the cache.
type Handle struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// Load resolves a model identifier through tiktoken, first as an encoding
// name and then as a model name. Unknown identifiers fail; the caller decides
// whether to degrade to the default encoding.
func Load(modelID string) (*Handle, error) {
	tke, err := tiktoken.GetEncoding(modelID)
	if err == nil {
		return &Handle{encoding: modelID, tke: tke}, nil
	}
	tke, err = tiktoken.EncodingForModel(modelID)
	if err != nil {
		return nil, fmt.Errorf("no encoding for model %q: %w", modelID, err)
	}
	return &Handle{encoding: encodingNameForModel(modelID), tke: tke}, nil
}

// NewHandle wraps an already-initialized tiktoken encoding, for callers that
// load encoders themselves.
func NewHandle(encoding string, tke *tiktoken.Tiktoken) *Handle {
	return &Handle{encoding: encoding, tke: tke}
}

// Default returns a handle for DefaultEncoding.
func Default() (*Handle, error) {
	return Load(DefaultEncoding)
}

// Encoding returns the name of the encoding backing this handle.
func (h *Handle) Encoding() string {
	return h.encoding
}

// CountTokens returns the number of tokens in the given text.
func (h *Handle) CountTokens(text string) int {
	if h == nil || h.tke == nil {
		return 0
	}
	return len(h.tke.Encode(text, nil, nil))
}

// modelToEncoding maps common model names to their encoding names; tiktoken
// resolves the encoder itself but does not expose the name it picked.
var modelToEncoding = map[string]string{
	"gpt-4o":           "o200k_base",
	"gpt-4o-mini":      "o200k_base",
	"gpt-4":            "cl100k_base",
	"gpt-4-turbo":      "cl100k_base",
	"gpt-3.5-turbo":    "cl100k_base",
	"text-davinci-003": "p50k_base",
	"text-davinci-002": "p50k_base",
	"davinci":          "p50k_base",
}

func encodingNameForModel(model string) string {
	if encoding, ok := modelToEncoding[model]; ok {
		return encoding
	}
	return DefaultEncoding
}

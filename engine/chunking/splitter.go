package chunking

import (
	"context"
	"strings"

	"github.com/Q-Agency/vlm-docling/engine/document"
)

// TokenCounter sizes text for the splitter. *tokenizer.Handle satisfies it.
type TokenCounter interface {
	CountTokens(text string) int
	Encoding() string
}

// RawChunk is one splitter-produced chunk boundary prior to final assembly:
// the constituent items, the heading trail from outermost to innermost, and
// the chunk body text.
type RawChunk struct {
	Items    []*document.Item
	Headings []string
	Text     string
}

// Contextualize returns the chunk text prefixed with its heading trail, the
// form fed to embedding models when no table serialization applies.
func (c *RawChunk) Contextualize() string {
	if len(c.Headings) == 0 {
		return c.Text
	}
	return strings.Join(c.Headings, "\n") + "\n" + c.Text
}

// Splitter yields an ordered, finite sequence of raw chunks for a document.
// The sequence is consumed once, in order.
type Splitter interface {
	Split(ctx context.Context, doc *document.Document) ([]RawChunk, error)
}

// SplitterFactory builds the splitter for one chunking call. A nil counter
// means the splitter's default tokenizer.
type SplitterFactory func(maxTokens int, mergePeers bool, counter TokenCounter) (Splitter, error)

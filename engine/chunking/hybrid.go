package chunking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/Q-Agency/vlm-docling/engine/document"
	"github.com/Q-Agency/vlm-docling/engine/tokenizer"
)

// HybridSplitter walks the document body in reading order, producing
// heading-aware chunks bounded by a token budget. Section headers feed the
// heading trail; every other item with content opens a chunk. Undersized
// chunks sharing a heading trail are merged when peer merging is enabled, and
// oversized text chunks are re-split on token boundaries. Tables are atomic
// and never re-split.
type HybridSplitter struct {
	maxTokens  int
	mergePeers bool
	counter    TokenCounter
}

type headingEntry struct {
	level int
	title string
}

// NewHybridSplitter builds the default splitter. A nil counter falls back to
// the default tokenizer encoding.
func NewHybridSplitter(maxTokens int, mergePeers bool, counter TokenCounter) (*HybridSplitter, error) {
	if maxTokens <= 0 {
		return nil, errors.New("chunking: max tokens must be greater than zero")
	}
	if counter == nil {
		handle, err := tokenizer.Default()
		if err != nil {
			return nil, fmt.Errorf("chunking: load default tokenizer: %w", err)
		}
		counter = handle
	}
	return &HybridSplitter{maxTokens: maxTokens, mergePeers: mergePeers, counter: counter}, nil
}

// Split produces the ordered chunk sequence for one document.
func (s *HybridSplitter) Split(ctx context.Context, doc *document.Document) ([]RawChunk, error) {
	if doc == nil {
		return nil, errors.New("chunking: document is required")
	}
	chunks := s.collect(doc)
	if s.mergePeers {
		chunks = s.merge(chunks)
	}
	return s.splitOversized(ctx, chunks)
}

func (s *HybridSplitter) collect(doc *document.Document) []RawChunk {
	var trail []headingEntry
	chunks := make([]RawChunk, 0, len(doc.Items))
	for _, item := range doc.Items {
		if item == nil {
			continue
		}
		if item.Label == document.LabelSectionHeader {
			trail = pushHeading(trail, item.Level, item.Text)
			continue
		}
		text := itemText(item)
		if text == "" && !tableWithStructure(item) {
			continue
		}
		chunks = append(chunks, RawChunk{
			Items:    []*document.Item{item},
			Headings: headingTitles(trail),
			Text:     text,
		})
	}
	return chunks
}

// merge folds successive chunks with identical heading trails while the
// combined text stays within the token budget. Table chunks stay separate so
// serialization never swallows neighboring text.
func (s *HybridSplitter) merge(chunks []RawChunk) []RawChunk {
	if len(chunks) < 2 {
		return chunks
	}
	merged := make([]RawChunk, 0, len(chunks))
	current := chunks[0]
	for _, next := range chunks[1:] {
		combined := current.Text + "\n" + next.Text
		if equalHeadings(current.Headings, next.Headings) &&
			!containsTable(current.Items) && !containsTable(next.Items) &&
			s.counter.CountTokens(combined) <= s.maxTokens {
			current.Text = combined
			current.Items = append(current.Items, next.Items...)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

func (s *HybridSplitter) splitOversized(_ context.Context, chunks []RawChunk) ([]RawChunk, error) {
	out := make([]RawChunk, 0, len(chunks))
	for i := range chunks {
		chunk := chunks[i]
		if s.counter.CountTokens(chunk.Text) <= s.maxTokens || containsTable(chunk.Items) {
			out = append(out, chunk)
			continue
		}
		splitter := textsplitter.NewTokenSplitter(
			textsplitter.WithChunkSize(s.maxTokens),
			textsplitter.WithChunkOverlap(0),
			textsplitter.WithEncodingName(s.counter.Encoding()),
		)
		segments, err := splitter.SplitText(chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("chunking: split oversized chunk: %w", err)
		}
		for _, segment := range segments {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			out = append(out, RawChunk{Items: chunk.Items, Headings: chunk.Headings, Text: segment})
		}
	}
	return out, nil
}

func pushHeading(trail []headingEntry, level int, title string) []headingEntry {
	if level <= 0 {
		level = 1
	}
	for len(trail) > 0 && trail[len(trail)-1].level >= level {
		trail = trail[:len(trail)-1]
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return trail
	}
	return append(trail, headingEntry{level: level, title: title})
}

func headingTitles(trail []headingEntry) []string {
	if len(trail) == 0 {
		return nil
	}
	titles := make([]string, len(trail))
	for i, entry := range trail {
		titles[i] = entry.title
	}
	return titles
}

func itemText(item *document.Item) string {
	if item.Label == document.LabelTable {
		if item.Data != nil && strings.TrimSpace(item.Data.Markdown) != "" {
			return strings.TrimSpace(item.Data.Markdown)
		}
		if text := strings.TrimSpace(item.Text); text != "" {
			return text
		}
		return item.Caption()
	}
	return strings.TrimSpace(item.Text)
}

func equalHeadings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// tableWithStructure reports whether the item is a table whose only
// representation is its structured grid or a registry reference. Such tables
// still occupy a chunk so resolution gets a chance at the structure.
func tableWithStructure(item *document.Item) bool {
	if item.Label != document.LabelTable {
		return false
	}
	if item.Data != nil && item.Data.Grid != nil {
		return true
	}
	_, ok := document.ParseTableRef(item.Ref)
	return ok
}

func containsTable(items []*document.Item) bool {
	for _, item := range items {
		if item != nil && item.Label == document.LabelTable {
			return true
		}
	}
	return false
}

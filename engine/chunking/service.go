package chunking

import (
	"context"
	"errors"
	"time"

	"github.com/Q-Agency/vlm-docling/engine/core"
	"github.com/Q-Agency/vlm-docling/engine/document"
	"github.com/Q-Agency/vlm-docling/engine/table"
	"github.com/Q-Agency/vlm-docling/engine/tokenizer"
	"github.com/Q-Agency/vlm-docling/pkg/logger"
)

// EmbedPrefix marks every chunk text for the embedding convention in use.
const EmbedPrefix = "search_document: "

// Record is the final output unit for one chunk. Created once, immutable
// thereafter; records share no mutable state.
type Record struct {
	Text         string         `json:"text"`
	SectionTitle string         `json:"section_title,omitempty"`
	ChunkIndex   int            `json:"chunk_index"`
	Metadata     Metadata       `json:"metadata"`
	FullMetadata map[string]any `json:"full_metadata,omitempty"`
}

// Service orchestrates chunking: it resolves the tokenizer, drives the
// splitter, and assembles records from metadata curation and table
// serialization.
type Service struct {
	tokenizers  *tokenizer.Cache
	newSplitter SplitterFactory
}

// Option customizes a Service.
type Option func(*Service)

// WithSplitterFactory overrides how the splitter is built per call.
func WithSplitterFactory(factory SplitterFactory) Option {
	return func(s *Service) {
		if factory != nil {
			s.newSplitter = factory
		}
	}
}

// NewService builds the chunking service around an explicitly constructed
// tokenizer cache.
func NewService(tokenizers *tokenizer.Cache, opts ...Option) (*Service, error) {
	if tokenizers == nil {
		return nil, errors.New("chunking: tokenizer cache is required")
	}
	s := &Service{tokenizers: tokenizers, newSplitter: defaultSplitterFactory}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func defaultSplitterFactory(maxTokens int, mergePeers bool, counter TokenCounter) (Splitter, error) {
	return NewHybridSplitter(maxTokens, mergePeers, counter)
}

// ChunkDocument splits a document into ordered, size-bounded records. A
// tokenizer load failure degrades to the splitter's default tokenizer with a
// warning; a splitter failure is fatal and propagates untouched.
func (s *Service) ChunkDocument(ctx context.Context, doc *document.Document, settings Settings) ([]Record, error) {
	log := logger.FromContext(ctx)
	if doc == nil {
		return nil, errors.New("chunking: document is required")
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	var counter TokenCounter
	if settings.TokenizerModel != "" {
		handle, err := s.tokenizers.Get(ctx, settings.TokenizerModel)
		if err != nil {
			log.Warn("tokenizer unavailable, using splitter default",
				"model", settings.TokenizerModel, "error", err)
		} else {
			counter = handle
		}
	}
	splitter, err := s.newSplitter(settings.MaxTokens, settings.MergePeers, counter)
	if err != nil {
		return nil, err
	}
	raw, err := splitter.Split(ctx, doc)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(raw))
	tablesSerialized, tablesFailed := 0, 0
	totalChars := 0
	for i := range raw {
		chunk := &raw[i]
		sectionTitle := ""
		if len(chunk.Headings) > 0 {
			sectionTitle = chunk.Headings[len(chunk.Headings)-1]
		}
		meta := ExtractMetadata(chunk.Items, chunk.Headings)
		text := EmbedPrefix + chunk.Contextualize()
		if settings.SerializeTables && meta.ContentType == ContentTypeTable {
			if serialized, ok := serializeChunkTable(ctx, chunk, doc); ok {
				if sectionTitle != "" {
					text = EmbedPrefix + sectionTitle + "\n\n" + serialized
				} else {
					text = EmbedPrefix + serialized
				}
				tablesSerialized++
			} else {
				tablesFailed++
			}
		}
		record := Record{
			Text:         text,
			SectionTitle: sectionTitle,
			ChunkIndex:   len(records),
			Metadata:     meta,
		}
		if settings.IncludeRawMetadata {
			record.FullMetadata = rawChunkMetadata(chunk)
		}
		totalChars += len(record.Text)
		records = append(records, record)
	}
	logCompletion(log, records, totalChars, start)
	if settings.SerializeTables && tablesSerialized+tablesFailed > 0 {
		log.Info("table serialization summary", "serialized", tablesSerialized, "failed", tablesFailed)
	}
	return records, nil
}

// serializeChunkTable serializes the first table item in the chunk,
// resolving references against the owning document.
func serializeChunkTable(ctx context.Context, chunk *RawChunk, doc *document.Document) (string, bool) {
	for _, item := range chunk.Items {
		if item != nil && item.Label == document.LabelTable {
			return table.SerializeItem(ctx, item, doc)
		}
	}
	return "", false
}

// rawChunkMetadata dumps the splitter's native chunk representation as an
// opaque map, deep-copied so records stay independent.
func rawChunkMetadata(chunk *RawChunk) map[string]any {
	items := make([]any, 0, len(chunk.Items))
	for _, item := range chunk.Items {
		if item == nil {
			continue
		}
		dump := map[string]any{"label": string(item.Label)}
		if item.Text != "" {
			dump["text"] = item.Text
		}
		if item.Ref != "" {
			dump["ref"] = item.Ref
		}
		if len(item.Prov) > 0 {
			pages := make([]any, 0, len(item.Prov))
			for _, prov := range item.Prov {
				pages = append(pages, map[string]any{"page_no": prov.PageNo})
			}
			dump["prov"] = pages
		}
		items = append(items, dump)
	}
	full := map[string]any{
		"text":      chunk.Text,
		"doc_items": items,
	}
	if len(chunk.Headings) > 0 {
		headings := make([]any, len(chunk.Headings))
		for i, h := range chunk.Headings {
			headings[i] = h
		}
		full["headings"] = headings
	}
	return core.DeepCopyMap(full)
}

func logCompletion(log logger.Logger, records []Record, totalChars int, start time.Time) {
	elapsed := time.Since(start)
	avgLength := 0
	if len(records) > 0 {
		avgLength = totalChars / len(records)
	}
	log.Info("document chunking completed",
		"chunks", len(records),
		"duration", elapsed.Round(time.Millisecond),
		"avg_chunk_chars", avgLength,
	)
}

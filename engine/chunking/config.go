package chunking

import "errors"

// DefaultMaxTokens bounds chunk size when callers do not configure one.
const DefaultMaxTokens = 512

// Settings configures one chunking call. Immutable once passed in.
type Settings struct {
	// MaxTokens is the chunk size ceiling. Must be positive.
	MaxTokens int
	// MergePeers merges adjacent undersized chunks sharing the same heading
	// trail.
	MergePeers bool
	// TokenizerModel selects the tokenizer used for sizing. Empty means the
	// splitter's default tokenizer.
	TokenizerModel string
	// IncludeRawMetadata attaches the splitter's native chunk representation
	// to each record.
	IncludeRawMetadata bool
	// SerializeTables rewrites table chunks into key-value embedding text.
	SerializeTables bool
}

// DefaultSettings mirrors the service defaults: 512-token chunks with peer
// merging enabled.
func DefaultSettings() Settings {
	return Settings{MaxTokens: DefaultMaxTokens, MergePeers: true}
}

func (s *Settings) validate() error {
	if s.MaxTokens <= 0 {
		return errors.New("chunking: max tokens must be greater than zero")
	}
	return nil
}

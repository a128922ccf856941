package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Decode parses a conversion engine's JSON document export into a Document.
// The export is the engine's dictionary dump: a body item list in reading
// order plus the table registry.
func Decode(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("document: export payload is empty")
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("document: decode export: %w", err)
	}
	for i, item := range doc.Items {
		if item == nil {
			return nil, fmt.Errorf("document: body item %d is null", i)
		}
		if item.Label == "" {
			return nil, fmt.Errorf("document: body item %d has no label", i)
		}
	}
	return doc, nil
}

package table

import (
	"context"
	"strings"

	"github.com/Q-Agency/vlm-docling/engine/document"
)

// Serialize renders a resolved table as key-value lines for embedding. The
// optional caption becomes a "Table: <caption>" first line; each row becomes
// comma-joined "Header: Value" pairs. Pairs with an empty trimmed header or
// value are skipped, so short rows omit their trailing pairs and all-empty
// rows produce no line.
func Serialize(headers []string, rows [][]string, caption string) string {
	lines := make([]string, 0, len(rows)+1)
	if caption != "" {
		lines = append(lines, "Table: "+caption)
	}
	for _, row := range rows {
		pairs := make([]string, 0, len(headers))
		for i, header := range headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			header = strings.TrimSpace(header)
			value = strings.TrimSpace(value)
			if header == "" || value == "" {
				continue
			}
			pairs = append(pairs, header+": "+value)
		}
		if len(pairs) > 0 {
			lines = append(lines, strings.Join(pairs, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

// SerializeItem resolves a table item against its owning document and
// serializes the result, using the item's caption fragments. The second
// return reports whether resolution succeeded.
func SerializeItem(ctx context.Context, item *document.Item, doc *document.Document) (string, bool) {
	resolved := Resolve(ctx, item, doc)
	if resolved == nil || len(resolved.Headers) == 0 {
		return "", false
	}
	return Serialize(resolved.Headers, resolved.Rows, item.Caption()), true
}

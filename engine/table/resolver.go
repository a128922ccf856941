package table

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Q-Agency/vlm-docling/engine/document"
	"github.com/Q-Agency/vlm-docling/pkg/logger"
)

// Resolved holds the extracted 2-D structure of a table. Rows is never nil
// when headers are present; absent headers mean the whole table is
// unresolved.
type Resolved struct {
	Headers []string
	Rows    [][]string
}

// strategy is one extraction attempt over a table payload. Strategies are
// pure: a nil result is a miss, never an error.
type strategy struct {
	name string
	fn   func(*document.TableData) *Resolved
}

// The chain order is fixed; the resolver stops at the first strategy that
// yields a header row.
var strategies = []strategy{
	{"inline_grid", extractInlineGrid},
	{"row_objects", extractRowObjects},
	{"frame_export", extractFrame},
	{"list_export", extractList},
	{"cell_addresses", extractAddressedCells},
	{"markdown", extractMarkdown},
}

// Resolve extracts headers and rows from a table item. When the item carries
// no inline data, its "#/tables/<index>" reference is resolved against the
// owning document's table registry. Returns nil when every strategy misses;
// resolution failure is not an error.
func Resolve(ctx context.Context, item *document.Item, doc *document.Document) *Resolved {
	if item == nil || item.Label != document.LabelTable {
		return nil
	}
	if item.Data != nil {
		return resolveData(ctx, item.Data)
	}
	log := logger.FromContext(ctx)
	index, ok := document.ParseTableRef(item.Ref)
	if !ok {
		log.Debug("table item has no inline data and no resolvable reference", "ref", item.Ref)
		return nil
	}
	target, ok := doc.TableAt(index)
	if !ok || target == nil || target.Data == nil {
		log.Debug("table reference does not resolve to registry data", "ref", item.Ref)
		return nil
	}
	return resolveData(ctx, target.Data)
}

func resolveData(ctx context.Context, data *document.TableData) *Resolved {
	log := logger.FromContext(ctx)
	for _, s := range strategies {
		if result := s.fn(data); result != nil {
			log.Debug("table grid resolved", "strategy", s.name, "columns", len(result.Headers), "rows", len(result.Rows))
			return result
		}
	}
	log.Debug("table grid matched no extraction strategy")
	return nil
}

// extractInlineGrid handles grids that are plain nested sequences: the first
// row is headers, the remainder data rows.
func extractInlineGrid(data *document.TableData) *Resolved {
	switch grid := data.Grid.(type) {
	case [][]any:
		rows := make([][]string, 0, len(grid))
		for _, row := range grid {
			rows = append(rows, cellTexts(row))
		}
		return fromRows(rows)
	case [][]string:
		rows := make([][]string, 0, len(grid))
		for _, row := range grid {
			rows = append(rows, append([]string(nil), row...))
		}
		return fromRows(rows)
	default:
		return nil
	}
}

// extractRowObjects handles grids whose entries expose a cell collection
// rather than being plain sequences.
func extractRowObjects(data *document.TableData) *Resolved {
	var rows [][]string
	switch grid := data.Grid.(type) {
	case []document.Row:
		rows = make([][]string, 0, len(grid))
		for _, row := range grid {
			rows = append(rows, cellTexts(row.Cells))
		}
	case []any:
		rows = make([][]string, 0, len(grid))
		for _, entry := range grid {
			switch row := entry.(type) {
			case document.Row:
				rows = append(rows, cellTexts(row.Cells))
			case *document.Row:
				if row != nil {
					rows = append(rows, cellTexts(row.Cells))
				}
			case []any:
				rows = append(rows, cellTexts(row))
			default:
				return nil
			}
		}
	default:
		return nil
	}
	return fromRows(rows)
}

// extractFrame uses a dataframe-style export: column labels as headers, row
// values as rows. An empty export is a miss, not a result.
func extractFrame(data *document.TableData) *Resolved {
	frame, ok := data.Grid.(document.FrameExporter)
	if !ok {
		return nil
	}
	headers := frame.Columns()
	if len(headers) == 0 {
		return nil
	}
	records := frame.Records()
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, append([]string(nil), record...))
	}
	return &Resolved{Headers: append([]string(nil), headers...), Rows: rows}
}

// extractList uses a list export, treating the first emitted row as headers.
func extractList(data *document.TableData) *Resolved {
	exporter, ok := data.Grid.(document.ListExporter)
	if !ok {
		return nil
	}
	exported := exporter.ExportList()
	rows := make([][]string, 0, len(exported))
	for _, row := range exported {
		rows = append(rows, append([]string(nil), row...))
	}
	return fromRows(rows)
}

// extractAddressedCells reassembles a grid from individually addressed cells:
// bucket by row index, order rows and cells by index, first row is headers.
func extractAddressedCells(data *document.TableData) *Resolved {
	addresser, ok := data.Grid.(document.CellAddresser)
	if !ok {
		return nil
	}
	cells := addresser.Cells()
	if len(cells) == 0 {
		return nil
	}
	buckets := make(map[int][]document.AddressedCell)
	for _, cell := range cells {
		buckets[cell.RowIdx] = append(buckets[cell.RowIdx], cell)
	}
	indices := make([]int, 0, len(buckets))
	for idx := range buckets {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	rows := make([][]string, 0, len(indices))
	for _, idx := range indices {
		bucket := buckets[idx]
		sort.Slice(bucket, func(a, b int) bool { return bucket[a].ColIdx < bucket[b].ColIdx })
		row := make([]string, 0, len(bucket))
		for _, cell := range bucket {
			row = append(row, cell.Text)
		}
		rows = append(rows, row)
	}
	return fromRows(rows)
}

// extractMarkdown parses a pipe-delimited markdown export, discarding
// separator lines; the first data line is headers.
func extractMarkdown(data *document.TableData) *Resolved {
	markdown := data.Markdown
	if !strings.Contains(markdown, "|") {
		return nil
	}
	var rows [][]string
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Count(line, "|") < 2 || isSeparatorLine(line) {
			continue
		}
		trimmed := strings.Trim(line, "|")
		cells := strings.Split(trimmed, "|")
		row := make([]string, 0, len(cells))
		for _, cell := range cells {
			row = append(row, strings.TrimSpace(cell))
		}
		rows = append(rows, row)
	}
	return fromRows(rows)
}

func isSeparatorLine(line string) bool {
	for _, r := range line {
		switch r {
		case '|', '-', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func fromRows(rows [][]string) *Resolved {
	if len(rows) == 0 {
		return nil
	}
	data := make([][]string, 0, len(rows)-1)
	data = append(data, rows[1:]...)
	return &Resolved{Headers: rows[0], Rows: data}
}

func cellTexts(cells []any) []string {
	texts := make([]string, 0, len(cells))
	for _, cell := range cells {
		texts = append(texts, cellText(cell))
	}
	return texts
}

// cellText extracts text from a cell, which may be a plain string, a
// structured cell, or anything the engine produced.
func cellText(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case document.Cell:
		return v.Text
	case *document.Cell:
		if v == nil {
			return ""
		}
		return v.Text
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

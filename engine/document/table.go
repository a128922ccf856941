package document

import "encoding/json"

// TableData carries a table's grid in whichever shape the conversion engine
// produced. Grid is one of: [][]any (rows of cells, each cell a string or
// Cell), []Row (row objects), or a value implementing FrameExporter,
// ListExporter, or CellAddresser. Markdown, when set, is the engine's
// pipe-table export and serves as the last-resort representation.
type TableData struct {
	Grid     any    `json:"grid,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// Cell is a structured table cell.
type Cell struct {
	Text string `json:"text"`
}

// Row groups cells when the engine emits row objects instead of plain slices.
type Row struct {
	Cells []any `json:"cells"`
}

// AddressedCell carries explicit grid coordinates.
type AddressedCell struct {
	RowIdx int    `json:"row"`
	ColIdx int    `json:"col"`
	Text   string `json:"text"`
}

// FrameExporter exposes a dataframe-style view of a grid: column labels plus
// row values.
type FrameExporter interface {
	Columns() []string
	Records() [][]string
}

// ListExporter exposes a grid as raw rows with the header row first.
type ListExporter interface {
	ExportList() [][]string
}

// CellAddresser exposes a grid as individually addressed cells.
type CellAddresser interface {
	Cells() []AddressedCell
}

// UnmarshalJSON normalizes a JSON grid into [][]any where every cell is either
// a string or a Cell. Converter exports mix both forms freely.
func (t *TableData) UnmarshalJSON(data []byte) error {
	var raw struct {
		Grid     [][]json.RawMessage `json:"grid"`
		Markdown string              `json:"markdown"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Markdown = raw.Markdown
	if raw.Grid == nil {
		t.Grid = nil
		return nil
	}
	grid := make([][]any, len(raw.Grid))
	for i, row := range raw.Grid {
		cells := make([]any, len(row))
		for j, rawCell := range row {
			cells[j] = decodeCell(rawCell)
		}
		grid[i] = cells
	}
	t.Grid = grid
	return nil
}

func decodeCell(raw json.RawMessage) any {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var cell Cell
	if err := json.Unmarshal(raw, &cell); err == nil {
		return cell
	}
	return string(raw)
}

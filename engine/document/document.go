package document

import (
	"strconv"
	"strings"
)

// Label identifies the kind of a document item.
type Label string

const (
	LabelText          Label = "text"
	LabelSectionHeader Label = "section_header"
	LabelListItem      Label = "list_item"
	LabelTable         Label = "table"
	LabelPicture       Label = "picture"
	LabelCaption       Label = "caption"
)

const tableRefPrefix = "#/tables/"

// Provenance links an item back to its position in the source file.
type Provenance struct {
	PageNo int        `json:"page_no"`
	BBox   [4]float64 `json:"bbox,omitempty"`
}

// Item is one node of a converted document. Items are read-only once the
// conversion engine hands them over; chunking never mutates them.
type Item struct {
	Label    Label        `json:"label"`
	Text     string       `json:"text,omitempty"`
	Level    int          `json:"level,omitempty"`
	Prov     []Provenance `json:"prov,omitempty"`
	Captions []string     `json:"captions,omitempty"`
	// Ref holds a "#/tables/<index>" token when a table item carries no
	// inline data and must be resolved against the owning document.
	Ref  string     `json:"ref,omitempty"`
	Data *TableData `json:"data,omitempty"`
}

// Document is the root of the converted tree. Items hold the body in reading
// order; Tables is the registry that reference tokens resolve against.
type Document struct {
	Name   string  `json:"name,omitempty"`
	Items  []*Item `json:"items"`
	Tables []*Item `json:"tables,omitempty"`
}

// TableAt returns the registry entry at the given index.
func (d *Document) TableAt(index int) (*Item, bool) {
	if d == nil || index < 0 || index >= len(d.Tables) {
		return nil, false
	}
	return d.Tables[index], true
}

// ParseTableRef extracts the registry index from a "#/tables/<index>" token.
func ParseTableRef(ref string) (int, bool) {
	if !strings.HasPrefix(ref, tableRefPrefix) {
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimPrefix(ref, tableRefPrefix))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

// Caption joins an item's caption fragments into a single string.
func (i *Item) Caption() string {
	if i == nil || len(i.Captions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(i.Captions))
	for _, c := range i.Captions {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

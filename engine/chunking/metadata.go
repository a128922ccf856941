package chunking

import (
	"sort"
	"strings"

	"github.com/Q-Agency/vlm-docling/engine/document"
)

// ContentType classifies what a chunk is made of.
type ContentType string

const (
	ContentTypeText    ContentType = "text"
	ContentTypeTable   ContentType = "table"
	ContentTypeList    ContentType = "list"
	ContentTypeHeading ContentType = "heading"
)

// Metadata is the curated, queryable annotation attached to every chunk.
type Metadata struct {
	ContentType ContentType `json:"content_type"`
	HeadingPath string      `json:"heading_path,omitempty"`
	// Pages is the ascending, deduplicated set of 1-based page numbers across
	// all constituent items. Omitted when empty, never an empty list.
	Pages             []int `json:"pages,omitempty"`
	HasTableStructure bool  `json:"has_table_structure,omitempty"`
	DocItemCount      int   `json:"doc_item_count"`
}

// ExtractMetadata curates metadata from a chunk's constituent items and
// heading trail. Pure and deterministic, no I/O.
//
// Classification precedence is table > list_item > section_header > text: a
// table label anywhere in the chunk wins, including over a co-occurring
// section header. HasTableStructure tracks the classification only; it stays
// true even when detailed grid extraction later fails.
func ExtractMetadata(items []*document.Item, headings []string) Metadata {
	labels := make(map[document.Label]struct{}, len(items))
	count := 0
	for _, item := range items {
		if item == nil {
			continue
		}
		labels[item.Label] = struct{}{}
		count++
	}
	contentType := ContentTypeText
	switch {
	case hasLabel(labels, document.LabelTable):
		contentType = ContentTypeTable
	case hasLabel(labels, document.LabelListItem):
		contentType = ContentTypeList
	case hasLabel(labels, document.LabelSectionHeader):
		contentType = ContentTypeHeading
	}
	meta := Metadata{
		ContentType:       contentType,
		HasTableStructure: contentType == ContentTypeTable,
		DocItemCount:      count,
	}
	if len(headings) > 0 {
		meta.HeadingPath = strings.Join(headings, " > ")
	}
	meta.Pages = collectPages(items)
	return meta
}

func hasLabel(labels map[document.Label]struct{}, label document.Label) bool {
	_, ok := labels[label]
	return ok
}

func collectPages(items []*document.Item) []int {
	seen := make(map[int]struct{})
	for _, item := range items {
		if item == nil {
			continue
		}
		for _, prov := range item.Prov {
			if prov.PageNo > 0 {
				seen[prov.PageNo] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	pages := make([]int, 0, len(seen))
	for page := range seen {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}

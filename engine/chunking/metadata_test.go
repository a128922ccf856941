package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Q-Agency/vlm-docling/engine/document"
)

func item(label document.Label, pages ...int) *document.Item {
	it := &document.Item{Label: label}
	for _, page := range pages {
		it.Prov = append(it.Prov, document.Provenance{PageNo: page})
	}
	return it
}

func TestExtractMetadataClassification(t *testing.T) {
	t.Run("ShouldDefaultToText", func(t *testing.T) {
		meta := ExtractMetadata([]*document.Item{item(document.LabelText)}, nil)
		assert.Equal(t, ContentTypeText, meta.ContentType)
		assert.False(t, meta.HasTableStructure)
	})
	t.Run("ShouldClassifyHeadingChunks", func(t *testing.T) {
		meta := ExtractMetadata([]*document.Item{item(document.LabelSectionHeader)}, nil)
		assert.Equal(t, ContentTypeHeading, meta.ContentType)
	})
	t.Run("ShouldPreferListOverHeading", func(t *testing.T) {
		items := []*document.Item{item(document.LabelSectionHeader), item(document.LabelListItem)}
		meta := ExtractMetadata(items, nil)
		assert.Equal(t, ContentTypeList, meta.ContentType)
	})
	t.Run("ShouldPreferTableOverEverything", func(t *testing.T) {
		items := []*document.Item{
			item(document.LabelText),
			item(document.LabelListItem),
			item(document.LabelTable),
		}
		meta := ExtractMetadata(items, nil)
		assert.Equal(t, ContentTypeTable, meta.ContentType)
		assert.True(t, meta.HasTableStructure)
	})
	// Pins the chosen rule for the table/section-header co-occurrence: the
	// table label wins.
	t.Run("ShouldClassifyTableWhenMixedWithSectionHeader", func(t *testing.T) {
		items := []*document.Item{item(document.LabelSectionHeader), item(document.LabelTable)}
		meta := ExtractMetadata(items, nil)
		assert.Equal(t, ContentTypeTable, meta.ContentType)
		assert.True(t, meta.HasTableStructure)
	})
}

func TestExtractMetadataPages(t *testing.T) {
	t.Run("ShouldUnionSortAndDeduplicatePages", func(t *testing.T) {
		items := []*document.Item{
			item(document.LabelText, 3, 1),
			item(document.LabelText, 2, 3),
		}
		meta := ExtractMetadata(items, nil)
		assert.Equal(t, []int{1, 2, 3}, meta.Pages)
	})
	t.Run("ShouldOmitPagesWhenNoProvenance", func(t *testing.T) {
		meta := ExtractMetadata([]*document.Item{item(document.LabelText)}, nil)
		assert.Nil(t, meta.Pages)
	})
	t.Run("ShouldIgnoreNonPositivePageNumbers", func(t *testing.T) {
		items := []*document.Item{item(document.LabelText, 0, 2)}
		meta := ExtractMetadata(items, nil)
		assert.Equal(t, []int{2}, meta.Pages)
	})
}

func TestExtractMetadataHeadingPath(t *testing.T) {
	t.Run("ShouldJoinHeadingTrailWithSeparator", func(t *testing.T) {
		meta := ExtractMetadata([]*document.Item{item(document.LabelText)}, []string{"Intro", "Scope"})
		assert.Equal(t, "Intro > Scope", meta.HeadingPath)
	})
	t.Run("ShouldOmitHeadingPathWithoutTrail", func(t *testing.T) {
		meta := ExtractMetadata([]*document.Item{item(document.LabelText)}, nil)
		assert.Empty(t, meta.HeadingPath)
	})
}

func TestExtractMetadataItemCount(t *testing.T) {
	t.Run("ShouldCountNonNilItems", func(t *testing.T) {
		items := []*document.Item{item(document.LabelText), nil, item(document.LabelText)}
		meta := ExtractMetadata(items, nil)
		assert.Equal(t, 2, meta.DocItemCount)
	})
	t.Run("ShouldHandleEmptyChunks", func(t *testing.T) {
		meta := ExtractMetadata(nil, nil)
		assert.Equal(t, ContentTypeText, meta.ContentType)
		assert.Equal(t, 0, meta.DocItemCount)
	})
}

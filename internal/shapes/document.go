package shapes

import (
	"github.com/okra-platform/tagstream/internal/layout"
	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

// Selector ranges of the document members.
const (
	docMetadata     = 1
	docAttributes   = 3
	docSearchTerms  = 5
	docForwardTerms = 9
)

// Counter selectors of the document arrays. All four live on level 0 since
// they are siblings.
const (
	arrMetadata = iota
	arrAttributes
	arrSearchTerms
	arrForwardTerms
)

var DocumentShape = tagstream.MustShape("Document",
	layout.MustCompile(layout.Record(
		layout.Member("subDocumentTypeName", layout.Scalar(0)),
		layout.Member("metadata", layout.Array(arrMetadata, metaDataNode(docMetadata))),
		layout.Member("attributes", layout.Array(arrAttributes, attributeNode(docAttributes))),
		layout.Member("searchTerms", layout.Array(arrSearchTerms, termNode(docSearchTerms))),
		layout.Member("forwardTerms", layout.Array(arrForwardTerms, termNode(docForwardTerms))),
	)),
	documentValue,
	documentCount)

func documentValue(d *Document, sel int, ix tagstream.Indices) value.Value {
	switch {
	case sel == 0:
		return value.String(d.SubDocumentTypeName)
	case sel < docAttributes:
		return metaDataValue(&d.Metadata[ix.At(0)], sel-docMetadata)
	case sel < docSearchTerms:
		return attributeValue(&d.Attributes[ix.At(0)], sel-docAttributes)
	case sel < docForwardTerms:
		return termValue(&d.SearchTerms[ix.At(0)], sel-docSearchTerms)
	}
	return termValue(&d.ForwardTerms[ix.At(0)], sel-docForwardTerms)
}

func documentCount(d *Document, sel int, _ tagstream.Indices) int {
	switch sel {
	case arrMetadata:
		return len(d.Metadata)
	case arrAttributes:
		return len(d.Attributes)
	case arrSearchTerms:
		return len(d.SearchTerms)
	case arrForwardTerms:
		return len(d.ForwardTerms)
	}
	return 0
}

const statisticsNofDocs = 3

var StatisticsMessageShape = tagstream.MustShape("StatisticsMessage",
	layout.MustCompile(layout.Record(
		layout.Member("df", layout.Array(0, dfChangeNode(0))),
		layout.Member("nofdocs", layout.Scalar(statisticsNofDocs)),
	)),
	func(m *StatisticsMessage, sel int, ix tagstream.Indices) value.Value {
		if sel == statisticsNofDocs {
			return value.Int(m.NofDocs)
		}
		return dfChangeValue(&m.DF[ix.At(0)], sel)
	},
	func(m *StatisticsMessage, _ int, _ tagstream.Indices) int {
		return len(m.DF)
	})

// Package shapes provides ready-made tagstream shapes for the record types
// a search engine exposes to scripting consumers: analyzed terms, document
// attributes and metadata, query instructions, ranked results and
// statistics messages.
//
// Every record type has a record shape and an array shape. All of them are
// listed in the Default registry together with sample sources.
package shapes

import "github.com/okra-platform/tagstream/internal/value"

// Term is an analyzed term with its position in the token stream.
type Term struct {
	Type  string
	Value string
	Pos   uint
	Len   uint
}

// Attribute is a named string attribute of a document.
type Attribute struct {
	Name  string
	Value string
}

// MetaData is a named numeric metadata element of a document.
type MetaData struct {
	Name  string
	Value value.Value
}

// VectorRank is a feature index with its similarity weight.
type VectorRank struct {
	FeatIdx int64
	Weight  float64
}

// QueryInstruction is one instruction of a compiled query program.
type QueryInstruction struct {
	OpCode      string
	Idx         int64
	NofOperands int64
}

// SummaryElement is a named summary item attached to a ranked document.
type SummaryElement struct {
	Name   string
	Value  string
	Weight float64
	Index  int64
}

// ResultDocument is one ranked document of a query result.
type ResultDocument struct {
	Docno           int64
	Weight          float64
	SummaryElements []SummaryElement
}

// QueryResult is the ranked list of a query evaluation.
type QueryResult struct {
	EvaluationPass uint
	NofRanked      uint
	NofVisited     uint
	Ranks          []ResultDocument
}

// Document is an analyzed document ready for insertion.
type Document struct {
	SubDocumentTypeName string
	Metadata            []MetaData
	Attributes          []Attribute
	SearchTerms         []Term
	ForwardTerms        []Term
}

// DocumentFrequencyChange is a document frequency update of one term.
type DocumentFrequencyChange struct {
	Type      string
	Value     string
	Increment int64
}

// StatisticsMessage carries global statistics changes between peers.
type StatisticsMessage struct {
	DF      []DocumentFrequencyChange
	NofDocs int64
}

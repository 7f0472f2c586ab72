package shapes

import "github.com/okra-platform/tagstream/internal/value"

func sampleTerm() *Term {
	return &Term{Type: "word", Value: "hello", Pos: 3, Len: 5}
}

func sampleDocument() *Document {
	return &Document{
		SubDocumentTypeName: "article",
		Metadata: []MetaData{
			{Name: "date", Value: value.UInt(20240117)},
			{Name: "doclen", Value: value.Int(2)},
			{Name: "pagerank", Value: value.Float(0.75)},
		},
		Attributes: []Attribute{
			{Name: "title", Value: "Hello world"},
			{Name: "docid", Value: "doc-0001"},
		},
		SearchTerms: []Term{
			{Type: "word", Value: "hello", Pos: 1, Len: 1},
			{Type: "word", Value: "world", Pos: 2, Len: 1},
		},
		ForwardTerms: []Term{
			{Type: "orig", Value: "Hello", Pos: 1, Len: 1},
			{Type: "orig", Value: "world", Pos: 2, Len: 1},
		},
	}
}

func sampleQueryResult() *QueryResult {
	return &QueryResult{
		EvaluationPass: 1,
		NofRanked:      2,
		NofVisited:     12,
		Ranks: []ResultDocument{
			{
				Docno:  3,
				Weight: 1.5,
				SummaryElements: []SummaryElement{
					{Name: "title", Value: "Hello world", Weight: 1, Index: -1},
					{Name: "phrase", Value: "hello", Weight: 0.5, Index: 0},
				},
			},
			{
				Docno:  11,
				Weight: 0.25,
			},
		},
	}
}

func sampleVectorRanks() *[]VectorRank {
	return &[]VectorRank{
		{FeatIdx: 4, Weight: 0.98},
		{FeatIdx: 17, Weight: 0.93},
		{FeatIdx: 2, Weight: 0.5},
	}
}

func sampleProgram() *[]QueryInstruction {
	return &[]QueryInstruction{
		{OpCode: "Term", Idx: 0, NofOperands: 0},
		{OpCode: "Term", Idx: 1, NofOperands: 0},
		{OpCode: "Operator", Idx: 0, NofOperands: 2},
		{OpCode: "DefineFeature", Idx: 0, NofOperands: 1},
	}
}

func sampleStatistics() *StatisticsMessage {
	return &StatisticsMessage{
		DF: []DocumentFrequencyChange{
			{Type: "word", Value: "hello", Increment: 3},
			{Type: "word", Value: "world", Increment: -1},
		},
		NofDocs: 42,
	}
}

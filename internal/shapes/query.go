package shapes

import (
	"github.com/okra-platform/tagstream/internal/layout"
	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

func vectorRankNode(base int) layout.Node {
	return fields(base, "featidx", "weight")
}

func vectorRankValue(r *VectorRank, sel int) value.Value {
	switch sel {
	case 0:
		return value.Int(r.FeatIdx)
	case 1:
		return value.Float(r.Weight)
	}
	return value.Null()
}

func instructionNode(base int) layout.Node {
	return fields(base, "opCode", "idx", "nofOperands")
}

func instructionValue(in *QueryInstruction, sel int) value.Value {
	switch sel {
	case 0:
		return value.String(in.OpCode)
	case 1:
		return value.Int(in.Idx)
	case 2:
		return value.Int(in.NofOperands)
	}
	return value.Null()
}

func summaryNode(base int) layout.Node {
	return fields(base, "name", "value", "weight", "index")
}

func summaryValue(e *SummaryElement, sel int) value.Value {
	switch sel {
	case 0:
		return value.String(e.Name)
	case 1:
		return value.String(e.Value)
	case 2:
		return value.Float(e.Weight)
	case 3:
		return value.Int(e.Index)
	}
	return value.Null()
}

// Result documents read docno and weight themselves, the summary element
// fields follow. The summary array sits one level below the document.
const resultDocumentValues = 2

func resultDocumentNode(base, summaries int) layout.Node {
	return layout.Record(
		layout.Member("docno", layout.Scalar(base)),
		layout.Member("weight", layout.Scalar(base+1)),
		layout.Member("summaryElements", layout.Array(summaries, summaryNode(base+resultDocumentValues))),
	)
}

// resultDocumentValue reads a selector of d, whose summary elements are
// counted on the given array level.
func resultDocumentValue(d *ResultDocument, sel int, ix tagstream.Indices, level int) value.Value {
	switch sel {
	case 0:
		return value.Int(d.Docno)
	case 1:
		return value.Float(d.Weight)
	}
	return summaryValue(&d.SummaryElements[ix.At(level)], sel-resultDocumentValues)
}

const queryResultValues = 3

var (
	VectorRankShape            = record("VectorRank", vectorRankNode(0), vectorRankValue)
	VectorRankArrayShape       = array("VectorRank[]", vectorRankNode(0), vectorRankValue)
	QueryInstructionArrayShape = array("QueryInstruction[]", instructionNode(0), instructionValue)
	SummaryElementArrayShape   = array("SummaryElement[]", summaryNode(0), summaryValue)

	ResultDocumentShape = tagstream.MustShape("ResultDocument",
		layout.MustCompile(resultDocumentNode(0, 0)),
		func(src *ResultDocument, sel int, ix tagstream.Indices) value.Value {
			return resultDocumentValue(src, sel, ix, 0)
		},
		func(src *ResultDocument, _ int, _ tagstream.Indices) int {
			return len(src.SummaryElements)
		})

	QueryResultShape = tagstream.MustShape("QueryResult",
		layout.MustCompile(layout.Record(
			layout.Member("evaluationPass", layout.Scalar(0)),
			layout.Member("nofRanked", layout.Scalar(1)),
			layout.Member("nofVisited", layout.Scalar(2)),
			layout.Member("ranks", layout.Array(0, resultDocumentNode(queryResultValues, 1))),
		)),
		queryResultValue,
		queryResultCount)
)

func queryResultValue(src *QueryResult, sel int, ix tagstream.Indices) value.Value {
	switch sel {
	case 0:
		return value.UInt(uint64(src.EvaluationPass))
	case 1:
		return value.UInt(uint64(src.NofRanked))
	case 2:
		return value.UInt(uint64(src.NofVisited))
	}
	return resultDocumentValue(&src.Ranks[ix.At(0)], sel-queryResultValues, ix, 1)
}

func queryResultCount(src *QueryResult, sel int, ix tagstream.Indices) int {
	if sel == 0 {
		return len(src.Ranks)
	}
	return len(src.Ranks[ix.At(0)].SummaryElements)
}

package shapes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/okra-platform/tagstream/internal/tagstream"
)

// Sample is a named source of a registered shape.
type Sample struct {
	Name string
	// Iterator returns a fresh cursor over the sample source.
	Iterator func() tagstream.Iterator
}

// Entry is a shape erased to its table and samples.
type Entry struct {
	Name    string
	Table   *tagstream.Table
	Samples []Sample
}

// Source names a sample value for NewEntry.
type Source[T any] struct {
	Name  string
	Value *T
}

// Src builds a Source.
func Src[T any](name string, v *T) Source[T] {
	return Source[T]{Name: name, Value: v}
}

// NewEntry erases a typed shape and its sample sources.
func NewEntry[T any](shape *tagstream.Shape[T], sources ...Source[T]) Entry {
	e := Entry{Name: shape.Name(), Table: shape.Table()}
	for _, src := range sources {
		v := src.Value
		e.Samples = append(e.Samples, Sample{
			Name:     src.Name,
			Iterator: func() tagstream.Iterator { return shape.Iterator(v) },
		})
	}
	return e
}

// Registry manages available shapes
type Registry struct {
	entries map[string]Entry
}

// NewRegistry creates an empty shape registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds or replaces a shape entry
func (r *Registry) Register(e Entry) {
	r.entries[e.Name] = e
}

// Get returns the entry registered under name
func (r *Registry) Get(name string) (Entry, error) {
	e, exists := r.entries[name]
	if !exists {
		return Entry{}, fmt.Errorf("unknown shape: %s", name)
	}
	return e, nil
}

// Names returns the registered shape names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of all built-in shapes with their samples.
func Default() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		registerBuiltins(r)
		defaultRegistry = r
	})
	return defaultRegistry
}

func registerBuiltins(r *Registry) {
	r.Register(NewEntry(TermShape, Src("word", sampleTerm()), Src("nil", (*Term)(nil))))
	r.Register(NewEntry(TermArrayShape, Src("two", &[]Term{*sampleTerm(), {Type: "word", Value: "world", Pos: 9, Len: 5}}), Src("empty", &[]Term{}), Src("nil", (*[]Term)(nil))))
	r.Register(NewEntry(AttributeShape, Src("title", &Attribute{Name: "title", Value: "Hello world"})))
	r.Register(NewEntry(AttributeArrayShape, Src("two", &sampleDocument().Attributes), Src("empty", &[]Attribute{})))
	r.Register(NewEntry(MetaDataShape, Src("date", &sampleDocument().Metadata[0])))
	r.Register(NewEntry(MetaDataArrayShape, Src("three", &sampleDocument().Metadata), Src("empty", &[]MetaData{})))
	r.Register(NewEntry(VectorRankShape, Src("one", &VectorRank{FeatIdx: 17, Weight: 0.93})))
	r.Register(NewEntry(VectorRankArrayShape, Src("three", sampleVectorRanks()), Src("empty", &[]VectorRank{})))
	r.Register(NewEntry(QueryInstructionArrayShape, Src("program", sampleProgram()), Src("empty", &[]QueryInstruction{})))
	r.Register(NewEntry(SummaryElementArrayShape, Src("two", &sampleQueryResult().Ranks[0].SummaryElements), Src("empty", &[]SummaryElement{})))
	r.Register(NewEntry(ResultDocumentShape, Src("ranked", &sampleQueryResult().Ranks[0]), Src("bare", &ResultDocument{Docno: 7, Weight: 0.1})))
	r.Register(NewEntry(QueryResultShape, Src("ranked", sampleQueryResult()), Src("empty", &QueryResult{EvaluationPass: 1}), Src("nil", (*QueryResult)(nil))))
	r.Register(NewEntry(DocumentShape, Src("analyzed", sampleDocument()), Src("empty", &Document{})))
	r.Register(NewEntry(StatisticsMessageShape, Src("update", sampleStatistics()), Src("empty", &StatisticsMessage{})))
	r.Register(NewEntry(IntArrayShape, Src("primes", &[]int64{2, 3, 5, 7}), Src("empty", &[]int64{})))
	r.Register(NewEntry(FloatArrayShape, Src("weights", &[]float64{0.5, 0.25}), Src("empty", &[]float64{})))
	r.Register(NewEntry(StringArrayShape, Src("words", &[]string{"hello", "world"}), Src("empty", &[]string{})))
}

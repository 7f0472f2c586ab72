package golang

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/tagstream/internal/schema"
)

// Test plan for property-based testing:
// 1. Generated Go code should always be syntactically valid
// 2. All schema types should be represented in generated code
// 3. Every value and array selector gets a case
// 4. Generation is deterministic

func TestGenerator_PropertyBasedValidGo(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		t.Run(fmt.Sprintf("random_schema_%d", i), func(t *testing.T) {
			s := generateRandomSchema(rng)
			gen := NewGenerator("testpkg")

			code, err := gen.Generate(s)
			require.NoError(t, err)

			formatted, err := format.Source(code)
			if err != nil {
				t.Logf("Generated code:\n%s", string(code))
				t.Fatalf("Generated code is not valid Go: %v", err)
			}

			fset := token.NewFileSet()
			_, err = parser.ParseFile(fset, "generated.go", formatted, parser.AllErrors)
			assert.NoError(t, err, "Generated code should parse successfully")

			for _, typ := range s.Types {
				assert.Contains(t, string(code), "type "+typ.Name+" struct {")
			}
			assert.Contains(t, string(code), "var RootShape = ")

			again, err := NewGenerator("testpkg").Generate(s)
			require.NoError(t, err)
			assert.Equal(t, code, again)
		})
	}
}

func TestGenerator_PropertyBasedSelectors(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		s := generateRandomSchema(rng)
		plans, err := plan(s)
		require.NoError(t, err)
		require.Len(t, plans, 1)

		code, err := NewGenerator("testpkg").Generate(s)
		require.NoError(t, err)

		valueFn := sectionOf(string(code), "func rootValue(")
		for sel := range plans[0].Values {
			assert.Contains(t, valueFn, fmt.Sprintf("case %d:", sel))
		}
		if len(plans[0].Arrays) > 0 {
			countFn := sectionOf(string(code), "func rootCount(")
			for sel := range plans[0].Arrays {
				assert.Contains(t, countFn, fmt.Sprintf("case %d:", sel))
			}
		}
	}
}

// sectionOf returns the text from start up to the next top-level closing brace
func sectionOf(code, start string) string {
	i := strings.Index(code, start)
	if i < 0 {
		return ""
	}
	end := strings.Index(code[i:], "\n}\n")
	if end < 0 {
		return code[i:]
	}
	return code[i : i+end]
}

var scalarTypes = []string{"String", "ID", "Int", "Float", "Boolean", "Mode"}

// generateRandomSchema builds an acyclic schema: Type<i> only references
// Type<j> with j > i, and the Root shape references any of them.
func generateRandomSchema(rng *rand.Rand) *schema.Schema {
	s := &schema.Schema{
		Enums: []schema.EnumType{{
			Name:   "Mode",
			Values: []schema.EnumValue{{Name: "FAST"}, {Name: "SLOW"}},
		}},
	}

	numTypes := rng.Intn(4)
	for i := 0; i < numTypes; i++ {
		s.Types = append(s.Types, schema.ObjectType{
			Name:   fmt.Sprintf("Type%d", i),
			Fields: randomFields(rng, i+1, numTypes),
		})
	}
	s.Types = append(s.Types, schema.ObjectType{
		Name:   "Root",
		Shape:  true,
		Fields: randomFields(rng, 0, numTypes),
	})
	return s
}

func randomFields(rng *rand.Rand, firstRef, numTypes int) []schema.Field {
	n := 1 + rng.Intn(5)
	fields := make([]schema.Field, n)
	for i := range fields {
		elem := scalarTypes[rng.Intn(len(scalarTypes))]
		if firstRef < numTypes && rng.Intn(3) == 0 {
			elem = fmt.Sprintf("Type%d", firstRef+rng.Intn(numTypes-firstRef))
		}
		lists := rng.Intn(3)
		fields[i] = schema.Field{
			Name:     fmt.Sprintf("field_%d", i),
			Type:     strings.Repeat("[", lists) + elem + strings.Repeat("]", lists),
			Required: rng.Intn(2) == 0,
		}
	}
	return fields
}

package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_BasicWriting(t *testing.T) {
	// Test: Basic write operations
	w := NewWriter("\t")

	w.Write("hello")
	w.Writef(" %s", "world")

	assert.Equal(t, "hello world", w.String())
}

func TestWriter_Indentation(t *testing.T) {
	// Test: Lines are indented when they start, not when continued
	w := NewWriter("\t")

	w.WriteLine("func main() {")
	w.Indent()
	w.Write("fmt.Println(")
	w.Write(`"hello")`)
	w.Newline()
	w.Dedent()
	w.Dedent()
	w.WriteLine("}")

	assert.Equal(t, "func main() {\n\tfmt.Println(\"hello\")\n}\n", w.String())
}

func TestWriter_BlankLine(t *testing.T) {
	// Test: BlankLine never stacks and never leads
	w := NewWriter("  ")

	w.BlankLine()
	w.WriteLine("a")
	w.BlankLine()
	w.BlankLine()
	w.WriteLine("b")

	assert.Equal(t, "a\n\nb\n", w.String())
	assert.Equal(t, []byte("a\n\nb\n"), w.Bytes())
}

func TestWriter_WriteBlock(t *testing.T) {
	w := NewWriter("  ")

	w.WriteBlock("message A {", "}", func() {
		w.WriteDocComment("//", " first\nsecond ")
		w.WriteLinef("string a = %d;", 1)
	})
	w.WriteDocComment("//", "")

	assert.Equal(t, "message A {\n  // first\n  // second\n  string a = 1;\n}\n", w.String())
}

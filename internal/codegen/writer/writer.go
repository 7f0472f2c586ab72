// Package writer builds indented source text line by line.
package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates generated code and tracks the indentation of the
// next line
type Writer struct {
	sb           strings.Builder
	indentLevel  int
	indentString string
	needsIndent  bool
}

// NewWriter creates a new code writer indenting with indentString
func NewWriter(indentString string) *Writer {
	return &Writer{
		indentString: indentString,
		needsIndent:  true,
	}
}

// Indent increases the indentation of the following lines
func (w *Writer) Indent() {
	w.indentLevel++
}

// Dedent decreases the indentation of the following lines
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Write writes s, indenting it when it starts a line
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(strings.Repeat(w.indentString, w.indentLevel))
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
}

func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

func (w *Writer) WriteLinef(format string, args ...any) {
	w.Writef(format, args...)
	w.Newline()
}

func (w *Writer) Newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
}

// BlankLine ends the paragraph unless the output is empty or already
// ends with a blank line
func (w *Writer) BlankLine() {
	if w.sb.Len() > 0 && !strings.HasSuffix(w.sb.String(), "\n\n") {
		w.Newline()
	}
}

func (w *Writer) String() string {
	return w.sb.String()
}

func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

// WriteBlock writes content inside a block with proper indentation
// Example: WriteBlock("switch sel {", "}", func() { w.WriteLine("case 0:") })
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// WriteDocComment writes doc as line comments with the given prefix,
// "//" for Go and proto sources
func (w *Writer) WriteDocComment(prefix, doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSpace(doc), "\n") {
		w.WriteLinef("%s %s", prefix, strings.TrimSpace(line))
	}
}

// Package gen provides the target-independent emission framework:
// an indented text writer, identifier mangling, and the typed layer that
// maps the input language's numeric types onto a target's storage types.
package gen

import (
	"fmt"
	"strconv"
	"strings"
)

// Writer accumulates generated source text with indentation tracking.
// Backends embed it; one Writer instance owns exactly one output buffer.
type Writer struct {
	sb     strings.Builder
	indent int
}

// Emit appends s without indentation or newline handling.
func (w *Writer) Emit(s string) {
	w.sb.WriteString(s)
}

// Emitf appends formatted text without indentation.
func (w *Writer) Emitf(format string, args ...any) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

// EmitIndent appends the current indentation.
func (w *Writer) EmitIndent() {
	w.sb.WriteString(w.IndentStr())
}

// EmitLine appends one indented line. An empty s emits a blank line.
func (w *Writer) EmitLine(s string) {
	if s == "" {
		w.sb.WriteString("\n")
		return
	}
	w.sb.WriteString(w.IndentStr())
	w.sb.WriteString(s)
	w.sb.WriteString("\n")
}

// EmitLinef appends one indented formatted line.
func (w *Writer) EmitLinef(format string, args ...any) {
	w.EmitLine(fmt.Sprintf(format, args...))
}

// IncIndent increases the indentation by one level.
func (w *Writer) IncIndent() { w.indent++ }

// DecIndent decreases the indentation by one level.
func (w *Writer) DecIndent() { w.indent-- }

// IndentStr returns the current indentation prefix.
func (w *Writer) IndentStr() string {
	return strings.Repeat("\t", w.indent)
}

// OpenBlock emits an opening brace line and indents.
func (w *Writer) OpenBlock() {
	w.EmitLine("{")
	w.IncIndent()
}

// CloseBlock unindents and emits the closing brace line.
func (w *Writer) CloseBlock() {
	w.DecIndent()
	w.EmitLine("}")
}

// LoopVar returns the conventional induction-variable name for a nested
// counted loop at the given depth.
func LoopVar(depth int) string {
	return "_i" + strconv.Itoa(depth)
}

// OpenLoop emits the canonical counted-loop header for nested array
// initialization and indents into its body. keyword is the target's
// induction-variable declaration keyword.
func (w *Writer) OpenLoop(keyword string, depth, limit int) {
	v := LoopVar(depth)
	w.EmitLinef("for (%s %s = 0; %s < %d; %s++) {", keyword, v, v, limit, v)
	w.IncIndent()
}

// String returns everything emitted so far.
func (w *Writer) String() string {
	return w.sb.String()
}

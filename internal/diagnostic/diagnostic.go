// Package diagnostic collects translation errors and warnings and
// formats them as single-line reports.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity is the severity level of a diagnostic message.
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the report keyword of the severity level.
func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is a single message with its source position.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Message  string
}

// Diagnostics manages a collection of diagnostic messages.
type Diagnostics struct {
	items []Diagnostic
}

// New creates an empty collection.
func New() *Diagnostics {
	return &Diagnostics{}
}

// Errorf adds an error with a formatted message.
func (d *Diagnostics) Errorf(file string, line int, format string, args ...any) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		File:     file,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warningf adds a warning with a formatted message.
func (d *Diagnostics) Warningf(file string, line int, format string, args ...any) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		File:     file,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any error-level diagnostic was added.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// All returns every diagnostic in insertion order.
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the number of diagnostics.
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// Format renders the collection one report per line:
//
//	path(line): ERROR: msg
func (d *Diagnostics) Format() string {
	var sb strings.Builder
	for i, item := range d.items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s(%d): %s: %s", item.File, item.Line, item.Severity, item.Message))
	}
	return sb.String()
}

package diag

import (
	"fmt"
	"sort"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageParser    Stage = "parser"
	StageTypeCheck Stage = "typecheck"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// LabeledSpan represents a span with an optional label (like Rust's primary/secondary labels).
type LabeledSpan struct {
	Span  Span
	Label string // Optional label (e.g., "expected `int`, found `float`")
	Style string // "primary" or "secondary" - primary spans are emphasized
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Type checker errors
	CodeTypeRedefinition           Code = "TYPE_REDEFINITION"
	CodeTypeUndefinedIdentifier    Code = "TYPE_UNDEFINED_IDENTIFIER"
	CodeTypeMismatch               Code = "TYPE_MISMATCH"
	CodeTypeNotAnLvalue            Code = "TYPE_NOT_AN_LVALUE"
	CodeTypeNotCallable            Code = "TYPE_NOT_CALLABLE"
	CodeTypeConditionNotBool       Code = "TYPE_CONDITION_NOT_BOOL"
	CodeTypeLoopControlOutside     Code = "TYPE_LOOP_CONTROL_OUTSIDE_LOOP"
	CodeTypeUnknownType            Code = "TYPE_UNKNOWN_TYPE"
	CodeTypeConstraintNotSatisfied Code = "TYPE_CONSTRAINT_NOT_SATISFIED"
	CodeTypeInvalidGeneric         Code = "TYPE_INVALID_GENERIC"

	// Type checker warnings
	CodeTypeShadowedBinding Code = "TYPE_SHADOWED_BINDING"

	// Syntax tree decoding
	CodeParserMalformedTree Code = "PARSER_MALFORMED_TREE"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span   // Primary span
	Related  []Span // Other locations involved, e.g. a previous definition
	// LabeledSpans allows multiple spans with labels (like Rust's error format)
	// The first span is treated as primary, others as secondary
	LabeledSpans []LabeledSpan
	Notes        []string // Additional notes to display
	Help         string
}

// IsError reports whether the diagnostic fails the compilation.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError || d.Severity == ""
}

// WithRelated returns a new diagnostic with the given related span added.
func (d Diagnostic) WithRelated(span Span) Diagnostic {
	d.Related = append(d.Related, span)
	return d
}

// WithLabeledSpan adds a labeled span to the diagnostic.
func (d Diagnostic) WithLabeledSpan(span Span, label string, style string) Diagnostic {
	if style == "" {
		style = "primary"
	}
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{
		Span:  span,
		Label: label,
		Style: style,
	})
	return d
}

// WithPrimarySpan adds a primary labeled span.
func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "primary")
}

// WithSecondarySpan adds a secondary labeled span.
func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "secondary")
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// HasErrors reports whether any diagnostic in ds is an error.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Count returns the number of errors and warnings in ds.
func Count(ds []Diagnostic) (errors, warnings int) {
	for _, d := range ds {
		switch {
		case d.IsError():
			errors++
		case d.Severity == SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// Sort orders diagnostics by file and position, keeping emission order for
// diagnostics at the same location.
func Sort(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i].Span, ds[j].Span
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

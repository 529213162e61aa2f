package types

import (
	"fmt"

	"github.com/malphas-lang/sema/internal/diag"
	"github.com/malphas-lang/sema/internal/lexer"
)

// toDiagSpan converts a lexer.Span to a diag.Span.
func (c *Checker) toDiagSpan(span lexer.Span) diag.Span {
	return diag.Span{
		Filename: span.Filename,
		Line:     span.Line,
		Column:   span.Column,
		Start:    span.Start,
		End:      span.End,
	}
}

func (c *Checker) reportError(code diag.Code, msg string, span lexer.Span) {
	c.reportErrorWithCode(msg, span, code, "", nil)
}

func (c *Checker) reportErrorWithCode(msg string, span lexer.Span, code diag.Code, help string, related []lexer.Span) {
	diagSpan := c.toDiagSpan(span)
	var relatedSpans []diag.Span
	for _, r := range related {
		relatedSpans = append(relatedSpans, c.toDiagSpan(r))
	}

	d := diag.Diagnostic{
		Stage:    diag.StageTypeCheck,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  msg,
		Help:     help,
		Span:     diagSpan,
		Related:  relatedSpans,
	}

	// Add primary span if valid
	if diagSpan.IsValid() {
		d = d.WithPrimarySpan(diagSpan, "")
	}

	c.ok = false
	c.Errors = append(c.Errors, d)
}

// reportRedefinition reports a symbol declared twice in one scope. The
// earlier declaration stays authoritative.
func (c *Checker) reportRedefinition(name fmt.Stringer, span lexer.Span, prev lexer.Span) {
	d := diag.Diagnostic{
		Stage:    diag.StageTypeCheck,
		Severity: diag.SeverityError,
		Code:     diag.CodeTypeRedefinition,
		Message:  fmt.Sprintf("symbol '%s' already defined", name),
		Span:     c.toDiagSpan(span),
		Related:  []diag.Span{c.toDiagSpan(prev)},
	}
	if span.Line > 0 {
		d = d.WithPrimarySpan(c.toDiagSpan(span), "redefined here")
	}
	if prev.Line > 0 {
		d = d.WithSecondarySpan(c.toDiagSpan(prev), "previous location here")
	}

	c.ok = false
	c.Errors = append(c.Errors, d)
}

func (c *Checker) reportMismatch(msg string, span lexer.Span) {
	c.reportError(diag.CodeTypeMismatch, msg, span)
}

// reportWarning records a diagnostic that does not fail the check.
func (c *Checker) reportWarning(code diag.Code, msg string, span lexer.Span, related lexer.Span, label string) {
	d := diag.Diagnostic{
		Stage:    diag.StageTypeCheck,
		Severity: diag.SeverityWarning,
		Code:     code,
		Message:  msg,
		Span:     c.toDiagSpan(span),
	}
	if span.Line > 0 {
		d = d.WithPrimarySpan(c.toDiagSpan(span), "")
	}
	if related.Line > 0 {
		d = d.WithRelated(c.toDiagSpan(related)).WithSecondarySpan(c.toDiagSpan(related), label)
	}
	c.Errors = append(c.Errors, d)
}

// typeString renders t for a diagnostic message.
func (c *Checker) typeString(t Type) string {
	return c.Table.String(t)
}

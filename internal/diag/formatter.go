package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	out         io.Writer
	sourceCache map[string]string // Cache of source files by filename
}

// NewFormatter creates a new diagnostic formatter writing to out.
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{
		out:         out,
		sourceCache: make(map[string]string),
	}
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// AddSource registers source text for filename so snippets can be shown
// without reading the file system.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// Format formats and prints a diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	// Group spans by file, keeping first-seen order
	var files []string
	spansByFile := make(map[string][]LabeledSpan)
	for _, span := range spans {
		filename := span.Span.Filename
		if _, seen := spansByFile[filename]; !seen {
			files = append(files, filename)
		}
		spansByFile[filename] = append(spansByFile[filename], span)
	}

	f.printHeader(d)

	for _, filename := range files {
		src, err := f.LoadSource(filename)
		if err != nil || src == "" {
			for _, span := range spansByFile[filename] {
				f.printLocation(span)
			}
			continue
		}
		f.printFileSpans(filename, src, spansByFile[filename])
	}

	f.printHelp(d)
}

// FormatAll formats every diagnostic in ds, stopping after limit errors
// when limit is positive. It returns the number of diagnostics printed.
func (f *Formatter) FormatAll(ds []Diagnostic, limit int) int {
	printed, errs := 0, 0
	for _, d := range ds {
		if d.IsError() {
			if limit > 0 && errs == limit {
				fmt.Fprintf(f.out, "too many errors\n")
				break
			}
			errs++
		}
		f.Format(d)
		printed++
	}
	return printed
}

// collectSpans collects all spans from the diagnostic, prioritizing LabeledSpans.
func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

// printHeader prints the header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}

	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
}

func (f *Formatter) printLocation(span LabeledSpan) {
	if !span.Span.IsValid() {
		return
	}
	if span.Label != "" {
		fmt.Fprintf(f.out, "  --> %s: %s\n", span.Span, span.Label)
		return
	}
	fmt.Fprintf(f.out, "  --> %s\n", span.Span)
}

// printFileSpans prints source code with underlines for spans in a file.
func (f *Formatter) printFileSpans(filename string, src string, spans []LabeledSpan) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	spansByLine := make(map[int][]LabeledSpan)
	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= maxLine {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for line := range spansByLine {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)

	if len(lineNumbers) == 0 {
		return
	}

	startLine := lineNumbers[0]
	endLine := lineNumbers[len(lineNumbers)-1]

	// One line of context on either side
	contextStart := max(1, startLine-1)
	contextEnd := min(maxLine, endLine+1)

	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	gutter := strings.Repeat(" ", lineNumWidth)

	fmt.Fprintf(f.out, "  --> %s:%d:%d\n", filename, spans[0].Span.Line, spans[0].Span.Column)
	fmt.Fprintf(f.out, "   %s |\n", gutter)

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineContent := lines[lineNum-1]
		fmt.Fprintf(f.out, "  %*d | %s\n", lineNumWidth+1, lineNum, lineContent)
		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(gutter, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(f.out, "   %s |\n", gutter)
}

// printUnderlines prints ^ under primary spans and ~ under secondary ones.
func (f *Formatter) printUnderlines(gutter string, lineContent string, spans []LabeledSpan) {
	underline := []byte(strings.Repeat(" ", len(lineContent)))

	mark := func(span LabeledSpan, ch byte) {
		start := max(0, span.Span.Column-1)
		end := min(len(underline), start+max(1, span.Span.End-span.Span.Start))
		for i := start; i < end; i++ {
			if underline[i] == ' ' {
				underline[i] = ch
			}
		}
	}
	for _, span := range spans {
		if span.Style == "primary" {
			mark(span, '^')
		}
	}
	for _, span := range spans {
		if span.Style == "secondary" {
			mark(span, '~')
		}
	}

	trimmed := strings.TrimRight(string(underline), " ")
	if trimmed == "" {
		return
	}

	var labels []string
	for _, span := range spans {
		if span.Label != "" {
			labels = append(labels, span.Label)
		}
	}

	fmt.Fprintf(f.out, "   %s | %s", gutter, trimmed)
	if len(labels) > 0 {
		fmt.Fprintf(f.out, " %s", strings.Join(labels, "; "))
	}
	fmt.Fprintln(f.out)
}

// printHelp prints notes, help text and related locations.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}

	if d.Help != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	}

	// Related spans already shown as labeled spans are not repeated
	for _, related := range d.Related {
		if !related.IsValid() || f.hasLabeled(d, related) {
			continue
		}
		fmt.Fprintf(f.out, "  = note: related location at %s\n", related.String())
	}
}

func (f *Formatter) hasLabeled(d Diagnostic, span Span) bool {
	for _, ls := range d.LabeledSpans {
		if ls.Span == span {
			return true
		}
	}
	return false
}

// formatSimple formats a diagnostic without source code (fallback).
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  --> %s\n", d.Span.String())
	}
	f.printHelp(d)
}

// Package diagfmt renders diagnostics for humans.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"workpack/internal/diag"
	"workpack/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	for _, d := range bag.Items() {
		printHeader(w, fs, d.Severity, d.Code, d.Primary, d.Message, opts)
		printContext(w, fs, d.Primary, opts)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				printNote(w, fs, n, opts)
			}
		}
	}
}

// Short prints one line per diagnostic without source context.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	for _, d := range bag.Items() {
		printHeader(w, fs, d.Severity, d.Code, d.Primary, d.Message, opts)
	}
}

// addressable reports whether the span points into a file the set holds.
// IO-уровневые диагностики приходят с нулевым span без файла.
func addressable(fs *source.FileSet, span source.Span) bool {
	if span == (source.Span{}) {
		return false
	}
	return int(span.File) < fs.Len()
}

func printHeader(w io.Writer, fs *source.FileSet, sev diag.Severity, code diag.Code, span source.Span, msg string, opts PrettyOpts) {
	sevLabel := sev.String()
	codeLabel := code.ID()
	if opts.Color {
		sevLabel = severityColor(sev).Sprint(sevLabel)
		codeLabel = color.New(color.Bold).Sprint(codeLabel)
	}

	if !addressable(fs, span) {
		fmt.Fprintf(w, "%s %s: %s\n", sevLabel, codeLabel, msg)
		return
	}

	file := fs.Get(span.File)
	pos := file.LineCol(span.Start)
	path := file.FormatPath(opts.PathMode.formatMode(), fs.BaseDir())

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, pos.Line, pos.Col, sevLabel, codeLabel, msg)
}

func printNote(w io.Writer, fs *source.FileSet, n diag.Note, opts PrettyOpts) {
	label := "note"
	if opts.Color {
		label = color.New(color.FgCyan).Sprint(label)
	}
	if !addressable(fs, n.Span) {
		fmt.Fprintf(w, "%s: %s\n", label, n.Msg)
		return
	}

	file := fs.Get(n.Span.File)
	pos := file.LineCol(n.Span.Start)
	path := file.FormatPath(opts.PathMode.formatMode(), fs.BaseDir())

	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, pos.Line, pos.Col, label, n.Msg)
	printContext(w, fs, n.Span, opts)
}

// printContext prints the primary line with a ^~~~ marker under the span.
// Многострочные span'ы подчёркиваются до конца первой строки.
func printContext(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	if !addressable(fs, span) {
		return
	}
	file := fs.Get(span.File)
	start := file.LineCol(span.Start)
	lineBytes := file.LineContent(start.Line)
	if lineBytes == nil {
		return
	}
	line := string(lineBytes)

	startCol := int(start.Col) - 1
	if startCol > len(line) {
		startCol = len(line)
	}

	endCol := len(line)
	if end := file.LineCol(span.End); end.Line == start.Line && int(end.Col)-1 < endCol {
		endCol = int(end.Col) - 1
	}
	if endCol < startCol {
		endCol = startCol
	}

	pad := strings.Repeat(" ", runewidth.StringWidth(line[:startCol]))
	width := runewidth.StringWidth(line[startCol:endCol])
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = color.New(color.FgGreen, color.Bold).Sprint(marker)
	}

	fmt.Fprintf(w, "  %s\n", line)
	fmt.Fprintf(w, "  %s%s\n", pad, marker)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

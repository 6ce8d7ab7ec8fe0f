package codegen

import (
	"errors"
	"fmt"
	"sort"

	"workpack/internal/ast"
	"workpack/internal/diag"
	"workpack/internal/source"
)

// ErrNoPatches is returned when a render pass produced no applicable edits.
var ErrNoPatches = errors.New("no applicable patches")

// Render runs every patch's visitor and produces span edits against the
// file's current content. Stale sites and overlapping patches are reported
// through rep and skipped; rendering never fails the caller.
func Render(file *source.File, exprs *ast.Exprs, patches []Patch, rep diag.Reporter) []TextEdit {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	printer := ast.NewPrinter(exprs)

	edits := make([]TextEdit, 0, len(patches))
	for _, p := range patches {
		ex := exprs.Get(p.Site)
		if ex == nil || p.Replace == nil {
			rep.Report(diag.GenStaleSite, diag.SevWarning, source.Span{File: file.ID},
				fmt.Sprintf("patch site %d is not addressable in this generation", p.Site), nil)
			continue
		}
		span := ex.Span
		if span.File != file.ID || int(span.End) > len(file.Content) || span.Start > span.End {
			rep.Report(diag.GenStaleSite, diag.SevWarning, span,
				"patch span is outside the file content", nil)
			continue
		}

		newID := p.Replace(p.Site)
		edits = append(edits, TextEdit{
			Span:    span,
			OldText: string(file.Content[span.Start:span.End]),
			NewText: printer.Print(newID),
		})
	}

	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.Start == edits[j].Span.Start {
			return edits[i].Span.End < edits[j].Span.End
		}
		return edits[i].Span.Start < edits[j].Span.Start
	})

	// пересечения отбрасываем: один узел — один патч на поколение
	kept := edits[:0]
	for _, e := range edits {
		if len(kept) > 0 && spansOverlap(kept[len(kept)-1].Span, e.Span) {
			rep.Report(diag.GenPatchConflict, diag.SevWarning, e.Span,
				"patch overlaps a previously registered patch; skipped", nil)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// ApplyEdits splices sorted, non-overlapping edits into content, back to
// front so earlier offsets stay valid. The original slice is not modified.
func ApplyEdits(content []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return nil, ErrNoPatches
	}

	sorted := append([]TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start == sorted[j].Span.Start {
			return sorted[i].Span.End > sorted[j].Span.End
		}
		return sorted[i].Span.Start > sorted[j].Span.Start
	})

	working := append([]byte(nil), content...)
	for _, edit := range sorted {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		if start < 0 || end < start || end > len(working) {
			return nil, fmt.Errorf("edit span %s out of range", edit.Span)
		}
		if edit.OldText != "" && string(working[start:end]) != edit.OldText {
			return nil, fmt.Errorf("edit span %s: existing text does not match expected content", edit.Span)
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], []byte(edit.NewText)...), suffix...)
	}
	return working, nil
}

// spansOverlap treats spans as half-open [Start, End) intervals.
func spansOverlap(a, b source.Span) bool {
	if a.File != b.File {
		return false
	}
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

package diag

import (
	"testing"

	"workpack/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)

	if !bag.Add(Diagnostic{Code: ScanInfo}) {
		t.Error("first Add should succeed")
	}
	if !bag.Add(Diagnostic{Code: ScanInfo}) {
		t.Error("second Add should succeed")
	}
	if bag.Add(Diagnostic{Code: ScanInfo}) {
		t.Error("third Add should be rejected by the cap")
	}
	if bag.Len() != 2 {
		t.Errorf("expected 2 items, got %d", bag.Len())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevInfo, Code: ResolveInfo})

	if bag.HasWarnings() || bag.HasErrors() {
		t.Error("info-only bag should have no warnings or errors")
	}

	bag.Add(Diagnostic{Severity: SevWarning, Code: ResolveFailed})
	if !bag.HasWarnings() {
		t.Error("expected HasWarnings after warning")
	}
	if bag.HasErrors() {
		t.Error("warning must not count as error")
	}

	bag.Add(Diagnostic{Severity: SevError, Code: ResolveFailed})
	if !bag.HasErrors() {
		t.Error("expected HasErrors after error")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevWarning, Code: ResolveFailed, Primary: source.Span{File: 1, Start: 5, End: 9}})
	bag.Add(Diagnostic{Severity: SevError, Code: ScanUnterminatedArgs, Primary: source.Span{File: 0, Start: 7, End: 8}})
	bag.Add(Diagnostic{Severity: SevError, Code: ResolveFailed, Primary: source.Span{File: 0, Start: 2, End: 4}})

	bag.Sort()

	items := bag.Items()
	if items[0].Primary.Start != 2 || items[1].Primary.Start != 7 || items[2].Primary.File != 1 {
		t.Errorf("unexpected order after Sort: %+v", items)
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Code: GenInfo})

	b := NewBag(2)
	b.Add(Diagnostic{Code: GenPatchConflict})
	b.Add(Diagnostic{Code: GenStaleSite})

	a.Merge(b)
	if a.Len() != 3 {
		t.Errorf("expected merged length 3, got %d", a.Len())
	}
	if a.Cap() < 3 {
		t.Errorf("expected cap to grow to at least 3, got %d", a.Cap())
	}
}

package refs

import (
	"testing"

	"workpack/internal/ast"
	"workpack/internal/chunk"
	"workpack/internal/diag"
	"workpack/internal/resolve"
	"workpack/internal/source"
)

// stubResolver resolves from a fixed table; misses are reported like the
// real resolver would.
type stubResolver struct {
	table map[string]string // request -> target path
	calls []stubCall
}

type stubCall struct {
	origin  string
	request string
	kind    resolve.Kind
	sev     diag.Severity
}

func (s *stubResolver) Resolve(origin, request string, kind resolve.Kind, issue source.Span, sev diag.Severity, rep diag.Reporter) resolve.Result {
	s.calls = append(s.calls, stubCall{origin: origin, request: request, kind: kind, sev: sev})
	if target, ok := s.table[request]; ok {
		return resolve.Result{Targets: []resolve.Target{{Path: target}}}
	}
	if rep != nil {
		rep.Report(diag.ResolveFailed, sev, issue, "cannot resolve "+request, nil)
	}
	return resolve.Result{}
}

func TestStringification(t *testing.T) {
	for _, request := range []string{"./w.js", "../shared/worker", "worker.mjs", ""} {
		r := New("src/main.js", request, ast.NoExpr, source.Span{}, false, false)
		want := "new Worker " + request
		if got := r.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestChunkingTypeAlwaysAsync(t *testing.T) {
	refs := []*WorkerReference{
		New("a.js", "./w.js", 1, source.Span{}, false, false),
		New("b.js", "./missing.js", 2, source.Span{}, true, true),
		New("c.js", "", ast.NoExpr, source.Span{}, false, false),
	}
	for _, r := range refs {
		if r.ChunkingType() != chunk.TypeAsync {
			t.Errorf("%s: chunking type must be async, got %v", r, r.ChunkingType())
		}
	}
}

func TestResolveSeverityFollowsInTry(t *testing.T) {
	stub := &stubResolver{}

	New("src/main.js", "./w.js", 1, source.Span{}, false, false).Resolve(stub, diag.NopReporter{})
	New("src/main.js", "./w.js", 1, source.Span{}, true, false).Resolve(stub, diag.NopReporter{})

	if len(stub.calls) != 2 {
		t.Fatalf("expected 2 resolver calls, got %d", len(stub.calls))
	}
	if stub.calls[0].sev != diag.SevError {
		t.Errorf("outside try: expected SevError, got %v", stub.calls[0].sev)
	}
	if stub.calls[1].sev != diag.SevWarning {
		t.Errorf("inside try: expected SevWarning, got %v", stub.calls[1].sev)
	}
	for _, c := range stub.calls {
		if c.kind != resolve.KindWorkerURL {
			t.Errorf("expected worker-url reference kind, got %v", c.kind)
		}
	}
}

func TestResolveFailureIsEmptyNotFatal(t *testing.T) {
	stub := &stubResolver{}
	bag := diag.NewBag(10)

	r := New("src/main.js", "./missing.js", 1, source.Span{File: 0, Start: 4, End: 8}, false, false)
	res := r.Resolve(stub, diag.BagReporter{Bag: bag})

	if res.Resolved() {
		t.Error("expected empty result")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ResolveFailed {
		t.Fatalf("expected one ResolveFailed diagnostic, got %+v", bag.Items())
	}
}

func TestDigestStructural(t *testing.T) {
	a := New("src/main.js", "./w.js", 3, source.Span{File: 1, Start: 10, End: 30}, false, false)
	b := New("src/main.js", "./w.js", 3, source.Span{File: 1, Start: 10, End: 30}, false, false)
	if a.Digest() != b.Digest() {
		t.Error("equal descriptors must have equal digests")
	}

	variants := []*WorkerReference{
		New("src/other.js", "./w.js", 3, source.Span{File: 1, Start: 10, End: 30}, false, false),
		New("src/main.js", "./v.js", 3, source.Span{File: 1, Start: 10, End: 30}, false, false),
		New("src/main.js", "./w.js", 4, source.Span{File: 1, Start: 10, End: 30}, false, false),
		New("src/main.js", "./w.js", 3, source.Span{File: 2, Start: 10, End: 30}, false, false),
		New("src/main.js", "./w.js", 3, source.Span{File: 1, Start: 10, End: 30}, true, false),
		New("src/main.js", "./w.js", 3, source.Span{File: 1, Start: 10, End: 30}, false, true),
	}
	for i, v := range variants {
		if v.Digest() == a.Digest() {
			t.Errorf("variant %d should produce a different digest", i)
		}
	}
}

// Полезно для ловли случайной зависимости от разделителей полей.
func TestDigestFieldBoundaries(t *testing.T) {
	a := New("ab", "c", 1, source.Span{}, false, false)
	b := New("a", "bc", 1, source.Span{}, false, false)
	if a.Digest() == b.Digest() {
		t.Error("field boundaries must be part of the digest")
	}
}

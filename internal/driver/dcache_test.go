package driver

import (
	"testing"

	"workpack/internal/diag"
	"workpack/internal/memo"
	"workpack/internal/resolve"
	"workpack/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	res := resolve.Result{Targets: []resolve.Target{
		{Path: "src/w.js"},
		{Path: "vendor/lib.js", External: true},
	}}
	key := resolveKey("src/main.js", "./w.js", resolve.KindWorkerURL)

	if err := cache.Put(key, resultToPayload(res)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var payload ResolvePayload
	ok, err := cache.Get(key, &payload)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}

	got := payloadToResult(&payload)
	if len(got.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(got.Targets))
	}
	if got.Targets[0] != res.Targets[0] || got.Targets[1] != res.Targets[1] {
		t.Errorf("round trip mismatch: %+v", got.Targets)
	}
}

func TestDiskCacheMiss(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	var payload ResolvePayload
	ok, err := cache.Get(resolveKey("a", "b", resolve.KindWorkerURL), &payload)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected a miss on an empty cache")
	}
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	payload := &ResolvePayload{Schema: diskCacheSchemaVersion + 1, Paths: []string{"x"}, External: []bool{false}}
	if res := payloadToResult(payload); res.Resolved() {
		t.Error("a foreign schema must decode to an unresolved result")
	}
}

func TestDiskCacheNilReceiver(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(memo.Key{}, &ResolvePayload{}); err != nil {
		t.Errorf("nil Put must be a no-op, got %v", err)
	}
	if ok, err := cache.Get(memo.Key{}, &ResolvePayload{}); ok || err != nil {
		t.Errorf("nil Get must miss, got ok=%t err=%v", ok, err)
	}
}

// countingResolver записывает, сколько раз его реально спрашивали.
type countingResolver struct {
	calls  int
	result resolve.Result
}

func (c *countingResolver) Resolve(origin, request string, kind resolve.Kind, issue source.Span, sev diag.Severity, rep diag.Reporter) resolve.Result {
	c.calls++
	return c.result
}

func TestCachingResolverMemoizesHits(t *testing.T) {
	inner := &countingResolver{result: resolve.Result{Targets: []resolve.Target{{Path: "w.js"}}}}
	mem, err := memo.New[resolve.Result](8)
	if err != nil {
		t.Fatalf("memo: %v", err)
	}
	r := NewCachingResolver(inner, mem, nil)

	for i := 0; i < 3; i++ {
		res := r.Resolve("main.js", "./w.js", resolve.KindWorkerURL, source.Span{}, diag.SevError, nil)
		if !res.Resolved() {
			t.Fatal("expected a resolved result")
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected exactly one real resolution, got %d", inner.calls)
	}
}

func TestCachingResolverDoesNotCacheFailures(t *testing.T) {
	inner := &countingResolver{} // всегда пустой результат
	mem, err := memo.New[resolve.Result](8)
	if err != nil {
		t.Fatalf("memo: %v", err)
	}
	r := NewCachingResolver(inner, mem, nil)

	r.Resolve("main.js", "./nope.js", resolve.KindWorkerURL, source.Span{}, diag.SevError, nil)
	r.Resolve("main.js", "./nope.js", resolve.KindWorkerURL, source.Span{}, diag.SevError, nil)
	if inner.calls != 2 {
		t.Errorf("failures must be re-resolved every time, got %d calls", inner.calls)
	}
}

func TestCachingResolverDiskPersistence(t *testing.T) {
	dir := t.TempDir()
	disk, err := OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	first := &countingResolver{result: resolve.Result{Targets: []resolve.Target{{Path: "w.js"}}}}
	r1 := NewCachingResolver(first, nil, disk)
	r1.Resolve("main.js", "./w.js", resolve.KindWorkerURL, source.Span{}, diag.SevError, nil)

	// Новое "поколение" с тем же диском: запрос обслуживается с диска.
	second := &countingResolver{}
	r2 := NewCachingResolver(second, nil, disk)
	res := r2.Resolve("main.js", "./w.js", resolve.KindWorkerURL, source.Span{}, diag.SevError, nil)
	if !res.Resolved() || res.Targets[0].Path != "w.js" {
		t.Fatalf("expected the persisted result, got %+v", res)
	}
	if second.calls != 0 {
		t.Errorf("disk hit must not reach the inner resolver, got %d calls", second.calls)
	}
}

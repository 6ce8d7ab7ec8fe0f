package chunk

import (
	"testing"

	"workpack/internal/ast"
	"workpack/internal/resolve"
	"workpack/internal/source"
)

func buildArg(exprs *ast.Exprs) ast.ExprID {
	return exprs.NewString("./w.js", source.Span{})
}

func TestMapAsyncChunk(t *testing.T) {
	exprs := ast.NewExprs(0)
	env := &Environment{Loading: LoadingBrowser}

	builder, err := DefaultMapper{}.Map("./w.js", "src/main.js", env,
		resolve.Result{Targets: []resolve.Target{{Path: "src/w.js"}}}, LoaderAsyncChunk)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	got := ast.NewPrinter(exprs).Print(builder.Build(exprs, buildArg(exprs), false))
	want := `__workpack_worker_async__("/_chunks/src/w.js")`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMapChunkItem(t *testing.T) {
	exprs := ast.NewExprs(0)
	env := &Environment{Loading: LoadingEdge}

	builder, err := DefaultMapper{}.Map("./w.js", "src/main.js", env,
		resolve.Result{Targets: []resolve.Target{{Path: "src/w.js"}}}, LoaderChunkItem)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	got := ast.NewPrinter(exprs).Print(builder.Build(exprs, buildArg(exprs), false))
	want := `__workpack_worker_item__("src/w.js")`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMapUnresolvedPassthrough(t *testing.T) {
	exprs := ast.NewExprs(0)
	env := &Environment{Loading: LoadingBrowser}

	builder, err := DefaultMapper{}.Map("./missing.js", "src/main.js", env, resolve.Result{}, LoaderAsyncChunk)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	arg := exprs.NewString("./missing.js", source.Span{})
	got := ast.NewPrinter(exprs).Print(builder.Build(exprs, arg, false))
	want := `__workpack_worker_async__("./missing.js")`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMapExternalImport(t *testing.T) {
	exprs := ast.NewExprs(0)
	env := &Environment{Loading: LoadingNode, Externals: true}

	res := resolve.Result{Targets: []resolve.Target{{Path: "node_modules/lib/w.js", External: true}}}
	builder, err := DefaultMapper{}.Map("lib/w.js", "src/main.js", env, res, LoaderAsyncChunk)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	got := ast.NewPrinter(exprs).Print(builder.Build(exprs, buildArg(exprs), true))
	want := `__workpack_worker_external__("lib/w.js")`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	exprs := ast.NewExprs(0)
	env := &Environment{Loading: LoadingBrowser}

	builder, err := DefaultMapper{}.Map("./w.js", "src/main.js", env,
		resolve.Result{Targets: []resolve.Target{{Path: "src/w.js"}}}, LoaderAsyncChunk)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	arg := buildArg(exprs)
	p := ast.NewPrinter(exprs)
	first := p.Print(builder.Build(exprs, arg, false))
	second := p.Print(builder.Build(exprs, arg, false))
	if first != second {
		t.Errorf("builder output differs across invocations: %q vs %q", first, second)
	}
}

func TestParseLoading(t *testing.T) {
	tests := []struct {
		in   string
		want Loading
		ok   bool
	}{
		{"browser", LoadingBrowser, true},
		{"", LoadingBrowser, true},
		{"node", LoadingNode, true},
		{"edge", LoadingEdge, true},
		{"Edge", LoadingEdge, true},
		{"deno", LoadingBrowser, false},
	}
	for _, tt := range tests {
		got, err := ParseLoading(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseLoading(%q): unexpected err %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseLoading(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

package chunk

import (
	"path"

	"workpack/internal/ast"
	"workpack/internal/resolve"
	"workpack/internal/source"
)

// Runtime helpers the emitted expressions call into. The bundler runtime
// provides them; this component only references them by name.
const (
	helperWorkerAsync    = "__workpack_worker_async__"
	helperWorkerItem     = "__workpack_worker_item__"
	helperWorkerExternal = "__workpack_worker_external__"
)

// ImportBuilder builds the import expression that replaces one worker
// construction. arg is the original URL argument expression; builders are
// pure against one arena, so building twice yields structurally identical
// expressions.
type ImportBuilder interface {
	Build(exprs *ast.Exprs, arg ast.ExprID, importExternals bool) ast.ExprID
}

// PatternMapper maps a resolve result and loader kind to an ImportBuilder.
type PatternMapper interface {
	Map(request, origin string, ctx Context, res resolve.Result, kind LoaderKind) (ImportBuilder, error)
}

// DefaultMapper is the built-in pattern mapping.
type DefaultMapper struct{}

// Map picks the builder for the first resolved target. An empty resolve
// result maps to a passthrough builder that addresses the raw argument, so
// the failure stays confined to the one call site at runtime.
func (DefaultMapper) Map(request, origin string, ctx Context, res resolve.Result, kind LoaderKind) (ImportBuilder, error) {
	helper := helperWorkerAsync
	if kind == LoaderChunkItem {
		helper = helperWorkerItem
	}

	if !res.Resolved() {
		return passthroughBuilder{helper: helper}, nil
	}

	target := res.Targets[0]
	if target.External {
		return externalBuilder{request: request}, nil
	}

	addr := target.Path
	if kind == LoaderAsyncChunk {
		// внешняя загрузка — адресуем чанк по публичному пути
		addr = path.Join(ctx.ChunkBase(), target.Path)
	}
	return targetBuilder{helper: helper, addr: addr}, nil
}

// targetBuilder addresses a resolved in-graph target.
type targetBuilder struct {
	helper string
	addr   string
}

func (b targetBuilder) Build(exprs *ast.Exprs, arg ast.ExprID, importExternals bool) ast.ExprID {
	span := spanOf(exprs, arg)
	callee := exprs.NewIdent(b.helper, span)
	addr := exprs.NewString(b.addr, span)
	return exprs.NewCall(callee, []ast.Arg{{Expr: addr}}, span)
}

// passthroughBuilder addresses the original argument when nothing resolved.
type passthroughBuilder struct {
	helper string
}

func (b passthroughBuilder) Build(exprs *ast.Exprs, arg ast.ExprID, importExternals bool) ast.ExprID {
	span := spanOf(exprs, arg)
	callee := exprs.NewIdent(b.helper, span)
	return exprs.NewCall(callee, []ast.Arg{{Expr: arg}}, span)
}

// externalBuilder addresses a module outside the bundled graph.
type externalBuilder struct {
	request string
}

func (b externalBuilder) Build(exprs *ast.Exprs, arg ast.ExprID, importExternals bool) ast.ExprID {
	span := spanOf(exprs, arg)
	callee := exprs.NewIdent(helperWorkerExternal, span)
	if !importExternals {
		// внешний модуль без импорта — оставляем исходный аргумент
		return exprs.NewCall(callee, []ast.Arg{{Expr: arg}}, span)
	}
	req := exprs.NewString(b.request, span)
	return exprs.NewCall(callee, []ast.Arg{{Expr: req}}, span)
}

func spanOf(exprs *ast.Exprs, id ast.ExprID) source.Span {
	if ex := exprs.Get(id); ex != nil {
		return ex.Span
	}
	return source.Span{}
}

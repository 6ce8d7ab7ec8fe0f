package refs

import (
	"fmt"

	"workpack/internal/ast"
	"workpack/internal/chunk"
	"workpack/internal/codegen"
	"workpack/internal/diag"
	"workpack/internal/resolve"
	"workpack/internal/trace"
)

// Fallback messages synthesized into the replacement when the construction
// violates the required single-non-spread-argument shape. The exact text is
// part of the runtime contract.
const (
	MsgNoArguments = "new Worker() expressions require at least 1 argument"
	MsgSpreadArg   = "spread operator is illegal in new Worker() expressions."
	MsgNotCallExpr = "visitor must be executed on a CallExpr"
)

// CodeGeneration selects the loader pattern for the target environment,
// obtains the import builder from the pattern mapper, and returns the patch
// that rewrites the construction at Site.
//
// The rewrite never aborts the build: malformed syntax degrades to a
// synthesized throw expression confined to the one call site.
func (r *WorkerReference) CodeGeneration(
	exprs *ast.Exprs,
	ctx chunk.Context,
	mapper chunk.PatternMapper,
	resolver resolve.Resolver,
	rep diag.Reporter,
	tr trace.Tracer,
) (codegen.Patch, error) {
	if tr == nil {
		tr = trace.Nop
	}

	result := r.Resolve(resolver, rep)

	loader := chunk.LoaderAsyncChunk
	if ctx.ChunkLoading() == chunk.LoadingEdge {
		loader = chunk.LoaderChunkItem
	}

	builder, err := mapper.Map(r.Request, r.Origin, ctx, result, loader)
	if err != nil {
		return codegen.Patch{}, fmt.Errorf("pattern mapping for %s: %w", r, err)
	}

	if tr.Enabled() {
		tr.Emit(trace.Point(trace.ScopeRef, "worker-ref",
			fmt.Sprintf("%s origin=%s resolved=%t loader=%s", r, r.Origin, result.Resolved(), loader)))
	}

	importExternals := r.ImportExternals

	visitor := func(old ast.ExprID) ast.ExprID {
		node := exprs.Get(old)
		if node == nil {
			return exprs.NewThrowIIFE(MsgNotCallExpr, r.IssueSpan)
		}
		if node.Kind != ast.ExprNew {
			return exprs.NewThrowIIFE(MsgNotCallExpr, node.Span)
		}
		data := exprs.News.Get(node.Payload)
		if len(data.Args) == 0 {
			return exprs.NewThrowIIFE(MsgNoArguments, node.Span)
		}
		first := data.Args[0]
		if first.Spread {
			return exprs.NewThrowIIFE(MsgSpreadArg, node.Span)
		}
		return builder.Build(exprs, first.Expr, importExternals)
	}

	return codegen.Patch{Site: r.Site, Replace: visitor}, nil
}

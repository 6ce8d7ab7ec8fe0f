// Package refs implements worker-instantiation references: resolving a
// `new Worker(<url>)` site against the module graph, classifying how the
// target is loaded, and rewriting the construction into a loader-specific
// import expression.
package refs

import (
	"crypto/sha256"
	"encoding/binary"

	"workpack/internal/ast"
	"workpack/internal/chunk"
	"workpack/internal/diag"
	"workpack/internal/resolve"
	"workpack/internal/source"
)

// Digest is the structural hash identifying one reference. Equal descriptors
// have equal digests, so derived results can be memoized per descriptor.
type Digest [32]byte

// WorkerReference identifies one worker-instantiation site. It is immutable
// after construction: every derived value (resolve result, loader pattern,
// rewritten expression) is recomputed from it.
type WorkerReference struct {
	// Origin is the referencing module's path relative to the project root.
	Origin string
	// Request is the resolvable description of the URL argument.
	Request string
	// Site addresses exactly one expression in one generation's arena.
	Site ast.ExprID
	// IssueSpan attributes diagnostics to the instantiation site.
	IssueSpan source.Span
	// InTry marks a site lexically inside a try/catch; resolution failures
	// there are warnings, not errors.
	InTry bool
	// ImportExternals selects importing externally-resolved modules over
	// inlining them.
	ImportExternals bool
}

func New(origin, request string, site ast.ExprID, issue source.Span, inTry, importExternals bool) *WorkerReference {
	return &WorkerReference{
		Origin:          origin,
		Request:         request,
		Site:            site,
		IssueSpan:       issue,
		InTry:           inTry,
		ImportExternals: importExternals,
	}
}

// String renders the reference for diagnostics and debugging.
func (r *WorkerReference) String() string {
	return "new Worker " + r.Request
}

// ChunkingType is fixed policy for this reference kind: worker scripts are
// never eagerly bundled into the referencing chunk.
func (r *WorkerReference) ChunkingType() chunk.ChunkingType {
	return chunk.TypeAsync
}

// Resolve invokes the resolver with the worker-URL reference kind and a
// severity derived from InTry. Failure yields an empty result, reported
// through rep; it is never fatal to the caller.
func (r *WorkerReference) Resolve(resolver resolve.Resolver, rep diag.Reporter) resolve.Result {
	return resolver.Resolve(
		r.Origin,
		r.Request,
		resolve.KindWorkerURL,
		r.IssueSpan,
		resolve.SeverityForTry(r.InTry),
		rep,
	)
}

// Digest computes the structural hash of the descriptor.
func (r *WorkerReference) Digest() Digest {
	h := sha256.New()
	writeStr := func(s string) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	writeU32 := func(v uint32) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], v)
		h.Write(n[:])
	}
	writeBool := func(b bool) {
		if b {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}

	writeStr(r.Origin)
	writeStr(r.Request)
	writeU32(uint32(r.Site))
	writeU32(uint32(r.IssueSpan.File))
	writeU32(r.IssueSpan.Start)
	writeU32(r.IssueSpan.End)
	writeBool(r.InTry)
	writeBool(r.ImportExternals)

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Package resolve defines the resolver contract the reference pipeline calls
// into. The real module resolution algorithm lives outside this component;
// DirResolver is the small relative-path implementation used by the CLI and
// tests.
package resolve

import (
	"workpack/internal/diag"
	"workpack/internal/source"
)

// Kind tags what produced the reference being resolved. Worker construction
// resolves under its own tag so the resolver can apply URL semantics instead
// of ordinary import semantics.
type Kind uint8

const (
	// KindEsmImport is an ordinary `import` reference.
	KindEsmImport Kind = iota
	// KindWorkerURL is a URL-like `new Worker(...)` reference.
	KindWorkerURL
)

func (k Kind) String() string {
	switch k {
	case KindEsmImport:
		return "esm-import"
	case KindWorkerURL:
		return "worker-url"
	}
	return "unknown"
}

// Target is one resolved module.
type Target struct {
	// Path is the module path relative to the project root, slash-separated.
	Path string
	// External marks a module that is not part of the bundled graph.
	External bool
}

// Result is the outcome of one resolution. A failed resolution is an empty
// target set, not an error: failure is reported through the diagnostics
// reporter and the pipeline keeps going.
type Result struct {
	Targets []Target
}

// Resolved reports whether at least one target was found.
func (r Result) Resolved() bool {
	return len(r.Targets) > 0
}

// Resolver resolves a request string against an origin module.
// Implementations report failures to rep at the given severity and return an
// empty Result; they never abort the caller.
type Resolver interface {
	Resolve(origin, request string, kind Kind, issue source.Span, sev diag.Severity, rep diag.Reporter) Result
}

// SeverityForTry derives the failure severity for a reference: inside a
// try/catch the code has its own recovery path, so a miss is only a warning.
func SeverityForTry(inTry bool) diag.Severity {
	if inTry {
		return diag.SevWarning
	}
	return diag.SevError
}

// Package codegen turns registered single-site visitors into source text
// edits. Visitors are pure (old node) -> (new node) functions; applying them
// to produce output text is a separate pass, so a rewrite is testable
// without touching any file.
package codegen

import (
	"workpack/internal/ast"
	"workpack/internal/source"
)

// ReplaceFunc is a pure single-node rewrite. It must allocate the
// replacement into the same arena and return its ID; it must not mutate
// existing nodes.
type ReplaceFunc func(old ast.ExprID) ast.ExprID

// Patch binds one rewrite to one site. No two patches of a generation may
// target overlapping sites.
type Patch struct {
	Site    ast.ExprID
	Replace ReplaceFunc
}

// TextEdit is one span replacement in a file. OldText is the expected
// current content; application verifies it before splicing.
type TextEdit struct {
	Span    source.Span
	OldText string
	NewText string
}

package ast

import (
	"workpack/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprString
	ExprNumber
	ExprMember
	ExprCall
	ExprNew
	ExprArrow
	ExprThrow
	ExprGroup
	ExprRaw
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprString:
		return "string"
	case ExprNumber:
		return "number"
	case ExprMember:
		return "member"
	case ExprCall:
		return "call"
	case ExprNew:
		return "new"
	case ExprArrow:
		return "arrow"
	case ExprThrow:
		return "throw"
	case ExprGroup:
		return "group"
	case ExprRaw:
		return "raw"
	}
	return "unknown"
}

// Expr is the arena header of one expression: kind, span, payload index.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload uint32 // 1-based индекс в арене соответствующего kind
}

// Arg is one argument in a call or construction argument list.
// Spread отражает префикс `...` (сам spread не является отдельным узлом).
type Arg struct {
	Spread bool
	Expr   ExprID
}

type (
	ExprIdentData  struct{ Name string }
	ExprStringData struct{ Value string }
	ExprNumberData struct{ Text string }
	ExprMemberData struct {
		Object   ExprID
		Property string
	}
	ExprCallData struct {
		Callee ExprID
		Args   []Arg
	}
	ExprNewData struct {
		Callee ExprID
		Args   []Arg
	}
	// ExprArrowData is a zero-parameter arrow. A Throw body prints as a block.
	ExprArrowData struct{ Body ExprID }
	ExprThrowData struct{ Arg ExprID }
	ExprGroupData struct{ Inner ExprID }
	// ExprRawData carries a verbatim source slice for argument shapes the
	// scanner does not model structurally.
	ExprRawData struct{ Text string }
)

package ast

import (
	"workpack/internal/source"
)

// Exprs manages allocation of expressions for one parse generation.
type Exprs struct {
	Arena   *Arena[Expr]
	Idents  *Arena[ExprIdentData]
	Strings *Arena[ExprStringData]
	Numbers *Arena[ExprNumberData]
	Members *Arena[ExprMemberData]
	Calls   *Arena[ExprCallData]
	News    *Arena[ExprNewData]
	Arrows  *Arena[ExprArrowData]
	Throws  *Arena[ExprThrowData]
	Groups  *Arena[ExprGroupData]
	Raws    *Arena[ExprRawData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint.
// If capHint is 0, a default capacity of 1<<6 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Exprs{
		Arena:   NewArena[Expr](capHint),
		Idents:  NewArena[ExprIdentData](capHint),
		Strings: NewArena[ExprStringData](capHint),
		Numbers: NewArena[ExprNumberData](capHint),
		Members: NewArena[ExprMemberData](capHint),
		Calls:   NewArena[ExprCallData](capHint),
		News:    NewArena[ExprNewData](capHint),
		Arrows:  NewArena[ExprArrowData](capHint),
		Throws:  NewArena[ExprThrowData](capHint),
		Groups:  NewArena[ExprGroupData](capHint),
		Raws:    NewArena[ExprRawData](capHint),
	}
}

func (e *Exprs) alloc(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression header for the given ID, or nil.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewIdent(name string, span source.Span) ExprID {
	return e.alloc(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) NewString(value string, span source.Span) ExprID {
	return e.alloc(ExprString, span, e.Strings.Allocate(ExprStringData{Value: value}))
}

func (e *Exprs) NewNumber(text string, span source.Span) ExprID {
	return e.alloc(ExprNumber, span, e.Numbers.Allocate(ExprNumberData{Text: text}))
}

func (e *Exprs) NewMember(object ExprID, property string, span source.Span) ExprID {
	return e.alloc(ExprMember, span, e.Members.Allocate(ExprMemberData{Object: object, Property: property}))
}

func (e *Exprs) NewCall(callee ExprID, args []Arg, span source.Span) ExprID {
	return e.alloc(ExprCall, span, e.Calls.Allocate(ExprCallData{Callee: callee, Args: args}))
}

func (e *Exprs) NewNew(callee ExprID, args []Arg, span source.Span) ExprID {
	return e.alloc(ExprNew, span, e.News.Allocate(ExprNewData{Callee: callee, Args: args}))
}

func (e *Exprs) NewArrow(body ExprID, span source.Span) ExprID {
	return e.alloc(ExprArrow, span, e.Arrows.Allocate(ExprArrowData{Body: body}))
}

func (e *Exprs) NewThrow(arg ExprID, span source.Span) ExprID {
	return e.alloc(ExprThrow, span, e.Throws.Allocate(ExprThrowData{Arg: arg}))
}

func (e *Exprs) NewGroup(inner ExprID, span source.Span) ExprID {
	return e.alloc(ExprGroup, span, e.Groups.Allocate(ExprGroupData{Inner: inner}))
}

func (e *Exprs) NewRaw(text string, span source.Span) ExprID {
	return e.alloc(ExprRaw, span, e.Raws.Allocate(ExprRawData{Text: text}))
}

// IdentData returns the payload of an ident expression, or nil on kind mismatch.
func (e *Exprs) IdentData(id ExprID) *ExprIdentData {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprIdent {
		return e.Idents.Get(ex.Payload)
	}
	return nil
}

// StringData returns the payload of a string literal, or nil on kind mismatch.
func (e *Exprs) StringData(id ExprID) *ExprStringData {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprString {
		return e.Strings.Get(ex.Payload)
	}
	return nil
}

// NewData returns the payload of a construction expression, or nil on kind mismatch.
func (e *Exprs) NewData(id ExprID) *ExprNewData {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprNew {
		return e.News.Get(ex.Payload)
	}
	return nil
}

// CallData returns the payload of a call expression, or nil on kind mismatch.
func (e *Exprs) CallData(id ExprID) *ExprCallData {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprCall {
		return e.Calls.Get(ex.Payload)
	}
	return nil
}

// NewThrowIIFE synthesizes (() => { throw new Error("<msg>"); })().
// The result is a standalone expression valid in any expression position,
// so a malformed construction degrades to a runtime failure at that one
// call site instead of breaking the surrounding statement.
func (e *Exprs) NewThrowIIFE(msg string, span source.Span) ExprID {
	msgLit := e.NewString(msg, span)
	errCtor := e.NewIdent("Error", span)
	newErr := e.NewNew(errCtor, []Arg{{Expr: msgLit}}, span)
	throw := e.NewThrow(newErr, span)
	arrow := e.NewArrow(throw, span)
	group := e.NewGroup(arrow, span)
	return e.NewCall(group, nil, span)
}

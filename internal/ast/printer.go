package ast

import (
	"fmt"
	"strings"
)

// Printer renders expressions back to JavaScript text. Rendering is pure:
// the same arena and ID always produce the same text.
type Printer struct {
	exprs *Exprs
}

func NewPrinter(exprs *Exprs) *Printer {
	return &Printer{exprs: exprs}
}

// Print renders one expression. Unknown or null IDs render as "undefined"
// so that the result stays a valid expression.
func (p *Printer) Print(id ExprID) string {
	var sb strings.Builder
	p.print(&sb, id)
	return sb.String()
}

func (p *Printer) print(sb *strings.Builder, id ExprID) {
	ex := p.exprs.Get(id)
	if ex == nil {
		sb.WriteString("undefined")
		return
	}
	switch ex.Kind {
	case ExprIdent:
		sb.WriteString(p.exprs.Idents.Get(ex.Payload).Name)
	case ExprString:
		sb.WriteString(QuoteJS(p.exprs.Strings.Get(ex.Payload).Value))
	case ExprNumber:
		sb.WriteString(p.exprs.Numbers.Get(ex.Payload).Text)
	case ExprMember:
		data := p.exprs.Members.Get(ex.Payload)
		p.print(sb, data.Object)
		sb.WriteByte('.')
		sb.WriteString(data.Property)
	case ExprCall:
		data := p.exprs.Calls.Get(ex.Payload)
		p.print(sb, data.Callee)
		p.printArgs(sb, data.Args)
	case ExprNew:
		data := p.exprs.News.Get(ex.Payload)
		sb.WriteString("new ")
		p.print(sb, data.Callee)
		p.printArgs(sb, data.Args)
	case ExprArrow:
		data := p.exprs.Arrows.Get(ex.Payload)
		body := p.exprs.Get(data.Body)
		if body != nil && body.Kind == ExprThrow {
			// тело-throw печатаем блоком
			sb.WriteString("() => { ")
			p.print(sb, data.Body)
			sb.WriteString("; }")
			return
		}
		sb.WriteString("() => ")
		p.print(sb, data.Body)
	case ExprThrow:
		data := p.exprs.Throws.Get(ex.Payload)
		sb.WriteString("throw ")
		p.print(sb, data.Arg)
	case ExprGroup:
		sb.WriteByte('(')
		p.print(sb, p.exprs.Groups.Get(ex.Payload).Inner)
		sb.WriteByte(')')
	case ExprRaw:
		sb.WriteString(p.exprs.Raws.Get(ex.Payload).Text)
	default:
		sb.WriteString("undefined")
	}
}

func (p *Printer) printArgs(sb *strings.Builder, args []Arg) {
	sb.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if arg.Spread {
			sb.WriteString("...")
		}
		p.print(sb, arg.Expr)
	}
	sb.WriteByte(')')
}

// QuoteJS renders a string as a double-quoted JS string literal.
func QuoteJS(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(fmt.Sprintf(`\u%04x`, r))
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

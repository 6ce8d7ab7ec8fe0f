// Package scan discovers worker-instantiation sites in JavaScript source.
// It is not a JS parser: it walks the bytes skipping strings and comments,
// tracks try-block nesting, and parses only the argument list of
// `new Worker(...)` constructions into the expression arena.
package scan

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"workpack/internal/ast"
	"workpack/internal/diag"
	"workpack/internal/refs"
	"workpack/internal/source"
)

// Options controls descriptor construction.
type Options struct {
	// ImportExternals is copied onto every descriptor.
	ImportExternals bool
	// Origin overrides the descriptor origin. Empty means the file's path.
	// Callers that load files by joined paths pass the root-relative form
	// here so resolvers see origins relative to their root.
	Origin string
}

type scanner struct {
	src   []byte
	pos   int
	file  *source.File
	exprs *ast.Exprs
	rep   diag.Reporter

	braceDepth int
	tryStack   []int // глубины скобок, на которых открыты try-блоки
	pendingTry bool
}

// File scans one file and returns a descriptor per discovered site.
// Scan problems are reported through rep; the scan itself never fails.
func File(file *source.File, exprs *ast.Exprs, rep diag.Reporter, opts Options) []*refs.WorkerReference {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	if _, err := safecast.Conv[uint32](len(file.Content)); err != nil {
		panic(fmt.Errorf("file content overflow: %w", err))
	}

	s := &scanner{
		src:   file.Content,
		file:  file,
		exprs: exprs,
		rep:   rep,
	}

	var found []*refs.WorkerReference
	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		case c == '\'' || c == '"':
			s.skipString(c)
		case c == '`':
			s.skipTemplate()
		case c == '{':
			s.braceDepth++
			if s.pendingTry {
				s.tryStack = append(s.tryStack, s.braceDepth-1)
				s.pendingTry = false
			}
			s.pos++
		case c == '}':
			s.braceDepth--
			if n := len(s.tryStack); n > 0 && s.tryStack[n-1] == s.braceDepth {
				s.tryStack = s.tryStack[:n-1]
			}
			s.pos++
		case isIdentStart(c) && !s.prevIsIdent():
			word, start := s.readWord()
			switch word {
			case "try":
				s.pendingTry = true
			case "new":
				if ref := s.tryWorkerSite(start, opts); ref != nil {
					found = append(found, ref)
				}
			default:
				s.pendingTry = false
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.pos++
		default:
			// любой другой токен разрывает связку try → {
			s.pendingTry = false
			s.pos++
		}
	}
	return found
}

// tryWorkerSite is entered with pos just past the `new` keyword. It returns
// nil when the construction is not `new Worker(` or the argument list is
// malformed beyond recovery.
func (s *scanner) tryWorkerSite(newStart int, opts Options) *refs.WorkerReference {
	save := s.pos

	s.skipTrivia()
	calleeStart := s.pos
	word, _ := s.readWord()
	if word != "Worker" {
		s.pos = save
		return nil
	}
	calleeSpan := s.span(calleeStart, s.pos)

	s.skipTrivia()
	if s.pos >= len(s.src) || s.src[s.pos] != '(' {
		s.pos = save
		return nil
	}
	s.pos++ // '('

	args, closed := s.parseArgs()
	if !closed {
		s.rep.Report(diag.ScanUnterminatedArgs, diag.SevError, s.span(newStart, s.pos),
			"unterminated new Worker() argument list", nil)
		return nil
	}

	siteSpan := s.span(newStart, s.pos)
	callee := s.exprs.NewIdent("Worker", calleeSpan)
	site := s.exprs.NewNew(callee, args, siteSpan)

	request := ""
	if len(args) > 0 && !args[0].Spread {
		if data := s.exprs.StringData(args[0].Expr); data != nil {
			request = data.Value
		} else if s.exprs.Get(args[0].Expr) != nil {
			request = ast.NewPrinter(s.exprs).Print(args[0].Expr)
		}
	}

	origin := opts.Origin
	if origin == "" {
		origin = s.file.Path
	}

	return refs.New(
		origin,
		request,
		site,
		siteSpan,
		len(s.tryStack) > 0,
		opts.ImportExternals,
	)
}

// parseArgs consumes up to and including the closing paren. closed is false
// when the list runs off the end of the file.
func (s *scanner) parseArgs() (args []ast.Arg, closed bool) {
	for {
		s.skipTrivia()
		if s.pos >= len(s.src) {
			return args, false
		}
		if s.src[s.pos] == ')' {
			s.pos++
			return args, true
		}

		spread := false
		if strings.HasPrefix(string(s.src[s.pos:]), "...") {
			spread = true
			s.pos += 3
			s.skipTrivia()
		}

		expr, ok := s.parseArgExpr()
		if !ok {
			return args, false
		}
		args = append(args, ast.Arg{Spread: spread, Expr: expr})

		s.skipTrivia()
		if s.pos < len(s.src) && s.src[s.pos] == ',' {
			s.pos++
			continue
		}
	}
}

// parseArgExpr parses one argument: a string literal becomes a structured
// node, anything else is captured as balanced raw text (or an ident).
func (s *scanner) parseArgExpr() (ast.ExprID, bool) {
	start := s.pos
	c := s.src[s.pos]

	if c == '\'' || c == '"' {
		value, ok := s.parseStringLiteral(c)
		if !ok {
			return ast.NoExpr, false
		}
		return s.exprs.NewString(value, s.span(start, s.pos)), true
	}

	depth := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\'' || c == '"':
			s.skipString(c)
			continue
		case c == '`':
			s.skipTemplate()
			continue
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
			continue
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth == 0 && c == ')' {
				return s.finishRawArg(start), true
			}
			depth--
		case c == ',' && depth == 0:
			return s.finishRawArg(start), true
		}
		s.pos++
	}
	return ast.NoExpr, false
}

func (s *scanner) finishRawArg(start int) ast.ExprID {
	text := strings.TrimSpace(string(s.src[start:s.pos]))
	span := s.span(start, s.pos)
	if isIdentText(text) {
		return s.exprs.NewIdent(text, span)
	}
	return s.exprs.NewRaw(text, span)
}

// parseStringLiteral consumes a quoted literal and returns its value with
// common escapes decoded.
func (s *scanner) parseStringLiteral(quote byte) (string, bool) {
	s.pos++ // открывающая кавычка
	var sb strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case quote:
			s.pos++
			return sb.String(), true
		case '\\':
			if s.pos+1 >= len(s.src) {
				break
			}
			s.pos++
			switch s.src[s.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(s.src[s.pos])
			}
			s.pos++
		case '\n':
			// строка не может пережить перевод строки
			s.rep.Report(diag.ScanUnterminatedStr, diag.SevError, s.span(s.pos, s.pos),
				"unterminated string literal", nil)
			return "", false
		default:
			sb.WriteByte(c)
			s.pos++
		}
	}
	s.rep.Report(diag.ScanUnterminatedStr, diag.SevError, s.span(s.pos, s.pos),
		"unterminated string literal", nil)
	return "", false
}

func (s *scanner) skipString(quote byte) {
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		s.pos++
		if c == quote || c == '\n' {
			return
		}
	}
}

func (s *scanner) skipTemplate() {
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		s.pos++
		if c == '`' {
			return
		}
	}
}

func (s *scanner) skipLineComment() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) skipBlockComment() {
	s.pos += 2
	for s.pos < len(s.src) {
		if s.src[s.pos] == '*' && s.peek(1) == '/' {
			s.pos += 2
			return
		}
		s.pos++
	}
}

func (s *scanner) skipTrivia() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.pos++
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		default:
			return
		}
	}
}

func (s *scanner) readWord() (string, int) {
	start := s.pos
	for s.pos < len(s.src) && isIdentChar(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos]), start
}

func (s *scanner) peek(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *scanner) prevIsIdent() bool {
	if s.pos == 0 {
		return false
	}
	return isIdentChar(s.src[s.pos-1])
}

func (s *scanner) span(start, end int) source.Span {
	return source.Span{File: s.file.ID, Start: uint32(start), End: uint32(end)}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isIdentText(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if i == 0 && !isIdentStart(text[i]) {
			return false
		}
		if !isIdentChar(text[i]) {
			return false
		}
	}
	return true
}

package parser

import (
	"fmt"
	"strings"

	"sentra/internal/lexer"
)

// Parser consumes a token buffer with a single cursor, as specified in
// §4.4. It is resilient: a syntax error is recorded and parsing continues
// from the offending token rather than aborting, so a single bad line
// doesn't prevent reporting the rest.
type Parser struct {
	tokens  []lexer.Token
	current int
	source  string
	file    string
	Errors  []*SyntaxError
}

// SyntaxError carries the offending span and a source snippet, per §4.4.
type SyntaxError struct {
	Message string
	Span    Span
	Snippet string
}

func (e *SyntaxError) Error() string { return e.Message }

func New(tokens []lexer.Token, source, file string) *Parser {
	return &Parser{tokens: tokens, source: source, file: file}
}

func (p *Parser) errorAt(sp Span, format string, args ...any) {
	line, col := lexer.Position(p.source, sp.Start)
	snippet := p.lineAt(sp.Start)
	p.Errors = append(p.Errors, &SyntaxError{
		Message: fmt.Sprintf("%s:%d:%d: %s", p.file, line, col, fmt.Sprintf(format, args...)),
		Span:    sp,
		Snippet: snippet,
	})
}

func (p *Parser) lineAt(offset int) string {
	start := strings.LastIndexByte(p.source[:offset], '\n') + 1
	end := strings.IndexByte(p.source[offset:], '\n')
	if end < 0 {
		return p.source[start:]
	}
	return p.source[start : offset+end]
}

// --- token stream helpers --------------------------------------------------

func (p *Parser) peek() lexer.Token      { return p.tokens[p.current] }
func (p *Parser) peekAt(n int) lexer.Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}
func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.TokenEOF }

func (p *Parser) advance() lexer.Token {
	t := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return t
}

func (p *Parser) check(t lexer.TokenType) bool { return p.peek().Type == t }

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(t lexer.TokenType, what string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	tok := p.peek()
	p.errorAt(Span{tok.Start, tok.End}, "expected %s, found %q", what, tok.Lexeme)
	return tok
}

// skipNewlines consumes statement-separator noise (newlines/semicolons)
// between statements; the grammar treats them as equivalent terminators.
func (p *Parser) skipNewlines() {
	for p.match(lexer.TokenNewline, lexer.TokenSemicolon) {
	}
}

func (p *Parser) sp(start int) Span { return Span{start, p.tokens[p.current-1].End} }

// --- entry point ------------------------------------------------------------

// Parse consumes the whole token buffer as a sequence of top-level
// statements.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	p.skipNewlines()
	for !p.isAtEnd() {
		stmts = append(stmts, p.statement())
		p.skipNewlines()
	}
	return stmts
}

func (p *Parser) block() []Stmt {
	if p.match(lexer.TokenComma, lexer.TokenColon) {
		return []Stmt{p.statement()}
	}
	p.expect(lexer.TokenLBrace, "'{'")
	p.skipNewlines()
	var stmts []Stmt
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		stmts = append(stmts, p.statement())
		p.skipNewlines()
	}
	p.expect(lexer.TokenRBrace, "'}'")
	return stmts
}

package parser

import "sentra/internal/lexer"

func (p *Parser) primary() Expr {
	if lam, ok := p.tryLambda(); ok {
		return lam
	}
	start := p.peek().Start
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenInt, lexer.TokenFloat, lexer.TokenNone, lexer.TokenTrue,
		lexer.TokenFalse, lexer.TokenInf, lexer.TokenNan, lexer.TokenEllipsis:
		p.advance()
		return &Literal{base{p.sp(start)}, tok.Type, tok.Lexeme}
	case lexer.TokenString:
		p.advance()
		return &Literal{base{p.sp(start)}, lexer.TokenString, tok.Lexeme}
	case lexer.TokenRegex:
		p.advance()
		return &RegexLiteral{base{p.sp(start)}, tok.Lexeme}
	case lexer.TokenName:
		p.advance()
		return &Ident{base{p.sp(start)}, tok.Lexeme}
	case lexer.TokenLParen:
		p.advance()
		if p.check(lexer.TokenRParen) {
			p.advance()
			return &TupleLit{base{p.sp(start)}, nil}
		}
		first := p.expression()
		if p.match(lexer.TokenComma) {
			elems := []Expr{first}
			for !p.check(lexer.TokenRParen) && !p.isAtEnd() {
				elems = append(elems, p.expression())
				if !p.match(lexer.TokenComma) {
					break
				}
			}
			p.expect(lexer.TokenRParen, "')'")
			return &TupleLit{base{p.sp(start)}, elems}
		}
		p.expect(lexer.TokenRParen, "')'")
		return first
	case lexer.TokenLBracket:
		return p.listLit(start)
	case lexer.TokenLBrace:
		return p.braceLit(start)
	case lexer.TokenFunc:
		p.advance()
		return p.funcLit(start, false)
	case lexer.TokenType_:
		p.advance()
		return p.typeLit(start)
	default:
		p.errorAt(Span{tok.Start, tok.End}, "unexpected token %q", tok.Lexeme)
		p.advance()
		return &Literal{base{p.sp(start)}, lexer.TokenNone, "none"}
	}
}

func (p *Parser) listLit(start int) Expr {
	p.expect(lexer.TokenLBracket, "'['")
	if p.check(lexer.TokenRBracket) {
		p.advance()
		return &ListLit{base: base{p.sp(start)}}
	}
	first := p.expression()
	if p.match(lexer.TokenFor) {
		name := p.expect(lexer.TokenName, "loop variable").Lexeme
		p.expect(lexer.TokenIn, "'in'")
		iter := p.expression()
		p.expect(lexer.TokenRBracket, "']'")
		return &ListLit{base{p.sp(start)}, []Expr{first}, name, iter}
	}
	elems := []Expr{first}
	for p.match(lexer.TokenComma) {
		if p.check(lexer.TokenRBracket) {
			break
		}
		elems = append(elems, p.expression())
	}
	p.expect(lexer.TokenRBracket, "']'")
	return &ListLit{base: base{p.sp(start)}, Elements: elems}
}

// braceLit parses `{ }` (empty dict), `{k: v, ...}` (dict) or `{a, b, ...}`
// (set); a bare `{...}` containing only colon-free elements is a set.
func (p *Parser) braceLit(start int) Expr {
	p.expect(lexer.TokenLBrace, "'{'")
	if p.check(lexer.TokenRBrace) {
		p.advance()
		return &DictLit{base: base{p.sp(start)}}
	}
	firstKey := p.expression()
	if p.match(lexer.TokenColon) {
		firstVal := p.expression()
		d := &DictLit{base: base{p.sp(start)}, Keys: []Expr{firstKey}, Values: []Expr{firstVal}}
		for p.match(lexer.TokenComma) {
			if p.check(lexer.TokenRBrace) {
				break
			}
			k := p.expression()
			p.expect(lexer.TokenColon, "':'")
			v := p.expression()
			d.Keys = append(d.Keys, k)
			d.Values = append(d.Values, v)
		}
		p.expect(lexer.TokenRBrace, "'}'")
		return d
	}
	s := &SetLit{base: base{p.sp(start)}, Elements: []Expr{firstKey}}
	for p.match(lexer.TokenComma) {
		if p.check(lexer.TokenRBrace) {
			break
		}
		s.Elements = append(s.Elements, p.expression())
	}
	p.expect(lexer.TokenRBrace, "'}'")
	return s
}

package parser

import "sentra/internal/lexer"

func (p *Parser) statement() Stmt {
	start := p.peek().Start
	switch {
	case p.match(lexer.TokenImport):
		return p.importStmt(start)
	case p.match(lexer.TokenRet):
		return p.retStmt(start)
	case p.match(lexer.TokenThrow):
		v := p.expression()
		return &ThrowStmt{base{p.sp(start)}, v}
	case p.match(lexer.TokenAssert):
		return p.assertStmt(start)
	case p.match(lexer.TokenBreak):
		return &BreakStmt{base{p.sp(start)}}
	case p.match(lexer.TokenCont):
		return &ContStmt{base{p.sp(start)}}
	case p.check(lexer.TokenIf):
		p.advance()
		return p.ifStmt(start)
	case p.check(lexer.TokenWhile):
		p.advance()
		return p.whileStmt(start)
	case p.check(lexer.TokenFor):
		p.advance()
		return p.forStmt(start)
	case p.check(lexer.TokenTry):
		p.advance()
		return p.tryStmt(start)
	case p.check(lexer.TokenFunc) && p.peekAt(1).Type == lexer.TokenName:
		p.advance()
		fn := p.funcLit(start, true)
		return &FuncDeclStmt{base{p.sp(start)}, fn}
	case p.check(lexer.TokenType_):
		p.advance()
		ty := p.typeLit(start)
		return &TypeDeclStmt{base{p.sp(start)}, ty}
	default:
		e := p.expression()
		return &ExprStmt{base{p.sp(start)}, e}
	}
}

func (p *Parser) importStmt(start int) Stmt {
	var path []string
	path = append(path, p.expect(lexer.TokenName, "module name").Lexeme)
	for p.match(lexer.TokenDot) {
		path = append(path, p.expect(lexer.TokenName, "module name").Lexeme)
	}
	return &ImportStmt{base{p.sp(start)}, path}
}

func (p *Parser) retStmt(start int) Stmt {
	if p.check(lexer.TokenNewline) || p.check(lexer.TokenSemicolon) || p.check(lexer.TokenRBrace) || p.isAtEnd() {
		return &RetStmt{base{p.sp(start)}, nil}
	}
	v := p.expression()
	return &RetStmt{base{p.sp(start)}, v}
}

func (p *Parser) assertStmt(start int) Stmt {
	snippetStart := p.peek().Start
	cond := p.expression()
	var msg Expr
	if p.match(lexer.TokenComma) {
		msg = p.expression()
	}
	snippet := p.source[snippetStart:p.tokens[p.current-1].End]
	return &AssertStmt{base{p.sp(start)}, cond, msg, snippet}
}

func (p *Parser) ifStmt(start int) Stmt {
	cond := p.expression()
	body := p.block()
	s := &IfStmt{base: base{}, Cond: cond, Body: body}
	for p.match(lexer.TokenElif) {
		c := p.expression()
		b := p.block()
		s.Elifs = append(s.Elifs, ElifClause{c, b})
	}
	if p.match(lexer.TokenElse) {
		s.Else = p.block()
	}
	s.base = base{p.sp(start)}
	return s
}

func (p *Parser) whileStmt(start int) Stmt {
	cond := p.expression()
	body := p.block()
	s := &WhileStmt{Cond: cond, Body: body}
	for p.match(lexer.TokenElif) {
		c := p.expression()
		b := p.block()
		s.Elifs = append(s.Elifs, ElifClause{c, b})
	}
	if p.match(lexer.TokenElse) {
		s.Else = p.block()
	}
	s.base = base{p.sp(start)}
	return s
}

func (p *Parser) forStmt(start int) Stmt {
	name := p.expect(lexer.TokenName, "loop variable").Lexeme
	p.expect(lexer.TokenIn, "'in'")
	iter := p.expression()
	body := p.block()
	return &ForInStmt{base{p.sp(start)}, name, iter, body}
}

func (p *Parser) tryStmt(start int) Stmt {
	body := p.block()
	s := &TryStmt{Body: body}
	for p.check(lexer.TokenCatch) {
		p.advance()
		var types []Expr
		types = append(types, p.postfix())
		for p.match(lexer.TokenPipe) {
			types = append(types, p.postfix())
		}
		name := ""
		if p.match(lexer.TokenAs) {
			name = p.expect(lexer.TokenName, "binding name").Lexeme
		}
		cb := p.block()
		s.Catches = append(s.Catches, CatchClause{types, name, cb})
	}
	if p.match(lexer.TokenFinally) {
		s.Finally = p.block()
	}
	s.base = base{p.sp(start)}
	return s
}

func (p *Parser) funcLit(start int, named bool) *FuncLit {
	name := ""
	if named {
		name = p.expect(lexer.TokenName, "function name").Lexeme
	} else if p.check(lexer.TokenName) {
		name = p.advance().Lexeme
	}
	fn := &FuncLit{Name: name, VarargIdx: -1}
	if p.match(lexer.TokenLParen) {
		for !p.check(lexer.TokenRParen) && !p.isAtEnd() {
			variadic := p.match(lexer.TokenStar)
			pname := p.expect(lexer.TokenName, "parameter name").Lexeme
			var def Expr
			if p.match(lexer.TokenEq) {
				def = p.expression()
			}
			if variadic {
				fn.VarargIdx = len(fn.Params)
			}
			fn.Params = append(fn.Params, Param{pname, def})
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.expect(lexer.TokenRParen, "')'")
	}
	fn.Body = p.block()
	fn.base = base{p.sp(start)}
	return fn
}

func (p *Parser) typeLit(start int) *TypeLit {
	ty := &TypeLit{}
	if p.check(lexer.TokenName) {
		ty.Name = p.advance().Lexeme
	}
	if p.check(lexer.TokenName) && p.peek().Lexeme == "extends" {
		p.advance()
		ty.Base = p.postfix()
	}
	ty.Body = p.block()
	ty.base = base{p.sp(start)}
	return ty
}

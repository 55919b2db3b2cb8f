package compiler

import (
	"sentra/internal/bytecode"
	"sentra/internal/container"
	"sentra/internal/object"
	"sentra/internal/parser"
)

// compileBlock compiles a statement sequence with a two-pass hoist: named
// function and type declarations are bound before the rest of the block
// runs, so mutually-recursive functions and forward type references resolve
// regardless of source order.
func (c *Compiler) compileBlock(stmts []parser.Stmt) {
	hoisted := make(map[parser.Stmt]bool)
	for _, s := range stmts {
		switch d := s.(type) {
		case *parser.FuncDeclStmt:
			c.compileStmt(d)
			hoisted[s] = true
		case *parser.TypeDeclStmt:
			c.compileStmt(d)
			hoisted[s] = true
		}
	}
	for _, s := range stmts {
		if hoisted[s] {
			continue
		}
		c.compileStmt(s)
	}
}

func (c *Compiler) compileStmt(s parser.Stmt) {
	d := c.dbg(s.span().Start)
	switch st := s.(type) {
	case *parser.ExprStmt:
		c.compileExpr(st.X)
		c.chunk.Emit(bytecode.OpPopu, d)
	case *parser.RetStmt:
		if st.Value != nil {
			c.compileExpr(st.Value)
		} else {
			idx := c.chunk.AddConstant(c.noneValue())
			c.chunk.EmitArg(bytecode.OpPush, idx, d)
		}
		c.chunk.Emit(bytecode.OpRet, d)
	case *parser.ThrowStmt:
		c.compileExpr(st.Value)
		c.chunk.Emit(bytecode.OpThrow, d)
	case *parser.AssertStmt:
		c.compileExpr(st.Cond)
		if st.Msg != nil {
			c.compileExpr(st.Msg)
		} else {
			idx := c.chunk.AddConstant(container.NewString(st.Snippet))
			c.chunk.EmitArg(bytecode.OpPush, idx, d)
		}
		snippetIdx := c.chunk.AddConstant(container.NewString(st.Snippet))
		c.chunk.EmitArg(bytecode.OpAssert, snippetIdx, d)
	case *parser.BreakStmt:
		loop := c.currentLoop()
		if loop != nil {
			loop.breaks = append(loop.breaks, c.chunk.EmitArg(bytecode.OpJmp, 0, d))
		}
	case *parser.ContStmt:
		loop := c.currentLoop()
		if loop != nil {
			rel := int32(loop.contTarget - (len(c.chunk.Code) + 5))
			c.chunk.EmitArg(bytecode.OpJmp, rel, d)
		}
	case *parser.IfStmt:
		c.compileIf(st)
	case *parser.WhileStmt:
		c.compileWhile(st)
	case *parser.ForInStmt:
		c.compileForIn(st)
	case *parser.TryStmt:
		c.compileTry(st)
	case *parser.ImportStmt:
		c.compileImport(st)
	case *parser.FuncDeclStmt:
		c.compileFuncLit(st.Fn)
		c.chunk.EmitArg(bytecode.OpStore, c.nameConst(st.Fn.Name), d)
	case *parser.TypeDeclStmt:
		c.compileTypeLit(st.Ty)
		c.chunk.EmitArg(bytecode.OpStore, c.nameConst(st.Ty.Name), d)
	default:
		panic("compiler: unhandled statement node")
	}
}

func (c *Compiler) compileIf(st *parser.IfStmt) {
	d := c.dbg(st.span().Start)
	var endJumps []int
	c.compileExpr(st.Cond)
	nextJ := c.chunk.EmitArg(bytecode.OpJmpf, 0, d)
	c.compileBlock(st.Body)
	endJumps = append(endJumps, c.chunk.EmitArg(bytecode.OpJmp, 0, d))
	c.chunk.PatchJumpHere(nextJ)
	for _, el := range st.Elifs {
		c.compileExpr(el.Cond)
		nextJ = c.chunk.EmitArg(bytecode.OpJmpf, 0, d)
		c.compileBlock(el.Body)
		endJumps = append(endJumps, c.chunk.EmitArg(bytecode.OpJmp, 0, d))
		c.chunk.PatchJumpHere(nextJ)
	}
	if st.Else != nil {
		c.compileBlock(st.Else)
	}
	for _, j := range endJumps {
		c.chunk.PatchJumpHere(j)
	}
}

// compileWhile treats an `elif`/`else` trailer on a while loop as the
// clause executed when the loop's own condition is never true (a `while`
// that never runs its body once), matching the parser's shared ElifClause
// shape with `if`.
func (c *Compiler) compileWhile(st *parser.WhileStmt) {
	d := c.dbg(st.span().Start)
	c.compileExpr(st.Cond)
	elseJ := c.chunk.EmitArg(bytecode.OpJmpf, 0, d)
	bodyJ := c.chunk.EmitArg(bytecode.OpJmp, 0, d)
	loop := c.pushLoop()
	start := len(c.chunk.Code)
	loop.contTarget = start
	c.compileExpr(st.Cond)
	exitJ := c.chunk.EmitArg(bytecode.OpJmpf, 0, d)
	c.chunk.PatchJumpHere(bodyJ)
	c.compileBlock(st.Body)
	rel := int32(start - (len(c.chunk.Code) + 5))
	c.chunk.EmitArg(bytecode.OpJmp, rel, d)
	c.chunk.PatchJumpHere(elseJ)
	if len(st.Elifs) > 0 {
		c.compileIf(&parser.IfStmt{Cond: st.Elifs[0].Cond, Body: st.Elifs[0].Body, Elifs: st.Elifs[1:], Else: st.Else})
	} else if st.Else != nil {
		c.compileBlock(st.Else)
	}
	c.chunk.PatchJumpHere(exitJ)
	l := c.popLoop()
	for _, j := range l.breaks {
		c.chunk.PatchJumpHere(j)
	}
}

func (c *Compiler) compileForIn(st *parser.ForInStmt) {
	d := c.dbg(st.span().Start)
	c.compileExpr(st.Iterable)
	c.chunk.Emit(bytecode.OpForStart, d)
	loop := c.pushLoop()
	start := len(c.chunk.Code)
	loop.contTarget = start
	exitJ := c.chunk.EmitArg(bytecode.OpForNextt, 0, d)
	c.chunk.EmitArg(bytecode.OpStore, c.nameConst(st.Var), d)
	c.compileBlock(st.Body)
	rel := int32(start - (len(c.chunk.Code) + 5))
	c.chunk.EmitArg(bytecode.OpJmp, rel, d)
	c.chunk.PatchJumpHere(exitJ)
	l := c.popLoop()
	for _, j := range l.breaks {
		c.chunk.PatchJumpHere(j)
	}
}

func (c *Compiler) compileImport(st *parser.ImportStmt) {
	d := c.dbg(st.span().Start)
	path := ""
	for i, part := range st.Path {
		if i > 0 {
			path += "."
		}
		path += part
	}
	idx := c.chunk.AddConstant(container.NewString(path))
	c.chunk.EmitArg(bytecode.OpImport, idx, d)
	c.chunk.EmitArg(bytecode.OpStore, c.nameConst(st.Path[len(st.Path)-1]), d)
}

// compileTry lowers try/catch/finally. On an exception inside the protected
// region the VM resumes at the handler's dispatch point with the raised
// exception held as the thread's pending exception (not pushed on the value
// stack, since the stack depth at that point is unspecified garbage from the
// partially-executed body). Each catch clause tests its type list in order;
// `try_catch <o>` pops a type constant and jumps to o if the pending
// exception IS an instance of it (straight to the bound catch body),
// falling through to the next test otherwise. A `finally` block always runs
// on the way out, and `finally_end` re-raises whatever exception is still
// pending after it.
func (c *Compiler) compileTry(st *parser.TryStmt) {
	d := c.dbg(st.span().Start)
	tryStart := c.chunk.EmitArg(bytecode.OpTryStart, 0, d)
	c.compileBlock(st.Body)
	tryEnd := c.chunk.EmitArg(bytecode.OpTryEnd, 0, d)
	c.chunk.PatchJumpHere(tryStart)

	var afterCatchJumps []int
	for _, cl := range st.Catches {
		var matchJumps []int
		for _, ty := range cl.Types {
			c.compileExpr(ty)
			matchJumps = append(matchJumps, c.chunk.EmitArg(bytecode.OpTryCatch, 0, d))
		}
		// None of this clause's types matched: move on to the next clause.
		skip := c.chunk.EmitArg(bytecode.OpJmp, 0, d)
		for _, j := range matchJumps {
			c.chunk.PatchJumpHere(j)
		}
		if cl.Name != "" {
			c.chunk.EmitArg(bytecode.OpStore, c.nameConst(cl.Name), d)
		} else {
			c.chunk.Emit(bytecode.OpPopu, d)
		}
		c.compileBlock(cl.Body)
		afterCatchJumps = append(afterCatchJumps, c.chunk.EmitArg(bytecode.OpJmp, 0, d))
		c.chunk.PatchJumpHere(skip)
	}
	c.chunk.PatchJumpHere(tryEnd)
	for _, j := range afterCatchJumps {
		c.chunk.PatchJumpHere(j)
	}
	if st.Finally != nil {
		c.compileBlock(st.Finally)
	}
	c.chunk.Emit(bytecode.OpFinallyEnd, d)
}

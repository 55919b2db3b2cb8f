package compiler

import (
	"fmt"
	"math"

	"sentra/internal/bytecode"
	"sentra/internal/container"
	"sentra/internal/lexer"
	"sentra/internal/numeric"
	"sentra/internal/object"
	"sentra/internal/parser"
	"sentra/internal/rx"
)

var binOpcode = map[string]bytecode.OpCode{
	"+": bytecode.OpAdd, "-": bytecode.OpSub, "*": bytecode.OpMul, "@": bytecode.OpMul,
	"/": bytecode.OpDiv, "//": bytecode.OpFloorDiv, "%": bytecode.OpMod, "**": bytecode.OpPow,
	"<<": bytecode.OpLsh, ">>": bytecode.OpRsh, "|": bytecode.OpBinIor, "&": bytecode.OpBinAnd, "^": bytecode.OpBinXor,
	"<": bytecode.OpLt, "<=": bytecode.OpLe, ">": bytecode.OpGt, ">=": bytecode.OpGe,
	"==": bytecode.OpBopEq, "!=": bytecode.OpBopNe, "===": bytecode.OpBopEeq, "in": bytecode.OpBopIn,
}

func (c *Compiler) compileExpr(e parser.Expr) {
	switch ex := e.(type) {
	case *parser.Literal:
		c.compileLiteral(ex)
	case *parser.RegexLiteral:
		re, err := rx.Compile(ex.Pattern)
		if err != nil {
			// A malformed pattern doesn't abort compiling the rest of the
			// chunk; it compiles down to a regex that only ever matches the
			// empty string, the same graceful-degradation texture
			// parseFloatText/parseIntText already use for bad numeric text.
			re = rx.Invalid(ex.Pattern)
		}
		c.emitPush(rx.NewRegex(re), ex.span())
	case *parser.Ident:
		c.chunk.EmitArg(bytecode.OpLoad, c.nameConst(ex.Name), c.dbg(ex.span().Start))
	case *parser.Unary:
		c.compileUnary(ex)
	case *parser.Binary:
		c.compileBinary(ex)
	case *parser.RichCompare:
		c.compileRichCompare(ex)
	case *parser.Ternary:
		c.compileTernary(ex)
	case *parser.Call:
		c.compileExpr(ex.Callee)
		for _, a := range ex.Args {
			c.compileExpr(a)
		}
		c.chunk.EmitArg(bytecode.OpCall, int32(len(ex.Args)), c.dbg(ex.span().Start))
	case *parser.Index:
		c.compileExpr(ex.Recv)
		for _, a := range ex.Args {
			c.compileExpr(a)
		}
		c.chunk.EmitArg(bytecode.OpGetElems, int32(len(ex.Args)), c.dbg(ex.span().Start))
	case *parser.Attr:
		c.compileExpr(ex.Recv)
		c.chunk.EmitArg(bytecode.OpGetAttr, c.nameConst(ex.Name), c.dbg(ex.span().Start))
	case *parser.Assign:
		c.compileAssign(ex)
	case *parser.ListLit:
		c.compileListLit(ex)
	case *parser.TupleLit:
		for _, el := range ex.Elements {
			c.compileExpr(el)
		}
		c.chunk.EmitArg(bytecode.OpTuple, int32(len(ex.Elements)), c.dbg(ex.span().Start))
	case *parser.SetLit:
		for _, el := range ex.Elements {
			c.compileExpr(el)
		}
		c.chunk.EmitArg(bytecode.OpSetLit, int32(len(ex.Elements)), c.dbg(ex.span().Start))
	case *parser.DictLit:
		for i := range ex.Keys {
			c.compileExpr(ex.Keys[i])
			c.compileExpr(ex.Values[i])
		}
		c.chunk.EmitArg(bytecode.OpDict, int32(len(ex.Keys)), c.dbg(ex.span().Start))
	case *parser.FuncLit:
		c.compileFuncLit(ex)
	case *parser.TypeLit:
		c.compileTypeLit(ex)
	default:
		panic("compiler: unhandled expression node")
	}
}

func (c *Compiler) emitPush(v *object.Object, sp parser.Span) {
	idx := c.chunk.AddConstant(v)
	c.chunk.EmitArg(bytecode.OpPush, idx, c.dbg(sp.Start))
}

func (c *Compiler) compileLiteral(lit *parser.Literal) {
	sp := lit.span()
	switch lit.Kind {
	case lexer.TokenInt:
		c.emitPush(numeric.NewInt(c.ctx, parseIntText(lit.Text)), sp)
	case lexer.TokenFloat:
		f := parseFloatText(lit.Text)
		if isImaginaryText(lit.Text) {
			c.emitPush(numeric.NewComplex(c.ctx, complex(0, f)), sp)
		} else {
			c.emitPush(numeric.NewFloat(c.ctx, f), sp)
		}
	case lexer.TokenString:
		c.emitPush(container.NewString(lit.Text), sp)
	case lexer.TokenTrue:
		c.emitPush(numeric.NewBool(c.ctx, true), sp)
	case lexer.TokenFalse:
		c.emitPush(numeric.NewBool(c.ctx, false), sp)
	case lexer.TokenNone:
		c.emitPush(c.noneValue(), sp)
	case lexer.TokenInf:
		c.emitPush(numeric.NewFloat(c.ctx, math.Inf(1)), sp)
	case lexer.TokenNan:
		c.emitPush(numeric.NewFloat(c.ctx, math.NaN()), sp)
	case lexer.TokenEllipsis:
		c.emitPush(object.New(c.ctx.LookupType("ellipsis"), "..."), sp)
	default:
		panic("compiler: unhandled literal kind")
	}
}

func (c *Compiler) compileUnary(u *parser.Unary) {
	c.compileExpr(u.Operand)
	switch u.Op {
	case "+":
		c.chunk.Emit(bytecode.OpUPos, c.dbg(u.span().Start))
	case "-":
		c.chunk.Emit(bytecode.OpUNeg, c.dbg(u.span().Start))
	case "~":
		c.chunk.Emit(bytecode.OpUInv, c.dbg(u.span().Start))
	case "!":
		c.chunk.Emit(bytecode.OpUopNot, c.dbg(u.span().Start))
	case "++", "--":
		// Desugars to `x = x OP 1`; only valid when operand is an lvalue.
		op := "+"
		if u.Op == "--" {
			op = "-"
		}
		assign := &parser.Assign{Op: op + "=", Target: u.Operand, Value: &parser.Literal{Kind: lexer.TokenInt, Text: "1"}}
		c.compileAssign(assign)
	default:
		panic("compiler: unhandled unary operator " + u.Op)
	}
}

func (c *Compiler) compileBinary(b *parser.Binary) {
	switch b.Op {
	case "&&":
		c.compileExpr(b.Left)
		c.chunk.Emit(bytecode.OpDup, c.dbg(b.span().Start))
		jf := c.chunk.EmitArg(bytecode.OpJmpf, 0, c.dbg(b.span().Start))
		c.chunk.Emit(bytecode.OpPopu, c.dbg(b.span().Start))
		c.compileExpr(b.Right)
		c.chunk.PatchJumpHere(jf)
		return
	case "||":
		c.compileExpr(b.Left)
		c.chunk.Emit(bytecode.OpDup, c.dbg(b.span().Start))
		jt := c.chunk.EmitArg(bytecode.OpJmpt, 0, c.dbg(b.span().Start))
		c.chunk.Emit(bytecode.OpPopu, c.dbg(b.span().Start))
		c.compileExpr(b.Right)
		c.chunk.PatchJumpHere(jt)
		return
	case "??":
		c.compileExpr(b.Left)
		noneIdx := c.chunk.AddConstant(c.noneValue())
		c.chunk.EmitArg(bytecode.OpPush, noneIdx, c.dbg(b.span().Start))
		c.chunk.EmitArg(bytecode.OpDupi, -1, c.dbg(b.span().Start))
		// none on the left, so none's eq slot decides: true only for another none.
		c.chunk.Emit(bytecode.OpBopEq, c.dbg(b.span().Start))
		jnn := c.chunk.EmitArg(bytecode.OpJmpf, 0, c.dbg(b.span().Start)) // non-none short-circuits
		c.chunk.Emit(bytecode.OpPopu, c.dbg(b.span().Start))
		c.compileExpr(b.Right)
		c.chunk.PatchJumpHere(jnn)
		return
	}
	c.compileExpr(b.Left)
	c.compileExpr(b.Right)
	op, ok := binOpcode[b.Op]
	if !ok {
		panic("compiler: unhandled binary operator " + b.Op)
	}
	c.chunk.Emit(op, c.dbg(b.span().Start))
}

// compileRichCompare lowers a chained comparison A op1 B op2 C ... into code
// that evaluates each operand exactly once and short-circuits the moment one
// link fails, per §4.4. Each interior operand is stashed in a hidden,
// compiler-generated local so it can be reused as the next link's left side
// without re-evaluating it or needing a stack-rotate primitive the opcode
// set doesn't have.
func (c *Compiler) compileRichCompare(rc *parser.RichCompare) {
	d := c.dbg(rc.span().Start)
	base := c.tmpCounter
	c.tmpCounter += len(rc.Operands)
	tmpName := func(i int) string { return fmt.Sprintf("$cmp%d", base+i) }

	c.compileExpr(rc.Operands[0])
	c.chunk.EmitArg(bytecode.OpStore, c.nameConst(tmpName(0)), d)

	var exitJumps []int
	last := len(rc.Ops) - 1
	for i, op := range rc.Ops {
		c.chunk.EmitArg(bytecode.OpLoad, c.nameConst(tmpName(i)), d)
		c.compileExpr(rc.Operands[i+1])
		if i < last {
			c.chunk.Emit(bytecode.OpDup, d)
			c.chunk.EmitArg(bytecode.OpStore, c.nameConst(tmpName(i+1)), d)
		}
		opcode, ok := binOpcode[op]
		if !ok {
			panic("compiler: unhandled comparison operator " + op)
		}
		c.chunk.Emit(opcode, d)
		if i < last {
			c.chunk.Emit(bytecode.OpDup, d)
			exitJumps = append(exitJumps, c.chunk.EmitArg(bytecode.OpJmpf, 0, d))
			c.chunk.Emit(bytecode.OpPopu, d)
		}
	}
	for _, j := range exitJumps {
		c.chunk.PatchJumpHere(j)
	}
}

func (c *Compiler) compileTernary(t *parser.Ternary) {
	d := c.dbg(t.span().Start)
	c.compileExpr(t.Cond)
	jf := c.chunk.EmitArg(bytecode.OpJmpf, 0, d)
	c.compileExpr(t.Then)
	jend := c.chunk.EmitArg(bytecode.OpJmp, 0, d)
	c.chunk.PatchJumpHere(jf)
	c.compileExpr(t.Else)
	c.chunk.PatchJumpHere(jend)
}

// compileAssign handles both plain `=` and compound `OP=` forms, and the
// three lvalue shapes: bare name, attribute, and element.
func (c *Compiler) compileAssign(a *parser.Assign) {
	d := c.dbg(a.span().Start)
	valueOp := func() {
		if a.Op == "=" {
			c.compileExpr(a.Value)
			return
		}
		c.compileExpr(a.Target)
		c.compileExpr(a.Value)
		op := binOpcode[a.Op[:len(a.Op)-1]]
		c.chunk.Emit(op, d)
	}
	switch t := a.Target.(type) {
	case *parser.Ident:
		valueOp()
		c.chunk.Emit(bytecode.OpDup, d)
		c.chunk.EmitArg(bytecode.OpStore, c.nameConst(t.Name), d)
	case *parser.Attr:
		c.compileExpr(t.Recv)
		valueOp()
		c.chunk.Emit(bytecode.OpDup, d)
		c.chunk.EmitArg(bytecode.OpSetAttr, c.nameConst(t.Name), d)
	case *parser.Index:
		c.compileExpr(t.Recv)
		for _, arg := range t.Args {
			c.compileExpr(arg)
		}
		valueOp()
		c.chunk.Emit(bytecode.OpDup, d)
		c.chunk.EmitArg(bytecode.OpSetElems, int32(len(t.Args)), d)
	default:
		panic("compiler: invalid assignment target")
	}
}

// compileListLit handles both plain list literals and the `[EXPR for NAME in
// ITER]` comprehension sugar, desugared at compile time into a call to the
// builtin `map` function applied to a one-parameter lambda.
func (c *Compiler) compileListLit(l *parser.ListLit) {
	d := c.dbg(l.span().Start)
	if l.CompVar == "" {
		for _, el := range l.Elements {
			c.compileExpr(el)
		}
		c.chunk.EmitArg(bytecode.OpList, int32(len(l.Elements)), d)
		return
	}
	lambda := &parser.FuncLit{
		VarargIdx: -1,
		Params:    []parser.Param{{Name: l.CompVar}},
		Body:      []parser.Stmt{&parser.RetStmt{Value: l.Elements[0]}},
	}
	c.chunk.EmitArg(bytecode.OpLoad, c.nameConst("map"), d)
	c.compileFuncLit(lambda)
	c.compileExpr(l.CompIter)
	c.chunk.EmitArg(bytecode.OpCall, 2, d)
}

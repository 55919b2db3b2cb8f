package compiler

import (
	"math/big"

	"sentra/internal/bytecode"
	"sentra/internal/container"
	"sentra/internal/numeric"
	"sentra/internal/object"
	"sentra/internal/parser"
)

// compileFuncLit compiles a function body into its own Chunk, pushes it as
// a code-object constant, then emits `func <k>` where k names a tuple of
// (name, params-names, vararg-index, doc). The VM's `func` handler pops the
// code object pushed just before it and builds a closure capturing the
// defining frame, so nested functions resolve enclosing locals by walking
// that chain at name-lookup time rather than through explicit upvalues.
func (c *Compiler) compileFuncLit(fn *parser.FuncLit) {
	d := c.dbg(fn.span().Start)

	// Parameters are bound by the VM's call machinery from the argument
	// list by name, not compiled here.
	sub := c.sub(fn.Name)
	bodyChunk := sub.Compile(fn.Body)
	bodyIdx := c.chunk.AddConstant(bytecode.NewCodeObject(bodyChunk))
	c.chunk.EmitArg(bytecode.OpPush, bodyIdx, d)

	paramNames := make([]*object.Object, len(fn.Params))
	var defaultExprs []parser.Expr
	for i, p := range fn.Params {
		paramNames[i] = container.NewString(p.Name)
		if p.Default != nil {
			defaultExprs = append(defaultExprs, p.Default)
		}
	}
	meta := container.NewTuple([]*object.Object{
		container.NewString(fn.Name),
		container.NewTuple(paramNames),
		numeric.NewInt(c.ctx, big.NewInt(int64(fn.VarargIdx))),
		container.NewString(fn.Doc),
	})
	metaIdx := c.chunk.AddConstant(meta)
	c.chunk.EmitArg(bytecode.OpFunc, metaIdx, d)

	if len(defaultExprs) > 0 {
		for _, de := range defaultExprs {
			c.compileExpr(de)
		}
		c.chunk.EmitArg(bytecode.OpFuncDefa, int32(len(defaultExprs)), d)
	}
}

// compileTypeLit compiles a type declaration body. Method declarations
// (`func NAME(...) { ... }`) become closures pushed alongside their name;
// bare field assignments (`x = EXPR`) are evaluated and pushed alongside
// their name too, so both land in the same members dict — a static
// approximation of "the body is evaluated with the type's attribute
// mapping as its locals": member values may be arbitrary expressions, just
// not statements with their own control flow (loops, conditionals) inside
// the body, which is the one respect in which this differs from a fully
// executed class body. The base-type expression (or none) is compiled
// first; `type <k>` pops both it and the members dict and builds the new
// Type, pushing it as a first-class value.
func (c *Compiler) compileTypeLit(ty *parser.TypeLit) {
	d := c.dbg(ty.span().Start)
	if ty.Base != nil {
		c.compileExpr(ty.Base)
	} else {
		idx := c.chunk.AddConstant(c.noneValue())
		c.chunk.EmitArg(bytecode.OpPush, idx, d)
	}

	var memberCount int32
	for _, s := range ty.Body {
		switch st := s.(type) {
		case *parser.FuncDeclStmt:
			nameIdx := c.chunk.AddConstant(container.NewString(st.Fn.Name))
			c.chunk.EmitArg(bytecode.OpPush, nameIdx, d)
			c.compileFuncLit(st.Fn)
			memberCount++
		case *parser.ExprStmt:
			if a, ok := st.X.(*parser.Assign); ok {
				if id, ok := a.Target.(*parser.Ident); ok && a.Op == "=" {
					nameIdx := c.chunk.AddConstant(container.NewString(id.Name))
					c.chunk.EmitArg(bytecode.OpPush, nameIdx, d)
					c.compileExpr(a.Value)
					memberCount++
				}
			}
		}
	}
	c.chunk.EmitArg(bytecode.OpDict, memberCount, d)

	meta := container.NewTuple([]*object.Object{
		container.NewString(ty.Name),
		container.NewString(ty.Doc),
	})
	metaIdx := c.chunk.AddConstant(meta)
	c.chunk.EmitArg(bytecode.OpTypeOp, metaIdx, d)
}

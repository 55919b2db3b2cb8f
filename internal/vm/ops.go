package vm

import (
	"sentra/internal/bytecode"
	"sentra/internal/container"
	"sentra/internal/numeric"
	"sentra/internal/object"
)

var binaryOps = map[bytecode.OpCode]object.BinaryOp{
	bytecode.OpAdd:      object.OpAdd,
	bytecode.OpSub:      object.OpSub,
	bytecode.OpMul:      object.OpMul,
	bytecode.OpDiv:      object.OpDiv,
	bytecode.OpFloorDiv: object.OpFloorDiv,
	bytecode.OpMod:      object.OpMod,
	bytecode.OpPow:      object.OpPow,
	bytecode.OpLsh:      object.OpLsh,
	bytecode.OpRsh:      object.OpRsh,
	bytecode.OpBinIor:   object.OpBinIor,
	bytecode.OpBinAnd:   object.OpBinAnd,
	bytecode.OpBinXor:   object.OpBinXor,
	bytecode.OpLt:       object.OpLt,
	bytecode.OpLe:       object.OpLe,
	bytecode.OpGt:       object.OpGt,
	bytecode.OpGe:       object.OpGe,
}

// execOperator handles every argument-less operator opcode: the binary
// arithmetic/comparison/bitwise set (dispatched through the object model's
// LHS-then-RHS-fallback rule), the three unary operators, and the five
// "bop_*"/"uop_not" opcodes that don't fit the generic binary dispatch
// table (identity, `==`/`!=` which per policy always go through `eq`
// rather than a separate identity-like slot, membership, and logical not).
func (t *Thread) execOperator(op bytecode.OpCode) *object.Object {
	if bop, ok := binaryOps[op]; ok {
		b := t.pop()
		a := t.pop()
		v, exc := object.DispatchBinary(t.ctx, bop, a, b)
		if exc != nil {
			return exc
		}
		t.push(v)
		return nil
	}

	switch op {
	case bytecode.OpUPos:
		v := t.pop()
		r, exc := object.DispatchUnary(t.ctx, func(s *object.Slots) object.UnarySlot { return s.Pos }, v)
		if exc != nil {
			return exc
		}
		t.push(r)

	case bytecode.OpUNeg:
		v := t.pop()
		r, exc := object.DispatchUnary(t.ctx, func(s *object.Slots) object.UnarySlot { return s.Neg }, v)
		if exc != nil {
			return exc
		}
		t.push(r)

	case bytecode.OpUInv:
		v := t.pop()
		r, exc := object.DispatchUnary(t.ctx, func(s *object.Slots) object.UnarySlot { return s.Sqig }, v)
		if exc != nil {
			return exc
		}
		t.push(r)

	case bytecode.OpBopEeq:
		b := t.pop()
		a := t.pop()
		t.push(numeric.NewBool(t.ctx, a == b))

	case bytecode.OpBopEq:
		b := t.pop()
		a := t.pop()
		v, exc := object.DispatchBinary(t.ctx, object.OpEq, a, b)
		if exc != nil {
			return exc
		}
		t.push(v)

	case bytecode.OpBopNe:
		b := t.pop()
		a := t.pop()
		v, exc := object.DispatchBinary(t.ctx, object.OpNe, a, b)
		if exc != nil {
			return exc
		}
		t.push(v)

	case bytecode.OpBopIn:
		b := t.pop()
		a := t.pop()
		v, exc := container.Contains(t.ctx, b, a)
		if exc != nil {
			return exc
		}
		t.push(v)

	case bytecode.OpUopNot:
		v := t.pop()
		t.push(numeric.NewBool(t.ctx, !t.ctx.Truthy(v)))

	default:
		panic("vm: unhandled opcode " + op.String())
	}
	return nil
}

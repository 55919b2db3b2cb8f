package object

// BinaryOp names the slot table entries dispatch can be driven against,
// used by the VM to pick the right field without a big type switch at every
// call site.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLsh
	OpRsh
	OpBinIor
	OpBinAnd
	OpBinXor
)

func slotFor(t *Type, op BinaryOp) BinarySlot {
	if t == nil {
		return nil
	}
	switch op {
	case OpAdd:
		return t.Slots.Add
	case OpSub:
		return t.Slots.Sub
	case OpMul:
		return t.Slots.Mul
	case OpDiv:
		return t.Slots.Div
	case OpFloorDiv:
		return t.Slots.FloorDiv
	case OpMod:
		return t.Slots.Mod
	case OpPow:
		return t.Slots.Pow
	case OpEq:
		return t.Slots.Eq
	case OpNe:
		return t.Slots.Ne
	case OpLt:
		return t.Slots.Lt
	case OpLe:
		return t.Slots.Le
	case OpGt:
		return t.Slots.Gt
	case OpGe:
		return t.Slots.Ge
	case OpLsh:
		return t.Slots.Lsh
	case OpRsh:
		return t.Slots.Rsh
	case OpBinIor:
		return t.Slots.BinIor
	case OpBinAnd:
		return t.Slots.BinAnd
	case OpBinXor:
		return t.Slots.BinXor
	}
	return nil
}

// DispatchBinary implements §4.1's three-step resolution: try the LHS slot,
// fall back to the RHS slot with operands swapped, else raise TypeError.
func DispatchBinary(ctx Ctx, op BinaryOp, a, b *Object) (*Object, *Object) {
	if slot := slotFor(TypeOf(a), op); slot != nil {
		v, exc := slot(ctx, a, b)
		if exc == nil && v == nil {
			// slot declined (e.g. NotImplemented-style signal via nil,nil)
		} else {
			return v, exc
		}
	}
	if slot := slotFor(TypeOf(b), op); slot != nil {
		v, exc := slot(ctx, b, a)
		if v != nil || exc != nil {
			return v, exc
		}
	}
	return nil, ctx.Raise("TypeError", "unsupported operand type(s) for %s: %s and %s",
		opName(op), typeName(TypeOf(a)), typeName(TypeOf(b)))
}

func typeName(t *Type) string {
	if t == nil {
		return "nil"
	}
	return t.Name
}

func opName(op BinaryOp) string {
	names := map[BinaryOp]string{
		OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpFloorDiv: "//", OpMod: "%", OpPow: "**",
		OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
		OpLsh: "<<", OpRsh: ">>", OpBinIor: "|", OpBinAnd: "&", OpBinXor: "^",
	}
	return names[op]
}

// DispatchUnary invokes a single-operand slot or raises TypeError.
func DispatchUnary(ctx Ctx, slot func(*Slots) UnarySlot, v *Object) (*Object, *Object) {
	t := TypeOf(v)
	if t == nil {
		return nil, ctx.Raise("TypeError", "operation not supported on nil")
	}
	fn := slot(&t.Slots)
	if fn == nil {
		return nil, ctx.Raise("TypeError", "object of type '%s' does not support this operation", t.Name)
	}
	return fn(ctx, v)
}

// GetAttr implements attribute lookup: first the slot (covers native types
// with computed attributes), then the instance's own attribute mapping.
func GetAttr(ctx Ctx, self *Object, name string) (*Object, *Object) {
	t := TypeOf(self)
	if t != nil && t.Slots.GetAttr != nil {
		return t.Slots.GetAttr(ctx, self, name)
	}
	if self != nil && self.Attrs != nil {
		if v, ok := self.Attrs[name]; ok {
			return v, nil
		}
	}
	return nil, ctx.Raise("AttrError", "'%s' object has no attribute '%s'", typeName(t), name)
}

// SetAttr implements attribute assignment, defaulting to the instance map.
func SetAttr(ctx Ctx, self *Object, name string, val *Object) *Object {
	t := TypeOf(self)
	if t != nil && t.Slots.SetAttr != nil {
		return t.Slots.SetAttr(ctx, self, name, val)
	}
	if self.Attrs == nil {
		self.Attrs = make(map[string]*Object)
	}
	self.Attrs[name] = val
	return nil
}

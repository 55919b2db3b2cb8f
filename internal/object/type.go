package object

// UnarySlot implements a single-operand polymorphic operation (pos, neg,
// sqig, bool, int, float, complex, str, bytes, repr, hash, len, abs, iter,
// next, free). The second return is a pending exception, nil on success.
type UnarySlot func(ctx Ctx, self *Object) (*Object, *Object)

// BinarySlot implements a two-operand polymorphic operation: the full set of
// binary arithmetic, comparison and bitwise operators.
type BinarySlot func(ctx Ctx, a, b *Object) (*Object, *Object)

// VariadicSlot implements new/init/call, which take a tuple of arguments.
type VariadicSlot func(ctx Ctx, self *Object, args []*Object) (*Object, *Object)

// AttrGetSlot/AttrSetSlot/AttrDelSlot implement attribute access.
type AttrGetSlot func(ctx Ctx, self *Object, name string) (*Object, *Object)
type AttrSetSlot func(ctx Ctx, self *Object, name string, val *Object) *Object
type AttrDelSlot func(ctx Ctx, self *Object, name string) *Object

// ElemGetSlot/ElemSetSlot/ElemDelSlot implement element (subscript) access;
// keys is variadic to support multi-index getelems/setelems.
type ElemGetSlot func(ctx Ctx, self *Object, keys []*Object) (*Object, *Object)
type ElemSetSlot func(ctx Ctx, self *Object, keys []*Object, val *Object) *Object
type ElemDelSlot func(ctx Ctx, self *Object, keys []*Object) *Object

// FreeSlot runs when an object's reference count reaches zero.
type FreeSlot func(ctx Ctx, self *Object)

// Slots is the fixed, closed slot table from §3/§4.1. A type built on top of
// a base inherits the base's table and overrides only what it changes — see
// NewType. Keeping this a flat struct of function pointers (rather than a
// map) gives O(1) dispatch with no per-call method-resolution walk.
type Slots struct {
	New  VariadicSlot
	Init VariadicSlot
	Free FreeSlot
	Call VariadicSlot

	Iter UnarySlot
	Next UnarySlot

	Bool    UnarySlot
	Int     UnarySlot
	Float   UnarySlot
	Complex UnarySlot
	Str     UnarySlot
	Bytes   UnarySlot
	Repr    UnarySlot
	Hash    UnarySlot
	Len     UnarySlot
	Abs     UnarySlot

	GetAttr AttrGetSlot
	SetAttr AttrSetSlot
	DelAttr AttrDelSlot
	GetElem ElemGetSlot
	SetElem ElemSetSlot
	DelElem ElemDelSlot

	Add, Sub, Mul, Div, FloorDiv, Mod, Pow                 BinarySlot
	Eq, Ne, Lt, Le, Gt, Ge                                 BinarySlot
	Lsh, Rsh, BinIor, BinAnd, BinXor                        BinarySlot

	Pos, Neg, Sqig UnarySlot
}

// Type is itself a heap Object (its own Type field points at the metatype,
// conventionally "type"). Slot resolution happens once, top-down, when the
// type is constructed by NewType — there is no per-call MRO computation.
type Type struct {
	Object

	Name     string
	QualName string
	Doc      string

	Base *Type

	// InstanceSize and AttrOffset mirror the spec's C-struct framing for
	// documentation/diagnostics; Go's GC makes them informational only.
	InstanceSize int
	AttrOffset   int // -1 if the type carries no attribute mapping
	HasAttrs     bool

	Slots Slots

	Children []*Type // weak in spirit: diagnostic enumeration only
}

// NewType builds a type descriptor, copying the base's slot table and then
// applying overrides. metatype is the type-of-types ("type"); pass nil only
// while bootstrapping the metatype itself.
func NewType(metatype *Type, name string, base *Type, overrides Slots, hasAttrs bool) *Type {
	t := &Type{
		Object:       Object{RefCount: 1, Type: metatype},
		Name:         name,
		QualName:     name,
		Base:         base,
		AttrOffset:   -1,
		HasAttrs:     hasAttrs,
	}
	// A type is itself a first-class value travelling on the stack (e.g.
	// the operand of `catch TYPE`, or the base expression of `type NAME
	// extends BASE`): its own embedded Object's Data points back at t, so
	// AsType can recover the descriptor from the *Object a caller holds.
	t.Object.Data = t
	if base != nil {
		t.Slots = base.Slots
		base.Children = append(base.Children, t)
	}
	applyOverrides(&t.Slots, overrides)
	if hasAttrs {
		t.AttrOffset = 0
	}
	return t
}

// Value returns t as the *Object a compiled program manipulates (types are
// instances of their metatype, so this is just t's own embedded Object).
func (t *Type) Value() *Object {
	if t == nil {
		return nil
	}
	return &t.Object
}

// AsType recovers the *Type a value represents, if o is one (constructed
// via NewType, whose Data is wired to point back at itself).
func AsType(o *Object) (*Type, bool) {
	if o == nil {
		return nil, false
	}
	ty, ok := o.Data.(*Type)
	return ty, ok
}

// applyOverrides copies every non-nil field of src onto dst. Reflection is
// avoided deliberately (spec favors a flat dispatch table over hash-keyed
// virtual tables); this is the explicit, inlinable equivalent.
func applyOverrides(dst *Slots, src Slots) {
	if src.New != nil {
		dst.New = src.New
	}
	if src.Init != nil {
		dst.Init = src.Init
	}
	if src.Free != nil {
		dst.Free = src.Free
	}
	if src.Call != nil {
		dst.Call = src.Call
	}
	if src.Iter != nil {
		dst.Iter = src.Iter
	}
	if src.Next != nil {
		dst.Next = src.Next
	}
	if src.Bool != nil {
		dst.Bool = src.Bool
	}
	if src.Int != nil {
		dst.Int = src.Int
	}
	if src.Float != nil {
		dst.Float = src.Float
	}
	if src.Complex != nil {
		dst.Complex = src.Complex
	}
	if src.Str != nil {
		dst.Str = src.Str
	}
	if src.Bytes != nil {
		dst.Bytes = src.Bytes
	}
	if src.Repr != nil {
		dst.Repr = src.Repr
	}
	if src.Hash != nil {
		dst.Hash = src.Hash
	}
	if src.Len != nil {
		dst.Len = src.Len
	}
	if src.Abs != nil {
		dst.Abs = src.Abs
	}
	if src.GetAttr != nil {
		dst.GetAttr = src.GetAttr
	}
	if src.SetAttr != nil {
		dst.SetAttr = src.SetAttr
	}
	if src.DelAttr != nil {
		dst.DelAttr = src.DelAttr
	}
	if src.GetElem != nil {
		dst.GetElem = src.GetElem
	}
	if src.SetElem != nil {
		dst.SetElem = src.SetElem
	}
	if src.DelElem != nil {
		dst.DelElem = src.DelElem
	}
	if src.Add != nil {
		dst.Add = src.Add
	}
	if src.Sub != nil {
		dst.Sub = src.Sub
	}
	if src.Mul != nil {
		dst.Mul = src.Mul
	}
	if src.Div != nil {
		dst.Div = src.Div
	}
	if src.FloorDiv != nil {
		dst.FloorDiv = src.FloorDiv
	}
	if src.Mod != nil {
		dst.Mod = src.Mod
	}
	if src.Pow != nil {
		dst.Pow = src.Pow
	}
	if src.Eq != nil {
		dst.Eq = src.Eq
	}
	if src.Ne != nil {
		dst.Ne = src.Ne
	}
	if src.Lt != nil {
		dst.Lt = src.Lt
	}
	if src.Le != nil {
		dst.Le = src.Le
	}
	if src.Gt != nil {
		dst.Gt = src.Gt
	}
	if src.Ge != nil {
		dst.Ge = src.Ge
	}
	if src.Lsh != nil {
		dst.Lsh = src.Lsh
	}
	if src.Rsh != nil {
		dst.Rsh = src.Rsh
	}
	if src.BinIor != nil {
		dst.BinIor = src.BinIor
	}
	if src.BinAnd != nil {
		dst.BinAnd = src.BinAnd
	}
	if src.BinXor != nil {
		dst.BinXor = src.BinXor
	}
	if src.Pos != nil {
		dst.Pos = src.Pos
	}
	if src.Neg != nil {
		dst.Neg = src.Neg
	}
	if src.Sqig != nil {
		dst.Sqig = src.Sqig
	}
}

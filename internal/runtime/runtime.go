// Package runtime assembles the object.Ctx implementation: the process-wide
// type registry (§4.1's metatype plus the numeric tower, containers,
// exceptions and callable kinds), the GIL described in §5, and the interned
// string cache. Nothing else in this module can execute end to end without
// an Interp — every package up to here only wires slot functions onto types,
// it never constructs one.
package runtime

import (
	"fmt"
	"hash/fnv"
	"sync"

	"sentra/internal/container"
	"sentra/internal/exception"
	"sentra/internal/module"
	"sentra/internal/numeric"
	"sentra/internal/object"
	"sentra/internal/rx"
	"sentra/internal/vm"
)

// Interp is the single object.Ctx implementation: one per process. Its gil
// guards every piece of interpreter-mutable state that §5 calls process-wide
// (the type registry, the interned-string cache, Globals); the Thread values
// running against it hold no lock of their own.
type Interp struct {
	gil sync.Mutex

	types    map[string]*object.Type
	interned map[string]*object.Object

	excs     *exception.Registry
	excRoot  *object.Type
	noneType *object.Type
	typeMeta *object.Type

	globals *vm.Globals
}

// New builds an Interp with its full type registry already bootstrapped, a
// fresh Globals, and no importer configured (the caller wires one through
// vm.Thread.SetImporter once internal/module exists).
func New() *Interp {
	rt := &Interp{
		types:    make(map[string]*object.Type),
		interned: make(map[string]*object.Object),
		globals:  vm.NewGlobals(),
	}
	rt.bootstrap()
	return rt
}

func (rt *Interp) register(t *object.Type) { rt.types[t.Name] = t }

// bootstrap builds every built-in type once, in dependency order: the
// self-referential metatype first (nothing can be a Type without one), then
// the numeric tower (bool as a subtype of int, so it inherits the full
// arithmetic slot table per §4.2's "bool behaves as a two-valued int"), then
// the container kinds, then the callable kinds vm.go needs, then the
// exception taxonomy, and finally the cross-package wiring variables that
// let numeric/container/exception produce values of each other's kinds
// without an import cycle.
func (rt *Interp) bootstrap() {
	typeMeta := object.NewType(nil, "type", nil, object.Slots{}, false)
	typeMeta.Object.Type = typeMeta
	rt.typeMeta = typeMeta
	rt.register(typeMeta)

	noneType := object.NewType(typeMeta, "none", nil, object.Slots{
		Bool: func(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
			return numeric.NewBool(ctx, false), nil
		},
		Str: func(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
			return container.NewString("none"), nil
		},
		Repr: func(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
			return container.NewString("none"), nil
		},
		Eq: func(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
			return numeric.NewBool(ctx, object.TypeOf(b) == object.TypeOf(a)), nil
		},
		Ne: func(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
			return numeric.NewBool(ctx, object.TypeOf(b) != object.TypeOf(a)), nil
		},
	}, false)
	rt.noneType = noneType
	rt.register(noneType)

	numericSlots := object.Slots{
		Add: numeric.Add, Sub: numeric.Sub, Mul: numeric.Mul, Div: numeric.Div,
		FloorDiv: numeric.FloorDiv, Mod: numeric.Mod, Pow: numeric.Pow,
		Eq: numeric.Eq, Ne: numeric.Ne, Lt: numeric.Lt, Le: numeric.Le, Gt: numeric.Gt, Ge: numeric.Ge,
		Lsh: numeric.Lsh, Rsh: numeric.Rsh, BinIor: numeric.BinIor, BinAnd: numeric.BinAnd, BinXor: numeric.BinXor,
		Pos: numeric.Pos, Neg: numeric.Neg, Sqig: numeric.Sqig,
		Bool: numeric.Bool, Abs: numeric.Abs,
		Str: numeric.Str, Repr: numeric.Repr, Hash: numeric.Hash,
	}
	intType := object.NewType(typeMeta, "int", nil, numericSlots, false)
	floatType := object.NewType(typeMeta, "float", nil, numericSlots, false)
	complexType := object.NewType(typeMeta, "complex", nil, numericSlots, false)
	// bool is a subtype of int per §4.2: NewType copies intType's slot table
	// wholesale, so comparisons, arithmetic and hashing all fall out of the
	// int behavior with no overrides of its own.
	boolType := object.NewType(typeMeta, "bool", intType, object.Slots{}, false)
	rt.register(intType)
	rt.register(floatType)
	rt.register(complexType)
	rt.register(boolType)

	numeric.MakeString = func(ctx object.Ctx, s string) *object.Object { return container.NewString(s) }
	container.NewIntFn = numeric.NewInt
	container.NewBoolFn = numeric.NewBool

	strSlots := object.Slots{
		Len: container.StringLen, Hash: container.StringHash, Str: container.StringStr, Repr: container.StringRepr,
		Bool: container.StringBool, Iter: container.StringIter, Add: container.StringAdd, Eq: container.StringEq,
		Lt: container.StringLt, GetElem: container.StringGetElem,
	}
	container.StringType = object.NewType(typeMeta, "str", nil, strSlots, false)
	rt.register(container.StringType)

	bytesSlots := object.Slots{
		Len: container.BytesLen, Hash: container.BytesHash, Eq: container.BytesEq, GetElem: container.BytesGetElem,
	}
	container.BytesType = object.NewType(typeMeta, "bytes", nil, bytesSlots, false)
	rt.register(container.BytesType)

	tupleSlots := object.Slots{
		Len: container.TupleLen, Iter: container.TupleIter, GetElem: container.TupleGetElem, Eq: container.TupleEq,
	}
	container.TupleType = object.NewType(typeMeta, "tuple", nil, tupleSlots, false)
	rt.register(container.TupleType)

	listSlots := object.Slots{
		Len: container.ListLen, Iter: container.ListIter, GetElem: container.ListGetElem,
		SetElem: container.ListSetElem, Add: container.ListAdd,
	}
	container.ListType = object.NewType(typeMeta, "list", nil, listSlots, false)
	rt.register(container.ListType)

	dictSlots := object.Slots{
		Len: container.DictLen, Iter: container.DictIter, GetElem: container.DictGetElem,
		SetElem: container.DictSetElem, DelElem: container.DictDelElem,
	}
	container.DictType = object.NewType(typeMeta, "dict", nil, dictSlots, false)
	rt.register(container.DictType)

	setSlots := object.Slots{Len: container.SetLen, Iter: container.SetIter}
	container.SetType = object.NewType(typeMeta, "set", nil, setSlots, false)
	rt.register(container.SetType)

	iterSlots := object.Slots{Next: container.IterNext, Iter: container.IterSelf}
	container.IteratorType = object.NewType(typeMeta, "iterator", nil, iterSlots, false)
	rt.register(container.IteratorType)

	regexSlots := object.Slots{Str: rx.Str, Repr: rx.Repr}
	rx.RegexType = object.NewType(typeMeta, "regex", nil, regexSlots, false)
	rt.register(rx.RegexType)

	ellipsisStr := container.NewString("...")
	ellipsisSlots := object.Slots{
		Str:  func(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) { return ellipsisStr, nil },
		Repr: func(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) { return ellipsisStr, nil },
	}
	ellipsisType := object.NewType(typeMeta, "ellipsis", nil, ellipsisSlots, false)
	rt.register(ellipsisType)

	// function/boundmethod carry no operator slots: invoke() in
	// internal/vm recognizes these kinds directly before ever consulting a
	// type's slot table, so bootstrap only needs identifiers for repr/str
	// and isinstance checks to resolve against.
	vm.FunctionType = object.NewType(typeMeta, "function", nil, object.Slots{}, false)
	rt.register(vm.FunctionType)
	vm.BoundMethodType = object.NewType(typeMeta, "boundmethod", nil, object.Slots{}, false)
	rt.register(vm.BoundMethodType)
	vm.NativeType = object.NewType(typeMeta, "builtin_function", nil, object.Slots{Call: vm.NativeCall}, false)
	rt.register(vm.NativeType)
	// intrinsic is map's callable kind: invoke() recognizes it directly
	// (internal/vm/closures.go), the same as function/boundmethod above, so
	// it carries no Call slot either. Not registered under its own name —
	// "builtin_function" already names NativeType above, and no script
	// needs to isinstance-check against intrinsic specifically.
	vm.IntrinsicType = object.NewType(typeMeta, "builtin_function", nil, object.Slots{}, false)
	module.ModuleType = object.NewType(typeMeta, "module", nil, object.Slots{}, true)
	rt.register(module.ModuleType)

	excs, excRoot := exception.Build(typeMeta)
	rt.excs = excs
	rt.excRoot = excRoot
	for _, t := range excs.All() {
		rt.register(t)
	}

	// Every built-in type (the numeric tower, the containers, and the full
	// exception taxonomy) is itself a callable first-class value per §4.1 —
	// `throw Error("x")` and a bare `int("5")` conversion both compile to an
	// OpLoad of the type's name followed by OpCall, which only finds
	// anything if the name already resolves through globals the way `map`
	// does. types, not instances, are what's bound here; a script that
	// shadows one of these names with its own assignment just rebinds the
	// frame-local, same as it could shadow `map`.
	for name, t := range rt.types {
		rt.globals.Set(name, t.Value())
	}

	// map is language surface, not a library a script imports: the
	// compiler's list-comprehension desugaring (internal/compiler/expr.go's
	// compileListLit) emits a bare OpLoad "map" for `[EXPR for NAME in
	// ITER]`, so it has to already be bound as a global by the time any
	// chunk referencing it runs.
	rt.globals.Set("map", vm.MapBuiltin)

	// str and len need only object.Ctx, not a Thread, so they're ordinary
	// Natives rather than intrinsics. str defers to FormatStr (the same
	// rendering `+` string-concatenation and exception messages already
	// use); len dispatches the `len` slot every container type carries,
	// which until now no opcode or builtin reached.
	rt.globals.Set("str", vm.NewNative("str", func(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
		if len(args) != 1 {
			return nil, ctx.Raise("ArgError", "str() takes 1 argument (%d given)", len(args))
		}
		return container.NewString(ctx.FormatStr(args[0])), nil
	}))
	rt.globals.Set("len", vm.NewNative("len", func(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
		if len(args) != 1 {
			return nil, ctx.Raise("ArgError", "len() takes 1 argument (%d given)", len(args))
		}
		ty := object.TypeOf(args[0])
		if ty == nil || ty.Slots.Len == nil {
			return nil, ctx.Raise("TypeError", "object of type '%s' has no len()", typeNameOf(ty))
		}
		return ty.Slots.Len(ctx, args[0])
	}))

	// match/fullmatch are regex.c's `matches`/`exact` exposed as free
	// functions rather than methods: no built-in container type in this
	// runtime supports attribute-method dispatch (GetAttr is only wired for
	// script-defined `type` instances, internal/vm/classes.go), so these
	// follow str/len's precedent instead of adding a one-off method path
	// just for Regex.
	rt.globals.Set("match", vm.NewNative("match", func(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
		re, s, exc := regexArgs(ctx, "match", args)
		if exc != nil {
			return nil, exc
		}
		return numeric.NewBool(ctx, re.Matches(s.Bytes)), nil
	}))
	rt.globals.Set("fullmatch", vm.NewNative("fullmatch", func(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
		re, s, exc := regexArgs(ctx, "fullmatch", args)
		if exc != nil {
			return nil, exc
		}
		return numeric.NewBool(ctx, re.Exact(s.Bytes)), nil
	}))
}

func regexArgs(ctx object.Ctx, name string, args []*object.Object) (*rx.Regex, *container.String, *object.Object) {
	if len(args) != 2 {
		return nil, nil, ctx.Raise("ArgError", "%s() takes 2 arguments (%d given)", name, len(args))
	}
	re, ok := rx.AsRegex(args[0])
	if !ok {
		return nil, nil, ctx.Raise("TypeError", "%s() expects a regex as its first argument, got '%s'", name, typeNameOf(object.TypeOf(args[0])))
	}
	s, ok := container.AsString(args[1])
	if !ok {
		return nil, nil, ctx.Raise("TypeError", "%s() expects a str as its second argument, got '%s'", name, typeNameOf(object.TypeOf(args[1])))
	}
	return re, s, nil
}

func typeNameOf(t *object.Type) string {
	if t == nil {
		return "none"
	}
	return t.Name
}

// Globals returns the process-wide global name mapping shared by every
// Thread this Interp drives.
func (rt *Interp) Globals() *vm.Globals { return rt.globals }

// NewThread creates a Thread bound to this Interp's Ctx and Globals. Callers
// driving more than one Thread concurrently must hold Lock/Unlock around any
// access that touches shared interpreter state, per §5.
func (rt *Interp) NewThread() *vm.Thread { return vm.NewThread(rt, rt.globals) }

// Lock/Unlock expose the GIL to internal/thread's scheduler; Interp's own
// Ctx methods assume the caller already holds it (they're always invoked
// from inside a running Thread, which the scheduler holds the lock for).
func (rt *Interp) Lock()   { rt.gil.Lock() }
func (rt *Interp) Unlock() { rt.gil.Unlock() }

// ExceptionRoot returns the "Exception" type at the top of the taxonomy, the
// type a bare `throw` of a non-exception value should be rejected against.
func (rt *Interp) ExceptionRoot() *object.Type { return rt.excRoot }

// None returns a fresh instance of the none type. The object model has no
// pre-allocated singleton (see noneType's Eq slot, which compares by type
// rather than identity so every none instance is interchangeable).
func (rt *Interp) None() *object.Object { return object.New(rt.noneType, nil) }

// --- object.Ctx -------------------------------------------------------------

// Intern returns the same *object.Object for repeated calls with the same
// Go string, so e.g. name constants compiled into many chunks collapse onto
// one heap string per distinct identifier.
func (rt *Interp) Intern(s string) *object.Object {
	if v, ok := rt.interned[s]; ok {
		return v
	}
	v := container.NewString(s)
	rt.interned[s] = v
	return v
}

// Raise builds an exception of the named kind with a formatted message. An
// unrecognized kind is a bug in the raising code, not user input, so it
// falls back to InternalError rather than panicking the whole process.
func (rt *Interp) Raise(kind string, format string, args ...any) *object.Object {
	t := rt.types[kind]
	if t == nil {
		t = rt.types["InternalError"]
	}
	return exception.New(t, fmt.Sprintf(format, args...), container.NewTuple(nil), nil)
}

func (rt *Interp) LookupType(name string) *object.Type { return rt.types[name] }

// FormatRepr dispatches the `repr` slot, falling back to a generic
// "<Name object>" rendering for any type that doesn't carry one (the code,
// function and boundmethod kinds that never reach user code as printable
// values).
func (rt *Interp) FormatRepr(v *object.Object) string {
	t := object.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	if t.Slots.Repr != nil {
		r, exc := t.Slots.Repr(rt, v)
		if exc == nil {
			if s, ok := container.AsString(r); ok {
				return s.Bytes
			}
		}
	}
	return "<" + t.Name + " object>"
}

// FormatStr dispatches the `str` slot, falling back to FormatRepr when a
// type has no `str` of its own (most container/numeric kinds share the same
// rendering for both).
func (rt *Interp) FormatStr(v *object.Object) string {
	t := object.TypeOf(v)
	if t != nil && t.Slots.Str != nil {
		r, exc := t.Slots.Str(rt, v)
		if exc == nil {
			if s, ok := container.AsString(r); ok {
				return s.Bytes
			}
		}
	}
	return rt.FormatRepr(v)
}

// HashBits extracts a uint64 from a value's `hash` slot result; values of a
// type with no `hash` slot (closures, bound methods, types) hash by their Go
// pointer identity instead, via fnv-1a over the pointer's printed address.
func (rt *Interp) HashBits(v *object.Object) uint64 {
	t := object.TypeOf(v)
	if t != nil && t.Slots.Hash != nil {
		r, exc := t.Slots.Hash(rt, v)
		if exc == nil {
			if bi, ok := numeric.AsInt(r); ok {
				return bi.Uint64()
			}
		}
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%p", v)
	return h.Sum64()
}

// Truthy dispatches the `bool` slot; a value of a type with none is always
// truthy except for none itself, whose own `bool` slot already returns
// false (this final none check only guards the (should-be-unreachable) case
// of a none value sneaking in with a stripped slot table).
func (rt *Interp) Truthy(v *object.Object) bool {
	if v == nil || object.TypeOf(v) == rt.noneType {
		return false
	}
	t := object.TypeOf(v)
	if t != nil && t.Slots.Bool != nil {
		r, exc := t.Slots.Bool(rt, v)
		if exc == nil {
			if bi, ok := numeric.AsInt(r); ok {
				return bi.Sign() != 0
			}
		}
	}
	return true
}

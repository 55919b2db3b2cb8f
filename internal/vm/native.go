package vm

import "sentra/internal/object"

// Native is a function implemented in Go rather than compiled from source —
// the callable kind internal/builtins/* and internal/module's built-in
// factories use to expose a library to a script. invoke's "anything else
// falls back to its type's generic call slot" path reaches this through
// NativeType's Call slot, so a Native is indistinguishable from a Closure
// at a call site.
type Native struct {
	Name string
	Fn   func(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object)
}

// NativeType is the callable kind backing every built-in function. It
// carries nothing but a Call slot; Str/Repr fall back to the generic
// "<%s object>" formatting object.Ctx.FormatRepr produces for a type with
// no Repr slot, which is adequate for a function value that is never
// interpolated into output a script cares about byte-for-byte.
var NativeType *object.Type

// NewNative wraps fn as a callable Sentra value under the given name (used
// only for diagnostics — TypeError messages, disassembly).
func NewNative(name string, fn func(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object)) *object.Object {
	return object.New(NativeType, &Native{Name: name, Fn: fn})
}

func AsNative(o *object.Object) (*Native, bool) {
	if o == nil {
		return nil, false
	}
	n, ok := o.Data.(*Native)
	return n, ok
}

// NativeCall is NativeType's Call slot.
func NativeCall(ctx object.Ctx, self *object.Object, args []*object.Object) (*object.Object, *object.Object) {
	n, ok := AsNative(self)
	if !ok {
		return nil, ctx.Raise("TypeError", "not a native function")
	}
	return n.Fn(ctx, args)
}

package vm

import (
	"sentra/internal/container"
	"sentra/internal/object"
)

// intrinsic is a callable backed by Go code that needs the running Thread
// itself, not just an object.Ctx — unlike a Native (internal/vm/native.go),
// whose Fn only ever sees ctx, an intrinsic can call back into arbitrary
// Sentra closures via invoke. `map` is the one the compiler's comprehension
// desugaring (internal/compiler/expr.go's `[EXPR for NAME in ITER]` lowering)
// depends on; it is registered as a global by the runtime's bootstrap, not
// through the module loader, since it's language surface, not a library.
type intrinsic struct {
	Name string
	Fn   func(t *Thread, args []*object.Object) (*object.Object, *object.Object)
}

// IntrinsicType is intrinsic's callable kind; invoke recognizes it directly,
// the same way it recognizes Closure and BoundMethod, before ever
// consulting a type's generic Call slot.
var IntrinsicType *object.Type

func newIntrinsic(name string, fn func(t *Thread, args []*object.Object) (*object.Object, *object.Object)) *object.Object {
	return object.New(IntrinsicType, &intrinsic{Name: name, Fn: fn})
}

func asIntrinsic(o *object.Object) (*intrinsic, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Data.(*intrinsic)
	return v, ok
}

// MapBuiltin is the `map(fn, iterable)` global: apply fn to every value an
// iterable produces and collect the results into a new list.
var MapBuiltin = newIntrinsic("map", execMap)

func execMap(t *Thread, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 2 {
		return nil, t.ctx.Raise("ArgError", "map() takes 2 arguments (%d given)", len(args))
	}
	fn, iterable := args[0], args[1]

	t.push(iterable)
	if exc := t.execForStart(); exc != nil {
		return nil, exc
	}

	var results []*object.Object
	for {
		exhausted, exc := t.execForNext()
		if exc != nil {
			return nil, exc
		}
		if exhausted {
			break
		}
		v := t.pop()
		out, exc := t.invoke(fn, []*object.Object{v})
		if exc != nil {
			return nil, exc
		}
		results = append(results, out)
	}
	return container.NewList(results), nil
}

package vm

import (
	"sentra/internal/container"
	"sentra/internal/object"
)

// BoundMethod pairs a closure found in a class's member dict with the
// instance it was looked up on, so that `obj.method(x)` — compiled
// generically as getattr(obj, "method") followed by call/1, with no
// special-cased self-passing in the compiler — still delivers obj as the
// method's first argument. Methods are declared with an explicit leading
// parameter (conventionally named self) in the type body, the same as any
// other closure parameter.
type BoundMethod struct {
	Receiver *object.Object
	Fn       *Closure
}

var BoundMethodType *object.Type

func NewBoundMethod(recv *object.Object, fn *Closure) *object.Object {
	return object.New(BoundMethodType, &BoundMethod{Receiver: recv, Fn: fn})
}

func AsBoundMethod(o *object.Object) (*BoundMethod, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Data.(*BoundMethod)
	return v, ok
}

// execType implements `type <k>`: k names a (name, doc) pair; the
// base-or-none value and the members dict were pushed just before this
// instruction, in that order (base first, so the dict sits on top). Method closures and
// field defaults collected by compileTypeLit become the new type's class
// members, held in the type's own embedded Object.Attrs (a type is a heap
// object like any other, so it gets the same attribute mapping an instance
// would) and resolved per-instance by classGetAttr/classSetAttr.
func (t *Thread) execType(frame *Frame, arg int32) *object.Object {
	membersObj := t.pop()
	baseObj := t.pop()
	meta, _ := container.AsTuple(frame.chunk.Constants[arg])
	nameStr, _ := container.AsString(meta.Items[0])
	docStr, _ := container.AsString(meta.Items[1])

	var base *object.Type
	if ty, ok := object.AsType(baseObj); ok {
		base = ty
	}

	members, _ := container.AsDict(membersObj)
	attrs := make(map[string]*object.Object)
	if members != nil {
		keys := members.Keys()
		vals := members.Values()
		for i, k := range keys {
			ks, _ := container.AsString(k)
			attrs[ks.Bytes] = vals[i]
		}
	}

	var metatype *object.Type
	if base != nil {
		metatype = base.Type
	}
	cls := object.NewType(metatype, nameStr.Bytes, base, object.Slots{
		GetAttr: classGetAttr,
		SetAttr: classSetAttr,
	}, true)
	cls.Doc = docStr.Bytes
	cls.Attrs = attrs

	t.push(cls.Value())
	return nil
}

// classGetAttr resolves an instance attribute: its own per-instance
// mapping first (fields a method assigned via `self.x = ...`), then the
// defining type's member dict walking up the base chain (methods, and
// class-level field defaults nothing has overridden yet). A closure found
// on the class side is bound to the instance before being returned, so
// calling it implicitly passes the receiver.
func classGetAttr(ctx object.Ctx, self *object.Object, name string) (*object.Object, *object.Object) {
	if self.Attrs != nil {
		if v, ok := self.Attrs[name]; ok {
			return v, nil
		}
	}
	if clo, ok := lookupClassMethod(object.TypeOf(self), name); ok {
		return NewBoundMethod(self, clo), nil
	}
	if v, ok := lookupClassAttr(object.TypeOf(self), name); ok {
		return v, nil
	}
	return nil, ctx.Raise("AttrError", "'%s' object has no attribute '%s'", typeName(object.TypeOf(self)), name)
}

func classSetAttr(ctx object.Ctx, self *object.Object, name string, val *object.Object) *object.Object {
	if self.Attrs == nil {
		self.Attrs = make(map[string]*object.Object)
	}
	self.Attrs[name] = val
	return nil
}

func lookupClassMethod(cls *object.Type, name string) (*Closure, bool) {
	for ty := cls; ty != nil; ty = ty.Base {
		if ty.Attrs == nil {
			continue
		}
		if v, ok := ty.Attrs[name]; ok {
			if clo, ok2 := AsClosure(v); ok2 {
				return clo, true
			}
			return nil, false
		}
	}
	return nil, false
}

func lookupClassAttr(cls *object.Type, name string) (*object.Object, bool) {
	for ty := cls; ty != nil; ty = ty.Base {
		if ty.Attrs == nil {
			continue
		}
		if v, ok := ty.Attrs[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// instantiate implements calling a type value as its own constructor:
// `new(type)` of §4.2 allocates a zeroed instance with an empty attribute
// mapping, then runs an `init` method found on the class (or an inherited
// one) with the receiver prepended to the call arguments, mirroring how
// classGetAttr binds any other method.
func (t *Thread) instantiate(cls *object.Type, args []*object.Object) (*object.Object, *object.Object) {
	var inst *object.Object
	if cls.Slots.New != nil {
		v, exc := cls.Slots.New(t.ctx, cls.Value(), args)
		if exc != nil {
			return nil, exc
		}
		inst = v
	} else {
		inst = object.New(cls, nil)
	}

	if cls.Slots.Init != nil {
		if _, exc := cls.Slots.Init(t.ctx, inst, args); exc != nil {
			return nil, exc
		}
		return inst, nil
	}
	if clo, ok := lookupClassMethod(cls, "init"); ok {
		full := make([]*object.Object, 0, len(args)+1)
		full = append(full, inst)
		full = append(full, args...)
		if _, exc := t.callClosure(clo, full); exc != nil {
			return nil, exc
		}
	}
	return inst, nil
}

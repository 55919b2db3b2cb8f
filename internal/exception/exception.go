// Package exception builds the Exception type hierarchy of §4.7 on top of
// the object package's type system, and the Exception payload (message,
// cause, args, frame snapshot) described in §3.
package exception

import (
	"fmt"

	"sentra/internal/container"
	"sentra/internal/object"
)

// Exception is the Data payload of every Exception-kind *object.Object.
type Exception struct {
	Message string
	Cause   *object.Object   // inner exception, nil if none
	Args    *object.Object   // arguments tuple
	Frames  []FrameSnapshot  // active frames at throw time
}

// FrameSnapshot captures one call frame for a traceback.
type FrameSnapshot struct {
	Function string
	Line     int
}

// Registry holds every exception type by name so Ctx.Raise(kind, ...) and
// `catch TYPE` clauses can resolve a bare name to its *object.Type.
type Registry struct {
	byName map[string]*object.Type
	meta   *object.Type
}

func NewRegistry(metatype *object.Type) *Registry {
	return &Registry{byName: make(map[string]*object.Type), meta: metatype}
}

func (r *Registry) Lookup(name string) *object.Type { return r.byName[name] }

// All returns every registered exception type by name, so the runtime can
// fold them into its single process-wide type registry alongside the
// built-in value types.
func (r *Registry) All() map[string]*object.Type { return r.byName }

func (r *Registry) define(name string, base *object.Type) *object.Type {
	t := object.NewType(r.meta, name, base, object.Slots{
		New:  excNewInstance,
		Str:  excStr,
		Repr: excRepr,
	}, true)
	r.byName[name] = t
	return t
}

// excNewInstance is every exception type's New slot: `Error("x")` compiles
// to a call on the Error type value itself (invoke's first-class-Type case
// in internal/vm/closures.go), so self here is the type, not an instance —
// the first positional argument, stringified, becomes the exception's
// message, matching the one-arg constructor every throw site in spec.md
// uses.
func excNewInstance(ctx object.Ctx, self *object.Object, args []*object.Object) (*object.Object, *object.Object) {
	cls, _ := object.AsType(self)
	msg := ""
	if len(args) > 0 {
		msg = ctx.FormatStr(args[0])
	}
	return New(cls, msg, container.NewTuple(args), nil), nil
}

// Build constructs the full taxonomy from §4.7 and returns the registry plus
// the root "Exception" type (needed by the VM to type-check `throw`).
func Build(metatype *object.Type) (*Registry, *object.Type) {
	r := NewRegistry(metatype)

	exc := r.define("Exception", nil)
	r.define("OutOfIterException", exc)
	errT := r.define("Error", exc)
	r.define("InternalError", errT)
	r.define("SyntaxError", errT)
	r.define("ImportError", errT)
	typeErr := r.define("TypeError", errT)
	r.define("TemplateError", typeErr)
	r.define("NameError", errT)
	r.define("AttrError", errT)
	keyErr := r.define("KeyError", errT)
	r.define("IndexError", keyErr)
	valErr := r.define("ValError", errT)
	r.define("AssertError", valErr)
	mathErr := r.define("MathError", valErr)
	r.define("OverflowError", mathErr)
	r.define("ArgError", errT)
	r.define("SizeError", errT)
	r.define("IOError", errT)
	r.define("OSError", errT)

	warn := r.define("Warning", exc)
	r.define("PlatformWarning", warn)
	r.define("SyntaxWarning", warn)

	return r, exc
}

// New allocates an exception instance of type t.
func New(t *object.Type, message string, args *object.Object, cause *object.Object) *object.Object {
	return object.New(t, &Exception{Message: message, Args: args, Cause: cause})
}

func AsException(o *object.Object) (*Exception, bool) {
	if o == nil {
		return nil, false
	}
	e, ok := o.Data.(*Exception)
	return e, ok
}

func excStr(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	e, _ := AsException(self)
	return container.NewString(e.Message), nil
}

func excRepr(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	e, _ := AsException(self)
	return container.NewString(fmt.Sprintf("%s(%q)", object.TypeOf(self).Name, e.Message)), nil
}

package vm

import (
	"sentra/internal/bytecode"
	"sentra/internal/container"
	"sentra/internal/numeric"
	"sentra/internal/object"
)

// Closure is a callable function value: its compiled body, its parameter
// names in declaration order, the index of a trailing variadic parameter
// (-1 if none), default values (bound to the trailing len(Defaults)
// parameters — defaults are only meaningful on trailing parameters, since
// the function-metadata tuple carries only a count, not a per-parameter
// bitmap), and the frame that was live when the function literal executed,
// so free names inside the body resolve through the enclosing lexical
// scope rather than through explicit upvalues.
type Closure struct {
	Chunk     *bytecode.Chunk
	Params    []string
	VarargIdx int
	Defaults  []*object.Object
	Doc       string
	Name      string
	Enclosing *Frame
}

// FunctionType is the type of closure values. It carries no operator slots
// of its own — invoke() recognizes a closure directly via AsClosure before
// ever consulting a type's slot table — so runtime bootstrap only needs it
// for repr/str purposes and identity.
var FunctionType *object.Type

func NewClosureValue(c *Closure) *object.Object {
	return object.New(FunctionType, c)
}

func AsClosure(o *object.Object) (*Closure, bool) {
	if o == nil {
		return nil, false
	}
	c, ok := o.Data.(*Closure)
	return c, ok
}

// execFunc implements `func <k>`: k names a (name, params, vararg-index,
// doc) tuple; the compiled body was pushed as a code object just before
// this instruction. Building the closure captures frame as its enclosing
// scope.
func (t *Thread) execFunc(frame *Frame, arg int32) {
	codeObj := t.pop()
	chunk, _ := bytecode.AsChunk(codeObj)
	meta, _ := container.AsTuple(frame.chunk.Constants[arg])

	nameStr, _ := container.AsString(meta.Items[0])
	paramsTuple, _ := container.AsTuple(meta.Items[1])
	varargBig, _ := numeric.AsInt(meta.Items[2])
	docStr, _ := container.AsString(meta.Items[3])

	params := make([]string, len(paramsTuple.Items))
	for i, p := range paramsTuple.Items {
		ps, _ := container.AsString(p)
		params[i] = ps.Bytes
	}

	clo := &Closure{
		Chunk:     chunk,
		Params:    params,
		VarargIdx: int(varargBig.Int64()),
		Doc:       docStr.Bytes,
		Name:      nameStr.Bytes,
		Enclosing: frame,
	}
	t.push(NewClosureValue(clo))
}

// execFuncDefa implements `func_defa <n>`: n default-value expressions sit
// on top of the closure compileFuncLit just pushed via `func`; attach them
// to it (they apply to its last n parameters) and leave the closure as the
// expression's value.
func (t *Thread) execFuncDefa(n int) {
	defaults := t.popN(n)
	cloObj := t.peek()
	if clo, ok := AsClosure(cloObj); ok {
		clo.Defaults = defaults
	}
}

// callClosure binds args to clo's parameters and runs its body in a fresh
// frame enclosed by clo.Enclosing, recursively invoking the dispatch loop
// per §4.6's "single dispatch loop per active call".
func (t *Thread) callClosure(clo *Closure, args []*object.Object) (*object.Object, *object.Object) {
	locals := make(map[string]*object.Object, len(clo.Params))
	n := len(clo.Params)
	defaultStart := n - len(clo.Defaults)

	bindFixed := func(i int, have bool, v *object.Object) *object.Object {
		switch {
		case have:
			locals[clo.Params[i]] = v
			return nil
		case i >= defaultStart:
			locals[clo.Params[i]] = clo.Defaults[i-defaultStart]
			return nil
		default:
			return t.ctx.Raise("ArgError", "%s() missing required argument '%s'", clo.Name, clo.Params[i])
		}
	}

	if clo.VarargIdx < 0 {
		if len(args) > n {
			return nil, t.ctx.Raise("ArgError", "%s() takes at most %d arguments (%d given)", clo.Name, n, len(args))
		}
		for i := 0; i < n; i++ {
			if i < len(args) {
				if exc := bindFixed(i, true, args[i]); exc != nil {
					return nil, exc
				}
			} else if exc := bindFixed(i, false, nil); exc != nil {
				return nil, exc
			}
		}
	} else {
		vi := clo.VarargIdx
		after := n - vi - 1
		for i := 0; i < vi; i++ {
			if i < len(args) {
				if exc := bindFixed(i, true, args[i]); exc != nil {
					return nil, exc
				}
			} else if exc := bindFixed(i, false, nil); exc != nil {
				return nil, exc
			}
		}
		varargEnd := len(args) - after
		if varargEnd < vi {
			varargEnd = vi
		}
		locals[clo.Params[vi]] = container.NewList(append([]*object.Object{}, args[vi:varargEnd]...))
		for i := 0; i < after; i++ {
			pi := vi + 1 + i
			ai := varargEnd + i
			if ai < len(args) {
				if exc := bindFixed(pi, true, args[ai]); exc != nil {
					return nil, exc
				}
			} else if exc := bindFixed(pi, false, nil); exc != nil {
				return nil, exc
			}
		}
	}

	frame := &Frame{chunk: clo.Chunk, locals: locals, enclosing: clo.Enclosing, base: len(t.stack), name: clo.Name}
	return t.run(frame)
}

// invoke is OpCall's entry point: closures and bound methods run through
// the recursive dispatch loop, a first-class type is treated as its own
// constructor, an intrinsic (map) gets the Thread itself so it can call
// back into a closure argument, and anything else falls back to its type's
// generic `call` slot (native builtins wired in by the runtime).
func (t *Thread) invoke(callee *object.Object, args []*object.Object) (*object.Object, *object.Object) {
	if clo, ok := AsClosure(callee); ok {
		return t.callClosure(clo, args)
	}
	if bm, ok := AsBoundMethod(callee); ok {
		full := make([]*object.Object, 0, len(args)+1)
		full = append(full, bm.Receiver)
		full = append(full, args...)
		return t.callClosure(bm.Fn, full)
	}
	if cls, ok := object.AsType(callee); ok {
		return t.instantiate(cls, args)
	}
	if it, ok := asIntrinsic(callee); ok {
		return it.Fn(t, args)
	}
	ty := object.TypeOf(callee)
	if ty == nil || ty.Slots.Call == nil {
		return nil, t.ctx.Raise("TypeError", "'%s' object is not callable", typeName(ty))
	}
	return ty.Slots.Call(t.ctx, callee, args)
}

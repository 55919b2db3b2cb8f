// Package vm implements the stack-based dispatch loop of §4.6: a value
// stack shared by every frame on a thread, name-based variable resolution
// walking the live frame chain, the call/return protocol, the for-loop
// iteration protocol, and the try/catch/finally exception-handler stack
// produced by internal/compiler's bytecode.
package vm

import (
	"fmt"

	"sentra/internal/bytecode"
	"sentra/internal/container"
	"sentra/internal/object"
)

// Globals is the process-wide global name mapping (§5: "the global name
// mapping ... [is] process-wide and protected by the GIL"). A single
// Globals is shared by every Thread in a process; callers running multiple
// threads are responsible for holding the GIL around any access, which
// internal/thread provides.
type Globals struct {
	vars map[string]*object.Object
}

func NewGlobals() *Globals {
	return &Globals{vars: make(map[string]*object.Object)}
}

func (g *Globals) Get(name string) (*object.Object, bool) {
	v, ok := g.vars[name]
	return v, ok
}

func (g *Globals) Set(name string, v *object.Object) {
	g.vars[name] = v
}

// Frame is one call's activation record: its own chunk/program-counter,
// its own name-keyed locals, a pointer to the lexically enclosing frame
// (the frame active when the running closure was created, not the
// caller), and a base index into the thread's shared value stack.
type Frame struct {
	chunk     *bytecode.Chunk
	ip        int
	locals    map[string]*object.Object
	enclosing *Frame
	base      int
	handlers  []tryHandler
	name      string
}

type tryHandler struct {
	resumePC int
	depth    int
}

// Thread is one OS-thread's (or goroutine's) private execution state: its
// value stack and the exception currently pending unwind. Per §5 this
// state is not shared between threads; only Globals is.
type Thread struct {
	ctx     object.Ctx
	globals *Globals
	stack   []*object.Object
	pending *object.Object

	// importer resolves `import <dotted.name>`; nil until the runtime
	// wires a module loader, in which case import raises ImportError.
	importer Importer

	// Yield, if set, is called periodically from run's dispatch loop (every
	// yieldQuantum instructions) so a scheduler running several Threads over
	// one GIL (§5) gets a chance to hand the lock to another Thread without
	// this one having to finish a whole call first. internal/thread wires
	// this to an unlock/relock pair; a bare VM with no scheduler leaves it
	// nil and pays no cost for the check beyond the nil test itself.
	Yield func()

	steps int
}

// yieldQuantum bounds how many instructions run between Yield opportunities:
// small enough that a goroutine hogging the GIL in a tight loop still cedes
// it reasonably often, large enough that the check is not the hot path.
const yieldQuantum = 1024

// Importer resolves a dotted module path to its exports object, mirroring
// §6's "core calls into an external loader ... receives back a module
// object ... or an ImportError."
type Importer interface {
	Import(ctx object.Ctx, path string) (*object.Object, *object.Object)
}

// InitialStackCapacity sizes the value-stack slice a new Thread preallocates.
// internal/config's Config.StackCapacity sets this once at process startup;
// it exists only to avoid a few early reallocations on a deep call chain,
// never a hard limit — the stack still grows past it via ordinary append.
var InitialStackCapacity = 256

func NewThread(ctx object.Ctx, globals *Globals) *Thread {
	return &Thread{ctx: ctx, globals: globals, stack: make([]*object.Object, 0, InitialStackCapacity)}
}

func (t *Thread) SetImporter(imp Importer) { t.importer = imp }

func (t *Thread) push(v *object.Object) { t.stack = append(t.stack, v) }

func (t *Thread) pop() *object.Object {
	n := len(t.stack) - 1
	v := t.stack[n]
	t.stack[n] = nil
	t.stack = t.stack[:n]
	return v
}

func (t *Thread) peek() *object.Object { return t.stack[len(t.stack)-1] }

func (t *Thread) truncate(depth int) {
	for i := depth; i < len(t.stack); i++ {
		t.stack[i] = nil
	}
	t.stack = t.stack[:depth]
}

// RunChunk executes a top-level chunk (a compiled module or script) in a
// fresh frame with no enclosing scope, returning its result or a pending
// exception per the error-return convention of §6.
func (t *Thread) RunChunk(chunk *bytecode.Chunk) (*object.Object, *object.Object) {
	frame := &Frame{chunk: chunk, locals: make(map[string]*object.Object), base: len(t.stack), name: chunk.Name}
	return t.run(frame)
}

// RunModule executes a compiled module chunk like RunChunk, but returns the
// top-level frame's bindings instead of a `ret` value — a module has no
// return statement of its own; internal/module reads this map to populate
// the module object's exports (spec.md §6: "a heap object whose attribute
// mapping contains the module's exports").
func (t *Thread) RunModule(chunk *bytecode.Chunk) (map[string]*object.Object, *object.Object) {
	return t.RunModuleWith(chunk, nil)
}

// RunModuleWith is RunModule seeded with an existing binding set — the
// REPL's way of making `x = 1` on one line visible to the next line's
// chunk, since each line compiles to its own chunk with no shared frame.
func (t *Thread) RunModuleWith(chunk *bytecode.Chunk, locals map[string]*object.Object) (map[string]*object.Object, *object.Object) {
	seeded := make(map[string]*object.Object, len(locals))
	for k, v := range locals {
		seeded[k] = v
	}
	frame := &Frame{chunk: chunk, locals: seeded, base: len(t.stack), name: chunk.Name}
	_, exc := t.run(frame)
	return frame.locals, exc
}

// resolve implements §4.6's name-lookup rule for `load`: current frame's
// locals, then each enclosing closure frame in order, then globals.
func (f *Frame) resolve(name string) (*object.Object, bool) {
	for fr := f; fr != nil; fr = fr.enclosing {
		if v, ok := fr.locals[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// run is the single dispatch loop described in §4.6, one invocation per
// active call: it executes frame.chunk starting at frame.ip until a `ret`
// produces a value, an uncaught exception propagates out, or control
// transfers into a function call (recursively, via another run).
func (t *Thread) run(frame *Frame) (*object.Object, *object.Object) {
	chunk := frame.chunk
	for {
		if frame.ip >= len(chunk.Code) {
			panic(fmt.Sprintf("vm: program counter out of bounds in %q", chunk.Name))
		}
		t.steps++
		if t.Yield != nil && t.steps%yieldQuantum == 0 {
			t.Yield()
		}
		ip := frame.ip
		op := bytecode.OpCode(chunk.Code[ip])
		var arg int32
		if op.Width() == 5 {
			arg = chunk.ReadArg(ip)
			frame.ip = ip + 5
		} else {
			frame.ip = ip + 1
		}

		var exc *object.Object

		switch op {
		case bytecode.OpNoop:

		case bytecode.OpPush:
			t.push(chunk.Constants[arg])

		case bytecode.OpPopu:
			t.pop()

		case bytecode.OpDup:
			t.push(t.peek())

		case bytecode.OpDupi:
			idx := len(t.stack) - 1 + int(arg) // arg is negative, n-from-top
			t.push(t.stack[idx])

		case bytecode.OpLoad:
			nameStr := constString(frame.chunk.Constants[arg])
			if v, ok := frame.resolve(nameStr); ok {
				t.push(v)
			} else if v, ok := t.globals.Get(nameStr); ok {
				t.push(v)
			} else {
				exc = t.ctx.Raise("NameError", "name '%s' is not defined", nameStr)
			}

		case bytecode.OpStore:
			nameStr := constString(frame.chunk.Constants[arg])
			v := t.pop()
			frame.locals[nameStr] = v

		case bytecode.OpGetAttr:
			nameStr := constString(frame.chunk.Constants[arg])
			self := t.pop()
			var v *object.Object
			v, exc = object.GetAttr(t.ctx, self, nameStr)
			if exc == nil {
				t.push(v)
			}

		case bytecode.OpSetAttr:
			nameStr := constString(frame.chunk.Constants[arg])
			val := t.pop()
			self := t.pop()
			exc = object.SetAttr(t.ctx, self, nameStr, val)
			if exc == nil {
				t.push(val)
			}

		case bytecode.OpGetElems:
			n := int(arg)
			keys := t.popN(n)
			self := t.pop()
			var v *object.Object
			v, exc = t.getElem(self, keys)
			if exc == nil {
				t.push(v)
			}

		case bytecode.OpSetElems:
			n := int(arg)
			val := t.pop()
			keys := t.popN(n)
			self := t.pop()
			exc = t.setElem(self, keys, val)
			if exc == nil {
				t.push(val)
			}

		case bytecode.OpDelElems:
			n := int(arg)
			keys := t.popN(n)
			self := t.pop()
			exc = t.delElem(self, keys)

		case bytecode.OpCall:
			n := int(arg)
			args := t.popN(n)
			callee := t.pop()
			var result *object.Object
			result, exc = t.invoke(callee, args)
			if exc == nil {
				t.push(result)
			}

		case bytecode.OpList:
			items := t.popN(int(arg))
			t.push(listValue(items))

		case bytecode.OpTuple:
			items := t.popN(int(arg))
			t.push(tupleValue(items))

		case bytecode.OpSetLit:
			items := t.popN(int(arg))
			t.push(t.setValue(items))

		case bytecode.OpDict:
			n := int(arg)
			pairs := t.popN(2 * n)
			t.push(t.dictValue(pairs))

		case bytecode.OpFunc:
			t.execFunc(frame, arg)

		case bytecode.OpFuncDefa:
			t.execFuncDefa(int(arg))

		case bytecode.OpTypeOp:
			exc = t.execType(frame, arg)

		case bytecode.OpJmp:
			frame.ip = ip + 5 + int(arg)

		case bytecode.OpJmpt:
			if t.ctx.Truthy(t.pop()) {
				frame.ip = ip + 5 + int(arg)
			}

		case bytecode.OpJmpf:
			if !t.ctx.Truthy(t.pop()) {
				frame.ip = ip + 5 + int(arg)
			}

		case bytecode.OpRet:
			v := t.pop()
			t.truncate(frame.base)
			return v, nil

		case bytecode.OpThrow:
			exc = t.pop()

		case bytecode.OpAssert:
			t.pop() // message operand the compiler pushes above the condition
			cond := t.pop()
			if !t.ctx.Truthy(cond) {
				snippet := constString(frame.chunk.Constants[arg])
				exc = t.ctx.Raise("AssertError", "assertion failed: %s", snippet)
			}

		case bytecode.OpForStart:
			exc = t.execForStart()

		case bytecode.OpForNextt:
			var jumped bool
			jumped, exc = t.execForNext()
			if exc == nil && jumped {
				frame.ip = ip + 5 + int(arg)
			}

		case bytecode.OpForNextf:
			var jumped bool
			jumped, exc = t.execForNext()
			if exc == nil && !jumped {
				frame.ip = ip + 5 + int(arg)
			}

		case bytecode.OpTryStart:
			frame.handlers = append(frame.handlers, tryHandler{resumePC: ip + 5 + int(arg), depth: len(t.stack)})

		case bytecode.OpTryCatch:
			ty := t.pop()
			t.execTryCatch(frame, ip, arg, ty)

		case bytecode.OpTryCatchAll:
			t.execTryCatchAll(frame, ip, arg)

		case bytecode.OpTryEnd:
			if n := len(frame.handlers); n > 0 {
				frame.handlers = frame.handlers[:n-1]
			}
			frame.ip = ip + 5 + int(arg)

		case bytecode.OpFinallyEnd:
			if t.pending != nil {
				exc = t.pending
				t.pending = nil
			}

		case bytecode.OpImport:
			path := constString(frame.chunk.Constants[arg])
			var mod *object.Object
			if t.importer == nil {
				exc = t.ctx.Raise("ImportError", "no module loader configured for '%s'", path)
			} else {
				mod, exc = t.importer.Import(t.ctx, path)
				if exc == nil {
					t.push(mod)
				}
			}

		default:
			exc = t.execOperator(op)
		}

		if exc != nil {
			var handled bool
			handled, exc = t.unwind(frame, exc)
			if !handled {
				t.truncate(frame.base)
				return nil, exc
			}
		}
	}
}

func (t *Thread) popN(n int) []*object.Object {
	if n == 0 {
		return nil
	}
	out := make([]*object.Object, n)
	base := len(t.stack) - n
	copy(out, t.stack[base:])
	for i := base; i < len(t.stack); i++ {
		t.stack[i] = nil
	}
	t.stack = t.stack[:base]
	return out
}

// constString extracts the Go string backing a name/string constant.
func constString(v *object.Object) string {
	s, _ := container.AsString(v)
	return s.Bytes
}

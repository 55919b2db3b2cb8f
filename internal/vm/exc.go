package vm

import "sentra/internal/object"

// unwind searches frame's live try handlers for one that can take exc. A
// handler's depth was recorded when try_start ran, so claiming it discards
// whatever partial body state is sitting above that point on the stack.
// The innermost (most recently entered) try block is always tried first,
// matching frame.handlers being appended in program order.
func (t *Thread) unwind(frame *Frame, exc *object.Object) (handled bool, remaining *object.Object) {
	n := len(frame.handlers)
	if n == 0 {
		return false, exc
	}
	h := frame.handlers[n-1]
	frame.handlers = frame.handlers[:n-1]
	t.truncate(h.depth)
	t.pending = exc
	frame.ip = h.resumePC
	return true, nil
}

// execTryCatch implements `try_catch <target>`: ty is the type expression
// value popped ahead of this instruction. If the thread's pending exception
// is an instance of it, the exception is pushed (consuming pending) and
// control jumps straight to the clause's binding/body; otherwise pending is
// left untouched so the next test (another type in the same clause, or the
// next clause) gets a turn.
func (t *Thread) execTryCatch(frame *Frame, ip int, arg int32, ty *object.Object) {
	if t.pending == nil {
		return
	}
	want, ok := object.AsType(ty)
	if !ok || !object.IsInstance(t.pending, want) {
		return
	}
	t.push(t.pending)
	t.pending = nil
	frame.ip = ip + 5 + int(arg)
}

// execTryCatchAll implements `try_catch_all <target>`: a bare catch clause
// with no type test, claiming whatever exception is pending unconditionally.
func (t *Thread) execTryCatchAll(frame *Frame, ip int, arg int32) {
	if t.pending == nil {
		return
	}
	t.push(t.pending)
	t.pending = nil
	frame.ip = ip + 5 + int(arg)
}

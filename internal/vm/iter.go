package vm

import "sentra/internal/object"

// execForStart implements `for_start`: pop the iterable, replace it with
// the result of its `iter` slot (an iterator is its own iterator, per
// §4.1/§4.6).
func (t *Thread) execForStart() *object.Object {
	iterable := t.pop()
	ty := object.TypeOf(iterable)
	if ty == nil || ty.Slots.Iter == nil {
		return t.ctx.Raise("TypeError", "'%s' object is not iterable", typeName(ty))
	}
	it, exc := ty.Slots.Iter(t.ctx, iterable)
	if exc != nil {
		return exc
	}
	t.push(it)
	return nil
}

// execForNext peeks the iterator sitting on top of the stack and advances
// it. On a produced value it pushes the value above the iterator (so a
// following `store` can consume it while the iterator stays put for the
// next round). On exhaustion it pops the iterator itself and reports
// exhausted=true so the caller can take its jump variant's branch.
func (t *Thread) execForNext() (exhausted bool, exc *object.Object) {
	it := t.peek()
	ty := object.TypeOf(it)
	if ty == nil || ty.Slots.Next == nil {
		return false, t.ctx.Raise("TypeError", "'%s' object is not an iterator", typeName(ty))
	}
	v, raised := ty.Slots.Next(t.ctx, it)
	if raised != nil {
		if object.IsInstance(raised, t.ctx.LookupType("OutOfIterException")) {
			t.pop()
			return true, nil
		}
		return false, raised
	}
	t.push(v)
	return false, nil
}

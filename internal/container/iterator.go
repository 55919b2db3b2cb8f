package container

import "sentra/internal/object"

// SeqIterator is the shared iterator used by string, bytes, tuple and list:
// a position into a materialized slice of elements. next_* opcodes call
// Next until it raises OutOfIterException.
type SeqIterator struct {
	Items []*object.Object
	Pos   int
}

var IteratorType *object.Type

func NewSeqIterator(items []*object.Object) *object.Object {
	return object.New(IteratorType, &SeqIterator{Items: items})
}

// IterNext advances a SeqIterator; runtime wires this as Slots.Next for
// IteratorType, and as Slots.Iter (returning itself) since an iterator is
// its own iterator per §4.6 ("for an already-iterator returns itself").
func IterNext(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	it, ok := self.Data.(*SeqIterator)
	if !ok {
		return nil, ctx.Raise("TypeError", "not an iterator")
	}
	if it.Pos >= len(it.Items) {
		return nil, ctx.Raise("OutOfIterException", "iterator exhausted")
	}
	v := it.Items[it.Pos]
	it.Pos++
	return v, nil
}

func IterSelf(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	return self, nil
}

package container

import (
	"math/big"

	"sentra/internal/object"
)

// NewInt/NewBool mirror the numeric package's constructors without an
// import-cycle: container needs to produce Int results for `len`/`hash` and
// Bool results for `eq`/`in`, so the runtime wires these function variables
// at bootstrap, same pattern as numeric.MakeString.
var (
	NewIntFn  func(ctx object.Ctx, v *big.Int) *object.Object
	NewBoolFn func(ctx object.Ctx, v bool) *object.Object
)

func mkInt(ctx object.Ctx, n int) *object.Object   { return NewIntFn(ctx, big.NewInt(int64(n))) }
func mkBool(ctx object.Ctx, b bool) *object.Object { return NewBoolFn(ctx, b) }

// --- String slots ---------------------------------------------------------

func StringLen(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	s, _ := AsString(self)
	return mkInt(ctx, s.CharLen()), nil
}

func StringHash(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	s, _ := AsString(self)
	return mkInt(ctx, int(s.Hash())), nil
}

func StringStr(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	return self, nil
}

func StringRepr(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	s, _ := AsString(self)
	return NewString("\"" + s.Bytes + "\""), nil
}

func StringBool(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	s, _ := AsString(self)
	return mkBool(ctx, s.CharLen() > 0), nil
}

func StringIter(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	s, _ := AsString(self)
	items := make([]*object.Object, 0, s.CharLen())
	for i := 0; i < s.CharLen(); i++ {
		r, _ := s.Index(i)
		items = append(items, NewString(string(r)))
	}
	return NewSeqIterator(items), nil
}

func StringAdd(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	as, ok1 := AsString(a)
	bs, ok2 := AsString(b)
	if !ok1 || !ok2 {
		return nil, ctx.Raise("TypeError", "can only concatenate str to str")
	}
	return NewString(as.Bytes + bs.Bytes), nil
}

func StringEq(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	as, ok1 := AsString(a)
	bs, ok2 := AsString(b)
	if !ok1 || !ok2 {
		return mkBool(ctx, false), nil
	}
	return mkBool(ctx, as.Bytes == bs.Bytes), nil
}

func StringLt(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	as, _ := AsString(a)
	bs, _ := AsString(b)
	return mkBool(ctx, as.Bytes < bs.Bytes), nil
}

func StringGetElem(ctx object.Ctx, self *object.Object, keys []*object.Object) (*object.Object, *object.Object) {
	s, _ := AsString(self)
	idx, exc := indexArg(ctx, keys, s.CharLen())
	if exc != nil {
		return nil, exc
	}
	r, ok := s.Index(idx)
	if !ok {
		return nil, ctx.Raise("IndexError", "string index out of range")
	}
	return NewString(string(r)), nil
}

// indexArg extracts a single non-negative (after wraparound) int index from
// a getelem/setelem key list, bounds-checking against length.
func indexArg(ctx object.Ctx, keys []*object.Object, length int) (int, *object.Object) {
	if len(keys) != 1 {
		return 0, ctx.Raise("IndexError", "expected exactly one index")
	}
	bi, ok := keys[0].Data.(*big.Int)
	if !ok {
		return 0, ctx.Raise("TypeError", "index must be an integer")
	}
	idx := int(bi.Int64())
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, ctx.Raise("IndexError", "index out of range")
	}
	return idx, nil
}

// --- Bytes slots -----------------------------------------------------------

func BytesLen(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	b, _ := AsBytes(self)
	return mkInt(ctx, len(b.Data)), nil
}

func BytesHash(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	b, _ := AsBytes(self)
	return mkInt(ctx, int(b.Hash())), nil
}

func BytesEq(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	ab, ok1 := AsBytes(a)
	bb, ok2 := AsBytes(b)
	if !ok1 || !ok2 || len(ab.Data) != len(bb.Data) {
		return mkBool(ctx, false), nil
	}
	for i := range ab.Data {
		if ab.Data[i] != bb.Data[i] {
			return mkBool(ctx, false), nil
		}
	}
	return mkBool(ctx, true), nil
}

func BytesGetElem(ctx object.Ctx, self *object.Object, keys []*object.Object) (*object.Object, *object.Object) {
	b, _ := AsBytes(self)
	idx, exc := indexArg(ctx, keys, len(b.Data))
	if exc != nil {
		return nil, exc
	}
	return mkInt(ctx, int(b.Data[idx])), nil
}

// --- Tuple slots -------------------------------------------------------------

func TupleLen(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	t, _ := AsTuple(self)
	return mkInt(ctx, len(t.Items)), nil
}

func TupleIter(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	t, _ := AsTuple(self)
	return NewSeqIterator(append([]*object.Object{}, t.Items...)), nil
}

func TupleGetElem(ctx object.Ctx, self *object.Object, keys []*object.Object) (*object.Object, *object.Object) {
	t, _ := AsTuple(self)
	idx, exc := indexArg(ctx, keys, len(t.Items))
	if exc != nil {
		return nil, exc
	}
	return t.Items[idx], nil
}

func TupleEq(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	at, ok1 := AsTuple(a)
	bt, ok2 := AsTuple(b)
	if !ok1 || !ok2 || len(at.Items) != len(bt.Items) {
		return mkBool(ctx, false), nil
	}
	for i := range at.Items {
		if !valuesEqual(ctx, at.Items[i], bt.Items[i]) {
			return mkBool(ctx, false), nil
		}
	}
	return mkBool(ctx, true), nil
}

// --- List slots --------------------------------------------------------------

func ListLen(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	l, _ := AsList(self)
	return mkInt(ctx, len(l.Items)), nil
}

func ListIter(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	l, _ := AsList(self)
	return NewSeqIterator(append([]*object.Object{}, l.Items...)), nil
}

func ListGetElem(ctx object.Ctx, self *object.Object, keys []*object.Object) (*object.Object, *object.Object) {
	l, _ := AsList(self)
	idx, exc := indexArg(ctx, keys, len(l.Items))
	if exc != nil {
		return nil, exc
	}
	return l.Items[idx], nil
}

func ListSetElem(ctx object.Ctx, self *object.Object, keys []*object.Object, val *object.Object) *object.Object {
	l, _ := AsList(self)
	idx, exc := indexArg(ctx, keys, len(l.Items))
	if exc != nil {
		return exc
	}
	l.Items[idx] = val
	return nil
}

func ListAdd(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	al, ok1 := AsList(a)
	bl, ok2 := AsList(b)
	if !ok1 || !ok2 {
		return nil, ctx.Raise("TypeError", "can only concatenate list to list")
	}
	out := make([]*object.Object, 0, len(al.Items)+len(bl.Items))
	out = append(out, al.Items...)
	out = append(out, bl.Items...)
	return NewList(out), nil
}

// --- Dict slots ----------------------------------------------------------

func DictLen(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	d, _ := AsDict(self)
	return mkInt(ctx, d.Len()), nil
}

func DictIter(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	d, _ := AsDict(self)
	return NewSeqIterator(d.Keys()), nil
}

func DictGetElem(ctx object.Ctx, self *object.Object, keys []*object.Object) (*object.Object, *object.Object) {
	d, _ := AsDict(self)
	if len(keys) != 1 {
		return nil, ctx.Raise("KeyError", "expected exactly one key")
	}
	v, ok := d.Get(ctx, keys[0])
	if !ok {
		return nil, ctx.Raise("KeyError", "%s", ctx.FormatRepr(keys[0]))
	}
	return v, nil
}

func DictSetElem(ctx object.Ctx, self *object.Object, keys []*object.Object, val *object.Object) *object.Object {
	d, _ := AsDict(self)
	if len(keys) != 1 {
		return ctx.Raise("KeyError", "expected exactly one key")
	}
	d.Set(ctx, keys[0], val)
	return nil
}

func DictDelElem(ctx object.Ctx, self *object.Object, keys []*object.Object) *object.Object {
	d, _ := AsDict(self)
	if len(keys) != 1 || !d.Delete(ctx, keys[0]) {
		return ctx.Raise("KeyError", "key not found")
	}
	return nil
}

// --- Set slots -------------------------------------------------------------

func SetLen(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	s, _ := AsSet(self)
	return mkInt(ctx, s.Len()), nil
}

func SetIter(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	s, _ := AsSet(self)
	return NewSeqIterator(s.Members()), nil
}

// --- shared: the `in` operator (compiled as bop_in) -------------------------

// Contains implements `in` across strings (substring), and any container
// with a GetElem/iteration-based membership test.
func Contains(ctx object.Ctx, container, item *object.Object) (*object.Object, *object.Object) {
	switch c := container.Data.(type) {
	case *String:
		sub, ok := AsString(item)
		if !ok {
			return nil, ctx.Raise("TypeError", "'in <str>' requires string as left operand")
		}
		return mkBool(ctx, indexOfSubstring(c.Bytes, sub.Bytes)), nil
	case *Tuple:
		for _, v := range c.Items {
			if valuesEqual(ctx, v, item) {
				return mkBool(ctx, true), nil
			}
		}
		return mkBool(ctx, false), nil
	case *List:
		for _, v := range c.Items {
			if valuesEqual(ctx, v, item) {
				return mkBool(ctx, true), nil
			}
		}
		return mkBool(ctx, false), nil
	case *Dict:
		_, ok := c.Get(ctx, item)
		return mkBool(ctx, ok), nil
	case *Set:
		return mkBool(ctx, c.Contains(ctx, item)), nil
	}
	return nil, ctx.Raise("TypeError", "argument is not iterable")
}

func indexOfSubstring(s, sub string) bool {
	if sub == "" {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

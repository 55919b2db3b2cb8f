package vm

import (
	"sentra/internal/container"
	"sentra/internal/object"
)

func listValue(items []*object.Object) *object.Object  { return container.NewList(items) }
func tupleValue(items []*object.Object) *object.Object { return container.NewTuple(items) }

func (t *Thread) setValue(items []*object.Object) *object.Object {
	s := container.NewSet()
	set, _ := container.AsSet(s)
	for _, v := range items {
		set.Add(t.ctx, v)
	}
	return s
}

func (t *Thread) dictValue(pairs []*object.Object) *object.Object {
	d := container.NewDict()
	dict, _ := container.AsDict(d)
	for i := 0; i+1 < len(pairs); i += 2 {
		dict.Set(t.ctx, pairs[i], pairs[i+1])
	}
	return d
}

func (t *Thread) getElem(self *object.Object, keys []*object.Object) (*object.Object, *object.Object) {
	ty := object.TypeOf(self)
	if ty == nil || ty.Slots.GetElem == nil {
		return nil, t.ctx.Raise("TypeError", "'%s' object is not subscriptable", typeName(ty))
	}
	return ty.Slots.GetElem(t.ctx, self, keys)
}

func (t *Thread) setElem(self *object.Object, keys []*object.Object, val *object.Object) *object.Object {
	ty := object.TypeOf(self)
	if ty == nil || ty.Slots.SetElem == nil {
		return t.ctx.Raise("TypeError", "'%s' object does not support item assignment", typeName(ty))
	}
	return ty.Slots.SetElem(t.ctx, self, keys, val)
}

func (t *Thread) delElem(self *object.Object, keys []*object.Object) *object.Object {
	ty := object.TypeOf(self)
	if ty == nil || ty.Slots.DelElem == nil {
		return t.ctx.Raise("TypeError", "'%s' object does not support item deletion", typeName(ty))
	}
	return ty.Slots.DelElem(t.ctx, self, keys)
}

func typeName(t *object.Type) string {
	if t == nil {
		return "nil"
	}
	return t.Name
}

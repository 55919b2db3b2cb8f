package container

import "sentra/internal/object"

// Dict is an open-addressed hash table preserving insertion order, per §3.
type Dict struct {
	t *table
}

var DictType *object.Type

func NewDict() *object.Object {
	return object.New(DictType, &Dict{t: newTable()})
}

func (d *Dict) Get(ctx object.Ctx, key *object.Object) (*object.Object, bool) {
	return d.t.get(ctx, key)
}

func (d *Dict) Set(ctx object.Ctx, key, val *object.Object) {
	d.t.set(ctx, key, val)
}

func (d *Dict) Delete(ctx object.Ctx, key *object.Object) bool {
	return d.t.delete(ctx, key)
}

func (d *Dict) Len() int { return d.t.size }

// Keys/Values/Items return insertion-ordered snapshots.
func (d *Dict) Keys() []*object.Object {
	es := d.t.ordered()
	out := make([]*object.Object, len(es))
	for i, e := range es {
		out[i] = e.Key
	}
	return out
}

func (d *Dict) Values() []*object.Object {
	es := d.t.ordered()
	out := make([]*object.Object, len(es))
	for i, e := range es {
		out[i] = e.Val
	}
	return out
}

func AsDict(o *object.Object) (*Dict, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Data.(*Dict)
	return v, ok
}

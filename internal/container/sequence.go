package container

import "sentra/internal/object"

// Tuple is an immutable ordered sequence of owned references.
type Tuple struct {
	Items []*object.Object
}

var TupleType *object.Type

func NewTuple(items []*object.Object) *object.Object {
	return object.New(TupleType, &Tuple{Items: items})
}

func AsTuple(o *object.Object) (*Tuple, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Data.(*Tuple)
	return v, ok
}

// List is a mutable ordered sequence. Append relies on Go's slice growth,
// which is geometric (amortized O(1)), matching §3's requirement directly.
type List struct {
	Items []*object.Object
}

var ListType *object.Type

func NewList(items []*object.Object) *object.Object {
	return object.New(ListType, &List{Items: items})
}

func (l *List) Append(v *object.Object) {
	l.Items = append(l.Items, v)
}

func AsList(o *object.Object) (*List, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Data.(*List)
	return v, ok
}

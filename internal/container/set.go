package container

import "sentra/internal/object"

// Set is an open-addressed hash table of unique, insertion-ordered members.
// It shares its table implementation with Dict (values unused).
type Set struct {
	t *table
}

var SetType *object.Type

func NewSet() *object.Object {
	return object.New(SetType, &Set{t: newTable()})
}

func (s *Set) Add(ctx object.Ctx, v *object.Object) {
	s.t.set(ctx, v, nil)
}

func (s *Set) Contains(ctx object.Ctx, v *object.Object) bool {
	_, ok := s.t.get(ctx, v)
	return ok
}

func (s *Set) Remove(ctx object.Ctx, v *object.Object) bool {
	return s.t.delete(ctx, v)
}

func (s *Set) Len() int { return s.t.size }

func (s *Set) Members() []*object.Object {
	es := s.t.ordered()
	out := make([]*object.Object, len(es))
	for i, e := range es {
		out[i] = e.Key
	}
	return out
}

func AsSet(o *object.Object) (*Set, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Data.(*Set)
	return v, ok
}

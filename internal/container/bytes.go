package container

import (
	"hash/fnv"

	"sentra/internal/object"
)

// Bytes is an immutable byte sequence with a cached content hash.
type Bytes struct {
	Data   []byte
	hash   uint64
	hashed bool
}

var BytesType *object.Type

func NewBytes(b []byte) *object.Object {
	return object.New(BytesType, &Bytes{Data: b})
}

func (b *Bytes) Hash() uint64 {
	if !b.hashed {
		h := fnv.New64a()
		h.Write(b.Data)
		b.hash = h.Sum64()
		b.hashed = true
	}
	return b.hash
}

func AsBytes(o *object.Object) (*Bytes, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Data.(*Bytes)
	return v, ok
}

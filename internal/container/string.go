// Package container implements the UTF-8 string, bytes, tuple, list, dict
// and set value types of §3: immutable sequences with cached metadata,
// amortized O(1) list append, and an open-addressed hash table for dict/set
// that preserves insertion order.
package container

import (
	"hash/fnv"
	"unicode/utf8"

	"sentra/internal/object"
)

// accelStride is the character-index granularity of the random-access
// acceleration table: every accelStride-th rune's byte offset is recorded,
// bounding Index() to an O(accelStride) linear scan from the nearest marker.
const accelStride = 64

// String is an immutable UTF-8 codepoint sequence. CharLen and the hash are
// computed on first use and cached (ByteLen is len of the bytes); the accel
// table is built lazily on first
// random-access index past accelStride characters.
type String struct {
	Bytes   string
	charLen int
	hash    uint64
	hashed  bool
	accel   []int // accel[i] = byte offset of character i*accelStride
}

var StringType *object.Type

func NewString(s string) *object.Object {
	return object.New(StringType, &String{Bytes: s, charLen: -1})
}

func (s *String) CharLen() int {
	if s.charLen < 0 {
		s.charLen = utf8.RuneCountInString(s.Bytes)
	}
	return s.charLen
}

func (s *String) ByteLen() int { return len(s.Bytes) }

func (s *String) Hash() uint64 {
	if !s.hashed {
		h := fnv.New64a()
		h.Write([]byte(s.Bytes))
		s.hash = h.Sum64()
		s.hashed = true
	}
	return s.hash
}

func (s *String) buildAccel() {
	if s.accel != nil || s.CharLen() <= accelStride {
		return
	}
	n := s.CharLen()/accelStride + 1
	s.accel = make([]int, n)
	i, charIdx, nextMark := 0, 0, 0
	for i < len(s.Bytes) {
		if charIdx == nextMark*accelStride {
			s.accel[nextMark] = i
			nextMark++
			if nextMark >= n {
				break
			}
		}
		_, size := utf8.DecodeRuneInString(s.Bytes[i:])
		i += size
		charIdx++
	}
}

// Index returns the rune at character position idx, scanning from the
// nearest acceleration marker; O(accelStride) amortized once built.
func (s *String) Index(idx int) (rune, bool) {
	if idx < 0 || idx >= s.CharLen() {
		return 0, false
	}
	s.buildAccel()
	pos, charIdx := 0, 0
	if s.accel != nil {
		mark := idx / accelStride
		if mark >= len(s.accel) {
			mark = len(s.accel) - 1
		}
		pos = s.accel[mark]
		charIdx = mark * accelStride
	}
	for charIdx < idx {
		_, size := utf8.DecodeRuneInString(s.Bytes[pos:])
		pos += size
		charIdx++
	}
	r, _ := utf8.DecodeRuneInString(s.Bytes[pos:])
	return r, true
}

func AsString(o *object.Object) (*String, bool) {
	if o == nil {
		return nil, false
	}
	s, ok := o.Data.(*String)
	return s, ok
}

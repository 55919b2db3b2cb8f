package container

import "sentra/internal/object"

// entry is one slot in the entries array shared by Dict and Set. Deleted
// entries are tombstoned in place (Deleted=true) and compacted later rather
// than shifted, so live indices referenced from buckets stay valid until a
// compaction pass.
type entry struct {
	Hash    uint64
	Key     *object.Object
	Val     *object.Object // nil for Set entries
	Deleted bool
}

const (
	bucketEmpty   = 0
	bucketDeleted = -1
	loadMax       = 0.6
	loadTarget    = 0.3
	tombstoneMax  = 0.5
)

// table is the open-addressed hash table backing both Dict and Set: buckets
// hold EMPTY, DELETED, or 1+index into entries (so 0 is free for EMPTY).
// Insertion order is preserved because entries only ever grows or compacts
// in place, never reorders.
type table struct {
	buckets []int32
	entries []entry
	size    int // live (non-deleted, non-empty) entry count
}

func newTable() *table {
	t := &table{}
	t.buckets = make([]int32, 8)
	return t
}

func (t *table) probe(ctx object.Ctx, hash uint64, key *object.Object) (bucketIdx int, entryIdx int, found bool) {
	mask := uint64(len(t.buckets) - 1)
	i := hash & mask
	firstDeleted := -1
	for {
		b := t.buckets[i]
		if b == bucketEmpty {
			if firstDeleted >= 0 {
				return firstDeleted, -1, false
			}
			return int(i), -1, false
		}
		if b == bucketDeleted {
			if firstDeleted < 0 {
				firstDeleted = int(i)
			}
		} else {
			e := &t.entries[b-1]
			if !e.Deleted && e.Hash == hash && valuesEqual(ctx, e.Key, key) {
				return int(i), int(b - 1), true
			}
		}
		i = (i + 1) & mask
	}
}

func valuesEqual(ctx object.Ctx, a, b *object.Object) bool {
	if a == b {
		return true
	}
	v, exc := object.DispatchBinary(ctx, object.OpEq, a, b)
	if exc != nil || v == nil {
		return false
	}
	return ctx.Truthy(v)
}

func (t *table) maybeGrow(ctx object.Ctx) {
	if float64(t.size+1) <= loadMax*float64(len(t.buckets)) {
		return
	}
	t.rehash(ctx, len(t.buckets)*2)
}

func (t *table) maybeCompact(ctx object.Ctx) {
	deleted := 0
	for _, e := range t.entries {
		if e.Deleted {
			deleted++
		}
	}
	if len(t.entries) > 0 && float64(deleted) > tombstoneMax*float64(len(t.entries)) {
		t.rehash(ctx, len(t.buckets))
	}
}

func (t *table) rehash(ctx object.Ctx, minBucketCount int) {
	old := t.entries
	t.entries = make([]entry, 0, len(old))
	n := minBucketCount
	for float64(t.size) > loadTarget*float64(n) {
		n *= 2
	}
	t.buckets = make([]int32, n)
	for _, e := range old {
		if e.Deleted {
			continue
		}
		idx := len(t.entries)
		t.entries = append(t.entries, e)
		bi, _, _ := t.probe(ctx, e.Hash, e.Key)
		t.buckets[bi] = int32(idx + 1)
	}
}

func hashOf(ctx object.Ctx, key *object.Object) uint64 {
	v, exc := object.DispatchUnary(ctx, func(s *object.Slots) object.UnarySlot { return s.Hash }, key)
	if exc != nil || v == nil {
		return 0
	}
	return ctx.HashBits(v)
}

// Set inserts or overwrites key->val, growing the table first if needed.
func (t *table) set(ctx object.Ctx, key, val *object.Object) {
	t.maybeGrow(ctx)
	h := hashOf(ctx, key)
	bi, ei, found := t.probe(ctx, h, key)
	if found {
		t.entries[ei].Val = val
		return
	}
	idx := len(t.entries)
	t.entries = append(t.entries, entry{Hash: h, Key: key, Val: val})
	t.buckets[bi] = int32(idx + 1)
	t.size++
}

func (t *table) get(ctx object.Ctx, key *object.Object) (*object.Object, bool) {
	h := hashOf(ctx, key)
	_, ei, found := t.probe(ctx, h, key)
	if !found {
		return nil, false
	}
	return t.entries[ei].Val, true
}

func (t *table) delete(ctx object.Ctx, key *object.Object) bool {
	h := hashOf(ctx, key)
	bi, ei, found := t.probe(ctx, h, key)
	if !found {
		return false
	}
	t.entries[ei].Deleted = true
	t.buckets[bi] = bucketDeleted
	t.size--
	t.maybeCompact(ctx)
	return true
}

// ordered returns live entries in insertion order.
func (t *table) ordered() []entry {
	out := make([]entry, 0, t.size)
	for _, e := range t.entries {
		if !e.Deleted {
			out = append(out, e)
		}
	}
	return out
}

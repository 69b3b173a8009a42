package rxn

import (
	"iter"
	"math/bits"
)

// Table is the reaction hash table. Buckets are addressed by
// hash & (size-1) and hold their reactions in insertion order.
// A Table is read-only once built and safe for concurrent readers.
type Table struct {
	buckets [][]*Reaction
	mask    uint32
	count   int
}

// Size returns the number of buckets.
func (t *Table) Size() int { return len(t.buckets) }

// Mask returns size-1.
func (t *Table) Mask() uint32 { return t.mask }

// Len returns the number of reaction records in the table.
func (t *Table) Len() int { return t.count }

// Lookup returns the chain stored in the bucket addressed by h.
// The returned slice must not be modified.
func (t *Table) Lookup(h uint32) []*Reaction {
	return t.buckets[h&t.mask]
}

// Chain iterates over the bucket addressed by h.
func (t *Table) Chain(h uint32) iter.Seq[*Reaction] {
	return func(yield func(*Reaction) bool) {
		for _, r := range t.buckets[h&t.mask] {
			if !yield(r) {
				return
			}
		}
	}
}

// Buckets walks every bucket in positional order. Bucket positions and the
// order within a bucket are stable for the lifetime of the table, so external
// code may index records by (bucket, offset).
func (t *Table) Buckets() iter.Seq2[int, []*Reaction] {
	return func(yield func(int, []*Reaction) bool) {
		for i, b := range t.buckets {
			if !yield(i, b) {
				return
			}
		}
	}
}

// PairIndex combines two hashes into a bucket index. An XOR of zero falls
// back to the first hash so that two identical hashes do not all land in
// bucket 0.
func (t *Table) PairIndex(h1, h2 uint32) uint32 {
	return pairIndex(h1, h2, t.mask)
}

func pairIndex(h1, h2, mask uint32) uint32 {
	h := (h1 ^ h2) & mask
	if h == 0 {
		h = h1 & mask
	}
	return h
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

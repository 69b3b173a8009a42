package rxn

import (
	"errors"
	"fmt"
)

var (
	ErrBuilderFrozen   = errors.New("table already built")
	ErrInvalidHashSize = errors.New("hash size must be a positive power of two")
)

// Builder assembles a Table. It places each reaction in the bucket the
// triggers will probe for it, so any change to the placement rule here must
// be mirrored in the triggers.
type Builder struct {
	reg     *Registry
	buckets [][]*Reaction
	mask    uint32
	count   int
	frozen  bool
}

// NewBuilder creates a builder for a table of size buckets.
func NewBuilder(reg *Registry, size int) (*Builder, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if !isPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHashSize, size)
	}
	return &Builder{
		reg:     reg,
		buckets: make([][]*Reaction, size),
		mask:    uint32(size - 1),
	}, nil
}

// Add validates r and appends it to its bucket. A reaction declared without
// pathways gets a single pathway named after the reaction, whose reactants
// are the non-surface-class players.
func (b *Builder) Add(r *Reaction) error {
	if b.frozen {
		return ErrBuilderFrozen
	}
	if err := ValidateReaction(r, b.reg); err != nil {
		return err
	}
	if len(r.Pathways) == 0 {
		r.Pathways = []Pathway{{Name: r.Name, Reactants: b.defaultReactants(r)}}
	}

	h := b.bucketOf(r)
	b.buckets[h] = append(b.buckets[h], r)
	b.count++
	return nil
}

// AddAll adds every reaction, stopping at the first error.
func (b *Builder) AddAll(rs ...*Reaction) error {
	for i, r := range rs {
		if err := b.Add(r); err != nil {
			return fmt.Errorf("reaction at index %d: %w", i, err)
		}
	}
	return nil
}

// Build freezes the builder and returns the table.
func (b *Builder) Build() *Table {
	b.frozen = true
	return &Table{
		buckets: b.buckets,
		mask:    b.mask,
		count:   b.count,
	}
}

func (b *Builder) hash(id SpeciesID) uint32 {
	sp, _ := b.reg.Species(id)
	return sp.Hash
}

// bucketOf implements the placement rule:
//   - one player: its own hash
//   - two players, or two molecules plus a wall class: the pair of the first two
//   - three molecules: the pair of the two lexicographically smallest names
func (b *Builder) bucketOf(r *Reaction) uint32 {
	switch len(r.Players) {
	case 1:
		return b.hash(r.Players[0]) & b.mask
	case 2:
		return pairIndex(b.hash(r.Players[0]), b.hash(r.Players[1]), b.mask)
	}

	if b.reg.flags(r.Players[2]).Has(SurfaceClass) {
		return pairIndex(b.hash(r.Players[0]), b.hash(r.Players[1]), b.mask)
	}
	first, second := canonicalPair(
		b.reg.name(r.Players[0]), b.reg.name(r.Players[1]), b.reg.name(r.Players[2]))
	return pairIndex(b.hash(r.Players[first]), b.hash(r.Players[second]), b.mask)
}

func (b *Builder) defaultReactants(r *Reaction) []Participant {
	out := make([]Participant, 0, len(r.Players))
	for _, id := range r.Players {
		if b.reg.flags(id).Has(SurfaceClass) {
			continue
		}
		out = append(out, Participant{Species: id})
	}
	return out
}

// canonicalPair returns the positions (0, 1 or 2) of the lexicographically
// first and second of three names. Ties resolve in favour of the earlier
// position.
func canonicalPair(a, b, c string) (first, second int) {
	switch {
	case a <= b && a <= c:
		first = 0
		if b <= c {
			return first, 1
		}
		return first, 2
	case b <= a && b <= c:
		first = 1
		if a <= c {
			return first, 0
		}
		return first, 2
	default:
		first = 2
		if a <= b {
			return first, 0
		}
		return first, 1
	}
}

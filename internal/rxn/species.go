package rxn

import (
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// SpeciesID is the stable identity of a species or surface class within a run.
// Identity comparisons are always done on the ID, never on the Species value.
type SpeciesID uint16

// InvalidSpeciesID marks an unset or unknown species.
const InvalidSpeciesID SpeciesID = math.MaxUint16

// Names of the two wildcard identities every Registry carries.
const (
	GenericSurfaceName  = "GENERIC_SURFACE"
	GenericMoleculeName = "GENERIC_MOLECULE"
)

// Flags are per-species capability bits.
type Flags uint32

const (
	// OnGrid marks species that live on a surface grid.
	OnGrid Flags = 1 << iota
	// NotFree marks species that cannot exist free in the volume.
	NotFree
	// CanVolVol marks species that take part in volume-volume reactions.
	CanVolVol
	// SurfaceClass marks an identity that attaches to walls instead of molecules.
	SurfaceClass
	// Generic marks the wildcard sentinels.
	Generic
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

var (
	ErrDuplicateSpecies = errors.New("duplicate species name")
	ErrUnknownSpecies   = errors.New("unknown species")
	ErrTooManySpecies   = errors.New("species id space exhausted")
)

// Species represents a molecule type or a surface class.
// Species are created once during setup and never mutated afterwards.
type Species struct {
	ID    SpeciesID
	Name  string
	Hash  uint32
	Flags Flags
}

// IsSurfaceClass reports whether the species is attached to walls.
func (s *Species) IsSurfaceClass() bool {
	return s.Flags.Has(SurfaceClass)
}

// HashName returns the bucket hash used for a species name.
func HashName(name string) uint32 {
	return uint32(xxhash.Sum64String(name))
}

// Registry holds every species and surface class of a run, indexed by ID.
// It always contains the generic surface class and the generic molecule.
type Registry struct {
	species []*Species
	byName  map[string]SpeciesID
	gSurf   SpeciesID
	gMol    SpeciesID
}

// NewRegistry creates a registry holding only the two wildcard sentinels.
func NewRegistry() *Registry {
	r := &Registry{
		species: make([]*Species, 0, 16),
		byName:  make(map[string]SpeciesID),
	}
	// the sentinels cannot collide on an empty registry
	gs, _ := r.add(GenericSurfaceName, SurfaceClass|Generic, HashName(GenericSurfaceName))
	gm, _ := r.add(GenericMoleculeName, Generic, HashName(GenericMoleculeName))
	r.gSurf = gs.ID
	r.gMol = gm.ID
	return r
}

// AddSpecies registers a molecule species. The hash is derived from the name.
func (r *Registry) AddSpecies(name string, flags Flags) (*Species, error) {
	return r.add(name, flags&^(SurfaceClass|Generic), HashName(name))
}

// AddSpeciesWithHash registers a molecule species with an explicit bucket hash.
// Useful when the caller must reproduce a hash assigned elsewhere.
func (r *Registry) AddSpeciesWithHash(name string, flags Flags, hash uint32) (*Species, error) {
	return r.add(name, flags&^(SurfaceClass|Generic), hash)
}

// AddSurfaceClass registers a surface class.
func (r *Registry) AddSurfaceClass(name string) (*Species, error) {
	return r.add(name, SurfaceClass, HashName(name))
}

func (r *Registry) add(name string, flags Flags, hash uint32) (*Species, error) {
	if name == "" {
		return nil, fmt.Errorf("species name is required")
	}
	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSpecies, name)
	}
	if len(r.species) >= int(InvalidSpeciesID) {
		return nil, fmt.Errorf("%w: cannot add %s", ErrTooManySpecies, name)
	}
	sp := &Species{
		ID:    SpeciesID(len(r.species)),
		Name:  name,
		Hash:  hash,
		Flags: flags,
	}
	r.species = append(r.species, sp)
	r.byName[name] = sp.ID
	return sp, nil
}

// Species returns the species with the given ID.
func (r *Registry) Species(id SpeciesID) (*Species, bool) {
	if int(id) >= len(r.species) {
		return nil, false
	}
	return r.species[id], true
}

// Lookup returns the species registered under name.
func (r *Registry) Lookup(name string) (*Species, bool) {
	id, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.species[id], true
}

// GenericSurface returns the surface class that matches any wall.
func (r *Registry) GenericSurface() *Species { return r.species[r.gSurf] }

// GenericMolecule returns the species that matches any surface-reactive molecule.
func (r *Registry) GenericMolecule() *Species { return r.species[r.gMol] }

// All returns the registered species in ID order. The slice must not be modified.
func (r *Registry) All() []*Species { return r.species }

// Len returns the number of registered identities, sentinels included.
func (r *Registry) Len() int { return len(r.species) }

func (r *Registry) name(id SpeciesID) string {
	if int(id) >= len(r.species) {
		return ""
	}
	return r.species[id].Name
}

func (r *Registry) flags(id SpeciesID) Flags {
	if int(id) >= len(r.species) {
		return 0
	}
	return r.species[id].Flags
}

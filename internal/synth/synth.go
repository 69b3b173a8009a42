// Package synth generates random but well-formed reaction networks and
// encounters for exercising the triggers.
package synth

import (
	"fmt"
	"math/rand/v2"

	"github.com/daniacca/rxtrig/internal/rxn"
)

// Params controls the shape of a generated model.
type Params struct {
	Species        int    `json:"species" toml:"species"`
	SurfaceClasses int    `json:"surface_classes" toml:"surface_classes"`
	Reactions      int    `json:"reactions" toml:"reactions"`
	HashSize       int    `json:"hash_size" toml:"hash_size"`
	Seed           uint64 `json:"seed" toml:"seed"`
	// SurfaceFraction is the share of species that live on surfaces.
	SurfaceFraction float64 `json:"surface_fraction" toml:"surface_fraction"`
	// OrientedFraction is the chance that a reactant slot gets a nonzero geometry code.
	OrientedFraction float64 `json:"oriented_fraction" toml:"oriented_fraction"`
}

// DefaultParams returns a small mixed volume/surface network.
func DefaultParams() Params {
	return Params{
		Species:          40,
		SurfaceClasses:   4,
		Reactions:        400,
		HashSize:         rxn.DefaultConfig().HashSize,
		Seed:             1,
		SurfaceFraction:  0.25,
		OrientedFraction: 0.3,
	}
}

// Validate checks that p describes a network that can be generated.
func (p Params) Validate() error {
	err := &rxn.ValidationError{}
	if p.Species < 1 {
		err.Addf("species: must be at least 1, got %d", p.Species)
	}
	if p.SurfaceClasses < 0 {
		err.Addf("surface_classes: must not be negative, got %d", p.SurfaceClasses)
	}
	if p.Reactions < 0 {
		err.Addf("reactions: must not be negative, got %d", p.Reactions)
	}
	if p.SurfaceFraction < 0 || p.SurfaceFraction >= 1 {
		err.Addf("surface_fraction: must be in [0, 1), got %g", p.SurfaceFraction)
	}
	if p.OrientedFraction < 0 || p.OrientedFraction > 1 {
		err.Addf("oriented_fraction: must be in [0, 1], got %g", p.OrientedFraction)
	}
	if err.HasIssues() {
		return err
	}
	return nil
}

// Model is a generated network with a built table.
type Model struct {
	Registry  *rxn.Registry
	Table     *rxn.Table
	Volume    []rxn.SpeciesID
	Surface   []rxn.SpeciesID
	Classes   []rxn.SpeciesID
	Walls     []*rxn.Wall
	Reactions []*rxn.Reaction
}

// Generate builds a model from p. The same Params always yield the same model.
func Generate(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	g := &generator{
		p:   p,
		rng: rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15)),
		m:   &Model{Registry: rxn.NewRegistry()},
	}
	if err := g.species(); err != nil {
		return nil, err
	}

	b, err := rxn.NewBuilder(g.m.Registry, p.HashSize)
	if err != nil {
		return nil, err
	}
	for i := range p.Reactions {
		r := g.reaction(i)
		if err := b.Add(r); err != nil {
			return nil, fmt.Errorf("generated reaction %s: %w", r.Name, err)
		}
		g.m.Reactions = append(g.m.Reactions, r)
	}
	g.m.Table = b.Build()
	return g.m, nil
}

type generator struct {
	p   Params
	rng *rand.Rand
	m   *Model
}

func (g *generator) species() error {
	reg := g.m.Registry
	nSurf := int(float64(g.p.Species) * g.p.SurfaceFraction)
	nVol := g.p.Species - nSurf

	for i := range nVol {
		sp, err := reg.AddSpecies(fmt.Sprintf("V%03d", i), rxn.CanVolVol)
		if err != nil {
			return err
		}
		g.m.Volume = append(g.m.Volume, sp.ID)
	}
	for i := range nSurf {
		sp, err := reg.AddSpecies(fmt.Sprintf("S%03d", i), rxn.OnGrid|rxn.NotFree)
		if err != nil {
			return err
		}
		g.m.Surface = append(g.m.Surface, sp.ID)
	}
	for i := range g.p.SurfaceClasses {
		sp, err := reg.AddSurfaceClass(fmt.Sprintf("K%02d", i))
		if err != nil {
			return err
		}
		g.m.Classes = append(g.m.Classes, sp.ID)
		g.m.Walls = append(g.m.Walls, &rxn.Wall{ID: uint32(i), Class: sp.ID})
	}
	if len(g.m.Walls) == 0 {
		g.m.Walls = append(g.m.Walls, &rxn.Wall{Class: reg.GenericSurface().ID})
	}
	return nil
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

var codes = []rxn.Geometry{-2, -1, 1, 2}

func (g *generator) geom() rxn.Geometry {
	if g.rng.Float64() < g.p.OrientedFraction {
		return pick(g.rng, codes)
	}
	return 0
}

// wallClass picks a specific class or, sometimes, the generic surface class.
func (g *generator) wallClass() rxn.SpeciesID {
	if len(g.m.Classes) == 0 || g.rng.IntN(4) == 0 {
		return g.m.Registry.GenericSurface().ID
	}
	return pick(g.rng, g.m.Classes)
}

func (g *generator) anyMolecule() rxn.SpeciesID {
	if len(g.m.Surface) > 0 && g.rng.IntN(3) == 0 {
		return pick(g.rng, g.m.Surface)
	}
	return pick(g.rng, g.m.Volume)
}

func (g *generator) reaction(i int) *rxn.Reaction {
	var players []rxn.SpeciesID
	hasSurface := len(g.m.Surface) > 0

	switch kind := g.rng.IntN(6); {
	case kind == 0:
		players = []rxn.SpeciesID{g.anyMolecule()}
	case kind == 2 && hasSurface:
		players = []rxn.SpeciesID{pick(g.rng, g.m.Volume), pick(g.rng, g.m.Surface), g.wallClass()}
	case kind == 3:
		players = []rxn.SpeciesID{pick(g.rng, g.m.Volume), pick(g.rng, g.m.Volume), pick(g.rng, g.m.Volume)}
	case kind == 4:
		players = g.surfaceContact()
	case kind == 5 && hasSurface:
		players = []rxn.SpeciesID{pick(g.rng, g.m.Surface), pick(g.rng, g.m.Surface)}
	default:
		players = []rxn.SpeciesID{pick(g.rng, g.m.Volume), pick(g.rng, g.m.Volume)}
	}

	geoms := make([]rxn.Geometry, len(players))
	for j := range geoms {
		geoms[j] = g.geom()
	}

	r := &rxn.Reaction{
		Name:       fmt.Sprintf("R%04d", i),
		Players:    players,
		Geometries: geoms,
		Pathways:   make([]rxn.Pathway, 1),
	}
	g.pathway(&r.Pathways[0], r)
	return r
}

// surfaceContact returns the players of a molecule/wall reaction, with a
// generic molecule or generic surface now and then.
func (g *generator) surfaceContact() []rxn.SpeciesID {
	reg := g.m.Registry
	switch {
	case len(g.m.Classes) > 0 && g.rng.IntN(5) == 0:
		return []rxn.SpeciesID{reg.GenericMolecule().ID, pick(g.rng, g.m.Classes)}
	case len(g.m.Surface) > 0 && g.rng.IntN(2) == 0:
		return []rxn.SpeciesID{pick(g.rng, g.m.Surface), g.wallClass()}
	default:
		return []rxn.SpeciesID{pick(g.rng, g.m.Volume), g.wallClass()}
	}
}

func (g *generator) pathway(p *rxn.Pathway, r *rxn.Reaction) {
	p.Name = r.Name
	p.Rate = g.rng.ExpFloat64() * 1e6
	reg := g.m.Registry
	for _, id := range r.Players {
		if sp, ok := reg.Species(id); ok && !sp.IsSurfaceClass() && !sp.Flags.Has(rxn.Generic) {
			p.Reactants = append(p.Reactants, rxn.Participant{Species: id})
		}
	}
	for range g.rng.IntN(3) {
		p.Products = append(p.Products, rxn.Participant{Species: pick(g.rng, g.m.Volume)})
	}
}

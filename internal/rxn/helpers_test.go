package rxn

import (
	"testing"
)

// fixture bundles a registry under construction with the reactions that
// will go into the table.
type fixture struct {
	t         *testing.T
	reg       *Registry
	reactions []*Reaction
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, reg: NewRegistry()}
}

func (f *fixture) species(name string, flags Flags) *Species {
	f.t.Helper()
	sp, err := f.reg.AddSpecies(name, flags)
	if err != nil {
		f.t.Fatalf("AddSpecies(%s): %v", name, err)
	}
	return sp
}

func (f *fixture) class(name string) *Species {
	f.t.Helper()
	sp, err := f.reg.AddSurfaceClass(name)
	if err != nil {
		f.t.Fatalf("AddSurfaceClass(%s): %v", name, err)
	}
	return sp
}

// reaction declares a reaction over players with the given geometry codes.
func (f *fixture) reaction(name string, players []*Species, geoms ...Geometry) *Reaction {
	f.t.Helper()
	ids := make([]SpeciesID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	if len(geoms) == 0 {
		geoms = make([]Geometry, len(players))
	}
	r := &Reaction{Name: name, Players: ids, Geometries: geoms}
	f.reactions = append(f.reactions, r)
	return r
}

func (f *fixture) world(opts ...Option) *World {
	f.t.Helper()
	return f.worldWithConfig(DefaultConfig(), opts...)
}

func (f *fixture) worldWithConfig(cfg Config, opts ...Option) *World {
	f.t.Helper()
	w, err := Build(f.reg, cfg, f.reactions, opts...)
	if err != nil {
		f.t.Fatalf("Build: %v", err)
	}
	return w
}

// countingRecorder tallies recorder calls.
type countingRecorder struct {
	calls     [NumTriggerKinds]int
	matched   [NumTriggerKinds]int
	overflows [NumTriggerKinds]int
}

func (c *countingRecorder) ObserveTrigger(kind TriggerKind, matched int) {
	c.calls[kind]++
	c.matched[kind] += matched
}

func (c *countingRecorder) ObserveOverflow(kind TriggerKind, limit int) {
	c.overflows[kind]++
}

func bimolecular(w *World, a, b *Molecule, oa, ob Orientation) []*Reaction {
	out := w.NewMatchBuffer()
	n, _ := w.TriggerBimolecular(w.SpeciesHash(a.Species), w.SpeciesHash(b.Species), a, b, oa, ob, out)
	return out[:n]
}

func sameSet(x, y []*Reaction) bool {
	if len(x) != len(y) {
		return false
	}
	seen := make(map[*Reaction]int, len(x))
	for _, r := range x {
		seen[r]++
	}
	for _, r := range y {
		if seen[r] == 0 {
			return false
		}
		seen[r]--
	}
	return true
}

func contains(rs []*Reaction, r *Reaction) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

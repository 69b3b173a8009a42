package rxn

import "testing"

func TestTriggerUnimolecular(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", 0)
	b := f.species("B", 0)
	decay := f.reaction("A decay", []*Species{a})
	f.reaction("A+B", []*Species{a, b})
	rec := &countingRecorder{}
	w := f.world(WithRecorder(rec))

	ma := NewVolumeMolecule(a.ID)
	if got := w.TriggerUnimolecular(a.Hash, &ma); got != decay {
		t.Errorf("Expected %v, got %v", decay, got)
	}

	mb := NewVolumeMolecule(b.ID)
	if got := w.TriggerUnimolecular(b.Hash, &mb); got != nil {
		t.Errorf("Expected no unimolecular reaction for B, got %s", got.Name)
	}

	if rec.calls[Unimolecular] != 2 || rec.matched[Unimolecular] != 1 {
		t.Errorf("Expected 2 calls with 1 match, got %d calls with %d matches",
			rec.calls[Unimolecular], rec.matched[Unimolecular])
	}
}

func TestTriggerUnimolecular_IgnoresOtherSpeciesInBucket(t *testing.T) {
	reg := NewRegistry()
	a, _ := reg.AddSpeciesWithHash("A", 0, 3)
	b, _ := reg.AddSpeciesWithHash("B", 0, 3)
	onlyB := &Reaction{Name: "B decay", Players: []SpeciesID{b.ID}, Geometries: []Geometry{0}}
	w, err := Build(reg, DefaultConfig(), []*Reaction{onlyB})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	m := NewVolumeMolecule(a.ID)
	if got := w.TriggerUnimolecular(a.Hash, &m); got != nil {
		t.Errorf("Expected nil for A sharing B's bucket, got %s", got.Name)
	}
}

func TestTriggerSurfaceUnimolecular(t *testing.T) {
	f := newFixture(t)
	s := f.species("S", OnGrid)
	k := f.class("K")
	l := f.class("L")
	onK := f.reaction("S@K", []*Species{s, k}, 1, 1)
	w := f.world()

	wallK := &Wall{ID: 1, Class: k.ID}
	wallL := &Wall{ID: 2, Class: l.ID}

	up := NewSurfaceMolecule(s.ID, Up, wallK)
	if got := w.TriggerSurfaceUnimolecular(&up, nil); got != onK {
		t.Errorf("Expected resident wall reaction, got %v", got)
	}
	if got := w.TriggerSurfaceUnimolecular(&up, wallL); got != nil {
		t.Errorf("Expected no reaction against class L, got %s", got.Name)
	}

	down := NewSurfaceMolecule(s.ID, Down, wallK)
	if got := w.TriggerSurfaceUnimolecular(&down, nil); got != nil {
		t.Errorf("Expected orientation mismatch to reject, got %s", got.Name)
	}

	free := NewVolumeMolecule(s.ID)
	if got := w.TriggerSurfaceUnimolecular(&free, nil); got != nil {
		t.Errorf("Expected nil without any wall, got %s", got.Name)
	}

	onL := NewSurfaceMolecule(s.ID, Up, wallL)
	if got := w.TriggerSurfaceUnimolecular(&onL, nil); got != nil {
		t.Errorf("Expected no reaction on resident wall L, got %s", got.Name)
	}
	if got := w.TriggerSurfaceUnimolecular(&onL, wallK); got != onK {
		t.Errorf("Expected explicit wall to override the resident one, got %v", got)
	}
}

func TestTriggerIntersect_Escalation(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", 0)
	b := f.species("B", 0)
	c := f.species("C", 0)
	k := f.class("K")
	gs := f.reg.GenericSurface()
	gm := f.reg.GenericMolecule()

	anyWall := f.reaction("A@any", []*Species{a, gs})
	specific := f.reaction("C@K", []*Species{c, k})
	anyMol := f.reaction("any@K", []*Species{gm, k})
	rec := &countingRecorder{}
	w := f.world(WithRecorder(rec))

	wl := &Wall{Class: k.ID}

	ma := NewVolumeMolecule(a.ID)
	if got := w.TriggerIntersect(a.Hash, &ma, Up, wl); got != anyWall {
		t.Errorf("Expected generic surface reaction for A, got %v", got)
	}

	mc := NewVolumeMolecule(c.ID)
	if got := w.TriggerIntersect(c.Hash, &mc, Up, wl); got != specific {
		t.Errorf("Expected specific reaction for C, got %v", got)
	}

	mb := NewVolumeMolecule(b.ID)
	if got := w.TriggerIntersect(b.Hash, &mb, Down, wl); got != anyMol {
		t.Errorf("Expected generic molecule reaction for B, got %v", got)
	}

	if got := w.TriggerIntersect(b.Hash, &mb, Up, nil); got != nil {
		t.Errorf("Expected nil without a wall, got %s", got.Name)
	}

	if rec.calls[Intersect] != 4 || rec.matched[Intersect] != 3 {
		t.Errorf("Expected 4 calls with 3 matches, got %d with %d",
			rec.calls[Intersect], rec.matched[Intersect])
	}
}

func TestTriggerIntersect_SpecificClassWins(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", 0)
	k := f.class("K")
	gs := f.reg.GenericSurface()
	gm := f.reg.GenericMolecule()

	f.reaction("any@K", []*Species{gm, k})
	f.reaction("A@any", []*Species{a, gs})
	specific := f.reaction("A@K", []*Species{a, k})
	w := f.world()

	m := NewVolumeMolecule(a.ID)
	if got := w.TriggerIntersect(a.Hash, &m, Up, &Wall{Class: k.ID}); got != specific {
		t.Errorf("Expected A@K, got %v", got)
	}
}

func TestTriggerIntersect_ClassDeclaredFirst(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", 0)
	k := f.class("K")
	r := f.reaction("K:A", []*Species{k, a})
	w := f.world()

	m := NewVolumeMolecule(a.ID)
	if got := w.TriggerIntersect(a.Hash, &m, Up, &Wall{Class: k.ID}); got != r {
		t.Errorf("Expected reaction declared class-first to match, got %v", got)
	}
}

func TestTriggerIntersect_GeometryFailureFallsThrough(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", 0)
	k := f.class("K")
	gs := f.reg.GenericSurface()

	front := f.reaction("A'@K'", []*Species{a, k}, 1, 1)
	anyWall := f.reaction("A@any", []*Species{a, gs})
	w := f.world()

	m := NewVolumeMolecule(a.ID)
	wl := &Wall{Class: k.ID}

	if got := w.TriggerIntersect(a.Hash, &m, Up, wl); got != front {
		t.Errorf("Expected oriented reaction from the front, got %v", got)
	}
	if got := w.TriggerIntersect(a.Hash, &m, Down, wl); got != anyWall {
		t.Errorf("Expected fallback to generic surface from the back, got %v", got)
	}
	if got := w.TriggerIntersect(a.Hash, &m, Unoriented, wl); got != anyWall {
		t.Errorf("Expected unoriented crossing to skip the oriented reaction, got %v", got)
	}
}

func TestTriggerIntersect_KeepsWalkingChain(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", 0)
	k := f.class("K")

	f.reaction("A'@K'", []*Species{a, k}, 1, 1)
	back := f.reaction("A,@K'", []*Species{a, k}, -1, 1)
	w := f.world()

	m := NewVolumeMolecule(a.ID)
	if got := w.TriggerIntersect(a.Hash, &m, Down, &Wall{Class: k.ID}); got != back {
		t.Errorf("Expected second record in the chain, got %v", got)
	}
}

func TestTriggerIntersect_UnknownClass(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", 0)
	w := f.world()

	m := NewVolumeMolecule(a.ID)
	if got := w.TriggerIntersect(a.Hash, &m, Up, &Wall{Class: 999}); got != nil {
		t.Errorf("Expected nil for unknown class, got %s", got.Name)
	}
}

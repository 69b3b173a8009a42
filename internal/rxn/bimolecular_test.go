package rxn

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestTriggerBimolecular_BothOrders(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", CanVolVol)
	b := f.species("B", CanVolVol)
	c := f.species("C", CanVolVol)
	ab := f.reaction("A+B", []*Species{a, b})
	f.reaction("A+C", []*Species{a, c})
	w := f.world()

	ma := NewVolumeMolecule(a.ID)
	mb := NewVolumeMolecule(b.ID)

	got := bimolecular(w, &ma, &mb, 0, 0)
	if len(got) != 1 || got[0] != ab {
		t.Fatalf("Expected [A+B], got %d reactions", len(got))
	}
	got = bimolecular(w, &mb, &ma, 0, 0)
	if len(got) != 1 || got[0] != ab {
		t.Errorf("Expected [A+B] with reversed molecules, got %d reactions", len(got))
	}
}

func TestTriggerBimolecular_NoMatch(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", CanVolVol)
	b := f.species("B", CanVolVol)
	f.reaction("A+A", []*Species{a, a})
	rec := &countingRecorder{}
	w := f.world(WithRecorder(rec))

	ma := NewVolumeMolecule(a.ID)
	mb := NewVolumeMolecule(b.ID)
	if got := bimolecular(w, &ma, &mb, 0, 0); len(got) != 0 {
		t.Errorf("Expected no reactions, got %d", len(got))
	}
	if rec.calls[Bimolecular] != 1 || rec.matched[Bimolecular] != 0 {
		t.Errorf("Expected one empty call recorded, got %d calls %d matches",
			rec.calls[Bimolecular], rec.matched[Bimolecular])
	}
}

func TestTriggerBimolecular_Homodimer(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", CanVolVol)
	aa := f.reaction("A+A", []*Species{a, a})
	w := f.world()

	m1 := NewVolumeMolecule(a.ID)
	m2 := NewVolumeMolecule(a.ID)
	got := bimolecular(w, &m1, &m2, 0, 0)
	if len(got) != 1 || got[0] != aa {
		t.Errorf("Expected A+A exactly once, got %d reactions", len(got))
	}
}

func TestTriggerBimolecular_Symmetry(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", OnGrid)
	b := f.species("B", OnGrid)
	geoms := []Geometry{-2, -1, 0, 1, 2}
	for _, g1 := range geoms {
		for _, g2 := range geoms {
			f.reaction(fmt.Sprintf("A%d+B%d", g1, g2), []*Species{a, b}, g1, g2)
		}
	}
	w := f.worldWithConfig(Config{HashSize: 64, MaxMatchingRxns: 64})

	ma := NewVolumeMolecule(a.ID)
	mb := NewVolumeMolecule(b.ID)
	for _, oa := range orientations {
		for _, ob := range orientations {
			forward := bimolecular(w, &ma, &mb, oa, ob)
			backward := bimolecular(w, &mb, &ma, ob, oa)
			if !sameSet(forward, backward) {
				t.Errorf("orientations %d,%d: forward %d reactions, backward %d",
					oa, ob, len(forward), len(backward))
			}
		}
	}
}

func TestTriggerBimolecular_Orientation(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", OnGrid)
	b := f.species("B", OnGrid)
	same := f.reaction("A'+B'", []*Species{a, b}, 1, 1)
	opposite := f.reaction("A'+B,", []*Species{a, b}, 1, -1)
	free := f.reaction("A+B'", []*Species{a, b}, 0, 1)
	unrelated := f.reaction("A'+B''", []*Species{a, b}, 1, 2)
	w := f.world()

	ma := NewVolumeMolecule(a.ID)
	mb := NewVolumeMolecule(b.ID)

	tests := []struct {
		name   string
		oa, ob Orientation
		want   []*Reaction
	}{
		{"both up", Up, Up, []*Reaction{same, free, unrelated}},
		{"both down", Down, Down, []*Reaction{same, free, unrelated}},
		{"opposed", Up, Down, []*Reaction{opposite, free, unrelated}},
		{"volume", Unoriented, Unoriented, []*Reaction{free, unrelated}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bimolecular(w, &ma, &mb, tt.oa, tt.ob)
			if !sameSet(got, tt.want) {
				t.Errorf("Expected %d reactions, got %d", len(tt.want), len(got))
			}
		})
	}
}

func TestTriggerBimolecular_Walls(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", CanVolVol)
	s := f.species("S", OnGrid)
	k := f.class("K")
	l := f.class("L")
	gs := f.reg.GenericSurface()

	anyFace := f.reaction("A+S@K", []*Species{a, s, k}, 1, 1, 0)
	anyWall := f.reaction("A+S@any", []*Species{a, s, gs})
	front := f.reaction("A'+S@K'", []*Species{a, s, k}, 1, 2, 1)
	loose := f.reaction("A+S@K''", []*Species{a, s, k}, 0, 0, 2)
	w := f.world()

	wallK := &Wall{ID: 1, Class: k.ID}
	wallL := &Wall{ID: 2, Class: l.ID}
	ma := NewVolumeMolecule(a.ID)
	onK := NewSurfaceMolecule(s.ID, Up, wallK)
	onL := NewSurfaceMolecule(s.ID, Up, wallL)
	stray := NewVolumeMolecule(s.ID)

	tests := []struct {
		name   string
		b      *Molecule
		oa, ob Orientation
		want   []*Reaction
	}{
		{"front of K", &onK, Up, Up, []*Reaction{anyFace, anyWall, front, loose}},
		{"back of K", &onK, Down, Down, []*Reaction{anyFace, anyWall, loose}},
		{"class L", &onL, Up, Up, []*Reaction{anyWall}},
		{"free space", &onK, Unoriented, Unoriented, nil},
		{"target off the grid", &stray, Up, Up, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bimolecular(w, &ma, tt.b, tt.oa, tt.ob)
			if !sameSet(got, tt.want) {
				names := make([]string, len(got))
				for i, r := range got {
					names[i] = r.Name
				}
				t.Errorf("Expected %d reactions, got %v", len(tt.want), names)
			}
		})
	}
}

func TestTriggerBimolecular_WallComparedWithTarget(t *testing.T) {
	f := newFixture(t)
	s := f.species("S", OnGrid)
	v := f.species("V", CanVolVol)
	k := f.class("K")
	// S is declared first but arrives as the target.
	r := f.reaction("S''+V'@K''", []*Species{s, v, k}, 2, 1, 2)
	w := f.world()

	mv := NewVolumeMolecule(v.ID)
	wl := &Wall{Class: k.ID}

	up := NewSurfaceMolecule(s.ID, Up, wl)
	if got := bimolecular(w, &mv, &up, Up, Up); len(got) != 1 || got[0] != r {
		t.Errorf("Expected match with target facing up, got %d reactions", len(got))
	}

	down := NewSurfaceMolecule(s.ID, Down, wl)
	if got := bimolecular(w, &mv, &down, Up, Down); len(got) != 0 {
		t.Errorf("Expected no match with target facing down, got %d reactions", len(got))
	}
}

func TestTriggerBimolecular_Overflow(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", CanVolVol)
	b := f.species("B", CanVolVol)
	for i := range 70 {
		f.reaction(fmt.Sprintf("A+B #%d", i), []*Species{a, b})
	}
	logger, hook := test.NewNullLogger()
	rec := &countingRecorder{}
	w := f.world(WithLogger(logger), WithRecorder(rec))

	ma := NewVolumeMolecule(a.ID)
	mb := NewVolumeMolecule(b.ID)
	out := w.NewMatchBuffer()
	n, truncated := w.TriggerBimolecular(a.Hash, b.Hash, &ma, &mb, 0, 0, out)

	if n != 64 {
		t.Errorf("Expected 64 reactions, got %d", n)
	}
	if !truncated {
		t.Error("Expected truncated result")
	}
	if out[0] != f.reactions[0] || out[63] != f.reactions[63] {
		t.Error("Expected the first 64 reactions in table order")
	}
	if rec.overflows[Bimolecular] != 1 {
		t.Errorf("Expected one overflow recorded, got %d", rec.overflows[Bimolecular])
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("Expected a log entry")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("Expected warn level, got %s", entry.Level)
	}
}

func TestTriggerBimolecular_ExactlyAtCapacity(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", CanVolVol)
	b := f.species("B", CanVolVol)
	for i := range 4 {
		f.reaction(fmt.Sprintf("A+B #%d", i), []*Species{a, b})
	}
	logger, hook := test.NewNullLogger()
	rec := &countingRecorder{}
	w := f.worldWithConfig(Config{HashSize: 16, MaxMatchingRxns: 4}, WithLogger(logger), WithRecorder(rec))

	ma := NewVolumeMolecule(a.ID)
	mb := NewVolumeMolecule(b.ID)
	n, truncated := w.TriggerBimolecular(a.Hash, b.Hash, &ma, &mb, 0, 0, w.NewMatchBuffer())
	if n != 4 || truncated {
		t.Errorf("Expected 4 reactions without truncation, got %d (truncated=%v)", n, truncated)
	}
	if rec.overflows[Bimolecular] != 0 {
		t.Errorf("Expected no overflow, got %d", rec.overflows[Bimolecular])
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("Expected no log entries, got %d", len(hook.AllEntries()))
	}
}

func TestTriggerBimolecular_ShortBuffer(t *testing.T) {
	f := newFixture(t)
	a := f.species("A", CanVolVol)
	b := f.species("B", CanVolVol)
	for i := range 5 {
		f.reaction(fmt.Sprintf("A+B #%d", i), []*Species{a, b})
	}
	w := f.world()

	ma := NewVolumeMolecule(a.ID)
	mb := NewVolumeMolecule(b.ID)
	out := make([]*Reaction, 3)
	n, truncated := w.TriggerBimolecular(a.Hash, b.Hash, &ma, &mb, 0, 0, out)
	if n != 3 || !truncated {
		t.Errorf("Expected 3 reactions and truncation, got %d (truncated=%v)", n, truncated)
	}
}

func BenchmarkTriggerBimolecular(b *testing.B) {
	reg := NewRegistry()
	x, _ := reg.AddSpecies("X", CanVolVol)
	y, _ := reg.AddSpecies("Y", CanVolVol)
	var rs []*Reaction
	for i := range 8 {
		rs = append(rs, &Reaction{
			Name:       fmt.Sprintf("X+Y #%d", i),
			Players:    []SpeciesID{x.ID, y.ID},
			Geometries: []Geometry{Geometry(i % 3), 1},
		})
	}
	w, err := Build(reg, DefaultConfig(), rs)
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	mx := NewVolumeMolecule(x.ID)
	my := NewVolumeMolecule(y.ID)
	out := w.NewMatchBuffer()

	b.ReportAllocs()
	for b.Loop() {
		w.TriggerBimolecular(x.Hash, y.Hash, &mx, &my, Up, Up, out)
	}
}

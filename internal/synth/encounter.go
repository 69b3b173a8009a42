package synth

import (
	"math/rand/v2"

	"github.com/daniacca/rxtrig/internal/rxn"
)

// Encounter is one random event a driver can feed to a World.
// Which fields matter depends on Kind: C only for trimolecular encounters,
// Wall only for surface unimolecular and intersect encounters.
type Encounter struct {
	Kind    rxn.TriggerKind
	A, B, C rxn.Molecule
	OrientA rxn.Orientation
	OrientB rxn.Orientation
	OrientC rxn.Orientation
	Wall    *rxn.Wall
}

func randomOrientation(r *rand.Rand) rxn.Orientation {
	if r.IntN(2) == 0 {
		return rxn.Down
	}
	return rxn.Up
}

func (m *Model) surfaceMolecule(r *rand.Rand) rxn.Molecule {
	return rxn.NewSurfaceMolecule(pick(r, m.Surface), randomOrientation(r), pick(r, m.Walls))
}

// RandomEncounter draws an encounter over the model's species and walls.
func (m *Model) RandomEncounter(r *rand.Rand) Encounter {
	kind := rxn.TriggerKind(r.IntN(rxn.NumTriggerKinds))
	if kind == rxn.SurfaceUnimolecular && len(m.Surface) == 0 {
		kind = rxn.Unimolecular
	}

	e := Encounter{Kind: kind}
	switch kind {
	case rxn.Unimolecular:
		if len(m.Surface) > 0 && r.IntN(3) == 0 {
			e.A = m.surfaceMolecule(r)
		} else {
			e.A = rxn.NewVolumeMolecule(pick(r, m.Volume))
		}

	case rxn.SurfaceUnimolecular:
		e.A = m.surfaceMolecule(r)

	case rxn.Bimolecular:
		e.A = rxn.NewVolumeMolecule(pick(r, m.Volume))
		if len(m.Surface) > 0 && r.IntN(2) == 0 {
			e.B = m.surfaceMolecule(r)
			e.OrientA = randomOrientation(r)
			e.OrientB = e.B.Orient
		} else {
			e.B = rxn.NewVolumeMolecule(pick(r, m.Volume))
		}

	case rxn.Trimolecular:
		e.A = rxn.NewVolumeMolecule(pick(r, m.Volume))
		e.B = rxn.NewVolumeMolecule(pick(r, m.Volume))
		e.C = rxn.NewVolumeMolecule(pick(r, m.Volume))

	case rxn.Intersect:
		e.A = rxn.NewVolumeMolecule(pick(r, m.Volume))
		e.OrientA = randomOrientation(r)
		e.Wall = pick(r, m.Walls)
	}
	return e
}

// Trigger runs e against w and writes the matching reactions to out.
// Single-result triggers write at most one.
func (e *Encounter) Trigger(w *rxn.World, out []*rxn.Reaction) (n int, truncated bool) {
	switch e.Kind {
	case rxn.Unimolecular:
		return single(w.TriggerUnimolecular(w.SpeciesHash(e.A.Species), &e.A), out)
	case rxn.SurfaceUnimolecular:
		return single(w.TriggerSurfaceUnimolecular(&e.A, e.Wall), out)
	case rxn.Bimolecular:
		return w.TriggerBimolecular(w.SpeciesHash(e.A.Species), w.SpeciesHash(e.B.Species),
			&e.A, &e.B, e.OrientA, e.OrientB, out)
	case rxn.Trimolecular:
		return w.TriggerTrimolecular(
			w.SpeciesHash(e.A.Species), w.SpeciesHash(e.B.Species), w.SpeciesHash(e.C.Species),
			e.A.Species, e.B.Species, e.C.Species, e.OrientA, e.OrientC, out)
	case rxn.Intersect:
		return single(w.TriggerIntersect(w.SpeciesHash(e.A.Species), &e.A, e.OrientA, e.Wall), out)
	}
	return 0, false
}

func single(r *rxn.Reaction, out []*rxn.Reaction) (int, bool) {
	if r == nil || len(out) == 0 {
		return 0, false
	}
	out[0] = r
	return 1, false
}

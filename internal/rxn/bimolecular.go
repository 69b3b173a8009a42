package rxn

// TriggerBimolecular collects the reactions between two colliding molecules.
//
// a is the moving molecule and b the target; b is already scheduled and may
// be destroyed by the encounter but must not be rescheduled. orientA and
// orientB are both zero away from a surface and both ±1 at one. Matches are
// written to out in table order, at most min(len(out), MaxMatchingRxns) of
// them. truncated reports that further matches were left out; that case is
// also logged and recorded.
func (w *World) TriggerBimolecular(hashA, hashB uint32, a, b *Molecule, orientA, orientB Orientation, out []*Reaction) (n int, truncated bool) {
	limit := w.limit(out)

	for _, r := range w.table.Lookup(pairIndex(hashA, hashB, w.table.Mask())) {
		if !w.bimolecularMatch(r, a, b, orientA, orientB) {
			continue
		}
		if n >= limit {
			truncated = true
			break
		}
		out[n] = r
		n++
	}

	if truncated {
		w.overflow(Bimolecular, limit)
	}
	w.rec.ObserveTrigger(Bimolecular, n)
	return n, truncated
}

func (w *World) bimolecularMatch(r *Reaction, a, b *Molecule, orientA, orientB Orientation) bool {
	nr := r.NumReactants()
	if nr < 2 {
		return false
	}
	if !((a.Species == r.Players[0] && b.Species == r.Players[1]) ||
		(b.Species == r.Players[0] && a.Species == r.Players[1])) {
		return false
	}

	geomA := r.Geometries[0]
	geomB := r.Geometries[1]
	if SameClass(geomA, geomB) && !Compatible(geomA, geomB, orientA, orientB) {
		return false
	}
	if nr == 2 {
		return true
	}

	// Two molecules and a wall: fails in free space.
	if orientA == 0 {
		return false
	}
	return w.wallMatch(r, a, b, geomA, geomB, orientA, orientB)
}

// wallMatch tests the third player of r against the wall the target sits on.
func (w *World) wallMatch(r *Reaction, a, b *Molecule, geomA, geomB Geometry, orientA, orientB Orientation) bool {
	if !w.registry.flags(b.Species).Has(OnGrid) || b.Wall == nil {
		return false
	}
	wl := b.Wall
	if r.Players[2] != wl.Class && r.Players[2] != w.registry.gSurf {
		return false
	}

	geomW := r.Geometries[2]
	if geomW == 0 {
		return true
	}

	// Line the codes up with the molecules so the wall is compared with the
	// right one.
	if a.Species != r.Players[0] {
		geomA, geomB = geomB, geomA
	}

	if !SameClass(geomA, geomW) {
		if !SameClass(geomB, geomW) {
			return true
		}
		return signAgrees(orientB, geomB, geomW)
	}
	return signAgrees(orientA, geomA, geomW)
}

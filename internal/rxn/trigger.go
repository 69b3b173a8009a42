package rxn

// TriggerUnimolecular returns the unimolecular reaction of m's species, or nil.
// hash is the species hash of m.
//
// Only call it for a molecule that was just created or just came off the
// scheduling queue, never for one that is still scheduled.
func (w *World) TriggerUnimolecular(hash uint32, m *Molecule) *Reaction {
	var found *Reaction
	for _, r := range w.table.Lookup(hash) {
		if r.NumReactants() == 1 && r.Players[0] == m.Species {
			found = r
			break
		}
	}
	w.observe(Unimolecular, found)
	return found
}

// TriggerSurfaceUnimolecular looks up the reaction of a surface molecule with
// the surface class of wl, or of its own wall when wl is nil.
func (w *World) TriggerSurfaceUnimolecular(m *Molecule, wl *Wall) *Reaction {
	if wl == nil {
		wl = m.Wall
	}
	var found *Reaction
	if wl != nil {
		found = w.intersect(w.SpeciesHash(m.Species), m, m.Orient, wl)
	}
	w.observe(SurfaceUnimolecular, found)
	return found
}

// TriggerIntersect returns the reaction between a molecule and the wall it
// crosses, or nil. hash is the species hash of m; the molecule may be inert.
//
// Three lookups run in order and the first reaction whose geometry fits is
// returned: the exact species against the wall's class, the exact species
// against the generic surface class, and the generic molecule against the
// wall's class.
func (w *World) TriggerIntersect(hash uint32, m *Molecule, orient Orientation, wl *Wall) *Reaction {
	var found *Reaction
	if wl != nil {
		found = w.intersect(hash, m, orient, wl)
	}
	w.observe(Intersect, found)
	return found
}

func (w *World) intersect(hash uint32, m *Molecule, orient Orientation, wl *Wall) *Reaction {
	class, ok := w.registry.Species(wl.Class)
	if !ok {
		return nil
	}
	gSurf := w.registry.GenericSurface()
	gMol := w.registry.GenericMolecule()

	for _, r := range w.table.Lookup(pairIndex(hash, class.Hash, w.table.Mask())) {
		if r.NumReactants() != 2 {
			continue
		}
		if (m.Species == r.Players[0] && wl.Class == r.Players[1]) ||
			(m.Species == r.Players[1] && wl.Class == r.Players[0]) {
			if intersectOriented(r, orient) {
				return r
			}
		}
	}

	for _, r := range w.table.Lookup(pairIndex(hash, gSurf.Hash, w.table.Mask())) {
		if r.NumReactants() != 2 {
			continue
		}
		if m.Species == r.Players[0] && gSurf.ID == r.Players[1] && intersectOriented(r, orient) {
			return r
		}
	}

	for _, r := range w.table.Lookup(pairIndex(class.Hash, gMol.Hash, w.table.Mask())) {
		if r.NumReactants() != 2 {
			continue
		}
		if gMol.ID == r.Players[0] && wl.Class == r.Players[1] && intersectOriented(r, orient) {
			return r
		}
	}

	return nil
}

// intersectOriented applies the geometry test between a molecule and a
// wall, whose orientation is always +1.
func intersectOriented(r *Reaction, orient Orientation) bool {
	return Compatible(r.Geometries[0], r.Geometries[1], orient, Up)
}

func (w *World) observe(kind TriggerKind, r *Reaction) {
	if r != nil {
		w.rec.ObserveTrigger(kind, 1)
		return
	}
	w.rec.ObserveTrigger(kind, 0)
}

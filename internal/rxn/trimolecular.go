package rxn

// TriggerTrimolecular collects the reactions among three colliding species.
//
// a is the moving molecule, b and c the targets; when one target is a
// surface molecule it is passed as c. Only a and c carry an orientation.
// Output and truncation follow TriggerBimolecular.
func (w *World) TriggerTrimolecular(hashA, hashB, hashC uint32, a, b, c SpeciesID, orientA, orientC Orientation, out []*Reaction) (n int, truncated bool) {
	limit := w.limit(out)

	// The table keys three-molecule reactions on the two reactants whose
	// names sort first, so recover those two here.
	hashes := [3]uint32{hashA, hashB, hashC}
	first, second := canonicalPair(w.registry.name(a), w.registry.name(b), w.registry.name(c))

	for _, r := range w.table.Lookup(pairIndex(hashes[first], hashes[second], w.table.Mask())) {
		if r.NumReactants() != 3 {
			continue
		}
		geomA, geomB, geomC, ok := trimolecularSlots(r, a, b, c)
		if !ok || !trimolecularOriented(geomA, geomB, geomC, orientA, orientC) {
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
		w.overflow(Trimolecular, limit)
	}
	w.rec.ObserveTrigger(Trimolecular, n)
	return n, truncated
}

// slotOrder lists the six ways a, b and c can occupy the three player slots,
// as slot indices for a, b and c. When several fit (repeated species), the
// last one wins.
var slotOrder = [6][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

func trimolecularSlots(r *Reaction, a, b, c SpeciesID) (geomA, geomB, geomC Geometry, ok bool) {
	for _, s := range slotOrder {
		if r.Players[s[0]] == a && r.Players[s[1]] == b && r.Players[s[2]] == c {
			geomA = r.Geometries[s[0]]
			geomB = r.Geometries[s[1]]
			geomC = r.Geometries[s[2]]
			ok = true
		}
	}
	return geomA, geomB, geomC, ok
}

// trimolecularOriented only relates a and c. b's code is taken to be in
// a's class and is not tested on its own.
func trimolecularOriented(geomA, geomB, geomC Geometry, orientA, orientC Orientation) bool {
	if geomA == 0 && geomB == 0 && geomC == 0 {
		return true
	}
	if magnitude(geomA) != magnitude(geomC) {
		return true
	}
	return orientA != 0 && int(orientA)*int(orientC)*int(geomA)*int(geomC) > 0
}

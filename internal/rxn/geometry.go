package rxn

// Geometry is the signed geometry code carried by a reactant slot.
// Zero means orientation independent. Two nonzero codes of equal magnitude
// belong to the same class and constrain the relative orientation of the
// two reactants; codes of different magnitude never interact.
type Geometry int16

// SameClass reports whether g1 and g2 are nonzero codes of the same class.
func SameClass(g1, g2 Geometry) bool {
	return g1 != 0 && g2 != 0 && magnitude(g1) == magnitude(g2)
}

func magnitude(g Geometry) int {
	if g < 0 {
		return -int(g)
	}
	return int(g)
}

// Compatible decides whether two reactants with run-time orientations o1 and o2
// can fill slots tagged g1 and g2.
func Compatible(g1, g2 Geometry, o1, o2 Orientation) bool {
	if !SameClass(g1, g2) {
		return true
	}
	return o1 != 0 && int(o1)*int(o2)*int(g1)*int(g2) > 0
}

// signAgrees is the single-reactant form used against walls, whose
// orientation is always +1.
func signAgrees(o Orientation, g, gw Geometry) bool {
	return int(o)*int(g)*int(gw) > 0
}

package rxn

// Orientation is the direction of a molecule relative to a membrane normal.
type Orientation int8

const (
	Down       Orientation = -1
	Unoriented Orientation = 0
	Up         Orientation = 1
)

// Valid reports whether o is one of -1, 0 or +1.
func (o Orientation) Valid() bool {
	return o >= Down && o <= Up
}

func (o Orientation) String() string {
	switch o {
	case Down:
		return ","
	case Up:
		return "'"
	case Unoriented:
		return ";"
	default:
		return "?"
	}
}

// Wall is a surface element. Walls always have orientation +1 and carry
// the surface class that decides which surface reactions apply to them.
type Wall struct {
	ID    uint32
	Class SpeciesID
}

// Molecule is the part of a molecule's state the triggers read.
// Wall is the resident wall of a surface molecule and nil in the volume.
type Molecule struct {
	Species SpeciesID
	Orient  Orientation
	Wall    *Wall
}

// NewVolumeMolecule returns an unoriented free molecule of the given species.
func NewVolumeMolecule(species SpeciesID) Molecule {
	return Molecule{Species: species}
}

// NewSurfaceMolecule returns a molecule sitting on w with orientation o.
func NewSurfaceMolecule(species SpeciesID, o Orientation, w *Wall) Molecule {
	return Molecule{Species: species, Orient: o, Wall: w}
}

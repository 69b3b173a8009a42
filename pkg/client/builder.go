package client

// Orientations accepted by the trigger endpoints.
const (
	Down       int8 = -1
	Unoriented int8 = 0
	Up         int8 = 1
)

// MoleculeBuilder provides a fluent API for describing a molecule in a
// trigger request.
type MoleculeBuilder struct {
	species string
	orient  int8
	wall    *WallRef
}

// NewMolecule starts a molecule of the given species, unoriented and off any wall.
func NewMolecule(species string) *MoleculeBuilder {
	return &MoleculeBuilder{species: species}
}

// Orient sets the molecule's orientation (Down, Unoriented or Up).
func (mb *MoleculeBuilder) Orient(o int8) *MoleculeBuilder {
	mb.orient = o
	return mb
}

// OnWall places the molecule on a wall of the given surface class.
func (mb *MoleculeBuilder) OnWall(id uint32, class string) *MoleculeBuilder {
	mb.wall = &WallRef{ID: id, Class: class}
	return mb
}

// Build converts the builder to a MoleculeRef.
func (mb *MoleculeBuilder) Build() MoleculeRef {
	ref := MoleculeRef{Species: mb.species, Orient: mb.orient}
	if mb.wall != nil {
		w := *mb.wall
		ref.Wall = &w
	}
	return ref
}

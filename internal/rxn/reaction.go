package rxn

import (
	"strings"
	"sync/atomic"
)

// Participant is a species with the orientation it takes in a pathway.
type Participant struct {
	Species SpeciesID   `json:"species"`
	Orient  Orientation `json:"orient"`
}

// Pathway is one concrete transformation of a reaction.
// The occurrence counter belongs to the caller: the triggers never touch it.
type Pathway struct {
	Name      string
	Rate      float64
	Reactants []Participant
	Products  []Participant

	occurred atomic.Uint64
}

// RecordOccurrence counts one execution of the pathway. Safe for concurrent use.
func (p *Pathway) RecordOccurrence() uint64 {
	return p.occurred.Add(1)
}

// Occurred returns how many times the pathway has been executed.
func (p *Pathway) Occurred() uint64 {
	return p.occurred.Load()
}

// SetOccurred restores the counter, e.g. when resuming from a checkpoint.
func (p *Pathway) SetOccurred(n uint64) {
	p.occurred.Store(n)
}

// Reaction is a reaction template: the ordered players (species or surface
// classes), one geometry code per player and one or more pathways.
// Records are owned by the table and outlive every trigger call.
type Reaction struct {
	Name       string
	Players    []SpeciesID
	Geometries []Geometry
	Pathways   []Pathway
}

// NumReactants returns the number of players, a wall's surface class included.
func (r *Reaction) NumReactants() int {
	return len(r.Players)
}

// Label renders the players of r as "A + B + C" using reg for names.
func (r *Reaction) Label(reg *Registry) string {
	names := make([]string, len(r.Players))
	for i, id := range r.Players {
		names[i] = reg.name(id)
		if names[i] == "" {
			names[i] = "?"
		}
	}
	return strings.Join(names, " + ")
}

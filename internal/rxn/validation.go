package rxn

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) Addf(format string, v ...any) {
	e.Add(fmt.Sprintf(format, v...))
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateReaction checks a reaction record against the registry
func ValidateReaction(r *Reaction, reg *Registry) error {
	err := &ValidationError{}
	if r == nil {
		err.Add("reaction is nil")
		return err
	}

	prefix := "reaction"
	if r.Name != "" {
		prefix = "reaction '" + r.Name + "'"
	}

	n := len(r.Players)
	if n < 1 || n > 3 {
		err.Addf("%s: must have between 1 and 3 players, found %d", prefix, n)
	}
	if len(r.Geometries) != n {
		err.Addf("%s: has %d players but %d geometry codes", prefix, n, len(r.Geometries))
	}

	for i, id := range r.Players {
		sp, ok := reg.Species(id)
		if !ok {
			err.Addf("%s player at index %d: %v %d", prefix, i, ErrUnknownSpecies, id)
			continue
		}
		// a surface class may only be the partner of a molecule
		if sp.IsSurfaceClass() && (n == 1 || (n == 3 && i != 2)) {
			err.Addf("%s player at index %d: surface class '%s' not allowed in this slot", prefix, i, sp.Name)
		}
	}

	for i := range r.Pathways {
		p := &r.Pathways[i]
		pathPrefix := fmt.Sprintf("%s pathway at index %d", prefix, i)
		if p.Rate < 0 {
			err.Addf("%s: negative rate %g", pathPrefix, p.Rate)
		}
		validateParticipants(p.Reactants, pathPrefix+" reactant", reg, err)
		validateParticipants(p.Products, pathPrefix+" product", reg, err)
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

func validateParticipants(ps []Participant, prefix string, reg *Registry, err *ValidationError) {
	for i, p := range ps {
		if _, ok := reg.Species(p.Species); !ok {
			err.Addf("%s at index %d: %v %d", prefix, i, ErrUnknownSpecies, p.Species)
		}
		if !p.Orient.Valid() {
			err.Addf("%s at index %d: invalid orientation %d", prefix, i, p.Orient)
		}
	}
}

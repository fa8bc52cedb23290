// File: reaction.go
package chem

// Reaction is an ordered set of substrate and product molecules with
// free-form metadata.
type Reaction struct {
	Substrates []*Graph
	Products   []*Graph
	Meta       map[string]string
}

func NewReaction() *Reaction {
	return &Reaction{Meta: make(map[string]string)}
}

// Molecules returns the molecules of one role.
func (r *Reaction) Molecules(role Role) []*Graph {
	if role == Product {
		return r.Products
	}
	return r.Substrates
}

// Append adds molecules to one role.
func (r *Reaction) Append(role Role, mols ...*Graph) {
	if role == Product {
		r.Products = append(r.Products, mols...)
		return
	}
	r.Substrates = append(r.Substrates, mols...)
}

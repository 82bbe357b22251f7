package rates

// Role is the metabolic class of a species. Rate coefficients from the
// allometric literature are reported per class, so every model keys its
// coefficients on Role rather than on per-call boolean flags.
type Role uint8

const (
	Producer Role = iota
	Invertebrate
	Vertebrate
	numRoles
)

func (r Role) String() string {
	switch r {
	case Producer:
		return "producer"
	case Invertebrate:
		return "invertebrate"
	case Vertebrate:
		return "vertebrate"
	}
	return "unknown"
}

// PerRole holds one coefficient per metabolic class.
type PerRole [numRoles]float64

// For returns the coefficient for the given role.
func (p PerRole) For(r Role) float64 { return p[r] }

// Uniform returns a PerRole with the same value for every class.
func Uniform(v float64) PerRole {
	var p PerRole
	for i := range p {
		p[i] = v
	}
	return p
}

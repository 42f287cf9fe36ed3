package model

// Kind discriminates how a Spec's name is resolved.
type Kind string

const (
	// KindBuiltin resolves Name against the builtin alias table.
	KindBuiltin Kind = "builtin"

	// KindReference resolves Name through the capability registry. The
	// registered factory must produce a Constructor.
	KindReference Kind = "reference"
)

// Spec identifies one fading or mobility model override. Immutable once
// resolved.
type Spec struct {
	// Target is the channel id the model binds to for fading, or the agent
	// id for mobility. At most one model is active per target per delegate;
	// a later spec with the same target replaces the earlier one.
	Target string

	// Kind selects builtin-alias or qualified-reference resolution. An
	// empty Kind means builtin.
	Kind Kind

	// Name is the builtin alias or the qualified reference.
	Name string

	// Params holds the model's keyword parameters. The optional "seed"
	// entry seeds the model's private randomness.
	Params map[string]float64
}

func (s Spec) kind() Kind {
	if s.Kind == "" {
		return KindBuiltin
	}
	return s.Kind
}

// Constructor builds a model instance from keyword parameters. Qualified
// model references registered in the capability registry must resolve to a
// Constructor; the value it returns has to satisfy the FadingModel or
// MobilityModel contract structurally.
type Constructor func(params map[string]float64) (any, error)

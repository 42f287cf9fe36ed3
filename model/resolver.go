package model

import (
	"fmt"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/registry"
)

// Resolver maps model specs to constructed instances. Builtin aliases hit the
// table in this package; qualified references go through the build context so
// the factory behind a reference is located exactly once.
type Resolver struct {
	build *registry.BuildContext
}

// NewResolver creates a resolver bound to one construction pass.
func NewResolver(b *registry.BuildContext) *Resolver {
	return &Resolver{build: b}
}

// Fading resolves spec into a fading model.
func (r *Resolver) Fading(spec Spec) (core.FadingModel, error) {
	switch spec.kind() {
	case KindBuiltin:
		switch spec.Name {
		case AliasRician:
			return NewRician(spec.Params)
		case AliasRayleigh:
			return NewRayleigh(spec.Params)
		case AliasNakagami:
			return NewNakagami(spec.Params)
		default:
			return nil, &core.UnknownCapabilityError{Name: spec.Name}
		}
	case KindReference:
		v, err := r.construct(spec)
		if err != nil {
			return nil, err
		}
		m, ok := v.(core.FadingModel)
		if !ok {
			return nil, &core.ResolutionError{
				Reference: spec.Name,
				Cause:     fmt.Errorf("instance %T does not provide Sample(LinkState) float64", v),
			}
		}
		return m, nil
	default:
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("model spec %q has unknown kind %q", spec.Name, spec.Kind)}
	}
}

// Mobility resolves spec into a mobility model.
func (r *Resolver) Mobility(spec Spec) (core.MobilityModel, error) {
	switch spec.kind() {
	case KindBuiltin:
		switch spec.Name {
		case AliasRandomWalk:
			return NewRandomWalk(spec.Params)
		default:
			return nil, &core.UnknownCapabilityError{Name: spec.Name}
		}
	case KindReference:
		v, err := r.construct(spec)
		if err != nil {
			return nil, err
		}
		m, ok := v.(core.MobilityModel)
		if !ok {
			return nil, &core.ResolutionError{
				Reference: spec.Name,
				Cause:     fmt.Errorf("instance %T does not provide Advance(Position, float64) Position", v),
			}
		}
		return m, nil
	default:
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("model spec %q has unknown kind %q", spec.Name, spec.Kind)}
	}
}

func (r *Resolver) construct(spec Spec) (any, error) {
	v, err := r.build.Resolve(spec.Name)
	if err != nil {
		return nil, err
	}
	ctor, ok := v.(Constructor)
	if !ok {
		return nil, &core.ResolutionError{
			Reference: spec.Name,
			Cause:     fmt.Errorf("registered value %T is not a model.Constructor", v),
		}
	}
	instance, err := ctor(spec.Params)
	if err != nil {
		return nil, &core.ResolutionError{Reference: spec.Name, Cause: err}
	}
	return instance, nil
}

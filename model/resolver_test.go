package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/registry"
)

type constantFading struct{ v float64 }

func (m constantFading) Sample(core.LinkState) float64 { return m.v }

func newResolver(t *testing.T, register func(reg *registry.Registry)) *Resolver {
	t.Helper()
	reg := registry.New()
	if register != nil {
		register(reg)
	}
	return NewResolver(reg.NewBuildContext())
}

func TestFadingBuiltinAliases(t *testing.T) {
	r := newResolver(t, nil)

	for _, alias := range []string{AliasRician, AliasRayleigh} {
		m, err := r.Fading(Spec{Name: alias})
		require.NoError(t, err, alias)
		assert.NotNil(t, m)
	}

	// Nakagami needs its required parameters.
	m, err := r.Fading(Spec{Name: AliasNakagami, Params: map[string]float64{"m_factor": 2, "omega": 1}})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestFadingUnknownAlias(t *testing.T) {
	r := newResolver(t, nil)
	_, err := r.Fading(Spec{Name: "weibull"})
	var unknown *core.UnknownCapabilityError
	require.ErrorAs(t, err, &unknown)
}

func TestFadingQualifiedReference(t *testing.T) {
	r := newResolver(t, func(reg *registry.Registry) {
		reg.Register("lab.constant", func(*registry.BuildContext) (any, error) {
			return Constructor(func(params map[string]float64) (any, error) {
				return constantFading{v: params["v"]}, nil
			}), nil
		})
	})

	m, err := r.Fading(Spec{Name: "lab.constant", Kind: KindReference, Params: map[string]float64{"v": 3.5}})
	require.NoError(t, err)
	assert.Equal(t, 3.5, m.Sample(core.LinkState{}))
}

func TestFadingReferenceContractMismatch(t *testing.T) {
	r := newResolver(t, func(reg *registry.Registry) {
		// Resolves fine but builds something that is not a fading model.
		reg.Register("lab.notfading", func(*registry.BuildContext) (any, error) {
			return Constructor(func(map[string]float64) (any, error) {
				return "just a string", nil
			}), nil
		})
		// Registered value is not a model.Constructor at all.
		reg.Register("lab.notctor", func(*registry.BuildContext) (any, error) {
			return 42, nil
		})
	})

	var res *core.ResolutionError
	_, err := r.Fading(Spec{Name: "lab.notfading", Kind: KindReference})
	require.ErrorAs(t, err, &res)

	_, err = r.Fading(Spec{Name: "lab.notctor", Kind: KindReference})
	require.ErrorAs(t, err, &res)

	_, err = r.Fading(Spec{Name: "lab.absent", Kind: KindReference})
	require.ErrorAs(t, err, &res)
}

func TestFadingConstructorFailure(t *testing.T) {
	r := newResolver(t, func(reg *registry.Registry) {
		reg.Register("lab.flaky", func(*registry.BuildContext) (any, error) {
			return Constructor(func(map[string]float64) (any, error) {
				return nil, errors.New("bad params")
			}), nil
		})
	})

	var res *core.ResolutionError
	_, err := r.Fading(Spec{Name: "lab.flaky", Kind: KindReference})
	require.ErrorAs(t, err, &res)
	assert.Contains(t, err.Error(), "bad params")
}

func TestMobilityResolution(t *testing.T) {
	r := newResolver(t, nil)

	m, err := r.Mobility(Spec{Name: AliasRandomWalk, Params: map[string]float64{"seed": 1}})
	require.NoError(t, err)
	assert.NotNil(t, m)

	var unknown *core.UnknownCapabilityError
	_, err = r.Mobility(Spec{Name: AliasRician})
	require.ErrorAs(t, err, &unknown)
}

func TestUnknownKindRejected(t *testing.T) {
	r := newResolver(t, nil)
	var cfg *core.ConfigurationError
	_, err := r.Fading(Spec{Name: AliasRician, Kind: "weird"})
	require.ErrorAs(t, err, &cfg)
}

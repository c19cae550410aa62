package IntegrationScheme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheme(t *testing.T) {
	{
		s, err := NewScheme("runge_kutta_3", "CRANK_NICOLSON")
		require.NoError(t, err)
		require.Equal(t, 3, s.NumSubSteps())
		var sum float64
		for _, ss := range s.SubSteps {
			sum += ss.DtFraction
			assert.InDelta(t, ss.DtFraction, ss.AlphaExplicit+ss.AlphaImplicit, 1.e-15)
		}
		assert.InDelta(t, 1., sum, 1.e-14)
		assert.InDelta(t, 8./15., s.SubSteps[0].TimeFraction, 1.e-15)
		assert.InDelta(t, 2./3., s.SubSteps[1].TimeFraction, 1.e-15)
		assert.Equal(t, 1., s.SubSteps[2].TimeFraction)
		assert.InDelta(t, 1./6., s.SubSteps[2].AlphaImplicit, 1.e-15)
		assert.False(t, s.StartsFromHistory())
	}
	{
		s, err := NewScheme("ADAMS_BASHFORTH_2", "EULER_IMPLICIT")
		require.NoError(t, err)
		require.Equal(t, 1, s.NumSubSteps())
		assert.Equal(t, SubStep{Gamma: 1.5, Zeta: -0.5, AlphaImplicit: 1, DtFraction: 1, TimeFraction: 1}, s.SubSteps[0])
		assert.True(t, s.StartsFromHistory())
		assert.Equal(t, "ADAMS_BASHFORTH_2 convection, EULER_IMPLICIT diffusion, 1 sub-steps", s.String())
	}
	{
		s, err := NewScheme("EULER_EXPLICIT", "EULER_EXPLICIT")
		require.NoError(t, err)
		assert.Equal(t, 1., s.SubSteps[0].AlphaExplicit)
		assert.Equal(t, 0., s.SubSteps[0].AlphaImplicit)
	}
	_, err := NewScheme("LEAPFROG", "CRANK_NICOLSON")
	assert.True(t, errors.Is(err, ErrUnknownScheme))
	_, err = NewScheme("EULER_EXPLICIT", "SEMI_LAGRANGIAN")
	assert.True(t, errors.Is(err, ErrUnknownScheme))
}

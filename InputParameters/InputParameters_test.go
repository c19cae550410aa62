package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cavityInput = []byte(`
Title: Lid Driven Cavity
Nu: 0.01
Dt: 0.01
NumSteps: 100
VelocitySolver:
  Tolerance: 1.e-6
  Preconditioner: bn
Domain:
  XAxis:
    Start: 0
    Segments:
      - {End: 1, NumCells: 32}
  YAxis:
    Start: 0
    Segments:
      - {End: 0.5, NumCells: 16, StretchRatio: 1.05}
      - {End: 1, NumCells: 16, StretchRatio: 0.95}
BoundaryConditions:
  YPlus:
    U: {Type: DIRICHLET, Value: 1}
  XPlus:
    U: {Type: CONVECTIVE, Amplitude: 0.1, Frequency: 2}
`)

func TestNavierStokesParameters(t *testing.T) {
	var ip NavierStokesParameters
	require.NoError(t, ip.Parse(cavityInput))
	ip.SetDefaults()
	require.NoError(t, ip.Validate())
	assert.Equal(t, "NAVIER_STOKES", ip.SolverType)
	assert.Equal(t, 0.01, ip.Nu)
	assert.Equal(t, 1.e-6, ip.VelocitySolver.Tolerance)
	assert.Equal(t, "bn", ip.VelocitySolver.Preconditioner)
	assert.Equal(t, 1.e-8, ip.PoissonSolver.Tolerance)
	assert.Equal(t, "diagonal", ip.PoissonSolver.Preconditioner)
	require.Len(t, ip.Domain.X.Segments, 1)
	require.Len(t, ip.Domain.Y.Segments, 2)
	assert.Equal(t, 16, ip.Domain.Y.Segments[1].NumCells)
	assert.Equal(t, 1., ip.Domain.X.Segments[0].StretchRatio)
	assert.Equal(t, 1.05, ip.Domain.Y.Segments[0].StretchRatio)
	assert.Equal(t, 1., ip.BoundaryConditions.YPlus.U.Value)
	assert.Equal(t, "DIRICHLET", ip.BoundaryConditions.YMinus.V.Type)
	assert.Equal(t, 2., ip.BoundaryConditions.Edges()[1].U.Frequency)
	assert.True(t, *ip.AbortOnBreakdown)
	assert.Equal(t, "ADAMS_BASHFORTH_2", ip.ConvectionScheme)
	ip.Print()
}

func TestValidate(t *testing.T) {
	var ip NavierStokesParameters
	require.NoError(t, ip.Parse(cavityInput))
	ip.Nu = -1
	ip.PoissonSolver.Preconditioner = "bn"
	ip.VelocitySolver.Tolerance = 1
	ip.Bodies = []BodyParameters{{Type: "circle", Radius: 0.1, NumPoints: 2}}
	ip.SetDefaults()
	err := ip.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParameters))
	assert.Contains(t, err.Error(), "Nu")
	assert.Contains(t, err.Error(), "PoissonSolver.Preconditioner")
	assert.Contains(t, err.Error(), "NumPoints")
	assert.Contains(t, err.Error(), "VelocitySolver.Tolerance must be below 1")
	// Bodies select the immersed boundary solver by default
	assert.Equal(t, "TAIRA_COLONIUS", ip.SolverType)

	bp := BodyParameters{Omega: 1}
	assert.True(t, bp.Moving())
	assert.False(t, (&BodyParameters{Center: [2]float64{1, 1}}).Moving())
}

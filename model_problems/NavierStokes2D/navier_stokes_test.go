package NavierStokes2D

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goibm/InputParameters"
	"github.com/notargets/goibm/types"
	"github.com/notargets/goibm/utils"
	"github.com/notargets/goibm/writefiles"
)

func TestQuiescentFlow(t *testing.T) {
	for _, scheme := range [][2]string{
		{"ADAMS_BASHFORTH_2", "CRANK_NICOLSON"},
		{"RUNGE_KUTTA_3", "EULER_IMPLICIT"},
		{"EULER_EXPLICIT", "EULER_EXPLICIT"},
	} {
		ip := cavityParameters(6, 0.01, 0.01, 0, 5)
		ip.ConvectionScheme, ip.DiffusionScheme = scheme[0], scheme[1]
		ns, err := NewNavierStokes(ip, nil)
		require.NoError(t, err)
		for !ns.Finished() {
			rep, err := ns.StepTime()
			require.NoError(t, err)
			require.NoError(t, rep.Err())
			for _, sr := range rep.SubSteps {
				assert.Equal(t, 0, sr.Velocity.Iterations)
				assert.Equal(t, 0, sr.Poisson.Iterations)
			}
		}
		assert.Equal(t, 0., utils.MaxAbs(ns.Q), scheme)
		assert.Equal(t, 0., utils.MaxAbs(ns.Lambda), scheme)
		assert.Equal(t, Finished, ns.State)
		_, err = ns.StepTime()
		assert.ErrorIs(t, err, ErrFinished)
	}
}

func TestDivergenceFree(t *testing.T) {
	for _, scheme := range [][2]string{
		{"ADAMS_BASHFORTH_2", "CRANK_NICOLSON"},
		{"RUNGE_KUTTA_3", "CRANK_NICOLSON"},
	} {
		ip := cavityParameters(16, 0.01, 0.01, 1, 10)
		ip.ConvectionScheme, ip.DiffusionScheme = scheme[0], scheme[1]
		ip.Domain.Y = axis(0, 1, 12, 1.1)
		ns, err := NewNavierStokes(ip, nil)
		require.NoError(t, err)
		for !ns.Finished() {
			rep, err := ns.StepTime()
			require.NoError(t, err)
			require.False(t, rep.Breakdown)
			assert.Less(t, ns.MaxDivergenceError(), 1.e-6)
		}
		assert.Greater(t, utils.MaxAbs(ns.Q), 0.)
		// Pressure is fixed by the pinned first cell
		P := ns.Pressure()
		require.Len(t, P, ns.Grid.NumP())
		assert.Less(t, math.Abs(P[0]), 1.e-4*utils.MaxAbs(P))
		// The lid drags the top wall fluid, the wall resists it
		assert.True(t, ns.Forces.Valid)
		assert.Less(t, ns.Forces.Force1, 0.)
	}
}

func TestDeterminism(t *testing.T) {
	run := func(dir string) *NavierStokes {
		ip := cavityParameters(16, 0.01, 0.01, 1, 8)
		ip.ConvectionScheme = "RUNGE_KUTTA_3"
		ip.OutputDir = dir
		ip.SaveEvery = 4
		ip.ParallelDegree = 4
		ns, err := NewNavierStokes(ip, nil)
		require.NoError(t, err)
		_, err = ns.Run(context.Background(), RunPolicy{AbortOnBreakdown: true})
		require.NoError(t, err)
		require.NoError(t, ns.Shutdown())
		return ns
	}
	var (
		dir1, dir2 = t.TempDir(), t.TempDir()
		ns1, ns2   = run(dir1), run(dir2)
	)
	assert.Empty(t, cmp.Diff(ns1.Q, ns2.Q))
	assert.Empty(t, cmp.Diff(ns1.Lambda, ns2.Lambda))
	assert.Empty(t, cmp.Diff(ns1.Forces, ns2.Forces, cmpopts.IgnoreUnexported(ForceRecord{})))
	for _, file := range []string{ForceFile, IterationFile} {
		b1, err := os.ReadFile(filepath.Join(dir1, file))
		require.NoError(t, err)
		b2, err := os.ReadFile(filepath.Join(dir2, file))
		require.NoError(t, err)
		assert.Equal(t, string(b1), string(b2), file)
	}
	assert.DirExists(t, writefiles.SnapshotDir(filepath.Join(dir1, SnapshotsDir), 8))
	assert.NotEqual(t, ns1.RunID, ns2.RunID)
}

func TestIterationCap(t *testing.T) {
	ip := cavityParameters(8, 0.01, 0.01, 1, 3)
	ip.VelocitySolver.MaxIterations = 1
	ip.PoissonSolver.MaxIterations = 1
	ns, err := NewNavierStokes(ip, nil)
	require.NoError(t, err)
	for !ns.Finished() {
		rep, err := ns.StepTime()
		require.NoError(t, err)
		for _, sr := range rep.SubSteps {
			assert.Equal(t, 1, sr.Velocity.Iterations)
			assert.Equal(t, 1, sr.Poisson.Iterations)
			assert.False(t, sr.Converged())
			assert.ErrorIs(t, sr.Err, ErrNotConverged)
		}
		assert.False(t, rep.Breakdown)
	}
	{ // The caller decides when non-convergence halts the run
		ns, err := NewNavierStokes(ip, nil)
		require.NoError(t, err)
		summary, err := ns.Run(context.Background(), RunPolicy{MaxNonConverged: 2})
		assert.ErrorIs(t, err, ErrNotConverged)
		var se *StepError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 2, se.Step)
		assert.Equal(t, 2, summary.Steps)
		assert.Equal(t, 2, summary.NonConvergedSubSteps)
		assert.Equal(t, 2, summary.VelocityIterations)
	}
}

func TestBreakdown(t *testing.T) {
	ip := cavityParameters(8, 0.01, 0.01, 1, 3)
	ns, err := NewNavierStokes(ip, nil)
	require.NoError(t, err)
	ns.Q[3] = math.NaN()
	rep, err := ns.StepTime()
	require.NoError(t, err)
	assert.True(t, rep.Breakdown)
	assert.ErrorIs(t, rep.Err(), ErrNumericalBreakdown)
	var se *StepError
	require.True(t, errors.As(rep.Err(), &se))
	assert.Equal(t, StageVelocity, se.Stage)
	assert.False(t, rep.Forces.Valid)
	assert.True(t, math.IsNaN(rep.Forces.ForceX))

	ns, err = NewNavierStokes(ip, nil)
	require.NoError(t, err)
	ns.Q[3] = math.Inf(1)
	summary, err := ns.Run(context.Background(), RunPolicy{AbortOnBreakdown: true})
	assert.ErrorIs(t, err, ErrNumericalBreakdown)
	assert.Equal(t, 1, summary.Breakdowns)
	assert.Equal(t, 1, summary.Steps)
}

func TestCancellation(t *testing.T) {
	ns, err := NewNavierStokes(cavityParameters(8, 0.01, 0.01, 1, 100), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := ns.Run(ctx, RunPolicy{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Steps)
	assert.True(t, ns.Finished())
	assert.Equal(t, Finished, ns.State)
}

func TestRestart(t *testing.T) {
	for _, scheme := range []string{"EULER_EXPLICIT", "ADAMS_BASHFORTH_2", "RUNGE_KUTTA_3"} {
		t.Run(scheme, func(t *testing.T) {
			var (
				dir = t.TempDir()
				ip  = func(steps int) *InputParameters.NavierStokesParameters {
					ip := cavityParameters(8, 0.01, 0.01, 1, steps)
					ip.ConvectionScheme = scheme
					return ip
				}
			)
			ip1 := ip(4)
			ip1.OutputDir, ip1.SaveEvery = dir, 2
			ns1, err := NewNavierStokes(ip1, nil)
			require.NoError(t, err)
			_, err = ns1.Run(context.Background(), RunPolicy{})
			require.NoError(t, err)
			require.NoError(t, ns1.Shutdown())

			ip2 := ip(2)
			ip2.RestartDir = writefiles.SnapshotDir(filepath.Join(dir, SnapshotsDir), 2)
			assert.FileExists(t, filepath.Join(ip2.RestartDir, writefiles.HistoryFile))
			ns2, err := NewNavierStokes(ip2, nil)
			require.NoError(t, err)
			assert.Equal(t, 2, ns2.Step)
			assert.InDelta(t, 0.02, ns2.Time, 1.e-15)
			assert.True(t, ns2.historyPrimed)
			_, err = ns2.Run(context.Background(), RunPolicy{})
			require.NoError(t, err)
			assert.Equal(t, 4, ns2.Step)
			// A restarted run continues exactly where the saved one left off
			assert.Equal(t, ns1.Q, ns2.Q)
			assert.Equal(t, ns1.Lambda, ns2.Lambda)
			assert.Equal(t, ns1.HOld, ns2.HOld)

			{ // Snapshots from another grid are rejected
				ip3 := ip(2)
				ip3.Domain.X = axis(0, 1, 10, 1)
				ip3.RestartDir = ip2.RestartDir
				_, err = NewNavierStokes(ip3, nil)
				assert.ErrorIs(t, err, ErrDimensionMismatch)
			}
		})
	}
}

func TestOutputFlushedEveryStep(t *testing.T) {
	var (
		dir = t.TempDir()
		ip  = cavityParameters(8, 0.01, 0.01, 1, 3)
	)
	ip.OutputDir, ip.SaveEvery = dir, 0
	ns, err := NewNavierStokes(ip, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ns.Shutdown() })
	for step := 1; step <= 2; step++ {
		_, err = ns.StepTime()
		require.NoError(t, err)
		// A header and one row per step are on disk before the logs are closed
		for _, name := range []string{ForceFile, IterationFile} {
			data, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			assert.Len(t, lines, 1+step, name)
		}
	}
}

func TestConfigurationErrors(t *testing.T) {
	{
		ip := cavityParameters(8, 0.01, 0.01, 1, 3)
		ip.Dt = 0
		_, err := NewNavierStokes(ip, nil)
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.ErrorIs(t, err, InputParameters.ErrInvalidParameters)
	}
	{
		ip := cavityParameters(8, 0.01, 0.01, 1, 3)
		ip.BoundaryConditions.XPlus.U.Type = "PERIODIC"
		_, err := NewNavierStokes(ip, nil)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
	{ // Markers need room for the delta support
		ip := cylinderParameters(32, 0.025, 0.02, 1)
		ip.Bodies[0].Center = [2]float64{3.7, 0}
		_, err := NewNavierStokes(ip, nil)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
	{
		ip := cylinderParameters(32, 0.025, 0.02, 1)
		ip.ConvectionScheme = "LEAPFROG"
		_, err := NewNavierStokes(ip, nil)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
}

func TestConvectiveOutflow(t *testing.T) {
	ip := &InputParameters.NavierStokesParameters{
		Title:           "Channel",
		Nu:              0.05,
		Dt:              0.02,
		NumSteps:        20,
		InitialVelocity: [2]float64{0.5, 0},
		Domain: InputParameters.DomainParameters{
			X: axis(0, 4, 32, 1),
			Y: axis(0, 1, 10, 1),
		},
		BoundaryConditions: InputParameters.BoundaryParameters{
			XMinus: InputParameters.EdgeParameters{
				U: InputParameters.BCParameters{Type: "DIRICHLET", Value: 1, Amplitude: 0.2, Frequency: 1}},
			XPlus: InputParameters.EdgeParameters{
				U: InputParameters.BCParameters{Type: "CONVECTIVE"},
				V: InputParameters.BCParameters{Type: "NEUMANN"}},
		},
		VelocitySolver: InputParameters.SolverParameters{Tolerance: 1.e-10},
		PoissonSolver:  InputParameters.SolverParameters{Tolerance: 1.e-10},
	}
	ns, err := NewNavierStokes(ip, nil)
	require.NoError(t, err)
	netFlux := func() (net float64) {
		g := ns.Grid
		for j := 0; j < g.Ny; j++ {
			net += (ns.BoundaryValues(types.XPlus)[j] - ns.BoundaryValues(types.XMinus)[j]) * g.Dy[j]
		}
		return
	}
	for !ns.Finished() {
		rep, err := ns.StepTime()
		require.NoError(t, err)
		require.False(t, rep.Breakdown)
		assert.InDelta(t, 0., netFlux(), 1.e-12)
		assert.Less(t, ns.MaxDivergenceError(), 1.e-6)
	}
	// The inflow follows the prescribed oscillation at the next sub-step target
	tNext := ns.Time + ns.Dt
	assert.InDelta(t, 1+0.2*math.Sin(2*math.Pi*tNext), ns.BoundaryValues(types.XMinus)[0], 1.e-12)
}

package NavierStokes2D

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/notargets/goibm/InputParameters"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func axis(start, end float64, n int, r float64) InputParameters.AxisParameters {
	return InputParameters.AxisParameters{Start: start,
		Segments: []InputParameters.SegmentParameters{{End: end, NumCells: n, StretchRatio: r}}}
}

func dirichlet(value float64) InputParameters.BCParameters {
	return InputParameters.BCParameters{Type: "DIRICHLET", Value: value}
}

// cavityParameters is the unit lid driven cavity, the lid moving in +x
func cavityParameters(n int, nu, dt, lid float64, steps int) *InputParameters.NavierStokesParameters {
	return &InputParameters.NavierStokesParameters{
		Title:    "Lid Driven Cavity",
		Nu:       nu,
		Dt:       dt,
		NumSteps: steps,
		Domain: InputParameters.DomainParameters{
			X: axis(0, 1, n, 1),
			Y: axis(0, 1, n, 1),
		},
		BoundaryConditions: InputParameters.BoundaryParameters{
			YPlus: InputParameters.EdgeParameters{U: dirichlet(lid)},
		},
		VelocitySolver: InputParameters.SolverParameters{Tolerance: 1.e-10},
		PoissonSolver:  InputParameters.SolverParameters{Tolerance: 1.e-10},
		ParallelDegree: 1,
	}
}

// cylinderParameters is a circular cylinder of unit diameter in a uniform
// stream of unit speed
func cylinderParameters(n int, nu, dt float64, steps int) *InputParameters.NavierStokesParameters {
	convective := InputParameters.BCParameters{Type: "CONVECTIVE"}
	stream := InputParameters.EdgeParameters{U: dirichlet(1), V: dirichlet(0)}
	return &InputParameters.NavierStokesParameters{
		Title:                   "Cylinder",
		SolverType:              "TAIRA_COLONIUS",
		Nu:                      nu,
		Dt:                      dt,
		NumSteps:                steps,
		ApproximateInverseOrder: 3,
		InitialVelocity:         [2]float64{1, 0},
		Domain: InputParameters.DomainParameters{
			X: axis(-4, 4, n, 1),
			Y: axis(-4, 4, n, 1),
		},
		BoundaryConditions: InputParameters.BoundaryParameters{
			XMinus: stream,
			XPlus:  InputParameters.EdgeParameters{U: convective, V: convective},
			YMinus: stream,
			YPlus:  stream,
		},
		Bodies: []InputParameters.BodyParameters{
			{Type: "circle", Radius: 0.5, NumPoints: int(3.14159 / (8. / float64(n)))},
		},
		VelocitySolver: InputParameters.SolverParameters{Tolerance: 1.e-10, Preconditioner: "bn"},
		PoissonSolver:  InputParameters.SolverParameters{Tolerance: 1.e-10},
		ParallelDegree: 2,
	}
}

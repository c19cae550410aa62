package NavierStokes2D

import (
	"fmt"
	"strings"

	"github.com/notargets/goibm/utils"
)

type SolverType uint8

const (
	NAVIER_STOKES SolverType = iota
	TAIRA_COLONIUS
)

var SolverNameMap = map[string]SolverType{
	"NAVIER_STOKES":  NAVIER_STOKES,
	"TAIRA_COLONIUS": TAIRA_COLONIUS,
}

func (st SolverType) String() string {
	return [...]string{"NAVIER_STOKES", "TAIRA_COLONIUS"}[st]
}

func NewSolverType(label string) (st SolverType, err error) {
	var ok bool
	if st, ok = SolverNameMap[strings.ToUpper(label)]; !ok {
		err = configError("unknown solver type \"%s\"", label)
	}
	return
}

// Variant holds what differs between solvers: the coupling operator Q and
// the constraints it enforces, the number of Lagrange multipliers, the body
// geometry and the force calculation.
type Variant interface {
	Type() SolverType
	NumLambda(ns *NavierStokes) int
	BuildLaplacian(ns *NavierStokes) (L *utils.CSR, links []bcLink)
	BuildImplicitOperator(ns *NavierStokes, alpha float64) (A *utils.CSR, err error)
	BuildCoupling(ns *NavierStokes) (Q, QT *utils.CSR, err error)
	BuildBoundaryRHS(ns *NavierStokes, bc2 []float64)
	BuildExplicitTerm(ns *NavierStokes, H []float64)
	// UpdateGeometry moves bodies to time t, it reports whether Q changed and
	// fails when a marker leaves the supported part of the grid
	UpdateGeometry(ns *NavierStokes, t float64) (moved bool, err error)
	CalculateForces(ns *NavierStokes) ForceRecord
}

var variantAllocators = make(map[SolverType]func() Variant)

func newVariant(st SolverType) (v Variant, err error) {
	alloc, ok := variantAllocators[st]
	if !ok {
		err = configError("no solver registered for %s", st)
		return
	}
	return alloc(), nil
}

// NavierStokesSolver is the rectangular domain without bodies. Lambda holds
// the pressure only.
type NavierStokesSolver struct{}

func init() {
	variantAllocators[NAVIER_STOKES] = func() Variant { return &NavierStokesSolver{} }
}

func (*NavierStokesSolver) Type() SolverType { return NAVIER_STOKES }

func (*NavierStokesSolver) NumLambda(ns *NavierStokes) int { return ns.Grid.NumP() }

func (*NavierStokesSolver) BuildLaplacian(ns *NavierStokes) (L *utils.CSR, links []bcLink) {
	return buildLaplacian(ns.Grid, ns.Nu)
}

func (*NavierStokesSolver) BuildImplicitOperator(ns *NavierStokes, alpha float64) (A *utils.CSR, err error) {
	return buildImplicitOperator(ns.M, ns.L, alpha)
}

func (*NavierStokesSolver) BuildCoupling(ns *NavierStokes) (Q, QT *utils.CSR, err error) {
	g := ns.Grid
	d := utils.NewDOK(g.NumQ(), g.NumP(), "Q")
	addGradient(d, g)
	Q = d.ToCSR()
	QT = Q.Transpose("QT")
	return
}

func (*NavierStokesSolver) BuildBoundaryRHS(ns *NavierStokes, bc2 []float64) {
	clear(bc2)
	addBoundaryFlux(ns, bc2)
}

func (*NavierStokesSolver) BuildExplicitTerm(ns *NavierStokes, H []float64) {
	calculateConvection(ns.Grid, ns.Q, ns.bcPrev, H, ns.ParallelDegree)
}

func (*NavierStokesSolver) UpdateGeometry(*NavierStokes, float64) (bool, error) { return false, nil }

func (*NavierStokesSolver) CalculateForces(ns *NavierStokes) (fr ForceRecord) {
	fr = wallForces(ns)
	fr.ForceX, fr.ForceY = fr.wallX, fr.wallY
	fr.flagNonFinite()
	return
}

func checkDimensions(ns *NavierStokes, Q, QT *utils.CSR) (err error) {
	var (
		numQ, numL = ns.Grid.NumQ(), ns.variant.NumLambda(ns)
		qr, qc     = Q.Dims()
		tr, tc     = QT.Dims()
	)
	if qr != numQ || qc != numL || tr != numL || tc != numQ {
		err = dimensionError("Q is %dx%d and QT is %dx%d, expected %dx%d and %dx%d",
			qr, qc, tr, tc, numQ, numL, numL, numQ)
	}
	return
}

func (ns *NavierStokes) String() string {
	return fmt.Sprintf("%s: %dx%d cells, %d fluxes, %d multipliers",
		ns.variant.Type(), ns.Grid.Nx, ns.Grid.Ny, ns.Grid.NumQ(), len(ns.Lambda))
}

package utils

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/exp/linsolve"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNumericalBreakdown flags a NaN or Inf in a residual or solution. It is
// distinct from running out of iterations.
var ErrNumericalBreakdown = errors.New("numerical breakdown: NaN or Inf encountered")

var errStagnated = errors.New("residual stagnated")

// Preconditioner applies an approximation of the inverse operator: dst = P^-1 r
type Preconditioner interface {
	Apply(dst, r []float64)
}

type IdentityPreconditioner struct{}

func (IdentityPreconditioner) Apply(dst, r []float64) { copy(dst, r) }

// DiagonalPreconditioner is the Jacobi preconditioner
type DiagonalPreconditioner struct {
	invDiag []float64
}

func NewDiagonalPreconditioner(A *CSR) (P *DiagonalPreconditioner, err error) {
	diag := A.Diagonal()
	for i, d := range diag {
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			err = fmt.Errorf("diagonal preconditioner for \"%s\": diagonal entry %d is %v", A.Name(), i, d)
			return
		}
		diag[i] = 1. / d
	}
	P = &DiagonalPreconditioner{invDiag: diag}
	return
}

func (dp *DiagonalPreconditioner) Apply(dst, r []float64) {
	floats.MulTo(dst, dp.invDiag, r)
}

// OperatorPreconditioner applies an explicit sparse approximate inverse
type OperatorPreconditioner struct {
	Op *CSR
}

func (op OperatorPreconditioner) Apply(dst, r []float64) {
	op.Op.MulVec(dst, r)
}

type Settings struct {
	Tolerance     float64 // Relative residual |b - Ax| / |b|, below 1
	MaxIterations int
	// Stop when the residual has not dropped below its best value for this
	// many iterations, zero disables the check
	StagnationWindow int
	NPar             int
}

type Stats struct {
	Iterations      int
	InitialResidual float64
	ResidualNorm    float64 // Relative
	Converged       bool
	Stagnated       bool
}

// CGWorkspace holds the linsolve context and the scaled system vectors so
// repeated solves of the same size do not allocate.
type CGWorkspace struct {
	work           *linsolve.Context
	method         monitoredMethod
	r, b, x0       []float64
	bVec, x0V, dst *mat.VecDense
}

func (ws *CGWorkspace) resize(N int) {
	if len(ws.r) != N {
		ws.work = linsolve.NewContext(N)
		ws.r = make([]float64, N)
		ws.b = make([]float64, N)
		ws.x0 = make([]float64, N)
		ws.bVec = mat.NewVecDense(N, ws.b)
		ws.x0V = mat.NewVecDense(N, ws.x0)
		ws.dst = mat.NewVecDense(N, nil)
	}
}

// CG solves A x = b for symmetric positive (semi) definite A with the
// preconditioned conjugate gradient method of linsolve, starting from the
// contents of x. Running out of iterations or stagnating is not an error, it
// is reported through Stats. A NaN or Inf returns ErrNumericalBreakdown.
func CG(A *CSR, b, x []float64, P Preconditioner, s Settings, ws *CGWorkspace) (stats Stats, err error) {
	var (
		N    = len(b)
		NPar = s.NPar
	)
	if nr, nc := A.Dims(); nr != N || nc != N || len(x) != N {
		err = fmt.Errorf("CG dimension mismatch: \"%s\" is %dx%d, len(b) = %d, len(x) = %d",
			A.Name(), nr, nc, N, len(x))
		return
	}
	if P == nil {
		P = IdentityPreconditioner{}
	}
	if ws == nil {
		ws = &CGWorkspace{}
	}
	ws.resize(N)

	bNorm := math.Sqrt(ParallelDot(NPar, b, b))
	if isNonFinite(bNorm) {
		err = fmt.Errorf("right hand side: %w", ErrNumericalBreakdown)
		return
	}
	if bNorm == 0 {
		clear(x)
		stats.Converged = true
		return
	}
	r := ws.r
	A.MulVec(r, x)
	floats.SubTo(r, b, r)
	res := math.Sqrt(ParallelDot(NPar, r, r)) / bNorm
	stats.InitialResidual, stats.ResidualNorm = res, res
	if isNonFinite(res) {
		err = fmt.Errorf("initial residual: %w", ErrNumericalBreakdown)
		return
	}
	if res <= s.Tolerance {
		stats.Converged = true
		return
	}

	// Solve for x/|b| against b/|b| so the absolute residual linsolve
	// tests is the relative one
	floats.ScaleTo(ws.b, 1/bNorm, b)
	floats.ScaleTo(ws.x0, 1/bNorm, x)
	ws.method = monitoredMethod{Method: &linsolve.CG{}, window: s.StagnationWindow, residual: res}
	_, lerr := linsolve.Iterative(csrOperator{A}, ws.bVec, &ws.method, &linsolve.Settings{
		InitX:         ws.x0V,
		Dst:           ws.dst,
		Tolerance:     s.Tolerance,
		MaxIterations: s.MaxIterations,
		PreconSolve: func(dst *mat.VecDense, _ bool, rhs mat.Vector) error {
			P.Apply(dst.RawVector().Data, vectorData(rhs))
			return nil
		},
		Work: ws.work,
	})
	stats.Iterations = ws.method.iterations
	stats.ResidualNorm = ws.method.residual
	// The work context holds the latest iterate on every exit path
	floats.ScaleTo(x, bNorm, ws.work.X.RawVector().Data)
	switch {
	case lerr == nil:
		stats.Converged = true
	case errors.Is(lerr, linsolve.ErrIterationLimit):
	case errors.Is(lerr, errStagnated):
		stats.Stagnated = true
	case errors.Is(lerr, ErrNumericalBreakdown):
		err = lerr
		return
	default:
		var be *linsolve.BreakdownError
		if !errors.As(lerr, &be) {
			err = fmt.Errorf("CG on \"%s\": %w", A.Name(), lerr)
			return
		}
		// Search direction left the positive definite subspace
		stats.Stagnated = true
	}
	if floats.HasNaN(x) {
		err = fmt.Errorf("solution: %w", ErrNumericalBreakdown)
	}
	return
}

// monitoredMethod counts major iterations of a linsolve method and stops it
// on a NaN or Inf residual or on a stalled residual
type monitoredMethod struct {
	linsolve.Method
	window     int
	iterations int
	residual   float64
	best       float64
	bestIt     int
}

func (m *monitoredMethod) Init(x, residual *mat.VecDense) {
	m.Method.Init(x, residual)
	m.iterations, m.bestIt = 0, 0
	m.best = mat.Norm(residual, 2)
	m.residual = m.best
}

func (m *monitoredMethod) Iterate(ctx *linsolve.Context) (op linsolve.Operation, err error) {
	if op, err = m.Method.Iterate(ctx); err != nil || op != linsolve.MajorIteration {
		return
	}
	m.iterations++
	m.residual = ctx.ResidualNorm
	switch {
	case isNonFinite(ctx.ResidualNorm):
		err = fmt.Errorf("iteration %d: %w", m.iterations, ErrNumericalBreakdown)
	case ctx.Converged:
	case ctx.ResidualNorm < m.best:
		m.best, m.bestIt = ctx.ResidualNorm, m.iterations
	case m.window > 0 && m.iterations-m.bestIt >= m.window:
		err = errStagnated
	}
	return
}

// csrOperator presents a CSR matrix as a linsolve.MulVecToer
type csrOperator struct {
	A *CSR
}

func (op csrOperator) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	var (
		d  = dst.RawVector().Data
		xs = vectorData(x)
	)
	if !trans {
		op.A.MulVec(d, xs)
		return
	}
	clear(d)
	op.A.DoNonZero(func(i, j int, v float64) {
		d[j] += v * xs[i]
	})
}

func vectorData(v mat.Vector) []float64 {
	if rv, ok := v.(mat.RawVectorer); ok {
		if raw := rv.RawVector(); raw.Inc == 1 {
			return raw.Data[:v.Len()]
		}
	}
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return data
}

func isNonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

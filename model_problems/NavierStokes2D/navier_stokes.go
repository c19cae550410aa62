package NavierStokes2D

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/goibm/Grid2D"
	"github.com/notargets/goibm/InputParameters"
	"github.com/notargets/goibm/IntegrationScheme"
	"github.com/notargets/goibm/readfiles"
	"github.com/notargets/goibm/types"
	"github.com/notargets/goibm/utils"
	"github.com/notargets/goibm/writefiles"
)

type RunState uint8

const (
	Initializing RunState = iota
	SteppingTime
	Finished
)

func (rs RunState) String() string {
	return [...]string{"Initializing", "SteppingTime", "Finished"}[rs]
}

const (
	ForceFile     = "forces.dat"
	IterationFile = "iterations.dat"
	SnapshotsDir  = "snapshots"
)

type NavierStokes struct {
	// Input parameters
	Title            string
	Nu, Dt           float64
	Grid             *Grid2D.Grid
	Scheme           IntegrationScheme.Scheme
	Bodies           []*Body
	BNOrder          int // Order of the approximate inverse
	ParallelDegree   int // Number of go routines used by the operators
	VelocitySettings utils.Settings
	PoissonSettings  utils.Settings
	// Solver state
	State                     RunState
	StartStep, NumSteps, Step int
	SaveEvery, ReportEvery    int
	Time                      float64
	// Fluxes are numQ long, the multipliers numLambda long
	Q, QStar, Lambda []float64
	H, HOld          []float64
	// Explicit terms, right hand sides and boundary buffers
	rn, rhs1, rhs2, bc1, bc2 []float64
	bc, bcPrev               [4][]float64
	slots                    [4][]boundarySlot
	bcSpecs                  [4][2]boundarySpec // Per edge and velocity component
	// Operators
	M, Minv, L             *utils.CSR
	bcLinks                []bcLink
	Qop, QT                *utils.CSR
	implicit               map[float64]*implicitOperators
	variant                Variant
	velocityPreconditioner string
	poissonPreconditioner  string
	// Scratch
	scratchQ, scratchQ2   []float64
	scratchL              []float64
	cgVelocity, cgPoisson utils.CGWorkspace
	historyPrimed         bool
	subStep               int // Index of the sub-step that ran last
	// Output
	Forces        ForceRecord
	RunID         string
	logger        *zap.Logger
	forceLog      *writefiles.ForceLog
	iterationLog  *writefiles.IterationLog
	snapshots     *writefiles.SnapshotWriter
	stopRequested bool
	summary       RunSummary
	started       time.Time
}

// SubStepReport carries the solver statistics of one sub-step
type SubStepReport struct {
	SubStep   int
	Velocity  utils.Stats
	Poisson   utils.Stats
	Breakdown bool
	Err       error
}

func (sr SubStepReport) Converged() bool { return sr.Velocity.Converged && sr.Poisson.Converged }

// StepReport is returned by every outer step. Non-convergence, breakdown and
// I/O failures are reported here instead of stopping the loop.
type StepReport struct {
	Step      int
	Time      float64
	SubSteps  []SubStepReport
	Forces    ForceRecord
	Breakdown bool
	Saved     string // Snapshot directory, empty when nothing was saved
	IOErrors  []error
}

// Err joins every error of the step, nil when the step was clean
func (sr StepReport) Err() error {
	var errs []error
	for _, ss := range sr.SubSteps {
		if ss.Err != nil {
			errs = append(errs, ss.Err)
		}
	}
	return errors.Join(append(errs, sr.IOErrors...)...)
}

type RunSummary struct {
	RunID                string
	Steps                int
	Elapsed              time.Duration
	VelocityIterations   int
	PoissonIterations    int
	NonConvergedSubSteps int
	Breakdowns           int
	IOErrors             int
}

// NewNavierStokes builds the solver from validated input parameters. A nil
// logger disables logging. Configuration problems are returned wrapped in
// ErrConfiguration.
func NewNavierStokes(ip *InputParameters.NavierStokesParameters, logger *zap.Logger) (ns *NavierStokes, err error) {
	ip.SetDefaults()
	if err = ip.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ns = &NavierStokes{
		Title:                  ip.Title,
		Nu:                     ip.Nu,
		Dt:                     ip.Dt,
		BNOrder:                ip.ApproximateInverseOrder,
		ParallelDegree:         utils.LimitParallelDegree(ip.ParallelDegree),
		velocityPreconditioner: ip.VelocitySolver.Preconditioner,
		poissonPreconditioner:  ip.PoissonSolver.Preconditioner,
		StartStep:              ip.StartStep,
		NumSteps:               ip.NumSteps,
		SaveEvery:              ip.SaveEvery,
		ReportEvery:            ip.ReportEvery,
		implicit:               make(map[float64]*implicitOperators),
		RunID:                  uuid.NewString(),
	}
	ns.VelocitySettings = newSettings(ip.VelocitySolver, ns.ParallelDegree)
	ns.PoissonSettings = newSettings(ip.PoissonSolver, ns.ParallelDegree)
	var st SolverType
	if st, err = NewSolverType(ip.SolverType); err != nil {
		return nil, err
	}
	if ns.variant, err = newVariant(st); err != nil {
		return nil, err
	}
	ns.logger = logger.With(zap.String("run", ns.RunID), zap.Stringer("solver", st))
	if ns.Grid, err = Grid2D.NewGrid(ip.Domain); err != nil {
		return nil, configError("%v", err)
	}
	if ns.Scheme, err = IntegrationScheme.NewScheme(ip.ConvectionScheme, ip.DiffusionScheme); err != nil {
		return nil, configError("%v", err)
	}
	for e, ep := range ip.BoundaryConditions.Edges() {
		for c, bp := range [2]InputParameters.BCParameters{ep.U, ep.V} {
			if ns.bcSpecs[e][c], err = newBoundarySpec(bp); err != nil {
				return nil, err
			}
		}
	}
	if err = ns.initializeBodies(ip.Bodies); err != nil {
		return nil, err
	}
	ns.initializeArrays(ip.InitialVelocity)
	if ip.RestartDir != "" {
		if err = ns.restart(ip.RestartDir); err != nil {
			return nil, err
		}
	}
	ns.Step = ns.StartStep
	ns.Time = float64(ns.Step) * ns.Dt
	if err = ns.assembleMatrices(); err != nil {
		return nil, err
	}
	if ip.OutputDir != "" {
		if err = ns.openOutput(ip.OutputDir); err != nil {
			return nil, err
		}
	}
	ns.summary.RunID = ns.RunID
	ns.logger.Info("initialized",
		zap.String("title", ns.Title),
		zap.Int("nx", ns.Grid.Nx), zap.Int("ny", ns.Grid.Ny),
		zap.Int("numQ", ns.Grid.NumQ()), zap.Int("numLambda", len(ns.Lambda)),
		zap.Int("markers", ns.NumMarkers()),
		zap.Stringer("scheme", ns.Scheme),
		zap.Int("parallelDegree", ns.ParallelDegree))
	return
}

func (ns *NavierStokes) initializeBodies(bps []InputParameters.BodyParameters) (err error) {
	var offset int
	for n, bp := range bps {
		var b *Body
		if b, err = NewBody(bp); err != nil {
			return fmt.Errorf("body %d: %w", n, err)
		}
		b.Offset = offset
		offset += b.NumPoints()
		if err = b.CheckSupport(ns.Grid); err != nil {
			return fmt.Errorf("body %d: %w", n, err)
		}
		ns.Bodies = append(ns.Bodies, b)
	}
	return
}

func (ns *NavierStokes) NumMarkers() (nb int) {
	for _, b := range ns.Bodies {
		nb += b.NumPoints()
	}
	return
}

func (ns *NavierStokes) initializeArrays(U0 [2]float64) {
	var (
		g    = ns.Grid
		numQ = g.NumQ()
		numL = ns.variant.NumLambda(ns)
	)
	ns.Q, ns.QStar = make([]float64, numQ), make([]float64, numQ)
	ns.H, ns.HOld = make([]float64, numQ), make([]float64, numQ)
	ns.rn, ns.rhs1, ns.bc1 = make([]float64, numQ), make([]float64, numQ), make([]float64, numQ)
	ns.scratchQ, ns.scratchQ2 = make([]float64, numQ), make([]float64, numQ)
	ns.Lambda, ns.rhs2, ns.bc2 = make([]float64, numL), make([]float64, numL), make([]float64, numL)
	ns.scratchL = make([]float64, numL)
	for f := 0; f < numQ; f++ {
		_, _, _, _, hPerp := g.FaceGeometry(f)
		if f < g.NumU() {
			ns.Q[f] = U0[0] * hPerp
		} else {
			ns.Q[f] = U0[1] * hPerp
		}
	}
	ns.buildBoundarySlots()
}

func (ns *NavierStokes) restart(dir string) (err error) {
	var snap writefiles.Snapshot
	if snap, err = readfiles.ReadSnapshot(dir); err != nil {
		return configError("restart from %s: %v", dir, err)
	}
	meta := snap.Meta
	if meta.Nx != ns.Grid.Nx || meta.Ny != ns.Grid.Ny || len(snap.Q) != len(ns.Q) || len(snap.Lambda) != len(ns.Lambda) {
		return dimensionError("restart snapshot is %dx%d with %d fluxes and %d multipliers, grid needs %dx%d, %d and %d",
			meta.Nx, meta.Ny, len(snap.Q), len(snap.Lambda), ns.Grid.Nx, ns.Grid.Ny, len(ns.Q), len(ns.Lambda))
	}
	if snap.History != nil {
		if len(snap.History) != len(ns.HOld) {
			return dimensionError("restart history has %d values, grid needs %d", len(snap.History), len(ns.HOld))
		}
		copy(ns.HOld, snap.History)
		ns.historyPrimed = true
	}
	copy(ns.Q, snap.Q)
	copy(ns.Lambda, snap.Lambda)
	ns.StartStep = meta.Step
	ns.logger.Info("restarted", zap.String("from", dir), zap.Int("step", meta.Step),
		zap.Bool("history", ns.historyPrimed), zap.String("previousRun", meta.RunID))
	return
}

// assembleMatrices builds the time independent operators and places the
// boundaries and bodies at the first sub-step target
func (ns *NavierStokes) assembleMatrices() (err error) {
	var (
		t0  = ns.Time
		ss0 = ns.Scheme.SubSteps[0]
	)
	ns.M, ns.Minv = buildMass(ns.Grid, ns.Dt)
	ns.L, ns.bcLinks = ns.variant.BuildLaplacian(ns)
	for _, op := range []*utils.CSR{ns.M, ns.Minv, ns.L} {
		op.NPar = ns.ParallelDegree
	}
	ns.initializeBoundaries(t0, ss0.DtFraction*ns.Dt)
	if _, err = ns.variant.UpdateGeometry(ns, t0+ss0.TimeFraction*ns.Dt); err != nil {
		return
	}
	if err = ns.buildCoupling(); err != nil {
		return
	}
	for _, ss := range ns.Scheme.SubSteps {
		if _, err = ns.operatorsFor(ss.AlphaImplicit); err != nil {
			return
		}
	}
	return
}

func (ns *NavierStokes) openOutput(dir string) (err error) {
	if ns.forceLog, err = writefiles.NewForceLog(filepath.Join(dir, ForceFile), len(ns.Bodies)); err != nil {
		return
	}
	if ns.iterationLog, err = writefiles.NewIterationLog(filepath.Join(dir, IterationFile)); err != nil {
		return
	}
	if ns.SaveEvery > 0 {
		ns.snapshots, err = writefiles.NewSnapshotWriter(filepath.Join(dir, SnapshotsDir))
	}
	return
}

// Finished is true once the last step has run or a stop was requested
func (ns *NavierStokes) Finished() bool {
	return ns.stopRequested || ns.Step >= ns.StartStep+ns.NumSteps
}

// RequestStop makes Finished true before the next step
func (ns *NavierStokes) RequestStop() { ns.stopRequested = true }

// StepTime advances the solution by one outer step, running every sub-step
// of the integration scheme, and writes the step output.
func (ns *NavierStokes) StepTime() (rep StepReport, err error) {
	if ns.Finished() {
		ns.State = Finished
		return rep, ErrFinished
	}
	if ns.started.IsZero() {
		ns.started = time.Now()
	}
	ns.State = SteppingTime
	var (
		tStart = float64(ns.Step) * ns.Dt
		nSub   = ns.Scheme.NumSubSteps()
	)
	rep.Step = ns.Step + 1
	for k, ss := range ns.Scheme.SubSteps {
		ns.subStep = k
		sr := ns.runSubStep(k, ss)
		rep.SubSteps = append(rep.SubSteps, sr)
		ns.summary.VelocityIterations += sr.Velocity.Iterations
		ns.summary.PoissonIterations += sr.Poisson.Iterations
		if !sr.Converged() {
			ns.summary.NonConvergedSubSteps++
		}
		ns.writeIterations(&rep, sr)
		if sr.Breakdown {
			rep.Breakdown = true
			ns.summary.Breakdowns++
			ns.logger.Error("numerical breakdown", zap.Int("step", rep.Step), zap.Int("subStep", k), zap.Error(sr.Err))
			break
		}
		if !sr.Converged() {
			ns.logger.Warn("sub-step did not converge", zap.Int("step", rep.Step), zap.Int("subStep", k),
				zap.Int("iterationCount1", sr.Velocity.Iterations), zap.Float64("residual1", sr.Velocity.ResidualNorm),
				zap.Int("iterationCount2", sr.Poisson.Iterations), zap.Float64("residual2", sr.Poisson.ResidualNorm))
		}
		// Move boundaries and bodies to the target time of the next sub-step
		next := ns.Scheme.SubSteps[(k+1)%nSub]
		tNext := tStart + next.TimeFraction*ns.Dt
		if k == nSub-1 {
			tNext += ns.Dt
		}
		if err := ns.updateBoundaryConditions(tNext, next.DtFraction*ns.Dt); err != nil {
			sr.Err = &StepError{Step: rep.Step, SubStep: k, Stage: StageBoundary, Err: err}
			rep.SubSteps[k] = sr
			rep.Breakdown = true
			ns.summary.Breakdowns++
			ns.logger.Error("boundary update failed", zap.Error(sr.Err))
			break
		}
	}
	ns.Step++
	ns.Time = float64(ns.Step) * ns.Dt
	ns.summary.Steps++
	rep.Time = ns.Time

	ns.Forces = ns.variant.CalculateForces(ns)
	ns.Forces.Step, ns.Forces.Time = ns.Step, ns.Time
	rep.Forces = ns.Forces
	ns.writeData(&rep)
	if ns.ReportEvery > 0 && (ns.Step-ns.StartStep)%ns.ReportEvery == 0 {
		ns.logger.Info("progress", zap.Int("step", ns.Step), zap.Float64("time", ns.Time),
			zap.Float64("forceX", ns.Forces.ForceX), zap.Float64("forceY", ns.Forces.ForceY),
			zap.Float64("maxDivergence", ns.MaxDivergenceError()))
	}
	if ns.Finished() {
		ns.State = Finished
	}
	return
}

func (ns *NavierStokes) runSubStep(k int, ss IntegrationScheme.SubStep) (sr SubStepReport) {
	var (
		ops  *implicitOperators
		err  error
		step = ns.Step + 1
	)
	sr.SubStep = k
	fail := func(stage Stage, err error) SubStepReport {
		sr.Err = &StepError{Step: step, SubStep: k, Stage: stage, Err: err}
		sr.Breakdown = errors.Is(err, ErrNumericalBreakdown) || errors.Is(err, ErrDimensionMismatch) ||
			errors.Is(err, ErrConfiguration)
		return sr
	}
	if ops, err = ns.operatorsFor(ss.AlphaImplicit); err != nil {
		return fail(StageExplicit, err)
	}
	ns.variant.BuildExplicitTerm(ns, ns.H)
	if !ns.historyPrimed && ns.Scheme.StartsFromHistory() {
		// First step of a multistep scheme starts with Euler
		copy(ns.HOld, ns.H)
	}
	ns.generateRN(ss)
	ns.assembleRHS1(ss)
	if sr.Velocity, err = ns.solveIntermediateVelocity(ops); err != nil {
		return fail(StageVelocity, err)
	}
	ns.variant.BuildBoundaryRHS(ns, ns.bc2)
	ns.assembleRHS2()
	if sr.Poisson, err = ns.solvePoisson(ops); err != nil {
		return fail(StagePoisson, err)
	}
	ns.projectionStep(ops)
	if utils.IsNan(ns.Q) {
		return fail(StageProjection, ErrNumericalBreakdown)
	}
	ns.H, ns.HOld = ns.HOld, ns.H
	ns.historyPrimed = true
	if !sr.Converged() {
		stage := StageVelocity
		if sr.Velocity.Converged {
			stage = StagePoisson
		}
		sr.Err = &StepError{Step: step, SubStep: k, Stage: stage, Err: ErrNotConverged}
	}
	return
}

// generateRN computes rn = M q + gamma H + zeta HOld + alphaE (L q + bc1(bcPrev))
func (ns *NavierStokes) generateRN(ss IntegrationScheme.SubStep) {
	ns.M.MulVec(ns.rn, ns.Q)
	floats.AddScaled(ns.rn, ss.Gamma, ns.H)
	if ss.Zeta != 0 {
		floats.AddScaled(ns.rn, ss.Zeta, ns.HOld)
	}
	if ss.AlphaExplicit != 0 {
		ns.L.MulVec(ns.scratchQ, ns.Q)
		assembleBC1(ns.bc1, ns.bcLinks, ns.bcPrev)
		floats.Add(ns.scratchQ, ns.bc1)
		floats.AddScaled(ns.rn, ss.AlphaExplicit, ns.scratchQ)
	}
}

// assembleRHS1 computes rhs1 = rn + alphaI bc1(bc)
func (ns *NavierStokes) assembleRHS1(ss IntegrationScheme.SubStep) {
	copy(ns.rhs1, ns.rn)
	if ss.AlphaImplicit != 0 {
		assembleBC1(ns.bc1, ns.bcLinks, ns.bc)
		floats.AddScaled(ns.rhs1, ss.AlphaImplicit, ns.bc1)
	}
}

// assembleRHS2 computes rhs2 = QT qStar - bc2
func (ns *NavierStokes) assembleRHS2() {
	ns.QT.MulVec(ns.rhs2, ns.QStar)
	floats.Sub(ns.rhs2, ns.bc2)
}

// updateBoundaryConditions moves the boundary buffers and the bodies to time
// t, the end of the next sub-step of length dt
func (ns *NavierStokes) updateBoundaryConditions(t, dt float64) (err error) {
	ns.advanceBoundaries(t, dt)
	var moved bool
	if moved, err = ns.variant.UpdateGeometry(ns, t); err == nil && moved {
		err = ns.buildCoupling()
	}
	return
}

func (ns *NavierStokes) lastDtFraction() float64 {
	return ns.Scheme.SubSteps[ns.subStep].DtFraction
}

// MaxDivergenceError is max|QT q - bc2| over the pressure rows, the mass
// imbalance left by the last projection
func (ns *NavierStokes) MaxDivergenceError() float64 {
	numP := ns.Grid.NumP()
	ns.QT.MulVec(ns.scratchL, ns.Q)
	d := ns.scratchL[:numP]
	floats.Sub(d, ns.bc2[:numP])
	return utils.MaxAbs(d)
}

func (ns *NavierStokes) writeIterations(rep *StepReport, sr SubStepReport) {
	if ns.iterationLog == nil {
		return
	}
	if err := ns.iterationLog.Write(writefiles.IterationRow{
		Step: rep.Step, SubStep: sr.SubStep,
		IterationCount1: sr.Velocity.Iterations, IterationCount2: sr.Poisson.Iterations,
		Converged1: sr.Velocity.Converged, Converged2: sr.Poisson.Converged, Breakdown: sr.Breakdown,
	}); err != nil {
		ns.ioError(rep, err)
	}
}

// writeData writes the force row and, at the save cadence, a snapshot. The
// logs are flushed every step so a killed run keeps its history.
func (ns *NavierStokes) writeData(rep *StepReport) {
	if ns.forceLog != nil {
		if err := ns.forceLog.Write(writefiles.ForceRow{Step: ns.Step, Time: ns.Time,
			ForceX: ns.Forces.ForceX, ForceY: ns.Forces.ForceY, Force1: ns.Forces.Force1,
			Bodies: ns.Forces.Bodies}); err != nil {
			ns.ioError(rep, err)
		}
		if err := ns.forceLog.Flush(); err != nil {
			ns.ioError(rep, err)
		}
	}
	if ns.iterationLog != nil {
		if err := ns.iterationLog.Flush(); err != nil {
			ns.ioError(rep, err)
		}
	}
	if ns.snapshots != nil && ns.SaveEvery > 0 && ns.Step%ns.SaveEvery == 0 {
		path, err := ns.snapshots.Write(ns.snapshot())
		if err != nil {
			ns.ioError(rep, err)
			return
		}
		rep.Saved = path
		ns.logger.Debug("saved snapshot", zap.String("path", path))
	}
}

// snapshot holds the state at the end of the current step. HOld carries the
// explicit term of the last sub-step once the history is primed.
func (ns *NavierStokes) snapshot() (snap writefiles.Snapshot) {
	snap = writefiles.Snapshot{
		Meta: writefiles.SnapshotMeta{
			RunID:     ns.RunID,
			Solver:    ns.variant.Type().String(),
			Step:      ns.Step,
			Time:      ns.Time,
			Nx:        ns.Grid.Nx,
			Ny:        ns.Grid.Ny,
			NumQ:      len(ns.Q),
			NumLambda: len(ns.Lambda),
		},
		Q:      ns.Q,
		Lambda: ns.Lambda,
	}
	if ns.historyPrimed {
		snap.History = ns.HOld
		snap.Meta.NumHistory = len(ns.HOld)
	}
	return
}

func (ns *NavierStokes) ioError(rep *StepReport, err error) {
	err = &StepError{Step: ns.Step, SubStep: ns.subStep, Stage: StageOutput, Err: err}
	rep.IOErrors = append(rep.IOErrors, err)
	ns.summary.IOErrors++
	ns.logger.Error("output failed", zap.Error(err))
}

// RunPolicy decides when the caller stops the loop
type RunPolicy struct {
	AbortOnBreakdown bool
	MaxNonConverged  int // Consecutive non-converged sub-steps, zero disables
}

// Run steps until Finished, the context is cancelled or the policy halts
// the run. Cancellation is checked once per outer step.
func (ns *NavierStokes) Run(ctx context.Context, policy RunPolicy) (summary RunSummary, err error) {
	var consecutive int
	for !ns.Finished() {
		if ctx.Err() != nil {
			ns.RequestStop()
			ns.logger.Info("stop requested", zap.Int("step", ns.Step), zap.Error(ctx.Err()))
			break
		}
		var rep StepReport
		if rep, err = ns.StepTime(); err != nil {
			break
		}
		if rep.Breakdown && policy.AbortOnBreakdown {
			err = rep.Err()
			break
		}
		for _, sr := range rep.SubSteps {
			if sr.Converged() {
				consecutive = 0
				continue
			}
			consecutive++
			if policy.MaxNonConverged > 0 && consecutive >= policy.MaxNonConverged {
				err = &StepError{Step: rep.Step, SubStep: sr.SubStep, Stage: StagePoisson,
					Err: fmt.Errorf("%w in %d consecutive sub-steps", ErrNotConverged, consecutive)}
				break
			}
		}
		if err != nil {
			break
		}
	}
	ns.State = Finished
	summary = ns.Summary()
	ns.logger.Info("run finished", zap.Int("steps", summary.Steps), zap.Duration("elapsed", summary.Elapsed),
		zap.Int("velocityIterations", summary.VelocityIterations),
		zap.Int("poissonIterations", summary.PoissonIterations),
		zap.Int("nonConverged", summary.NonConvergedSubSteps), zap.Error(err))
	return
}

func (ns *NavierStokes) Summary() (s RunSummary) {
	s = ns.summary
	if !ns.started.IsZero() {
		s.Elapsed = time.Since(ns.started)
	}
	return
}

// Shutdown flushes and closes the output streams
func (ns *NavierStokes) Shutdown() (err error) {
	var errs []error
	if ns.forceLog != nil {
		errs = append(errs, ns.forceLog.Close())
		ns.forceLog = nil
	}
	if ns.iterationLog != nil {
		errs = append(errs, ns.iterationLog.Close())
		ns.iterationLog = nil
	}
	ns.State = Finished
	_ = ns.logger.Sync()
	return errors.Join(errs...)
}

// Velocity returns the u and v velocity at the interior faces
func (ns *NavierStokes) Velocity() (U, V []float64) {
	var (
		g    = ns.Grid
		numU = g.NumU()
	)
	U, V = make([]float64, numU), make([]float64, g.NumV())
	for f := range ns.Q {
		_, _, _, _, hPerp := g.FaceGeometry(f)
		if f < numU {
			U[f] = ns.Q[f] / hPerp
		} else {
			V[f-numU] = ns.Q[f] / hPerp
		}
	}
	return
}

// Pressure returns the cell pressures of the last sub-step
func (ns *NavierStokes) Pressure() (P []float64) {
	P = make([]float64, ns.Grid.NumP())
	floats.ScaleTo(P, 1./ns.lastDtFraction(), ns.Lambda[:len(P)])
	return
}

// BoundaryValues returns the current buffer of edge e
func (ns *NavierStokes) BoundaryValues(e types.Edge) []float64 { return ns.bc[e] }

package NavierStokes2D

import (
	"strings"

	"github.com/notargets/goibm/InputParameters"
	"github.com/notargets/goibm/utils"
	"go.uber.org/zap"
)

// implicitOperators are the operators that depend on the implicit diffusion
// weight of a sub-step. They are built on first use and cached.
type implicitOperators struct {
	Alpha     float64
	A, BN, C  *utils.CSR
	velocityP utils.Preconditioner
	poissonP  utils.Preconditioner
}

func newSettings(sp InputParameters.SolverParameters, NPar int) utils.Settings {
	return utils.Settings{
		Tolerance:        sp.Tolerance,
		MaxIterations:    sp.MaxIterations,
		StagnationWindow: sp.StagnationWindow,
		NPar:             NPar,
	}
}

// operatorsFor returns the implicit operators for weight alpha. BN depends
// only on M and L so it survives body motion, C is rebuilt after Q changes.
func (ns *NavierStokes) operatorsFor(alpha float64) (ops *implicitOperators, err error) {
	var ok bool
	if ops, ok = ns.implicit[alpha]; !ok {
		ops = &implicitOperators{Alpha: alpha}
		if ops.A, err = ns.variant.BuildImplicitOperator(ns, alpha); err != nil {
			return nil, err
		}
		if ops.BN, err = buildApproximateInverse(ns.Minv, ns.L, alpha, ns.BNOrder); err != nil {
			return nil, err
		}
		ops.A.NPar, ops.BN.NPar = ns.ParallelDegree, ns.ParallelDegree
		switch strings.ToLower(ns.velocityPreconditioner) {
		case "diagonal":
			if ops.velocityP, err = utils.NewDiagonalPreconditioner(ops.A); err != nil {
				return nil, configError("%v", err)
			}
		case "bn":
			ops.velocityP = utils.OperatorPreconditioner{Op: ops.BN}
		default:
			ops.velocityP = utils.IdentityPreconditioner{}
		}
		ns.implicit[alpha] = ops
		ns.logger.Debug("built implicit operators", zap.Float64("alpha", alpha),
			zap.Int("nnzA", ops.A.NNZ()), zap.Int("nnzBN", ops.BN.NNZ()))
	}
	if ops.C == nil {
		if ops.C, err = buildPoissonOperator(ns.QT, ops.BN, ns.Qop); err != nil {
			return nil, err
		}
		ops.C.NPar = ns.ParallelDegree
		if strings.ToLower(ns.poissonPreconditioner) == "diagonal" {
			if ops.poissonP, err = utils.NewDiagonalPreconditioner(ops.C); err != nil {
				return nil, configError("%v", err)
			}
		} else {
			ops.poissonP = utils.IdentityPreconditioner{}
		}
		ns.logger.Debug("built poisson operator", zap.Float64("alpha", alpha), zap.Int("nnzC", ops.C.NNZ()))
	}
	return
}

// buildCoupling (re)builds Q and QT and drops every cached C
func (ns *NavierStokes) buildCoupling() (err error) {
	var Q, QT *utils.CSR
	if Q, QT, err = ns.variant.BuildCoupling(ns); err != nil {
		return
	}
	if err = checkDimensions(ns, Q, QT); err != nil {
		return
	}
	Q.NPar, QT.NPar = ns.ParallelDegree, ns.ParallelDegree
	ns.Qop, ns.QT = Q, QT
	for _, ops := range ns.implicit {
		ops.C, ops.poissonP = nil, nil
	}
	return
}

// solveIntermediateVelocity solves A qStar = rhs1 starting from q
func (ns *NavierStokes) solveIntermediateVelocity(ops *implicitOperators) (stats utils.Stats, err error) {
	copy(ns.QStar, ns.Q)
	return utils.CG(ops.A, ns.rhs1, ns.QStar, ops.velocityP, ns.VelocitySettings, &ns.cgVelocity)
}

// solvePoisson solves C lambda = rhs2 starting from the previous lambda
func (ns *NavierStokes) solvePoisson(ops *implicitOperators) (stats utils.Stats, err error) {
	return utils.CG(ops.C, ns.rhs2, ns.Lambda, ops.poissonP, ns.PoissonSettings, &ns.cgPoisson)
}

// projectionStep sets q = qStar - BN Q lambda
func (ns *NavierStokes) projectionStep(ops *implicitOperators) {
	ns.Qop.MulVec(ns.scratchQ, ns.Lambda)
	ops.BN.MulVec(ns.scratchQ2, ns.scratchQ)
	copy(ns.Q, ns.QStar)
	utils.ParallelAddScaled(ns.ParallelDegree, ns.Q, -1, ns.scratchQ2)
}

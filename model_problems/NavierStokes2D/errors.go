package NavierStokes2D

import (
	"errors"
	"fmt"

	"github.com/notargets/goibm/utils"
)

var (
	ErrConfiguration      = errors.New("configuration error")
	ErrDimensionMismatch  = errors.New("operator dimension mismatch")
	ErrNumericalBreakdown = utils.ErrNumericalBreakdown
	ErrNotConverged       = errors.New("iterative solve did not converge")
	ErrFinished           = errors.New("simulation already finished")
)

type Stage uint8

const (
	StageExplicit Stage = iota
	StageVelocity
	StagePoisson
	StageProjection
	StageBoundary
	StageForces
	StageOutput
)

func (s Stage) String() string {
	return [...]string{"explicit terms", "velocity solve", "poisson solve", "projection",
		"boundary update", "forces", "output"}[s]
}

// StepError locates a failure within the time loop
type StepError struct {
	Step, SubStep int
	Stage         Stage
	Err           error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d, sub-step %d, %s: %v", e.Step, e.SubStep, e.Stage, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func dimensionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDimensionMismatch, fmt.Sprintf(format, args...))
}

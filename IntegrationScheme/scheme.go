package IntegrationScheme

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownScheme = errors.New("unknown time integration scheme")

type ConvectionType uint8

const (
	EULER_EXPLICIT_CONVECTION ConvectionType = iota
	ADAMS_BASHFORTH_2
	RUNGE_KUTTA_3
)

var ConvectionNames = map[string]ConvectionType{
	"EULER_EXPLICIT":    EULER_EXPLICIT_CONVECTION,
	"ADAMS_BASHFORTH_2": ADAMS_BASHFORTH_2,
	"RUNGE_KUTTA_3":     RUNGE_KUTTA_3,
}

type DiffusionType uint8

const (
	EULER_EXPLICIT_DIFFUSION DiffusionType = iota
	EULER_IMPLICIT
	CRANK_NICOLSON
)

var DiffusionNames = map[string]DiffusionType{
	"EULER_EXPLICIT": EULER_EXPLICIT_DIFFUSION,
	"EULER_IMPLICIT": EULER_IMPLICIT,
	"CRANK_NICOLSON": CRANK_NICOLSON,
}

// SubStep holds the weights of one stage:
//
//	rn = M q + Gamma H^k + Zeta H^(k-1) + AlphaExplicit (L q + bc1)
//	(M - AlphaImplicit L) qStar = rn + AlphaImplicit bc1
//
// DtFraction is Gamma+Zeta, the share of Dt the stage advances, and
// TimeFraction the cumulative share of Dt reached at the end of the stage.
type SubStep struct {
	Gamma, Zeta                  float64
	AlphaExplicit, AlphaImplicit float64
	DtFraction, TimeFraction     float64
}

type Scheme struct {
	Convection ConvectionType
	Diffusion  DiffusionType
	SubSteps   []SubStep
}

func NewScheme(convection, diffusion string) (s Scheme, err error) {
	var ok bool
	if s.Convection, ok = ConvectionNames[strings.ToUpper(convection)]; !ok {
		err = fmt.Errorf("%w: convection \"%s\"", ErrUnknownScheme, convection)
		return
	}
	if s.Diffusion, ok = DiffusionNames[strings.ToUpper(diffusion)]; !ok {
		err = fmt.Errorf("%w: diffusion \"%s\"", ErrUnknownScheme, diffusion)
		return
	}
	var gamma, zeta []float64
	switch s.Convection {
	case EULER_EXPLICIT_CONVECTION:
		gamma, zeta = []float64{1}, []float64{0}
	case ADAMS_BASHFORTH_2:
		gamma, zeta = []float64{1.5}, []float64{-0.5}
	case RUNGE_KUTTA_3:
		// Wray's low storage coefficients
		gamma, zeta = []float64{8. / 15., 5. / 12., 3. / 4.}, []float64{0, -17. / 60., -5. / 12.}
	}
	var tf float64
	s.SubSteps = make([]SubStep, len(gamma))
	for k := range gamma {
		ss := SubStep{Gamma: gamma[k], Zeta: zeta[k], DtFraction: gamma[k] + zeta[k]}
		switch s.Diffusion {
		case EULER_EXPLICIT_DIFFUSION:
			ss.AlphaExplicit = ss.DtFraction
		case EULER_IMPLICIT:
			ss.AlphaImplicit = ss.DtFraction
		case CRANK_NICOLSON:
			ss.AlphaExplicit, ss.AlphaImplicit = 0.5*ss.DtFraction, 0.5*ss.DtFraction
		}
		tf += ss.DtFraction
		ss.TimeFraction = tf
		s.SubSteps[k] = ss
	}
	// Remove rounding so the last stage lands on the full step
	s.SubSteps[len(s.SubSteps)-1].TimeFraction = 1
	return
}

func (s Scheme) NumSubSteps() int { return len(s.SubSteps) }

// StartsFromHistory is true when the first stage reads the previous
// convection term, which has to be primed on the very first step.
func (s Scheme) StartsFromHistory() bool { return s.SubSteps[0].Zeta != 0 }

func (ct ConvectionType) String() string {
	return [...]string{"EULER_EXPLICIT", "ADAMS_BASHFORTH_2", "RUNGE_KUTTA_3"}[ct]
}

func (dt DiffusionType) String() string {
	return [...]string{"EULER_EXPLICIT", "EULER_IMPLICIT", "CRANK_NICOLSON"}[dt]
}

func (s Scheme) String() string {
	return fmt.Sprintf("%s convection, %s diffusion, %d sub-steps", s.Convection, s.Diffusion, len(s.SubSteps))
}

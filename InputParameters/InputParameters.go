package InputParameters

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ghodss/yaml"
)

var ErrInvalidParameters = errors.New("invalid input parameters")

// Parameters obtained from the YAML input file
type NavierStokesParameters struct {
	Title                   string             `json:"Title"`
	SolverType              string             `json:"SolverType"` // NAVIER_STOKES or TAIRA_COLONIUS
	Nu                      float64            `json:"Nu"`
	Dt                      float64            `json:"Dt"`
	StartStep               int                `json:"StartStep"`
	NumSteps                int                `json:"NumSteps"`
	SaveEvery               int                `json:"SaveEvery"`
	ReportEvery             int                `json:"ReportEvery"`
	ConvectionScheme        string             `json:"ConvectionScheme"`
	DiffusionScheme         string             `json:"DiffusionScheme"`
	ApproximateInverseOrder int                `json:"ApproximateInverseOrder"`
	VelocitySolver          SolverParameters   `json:"VelocitySolver"`
	PoissonSolver           SolverParameters   `json:"PoissonSolver"`
	InitialVelocity         [2]float64         `json:"InitialVelocity"`
	ParallelDegree          int                `json:"ParallelDegree"` // Zero means one go routine per CPU
	Domain                  DomainParameters   `json:"Domain"`
	BoundaryConditions      BoundaryParameters `json:"BoundaryConditions"`
	Bodies                  []BodyParameters   `json:"Bodies"`
	OutputDir               string             `json:"OutputDir"`
	RestartDir              string             `json:"RestartDir"`
	MaxNonConverged         int                `json:"MaxNonConverged"` // Consecutive sub-steps, zero disables
	AbortOnBreakdown        *bool              `json:"AbortOnBreakdown"`
}

type SolverParameters struct {
	Tolerance        float64 `json:"Tolerance"`
	MaxIterations    int     `json:"MaxIterations"`
	StagnationWindow int     `json:"StagnationWindow"`
	Preconditioner   string  `json:"Preconditioner"` // diagonal, bn, none
}

// AxisParameters describes one coordinate direction as a chain of segments
// starting at Start. Each segment ends at End and holds NumCells cells whose
// widths grow geometrically by StretchRatio.
type AxisParameters struct {
	Start    float64             `json:"Start"`
	Segments []SegmentParameters `json:"Segments"`
}

type SegmentParameters struct {
	End          float64 `json:"End"`
	NumCells     int     `json:"NumCells"`
	StretchRatio float64 `json:"StretchRatio"`
}

type DomainParameters struct {
	// Keys avoid bare Y and N, which YAML 1.1 reads as booleans
	X AxisParameters `json:"XAxis"`
	Y AxisParameters `json:"YAxis"`
}

// BCParameters prescribes one velocity component on one edge. Dirichlet values
// vary in time as Value + Amplitude*sin(2*pi*Frequency*t + Phase). For the
// convective type Value is the convection speed, zero selects the mean
// outflow velocity.
type BCParameters struct {
	Type      string  `json:"Type"`
	Value     float64 `json:"Value"`
	Amplitude float64 `json:"Amplitude"`
	Frequency float64 `json:"Frequency"`
	Phase     float64 `json:"Phase"`
}

type EdgeParameters struct {
	U BCParameters `json:"U"`
	V BCParameters `json:"V"`
}

type BoundaryParameters struct {
	XMinus EdgeParameters `json:"XMinus"`
	XPlus  EdgeParameters `json:"XPlus"`
	YMinus EdgeParameters `json:"YMinus"`
	YPlus  EdgeParameters `json:"YPlus"`
}

// Edges returns the edge parameters in XMinus, XPlus, YMinus, YPlus order
func (bp *BoundaryParameters) Edges() [4]EdgeParameters {
	return [4]EdgeParameters{bp.XMinus, bp.XPlus, bp.YMinus, bp.YPlus}
}

type OscillationParameters struct {
	Amplitude float64 `json:"Amplitude"`
	Frequency float64 `json:"Frequency"`
	Phase     float64 `json:"Phase"`
}

type BodyParameters struct {
	Type         string                `json:"Type"` // circle or points
	Center       [2]float64            `json:"Center"`
	Radius       float64               `json:"Radius"`
	NumPoints    int                   `json:"NumPoints"`
	PointsFile   string                `json:"PointsFile"`
	Velocity     [2]float64            `json:"Velocity"`
	Omega        float64               `json:"Omega"` // Rotation rate about Center
	XOscillation OscillationParameters `json:"XOscillation"`
	YOscillation OscillationParameters `json:"YOscillation"`
}

// Moving is true when the body has any prescribed motion
func (bp *BodyParameters) Moving() bool {
	return bp.Velocity != [2]float64{} || bp.Omega != 0 ||
		bp.XOscillation.Amplitude != 0 || bp.YOscillation.Amplitude != 0
}

func (ip *NavierStokesParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *NavierStokesParameters) SetDefaults() {
	if ip.SolverType == "" {
		if len(ip.Bodies) > 0 {
			ip.SolverType = "TAIRA_COLONIUS"
		} else {
			ip.SolverType = "NAVIER_STOKES"
		}
	}
	if ip.SaveEvery == 0 {
		ip.SaveEvery = 100
	}
	if ip.ReportEvery == 0 {
		ip.ReportEvery = 10
	}
	if ip.ConvectionScheme == "" {
		ip.ConvectionScheme = "ADAMS_BASHFORTH_2"
	}
	if ip.DiffusionScheme == "" {
		ip.DiffusionScheme = "CRANK_NICOLSON"
	}
	if ip.ApproximateInverseOrder == 0 {
		ip.ApproximateInverseOrder = 1
	}
	setSolverDefaults := func(sp *SolverParameters) {
		if sp.Tolerance == 0 {
			sp.Tolerance = 1.e-8
		}
		if sp.MaxIterations == 0 {
			sp.MaxIterations = 10000
		}
		if sp.Preconditioner == "" {
			sp.Preconditioner = "diagonal"
		}
	}
	setSolverDefaults(&ip.VelocitySolver)
	setSolverDefaults(&ip.PoissonSolver)
	setAxisDefaults := func(ap *AxisParameters) {
		for i := range ap.Segments {
			if ap.Segments[i].StretchRatio == 0 {
				ap.Segments[i].StretchRatio = 1
			}
		}
	}
	setAxisDefaults(&ip.Domain.X)
	setAxisDefaults(&ip.Domain.Y)
	for _, bc := range []*BCParameters{
		&ip.BoundaryConditions.XMinus.U, &ip.BoundaryConditions.XMinus.V,
		&ip.BoundaryConditions.XPlus.U, &ip.BoundaryConditions.XPlus.V,
		&ip.BoundaryConditions.YMinus.U, &ip.BoundaryConditions.YMinus.V,
		&ip.BoundaryConditions.YPlus.U, &ip.BoundaryConditions.YPlus.V,
	} {
		if bc.Type == "" {
			bc.Type = "DIRICHLET"
		}
	}
	for i := range ip.Bodies {
		if ip.Bodies[i].Type == "" {
			ip.Bodies[i].Type = "circle"
		}
	}
	if ip.AbortOnBreakdown == nil {
		abort := true
		ip.AbortOnBreakdown = &abort
	}
}

// Validate checks the values that can be checked without building the grid
func (ip *NavierStokesParameters) Validate() (err error) {
	var msgs []string
	fail := func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	}
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			fail("%s must be positive and finite, have %v", name, v)
		}
	}
	positive("Nu", ip.Nu)
	positive("Dt", ip.Dt)
	if ip.NumSteps < 0 || ip.StartStep < 0 {
		fail("StartStep and NumSteps must not be negative")
	}
	if ip.SaveEvery < 0 {
		fail("SaveEvery must not be negative")
	}
	if ip.ApproximateInverseOrder < 1 {
		fail("ApproximateInverseOrder must be at least 1, have %d", ip.ApproximateInverseOrder)
	}
	for name, sp := range map[string]SolverParameters{
		"VelocitySolver": ip.VelocitySolver, "PoissonSolver": ip.PoissonSolver} {
		positive(name+".Tolerance", sp.Tolerance)
		if sp.Tolerance >= 1 {
			fail("%s.Tolerance must be below 1, have %v", name, sp.Tolerance)
		}
		if sp.MaxIterations < 1 {
			fail("%s.MaxIterations must be at least 1", name)
		}
		switch strings.ToLower(sp.Preconditioner) {
		case "diagonal", "none":
		case "bn":
			if name == "PoissonSolver" {
				fail("PoissonSolver.Preconditioner must be diagonal or none")
			}
		default:
			fail("%s.Preconditioner \"%s\" is not one of diagonal, bn, none", name, sp.Preconditioner)
		}
	}
	for name, ap := range map[string]AxisParameters{"XAxis": ip.Domain.X, "YAxis": ip.Domain.Y} {
		if len(ap.Segments) == 0 {
			fail("Domain.%s has no segments", name)
		}
	}
	for i, bp := range ip.Bodies {
		switch strings.ToLower(bp.Type) {
		case "circle":
			if !(bp.Radius > 0) || bp.NumPoints < 3 {
				fail("Bodies[%d]: circle needs Radius > 0 and NumPoints >= 3", i)
			}
		case "points":
			if bp.PointsFile == "" {
				fail("Bodies[%d]: points body needs a PointsFile", i)
			}
		default:
			fail("Bodies[%d]: unknown body type \"%s\"", i, bp.Type)
		}
	}
	if len(ip.Bodies) != 0 && strings.ToUpper(ip.SolverType) == "NAVIER_STOKES" {
		fail("NAVIER_STOKES solver can not carry immersed bodies, use TAIRA_COLONIUS")
	}
	if ip.MaxNonConverged < 0 {
		fail("MaxNonConverged must not be negative")
	}
	if len(msgs) != 0 {
		err = fmt.Errorf("%w: %s", ErrInvalidParameters, strings.Join(msgs, "; "))
	}
	return
}

func (ip *NavierStokesParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Solver Type\n", ip.SolverType)
	fmt.Printf("%8.5g\t\t= Nu\n", ip.Nu)
	fmt.Printf("%8.5g\t\t= Dt\n", ip.Dt)
	fmt.Printf("[%d, %d]\t\t= Start Step, Number of Steps\n", ip.StartStep, ip.NumSteps)
	fmt.Printf("[%s]\t= Convection Scheme\n", ip.ConvectionScheme)
	fmt.Printf("[%s]\t= Diffusion Scheme\n", ip.DiffusionScheme)
	fmt.Printf("[%d]\t\t\t= Approximate Inverse Order\n", ip.ApproximateInverseOrder)
	fmt.Printf("%v\t= Velocity Solver\n", ip.VelocitySolver)
	fmt.Printf("%v\t= Poisson Solver\n", ip.PoissonSolver)
	fmt.Printf("%v\t\t= Initial Velocity\n", ip.InitialVelocity)
	for i, ep := range ip.BoundaryConditions.Edges() {
		fmt.Printf("BCs[%s] = U%v, V%v\n", [4]string{"XMinus", "XPlus", "YMinus", "YPlus"}[i], ep.U, ep.V)
	}
	for i, bp := range ip.Bodies {
		fmt.Printf("Bodies[%d] = %s center %v radius %g points %d moving %v\n",
			i, bp.Type, bp.Center, bp.Radius, bp.NumPoints, bp.Moving())
	}
}

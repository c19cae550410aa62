package NavierStokes2D

import (
	"math"
	"strings"

	"github.com/notargets/goibm/Grid2D"
	"github.com/notargets/goibm/InputParameters"
	"github.com/notargets/goibm/readfiles"
)

// Body is a set of Lagrangian markers moving with a prescribed rigid motion
type Body struct {
	Center     [2]float64
	Velocity   [2]float64
	Omega      float64
	XOsc, YOsc InputParameters.OscillationParameters
	Moving     bool
	// Reference marker positions at t = 0
	X0, Y0 []float64
	// Marker positions and velocities at the current geometry time
	X, Y, U, V []float64
	Offset     int // Global index of the first marker
}

func NewBody(bp InputParameters.BodyParameters) (b *Body, err error) {
	b = &Body{
		Center:   bp.Center,
		Velocity: bp.Velocity,
		Omega:    bp.Omega,
		XOsc:     bp.XOscillation,
		YOsc:     bp.YOscillation,
		Moving:   bp.Moving(),
	}
	switch strings.ToLower(bp.Type) {
	case "circle":
		if !(bp.Radius > 0) || bp.NumPoints < 3 {
			err = configError("circle body needs Radius > 0 and NumPoints >= 3")
			return
		}
		b.X0, b.Y0 = make([]float64, bp.NumPoints), make([]float64, bp.NumPoints)
		for k := range b.X0 {
			theta := 2 * math.Pi * float64(k) / float64(bp.NumPoints)
			b.X0[k] = bp.Center[0] + bp.Radius*math.Cos(theta)
			b.Y0[k] = bp.Center[1] + bp.Radius*math.Sin(theta)
		}
	case "points":
		if b.X0, b.Y0, err = readfiles.ReadBodyPoints(bp.PointsFile); err != nil {
			err = configError("body %s: %v", bp.PointsFile, err)
			return
		}
	default:
		err = configError("unknown body type \"%s\"", bp.Type)
		return
	}
	N := len(b.X0)
	b.X, b.Y = make([]float64, N), make([]float64, N)
	b.U, b.V = make([]float64, N), make([]float64, N)
	b.Update(0)
	return
}

func (b *Body) NumPoints() int { return len(b.X0) }

func oscillation(op InputParameters.OscillationParameters, t float64) (d, dDt float64) {
	if op.Amplitude == 0 {
		return
	}
	w := 2 * math.Pi * op.Frequency
	d = op.Amplitude * math.Sin(w*t+op.Phase)
	dDt = op.Amplitude * w * math.Cos(w*t+op.Phase)
	return
}

// Update places the markers and sets their velocities at time t
func (b *Body) Update(t float64) {
	var (
		xo, uo   = oscillation(b.XOsc, t)
		yo, vo   = oscillation(b.YOsc, t)
		sin, cos = math.Sincos(b.Omega * t)
		dx       = b.Velocity[0]*t + xo
		dy       = b.Velocity[1]*t + yo
	)
	for k := range b.X0 {
		rx, ry := b.X0[k]-b.Center[0], b.Y0[k]-b.Center[1]
		rx, ry = cos*rx-sin*ry, sin*rx+cos*ry
		b.X[k] = b.Center[0] + dx + rx
		b.Y[k] = b.Center[1] + dy + ry
		b.U[k] = b.Velocity[0] + uo - b.Omega*ry
		b.V[k] = b.Velocity[1] + vo + b.Omega*rx
	}
}

// CheckSupport verifies every marker keeps its delta support inside the grid
func (b *Body) CheckSupport(g *Grid2D.Grid) (err error) {
	for k := range b.X {
		i, j := g.CellAt(b.X[k], b.Y[k])
		if !g.Contains(b.X[k], b.Y[k]) || i < 2 || j < 2 || i > g.Nx-3 || j > g.Ny-3 {
			err = configError("marker %d at (%g, %g) is within two cells of the domain boundary",
				b.Offset+k, b.X[k], b.Y[k])
			return
		}
	}
	return
}

// MeanSpacing is the average distance between consecutive markers
func (b *Body) MeanSpacing() (ds float64) {
	N := len(b.X)
	for k := 0; k < N; k++ {
		kk := (k + 1) % N
		ds += math.Hypot(b.X[kk]-b.X[k], b.Y[kk]-b.Y[k])
	}
	return ds / float64(N)
}

package NavierStokes2D

import (
	"math"

	"github.com/notargets/goibm/types"
)

// ForceRecord is the per step force output, per unit depth with unit density.
// ForceX and ForceY are the body forces when bodies are present and the wall
// forces otherwise, Force1 is the viscous x force on the walls.
type ForceRecord struct {
	Step           int
	Time           float64
	ForceX, ForceY float64
	Force1         float64
	Bodies         [][2]float64
	Valid          bool
	wallX, wallY   float64
}

func (fr *ForceRecord) flagNonFinite() {
	fr.Valid = true
	check := func(f *float64) {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = math.NaN()
			fr.Valid = false
		}
	}
	check(&fr.ForceX)
	check(&fr.ForceY)
	check(&fr.Force1)
	for n := range fr.Bodies {
		check(&fr.Bodies[n][0])
		check(&fr.Bodies[n][1])
	}
}

// wallForces integrates the stress the fluid exerts on the no-slip walls.
// Shear uses the one sided gradient to the first interior value half a cell
// away, pressure acts on the walls normal to each direction.
func wallForces(ns *NavierStokes) (fr ForceRecord) {
	var (
		g        = ns.Grid
		nx, ny   = g.Nx, g.Ny
		nu       = ns.Nu
		pScale   = 1. / ns.lastDtFraction()
		pressure = func(i, j int) float64 { return ns.Lambda[g.PIndex(i, j)] * pScale }
		shearX   float64
	)
	fr.Step, fr.Time = ns.Step, ns.Time
	wall := func(e types.Edge) (tangential, normal bool) {
		dir, _ := e.Normal()
		return ns.bcSpecs[e][1-dir].Type == types.BC_Dirichlet, ns.bcSpecs[e][dir].Type == types.BC_Dirichlet
	}
	for _, e := range []types.Edge{types.YMinus, types.YPlus} {
		tw, nw := wall(e)
		j := 0
		if e == types.YPlus {
			j = ny - 1
		}
		if tw {
			for i := 0; i < nx-1; i++ {
				uAdj := ns.Q[g.UIndex(i, j)] / g.Dy[j]
				shearX += nu * (uAdj - ns.bc[e][i]) / (0.5 * g.Dy[j]) * g.Hx(i)
			}
		}
		if nw {
			_, sign := e.Normal()
			for i := 0; i < nx; i++ {
				fr.wallY += sign * pressure(i, j) * g.Dx[i]
			}
		}
	}
	for _, e := range []types.Edge{types.XMinus, types.XPlus} {
		tw, nw := wall(e)
		i := 0
		if e == types.XPlus {
			i = nx - 1
		}
		if tw {
			for j := 0; j < ny-1; j++ {
				vAdj := ns.Q[g.VIndex(i, j)] / g.Dx[i]
				fr.wallY += nu * (vAdj - ns.bc[e][ny+j]) / (0.5 * g.Dx[i]) * g.Hy(j)
			}
		}
		if nw {
			_, sign := e.Normal()
			for j := 0; j < ny; j++ {
				fr.wallX += sign * pressure(i, j) * g.Dy[j]
			}
		}
	}
	fr.wallX += shearX
	fr.Force1 = shearX
	fr.flagNonFinite()
	return
}

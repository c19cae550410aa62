package NavierStokes2D

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/goibm/Grid2D"
	"github.com/notargets/goibm/utils"
)

// TairaColonius extends the domain solver with immersed bodies. The
// multipliers hold the pressure followed by the x and then the y forces of
// every marker, and the coupling operator is Q = [G, E^T].
type TairaColonius struct {
	NavierStokesSolver
}

func init() {
	variantAllocators[TAIRA_COLONIUS] = func() Variant { return &TairaColonius{} }
}

func (*TairaColonius) Type() SolverType { return TAIRA_COLONIUS }

func (*TairaColonius) NumLambda(ns *NavierStokes) int {
	return ns.Grid.NumP() + 2*ns.NumMarkers()
}

// RomaDelta is the three cell discrete delta function of Roma, Peskin and
// Berger, r is in units of the local grid spacing.
func RomaDelta(r float64) float64 {
	r = math.Abs(r)
	switch {
	case r <= 0.5:
		return (1 + math.Sqrt(1-3*r*r)) / 3
	case r <= 1.5:
		return (5 - 3*r - math.Sqrt(1-3*(1-r)*(1-r))) / 6
	}
	return 0
}

// addInterpolation adds E^T into d at column offset off. Row k of E
// interpolates fluxes on the u (x force rows) or v (y force rows) faces to
// marker k.
func addInterpolation(d utils.DOK, g *Grid2D.Grid, bodies []*Body, nb, off int) {
	for _, b := range bodies {
		for m := range b.X {
			var (
				k      = b.Offset + m
				xk, yk = b.X[m], b.Y[m]
				ic, jc = g.CellAt(xk, yk)
				hxk    = g.Dx[ic]
				hyk    = g.Dy[jc]
			)
			// u faces sit at (XU, Yc), v faces at (Xc, YV)
			eachFace(g.XU, g.Yc, xk, yk, hxk, hyk, func(i, j int) {
				f := g.UIndex(i, j)
				if e := interpolationWeight(g, f, xk, yk, hxk, hyk); e != 0 {
					d.Add(f, off+k, e)
				}
			})
			eachFace(g.Xc, g.YV, xk, yk, hxk, hyk, func(i, j int) {
				f := g.VIndex(i, j)
				if e := interpolationWeight(g, f, xk, yk, hxk, hyk); e != 0 {
					d.Add(f, off+nb+k, e)
				}
			})
		}
	}
}

// eachFace calls fn for every face of the (XF, YF) family within the delta
// support around (xk, yk)
func eachFace(XF, YF []float64, xk, yk, hxk, hyk float64, fn func(i, j int)) {
	i0 := sort.SearchFloat64s(XF, xk-1.5*hxk)
	j0 := sort.SearchFloat64s(YF, yk-1.5*hyk)
	for j := j0; j < len(YF) && YF[j] < yk+1.5*hyk; j++ {
		for i := i0; i < len(XF) && XF[i] < xk+1.5*hxk; i++ {
			fn(i, j)
		}
	}
}

func interpolationWeight(g *Grid2D.Grid, f int, xk, yk, hxk, hyk float64) float64 {
	x, y, hx, hy, hPerp := g.FaceGeometry(f)
	phi := RomaDelta((x-xk)/hxk) * RomaDelta((y-yk)/hyk)
	return phi * hx * hy / (hxk * hyk * hPerp)
}

func (*TairaColonius) BuildCoupling(ns *NavierStokes) (Q, QT *utils.CSR, err error) {
	var (
		g  = ns.Grid
		nb = ns.NumMarkers()
		d  = utils.NewDOK(g.NumQ(), g.NumP()+2*nb, "Q")
	)
	addGradient(d, g)
	addInterpolation(d, g, ns.Bodies, nb, g.NumP())
	Q = d.ToCSR()
	QT = Q.Transpose("QT")
	return
}

func (*TairaColonius) BuildBoundaryRHS(ns *NavierStokes, bc2 []float64) {
	var (
		numP = ns.Grid.NumP()
		nb   = ns.NumMarkers()
	)
	clear(bc2)
	addBoundaryFlux(ns, bc2)
	for _, b := range ns.Bodies {
		for m := range b.X {
			bc2[numP+b.Offset+m] = b.U[m]
			bc2[numP+nb+b.Offset+m] = b.V[m]
		}
	}
}

func (*TairaColonius) UpdateGeometry(ns *NavierStokes, t float64) (moved bool, err error) {
	for i, b := range ns.Bodies {
		if !b.Moving {
			continue
		}
		b.Update(t)
		moved = true
		if err = b.CheckSupport(ns.Grid); err != nil {
			return moved, fmt.Errorf("body %d at t = %g: %w", i, t, err)
		}
	}
	return
}

// CalculateForces sums the marker forces of each body. The multipliers carry
// the impulse over the last sub-step, so they are scaled by its share of Dt.
func (*TairaColonius) CalculateForces(ns *NavierStokes) (fr ForceRecord) {
	var (
		numP  = ns.Grid.NumP()
		nb    = ns.NumMarkers()
		scale = 1. / ns.lastDtFraction()
	)
	fr = wallForces(ns)
	fr.Bodies = make([][2]float64, len(ns.Bodies))
	for n, b := range ns.Bodies {
		for m := range b.X {
			fr.Bodies[n][0] += ns.Lambda[numP+b.Offset+m]
			fr.Bodies[n][1] += ns.Lambda[numP+nb+b.Offset+m]
		}
		fr.Bodies[n][0] *= scale
		fr.Bodies[n][1] *= scale
		fr.ForceX += fr.Bodies[n][0]
		fr.ForceY += fr.Bodies[n][1]
	}
	fr.flagNonFinite()
	return
}

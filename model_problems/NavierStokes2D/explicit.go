package NavierStokes2D

import (
	"github.com/notargets/goibm/Grid2D"
	"github.com/notargets/goibm/types"
	"github.com/notargets/goibm/utils"
)

// velocityField reads velocities off the flux vector, falling back to the
// boundary buffers outside the interior. u(i,j) is the u velocity at x =
// X[i+1], i from -1 to Nx-1, and v(i,j) the v velocity at y = Y[j+1], j from
// -1 to Ny-1.
type velocityField struct {
	g  *Grid2D.Grid
	q  []float64
	bc [4][]float64
}

func (vf velocityField) u(i, j int) float64 {
	g := vf.g
	switch i {
	case -1:
		return vf.bc[types.XMinus][j]
	case g.Nx - 1:
		return vf.bc[types.XPlus][j]
	}
	return vf.q[g.UIndex(i, j)] / g.Dy[j]
}

func (vf velocityField) v(i, j int) float64 {
	g := vf.g
	switch j {
	case -1:
		return vf.bc[types.YMinus][g.Nx-1+i]
	case g.Ny - 1:
		return vf.bc[types.YPlus][g.Nx-1+i]
	}
	return vf.q[g.VIndex(i, j)] / g.Dx[i]
}

// uCorner is u at the cell vertex (X[I], Y[J])
func (vf velocityField) uCorner(I, J int) float64 {
	g := vf.g
	switch J {
	case 0:
		return vf.bc[types.YMinus][I-1]
	case g.Ny:
		return vf.bc[types.YPlus][I-1]
	}
	dyS, dyN := g.Dy[J-1], g.Dy[J]
	return (vf.u(I-1, J-1)*dyN + vf.u(I-1, J)*dyS) / (dyS + dyN)
}

// vCorner is v at the cell vertex (X[I], Y[J])
func (vf velocityField) vCorner(I, J int) float64 {
	g := vf.g
	switch I {
	case 0:
		return vf.bc[types.XMinus][g.Ny+J-1]
	case g.Nx:
		return vf.bc[types.XPlus][g.Ny+J-1]
	}
	dxW, dxE := g.Dx[I-1], g.Dx[I]
	return (vf.v(I-1, J-1)*dxE + vf.v(I, J-1)*dxW) / (dxW + dxE)
}

func (vf velocityField) uvCorner(I, J int) float64 { return vf.uCorner(I, J) * vf.vCorner(I, J) }

// calculateConvection evaluates the conservative central difference form of
// -div(uu) on each face, in the same row scaling as M.
func calculateConvection(g *Grid2D.Grid, q []float64, bc [4][]float64, H []float64, NPar int) {
	var (
		vf   = velocityField{g: g, q: q, bc: bc}
		numU = g.NumU()
	)
	utils.ParallelFor(NPar, g.NumQ(), func(lo, hi int) {
		for f := lo; f < hi; f++ {
			if f < numU {
				i, j := g.UFace(f)
				var (
					uE = 0.5 * (vf.u(i, j) + vf.u(i+1, j))
					uW = 0.5 * (vf.u(i-1, j) + vf.u(i, j))
				)
				H[f] = -(uE*uE - uW*uW) - g.Hx(i)/g.Dy[j]*(vf.uvCorner(i+1, j+1)-vf.uvCorner(i+1, j))
			} else {
				i, j := g.VFace(f)
				var (
					vN = 0.5 * (vf.v(i, j) + vf.v(i, j+1))
					vS = 0.5 * (vf.v(i, j-1) + vf.v(i, j))
				)
				H[f] = -(vN*vN - vS*vS) - g.Hy(j)/g.Dx[i]*(vf.uvCorner(i+1, j+1)-vf.uvCorner(i, j+1))
			}
		}
	})
}

package NavierStokes2D

import (
	"github.com/notargets/goibm/Grid2D"
	"github.com/notargets/goibm/types"
	"github.com/notargets/goibm/utils"
)

// bcLink is the coefficient tying flux row Row to the boundary buffer value
// bc[Edge][Index]. The links of L are collected into bc1.
type bcLink struct {
	Row   int
	Edge  types.Edge
	Index int
	Coeff float64
}

// buildMass returns M and its inverse. Rows are the momentum balance scaled
// by the streamwise extent of the face control volume, so M = h/(hPerp dt).
func buildMass(g *Grid2D.Grid, dt float64) (M, Minv *utils.CSR) {
	var (
		numQ = g.NumQ()
		numU = g.NumU()
		m    = make([]float64, numQ)
		mi   = make([]float64, numQ)
	)
	for f := 0; f < numQ; f++ {
		_, _, hx, hy, hPerp := g.FaceGeometry(f)
		h := hx
		if f >= numU {
			h = hy
		}
		m[f] = h / (hPerp * dt)
		mi[f] = 1. / m[f]
	}
	return utils.NewDiagonal(m, "M"), utils.NewDiagonal(mi, "Minv")
}

// buildLaplacian assembles nu times the five point Laplacian acting on
// fluxes. Neighbours outside the domain become boundary links. Tangential
// neighbours across a wall are ghost values half a cell away.
func buildLaplacian(g *Grid2D.Grid, nu float64) (L *utils.CSR, links []bcLink) {
	var (
		nx, ny = g.Nx, g.Ny
		d      = utils.NewDOK(g.NumQ(), g.NumQ(), "L")
	)
	link := func(row int, e types.Edge, index int, coeff float64) {
		links = append(links, bcLink{Row: row, Edge: e, Index: index, Coeff: coeff})
	}
	half := func(a float64, b []float64, k int) float64 {
		if k < 0 || k >= len(b) {
			return 0.5 * a
		}
		return 0.5 * (a + b[k])
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx-1; i++ {
			var (
				f      = g.UIndex(i, j)
				hx, dy = g.Hx(i), g.Dy[j]
				cW, cE = nu / g.Dx[i], nu / g.Dx[i+1]
				cS     = nu * hx / (dy * half(dy, g.Dy, j-1))
				cN     = nu * hx / (dy * half(dy, g.Dy, j+1))
			)
			if i > 0 {
				d.Add(f, g.UIndex(i-1, j), cW/dy)
			} else {
				link(f, types.XMinus, j, cW)
			}
			if i < nx-2 {
				d.Add(f, g.UIndex(i+1, j), cE/dy)
			} else {
				link(f, types.XPlus, j, cE)
			}
			if j > 0 {
				d.Add(f, g.UIndex(i, j-1), cS/g.Dy[j-1])
			} else {
				link(f, types.YMinus, i, cS)
			}
			if j < ny-1 {
				d.Add(f, g.UIndex(i, j+1), cN/g.Dy[j+1])
			} else {
				link(f, types.YPlus, i, cN)
			}
			d.Add(f, f, -(cW+cE+cS+cN)/dy)
		}
	}
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx; i++ {
			var (
				f      = g.VIndex(i, j)
				hy, dx = g.Hy(j), g.Dx[i]
				cS, cN = nu / g.Dy[j], nu / g.Dy[j+1]
				cW     = nu * hy / (dx * half(dx, g.Dx, i-1))
				cE     = nu * hy / (dx * half(dx, g.Dx, i+1))
			)
			if j > 0 {
				d.Add(f, g.VIndex(i, j-1), cS/dx)
			} else {
				link(f, types.YMinus, nx-1+i, cS)
			}
			if j < ny-2 {
				d.Add(f, g.VIndex(i, j+1), cN/dx)
			} else {
				link(f, types.YPlus, nx-1+i, cN)
			}
			if i > 0 {
				d.Add(f, g.VIndex(i-1, j), cW/g.Dx[i-1])
			} else {
				link(f, types.XMinus, ny+j, cW)
			}
			if i < nx-1 {
				d.Add(f, g.VIndex(i+1, j), cE/g.Dx[i+1])
			} else {
				link(f, types.XPlus, ny+j, cE)
			}
			d.Add(f, f, -(cW+cE+cS+cN)/dx)
		}
	}
	L = d.ToCSR()
	return
}

// assembleBC1 sums the boundary links against the buffers in bc
func assembleBC1(bc1 []float64, links []bcLink, bc [4][]float64) {
	clear(bc1)
	for _, l := range links {
		bc1[l.Row] += l.Coeff * bc[l.Edge][l.Index]
	}
}

// addGradient adds the discrete gradient G, numQ x numP, into d: -1 on the
// cell left of (or below) a face and +1 on the cell right of (or above) it.
func addGradient(d utils.DOK, g *Grid2D.Grid) {
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx-1; i++ {
			f := g.UIndex(i, j)
			d.Add(f, g.PIndex(i, j), -1)
			d.Add(f, g.PIndex(i+1, j), 1)
		}
	}
	for j := 0; j < g.Ny-1; j++ {
		for i := 0; i < g.Nx; i++ {
			f := g.VIndex(i, j)
			d.Add(f, g.PIndex(i, j), -1)
			d.Add(f, g.PIndex(i, j+1), 1)
		}
	}
}

// buildImplicitOperator returns A = M - alpha L
func buildImplicitOperator(M, L *utils.CSR, alpha float64) (A *utils.CSR, err error) {
	return utils.LinearCombination("A", utils.Term{Coeff: 1, Op: M}, utils.Term{Coeff: -alpha, Op: L})
}

// buildApproximateInverse returns the order n truncated Neumann series
//
//	BN = sum_{k=0}^{n-1} (alpha Minv L)^k Minv
func buildApproximateInverse(Minv, L *utils.CSR, alpha float64, n int) (BN *utils.CSR, err error) {
	if n < 1 {
		err = configError("approximate inverse order must be at least 1, have %d", n)
		return
	}
	BN, err = utils.LinearCombination("BN", utils.Term{Coeff: 1, Op: Minv})
	if err != nil || n == 1 || alpha == 0 {
		return
	}
	var T, term *utils.CSR
	if T, err = Minv.Mul(L, "MinvL"); err != nil {
		return
	}
	if T, err = utils.LinearCombination("T", utils.Term{Coeff: alpha, Op: T}); err != nil {
		return
	}
	term = Minv
	for k := 1; k < n; k++ {
		if term, err = T.Mul(term, "T^kMinv"); err != nil {
			return
		}
		if BN, err = utils.LinearCombination("BN", utils.Term{Coeff: 1, Op: BN}, utils.Term{Coeff: 1, Op: term}); err != nil {
			return
		}
	}
	return
}

// buildPoissonOperator returns C = QT BN Q with the nullspace of the
// pressure removed by doubling the diagonal of the first pressure row.
func buildPoissonOperator(QT, BN, Q *utils.CSR) (C *utils.CSR, err error) {
	var BNQ *utils.CSR
	if BNQ, err = BN.Mul(Q, "BNQ"); err != nil {
		return nil, dimensionError("%v", err)
	}
	if C, err = QT.Mul(BNQ, "QTBNQ"); err != nil {
		return nil, dimensionError("%v", err)
	}
	nr, _ := C.Dims()
	pin := make([]float64, nr)
	pin[0] = C.At(0, 0)
	return utils.LinearCombination("C", utils.Term{Coeff: 1, Op: C}, utils.Term{Coeff: 1, Op: utils.NewDiagonal(pin, "pin")})
}

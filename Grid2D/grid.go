package Grid2D

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/goibm/InputParameters"
	"github.com/notargets/goibm/utils"
)

var ErrInvalidGrid = errors.New("invalid grid")

// Grid is a rectangular, possibly stretched, staggered grid. Pressure lives
// at cell centers, u on the vertical faces and v on the horizontal faces.
// Only interior faces carry unknowns; boundary faces are held by the
// boundary buffers.
type Grid struct {
	Nx, Ny int
	X, Y   []float64 // Cell vertex coordinates, Nx+1 and Ny+1 entries
	Dx, Dy []float64 // Cell widths
	Xc, Yc []float64 // Cell center coordinates
	// Coordinates of the u and v unknowns, used for marker searches
	XU, YV []float64
}

// NewGrid builds the grid from the axis segment descriptions
func NewGrid(dp InputParameters.DomainParameters) (g *Grid, err error) {
	g = &Grid{}
	if g.X, err = buildAxis("X", dp.X); err != nil {
		return nil, err
	}
	if g.Y, err = buildAxis("Y", dp.Y); err != nil {
		return nil, err
	}
	g.finish()
	return
}

// NewUniformGrid returns an nx by ny grid of equal cells over [x0,x1]x[y0,y1]
func NewUniformGrid(nx, ny int, x0, x1, y0, y1 float64) (g *Grid, err error) {
	return NewGrid(InputParameters.DomainParameters{
		X: InputParameters.AxisParameters{Start: x0,
			Segments: []InputParameters.SegmentParameters{{End: x1, NumCells: nx, StretchRatio: 1}}},
		Y: InputParameters.AxisParameters{Start: y0,
			Segments: []InputParameters.SegmentParameters{{End: y1, NumCells: ny, StretchRatio: 1}}},
	})
}

func buildAxis(name string, ap InputParameters.AxisParameters) (X []float64, err error) {
	if len(ap.Segments) == 0 {
		err = fmt.Errorf("%w: axis %s has no segments", ErrInvalidGrid, name)
		return
	}
	X = append(X, ap.Start)
	start := ap.Start
	for s, seg := range ap.Segments {
		var (
			L = seg.End - start
			r = seg.StretchRatio
			n = seg.NumCells
		)
		if r == 0 {
			r = 1
		}
		if n < 1 || !(L > 0) || !(r > 0) || math.IsInf(L, 0) {
			err = fmt.Errorf("%w: axis %s segment %d needs NumCells >= 1, End > %g and StretchRatio > 0",
				ErrInvalidGrid, name, s, start)
			return
		}
		h := L / float64(n)
		if math.Abs(r-1) > utils.NODETOL {
			h = L * (r - 1) / (utils.POW(r, n) - 1)
		}
		for i := 1; i < n; i++ {
			X = append(X, X[len(X)-1]+h)
			h *= r
		}
		// Land the segment end exactly
		X = append(X, seg.End)
		start = seg.End
	}
	if len(X) < 3 {
		err = fmt.Errorf("%w: axis %s needs at least 2 cells", ErrInvalidGrid, name)
	}
	return
}

func (g *Grid) finish() {
	g.Nx, g.Ny = len(g.X)-1, len(g.Y)-1
	g.Dx, g.Xc = widths(g.X)
	g.Dy, g.Yc = widths(g.Y)
	g.XU = g.X[1:g.Nx]
	g.YV = g.Y[1:g.Ny]
}

func widths(X []float64) (dx, xc []float64) {
	n := len(X) - 1
	dx, xc = make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		dx[i] = X[i+1] - X[i]
		xc[i] = 0.5 * (X[i+1] + X[i])
	}
	return
}

func (g *Grid) NumU() int { return (g.Nx - 1) * g.Ny }
func (g *Grid) NumV() int { return g.Nx * (g.Ny - 1) }
func (g *Grid) NumQ() int { return g.NumU() + g.NumV() }
func (g *Grid) NumP() int { return g.Nx * g.Ny }

// UIndex is the flux index of the u face at the right side of cell (i,j),
// 0 <= i < Nx-1
func (g *Grid) UIndex(i, j int) int { return i + j*(g.Nx-1) }

// VIndex is the flux index of the v face at the top of cell (i,j),
// 0 <= j < Ny-1
func (g *Grid) VIndex(i, j int) int { return g.NumU() + i + j*g.Nx }

func (g *Grid) PIndex(i, j int) int { return i + j*g.Nx }

// UFace inverts UIndex
func (g *Grid) UFace(f int) (i, j int) { return f % (g.Nx - 1), f / (g.Nx - 1) }

// VFace inverts VIndex
func (g *Grid) VFace(f int) (i, j int) {
	f -= g.NumU()
	return f % g.Nx, f / g.Nx
}

// Hx is the x extent of the control volume around u face i
func (g *Grid) Hx(i int) float64 { return 0.5 * (g.Dx[i] + g.Dx[i+1]) }

// Hy is the y extent of the control volume around v face j
func (g *Grid) Hy(j int) float64 { return 0.5 * (g.Dy[j] + g.Dy[j+1]) }

// FaceGeometry returns the position of flux unknown f, the extents of its
// control volume and the face length used to convert flux to velocity.
func (g *Grid) FaceGeometry(f int) (x, y, hx, hy, hPerp float64) {
	if f < g.NumU() {
		i, j := g.UFace(f)
		return g.X[i+1], g.Yc[j], g.Hx(i), g.Dy[j], g.Dy[j]
	}
	i, j := g.VFace(f)
	return g.Xc[i], g.Y[j+1], g.Dx[i], g.Hy(j), g.Dx[i]
}

// CellAt returns the cell containing (x,y), clamped to the grid
func (g *Grid) CellAt(x, y float64) (i, j int) {
	return locate(g.X, x), locate(g.Y, y)
}

func locate(X []float64, x float64) (i int) {
	lo, hi := 0, len(X)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if X[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Contains reports whether (x,y) lies strictly inside the domain
func (g *Grid) Contains(x, y float64) bool {
	return x > g.X[0] && x < g.X[g.Nx] && y > g.Y[0] && y < g.Y[g.Ny]
}

func (g *Grid) Print() {
	minMax := func(d []float64) (mn, mx float64) {
		mn, mx = math.Inf(1), math.Inf(-1)
		for _, v := range d {
			mn, mx = math.Min(mn, v), math.Max(mx, v)
		}
		return
	}
	dxMin, dxMax := minMax(g.Dx)
	dyMin, dyMax := minMax(g.Dy)
	fmt.Printf("[%d x %d]\t\t= Cells\n", g.Nx, g.Ny)
	fmt.Printf("[%g, %g] x [%g, %g]\t= Domain\n", g.X[0], g.X[g.Nx], g.Y[0], g.Y[g.Ny])
	fmt.Printf("[%8.5g, %8.5g]\t= Min/Max Dx\n", dxMin, dxMax)
	fmt.Printf("[%8.5g, %8.5g]\t= Min/Max Dy\n", dyMin, dyMax)
	fmt.Printf("[%d, %d, %d]\t= NumU, NumV, NumP\n", g.NumU(), g.NumV(), g.NumP())
}

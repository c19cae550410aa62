package NavierStokes2D

import (
	"math"

	"github.com/notargets/goibm/InputParameters"
	"github.com/notargets/goibm/types"
)

type boundarySpec struct {
	Type                              types.BCFLAG
	Value, Amplitude, Frequency, Phase float64
}

func newBoundarySpec(bp InputParameters.BCParameters) (bs boundarySpec, err error) {
	if bs.Type, err = types.NewBCFLAG(bp.Type); err != nil {
		err = configError("%v", err)
		return
	}
	bs.Value, bs.Amplitude, bs.Frequency, bs.Phase = bp.Value, bp.Amplitude, bp.Frequency, bp.Phase
	return
}

func (bs boundarySpec) valueAt(t float64) float64 {
	if bs.Amplitude == 0 {
		return bs.Value
	}
	return bs.Value + bs.Amplitude*math.Sin(2*math.Pi*bs.Frequency*t+bs.Phase)
}

// boundarySlot describes one entry of an edge buffer: the velocity component
// it holds, whether it is normal to the edge, the interior flux it extrapolates
// from and the distance to it.
type boundarySlot struct {
	Comp     types.Component
	Normal   bool
	Interior int
	Dn       float64
	Length   float64 // Edge length carried by a normal slot
}

// buildBoundarySlots lays out the edge buffers. X edges hold Ny normal u
// values and Ny-1 tangential v values, Y edges Nx-1 tangential u values and
// Nx normal v values.
func (ns *NavierStokes) buildBoundarySlots() {
	var (
		g      = ns.Grid
		nx, ny = g.Nx, g.Ny
	)
	for _, e := range types.Edges {
		var slots []boundarySlot
		switch e {
		case types.XMinus, types.XPlus:
			i, iv, dx := 0, 0, g.Dx[0]
			if e == types.XPlus {
				i, iv, dx = nx-2, nx-1, g.Dx[nx-1]
			}
			for j := 0; j < ny; j++ {
				slots = append(slots, boundarySlot{Comp: types.U, Normal: true,
					Interior: g.UIndex(i, j), Dn: dx, Length: g.Dy[j]})
			}
			for j := 0; j < ny-1; j++ {
				slots = append(slots, boundarySlot{Comp: types.V,
					Interior: g.VIndex(iv, j), Dn: 0.5 * dx})
			}
		case types.YMinus, types.YPlus:
			j, jv, dy := 0, 0, g.Dy[0]
			if e == types.YPlus {
				j, jv, dy = ny-1, ny-2, g.Dy[ny-1]
			}
			for i := 0; i < nx-1; i++ {
				slots = append(slots, boundarySlot{Comp: types.U,
					Interior: g.UIndex(i, j), Dn: 0.5 * dy})
			}
			for i := 0; i < nx; i++ {
				slots = append(slots, boundarySlot{Comp: types.V, Normal: true,
					Interior: g.VIndex(i, jv), Dn: dy, Length: g.Dx[i]})
			}
		}
		ns.slots[e] = slots
		ns.bc[e] = make([]float64, len(slots))
		ns.bcPrev[e] = make([]float64, len(slots))
	}
}

func (ns *NavierStokes) interiorVelocity(f int) float64 {
	_, _, _, _, hPerp := ns.Grid.FaceGeometry(f)
	return ns.Q[f] / hPerp
}

// initializeBoundaries sets bcPrev to time t0 and bc to the first target
// time t1 = t0 + dt1
func (ns *NavierStokes) initializeBoundaries(t0, dt1 float64) {
	for _, e := range types.Edges {
		for s, slot := range ns.slots[e] {
			spec := ns.bcSpecs[e][slot.Comp]
			if spec.Type == types.BC_Dirichlet {
				ns.bc[e][s] = spec.valueAt(t0)
			} else {
				ns.bc[e][s] = ns.interiorVelocity(slot.Interior)
			}
		}
	}
	ns.correctOutflow()
	ns.advanceBoundaries(t0+dt1, dt1)
}

// advanceBoundaries shifts bc into bcPrev and moves bc to time t. Convective
// edges are advected with du/dt + Uc du/dn = 0 over dt, Neumann edges copy
// the interior value.
func (ns *NavierStokes) advanceBoundaries(t, dt float64) {
	for _, e := range types.Edges {
		copy(ns.bcPrev[e], ns.bc[e])
	}
	for _, e := range types.Edges {
		var (
			buf   = ns.bc[e]
			uConv = ns.convectionSpeed(e)
		)
		for s, slot := range ns.slots[e] {
			spec := ns.bcSpecs[e][slot.Comp]
			switch spec.Type {
			case types.BC_Dirichlet:
				buf[s] = spec.valueAt(t)
			case types.BC_Neumann:
				buf[s] = ns.interiorVelocity(slot.Interior)
			case types.BC_Convective:
				uc := uConv
				if spec.Value != 0 {
					uc = spec.Value
				}
				uc = math.Max(0, uc)
				buf[s] -= uc * dt / slot.Dn * (buf[s] - ns.interiorVelocity(slot.Interior))
			}
		}
	}
	ns.correctOutflow()
}

// convectionSpeed is the mean outward normal velocity through edge e
func (ns *NavierStokes) convectionSpeed(e types.Edge) (uc float64) {
	var length float64
	for s, slot := range ns.slots[e] {
		if slot.Normal {
			uc += ns.bc[e][s] * slot.Length
			length += slot.Length
		}
	}
	_, sign := e.Normal()
	return sign * uc / length
}

// correctOutflow shifts the normal velocity on the Neumann and convective
// edges so the net flux through the boundary is zero and the pressure
// system stays solvable.
func (ns *NavierStokes) correctOutflow() {
	var (
		net, openLength float64
	)
	for _, e := range types.Edges {
		_, sign := e.Normal()
		open := ns.openEdge(e)
		for s, slot := range ns.slots[e] {
			if !slot.Normal {
				continue
			}
			net += sign * ns.bc[e][s] * slot.Length
			if open {
				openLength += slot.Length
			}
		}
	}
	if openLength == 0 || net == 0 {
		return
	}
	delta := -net / openLength
	for _, e := range types.Edges {
		if !ns.openEdge(e) {
			continue
		}
		_, sign := e.Normal()
		for s, slot := range ns.slots[e] {
			if slot.Normal {
				ns.bc[e][s] += sign * delta
			}
		}
	}
}

func (ns *NavierStokes) openEdge(e types.Edge) bool {
	dir, _ := e.Normal()
	normal := types.Component(dir)
	return ns.bcSpecs[e][normal].Type != types.BC_Dirichlet
}

// addBoundaryFlux adds the outward boundary flux of each edge cell into the
// pressure rows of bc2
func addBoundaryFlux(ns *NavierStokes, bc2 []float64) {
	g := ns.Grid
	for _, e := range types.Edges {
		_, sign := e.Normal()
		for s, slot := range ns.slots[e] {
			if !slot.Normal {
				continue
			}
			var cell int
			switch e {
			case types.XMinus:
				cell = g.PIndex(0, s)
			case types.XPlus:
				cell = g.PIndex(g.Nx-1, s)
			case types.YMinus:
				cell = g.PIndex(s-(g.Nx-1), 0)
			case types.YPlus:
				cell = g.PIndex(s-(g.Nx-1), g.Ny-1)
			}
			bc2[cell] += sign * ns.bc[e][s] * slot.Length
		}
	}
}

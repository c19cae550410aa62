package types

import (
	"fmt"
	"strings"
)

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Dirichlet
	BC_Neumann
	BC_Convective
)

var BCNameMap = map[string]BCFLAG{
	"dirichlet":  BC_Dirichlet,
	"wall":       BC_Dirichlet,
	"inflow":     BC_Dirichlet,
	"neumann":    BC_Neumann,
	"neuman":     BC_Neumann,
	"convective": BC_Convective,
	"outflow":    BC_Convective,
}

func (bc BCFLAG) String() string {
	switch bc {
	case BC_Dirichlet:
		return "DIRICHLET"
	case BC_Neumann:
		return "NEUMANN"
	case BC_Convective:
		return "CONVECTIVE"
	}
	return "NONE"
}

func NewBCFLAG(label string) (bc BCFLAG, err error) {
	var ok bool
	if bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown boundary condition type \"%s\"", label)
	}
	return
}

// Edge identifies one side of the rectangular domain. The order is the
// storage order of the per-edge boundary buffers.
type Edge uint8

const (
	XMinus Edge = iota
	XPlus
	YMinus
	YPlus
)

var Edges = [4]Edge{XMinus, XPlus, YMinus, YPlus}

func (e Edge) String() string {
	return [4]string{"XMinus", "XPlus", "YMinus", "YPlus"}[e]
}

// Normal returns the direction of the outward normal: 0 for x, 1 for y, and
// its sign.
func (e Edge) Normal() (dir int, sign float64) {
	switch e {
	case XMinus:
		return 0, -1
	case XPlus:
		return 0, 1
	case YMinus:
		return 1, -1
	}
	return 1, 1
}

// Component is a velocity component
type Component uint8

const (
	U Component = iota
	V
)

func (c Component) String() string {
	if c == U {
		return "U"
	}
	return "V"
}

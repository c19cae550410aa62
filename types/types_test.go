package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Boundary condition names are case insensitive
		bc, err := NewBCFLAG(" Convective")
		assert.NoError(t, err)
		assert.Equal(t, BC_Convective, bc)
		bc, err = NewBCFLAG("DIRICHLET")
		assert.NoError(t, err)
		assert.Equal(t, "DIRICHLET", bc.String())
		_, err = NewBCFLAG("periodic")
		assert.Error(t, err)
	}
	{ // Outward normals
		dir, sign := XMinus.Normal()
		assert.Equal(t, 0, dir)
		assert.Equal(t, -1., sign)
		dir, sign = YPlus.Normal()
		assert.Equal(t, 1, dir)
		assert.Equal(t, 1., sign)
		assert.Equal(t, "YMinus", YMinus.String())
	}
}

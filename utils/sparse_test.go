package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// laplace1D returns the N x N second difference matrix with Dirichlet ends
func laplace1D(N int) *CSR {
	d := NewDOK(N, N, "L1D")
	for i := 0; i < N; i++ {
		d.Add(i, i, 2)
		if i > 0 {
			d.Add(i, i-1, -1)
		}
		if i < N-1 {
			d.Add(i, i+1, -1)
		}
	}
	return d.ToCSR()
}

func TestCSRAssembly(t *testing.T) {
	{ // Accumulation and canonical row order
		d := NewDOK(3, 4, "A")
		d.Add(0, 3, 1)
		d.Add(0, 1, 2)
		d.Add(0, 1, 3)
		d.Add(2, 0, -1)
		d.Add(1, 2, 0) // zeros are not stored
		A := d.ToCSR()
		nr, nc := A.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 4, nc)
		assert.Equal(t, 3, A.NNZ())
		cols, vals := A.Row(0)
		assert.Equal(t, []int{1, 3}, cols)
		assert.Equal(t, []float64{5, 1}, vals)
		assert.Equal(t, 0., A.At(1, 2))
		assert.Equal(t, -1., A.At(2, 0))
	}
	{ // Transpose
		d := NewDOK(2, 3, "B")
		d.Set(0, 0, 1)
		d.Set(0, 2, 2)
		d.Set(1, 1, 3)
		B := d.ToCSR()
		BT := B.Transpose("BT")
		nr, nc := BT.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 2, nc)
		assert.Equal(t, 2., BT.At(2, 0))
		assert.Equal(t, 3., BT.At(1, 1))
		assert.True(t, mat.Equal(B.ToDense().T(), BT.ToDense()))
	}
}

func TestCSRArithmetic(t *testing.T) {
	L := laplace1D(5)
	{ // Product agrees with the dense product
		LL, err := L.Mul(L, "LL")
		require.NoError(t, err)
		var D mat.Dense
		D.Mul(L.ToDense(), L.ToDense())
		assert.True(t, mat.EqualApprox(&D, LL.ToDense(), 1.e-14))
		assert.Equal(t, 0., LL.MaxAsymmetry())
	}
	{ // Shape errors are returned, not panicked
		_, err := L.Mul(NewIdentity(4, "I4"), "bad")
		assert.Error(t, err)
		_, err = LinearCombination("bad", Term{1, L}, Term{1, NewIdentity(4, "I4")})
		assert.Error(t, err)
	}
	{ // Linear combination
		I := NewIdentity(5, "I")
		A, err := LinearCombination("A", Term{2, I}, Term{-0.5, L})
		require.NoError(t, err)
		assert.Equal(t, 1., A.At(0, 0))
		assert.Equal(t, 0.5, A.At(0, 1))
		assert.Equal(t, []float64{1, 1, 1, 1, 1}, A.Diagonal())
	}
	{ // Serial and partitioned matrix vector products agree
		N := 3*minParallelWork + 11
		big := laplace1D(N)
		x := make([]float64, N)
		for i := range x {
			x[i] = float64(i % 7)
		}
		y1, y4 := make([]float64, N), make([]float64, N)
		big.MulVec(y1, x)
		big.NPar = 4
		big.MulVec(y4, x)
		assert.Equal(t, y1, y4)
		assert.Equal(t, 2*x[0]-x[1], y1[0])
	}
}

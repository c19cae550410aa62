package Grid2D

import (
	"errors"
	"testing"

	"github.com/notargets/goibm/InputParameters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestUniformGrid(t *testing.T) {
	g, err := NewUniformGrid(4, 3, 0, 2, -1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Nx)
	assert.Equal(t, 3, g.Ny)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 1.5, 2}, g.X, 1.e-14)
	assert.InDeltaSlice(t, []float64{-0.5, 0.5, 1.5}, g.Yc, 1.e-14)
	assert.Equal(t, 9, g.NumU())
	assert.Equal(t, 8, g.NumV())
	assert.Equal(t, 17, g.NumQ())
	assert.Equal(t, 12, g.NumP())
	{ // Index round trips
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx-1; i++ {
				ii, jj := g.UFace(g.UIndex(i, j))
				assert.Equal(t, [2]int{i, j}, [2]int{ii, jj})
			}
		}
		for j := 0; j < g.Ny-1; j++ {
			for i := 0; i < g.Nx; i++ {
				ii, jj := g.VFace(g.VIndex(i, j))
				assert.Equal(t, [2]int{i, j}, [2]int{ii, jj})
			}
		}
	}
	{
		x, y, hx, hy, hp := g.FaceGeometry(g.UIndex(1, 2))
		assert.Equal(t, []float64{1, 1.5, 0.5, 1, 1}, []float64{x, y, hx, hy, hp})
		x, y, hx, hy, hp = g.FaceGeometry(g.VIndex(3, 0))
		assert.Equal(t, []float64{1.75, 0, 0.5, 1, 0.5}, []float64{x, y, hx, hy, hp})
	}
	i, j := g.CellAt(1.2, 0.1)
	assert.Equal(t, [2]int{2, 1}, [2]int{i, j})
	i, j = g.CellAt(5, -5)
	assert.Equal(t, [2]int{3, 0}, [2]int{i, j})
	assert.False(t, g.Contains(2, 0))
	g.Print()
}

func TestStretchedGrid(t *testing.T) {
	g, err := NewGrid(InputParameters.DomainParameters{
		X: InputParameters.AxisParameters{Start: -2, Segments: []InputParameters.SegmentParameters{
			{End: -0.5, NumCells: 10, StretchRatio: 1 / 1.1},
			{End: 0.5, NumCells: 20, StretchRatio: 1},
			{End: 4, NumCells: 15, StretchRatio: 1.1},
		}},
		Y: InputParameters.AxisParameters{Start: 0, Segments: []InputParameters.SegmentParameters{
			{End: 1, NumCells: 8},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 45, g.Nx)
	assert.Equal(t, 4., g.X[45])
	assert.InDelta(t, 6., floats.Sum(g.Dx), 1.e-12)
	// Geometric growth within the last segment
	assert.InDelta(t, 1.1, g.Dx[40]/g.Dx[39], 1.e-10)
	// The inner segment is uniform
	assert.InDelta(t, 0.05, g.Dx[20], 1.e-12)
	assert.InDelta(t, 0.125, g.Dy[3], 1.e-14)

	_, err = NewGrid(InputParameters.DomainParameters{
		X: InputParameters.AxisParameters{Start: 1, Segments: []InputParameters.SegmentParameters{{End: 0, NumCells: 4}}},
		Y: InputParameters.AxisParameters{Start: 0, Segments: []InputParameters.SegmentParameters{{End: 1, NumCells: 4}}},
	})
	assert.True(t, errors.Is(err, ErrInvalidGrid))
}

package writefiles

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	{
		fl, err := NewForceLog(filepath.Join(dir, "forces.dat"), 2)
		require.NoError(t, err)
		require.NoError(t, fl.Write(ForceRow{Step: 1, Time: 0.5, ForceX: 1, ForceY: -1, Force1: 0.25,
			Bodies: [][2]float64{{1, 2}}}))
		require.NoError(t, fl.Write(ForceRow{Step: 2, Time: 1, ForceX: math.NaN()}))
		require.NoError(t, fl.Close())
		data, err := os.ReadFile(filepath.Join(dir, "forces.dat"))
		require.NoError(t, err)
		assert.Equal(t,
			"# step time forceX forceY force1 body0_x body0_y body1_x body1_y\n"+
				"1 5.0000000000e-01 1.0000000000e+00 -1.0000000000e+00 2.5000000000e-01"+
				" 1.0000000000e+00 2.0000000000e+00 0.0000000000e+00 0.0000000000e+00\n"+
				"2 1.0000000000e+00 NaN 0.0000000000e+00 0.0000000000e+00"+
				" 0.0000000000e+00 0.0000000000e+00 0.0000000000e+00 0.0000000000e+00\n",
			string(data))
	}
	{
		il, err := NewIterationLog(filepath.Join(dir, "iterations.dat"))
		require.NoError(t, err)
		require.NoError(t, il.Write(IterationRow{Step: 3, SubStep: 1, IterationCount1: 12,
			IterationCount2: 40, Converged1: true}))
		require.NoError(t, il.Close())
		data, err := os.ReadFile(filepath.Join(dir, "iterations.dat"))
		require.NoError(t, err)
		assert.Equal(t,
			"# step subStep iterationCount1 iterationCount2 converged1 converged2 breakdown\n"+
				"3 1 12 40 1 0 0\n", string(data))
	}
}

package readfiles

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goibm/writefiles"
)

func TestReadBodyPoints(t *testing.T) {
	{
		X, Y, err := readBodyPoints(bufio.NewReader(strings.NewReader(
			"# flat plate\n3\n0.0 0.0\n0.5 0.25\n\n1.0 -1e-1")))
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.5, 1}, X)
		assert.Equal(t, []float64{0, 0.25, -0.1}, Y)
	}
	{
		_, _, err := readBodyPoints(bufio.NewReader(strings.NewReader("4\n0 0\n1 1\n")))
		assert.ErrorContains(t, err, "point 3 of 4")
		_, _, err = readBodyPoints(bufio.NewReader(strings.NewReader("2\n0 zero\n1 1\n")))
		assert.Error(t, err)
	}
	{
		path := filepath.Join(t.TempDir(), "body.txt")
		require.NoError(t, os.WriteFile(path, []byte("2\n1 2\n3 4\n"), 0o644))
		X, Y, err := ReadBodyPoints(path)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 3}, X)
		assert.Equal(t, []float64{2, 4}, Y)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	var (
		dir  = t.TempDir()
		snap = writefiles.Snapshot{
			Meta: writefiles.SnapshotMeta{RunID: "run", Solver: "NAVIER_STOKES", Step: 40,
				Time: 0.4, Nx: 2, Ny: 2, NumQ: 3, NumLambda: 2, NumHistory: 3},
			Q:       []float64{1.5, -2.25, 3.e-12},
			Lambda:  []float64{0.125, 7},
			History: []float64{-0.5, 1.e-300, 9},
		}
	)
	sw, err := writefiles.NewSnapshotWriter(dir)
	require.NoError(t, err)
	path, err := sw.Write(snap)
	require.NoError(t, err)
	assert.Equal(t, writefiles.SnapshotDir(dir, 40), path)

	s2, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(snap, s2))

	{ // Without history no history file is written or read
		noHistory := snap
		noHistory.Meta.Step, noHistory.Meta.NumHistory, noHistory.History = 41, 0, nil
		path, err := sw.Write(noHistory)
		require.NoError(t, err)
		assert.NoFileExists(t, filepath.Join(path, writefiles.HistoryFile))
		s3, err := ReadSnapshot(path)
		require.NoError(t, err)
		assert.Nil(t, s3.History)
		assert.Equal(t, snap.Q, s3.Q)
	}

	bad := snap
	bad.Q = snap.Q[:2]
	_, err = sw.Write(bad)
	assert.Error(t, err)
	bad = snap
	bad.History = nil
	_, err = sw.Write(bad)
	assert.Error(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(path, writefiles.MetaFile), []byte("NumQ: 4\nNumLambda: 2\n"), 0o644))
	_, err = ReadSnapshot(path)
	assert.Error(t, err)
}

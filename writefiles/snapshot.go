package writefiles

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
)

// SnapshotMeta describes a saved solution, stored next to the binary arrays
type SnapshotMeta struct {
	RunID     string  `json:"RunID"`
	Solver    string  `json:"Solver"`
	Step      int     `json:"Step"`
	Time      float64 `json:"Time"`
	Nx        int     `json:"Nx"`
	Ny        int     `json:"Ny"`
	NumQ      int     `json:"NumQ"`
	NumLambda int     `json:"NumLambda"`

	// Length of the explicit term history, zero when the run has none yet
	NumHistory int `json:"NumHistory"`
}

// Snapshot is everything a run needs to continue from the end of a step
type Snapshot struct {
	Meta      SnapshotMeta
	Q, Lambda []float64
	History   []float64 // Explicit term of the last sub-step, for multistep schemes
}

const (
	MetaFile    = "meta.yaml"
	QFile       = "q.bin"
	LambdaFile  = "lambda.bin"
	HistoryFile = "history.bin"
)

// SnapshotWriter saves q, lambda and the explicit term history under
// Dir/<step>/ as little endian float64 arrays
type SnapshotWriter struct {
	Dir string
}

func NewSnapshotWriter(dir string) (sw *SnapshotWriter, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	return &SnapshotWriter{Dir: dir}, nil
}

func SnapshotDir(dir string, step int) string {
	return filepath.Join(dir, fmt.Sprintf("%07d", step))
}

func (sw *SnapshotWriter) Write(s Snapshot) (path string, err error) {
	meta := s.Meta
	if len(s.Q) != meta.NumQ || len(s.Lambda) != meta.NumLambda || len(s.History) != meta.NumHistory {
		err = fmt.Errorf("snapshot sizes %d, %d and %d do not match metadata %d, %d and %d",
			len(s.Q), len(s.Lambda), len(s.History), meta.NumQ, meta.NumLambda, meta.NumHistory)
		return
	}
	path = SnapshotDir(sw.Dir, meta.Step)
	if err = os.MkdirAll(path, 0o755); err != nil {
		return
	}
	if err = writeFloats(filepath.Join(path, QFile), s.Q); err != nil {
		return
	}
	if err = writeFloats(filepath.Join(path, LambdaFile), s.Lambda); err != nil {
		return
	}
	if meta.NumHistory > 0 {
		if err = writeFloats(filepath.Join(path, HistoryFile), s.History); err != nil {
			return
		}
	}
	var data []byte
	if data, err = yaml.Marshal(meta); err != nil {
		return
	}
	err = os.WriteFile(filepath.Join(path, MetaFile), data, 0o644)
	return
}

func writeFloats(path string, data []float64) (err error) {
	var file *os.File
	if file, err = os.Create(path); err != nil {
		return
	}
	w := bufio.NewWriter(file)
	if err = binary.Write(w, binary.LittleEndian, data); err == nil {
		err = w.Flush()
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return
}

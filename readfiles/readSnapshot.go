package readfiles

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"

	"github.com/notargets/goibm/writefiles"
)

// ReadSnapshot loads a solution saved by writefiles.SnapshotWriter from the
// snapshot directory dir
func ReadSnapshot(dir string) (s writefiles.Snapshot, err error) {
	var data []byte
	if data, err = os.ReadFile(filepath.Join(dir, writefiles.MetaFile)); err != nil {
		return
	}
	if err = yaml.Unmarshal(data, &s.Meta); err != nil {
		err = fmt.Errorf("snapshot metadata in %s: %w", dir, err)
		return
	}
	if s.Q, err = readFloats(filepath.Join(dir, writefiles.QFile), s.Meta.NumQ); err != nil {
		return
	}
	if s.Lambda, err = readFloats(filepath.Join(dir, writefiles.LambdaFile), s.Meta.NumLambda); err != nil {
		return
	}
	if s.Meta.NumHistory > 0 {
		s.History, err = readFloats(filepath.Join(dir, writefiles.HistoryFile), s.Meta.NumHistory)
	}
	return
}

func readFloats(path string, N int) (data []float64, err error) {
	var (
		file *os.File
		info os.FileInfo
	)
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if info, err = file.Stat(); err != nil {
		return
	}
	if info.Size() != int64(8*N) {
		err = fmt.Errorf("%s holds %d bytes, expected %d float64 values", path, info.Size(), N)
		return
	}
	data = make([]float64, N)
	err = binary.Read(bufio.NewReader(file), binary.LittleEndian, data)
	return
}

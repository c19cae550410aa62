package writefiles

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

type ForceRow struct {
	Step                   int
	Time                   float64
	ForceX, ForceY, Force1 float64
	Bodies                 [][2]float64
}

type IterationRow struct {
	Step, SubStep                     int
	IterationCount1, IterationCount2  int
	Converged1, Converged2, Breakdown bool
}

// textLog is a buffered, line oriented output file
type textLog struct {
	file *os.File
	w    *bufio.Writer
}

func newTextLog(path, header string) (tl *textLog, err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	tl = &textLog{}
	if tl.file, err = os.Create(path); err != nil {
		return nil, err
	}
	tl.w = bufio.NewWriter(tl.file)
	if _, err = tl.w.WriteString(header); err != nil {
		_ = tl.file.Close()
		return nil, err
	}
	return
}

func (tl *textLog) Flush() error { return tl.w.Flush() }

func (tl *textLog) Close() (err error) {
	if err = tl.w.Flush(); err != nil {
		_ = tl.file.Close()
		return
	}
	return tl.file.Close()
}

// ForceLog writes one row per outer step
type ForceLog struct {
	*textLog
	numBodies int
}

func NewForceLog(path string, numBodies int) (fl *ForceLog, err error) {
	header := "# step time forceX forceY force1"
	for n := 0; n < numBodies; n++ {
		header += fmt.Sprintf(" body%d_x body%d_y", n, n)
	}
	fl = &ForceLog{numBodies: numBodies}
	if fl.textLog, err = newTextLog(path, header+"\n"); err != nil {
		return nil, err
	}
	return
}

func (fl *ForceLog) Write(row ForceRow) (err error) {
	if _, err = fmt.Fprintf(fl.w, "%d %.10e %.10e %.10e %.10e", row.Step, row.Time,
		row.ForceX, row.ForceY, row.Force1); err != nil {
		return
	}
	for n := 0; n < fl.numBodies; n++ {
		var f [2]float64
		if n < len(row.Bodies) {
			f = row.Bodies[n]
		}
		if _, err = fmt.Fprintf(fl.w, " %.10e %.10e", f[0], f[1]); err != nil {
			return
		}
	}
	_, err = fl.w.WriteString("\n")
	return
}

// IterationLog writes one row per sub-step
type IterationLog struct {
	*textLog
}

func NewIterationLog(path string) (il *IterationLog, err error) {
	il = &IterationLog{}
	if il.textLog, err = newTextLog(path,
		"# step subStep iterationCount1 iterationCount2 converged1 converged2 breakdown\n"); err != nil {
		return nil, err
	}
	return
}

func (il *IterationLog) Write(row IterationRow) (err error) {
	_, err = fmt.Fprintf(il.w, "%d %d %d %d %d %d %d\n", row.Step, row.SubStep,
		row.IterationCount1, row.IterationCount2,
		boolToInt(row.Converged1), boolToInt(row.Converged2), boolToInt(row.Breakdown))
	return
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

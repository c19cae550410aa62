package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadBodyPoints reads a marker file: the number of points on the first line,
// then one "x y" pair per line. Lines starting with # are comments.
func ReadBodyPoints(filename string) (X, Y []float64, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	return readBodyPoints(bufio.NewReader(file))
}

func readBodyPoints(reader *bufio.Reader) (X, Y []float64, err error) {
	var (
		line string
		Np   int
	)
	if line, err = getLineNoComments(reader); err != nil {
		return
	}
	if _, err = fmt.Sscanf(line, "%d", &Np); err != nil || Np < 1 {
		err = fmt.Errorf("unable to read point count from [%s]", line)
		return
	}
	X, Y = make([]float64, Np), make([]float64, Np)
	for i := 0; i < Np; i++ {
		if line, err = getLineNoComments(reader); err != nil {
			err = fmt.Errorf("point %d of %d: %w", i+1, Np, err)
			return
		}
		var n int
		if n, err = fmt.Sscanf(line, "%f %f", &X[i], &Y[i]); err != nil || n != 2 {
			err = fmt.Errorf("unable to read coordinates of point %d from [%s]", i+1, line)
			return
		}
	}
	return
}

func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("early end of file")
		}
		return
	}
	line = strings.TrimRight(line, "\r\n")
	return
}

func getLineNoComments(reader *bufio.Reader) (line string, err error) {
	for {
		if line, err = getLine(reader); err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if len(line) != 0 && !strings.HasPrefix(line, "#") {
			return
		}
	}
}

package utils

import (
	"fmt"
	"math"
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK is an assembly-time sparse matrix. Entries added with Add accumulate.
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int, name string) (R DOK) {
	R = DOK{
		M:    sparse.NewDOK(nr, nc),
		name: name,
	}
	return
}

func (m DOK) Dims() (r, c int) { return m.M.Dims() }

func (m DOK) Set(i, j int, val float64) { m.M.Set(i, j, val) }

func (m DOK) Add(i, j int, val float64) {
	if val == 0 {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) ToCSR() *CSR {
	return NewCSRFrom(m.M.ToCSR(), m.name)
}

// CSR is an immutable compressed sparse row operator. The column indices of
// every row are sorted, so products and matrix-vector sums are evaluated in
// the same order on every run.
type CSR struct {
	M      *sparse.CSR
	name   string
	nr, nc int
	indptr []int
	ind    []int
	data   []float64
	NPar   int // Number of go routines used by MulVec
}

type sparseNonZero interface {
	mat.Matrix
	DoNonZero(fn func(i, j int, v float64))
}

// NewCSRFrom copies a sparse matrix into canonical (row sorted, explicit
// zeros dropped) CSR form.
func NewCSRFrom(S sparseNonZero, name string) (R *CSR) {
	var (
		nr, nc = S.Dims()
		counts = make([]int, nr+1)
	)
	S.DoNonZero(func(i, j int, v float64) {
		if v != 0 {
			counts[i+1]++
		}
	})
	for i := 0; i < nr; i++ {
		counts[i+1] += counts[i]
	}
	var (
		nnz    = counts[nr]
		ind    = make([]int, nnz)
		data   = make([]float64, nnz)
		cursor = make([]int, nr)
	)
	copy(cursor, counts[:nr])
	S.DoNonZero(func(i, j int, v float64) {
		if v != 0 {
			ind[cursor[i]] = j
			data[cursor[i]] = v
			cursor[i]++
		}
	})
	for i := 0; i < nr; i++ {
		sortRow(ind[counts[i]:counts[i+1]], data[counts[i]:counts[i+1]])
	}
	R = &CSR{
		M:      sparse.NewCSR(nr, nc, counts, ind, data),
		name:   name,
		nr:     nr,
		nc:     nc,
		indptr: counts,
		ind:    ind,
		data:   data,
		NPar:   1,
	}
	return
}

type rowSorter struct {
	ind  []int
	data []float64
}

func (rs rowSorter) Len() int           { return len(rs.ind) }
func (rs rowSorter) Less(i, j int) bool { return rs.ind[i] < rs.ind[j] }
func (rs rowSorter) Swap(i, j int) {
	rs.ind[i], rs.ind[j] = rs.ind[j], rs.ind[i]
	rs.data[i], rs.data[j] = rs.data[j], rs.data[i]
}

func sortRow(ind []int, data []float64) {
	if !sort.IsSorted(rowSorter{ind, data}) {
		sort.Sort(rowSorter{ind, data})
	}
}

// NewDiagonal returns a square diagonal operator
func NewDiagonal(diag []float64, name string) *CSR {
	var (
		N      = len(diag)
		indptr = make([]int, N+1)
		ind    = make([]int, 0, N)
		data   = make([]float64, 0, N)
	)
	for i, v := range diag {
		if v != 0 {
			ind = append(ind, i)
			data = append(data, v)
		}
		indptr[i+1] = len(ind)
	}
	return &CSR{
		M:      sparse.NewCSR(N, N, indptr, ind, data),
		name:   name,
		nr:     N,
		nc:     N,
		indptr: indptr,
		ind:    ind,
		data:   data,
		NPar:   1,
	}
}

func NewIdentity(N int, name string) *CSR {
	return NewDiagonal(ConstArray(N, 1), name)
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m *CSR) Dims() (r, c int)    { return m.nr, m.nc }
func (m *CSR) At(i, j int) float64 { return m.at(i, j) }
func (m *CSR) T() mat.Matrix       { return m.Transpose(m.name + "^T") }
func (m *CSR) Name() string        { return m.name }
func (m *CSR) NNZ() int            { return len(m.data) }

func (m *CSR) at(i, j int) float64 {
	if i < 0 || i >= m.nr || j < 0 || j >= m.nc {
		panic(fmt.Errorf("index (%d,%d) out of range for %dx%d matrix \"%s\"", i, j, m.nr, m.nc, m.name))
	}
	cols := m.ind[m.indptr[i]:m.indptr[i+1]]
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return m.data[m.indptr[i]+k]
	}
	return 0
}

// Row returns views of the column indices and values stored in row i
func (m *CSR) Row(i int) (cols []int, vals []float64) {
	return m.ind[m.indptr[i]:m.indptr[i+1]], m.data[m.indptr[i]:m.indptr[i+1]]
}

func (m *CSR) DoNonZero(fn func(i, j int, v float64)) {
	for i := 0; i < m.nr; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			fn(i, m.ind[k], m.data[k])
		}
	}
}

func (m *CSR) Diagonal() (diag []float64) {
	N := m.nr
	if m.nc < N {
		N = m.nc
	}
	diag = make([]float64, N)
	for i := range diag {
		diag[i] = m.at(i, i)
	}
	return
}

// MulVec computes dst = m * x, row partitioned over NPar go routines
func (m *CSR) MulVec(dst, x []float64) {
	if len(x) != m.nc || len(dst) != m.nr {
		panic(fmt.Errorf("MulVec dimension mismatch for \"%s\" (%dx%d): len(x) = %d, len(dst) = %d",
			m.name, m.nr, m.nc, len(x), len(dst)))
	}
	if m.NPar <= 1 {
		clear(dst)
		m.M.MulVecTo(dst, false, x)
		return
	}
	ParallelFor(m.NPar, m.nr, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum float64
			for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
				sum += m.data[k] * x[m.ind[k]]
			}
			dst[i] = sum
		}
	})
}

// Transpose returns a new operator holding the transpose of m
func (m *CSR) Transpose(name string) *CSR {
	var (
		counts = make([]int, m.nc+1)
		nnz    = len(m.data)
		ind    = make([]int, nnz)
		data   = make([]float64, nnz)
	)
	for _, j := range m.ind {
		counts[j+1]++
	}
	for j := 0; j < m.nc; j++ {
		counts[j+1] += counts[j]
	}
	cursor := make([]int, m.nc)
	copy(cursor, counts[:m.nc])
	// Rows are visited in order, so the transposed rows come out sorted
	m.DoNonZero(func(i, j int, v float64) {
		ind[cursor[j]] = i
		data[cursor[j]] = v
		cursor[j]++
	})
	return &CSR{
		M:      sparse.NewCSR(m.nc, m.nr, counts, ind, data),
		name:   name,
		nr:     m.nc,
		nc:     m.nr,
		indptr: counts,
		ind:    ind,
		data:   data,
		NPar:   m.NPar,
	}
}

// Mul returns the sparse product m * B
func (m *CSR) Mul(B *CSR, name string) (R *CSR, err error) {
	var (
		nr, nc = m.Dims()
		br, bc = B.Dims()
	)
	if nc != br {
		err = fmt.Errorf("cannot multiply \"%s\" (%dx%d) by \"%s\" (%dx%d)",
			m.name, m.nr, m.nc, B.name, B.nr, B.nc)
		return
	}
	P := sparse.NewCSR(nr, bc, nil, nil, nil)
	P.Mul(m.M, B.M)
	R = NewCSRFrom(P, name)
	R.NPar = m.NPar
	return
}

// Term is one scaled operator of a linear combination
type Term struct {
	Coeff float64
	Op    *CSR
}

// LinearCombination returns sum(Coeff*Op) over the terms, all of which must
// share the same dimensions.
func LinearCombination(name string, terms ...Term) (R *CSR, err error) {
	if len(terms) == 0 {
		err = fmt.Errorf("linear combination \"%s\" has no terms", name)
		return
	}
	nr, nc := terms[0].Op.Dims()
	d := NewDOK(nr, nc, name)
	for _, t := range terms {
		r, c := t.Op.Dims()
		if r != nr || c != nc {
			err = fmt.Errorf("linear combination \"%s\": \"%s\" is %dx%d, expected %dx%d",
				name, t.Op.name, r, c, nr, nc)
			return
		}
		if t.Coeff == 0 {
			continue
		}
		coeff := t.Coeff
		t.Op.DoNonZero(func(i, j int, v float64) {
			d.Add(i, j, coeff*v)
		})
	}
	R = d.ToCSR()
	R.NPar = terms[0].Op.NPar
	return
}

// MaxAsymmetry returns max|m(i,j) - m(j,i)|
func (m *CSR) MaxAsymmetry() (maxDiff float64) {
	if m.nr != m.nc {
		return math.Inf(1)
	}
	m.DoNonZero(func(i, j int, v float64) {
		if d := math.Abs(v - m.at(j, i)); d > maxDiff {
			maxDiff = d
		}
	})
	return
}

func (m *CSR) ToDense() (D *mat.Dense) {
	D = mat.NewDense(m.nr, m.nc, nil)
	m.DoNonZero(func(i, j int, v float64) {
		D.Set(i, j, v)
	})
	return
}

func (m *CSR) String() string {
	return fmt.Sprintf("%s: %dx%d, nnz = %d", m.name, m.nr, m.nc, len(m.data))
}

package utils

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Below this many rows a kernel runs on the calling go routine
const minParallelWork = 2048

type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) (kMax int) {
	if bn == -1 {
		kMax = pm.MaxIndex
		return
	}
	var (
		k1, k2 = pm.GetBucketRange(bn)
	)
	kMax = k2 - k1
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// This routine splits one dimension into c.ParallelDegree pieces, with a maximum imbalance of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// LimitParallelDegree clamps a requested go routine count to [1, NumCPU],
// zero or negative means NumCPU
func LimitParallelDegree(NPar int) int {
	ncpu := runtime.NumCPU()
	if NPar <= 0 || NPar > ncpu {
		return ncpu
	}
	return NPar
}

// ParallelFor splits [0,N) into NPar contiguous buckets and calls fn on each
// bucket concurrently, returning after every bucket is done.
func ParallelFor(NPar, N int, fn func(lo, hi int)) {
	if NPar <= 1 || N < minParallelWork {
		fn(0, N)
		return
	}
	var (
		pm = NewPartitionMap(NPar, N)
		g  errgroup.Group
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		lo, hi := pm.GetBucketRange(np)
		if lo == hi {
			continue
		}
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// ParallelDot sums the partial dot products in bucket order, the result is
// reproducible for a fixed NPar.
func ParallelDot(NPar int, a, b []float64) (sum float64) {
	N := len(a)
	if NPar <= 1 || N < minParallelWork {
		return floats.Dot(a, b)
	}
	var (
		pm       = NewPartitionMap(NPar, N)
		partials = make([]float64, pm.ParallelDegree)
		g        errgroup.Group
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		lo, hi := pm.GetBucketRange(np)
		if lo == hi {
			continue
		}
		np := np
		g.Go(func() error {
			partials[np] = floats.Dot(a[lo:hi], b[lo:hi])
			return nil
		})
	}
	_ = g.Wait()
	for _, p := range partials {
		sum += p
	}
	return
}

// ParallelAddScaled computes dst += alpha*s
func ParallelAddScaled(NPar int, dst []float64, alpha float64, s []float64) {
	ParallelFor(NPar, len(dst), func(lo, hi int) {
		floats.AddScaled(dst[lo:hi], alpha, s[lo:hi])
	})
}

package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsNan reports whether any NaN or Inf is present
func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return isNonFinite(v)
	case []float64:
		for _, f := range v {
			if isNonFinite(f) {
				return true
			}
		}
	case [4][]float64:
		for n := 0; n < 4; n++ {
			if IsNan(v[n]) {
				return true
			}
		}
	case *CSR:
		return IsNan(v.data)
	}
	return false
}

// MaxAbs returns max|v[i]|, a NaN anywhere gives NaN
func MaxAbs(v []float64) (m float64) {
	for _, f := range v {
		if math.IsNaN(f) {
			return f
		}
		if a := math.Abs(f); a > m {
			m = a
		}
	}
	return
}

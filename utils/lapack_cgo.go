//go:build netlib && cgo

package utils

/*
#cgo LDFLAGS: -lopenblas -lgfortran -lm -lpthread
#include <cblas.h>
*/
import "C"

import (
	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// Dense diagnostics (operator norms, reference inverses) go through blas64,
// build with -tags netlib to route them to OpenBLAS.
func init() {
	blas64.Use(netblas.Implementation{})
}

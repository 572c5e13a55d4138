// Package spectrum implements the spatial spectrum functions used by
// spectrum-based direction-of-arrival estimators.
//
// Every variant maps a steering matrix A (M×K, one candidate direction per
// column) and a covariance matrix R (M×M) to K real samples. Variants are
// strategies: the estimator binds one to a covariance matrix once per call
// and evaluates the result on as many grids as it needs.
package spectrum

import (
	"gonum.org/v1/gonum/mat"
)

// Func evaluates a bound spectrum on the columns of a steering matrix
type Func func(A *mat.CDense) []float64

// Spectrum is a spectrum variant that can be bound to a covariance matrix
type Spectrum interface {
	// Name returns the variant name, e.g. "bartlett"
	Name() string
	// Bind prepares the spectrum for covariance R and k sources.
	// Work that depends on R only (factorizations, subspaces) happens here.
	Bind(R *mat.CDense, k int) (Func, error)
}

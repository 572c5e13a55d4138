package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// eps is the float64 machine epsilon
const eps = 0x1p-52

// MVDR is the minimum variance distortionless response (Capon) spectrum
//
//	P(θ) = 1 / (a(θ)ᴴ R⁻¹ a(θ))
//
// R⁻¹ is never formed: X = R⁻¹A is the minimum-norm least-squares solution
// of R·X = A, so singular covariance matrices degrade to very large or
// non-finite samples instead of failing.
type MVDR struct{}

// NewMVDR creates an MVDR spectrum
func NewMVDR() *MVDR {
	return &MVDR{}
}

func (v *MVDR) Name() string { return "mvdr" }

// Compute evaluates the MVDR spectrum for a single steering matrix.
// Shapes must conform; mismatches panic like gonum's mat operations.
func (v *MVDR) Compute(A, R *mat.CDense) []float64 {
	if err := checkShapes(A, R); err != nil {
		panic(err)
	}
	return newLeastSquares(R).mvdr(A)
}

// Bind factorizes R once so every grid evaluation only pays for the solve
func (v *MVDR) Bind(R *mat.CDense, _ int) (Func, error) {
	if R == nil {
		return nil, fmt.Errorf("%w: nil covariance", ErrShape)
	}
	if r, c := R.Dims(); r != c {
		return nil, fmt.Errorf("%w: covariance is %dx%d", ErrShape, r, c)
	}

	ls := newLeastSquares(R)
	return func(A *mat.CDense) []float64 {
		if err := checkShapes(A, R); err != nil {
			panic(err)
		}
		return ls.mvdr(A)
	}, nil
}

// leastSquares holds the SVD of the real embedding of a complex square matrix
type leastSquares struct {
	svd  mat.SVD
	ok   bool
	rank int
}

func newLeastSquares(R *mat.CDense) *leastSquares {
	ls := &leastSquares{}
	E := embedHermitian(R)
	ls.ok = ls.svd.Factorize(E, mat.SVDThin)
	if ls.ok {
		n, _ := E.Dims()
		// Same cutoff as LAPACK gelsd with rcond = eps·max(M, N).
		ls.rank = ls.svd.Rank(eps * float64(n))
	}
	return ls
}

// solve returns the minimum-norm X with R·X ≈ A, or nil when R carries no information
func (ls *leastSquares) solve(A *mat.CDense) *mat.CDense {
	if !ls.ok || ls.rank == 0 {
		return nil
	}
	var X mat.Dense
	ls.svd.SolveTo(&X, embedColumns(A), ls.rank)
	return unembedColumns(&X)
}

func (ls *leastSquares) mvdr(A *mat.CDense) []float64 {
	_, k := A.Dims()
	if !ls.ok {
		return fill(make([]float64, k), math.NaN())
	}
	X := ls.solve(A)
	if X == nil {
		return fill(make([]float64, k), math.Inf(1))
	}

	out := conjColumnSums(A, X)
	for i, q := range out {
		out[i] = 1 / q
	}
	return out
}

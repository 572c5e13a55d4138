package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MUSIC is the multiple signal classification pseudo-spectrum
//
//	P(θ) = 1 / (a(θ)ᴴ Eₙ Eₙᴴ a(θ))
//
// where Eₙ spans the noise subspace of R, i.e. the eigenvectors left after
// removing the k dominant ones.
type MUSIC struct{}

// NewMUSIC creates a MUSIC spectrum
func NewMUSIC() *MUSIC {
	return &MUSIC{}
}

func (s *MUSIC) Name() string { return "music" }

// Compute evaluates the MUSIC spectrum for k sources
func (s *MUSIC) Compute(A, R *mat.CDense, k int) ([]float64, error) {
	if err := checkShapes(A, R); err != nil {
		return nil, err
	}
	f, err := s.Bind(R, k)
	if err != nil {
		return nil, err
	}
	return f(A), nil
}

// Bind extracts the noise subspace of R once
func (s *MUSIC) Bind(R *mat.CDense, k int) (Func, error) {
	if R == nil {
		return nil, fmt.Errorf("%w: nil covariance", ErrShape)
	}
	m, c := R.Dims()
	if m != c {
		return nil, fmt.Errorf("%w: covariance is %dx%d", ErrShape, m, c)
	}
	if k < 1 || k >= m {
		return nil, fmt.Errorf("%w: %d sources with %d sensors", ErrSourceCount, k, m)
	}

	basis, ok := noiseBasis(R, k)
	return func(A *mat.CDense) []float64 {
		if err := checkShapes(A, R); err != nil {
			panic(err)
		}
		_, cols := A.Dims()
		if !ok {
			return fill(make([]float64, cols), math.NaN())
		}

		// aᴴEₙEₙᴴa = ‖Eₙᵀ[Re a; Im a]‖², never negative.
		var Z mat.Dense
		Z.Mul(basis.T(), embedColumns(A))
		rows, _ := Z.Dims()
		out := make([]float64, cols)
		for i := range rows {
			for j := range cols {
				z := Z.At(i, j)
				out[j] += z * z
			}
		}
		for j, q := range out {
			out[j] = 1 / q
		}
		return out
	}, nil
}

// noiseBasis returns an orthonormal basis of the real embedding of the noise subspace.
//
// The embedding of a Hermitian R is symmetric and every eigenvalue of R
// appears twice, so the noise subspace is spanned by the 2(M-k) eigenvectors
// with the smallest eigenvalues.
func noiseBasis(R *mat.CDense, k int) (*mat.Dense, bool) {
	E := embedHermitian(R)
	n, _ := E.Dims()

	sym := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(E.At(i, j)+E.At(j, i)))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues are ascending.
	return mat.DenseCopyOf(vecs.Slice(0, n, 0, n-2*k)), true
}

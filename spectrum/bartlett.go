package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Bartlett is the delay-and-sum beamformer spectrum
//
//	P(θ) = a(θ)ᴴ R a(θ)
//
// An optional aperture taper weights the sensors before the quadratic form.
type Bartlett struct {
	taper TaperKind
}

// NewBartlett creates an untapered Bartlett spectrum
func NewBartlett() *Bartlett {
	return &Bartlett{taper: TaperNone}
}

// NewTaperedBartlett creates a Bartlett spectrum with sensor weights of the given taper
func NewTaperedBartlett(taper TaperKind) *Bartlett {
	return &Bartlett{taper: taper}
}

func (b *Bartlett) Name() string {
	if b.taper == TaperNone {
		return "bartlett"
	}
	return "bartlett/" + b.taper.String()
}

// Compute returns Re(diag(AᴴRA)) as the column sums of conj(A)⊙(RA).
// This costs O(KM²) instead of the O(K²M) of the full product.
// Shapes must conform; mismatches panic like gonum's mat operations.
func (b *Bartlett) Compute(A, R *mat.CDense) []float64 {
	if err := checkShapes(A, R); err != nil {
		panic(err)
	}
	return bartlett(A, R)
}

func (b *Bartlett) Bind(R *mat.CDense, _ int) (Func, error) {
	if R == nil {
		return nil, fmt.Errorf("%w: nil covariance", ErrShape)
	}
	m, _ := R.Dims()

	weighted := R
	if b.taper != TaperNone {
		w, err := TaperWeights(b.taper, m)
		if err != nil {
			return nil, err
		}
		// (w⊙a)ᴴ R (w⊙a) = aᴴ (W R W) a
		weighted = mat.NewCDense(m, m, nil)
		for i := range m {
			for j := range m {
				weighted.Set(i, j, R.At(i, j)*complex(w[i]*w[j], 0))
			}
		}
	}

	return func(A *mat.CDense) []float64 {
		return b.Compute(A, weighted)
	}, nil
}

func bartlett(A, R *mat.CDense) []float64 {
	out := conjColumnSums(A, mulCC(R, A))

	// Quadratic forms of a PSD matrix are non-negative; clip round-off.
	m, _ := A.Dims()
	tol := 64 * eps * float64(m) * maxAbs(R) * maxColumnPower(A)
	for i, v := range out {
		if v < 0 && v > -tol {
			out[i] = 0
		}
	}
	return out
}

func maxColumnPower(A *mat.CDense) float64 {
	m, k := A.Dims()
	var best float64
	for col := range k {
		var p float64
		for row := range m {
			v := A.At(row, col)
			p += real(v)*real(v) + imag(v)*imag(v)
		}
		best = max(best, p)
	}
	return best
}

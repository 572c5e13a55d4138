// Package simulate generates narrowband array snapshots and covariance
// matrices for testing and driving DOA estimators. All randomness comes from
// an explicitly passed *rand.Rand so runs are reproducible.
package simulate

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/RyanBlaney/sonido-doa/array"
	"github.com/RyanBlaney/sonido-doa/source"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidScenario is returned for unusable simulation parameters.
var ErrInvalidScenario = errors.New("simulate: invalid scenario")

// Signal emits dim×n matrices of complex samples
type Signal interface {
	Dim() int
	Emit(rng *rand.Rand, n int) *mat.CDense
}

// ComplexStochasticSignal is a zero-mean circularly-symmetric complex
// Gaussian signal with independent channels of the given powers
type ComplexStochasticSignal struct {
	power []float64
}

// NewComplexStochasticSignal creates dim channels sharing one power
func NewComplexStochasticSignal(dim int, power float64) (*ComplexStochasticSignal, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: signal dimension %d", ErrInvalidScenario, dim)
	}
	p := make([]float64, dim)
	for i := range p {
		p[i] = power
	}
	return NewComplexStochasticSignalWithPowers(p)
}

// NewComplexStochasticSignalWithPowers creates one channel per power value
func NewComplexStochasticSignalWithPowers(powers []float64) (*ComplexStochasticSignal, error) {
	if len(powers) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidScenario)
	}
	for i, p := range powers {
		if !(p >= 0) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: channel %d power %v", ErrInvalidScenario, i, p)
		}
	}
	return &ComplexStochasticSignal{power: append([]float64(nil), powers...)}, nil
}

func (s *ComplexStochasticSignal) Dim() int { return len(s.power) }

// Emit draws n snapshots; each entry has E|x|² equal to its channel power
func (s *ComplexStochasticSignal) Emit(rng *rand.Rand, n int) *mat.CDense {
	out := mat.NewCDense(len(s.power), n, nil)
	for i, p := range s.power {
		scale := math.Sqrt(p / 2)
		for t := range n {
			out.Set(i, t, complex(scale*rng.NormFloat64(), scale*rng.NormFloat64()))
		}
	}
	return out
}

// NoisePower returns the noise power giving the requested SNR in dB
func NoisePower(signalPower, snrDB float64) float64 {
	return signalPower / math.Pow(10, snrDB/10)
}

// Snapshots draws n narrowband snapshots Y = A·S + N and returns Y together
// with its sample covariance Y·Yᴴ/n
func Snapshots(rng *rand.Rand, g array.Geometry, p source.Placement, wavelength float64, src, noise Signal, n int) (Y, R *mat.CDense, err error) {
	if rng == nil {
		return nil, nil, fmt.Errorf("%w: nil random source", ErrInvalidScenario)
	}
	if n < 1 {
		return nil, nil, fmt.Errorf("%w: snapshot count %d", ErrInvalidScenario, n)
	}
	if src.Dim() != p.Len() {
		return nil, nil, fmt.Errorf("%w: source signal has %d channels for %d sources", ErrInvalidScenario, src.Dim(), p.Len())
	}
	if noise.Dim() != g.Size() {
		return nil, nil, fmt.Errorf("%w: noise has %d channels for %d sensors", ErrInvalidScenario, noise.Dim(), g.Size())
	}

	A, err := array.SteeringMatrix(g, p, wavelength)
	if err != nil {
		return nil, nil, err
	}

	S := src.Emit(rng, n)
	Y = noise.Emit(rng, n)
	// Y = A·S + N
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, A.RawCMatrix(), S.RawCMatrix(), 1, Y.RawCMatrix())

	return Y, SampleCovariance(Y), nil
}

// SampleCovariance returns Y·Yᴴ/n for an M×n snapshot matrix
func SampleCovariance(Y *mat.CDense) *mat.CDense {
	m, n := Y.Dims()
	R := mat.NewCDense(m, m, nil)
	cblas128.Gemm(blas.NoTrans, blas.ConjTrans, complex(1/float64(n), 0), Y.RawCMatrix(), Y.RawCMatrix(), 0, R.RawCMatrix())
	return R
}

// Covariance returns the model covariance A·diag(powers)·Aᴴ + noise·I
func Covariance(g array.Geometry, p source.Placement, wavelength float64, powers []float64, noise float64) (*mat.CDense, error) {
	if len(powers) != p.Len() {
		return nil, fmt.Errorf("%w: %d powers for %d sources", ErrInvalidScenario, len(powers), p.Len())
	}
	A, err := array.SteeringMatrix(g, p, wavelength)
	if err != nil {
		return nil, err
	}

	m, k := A.Dims()
	AP := mat.NewCDense(m, k, nil)
	for i := range m {
		for j := range k {
			AP.Set(i, j, A.At(i, j)*complex(powers[j], 0))
		}
	}

	R := mat.NewCDense(m, m, nil)
	for i := range m {
		R.Set(i, i, complex(noise, 0))
	}
	cblas128.Gemm(blas.NoTrans, blas.ConjTrans, 1, AP.RawCMatrix(), A.RawCMatrix(), 1, R.RawCMatrix())
	return R, nil
}

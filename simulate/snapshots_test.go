package simulate_test

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/RyanBlaney/sonido-doa/array"
	"github.com/RyanBlaney/sonido-doa/simulate"
	"github.com/RyanBlaney/sonido-doa/source"
	"github.com/stretchr/testify/require"
)

func TestNoisePower(t *testing.T) {
	require.InDelta(t, 0.1, simulate.NoisePower(1, 10), 1e-15)
	require.InDelta(t, 100.0, simulate.NoisePower(1, -20), 1e-12)
}

func TestCovariance_RankOneModel(t *testing.T) {
	ula, err := array.NewUniformLinearArray(4, 0.5)
	require.NoError(t, err)

	R, err := simulate.Covariance(ula, source.NewFarField1D([]float64{0}, source.Radian), 1.0, []float64{2}, 0.5)
	require.NoError(t, err)

	// Broadside steering vector is all ones: R = 2·11ᴴ + 0.5·I.
	for i := range 4 {
		for j := range 4 {
			want := 2.0
			if i == j {
				want += 0.5
			}
			require.InDelta(t, 0, cmplx.Abs(R.At(i, j)-complex(want, 0)), 1e-12)
		}
	}

	_, err = simulate.Covariance(ula, source.NewFarField1D([]float64{0}, source.Radian), 1.0, []float64{1, 2}, 0)
	require.ErrorIs(t, err, simulate.ErrInvalidScenario)
}

func TestSnapshots_CovarianceConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ula, err := array.NewUniformLinearArray(4, 0.5)
	require.NoError(t, err)
	p := source.NewFarField1D([]float64{0.3}, source.Radian)

	src, err := simulate.NewComplexStochasticSignal(1, 1)
	require.NoError(t, err)
	noise, err := simulate.NewComplexStochasticSignal(4, 0.1)
	require.NoError(t, err)

	Y, R, err := simulate.Snapshots(rng, ula, p, 1.0, src, noise, 20000)
	require.NoError(t, err)
	m, n := Y.Dims()
	require.Equal(t, 4, m)
	require.Equal(t, 20000, n)

	model, err := simulate.Covariance(ula, p, 1.0, []float64{1}, 0.1)
	require.NoError(t, err)
	for i := range 4 {
		for j := range 4 {
			require.InDelta(t, 0, cmplx.Abs(R.At(i, j)-model.At(i, j)), 0.05)
		}
		// Hermitian diagonal is real.
		require.InDelta(t, 0, imag(R.At(i, i)), 1e-12)
	}
}

func TestSnapshots_Deterministic(t *testing.T) {
	ula, err := array.NewUniformLinearArray(3, 0.5)
	require.NoError(t, err)
	p := source.NewFarField1D([]float64{-0.2, 0.4}, source.Radian)
	src, err := simulate.NewComplexStochasticSignal(2, 1)
	require.NoError(t, err)
	noise, err := simulate.NewComplexStochasticSignal(3, 1)
	require.NoError(t, err)

	_, R1, err := simulate.Snapshots(rand.New(rand.NewSource(5)), ula, p, 1.0, src, noise, 50)
	require.NoError(t, err)
	_, R2, err := simulate.Snapshots(rand.New(rand.NewSource(5)), ula, p, 1.0, src, noise, 50)
	require.NoError(t, err)
	require.Equal(t, R1.RawCMatrix().Data, R2.RawCMatrix().Data)
}

func TestSnapshots_Validation(t *testing.T) {
	ula, err := array.NewUniformLinearArray(3, 0.5)
	require.NoError(t, err)
	p := source.NewFarField1D([]float64{0}, source.Radian)
	src, err := simulate.NewComplexStochasticSignal(1, 1)
	require.NoError(t, err)
	noise, err := simulate.NewComplexStochasticSignal(2, 1)
	require.NoError(t, err)

	_, _, err = simulate.Snapshots(rand.New(rand.NewSource(1)), ula, p, 1.0, src, noise, 10)
	require.ErrorIs(t, err, simulate.ErrInvalidScenario)

	_, _, err = simulate.Snapshots(nil, ula, p, 1.0, src, noise, 10)
	require.ErrorIs(t, err, simulate.ErrInvalidScenario)

	_, err = simulate.NewComplexStochasticSignal(0, 1)
	require.ErrorIs(t, err, simulate.ErrInvalidScenario)
	_, err = simulate.NewComplexStochasticSignalWithPowers([]float64{1, math.NaN()})
	require.ErrorIs(t, err, simulate.ErrInvalidScenario)
}

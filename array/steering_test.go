package array_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/RyanBlaney/sonido-doa/array"
	"github.com/RyanBlaney/sonido-doa/source"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewUniformLinearArray(t *testing.T) {
	ula, err := array.NewUniformLinearArray(4, 0.5)
	require.NoError(t, err)
	require.Equal(t, 4, ula.Size())
	require.Equal(t, 1, ula.Dim())

	pos := ula.Positions()
	for i := range 4 {
		require.InDelta(t, 0.5*float64(i), pos.At(i, 0), 1e-15)
	}

	// Positions returns a copy.
	pos.Set(0, 0, 99)
	require.Equal(t, 0.0, ula.Positions().At(0, 0))

	_, err = array.NewUniformLinearArray(0, 0.5)
	require.ErrorIs(t, err, array.ErrInvalidGeometry)
	_, err = array.NewUniformLinearArray(4, -1)
	require.ErrorIs(t, err, array.ErrInvalidGeometry)
}

func TestNewSensorArray_Validation(t *testing.T) {
	_, err := array.NewSensorArray("bad", mat.NewDense(2, 4, nil))
	require.ErrorIs(t, err, array.ErrInvalidGeometry)

	_, err = array.NewSensorArray("nan", mat.NewDense(1, 1, []float64{math.NaN()}))
	require.ErrorIs(t, err, array.ErrInvalidGeometry)

	_, err = array.NewSensorArray("nil", nil)
	require.ErrorIs(t, err, array.ErrInvalidGeometry)
}

func TestSteeringMatrix_ULAFarField1D(t *testing.T) {
	ula, err := array.NewUniformLinearArray(8, 0.5)
	require.NoError(t, err)

	angles := []float64{-0.3, 0, 0.2}
	A, err := array.SteeringMatrix(ula, source.NewFarField1D(angles, source.Radian), 1.0)
	require.NoError(t, err)

	m, k := A.Dims()
	require.Equal(t, 8, m)
	require.Equal(t, 3, k)

	for col, theta := range angles {
		for row := range m {
			want := cmplx.Exp(complex(0, 2*math.Pi*0.5*float64(row)*math.Sin(theta)))
			got := A.At(row, col)
			require.InDelta(t, real(want), real(got), 1e-12)
			require.InDelta(t, imag(want), imag(got), 1e-12)
			require.InDelta(t, 1.0, cmplx.Abs(got), 1e-12)
		}
	}
}

func TestSteeringMatrix_DegreesMatchRadians(t *testing.T) {
	ula, err := array.NewUniformLinearArray(5, 0.5)
	require.NoError(t, err)

	A1, err := array.SteeringMatrix(ula, source.NewFarField1D([]float64{30}, source.Degree), 1.0)
	require.NoError(t, err)
	A2, err := array.SteeringMatrix(ula, source.NewFarField1D([]float64{math.Pi / 6}, source.Radian), 1.0)
	require.NoError(t, err)

	for row := range 5 {
		require.InDelta(t, 0, cmplx.Abs(A1.At(row, 0)-A2.At(row, 0)), 1e-12)
	}
}

func TestSteeringMatrix_FarField2D(t *testing.T) {
	uca, err := array.NewUniformCircularArray(6, 1.0)
	require.NoError(t, err)

	// Zenith: every sensor in the xy plane sees the same phase.
	A, err := array.SteeringMatrix(uca, source.NewFarField2D([][2]float64{{0.4, math.Pi / 2}}, source.Radian), 1.0)
	require.NoError(t, err)
	for row := range 6 {
		require.InDelta(t, 0, cmplx.Abs(A.At(row, 0)-1), 1e-12)
	}

	// 2D placements also work on linear arrays.
	ula, err := array.NewUniformLinearArray(4, 0.5)
	require.NoError(t, err)
	_, err = array.SteeringMatrix(ula, source.NewFarField2D([][2]float64{{0, 0}}, source.Radian), 1.0)
	require.NoError(t, err)
}

func TestSteeringMatrix_Errors(t *testing.T) {
	uca, err := array.NewUniformCircularArray(6, 1.0)
	require.NoError(t, err)
	ula, err := array.NewUniformLinearArray(4, 0.5)
	require.NoError(t, err)

	_, err = array.SteeringMatrix(uca, source.NewFarField1D([]float64{0}, source.Radian), 1.0)
	require.ErrorIs(t, err, array.ErrDimension)

	_, err = array.SteeringMatrix(ula, source.NewFarField1D(nil, source.Radian), 1.0)
	require.ErrorIs(t, err, array.ErrDimension)

	_, err = array.SteeringMatrix(ula, source.NewFarField1D([]float64{0}, source.Radian), 0)
	require.ErrorIs(t, err, array.ErrInvalidWavelength)
}

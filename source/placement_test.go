package source_test

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-doa/source"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	cases := []struct {
		in   string
		want source.Unit
	}{
		{"", source.Radian},
		{"rad", source.Radian},
		{"Radians", source.Radian},
		{"deg", source.Degree},
		{" DEGREE ", source.Degree},
	}
	for _, tc := range cases {
		got, err := source.ParseUnit(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	_, err := source.ParseUnit("grad")
	require.ErrorIs(t, err, source.ErrUnknownUnit)
}

func TestFarField1D_InConvertsAndCopies(t *testing.T) {
	in := []float64{-math.Pi / 2, 0, math.Pi / 6}
	p := source.NewFarField1D(in, source.Radian)
	in[0] = 42 // must not leak into the placement

	deg := p.In(source.Degree)
	require.Equal(t, source.Degree, deg.Unit())
	require.Equal(t, 3, deg.Len())
	require.InDelta(t, -90.0, deg.Coords(0)[0], 1e-12)
	require.InDelta(t, 30.0, deg.Coords(2)[0], 1e-12)

	// Same unit returns the receiver.
	require.Same(t, p, p.In(source.Radian))

	back := deg.In(source.Radian)
	require.InDelta(t, -math.Pi/2, back.Coords(0)[0], 1e-12)
}

func TestFarField2D_Coords(t *testing.T) {
	p := source.NewFarField2D([][2]float64{{10, 20}}, source.Degree)
	require.Equal(t, 2, p.Dim())
	require.Equal(t, []float64{10, 20}, p.Coords(0))

	rad := p.In(source.Radian)
	require.InDelta(t, 10*math.Pi/180, rad.Coords(0)[0], 1e-12)
	require.InDelta(t, 20*math.Pi/180, rad.Coords(0)[1], 1e-12)
}

func TestFromCoords(t *testing.T) {
	p, err := source.FromCoords(source.FarField1DKind, [][]float64{{0.1}, {0.2}}, source.Radian)
	require.NoError(t, err)
	require.Equal(t, source.FarField1DKind, p.Kind())
	require.Equal(t, 2, p.Len())

	p, err = source.FromCoords(source.FarField2DKind, [][]float64{{0.1, 0.2}}, source.Degree)
	require.NoError(t, err)
	require.Equal(t, []float64{0.1, 0.2}, p.Coords(0))

	_, err = source.FromCoords(source.FarField1DKind, [][]float64{{0.1, 0.2}}, source.Radian)
	require.ErrorIs(t, err, source.ErrCoordinates)

	_, err = source.FromCoords(source.Kind(9), nil, source.Radian)
	require.ErrorIs(t, err, source.ErrUnknownKind)
}

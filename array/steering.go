package array

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-doa/source"
	"gonum.org/v1/gonum/mat"
)

// SteeringMatrix computes the M×K array response to unit-amplitude sources.
// Column k is exp(j·2π/λ·rₘᵀuₖ) where uₖ is the propagation direction of source k.
//
// Far-field 1D placements need a linear array (positions along x only);
// far-field 2D placements (azimuth, elevation) work with any geometry.
func SteeringMatrix(g Geometry, p source.Placement, wavelength float64) (*mat.CDense, error) {
	if g == nil || p == nil {
		return nil, fmt.Errorf("%w: nil geometry or placement", ErrDimension)
	}
	if !(wavelength > 0) || math.IsInf(wavelength, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWavelength, wavelength)
	}
	if p.Len() == 0 {
		return nil, fmt.Errorf("%w: empty placement", ErrDimension)
	}

	positions := g.Positions()
	m, d := positions.Dims()
	k := p.Len()
	rad := p.In(source.Radian)
	scale := 2 * math.Pi / wavelength

	var direction func(i int) [3]float64
	switch p.Kind() {
	case source.FarField1DKind:
		if d != 1 {
			return nil, fmt.Errorf("%w: far-field 1D sources need a linear array, %s has %d-D positions",
				ErrDimension, g.Name(), d)
		}
		direction = func(i int) [3]float64 {
			return [3]float64{math.Sin(rad.Coords(i)[0]), 0, 0}
		}
	case source.FarField2DKind:
		direction = func(i int) [3]float64 {
			c := rad.Coords(i)
			sinAz, cosAz := math.Sincos(c[0])
			sinEl, cosEl := math.Sincos(c[1])
			return [3]float64{cosEl * cosAz, cosEl * sinAz, sinEl}
		}
	default:
		return nil, fmt.Errorf("%w: placement kind %v not supported by %s", ErrDimension, p.Kind(), g.Name())
	}

	A := mat.NewCDense(m, k, nil)
	for col := range k {
		u := direction(col)
		for row := range m {
			var proj float64
			for c := range d {
				proj += positions.At(row, c) * u[c]
			}
			sin, cos := math.Sincos(scale * proj)
			A.Set(row, col, complex(cos, sin))
		}
	}

	return A, nil
}

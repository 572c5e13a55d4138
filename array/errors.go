// Package array models sensor array geometries and computes their steering
// matrices for a given source placement.
package array

import "errors"

var (
	// ErrDimension is returned when a source placement cannot be steered
	// with the array's geometry (e.g. 1D far-field sources on a planar array).
	ErrDimension = errors.New("array: placement incompatible with geometry")

	// ErrInvalidWavelength is returned for non-positive or non-finite wavelengths.
	ErrInvalidWavelength = errors.New("array: invalid wavelength")

	// ErrInvalidGeometry is returned when an array cannot be constructed.
	ErrInvalidGeometry = errors.New("array: invalid geometry")
)

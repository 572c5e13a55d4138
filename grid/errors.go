// Package grid provides the search grids over which spatial spectra are
// evaluated, including local refinement around a grid point.
package grid

import "errors"

var (
	// ErrInvalidGrid is returned when grid bounds or sizes are unusable.
	ErrInvalidGrid = errors.New("grid: invalid grid")

	// ErrInvalidRefinement is returned for bad refinement parameters.
	ErrInvalidRefinement = errors.New("grid: invalid refinement")
)

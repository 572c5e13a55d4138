// Package source defines the containers used to describe source locations,
// both as inputs to the array model and as estimator outputs.
package source

import "errors"

var (
	// ErrUnknownUnit is returned when a unit name cannot be parsed.
	ErrUnknownUnit = errors.New("source: unknown unit")

	// ErrUnknownKind is returned for an unsupported placement kind.
	ErrUnknownKind = errors.New("source: unknown placement kind")

	// ErrCoordinates signals a coordinate tuple of the wrong length.
	ErrCoordinates = errors.New("source: wrong number of coordinates")
)

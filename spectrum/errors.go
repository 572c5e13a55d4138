package spectrum

import "errors"

var (
	// ErrShape is returned when steering and covariance matrices do not conform.
	ErrShape = errors.New("spectrum: matrix shape mismatch")

	// ErrSourceCount is returned when a subspace method gets an unusable source count.
	ErrSourceCount = errors.New("spectrum: invalid source count")

	// ErrUnknownTaper is returned for an unsupported taper name or kind.
	ErrUnknownTaper = errors.New("spectrum: unknown taper")
)

// Package estimation implements spectrum-based direction-of-arrival
// estimators: a spatial spectrum is evaluated over a search grid, its
// strongest local maxima are taken as source directions, and each estimate
// can be sharpened by evaluating the spectrum on progressively finer local
// grids.
package estimation

import "errors"

var (
	// ErrCovarianceSizeMismatch is returned when the covariance matrix is not
	// square with the array's sensor count. No computation is attempted.
	ErrCovarianceSizeMismatch = errors.New("estimation: covariance size does not match array")

	// ErrInvalidSourceCount is returned for a source count below one.
	ErrInvalidSourceCount = errors.New("estimation: invalid source count")

	// ErrInvalidOption is returned for unusable estimation options.
	ErrInvalidOption = errors.New("estimation: invalid option")

	// ErrInvalidEstimator is returned when an estimator cannot be constructed.
	ErrInvalidEstimator = errors.New("estimation: invalid estimator")
)

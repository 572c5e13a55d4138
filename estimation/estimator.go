package estimation

import (
	"fmt"
	"math"
	"slices"

	"github.com/RyanBlaney/sonido-doa/array"
	"github.com/RyanBlaney/sonido-doa/grid"
	"github.com/RyanBlaney/sonido-doa/logging"
	"github.com/RyanBlaney/sonido-doa/source"
	"github.com/RyanBlaney/sonido-doa/spectrum"
	"gonum.org/v1/gonum/mat"
)

// refinementSpan is the half-width, in parent cells, of every refined grid
const refinementSpan = 1

// Result is the outcome of one Estimate call
type Result struct {
	// Resolved reports whether k distinct peaks were found. It does not
	// guarantee that the estimates are correct.
	Resolved bool
	// Estimates holds k directions in ascending order, nil when unresolved
	Estimates source.Placement
	// Spectrum is the base-grid spectrum, present only when requested
	Spectrum []float64
}

// Estimator is a spectrum-based DOA estimator for a fixed array, wavelength
// and search grid. It holds no mutable state after construction and can be
// used from several goroutines at once.
type Estimator struct {
	array      array.Geometry
	wavelength float64
	grid       grid.SearchGrid
	spectrum   spectrum.Spectrum
	steering   *mat.CDense
	logger     logging.Logger
}

// New creates an estimator using the given spectrum variant.
// The steering matrix of the search grid is computed once here.
func New(g array.Geometry, wavelength float64, sg grid.SearchGrid, sp spectrum.Spectrum, opts ...Option) (*Estimator, error) {
	if g == nil || sg == nil || sp == nil {
		return nil, fmt.Errorf("%w: array, grid and spectrum are required", ErrInvalidEstimator)
	}

	steering, err := array.SteeringMatrix(g, sg.Points(), wavelength)
	if err != nil {
		return nil, fmt.Errorf("%w: search grid steering matrix: %w", ErrInvalidEstimator, err)
	}

	e := &Estimator{
		array:      g,
		wavelength: wavelength,
		grid:       sg,
		spectrum:   sp,
		steering:   steering,
	}
	WithLogger(logging.WithFields(logging.Fields{
		"component": "doa_estimator",
		"spectrum":  sp.Name(),
	}))(e)
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// NewBartlett creates a Bartlett (delay-and-sum) beamformer estimator
func NewBartlett(g array.Geometry, wavelength float64, sg grid.SearchGrid, opts ...Option) (*Estimator, error) {
	return New(g, wavelength, sg, spectrum.NewBartlett(), opts...)
}

// NewMVDR creates an MVDR (Capon) beamformer estimator
func NewMVDR(g array.Geometry, wavelength float64, sg grid.SearchGrid, opts ...Option) (*Estimator, error) {
	return New(g, wavelength, sg, spectrum.NewMVDR(), opts...)
}

// NewMUSIC creates a MUSIC estimator
func NewMUSIC(g array.Geometry, wavelength float64, sg grid.SearchGrid, opts ...Option) (*Estimator, error) {
	return New(g, wavelength, sg, spectrum.NewMUSIC(), opts...)
}

// Grid returns the base search grid
func (e *Estimator) Grid() grid.SearchGrid { return e.grid }

// Array returns the array geometry
func (e *Estimator) Array() array.Geometry { return e.array }

// Name returns the spectrum variant name
func (e *Estimator) Name() string { return e.spectrum.Name() }

// EnsureCovarianceSize checks that R is square with the array's sensor count
func EnsureCovarianceSize(R *mat.CDense, g array.Geometry) error {
	if R == nil {
		return fmt.Errorf("%w: nil covariance", ErrCovarianceSizeMismatch)
	}
	r, c := R.Dims()
	if m := g.Size(); r != m || c != m {
		return fmt.Errorf("%w: covariance is %dx%d, array has %d sensors", ErrCovarianceSizeMismatch, r, c, m)
	}
	return nil
}

// Estimate locates k sources from the covariance matrix R.
//
// A result with Resolved == false is not an error: it means fewer than k
// peaks were found, which is common at low SNR. Errors are reserved for
// invalid inputs and are returned before any numeric work.
func (e *Estimator) Estimate(R *mat.CDense, k int, opts ...EstimateOption) (*Result, error) {
	if err := EnsureCovarianceSize(R, e.array); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSourceCount, k)
	}

	cfg := DefaultEstimateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	f, err := e.spectrum.Bind(R, k)
	if err != nil {
		return nil, fmt.Errorf("bind %s spectrum: %w", e.spectrum.Name(), err)
	}

	sp := f(e.steering)
	logger := e.logger.WithFields(logging.Fields{"sources": k})
	logger.Debug("Spectrum evaluated", logging.Fields{
		"grid_points": len(sp),
	})

	result := &Result{}
	if cfg.ReturnSpectrum {
		result.Spectrum = sp
	}

	shape := e.grid.Shape()
	peaks, ok := ResolvePeaks(sp, shape, k)
	if !ok {
		logger.Debug("Fewer peaks than sources, estimate unresolved")
		return result, nil
	}

	coords := make([][]float64, k)
	for i, idx := range peaks {
		coords[i] = e.grid.PointAt(idx)
	}

	if cfg.RefineEstimates {
		for i, idx := range peaks {
			refined, err := e.refine(f, grid.Unravel(shape, idx), cfg.RefinementDensity, cfg.RefinementIters)
			if err != nil {
				return nil, err
			}
			if refined != nil {
				coords[i] = refined
			}
		}
		// Refined intervals of distinct peaks touch at most at one point.
		slices.SortStableFunc(coords, compareCoords)
		logger.Debug("Estimates refined", logging.Fields{
			"density":    cfg.RefinementDensity,
			"iterations": cfg.RefinementIters,
		})
	}

	estimates, err := source.FromCoords(e.grid.Kind(), coords, e.grid.Unit())
	if err != nil {
		return nil, err
	}

	result.Resolved = true
	result.Estimates = estimates.In(cfg.Unit)
	return result, nil
}

// refine sharpens a single estimate: each round evaluates the spectrum on a
// local grid around the current best point and moves to its maximum.
// It returns nil when no round produced a finite maximum.
func (e *Estimator) refine(f spectrum.Func, center []int, density, iters int) ([]float64, error) {
	sub, err := e.grid.Refine(center, density, refinementSpan)
	if err != nil {
		return nil, fmt.Errorf("refine around %v: %w", center, err)
	}

	var best []float64
	for round := range iters {
		A, err := array.SteeringMatrix(e.array, sub.Points(), e.wavelength)
		if err != nil {
			return nil, fmt.Errorf("refinement steering matrix: %w", err)
		}

		i := argmaxFinite(f(A))
		if i < 0 {
			break
		}
		best = sub.PointAt(i)

		if round < iters-1 {
			sub, err = sub.Refine(grid.Unravel(sub.Shape(), i), density, refinementSpan)
			if err != nil {
				return nil, fmt.Errorf("refine around %v: %w", best, err)
			}
		}
	}

	return best, nil
}

func compareCoords(a, b []float64) int {
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// MaxAbsError returns the largest absolute difference between matching
// coordinates of two placements of the same kind, compared in radians.
// It returns +Inf when the placements cannot be compared.
func MaxAbsError(estimates, truth source.Placement) float64 {
	if estimates == nil || truth == nil || estimates.Kind() != truth.Kind() || estimates.Len() != truth.Len() {
		return math.Inf(1)
	}
	a := estimates.In(source.Radian)
	b := truth.In(source.Radian)

	var worst float64
	for i := range a.Len() {
		ca, cb := a.Coords(i), b.Coords(i)
		for j := range ca {
			worst = math.Max(worst, math.Abs(ca[j]-cb[j]))
		}
	}
	return worst
}

package estimation

import (
	"fmt"

	"github.com/RyanBlaney/sonido-doa/logging"
	"github.com/RyanBlaney/sonido-doa/source"
)

// EstimateConfig controls a single Estimate call
type EstimateConfig struct {
	// ReturnSpectrum includes the base-grid spectrum in the result
	ReturnSpectrum bool `yaml:"returnSpectrum"`
	// RefineEstimates enables local grid refinement around each peak
	RefineEstimates bool `yaml:"refineEstimates"`
	// RefinementDensity is the number of refined points per parent grid cell
	RefinementDensity int `yaml:"refinementDensity"`
	// RefinementIters is the number of refinement rounds
	RefinementIters int `yaml:"refinementIters"`
	// Unit of the returned direction values
	Unit source.Unit `yaml:"-"`
}

// DefaultEstimateConfig returns the defaults: no spectrum, no refinement
// (density 10, 3 rounds when enabled), radians
func DefaultEstimateConfig() EstimateConfig {
	return EstimateConfig{
		ReturnSpectrum:    false,
		RefineEstimates:   false,
		RefinementDensity: 10,
		RefinementIters:   3,
		Unit:              source.Radian,
	}
}

func (c EstimateConfig) validate() error {
	if c.RefinementDensity < 1 {
		return fmt.Errorf("%w: refinement density %d", ErrInvalidOption, c.RefinementDensity)
	}
	if c.RefinementIters < 1 {
		return fmt.Errorf("%w: refinement iterations %d", ErrInvalidOption, c.RefinementIters)
	}
	if c.Unit != source.Radian && c.Unit != source.Degree {
		return fmt.Errorf("%w: unit %v", ErrInvalidOption, c.Unit)
	}
	return nil
}

// EstimateOption customizes an Estimate call
type EstimateOption func(*EstimateConfig)

// WithConfig replaces the whole configuration
func WithConfig(cfg EstimateConfig) EstimateOption {
	return func(c *EstimateConfig) { *c = cfg }
}

// WithReturnSpectrum includes the base-grid spectrum in the result
func WithReturnSpectrum() EstimateOption {
	return func(c *EstimateConfig) { c.ReturnSpectrum = true }
}

// WithRefinement enables grid refinement with the given density and rounds
func WithRefinement(density, iters int) EstimateOption {
	return func(c *EstimateConfig) {
		c.RefineEstimates = true
		c.RefinementDensity = density
		c.RefinementIters = iters
	}
}

// WithRefineEstimates toggles grid refinement with the current density and rounds
func WithRefineEstimates(enabled bool) EstimateOption {
	return func(c *EstimateConfig) { c.RefineEstimates = enabled }
}

// WithUnit sets the unit of the returned directions
func WithUnit(u source.Unit) EstimateOption {
	return func(c *EstimateConfig) { c.Unit = u }
}

// Option customizes estimator construction
type Option func(*Estimator)

// WithLogger sets the estimator's logger
func WithLogger(l logging.Logger) Option {
	return func(e *Estimator) {
		if l == nil {
			l = &logging.NoOpLogger{}
		}
		e.logger = l
	}
}

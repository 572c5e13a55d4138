package app

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"slices"

	"github.com/RyanBlaney/sonido-doa/array"
	"github.com/RyanBlaney/sonido-doa/estimation"
	"github.com/RyanBlaney/sonido-doa/grid"
	"github.com/RyanBlaney/sonido-doa/logging"
	"github.com/RyanBlaney/sonido-doa/simulate"
	"github.com/RyanBlaney/sonido-doa/source"
	"github.com/RyanBlaney/sonido-doa/spectrum"
	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Report summarizes one simulated estimation run
type Report struct {
	Method    string
	Resolved  bool
	Truth     source.Placement
	Estimates source.Placement
	// Errors holds the absolute per-coordinate errors in radians
	Errors    []float64
	MeanError float64
	MaxError  float64
	Spectrum  []float64
}

// Run simulates the configured scenario, estimates the source directions and
// writes a short report to out
func Run(ctx context.Context, config *Config, logger logging.Logger, out io.Writer) (*Report, error) {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	logger = logger.WithContext(ctx).WithFields(logging.Fields{"component": "doascan"})

	sensors, err := createArray(&config.Array)
	if err != nil {
		return nil, fmt.Errorf("failed to create array: %w", err)
	}

	sg, err := createGrid(&config.Grid)
	if err != nil {
		return nil, fmt.Errorf("failed to create search grid: %w", err)
	}

	truth, err := createPlacement(&config.Sources, sg.Kind())
	if err != nil {
		return nil, fmt.Errorf("failed to create sources: %w", err)
	}

	est, err := createEstimator(&config.Estimator, sensors, config.Wavelength, sg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create estimator: %w", err)
	}

	logger.Info("scenario ready", logging.Fields{
		"array":      sensors.Name(),
		"sensors":    sensors.Size(),
		"grid_size":  humanize.Comma(int64(sg.Size())),
		"wavelength": humanize.SIWithDigits(config.Wavelength, 3, "m"),
		"method":     est.Name(),
		"sources":    truth.Len(),
	})

	R, err := simulateCovariance(config, sensors, truth)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate snapshots: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	opts, err := estimateOptions(&config.Estimator, config.Output.Plot != "")
	if err != nil {
		return nil, err
	}
	res, err := est.Estimate(R, truth.Len(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate: %w", err)
	}

	report := &Report{
		Method:    est.Name(),
		Resolved:  res.Resolved,
		Truth:     truth,
		Estimates: res.Estimates,
		Spectrum:  res.Spectrum,
		MeanError: math.Inf(1),
		MaxError:  math.Inf(1),
	}
	if res.Resolved {
		report.Errors = coordinateErrors(res.Estimates, truth)
		report.MeanError = stat.Mean(report.Errors, nil)
		report.MaxError = floats.Max(report.Errors)
	} else {
		logger.Warn("sources not resolved", logging.Fields{"sources": truth.Len()})
	}

	writeReport(out, report, sg)

	if path := config.Output.Plot; path != "" {
		if err = savePlot(path, sg, report); err != nil {
			return nil, fmt.Errorf("failed to save plot: %w", err)
		}
		logger.Info("spectrum plot saved", logging.Fields{
			"path":             path,
			"dynamic_range_db": humanize.FtoaWithDigits(dynamicRange(normalizeDB(report.Spectrum)), 1),
		})
	}

	return report, nil
}

func createArray(config *ArrayConfig) (*array.SensorArray, error) {
	switch config.Type {
	case ArrayTypeULA:
		return array.NewUniformLinearArray(config.Sensors, config.Spacing)
	case ArrayTypeUCA:
		return array.NewUniformCircularArray(config.Sensors, config.Radius)
	default:
		return nil, fmt.Errorf("unknown array type '%s'", config.Type)
	}
}

func createGrid(config *GridConfig) (*grid.Grid, error) {
	unit, err := source.ParseUnit(config.Unit)
	if err != nil {
		return nil, err
	}
	switch config.Kind {
	case GridFarField1D:
		return grid.NewFarField1D(config.Start[0], config.Stop[0], config.Size[0], unit)
	case GridFarField2D:
		return grid.NewFarField2D(
			config.Start[0], config.Stop[0], config.Size[0],
			config.Start[1], config.Stop[1], config.Size[1],
			unit,
		)
	default:
		return nil, fmt.Errorf("unknown grid kind '%s'", config.Kind)
	}
}

func createPlacement(config *SourcesConfig, kind source.Kind) (source.Placement, error) {
	unit, err := source.ParseUnit(config.Unit)
	if err != nil {
		return nil, err
	}
	return source.FromCoords(kind, sortedCoords(config.Locations), unit)
}

func createEstimator(config *EstimatorConfig, g array.Geometry, wavelength float64, sg grid.SearchGrid, logger logging.Logger) (*estimation.Estimator, error) {
	var sp spectrum.Spectrum
	switch config.Method {
	case MethodBartlett:
		taper := spectrum.TaperNone
		if config.Taper != "" {
			var err error
			if taper, err = spectrum.ParseTaper(config.Taper); err != nil {
				return nil, err
			}
		}
		sp = spectrum.NewTaperedBartlett(taper)
	case MethodMVDR:
		sp = spectrum.NewMVDR()
	case MethodMUSIC:
		sp = spectrum.NewMUSIC()
	default:
		return nil, fmt.Errorf("unknown estimator method '%s'", config.Method)
	}
	return estimation.New(g, wavelength, sg, sp, estimation.WithLogger(logger.WithFields(logging.Fields{
		"component": "doa_estimator",
		"spectrum":  sp.Name(),
	})))
}

func estimateOptions(config *EstimatorConfig, plotting bool) ([]estimation.EstimateOption, error) {
	unit, err := source.ParseUnit(config.Unit)
	if err != nil {
		return nil, err
	}
	cfg := config.EstimateConfig
	cfg.Unit = unit
	// The plot always needs the spectrum.
	cfg.ReturnSpectrum = cfg.ReturnSpectrum || plotting
	return []estimation.EstimateOption{estimation.WithConfig(cfg)}, nil
}

func simulateCovariance(config *Config, g array.Geometry, p source.Placement) (*mat.CDense, error) {
	rng := rand.New(rand.NewSource(config.Settings.Seed))

	src, err := simulate.NewComplexStochasticSignal(p.Len(), config.Sources.Power)
	if err != nil {
		return nil, err
	}
	noise, err := simulate.NewComplexStochasticSignal(g.Size(), simulate.NoisePower(config.Sources.Power, config.Sources.SNR))
	if err != nil {
		return nil, err
	}

	_, R, err := simulate.Snapshots(rng, g, p, config.Wavelength, src, noise, config.Sources.Snapshots)
	return R, err
}

// sortedCoords returns a lexicographically sorted copy, matching the order
// of the estimates
func sortedCoords(coords [][]float64) [][]float64 {
	out := make([][]float64, len(coords))
	for i, c := range coords {
		out[i] = slices.Clone(c)
	}
	slices.SortStableFunc(out, func(a, b []float64) int {
		return slices.CompareFunc(a, b, cmp.Compare[float64])
	})
	return out
}

func coordinateErrors(estimates, truth source.Placement) []float64 {
	a := estimates.In(source.Radian)
	b := truth.In(source.Radian)

	var errs []float64
	for i := range a.Len() {
		ca, cb := a.Coords(i), b.Coords(i)
		for j := range ca {
			errs = append(errs, math.Abs(ca[j]-cb[j]))
		}
	}
	return errs
}

func writeReport(out io.Writer, r *Report, sg grid.SearchGrid) {
	if out == nil {
		return
	}
	fmt.Fprintf(out, "method:   %s\n", r.Method)
	fmt.Fprintf(out, "grid:     %s points %v\n", humanize.Comma(int64(sg.Size())), sg.Shape())
	fmt.Fprintf(out, "truth:    %v\n", r.Truth)
	if !r.Resolved {
		fmt.Fprintf(out, "result:   unresolved\n")
		return
	}
	fmt.Fprintf(out, "estimate: %v\n", r.Estimates)
	fmt.Fprintf(out, "error:    mean %s rad, max %s rad\n",
		humanize.FtoaWithDigits(r.MeanError, 6), humanize.FtoaWithDigits(r.MaxError, 6))
}

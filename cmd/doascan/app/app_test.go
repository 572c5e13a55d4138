package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/RyanBlaney/sonido-doa/cmd/doascan/app"
	"github.com/RyanBlaney/sonido-doa/logging"
	"github.com/RyanBlaney/sonido-doa/source"
	"github.com/stretchr/testify/require"
)

const ulaScenario = `
settings:
  logLevel: debug
  seed: 7
array:
  type: ula
  sensors: 10
  spacing: 0.5
sources:
  unit: deg
  locations: [[15], [-20]]
  snr: 10
  snapshots: 200
grid:
  kind: farfield1d
  unit: deg
  start: [-90]
  stop: [90]
  size: [361]
estimator:
  method: mvdr
  unit: deg
  refineEstimates: true
  returnSpectrum: true
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ulaScenario), 0o600))

	cfg, err := app.LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Settings.LogLevel)
	require.Equal(t, int64(7), cfg.Settings.Seed)
	require.Equal(t, app.ArrayTypeULA, cfg.Array.Type)
	require.Equal(t, 10, cfg.Array.Sensors)
	require.Equal(t, [][]float64{{15}, {-20}}, cfg.Sources.Locations)
	require.Equal(t, app.MethodMVDR, cfg.Estimator.Method)
	require.True(t, cfg.Estimator.RefineEstimates)
	require.True(t, cfg.Estimator.ReturnSpectrum)

	// Unset keys keep their defaults.
	require.Equal(t, 1.0, cfg.Wavelength)
	require.Equal(t, 1.0, cfg.Sources.Power)
	require.Equal(t, 10, cfg.Estimator.RefinementDensity)
	require.Equal(t, 3, cfg.Estimator.RefinementIters)

	_, err = app.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"malformed":        "array: [",
		"no sources":       "sources: {locations: []}",
		"array type":       "array: {type: planar}\nsources: {locations: [[0]]}",
		"grid kind":        "grid: {kind: nearfield}\nsources: {locations: [[0]]}",
		"axis count":       "grid: {kind: farfield2d, start: [0], stop: [1], size: [3]}\nsources: {locations: [[0, 0]]}",
		"source dimension": "sources: {locations: [[0, 1]]}",
		"method":           "sources: {locations: [[0]]}\nestimator: {method: capon}",
		"taper on mvdr":    "sources: {locations: [[0]]}\nestimator: {method: mvdr, taper: hann}",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := app.ParseConfig([]byte(data))
			require.ErrorIs(t, err, app.ErrInvalidConfig)
		})
	}
}

func TestRun_LinearArray(t *testing.T) {
	cfg, err := app.ParseConfig([]byte(ulaScenario))
	require.NoError(t, err)

	var out bytes.Buffer
	report, err := app.Run(context.Background(), cfg, &logging.NoOpLogger{}, &out)
	require.NoError(t, err)

	require.Equal(t, "mvdr", report.Method)
	require.True(t, report.Resolved)
	require.Len(t, report.Spectrum, 361)

	// Truth is reported in ascending order, like the estimates.
	require.Equal(t, []float64{-20}, report.Truth.Coords(0))
	require.Equal(t, []float64{15}, report.Truth.Coords(1))
	require.Equal(t, source.Degree, report.Estimates.Unit())

	require.Len(t, report.Errors, 2)
	require.Less(t, report.MaxError, 0.02)
	require.LessOrEqual(t, report.MeanError, report.MaxError)

	require.Contains(t, out.String(), "method:   mvdr")
	require.Contains(t, out.String(), "grid:     361 points")
	require.Contains(t, out.String(), "estimate:")
}

func TestRun_Deterministic(t *testing.T) {
	cfg, err := app.ParseConfig([]byte(ulaScenario))
	require.NoError(t, err)

	first, err := app.Run(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	second, err := app.Run(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	require.Equal(t, first.Estimates, second.Estimates)
	require.Equal(t, first.Spectrum, second.Spectrum)
}

func TestRun_TaperedBartlett(t *testing.T) {
	cfg, err := app.ParseConfig([]byte(ulaScenario))
	require.NoError(t, err)
	cfg.Estimator.Method = app.MethodBartlett
	cfg.Estimator.Taper = "hann"
	cfg.Estimator.ReturnSpectrum = false

	report, err := app.Run(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "bartlett/hann", report.Method)
	require.True(t, report.Resolved)
	require.Less(t, report.MaxError, 0.05)
	require.Nil(t, report.Spectrum)
}

func TestRun_CircularArray(t *testing.T) {
	const scenario = `
array:
  type: uca
  sensors: 8
  radius: 0.8
sources:
  unit: deg
  locations: [[30, 20]]
  snr: 20
  snapshots: 200
grid:
  kind: farfield2d
  unit: deg
  start: [0, 0]
  stop: [90, 60]
  size: [46, 31]
estimator:
  method: bartlett
  refineEstimates: true
`
	cfg, err := app.ParseConfig([]byte(scenario))
	require.NoError(t, err)

	var out bytes.Buffer
	report, err := app.Run(context.Background(), cfg, nil, &out)
	require.NoError(t, err)
	require.True(t, report.Resolved)
	require.Equal(t, source.FarField2DKind, report.Estimates.Kind())
	require.Less(t, report.MaxError, 0.02)
	require.Contains(t, out.String(), "1,426 points")
}

func TestRun_Unresolved(t *testing.T) {
	cfg, err := app.ParseConfig([]byte(ulaScenario))
	require.NoError(t, err)
	// A two-sensor beam pattern has at most two local maxima.
	cfg.Array.Sensors = 2
	cfg.Sources.Locations = [][]float64{{-1}, {0}, {0.5}}
	cfg.Estimator.Method = app.MethodBartlett

	var out bytes.Buffer
	report, err := app.Run(context.Background(), cfg, nil, &out)
	require.NoError(t, err)
	require.False(t, report.Resolved)
	require.Nil(t, report.Estimates)
	require.Contains(t, out.String(), "unresolved")
}

func TestRun_Cancelled(t *testing.T) {
	cfg, err := app.ParseConfig([]byte(ulaScenario))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = app.Run(ctx, cfg, nil, nil)
	require.ErrorIs(t, err, context.Canceled)
}

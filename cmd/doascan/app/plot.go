package app

import (
	"fmt"
	"image/color"
	"math"

	"github.com/RyanBlaney/sonido-doa/grid"
	"github.com/RyanBlaney/sonido-doa/source"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// floorDB is the lowest level drawn, relative to the spectrum maximum
const floorDB = -60.0

// normalizeDB maps a spectrum to decibels relative to its largest finite
// value, clamped to floorDB. Non-finite samples map to 0 dB when positive
// and to the floor otherwise.
func normalizeDB(sp []float64) []float64 {
	peak := math.Inf(-1)
	for _, v := range sp {
		if !math.IsInf(v, 0) && !math.IsNaN(v) && v > peak {
			peak = v
		}
	}

	out := make([]float64, len(sp))
	for i, v := range sp {
		switch {
		case math.IsInf(v, 1):
			out[i] = 0
		case math.IsNaN(v) || v <= 0 || peak <= 0:
			out[i] = floorDB
		default:
			out[i] = math.Max(10*math.Log10(v/peak), floorDB)
		}
	}
	return out
}

// savePlot draws the base-grid spectrum and the estimates into path.
// The image format follows the file extension.
func savePlot(path string, sg grid.SearchGrid, r *Report) error {
	if len(r.Spectrum) != sg.Size() {
		return fmt.Errorf("spectrum has %d samples for %d grid points", len(r.Spectrum), sg.Size())
	}

	p := plot.New()
	p.Title.Text = r.Method
	p.Add(plotter.NewGrid())

	db := normalizeDB(r.Spectrum)
	axes := sg.Axes()
	unit := sg.Unit()

	switch sg.Kind() {
	case source.FarField1DKind:
		p.X.Label.Text = fmt.Sprintf("Angle (%s)", unit)
		p.Y.Label.Text = "Power (dB)"

		pts := make(plotter.XYs, len(db))
		for i := range db {
			pts[i].X = axes[0][i]
			pts[i].Y = db[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
		p.Add(line)
		p.Legend.Add("spectrum", line)

	case source.FarField2DKind:
		p.X.Label.Text = fmt.Sprintf("Azimuth (%s)", unit)
		p.Y.Label.Text = fmt.Sprintf("Elevation (%s)", unit)
		p.Add(plotter.NewHeatMap(&heatGrid{az: axes[0], el: axes[1], db: db}, palette.Heat(32, 1)))

	default:
		return fmt.Errorf("cannot plot %v grid", sg.Kind())
	}

	if r.Resolved {
		marks, err := estimateMarks(r.Estimates.In(unit), sg.Kind(), db, sg)
		if err != nil {
			return err
		}
		p.Add(marks)
		p.Legend.Add("estimates", marks)
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

func estimateMarks(est source.Placement, kind source.Kind, db []float64, sg grid.SearchGrid) (*plotter.Scatter, error) {
	pts := make(plotter.XYs, est.Len())
	for i := range est.Len() {
		c := est.Coords(i)
		if kind == source.FarField1DKind {
			idx, err := sg.NearestIndex(c)
			if err != nil {
				return nil, err
			}
			pts[i].X, pts[i].Y = c[0], db[idx[0]]
			continue
		}
		pts[i].X, pts[i].Y = c[0], c[1]
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.Color = color.RGBA{R: 255, G: 105, B: 180, A: 255}
	return s, nil
}

// heatGrid exposes a row-major (azimuth, elevation) spectrum as plotter.GridXYZ
type heatGrid struct {
	az, el []float64
	db     []float64
}

func (g *heatGrid) Dims() (c, r int)   { return len(g.az), len(g.el) }
func (g *heatGrid) Z(c, r int) float64 { return g.db[c*len(g.el)+r] }
func (g *heatGrid) X(c int) float64    { return g.az[c] }
func (g *heatGrid) Y(r int) float64    { return g.el[r] }

// dynamicRange returns the spread between the strongest and weakest drawn level
func dynamicRange(db []float64) float64 {
	if len(db) == 0 {
		return 0
	}
	return floats.Max(db) - floats.Min(db)
}

package grid

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-doa/source"
	"gonum.org/v1/gonum/floats"
)

// SearchGrid is an ordered, finite set of candidate source locations.
// Points are enumerated in row-major order over Shape().
type SearchGrid interface {
	// Kind is the placement family of the grid points
	Kind() source.Kind
	// Unit is the unit of the axis values
	Unit() source.Unit
	// Size returns the number of grid points
	Size() int
	// Shape returns the number of points along each axis
	Shape() []int
	// Axes returns a copy of the axis values
	Axes() [][]float64
	// Points returns all grid points as a new placement, identical on every call
	Points() source.Placement
	// PointAt returns the coordinates of the point with the given flat index
	PointAt(index int) []float64
	// NearestIndex returns the per-axis index of the grid point closest to coords
	NearestIndex(coords []float64) ([]int, error)
	// Refine builds a denser grid of the same family around center (per-axis indices)
	Refine(center []int, density, span int) (SearchGrid, error)
}

// Grid is a rectilinear grid with one sorted axis per coordinate
type Grid struct {
	kind source.Kind
	unit source.Unit
	axes [][]float64
}

// DefaultFarField1D returns the 1D far-field grid covering [-π/2, π/2] with 180 points
func DefaultFarField1D() *Grid {
	g, _ := NewFarField1D(-math.Pi/2, math.Pi/2, 180, source.Radian)
	return g
}

// NewFarField1D creates a uniform grid of broadside angles in [start, stop]
func NewFarField1D(start, stop float64, size int, unit source.Unit) (*Grid, error) {
	axis, err := uniformAxis("angle", start, stop, size)
	if err != nil {
		return nil, err
	}
	return &Grid{
		kind: source.FarField1DKind,
		unit: unit,
		axes: [][]float64{axis},
	}, nil
}

// NewFarField2D creates a uniform azimuth × elevation grid
func NewFarField2D(azStart, azStop float64, azSize int, elStart, elStop float64, elSize int, unit source.Unit) (*Grid, error) {
	az, err := uniformAxis("azimuth", azStart, azStop, azSize)
	if err != nil {
		return nil, err
	}
	el, err := uniformAxis("elevation", elStart, elStop, elSize)
	if err != nil {
		return nil, err
	}
	return &Grid{
		kind: source.FarField2DKind,
		unit: unit,
		axes: [][]float64{az, el},
	}, nil
}

func uniformAxis(name string, start, stop float64, size int) ([]float64, error) {
	if math.IsNaN(start) || math.IsNaN(stop) || math.IsInf(start, 0) || math.IsInf(stop, 0) {
		return nil, fmt.Errorf("%w: %s bounds must be finite", ErrInvalidGrid, name)
	}
	if size == 1 {
		if start != stop {
			return nil, fmt.Errorf("%w: single-point %s axis needs start == stop", ErrInvalidGrid, name)
		}
		return []float64{start}, nil
	}
	if size < 2 {
		return nil, fmt.Errorf("%w: %s axis size %d", ErrInvalidGrid, name, size)
	}
	if !(start < stop) {
		return nil, fmt.Errorf("%w: %s axis needs start < stop, got [%v, %v]", ErrInvalidGrid, name, start, stop)
	}
	return floats.Span(make([]float64, size), start, stop), nil
}

func (g *Grid) Kind() source.Kind { return g.kind }
func (g *Grid) Unit() source.Unit { return g.unit }

func (g *Grid) Size() int {
	n := 1
	for _, a := range g.axes {
		n *= len(a)
	}
	return n
}

func (g *Grid) Shape() []int {
	shape := make([]int, len(g.axes))
	for i, a := range g.axes {
		shape[i] = len(a)
	}
	return shape
}

func (g *Grid) Axes() [][]float64 {
	axes := make([][]float64, len(g.axes))
	for i, a := range g.axes {
		axes[i] = append([]float64(nil), a...)
	}
	return axes
}

func (g *Grid) PointAt(index int) []float64 {
	multi := Unravel(g.Shape(), index)
	coords := make([]float64, len(g.axes))
	for i, a := range g.axes {
		coords[i] = a[multi[i]]
	}
	return coords
}

func (g *Grid) Points() source.Placement {
	coords := make([][]float64, g.Size())
	for i := range coords {
		coords[i] = g.PointAt(i)
	}
	// Grid kinds are always valid placement kinds.
	p, _ := source.FromCoords(g.kind, coords, g.unit)
	return p
}

func (g *Grid) NearestIndex(coords []float64) ([]int, error) {
	if len(coords) != len(g.axes) {
		return nil, fmt.Errorf("%w: got %d coordinates for a %d-axis grid", ErrInvalidRefinement, len(coords), len(g.axes))
	}
	idx := make([]int, len(g.axes))
	for i, a := range g.axes {
		idx[i] = floats.NearestIdx(a, coords[i])
	}
	return idx, nil
}

// Refine returns a grid spanning, on each axis, the parent points from
// center-span to center+span with density points per parent cell.
// The span is clipped to the parent axis, so a refined grid never leaves the
// parent's domain; near a boundary it becomes one-sided.
func (g *Grid) Refine(center []int, density, span int) (SearchGrid, error) {
	if density < 1 {
		return nil, fmt.Errorf("%w: density %d", ErrInvalidRefinement, density)
	}
	if span < 1 {
		return nil, fmt.Errorf("%w: span %d", ErrInvalidRefinement, span)
	}
	if len(center) != len(g.axes) {
		return nil, fmt.Errorf("%w: center has %d indices for a %d-axis grid", ErrInvalidRefinement, len(center), len(g.axes))
	}

	axes := make([][]float64, len(g.axes))
	for i, a := range g.axes {
		c := center[i]
		if c < 0 || c >= len(a) {
			return nil, fmt.Errorf("%w: center index %d out of range [0, %d)", ErrInvalidRefinement, c, len(a))
		}
		lo := max(c-span, 0)
		hi := min(c+span, len(a)-1)
		if lo == hi {
			axes[i] = []float64{a[c]}
			continue
		}
		axes[i] = floats.Span(make([]float64, density*(hi-lo)+1), a[lo], a[hi])
	}

	return &Grid{kind: g.kind, unit: g.unit, axes: axes}, nil
}

func (g *Grid) String() string {
	return fmt.Sprintf("%s grid %v [%s]", g.kind, g.Shape(), g.unit)
}

// Unravel converts a row-major flat index into per-axis indices
func Unravel(shape []int, index int) []int {
	multi := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		multi[i] = index % shape[i]
		index /= shape[i]
	}
	return multi
}

// Ravel converts per-axis indices into a row-major flat index
func Ravel(shape []int, multi []int) int {
	index := 0
	for i, n := range shape {
		index = index*n + multi[i]
	}
	return index
}

package array

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Geometry describes the sensor layout of an array
type Geometry interface {
	// Name returns a short human-readable description
	Name() string
	// Size returns the number of sensors M
	Size() int
	// Dim returns the number of position coordinates per sensor (1, 2 or 3)
	Dim() int
	// Positions returns a copy of the M×Dim sensor position matrix
	Positions() *mat.Dense
}

// SensorArray is an arbitrary array given by explicit sensor positions.
// Positions share the length unit of the wavelength used for steering.
type SensorArray struct {
	name      string
	positions *mat.Dense
}

// NewSensorArray creates an array from an M×d position matrix, d in 1..3
func NewSensorArray(name string, positions *mat.Dense) (*SensorArray, error) {
	if positions == nil {
		return nil, fmt.Errorf("%w: nil positions", ErrInvalidGeometry)
	}
	m, d := positions.Dims()
	if m < 1 {
		return nil, fmt.Errorf("%w: array needs at least one sensor", ErrInvalidGeometry)
	}
	if d < 1 || d > 3 {
		return nil, fmt.Errorf("%w: positions have %d coordinates, want 1..3", ErrInvalidGeometry, d)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < d; j++ {
			v := positions.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: sensor %d has non-finite position", ErrInvalidGeometry, i)
			}
		}
	}

	return &SensorArray{
		name:      name,
		positions: mat.DenseCopyOf(positions),
	}, nil
}

// NewUniformLinearArray places n sensors along the x axis with the given spacing
func NewUniformLinearArray(n int, spacing float64) (*SensorArray, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: sensor count %d", ErrInvalidGeometry, n)
	}
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return nil, fmt.Errorf("%w: spacing %v", ErrInvalidGeometry, spacing)
	}

	x := make([]float64, n)
	for i := range n {
		x[i] = float64(i) * spacing
	}
	return &SensorArray{
		name:      fmt.Sprintf("ULA(%d, d=%g)", n, spacing),
		positions: mat.NewDense(n, 1, x),
	}, nil
}

// NewUniformCircularArray places n sensors on a circle of the given radius in the xy plane
func NewUniformCircularArray(n int, radius float64) (*SensorArray, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: sensor count %d", ErrInvalidGeometry, n)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: radius %v", ErrInvalidGeometry, radius)
	}

	pos := mat.NewDense(n, 2, nil)
	for i := range n {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pos.Set(i, 0, radius*cos)
		pos.Set(i, 1, radius*sin)
	}
	return &SensorArray{
		name:      fmt.Sprintf("UCA(%d, r=%g)", n, radius),
		positions: pos,
	}, nil
}

func (a *SensorArray) Name() string { return a.name }

func (a *SensorArray) Size() int {
	m, _ := a.positions.Dims()
	return m
}

func (a *SensorArray) Dim() int {
	_, d := a.positions.Dims()
	return d
}

func (a *SensorArray) Positions() *mat.Dense {
	return mat.DenseCopyOf(a.positions)
}

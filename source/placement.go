package source

import (
	"fmt"
	"math"
	"strings"
)

// Unit represents the angular unit of direction values
type Unit int

const (
	Radian Unit = iota
	Degree
)

func (u Unit) String() string {
	switch u {
	case Radian:
		return "rad"
	case Degree:
		return "deg"
	default:
		return "unknown"
	}
}

// ParseUnit parses "rad"/"radian"/"deg"/"degree" (case-insensitive)
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rad", "radian", "radians":
		return Radian, nil
	case "deg", "degree", "degrees":
		return Degree, nil
	default:
		return Radian, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
}

// ToRadians converts a value expressed in u to radians
func (u Unit) ToRadians(v float64) float64 {
	if u == Degree {
		return v * math.Pi / 180
	}
	return v
}

// FromRadians converts a value in radians to u
func (u Unit) FromRadians(v float64) float64 {
	if u == Degree {
		return v * 180 / math.Pi
	}
	return v
}

// Kind identifies the placement family
type Kind int

const (
	FarField1DKind Kind = iota
	FarField2DKind
)

func (k Kind) String() string {
	switch k {
	case FarField1DKind:
		return "farfield1d"
	case FarField2DKind:
		return "farfield2d"
	default:
		return "unknown"
	}
}

// Placement is an ordered, immutable set of source locations
type Placement interface {
	Kind() Kind
	Unit() Unit
	// Len returns the number of sources
	Len() int
	// Dim returns the number of coordinates per source
	Dim() int
	// Coords returns a copy of the coordinates of source i, in Unit()
	Coords(i int) []float64
	// In returns the same placement expressed in another unit
	In(u Unit) Placement
}

// FromCoords wraps raw coordinates into a placement of the given kind
func FromCoords(kind Kind, coords [][]float64, unit Unit) (Placement, error) {
	switch kind {
	case FarField1DKind:
		locs := make([]float64, len(coords))
		for i, c := range coords {
			if len(c) != 1 {
				return nil, fmt.Errorf("%w: source %d has %d coordinates, want 1", ErrCoordinates, i, len(c))
			}
			locs[i] = c[0]
		}
		return NewFarField1D(locs, unit), nil
	case FarField2DKind:
		locs := make([][2]float64, len(coords))
		for i, c := range coords {
			if len(c) != 2 {
				return nil, fmt.Errorf("%w: source %d has %d coordinates, want 2", ErrCoordinates, i, len(c))
			}
			locs[i] = [2]float64{c[0], c[1]}
		}
		return NewFarField2D(locs, unit), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// FarField1D holds broadside angles of far-field sources impinging on a linear array
type FarField1D struct {
	locations []float64
	unit      Unit
}

// NewFarField1D creates a 1D far-field placement. The input slice is copied.
func NewFarField1D(locations []float64, unit Unit) *FarField1D {
	locs := make([]float64, len(locations))
	copy(locs, locations)
	return &FarField1D{locations: locs, unit: unit}
}

func (p *FarField1D) Kind() Kind { return FarField1DKind }
func (p *FarField1D) Unit() Unit { return p.unit }
func (p *FarField1D) Len() int   { return len(p.locations) }
func (p *FarField1D) Dim() int   { return 1 }

func (p *FarField1D) Coords(i int) []float64 {
	return []float64{p.locations[i]}
}

// Locations returns a copy of the angles
func (p *FarField1D) Locations() []float64 {
	locs := make([]float64, len(p.locations))
	copy(locs, p.locations)
	return locs
}

func (p *FarField1D) In(u Unit) Placement {
	if u == p.unit {
		return p
	}
	locs := make([]float64, len(p.locations))
	for i, v := range p.locations {
		locs[i] = u.FromRadians(p.unit.ToRadians(v))
	}
	return &FarField1D{locations: locs, unit: u}
}

func (p *FarField1D) String() string {
	return fmt.Sprintf("FarField1D%v[%s]", p.locations, p.unit)
}

// FarField2D holds (azimuth, elevation) pairs of far-field sources
type FarField2D struct {
	locations [][2]float64
	unit      Unit
}

// NewFarField2D creates a 2D far-field placement. The input slice is copied.
func NewFarField2D(locations [][2]float64, unit Unit) *FarField2D {
	locs := make([][2]float64, len(locations))
	copy(locs, locations)
	return &FarField2D{locations: locs, unit: unit}
}

func (p *FarField2D) Kind() Kind { return FarField2DKind }
func (p *FarField2D) Unit() Unit { return p.unit }
func (p *FarField2D) Len() int   { return len(p.locations) }
func (p *FarField2D) Dim() int   { return 2 }

func (p *FarField2D) Coords(i int) []float64 {
	return []float64{p.locations[i][0], p.locations[i][1]}
}

// Locations returns a copy of the (azimuth, elevation) pairs
func (p *FarField2D) Locations() [][2]float64 {
	locs := make([][2]float64, len(p.locations))
	copy(locs, p.locations)
	return locs
}

func (p *FarField2D) In(u Unit) Placement {
	if u == p.unit {
		return p
	}
	locs := make([][2]float64, len(p.locations))
	for i, v := range p.locations {
		locs[i] = [2]float64{
			u.FromRadians(p.unit.ToRadians(v[0])),
			u.FromRadians(p.unit.ToRadians(v[1])),
		}
	}
	return &FarField2D{locations: locs, unit: u}
}

func (p *FarField2D) String() string {
	return fmt.Sprintf("FarField2D%v[%s]", p.locations, p.unit)
}

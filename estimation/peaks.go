package estimation

import (
	"math"
	"slices"
	"sort"

	"github.com/RyanBlaney/sonido-doa/grid"
	"github.com/RyanBlaney/sonido-doa/source"
)

// Peak is a strict local maximum of a spectrum
type Peak struct {
	Index int     // flat grid index
	Value float64 // spectrum value
}

// FindPeaks returns every strict local maximum of spectrum over a grid of
// the given shape, in ascending index order.
//
// A sample is a peak when it is finite and strictly greater than each of its
// grid neighbours (the 3^d-1 surrounding points that exist; a 1D boundary
// point has a single neighbour). NaN neighbours are ignored.
func FindPeaks(spectrum []float64, shape []int) []Peak {
	var peaks []Peak
	if len(spectrum) == 0 || len(shape) == 0 {
		return peaks
	}

	offsets := neighbourOffsets(len(shape))
	multi := make([]int, len(shape))
	neighbour := make([]int, len(shape))

	for i, v := range spectrum {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		copy(multi, grid.Unravel(shape, i))
		isPeak := true
		for _, off := range offsets {
			inside := true
			for d := range shape {
				neighbour[d] = multi[d] + off[d]
				if neighbour[d] < 0 || neighbour[d] >= shape[d] {
					inside = false
					break
				}
			}
			if !inside {
				continue
			}
			nv := spectrum[grid.Ravel(shape, neighbour)]
			if !math.IsNaN(nv) && v <= nv {
				isPeak = false
				break
			}
		}

		if isPeak {
			peaks = append(peaks, Peak{Index: i, Value: v})
		}
	}

	return peaks
}

// neighbourOffsets enumerates {-1,0,1}^d without the zero offset
func neighbourOffsets(d int) [][]int {
	var offsets [][]int
	total := 1
	for range d {
		total *= 3
	}
	for n := range total {
		off := make([]int, d)
		zero := true
		rem := n
		for j := range d {
			off[j] = rem%3 - 1
			rem /= 3
			if off[j] != 0 {
				zero = false
			}
		}
		if !zero {
			offsets = append(offsets, off)
		}
	}
	return offsets
}

// ResolvePeaks picks the k largest peaks of spectrum and returns their flat
// indices in ascending order. Ties go to the smaller index. It reports false
// when fewer than k peaks exist; the peak definition is never relaxed.
func ResolvePeaks(spectrum []float64, shape []int, k int) ([]int, bool) {
	if k < 1 {
		return nil, false
	}
	peaks := FindPeaks(spectrum, shape)
	if len(peaks) < k {
		return nil, false
	}

	// Sort peaks by value (descending), FindPeaks order breaks ties
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Value > peaks[j].Value
	})

	indices := make([]int, k)
	for i := range k {
		indices[i] = peaks[i].Index
	}
	slices.Sort(indices)
	return indices, true
}

// Resolve finds k sources in a spectrum evaluated over g and returns them
// as a placement of the grid's kind and unit
func Resolve(spectrum []float64, g grid.SearchGrid, k int) (bool, source.Placement) {
	if g == nil || len(spectrum) != g.Size() {
		return false, nil
	}
	indices, ok := ResolvePeaks(spectrum, g.Shape(), k)
	if !ok {
		return false, nil
	}

	coords := make([][]float64, len(indices))
	for i, idx := range indices {
		coords[i] = g.PointAt(idx)
	}
	p, err := source.FromCoords(g.Kind(), coords, g.Unit())
	if err != nil {
		return false, nil
	}
	return true, p
}

// argmaxFinite returns the index of the largest finite sample, or -1
func argmaxFinite(x []float64) int {
	best := -1
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if best < 0 || v > x[best] {
			best = i
		}
	}
	return best
}

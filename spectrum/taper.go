package spectrum

import (
	"fmt"
	"strings"

	"github.com/mjibson/go-dsp/window"
)

// TaperKind selects an aperture taper for the Bartlett beamformer
type TaperKind int

const (
	TaperNone TaperKind = iota
	TaperHamming
	TaperHann
	TaperBlackman
	TaperBartlett
	TaperFlatTop
)

func (t TaperKind) String() string {
	switch t {
	case TaperNone:
		return "none"
	case TaperHamming:
		return "hamming"
	case TaperHann:
		return "hann"
	case TaperBlackman:
		return "blackman"
	case TaperBartlett:
		return "bartlett"
	case TaperFlatTop:
		return "flattop"
	default:
		return "unknown"
	}
}

// ParseTaper maps a taper name to its kind
func ParseTaper(name string) (TaperKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "rectangular", "uniform":
		return TaperNone, nil
	case "hamming":
		return TaperHamming, nil
	case "hann", "hanning":
		return TaperHann, nil
	case "blackman":
		return TaperBlackman, nil
	case "bartlett", "triangular":
		return TaperBartlett, nil
	case "flattop", "flat-top":
		return TaperFlatTop, nil
	default:
		return TaperNone, fmt.Errorf("%w: %q", ErrUnknownTaper, name)
	}
}

// TaperWeights returns m sensor weights for the given taper
func TaperWeights(kind TaperKind, m int) ([]float64, error) {
	if m < 1 {
		return nil, fmt.Errorf("%w: %d sensors", ErrShape, m)
	}
	// The window package divides by m-1.
	if m == 1 {
		return []float64{1}, nil
	}

	switch kind {
	case TaperNone:
		return window.Rectangular(m), nil
	case TaperHamming:
		return window.Hamming(m), nil
	case TaperHann:
		return window.Hann(m), nil
	case TaperBlackman:
		return window.Blackman(m), nil
	case TaperBartlett:
		return window.Bartlett(m), nil
	case TaperFlatTop:
		return window.FlatTop(m), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownTaper, kind)
	}
}

package similarity

import (
	"fmt"
	"math"

	"github.com/poiesic/faqmatch/core"
)

// Norm selects the vector norm used to rescale embeddings before their
// inner product is taken. The same norm must be applied to stored and
// query vectors within one ranking call.
type Norm int

const (
	// NormL2 rescales by Euclidean length; dot products then behave as
	// cosine similarity. The default.
	NormL2 Norm = iota
	// NormL1 rescales by the sum of absolute components.
	NormL1
	// NormMax rescales by the largest absolute component.
	NormMax
)

// ParseNorm maps a configuration string to a Norm.
func ParseNorm(s string) (Norm, error) {
	switch s {
	case "l2", "":
		return NormL2, nil
	case "l1":
		return NormL1, nil
	case "max":
		return NormMax, nil
	default:
		return NormL2, fmt.Errorf("%w: unknown norm %q (want l1, l2 or max)", core.ErrInvalidConfig, s)
	}
}

func (n Norm) String() string {
	switch n {
	case NormL1:
		return "l1"
	case NormMax:
		return "max"
	default:
		return "l2"
	}
}

// Normalize rescales v so its norm equals 1. Returns a new slice; a zero
// vector comes back as zeros since it cannot be normalized.
func Normalize(v []float32, n Norm) []float32 {
	result := make([]float32, len(v))
	if len(v) == 0 {
		return result
	}

	var magnitude float64
	switch n {
	case NormL1:
		for _, val := range v {
			magnitude += math.Abs(float64(val))
		}
	case NormMax:
		for _, val := range v {
			if a := math.Abs(float64(val)); a > magnitude {
				magnitude = a
			}
		}
	default:
		for _, val := range v {
			magnitude += float64(val) * float64(val)
		}
		magnitude = math.Sqrt(magnitude)
	}

	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}

// Dot returns the inner product of two equal-length vectors.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/stat/distuv"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// A nil rng draws from the runtime's global source.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	uniform := distuv.Uniform{Min: -bound, Max: bound}
	if rng != nil {
		uniform.Src = rng
	}
	t := tensor.Zeros(shape)
	for i := range t.Data() {
		t.Data()[i] = uniform.Rand()
	}
	return t
}

// NormalizedRandn draws rows from N(0, 1) and scales each to unit L2 norm.
// Used for class centers.
func NormalizedRandn(rows, cols int, rng *rand.Rand) *tensor.Tensor {
	t := tensor.Randn(tensor.Shape{rows, cols}, rng)
	normalizeRows(t)
	return t
}

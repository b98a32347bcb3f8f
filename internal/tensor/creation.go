package tensor

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return New(make([]float64, shape.NumElements()), shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// ZerosLike creates a zero tensor with the same shape as t.
func ZerosLike(t *Tensor) *Tensor {
	return Zeros(t.shape)
}

// Eye creates an n×n identity matrix.
func Eye(n int) *Tensor {
	t := Zeros(Shape{n, n})
	for i := 0; i < n; i++ {
		t.data[i*n+i] = 1
	}
	return t
}

// Randn creates a tensor with values drawn from N(0, 1).
// A nil rng uses a source seeded from the runtime.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	if rng != nil {
		normal.Src = rng
	}
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = normal.Rand()
	}
	return t
}

// Rand creates a tensor with values drawn from U[0, 1).
func Rand(shape Shape, rng *rand.Rand) *Tensor {
	uniform := distuv.Uniform{Min: 0, Max: 1}
	if rng != nil {
		uniform.Src = rng
	}
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = uniform.Rand()
	}
	return t
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/capsnet/internal/tensor"
)

// Tensor is a dense, row-major float64 array.
type Tensor = tensor.Tensor

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Backend defines the operations every compute backend implements.
//
// Implementations:
//   - backend/cpu: eager float64 kernels on gonum
//
// Decorator backends for additional functionality:
//   - autodiff: records operations for reverse-mode differentiation
type Backend = tensor.Backend

// New wraps data with the given shape without copying.
// Panics if the shape and data length disagree.
func New(data []float64, shape Shape) *Tensor {
	return tensor.New(data, shape)
}

// FromSlice copies data into a new tensor with the given shape.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// Eye creates an n×n identity matrix.
func Eye(n int) *Tensor {
	return tensor.Eye(n)
}

// Randn creates a tensor with values drawn from N(0, 1).
// A nil rng uses a source seeded from the runtime.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	return tensor.Randn(shape, rng)
}

// Rand creates a tensor with values drawn from U[0, 1).
func Rand(shape Shape, rng *rand.Rand) *Tensor {
	return tensor.Rand(shape, rng)
}

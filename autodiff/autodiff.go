// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation (backpropagation)
// using a gradient tape. It wraps any backend to add autodiff capabilities.
//
// Example:
//
//	import (
//	    "github.com/born-ml/capsnet/autodiff"
//	    "github.com/born-ml/capsnet/backend/cpu"
//	    "github.com/born-ml/capsnet/tensor"
//	)
//
//	func main() {
//	    // Wrap CPU backend with autodiff
//	    backend := autodiff.New(cpu.New())
//	    backend.Tape().StartRecording()
//
//	    x := tensor.New([]float64{1, 2, 3}, tensor.Shape{3})
//	    y := backend.Sum(backend.Square(x)) // Operations recorded on tape
//
//	    // Compute gradients
//	    grads := autodiff.Backward(y, backend) // grads[x] = 2x
//	}
//
// Gradients of class centers fed through CenterLoss follow the center-loss
// update rule rather than the derivative of the loss value.
package autodiff

import (
	"github.com/born-ml/capsnet/internal/autodiff"
	"github.com/born-ml/capsnet/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of t via backpropagation, keyed by tensor.
func Backward(t *tensor.Tensor, backend BackwardCapable) map[*tensor.Tensor]*tensor.Tensor {
	return autodiff.Backward(t, backend)
}

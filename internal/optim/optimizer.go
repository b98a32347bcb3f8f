// Package optim implements optimization algorithms for training the loss
// modules and their backbones.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Gradients come from autodiff.Backward, keyed by parameter tensor. Class
// centers of a CategoricalLoss receive the center-loss update rule instead of
// an analytic gradient, so stepping them with SGD moves each center towards
// the mean of its batch samples.
//
// Example usage:
//
//	params := append(backbone.Parameters(), loss.Parameters()...)
//	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.01, Momentum: 0.9})
//
//	for step := range steps {
//	    backend.Tape().StartRecording()
//	    embeddings, _ := backbone.Forward(input)
//	    value, acc, _ := loss.Forward(embeddings, labels)
//	    grads := autodiff.Backward(value, backend)
//
//	    optimizer.Step(grads)
//	    optimizer.ZeroGrad()
//	    backend.Tape().Clear()
//	}
package optim

import (
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters in place.
	//
	// Parameters absent from grads did not take part in the loss and are
	// left untouched.
	Step(grads map[*tensor.Tensor]*tensor.Tensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate, for scheduling.
	SetLR(lr float64)
}

// getGradient safely retrieves the gradient for a parameter and records it on
// the parameter.
//
// Returns nil if no gradient is found (parameter wasn't part of computation graph).
func getGradient(param *nn.Parameter, grads map[*tensor.Tensor]*tensor.Tensor) *tensor.Tensor {
	if param == nil {
		return nil
	}
	grad := grads[param.Tensor()]
	param.SetGrad(grad)
	return grad
}

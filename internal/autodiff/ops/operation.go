// Package ops defines operation interfaces and implementations for automatic differentiation.
//
// Each operation implements the Operation interface, which provides:
//   - Forward pass: computed by the backend
//   - Backward pass: computes gradients for inputs given output gradient
//
// Most operations follow the analytic derivative of their forward function.
// CenterLossOp is the exception: its backward pass is the moving-center
// update rule of the center-loss paper rather than the gradient of its
// forward value.
package ops

import "github.com/born-ml/capsnet/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor;
	// a nil entry means no gradient flows to that input.
	//
	// Example for AddOp:
	//   inputs: [a, b]
	//   outputGrad: dL/d(a+b)
	//   returns: [dL/d(a+b), dL/d(a+b)] (gradient flows equally to both inputs)
	Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.Tensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.Tensor
}

// base stores the inputs and output shared by every operation.
type base struct {
	inputs []*tensor.Tensor
	output *tensor.Tensor
}

// Inputs returns the input tensors for this operation.
func (b *base) Inputs() []*tensor.Tensor {
	return b.inputs
}

// Output returns the output tensor produced by this operation.
func (b *base) Output() *tensor.Tensor {
	return b.output
}

func newBase(output *tensor.Tensor, inputs ...*tensor.Tensor) base {
	return base{inputs: inputs, output: output}
}

// fill returns a tensor shaped like x with every element set to v.
func fill(x *tensor.Tensor, v float64) *tensor.Tensor {
	return tensor.Full(x.Shape(), v)
}

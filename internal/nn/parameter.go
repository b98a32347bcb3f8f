package nn

import (
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are tensors that require gradient computation during training.
// The autodiff backend returns gradients keyed by tensor pointer; CollectGrads
// moves them into the matching parameters.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	grads := autodiff.Backward(loss, backend)
//	nn.CollectGrads(model.Parameters(), grads)
//	grad := weight.Grad()
type Parameter struct {
	name   string         // Parameter name (e.g., "categorical.weight")
	tensor *tensor.Tensor // The parameter tensor
	grad   *tensor.Tensor // Gradient tensor (computed during backward pass)
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before the first backward pass.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter) SetGrad(grad *tensor.Tensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
//
// This should be called before each training iteration to avoid
// accumulating gradients from previous iterations.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}

// CollectGrads assigns each parameter its gradient from a backward pass.
// Parameters that did not take part in the loss get a nil gradient.
func CollectGrads(params []*Parameter, grads map[*tensor.Tensor]*tensor.Tensor) {
	for _, p := range params {
		p.grad = grads[p.tensor]
	}
}

// StateDict returns the parameter tensors keyed by name.
func StateDict(params []*Parameter) map[string]*tensor.Tensor {
	state := make(map[string]*tensor.Tensor, len(params))
	for _, p := range params {
		state[p.name] = p.tensor
	}
	return state
}

// LoadStateDict copies tensors from state into the parameters with the same
// name. Every parameter must be present with a matching shape.
func LoadStateDict(params []*Parameter, state map[string]*tensor.Tensor) error {
	for _, p := range params {
		src, ok := state[p.name]
		if !ok {
			return errors.Wrapf(ErrInvalidConfig, "missing %q in state dict", p.name)
		}
		if !src.Shape().Equal(p.tensor.Shape()) {
			return errors.Wrapf(ErrInvalidShape, "%q: expected shape %v, got %v", p.name, p.tensor.Shape(), src.Shape())
		}
		copy(p.tensor.Data(), src.Data())
	}
	return nil
}

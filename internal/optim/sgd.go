package optim

import (
	"fmt"

	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	velocities map[*nn.Parameter]*tensor.Tensor
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter]*tensor.Tensor),
	}
}

// Step performs a single optimization step.
//
// Parameters with no gradient (not in computational graph) are skipped.
func (s *SGD) Step(grads map[*tensor.Tensor]*tensor.Tensor) {
	for _, param := range s.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}
		update := grad.Data()
		if s.momentum != 0 {
			velocity, exists := s.velocities[param]
			if !exists {
				velocity = tensor.ZerosLike(param.Tensor())
				s.velocities[param] = velocity
			}
			// velocity = momentum * velocity + grad
			floats.Scale(s.momentum, velocity.Data())
			floats.Add(velocity.Data(), update)
			update = velocity.Data()
		}
		floats.AddScaled(param.Tensor().Data(), -s.lr, update)
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the velocity buffers keyed "velocity.{param_index}".
// Without momentum, or before the first step, it is empty.
func (s *SGD) StateDict() map[string]*tensor.Tensor {
	state := make(map[string]*tensor.Tensor)
	for i, param := range s.params {
		if velocity, exists := s.velocities[param]; exists {
			state[fmt.Sprintf("velocity.%d", i)] = velocity
		}
	}
	return state
}

// LoadStateDict restores velocity buffers written by StateDict. Missing
// entries start from zero on the next step.
func (s *SGD) LoadStateDict(state map[string]*tensor.Tensor) error {
	s.velocities = make(map[*nn.Parameter]*tensor.Tensor)
	for i, param := range s.params {
		velocity, exists := state[fmt.Sprintf("velocity.%d", i)]
		if !exists {
			continue
		}
		if !velocity.Shape().Equal(param.Tensor().Shape()) {
			return errors.Errorf("velocity shape mismatch for parameter %d (%s): expected %v, got %v",
				i, param.Name(), param.Tensor().Shape(), velocity.Shape())
		}
		s.velocities[param] = velocity.Clone()
	}
	return nil
}

package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input, creating a
// sequential pipeline of transformations.
//
// Example:
//
//	backbone := nn.NewSequential(
//	    nn.NewLinear(64, 32, backend, rng),
//	    nn.NewActivation(nn.ActivationPReLU, 32, backend, rng),
//	    nn.NewLinear(32, 8, backend, rng),
//	)
//	embeddings, err := backbone.Forward(input)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// Forward applies all modules in sequence. The first failing module aborts
// the pass; its error is annotated with the module index.
func (s *Sequential) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	output := input
	for i, module := range s.modules {
		var err error
		output, err = module.Forward(output)
		if err != nil {
			return nil, errors.WithMessagef(err, "module %d", i)
		}
	}
	return output, nil
}

// Parameters returns all trainable parameters from all modules.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// StateDict returns parameter tensors keyed by module index and parameter
// name, e.g. "0.weight", "1.prelu.weight", "2.bias".
func (s *Sequential) StateDict() map[string]*tensor.Tensor {
	state := make(map[string]*tensor.Tensor)
	for i, module := range s.modules {
		for name, t := range StateDict(module.Parameters()) {
			state[fmt.Sprintf("%d.%s", i, name)] = t
		}
	}
	return state
}

// LoadStateDict loads parameters written by StateDict. Keys that do not
// belong to a module of this container are ignored.
func (s *Sequential) LoadStateDict(state map[string]*tensor.Tensor) error {
	for i, module := range s.modules {
		params := module.Parameters()
		if len(params) == 0 {
			continue
		}
		prefix := fmt.Sprintf("%d.", i)
		moduleState := make(map[string]*tensor.Tensor)
		for key, t := range state {
			if name, ok := strings.CutPrefix(key, prefix); ok {
				moduleState[name] = t
			}
		}
		if err := LoadStateDict(params, moduleState); err != nil {
			return errors.WithMessagef(err, "failed to load module %d", i)
		}
	}
	return nil
}

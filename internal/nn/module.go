// Package nn implements the capsule-network loss and metric-learning layer.
//
// This package provides:
//   - Module interface: Base interface for layers (Linear, Activation)
//   - Loss interface: Losses that score embeddings against integer labels
//   - Parameter: Trainable tensors with gradient slots
//   - Activations: relu, relu6, leaky-relu, elu, prelu, tanh, sigmoid,
//     maxout, relu-then-maxout, swish, squash
//   - Losses: CategoricalLoss (entr, smax, tsmax, lmcl, lmgm with optional
//     center loss), CapsuleLoss, TripletLoss, DiceLoss
//   - Metrics: one-hot encoding and top-1/top-5 accuracy
//   - ObfuscateDecolor: non-trainable image augmentation
//
// Modules compute through a tensor.Backend. Wrap the CPU backend with
// autodiff to train:
//
//	backend := autodiff.New(cpu.New())
//	loss, err := nn.NewCategoricalLoss(nn.CategoricalConfig{
//	    TensorSize: []int{1, 128},
//	    NLabels:    10,
//	    Type:       nn.LossLMCL,
//	}, backend)
//
// None of the modules are safe for concurrent use.
package nn

import "github.com/born-ml/capsnet/internal/tensor"

// Module is the base interface for layers.
//
// Every layer must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
type Module interface {
	// Forward computes the output of the module given an input tensor.
	// Shape errors wrap ErrInvalidShape.
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)

	// Parameters returns all trainable parameters of this module.
	// Returns nil for modules without trainable parameters.
	Parameters() []*Parameter
}

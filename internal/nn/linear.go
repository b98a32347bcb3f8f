package nn

import (
	"math/rand/v2"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	layer := nn.NewLinear(784, 128, backend, nil)
//	output, err := layer.Forward(input) // [32, 784] -> [32, 128]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]
	backend     tensor.Backend
}

// NewLinear creates a new Linear layer. A nil rng draws the Xavier weights
// from the global source.
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend, rng *rand.Rand) *Linear {
	weightShape := tensor.Shape{outFeatures, inFeatures}
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", Xavier(inFeatures, outFeatures, weightShape, rng)),
		bias:        NewParameter("bias", tensor.Zeros(tensor.Shape{outFeatures})),
		backend:     backend,
	}
}

// Forward computes x @ W.T + b for x of shape [batch_size, in_features].
//
// The backend has no broadcasting, so the bias row is expanded to the batch
// through a rank-1 product ones[batch, 1] @ b[1, out]. Its gradient is then
// the column sum of the output gradient, as expected.
func (l *Linear) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if input.Rank() != 2 || input.Dim(1) != l.inFeatures {
		return nil, errors.Wrapf(ErrInvalidShape, "linear: expected [batch, %d] input, got %v", l.inFeatures, input.Shape())
	}
	b := l.backend
	output := b.MatMul(input, b.Transpose(l.weight.Tensor()))

	ones := tensor.Ones(tensor.Shape{input.Dim(0), 1})
	bias := b.MatMul(ones, b.Reshape(l.bias.Tensor(), tensor.Shape{1, l.outFeatures}))
	return b.Add(output, bias), nil
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

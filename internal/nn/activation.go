package nn

import (
	"math/rand/v2"
	"strings"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

//go:generate enumer -type=ActivationType -linecomment -values -text -json activation.go

// ActivationType enumerates the supported activation functions.
// String forms are the short names used in configuration files.
type ActivationType int

const (
	ActivationNone       ActivationType = iota // none
	ActivationReLU                             // relu
	ActivationReLU6                            // relu6
	ActivationLeakyReLU                        // lklu
	ActivationELU                              // elu
	ActivationPReLU                            // prelu
	ActivationTanh                             // tanh
	ActivationSigmoid                          // sigm
	ActivationMaxout                           // maxo
	ActivationReLUMaxout                       // rmxo
	ActivationSwish                            // swish
	ActivationSquash                           // squash
)

const (
	// LeakyReLUSlope is the negative slope of ActivationLeakyReLU.
	LeakyReLUSlope = 0.01

	// ELUAlpha is the saturation value of ActivationELU.
	ELUAlpha = 1.0
)

// activationAliases maps descriptive names to the short names.
var activationAliases = map[string]ActivationType{
	"leaky-relu":       ActivationLeakyReLU,
	"leakyrelu":        ActivationLeakyReLU,
	"parametric-relu":  ActivationPReLU,
	"sigmoid":          ActivationSigmoid,
	"maxout":           ActivationMaxout,
	"relu-then-maxout": ActivationReLUMaxout,
	"silu":             ActivationSwish,
	"identity":         ActivationNone,
	"":                 ActivationNone,
}

// ParseActivation maps a name to its ActivationType, case-insensitively.
//
// Unknown names resolve to ActivationNone, an identity passthrough, and are
// logged at verbosity 1.
func ParseActivation(name string) ActivationType {
	key := strings.ToLower(strings.TrimSpace(name))
	if kind, err := ActivationTypeString(key); err == nil {
		return kind
	}
	if kind, ok := activationAliases[key]; ok {
		return kind
	}
	klog.V(1).Infof("activation %q is unknown, using identity", name)
	return ActivationNone
}

// Activation applies one ActivationType. Only prelu owns a parameter: one
// learnable slope per channel, broadcast along axis 1.
//
// Example:
//
//	act := nn.NewActivation(nn.ActivationSquash, 0, backend, nil)
//	y, err := act.Forward(capsules) // [batch, capsules, dim]
type Activation struct {
	kind    ActivationType
	weight  *Parameter
	backend tensor.Backend
}

// NewActivation creates an activation. channels sizes the prelu slopes and
// is ignored by the other kinds; the slopes start at U[0, 1) drawn from rng
// (nil uses the global source).
func NewActivation(kind ActivationType, channels int, backend tensor.Backend, rng *rand.Rand) *Activation {
	act := &Activation{kind: kind, backend: backend}
	if kind == ActivationPReLU {
		if channels < 1 {
			channels = 1
		}
		act.weight = NewParameter("prelu.weight", tensor.Rand(tensor.Shape{channels}, rng))
	}
	return act
}

// Type returns the activation kind.
func (a *Activation) Type() ActivationType {
	return a.kind
}

// Forward applies the activation.
func (a *Activation) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	b := a.backend
	switch a.kind {
	case ActivationNone:
		return input, nil
	case ActivationReLU:
		return b.ReLU(input), nil
	case ActivationReLU6:
		return b.ReLU6(input), nil
	case ActivationLeakyReLU:
		return b.LeakyReLU(input, LeakyReLUSlope), nil
	case ActivationELU:
		return b.ELU(input, ELUAlpha), nil
	case ActivationPReLU:
		return a.prelu(input)
	case ActivationTanh:
		return b.Tanh(input), nil
	case ActivationSigmoid:
		return b.Sigmoid(input), nil
	case ActivationMaxout:
		return Maxout(input, b)
	case ActivationReLUMaxout:
		return Maxout(b.ReLU(input), b)
	case ActivationSwish:
		return b.SiLU(input), nil
	case ActivationSquash:
		return Squash(input, b)
	}
	return nil, errors.Wrapf(ErrNotImplemented, "activation %s", a.kind)
}

func (a *Activation) prelu(input *tensor.Tensor) (*tensor.Tensor, error) {
	channels := a.weight.Tensor().NumElements()
	if channels > 1 && (input.Rank() < 2 || input.Dim(1) != channels) {
		return nil, errors.Wrapf(ErrInvalidShape, "prelu: input %v does not have %d channels on axis 1", input.Shape(), channels)
	}
	return a.backend.PReLU(input, a.weight.Tensor()), nil
}

// Parameters returns the prelu slopes, or nil for every other kind.
func (a *Activation) Parameters() []*Parameter {
	if a.weight == nil {
		return nil
	}
	return []*Parameter{a.weight}
}

// Maxout halves axis 1 by taking the element-wise maximum of its two halves.
// The input needs rank >= 2 and an even size on axis 1.
func Maxout(input *tensor.Tensor, backend tensor.Backend) (*tensor.Tensor, error) {
	if input.Rank() < 2 {
		return nil, errors.Wrapf(ErrInvalidShape, "maxout: expected rank >= 2, got %v", input.Shape())
	}
	channels := input.Dim(1)
	if channels%2 != 0 {
		return nil, errors.Wrapf(ErrInvalidShape, "maxout: channel dimension %d is not even", channels)
	}
	half := channels / 2
	return backend.Maximum(
		backend.Narrow(input, 1, 0, half),
		backend.Narrow(input, 1, half, half),
	), nil
}

// Squash maps every capsule vector v of a [batch, capsules, dim] input to
//
//	squash(v) = (‖v‖²/(1+‖v‖²)) · v/‖v‖
//
// Lengths land in [0, 1) and directions are kept. Zero vectors stay zero.
func Squash(input *tensor.Tensor, backend tensor.Backend) (*tensor.Tensor, error) {
	if input.Rank() != 3 {
		return nil, errors.Wrapf(ErrInvalidShape, "squash: expected [batch, capsules, dim], got %v", input.Shape())
	}
	return backend.Squash(input), nil
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/tensor"
)

// Error taxonomy shared by every layer.
var (
	ErrInvalidConfig  = nn.ErrInvalidConfig
	ErrInvalidShape   = nn.ErrInvalidShape
	ErrInvalidLabel   = nn.ErrInvalidLabel
	ErrNotImplemented = nn.ErrNotImplemented
)

// Layers

// Linear represents a fully connected layer, y = x·Wᵀ + b.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	layer := nn.NewLinear(784, 128, backend, rand.New(rand.NewPCG(1, 2)))
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend, rng *rand.Rand) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, backend, rng)
}

// Sequential chains modules, feeding each output to the next.
type Sequential = nn.Sequential

// NewSequential creates a container of the given modules.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Activations

// ActivationType names an activation function.
type ActivationType = nn.ActivationType

// Activation kinds.
const (
	ActivationNone       = nn.ActivationNone
	ActivationReLU       = nn.ActivationReLU
	ActivationReLU6      = nn.ActivationReLU6
	ActivationLeakyReLU  = nn.ActivationLeakyReLU
	ActivationELU        = nn.ActivationELU
	ActivationPReLU      = nn.ActivationPReLU
	ActivationTanh       = nn.ActivationTanh
	ActivationSigmoid    = nn.ActivationSigmoid
	ActivationMaxout     = nn.ActivationMaxout
	ActivationReLUMaxout = nn.ActivationReLUMaxout
	ActivationSwish      = nn.ActivationSwish
	ActivationSquash     = nn.ActivationSquash
)

// ParseActivation maps a short name such as "relu" or "lklu" to its kind.
// Unknown names select ActivationNone.
func ParseActivation(name string) ActivationType {
	return nn.ParseActivation(name)
}

// Activation applies one activation function; prelu owns a learned slope
// per channel.
type Activation = nn.Activation

// NewActivation creates an activation layer. channels and rng only matter
// for prelu.
//
// Example:
//
//	act := nn.NewActivation(nn.ParseActivation("swish"), 0, backend, nil)
func NewActivation(kind ActivationType, channels int, backend tensor.Backend, rng *rand.Rand) *Activation {
	return nn.NewActivation(kind, channels, backend, rng)
}

// Maxout halves the channel axis, keeping the larger of each pair.
func Maxout(input *tensor.Tensor, backend tensor.Backend) (*tensor.Tensor, error) {
	return nn.Maxout(input, backend)
}

// Squash rescales capsule vectors along the last axis to lengths in [0, 1).
func Squash(input *tensor.Tensor, backend tensor.Backend) (*tensor.Tensor, error) {
	return nn.Squash(input, backend)
}

// Metrics

// TopK is the rank cut-off of the wider accuracy metric.
const TopK = nn.TopK

// Accuracy holds top-1 and top-5 accuracy as percentages.
type Accuracy = nn.Accuracy

// OneHot returns the [batch, nLabels] one-hot encoding of labels.
func OneHot(labels []int, nLabels int, backend tensor.Backend) (*tensor.Tensor, error) {
	return nn.OneHot(labels, nLabels, backend)
}

// OneHotIdx returns the flat positions of the ones in OneHot's output.
func OneHotIdx(labels []int, nLabels int) []int {
	return nn.OneHotIdx(labels, nLabels)
}

// Top1Top5 scores a [batch, nLabels] response matrix against labels.
func Top1Top5(scores *tensor.Tensor, labels []int) (Accuracy, error) {
	return nn.Top1Top5(scores, labels)
}

// Augmentation

// ObfuscateConfig holds configuration for ObfuscateDecolor.
type ObfuscateConfig = nn.ObfuscateConfig

// DefaultObfuscateConfig returns the standard settings for 60×40 RGB crops.
func DefaultObfuscateConfig() ObfuscateConfig {
	return nn.DefaultObfuscateConfig()
}

// ObfuscateDecolor randomly greys out samples and pastes noise windows.
type ObfuscateDecolor = nn.ObfuscateDecolor

// NewObfuscateDecolor creates the augmentation layer.
func NewObfuscateDecolor(config ObfuscateConfig) (*ObfuscateDecolor, error) {
	return nn.NewObfuscateDecolor(config)
}

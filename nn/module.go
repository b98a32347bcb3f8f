// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/capsnet/internal/checkpoint"
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/tensor"
)

// Module is the interface of layers with a single input.
type Module = nn.Module

// Loss is the interface of losses scored against integer labels.
type Loss = nn.Loss

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return nn.NewParameter(name, t)
}

// StateDict returns the tensors of params keyed by parameter name.
func StateDict(params []*Parameter) map[string]*tensor.Tensor {
	return nn.StateDict(params)
}

// LoadStateDict copies state into params, matching by name and shape.
func LoadStateDict(params []*Parameter, state map[string]*tensor.Tensor) error {
	return nn.LoadStateDict(params, state)
}

// Meta is the training metadata stored next to saved parameters.
type Meta = checkpoint.Meta

// DType is the element type parameters are stored with.
type DType = checkpoint.DType

// Storage element types.
const (
	F64 = checkpoint.F64
	F32 = checkpoint.F32
	F16 = checkpoint.F16
)

// Save writes a state dict to a safetensors file.
//
// lossType is recorded in the metadata so Load callers can check that the
// file matches the loss they are restoring.
//
// Example:
//
//	err := nn.Save(nn.StateDict(loss.Parameters()), "lmcl.safetensors", "lmcl", nn.F32)
//	err = nn.Save(model.StateDict(), "backbone.safetensors", "lmcl", nn.F32)
func Save(state map[string]*tensor.Tensor, path, lossType string, dtype DType) error {
	return checkpoint.Save(path, state, checkpoint.NewMeta(lossType), dtype)
}

// Load reads a state dict written by Save together with its metadata.
//
// Example:
//
//	state, meta, err := nn.Load("lmcl.safetensors")
//	err = nn.LoadStateDict(loss.Parameters(), state)
func Load(path string) (map[string]*tensor.Tensor, Meta, error) {
	return checkpoint.Load(path)
}

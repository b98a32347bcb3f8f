// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/capsnet/internal/optim"
	"github.com/born-ml/capsnet/nn"
)

// Optimizer is the interface implemented by all optimizers.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig holds configuration for SGD.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.01, Momentum: 0.9})
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Adam is the Adam optimizer with bias correction.
type Adam = optim.Adam

// AdamConfig holds configuration for Adam.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer.
//
// Example:
//
//	optimizer := optim.NewAdam(params, optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	})
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training losses and
// their backbones.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/capsnet/autodiff"
//	    "github.com/born-ml/capsnet/backend/cpu"
//	    "github.com/born-ml/capsnet/nn"
//	    "github.com/born-ml/capsnet/optim"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    loss, _ := nn.NewCategoricalLoss(config, backend)
//	    optimizer := optim.NewSGD(loss.Parameters(), optim.SGDConfig{LR: 0.01, Momentum: 0.9})
//
//	    for step := range steps {
//	        backend.Tape().StartRecording()
//	        value, _, _ := loss.Forward(embeddings, labels)
//	        grads := autodiff.Backward(value, backend)
//
//	        optimizer.Step(grads)
//	        optimizer.ZeroGrad()
//	        backend.Tape().Clear()
//	    }
//	}
//
// # Center loss
//
// Class centers of a CategoricalLoss built with Center receive the
// center-loss update rule instead of an analytic gradient: center j gets
// C[j] - alpha·mean of its batch samples, so an SGD step moves it by LR times
// that amount. Labels absent from the batch leave their centers in place.
package optim

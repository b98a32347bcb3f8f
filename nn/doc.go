// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public loss, activation and metric layers.
//
// # Overview
//
// This package contains:
//   - Module and Loss interfaces
//   - Layers: Linear, Sequential, Activation
//   - Losses: CategoricalLoss, CapsuleLoss, TripletLoss, DiceLoss
//   - Metrics: OneHot, OneHotIdx, Top1Top5
//   - Augmentation: ObfuscateDecolor
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/capsnet/autodiff"
//	    "github.com/born-ml/capsnet/backend/cpu"
//	    "github.com/born-ml/capsnet/nn"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    loss, err := nn.NewCategoricalLoss(nn.CategoricalConfig{
//	        TensorSize: []int{1, 128},
//	        NLabels:    10,
//	        Type:       nn.LossLMCL,
//	        Measure:    nn.MeasureCosine,
//	    }, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    backend.Tape().StartRecording()
//	    value, acc, err := loss.Forward(embeddings, labels)
//	    grads := autodiff.Backward(value, backend)
//	}
//
// # Errors
//
// Every constructor and Forward error wraps one of ErrInvalidConfig,
// ErrInvalidShape, ErrInvalidLabel or ErrNotImplemented; test with errors.Is.
package nn

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// # Overview
//
// The backend evaluates every operation eagerly in float64:
//   - Pure Go on gonum (no CGO)
//   - Matrix products through gonum/mat
//   - Loss kernels (log-softmax, pairwise distances, triplet mining,
//     center loss) shared with the autodiff backward pass
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
//	    // Inference only
//	    backend := cpu.New()
//
//	    // Training: wrap with autodiff
//	    train := autodiff.New(cpu.New())
//	    loss, _ := nn.NewCapsuleLoss(10, train)
//	}
//
// # Thread Safety
//
// The CPU backend holds no state and is safe for concurrent use.
package cpu

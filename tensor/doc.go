// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor type and the Backend interface.
//
// Tensors are dense, row-major float64 arrays. They carry no device or dtype:
// computation happens in a Backend, and checkpoints choose their on-disk
// precision when written.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{2, 3})
//	x.Set(1.5, 0, 2)
//	backend := cpu.New()
//	y := backend.MulScalar(x, 2) // y.At(0, 2) == 3
package tensor

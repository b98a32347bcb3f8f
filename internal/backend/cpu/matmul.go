package cpu

import (
	"fmt"

	"github.com/born-ml/capsnet/internal/tensor"
)

// MatMul performs matrix multiplication [m, k] @ [k, n] -> [m, n] with gonum.
func (cpu *CPUBackend) MatMul(a, b *tensor.Tensor) *tensor.Tensor {
	if a.Rank() != 2 || b.Rank() != 2 {
		panic(fmt.Sprintf("matmul: expected rank-2 operands, got %v and %v", a.Shape(), b.Shape()))
	}
	if a.Dim(1) != b.Dim(0) {
		panic(fmt.Sprintf("matmul: inner dimensions differ: %v @ %v", a.Shape(), b.Shape()))
	}
	result := tensor.Zeros(tensor.Shape{a.Dim(0), b.Dim(1)})
	result.Dense().Mul(a.Dense(), b.Dense())
	return result
}

// Transpose swaps the two axes of a rank-2 tensor.
func (cpu *CPUBackend) Transpose(x *tensor.Tensor) *tensor.Tensor {
	if x.Rank() != 2 {
		panic(fmt.Sprintf("transpose: expected rank-2 tensor, got %v", x.Shape()))
	}
	return tensor.FromDense(x.Dense().T())
}

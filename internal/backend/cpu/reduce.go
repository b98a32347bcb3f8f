package cpu

import (
	"fmt"

	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// Sum reduces all elements to a scalar.
func (cpu *CPUBackend) Sum(x *tensor.Tensor) *tensor.Tensor {
	return scalar(floats.Sum(x.Data()))
}

// Mean averages all elements into a scalar.
func (cpu *CPUBackend) Mean(x *tensor.Tensor) *tensor.Tensor {
	return scalar(floats.Sum(x.Data()) / float64(x.NumElements()))
}

// SumDim sums along dim and removes it from the shape.
func (cpu *CPUBackend) SumDim(x *tensor.Tensor, dim int) *tensor.Tensor {
	if dim < 0 || dim >= x.Rank() {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for shape %v", dim, x.Shape()))
	}
	outer, size, inner := x.Shape().SplitAxis(dim)
	result := tensor.Zeros(x.Shape().Without(dim))
	src, dst := x.Data(), result.Data()
	for o := 0; o < outer; o++ {
		for k := 0; k < size; k++ {
			base := (o*size + k) * inner
			floats.Add(dst[o*inner:(o+1)*inner], src[base:base+inner])
		}
	}
	return result
}

// Narrow returns the slice [start, start+length) of x along axis.
func (cpu *CPUBackend) Narrow(x *tensor.Tensor, axis, start, length int) *tensor.Tensor {
	if axis < 0 || axis >= x.Rank() || start < 0 || length <= 0 || start+length > x.Dim(axis) {
		panic(fmt.Sprintf("narrow: invalid range [%d, %d) on axis %d of %v", start, start+length, axis, x.Shape()))
	}
	outer, size, inner := x.Shape().SplitAxis(axis)
	shape := x.Shape().Clone()
	shape[axis] = length
	result := tensor.Zeros(shape)
	src, dst := x.Data(), result.Data()
	for o := 0; o < outer; o++ {
		from := (o*size + start) * inner
		copy(dst[o*length*inner:(o+1)*length*inner], src[from:from+length*inner])
	}
	return result
}

func scalar(v float64) *tensor.Tensor {
	return tensor.New([]float64{v}, tensor.Shape{})
}

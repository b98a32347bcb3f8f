package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense, row-major float64 array.
//
// Tensors are plain values: computation lives in a Backend, and the autodiff
// backend identifies tensors by pointer when it hands back gradients.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{3, 4})
//	x.Set(1.5, 1, 2)
//	v := x.At(1, 2) // 1.5
type Tensor struct {
	shape   Shape
	strides []int
	data    []float64
}

// New wraps data with the given shape without copying.
// Panics if the shape and data length disagree.
func New(data []float64, shape Shape) *Tensor {
	if shape.NumElements() != len(data) {
		panic(fmt.Sprintf("tensor.New: shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data)))
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    data,
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return New(buf, shape), nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Dim returns the size of the given axis.
func (t *Tensor) Dim(axis int) int {
	return t.shape[axis]
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the underlying storage (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	buf := make([]float64, len(t.data))
	copy(buf, t.data)
	return New(buf, t.shape)
}

// Reshape returns a view with a new shape sharing the same storage.
// Panics if the number of elements differs.
func (t *Tensor) Reshape(shape ...int) *Tensor {
	return New(t.data, Shape(shape))
}

// Item returns the value of a single-element tensor.
// Panics if the tensor holds more than one element.
func (t *Tensor) Item() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", t.shape))
	}
	return t.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * t.strides[i]
	}
	return offset
}

// Row returns row i of a rank-2 tensor as a slice view.
func (t *Tensor) Row(i int) []float64 {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("Row: expected rank-2 tensor, got shape %v", t.shape))
	}
	cols := t.shape[1]
	return t.data[i*cols : (i+1)*cols]
}

// Dense returns a gonum matrix view over a rank-2 tensor.
// The matrix shares storage with the tensor.
func (t *Tensor) Dense() *mat.Dense {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("Dense: expected rank-2 tensor, got shape %v", t.shape))
	}
	return mat.NewDense(t.shape[0], t.shape[1], t.data)
}

// FromDense copies a gonum matrix into a new rank-2 tensor.
func FromDense(m mat.Matrix) *Tensor {
	r, c := m.Dims()
	out := Zeros(Shape{r, c})
	mat.NewDense(r, c, out.data).Copy(m)
	return out
}

// String returns a short description (shape only).
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v", t.shape)
}

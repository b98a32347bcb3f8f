package tensor

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestShape(t *testing.T) {
	tests := []struct {
		name     string
		shape    Shape
		elements int
		strides  []int
	}{
		{"scalar", Shape{}, 1, []int{}},
		{"vector", Shape{5}, 5, []int{1}},
		{"matrix", Shape{2, 3}, 6, []int{3, 1}},
		{"image", Shape{2, 3, 4, 5}, 120, []int{60, 20, 5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.NumElements(); got != tt.elements {
				t.Errorf("NumElements() = %d, want %d", got, tt.elements)
			}
			strides := tt.shape.ComputeStrides()
			if !Shape(strides).Equal(Shape(tt.strides)) {
				t.Errorf("ComputeStrides() = %v, want %v", strides, tt.strides)
			}
		})
	}

	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Validate() accepted a zero dimension")
	}
	if got := (Shape{2, 3, 4}).Without(1); !got.Equal(Shape{2, 4}) {
		t.Errorf("Without(1) = %v", got)
	}
	if got := (Shape{2, 3}).String(); got != "(2, 3)" {
		t.Errorf("String() = %q", got)
	}
	outer, dim, inner := Shape{2, 3, 4, 5}.SplitAxis(2)
	if outer != 6 || dim != 4 || inner != 5 {
		t.Errorf("SplitAxis(2) = %d, %d, %d", outer, dim, inner)
	}
}

func TestNewPanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New() did not panic")
		}
	}()
	New([]float64{1, 2, 3}, Shape{2, 2})
}

func TestFromSliceCopies(t *testing.T) {
	src := []float64{1, 2, 3, 4}
	x, err := FromSlice(src, Shape{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 100
	if x.At(0, 0) != 1 {
		t.Errorf("FromSlice shares storage with its input")
	}
	if _, err := FromSlice(src, Shape{3}); err == nil {
		t.Error("FromSlice accepted a mismatched shape")
	}
}

func TestIndexing(t *testing.T) {
	x := Zeros(Shape{2, 3, 4})
	x.Set(7, 1, 2, 3)
	if got := x.Data()[1*12+2*4+3]; got != 7 {
		t.Errorf("Set wrote %v at the row-major offset", got)
	}
	if x.At(1, 2, 3) != 7 {
		t.Errorf("At(1, 2, 3) = %v", x.At(1, 2, 3))
	}

	view := x.Reshape(6, 4)
	view.Row(5)[3] = 8
	if x.At(1, 2, 3) != 8 {
		t.Error("Reshape() did not share storage")
	}
	clone := x.Clone()
	clone.Set(0, 1, 2, 3)
	if x.At(1, 2, 3) != 8 {
		t.Error("Clone() shares storage")
	}

	defer func() {
		if recover() == nil {
			t.Error("At() out of bounds did not panic")
		}
	}()
	x.At(2, 0, 0)
}

func TestItem(t *testing.T) {
	if got := Full(Shape{}, 3).Item(); got != 3 {
		t.Errorf("Item() = %v", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("Item() on two elements did not panic")
		}
	}()
	Ones(Shape{2}).Item()
}

func TestCreation(t *testing.T) {
	eye := Eye(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if eye.At(i, j) != want {
				t.Errorf("Eye(3)[%d, %d] = %v", i, j, eye.At(i, j))
			}
		}
	}
	if !ZerosLike(eye).Shape().Equal(Shape{3, 3}) {
		t.Error("ZerosLike() changed the shape")
	}

	rng := rand.New(rand.NewPCG(3, 4))
	u := Rand(Shape{1000}, rng)
	for _, v := range u.Data() {
		if v < 0 || v >= 1 {
			t.Fatalf("Rand() produced %v outside [0, 1)", v)
		}
	}
	n := Randn(Shape{10000}, rng)
	var mean float64
	for _, v := range n.Data() {
		mean += v
	}
	mean /= 10000
	if math.Abs(mean) > 0.05 {
		t.Errorf("Randn() mean = %v", mean)
	}
}

func TestDense(t *testing.T) {
	x := New([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	d := x.Dense()
	d.Set(0, 0, 10)
	if x.At(0, 0) != 10 {
		t.Error("Dense() does not share storage")
	}
	tr := FromDense(d.T())
	if !tr.Shape().Equal(Shape{3, 2}) || tr.At(2, 1) != 6 {
		t.Errorf("FromDense(T) = %v %v", tr.Shape(), tr.Data())
	}
	var _ mat.Matrix = d
}

package cpu_test

import (
	"testing"

	"github.com/born-ml/capsnet/backend/cpu"
	"github.com/born-ml/capsnet/tensor"
	"github.com/stretchr/testify/assert"
)

func TestBackend(t *testing.T) {
	backend := cpu.New()
	assert.Equal(t, "CPU", backend.Name())

	x := tensor.New([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	assert.Equal(t, 10.0, backend.Sum(x).Item())
	assert.Equal(t, []float64{7, 10, 15, 22}, backend.MatMul(x, x).Data())
}

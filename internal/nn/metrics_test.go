package nn

import (
	"testing"

	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneHot(t *testing.T) {
	labels := []int{2, 0, 1, 2}
	encoded, err := OneHot(labels, 3, cpu.New())
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{4, 3}, encoded.Shape())

	for i, label := range labels {
		for j := 0; j < 3; j++ {
			want := 0.0
			if j == label {
				want = 1
			}
			assert.Equal(t, want, encoded.At(i, j), "row %d col %d", i, j)
		}
	}
}

func TestOneHotIdx_ReproducesOneHot(t *testing.T) {
	labels := []int{4, 1, 0, 3, 3}
	const nLabels = 5

	encoded, err := OneHot(labels, nLabels, cpu.New())
	require.NoError(t, err)

	flat := make([]float64, len(labels)*nLabels)
	for _, idx := range OneHotIdx(labels, nLabels) {
		flat[idx] = 1
	}
	assert.Equal(t, encoded.Data(), flat)
}

func TestOneHot_InvalidLabel(t *testing.T) {
	_, err := OneHot([]int{0, 3}, 3, cpu.New())
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = OneHot([]int{-1}, 3, cpu.New())
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestTop1Top5(t *testing.T) {
	scores := tensor.New([]float64{
		0.9, 0.1, 0.2, 0.3, 0.4, 0.5, // label 0 ranks first
		0.9, 0.8, 0.7, 0.6, 0.1, 0.0, // label 3 ranks fourth
		0.9, 0.8, 0.7, 0.6, 0.5, 0.0, // label 5 ranks last
	}, tensor.Shape{3, 6})

	acc, err := Top1Top5(scores, []int{0, 3, 5})
	require.NoError(t, err)
	assert.InDelta(t, 100.0/3, acc.Top1, 1e-9)
	assert.InDelta(t, 200.0/3, acc.Top5, 1e-9)
	assert.GreaterOrEqual(t, acc.Top5, acc.Top1)
}

func TestTop1Top5_TiesFavourLowerIndex(t *testing.T) {
	scores := tensor.New([]float64{1, 1, 1, 1, 1, 1}, tensor.Shape{1, 6})

	acc, err := Top1Top5(scores, []int{0})
	require.NoError(t, err)
	assert.Equal(t, Accuracy{Top1: 100, Top5: 100}, acc)

	acc, err = Top1Top5(scores, []int{5})
	require.NoError(t, err)
	assert.Equal(t, Accuracy{Top1: 0, Top5: 0}, acc)
}

func TestTop1Top5_FewerLabelsThanTopK(t *testing.T) {
	scores := tensor.New([]float64{0.1, 0.9, 0.2, 0.7}, tensor.Shape{2, 2})

	acc, err := Top1Top5(scores, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 50.0, acc.Top1)
	assert.Equal(t, 100.0, acc.Top5)
}

func TestTop1Top5_Errors(t *testing.T) {
	_, err := Top1Top5(tensor.Zeros(tensor.Shape{4}), []int{0})
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = Top1Top5(tensor.Zeros(tensor.Shape{2, 3}), []int{0})
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestAccuracy_String(t *testing.T) {
	assert.Equal(t, "top1=50.00% top5=100.00%", Accuracy{Top1: 50, Top5: 100}.String())
}

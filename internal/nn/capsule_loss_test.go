package nn

import (
	"testing"

	"github.com/born-ml/capsnet/internal/autodiff"
	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapsuleLoss_PerfectMarginsGiveZero(t *testing.T) {
	loss, err := NewCapsuleLoss(3, cpu.New())
	require.NoError(t, err)

	// Label 1: class capsule lengths 0.1, 0.9, 0.1.
	capsules := tensor.New([]float64{
		0.1, 0,
		0, 0.9,
		0.06, 0.08,
	}, tensor.Shape{1, 3, 2})

	value, acc, err := loss.Forward(capsules, []int{1})
	require.NoError(t, err)
	assert.InDelta(t, 0, value.Item(), 1e-9)
	assert.Equal(t, Accuracy{Top1: 100, Top5: 100}, acc)
}

func TestCapsuleLoss_MeanOverBatch(t *testing.T) {
	loss, err := NewCapsuleLoss(2, cpu.New())
	require.NoError(t, err)

	// Zero capsules: every length is sqrt(1e-6) = 0.001, only the true class
	// is penalised.
	value, _, err := loss.Forward(tensor.Zeros(tensor.Shape{2, 2, 1}), []int{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.899*0.899, value.Item(), 1e-9)

	// A false class at length 0.5 adds 0.5·(0.5−0.1)².
	capsules := tensor.New([]float64{0.9, 0.5}, tensor.Shape{1, 2, 1})
	value, _, err = loss.Forward(capsules, []int{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5*0.4*0.4, value.Item(), 1e-5)
}

func TestCapsuleLoss_Gradients(t *testing.T) {
	backend := autodiff.New(cpu.New())
	loss, err := NewCapsuleLoss(2, backend)
	require.NoError(t, err)
	assert.Nil(t, loss.Parameters())

	backend.Tape().StartRecording()
	capsules := tensor.New([]float64{0.3, 0.4, 0.6, 0.8}, tensor.Shape{1, 2, 2})
	value, _, err := loss.Forward(capsules, []int{0})
	require.NoError(t, err)

	grads := autodiff.Backward(value, backend)
	require.Contains(t, grads, capsules)
	g := grads[capsules].Data()
	// True capsule (length 0.5) grows, false capsule (length 1) shrinks.
	assert.Negative(t, g[0])
	assert.Negative(t, g[1])
	assert.Positive(t, g[2])
	assert.Positive(t, g[3])
}

func TestCapsuleLoss_Errors(t *testing.T) {
	_, err := NewCapsuleLoss(0, cpu.New())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	loss, err := NewCapsuleLoss(3, cpu.New())
	require.NoError(t, err)

	_, _, err = loss.Forward(tensor.Zeros(tensor.Shape{2, 3}), []int{0, 1})
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, _, err = loss.Forward(tensor.Zeros(tensor.Shape{2, 4, 2}), []int{0, 1})
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, _, err = loss.Forward(tensor.Zeros(tensor.Shape{0, 3, 2}), []int{})
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, _, err = loss.Forward(tensor.Zeros(tensor.Shape{2, 3, 2}), []int{0, 3})
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

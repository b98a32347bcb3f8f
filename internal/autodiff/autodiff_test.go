package autodiff_test

import (
	"testing"

	"github.com/born-ml/capsnet/internal/autodiff"
	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutodiffBackend_Name(t *testing.T) {
	backend := autodiff.New(cpu.New())
	assert.Equal(t, "Autodiff(CPU)", backend.Name())
}

func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	assert.False(t, tape.IsRecording(), "tape should not record initially")
	tape.StartRecording()
	assert.True(t, tape.IsRecording())
	tape.StopRecording()
	assert.False(t, tape.IsRecording())
}

func TestTape_RecordsOnlyWhileRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	a := tensor.New([]float64{1, 2}, tensor.Shape{2})
	b := tensor.New([]float64{3, 4}, tensor.Shape{2})

	backend.Add(a, b)
	assert.Equal(t, 0, tape.NumOps())

	tape.StartRecording()
	backend.Add(a, b)
	backend.Mul(a, b)
	assert.Equal(t, 2, tape.NumOps())

	tape.Clear()
	assert.Equal(t, 0, tape.NumOps())
	assert.True(t, tape.IsRecording(), "Clear must preserve recording state")
}

func TestBackward_AccumulatesReusedTensor(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := tensor.New([]float64{1, -2, 3}, tensor.Shape{3})
	y := backend.Sum(backend.Mul(x, x)) // Σx²

	grads := autodiff.Backward(y, backend)
	require.Contains(t, grads, x)
	assert.InDeltaSlice(t, []float64{2, -4, 6}, grads[x].Data(), 1e-12)
}

func TestBackward_SkipsOperationsOffThePath(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := tensor.New([]float64{1, 2}, tensor.Shape{2})
	z := tensor.New([]float64{5, 6}, tensor.Shape{2})
	loss := backend.Sum(backend.MulScalar(x, 3))
	unrelated := backend.Sum(backend.Exp(z)) // recorded after loss

	grads := autodiff.Backward(loss, backend)
	assert.InDeltaSlice(t, []float64{3, 3}, grads[x].Data(), 1e-12)
	assert.NotContains(t, grads, z)
	assert.NotContains(t, grads, unrelated)
}

func TestBackward_PanicsWithoutRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	x := tensor.New([]float64{1}, tensor.Shape{1})
	y := backend.Sum(x)
	assert.Panics(t, func() { autodiff.Backward(y, backend) })
}

func TestBackward_StopsRecordingDuringBackward(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()

	a := tensor.New([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := tensor.New([]float64{5, 6, 7, 8}, tensor.Shape{2, 2})
	loss := backend.Sum(backend.MatMul(a, b))
	before := tape.NumOps()

	autodiff.Backward(loss, backend)
	assert.Equal(t, before, tape.NumOps(), "gradient math must not be recorded")
	assert.True(t, tape.IsRecording())
}

func TestCenterLoss_CustomGradientRule(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := tensor.New([]float64{
		1, 0,
		3, 0,
		0, 2,
	}, tensor.Shape{3, 2})
	centers := tensor.New([]float64{
		0, 0,
		1, 1,
		5, 5,
	}, tensor.Shape{3, 2})
	labels := []int{0, 0, 1}
	alpha := 0.5

	loss := backend.CenterLoss(x, centers, labels, alpha)
	// 0.5 * (1 + 9 + (1 + 1))
	assert.InDelta(t, 6.0, loss.Item(), 1e-12)

	scaled := backend.MulScalar(loss, 2)
	grads := autodiff.Backward(scaled, backend)

	// Embedding gradient is (x - C[y]) scaled by the upstream gradient 2.
	assert.InDeltaSlice(t, []float64{2, 0, 6, 0, -2, 2}, grads[x].Data(), 1e-12)

	// Center gradient ignores the upstream scale:
	//   C[0] - alpha*mean(x[0], x[1]) = (0,0) - 0.5*(2,0) = (-1, 0)
	//   C[1] - alpha*x[2]             = (1,1) - 0.5*(0,2) = (1, 0)
	//   C[2] is absent from the batch.
	assert.InDeltaSlice(t, []float64{-1, 0, 1, 0, 0, 0}, grads[centers].Data(), 1e-12)
}

func TestTripletMargin_GradientOnPickedPairs(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	// Anchor 0 (label 0): genuine 1, impostors 2 and 3.
	// S[0,1] - S[0,2] + 1 = 0.5 - 0.2 + 1 = 1.3
	// S[0,1] - S[0,3] + 1 = 0.5 - 0.9 + 1 = 0.6
	scores := tensor.New([]float64{
		0, 0.5, 0.2, 0.9,
		0.5, 0, 3.0, 3.0,
		0.2, 3.0, 0, 0.1,
		0.9, 3.0, 0.1, 0,
	}, tensor.Shape{4, 4})
	labels := []int{0, 0, 1, 1}

	loss := backend.TripletMargin(scores, labels, 1, false)
	grads := autodiff.Backward(loss, backend)
	g := grads[scores]

	// Anchor 0 picks (1, 2); anchor 1 has no violation; anchor 2 picks (3, 0)
	// since 0.1 - 0.2 + 1 = 0.9 beats 0.1 - 3 + 1; anchor 3 picks (2, 0).
	assert.InDelta(t, (1.3+0.9+(0.1-0.9+1))/4, loss.Item(), 1e-12)
	assert.InDelta(t, 0.25, g.At(0, 1), 1e-12)
	assert.InDelta(t, -0.25, g.At(0, 2), 1e-12)
	assert.InDelta(t, 0.0, g.At(0, 3), 1e-12)
	assert.InDelta(t, 0.0, g.At(1, 0)+g.At(1, 2)+g.At(1, 3), 1e-12)
	assert.InDelta(t, 0.25, g.At(2, 3), 1e-12)
	assert.InDelta(t, -0.25, g.At(2, 0), 1e-12)
}

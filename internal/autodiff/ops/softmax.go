package ops

import (
	"math"

	"github.com/born-ml/capsnet/internal/kernels"
	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// L2NormalizeOp represents row-wise normalisation y = x / max(‖x‖, ε).
//
// Backward pass, per row:
//
//	grad_x = (dy - y·(y·dy)) / ‖x‖
type L2NormalizeOp struct{ base }

// NewL2NormalizeOp creates a new L2NormalizeOp.
func NewL2NormalizeOp(x, output *tensor.Tensor) *L2NormalizeOp {
	return &L2NormalizeOp{newBase(output, x)}
}

// Backward computes the input gradient.
func (op *L2NormalizeOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	x, y := op.inputs[0], op.output
	grad := tensor.ZerosLike(x)
	for i := 0; i < x.Dim(0); i++ {
		dst, yi, dy := grad.Row(i), y.Row(i), outputGrad.Row(i)
		norm := kernels.RowNorm(x.Row(i))
		copy(dst, dy)
		floats.AddScaled(dst, -floats.Dot(yi, dy), yi)
		floats.Scale(1/norm, dst)
	}
	return []*tensor.Tensor{grad}
}

// LogSoftmaxOp represents row-wise log-softmax.
//
// Backward pass, per row:
//
//	grad_x = dy - softmax(x)·Σdy
type LogSoftmaxOp struct{ base }

// NewLogSoftmaxOp creates a new LogSoftmaxOp.
func NewLogSoftmaxOp(x, output *tensor.Tensor) *LogSoftmaxOp {
	return &LogSoftmaxOp{newBase(output, x)}
}

// Backward computes the input gradient.
func (op *LogSoftmaxOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	y := op.output
	grad := tensor.ZerosLike(y)
	for i := 0; i < y.Dim(0); i++ {
		dst, yi, dy := grad.Row(i), y.Row(i), outputGrad.Row(i)
		total := floats.Sum(dy)
		for j, lp := range yi {
			dst[j] = dy[j] - math.Exp(lp)*total
		}
	}
	return []*tensor.Tensor{grad}
}

// NLLLossOp represents mean(-logProbs[i, labels[i]]).
// Only the labelled entries receive gradient, each -g/N.
type NLLLossOp struct {
	base
	labels []int
}

// NewNLLLossOp creates a new NLLLossOp.
func NewNLLLossOp(logProbs, output *tensor.Tensor, labels []int) *NLLLossOp {
	return &NLLLossOp{base: newBase(output, logProbs), labels: labels}
}

// Backward computes the input gradient.
func (op *NLLLossOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	logProbs := op.inputs[0]
	grad := tensor.ZerosLike(logProbs)
	scale := outputGrad.Item() / float64(len(op.labels))
	for i, label := range op.labels {
		grad.Row(i)[label] = -scale
	}
	return []*tensor.Tensor{grad}
}

// CrossEntropyOp represents the fused log-softmax and NLL loss.
//
// Backward pass:
//
//	grad_logits = (softmax(logits) - onehot(labels)) · g / N
type CrossEntropyOp struct {
	base
	labels []int
}

// NewCrossEntropyOp creates a new CrossEntropyOp.
func NewCrossEntropyOp(logits, output *tensor.Tensor, labels []int) *CrossEntropyOp {
	return &CrossEntropyOp{base: newBase(output, logits), labels: labels}
}

// Backward computes the input gradient.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	logits := op.inputs[0]
	grad := tensor.ZerosLike(logits)
	scale := outputGrad.Item() / float64(len(op.labels))
	for i, label := range op.labels {
		row := grad.Row(i)
		kernels.Softmax(row, logits.Row(i))
		row[label]--
		floats.Scale(scale, row)
	}
	return []*tensor.Tensor{grad}
}

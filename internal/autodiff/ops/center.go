package ops

import (
	"github.com/born-ml/capsnet/internal/kernels"
	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// CenterLossOp represents the center-loss penalty 0.5·Σ‖x_i - C[y_i]‖².
//
// Its backward pass is a hand-written rule, not the derivative of the forward
// value:
//
//	grad_x    = (x - C[y]) · outputGrad
//	grad_C[j] = C[j] - alpha · mean(x_i : y_i = j)   for each label j in the batch
//
// Rows of C for labels absent from the batch get zero. grad_C is not scaled by
// outputGrad. Applied by SGD it moves each center by a fraction of its
// distance to the alpha-weighted batch mean of its class, which is the
// moving-center update from the center-loss paper.
type CenterLossOp struct {
	base
	labels []int
	alpha  float64
}

// NewCenterLossOp creates a new CenterLossOp.
func NewCenterLossOp(x, centers, output *tensor.Tensor, labels []int, alpha float64) *CenterLossOp {
	return &CenterLossOp{base: newBase(output, x, centers), labels: labels, alpha: alpha}
}

// Backward computes gradients for the embeddings and the centers.
func (op *CenterLossOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	x, centers := op.inputs[0], op.inputs[1]
	upstream := outputGrad.Item()

	gradX := tensor.ZerosLike(x)
	for i, label := range op.labels {
		row := gradX.Row(i)
		floats.SubTo(row, x.Row(i), centers.Row(label))
		floats.Scale(upstream, row)
	}

	gradC := tensor.ZerosLike(centers)
	for label, mean := range kernels.ClassMeans(x.Data(), x.Dim(1), op.labels) {
		row := gradC.Row(label)
		copy(row, centers.Row(label))
		floats.AddScaled(row, -op.alpha, mean)
	}
	return []*tensor.Tensor{gradX, gradC}
}

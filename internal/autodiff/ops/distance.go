package ops

import (
	"github.com/born-ml/capsnet/internal/kernels"
	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// PairwiseDistanceOp represents D[i,j] = ‖a_i - b_j‖.
//
// Backward pass:
//   - grad_a_i += Σ_j g[i,j]·(a_i - b_j)/D[i,j]
//   - grad_b_j -= Σ_i g[i,j]·(a_i - b_j)/D[i,j]
//
// Pairs at distance zero contribute no gradient (the subgradient 0).
type PairwiseDistanceOp struct {
	base
	squared bool
}

// NewPairwiseDistanceOp creates a new PairwiseDistanceOp.
func NewPairwiseDistanceOp(a, b, output *tensor.Tensor) *PairwiseDistanceOp {
	return &PairwiseDistanceOp{base: newBase(output, a, b)}
}

// NewPairwiseSquaredDistanceOp creates the op for D[i,j] = ‖a_i - b_j‖², whose
// per-pair derivative is 2·(a_i - b_j).
func NewPairwiseSquaredDistanceOp(a, b, output *tensor.Tensor) *PairwiseDistanceOp {
	return &PairwiseDistanceOp{base: newBase(output, a, b), squared: true}
}

// Backward computes gradients for both inputs.
func (op *PairwiseDistanceOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0], op.inputs[1]
	n, m := a.Dim(0), b.Dim(0)
	gradA, gradB := tensor.ZerosLike(a), tensor.ZerosLike(b)
	diff := make([]float64, a.Dim(1))
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			g := outputGrad.At(i, j)
			if g == 0 {
				continue
			}
			var coef float64
			if op.squared {
				coef = 2 * g
			} else {
				d := op.output.At(i, j)
				if d == 0 {
					continue
				}
				coef = g / d
			}
			floats.SubTo(diff, a.Row(i), b.Row(j))
			floats.AddScaled(gradA.Row(i), coef, diff)
			floats.AddScaled(gradB.Row(j), -coef, diff)
		}
	}
	return []*tensor.Tensor{gradA, gradB}
}

// TripletMarginOp represents the mined triplet margin loss over a square score
// matrix. The chosen triplets are mined again in the backward pass from the
// recorded scores, so the forward output is all the op stores.
//
// Backward pass, for every picked (anchor, genuine, impostor):
//
//	grad[anchor, genuine]  += g / anchors
//	grad[anchor, impostor] -= g / anchors
type TripletMarginOp struct {
	base
	labels   []int
	margin   float64
	semihard bool
}

// NewTripletMarginOp creates a new TripletMarginOp.
func NewTripletMarginOp(scores, output *tensor.Tensor, labels []int, margin float64, semihard bool) *TripletMarginOp {
	return &TripletMarginOp{
		base:     newBase(output, scores),
		labels:   labels,
		margin:   margin,
		semihard: semihard,
	}
}

// Backward computes the score gradient.
func (op *TripletMarginOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	scores := op.inputs[0]
	grad := tensor.ZerosLike(scores)
	_, picks, anchors := kernels.TripletSelect(scores.Data(), op.labels, op.margin, op.semihard)
	if anchors == 0 {
		return []*tensor.Tensor{grad}
	}
	g := outputGrad.Item() / float64(anchors)
	for _, p := range picks {
		grad.Row(p.Anchor)[p.Genuine] += g
		grad.Row(p.Anchor)[p.Impostor] -= g
	}
	return []*tensor.Tensor{grad}
}

package cpu

import (
	"fmt"

	"github.com/born-ml/capsnet/internal/kernels"
	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// NLLLoss computes mean(-logProbs[i, labels[i]]).
func (cpu *CPUBackend) NLLLoss(logProbs *tensor.Tensor, labels []int) *tensor.Tensor {
	checkLabels("nllloss", logProbs, labels)
	total := 0.0
	for i, label := range labels {
		total -= logProbs.Row(i)[label]
	}
	return scalar(total / float64(len(labels)))
}

// CrossEntropy computes NLLLoss(LogSoftmax(logits), labels) in one pass.
func (cpu *CPUBackend) CrossEntropy(logits *tensor.Tensor, labels []int) *tensor.Tensor {
	checkLabels("crossentropy", logits, labels)
	logProbs := make([]float64, logits.Dim(1))
	total := 0.0
	for i, label := range labels {
		kernels.LogSoftmax(logProbs, logits.Row(i))
		total -= logProbs[label]
	}
	return scalar(total / float64(len(labels)))
}

// Take gathers x's flat elements at indices into a rank-1 tensor.
func (cpu *CPUBackend) Take(x *tensor.Tensor, indices []int) *tensor.Tensor {
	src := x.Data()
	result := tensor.Zeros(tensor.Shape{len(indices)})
	dst := result.Data()
	for i, idx := range indices {
		dst[i] = src[checkIndex("take", x, idx)]
	}
	return result
}

// IndexAdd returns a copy of x with delta added at the flat indices.
func (cpu *CPUBackend) IndexAdd(x *tensor.Tensor, indices []int, delta float64) *tensor.Tensor {
	result := x.Clone()
	dst := result.Data()
	for _, idx := range indices {
		dst[checkIndex("indexadd", x, idx)] += delta
	}
	return result
}

// IndexScale returns a copy of x with the flat indices multiplied by factor.
func (cpu *CPUBackend) IndexScale(x *tensor.Tensor, indices []int, factor float64) *tensor.Tensor {
	result := x.Clone()
	dst := result.Data()
	for _, idx := range indices {
		dst[checkIndex("indexscale", x, idx)] *= factor
	}
	return result
}

// PairwiseDistance computes ‖a_i - b_j‖ for every row pair by explicit
// subtraction. Memory and time grow with n·m·d, so it does not scale to very
// large label sets.
func (cpu *CPUBackend) PairwiseDistance(a, b *tensor.Tensor) *tensor.Tensor {
	checkPairwise("pairwisedistance", a, b)
	n, m := a.Dim(0), b.Dim(0)
	result := tensor.Zeros(tensor.Shape{n, m})
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			result.Set(floats.Distance(a.Row(i), b.Row(j), 2), i, j)
		}
	}
	return result
}

// PairwiseSquaredDistance computes ‖a_i - b_j‖² for every row pair.
func (cpu *CPUBackend) PairwiseSquaredDistance(a, b *tensor.Tensor) *tensor.Tensor {
	checkPairwise("pairwisesquareddistance", a, b)
	n, m := a.Dim(0), b.Dim(0)
	result := tensor.Zeros(tensor.Shape{n, m})
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			d := floats.Distance(a.Row(i), b.Row(j), 2)
			result.Set(d*d, i, j)
		}
	}
	return result
}

// TripletMargin mines the hardest (or semi-hard) triplet per anchor from a
// square score matrix and averages the margin violations.
func (cpu *CPUBackend) TripletMargin(scores *tensor.Tensor, labels []int, margin float64, semihard bool) *tensor.Tensor {
	if scores.Rank() != 2 || scores.Dim(0) != scores.Dim(1) || scores.Dim(0) != len(labels) {
		panic(fmt.Sprintf("tripletmargin: scores %v do not match %d labels", scores.Shape(), len(labels)))
	}
	loss, _, _ := kernels.TripletSelect(scores.Data(), labels, margin, semihard)
	return scalar(loss)
}

// CenterLoss computes 0.5 · Σ‖x_i - centers[labels[i]]‖² over the batch.
func (cpu *CPUBackend) CenterLoss(x, centers *tensor.Tensor, labels []int, _ float64) *tensor.Tensor {
	checkBatch("centerloss", x, labels)
	if centers.Rank() != 2 || centers.Dim(1) != x.Dim(1) {
		panic(fmt.Sprintf("centerloss: centers %v do not match embeddings %v", centers.Shape(), x.Shape()))
	}
	checkClasses("centerloss", labels, centers.Dim(0))
	total := 0.0
	for i, label := range labels {
		d := floats.Distance(x.Row(i), centers.Row(label), 2)
		total += d * d
	}
	return scalar(0.5 * total)
}

// checkLabels validates a [batch, classes] input against labels.
func checkLabels(op string, x *tensor.Tensor, labels []int) {
	checkBatch(op, x, labels)
	checkClasses(op, labels, x.Dim(1))
}

func checkBatch(op string, x *tensor.Tensor, labels []int) {
	if x.Rank() != 2 || x.Dim(0) != len(labels) {
		panic(fmt.Sprintf("%s: input %v does not match %d labels", op, x.Shape(), len(labels)))
	}
}

func checkClasses(op string, labels []int, classes int) {
	for _, label := range labels {
		if label < 0 || label >= classes {
			panic(fmt.Sprintf("%s: label %d out of range [0, %d)", op, label, classes))
		}
	}
}

func checkIndex(op string, x *tensor.Tensor, idx int) int {
	if idx < 0 || idx >= x.NumElements() {
		panic(fmt.Sprintf("%s: index %d out of range for %v", op, idx, x.Shape()))
	}
	return idx
}

func checkPairwise(op string, a, b *tensor.Tensor) {
	if a.Rank() != 2 || b.Rank() != 2 || a.Dim(1) != b.Dim(1) {
		panic(fmt.Sprintf("%s: expected [n, d] and [m, d], got %v and %v", op, a.Shape(), b.Shape()))
	}
}

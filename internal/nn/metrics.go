package nn

import (
	"fmt"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// TopK is the rank cut-off of the wider accuracy metric.
const TopK = 5

// Accuracy holds top-1 and top-5 accuracy as percentages in [0, 100].
type Accuracy struct {
	Top1 float64
	Top5 float64
}

// String formats the pair as "top1=…% top5=…%".
func (a Accuracy) String() string {
	return fmt.Sprintf("top1=%.2f%% top5=%.2f%%", a.Top1, a.Top5)
}

// OneHot returns the [batch, nLabels] one-hot encoding of labels, built by
// selecting rows of an nLabels×nLabels identity matrix through the backend.
// The result is not detached: on an autodiff backend the row selection is
// recorded like any other op.
func OneHot(labels []int, nLabels int, backend tensor.Backend) (*tensor.Tensor, error) {
	if err := checkLabels(labels, len(labels), nLabels); err != nil {
		return nil, err
	}
	indices := make([]int, 0, len(labels)*nLabels)
	for _, label := range labels {
		for j := 0; j < nLabels; j++ {
			indices = append(indices, label*nLabels+j)
		}
	}
	rows := backend.Take(tensor.Eye(nLabels), indices)
	return backend.Reshape(rows, tensor.Shape{len(labels), nLabels}), nil
}

// OneHotIdx returns the flat index labels[i] + i*nLabels of every true-class
// entry in a row-major [batch, nLabels] tensor.
func OneHotIdx(labels []int, nLabels int) []int {
	indices := make([]int, len(labels))
	for i, label := range labels {
		indices[i] = label + i*nLabels
	}
	return indices
}

// Top1Top5 computes top-1 and top-5 accuracy of a [batch, nLabels] score
// matrix, where a higher score ranks higher.
//
// Each row is ranked in descending order, with ties broken by the lower class
// index. When nLabels < 5 the top-5 test only covers the nLabels ranks that
// exist, so it is always a hit.
func Top1Top5(scores *tensor.Tensor, labels []int) (Accuracy, error) {
	if scores.Rank() != 2 {
		return Accuracy{}, errors.Wrapf(ErrInvalidShape, "accuracy: expected [batch, labels] scores, got %v", scores.Shape())
	}
	batch, nLabels := scores.Dim(0), scores.Dim(1)
	if err := checkLabels(labels, batch, nLabels); err != nil {
		return Accuracy{}, err
	}
	if batch == 0 {
		return Accuracy{}, nil
	}
	k := min(TopK, nLabels)

	var top1, top5 int
	for i, label := range labels {
		rank := labelRank(scores.Row(i), label)
		if rank == 0 {
			top1++
		}
		if rank < k {
			top5++
		}
	}
	scale := 100 / float64(batch)
	return Accuracy{Top1: float64(top1) * scale, Top5: float64(top5) * scale}, nil
}

// labelRank returns the 0-based position of label in row sorted descending,
// placing equal scores with a lower index first.
func labelRank(row []float64, label int) int {
	target := row[label]
	rank := 0
	for j, v := range row {
		if v > target || (v == target && j < label) {
			rank++
		}
	}
	return rank
}

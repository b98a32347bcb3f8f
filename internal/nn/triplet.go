package nn

import (
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

//go:generate enumer -type=TripletSelection -trimprefix=Triplet -transform=lower -values -text -json triplet.go

// TripletSelection picks which violating triplet of each anchor is penalised.
type TripletSelection int

const (
	// TripletHardest keeps, per anchor, the largest hinge value.
	TripletHardest TripletSelection = iota

	// TripletSemihard keeps only hinge values strictly inside (0, margin),
	// then the largest of those per anchor.
	TripletSemihard
)

// TripletLoss is a batch-mined triplet margin loss.
//
// Scores are squared Euclidean distances between every pair of embeddings,
// divided by the embedding width. For anchor i, genuine g and impostor k the
// hinge is max(0, S[i,g] − S[i,k] + margin). The loss is the mean, over
// anchors that have at least one genuine and one impostor in the batch, of the
// selected hinge per anchor. A batch without such an anchor yields 0.
type TripletLoss struct {
	margin    float64
	selection TripletSelection
	backend   tensor.Backend
}

// NewTripletLoss creates a triplet loss.
func NewTripletLoss(margin float64, selection TripletSelection, backend tensor.Backend) (*TripletLoss, error) {
	if !selection.IsATripletSelection() {
		return nil, errors.Wrapf(ErrInvalidConfig, "triplet selection %d", int(selection))
	}
	if margin < 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "triplet margin must be non-negative, got %g", margin)
	}
	return &TripletLoss{margin: margin, selection: selection, backend: backend}, nil
}

// Margin returns the hinge margin.
func (l *TripletLoss) Margin() float64 { return l.margin }

// Selection returns the negative selection policy.
func (l *TripletLoss) Selection() TripletSelection { return l.selection }

// Forward mines triplets from embeddings [batch, ...] with the given labels.
// Labels only need to be non-negative; accuracy is always zero.
func (l *TripletLoss) Forward(input *tensor.Tensor, labels []int) (*tensor.Tensor, Accuracy, error) {
	if input.Rank() < 2 || input.Dim(0) == 0 {
		return nil, Accuracy{}, errors.Wrapf(ErrInvalidShape, "triplet loss: expected [batch, ...] input, got %v", input.Shape())
	}
	batch := input.Dim(0)
	width := input.NumElements() / batch
	embeddings, err := flatten(input, width, l.backend)
	if err != nil {
		return nil, Accuracy{}, errors.WithMessage(err, "triplet loss")
	}
	if err := checkLabels(labels, batch, unboundedLabels); err != nil {
		return nil, Accuracy{}, errors.WithMessage(err, "triplet loss")
	}
	if !hasTripletAnchor(labels) {
		klog.Warningf("triplet loss: batch of %d has no anchor with both a genuine and an impostor", batch)
	}

	b := l.backend
	scores := b.MulScalar(b.PairwiseSquaredDistance(embeddings, embeddings), 1/float64(width))
	return b.TripletMargin(scores, labels, l.margin, l.selection == TripletSemihard), Accuracy{}, nil
}

// Parameters returns nil; the triplet loss has no trainable state.
func (l *TripletLoss) Parameters() []*Parameter {
	return nil
}

// hasTripletAnchor reports whether some label occurs at least twice while
// another label is also present.
func hasTripletAnchor(labels []int) bool {
	counts := make(map[int]int, len(labels))
	repeated := false
	for _, label := range labels {
		counts[label]++
		if counts[label] > 1 {
			repeated = true
		}
	}
	return repeated && len(counts) > 1
}

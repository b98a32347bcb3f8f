package nn

import (
	"github.com/born-ml/capsnet/internal/kernels"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// Margin loss constants from "Dynamic Routing Between Capsules" (arXiv:1710.09829).
const (
	CapsulePositiveMargin = 0.9 // m+
	CapsuleNegativeMargin = 0.1 // m-
	CapsuleDownWeight     = 0.5 // lambda
	capsuleClampMax       = 1e6
)

// CapsuleLoss is the margin loss over class capsules.
//
// The length of each class capsule is read as the probability of that class.
// For every sample the loss is
//
//	Σ_k T_k·max(0, m+ − p_k)² + λ·(1 − T_k)·max(0, p_k − m-)²
//
// averaged over the batch. Reconstruction terms belong to the training
// driver, not to this loss.
type CapsuleLoss struct {
	nLabels int
	backend tensor.Backend
}

// NewCapsuleLoss creates a capsule margin loss over nLabels class capsules.
func NewCapsuleLoss(nLabels int, backend tensor.Backend) (*CapsuleLoss, error) {
	if nLabels < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "n_labels must be positive, got %d", nLabels)
	}
	return &CapsuleLoss{nLabels: nLabels, backend: backend}, nil
}

// Forward scores capsules [batch, n_labels, capsule_dim] against labels.
// Accuracy is computed from the capsule lengths.
func (l *CapsuleLoss) Forward(capsules *tensor.Tensor, labels []int) (*tensor.Tensor, Accuracy, error) {
	if capsules.Rank() != 3 || capsules.Dim(0) == 0 || capsules.Dim(1) != l.nLabels {
		return nil, Accuracy{}, errors.Wrapf(ErrInvalidShape, "capsule loss: expected [batch, %d, dim], got %v", l.nLabels, capsules.Shape())
	}
	batch := capsules.Dim(0)
	if err := checkLabels(labels, batch, l.nLabels); err != nil {
		return nil, Accuracy{}, errors.WithMessage(err, "capsule loss")
	}

	b := l.backend
	lengths := b.Sqrt(b.AddScalar(b.SumDim(b.Square(capsules), 2), kernels.CapsuleEpsilon))
	acc, err := Top1Top5(lengths, labels)
	if err != nil {
		return nil, Accuracy{}, err
	}

	targets, err := OneHot(labels, l.nLabels, b)
	if err != nil {
		return nil, Accuracy{}, err
	}
	others := b.AddScalar(b.MulScalar(targets, -1), 1)

	present := b.Square(b.Clamp(b.AddScalar(b.MulScalar(lengths, -1), CapsulePositiveMargin), 0, capsuleClampMax))
	absent := b.Square(b.Clamp(b.AddScalar(lengths, -CapsuleNegativeMargin), 0, capsuleClampMax))
	perClass := b.Add(b.Mul(targets, present), b.MulScalar(b.Mul(others, absent), CapsuleDownWeight))
	return b.MulScalar(b.Sum(perClass), 1/float64(batch)), acc, nil
}

// Parameters returns nil; the capsule loss has no trainable state.
func (l *CapsuleLoss) Parameters() []*Parameter {
	return nil
}

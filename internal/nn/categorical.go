package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/capsnet/internal/kernels"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"
)

//go:generate enumer -type=LossType -trimprefix=Loss -transform=lower -values -text -json categorical.go
//go:generate enumer -type=Measure -trimprefix=Measure -transform=lower -values -text -json categorical.go

// LossType selects the objective of a CategoricalLoss.
type LossType int

const (
	// LossEntr is categorical cross-entropy on the raw responses.
	LossEntr LossType = iota

	// LossSmax is an explicit log-softmax followed by negative log-likelihood.
	LossSmax

	// LossTsmax replaces exp with its second-order Taylor expansion
	// 1 + r + r²/2 before the softmax (arXiv:1511.05042).
	LossTsmax

	// LossLMCL is the large margin cosine loss (arXiv:1801.09414, eq. 4).
	LossLMCL

	// LossLMGM is the large margin Gaussian mixture loss (arXiv:1803.02988, eq. 17).
	LossLMGM
)

// Measure selects how embeddings are compared with the class weights.
type Measure int

const (
	// MeasureDot uses the raw dot product.
	MeasureDot Measure = iota

	// MeasureCosine L2-normalises embeddings and weight rows first.
	MeasureCosine
)

// Constructor defaults, used when a CategoricalConfig field is left at zero.
const (
	DefaultScale  = 0.5
	DefaultMargin = 0.3
	DefaultAlpha  = 0.5
)

// maxLMCLMargin caps the cosine margin of LossLMCL.
const maxLMCLMargin = 0.5

// ParseLossType parses a loss type name such as "lmcl", case-insensitively.
func ParseLossType(name string) (LossType, error) {
	t, err := LossTypeString(name)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidConfig, "loss type %q is not one of %v", name, LossTypeStrings())
	}
	return t, nil
}

// ParseMeasure parses a measure name such as "cosine", case-insensitively.
func ParseMeasure(name string) (Measure, error) {
	m, err := MeasureString(name)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidConfig, "measure %q is not one of %v", name, MeasureStrings())
	}
	return m, nil
}

// CategoricalConfig holds configuration for CategoricalLoss.
//
// Scale, Margin and Alpha left at zero take DefaultScale, DefaultMargin and
// DefaultAlpha. Scale is lambda of the center loss and the lmgm likelihood
// term, and s of lmcl. Margin is m of lmcl. Alpha is the center update rate
// and the lmgm margin.
type CategoricalConfig struct {
	TensorSize []int // input shape, batch axis first, or just the width
	NLabels    int
	Type       LossType
	Measure    Measure
	Center     bool // add the center-loss regulariser
	Scale      float64
	Margin     float64
	Alpha      float64

	// Defaults replaces Scale, Margin and Alpha with the presets from the
	// papers: lmcl margin 0.35 scale 10, then center scale 0.5 alpha 0.01,
	// then lmgm alpha 0.01 scale 0.1. Later presets override earlier ones.
	Defaults bool

	// Rand seeds weight and center initialisation; nil uses the global source.
	Rand *rand.Rand
}

// resolved returns the config with zero values and presets filled in.
func (c CategoricalConfig) resolved() CategoricalConfig {
	if c.Scale == 0 {
		c.Scale = DefaultScale
	}
	if c.Margin == 0 {
		c.Margin = DefaultMargin
	}
	if c.Alpha == 0 {
		c.Alpha = DefaultAlpha
	}
	if !c.Defaults {
		return c
	}
	if c.Type == LossLMCL {
		c.Margin, c.Scale = 0.35, 10
	}
	if c.Center {
		c.Scale, c.Alpha = 0.5, 0.01
	}
	if c.Type == LossLMGM {
		c.Alpha, c.Scale = 0.01, 0.1
	}
	klog.V(1).Infof("categorical loss %s: paper defaults applied (scale=%g margin=%g alpha=%g)", c.Type, c.Scale, c.Margin, c.Alpha)
	return c
}

// CategoricalLoss maps embeddings to n_labels responses through a learned
// weight matrix and scores them with one of the LossType objectives,
// optionally adding a center-loss regulariser.
//
// The loss owns its weight (and center) matrix for the whole training run.
// In normalised modes (MeasureCosine or LossLMCL) Forward renormalises the
// weight rows in place before using them; see NormalizeWeights.
//
// Example:
//
//	loss, _ := nn.NewCategoricalLoss(nn.CategoricalConfig{
//	    TensorSize: []int{1, 256},
//	    NLabels:    10,
//	    Type:       nn.LossSmax,
//	    Center:     true,
//	}, backend)
//	value, acc, err := loss.Forward(embeddings, labels)
type CategoricalLoss struct {
	config     CategoricalConfig
	nEmbedding int
	weight     *Parameter // [n_labels, n_embedding]
	centers    *Parameter // [n_labels, n_embedding], nil unless Center
	backend    tensor.Backend
}

// NewCategoricalLoss validates the configuration and initialises the weight
// matrix from N(0, 1). With Center, class centers are unit-normalised N(0, 1)
// rows.
func NewCategoricalLoss(config CategoricalConfig, backend tensor.Backend) (*CategoricalLoss, error) {
	if !config.Type.IsALossType() {
		return nil, errors.Wrapf(ErrInvalidConfig, "loss type %d", int(config.Type))
	}
	if !config.Measure.IsAMeasure() {
		return nil, errors.Wrapf(ErrInvalidConfig, "measure %d", int(config.Measure))
	}
	if config.NLabels < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "n_labels must be positive, got %d", config.NLabels)
	}
	nEmbedding, err := ComputeNEmbedding(config.TensorSize)
	if err != nil {
		return nil, err
	}
	config = config.resolved()

	l := &CategoricalLoss{
		config:     config,
		nEmbedding: nEmbedding,
		weight:     NewParameter("categorical.weight", tensor.Randn(tensor.Shape{config.NLabels, nEmbedding}, config.Rand)),
		backend:    backend,
	}
	if config.Center {
		l.centers = NewParameter("categorical.centers", NormalizedRandn(config.NLabels, nEmbedding, config.Rand))
	}
	return l, nil
}

// Config returns the resolved configuration.
func (l *CategoricalLoss) Config() CategoricalConfig {
	return l.config
}

// NEmbedding returns the embedding width.
func (l *CategoricalLoss) NEmbedding() int {
	return l.nEmbedding
}

// Weight returns the class weight parameter.
func (l *CategoricalLoss) Weight() *Parameter {
	return l.weight
}

// Centers returns the class centers, or nil without the center loss.
func (l *CategoricalLoss) Centers() *Parameter {
	return l.centers
}

// Parameters returns the weight and, with the center loss, the centers.
func (l *CategoricalLoss) Parameters() []*Parameter {
	if l.centers != nil {
		return []*Parameter{l.weight, l.centers}
	}
	return []*Parameter{l.weight}
}

// normalized reports whether embeddings and weights are compared on the unit
// sphere.
func (l *CategoricalLoss) normalized() bool {
	return l.config.Measure == MeasureCosine || l.config.Type == LossLMCL
}

// NormalizeWeights rescales every stored weight row to unit L2 norm, in
// place. The tensor keeps its identity, so gradients computed afterwards
// still key on it. Forward calls this in normalised modes.
func (l *CategoricalLoss) NormalizeWeights() {
	normalizeRows(l.weight.Tensor())
}

// Forward scores embeddings [batch, ...] against labels.
//
// Steps:
//  1. Normalised modes renormalise the weights (NormalizeWeights) and
//     L2-normalise the embeddings through the backend.
//  2. Responses R = E·Wᵀ, clamped to [-1, 1] when normalised.
//  3. Accuracy is taken from R before any margin is applied.
//  4. The type-specific loss; lmgm works on distances instead of R.
//  5. With Center, the center loss on the embeddings used above is added.
func (l *CategoricalLoss) Forward(input *tensor.Tensor, labels []int) (*tensor.Tensor, Accuracy, error) {
	b := l.backend
	embeddings, err := flatten(input, l.nEmbedding, b)
	if err != nil {
		return nil, Accuracy{}, errors.WithMessage(err, "categorical loss")
	}
	if err := checkLabels(labels, embeddings.Dim(0), l.config.NLabels); err != nil {
		return nil, Accuracy{}, errors.WithMessage(err, "categorical loss")
	}

	if l.normalized() {
		l.NormalizeWeights()
		embeddings = b.L2Normalize(embeddings)
	}

	var loss *tensor.Tensor
	var acc Accuracy
	if l.config.Type == LossLMGM {
		loss, acc, err = l.lmgm(embeddings, labels)
	} else {
		loss, acc, err = l.softmaxFamily(embeddings, labels)
	}
	if err != nil {
		return nil, Accuracy{}, err
	}

	if l.centers != nil {
		loss = b.Add(loss, b.CenterLoss(embeddings, l.centers.Tensor(), labels, l.config.Alpha))
	}
	return loss, acc, nil
}

// responses computes E·Wᵀ, clamped to [-1, 1] in normalised modes to absorb
// rounding overshoot of the cosine.
func (l *CategoricalLoss) responses(embeddings *tensor.Tensor) *tensor.Tensor {
	b := l.backend
	r := b.MatMul(embeddings, b.Transpose(l.weight.Tensor()))
	if l.normalized() {
		r = b.Clamp(r, -1, 1)
	}
	return r
}

func (l *CategoricalLoss) softmaxFamily(embeddings *tensor.Tensor, labels []int) (*tensor.Tensor, Accuracy, error) {
	b := l.backend
	r := l.responses(embeddings)
	acc, err := Top1Top5(r, labels)
	if err != nil {
		return nil, Accuracy{}, err
	}

	switch l.config.Type {
	case LossEntr:
		return b.CrossEntropy(r, labels), acc, nil
	case LossSmax:
		return b.NLLLoss(b.LogSoftmax(r), labels), acc, nil
	case LossTsmax:
		taylor := b.AddScalar(b.Add(r, b.MulScalar(b.Square(r), 0.5)), 1)
		return b.NLLLoss(b.LogSoftmax(taylor), labels), acc, nil
	case LossLMCL:
		m := math.Min(maxLMCLMargin, l.config.Margin)
		s := math.Max(l.config.Scale, 1)
		adjusted := b.IndexAdd(r, OneHotIdx(labels, l.config.NLabels), -m)
		return b.NLLLoss(b.LogSoftmax(b.MulScalar(adjusted, s)), labels), acc, nil
	}
	return nil, Accuracy{}, errors.Wrapf(ErrNotImplemented, "categorical loss type %s", l.config.Type)
}

// lmgm scores by distance to the class weights: 1 - cosine when normalised,
// otherwise the Euclidean distance of every (embedding, weight) pair computed
// by explicit subtraction. Memory grows with batch·n_labels·n_embedding;
// switch to MeasureCosine for large label sets.
func (l *CategoricalLoss) lmgm(embeddings *tensor.Tensor, labels []int) (*tensor.Tensor, Accuracy, error) {
	b := l.backend
	var distance *tensor.Tensor
	if l.normalized() {
		// Cosine clamped to [-1, 1] as in the softmax family, so distances stay in [0, 2].
		distance = b.AddScalar(b.MulScalar(l.responses(embeddings), -1), 1)
	} else {
		distance = b.PairwiseDistance(embeddings, l.weight.Tensor())
	}

	negated := tensor.ZerosLike(distance)
	floats.ScaleTo(negated.Data(), -1, distance.Data())
	acc, err := Top1Top5(negated, labels)
	if err != nil {
		return nil, Accuracy{}, err
	}

	trueIdx := OneHotIdx(labels, l.config.NLabels)
	likelihood := b.MulScalar(b.Mean(b.Take(distance, trueIdx)), l.config.Scale)
	inflated := b.IndexScale(distance, trueIdx, 1+l.config.Alpha)
	nll := b.NLLLoss(b.LogSoftmax(b.MulScalar(inflated, -1)), labels)
	return b.Add(likelihood, nll), acc, nil
}

// normalizeRows scales every row of a rank-2 tensor to unit L2 norm in place.
func normalizeRows(t *tensor.Tensor) {
	for i := 0; i < t.Dim(0); i++ {
		row := t.Row(i)
		floats.Scale(1/kernels.RowNorm(row), row)
	}
}

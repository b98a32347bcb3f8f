package checkpoint

import (
	"maps"
	"strconv"
	"time"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Metadata keys written by Save.
const (
	KeyRunID     = "run_id"
	KeyLossType  = "loss_type"
	KeyStep      = "step"
	KeyLoss      = "loss"
	KeyCreatedAt = "created_at"
)

// Meta contains training state information for checkpoints.
type Meta struct {
	RunID     uuid.UUID         // Identifies the training run across checkpoints
	LossType  string            // Loss the parameters were trained with ("lmcl", "capsule", ...)
	Step      int               // Training step number
	Loss      float64           // Loss value at checkpoint
	CreatedAt time.Time         // When the checkpoint was taken
	Extra     map[string]string // Additional free-form metadata
}

// NewMeta starts the metadata of a new training run with a fresh run id.
func NewMeta(lossType string) Meta {
	return Meta{
		RunID:     uuid.New(),
		LossType:  lossType,
		CreatedAt: time.Now().UTC(),
	}
}

func (m Meta) encode() map[string]string {
	out := make(map[string]string, len(m.Extra)+5)
	maps.Copy(out, m.Extra)
	out[KeyRunID] = m.RunID.String()
	out[KeyLossType] = m.LossType
	out[KeyStep] = strconv.Itoa(m.Step)
	out[KeyLoss] = strconv.FormatFloat(m.Loss, 'g', -1, 64)
	out[KeyCreatedAt] = m.CreatedAt.Format(time.RFC3339)
	return out
}

func decodeMeta(raw map[string]string) (Meta, error) {
	var m Meta
	var err error
	if m.RunID, err = uuid.Parse(raw[KeyRunID]); err != nil {
		return Meta{}, errors.Wrapf(ErrInvalidCheckpoint, "run id %q: %v", raw[KeyRunID], err)
	}
	m.LossType = raw[KeyLossType]
	if s, ok := raw[KeyStep]; ok {
		if m.Step, err = strconv.Atoi(s); err != nil {
			return Meta{}, errors.Wrapf(ErrInvalidCheckpoint, "step %q", s)
		}
	}
	if s, ok := raw[KeyLoss]; ok {
		if m.Loss, err = strconv.ParseFloat(s, 64); err != nil {
			return Meta{}, errors.Wrapf(ErrInvalidCheckpoint, "loss %q", s)
		}
	}
	if s, ok := raw[KeyCreatedAt]; ok {
		if m.CreatedAt, err = time.Parse(time.RFC3339, s); err != nil {
			return Meta{}, errors.Wrapf(ErrInvalidCheckpoint, "created_at %q", s)
		}
	}
	m.Extra = make(map[string]string)
	for k, v := range raw {
		switch k {
		case KeyRunID, KeyLossType, KeyStep, KeyLoss, KeyCreatedAt, checksumKey:
		default:
			m.Extra[k] = v
		}
	}
	return m, nil
}

// Save writes a state dict with its training metadata.
func Save(path string, state map[string]*tensor.Tensor, meta Meta, dtype DType) error {
	return WriteFile(path, state, dtype, meta.encode())
}

// Load reads a checkpoint written by Save.
func Load(path string) (map[string]*tensor.Tensor, Meta, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, Meta{}, err
	}
	meta, err := decodeMeta(f.Metadata)
	if err != nil {
		return nil, Meta{}, errors.WithMessagef(err, "checkpoint %s", path)
	}
	return f.Tensors, meta, nil
}

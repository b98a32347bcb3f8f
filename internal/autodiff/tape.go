package autodiff

import (
	"github.com/born-ml/capsnet/internal/autodiff/ops"
	"github.com/born-ml/capsnet/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic differentiation.
//
// A tape is not safe for concurrent use. Record one forward pass, call
// Backward, then Clear before the next step.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... perform operations ...
//	gradients := tape.Backward(loss, outputGrad, backend)
type GradientTape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	recording  bool            // Whether tape is currently recording
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	clear(t.operations)
	t.operations = t.operations[:0]
}

// Backward computes gradients of output with respect to every tensor that
// contributed to it, by walking the tape in reverse.
//
// Algorithm:
//  1. Seed output with outputGrad (typically ones for a scalar loss)
//  2. Walk operations in reverse order
//  3. For each operation whose output has a gradient, apply the chain rule
//  4. Accumulate gradients when the same tensor is used multiple times
//
// Operations recorded after output, or not on its path, are skipped.
// Returns a map from tensor to its accumulated gradient.
func (t *GradientTape) Backward(output, outputGrad *tensor.Tensor, backend tensor.Backend) map[*tensor.Tensor]*tensor.Tensor {
	grads := make(map[*tensor.Tensor]*tensor.Tensor)
	grads[output] = outputGrad
	if len(t.operations) == 0 {
		return grads
	}

	// Stop recording during backward pass to prevent recording gradient operations
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		opOutputGrad, hasGrad := grads[op.Output()]
		if !hasGrad {
			continue
		}
		t.accumulateGrads(op, op.Backward(opOutputGrad, backend), grads, backend)
	}
	return grads
}

// accumulateGrads accumulates gradients for each input tensor.
func (t *GradientTape) accumulateGrads(
	op ops.Operation,
	inputGrads []*tensor.Tensor,
	grads map[*tensor.Tensor]*tensor.Tensor,
	backend tensor.Backend,
) {
	for j, input := range op.Inputs() {
		if j >= len(inputGrads) {
			break
		}
		inputGrad := inputGrads[j]
		if inputGrad == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = backend.Add(existing, inputGrad)
		} else {
			grads[input] = inputGrad
		}
	}
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

package autodiff

import "github.com/born-ml/capsnet/internal/tensor"

// BackwardCapable is an interface for backends that support backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable interface).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of t using the backend's tape, seeding t with ones.
//
// Returns a map from tensor to its gradient. Tensors that do not influence t
// are absent from the map.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	y := backend.Sum(backend.Mul(x, x)) // y = Σx²
//	gradients := autodiff.Backward(y, backend)
//	grad := gradients[x] // 2x
func Backward(t *tensor.Tensor, backend BackwardCapable) map[*tensor.Tensor]*tensor.Tensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}
	return tape.Backward(t, tensor.Ones(t.Shape()), backend)
}

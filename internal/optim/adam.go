package optim

import (
	"math"

	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/internal/tensor"
)

// Adam implements the Adam optimizer (Adaptive Moment Estimation).
//
// Update rule:
//
//	m = β1 * m + (1 - β1) * g
//	v = β2 * v + (1 - β2) * g²
//	m̂ = m / (1 - β1^t)
//	v̂ = v / (1 - β2^t)
//	param = param - lr * m̂ / (√v̂ + ε)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014).
type Adam struct {
	params []*nn.Parameter
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int                              // Timestep for bias correction
	m      map[*nn.Parameter]*tensor.Tensor // First moment estimates
	v      map[*nn.Parameter]*tensor.Tensor // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[*nn.Parameter]*tensor.Tensor),
		v:      make(map[*nn.Parameter]*tensor.Tensor),
	}
}

// Step performs a single optimization step.
func (a *Adam) Step(grads map[*tensor.Tensor]*tensor.Tensor) {
	a.t++
	biasCorrection1 := 1 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1 - math.Pow(a.beta2, float64(a.t))

	for _, param := range a.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}
		m, ok := a.m[param]
		if !ok {
			m = tensor.ZerosLike(param.Tensor())
			a.m[param] = m
		}
		v, ok := a.v[param]
		if !ok {
			v = tensor.ZerosLike(param.Tensor())
			a.v[param] = v
		}

		gradData, mData, vData := grad.Data(), m.Data(), v.Data()
		paramData := param.Tensor().Data()
		for i := range paramData {
			g := gradData[i]
			mData[i] = a.beta1*mData[i] + (1-a.beta1)*g
			vData[i] = a.beta2*vData[i] + (1-a.beta2)*g*g
			mHat := mData[i] / biasCorrection1
			vHat := vData[i] / biasCorrection2
			paramData[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// GetTimestep returns the number of steps taken.
func (a *Adam) GetTimestep() int {
	return a.t
}

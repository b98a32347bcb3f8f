// Package kernels holds the slice-level numeric routines shared by the CPU
// backend (forward pass) and the autodiff operations (backward pass), so both
// sides agree on exactly the same math.
package kernels

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// NormalizeEpsilon bounds the divisor of L2 normalisation (matches F.normalize).
	NormalizeEpsilon = 1e-12

	// SquashEpsilon keeps squash finite for zero-length capsules.
	SquashEpsilon = 1e-9

	// CapsuleEpsilon is added to squared capsule lengths before the square root.
	CapsuleEpsilon = 1e-6

	// DiceEpsilon is added to the Dice/Tversky denominator.
	DiceEpsilon = 1e-6
)

// LogSoftmax writes log(softmax(src)) into dst using the log-sum-exp trick.
//
//	LogSoftmax(z)[i] = z[i] - (max(z) + log(Σ exp(z - max(z))))
func LogSoftmax(dst, src []float64) {
	lse := floats.LogSumExp(src)
	for i, v := range src {
		dst[i] = v - lse
	}
}

// Softmax writes softmax(src) into dst.
func Softmax(dst, src []float64) {
	LogSoftmax(dst, src)
	for i, v := range dst {
		dst[i] = math.Exp(v)
	}
}

// RowNorm returns max(‖row‖₂, NormalizeEpsilon).
func RowNorm(row []float64) float64 {
	return math.Max(floats.Norm(row, 2), NormalizeEpsilon)
}

// SquashGain returns g(s) and g'(s) for squash(v) = g(‖v‖²)·v where
//
//	g(s) = s / ((1+s)·sqrt(s+ε))
//
// With ε = 0 this is the capsule squash s/(1+s) · 1/‖v‖.
func SquashGain(s float64) (g, dg float64) {
	se := s + SquashEpsilon
	root := math.Sqrt(se)
	onePlus := 1 + s
	g = s / (onePlus * root)
	dg = (se - s*onePlus/2) / (onePlus * onePlus * se * root)
	return g, dg
}

// TripletPick records the hardest (genuine, impostor) pair chosen for an anchor.
type TripletPick struct {
	Anchor   int
	Genuine  int
	Impostor int
}

// TripletSelect mines one triplet per anchor from an n×n score matrix.
//
// For anchor i every genuine g (same label, g != i) and impostor k (different
// label) yields max(0, S[i,g] - S[i,k] + margin). With semihard only values in
// (0, margin) survive. Each anchor keeps its maximum; the loss is the mean
// over anchors that have at least one (g, k) pair. picks lists the anchors
// whose maximum is positive (the only ones that carry gradient), and anchors
// is the divisor used for the mean (0 when no anchor is valid).
func TripletSelect(scores []float64, labels []int, margin float64, semihard bool) (loss float64, picks []TripletPick, anchors int) {
	n := len(labels)
	total := 0.0
	for i := 0; i < n; i++ {
		best := 0.0
		pick := TripletPick{Anchor: i, Genuine: -1, Impostor: -1}
		valid := false
		for g := 0; g < n; g++ {
			if g == i || labels[g] != labels[i] {
				continue
			}
			for k := 0; k < n; k++ {
				if labels[k] == labels[i] {
					continue
				}
				valid = true
				v := scores[i*n+g] - scores[i*n+k] + margin
				if v <= 0 {
					continue
				}
				if semihard && v >= margin {
					continue
				}
				if v > best {
					best = v
					pick.Genuine, pick.Impostor = g, k
				}
			}
		}
		if !valid {
			continue
		}
		anchors++
		if pick.Genuine >= 0 {
			total += best
			picks = append(picks, pick)
		}
	}
	if anchors == 0 {
		return 0, nil, 0
	}
	return total / float64(anchors), picks, anchors
}

// ClassMeans returns the per-label mean of the rows of x (n×d) for every label
// present in labels, keyed by label.
func ClassMeans(x []float64, d int, labels []int) map[int][]float64 {
	sums := make(map[int][]float64)
	counts := make(map[int]int)
	for i, label := range labels {
		acc, ok := sums[label]
		if !ok {
			acc = make([]float64, d)
			sums[label] = acc
		}
		floats.Add(acc, x[i*d:(i+1)*d])
		counts[label]++
	}
	for label, acc := range sums {
		floats.Scale(1/float64(counts[label]), acc)
	}
	return sums
}

// ChannelIndex returns the mapping from a flat element index of a tensor with
// the given shape to its position along axis 1, for a per-channel parameter of
// length channels. A single channel is shared by every element. ok is false
// when the parameter does not fit the shape.
func ChannelIndex(shape []int, channels int) (index func(int) int, ok bool) {
	if channels == 1 {
		return func(int) int { return 0 }, true
	}
	if len(shape) < 2 || shape[1] != channels {
		return nil, false
	}
	inner := 1
	for _, d := range shape[2:] {
		inner *= d
	}
	return func(i int) int { return (i / inner) % channels }, true
}

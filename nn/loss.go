// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/tensor"
)

// LossType selects the categorical objective.
type LossType = nn.LossType

// Categorical objectives.
const (
	LossEntr  = nn.LossEntr
	LossSmax  = nn.LossSmax
	LossTsmax = nn.LossTsmax
	LossLMCL  = nn.LossLMCL
	LossLMGM  = nn.LossLMGM
)

// Measure selects how embeddings are compared with class weights.
type Measure = nn.Measure

// Response measures.
const (
	MeasureDot    = nn.MeasureDot
	MeasureCosine = nn.MeasureCosine
)

// Constructor defaults for zero CategoricalConfig fields.
const (
	DefaultScale  = nn.DefaultScale
	DefaultMargin = nn.DefaultMargin
	DefaultAlpha  = nn.DefaultAlpha
)

// ParseLossType maps "entr", "smax", "tsmax", "lmcl" or "lmgm" to a LossType.
func ParseLossType(name string) (LossType, error) {
	return nn.ParseLossType(name)
}

// ParseMeasure maps "dot" or "cosine" to a Measure.
func ParseMeasure(name string) (Measure, error) {
	return nn.ParseMeasure(name)
}

// CategoricalConfig holds configuration for CategoricalLoss.
type CategoricalConfig = nn.CategoricalConfig

// CategoricalLoss scores embeddings through a learned class weight matrix,
// optionally regularised by center loss.
type CategoricalLoss = nn.CategoricalLoss

// NewCategoricalLoss creates a categorical loss.
//
// Example:
//
//	loss, err := nn.NewCategoricalLoss(nn.CategoricalConfig{
//	    TensorSize: []int{1, 64},
//	    NLabels:    10,
//	    Type:       nn.LossSmax,
//	    Center:     true,
//	}, backend)
func NewCategoricalLoss(config CategoricalConfig, backend tensor.Backend) (*CategoricalLoss, error) {
	return nn.NewCategoricalLoss(config, backend)
}

// CapsuleLoss is the margin loss over class capsule lengths.
type CapsuleLoss = nn.CapsuleLoss

// NewCapsuleLoss creates a capsule margin loss for nLabels capsules.
func NewCapsuleLoss(nLabels int, backend tensor.Backend) (*CapsuleLoss, error) {
	return nn.NewCapsuleLoss(nLabels, backend)
}

// TripletSelection selects which triplets contribute to TripletLoss.
type TripletSelection = nn.TripletSelection

// Triplet mining strategies.
const (
	TripletHardest  = nn.TripletHardest
	TripletSemihard = nn.TripletSemihard
)

// TripletLoss is the batch-mined triplet margin loss.
type TripletLoss = nn.TripletLoss

// NewTripletLoss creates a triplet loss.
//
// Example:
//
//	loss, err := nn.NewTripletLoss(nn.DefaultMargin, nn.TripletSemihard, backend)
func NewTripletLoss(margin float64, selection TripletSelection, backend tensor.Backend) (*TripletLoss, error) {
	return nn.NewTripletLoss(margin, selection, backend)
}

// DiceType selects the beta of DiceLoss.
type DiceType = nn.DiceType

// Dice variants.
const (
	DiceTypeTversky = nn.DiceTypeTversky
	DiceTypeDice    = nn.DiceTypeDice
)

// DiceLoss is the Dice/Tversky overlap loss for binary masks.
type DiceLoss = nn.DiceLoss

// NewDiceLoss creates a Dice or Tversky loss.
func NewDiceLoss(kind DiceType, backend tensor.Backend) (*DiceLoss, error) {
	return nn.NewDiceLoss(kind, backend)
}

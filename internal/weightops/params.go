package weightops

import (
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/skinweights/internal/vgroup"
)

// Weights at or below these thresholds are not stored.
const (
	TransferWeightThreshold = 0.01
	BlurWeightThreshold     = 0.001
)

// Effect restricts which neighbors a blur pass may average in.
type Effect int

const (
	// EffectBoth averages every neighbor.
	EffectBoth Effect = iota
	// EffectIncreaseOnly averages neighbors weighing at least as much as the vertex.
	EffectIncreaseOnly
	// EffectDecreaseOnly averages neighbors weighing at most as much as the vertex.
	EffectDecreaseOnly
)

func (e Effect) String() string {
	switch e {
	case EffectBoth:
		return "both"
	case EffectIncreaseOnly:
		return "increase"
	case EffectDecreaseOnly:
		return "decrease"
	default:
		return fmt.Sprintf("Effect(%d)", int(e))
	}
}

// ParseEffect accepts the String form of an effect, case-insensitively.
func ParseEffect(s string) (Effect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "both":
		return EffectBoth, nil
	case "increase", "add":
		return EffectIncreaseOnly, nil
	case "decrease", "sub":
		return EffectDecreaseOnly, nil
	}
	return EffectBoth, fmt.Errorf("unknown blur effect %q (want both, increase or decrease)", s)
}

// accepts reports whether a neighbor weighing w may contribute to a vertex
// currently weighing own.
func (e Effect) accepts(own, w float64) bool {
	switch e {
	case EffectIncreaseOnly:
		return own <= w
	case EffectDecreaseOnly:
		return w <= own
	default:
		return true
	}
}

// TransferParams controls both transfer variants.
type TransferParams struct {
	// ClearTargetFirst deletes every target group before transferring.
	ClearTargetFirst bool
	// RemoveEmptyGroups deletes target groups left without any weight above
	// TransferWeightThreshold.
	RemoveEmptyGroups bool
}

// DefaultTransferParams clears the target first and drops empty groups.
func DefaultTransferParams() TransferParams {
	return TransferParams{ClearTargetFirst: true, RemoveEmptyGroups: true}
}

// PrecisionTransferParams adds the search-range multiplier.
type PrecisionTransferParams struct {
	TransferParams
	// RangeMultiplier scales the nearest-source distance into the blend
	// radius. Must be greater than 1.
	RangeMultiplier float64
}

// DefaultPrecisionTransferParams returns the default precision settings.
func DefaultPrecisionTransferParams() PrecisionTransferParams {
	return PrecisionTransferParams{TransferParams: DefaultTransferParams(), RangeMultiplier: 2}
}

// Validate rejects parameters the algorithm cannot run with.
func (p PrecisionTransferParams) Validate() error {
	if math.IsNaN(p.RangeMultiplier) || math.IsInf(p.RangeMultiplier, 0) || p.RangeMultiplier <= 1 {
		return fmt.Errorf("%w: range multiplier must be > 1, got %v", ErrInvalidParameter, p.RangeMultiplier)
	}
	return nil
}

// BlurParams controls Blur.
type BlurParams struct {
	Target vgroup.SelectMode
	// RadiusMultiplier scales the mesh's average edge length into the blur radius.
	RadiusMultiplier float64
	// Iterations is the number of smoothing passes, at least 1.
	Iterations      int
	Effect          Effect
	NormalizeOthers bool
}

// DefaultBlurParams returns the default blur settings.
func DefaultBlurParams() BlurParams {
	return BlurParams{
		Target:           vgroup.SelectActive,
		RadiusMultiplier: 3,
		Iterations:       1,
		Effect:           EffectBoth,
		NormalizeOthers:  true,
	}
}

// Validate rejects parameters the algorithm cannot run with.
func (p BlurParams) Validate() error {
	if !p.Target.Valid() {
		return fmt.Errorf("%w: unknown target selection %v", ErrInvalidParameter, p.Target)
	}
	if math.IsNaN(p.RadiusMultiplier) || math.IsInf(p.RadiusMultiplier, 0) || p.RadiusMultiplier <= 0 {
		return fmt.Errorf("%w: radius multiplier must be > 0, got %v", ErrInvalidParameter, p.RadiusMultiplier)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidParameter, p.Iterations)
	}
	if p.Effect < EffectBoth || p.Effect > EffectDecreaseOnly {
		return fmt.Errorf("%w: unknown blur effect %v", ErrInvalidParameter, p.Effect)
	}
	return nil
}

// MultiplyParams controls Multiply.
type MultiplyParams struct {
	Target          vgroup.SelectMode
	Value           float64
	NormalizeOthers bool
}

// DefaultMultiplyParams returns the default multiply settings.
func DefaultMultiplyParams() MultiplyParams {
	return MultiplyParams{Target: vgroup.SelectActive, Value: 1.1, NormalizeOthers: true}
}

// Validate rejects parameters the algorithm cannot run with.
func (p MultiplyParams) Validate() error {
	if !p.Target.Valid() {
		return fmt.Errorf("%w: unknown target selection %v", ErrInvalidParameter, p.Target)
	}
	if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) || p.Value <= 0 {
		return fmt.Errorf("%w: multiply value must be a positive number, got %v", ErrInvalidParameter, p.Value)
	}
	return nil
}

// Package config loads operation settings for the skinweights tool.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/skinweights/internal/vgroup"
	"github.com/banshee-data/skinweights/internal/weightops"
)

// DefaultConfigPath is the checked-in example of every operation setting
// at its default value.
const DefaultConfigPath = "config/operations.defaults.json"

// Ranges accepted from config files. They are tighter than what the engine
// itself accepts.
const (
	MinRangeMultiplier  = 1.1
	MaxRangeMultiplier  = 5.0
	MinRadiusMultiplier = 0.1
	MaxRadiusMultiplier = 50.0
	MinIterations       = 1
	MaxIterations       = 10
	MinMultiplyValue    = 0.1
	MaxMultiplyValue    = 10.0
)

// OperationConfig holds optional overrides for every weight operation.
// Unset fields fall back to the engine defaults through the Get* methods,
// so partial files are safe.
type OperationConfig struct {
	// Transfer params
	ClearTargetFirst  *bool    `json:"clear_target_first,omitempty"`
	RemoveEmptyGroups *bool    `json:"remove_empty_groups,omitempty"`
	RangeMultiplier   *float64 `json:"range_multiplier,omitempty"`

	// Blur and multiply params
	Target           *string  `json:"target,omitempty"` // active, above, below or all
	RadiusMultiplier *float64 `json:"radius_multiplier,omitempty"`
	Iterations       *int     `json:"iterations,omitempty"`
	Effect           *string  `json:"effect,omitempty"` // both, increase or decrease
	NormalizeOthers  *bool    `json:"normalize_others,omitempty"`
	MultiplyValue    *float64 `json:"multiply_value,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyOperationConfig returns a config with every field unset.
func EmptyOperationConfig() *OperationConfig {
	return &OperationConfig{}
}

// DefaultOperationConfig returns a config with every field set to its default.
func DefaultOperationConfig() *OperationConfig {
	pt := weightops.DefaultPrecisionTransferParams()
	b := weightops.DefaultBlurParams()
	return &OperationConfig{
		ClearTargetFirst:  ptrBool(pt.ClearTargetFirst),
		RemoveEmptyGroups: ptrBool(pt.RemoveEmptyGroups),
		RangeMultiplier:   ptrFloat64(pt.RangeMultiplier),
		Target:            ptrString(b.Target.String()),
		RadiusMultiplier:  ptrFloat64(b.RadiusMultiplier),
		Iterations:        ptrInt(b.Iterations),
		Effect:            ptrString(b.Effect.String()),
		NormalizeOthers:   ptrBool(b.NormalizeOthers),
		MultiplyValue:     ptrFloat64(weightops.DefaultMultiplyParams().Value),
	}
}

// Resolved returns a copy of c with every field set to its effective value.
func (c *OperationConfig) Resolved() *OperationConfig {
	return &OperationConfig{
		ClearTargetFirst:  ptrBool(c.GetClearTargetFirst()),
		RemoveEmptyGroups: ptrBool(c.GetRemoveEmptyGroups()),
		RangeMultiplier:   ptrFloat64(c.GetRangeMultiplier()),
		Target:            ptrString(c.GetTarget().String()),
		RadiusMultiplier:  ptrFloat64(c.GetRadiusMultiplier()),
		Iterations:        ptrInt(c.GetIterations()),
		Effect:            ptrString(c.GetEffect().String()),
		NormalizeOthers:   ptrBool(c.GetNormalizeOthers()),
		MultiplyValue:     ptrFloat64(c.GetMultiplyValue()),
	}
}

// LoadOperationConfig loads an OperationConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadOperationConfig(path string) (*OperationConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyOperationConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return fmt.Errorf("%s must be between %g and %g, got %g", name, lo, hi, v)
	}
	return nil
}

// Validate checks every set field against its accepted range.
func (c *OperationConfig) Validate() error {
	if c.RangeMultiplier != nil {
		if err := checkRange("range_multiplier", *c.RangeMultiplier, MinRangeMultiplier, MaxRangeMultiplier); err != nil {
			return err
		}
	}
	if c.RadiusMultiplier != nil {
		if err := checkRange("radius_multiplier", *c.RadiusMultiplier, MinRadiusMultiplier, MaxRadiusMultiplier); err != nil {
			return err
		}
	}
	if c.Iterations != nil {
		if *c.Iterations < MinIterations || *c.Iterations > MaxIterations {
			return fmt.Errorf("iterations must be between %d and %d, got %d", MinIterations, MaxIterations, *c.Iterations)
		}
	}
	if c.MultiplyValue != nil {
		if err := checkRange("multiply_value", *c.MultiplyValue, MinMultiplyValue, MaxMultiplyValue); err != nil {
			return err
		}
	}
	if c.Target != nil {
		if _, err := vgroup.ParseSelectMode(*c.Target); err != nil {
			return err
		}
	}
	if c.Effect != nil {
		if _, err := weightops.ParseEffect(*c.Effect); err != nil {
			return err
		}
	}
	return nil
}

// GetClearTargetFirst returns the clear_target_first value or the default.
func (c *OperationConfig) GetClearTargetFirst() bool {
	if c.ClearTargetFirst == nil {
		return true
	}
	return *c.ClearTargetFirst
}

// GetRemoveEmptyGroups returns the remove_empty_groups value or the default.
func (c *OperationConfig) GetRemoveEmptyGroups() bool {
	if c.RemoveEmptyGroups == nil {
		return true
	}
	return *c.RemoveEmptyGroups
}

// GetRangeMultiplier returns the range_multiplier value or the default.
func (c *OperationConfig) GetRangeMultiplier() float64 {
	if c.RangeMultiplier == nil {
		return 2.0
	}
	return *c.RangeMultiplier
}

// GetTarget returns the parsed target selection, defaulting to the active
// group on a missing or unparseable value.
func (c *OperationConfig) GetTarget() vgroup.SelectMode {
	if c.Target == nil {
		return vgroup.SelectActive
	}
	m, err := vgroup.ParseSelectMode(*c.Target)
	if err != nil {
		return vgroup.SelectActive
	}
	return m
}

// GetRadiusMultiplier returns the radius_multiplier value or the default.
func (c *OperationConfig) GetRadiusMultiplier() float64 {
	if c.RadiusMultiplier == nil {
		return 3.0
	}
	return *c.RadiusMultiplier
}

// GetIterations returns the iterations value or the default.
func (c *OperationConfig) GetIterations() int {
	if c.Iterations == nil {
		return 1
	}
	return *c.Iterations
}

// GetEffect returns the parsed blur effect, defaulting to both on a missing
// or unparseable value.
func (c *OperationConfig) GetEffect() weightops.Effect {
	if c.Effect == nil {
		return weightops.EffectBoth
	}
	e, err := weightops.ParseEffect(*c.Effect)
	if err != nil {
		return weightops.EffectBoth
	}
	return e
}

// GetNormalizeOthers returns the normalize_others value or the default.
func (c *OperationConfig) GetNormalizeOthers() bool {
	if c.NormalizeOthers == nil {
		return true
	}
	return *c.NormalizeOthers
}

// GetMultiplyValue returns the multiply_value value or the default.
func (c *OperationConfig) GetMultiplyValue() float64 {
	if c.MultiplyValue == nil {
		return 1.1
	}
	return *c.MultiplyValue
}

// ToTransferParams builds quick transfer parameters.
func (c *OperationConfig) ToTransferParams() weightops.TransferParams {
	return weightops.TransferParams{
		ClearTargetFirst:  c.GetClearTargetFirst(),
		RemoveEmptyGroups: c.GetRemoveEmptyGroups(),
	}
}

// ToPrecisionParams builds precision transfer parameters.
func (c *OperationConfig) ToPrecisionParams() weightops.PrecisionTransferParams {
	return weightops.PrecisionTransferParams{
		TransferParams:  c.ToTransferParams(),
		RangeMultiplier: c.GetRangeMultiplier(),
	}
}

// ToBlurParams builds blur parameters.
func (c *OperationConfig) ToBlurParams() weightops.BlurParams {
	return weightops.BlurParams{
		Target:           c.GetTarget(),
		RadiusMultiplier: c.GetRadiusMultiplier(),
		Iterations:       c.GetIterations(),
		Effect:           c.GetEffect(),
		NormalizeOthers:  c.GetNormalizeOthers(),
	}
}

// ToMultiplyParams builds multiply parameters.
func (c *OperationConfig) ToMultiplyParams() weightops.MultiplyParams {
	return weightops.MultiplyParams{
		Target:          c.GetTarget(),
		Value:           c.GetMultiplyValue(),
		NormalizeOthers: c.GetNormalizeOthers(),
	}
}

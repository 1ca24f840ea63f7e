package search

import (
	"fmt"
	"math"

	"github.com/bobmatnyc/mcp-skillkit/index"
)

// weightEpsilon is the tolerance when checking that weights sum to one.
const weightEpsilon = 1e-6

// Search mode names. Each names a preset weighting of the vector and graph
// signals.
const (
	ModeBalanced      = "balanced"
	ModeSemanticFocus = "semantic_focused"
	ModeGraphFocus    = "graph_focused"
)

// Config controls how vector and graph scores are blended into a combined
// relevance score. Weights must each lie in [0, 1] and sum to 1.
type Config struct {
	// VectorWeight scales the semantic similarity signal.
	VectorWeight float64

	// GraphWeight scales the relationship propagation signal.
	GraphWeight float64

	// MaxHops bounds graph propagation. Zero uses index.DefaultMaxHops.
	MaxHops int
}

// DefaultConfig returns the balanced weighting: 0.7 vector, 0.3 graph.
func DefaultConfig() *Config {
	return &Config{
		VectorWeight: 0.7,
		GraphWeight:  0.3,
		MaxHops:      index.DefaultMaxHops,
	}
}

// NewConfig creates a validated Config with the given weights.
func NewConfig(vectorWeight, graphWeight float64) (*Config, error) {
	cfg := &Config{
		VectorWeight: vectorWeight,
		GraphWeight:  graphWeight,
		MaxHops:      index.DefaultMaxHops,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ModeConfig returns the preset Config for a named search mode.
func ModeConfig(mode string) (*Config, error) {
	switch mode {
	case ModeBalanced:
		return DefaultConfig(), nil
	case ModeSemanticFocus:
		return NewConfig(0.9, 0.1)
	case ModeGraphFocus:
		return NewConfig(0.4, 0.6)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// Validate checks weight ranges and that the weights sum to one within a
// small tolerance.
func (c *Config) Validate() error {
	if c.VectorWeight < 0 || c.VectorWeight > 1 {
		return fmt.Errorf("%w: vector weight %v outside [0, 1]", ErrInvalidConfig, c.VectorWeight)
	}
	if c.GraphWeight < 0 || c.GraphWeight > 1 {
		return fmt.Errorf("%w: graph weight %v outside [0, 1]", ErrInvalidConfig, c.GraphWeight)
	}
	if math.Abs(c.VectorWeight+c.GraphWeight-1.0) > weightEpsilon {
		return fmt.Errorf("%w: weights %v + %v must sum to 1", ErrInvalidConfig, c.VectorWeight, c.GraphWeight)
	}
	if c.MaxHops < 0 {
		return fmt.Errorf("%w: max hops %d must not be negative", ErrInvalidConfig, c.MaxHops)
	}
	return nil
}

// maxHops resolves the effective hop bound.
func (c *Config) maxHops() int {
	if c.MaxHops <= 0 {
		return index.DefaultMaxHops
	}
	return c.MaxHops
}

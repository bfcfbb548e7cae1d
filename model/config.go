package model

import (
	"fmt"
	"time"
)

// TruncationOrder selects which transactions survive the per-politician cap
type TruncationOrder string

const (
	TruncateMostRecent   TruncationOrder = "most_recent"
	TruncateHighestValue TruncationOrder = "highest_value"
)

// IsolatedNodePolicy decides how the community detector treats nodes without
// any co-trade edge
type IsolatedNodePolicy string

const (
	IsolatedSingleton IsolatedNodePolicy = "singleton"
	IsolatedExclude   IsolatedNodePolicy = "exclude"
)

// SizeScale selects the monotonic function mapping centrality to render size
type SizeScale string

const (
	SizeScaleLinear SizeScale = "linear"
	SizeScaleSqrt   SizeScale = "sqrt"
)

// DateRange restricts transactions to [Start, End]. A zero bound is unbounded
// on that side.
type DateRange struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// BuildConfig configures the graph builder
type BuildConfig struct {
	// WindowDays is the maximum date gap for a co-trade edge
	WindowDays int `json:"window_days"`
	// MaxTransactionsPerPolitician bounds pathological growth for prolific
	// traders. Zero means unbounded.
	MaxTransactionsPerPolitician int             `json:"max_transactions_per_politician,omitempty"`
	TruncationOrder              TruncationOrder `json:"truncation_order"`
	DateRange                    DateRange       `json:"date_range,omitempty"`
	// AllowEmpty permits a run on zero surviving transactions instead of
	// failing with ErrEmptyInput
	AllowEmpty bool `json:"allow_empty"`
}

// DetectConfig configures community detection
type DetectConfig struct {
	IsolatedNodePolicy IsolatedNodePolicy `json:"isolated_node_policy"`
}

// RankConfig configures the centrality analyzer
type RankConfig struct {
	DampingFactor float64 `json:"damping_factor"`
	MaxIterations int     `json:"max_iterations"`
	// Tolerance is the L1 change between iterations below which the
	// iteration is considered converged
	Tolerance float64 `json:"convergence_tolerance"`
}

// RenderConfig configures the derived display size for politician nodes.
// The value is consumed only by the external renderer.
type RenderConfig struct {
	MinSize float64   `json:"min_size"`
	MaxSize float64   `json:"max_size"`
	Scale   SizeScale `json:"scale"`
}

// AnalysisConfig aggregates the configuration of every pipeline stage.
// Components receive it explicitly; nothing reads ambient state.
type AnalysisConfig struct {
	Build  BuildConfig  `json:"build"`
	Detect DetectConfig `json:"detect"`
	Rank   RankConfig   `json:"rank"`
	Render RenderConfig `json:"render"`
}

// DefaultAnalysisConfig returns a sensible default configuration
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Build: BuildConfig{
			WindowDays:      10,
			TruncationOrder: TruncateMostRecent,
		},
		Detect: DetectConfig{
			IsolatedNodePolicy: IsolatedSingleton,
		},
		Rank: RankConfig{
			DampingFactor: 0.85,
			MaxIterations: 100,
			Tolerance:     1e-6,
		},
		Render: RenderConfig{
			MinSize: 10,
			MaxSize: 60,
			Scale:   SizeScaleSqrt,
		},
	}
}

// Validate fails fast with ErrInvalidConfiguration before any processing
func (c *AnalysisConfig) Validate() error {
	if c.Build.WindowDays <= 0 {
		return fmt.Errorf("%w: window days must be positive, got %d", ErrInvalidConfiguration, c.Build.WindowDays)
	}
	if c.Build.MaxTransactionsPerPolitician < 0 {
		return fmt.Errorf("%w: max transactions per politician must not be negative", ErrInvalidConfiguration)
	}
	switch c.Build.TruncationOrder {
	case TruncateMostRecent, TruncateHighestValue:
	default:
		return fmt.Errorf("%w: unknown truncation order %q", ErrInvalidConfiguration, c.Build.TruncationOrder)
	}
	if !c.Build.DateRange.Start.IsZero() && !c.Build.DateRange.End.IsZero() && c.Build.DateRange.End.Before(c.Build.DateRange.Start) {
		return fmt.Errorf("%w: date range end before start", ErrInvalidConfiguration)
	}
	switch c.Detect.IsolatedNodePolicy {
	case IsolatedSingleton, IsolatedExclude:
	default:
		return fmt.Errorf("%w: unknown isolated node policy %q", ErrInvalidConfiguration, c.Detect.IsolatedNodePolicy)
	}
	if c.Rank.DampingFactor < 0 || c.Rank.DampingFactor >= 1 {
		return fmt.Errorf("%w: damping factor must be in [0, 1), got %v", ErrInvalidConfiguration, c.Rank.DampingFactor)
	}
	if c.Rank.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive", ErrInvalidConfiguration)
	}
	if c.Rank.Tolerance <= 0 {
		return fmt.Errorf("%w: convergence tolerance must be positive", ErrInvalidConfiguration)
	}
	if c.Render.MinSize < 0 || c.Render.MaxSize < c.Render.MinSize {
		return fmt.Errorf("%w: render size bounds must satisfy 0 <= min <= max", ErrInvalidConfiguration)
	}
	switch c.Render.Scale {
	case SizeScaleLinear, SizeScaleSqrt:
	default:
		return fmt.Errorf("%w: unknown size scale %q", ErrInvalidConfiguration, c.Render.Scale)
	}
	return nil
}

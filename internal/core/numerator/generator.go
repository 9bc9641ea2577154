// Package numerator provides domain contracts for human-readable document numbers.
// Implementations live in pkg/numerator.
package numerator

import (
	"context"
	"time"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict reserves one number per call inside the caller's transaction,
	// so a rolled back sale also rolls back its number.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers and hands them out from memory.
	// Numbers may have gaps after a restart.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values reserved at once by StrategyCached. Default 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// ParseStrategy maps "strict" / "cached" to a Strategy.
func ParseStrategy(s string) Strategy {
	if s == "cached" {
		return StrategyCached
	}
	return StrategyStrict
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "V" for sales, "LOT-ABC" for lots)
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

// Generator generates sequential document numbers.
type Generator interface {
	// GetNextNumber generates the next number.
	// Pattern: PREFIX-YEAR-XXXXX (e.g., V-2025-00001)
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber sets the current counter value (imports, migrations).
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}

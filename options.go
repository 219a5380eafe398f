package abilayout

import "go.uber.org/zap"

// PartitionOption configures SequentiallyCopyableSegments.
type PartitionOption func(*partitionConfig)

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// ContextOption configures a Context.
type ContextOption func(*contextConfig)

// partitionConfig holds configuration for segment partitioning.
type partitionConfig struct {
	maxReferenceRun int
}

// defaultPartitionConfig returns the default partition configuration.
func defaultPartitionConfig() *partitionConfig {
	return &partitionConfig{
		maxReferenceRun: MaxReferenceRun,
	}
}

// contextConfig holds configuration for a Context.
type contextConfig struct {
	supportUnitName string
	logger          *zap.Logger
}

// defaultContextConfig returns the default context configuration.
func defaultContextConfig() *contextConfig {
	return &contextConfig{
		supportUnitName: DefaultSupportUnitName,
	}
}

// WithMaxReferenceRun sets how many consecutive reference-typed members a
// segment tolerates before it is closed.
// Default is 4 (MaxReferenceRun). Negative values are treated as 0.
func WithMaxReferenceRun(n int) PartitionOption {
	return func(c *partitionConfig) {
		if n < 0 {
			n = 0
		}
		c.maxReferenceRun = n
	}
}

// WithSupportUnit sets the name of the pointer library source unit that the
// decoder unit imports.
// Default is "PointerLibraries.sol".
func WithSupportUnit(name string) ContextOption {
	return func(c *contextConfig) {
		c.supportUnitName = name
	}
}

// WithContextLogger sets the logger used by a Context.
// Defaults to the package logger.
func WithContextLogger(l *zap.Logger) ContextOption {
	return func(c *contextConfig) {
		c.logger = l
	}
}

// WithLogger sets the logger used by a Generator.
// Defaults to the package logger.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = l
	}
}

// WithFunctionPrefix sets the prefix of generated decoding function names.
// Default is "abi_decode_".
func WithFunctionPrefix(prefix string) GeneratorOption {
	return func(g *Generator) {
		g.prefix = prefix
	}
}

// WithPartitionOptions passes options to every segment partitioning done by
// a Generator.
func WithPartitionOptions(opts ...PartitionOption) GeneratorOption {
	return func(g *Generator) {
		g.partitionOpts = append(g.partitionOpts, opts...)
	}
}

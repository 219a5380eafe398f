package abilayout

import (
	"testing"

	"go.uber.org/zap"
)

func TestDefaultPartitionConfig(t *testing.T) {
	config := defaultPartitionConfig()

	if config.maxReferenceRun != MaxReferenceRun {
		t.Errorf("Expected maxReferenceRun to be %d, got %d", MaxReferenceRun, config.maxReferenceRun)
	}
}

func TestWithMaxReferenceRun(t *testing.T) {
	t.Run("sets custom run length", func(t *testing.T) {
		config := defaultPartitionConfig()
		WithMaxReferenceRun(8)(config)

		if config.maxReferenceRun != 8 {
			t.Errorf("Expected maxReferenceRun to be 8, got %d", config.maxReferenceRun)
		}
	})

	t.Run("allows setting to zero", func(t *testing.T) {
		config := defaultPartitionConfig()
		WithMaxReferenceRun(0)(config)

		if config.maxReferenceRun != 0 {
			t.Errorf("Expected maxReferenceRun to be 0, got %d", config.maxReferenceRun)
		}
	})

	t.Run("clamps negative values", func(t *testing.T) {
		config := defaultPartitionConfig()
		WithMaxReferenceRun(-3)(config)

		if config.maxReferenceRun != 0 {
			t.Errorf("Expected maxReferenceRun to be 0, got %d", config.maxReferenceRun)
		}
	})
}

func TestContextOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config := defaultContextConfig()
		if config.supportUnitName != DefaultSupportUnitName {
			t.Errorf("Expected %s, got %s", DefaultSupportUnitName, config.supportUnitName)
		}
		if config.logger != nil {
			t.Error("Expected no logger by default")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		config := defaultContextConfig()
		l := zap.NewNop()
		WithSupportUnit("Lib.sol")(config)
		WithContextLogger(l)(config)

		if config.supportUnitName != "Lib.sol" {
			t.Errorf("Expected Lib.sol, got %s", config.supportUnitName)
		}
		if config.logger != l {
			t.Error("Expected the configured logger")
		}
	})
}

func TestGeneratorOptions(t *testing.T) {
	ctx := NewContext("Decoder.sol")

	t.Run("defaults", func(t *testing.T) {
		g := NewGenerator(ctx)
		if g.prefix != "abi_decode_" {
			t.Errorf("Expected prefix abi_decode_, got %s", g.prefix)
		}
		if g.Context() != ctx {
			t.Error("Generator should write into its context")
		}
		if g.log() != Logger() {
			t.Error("Generator should fall back to the package logger")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		l := zap.NewNop()
		g := NewGenerator(ctx,
			WithFunctionPrefix("dec_"),
			WithLogger(l),
			WithPartitionOptions(WithMaxReferenceRun(1)),
			WithPartitionOptions(WithMaxReferenceRun(2)),
		)
		if g.prefix != "dec_" {
			t.Errorf("Expected prefix dec_, got %s", g.prefix)
		}
		if g.log() != l {
			t.Error("Expected the configured logger")
		}
		if len(g.partitionOpts) != 2 {
			t.Errorf("Expected 2 partition options, got %d", len(g.partitionOpts))
		}
	})
}

func TestSetLogger(t *testing.T) {
	prev := Logger()
	defer SetLogger(prev)

	l := zap.NewExample()
	SetLogger(l)
	if Logger() != l {
		t.Error("Logger should return the configured logger")
	}
}

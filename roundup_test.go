package abilayout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundUpAdd32Value(t *testing.T) {
	// A word-aligned length still gains a full word: the result is the
	// padded data size plus the length word.
	tests := []struct {
		in   uint64
		want uint64
	}{
		{0, 32},
		{1, 64},
		{31, 64},
		{32, 64},
		{33, 96},
		{64, 96},
		{65, 128},
	}

	for _, tt := range tests {
		if got := RoundUpAdd32Value(tt.in); got != tt.want {
			t.Errorf("RoundUpAdd32Value(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}

	for v := uint64(0); v < 4096; v++ {
		want := (v+WordSize-1)/WordSize*WordSize + WordSize
		if got := RoundUpAdd32Value(v); got != want {
			t.Fatalf("RoundUpAdd32Value(%d): expected %d, got %d", v, want, got)
		}
	}
}

func TestRoundUpAdd32(t *testing.T) {
	t.Run("emits the formula and defines constants", func(t *testing.T) {
		ctx := NewContext("Decoder.sol")
		got, err := RoundUpAdd32(ctx, "len")
		if err != nil {
			t.Fatalf("RoundUpAdd32 failed: %v", err)
		}
		want := "and(add(len, AlmostTwoWords), OnlyFullWordMask)"
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}

		wantConstants := []Constant{
			{Name: OnlyFullWordMaskName, Value: "0xffffe0"},
			{Name: AlmostTwoWordsName, Value: "0x3f"},
		}
		if diff := cmp.Diff(wantConstants, ctx.DecoderUnit().Constants()); diff != "" {
			t.Errorf("Constants mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("constants are defined once", func(t *testing.T) {
		ctx := NewContext("Decoder.sol")
		for i := 0; i < 3; i++ {
			if _, err := RoundUpAdd32(ctx, "x"); err != nil {
				t.Fatalf("RoundUpAdd32 failed: %v", err)
			}
		}
		if n := len(ctx.DecoderUnit().Constants()); n != 2 {
			t.Errorf("Expected 2 constants, got %d", n)
		}
	})

	t.Run("expression form matches text form", func(t *testing.T) {
		unit := NewSourceUnit("Decoder.sol")
		expr, err := RoundUpAdd32Expr(unit, &Ident{Name: "len"})
		if err != nil {
			t.Fatalf("RoundUpAdd32Expr failed: %v", err)
		}
		want := "and(add(len, AlmostTwoWords), OnlyFullWordMask)"
		if expr.String() != want {
			t.Errorf("Expected %s, got %s", want, expr)
		}
	})

	t.Run("rejects missing operands", func(t *testing.T) {
		if _, err := RoundUpAdd32(nil, "x"); !errors.Is(err, ErrUnsupportedInput) {
			t.Errorf("Expected ErrUnsupportedInput for nil context, got %v", err)
		}
		if _, err := RoundUpAdd32(NewContext("D.sol"), ""); !errors.Is(err, ErrUnsupportedInput) {
			t.Errorf("Expected ErrUnsupportedInput for empty value, got %v", err)
		}
		if _, err := RoundUpAdd32Expr(NewSourceUnit("D.sol"), nil); !errors.Is(err, ErrUnsupportedInput) {
			t.Errorf("Expected ErrUnsupportedInput for nil expression, got %v", err)
		}
	})
}

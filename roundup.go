package abilayout

import "fmt"

// Names and values of the constants used by the word rounding helpers.
const (
	AlmostTwoWordsName   = "AlmostTwoWords"
	OnlyFullWordMaskName = "OnlyFullWordMask"

	almostTwoWords   = 63
	onlyFullWordMask = 0xffffe0
)

// RoundUpAdd32 returns Yul text computing value rounded up to a multiple of
// 32, plus one word: and(add(value, AlmostTwoWords), OnlyFullWordMask).
// The constants are defined in ctx's decoder unit.
func RoundUpAdd32(ctx *Context, value string) (string, error) {
	if ctx == nil || value == "" {
		return "", fmt.Errorf("%w: round up of %q", ErrUnsupportedInput, value)
	}
	almost, mask, err := roundUpConstants(ctx.DecoderUnit())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("and(add(%s, %s), %s)", value, almost.Name, mask.Name), nil
}

// RoundUpAdd32Expr is RoundUpAdd32 over an expression tree, defining the
// constants in unit.
func RoundUpAdd32Expr(unit *SourceUnit, value Expr) (Expr, error) {
	if unit == nil || value == nil {
		return nil, fmt.Errorf("%w: round up of expression", ErrUnsupportedInput)
	}
	almost, mask, err := roundUpConstants(unit)
	if err != nil {
		return nil, err
	}
	f := NewFactory()
	return f.And(f.Add(value, almost), mask), nil
}

// RoundUpAdd32Value evaluates the rounding formula. A word-aligned input
// still gains a full word: 0 -> 32, 32 -> 64, 33 -> 96.
func RoundUpAdd32Value(v uint64) uint64 {
	return (v + almostTwoWords) & onlyFullWordMask
}

func roundUpConstants(unit *SourceUnit) (*Ident, *Ident, error) {
	mask, err := unit.Constant(OnlyFullWordMaskName, ToHex(onlyFullWordMask))
	if err != nil {
		return nil, nil, err
	}
	almost, err := unit.Constant(AlmostTwoWordsName, ToHex(almostTwoWords))
	if err != nil {
		return nil, nil, err
	}
	return almost, mask, nil
}

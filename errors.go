package abilayout

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrNonSequentialHeads indicates two members of a copy segment are not one word apart.
	ErrNonSequentialHeads = errors.New("abilayout: non-sequential head offsets in copy segment")

	// ErrDynamicArrayExpansion indicates an attempt to unroll a dynamically sized array.
	ErrDynamicArrayExpansion = errors.New("abilayout: can not convert dynamic length array to tuple")

	// ErrUnsupportedInput indicates an operand combination a helper does not accept.
	ErrUnsupportedInput = errors.New("abilayout: unsupported input types")

	// ErrInvalidNode indicates a NodeID that does not refer to a live node.
	ErrInvalidNode = errors.New("abilayout: invalid node")

	// ErrNotComposite indicates an operation that needs an array, struct or tuple.
	ErrNotComposite = errors.New("abilayout: type is not a composite type")
)

// LayoutError reports inconsistent layout facts found during analysis.
// It always aborts the pass for the type being analyzed.
type LayoutError struct {
	Region Region
	Index  int // index within the filtered segment
	Prev   int // head offset of member Index-1
	Got    int // head offset of member Index
	Err    error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("abilayout: got non-sequential %s heads: [%d] = %d, [%d] = %d",
		e.Region, e.Index-1, e.Prev, e.Index, e.Got)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// EncodingError indicates a type that can not be rewritten or emitted.
type EncodingError struct {
	Type string
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("abilayout: encoding error for %s: %v", e.Type, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError indicates an ABI type with no tree representation.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("abilayout: unsupported ABI type %q", e.Type)
}

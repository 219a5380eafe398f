package abilayout

import (
	"fmt"
	"strconv"
)

// ConvertToTuple unrolls the fixed-length array id into one labelled copy of
// its element per index, named "<label><i>".
//
// Inside a struct or tuple the copies are spliced into the array's slot and
// the parent is returned. Inside an array the element slot receives a new
// tuple of the copies and the parent is returned. A root array yields a new
// tuple holding the copies.
func ConvertToTuple(t *Tree, id NodeID) (NodeID, error) {
	n := t.Node(id)
	if n == nil {
		return NoNode, fmt.Errorf("%w: %d", ErrInvalidNode, id)
	}
	if n.Kind != KindArray {
		return NoNode, &EncodingError{Type: t.TypeString(id), Err: ErrNotComposite}
	}
	if n.Length == DynamicLength {
		return NoNode, &EncodingError{Type: t.TypeString(id), Err: ErrDynamicArrayExpansion}
	}

	var (
		label  = n.LabelOrIdentifier()
		length = n.Length
		elem   = n.Elem
		parent = n.Parent
	)

	members := make([]NodeID, length)
	for i := range members {
		members[i] = t.WithLabel(t.Clone(elem), label+strconv.Itoa(i))
	}

	if parent == NoNode {
		return t.WithLabel(t.Tuple(members...), t.MustNode(id).Label), nil
	}

	if t.MustNode(parent).Kind == KindArray {
		tuple := t.WithLabel(t.Tuple(members...), t.MustNode(id).Label)
		members = []NodeID{tuple}
	}
	if err := t.ReplaceChild(parent, id, members...); err != nil {
		return NoNode, err
	}
	return parent, nil
}

// ConvertFixedLengthArraysToTuples rewrites every fixed-length array in the
// subtree of id into explicit per-index members, innermost first, and
// recomputes the layout facts of the result.
//
// Dynamically sized arrays are kept; their elements are still rewritten.
// The returned id differs from id only when id itself is a fixed-length
// array.
func ConvertFixedLengthArraysToTuples(t *Tree, id NodeID) (NodeID, error) {
	n := t.Node(id)
	if n == nil {
		return NoNode, fmt.Errorf("%w: %d", ErrInvalidNode, id)
	}
	switch n.Kind {
	case KindArray, KindStruct, KindTuple:
	case KindValue, KindBytes, KindInvalid:
		return NoNode, &EncodingError{Type: t.TypeString(id), Err: ErrNotComposite}
	}

	var walkErr error
	t.Walk(id, func(child NodeID) {
		if walkErr != nil {
			return
		}
		c := t.Node(child)
		if c != nil && c.Kind == KindArray && c.Length != DynamicLength {
			_, walkErr = ConvertToTuple(t, child)
		}
	})
	if walkErr != nil {
		return NoNode, walkErr
	}

	result := id
	if root := t.MustNode(id); root.Kind == KindArray && root.Length != DynamicLength {
		converted, err := ConvertToTuple(t, id)
		if err != nil {
			return NoNode, err
		}
		result = converted
	}

	t.ComputeLayout(t.Root(result))
	return result, nil
}

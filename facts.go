package abilayout

// ComputeLayout derives the layout facts of id and its whole subtree.
//
// Calldata heads follow the ABI head/tail encoding: a dynamically encoded
// member takes one offset word, a static one is stored inline. Memory always
// holds one word per member, either the value or a pointer to it.
func (t *Tree) ComputeLayout(id NodeID) {
	n := t.MustNode(id)

	switch n.Kind {
	case KindValue:
		n.IsValueType = true
		n.IsDynamicallySized = false
		n.IsDynamicallyEncoded = false
		n.CalldataHeadSize = WordSize
		n.TotalNestedDynamicTypes = 0
		n.TotalNestedReferenceTypes = 0

	case KindBytes:
		n.IsValueType = false
		n.IsDynamicallySized = true
		n.IsDynamicallyEncoded = true
		n.CalldataHeadSize = WordSize
		n.TotalNestedDynamicTypes = 1
		n.TotalNestedReferenceTypes = 1

	case KindArray:
		t.ComputeLayout(n.Elem)
		elem := t.MustNode(n.Elem)
		elem.CalldataHeadOffset = 0
		elem.MemoryHeadOffset = 0

		n.IsValueType = false
		n.IsDynamicallySized = n.Length == DynamicLength
		n.IsDynamicallyEncoded = n.IsDynamicallySized || elem.IsDynamicallyEncoded
		if n.IsDynamicallyEncoded {
			n.CalldataHeadSize = WordSize
		} else {
			n.CalldataHeadSize = n.Length * elem.CalldataHeadSize
		}
		n.TotalNestedDynamicTypes = boolToInt(n.IsDynamicallyEncoded) + elem.TotalNestedDynamicTypes
		n.TotalNestedReferenceTypes = 1 + elem.TotalNestedReferenceTypes

	case KindStruct, KindTuple:
		var (
			dynamic   bool
			inline    int
			nestedDyn int
			nestedRef int
		)
		for i, m := range n.Members {
			t.ComputeLayout(m)
			member := t.MustNode(m)
			member.CalldataHeadOffset = inline
			member.MemoryHeadOffset = i * WordSize
			inline += member.CalldataHeadSize
			dynamic = dynamic || member.IsDynamicallyEncoded
			nestedDyn += member.TotalNestedDynamicTypes
			nestedRef += member.TotalNestedReferenceTypes
		}

		n.IsValueType = false
		n.IsDynamicallySized = false
		n.IsDynamicallyEncoded = dynamic
		if dynamic {
			n.CalldataHeadSize = WordSize
		} else {
			n.CalldataHeadSize = inline
		}
		n.TotalNestedDynamicTypes = boolToInt(dynamic) + nestedDyn
		n.TotalNestedReferenceTypes = 1 + nestedRef

	case KindInvalid:
	}

	if n.Parent == NoNode {
		n.CalldataHeadOffset = 0
		n.MemoryHeadOffset = 0
	}
}

// MemoryHeadsSize returns the size of the memory heads of a struct or tuple.
func (t *Tree) MemoryHeadsSize(id NodeID) int {
	n := t.MustNode(id)
	return len(n.Members) * WordSize
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package abilayout

// nestedComplexityLimit is the exclusive bound on both nested counters under
// which a type's calldata encoding and memory layout coincide.
const nestedComplexityLimit = 2

// CanDeriveSizeInOneStep reports whether the decoded size of n can be
// computed without descending into its elements.
func CanDeriveSizeInOneStep(n *Node) bool {
	return n.TotalNestedDynamicTypes < nestedComplexityLimit &&
		n.TotalNestedReferenceTypes < nestedComplexityLimit
}

// CanCombineTailCopies reports whether the tail of n can be copied together
// with adjacent tails. Holds for value types, bytes or string, arrays of
// value types and structs without embedded reference types.
func CanCombineTailCopies(n *Node) bool {
	return n.TotalNestedDynamicTypes < nestedComplexityLimit &&
		n.TotalNestedReferenceTypes < nestedComplexityLimit
}

// AbiEncodingMatchesMemoryLayout reports whether the calldata encoding of n
// is byte-identical to its memory representation.
func AbiEncodingMatchesMemoryLayout(n *Node) bool {
	return n.TotalNestedDynamicTypes < nestedComplexityLimit &&
		n.TotalNestedReferenceTypes < nestedComplexityLimit
}

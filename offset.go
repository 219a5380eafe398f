package abilayout

// Region is the buffer a pointer addresses.
type Region uint8

const (
	// Calldata is the immutable input buffer holding the ABI encoding.
	Calldata Region = iota

	// Memory is the working buffer receiving the decoded value.
	Memory
)

func (r Region) String() string {
	switch r {
	case Calldata:
		return "calldata"
	case Memory:
		return "memory"
	default:
		return "unknown"
	}
}

// Pointer library accessors used in generated addressing expressions.
const (
	// OffsetAccessor returns ptr + offset.
	OffsetAccessor = "offset"

	// IndirectAccessor reads the relative offset stored at ptr + offset and
	// returns ptr + that value.
	IndirectAccessor = "pptr"
)

// HeadOffset returns the head offset of n within its parent in region r.
func HeadOffset(n *Node, r Region) int {
	if r == Calldata {
		return n.CalldataHeadOffset
	}
	return n.MemoryHeadOffset
}

// PointerAccessor returns the accessor that resolves n in region r. Only a
// dynamically encoded member read from calldata needs an indirection.
func PointerAccessor(n *Node, r Region) string {
	if r == Calldata && n.IsDynamicallyEncoded {
		return IndirectAccessor
	}
	return OffsetAccessor
}

// PointerOffsetExpression returns the expression for the address of member
// id given ptr, the address of its parent in region r.
//
// A member at head offset 0 addressed with OffsetAccessor is ptr itself. An
// indirected member at head offset 0 still dereferences the head word, as
// ptr.pptr().
func PointerOffsetExpression(f ExprFactory, ptr Expr, t *Tree, id NodeID, r Region) Expr {
	n := t.MustNode(id)
	fnName := PointerAccessor(n, r)
	offsetFunction := f.MemberAccess(ptr, fnName)

	headOffset := HeadOffset(n, r)
	if headOffset == 0 {
		if fnName == IndirectAccessor {
			return f.FunctionCall(offsetFunction)
		}
		return ptr
	}
	return f.FunctionCall(offsetFunction, f.LiteralUint256(uint64(headOffset)))
}

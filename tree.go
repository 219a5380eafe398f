package abilayout

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Layout constants shared by the analysis passes.
const (
	// WordSize is the addressing granularity of both regions in bytes.
	WordSize = 32

	// DynamicLength marks an array whose length is only known at runtime.
	DynamicLength = -1
)

// NodeID identifies a node inside a Tree. The zero value is never a valid node.
type NodeID uint32

// NoNode is the invalid NodeID, used for "no parent" and removed slots.
const NoNode NodeID = 0

// Kind is the closed set of type node variants.
type Kind uint8

const (
	// KindInvalid marks an unused or removed slot.
	KindInvalid Kind = iota

	// KindValue is a fixed-size, non-reference type (uintN, intN, address, bool, bytesN).
	KindValue

	// KindArray is a fixed-length or dynamically sized array.
	KindArray

	// KindStruct is a named, ordered list of members.
	KindStruct

	// KindTuple is an anonymous, ordered list of members.
	KindTuple

	// KindBytes is a dynamically sized byte blob (bytes or string).
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindTuple:
		return "tuple"
	case KindBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// Node is one ABI type occurring in a decoding target.
//
// The layout facts (IsValueType through TotalNestedReferenceTypes) are
// derived by ComputeLayout and treated as read-only by the analysis passes.
type Node struct {
	Kind       Kind
	Name       string // elementary type name or struct name
	Label      string // name given by the parent, if any
	Identifier string
	Length     int    // arrays only; DynamicLength when dynamically sized
	Elem       NodeID // arrays only
	Members    []NodeID
	Parent     NodeID

	IsValueType          bool
	IsDynamicallySized   bool
	IsDynamicallyEncoded bool

	CalldataHeadOffset int
	MemoryHeadOffset   int
	CalldataHeadSize   int

	TotalNestedDynamicTypes   int
	TotalNestedReferenceTypes int
}

// IsReferenceType reports whether the node is stored by reference in memory.
func (n *Node) IsReferenceType() bool {
	return n.Kind != KindInvalid && !n.IsValueType
}

// LabelOrIdentifier returns the label given by the parent, falling back to
// the node's identifier.
func (n *Node) LabelOrIdentifier() string {
	if n.Label != "" {
		return n.Label
	}
	return n.Identifier
}

// Tree is an arena of type nodes. Parent links are indices into the arena,
// so structural rewrites splice child lists instead of moving pointers.
type Tree struct {
	nodes []Node
}

// NewTree creates an empty tree. Slot 0 is reserved for NoNode.
func NewTree() *Tree {
	return &Tree{nodes: make([]Node, 1, 32)}
}

// Len returns the number of slots in the arena, including removed ones.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

func (t *Tree) add(n Node) NodeID {
	slot, err := safecast.Conv[uint32](len(t.nodes))
	if err != nil {
		panic(fmt.Errorf("abilayout: node arena overflow: %w", err))
	}
	t.nodes = append(t.nodes, n)
	return NodeID(slot)
}

// Node returns the node for id, or nil if id is invalid or was removed.
func (t *Tree) Node(id NodeID) *Node {
	if id == NoNode || int(id) >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[id]
	if n.Kind == KindInvalid {
		return nil
	}
	return n
}

// MustNode is like Node but panics on an invalid id.
func (t *Tree) MustNode(id NodeID) *Node {
	n := t.Node(id)
	if n == nil {
		panic(fmt.Errorf("%w: %d", ErrInvalidNode, id))
	}
	return n
}

// Value adds an elementary value type such as "uint256" or "address".
func (t *Tree) Value(name string) NodeID {
	return t.add(Node{Kind: KindValue, Name: name, Identifier: name})
}

// BytesType adds a dynamically sized bytes type.
func (t *Tree) BytesType() NodeID {
	return t.add(Node{Kind: KindBytes, Name: "bytes", Identifier: "bytes"})
}

// StringType adds a dynamically sized string type.
func (t *Tree) StringType() NodeID {
	return t.add(Node{Kind: KindBytes, Name: "string", Identifier: "string"})
}

// Array adds an array of elem. Pass DynamicLength for T[].
func (t *Tree) Array(elem NodeID, length int) NodeID {
	e := t.MustNode(elem)
	ident := e.Identifier + "_array"
	if length != DynamicLength {
		ident += strconv.Itoa(length)
	}
	id := t.add(Node{Kind: KindArray, Identifier: ident, Length: length, Elem: elem})
	t.nodes[elem].Parent = id
	return id
}

// Struct adds a named struct with the given members, in order.
func (t *Tree) Struct(name string, members ...NodeID) NodeID {
	return t.composite(KindStruct, name, members)
}

// Tuple adds an anonymous tuple with the given members, in order.
func (t *Tree) Tuple(members ...NodeID) NodeID {
	return t.composite(KindTuple, "", members)
}

func (t *Tree) composite(kind Kind, name string, members []NodeID) NodeID {
	ident := name
	if ident == "" {
		ident = "tuple"
	}
	id := t.add(Node{
		Kind:       kind,
		Name:       name,
		Identifier: ident,
		Members:    append([]NodeID(nil), members...),
	})
	for _, m := range members {
		t.MustNode(m).Parent = id
	}
	return id
}

// WithLabel sets the label of id and returns id.
func (t *Tree) WithLabel(id NodeID, label string) NodeID {
	t.MustNode(id).Label = label
	return id
}

// Children returns a snapshot of the direct children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindArray:
		return []NodeID{n.Elem}
	case KindStruct, KindTuple:
		return append([]NodeID(nil), n.Members...)
	case KindValue, KindBytes:
		return nil
	default:
		return nil
	}
}

// Members returns the ordered members of a struct or tuple.
func (t *Tree) Members(id NodeID) ([]NodeID, error) {
	n := t.Node(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNode, id)
	}
	if n.Kind != KindStruct && n.Kind != KindTuple {
		return nil, fmt.Errorf("%w: %s", ErrNotComposite, t.TypeString(id))
	}
	return append([]NodeID(nil), n.Members...), nil
}

// Walk calls fn for every descendant of id in post-order. The children of
// each node are captured before descending, so fn may replace nodes.
func (t *Tree) Walk(id NodeID, fn func(NodeID)) {
	for _, child := range t.Children(id) {
		if t.Node(child) == nil {
			continue
		}
		t.Walk(child, fn)
		fn(child)
	}
}

// Clone deep-copies the subtree rooted at id. The copy has no parent.
func (t *Tree) Clone(id NodeID) NodeID {
	src := *t.MustNode(id)
	dst := src
	dst.Parent = NoNode
	dst.Members = nil

	switch src.Kind {
	case KindArray:
		dst.Elem = t.Clone(src.Elem)
	case KindStruct, KindTuple:
		dst.Members = make([]NodeID, len(src.Members))
		for i, m := range src.Members {
			dst.Members[i] = t.Clone(m)
		}
	case KindValue, KindBytes:
	}

	cloned := t.add(dst)
	switch dst.Kind {
	case KindArray:
		t.nodes[dst.Elem].Parent = cloned
	case KindStruct, KindTuple:
		for _, m := range dst.Members {
			t.nodes[m].Parent = cloned
		}
	case KindValue, KindBytes:
	}
	return cloned
}

// ReplaceChild splices repl into the slot old occupies in parent. The old
// node is invalidated. An array parent has a single element slot, so it
// requires exactly one replacement.
func (t *Tree) ReplaceChild(parent, old NodeID, repl ...NodeID) error {
	p := t.Node(parent)
	if p == nil {
		return fmt.Errorf("%w: parent %d", ErrInvalidNode, parent)
	}

	switch p.Kind {
	case KindArray:
		if p.Elem != old {
			return fmt.Errorf("%w: %d is not a child of %d", ErrInvalidNode, old, parent)
		}
		if len(repl) != 1 {
			return fmt.Errorf("%w: array element slot takes one node, got %d", ErrUnsupportedInput, len(repl))
		}
		p.Elem = repl[0]
	case KindStruct, KindTuple:
		slot := -1
		for i, m := range p.Members {
			if m == old {
				slot = i
				break
			}
		}
		if slot < 0 {
			return fmt.Errorf("%w: %d is not a child of %d", ErrInvalidNode, old, parent)
		}
		members := make([]NodeID, 0, len(p.Members)-1+len(repl))
		members = append(members, p.Members[:slot]...)
		members = append(members, repl...)
		members = append(members, p.Members[slot+1:]...)
		p.Members = members
	case KindValue, KindBytes, KindInvalid:
		return fmt.Errorf("%w: %s has no children", ErrNotComposite, p.Kind)
	}

	for _, r := range repl {
		t.MustNode(r).Parent = parent
	}
	t.nodes[old] = Node{}
	return nil
}

// Root follows parent links up from id.
func (t *Tree) Root(id NodeID) NodeID {
	for {
		n := t.Node(id)
		if n == nil || n.Parent == NoNode {
			return id
		}
		id = n.Parent
	}
}

// TypeString renders the canonical ABI type of id, e.g. "(uint256,bytes)[2]".
func (t *Tree) TypeString(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return "<invalid>"
	}
	switch n.Kind {
	case KindValue, KindBytes:
		return n.Name
	case KindArray:
		if n.Length == DynamicLength {
			return t.TypeString(n.Elem) + "[]"
		}
		return t.TypeString(n.Elem) + "[" + strconv.Itoa(n.Length) + "]"
	case KindStruct, KindTuple:
		parts := make([]string, len(n.Members))
		for i, m := range n.Members {
			parts[i] = t.TypeString(m)
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return "<invalid>"
	}
}

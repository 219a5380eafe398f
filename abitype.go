package abilayout

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// FromABIType adds typ to t and returns the id of its root node. Layout
// facts are not computed; call ComputeLayout on the final root.
func FromABIType(t *Tree, typ abi.Type) (NodeID, error) {
	switch typ.T {
	case abi.IntTy, abi.UintTy, abi.BoolTy, abi.AddressTy, abi.FixedBytesTy,
		abi.HashTy, abi.FixedPointTy, abi.FunctionTy:
		return t.Value(typ.String()), nil

	case abi.BytesTy:
		return t.BytesType(), nil

	case abi.StringTy:
		return t.StringType(), nil

	case abi.SliceTy, abi.ArrayTy:
		if typ.Elem == nil {
			return NoNode, &UnsupportedTypeError{Type: typ.String()}
		}
		elem, err := FromABIType(t, *typ.Elem)
		if err != nil {
			return NoNode, err
		}
		if typ.T == abi.SliceTy {
			return t.Array(elem, DynamicLength), nil
		}
		return t.Array(elem, typ.Size), nil

	case abi.TupleTy:
		members := make([]NodeID, len(typ.TupleElems))
		for i, elem := range typ.TupleElems {
			id, err := FromABIType(t, *elem)
			if err != nil {
				return NoNode, err
			}
			if i < len(typ.TupleRawNames) {
				t.WithLabel(id, typ.TupleRawNames[i])
			}
			members[i] = id
		}
		if typ.TupleRawName != "" {
			return t.Struct(typ.TupleRawName, members...), nil
		}
		return t.Tuple(members...), nil

	default:
		return NoNode, &UnsupportedTypeError{Type: typ.String()}
	}
}

// FromArguments adds a struct named name whose members are args, labelled
// by argument name. This is the layout of a method's encoded parameters.
func FromArguments(t *Tree, name string, args abi.Arguments) (NodeID, error) {
	members := make([]NodeID, len(args))
	for i, arg := range args {
		id, err := FromABIType(t, arg.Type)
		if err != nil {
			return NoNode, fmt.Errorf("argument %d (%s): %w", i, arg.Name, err)
		}
		if arg.Name != "" {
			t.WithLabel(id, arg.Name)
		}
		members[i] = id
	}
	return t.Struct(name, members...), nil
}

// ParseType parses a human-readable ABI type such as "uint256[3]" or
// "(uint256 amount,bytes data)[]" into a new tree with computed layout.
func ParseType(s string) (*Tree, NodeID, error) {
	marshaling, err := parseArgumentMarshaling(strings.TrimSpace(s))
	if err != nil {
		return nil, NoNode, err
	}
	typ, err := abi.NewType(marshaling.Type, marshaling.InternalType, marshaling.Components)
	if err != nil {
		return nil, NoNode, &EncodingError{Type: s, Err: err}
	}

	t := NewTree()
	id, err := FromABIType(t, typ)
	if err != nil {
		return nil, NoNode, err
	}
	t.ComputeLayout(id)
	return t, id, nil
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) (*Tree, NodeID) {
	t, id, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t, id
}

// FromMethodInputs builds a new tree holding the parameters of m as a
// struct named after the method.
func FromMethodInputs(m abi.Method) (*Tree, NodeID, error) {
	t := NewTree()
	id, err := FromArguments(t, m.Name, m.Inputs)
	if err != nil {
		return nil, NoNode, err
	}
	t.ComputeLayout(id)
	return t, id, nil
}

// parseArgumentMarshaling turns "(T1 name1,T2)[2]" style strings into the
// component form abi.NewType expects for tuples.
func parseArgumentMarshaling(s string) (abi.ArgumentMarshaling, error) {
	if s == "" {
		return abi.ArgumentMarshaling{}, &UnsupportedTypeError{Type: s}
	}
	if s[0] != '(' {
		return abi.ArgumentMarshaling{Type: s}, nil
	}

	end, err := matchingParen(s)
	if err != nil {
		return abi.ArgumentMarshaling{}, err
	}
	inner, suffix := s[1:end], s[end+1:]

	var components []abi.ArgumentMarshaling
	for i, part := range splitTopLevel(inner) {
		part = strings.TrimSpace(part)
		typ, name := part, ""
		if sp := lastTopLevelSpace(part); sp >= 0 {
			typ, name = strings.TrimSpace(part[:sp]), strings.TrimSpace(part[sp+1:])
		}
		c, err := parseArgumentMarshaling(typ)
		if err != nil {
			return abi.ArgumentMarshaling{}, err
		}
		if name == "" {
			name = fmt.Sprintf("field%d", i)
		}
		c.Name = name
		components = append(components, c)
	}
	return abi.ArgumentMarshaling{Type: "tuple" + suffix, Components: components}, nil
}

func matchingParen(s string) (int, error) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &UnsupportedTypeError{Type: s}
}

func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func lastTopLevelSpace(s string) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
		case ' ':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseABI parses a JSON ABI string into an abi.ABI.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}

package abilayout

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/google/go-cmp/cmp"
)

const testABI = `[
	{
		"name": "transfer",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "fill",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{
				"name": "order",
				"type": "tuple",
				"internalType": "struct Order",
				"components": [
					{"name": "maker", "type": "address"},
					{"name": "amounts", "type": "uint256[2]"},
					{"name": "data", "type": "bytes"}
				]
			},
			{"name": "signatures", "type": "bytes[]"}
		],
		"outputs": []
	}
]`

func TestParseType(t *testing.T) {
	tests := []struct {
		input string
		want  string
		kind  Kind
	}{
		{"uint256", "uint256", KindValue},
		{"address", "address", KindValue},
		{"bytes", "bytes", KindBytes},
		{"string", "string", KindBytes},
		{"uint256[3]", "uint256[3]", KindArray},
		{"bytes32[]", "bytes32[]", KindArray},
		{"(uint256,bytes)", "(uint256,bytes)", KindTuple},
		{"(uint256 amount,bytes data)[]", "(uint256,bytes)[]", KindArray},
		{"((uint256,address) inner,bool flag)[2]", "((uint256,address),bool)[2]", KindArray},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tr, id, err := ParseType(tt.input)
			if err != nil {
				t.Fatalf("ParseType failed: %v", err)
			}
			if got := tr.TypeString(id); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
			if got := tr.MustNode(id).Kind; got != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, got)
			}
		})
	}
}

func TestParseTypeLabels(t *testing.T) {
	tr, id := MustParseType("(uint256 amount,bytes data,address)")
	members, err := tr.Members(id)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if diff := cmp.Diff([]string{"amount", "data", "field2"}, labels(tr, members)); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}
	if got := tr.MustNode(members[1]).CalldataHeadOffset; got != 32 {
		t.Errorf("Expected layout to be computed, got calldata offset %d", got)
	}
}

func TestParseTypeErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var typeErr *UnsupportedTypeError
		if _, _, err := ParseType(""); !errors.As(err, &typeErr) {
			t.Errorf("Expected *UnsupportedTypeError, got %v", err)
		}
	})

	t.Run("unbalanced parentheses", func(t *testing.T) {
		var typeErr *UnsupportedTypeError
		if _, _, err := ParseType("(uint256,bytes"); !errors.As(err, &typeErr) {
			t.Errorf("Expected *UnsupportedTypeError, got %v", err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		var encErr *EncodingError
		if _, _, err := ParseType("foo"); !errors.As(err, &encErr) {
			t.Errorf("Expected *EncodingError, got %v", err)
		}
	})

	t.Run("MustParseType panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic")
			}
		}()
		MustParseType("foo")
	})
}

func TestFromMethodInputs(t *testing.T) {
	parsed := MustParseABI(testABI)

	t.Run("flat parameters", func(t *testing.T) {
		tr, id, err := FromMethodInputs(parsed.Methods["transfer"])
		if err != nil {
			t.Fatalf("FromMethodInputs failed: %v", err)
		}
		n := tr.MustNode(id)
		if n.Kind != KindStruct || n.Name != "transfer" {
			t.Errorf("Expected struct transfer, got %s %s", n.Kind, n.Name)
		}
		if diff := cmp.Diff([]string{"to", "amount"}, labels(tr, n.Members)); diff != "" {
			t.Errorf("Labels mismatch (-want +got):\n%s", diff)
		}
		if got := tr.TypeString(id); got != "(address,uint256)" {
			t.Errorf("Expected (address,uint256), got %s", got)
		}
	})

	t.Run("named struct parameter", func(t *testing.T) {
		tr, id, err := FromMethodInputs(parsed.Methods["fill"])
		if err != nil {
			t.Fatalf("FromMethodInputs failed: %v", err)
		}
		members, _ := tr.Members(id)
		order := tr.MustNode(members[0])
		if order.Kind != KindStruct || order.Name != "Order" {
			t.Errorf("Expected struct Order, got %s %q", order.Kind, order.Name)
		}
		if diff := cmp.Diff([]string{"maker", "amounts", "data"}, labels(tr, order.Members)); diff != "" {
			t.Errorf("Labels mismatch (-want +got):\n%s", diff)
		}
		if !order.IsDynamicallyEncoded {
			t.Error("Order holds bytes and should be dynamically encoded")
		}
		if got := tr.TypeString(id); got != "((address,uint256[2],bytes),bytes[])" {
			t.Errorf("Unexpected type string %s", got)
		}
	})
}

func TestFromABIType(t *testing.T) {
	typ, err := abi.NewType("uint256[]", "", nil)
	if err != nil {
		t.Fatalf("NewType failed: %v", err)
	}
	tr := NewTree()
	id, err := FromABIType(tr, typ)
	if err != nil {
		t.Fatalf("FromABIType failed: %v", err)
	}
	n := tr.MustNode(id)
	if n.Kind != KindArray || n.Length != DynamicLength {
		t.Errorf("Expected dynamic array, got %s of length %d", n.Kind, n.Length)
	}

	if _, err := FromABIType(tr, abi.Type{T: 255}); err == nil {
		t.Error("Expected an error for an unknown type kind")
	}
}

func TestParseABI(t *testing.T) {
	if _, err := ParseABI("not json"); err == nil {
		t.Error("Expected an error for invalid JSON")
	}
	parsed, err := ParseABI(testABI)
	if err != nil {
		t.Fatalf("ParseABI failed: %v", err)
	}
	if len(parsed.Methods) != 2 {
		t.Errorf("Expected 2 methods, got %d", len(parsed.Methods))
	}
}

package abilayout

import "testing"

func TestComputeLayoutMembers(t *testing.T) {
	tr, id := MustParseType("(uint256 a,bytes b,uint256[2] c,(uint256,uint256) d,address e)")
	members, err := tr.Members(id)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}

	tests := []struct {
		label      string
		cdOffset   int
		memOffset  int
		cdHeadSize int
		valueType  bool
		dynEncoded bool
		dynSized   bool
		nestedDyn  int
		nestedRefs int
	}{
		{"a", 0, 0, 32, true, false, false, 0, 0},
		{"b", 32, 32, 32, false, true, true, 1, 1},
		{"c", 64, 64, 64, false, false, false, 0, 1},
		{"d", 128, 96, 64, false, false, false, 0, 1},
		{"e", 192, 128, 32, true, false, false, 0, 0},
	}

	if len(members) != len(tests) {
		t.Fatalf("Expected %d members, got %d", len(tests), len(members))
	}

	for i, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			n := tr.MustNode(members[i])
			if n.Label != tt.label {
				t.Errorf("Expected label %s, got %s", tt.label, n.Label)
			}
			if n.CalldataHeadOffset != tt.cdOffset {
				t.Errorf("Expected calldata head offset %d, got %d", tt.cdOffset, n.CalldataHeadOffset)
			}
			if n.MemoryHeadOffset != tt.memOffset {
				t.Errorf("Expected memory head offset %d, got %d", tt.memOffset, n.MemoryHeadOffset)
			}
			if n.CalldataHeadSize != tt.cdHeadSize {
				t.Errorf("Expected calldata head size %d, got %d", tt.cdHeadSize, n.CalldataHeadSize)
			}
			if n.IsValueType != tt.valueType {
				t.Errorf("Expected IsValueType %t, got %t", tt.valueType, n.IsValueType)
			}
			if n.IsReferenceType() == tt.valueType {
				t.Error("IsReferenceType must be the negation of IsValueType")
			}
			if n.IsDynamicallyEncoded != tt.dynEncoded {
				t.Errorf("Expected IsDynamicallyEncoded %t, got %t", tt.dynEncoded, n.IsDynamicallyEncoded)
			}
			if n.IsDynamicallySized != tt.dynSized {
				t.Errorf("Expected IsDynamicallySized %t, got %t", tt.dynSized, n.IsDynamicallySized)
			}
			if n.TotalNestedDynamicTypes != tt.nestedDyn {
				t.Errorf("Expected %d nested dynamic types, got %d", tt.nestedDyn, n.TotalNestedDynamicTypes)
			}
			if n.TotalNestedReferenceTypes != tt.nestedRefs {
				t.Errorf("Expected %d nested reference types, got %d", tt.nestedRefs, n.TotalNestedReferenceTypes)
			}
		})
	}

	t.Run("root", func(t *testing.T) {
		root := tr.MustNode(id)
		if !root.IsDynamicallyEncoded {
			t.Error("Struct with a bytes member should be dynamically encoded")
		}
		if root.CalldataHeadSize != WordSize {
			t.Errorf("Expected head size %d, got %d", WordSize, root.CalldataHeadSize)
		}
		if root.TotalNestedDynamicTypes != 2 {
			t.Errorf("Expected 2 nested dynamic types, got %d", root.TotalNestedDynamicTypes)
		}
		if root.TotalNestedReferenceTypes != 4 {
			t.Errorf("Expected 4 nested reference types, got %d", root.TotalNestedReferenceTypes)
		}
		if got := tr.MemoryHeadsSize(id); got != 160 {
			t.Errorf("Expected memory heads size 160, got %d", got)
		}
	})
}

func TestComputeLayoutArrays(t *testing.T) {
	tests := []struct {
		typ        string
		dynSized   bool
		dynEncoded bool
		headSize   int
		nestedDyn  int
		nestedRefs int
	}{
		{"uint256[]", true, true, 32, 1, 1},
		{"uint256[3]", false, false, 96, 0, 1},
		{"bytes[2]", false, true, 32, 2, 2},
		{"uint256[2][3]", false, false, 192, 0, 2},
		{"(uint256,bytes)[]", true, true, 32, 3, 3},
		{"bytes", true, true, 32, 1, 1},
		{"string", true, true, 32, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			tr, id := MustParseType(tt.typ)
			n := tr.MustNode(id)
			if n.IsDynamicallySized != tt.dynSized {
				t.Errorf("Expected IsDynamicallySized %t, got %t", tt.dynSized, n.IsDynamicallySized)
			}
			if n.IsDynamicallyEncoded != tt.dynEncoded {
				t.Errorf("Expected IsDynamicallyEncoded %t, got %t", tt.dynEncoded, n.IsDynamicallyEncoded)
			}
			if n.CalldataHeadSize != tt.headSize {
				t.Errorf("Expected head size %d, got %d", tt.headSize, n.CalldataHeadSize)
			}
			if n.TotalNestedDynamicTypes != tt.nestedDyn {
				t.Errorf("Expected %d nested dynamic types, got %d", tt.nestedDyn, n.TotalNestedDynamicTypes)
			}
			if n.TotalNestedReferenceTypes != tt.nestedRefs {
				t.Errorf("Expected %d nested reference types, got %d", tt.nestedRefs, n.TotalNestedReferenceTypes)
			}
		})
	}
}

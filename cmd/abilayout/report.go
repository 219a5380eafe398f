package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	abilayout "github.com/branched-services/go-abilayout"
)

type typeReport struct {
	Input    string          `yaml:"input" msgpack:"input"`
	Type     string          `yaml:"type" msgpack:"type"`
	Classify classifyReport  `yaml:"classify" msgpack:"classify"`
	Members  []memberReport  `yaml:"members,omitempty" msgpack:"members,omitempty"`
	Segments []segmentReport `yaml:"segments,omitempty" msgpack:"segments,omitempty"`
}

type classifyReport struct {
	SizeInOneStep     bool `yaml:"sizeInOneStep" msgpack:"size_in_one_step"`
	CombineTailCopies bool `yaml:"combineTailCopies" msgpack:"combine_tail_copies"`
	MatchesMemory     bool `yaml:"matchesMemory" msgpack:"matches_memory"`
}

type memberReport struct {
	Label              string `yaml:"label" msgpack:"label"`
	Type               string `yaml:"type" msgpack:"type"`
	CalldataHeadOffset int    `yaml:"calldataHeadOffset" msgpack:"calldata_head_offset"`
	MemoryHeadOffset   int    `yaml:"memoryHeadOffset" msgpack:"memory_head_offset"`
	CalldataHeadSize   int    `yaml:"calldataHeadSize" msgpack:"calldata_head_size"`
	Dynamic            bool   `yaml:"dynamic" msgpack:"dynamic"`
	CalldataPointer    string `yaml:"calldataPointer" msgpack:"calldata_pointer"`
	MemoryPointer      string `yaml:"memoryPointer" msgpack:"memory_pointer"`
}

type segmentReport struct {
	Members        []string `yaml:"members" msgpack:"members"`
	CalldataOffset int      `yaml:"calldataOffset" msgpack:"calldata_offset"`
	MemoryOffset   int      `yaml:"memoryOffset" msgpack:"memory_offset"`
	Size           int      `yaml:"size" msgpack:"size"`
}

// buildReport describes id after fixed arrays have been unrolled.
func buildReport(name string, t *abilayout.Tree, id abilayout.NodeID, segments []abilayout.Segment) typeReport {
	n := t.MustNode(id)
	r := typeReport{
		Input: name,
		Type:  t.TypeString(id),
		Classify: classifyReport{
			SizeInOneStep:     abilayout.CanDeriveSizeInOneStep(n),
			CombineTailCopies: abilayout.CanCombineTailCopies(n),
			MatchesMemory:     abilayout.AbiEncodingMatchesMemoryLayout(n),
		},
	}

	f := abilayout.NewFactory()
	cdPtr, mPtr := f.Identifier("cdPtr"), f.Identifier("mPtr")
	members, err := t.Members(id)
	if err == nil {
		for _, m := range members {
			member := t.MustNode(m)
			r.Members = append(r.Members, memberReport{
				Label:              member.LabelOrIdentifier(),
				Type:               t.TypeString(m),
				CalldataHeadOffset: member.CalldataHeadOffset,
				MemoryHeadOffset:   member.MemoryHeadOffset,
				CalldataHeadSize:   member.CalldataHeadSize,
				Dynamic:            member.IsDynamicallyEncoded,
				CalldataPointer:    abilayout.PointerOffsetExpression(f, cdPtr, t, m, abilayout.Calldata).String(),
				MemoryPointer:      abilayout.PointerOffsetExpression(f, mPtr, t, m, abilayout.Memory).String(),
			})
		}
	}

	for _, seg := range segments {
		labels := make([]string, len(seg.Members))
		for i, m := range seg.Members {
			labels[i] = t.MustNode(m).LabelOrIdentifier()
		}
		r.Segments = append(r.Segments, segmentReport{
			Members:        labels,
			CalldataOffset: seg.CalldataOffset,
			MemoryOffset:   seg.MemoryOffset,
			Size:           seg.Size,
		})
	}
	return r
}

func writeReports(w io.Writer, format string, reports []typeReport) error {
	switch format {
	case "", "text":
		for _, r := range reports {
			writeText(w, r)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(reports)
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or msgpack)", format)
	}
}

func writeText(w io.Writer, r typeReport) {
	fmt.Fprintf(w, "%s\n  type: %s\n", r.Input, r.Type)
	fmt.Fprintf(w, "  size in one step: %t, combine tail copies: %t, matches memory: %t\n",
		r.Classify.SizeInOneStep, r.Classify.CombineTailCopies, r.Classify.MatchesMemory)
	for _, m := range r.Members {
		fmt.Fprintf(w, "  %-16s %-24s cd=%-4d mem=%-4d %s / %s\n",
			m.Label, m.Type, m.CalldataHeadOffset, m.MemoryHeadOffset, m.CalldataPointer, m.MemoryPointer)
	}
	for i, s := range r.Segments {
		fmt.Fprintf(w, "  segment %d: [%s] cd=%d mem=%d size=%d\n",
			i, strings.Join(s.Members, ", "), s.CalldataOffset, s.MemoryOffset, s.Size)
	}
}

package abilayout

import (
	"go.uber.org/zap"
)

// MaxReferenceRun is the default number of consecutive reference-typed
// members tolerated inside one copy segment.
const MaxReferenceRun = 4

// Segment is a run of struct members whose heads can be copied from
// calldata to memory with a single copy.
type Segment struct {
	Members        []NodeID
	CalldataOffset int // calldata head offset of the first member
	MemoryOffset   int // memory head offset of the first member
	Size           int // bytes covered by the copy
}

// SequentiallyCopyableSegments partitions the members of a struct or tuple
// into maximal runs that are one word wide in calldata, sequential in both
// regions and bounded by value-typed members.
//
// A struct without value-typed members yields no segments. Members that are
// not sequential inside a segment mean the layout facts are inconsistent;
// the returned error is a *LayoutError wrapping ErrNonSequentialHeads.
func SequentiallyCopyableSegments(t *Tree, id NodeID, opts ...PartitionOption) ([]Segment, error) {
	cfg := defaultPartitionConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	types, err := t.Members(id)
	if err != nil {
		return nil, err
	}

	firstValueIndex := -1
	for i, m := range types {
		if t.MustNode(m).IsValueType {
			firstValueIndex = i
			break
		}
	}
	if firstValueIndex < 0 {
		return nil, nil
	}

	var (
		segments       []Segment
		currentSegment []NodeID
		numReference   int
	)

	endSegment := func() error {
		defer func() { numReference = 0 }()
		if len(currentSegment) == 0 {
			return nil
		}
		filtered := inclusiveRangeWith(currentSegment, func(m NodeID) bool {
			return t.MustNode(m).IsValueType
		})
		currentSegment = nil
		if len(filtered) == 0 {
			return nil
		}
		if err := checkSequentialHeads(t, filtered); err != nil {
			return err
		}
		first := t.MustNode(filtered[0])
		segments = append(segments, Segment{
			Members:        filtered,
			CalldataOffset: first.CalldataHeadOffset,
			MemoryOffset:   first.MemoryHeadOffset,
			Size:           len(filtered) * WordSize,
		})
		return nil
	}

	for _, m := range types[firstValueIndex:] {
		member := t.MustNode(m)
		if member.CalldataHeadSize != WordSize {
			if err := endSegment(); err != nil {
				return nil, err
			}
			continue
		}
		if member.IsReferenceType() {
			numReference++
			if numReference > cfg.maxReferenceRun {
				if err := endSegment(); err != nil {
					return nil, err
				}
				continue
			}
		}
		if member.IsValueType {
			numReference = 0
		}
		currentSegment = append(currentSegment, m)
	}
	if err := endSegment(); err != nil {
		return nil, err
	}

	Logger().Debug("partitioned copy segments",
		zap.String("type", t.TypeString(id)),
		zap.Int("members", len(types)),
		zap.Int("segments", len(segments)))

	return segments, nil
}

// checkSequentialHeads asserts that every member of a segment sits exactly
// one word after its predecessor in both regions.
func checkSequentialHeads(t *Tree, members []NodeID) error {
	for i := 1; i < len(members); i++ {
		cur, last := t.MustNode(members[i]), t.MustNode(members[i-1])
		if last.CalldataHeadOffset+WordSize != cur.CalldataHeadOffset {
			return &LayoutError{
				Region: Calldata,
				Index:  i,
				Prev:   last.CalldataHeadOffset,
				Got:    cur.CalldataHeadOffset,
				Err:    ErrNonSequentialHeads,
			}
		}
		if last.MemoryHeadOffset+WordSize != cur.MemoryHeadOffset {
			return &LayoutError{
				Region: Memory,
				Index:  i,
				Prev:   last.MemoryHeadOffset,
				Got:    cur.MemoryHeadOffset,
				Err:    ErrNonSequentialHeads,
			}
		}
	}
	return nil
}

// inclusiveRangeWith returns the sub-slice from the first to the last
// element matching pred, or nil if none match.
func inclusiveRangeWith(members []NodeID, pred func(NodeID) bool) []NodeID {
	start, end := -1, -1
	for i, m := range members {
		if pred(m) {
			if start < 0 {
				start = i
			}
			end = i
		}
	}
	if start < 0 {
		return nil
	}
	return members[start : end+1]
}

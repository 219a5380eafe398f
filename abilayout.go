// Package abilayout analyzes the layout of ABI-encoded types and emits the
// address arithmetic needed to decode them from calldata into memory with as
// few copy operations as possible.
//
// Types are held in a Tree, an index-based arena of nodes carrying the
// layout facts of both regions:
//
//	t, id := abilayout.MustParseType("(uint256 a,uint256 b,bytes data,uint256[2] pair)")
//
// The analysis passes are:
//
//   - Classification: CanDeriveSizeInOneStep, CanCombineTailCopies and
//     AbiEncodingMatchesMemoryLayout decide whether a subtree can be handled
//     in one step.
//
//   - Rewriting: ConvertFixedLengthArraysToTuples unrolls every fixed-length
//     array into individually addressable members (pair0, pair1).
//
//   - Partitioning: SequentiallyCopyableSegments groups struct members into
//     runs that are copied with a single calldatacopy.
//
//   - Addressing: PointerOffsetExpression derives a member's address in
//     calldata or memory, adding an indirection for dynamically encoded
//     members read from calldata.
//
// # Code Generation
//
// A Context owns the generated decoder source unit and the pointer library
// it imports. Constants and functions are deduplicated by name. A Generator
// combines the passes above into decoding functions:
//
//	ctx := abilayout.NewContext("Decoder.sol")
//	name, err := abilayout.NewGenerator(ctx).Generate(t, id)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ctx.DecoderUnit().Render())
//
// # Errors
//
// Inconsistent layout facts and unsupported rewrites abort the pass with a
// *LayoutError or *EncodingError; there is no partial output.
package abilayout

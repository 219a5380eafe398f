package abilayout

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Names of the pointers in generated decoding functions.
const (
	inPtrName  = "cdPtr"
	outPtrName = "mPtr"
)

// Generator emits calldata-to-memory decoding functions into a Context.
// A Generator may be shared by goroutines; the Context serialises writes.
type Generator struct {
	ctx           *Context
	factory       ExprFactory
	logger        *zap.Logger
	prefix        string
	partitionOpts []PartitionOption
}

// NewGenerator creates a Generator writing into ctx.
func NewGenerator(ctx *Context, opts ...GeneratorOption) *Generator {
	g := &Generator{
		ctx:     ctx,
		factory: NewFactory(),
		prefix:  "abi_decode_",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Context returns the generator's emission context.
func (g *Generator) Context() *Context {
	return g.ctx
}

func (g *Generator) log() *zap.Logger {
	if g.logger != nil {
		return g.logger
	}
	return Logger()
}

// Generate emits the decoding function for id and everything it depends on
// and returns the function's name. Fixed-length arrays in the subtree are
// rewritten into tuples first, so id may no longer be valid afterwards.
//
// Value types are decoded inline by their parent and have no function;
// asking for one returns ErrNotComposite.
func (g *Generator) Generate(t *Tree, id NodeID) (string, error) {
	n := t.Node(id)
	if n == nil {
		return "", fmt.Errorf("%w: %d", ErrInvalidNode, id)
	}
	switch n.Kind {
	case KindArray, KindStruct, KindTuple:
		rewritten, err := ConvertFixedLengthArraysToTuples(t, id)
		if err != nil {
			return "", err
		}
		id = rewritten
	case KindBytes:
		t.ComputeLayout(t.Root(id))
	case KindValue, KindInvalid:
		return "", &EncodingError{Type: t.TypeString(id), Err: ErrNotComposite}
	}
	return g.decodeFunction(t, id)
}

// Target is one top-level type to decode.
type Target struct {
	Tree *Tree
	ID   NodeID
}

// GenerateAll emits decoding functions for every target concurrently and
// returns their names in target order. Each target must own its tree.
func (g *Generator) GenerateAll(ctx context.Context, targets []Target) ([]string, error) {
	names := make([]string, len(targets))
	eg, ctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name, err := g.Generate(target.Tree, target.ID)
			if err != nil {
				return fmt.Errorf("target %d (%s): %w", i, target.Tree.TypeString(target.ID), err)
			}
			names[i] = name
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}

// FunctionName returns the decoding function name for id. Names embed a
// keccak256 prefix of the canonical type so equal types share a function.
func (g *Generator) FunctionName(t *Tree, id NodeID) string {
	typeString := t.TypeString(id)
	hash := crypto.Keccak256([]byte(typeString))
	return g.prefix + sanitizeIdentifier(t.MustNode(id).Identifier) + "_" + hex.EncodeToString(hash[:4])
}

func (g *Generator) decodeFunction(t *Tree, id NodeID) (string, error) {
	name := g.FunctionName(t, id)
	if g.ctx.HasFunction(name) {
		return name, nil
	}

	n := t.MustNode(id)
	var (
		body Code
		err  error
	)
	switch n.Kind {
	case KindBytes:
		body, err = g.bytesBody()
	case KindArray:
		body, err = g.arrayBody(t, id)
	case KindStruct, KindTuple:
		body, err = g.structBody(t, id)
	case KindValue, KindInvalid:
		err = &EncodingError{Type: t.TypeString(id), Err: ErrNotComposite}
	}
	if err != nil {
		return "", err
	}

	g.ctx.AddFunction(name, CalldataDecodingFunction(name, inPtrName, outPtrName, body))
	g.log().Debug("emitted decoding function",
		zap.String("name", name),
		zap.String("type", t.TypeString(id)))
	return name, nil
}

// bytesBody copies the length word and the padded data in one step.
func (g *Generator) bytesBody() (Code, error) {
	size, err := RoundUpAdd32(g.ctx, inPtrName+".readUint256()")
	if err != nil {
		return nil, err
	}
	return Code{
		L("uint256 size;"),
		L("assembly {"),
		Nest(L("size := %s", size)),
		L("}"),
		L("%s = malloc(size);", outPtrName),
		L("%s.copy(%s, size);", inPtrName, outPtrName),
	}, nil
}

// arrayBody decodes a dynamically sized array. Fixed-length arrays were
// rewritten into tuples before this point.
func (g *Generator) arrayBody(t *Tree, id NodeID) (Code, error) {
	n := t.MustNode(id)
	if n.Length != DynamicLength {
		return nil, &EncodingError{Type: t.TypeString(id), Err: ErrUnsupportedInput}
	}
	elem := t.MustNode(n.Elem)

	if elem.IsValueType && AbiEncodingMatchesMemoryLayout(n) && CanDeriveSizeInOneStep(n) {
		wordsName, err := g.ctx.AddConstant("OneWord", ToHex(WordSize))
		if err != nil {
			return nil, err
		}
		return Code{
			L("uint256 length = %s.readUint256();", inPtrName),
			L("uint256 size = (length + 1) * %s;", wordsName),
			L("%s = malloc(size);", outPtrName),
			L("%s.copy(%s, size);", inPtrName, outPtrName),
		}, nil
	}

	stride := WordSize
	if !elem.IsDynamicallyEncoded {
		stride = elem.CalldataHeadSize
	}

	var elemExpr string
	if elem.IsValueType {
		elemExpr = fmt.Sprintf("cdHeads.offset(i * %d).readUint256()", stride)
	} else {
		elemFn, err := g.decodeFunction(t, n.Elem)
		if err != nil {
			return nil, err
		}
		elemPtr := fmt.Sprintf("cdHeads.offset(i * %d)", stride)
		if elem.IsDynamicallyEncoded {
			elemPtr = fmt.Sprintf("cdHeads.pptr(i * %d)", stride)
		}
		elemExpr = fmt.Sprintf("%s(%s)", elemFn, elemPtr)
	}

	return Code{
		L("uint256 length = %s.readUint256();", inPtrName),
		L("%s = malloc((length + 1) * %d);", outPtrName, WordSize),
		L("%s.write(length);", outPtrName),
		L("CalldataPointer cdHeads = %s.offset(%d);", inPtrName, WordSize),
		L("MemoryPointer mHeads = %s.offset(%d);", outPtrName, WordSize),
		L("for (uint256 i; i < length; ++i) {"),
		Nest(L("mHeads.offset(i * %d).write(%s);", WordSize, elemExpr)),
		L("}"),
	}, nil
}

// structBody bulk-copies every segment of heads, then decodes each
// reference-typed member into its own memory and stores the pointer.
func (g *Generator) structBody(t *Tree, id NodeID) (Code, error) {
	segments, err := SequentiallyCopyableSegments(t, id, g.partitionOpts...)
	if err != nil {
		return nil, err
	}

	members, err := t.Members(id)
	if err != nil {
		return nil, err
	}

	body := Code{L("%s = malloc(%d);", outPtrName, t.MemoryHeadsSize(id))}

	inPtr := g.factory.Identifier(inPtrName)
	outPtr := g.factory.Identifier(outPtrName)

	for _, seg := range segments {
		src := g.factory.MemberAccess(inPtr, OffsetAccessor)
		dst := g.factory.MemberAccess(outPtr, OffsetAccessor)
		body = append(body, L("%s.copy(%s, %d);",
			offsetOrBase(g.factory, inPtr, src, seg.CalldataOffset),
			offsetOrBase(g.factory, outPtr, dst, seg.MemoryOffset),
			seg.Size))
	}

	for _, m := range members {
		member := t.MustNode(m)
		if member.IsValueType {
			if inSegments(segments, m) {
				continue
			}
			body = append(body, L("%s.write(%s.readUint256());",
				PointerOffsetExpression(g.factory, outPtr, t, m, Memory),
				PointerOffsetExpression(g.factory, inPtr, t, m, Calldata)))
			continue
		}

		fn, err := g.decodeFunction(t, m)
		if err != nil {
			return nil, err
		}
		body = append(body, L("%s.write(%s(%s));",
			PointerOffsetExpression(g.factory, outPtr, t, m, Memory),
			fn,
			PointerOffsetExpression(g.factory, inPtr, t, m, Calldata)))
	}
	return body, nil
}

func offsetOrBase(f ExprFactory, base, accessor Expr, offset int) Expr {
	if offset == 0 {
		return base
	}
	return f.FunctionCall(accessor, f.LiteralUint256(uint64(offset)))
}

func inSegments(segments []Segment, id NodeID) bool {
	for _, seg := range segments {
		for _, m := range seg.Members {
			if m == id {
				return true
			}
		}
	}
	return false
}

func sanitizeIdentifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "type"
	}
	return b.String()
}

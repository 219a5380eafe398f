package abilayout

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// Line is one line of generated source, or a nested block indented one
// level deeper than its siblings.
type Line struct {
	Text  string
	Block Code
}

// Code is structured source text.
type Code []Line

// L returns a text line.
func L(format string, args ...any) Line {
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	return Line{Text: format}
}

// Nest returns a line holding an indented block.
func Nest(lines ...Line) Line {
	return Line{Block: lines}
}

// WriteNested renders code, indenting nested blocks by two spaces per level.
func WriteNested(b *strings.Builder, code Code, depth int) {
	for _, line := range code {
		if line.Block != nil {
			WriteNested(b, line.Block, depth+1)
			continue
		}
		if line.Text != "" {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(line.Text)
		}
		b.WriteByte('\n')
	}
}

// String renders code at depth 0.
func (c Code) String() string {
	var b strings.Builder
	WriteNested(&b, c, 0)
	return b.String()
}

// Constant is a uint256 file-level constant.
type Constant struct {
	Name  string
	Value string // lower-case 0x-prefixed hex
}

type function struct {
	name string
	code Code
}

// SourceUnit is one generated source file. Constants and functions are keyed
// by name; defining an existing name returns the existing entry.
// All methods are safe for concurrent use.
type SourceUnit struct {
	name   string
	raw    string
	logger *zap.Logger

	mu         sync.Mutex
	imports    []string
	constants  []Constant
	constIndex map[string]int
	functions  []function
	funcIndex  map[string]int
}

// NewSourceUnit creates an empty source unit.
func NewSourceUnit(name string) *SourceUnit {
	return &SourceUnit{
		name:       name,
		constIndex: make(map[string]int),
		funcIndex:  make(map[string]int),
	}
}

// newRawSourceUnit creates a unit whose content is fixed text.
func newRawSourceUnit(name, raw string) *SourceUnit {
	u := NewSourceUnit(name)
	u.raw = raw
	return u
}

// Name returns the unit's file name.
func (u *SourceUnit) Name() string {
	return u.name
}

func (u *SourceUnit) log() *zap.Logger {
	if u.logger != nil {
		return u.logger
	}
	return Logger()
}

// AddImport adds an import of path, once.
func (u *SourceUnit) AddImport(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, imp := range u.imports {
		if imp == path {
			return
		}
	}
	u.imports = append(u.imports, path)
}

// Imports returns the imported paths in insertion order.
func (u *SourceUnit) Imports() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.imports...)
}

// Constant defines a uint256 constant and returns a reference to it.
//
// value may be a uint64, int, *big.Int, *uint256.Int, or a decimal or
// 0x-prefixed hex string. If name is already defined the existing constant
// is returned unchanged.
func (u *SourceUnit) Constant(name string, value any) (*Ident, error) {
	hex, err := normalizeConstant(value)
	if err != nil {
		return nil, fmt.Errorf("constant %s: %w", name, err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if i, ok := u.constIndex[name]; ok {
		if existing := u.constants[i].Value; existing != hex {
			u.log().Warn("constant already defined with a different value",
				zap.String("unit", u.name),
				zap.String("name", name),
				zap.String("existing", existing),
				zap.String("requested", hex))
		}
		return &Ident{Name: name}, nil
	}

	u.constIndex[name] = len(u.constants)
	u.constants = append(u.constants, Constant{Name: name, Value: hex})
	return &Ident{Name: name}, nil
}

// Constants returns the defined constants in insertion order.
func (u *SourceUnit) Constants() []Constant {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Constant(nil), u.constants...)
}

// HasFunction reports whether a function named name is defined.
func (u *SourceUnit) HasFunction(name string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.funcIndex[name]
	return ok
}

// AddFunction defines a free function and returns its name. Redefining an
// existing name keeps the first definition.
func (u *SourceUnit) AddFunction(name string, code Code) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.funcIndex[name]; ok {
		return name
	}
	u.funcIndex[name] = len(u.functions)
	u.functions = append(u.functions, function{name: name, code: code})
	u.log().Debug("defined function", zap.String("unit", u.name), zap.String("name", name))
	return name
}

// Function returns the code of a defined function.
func (u *SourceUnit) Function(name string) (Code, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	i, ok := u.funcIndex[name]
	if !ok {
		return nil, false
	}
	return u.functions[i].code, true
}

// FunctionNames returns the defined function names in insertion order.
func (u *SourceUnit) FunctionNames() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	names := make([]string, len(u.functions))
	for i, fn := range u.functions {
		names[i] = fn.name
	}
	return names
}

// Render returns the unit's source text.
func (u *SourceUnit) Render() string {
	if u.raw != "" {
		return u.raw
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	var b strings.Builder
	b.WriteString("// SPDX-License-Identifier: MIT\n")
	b.WriteString("pragma solidity ^0.8.17;\n")

	if len(u.imports) > 0 {
		b.WriteByte('\n')
		for _, imp := range u.imports {
			fmt.Fprintf(&b, "import \"./%s\";\n", imp)
		}
	}

	if len(u.constants) > 0 {
		b.WriteByte('\n')
		for _, c := range u.constants {
			fmt.Fprintf(&b, "uint256 constant %s = %s;\n", c.Name, c.Value)
		}
	}

	for _, fn := range u.functions {
		b.WriteByte('\n')
		WriteNested(&b, fn.code, 0)
	}
	return b.String()
}

// ToHex renders v as a 0x-prefixed lower-case hex literal.
func ToHex(v uint64) string {
	return hexutil.EncodeUint64(v)
}

func normalizeConstant(value any) (string, error) {
	var u uint256.Int
	switch v := value.(type) {
	case uint64:
		u.SetUint64(v)
	case int:
		if v < 0 {
			return "", fmt.Errorf("%w: negative constant %d", ErrUnsupportedInput, v)
		}
		u.SetUint64(uint64(v))
	case *big.Int:
		if v == nil || v.Sign() < 0 {
			return "", fmt.Errorf("%w: constant %v out of range", ErrUnsupportedInput, v)
		}
		if overflow := u.SetFromBig(v); overflow {
			return "", fmt.Errorf("%w: constant %v overflows uint256", ErrUnsupportedInput, v)
		}
	case *uint256.Int:
		if v == nil {
			return "", fmt.Errorf("%w: nil constant", ErrUnsupportedInput)
		}
		u.Set(v)
	case string:
		parsed, ok := new(big.Int).SetString(v, 0)
		if !ok {
			return "", fmt.Errorf("%w: constant %q is not a number", ErrUnsupportedInput, v)
		}
		return normalizeConstant(parsed)
	default:
		return "", fmt.Errorf("%w: constant of type %T", ErrUnsupportedInput, value)
	}
	return u.Hex(), nil
}

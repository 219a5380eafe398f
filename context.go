package abilayout

import (
	_ "embed"

	"go.uber.org/zap"
)

// DefaultSupportUnitName is the file name of the pointer library unit.
const DefaultSupportUnitName = "PointerLibraries.sol"

//go:embed PointerLibraries.sol
var pointerLibraries string

// Context is the emission sink shared by the decoder passes: a decoder
// source unit wired to the pointer support library. Constants and
// functions are deduplicated by name.
type Context struct {
	decoder *SourceUnit
	support *SourceUnit
	logger  *zap.Logger
}

// NewContext creates a Context whose decoder unit is named decoderUnitName.
func NewContext(decoderUnitName string, opts ...ContextOption) *Context {
	cfg := defaultContextConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Context{
		decoder: NewSourceUnit(decoderUnitName),
		support: newRawSourceUnit(cfg.supportUnitName, pointerLibraries),
		logger:  cfg.logger,
	}
	c.decoder.logger = cfg.logger
	c.decoder.AddImport(c.support.Name())
	return c
}

// DecoderUnit returns the unit receiving generated constants and functions.
func (c *Context) DecoderUnit() *SourceUnit {
	return c.decoder
}

// SupportUnit returns the pointer library unit.
func (c *Context) SupportUnit() *SourceUnit {
	return c.support
}

// Units returns every unit the context owns, support library first.
func (c *Context) Units() []*SourceUnit {
	return []*SourceUnit{c.support, c.decoder}
}

// Constant defines a constant in the decoder unit and returns a reference.
func (c *Context) Constant(name string, value any) (*Ident, error) {
	return c.decoder.Constant(name, value)
}

// AddConstant is like Constant but returns the constant's name.
func (c *Context) AddConstant(name string, value any) (string, error) {
	id, err := c.Constant(name, value)
	if err != nil {
		return "", err
	}
	return id.Name, nil
}

// HasFunction reports whether the decoder unit defines name.
func (c *Context) HasFunction(name string) bool {
	return c.decoder.HasFunction(name)
}

// AddFunction defines a function in the decoder unit and returns its name.
func (c *Context) AddFunction(name string, code Code) string {
	return c.decoder.AddFunction(name, code)
}

// CalldataDecodingFunction wraps body in a free function reading from a
// calldata pointer and returning a memory pointer.
func CalldataDecodingFunction(fnName, inPtr, outPtr string, body Code) Code {
	return Code{
		L("function %s(CalldataPointer %s) pure returns (MemoryPointer %s) {", fnName, inPtr, outPtr),
		Nest(body...),
		L("}"),
	}
}

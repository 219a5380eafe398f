package abilayout

import (
	"strconv"
	"strings"
)

// Expr is a node of a generated addressing expression.
// This is a sealed interface - only types within this package can implement it.
type Expr interface {
	isExpr()

	// String renders the expression as Solidity/Yul source text.
	String() string
}

// Ident is a named reference: a variable, constant or function.
type Ident struct {
	Name string
}

func (*Ident) isExpr() {}

func (e *Ident) String() string { return e.Name }

// MemberAccess is base.Member.
type MemberAccess struct {
	Base   Expr
	Member string
}

func (*MemberAccess) isExpr() {}

func (e *MemberAccess) String() string { return e.Base.String() + "." + e.Member }

// Call is Fn(Args...).
type Call struct {
	Fn   Expr
	Args []Expr
}

func (*Call) isExpr() {}

func (e *Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Fn.String() + "(" + strings.Join(args, ", ") + ")"
}

// Literal is an unsigned integer literal.
type Literal struct {
	Value uint64
}

func (*Literal) isExpr() {}

func (e *Literal) String() string { return strconv.FormatUint(e.Value, 10) }

// BinaryOp is a Yul builtin applied to two operands, e.g. add(x, y).
type BinaryOp struct {
	Op   string
	X, Y Expr
}

func (*BinaryOp) isExpr() {}

func (e *BinaryOp) String() string {
	return e.Op + "(" + e.X.String() + ", " + e.Y.String() + ")"
}

// ExprFactory builds addressing expressions. Callers that emit into another
// AST can supply their own implementation.
type ExprFactory interface {
	Identifier(name string) Expr
	MemberAccess(base Expr, member string) Expr
	FunctionCall(fn Expr, args ...Expr) Expr
	LiteralUint256(v uint64) Expr
	Add(x, y Expr) Expr
	And(x, y Expr) Expr
}

// Factory is the default ExprFactory producing this package's Expr nodes.
type Factory struct{}

// NewFactory creates the default expression factory.
func NewFactory() *Factory {
	return &Factory{}
}

func (*Factory) Identifier(name string) Expr { return &Ident{Name: name} }

func (*Factory) MemberAccess(base Expr, member string) Expr {
	return &MemberAccess{Base: base, Member: member}
}

func (*Factory) FunctionCall(fn Expr, args ...Expr) Expr {
	return &Call{Fn: fn, Args: args}
}

func (*Factory) LiteralUint256(v uint64) Expr { return &Literal{Value: v} }

func (*Factory) Add(x, y Expr) Expr { return &BinaryOp{Op: "add", X: x, Y: y} }

func (*Factory) And(x, y Expr) Expr { return &BinaryOp{Op: "and", X: x, Y: y} }

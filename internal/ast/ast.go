// Package ast defines the expression tree produced by the parser and
// consumed by the evaluator. Every node carries a source Span so
// compile- and run-time errors can point back at the offending text.
package ast

import "github.com/yift/findit/internal/lexer"

// Span is the source range an expression node was parsed from.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// Expression is any node in the parsed expression tree.
type Expression interface {
	exprNode()
	Span() Span
}

type base struct {
	span Span
}

func (base) exprNode()    {}
func (b base) Span() Span { return b.span }

// NumberLit is an unsigned integer literal.
type NumberLit struct {
	base
	Value uint64
}

// StringLit is a double-quoted string literal.
type StringLit struct {
	base
	Value string
}

// BoolLit is TRUE or FALSE.
type BoolLit struct {
	base
	Value bool
}

// NoneLit is the literal spelling of the empty value.
type NoneLit struct{ base }

// PathLit is an @bareword or @"quoted" path literal.
type PathLit struct {
	base
	Value string
}

// DateLit is an @(...) date literal; Raw is the unparsed inner text,
// parsed against the §6 format list by the value package so the AST
// stays format-agnostic.
type DateLit struct {
	base
	Raw string
}

// ListLit is a [e1, e2, ...] list literal.
type ListLit struct {
	base
	Elements []Expression
}

// ClassField is one :key value pair inside a class literal.
type ClassField struct {
	Key   string
	Value Expression
}

// ClassLit is a {:k v, :k2 v2} class literal.
type ClassLit struct {
	base
	Fields []ClassField
}

// Me refers to the implicit current file (me/this/self).
type Me struct{ base }

// VarRef is a $name reference to a lambda parameter or WITH binding.
type VarRef struct {
	base
	Name string
}

// Property is a bare identifier resolved as a property of some
// receiver (or the current file when Receiver is nil).
type Property struct {
	base
	Receiver Expression // nil => implicit current file
	Name     string
}

// MethodCall is receiver.Name(args...), or the paren-free zero-arg
// form; the parser always sets Receiver (a bare identifier becomes a
// Property or FuncCall instead).
type MethodCall struct {
	base
	Receiver Expression
	Name     string
	Args     []Expression
}

// FuncCall is a free function call: name(args...).
type FuncCall struct {
	base
	Name string
	Args []Expression
}

// FieldAccess is class::name.
type FieldAccess struct {
	base
	Receiver Expression
	Name     string
}

// BinaryOp is any infix operator: AND OR XOR = == != <> < > <= >= + - * / % & | ^ MATCHES.
// SLASH is overloaded: Number/Number divides, Path-or-String/String
// produces a child path; the evaluator dispatches on the left operand's
// runtime type.
type BinaryOp struct {
	base
	Op    lexer.TokenType
	Left  Expression
	Right Expression
}

// UnaryOp is a prefix operator: NOT, or the bare path-child `/`.
type UnaryOp struct {
	base
	Op      lexer.TokenType
	Operand Expression
}

// IsPredicate is `x IS [NOT] TRUE|FALSE|SOME|NONE`.
type IsPredicate struct {
	base
	Operand Expression
	Negate  bool
	Want    lexer.TokenType // TRUE, FALSE, SOME, or NONE
}

// Cast is `expr AS <type>`.
type Cast struct {
	base
	Operand  Expression
	TargetTy lexer.TokenType
}

// Between is `expr BETWEEN lo AND hi`.
type Between struct {
	base
	Operand Expression
	Low     Expression
	High    Expression
}

// IfExpr is `IF cond THEN then [ELSE else] END`.
type IfExpr struct {
	base
	Cond Expression
	Then Expression
	Else Expression // nil => Empty default
}

// CaseBranch is one `WHEN cond THEN value` arm.
type CaseBranch struct {
	Cond  Expression
	Value Expression
}

// CaseExpr is `CASE WHEN c1 THEN v1 ... [ELSE vd] END`.
type CaseExpr struct {
	base
	Branches []CaseBranch
	Else     Expression // nil => Empty default
}

// WithBinding is one `$name AS expr` clause of a WITH.
type WithBinding struct {
	Name string
	Expr Expression
}

// WithExpr is `WITH $x AS e, ... DO body END`.
type WithExpr struct {
	base
	Bindings []WithBinding
	Body     Expression
}

// Lambda is a single-parameter `$name body` argument to a higher-order method.
type Lambda struct {
	base
	Param string
	Body  Expression
}

func mk(span Span) base { return base{span: span} }

// Constructors below are the only way callers build nodes, keeping Span
// population consistent across the parser.

func NewNumberLit(span Span, v uint64) *NumberLit { return &NumberLit{mk(span), v} }
func NewStringLit(span Span, v string) *StringLit { return &StringLit{mk(span), v} }
func NewBoolLit(span Span, v bool) *BoolLit       { return &BoolLit{mk(span), v} }
func NewNoneLit(span Span) *NoneLit               { return &NoneLit{mk(span)} }
func NewPathLit(span Span, v string) *PathLit     { return &PathLit{mk(span), v} }
func NewDateLit(span Span, raw string) *DateLit   { return &DateLit{mk(span), raw} }
func NewMe(span Span) *Me                         { return &Me{mk(span)} }
func NewVarRef(span Span, name string) *VarRef    { return &VarRef{mk(span), name} }

func NewListLit(span Span, elems []Expression) *ListLit { return &ListLit{mk(span), elems} }
func NewClassLit(span Span, fields []ClassField) *ClassLit {
	return &ClassLit{mk(span), fields}
}

func NewProperty(span Span, recv Expression, name string) *Property {
	return &Property{mk(span), recv, name}
}

func NewMethodCall(span Span, recv Expression, name string, args []Expression) *MethodCall {
	return &MethodCall{mk(span), recv, name, args}
}

func NewFuncCall(span Span, name string, args []Expression) *FuncCall {
	return &FuncCall{mk(span), name, args}
}

func NewFieldAccess(span Span, recv Expression, name string) *FieldAccess {
	return &FieldAccess{mk(span), recv, name}
}

func NewBinaryOp(span Span, op lexer.TokenType, left, right Expression) *BinaryOp {
	return &BinaryOp{mk(span), op, left, right}
}

func NewUnaryOp(span Span, op lexer.TokenType, operand Expression) *UnaryOp {
	return &UnaryOp{mk(span), op, operand}
}

func NewIsPredicate(span Span, operand Expression, negate bool, want lexer.TokenType) *IsPredicate {
	return &IsPredicate{mk(span), operand, negate, want}
}

func NewCast(span Span, operand Expression, targetTy lexer.TokenType) *Cast {
	return &Cast{mk(span), operand, targetTy}
}

func NewBetween(span Span, operand, low, high Expression) *Between {
	return &Between{mk(span), operand, low, high}
}

func NewIfExpr(span Span, cond, then, els Expression) *IfExpr {
	return &IfExpr{mk(span), cond, then, els}
}

func NewCaseExpr(span Span, branches []CaseBranch, els Expression) *CaseExpr {
	return &CaseExpr{mk(span), branches, els}
}

func NewWithExpr(span Span, bindings []WithBinding, body Expression) *WithExpr {
	return &WithExpr{mk(span), bindings, body}
}

func NewLambda(span Span, param string, body Expression) *Lambda {
	return &Lambda{mk(span), param, body}
}

// Package ast defines the syntax tree the parser produces: expressions
// (including the Block form every let-body and function-body is),
// destructuring patterns, and the type-expression grammar used by type
// annotations, `type` aliases, casts, and the `#` conformance operator.
package ast

import "github.com/serelang/sere/internal/token"

// Node is any syntax-tree node; every node keeps the token it started
// at, for diagnostics.
type Node interface {
	Tok() token.Token
}

// Expr is anything that evaluates to a Value.
type Expr interface {
	Node
	exprNode()
}

// Binding is one line of a Block: a destructuring let, a
// pattern-defined-function let, or a type alias.
type Binding interface {
	Node
	bindingNode()
}

// base embeds the start token shared by every concrete node.
type base struct{ Token token.Token }

func (b base) Tok() token.Token { return b.Token }

// Block is a sequence of bindings followed by a result expression. It
// is itself an Expr: function bodies, if/then/else branches, and
// imported-module programs are all blocks.
type Block struct {
	base
	Bindings []Binding
	Result   Expr // never nil — a block with no explicit result evaluates to null, represented by a NullLiteral
}

func (*Block) exprNode() {}

// --- Bindings ---

// LetBinding is `let <pattern> = <block>`.
type LetBinding struct {
	base
	Pattern Pattern
	Value   Expr
}

func (*LetBinding) bindingNode() {}

// LetFunctionBinding is one alternative of `let <name> <pattern> = <block>`.
// Consecutive bindings with the same Name are grouped into one
// multi-alternative Pattern value by the evaluator, tried in the order
// they appear, per spec.md §4.2.1.
type LetFunctionBinding struct {
	base
	Name  *Identifier
	Param Pattern
	Body  Expr
}

func (*LetFunctionBinding) bindingNode() {}

// TypeAliasBinding is `type <name> = <type-expression>`.
type TypeAliasBinding struct {
	base
	Name *Identifier
	Type TypeExpr
}

func (*TypeAliasBinding) bindingNode() {}

// --- Literals & identifiers ---

type Identifier struct {
	base
	Name string
}

func (*Identifier) exprNode() {}

type IntLiteral struct {
	base
	Value int64
}

func (*IntLiteral) exprNode() {}

type FloatLiteral struct {
	base
	Value float64
}

func (*FloatLiteral) exprNode() {}

type TextLiteral struct {
	base
	Value string
}

func (*TextLiteral) exprNode() {}

type BoolLiteral struct {
	base
	Value bool
}

func (*BoolLiteral) exprNode() {}

type NullLiteral struct{ base }

func (*NullLiteral) exprNode() {}

// TemplatePart is one chunk of a template string: either a literal run
// of text, or an interpolated expression parsed at parse time from the
// raw `${...}` span (spec.md §9).
type TemplatePart struct {
	Literal string
	Expr    Expr // nil for a literal-only part
}

type TemplateLiteral struct {
	base
	Parts []TemplatePart
}

func (*TemplateLiteral) exprNode() {}

// --- Collections ---

// ListItem is one element of a list literal: `value`, `...spread`, or
// `value if guard`.
type ListItem struct {
	Value  Expr
	Spread bool
	Guard  Expr // nil if unguarded
}

type ListLiteral struct {
	base
	Items []ListItem
}

func (*ListLiteral) exprNode() {}

// DictItem is one entry of a dict literal. Key is a TextLiteral for a
// bareword or quoted key, or any Expr for a computed key.
type DictItem struct {
	Key    Expr
	Value  Expr
	Spread bool
	Guard  Expr
}

type DictLiteral struct {
	base
	Items []DictItem
}

func (*DictLiteral) exprNode() {}

// ForClause is one `for <pattern> in <source>` clause of a comprehension.
type ForClause struct {
	Pattern Pattern
	Source  Expr
}

type ListComprehension struct {
	base
	Body    Expr
	Clauses []ForClause
	Guard   Expr // nil if unguarded
}

func (*ListComprehension) exprNode() {}

type DictComprehension struct {
	base
	KeyExpr   Expr
	ValueExpr Expr
	Clauses   []ForClause
	Guard     Expr
}

func (*DictComprehension) exprNode() {}

// --- Control flow & operators ---

type IfExpr struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

func (*IfExpr) exprNode() {}

// ImportExpr is `import <literal> [as text] [or <default>]`.
type ImportExpr struct {
	base
	Path    string
	AsText  bool
	Default Expr // nil if no `or` fallback
}

func (*ImportExpr) exprNode() {}

type UnaryExpr struct {
	base
	Op      string // "-", "not"
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

type BinaryExpr struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// ApplyExpr is juxtaposition: two adjacent primaries, Fn applied to Arg.
type ApplyExpr struct {
	base
	Fn  Expr
	Arg Expr
}

func (*ApplyExpr) exprNode() {}

// MemberExpr is `.name` sugar for `[ "name" ]`.
type MemberExpr struct {
	base
	Target Expr
	Name   string
}

func (*MemberExpr) exprNode() {}

type IndexExpr struct {
	base
	Target Expr
	Index  Expr
}

func (*IndexExpr) exprNode() {}

// CastExpr is `<expr> as <type>`.
type CastExpr struct {
	base
	Target Expr
	Type   TypeExpr
}

func (*CastExpr) exprNode() {}

// TypeTestExpr is `<expr> # <type>`.
type TypeTestExpr struct {
	base
	Value Expr
	Type  TypeExpr
}

func (*TypeTestExpr) exprNode() {}

// TypeLiteral lets a type expression appear where a value is expected
// (the Type value kind of spec.md §3.1), e.g. `let T = int`.
type TypeLiteral struct {
	base
	Type TypeExpr
}

func (*TypeLiteral) exprNode() {}

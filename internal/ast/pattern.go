package ast

import "github.com/serelang/sere/internal/token"

// Pattern is anything that can appear on the left of a `let`, as a
// function parameter, or as a `for` clause's binder.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern (`_`) always matches and binds nothing.
type WildcardPattern struct{ base }

func (*WildcardPattern) patternNode() {}

// IdentifierPattern binds Name to the matched value. If Type is
// non-nil, the value must also structurally conform to it (spec.md
// §4.3's "identifier with optional type annotation").
type IdentifierPattern struct {
	base
	Name string
	Type TypeExpr // nil if unannotated
}

func (*IdentifierPattern) patternNode() {}

// LiteralPattern matches only a value equal to Value, which is one of
// IntLiteral, FloatLiteral, TextLiteral, BoolLiteral, or NullLiteral.
type LiteralPattern struct {
	base
	Value Expr
}

func (*LiteralPattern) patternNode() {}

// ListPattern matches a List value. Elems holds the named
// sub-patterns; RestPos indicates where an unbound `..` rest sits
// among them: -1 means no rest (the list's length must equal
// len(Elems) exactly), 0 means a leading spread (`[.., a, b]` — Elems
// match the *last* len(Elems) elements), and len(Elems) means a
// trailing spread (`[a, b, ..]` — Elems match the *first* len(Elems)
// elements).
type ListPattern struct {
	base
	Elems   []Pattern
	RestPos int
}

func (*ListPattern) patternNode() {}

// DictPatternField is one `key: pattern` entry of a dict pattern. The
// `identifier[: T]` shorthand desugars to Key == identifier's name and
// Pattern == an IdentifierPattern of the same name (and type, if any).
type DictPatternField struct {
	Key     string
	Pattern Pattern
}

// DictPattern matches a Dict value. If Open is false the dict's key
// set must equal exactly the fields listed; if Open is true (a
// trailing `, ..`) extra keys are permitted and ignored.
type DictPattern struct {
	base
	Fields []DictPatternField
	Open   bool
}

func (*DictPattern) patternNode() {}

// NewWildcard is a convenience constructor used by desugaring code.
func NewWildcard(tok token.Token) *WildcardPattern {
	return &WildcardPattern{base{tok}}
}

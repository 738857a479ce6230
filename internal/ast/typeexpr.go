package ast

// TypeExpr is a node of the structural type-expression grammar: the
// primitives, `[T]`/`{T}` collections, `?T` optionals, tuple/record
// forms, `|` alternatives, and alias identifiers of spec.md §3.
type TypeExpr interface {
	Node
	typeExprNode()
}

// PrimitiveType is one of any, null, bool, int, float, number, text.
type PrimitiveType struct {
	base
	Name string
}

func (*PrimitiveType) typeExprNode() {}

// ListType is `[T]`: a homogeneous list of T.
type ListType struct {
	base
	Elem TypeExpr
}

func (*ListType) typeExprNode() {}

// DictType is `{T}`: a dict whose values all conform to T.
type DictType struct {
	base
	Elem TypeExpr
}

func (*DictType) typeExprNode() {}

// OptionalType is `?T`: T or null.
type OptionalType struct {
	base
	Inner TypeExpr
}

func (*OptionalType) typeExprNode() {}

// TupleType is a fixed-arity list type `(T1, T2, ...)`; it conforms
// against a List value of exactly that length with elementwise types.
type TupleType struct {
	base
	Elems []TypeExpr
}

func (*TupleType) typeExprNode() {}

// RecordTypeField is one `key: T` entry of a record type.
type RecordTypeField struct {
	Key  string
	Type TypeExpr
}

// RecordType conforms against a Dict value. If Open is false the
// dict's key set must equal exactly the fields listed; if Open is
// true, extra keys are permitted.
type RecordType struct {
	base
	Fields []RecordTypeField
	Open   bool
}

func (*RecordType) typeExprNode() {}

// UnionType (`T | U`) conforms if the value conforms to any option,
// tried left to right (spec.md §4.4).
type UnionType struct {
	base
	Options []TypeExpr
}

func (*UnionType) typeExprNode() {}

// AliasRefType is an identifier that must resolve to a `type` binding
// in the type-alias namespace (spec.md §9's two-namespace rule).
type AliasRefType struct {
	base
	Name string
}

func (*AliasRefType) typeExprNode() {}

package evaluator

import (
	"strings"

	"github.com/serelang/sere/internal/ast"
)

// Conforms reports whether val structurally matches t, resolving any
// alias references against env's type namespace (spec.md §4.4). This
// is structural conformance, not Hindley-Milner unification: every
// type form is checked directly against the value's shape.
func Conforms(val Value, t ast.TypeExpr, env *Environment) bool {
	switch tt := t.(type) {
	case *ast.PrimitiveType:
		return conformsPrimitive(val, tt.Name)

	case *ast.OptionalType:
		if _, ok := val.(Null); ok {
			return true
		}
		return Conforms(val, tt.Inner, env)

	case *ast.ListType:
		list, ok := val.(List)
		if !ok {
			return false
		}
		for _, item := range list.Items() {
			if !Conforms(item, tt.Elem, env) {
				return false
			}
		}
		return true

	case *ast.DictType:
		dict, ok := val.(Dict)
		if !ok {
			return false
		}
		for _, k := range dict.Keys() {
			v, _ := dict.Get(k)
			if !Conforms(v, tt.Elem, env) {
				return false
			}
		}
		return true

	case *ast.TupleType:
		list, ok := val.(List)
		if !ok || list.Len() != len(tt.Elems) {
			return false
		}
		for i, et := range tt.Elems {
			item, _ := list.Get(i)
			if !Conforms(item, et, env) {
				return false
			}
		}
		return true

	case *ast.RecordType:
		dict, ok := val.(Dict)
		if !ok {
			return false
		}
		if !tt.Open && dict.Len() != len(tt.Fields) {
			return false
		}
		for _, f := range tt.Fields {
			v, ok := dict.Get(f.Key)
			if !ok || !Conforms(v, f.Type, env) {
				return false
			}
		}
		return true

	case *ast.UnionType:
		for _, opt := range tt.Options {
			if Conforms(val, opt, env) {
				return true
			}
		}
		return false

	case *ast.AliasRefType:
		resolved, ok := env.GetType(tt.Name)
		if !ok {
			return false
		}
		return Conforms(val, resolved.Expr, env)

	default:
		return false
	}
}

func conformsPrimitive(val Value, name string) bool {
	switch name {
	case "any":
		return true
	case "null":
		_, ok := val.(Null)
		return ok
	case "bool":
		_, ok := val.(Bool)
		return ok
	case "int":
		_, ok := val.(Int)
		return ok
	case "float":
		_, ok := val.(Float)
		return ok
	case "number":
		switch val.(type) {
		case Int, Float:
			return true
		}
		return false
	case "text":
		_, ok := val.(Text)
		return ok
	default:
		return false
	}
}

// TypeExprString renders a type expression for diagnostics and for
// TypeValue.Inspect, in the same surface syntax the parser accepts.
func TypeExprString(t ast.TypeExpr) string {
	switch tt := t.(type) {
	case *ast.PrimitiveType:
		return tt.Name
	case *ast.OptionalType:
		return "?" + TypeExprString(tt.Inner)
	case *ast.ListType:
		return "[" + TypeExprString(tt.Elem) + "]"
	case *ast.DictType:
		return "{" + TypeExprString(tt.Elem) + "}"
	case *ast.TupleType:
		parts := make([]string, len(tt.Elems))
		for i, e := range tt.Elems {
			parts[i] = TypeExprString(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.RecordType:
		parts := make([]string, len(tt.Fields))
		for i, f := range tt.Fields {
			parts[i] = f.Key + ": " + TypeExprString(f.Type)
		}
		if tt.Open {
			parts = append(parts, "..")
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.UnionType:
		parts := make([]string, len(tt.Options))
		for i, o := range tt.Options {
			parts[i] = TypeExprString(o)
		}
		return strings.Join(parts, " | ")
	case *ast.AliasRefType:
		return tt.Name
	default:
		return "?"
	}
}

// Package evaluator runs a parsed program: a big-step tree-walking
// evaluator over persistent collections, a structural pattern matcher,
// and a structural type conformance checker, following the teacher's
// object-model idiom (a small closed interface plus one concrete type
// per value kind).
package evaluator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/serelang/sere/internal/ast"
)

// Kind identifies a Value's runtime type for `#` tests, `as` casts,
// and error messages.
type Kind string

const (
	KindNull  Kind = "null"
	KindBool  Kind = "bool"
	KindInt   Kind = "int"
	KindFloat Kind = "float"
	KindText  Kind = "text"
	KindList  Kind = "list"
	KindDict  Kind = "dict"
	KindFunc  Kind = "function"
	KindType  Kind = "type"
)

// Value is anything a Sere expression can evaluate to.
type Value interface {
	Kind() Kind
	Inspect() string // debug form, rendered by fmt and by Equal's fallback comparisons
}

// Null is the unique null value.
type Null struct{}

func (Null) Kind() Kind      { return KindNull }
func (Null) Inspect() string { return "null" }

var TheNull = Null{}

type Bool bool

func (Bool) Kind() Kind          { return KindBool }
func (b Bool) Inspect() string   { return strconv.FormatBool(bool(b)) }

type Int int64

func (Int) Kind() Kind        { return KindInt }
func (i Int) Inspect() string { return strconv.FormatInt(int64(i), 10) }

type Float float64

func (Float) Kind() Kind        { return KindFloat }
func (f Float) Inspect() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// Text holds its content as runes, per the resolved Open Question that
// indexing and length operate on Unicode code points, not bytes.
type Text struct {
	runes []rune
}

func NewText(s string) Text { return Text{runes: []rune(s)} }

func (Text) Kind() Kind        { return KindText }
func (t Text) String() string  { return string(t.runes) }
func (t Text) Inspect() string { return t.String() }
func (t Text) Len() int        { return len(t.runes) }
func (t Text) At(i int) (Text, bool) {
	if i < 0 || i >= len(t.runes) {
		return Text{}, false
	}
	return Text{runes: []rune{t.runes[i]}}, true
}

// List is an ordered, immutable sequence backed by a PersistentVector.
type List struct {
	v *PersistentVector
}

func NewList(elems []Value) List {
	return List{v: VectorFrom(elems)}
}

func EmptyList() List { return List{v: EmptyVector()} }

func (List) Kind() Kind { return KindList }

func (l List) Len() int { return l.v.Len() }

func (l List) Get(i int) (Value, bool) {
	if i < 0 || i >= l.v.Len() {
		return nil, false
	}
	return l.v.Get(i), true
}

func (l List) Append(val Value) List { return List{v: l.v.Append(val)} }

func (l List) Concat(other List) List { return List{v: l.v.Concat(other.v)} }

func (l List) Slice(start, end int) List { return List{v: l.v.Slice(start, end)} }

func (l List) Items() []Value { return l.v.ToSlice() }

func (l List) Inspect() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range l.Items() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(item.Inspect())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Dict is an insertion-ordered, immutable string-keyed map: a
// PersistentMap for O(1)-ish lookup paired with a PersistentVector
// tracking the order keys were first inserted, since a Go map cannot
// preserve that (spec.md's Dict ordering invariant).
type Dict struct {
	m     *PersistentMap
	order *PersistentVector // of Text keys
}

func EmptyDict() Dict {
	return Dict{m: EmptyMap(), order: EmptyVector()}
}

func (Dict) Kind() Kind { return KindDict }

func (d Dict) Len() int { return d.m.Len() }

func (d Dict) Get(key string) (Value, bool) {
	v := d.m.Get(key)
	if v == nil {
		return nil, false
	}
	return v, true
}

func (d Dict) Has(key string) bool { return d.m.Contains(key) }

// Set returns a copy of d with key bound to val, appending key to the
// order vector only the first time it is seen.
func (d Dict) Set(key string, val Value) Dict {
	order := d.order
	if !d.m.Contains(key) {
		order = order.Append(NewText(key))
	}
	return Dict{m: d.m.Put(key, val), order: order}
}

// Keys returns the dict's keys in insertion order.
func (d Dict) Keys() []string {
	keys := make([]string, 0, d.order.Len())
	for _, k := range d.order.ToSlice() {
		keys = append(keys, k.(Text).String())
	}
	return keys
}

func (d Dict) Inspect() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range d.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := d.Get(k)
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v.Inspect())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Merge returns a copy of d with other's entries put on top, in
// other's insertion order, so conflicting keys keep their original
// position but take other's value (dict-literal spread semantics).
func (d Dict) Merge(other Dict) Dict {
	result := d
	for _, k := range other.Keys() {
		v, _ := other.Get(k)
		result = result.Set(k, v)
	}
	return result
}

// equalDict order-insensitively compares two dicts' key sets and
// values (the resolved Open Question for Dict `==`).
func equalDict(a, b Dict) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// Function is a callable value: either a pattern-defined function (one
// or more alternatives tried in order) or a built-in.
type Function struct {
	Name         string
	Alternatives []FuncAlt // nil for built-ins
	Builtin      BuiltinFn
	Applied      []Value // partially-applied arguments, for curried built-ins
}

type FuncAlt struct {
	Param ast.Pattern
	Body  ast.Expr
	// Closure is the environment the alternative was defined in; a
	// function's own name is NOT bound within it, so recursion only
	// happens through explicit self-application (spec.md's
	// no-recursion-by-capture rule).
	Closure *Environment
}

type BuiltinFn func(args []Value) (Value, error)

func (Function) Kind() Kind { return KindFunc }

func (f Function) Inspect() string {
	if f.Name != "" {
		return fmt.Sprintf("<function %s>", f.Name)
	}
	return "<function>"
}

// TypeValue reifies a type expression as a first-class value, the
// runtime counterpart of ast.TypeExpr (spec.md §3.1's Type kind).
type TypeValue struct {
	Expr ast.TypeExpr
}

func (TypeValue) Kind() Kind        { return KindType }
func (t TypeValue) Inspect() string { return TypeExprString(t.Expr) }

// Equal implements `==`. Numeric kinds compare across int/float after
// coercion; Dict comparison is order-insensitive; List and Text compare
// elementwise/by content; everything else compares by Inspect().
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv
		case Float:
			return Float(av) == bv
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Int:
			return av == Float(bv)
		case Float:
			return av == bv
		}
		return false
	case Text:
		bv, ok := b.(Text)
		return ok && av.String() == bv.String()
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case List:
		bv, ok := b.(List)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, item := range av.Items() {
			other, _ := bv.Get(i)
			if !Equal(item, other) {
				return false
			}
		}
		return true
	case Dict:
		bv, ok := b.(Dict)
		return ok && equalDict(av, bv)
	default:
		return a.Inspect() == b.Inspect()
	}
}

// Render formats v the way `fmt`, `as text`, and template interpolation
// all want: Text values render as their raw content, everything else
// renders as its Inspect form.
func Render(v Value) string {
	if t, ok := v.(Text); ok {
		return t.String()
	}
	return v.Inspect()
}

// Truthy implements the language's single notion of falsiness: only
// `false` and `null` are falsy, per spec.md §4.2's if/and/or semantics.
func Truthy(v Value) bool {
	switch vv := v.(type) {
	case Bool:
		return bool(vv)
	case Null:
		return false
	default:
		return true
	}
}

// SortValues returns a sorted copy of vs, ordering ints/floats
// numerically and text lexicographically; mixed-kind lists sort by
// Kind first so the comparison is always total.
func SortValues(vs []Value) []Value {
	out := make([]Value, len(vs))
	copy(out, vs)
	sort.SliceStable(out, func(i, j int) bool { return lessValue(out[i], out[j]) })
	return out
}

func lessValue(a, b Value) bool {
	an, aok := numeric(a)
	bn, bok := numeric(b)
	if aok && bok {
		return an < bn
	}
	at, aIsText := a.(Text)
	bt, bIsText := b.(Text)
	if aIsText && bIsText {
		return at.String() < bt.String()
	}
	return a.Kind() < b.Kind()
}

func numeric(v Value) (float64, bool) {
	switch vv := v.(type) {
	case Int:
		return float64(vv), true
	case Float:
		return float64(vv), true
	}
	return 0, false
}

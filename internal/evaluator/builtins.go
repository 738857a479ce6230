package evaluator

import (
	"strconv"
	"strings"

	"github.com/serelang/sere/internal/config"
	"github.com/serelang/sere/internal/diagnostics"
	"github.com/serelang/sere/internal/token"
)

func argErrorf(name, want string, got Value) error {
	return diagnostics.New(diagnostics.TypeMismatch, diagnostics.PhaseEval, "", token.Token{},
		"%s expects %s, got %s", name, want, got.Kind())
}

// NewGlobalEnvironment returns the top-level environment every program
// and import starts from, with config.Builtins bound as curried
// Function values (application is always single-argument, so a
// multi-arity built-in accumulates Applied until it has enough to run).
func NewGlobalEnvironment() *Environment {
	env := NewEnvironment()
	for _, b := range config.Builtins {
		impl := builtinImpls[b.Name]
		env.Set(b.Name, Function{Name: b.Name, Builtin: impl})
	}
	return env
}

var builtinImpls = map[string]BuiltinFn{
	"fmt":         biFmt,
	"len":         biLen,
	"range":       biRange,
	"zip":         biZip,
	"enumerate":   biEnumerate,
	"sum":         biSum,
	"max":         biMax,
	"min":         biMin,
	"all":         biAll,
	"any":         biAny,
	"sort":        biSort,
	"keys":        biKeys,
	"values":      biValues,
	"split":       biSplit,
	"join":        biJoin,
	"replace":     biReplace,
	"trim":        biTrim,
	"trim_start":  biTrimStart,
	"trim_end":    biTrimEnd,
	"lowercase":   biLowercase,
	"uppercase":   biUppercase,
	"starts_with": biStartsWith,
	"ends_with":   biEndsWith,
	"parse_int":   biParseInt,
	"parse_float": biParseFloat,
}

func biFmt(args []Value) (Value, error) { return NewText(Render(args[0])), nil }

func biLen(args []Value) (Value, error) {
	switch v := args[0].(type) {
	case List:
		return Int(v.Len()), nil
	case Dict:
		return Int(v.Len()), nil
	case Text:
		return Int(v.Len()), nil
	}
	return nil, argErrorf("len", "a list, dict, or text", args[0])
}

// biRange implements `range [start, end]`: a List of the Ints in
// [start, end), per the built-in signature table (spec.md §6.3).
func biRange(args []Value) (Value, error) {
	bounds, ok := args[0].(List)
	if !ok || bounds.Len() != 2 {
		return nil, argErrorf("range", "a 2-element [start, end] list", args[0])
	}
	startV, _ := bounds.Get(0)
	endV, _ := bounds.Get(1)
	start, ok := startV.(Int)
	if !ok {
		return nil, argErrorf("range", "an int start", startV)
	}
	end, ok := endV.(Int)
	if !ok {
		return nil, argErrorf("range", "an int end", endV)
	}
	if end <= start {
		return NewList(nil), nil
	}
	items := make([]Value, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, Int(i))
	}
	return NewList(items), nil
}

func biZip(args []Value) (Value, error) {
	a, ok := args[0].(List)
	if !ok {
		return nil, argErrorf("zip", "a list", args[0])
	}
	b, ok := args[1].(List)
	if !ok {
		return nil, argErrorf("zip", "a list", args[1])
	}
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	out := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		av, _ := a.Get(i)
		bv, _ := b.Get(i)
		out = append(out, NewList([]Value{av, bv}))
	}
	return NewList(out), nil
}

func biEnumerate(args []Value) (Value, error) {
	l, ok := args[0].(List)
	if !ok {
		return nil, argErrorf("enumerate", "a list", args[0])
	}
	out := make([]Value, 0, l.Len())
	for i, item := range l.Items() {
		out = append(out, NewList([]Value{Int(i), item}))
	}
	return NewList(out), nil
}

func biSum(args []Value) (Value, error) {
	l, ok := args[0].(List)
	if !ok {
		return nil, argErrorf("sum", "a list", args[0])
	}
	var intSum int64
	var floatSum float64
	useFloat := false
	for _, item := range l.Items() {
		switch v := item.(type) {
		case Int:
			intSum += int64(v)
			floatSum += float64(v)
		case Float:
			useFloat = true
			floatSum += float64(v)
		default:
			return nil, argErrorf("sum", "a list of numbers", item)
		}
	}
	if useFloat {
		return Float(floatSum), nil
	}
	return Int(intSum), nil
}

func biMax(args []Value) (Value, error) { return extremeOf(args[0], "max", false) }
func biMin(args []Value) (Value, error) { return extremeOf(args[0], "min", true) }

func extremeOf(arg Value, name string, wantMin bool) (Value, error) {
	l, ok := arg.(List)
	if !ok || l.Len() == 0 {
		return nil, argErrorf(name, "a non-empty list", arg)
	}
	sorted := SortValues(l.Items())
	if wantMin {
		return sorted[0], nil
	}
	return sorted[len(sorted)-1], nil
}

func biAll(args []Value) (Value, error) {
	l, ok := args[0].(List)
	if !ok {
		return nil, argErrorf("all", "a list", args[0])
	}
	for _, v := range l.Items() {
		if !Truthy(v) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func biAny(args []Value) (Value, error) {
	l, ok := args[0].(List)
	if !ok {
		return nil, argErrorf("any", "a list", args[0])
	}
	for _, v := range l.Items() {
		if Truthy(v) {
			return Bool(true), nil
		}
	}
	return Bool(false), nil
}

func biSort(args []Value) (Value, error) {
	l, ok := args[0].(List)
	if !ok {
		return nil, argErrorf("sort", "a list", args[0])
	}
	return NewList(SortValues(l.Items())), nil
}

func biKeys(args []Value) (Value, error) {
	d, ok := args[0].(Dict)
	if !ok {
		return nil, argErrorf("keys", "a dict", args[0])
	}
	out := make([]Value, 0, d.Len())
	for _, k := range d.Keys() {
		out = append(out, NewText(k))
	}
	return NewList(out), nil
}

func biValues(args []Value) (Value, error) {
	d, ok := args[0].(Dict)
	if !ok {
		return nil, argErrorf("values", "a dict", args[0])
	}
	out := make([]Value, 0, d.Len())
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		out = append(out, v)
	}
	return NewList(out), nil
}

func biSplit(args []Value) (Value, error) {
	s, ok := args[0].(Text)
	if !ok {
		return nil, argErrorf("split", "text", args[0])
	}
	sep, ok := args[1].(Text)
	if !ok {
		return nil, argErrorf("split", "a text separator", args[1])
	}
	parts := strings.Split(s.String(), sep.String())
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = NewText(p)
	}
	return NewList(out), nil
}

func biJoin(args []Value) (Value, error) {
	l, ok := args[0].(List)
	if !ok {
		return nil, argErrorf("join", "a list", args[0])
	}
	sep, ok := args[1].(Text)
	if !ok {
		return nil, argErrorf("join", "a text separator", args[1])
	}
	parts := make([]string, 0, l.Len())
	for _, v := range l.Items() {
		t, ok := v.(Text)
		if !ok {
			return nil, argErrorf("join", "a list of text", v)
		}
		parts = append(parts, t.String())
	}
	return NewText(strings.Join(parts, sep.String())), nil
}

func biReplace(args []Value) (Value, error) {
	s, ok := args[0].(Text)
	if !ok {
		return nil, argErrorf("replace", "text", args[0])
	}
	old, ok := args[1].(Text)
	if !ok {
		return nil, argErrorf("replace", "text", args[1])
	}
	repl, ok := args[2].(Text)
	if !ok {
		return nil, argErrorf("replace", "text", args[2])
	}
	return NewText(strings.ReplaceAll(s.String(), old.String(), repl.String())), nil
}

const whitespaceCutset = " \t\n\r"

func biTrim(args []Value) (Value, error)      { return textOp("trim", args, strings.TrimSpace) }
func biTrimStart(args []Value) (Value, error) {
	return textOp("trim_start", args, func(s string) string { return strings.TrimLeft(s, whitespaceCutset) })
}
func biTrimEnd(args []Value) (Value, error) {
	return textOp("trim_end", args, func(s string) string { return strings.TrimRight(s, whitespaceCutset) })
}
func biLowercase(args []Value) (Value, error) { return textOp("lowercase", args, strings.ToLower) }
func biUppercase(args []Value) (Value, error) { return textOp("uppercase", args, strings.ToUpper) }

func textOp(name string, args []Value, fn func(string) string) (Value, error) {
	s, ok := args[0].(Text)
	if !ok {
		return nil, argErrorf(name, "text", args[0])
	}
	return NewText(fn(s.String())), nil
}

func biStartsWith(args []Value) (Value, error) {
	s, ok := args[0].(Text)
	if !ok {
		return nil, argErrorf("starts_with", "text", args[0])
	}
	prefix, ok := args[1].(Text)
	if !ok {
		return nil, argErrorf("starts_with", "text", args[1])
	}
	return Bool(strings.HasPrefix(s.String(), prefix.String())), nil
}

func biEndsWith(args []Value) (Value, error) {
	s, ok := args[0].(Text)
	if !ok {
		return nil, argErrorf("ends_with", "text", args[0])
	}
	suffix, ok := args[1].(Text)
	if !ok {
		return nil, argErrorf("ends_with", "text", args[1])
	}
	return Bool(strings.HasSuffix(s.String(), suffix.String())), nil
}

func biParseInt(args []Value) (Value, error) {
	s, ok := args[0].(Text)
	if !ok {
		return nil, argErrorf("parse_int", "text", args[0])
	}
	i, err := strconv.ParseInt(strings.TrimSpace(s.String()), 10, 64)
	if err != nil {
		return TheNull, nil
	}
	return Int(i), nil
}

func biParseFloat(args []Value) (Value, error) {
	s, ok := args[0].(Text)
	if !ok {
		return nil, argErrorf("parse_float", "text", args[0])
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s.String()), 64)
	if err != nil {
		return TheNull, nil
	}
	return Float(f), nil
}

package evaluator

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/serelang/sere/internal/token"
)

// noopNode satisfies ast.Node for tests that need to pass something to
// applyFunction's diagnostic-position argument but have no real AST node.
type noopNode struct{}

func (noopNode) Tok() token.Token { return token.Token{} }

func testEvalInstance() *Evaluator {
	return New("<builtins_test>", stubLoader{}, zerolog.Nop())
}

func call(t *testing.T, name string, args ...Value) Value {
	t.Helper()
	env := NewGlobalEnvironment()
	fnVal, ok := env.Get(name)
	if !ok {
		t.Fatalf("no builtin named %q", name)
	}
	ev := testEvalInstance()
	var cur Value = fnVal
	for _, arg := range args {
		var err error
		cur, err = ev.applyFunction(cur, arg, noopNode{})
		if err != nil {
			t.Fatalf("%s%v: %v", name, args, err)
		}
	}
	return cur
}

func TestBuiltinFmtAndLen(t *testing.T) {
	if got := call(t, "fmt", Int(5)); got.(Text).String() != "5" {
		t.Fatalf("fmt(5) = %v, want Text(5)", got)
	}
	if got := call(t, "len", NewList([]Value{Int(1), Int(2), Int(3)})); got.(Int) != 3 {
		t.Fatalf("len([1,2,3]) = %v, want 3", got)
	}
	if got := call(t, "len", NewText("hello")); got.(Int) != 5 {
		t.Fatalf("len(\"hello\") = %v, want 5", got)
	}
}

func TestBuiltinRange(t *testing.T) {
	got := call(t, "range", NewList([]Value{Int(2), Int(5)})).(List)
	if got.Len() != 3 {
		t.Fatalf("range([2, 5]) length = %d, want 3", got.Len())
	}
	first, _ := got.Get(0)
	if first.(Int) != 2 {
		t.Fatalf("range([2, 5])[0] = %v, want 2", first)
	}
	last, _ := got.Get(2)
	if last.(Int) != 4 {
		t.Fatalf("range([2, 5])[2] = %v, want 4 (end is exclusive)", last)
	}
}

func TestBuiltinRangeEmptyWhenEndNotAfterStart(t *testing.T) {
	got := call(t, "range", NewList([]Value{Int(5), Int(5)})).(List)
	if got.Len() != 0 {
		t.Fatalf("range([5, 5]) length = %d, want 0", got.Len())
	}
}

func TestBuiltinZipTruncatesToShorter(t *testing.T) {
	got := call(t, "zip", NewList([]Value{Int(1), Int(2)}), NewList([]Value{Int(10), Int(20), Int(30)})).(List)
	if got.Len() != 2 {
		t.Fatalf("zip length = %d, want 2", got.Len())
	}
}

func TestBuiltinEnumerate(t *testing.T) {
	got := call(t, "enumerate", NewList([]Value{NewText("a"), NewText("b")})).(List)
	pair, _ := got.Get(1)
	p := pair.(List)
	idx, _ := p.Get(0)
	val, _ := p.Get(1)
	if idx.(Int) != 1 || val.(Text).String() != "b" {
		t.Fatalf("enumerate()[1] = %v, want [1, b]", pair)
	}
}

func TestBuiltinSumMixedNumeric(t *testing.T) {
	got := call(t, "sum", NewList([]Value{Int(1), Float(1.5)}))
	f, ok := got.(Float)
	if !ok || f != 2.5 {
		t.Fatalf("sum([1, 1.5]) = %v, want Float(2.5)", got)
	}
}

func TestBuiltinMaxMin(t *testing.T) {
	list := NewList([]Value{Int(3), Int(1), Int(2)})
	if call(t, "max", list).(Int) != 3 {
		t.Fatalf("max should return 3")
	}
	if call(t, "min", list).(Int) != 1 {
		t.Fatalf("min should return 1")
	}
}

func TestBuiltinAllAny(t *testing.T) {
	if !bool(call(t, "all", NewList([]Value{Bool(true), Bool(true)})).(Bool)) {
		t.Fatalf("all([true, true]) should be true")
	}
	if bool(call(t, "all", NewList([]Value{Bool(true), Bool(false)})).(Bool)) {
		t.Fatalf("all([true, false]) should be false")
	}
	if !bool(call(t, "any", NewList([]Value{Bool(false), Bool(true)})).(Bool)) {
		t.Fatalf("any([false, true]) should be true")
	}
}

func TestBuiltinSort(t *testing.T) {
	got := call(t, "sort", NewList([]Value{Int(3), Int(1), Int(2)})).(List)
	first, _ := got.Get(0)
	if first.(Int) != 1 {
		t.Fatalf("sort()[0] = %v, want 1", first)
	}
}

func TestBuiltinKeysValues(t *testing.T) {
	d := EmptyDict().Set("a", Int(1)).Set("b", Int(2))
	keys := call(t, "keys", d).(List)
	k0, _ := keys.Get(0)
	if k0.(Text).String() != "a" {
		t.Fatalf("keys()[0] = %v, want a", k0)
	}
	values := call(t, "values", d).(List)
	v0, _ := values.Get(0)
	if v0.(Int) != 1 {
		t.Fatalf("values()[0] = %v, want 1", v0)
	}
}

func TestBuiltinSplitJoin(t *testing.T) {
	parts := call(t, "split", NewText("a,b,c"), NewText(",")).(List)
	if parts.Len() != 3 {
		t.Fatalf("split() length = %d, want 3", parts.Len())
	}
	joined := call(t, "join", parts, NewText("-")).(Text)
	if joined.String() != "a-b-c" {
		t.Fatalf("join() = %v, want a-b-c", joined)
	}
}

func TestBuiltinReplace(t *testing.T) {
	got := call(t, "replace", NewText("hello world"), NewText("world"), NewText("there")).(Text)
	if got.String() != "hello there" {
		t.Fatalf("replace() = %v, want 'hello there'", got)
	}
}

func TestBuiltinTrimVariants(t *testing.T) {
	if call(t, "trim", NewText("  hi  ")).(Text).String() != "hi" {
		t.Fatalf("trim() failed")
	}
	if call(t, "trim_start", NewText("  hi  ")).(Text).String() != "hi  " {
		t.Fatalf("trim_start() failed")
	}
	if call(t, "trim_end", NewText("  hi  ")).(Text).String() != "  hi" {
		t.Fatalf("trim_end() failed")
	}
}

func TestBuiltinCase(t *testing.T) {
	if call(t, "lowercase", NewText("HI")).(Text).String() != "hi" {
		t.Fatalf("lowercase() failed")
	}
	if call(t, "uppercase", NewText("hi")).(Text).String() != "HI" {
		t.Fatalf("uppercase() failed")
	}
}

func TestBuiltinStartsEndsWith(t *testing.T) {
	if !bool(call(t, "starts_with", NewText("hello"), NewText("he")).(Bool)) {
		t.Fatalf("starts_with() should be true")
	}
	if !bool(call(t, "ends_with", NewText("hello"), NewText("lo")).(Bool)) {
		t.Fatalf("ends_with() should be true")
	}
}

func TestBuiltinParseIntFloat(t *testing.T) {
	if call(t, "parse_int", NewText("42")).(Int) != 42 {
		t.Fatalf("parse_int() failed")
	}
	if _, ok := call(t, "parse_int", NewText("nope")).(Null); !ok {
		t.Fatalf("parse_int() of a non-number should yield null")
	}
	if call(t, "parse_float", NewText("3.5")).(Float) != 3.5 {
		t.Fatalf("parse_float() failed")
	}
}

func TestBuiltinArityIsCurried(t *testing.T) {
	env := NewGlobalEnvironment()
	fnVal, _ := env.Get("zip")
	ev := testEvalInstance()
	partial, err := ev.applyFunction(fnVal, NewList([]Value{Int(1)}), noopNode{})
	if err != nil {
		t.Fatalf("unexpected error applying first zip argument: %v", err)
	}
	fn, ok := partial.(Function)
	if !ok || fn.Builtin == nil || len(fn.Applied) != 1 {
		t.Fatalf("expected a partially-applied builtin Function after one argument, got %#v", partial)
	}
}

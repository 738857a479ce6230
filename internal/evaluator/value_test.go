package evaluator

import "testing"

func TestEqualNumericCoercion(t *testing.T) {
	if !Equal(Int(1), Float(1)) {
		t.Fatalf("expected Int(1) == Float(1)")
	}
	if Equal(Int(1), Float(1.5)) {
		t.Fatalf("expected Int(1) != Float(1.5)")
	}
}

func TestEqualDictOrderInsensitive(t *testing.T) {
	a := EmptyDict().Set("x", Int(1)).Set("y", Int(2))
	b := EmptyDict().Set("y", Int(2)).Set("x", Int(1))
	if !Equal(a, b) {
		t.Fatalf("expected dicts with the same entries in different insertion order to be equal")
	}
}

func TestEqualListElementwise(t *testing.T) {
	a := NewList([]Value{Int(1), NewText("x")})
	b := NewList([]Value{Int(1), NewText("x")})
	c := NewList([]Value{Int(1), NewText("y")})
	if !Equal(a, b) {
		t.Fatalf("expected identical lists to be equal")
	}
	if Equal(a, c) {
		t.Fatalf("expected lists differing in one element to not be equal")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"false is falsy", Bool(false), false},
		{"null is falsy", TheNull, false},
		{"true is truthy", Bool(true), true},
		{"zero int is truthy", Int(0), true},
		{"empty text is truthy", NewText(""), true},
		{"empty list is truthy", EmptyList(), true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Fatalf("%s: Truthy() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSortValuesNumeric(t *testing.T) {
	sorted := SortValues([]Value{Int(3), Int(1), Float(2.5)})
	want := []float64{1, 2.5, 3}
	for i, w := range want {
		n, _ := numeric(sorted[i])
		if n != w {
			t.Fatalf("sorted[%d] = %v, want %v", i, sorted[i], w)
		}
	}
}

func TestSortValuesText(t *testing.T) {
	sorted := SortValues([]Value{NewText("banana"), NewText("apple"), NewText("cherry")})
	want := []string{"apple", "banana", "cherry"}
	for i, w := range want {
		if sorted[i].(Text).String() != w {
			t.Fatalf("sorted[%d] = %v, want %v", i, sorted[i], w)
		}
	}
}

func TestRender(t *testing.T) {
	if Render(NewText("hi")) != "hi" {
		t.Fatalf("Render(Text) should return the raw content, not a quoted form")
	}
	if Render(Int(5)) != "5" {
		t.Fatalf("Render(Int) = %q, want 5", Render(Int(5)))
	}
}

func TestTextRuneIndexing(t *testing.T) {
	text := NewText("héllo")
	if text.Len() != 5 {
		t.Fatalf("Len() = %d, want 5 (rune count, not byte count)", text.Len())
	}
	ch, ok := text.At(1)
	if !ok || ch.String() != "é" {
		t.Fatalf("At(1) = %v, want é", ch)
	}
	if _, ok := text.At(10); ok {
		t.Fatalf("expected an out-of-range index to fail")
	}
}

func TestDictMergeKeepsOriginalPositionOnConflict(t *testing.T) {
	base := EmptyDict().Set("a", Int(1)).Set("b", Int(2))
	overlay := EmptyDict().Set("b", Int(20)).Set("c", Int(3))
	merged := base.Merge(overlay)
	want := []string{"a", "b", "c"}
	if len(merged.Keys()) != len(want) {
		t.Fatalf("keys = %v, want %v", merged.Keys(), want)
	}
	for i, k := range want {
		if merged.Keys()[i] != k {
			t.Fatalf("keys[%d] = %q, want %q", i, merged.Keys()[i], k)
		}
	}
	v, _ := merged.Get("b")
	if v.(Int) != 20 {
		t.Fatalf("b = %v, want 20 (overlay should win on conflict)", v)
	}
}

func TestListAppendConcatSlice(t *testing.T) {
	l := EmptyList().Append(Int(1)).Append(Int(2))
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	other := NewList([]Value{Int(3), Int(4)})
	combined := l.Concat(other)
	if combined.Len() != 4 {
		t.Fatalf("Concat length = %d, want 4", combined.Len())
	}
	sliced := combined.Slice(1, 3)
	if sliced.Len() != 2 {
		t.Fatalf("Slice length = %d, want 2", sliced.Len())
	}
	first, _ := sliced.Get(0)
	if first.(Int) != 2 {
		t.Fatalf("Slice()[0] = %v, want 2", first)
	}
}

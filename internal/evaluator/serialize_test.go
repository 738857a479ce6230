package evaluator

import (
	"testing"
)

func TestSerializeScalars(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", TheNull, "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(42), "42"},
		{"float", Float(1.5), "1.5"},
		{"text", NewText(`hi "there"`), `"hi \"there\""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Serialize(tt.v)
			if err != nil {
				t.Fatalf("Serialize() error: %v", err)
			}
			if string(out) != tt.want {
				t.Fatalf("Serialize() = %s, want %s", out, tt.want)
			}
		})
	}
}

func TestSerializeList(t *testing.T) {
	l := NewList([]Value{Int(1), NewText("x"), Bool(true)})
	out, err := Serialize(l)
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	want := `[1,"x",true]`
	if string(out) != want {
		t.Fatalf("Serialize() = %s, want %s", out, want)
	}
}

func TestSerializeDictPreservesInsertionOrder(t *testing.T) {
	d := EmptyDict().Set("z", Int(1)).Set("a", Int(2)).Set("m", Int(3))
	out, err := Serialize(d)
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	want := `{"z":1,"a":2,"m":3}`
	if string(out) != want {
		t.Fatalf("Serialize() = %s, want %s (insertion order, not sorted)", out, want)
	}
}

func TestSerializeNestedStructure(t *testing.T) {
	d := EmptyDict().Set("items", NewList([]Value{Int(1), Int(2)}))
	out, err := Serialize(d)
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	want := `{"items":[1,2]}`
	if string(out) != want {
		t.Fatalf("Serialize() = %s, want %s", out, want)
	}
}

func TestSerializeFunctionIsNotRepresentable(t *testing.T) {
	fn := Function{Name: "f"}
	if _, err := Serialize(fn); err == nil {
		t.Fatalf("expected an error serializing a function value to JSON")
	}
}

package value_test

import (
	"testing"

	"github.com/c360/machinemodel/value"
)

func TestConstructorsAndAccessors(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		kind value.Kind
	}{
		{"bool", value.Bool(true), value.KindBool},
		{"string", value.String("on"), value.KindString},
		{"number", value.Number(3.5), value.KindNumber},
		{"object", value.Object(map[string]value.Value{"x": value.Number(1)}), value.KindObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.kind {
				t.Fatalf("Kind() = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestAsAccessorsRejectWrongKind(t *testing.T) {
	b := value.Bool(true)
	if _, ok := b.AsString(); ok {
		t.Fatal("AsString() on a bool value should report ok=false")
	}
	if _, ok := b.AsNumber(); ok {
		t.Fatal("AsNumber() on a bool value should report ok=false")
	}
	if bv, ok := b.AsBool(); !ok || !bv {
		t.Fatalf("AsBool() = (%v, %v), want (true, true)", bv, ok)
	}
}

func TestNumberWithUnit(t *testing.T) {
	u := value.Unit{Name: "meter", Symbol: "m"}
	v := value.NumberWithUnit(2, u)
	if got := v.UnitOf(); !got.Equal(u) {
		t.Fatalf("UnitOf() = %+v, want %+v", got, u)
	}
	if s := v.String(); s != "2m" {
		t.Fatalf("String() = %q, want %q", s, "2m")
	}
}

func TestObjectRoundTripIsACopy(t *testing.T) {
	props := map[string]value.Value{"s": value.String("hi")}
	v := value.Object(props)
	props["s"] = value.String("mutated")

	got, ok := v.AsObject()
	if !ok {
		t.Fatal("AsObject() ok = false, want true")
	}
	if s, _ := got["s"].AsString(); s != "hi" {
		t.Fatalf("Object() did not copy its input map: got %q, want %q", s, "hi")
	}

	got["s"] = value.String("also mutated")
	got2, _ := v.AsObject()
	if s, _ := got2["s"].AsString(); s != "hi" {
		t.Fatal("AsObject() did not return a fresh copy")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"equal numbers", value.Number(1), value.Number(1), true},
		{"different numbers", value.Number(1), value.Number(2), false},
		{"different kinds", value.Number(1), value.String("1"), false},
		{
			"equal objects",
			value.Object(map[string]value.Value{"a": value.Bool(true)}),
			value.Object(map[string]value.Value{"a": value.Bool(true)}),
			true,
		},
		{
			"objects differing by one field",
			value.Object(map[string]value.Value{"a": value.Bool(true)}),
			value.Object(map[string]value.Value{"a": value.Bool(false)}),
			false,
		},
		{
			"objects differing by arity",
			value.Object(map[string]value.Value{"a": value.Bool(true)}),
			value.Object(map[string]value.Value{"a": value.Bool(true), "b": value.Bool(true)}),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Fatalf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

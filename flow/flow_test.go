package flow_test

import (
	"testing"

	"github.com/c360/machinemodel/flow"
	"github.com/c360/machinemodel/value"
)

func TestFrameGetSetClone(t *testing.T) {
	f := flow.NewFrame(map[string]value.Value{"x": value.Number(1)})
	f.Set("y", value.Bool(true))

	if v, ok := f.Get("x"); !ok {
		t.Fatal("Get(x) ok = false")
	} else if n, _ := v.AsNumber(); n != 1 {
		t.Fatalf("Get(x) = %g, want 1", n)
	}

	clone := f.Clone()
	clone.Set("x", value.Number(99))
	if v, _ := f.Get("x"); v.String() != "1" {
		t.Fatal("mutating a clone affected the original frame")
	}
}

func TestExprLiteralAndRef(t *testing.T) {
	f := flow.NewFrame(map[string]value.Value{"speed": value.Number(10)})

	lit := flow.Literal(value.Number(5))
	got, err := lit.Eval(f)
	if err != nil || got.String() != "5" {
		t.Fatalf("Literal.Eval() = (%v, %v), want (5, nil)", got, err)
	}

	ref := flow.Ref("speed")
	got, err = ref.Eval(f)
	if err != nil {
		t.Fatalf("Ref.Eval() error = %v", err)
	}
	if n, _ := got.AsNumber(); n != 10 {
		t.Fatalf("Ref.Eval() = %g, want 10", n)
	}

	unbound := flow.Ref("missing")
	if _, err := unbound.Eval(f); err == nil {
		t.Fatal("Eval() of an unbound ref did not error")
	}
}

func TestGraphAt(t *testing.T) {
	g := flow.NewGraph(
		flow.NewWriteStep("x", flow.Literal(value.Number(1))),
		flow.NewReadStep("x", "y"),
	)
	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	if _, ok := g.At(2); ok {
		t.Fatal("At(2) ok = true, want false (out of range)")
	}
	step, ok := g.At(0)
	if !ok || step.Kind != flow.StepWrite {
		t.Fatalf("At(0) = (%v, %v), want a StepWrite", step, ok)
	}
}

func TestEvaluateOperators(t *testing.T) {
	tests := []struct {
		name    string
		op      flow.Operator
		lhs, rhs value.Value
		want    bool
	}{
		{"equal numbers", flow.OpEqual, value.Number(5), value.Number(5), true},
		{"not equal numbers", flow.OpNotEqual, value.Number(5), value.Number(6), true},
		{"less than", flow.OpLessThan, value.Number(1), value.Number(2), true},
		{"less than or equal, equal case", flow.OpLessThanOrEqual, value.Number(2), value.Number(2), true},
		{"greater than", flow.OpGreaterThan, value.Number(3), value.Number(2), true},
		{"greater than or equal, false case", flow.OpGreaterThanOrEqual, value.Number(1), value.Number(2), false},
		{"string ordering", flow.OpLessThan, value.String("a"), value.String("b"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := flow.Evaluate(tt.op, tt.lhs, tt.rhs)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateIncomparableKindsErrors(t *testing.T) {
	_, err := flow.Evaluate(flow.OpLessThan, value.Bool(true), value.Bool(false))
	if err == nil {
		t.Fatal("Evaluate(OpLessThan) on two bools did not error")
	}
}

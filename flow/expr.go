package flow

import (
	"fmt"

	"github.com/c360/machinemodel/value"
)

// Expr is a tagged variant evaluated against a scope Frame: a literal
// constant, or a reference to a frame binding. Kept deliberately minimal
// (no arithmetic sub-language) since WriteStep/WaitStep only ever need a
// value or a frame lookup, never a computed expression.
type Expr struct {
	isRef   bool
	literal value.Value
	ref     string
}

// Literal constructs a constant Expr.
func Literal(v value.Value) Expr { return Expr{literal: v} }

// Ref constructs an Expr resolving to the named frame binding.
func Ref(name string) Expr { return Expr{isRef: true, ref: name} }

// Eval resolves the expression against frame.
func (e Expr) Eval(frame Frame) (value.Value, error) {
	if !e.isRef {
		return e.literal, nil
	}
	v, ok := frame.Get(e.ref)
	if !ok {
		return value.Value{}, fmt.Errorf("flow: unbound frame reference %q", e.ref)
	}
	return v, nil
}

// IsRef reports whether the expression is a frame reference.
func (e Expr) IsRef() bool { return e.isRef }

// RefName returns the referenced frame binding name; empty if IsRef is
// false.
func (e Expr) RefName() string { return e.ref }

package testutil

import (
	"github.com/c360/machinemodel/tree"
	"github.com/c360/machinemodel/value"
)

// NewTestTree builds a small tree used across package tests: a root folder
// named "root" with a boolean "b", a numeric "n" bounded [0, 10], and an
// object "obj" with a single string property "s".
func NewTestTree() (t *tree.Tree, b *tree.BooleanVariable, n *tree.NumericVariable, obj *tree.ObjectVariable, s *tree.StringVariable) {
	t = tree.New("root", "test tree", nil)
	b, _ = t.NewBooleanVariable(t.Root(), "b", "", false)
	lower, upper := 0.0, 10.0
	n, _ = t.NewNumericVariable(t.Root(), "n", "", 5, value.NoUnit, &lower, &upper)
	obj, _ = t.NewObjectVariable(t.Root(), "obj", "")
	s, _ = t.NewStringVariable(obj, "s", "", "")
	return t, b, n, obj, s
}

package flow

import (
	"fmt"

	"github.com/c360/machinemodel/value"
)

// Operator is a WaitStep comparison operator, dispatched through a small
// function-value registry rather than a switch in Evaluate.
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
)

func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLessThan:
		return "<"
	case OpLessThanOrEqual:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanOrEqual:
		return ">="
	default:
		return "?"
	}
}

// OperatorFunc evaluates one comparison operator against a resolved
// (lhs, rhs) pair.
type OperatorFunc func(lhs, rhs value.Value) (bool, error)

var operatorFuncs = map[Operator]OperatorFunc{
	OpEqual:              func(l, r value.Value) (bool, error) { return l.Equal(r), nil },
	OpNotEqual:           func(l, r value.Value) (bool, error) { return !l.Equal(r), nil },
	OpLessThan:           func(l, r value.Value) (bool, error) { return compareOrdered(l, r, func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b }) },
	OpLessThanOrEqual:    func(l, r value.Value) (bool, error) { return compareOrdered(l, r, func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b }) },
	OpGreaterThan:        func(l, r value.Value) (bool, error) { return compareOrdered(l, r, func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b }) },
	OpGreaterThanOrEqual: func(l, r value.Value) (bool, error) { return compareOrdered(l, r, func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b }) },
}

// Evaluate applies op to (lhs, rhs): numeric comparison when both sides
// are numbers, lexical comparison when both are strings, equality-only
// otherwise.
func Evaluate(op Operator, lhs, rhs value.Value) (bool, error) {
	fn, ok := operatorFuncs[op]
	if !ok {
		return false, fmt.Errorf("flow: unknown operator %v", op)
	}
	return fn(lhs, rhs)
}

func compareOrdered(l, r value.Value, numCmp func(a, b float64) bool, strCmp func(a, b string) bool) (bool, error) {
	if ln, ok := l.AsNumber(); ok {
		if rn, ok := r.AsNumber(); ok {
			return numCmp(ln, rn), nil
		}
	}
	if ls, ok := l.AsString(); ok {
		if rs, ok := r.AsString(); ok {
			return strCmp(ls, rs), nil
		}
	}
	return false, fmt.Errorf("flow: operands not ordinally comparable (%s vs %s)", l.Kind(), r.Kind())
}

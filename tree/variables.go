package tree

import (
	"github.com/c360/machinemodel/subscription"
	"github.com/c360/machinemodel/value"
)

// notifyParent forwards a leaf property's prev->next transition to its
// parent ObjectVariable, if any, recursing up the ancestor chain of
// ObjectVariables (Folders do not participate).
func notifyParent(n Node, prev, next value.Value) {
	obj, ok := n.Parent().(*ObjectVariable)
	if !ok {
		return
	}
	obj.notifyChildChange(n.Name(), prev, next)
}

// BooleanVariable holds a boolean scalar with subscribers and hooks.
type BooleanVariable struct {
	base
	value  bool
	hooks  VariableHooks
	subs   *subscription.List
}

func newBooleanVariable(id, name, description string, initial bool) *BooleanVariable {
	return &BooleanVariable{
		base:  base{id: id, name: name, description: description, kind: KindBoolean},
		value: initial,
		subs:  subscription.NewList(),
	}
}

// SetHooks installs the variable's callback hooks (bind_variable_hook).
func (b *BooleanVariable) SetHooks(h VariableHooks) { b.hooks = h }

// Subscriptions returns the variable's subscriber list.
func (b *BooleanVariable) Subscriptions() *subscription.List { return b.subs }

func (b *BooleanVariable) ReadValue() (value.Value, error) {
	if err := runPreRead("BooleanVariable", b.name, b.hooks.PreRead); err != nil {
		return value.Value{}, err
	}
	return runPostRead("BooleanVariable", b.name, b.hooks.PostRead, value.Bool(b.value))
}

// WriteValue type-checks, runs hooks, assigns, and notifies subscribers and
// ancestors. It returns the value that was previously held.
func (b *BooleanVariable) WriteValue(proposed value.Value) (value.Value, error) {
	nb, ok := proposed.AsBool()
	if !ok {
		return value.Value{}, merrorsTypeMismatch("BooleanVariable", b.name, KindBoolean)
	}
	current := value.Bool(b.value)
	if err := runPreUpdate("BooleanVariable", b.name, b.hooks.PreUpdate, current, proposed); err != nil {
		return value.Value{}, err
	}
	prev := b.value
	b.value = nb
	if err := runPostUpdate("BooleanVariable", b.name, b.hooks.PostUpdate, value.Bool(prev), proposed); err != nil {
		b.value = prev
		return value.Value{}, err
	}
	b.subs.Notify(value.Bool(prev), proposed)
	notifyParent(b, value.Bool(prev), proposed)
	return value.Bool(prev), nil
}

// StringVariable holds a string scalar with subscribers and hooks.
type StringVariable struct {
	base
	value string
	hooks VariableHooks
	subs  *subscription.List
}

func newStringVariable(id, name, description string, initial string) *StringVariable {
	return &StringVariable{
		base:  base{id: id, name: name, description: description, kind: KindString},
		value: initial,
		subs:  subscription.NewList(),
	}
}

func (s *StringVariable) SetHooks(h VariableHooks)                { s.hooks = h }
func (s *StringVariable) Subscriptions() *subscription.List       { return s.subs }

func (s *StringVariable) ReadValue() (value.Value, error) {
	if err := runPreRead("StringVariable", s.name, s.hooks.PreRead); err != nil {
		return value.Value{}, err
	}
	return runPostRead("StringVariable", s.name, s.hooks.PostRead, value.String(s.value))
}

func (s *StringVariable) WriteValue(proposed value.Value) (value.Value, error) {
	ns, ok := proposed.AsString()
	if !ok {
		return value.Value{}, merrorsTypeMismatch("StringVariable", s.name, KindString)
	}
	current := value.String(s.value)
	if err := runPreUpdate("StringVariable", s.name, s.hooks.PreUpdate, current, proposed); err != nil {
		return value.Value{}, err
	}
	prev := s.value
	s.value = ns
	if err := runPostUpdate("StringVariable", s.name, s.hooks.PostUpdate, value.String(prev), proposed); err != nil {
		s.value = prev
		return value.Value{}, err
	}
	s.subs.Notify(value.String(prev), proposed)
	notifyParent(s, value.String(prev), proposed)
	return value.String(prev), nil
}

// NumericVariable holds a floating-point scalar with an optional unit and
// optional inclusive bounds.
type NumericVariable struct {
	base
	value       float64
	unit        value.Unit
	lower       *float64
	upper       *float64
	hooks       VariableHooks
	subs        *subscription.List
}

func newNumericVariable(id, name, description string, initial float64, unit value.Unit, lower, upper *float64) *NumericVariable {
	return &NumericVariable{
		base:  base{id: id, name: name, description: description, kind: KindNumeric},
		value: initial,
		unit:  unit,
		lower: lower,
		upper: upper,
		subs:  subscription.NewList(),
	}
}

func (n *NumericVariable) SetHooks(h VariableHooks)          { n.hooks = h }
func (n *NumericVariable) Subscriptions() *subscription.List { return n.subs }
func (n *NumericVariable) Unit() value.Unit                  { return n.unit }
func (n *NumericVariable) Bounds() (lower, upper *float64)   { return n.lower, n.upper }

func (n *NumericVariable) inBounds(x float64) bool {
	if n.lower != nil && x < *n.lower {
		return false
	}
	if n.upper != nil && x > *n.upper {
		return false
	}
	return true
}

func (n *NumericVariable) ReadValue() (value.Value, error) {
	if err := runPreRead("NumericVariable", n.name, n.hooks.PreRead); err != nil {
		return value.Value{}, err
	}
	return runPostRead("NumericVariable", n.name, n.hooks.PostRead, value.NumberWithUnit(n.value, n.unit))
}

func (n *NumericVariable) WriteValue(proposed value.Value) (value.Value, error) {
	nx, ok := proposed.AsNumber()
	if !ok {
		return value.Value{}, merrorsTypeMismatch("NumericVariable", n.name, KindNumeric)
	}
	if !n.inBounds(nx) {
		return value.Value{}, merrorsOutOfRange("NumericVariable", n.name, nx)
	}
	current := value.NumberWithUnit(n.value, n.unit)
	proposedWithUnit := value.NumberWithUnit(nx, n.unit)
	if err := runPreUpdate("NumericVariable", n.name, n.hooks.PreUpdate, current, proposedWithUnit); err != nil {
		return value.Value{}, err
	}
	prev := n.value
	n.value = nx
	if err := runPostUpdate("NumericVariable", n.name, n.hooks.PostUpdate, value.NumberWithUnit(prev, n.unit), proposedWithUnit); err != nil {
		n.value = prev
		return value.Value{}, err
	}
	n.subs.Notify(value.NumberWithUnit(prev, n.unit), proposedWithUnit)
	notifyParent(n, value.NumberWithUnit(prev, n.unit), proposedWithUnit)
	return value.NumberWithUnit(prev, n.unit), nil
}

package tree

import (
	"github.com/c360/machinemodel/merrors"
	"github.com/c360/machinemodel/subscription"
	"github.com/c360/machinemodel/value"
)

// ObjectVariable is a composition of named properties (each itself a
// variable) with no independent scalar state of its own. Its subscribers
// see the composite value across all properties.
type ObjectVariable struct {
	base
	order      []string
	properties map[string]Node
	subs       *subscription.List
}

func newObjectVariable(id, name, description string) *ObjectVariable {
	return &ObjectVariable{
		base:       base{id: id, name: name, description: description, kind: KindObject},
		properties: make(map[string]Node),
		subs:       subscription.NewList(),
	}
}

func (o *ObjectVariable) Subscriptions() *subscription.List { return o.subs }

// Child/Children/addChild/removeChild implement Container over properties.
func (o *ObjectVariable) Child(name string) (Node, bool) {
	n, ok := o.properties[name]
	return n, ok
}

func (o *ObjectVariable) Children() []Node {
	out := make([]Node, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.properties[name])
	}
	return out
}

func (o *ObjectVariable) addChild(n Node) error {
	if _, exists := o.properties[n.Name()]; exists {
		return merrors.New(merrors.MalformedModel, "ObjectVariable", "addChild",
			"property name %q already exists on %q", n.Name(), o.name)
	}
	o.properties[n.Name()] = n
	o.order = append(o.order, n.Name())
	return nil
}

func (o *ObjectVariable) removeChild(name string) (Node, bool) {
	n, ok := o.properties[name]
	if !ok {
		return nil, false
	}
	delete(o.properties, name)
	for i, nm := range o.order {
		if nm == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return n, true
}

// ReadValue composes the current value of every property, recursively.
func (o *ObjectVariable) ReadValue() (value.Value, error) {
	props := make(map[string]value.Value, len(o.order))
	for _, name := range o.order {
		child := o.properties[name]
		readable, ok := child.(Readable)
		if !ok {
			continue
		}
		v, err := readable.ReadValue()
		if err != nil {
			return value.Value{}, err
		}
		props[name] = v
	}
	return value.Object(props), nil
}

// notifyChildChange is invoked by a direct property after its own write
// completes: it recomposes the object's value with the property change
// applied, notifies the object's own subscribers, then recurses to its own
// parent ObjectVariable if any.
func (o *ObjectVariable) notifyChildChange(propName string, prev, next value.Value) {
	current, err := o.ReadValue()
	if err != nil {
		return
	}
	currentProps, _ := current.AsObject()
	prevProps := make(map[string]value.Value, len(currentProps))
	for k, v := range currentProps {
		prevProps[k] = v
	}
	prevProps[propName] = prev

	prevComposite := value.Object(prevProps)
	nextComposite := value.Object(currentProps)

	o.subs.Notify(prevComposite, nextComposite)
	notifyParent(o, prevComposite, nextComposite)
}

package tree

import (
	"github.com/c360/machinemodel/flow"
	"github.com/c360/machinemodel/merrors"
	"github.com/c360/machinemodel/value"
)

// ParamSpec is a typed variable template used for a method's parameter or
// return list: a name, an expected value kind, and an optional default.
type ParamSpec struct {
	Name    string
	Kind    value.Kind
	Default *value.Value
}

// bindPositional matches positional args against a parameter template,
// substituting defaults for trailing omitted arguments.
func bindPositional(component, node string, template []ParamSpec, args []value.Value) ([]value.Value, error) {
	if len(args) > len(template) {
		return nil, merrors.New(merrors.TypeMismatch, component, node,
			"too many arguments: got %d, template has %d", len(args), len(template))
	}
	bound := make([]value.Value, len(template))
	for i, spec := range template {
		if i < len(args) {
			if args[i].Kind() != spec.Kind {
				return nil, merrors.New(merrors.TypeMismatch, component, node,
					"argument %d (%s): expected %s, got %s", i, spec.Name, spec.Kind, args[i].Kind())
			}
			bound[i] = args[i]
			continue
		}
		if spec.Default == nil {
			return nil, merrors.New(merrors.TypeMismatch, component, node,
				"missing required argument %d (%s)", i, spec.Name)
		}
		bound[i] = *spec.Default
	}
	return bound, nil
}

// MethodCallback is the user-bound synchronous implementation of a Method.
type MethodCallback func(args []value.Value) ([]value.Value, error)

// Method invokes its callback synchronously and returns when it completes.
type Method struct {
	base
	params   []ParamSpec
	returns  []ParamSpec
	hooks    MethodHooks
	callback MethodCallback
	bound    bool
}

func newMethod(id, name, description string, params, returns []ParamSpec) *Method {
	return &Method{
		base:    base{id: id, name: name, description: description, kind: KindMethod},
		params:  params,
		returns: returns,
	}
}

// Bind installs the user-supplied implementation (bind_method_callback).
func (m *Method) Bind(cb MethodCallback) { m.callback = cb; m.bound = true }

// SetHooks installs the method's pre/post invoke hooks.
func (m *Method) SetHooks(h MethodHooks) { m.hooks = h }

// Params reports the parameter template.
func (m *Method) Params() []ParamSpec { return m.params }

// Returns reports the return template.
func (m *Method) Returns() []ParamSpec { return m.returns }

// Invoke validates args, runs pre/post invoke hooks around the bound
// callback, and returns the callback's result.
func (m *Method) Invoke(args []value.Value) ([]value.Value, error) {
	bound, err := bindPositional("Method", m.name, m.params, args)
	if err != nil {
		return nil, err
	}
	if !m.bound {
		return nil, merrors.New(merrors.UnboundCallback, "Method", m.name, "no callback bound")
	}
	if m.hooks.PreInvoke != nil {
		if err := m.hooks.PreInvoke(bound); err != nil {
			return nil, merrorsHookFailed("Method", m.name, "pre_invoke", err)
		}
	}
	results, err := m.callback(bound)
	if err != nil {
		return nil, err
	}
	if m.hooks.PostInvoke != nil {
		if err := m.hooks.PostInvoke(results); err != nil {
			return nil, merrorsHookFailed("Method", m.name, "post_invoke", err)
		}
	}
	return results, nil
}

// AsyncCallback is the user-bound implementation of an AsyncMethod. It
// returns an acknowledgement value immediately; it does not itself produce
// the method's declared returns synchronously.
type AsyncCallback func(args []value.Value) (value.Value, error)

// AsyncMethod returns synchronously with an acknowledgement; its bound
// callback is not awaited for the method's full return template.
type AsyncMethod struct {
	base
	params   []ParamSpec
	returns  []ParamSpec
	hooks    MethodHooks
	callback AsyncCallback
	bound    bool
}

func newAsyncMethod(id, name, description string, params, returns []ParamSpec) *AsyncMethod {
	return &AsyncMethod{
		base:    base{id: id, name: name, description: description, kind: KindAsyncMethod},
		params:  params,
		returns: returns,
	}
}

func (a *AsyncMethod) Bind(cb AsyncCallback)    { a.callback = cb; a.bound = true }
func (a *AsyncMethod) SetHooks(h MethodHooks)   { a.hooks = h }
func (a *AsyncMethod) Params() []ParamSpec      { return a.params }
func (a *AsyncMethod) Returns() []ParamSpec     { return a.returns }

// Invoke validates args and returns the callback's immediate
// acknowledgement.
func (a *AsyncMethod) Invoke(args []value.Value) (value.Value, error) {
	bound, err := bindPositional("AsyncMethod", a.name, a.params, args)
	if err != nil {
		return value.Value{}, err
	}
	if !a.bound {
		return value.Value{}, merrors.New(merrors.UnboundCallback, "AsyncMethod", a.name, "no callback bound")
	}
	if a.hooks.PreInvoke != nil {
		if err := a.hooks.PreInvoke(bound); err != nil {
			return value.Value{}, merrorsHookFailed("AsyncMethod", a.name, "pre_invoke", err)
		}
	}
	ack, err := a.callback(bound)
	if err != nil {
		return value.Value{}, err
	}
	if a.hooks.PostInvoke != nil {
		if err := a.hooks.PostInvoke([]value.Value{ack}); err != nil {
			return value.Value{}, merrorsHookFailed("AsyncMethod", a.name, "post_invoke", err)
		}
	}
	return ack, nil
}

// CompositeMethod carries a control-flow graph interpreted by the
// composite engine. Its active-scope registry is owned by composite.Engine,
// not by the node itself, to avoid a tree<->composite import cycle.
type CompositeMethod struct {
	base
	params  []ParamSpec
	returns []ParamSpec
	graph   *flow.Graph
}

func newCompositeMethod(id, name, description string, params, returns []ParamSpec, graph *flow.Graph) *CompositeMethod {
	return &CompositeMethod{
		base:    base{id: id, name: name, description: description, kind: KindComposite},
		params:  params,
		returns: returns,
		graph:   graph,
	}
}

func (c *CompositeMethod) Params() []ParamSpec  { return c.params }
func (c *CompositeMethod) Returns() []ParamSpec { return c.returns }
func (c *CompositeMethod) Graph() *flow.Graph   { return c.graph }

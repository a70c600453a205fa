package tree

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/c360/machinemodel/flow"
	"github.com/c360/machinemodel/merrors"
	"github.com/c360/machinemodel/trace"
	"github.com/c360/machinemodel/value"
)

// WriteHook is invoked once, after a scalar variable's write has fully
// completed its notification cascade (own subscribers plus hierarchical
// propagation). The composite engine registers this to drive scope resume,
// implemented as a distinct phase run after subscription notifications
// complete (see DESIGN.md Open Question decision 5).
type WriteHook func(n Node, prev, next value.Value)

// RemoveHook is invoked once per node removed by a cascade, children before
// their parent; the composite engine registers this to cancel scopes
// depending on a removed node (DEPENDENCY_LOST).
type RemoveHook func(n Node)

// Tree is a rooted node tree with O(1) id addressing, exclusively owned by
// one embedder. The internal mutex guards the id index against concurrent
// read access from an embedder even though the single-threaded dispatch
// model means writes are never concurrent.
type Tree struct {
	mu      sync.RWMutex
	root    *Folder
	byID    map[string]Node
	log     *slog.Logger
	onWrite WriteHook
	onRemove RemoveHook
	tap     trace.Tap
}

// SetTap installs an optional passive trace tap.
func (t *Tree) SetTap(tap trace.Tap) { t.tap = tap }

func (t *Tree) emit(point string, fields map[string]any) {
	if t.tap != nil {
		t.tap.Emit(point, fields)
	}
}

// New constructs a Tree with a fresh root Folder named rootName.
func New(rootName, description string, log *slog.Logger) *Tree {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	root := newFolder(uuid.NewString(), rootName, description)
	t := &Tree{
		root: root,
		byID: make(map[string]Node),
		log:  log,
	}
	t.byID[root.ID()] = root
	return t
}

// Root returns the tree's root folder.
func (t *Tree) Root() *Folder { return t.root }

// SetOnWrite installs the write-completion hook.
func (t *Tree) SetOnWrite(h WriteHook) { t.onWrite = h }

// SetOnRemove installs the removal hook.
func (t *Tree) SetOnRemove(h RemoveHook) { t.onRemove = h }

func (t *Tree) register(n Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byID[n.ID()] = n
}

func (t *Tree) unregister(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byID, id)
}

func (t *Tree) byIDLookup(id string) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.byID[id]
	return n, ok
}

// insert attaches node under parent, registering it in the id index. It
// fails with MALFORMED_MODEL on a sibling name collision.
func (t *Tree) insert(parent Container, node Node) error {
	if err := parent.addChild(node); err != nil {
		return err
	}
	node.setParent(parent)
	t.register(node)
	return nil
}

// NewFolder creates and attaches a Folder under parent.
func (t *Tree) NewFolder(parent Container, name, description string) (*Folder, error) {
	f := newFolder(uuid.NewString(), name, description)
	if err := t.insert(parent, f); err != nil {
		return nil, err
	}
	return f, nil
}

// NewBooleanVariable creates and attaches a BooleanVariable under parent.
func (t *Tree) NewBooleanVariable(parent Container, name, description string, initial bool) (*BooleanVariable, error) {
	v := newBooleanVariable(uuid.NewString(), name, description, initial)
	if err := t.insert(parent, v); err != nil {
		return nil, err
	}
	return v, nil
}

// NewStringVariable creates and attaches a StringVariable under parent.
func (t *Tree) NewStringVariable(parent Container, name, description string, initial string) (*StringVariable, error) {
	v := newStringVariable(uuid.NewString(), name, description, initial)
	if err := t.insert(parent, v); err != nil {
		return nil, err
	}
	return v, nil
}

// NewNumericVariable creates and attaches a NumericVariable under parent.
// lower/upper may be nil for an unbounded side; a non-nil pair with
// lower > upper fails with MALFORMED_MODEL.
func (t *Tree) NewNumericVariable(parent Container, name, description string, initial float64, unit value.Unit, lower, upper *float64) (*NumericVariable, error) {
	if lower != nil && upper != nil && *lower > *upper {
		return nil, merrors.New(merrors.MalformedModel, "Tree", "NewNumericVariable",
			"lower bound %g exceeds upper bound %g for %q", *lower, *upper, name)
	}
	v := newNumericVariable(uuid.NewString(), name, description, initial, unit, lower, upper)
	if err := t.insert(parent, v); err != nil {
		return nil, err
	}
	return v, nil
}

// NewObjectVariable creates and attaches an ObjectVariable under parent.
func (t *Tree) NewObjectVariable(parent Container, name, description string) (*ObjectVariable, error) {
	v := newObjectVariable(uuid.NewString(), name, description)
	if err := t.insert(parent, v); err != nil {
		return nil, err
	}
	return v, nil
}

// NewMethod creates and attaches a Method under parent. The callback must
// be bound separately via Method.Bind before it is invocable.
func (t *Tree) NewMethod(parent Container, name, description string, params, returns []ParamSpec) (*Method, error) {
	m := newMethod(uuid.NewString(), name, description, params, returns)
	if err := t.insert(parent, m); err != nil {
		return nil, err
	}
	return m, nil
}

// NewAsyncMethod creates and attaches an AsyncMethod under parent.
func (t *Tree) NewAsyncMethod(parent Container, name, description string, params, returns []ParamSpec) (*AsyncMethod, error) {
	m := newAsyncMethod(uuid.NewString(), name, description, params, returns)
	if err := t.insert(parent, m); err != nil {
		return nil, err
	}
	return m, nil
}

// NewCompositeMethod creates and attaches a CompositeMethod under parent.
func (t *Tree) NewCompositeMethod(parent Container, name, description string, params, returns []ParamSpec, graph *flow.Graph) (*CompositeMethod, error) {
	m := newCompositeMethod(uuid.NewString(), name, description, params, returns, graph)
	if err := t.insert(parent, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Resolve addresses a node by path, id, or both.
func (t *Tree) Resolve(ref NodeRef) (Node, error) {
	var byPath, byID Node
	var err error

	if ref.Path != "" {
		byPath, err = t.resolvePath(ref.Path)
		if err != nil {
			return nil, err
		}
	}
	if ref.ID != "" {
		n, ok := t.byIDLookup(ref.ID)
		if !ok {
			return nil, merrorsNotFound("Tree", "Resolve", "no node with id %q", ref.ID)
		}
		byID = n
	}
	switch {
	case byPath != nil && byID != nil:
		if byPath.ID() != byID.ID() {
			return nil, merrors.New(merrors.AddressMismatch, "Tree", "Resolve",
				"path %q resolves to %q but id %q resolves to %q", ref.Path, byPath.ID(), ref.ID, byID.ID())
		}
		return byPath, nil
	case byPath != nil:
		return byPath, nil
	case byID != nil:
		return byID, nil
	default:
		return nil, merrorsNotFound("Tree", "Resolve", "empty node reference")
	}
}

func (t *Tree) resolvePath(path string) (Node, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return nil, merrorsNotFound("Tree", "resolvePath", "empty path")
	}
	if segments[0] != t.root.Name() {
		return nil, merrorsNotFound("Tree", "resolvePath", "path %q does not start at root %q", path, t.root.Name())
	}
	var cur Node = t.root
	for _, seg := range segments[1:] {
		c, ok := cur.(Container)
		if !ok {
			return nil, merrorsNotFound("Tree", "resolvePath", "%q is not addressable further at %q", path, seg)
		}
		child, ok := c.Child(seg)
		if !ok {
			return nil, merrorsNotFound("Tree", "resolvePath", "no child %q under %q", seg, cur.Name())
		}
		cur = child
	}
	return cur, nil
}

// Read samples a variable's current value.
func (t *Tree) Read(ref NodeRef) (value.Value, error) {
	n, err := t.Resolve(ref)
	if err != nil {
		return value.Value{}, err
	}
	readable, ok := n.(Readable)
	if !ok {
		return value.Value{}, merrors.New(merrors.TypeMismatch, "Tree", "Read", "%q is not a readable variable", n.Name())
	}
	v, err := readable.ReadValue()
	if err == nil {
		t.emit(trace.PointRead, map[string]any{"node_id": n.ID(), "name": n.Name()})
	}
	return v, err
}

// scalarVariable is the capability interface every scalar (non-object)
// variable satisfies.
type scalarVariable interface {
	Readable
	WriteValue(value.Value) (value.Value, error)
}

// Write performs a variable write. For an ObjectVariable,
// proposed must be a KindObject value and is applied as a field-wise
// merge; a per-property failure does not roll back sibling properties.
func (t *Tree) Write(ref NodeRef, proposed value.Value) (WriteOutcome, error) {
	n, err := t.Resolve(ref)
	if err != nil {
		return WriteOutcome{}, err
	}
	switch node := n.(type) {
	case scalarVariable:
		prev, err := node.WriteValue(proposed)
		if err != nil {
			return WriteOutcome{Accepted: false, Err: err}, err
		}
		t.emit(trace.PointWrite, map[string]any{"node_id": n.ID(), "name": n.Name()})
		if t.onWrite != nil {
			t.onWrite(n, prev, proposed)
		}
		return WriteOutcome{Accepted: true}, nil
	case *ObjectVariable:
		props, ok := proposed.AsObject()
		if !ok {
			err := merrors.New(merrors.TypeMismatch, "Tree", "Write", "%q expects an object value", n.Name())
			return WriteOutcome{Err: err}, err
		}
		outcome := WriteOutcome{PerProperty: make(map[string]error, len(props))}
		anyOK := false
		for name, v := range props {
			child, ok := node.Child(name)
			if !ok {
				outcome.PerProperty[name] = merrorsNotFound("Tree", "Write", "no property %q on %q", name, node.Name())
				continue
			}
			_, werr := t.Write(NodeRef{ID: child.ID()}, v)
			outcome.PerProperty[name] = werr
			if werr == nil {
				anyOK = true
			}
		}
		outcome.Accepted = anyOK
		return outcome, nil
	default:
		err := merrors.New(merrors.TypeMismatch, "Tree", "Write", "%q is not writable", n.Name())
		return WriteOutcome{Err: err}, err
	}
}

// Remove deletes ref's node and cascades to its descendants: each removed
// node is deregistered from the id index and the RemoveHook fires for it,
// in depth-first order, children before parents.
func (t *Tree) Remove(ref NodeRef) error {
	n, err := t.Resolve(ref)
	if err != nil {
		return err
	}
	parent, ok := n.Parent().(Container)
	if !ok {
		return merrors.New(merrors.MalformedModel, "Tree", "Remove", "%q has no removable parent", n.Name())
	}
	t.cascadeRemove(n)
	parent.removeChild(n.Name())
	return nil
}

func (t *Tree) cascadeRemove(n Node) {
	if c, ok := n.(Container); ok {
		for _, child := range c.Children() {
			t.cascadeRemove(child)
		}
	}
	t.unregister(n.ID())
	if t.onRemove != nil {
		t.onRemove(n)
	}
}

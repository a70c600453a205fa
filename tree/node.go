// Package tree implements the typed node tree: folders, typed variables,
// and methods addressed by path and id, with hierarchical change
// propagation and per-variable subscription.
//
// Nodes are a tagged variant: Node is a narrow interface every concrete
// type satisfies, and callers dispatch on Kind() or on the richer
// capability interfaces (Readable, Container) rather than on a class
// hierarchy.
package tree

import "github.com/c360/machinemodel/value"

// Kind tags which node variant a Node holds.
type Kind int

const (
	KindFolder Kind = iota
	KindBoolean
	KindString
	KindNumeric
	KindObject
	KindMethod
	KindAsyncMethod
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "Folder"
	case KindBoolean:
		return "BooleanVariable"
	case KindString:
		return "StringVariable"
	case KindNumeric:
		return "NumericVariable"
	case KindObject:
		return "ObjectVariable"
	case KindMethod:
		return "Method"
	case KindAsyncMethod:
		return "AsyncMethod"
	case KindComposite:
		return "CompositeMethod"
	default:
		return "Unknown"
	}
}

// Node is the common header every tree element carries: identifier, name,
// description, and a weak (lookup-only, non-owning) back-reference to its
// parent. The root's Parent is nil.
type Node interface {
	ID() string
	Name() string
	Description() string
	Kind() Kind
	Parent() Node

	setParent(Node)
}

// base is embedded by every concrete node type and implements the common
// Node header.
type base struct {
	id          string
	name        string
	description string
	kind        Kind
	parent      Node
}

func (b *base) ID() string          { return b.id }
func (b *base) Name() string        { return b.name }
func (b *base) Description() string { return b.description }
func (b *base) Kind() Kind          { return b.kind }
func (b *base) Parent() Node        { return b.parent }
func (b *base) setParent(p Node)    { b.parent = p }

// Container is a node that exclusively owns named children: Folder owns
// arbitrary children, ObjectVariable owns its properties. Ownership means
// removal of the container cascades to its children.
type Container interface {
	Node
	Child(name string) (Node, bool)
	Children() []Node

	addChild(Node) error
	removeChild(name string) (Node, bool)
}

// Readable is any node whose current state can be sampled as a value:
// the three scalar variable kinds and ObjectVariable (whose read composes
// its properties).
type Readable interface {
	Node
	ReadValue() (value.Value, error)
}

// Visitor is invoked once per node during a Walk.
type Visitor interface {
	Visit(n Node)
}

// VisitorFunc adapts a plain function to a Visitor.
type VisitorFunc func(Node)

func (f VisitorFunc) Visit(n Node) { f(n) }

// Walk performs a depth-first traversal of the subtree rooted at n,
// visiting n itself before its children.
func Walk(n Node, v Visitor) {
	v.Visit(n)
	if c, ok := n.(Container); ok {
		for _, child := range c.Children() {
			Walk(child, v)
		}
	}
}

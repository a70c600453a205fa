package tree

import (
	"fmt"

	"github.com/c360/machinemodel/merrors"
)

// Folder is an ordered name->child mapping; children are exclusively
// owned.
type Folder struct {
	base
	order    []string
	children map[string]Node
}

func newFolder(id, name, description string) *Folder {
	return &Folder{
		base:     base{id: id, name: name, description: description, kind: KindFolder},
		children: make(map[string]Node),
	}
}

// Child looks up a direct child by name.
func (f *Folder) Child(name string) (Node, bool) {
	n, ok := f.children[name]
	return n, ok
}

// Children returns direct children in insertion order.
func (f *Folder) Children() []Node {
	out := make([]Node, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.children[name])
	}
	return out
}

func (f *Folder) addChild(n Node) error {
	if _, exists := f.children[n.Name()]; exists {
		return merrors.New(merrors.MalformedModel, "Folder", "addChild",
			"sibling name %q already exists under %q", n.Name(), f.name)
	}
	f.children[n.Name()] = n
	f.order = append(f.order, n.Name())
	return nil
}

func (f *Folder) removeChild(name string) (Node, bool) {
	n, ok := f.children[name]
	if !ok {
		return nil, false
	}
	delete(f.children, name)
	for i, nm := range f.order {
		if nm == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return n, true
}

func (f *Folder) String() string {
	return fmt.Sprintf("Folder(%s, %d children)", f.name, len(f.order))
}

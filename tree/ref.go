package tree

// NodeRef addresses a node by path, by id, or both. When both are given
// they must resolve to the same node or the reference fails with
// ADDRESS_MISMATCH.
type NodeRef struct {
	Path string
	ID   string
}

// ByPath constructs a path-only reference.
func ByPath(path string) NodeRef { return NodeRef{Path: path} }

// ByID constructs an id-only reference.
func ByID(id string) NodeRef { return NodeRef{ID: id} }

// WriteOutcome is the result of a Tree.Write call. For scalar variables
// Err alone reports acceptance/rejection. For ObjectVariable's field-wise
// merge, PerProperty carries one entry per proposed property name (nil
// error means that property write succeeded); the merge is not
// transactional.
type WriteOutcome struct {
	Accepted    bool
	Err         error
	PerProperty map[string]error
}

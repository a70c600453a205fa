package tree

import "github.com/c360/machinemodel/value"

// VariableHooks are the per-variable callback hooks a node's owner may
// install. PreUpdate returning a NewVeto error vetoes the write (VETOED);
// PostUpdate returning a NewPostVeto error reverts the write (POST_VETOED).
// Any other error a hook returns is reported as HOOK_FAILED (a PostUpdate
// failure also reverts the write). Hook panics are not recovered.
type VariableHooks struct {
	PreRead    func() error
	PostRead   func(v value.Value) (value.Value, error)
	PreUpdate  func(current, proposed value.Value) error
	PostUpdate func(prev, next value.Value) error
}

// MethodHooks are the per-method callback hooks shared by Method and
// AsyncMethod.
type MethodHooks struct {
	PreInvoke  func(args []value.Value) error
	PostInvoke func(returns []value.Value) error
}

// vetoError is returned by hook authors (via NewVeto/NewPostVeto) to signal
// an intentional veto rather than an internal hook failure.
type vetoKind int

const (
	vetoPre vetoKind = iota
	vetoPost
)

type vetoError struct {
	kind vetoKind
	msg  string
}

func (e *vetoError) Error() string { return e.msg }

// NewVeto constructs an error a PreUpdate hook returns to veto a write
// intentionally, distinct from an internal hook failure.
func NewVeto(msg string) error { return &vetoError{kind: vetoPre, msg: msg} }

// NewPostVeto constructs an error a PostUpdate hook returns to revert a
// write intentionally.
func NewPostVeto(msg string) error { return &vetoError{kind: vetoPost, msg: msg} }

func isVeto(err error, kind vetoKind) bool {
	ve, ok := err.(*vetoError)
	return ok && ve.kind == kind
}

// runPreRead executes an optional pre-read hook, converting a non-nil
// return into HOOK_FAILED.
func runPreRead(component, node string, h func() error) error {
	if h == nil {
		return nil
	}
	if err := h(); err != nil {
		return merrorsHookFailed(component, node, "pre_read", err)
	}
	return nil
}

// runPostRead executes an optional post-read hook, allowing it to
// transform the sampled value.
func runPostRead(component, node string, h func(value.Value) (value.Value, error), v value.Value) (value.Value, error) {
	if h == nil {
		return v, nil
	}
	out, err := h(v)
	if err != nil {
		return v, merrorsHookFailed(component, node, "post_read", err)
	}
	return out, nil
}

// runPreUpdate executes an optional pre-update hook; a NewVeto error
// becomes VETOED, any other error becomes HOOK_FAILED.
func runPreUpdate(component, node string, h func(current, proposed value.Value) error, current, proposed value.Value) error {
	if h == nil {
		return nil
	}
	err := h(current, proposed)
	if err == nil {
		return nil
	}
	if isVeto(err, vetoPre) {
		return merrorsVetoed(component, node, err)
	}
	return merrorsHookFailed(component, node, "pre_update", err)
}

// runPostUpdate executes an optional post-update hook; a NewPostVeto error
// becomes POST_VETOED, any other error becomes HOOK_FAILED. Both cases
// signal the caller to roll back the assignment.
func runPostUpdate(component, node string, h func(prev, next value.Value) error, prev, next value.Value) error {
	if h == nil {
		return nil
	}
	err := h(prev, next)
	if err == nil {
		return nil
	}
	if isVeto(err, vetoPost) {
		return merrorsPostVetoed(component, node, err)
	}
	return merrorsHookFailed(component, node, "post_update", err)
}

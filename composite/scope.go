// Package composite implements the suspendable step-by-step interpreter for
// CompositeMethod control-flow graphs.
package composite

import (
	"time"

	"github.com/c360/machinemodel/flow"
	"github.com/c360/machinemodel/tree"
)

// Scope is an active or suspended execution instance of a CompositeMethod,
// modeled as an explicit state machine (scope id, locals, program counter,
// active flag) rather than a language coroutine, so a suspended invocation
// costs nothing more than an entry in the engine's wait table.
type Scope struct {
	ID       string
	Method   *tree.CompositeMethod
	Frame    flow.Frame
	PC       int
	Active   bool
	Deadline *time.Time

	// waitVar is the id of the variable this scope is currently suspended
	// on, empty when the scope is not suspended.
	waitVar string
}

func newScope(id string, m *tree.CompositeMethod, frame flow.Frame, deadline *time.Time) *Scope {
	return &Scope{ID: id, Method: m, Frame: frame, Active: true, Deadline: deadline}
}

func (s *Scope) expired(now time.Time) bool {
	return s.Deadline != nil && now.After(*s.Deadline)
}

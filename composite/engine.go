package composite

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c360/machinemodel/flow"
	"github.com/c360/machinemodel/merrors"
	"github.com/c360/machinemodel/trace"
	"github.com/c360/machinemodel/tree"
	"github.com/c360/machinemodel/value"
)

// CompletionHandler receives a scope's deferred completion: values on
// success, err on failure or cancellation. The protocol manager registers
// this to turn it into a deferred Success/Error message keyed by the
// original Call's id.
type CompletionHandler func(scopeID string, values []value.Value, err error)

// InvokeResult is the synchronous outcome of Invoke.
type InvokeResult struct {
	Completed bool
	Values    []value.Value
	Pending   bool
	ScopeID   string
	Err       error
}

type waitEntry struct {
	scope *Scope
	step  *flow.WaitStep
}

// Engine is the composite method interpreter: scope lifecycle, step
// sequencing, and suspend/resume on variable events. One Engine serves one
// Tree, matching the manager-owns-everything model the tree and protocol
// packages also follow.
type Engine struct {
	mu    sync.Mutex
	tree  *tree.Tree
	log   *slog.Logger
	scopes map[string]*Scope
	waits  map[string][]*waitEntry // variable id -> waiters
	onDone CompletionHandler
	tap    trace.Tap

	depth    int
	advanced map[string]bool
}

// SetTap installs an optional passive trace tap.
func (e *Engine) SetTap(tap trace.Tap) { e.tap = tap }

func (e *Engine) emit(point string, fields map[string]any) {
	if e.tap != nil {
		e.tap.Emit(point, fields)
	}
}

// New constructs an Engine bound to t, registering the write/remove hooks
// that drive resume and dependency-loss cancellation.
func New(t *tree.Tree, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		tree:   t,
		log:    log,
		scopes: make(map[string]*Scope),
		waits:  make(map[string][]*waitEntry),
	}
	t.SetOnWrite(e.onWrite)
	t.SetOnRemove(e.onRemove)
	return e
}

// SetCompletionHandler installs the deferred-completion sink.
func (e *Engine) SetCompletionHandler(h CompletionHandler) { e.onDone = h }

// Invoke validates args, allocates a scope, and steps it synchronously
// until it completes, suspends, or fails.
func (e *Engine) Invoke(m *tree.CompositeMethod, args []value.Value, deadline *time.Duration) InvokeResult {
	bound, err := bindArgs(m, args)
	if err != nil {
		return InvokeResult{Err: err}
	}
	var abs *time.Time
	if deadline != nil {
		t := time.Now().Add(*deadline)
		abs = &t
	}
	scope := newScope(uuid.NewString(), m, flow.NewFrame(bound), abs)

	e.mu.Lock()
	e.scopes[scope.ID] = scope
	e.mu.Unlock()

	return e.run(scope)
}

// Cancel cancels an active scope by id. Cancelling an id that is not
// active (already completed, failed, or previously cancelled) is a no-op.
func (e *Engine) Cancel(scopeID string) {
	e.mu.Lock()
	scope, ok := e.scopes[scopeID]
	e.mu.Unlock()
	if !ok || !scope.Active {
		return
	}
	e.dispose(scope, nil, merrors.New(merrors.Cancelled, "Engine", "Cancel", "scope %s cancelled", scopeID))
}

// dispose tears a scope down: drops its active wait (if any), removes it
// from the registry, and reports completion.
func (e *Engine) dispose(scope *Scope, values []value.Value, err error) {
	scope.Active = false
	e.mu.Lock()
	if scope.waitVar != "" {
		e.removeWaitLocked(scope.waitVar, scope)
	}
	delete(e.scopes, scope.ID)
	e.mu.Unlock()
	if e.onDone != nil {
		e.onDone(scope.ID, values, err)
	}
}

func (e *Engine) removeWaitLocked(variableID string, scope *Scope) {
	entries := e.waits[variableID]
	for i, w := range entries {
		if w.scope.ID == scope.ID {
			e.waits[variableID] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(e.waits[variableID]) == 0 {
		delete(e.waits, variableID)
	}
}

// onWrite is the tree.WriteHook: it drives resume for every scope waiting
// on the written variable. It is registered on Tree at construction and
// runs after the write's full subscription notification cascade
// completes, on the writer's own logical thread of control.
func (e *Engine) onWrite(n tree.Node, prev, next value.Value) {
	e.depth++
	if e.depth == 1 {
		e.advanced = make(map[string]bool)
	}
	defer func() {
		e.depth--
		if e.depth == 0 {
			e.advanced = nil
		}
	}()
	e.resumeWaitsOn(n.ID(), next)
}

// onRemove is the tree.RemoveHook: any scope with an active wait on the
// removed node fails with DEPENDENCY_LOST.
func (e *Engine) onRemove(n tree.Node) {
	e.mu.Lock()
	entries := append([]*waitEntry(nil), e.waits[n.ID()]...)
	e.mu.Unlock()
	for _, w := range entries {
		e.dispose(w.scope, nil, merrors.New(merrors.DependencyLost, "Engine", "onRemove",
			"watched node %s (%s) was removed", n.Name(), n.ID()))
	}
}

func bindArgs(m *tree.CompositeMethod, args []value.Value) (map[string]value.Value, error) {
	params := m.Params()
	if len(args) > len(params) {
		return nil, merrors.New(merrors.TypeMismatch, "Engine", "Invoke",
			"too many arguments: got %d, template has %d", len(args), len(params))
	}
	bound := make(map[string]value.Value, len(params))
	for i, spec := range params {
		if i < len(args) {
			if args[i].Kind() != spec.Kind {
				return nil, merrors.New(merrors.TypeMismatch, "Engine", "Invoke",
					"argument %d (%s): expected %s, got %s", i, spec.Name, spec.Kind, args[i].Kind())
			}
			bound[spec.Name] = args[i]
			continue
		}
		if spec.Default == nil {
			return nil, merrors.New(merrors.TypeMismatch, "Engine", "Invoke",
				"missing required argument %d (%s)", i, spec.Name)
		}
		bound[spec.Name] = *spec.Default
	}
	return bound, nil
}

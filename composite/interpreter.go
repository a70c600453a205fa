package composite

import (
	"time"

	"github.com/c360/machinemodel/flow"
	"github.com/c360/machinemodel/merrors"
	"github.com/c360/machinemodel/trace"
	"github.com/c360/machinemodel/tree"
	"github.com/c360/machinemodel/value"
)

// run steps scope from its current PC until the graph ends, a WaitStep
// suspends it, or an error occurs.
func (e *Engine) run(scope *Scope) InvokeResult {
	graph := scope.Method.Graph()
	for {
		if scope.expired(time.Now()) {
			e.dispose(scope, nil, merrors.New(merrors.Cancelled, "Engine", "run", "scope %s exceeded its deadline", scope.ID))
			return InvokeResult{Err: merrors.New(merrors.Cancelled, "Engine", "run", "deadline exceeded")}
		}
		step, ok := graph.At(scope.PC)
		if !ok {
			values, err := e.collectReturns(scope)
			e.emit(trace.PointScopeDone, map[string]any{"scope_id": scope.ID, "ok": err == nil})
			e.dispose(scope, values, err)
			if err != nil {
				return InvokeResult{Err: err}
			}
			return InvokeResult{Completed: true, Values: values}
		}
		e.emit(trace.PointStep, map[string]any{"scope_id": scope.ID, "pc": scope.PC, "kind": step.Kind})

		switch step.Kind {
		case flow.StepWrite:
			if err := e.execWrite(scope, step.Write); err != nil {
				e.dispose(scope, nil, err)
				return InvokeResult{Err: err}
			}
			scope.PC++

		case flow.StepRead:
			if err := e.execRead(scope, step.Read); err != nil {
				e.dispose(scope, nil, err)
				return InvokeResult{Err: err}
			}
			scope.PC++

		case flow.StepWait:
			satisfied, err := e.evalWait(scope, step.Wait)
			if err != nil {
				e.dispose(scope, nil, err)
				return InvokeResult{Err: err}
			}
			if satisfied {
				scope.PC++
				continue
			}
			e.suspend(scope, step.Wait)
			return InvokeResult{Pending: true, ScopeID: scope.ID}

		case flow.StepCallAsync:
			if err := e.execCallAsync(scope, step.CallAsync); err != nil {
				e.dispose(scope, nil, err)
				return InvokeResult{Err: err}
			}
			scope.PC++

		case flow.StepBranch:
			next, err := e.execBranch(scope, step.Branch)
			if err != nil {
				e.dispose(scope, nil, err)
				return InvokeResult{Err: err}
			}
			scope.PC = next

		default:
			err := merrors.New(merrors.MalformedModel, "Engine", "run", "unknown step kind %v", step.Kind)
			e.dispose(scope, nil, err)
			return InvokeResult{Err: err}
		}
	}
}

func (e *Engine) execWrite(scope *Scope, w *flow.WriteStep) error {
	v, err := w.ValueExpr.Eval(scope.Frame)
	if err != nil {
		return merrors.New(merrors.TypeMismatch, "Engine", "execWrite", "%s", err.Error())
	}
	_, err = e.tree.Write(tree.ByPath(w.Target), v)
	return err
}

func (e *Engine) execRead(scope *Scope, r *flow.ReadStep) error {
	v, err := e.tree.Read(tree.ByPath(r.Source))
	if err != nil {
		return err
	}
	storeAs := r.StoreAs
	if storeAs == "" {
		storeAs = r.Source
	}
	scope.Frame.Set(storeAs, v)
	return nil
}

func (e *Engine) evalWait(scope *Scope, w *flow.WaitStep) (bool, error) {
	current, err := e.tree.Read(tree.ByPath(w.Source))
	if err != nil {
		return false, err
	}
	rhs, err := w.RHSExpr.Eval(scope.Frame)
	if err != nil {
		return false, merrors.New(merrors.TypeMismatch, "Engine", "evalWait", "%s", err.Error())
	}
	ok, err := flow.Evaluate(w.Operator, current, rhs)
	if err != nil {
		return false, merrors.New(merrors.TypeMismatch, "Engine", "evalWait", "%s", err.Error())
	}
	return ok, nil
}

// suspend registers a transient wait for scope on the variable named by
// w.Source.
func (e *Engine) suspend(scope *Scope, w *flow.WaitStep) {
	n, err := e.tree.Resolve(tree.ByPath(w.Source))
	if err != nil {
		// Source vanished between evaluation and suspension; fail closed.
		e.dispose(scope, nil, err)
		return
	}
	scope.waitVar = n.ID()
	e.mu.Lock()
	e.waits[n.ID()] = append(e.waits[n.ID()], &waitEntry{scope: scope, step: w})
	e.mu.Unlock()
}

func (e *Engine) execCallAsync(scope *Scope, c *flow.CallAsyncStep) error {
	n, err := e.tree.Resolve(tree.ByPath(c.Method))
	if err != nil {
		return err
	}
	am, ok := n.(*tree.AsyncMethod)
	if !ok {
		return merrors.New(merrors.TypeMismatch, "Engine", "execCallAsync", "%s is not an AsyncMethod", c.Method)
	}
	args := make([]value.Value, len(c.ArgsExpr))
	for i, expr := range c.ArgsExpr {
		v, err := expr.Eval(scope.Frame)
		if err != nil {
			return merrors.New(merrors.TypeMismatch, "Engine", "execCallAsync", "%s", err.Error())
		}
		args[i] = v
	}
	ack, err := am.Invoke(args)
	if err != nil {
		return err
	}
	if c.StoreReturnsAs != "" {
		scope.Frame.Set(c.StoreReturnsAs, ack)
	}
	return nil
}

func (e *Engine) execBranch(scope *Scope, b *flow.BranchStep) (int, error) {
	v, err := b.PredicateExpr.Eval(scope.Frame)
	if err != nil {
		return 0, merrors.New(merrors.TypeMismatch, "Engine", "execBranch", "%s", err.Error())
	}
	truth, ok := v.AsBool()
	if !ok {
		return 0, merrors.New(merrors.TypeMismatch, "Engine", "execBranch", "branch predicate is not boolean")
	}
	if truth {
		return b.IfTrueIndex, nil
	}
	return b.IfFalseIndex, nil
}

func (e *Engine) collectReturns(scope *Scope) ([]value.Value, error) {
	returns := scope.Method.Returns()
	out := make([]value.Value, len(returns))
	for i, spec := range returns {
		v, ok := scope.Frame.Get(spec.Name)
		if !ok {
			return nil, merrors.New(merrors.TypeMismatch, "Engine", "collectReturns",
				"no binding for declared return %q", spec.Name)
		}
		out[i] = v
	}
	return out, nil
}

// resumeWaitsOn re-evaluates every scope waiting on variableID: a scope
// whose predicate is now true has its wait removed and stepping resumes
// from its PC. Any scope already advanced during the current originating
// write's dispatch is left waiting; its wakeup is scheduled to the next
// write that touches variableID (the at-most-one-advance rule).
func (e *Engine) resumeWaitsOn(variableID string, next value.Value) {
	e.mu.Lock()
	entries := append([]*waitEntry(nil), e.waits[variableID]...)
	e.mu.Unlock()

	for _, w := range entries {
		if e.advanced[w.scope.ID] {
			continue
		}
		if !w.scope.Active {
			continue
		}
		satisfied, err := e.evalWait(w.scope, w.step)
		if err != nil {
			e.advanced[w.scope.ID] = true
			e.mu.Lock()
			e.removeWaitLocked(variableID, w.scope)
			e.mu.Unlock()
			w.scope.waitVar = ""
			e.dispose(w.scope, nil, err)
			continue
		}
		if !satisfied {
			continue
		}
		e.advanced[w.scope.ID] = true
		e.mu.Lock()
		e.removeWaitLocked(variableID, w.scope)
		e.mu.Unlock()
		w.scope.waitVar = ""
		w.scope.PC++
		result := e.run(w.scope)
		if result.Pending {
			continue
		}
	}
}

package protocol

import (
	"log/slog"
	"sync"
	"time"

	"github.com/c360/machinemodel/composite"
	"github.com/c360/machinemodel/merrors"
	"github.com/c360/machinemodel/subscription"
	"github.com/c360/machinemodel/trace"
	"github.com/c360/machinemodel/tree"
	"github.com/c360/machinemodel/value"
)

// pendingCall remembers where to route a CompositeMethod's deferred
// completion: the original Call message's id (echoed, not the Accepted
// reply's own id — they happen to be equal here since Accepted itself
// echoes the request, but the field exists so this stays true even if a
// future revision assigns Accepted its own id) and its sender/target so
// the reply is addressed back to the original caller.
type pendingCall struct {
	OriginalID string
	Sender     string
	Target     string
}

// subscribable is any node exposing a per-variable subscription list:
// the three scalar variable kinds and ObjectVariable.
type subscribable interface {
	tree.Readable
	Subscriptions() *subscription.List
}

// Manager is the protocol manager: it routes Messages against the tree
// and composite engine, producing normal or deferred responses and
// emitting Event notifications. One Manager owns one Tree and one Engine
// exclusively.
type Manager struct {
	tree   *tree.Tree
	engine *composite.Engine
	log    *slog.Logger
	queue  *outboundQueue
	self   string
	tap    trace.Tap

	mu      sync.Mutex
	pending map[string]pendingCall
}

// SetTap installs an optional passive trace tap.
func (m *Manager) SetTap(tap trace.Tap) { m.tap = tap }

// New constructs a Manager. self is the address this manager identifies
// itself as when constructing replies and Event notifications.
func New(t *tree.Tree, engine *composite.Engine, self string, outboundCapacity int, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := &Manager{
		tree:    t,
		engine:  engine,
		log:     log,
		queue:   newOutboundQueue(outboundCapacity),
		self:    self,
		pending: make(map[string]pendingCall),
	}
	engine.SetCompletionHandler(m.onCompletion)
	return m
}

// Handle synchronously dispatches one request to quiescence, including any
// inline scope resumes triggered by its writes, and returns its terminal
// or Accepted reply.
func (m *Manager) Handle(req Message) Message {
	if m.tap != nil {
		m.tap.Emit(trace.PointDispatch, map[string]any{"id": req.ID, "namespace": req.Namespace, "name": req.Name})
	}
	switch {
	case req.Namespace == NamespaceVariable && req.Name == Read:
		return m.handleRead(req)
	case req.Namespace == NamespaceVariable && req.Name == Write:
		return m.handleWrite(req)
	case req.Namespace == NamespaceVariable && req.Name == Subscribe:
		return m.handleSubscribe(req)
	case req.Namespace == NamespaceVariable && req.Name == Unsubscribe:
		return m.handleUnsubscribe(req)
	case req.Namespace == NamespaceMethod && req.Name == Call:
		return m.handleCall(req)
	default:
		return NewError(req, ErrorBody{Code: merrors.MalformedModel, Message: "unrecognized namespace.name"})
	}
}

// Outbound drains every asynchronous notification and deferred-completion
// message produced since the last call.
func (m *Manager) Outbound() []Message { return m.queue.drain() }

func errBody(err error) ErrorBody {
	return ErrorBody{Code: merrors.CodeOf(err), Message: err.Error()}
}

func (m *Manager) handleRead(req Message) Message {
	body, ok := req.Body.(ReadRequest)
	if !ok {
		return NewError(req, ErrorBody{Code: merrors.MalformedModel, Message: "Variable.Read requires ReadRequest body"})
	}
	v, err := m.tree.Read(body.Ref)
	if err != nil {
		return NewError(req, errBody(err))
	}
	return NewSuccess(req, ReadSuccess{Value: v, Timestamp: time.Now()})
}

func (m *Manager) handleWrite(req Message) Message {
	body, ok := req.Body.(WriteRequest)
	if !ok {
		return NewError(req, ErrorBody{Code: merrors.MalformedModel, Message: "Variable.Write requires WriteRequest body"})
	}
	_, err := m.tree.Write(body.Ref, body.Value)
	if err != nil {
		return NewError(req, errBody(err))
	}
	return NewSuccess(req, WriteSuccess{})
}

func (m *Manager) handleSubscribe(req Message) Message {
	body, ok := req.Body.(SubscribeRequest)
	if !ok {
		return NewError(req, ErrorBody{Code: merrors.MalformedModel, Message: "Variable.Subscribe requires SubscribeRequest body"})
	}
	n, err := m.tree.Resolve(body.Ref)
	if err != nil {
		return NewError(req, errBody(err))
	}
	sv, ok := n.(subscribable)
	if !ok {
		return NewError(req, ErrorBody{Code: merrors.TypeMismatch, Message: "node is not subscribable"})
	}
	initial, err := sv.ReadValue()
	if err != nil {
		return NewError(req, errBody(err))
	}
	filter, err := buildFilter(body.Filter, initial)
	if err != nil {
		return NewError(req, errBody(err))
	}
	sub := sv.Subscriptions().Add(body.SubscriberID, body.CorrelationID, filter, func(notif subscription.Notification) {
		m.queue.push(NewEvent(m.self, notif.SubscriberID, EventBody{
			Ref:            tree.ByID(n.ID()),
			Value:          notif.Value,
			SubscriptionID: notif.SubscriptionID,
			Reason:         notif.Reason,
		}))
	})
	return NewSuccess(req, SubscribeSuccess{SubscriptionID: sub.ID})
}

func (m *Manager) handleUnsubscribe(req Message) Message {
	body, ok := req.Body.(UnsubscribeRequest)
	if !ok {
		return NewError(req, ErrorBody{Code: merrors.MalformedModel, Message: "Variable.Unsubscribe requires UnsubscribeRequest body"})
	}
	n, err := m.tree.Resolve(body.Ref)
	if err != nil {
		return NewError(req, errBody(err))
	}
	sv, ok := n.(subscribable)
	if !ok {
		return NewError(req, ErrorBody{Code: merrors.TypeMismatch, Message: "node is not subscribable"})
	}
	sv.Subscriptions().RemoveByHandle(body.SubscriptionID)
	return NewSuccess(req, UnsubscribeSuccess{})
}

func (m *Manager) handleCall(req Message) Message {
	body, ok := req.Body.(CallRequest)
	if !ok {
		return NewError(req, ErrorBody{Code: merrors.MalformedModel, Message: "Method.Call requires CallRequest body"})
	}
	n, err := m.tree.Resolve(body.Ref)
	if err != nil {
		return NewError(req, errBody(err))
	}
	switch method := n.(type) {
	case *tree.Method:
		returns, err := method.Invoke(body.Args)
		if err != nil {
			return NewError(req, errBody(err))
		}
		return NewSuccess(req, CallSuccess{Returns: returns})

	case *tree.AsyncMethod:
		ack, err := method.Invoke(body.Args)
		if err != nil {
			return NewError(req, errBody(err))
		}
		return NewSuccess(req, CallSuccess{Returns: []value.Value{ack}})

	case *tree.CompositeMethod:
		result := m.engine.Invoke(method, body.Args, body.Deadline)
		if result.Err != nil {
			return NewError(req, errBody(result.Err))
		}
		if result.Completed {
			return NewSuccess(req, CallSuccess{Returns: result.Values})
		}
		m.mu.Lock()
		m.pending[result.ScopeID] = pendingCall{OriginalID: req.ID, Sender: req.Target, Target: req.Sender}
		m.mu.Unlock()
		return NewAccepted(req, result.ScopeID)

	default:
		return NewError(req, ErrorBody{Code: merrors.TypeMismatch, Message: "node is not invocable"})
	}
}

// onCompletion is the composite.Engine CompletionHandler: it turns a
// scope's deferred outcome into a Success/Error message carrying the
// original Call's id and enqueues it for the next Outbound drain.
func (m *Manager) onCompletion(scopeID string, values []value.Value, err error) {
	m.mu.Lock()
	pc, ok := m.pending[scopeID]
	delete(m.pending, scopeID)
	m.mu.Unlock()
	if !ok {
		return
	}
	if err != nil {
		m.queue.push(NewDeferredError(pc.OriginalID, pc.Sender, pc.Target, errBody(err)))
		return
	}
	m.queue.push(NewDeferredSuccess(pc.OriginalID, pc.Sender, pc.Target, values))
}

func buildFilter(spec FilterSpec, initial value.Value) (subscription.Filter, error) {
	switch spec.Kind {
	case FilterAll:
		return subscription.NewAllFilter(), nil
	case FilterDataChange:
		if spec.Deadband < 0 {
			return nil, merrors.New(merrors.InvalidFilter, "Manager", "buildFilter", "deadband must be >= 0, got %g", spec.Deadband)
		}
		return subscription.NewDataChangeFilter(spec.Deadband, initial), nil
	case FilterRange:
		if spec.Low > spec.High {
			return nil, merrors.New(merrors.InvalidFilter, "Manager", "buildFilter", "range low %g exceeds high %g", spec.Low, spec.High)
		}
		return subscription.NewRangeFilter(spec.Low, spec.High, spec.Mode, initial), nil
	default:
		return nil, merrors.New(merrors.InvalidFilter, "Manager", "buildFilter", "unknown filter kind %v", spec.Kind)
	}
}

// Package testutil provides recording hooks, a recording subscriber, and
// tree-construction helpers shared by this module's package tests.
package testutil

import (
	"sync"

	"github.com/c360/machinemodel/subscription"
	"github.com/c360/machinemodel/value"
)

// RecordingSubscriber accumulates every subscription.Notification it
// receives, for assertion in tests that exercise Variable.Subscribe.
type RecordingSubscriber struct {
	mu            sync.Mutex
	Notifications []subscription.Notification
}

// NewRecordingSubscriber constructs an empty RecordingSubscriber.
func NewRecordingSubscriber() *RecordingSubscriber {
	return &RecordingSubscriber{}
}

// Callback is passed to subscription.List.Add.
func (r *RecordingSubscriber) Callback(n subscription.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications = append(r.Notifications, n)
}

// Count reports how many notifications have been recorded.
func (r *RecordingSubscriber) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Notifications)
}

// Values returns the recorded values in delivery order.
func (r *RecordingSubscriber) Values() []value.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]value.Value, len(r.Notifications))
	for i, n := range r.Notifications {
		out[i] = n.Value
	}
	return out
}

// RecordingHook is a tree.VariableHooks-compatible recorder: each field is
// a *Func that, if set, is invoked in addition to bumping its call
// counter.
type RecordingHook struct {
	mu sync.Mutex

	PreReadCalls    int
	PostReadCalls   int
	PreUpdateCalls  int
	PostUpdateCalls int

	PreReadFunc    func() error
	PostReadFunc   func(v value.Value) (value.Value, error)
	PreUpdateFunc  func(current, proposed value.Value) error
	PostUpdateFunc func(prev, next value.Value) error
}

func (h *RecordingHook) PreRead() error {
	h.mu.Lock()
	h.PreReadCalls++
	h.mu.Unlock()
	if h.PreReadFunc != nil {
		return h.PreReadFunc()
	}
	return nil
}

func (h *RecordingHook) PostRead(v value.Value) (value.Value, error) {
	h.mu.Lock()
	h.PostReadCalls++
	h.mu.Unlock()
	if h.PostReadFunc != nil {
		return h.PostReadFunc(v)
	}
	return v, nil
}

func (h *RecordingHook) PreUpdate(current, proposed value.Value) error {
	h.mu.Lock()
	h.PreUpdateCalls++
	h.mu.Unlock()
	if h.PreUpdateFunc != nil {
		return h.PreUpdateFunc(current, proposed)
	}
	return nil
}

func (h *RecordingHook) PostUpdate(prev, next value.Value) error {
	h.mu.Lock()
	h.PostUpdateCalls++
	h.mu.Unlock()
	if h.PostUpdateFunc != nil {
		return h.PostUpdateFunc(prev, next)
	}
	return nil
}

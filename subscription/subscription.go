package subscription

import (
	"sync"

	"github.com/google/uuid"

	"github.com/c360/machinemodel/value"
)

// Notification is what a subscriber's Callback receives when its filter
// fires.
type Notification struct {
	SubscriptionID string
	SubscriberID   string
	CorrelationID  string
	Value          value.Value
	Reason         EventReason
}

// Callback is the bound handler a Subscription notifies. It is synchronous
// and runs on the writer's notification pass.
type Callback func(Notification)

// Subscription is the (subscriber_id, filter, callback_binding) triple,
// plus a caller-supplied correlation id so a client can correlate a
// notification with the Variable.Subscribe call that produced it.
type Subscription struct {
	ID            string
	SubscriberID  string
	CorrelationID string
	Filter        Filter
	callback      Callback
	removed       bool
}

// newSubscription allocates a Subscription with a fresh handle.
func newSubscription(subscriberID, correlationID string, filter Filter, cb Callback) *Subscription {
	return &Subscription{
		ID:            uuid.NewString(),
		SubscriberID:  subscriberID,
		CorrelationID: correlationID,
		Filter:        filter,
		callback:      cb,
	}
}

// List is the ordered subscriber set attached to one variable. Subscribers
// are notified in subscribe order; a subscription added
// during a notification pass is not invoked until the next write, and an
// unsubscribe during a pass takes effect immediately for subsequent
// subscribers in that same pass.
type List struct {
	mu    sync.Mutex
	subs  []*Subscription
	byID  map[string]*Subscription
	byUID map[string][]*Subscription // subscriber_id -> subscriptions, for Unsubscribe-by-identity
}

// NewList constructs an empty subscription List.
func NewList() *List {
	return &List{
		byID:  make(map[string]*Subscription),
		byUID: make(map[string][]*Subscription),
	}
}

// Add registers a new subscription and returns its handle.
func (l *List) Add(subscriberID, correlationID string, filter Filter, cb Callback) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	sub := newSubscription(subscriberID, correlationID, filter, cb)
	l.subs = append(l.subs, sub)
	l.byID[sub.ID] = sub
	l.byUID[subscriberID] = append(l.byUID[subscriberID], sub)
	return sub
}

// RemoveByHandle removes a subscription by its handle. Removing a handle
// not present is a no-op.
func (l *List) RemoveByHandle(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(id)
}

// RemoveBySubscriber removes every subscription owned by subscriberID.
func (l *List) RemoveBySubscriber(subscriberID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	owned := append([]*Subscription(nil), l.byUID[subscriberID]...)
	for _, sub := range owned {
		l.removeLocked(sub.ID)
	}
}

func (l *List) removeLocked(id string) {
	sub, ok := l.byID[id]
	if !ok {
		return
	}
	sub.removed = true
	delete(l.byID, id)
	uidSubs := l.byUID[sub.SubscriberID]
	for i, s := range uidSubs {
		if s.ID == id {
			l.byUID[sub.SubscriberID] = append(uidSubs[:i], uidSubs[i+1:]...)
			break
		}
	}
	for i, s := range l.subs {
		if s.ID == id {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			break
		}
	}
}

// Len reports the number of live subscriptions.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// Notify evaluates every subscription live at the moment Notify was called
// against the prev->next transition, in subscribe order, invoking callbacks
// for those whose filter fires. Subscriptions added during this call (e.g.
// by a callback that subscribes anew) are excluded from this pass;
// subscriptions removed during this call are skipped for any position not
// yet reached.
func (l *List) Notify(prev, next value.Value) {
	l.mu.Lock()
	snapshot := make([]*Subscription, len(l.subs))
	copy(snapshot, l.subs)
	l.mu.Unlock()

	for _, sub := range snapshot {
		l.mu.Lock()
		removed := sub.removed
		l.mu.Unlock()
		if removed {
			continue
		}
		fire, reason := sub.Filter.Evaluate(prev, next)
		if !fire {
			continue
		}
		sub.callback(Notification{
			SubscriptionID: sub.ID,
			SubscriberID:   sub.SubscriberID,
			CorrelationID:  sub.CorrelationID,
			Value:          next,
			Reason:         reason,
		})
	}
}

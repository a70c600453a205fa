package protocol

import (
	"time"

	"github.com/c360/machinemodel/merrors"
	"github.com/c360/machinemodel/subscription"
	"github.com/c360/machinemodel/tree"
	"github.com/c360/machinemodel/value"
)

// Request bodies (Kind == Request).

type ReadRequest struct {
	Ref tree.NodeRef
}

type WriteRequest struct {
	Ref   tree.NodeRef
	Value value.Value
}

// FilterSpec describes a subscription filter across the wire, built into a
// concrete subscription.Filter by the manager (protocol clients don't
// construct subscription.Filter values directly).
type FilterSpec struct {
	Kind     FilterKind
	Deadband float64
	Low      float64
	High     float64
	Mode     subscription.RangeMode
}

type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterDataChange
	FilterRange
)

type SubscribeRequest struct {
	Ref           tree.NodeRef
	Filter        FilterSpec
	SubscriberID  string
	CorrelationID string
}

type UnsubscribeRequest struct {
	Ref            tree.NodeRef
	SubscriptionID string
}

type CallRequest struct {
	Ref      tree.NodeRef
	Args     []value.Value
	Deadline *time.Duration
}

// Response bodies (Kind == Success | Error | Accepted).

type ReadSuccess struct {
	Value     value.Value
	Timestamp time.Time
}

type WriteSuccess struct{}

type SubscribeSuccess struct {
	SubscriptionID string
}

type UnsubscribeSuccess struct{}

type CallSuccess struct {
	Returns []value.Value
}

type AcceptedBody struct {
	ScopeID string
}

type ErrorBody struct {
	Code    merrors.Code
	Message string
}

// EventBody is the payload of an unsolicited Event notification: the
// changed node, its new value, the firing subscription, and the
// classification reason.
type EventBody struct {
	Ref            tree.NodeRef
	Value          value.Value
	SubscriptionID string
	Reason         subscription.EventReason
}

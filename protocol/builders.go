package protocol

import (
	"github.com/google/uuid"

	"github.com/c360/machinemodel/value"
)

// Message builder helpers: fill in id/kind consistently instead of
// requiring every caller to populate a Message by hand.

// NewRequest builds a fresh Request message.
func NewRequest(sender, target string, ns Namespace, name Name, body any) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Target:    target,
		Kind:      Request,
		Namespace: ns,
		Name:      name,
		Body:      body,
	}
}

// NewSuccess builds a Success reply echoing the request's id.
func NewSuccess(req Message, body any) Message {
	return Message{
		ID:        req.ID,
		Sender:    req.Target,
		Target:    req.Sender,
		Kind:      Success,
		Namespace: req.Namespace,
		Name:      req.Name,
		Body:      body,
	}
}

// NewError builds an Error reply echoing the request's id.
func NewError(req Message, body ErrorBody) Message {
	return Message{
		ID:        req.ID,
		Sender:    req.Target,
		Target:    req.Sender,
		Kind:      Error,
		Namespace: req.Namespace,
		Name:      req.Name,
		Body:      body,
	}
}

// NewAccepted builds an Accepted reply for a suspended CompositeMethod
// call.
func NewAccepted(req Message, scopeID string) Message {
	return Message{
		ID:        req.ID,
		Sender:    req.Target,
		Target:    req.Sender,
		Kind:      Accepted,
		Namespace: req.Namespace,
		Name:      req.Name,
		Body:      AcceptedBody{ScopeID: scopeID},
	}
}

// NewDeferredSuccess builds the delayed Success reply for a previously
// Accepted composite call, carrying the original Call's id, not the
// Accepted reply's.
func NewDeferredSuccess(originalCallID, sender, target string, returns []value.Value) Message {
	return Message{
		ID: originalCallID, Sender: sender, Target: target,
		Kind: Success, Namespace: NamespaceMethod, Name: Call,
		Body: CallSuccess{Returns: returns},
	}
}

// NewDeferredError builds the delayed Error reply for a previously
// Accepted composite call that failed or was cancelled.
func NewDeferredError(originalCallID, sender, target string, body ErrorBody) Message {
	return Message{
		ID: originalCallID, Sender: sender, Target: target,
		Kind: Error, Namespace: NamespaceMethod, Name: Call,
		Body: body,
	}
}

// NewEvent builds a fresh unsolicited Event notification.
func NewEvent(sender, target string, body EventBody) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Target:    target,
		Kind:      Event,
		Namespace: NamespaceVariable,
		Name:      Read,
		Body:      body,
	}
}

// Package subscription implements the per-variable subscriber registry and
// its All/DataChange/Range filter variants.
package subscription

import "github.com/c360/machinemodel/value"

// EventReason tags why a notification fired, surfaced on outbound Event
// messages so a protocol client can filter its own handling without
// re-evaluating the filter.
type EventReason string

const (
	ReasonValueChanged EventReason = "value_changed"
	ReasonDataChange   EventReason = "data_change"
	ReasonOnEnter       EventReason = "on_enter"
	ReasonOnExit        EventReason = "on_exit"
)

// EventMask is a bitset of the event classes a Filter can produce, mirroring
// the original source's EventType IntFlag.
type EventMask uint8

const (
	EventNone EventMask = 0

	EventDataChange EventMask = 1 << (iota - 1)
	EventOnEnter
	EventOnExit
)

// EventAny is the union of every event class.
const EventAny = EventDataChange | EventOnEnter | EventOnExit

// Filter decides, for a variable transitioning from prev to next, whether a
// notification should fire and with what reason. Filters are stateful (they
// track last-reported value or last inside/outside status) and are NOT
// shared across subscriptions — each Subscription owns its own Filter
// instance.
type Filter interface {
	// Evaluate reports whether the transition prev->next should notify, and
	// the reason to tag the notification with.
	Evaluate(prev, next value.Value) (fire bool, reason EventReason)
	// EventTypes reports which event classes this filter can ever produce.
	EventTypes() EventMask
}

// AllFilter fires on every accepted write.
type AllFilter struct{}

// NewAllFilter constructs a Filter that notifies unconditionally.
func NewAllFilter() *AllFilter { return &AllFilter{} }

func (*AllFilter) Evaluate(_, _ value.Value) (bool, EventReason) {
	return true, ReasonValueChanged
}

func (*AllFilter) EventTypes() EventMask { return EventAny }

// DataChangeFilter fires when the new value differs from the last-reported
// value by more than deadband. For non-numeric values a nonzero deadband
// collapses to simple change detection, since no arithmetic distance
// exists for those types (see DESIGN.md Open Question decision 4).
type DataChangeFilter struct {
	Deadband     float64
	lastReported value.Value
	hasReported  bool
}

// NewDataChangeFilter constructs a DataChangeFilter whose last-reported
// value starts at initial, the value at subscription time.
func NewDataChangeFilter(deadband float64, initial value.Value) *DataChangeFilter {
	return &DataChangeFilter{Deadband: deadband, lastReported: initial, hasReported: true}
}

func (f *DataChangeFilter) Evaluate(_, next value.Value) (bool, EventReason) {
	if !f.hasReported {
		f.lastReported = next
		f.hasReported = true
		return true, ReasonDataChange
	}
	if n, ok := next.AsNumber(); ok {
		last, _ := f.lastReported.AsNumber()
		diff := n - last
		if diff < 0 {
			diff = -diff
		}
		if diff > f.Deadband {
			f.lastReported = next
			return true, ReasonDataChange
		}
		return false, ReasonDataChange
	}
	// Non-numeric: deadband collapses to plain change detection.
	if !f.lastReported.Equal(next) {
		f.lastReported = next
		return true, ReasonDataChange
	}
	return false, ReasonDataChange
}

func (*DataChangeFilter) EventTypes() EventMask { return EventDataChange }

// RangeMode selects which boundary transitions a RangeFilter fires on.
type RangeMode int

const (
	OnEnter RangeMode = iota
	OnExit
	OnBoth
)

// RangeFilter fires on transitions across the half-open boundary [low, high)
// according to Mode; interior-to-interior updates never fire.
type RangeFilter struct {
	Low, High float64
	Mode      RangeMode
	wasInside bool
	primed    bool
}

// NewRangeFilter constructs a RangeFilter primed with the value at
// subscription time so the first write is evaluated as a genuine
// transition, not a spurious enter/exit.
func NewRangeFilter(low, high float64, mode RangeMode, initial value.Value) *RangeFilter {
	f := &RangeFilter{Low: low, High: high, Mode: mode}
	if n, ok := initial.AsNumber(); ok {
		f.wasInside = n >= low && n < high
		f.primed = true
	}
	return f
}

func (f *RangeFilter) inside(n float64) bool { return n >= f.Low && n < f.High }

func (f *RangeFilter) Evaluate(_, next value.Value) (bool, EventReason) {
	n, ok := next.AsNumber()
	if !ok {
		return false, ReasonOnEnter
	}
	nowInside := f.inside(n)
	if !f.primed {
		f.wasInside = nowInside
		f.primed = true
		return false, ReasonOnEnter
	}
	defer func() { f.wasInside = nowInside }()

	switch {
	case !f.wasInside && nowInside:
		if f.Mode == OnEnter || f.Mode == OnBoth {
			return true, ReasonOnEnter
		}
	case f.wasInside && !nowInside:
		if f.Mode == OnExit || f.Mode == OnBoth {
			return true, ReasonOnExit
		}
	}
	return false, ReasonOnEnter
}

func (f *RangeFilter) EventTypes() EventMask {
	switch f.Mode {
	case OnEnter:
		return EventOnEnter
	case OnExit:
		return EventOnExit
	default:
		return EventOnEnter | EventOnExit
	}
}

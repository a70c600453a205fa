package subscription_test

import (
	"testing"

	"github.com/c360/machinemodel/subscription"
	"github.com/c360/machinemodel/value"
)

func TestAllFilterAlwaysFires(t *testing.T) {
	f := subscription.NewAllFilter()
	fire, reason := f.Evaluate(value.Number(1), value.Number(1))
	if !fire {
		t.Fatal("AllFilter did not fire on an unchanged value")
	}
	if reason != subscription.ReasonValueChanged {
		t.Fatalf("reason = %v, want %v", reason, subscription.ReasonValueChanged)
	}
}

func TestDataChangeFilterDeadband(t *testing.T) {
	f := subscription.NewDataChangeFilter(1.0, value.Number(10))

	tests := []struct {
		next     float64
		wantFire bool
	}{
		{10.5, false}, // within deadband of last reported (10)
		{11.5, true},  // exceeds deadband, becomes new baseline
		{11.6, false}, // within deadband of new baseline (11.5)
		{13.0, true},  // exceeds deadband of 11.5
	}
	for _, tt := range tests {
		fire, _ := f.Evaluate(value.Number(0), value.Number(tt.next))
		if fire != tt.wantFire {
			t.Fatalf("Evaluate(next=%g) fire = %v, want %v", tt.next, fire, tt.wantFire)
		}
	}
}

func TestDataChangeFilterNonNumericIsPlainChangeDetection(t *testing.T) {
	f := subscription.NewDataChangeFilter(5, value.String("idle"))

	if fire, _ := f.Evaluate(value.Value{}, value.String("idle")); fire {
		t.Fatal("unchanged string fired a DataChange notification")
	}
	if fire, _ := f.Evaluate(value.Value{}, value.String("running")); !fire {
		t.Fatal("changed string did not fire a DataChange notification")
	}
}

func TestRangeFilterOnEnterOnExit(t *testing.T) {
	f := subscription.NewRangeFilter(10, 20, subscription.OnBoth, value.Number(5))

	fire, reason := f.Evaluate(value.Value{}, value.Number(15))
	if !fire || reason != subscription.ReasonOnEnter {
		t.Fatalf("entering range: fire=%v reason=%v, want fire=true reason=%v", fire, reason, subscription.ReasonOnEnter)
	}

	fire, _ = f.Evaluate(value.Value{}, value.Number(18))
	if fire {
		t.Fatal("interior-to-interior transition fired")
	}

	fire, reason = f.Evaluate(value.Value{}, value.Number(25))
	if !fire || reason != subscription.ReasonOnExit {
		t.Fatalf("exiting range: fire=%v reason=%v, want fire=true reason=%v", fire, reason, subscription.ReasonOnExit)
	}
}

func TestRangeFilterModeRestrictsFiring(t *testing.T) {
	f := subscription.NewRangeFilter(10, 20, subscription.OnEnter, value.Number(5))

	if fire, _ := f.Evaluate(value.Value{}, value.Number(15)); !fire {
		t.Fatal("OnEnter mode did not fire on entering the range")
	}
	if fire, _ := f.Evaluate(value.Value{}, value.Number(25)); fire {
		t.Fatal("OnEnter mode fired on exiting the range")
	}
}

func TestRangeFilterHalfOpenBoundary(t *testing.T) {
	f := subscription.NewRangeFilter(10, 20, subscription.OnBoth, value.Number(15))
	// The upper bound itself is outside the range: [10, 20).
	if fire, reason := f.Evaluate(value.Value{}, value.Number(20)); !fire || reason != subscription.ReasonOnExit {
		t.Fatalf("value at upper bound: fire=%v reason=%v, want exit", fire, reason)
	}
}

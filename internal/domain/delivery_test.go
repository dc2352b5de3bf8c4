package domain

import "testing"

func TestCanTransitionDelivery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to DeliveryState
		want     bool
	}{
		{DeliveryStatePending, DeliveryStateAssigned, true},
		{DeliveryStateAssigned, DeliveryStateInProgress, true},
		{DeliveryStateInProgress, DeliveryStateDelivered, true},
		{DeliveryStatePending, DeliveryStateCancelled, true},
		{DeliveryStateAssigned, DeliveryStateCancelled, true},
		{DeliveryStateInProgress, DeliveryStateCancelled, true},
		{DeliveryStatePending, DeliveryStateInProgress, false},
		{DeliveryStatePending, DeliveryStateDelivered, false},
		{DeliveryStateDelivered, DeliveryStateCancelled, false},
		{DeliveryStateCancelled, DeliveryStatePending, false},
		{DeliveryStateDelivered, DeliveryStateInProgress, false},
	}

	for _, tc := range cases {
		if got := CanTransitionDelivery(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionDelivery(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseDeliveryState(t *testing.T) {
	t.Parallel()

	if _, err := ParseDeliveryState("IN_PROGRESS"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseDeliveryState("SHIPPED"); err == nil {
		t.Error("expected unknown state to fail")
	}
}

func TestDeliveryHasRider(t *testing.T) {
	t.Parallel()

	d := Delivery{}
	if d.HasRider() {
		t.Error("expected no rider on fresh delivery")
	}
	d.RiderID = 7
	if !d.HasRider() {
		t.Error("expected rider after assignment")
	}
}

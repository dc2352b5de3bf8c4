package domain

import (
	"fmt"
	"time"
)

// DeliveryState represents the courier-facing state of a delivery.
type DeliveryState string

const (
	DeliveryStatePending    DeliveryState = "PENDING"
	DeliveryStateAssigned   DeliveryState = "ASSIGNED"
	DeliveryStateInProgress DeliveryState = "IN_PROGRESS"
	DeliveryStateDelivered  DeliveryState = "DELIVERED"
	DeliveryStateCancelled  DeliveryState = "CANCELLED"
)

// ParseDeliveryState maps a string to a known delivery state.
func ParseDeliveryState(s string) (DeliveryState, error) {
	switch DeliveryState(s) {
	case DeliveryStatePending, DeliveryStateAssigned, DeliveryStateInProgress,
		DeliveryStateDelivered, DeliveryStateCancelled:
		return DeliveryState(s), nil
	}
	return "", fmt.Errorf("unknown delivery state %q", s)
}

// deliveryTransitions holds the legal forward moves for a delivery.
// CANCELLED is reachable from any non-terminal state.
var deliveryTransitions = map[DeliveryState][]DeliveryState{
	DeliveryStatePending:    {DeliveryStateAssigned, DeliveryStateCancelled},
	DeliveryStateAssigned:   {DeliveryStateInProgress, DeliveryStateCancelled},
	DeliveryStateInProgress: {DeliveryStateDelivered, DeliveryStateCancelled},
	DeliveryStateDelivered:  {},
	DeliveryStateCancelled:  {},
}

// CanTransitionDelivery reports whether a delivery may move from one state to another.
func CanTransitionDelivery(from, to DeliveryState) bool {
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Delivery represents one package in transit. The rider reference is absent
// until the delivery is dispatched.
type Delivery struct {
	ID             int64
	ClientID       int64
	RiderID        int64 // 0 until a rider is assigned
	PackageName    string
	ReceptorName   string
	ReceptorNumber string
	Address        string
	State          DeliveryState
	TotalAmount    float64
	CreatedAt      time.Time
	DeliveryDate   time.Time // zero until delivered
}

// HasRider reports whether a rider has been assigned.
func (d *Delivery) HasRider() bool {
	return d.RiderID != 0
}

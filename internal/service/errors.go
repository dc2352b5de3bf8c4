package service

import "errors"

var (
	// ErrInvalidRiderID is returned when rider ID is missing or non-positive.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidClientID is returned when client ID is missing or non-positive.
	ErrInvalidClientID = errors.New("invalid client id")

	// ErrInvalidDeliveryID is returned when delivery ID is missing or non-positive.
	ErrInvalidDeliveryID = errors.New("invalid delivery id")

	// ErrInvalidPaymentID is returned when payment ID is missing or non-positive.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrNoPaymentIDs is returned when a batch operation receives an empty id list.
	ErrNoPaymentIDs = errors.New("at least one payment id is required")

	// ErrPaymentSetMismatch is returned when some of the requested payment ids
	// do not exist or belong to a different party. The whole batch is rejected.
	ErrPaymentSetMismatch = errors.New("some payments do not exist or belong to a different party")

	// ErrInvalidPaymentType is returned when a collection type cannot be used
	// for the requested operation.
	ErrInvalidPaymentType = errors.New("invalid payment type")

	// ErrInvalidAmount is returned when a monetary amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNegativeSpread is returned when rider and coop cuts exceed the total.
	ErrNegativeSpread = errors.New("rider and coop amounts exceed total amount")

	// ErrSettlementInProgress is returned when another settlement batch holds
	// the party's lock.
	ErrSettlementInProgress = errors.New("a settlement for this party is already in progress")

	// ErrDeliveryHasRider is returned when assigning a rider to a delivery
	// that already has one.
	ErrDeliveryHasRider = errors.New("delivery already has a rider")

	// ErrInvalidStateTransition is returned when a delivery state change is
	// not part of the legal flow.
	ErrInvalidStateTransition = errors.New("invalid delivery state transition")
)

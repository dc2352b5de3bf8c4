package domain

import (
	"fmt"
	"time"
)

// PaymentType represents how the client's money was physically collected.
type PaymentType string

const (
	PaymentTypePending  PaymentType = "PENDING"
	PaymentTypeCash     PaymentType = "CASH"
	PaymentTypeTransfer PaymentType = "TRANSFER"
)

// ParsePaymentType maps a string to a known payment type.
func ParsePaymentType(s string) (PaymentType, error) {
	switch PaymentType(s) {
	case PaymentTypePending, PaymentTypeCash, PaymentTypeTransfer:
		return PaymentType(s), nil
	}
	return "", fmt.Errorf("unknown payment type %q", s)
}

// PaymentStatus tracks who currently physically holds the client's money.
type PaymentStatus string

const (
	PaymentStatusCourier                PaymentStatus = "COURIER"
	PaymentStatusOffice                 PaymentStatus = "OFFICE"
	PaymentStatusOfficeReceivedTransfer PaymentStatus = "OFFICE_RECEIVED_TRANSFER"
	PaymentStatusClient                 PaymentStatus = "CLIENT"
	PaymentStatusClientReceivedTransfer PaymentStatus = "CLIENT_RECEIVED_TRANSFER"
)

// ParsePaymentStatus maps a string to a known payment status.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusCourier, PaymentStatusOffice, PaymentStatusOfficeReceivedTransfer,
		PaymentStatusClient, PaymentStatusClientReceivedTransfer:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// SettlementStatus tracks reconciliation of the rider's share.
type SettlementStatus string

const (
	SettlementStatusPending             SettlementStatus = "PENDING"
	SettlementStatusCleared             SettlementStatus = "CLEARED"
	SettlementStatusSettled             SettlementStatus = "SETTLED"
	SettlementStatusTransferToOffice    SettlementStatus = "TRANSFER_TO_OFFICE"
	SettlementStatusTransferredToClient SettlementStatus = "TRANSFERRED_TO_CLIENT"
)

// ParseSettlementStatus maps a string to a known settlement status.
func ParseSettlementStatus(s string) (SettlementStatus, error) {
	switch SettlementStatus(s) {
	case SettlementStatusPending, SettlementStatusCleared, SettlementStatusSettled,
		SettlementStatusTransferToOffice, SettlementStatusTransferredToClient:
		return SettlementStatus(s), nil
	}
	return "", fmt.Errorf("unknown settlement status %q", s)
}

// ClientSettlementStatus tracks reconciliation of the client's net balance,
// independent of the other two status axes.
type ClientSettlementStatus string

const (
	ClientSettlementPending ClientSettlementStatus = "PENDING"
	ClientSettlementSettled ClientSettlementStatus = "SETTLED"
)

// ParseClientSettlementStatus maps a string to a known client settlement status.
func ParseClientSettlementStatus(s string) (ClientSettlementStatus, error) {
	switch ClientSettlementStatus(s) {
	case ClientSettlementPending, ClientSettlementSettled:
		return ClientSettlementStatus(s), nil
	}
	return "", fmt.Errorf("unknown client settlement status %q", s)
}

// Intended custody chains. Field patches may still set any value; these maps
// document the legal flow so validation and tests can be layered on.
var paymentStatusTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusCourier: {PaymentStatusOffice, PaymentStatusClient},
	PaymentStatusOffice:  {PaymentStatusOfficeReceivedTransfer},
	PaymentStatusClient:  {PaymentStatusClientReceivedTransfer},
}

var settlementTransitions = map[SettlementStatus][]SettlementStatus{
	SettlementStatusPending: {
		SettlementStatusCleared,
		SettlementStatusTransferToOffice,
		SettlementStatusTransferredToClient,
	},
	SettlementStatusCleared:             {SettlementStatusSettled},
	SettlementStatusTransferToOffice:    {SettlementStatusSettled},
	SettlementStatusTransferredToClient: {SettlementStatusSettled},
}

// CanTransitionPaymentStatus reports whether the custody chain allows the move.
func CanTransitionPaymentStatus(from, to PaymentStatus) bool {
	for _, next := range paymentStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionSettlement reports whether the rider-leg reconciliation allows the move.
func CanTransitionSettlement(from, to SettlementStatus) bool {
	for _, next := range settlementTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionClientSettlement reports whether the client-leg reconciliation allows the move.
func CanTransitionClientSettlement(from, to ClientSettlementStatus) bool {
	return from == ClientSettlementPending && to == ClientSettlementSettled
}

// Payment is the one-to-one money companion of a Delivery: the three-way
// split between client, rider and the cooperative, plus the three
// independent reconciliation axes.
type Payment struct {
	ID                     int64
	DeliveryID             int64
	TotalAmount            float64
	RiderAmount            float64
	CoopAmount             float64
	PaymentType            PaymentType
	PaymentStatus          PaymentStatus
	SettlementStatus       SettlementStatus
	ClientSettlementStatus ClientSettlementStatus
	PaymentReference       string
	Comments               string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Spread is the remainder the office and client settle between themselves.
func (p *Payment) Spread() float64 {
	return p.TotalAmount - p.RiderAmount - p.CoopAmount
}

// WellFormed reports whether the three-way split does not exceed the total.
// A negative spread is a data-integrity violation.
func (p *Payment) WellFormed() bool {
	return p.RiderAmount >= 0 && p.CoopAmount >= 0 && p.Spread() >= 0
}

package domain

import "time"

// OrderStatus is the delivery outcome of a bundle purchase.
type OrderStatus string

const (
	// OrderStatusPending marks an order claimed before the provider is called.
	// A pending order is never delivered again; it is settled or reconciled by an operator.
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusDeliveryFailed OrderStatus = "delivery_failed"
)

// IsSettled reports whether the delivery outcome is known.
func (s OrderStatus) IsSettled() bool {
	return s == OrderStatusDelivered || s == OrderStatusDeliveryFailed
}

// BundleOrder links a successful purchase entry to its delivery attempt.
type BundleOrder struct {
	OrderID         string      `json:"orderID"`
	AccountID       string      `json:"accountID"`
	EntryID         string      `json:"entryID"`
	PackageID       string      `json:"packageID"`
	RecipientMsisdn string      `json:"recipientMsisdn"`
	NetworkID       int         `json:"networkID"`
	SharedBundle    int         `json:"sharedBundle"`
	Amount          int64       `json:"amount"`
	Status          OrderStatus `json:"status"`
	ExternalCode    string      `json:"externalCode,omitempty"`
	Message         string      `json:"message,omitempty"`
	RefundEntryID   string      `json:"refundEntryID,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// DeliveryRequest is what the bundle provider needs to provision a bundle.
type DeliveryRequest struct {
	RecipientMsisdn string
	NetworkID       int
	SharedBundle    int
}

// DeliveryResult is the provider's answer to a DeliveryRequest.
type DeliveryResult struct {
	Success         bool
	TransactionCode string
	Message         string
}

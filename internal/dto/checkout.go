package dto

import (
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/utils"
)

// MaxCartItems bounds a single checkout.
const MaxCartItems = 20

// CheckoutItemRequest is one cart line as sent by the client.
type CheckoutItemRequest struct {
	ItemID          string `json:"itemID" binding:"required,max=64"`
	PackageID       string `json:"packageID" binding:"required"`
	RecipientMsisdn string `json:"recipientMsisdn" binding:"required,max=32"`
}

// CheckoutRequest defines the cart to purchase. The same IdempotencyKey must be
// reused when retrying a checkout whose outcome is unknown.
type CheckoutRequest struct {
	IdempotencyKey string                `json:"idempotencyKey" binding:"omitempty,max=64"`
	Items          []CheckoutItemRequest `json:"items" binding:"required,min=1,max=20,dive"`
}

// ToDomainItems converts the request lines.
func (r CheckoutRequest) ToDomainItems() []domain.CheckoutItem {
	items := make([]domain.CheckoutItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = domain.CheckoutItem{ItemID: it.ItemID, PackageID: it.PackageID, RecipientMsisdn: it.RecipientMsisdn}
	}
	return items
}

// OrderResponse defines the data returned for a bundle order.
type OrderResponse struct {
	OrderID         string             `json:"orderID"`
	EntryID         string             `json:"entryID"`
	PackageID       string             `json:"packageID"`
	RecipientMsisdn string             `json:"recipientMsisdn"`
	NetworkID       int                `json:"networkID"`
	Amount          int64              `json:"amount"`
	AmountGHS       string             `json:"amountGhs"`
	Status          domain.OrderStatus `json:"status"`
	ExternalCode    string             `json:"externalCode,omitempty"`
	Message         string             `json:"message,omitempty"`
	RefundEntryID   string             `json:"refundEntryID,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// ToOrderResponse converts a domain.BundleOrder to OrderResponse DTO
func ToOrderResponse(o *domain.BundleOrder) OrderResponse {
	return OrderResponse{
		OrderID:         o.OrderID,
		EntryID:         o.EntryID,
		PackageID:       o.PackageID,
		RecipientMsisdn: o.RecipientMsisdn,
		NetworkID:       o.NetworkID,
		Amount:          o.Amount,
		AmountGHS:       utils.FormatPesewas(o.Amount),
		Status:          o.Status,
		ExternalCode:    o.ExternalCode,
		Message:         o.Message,
		RefundEntryID:   o.RefundEntryID,
		CreatedAt:       o.CreatedAt,
	}
}

// ListOrdersParams defines query parameters for listing orders.
type ListOrdersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ItemSuccessResponse is a purchased item in a checkout summary.
type ItemSuccessResponse struct {
	ItemID string        `json:"itemID"`
	Entry  EntryResponse `json:"entry"`
	Order  OrderResponse `json:"order"`
}

// ItemFailureResponse is the item that stopped a checkout.
type ItemFailureResponse struct {
	ItemID string               `json:"itemID"`
	Reason domain.FailureReason `json:"reason"`
	Error  string               `json:"error"`
	Entry  *EntryResponse       `json:"entry,omitempty"`
	Refund *EntryResponse       `json:"refund,omitempty"`
	Order  *OrderResponse       `json:"order,omitempty"`
}

// CheckoutResponse summarises a checkout run.
type CheckoutResponse struct {
	IdempotencyKey string                `json:"idempotencyKey"`
	State          domain.CheckoutState  `json:"state"`
	Succeeded      []ItemSuccessResponse `json:"succeeded"`
	Failure        *ItemFailureResponse  `json:"failure,omitempty"`
	Remaining      []string              `json:"remaining"`
}

// ToCheckoutResponse converts a domain.CheckoutResult to CheckoutResponse DTO
func ToCheckoutResponse(idempotencyKey string, r *domain.CheckoutResult) CheckoutResponse {
	res := CheckoutResponse{
		IdempotencyKey: idempotencyKey,
		State:          r.State,
		Succeeded:      make([]ItemSuccessResponse, len(r.Succeeded)),
		Remaining:      r.Remaining,
	}
	if res.Remaining == nil {
		res.Remaining = []string{}
	}
	for i := range r.Succeeded {
		s := &r.Succeeded[i]
		res.Succeeded[i] = ItemSuccessResponse{
			ItemID: s.ItemID,
			Entry:  ToEntryResponse(&s.Entry),
			Order:  ToOrderResponse(&s.Order),
		}
	}
	if f := r.Failure; f != nil {
		fr := &ItemFailureResponse{ItemID: f.ItemID, Reason: f.Reason, Error: f.Error}
		if f.Entry != nil {
			e := ToEntryResponse(f.Entry)
			fr.Entry = &e
		}
		if f.Refund != nil {
			e := ToEntryResponse(f.Refund)
			fr.Refund = &e
		}
		if f.Order != nil {
			o := ToOrderResponse(f.Order)
			fr.Order = &o
		}
		res.Failure = fr
	}
	return res
}

package mapping

import (
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/models"
)

// ToModelBundleOrder converts a domain BundleOrder to its row form.
func ToModelBundleOrder(d domain.BundleOrder) models.BundleOrder {
	return models.BundleOrder{
		OrderID:         d.OrderID,
		AccountID:       d.AccountID,
		EntryID:         d.EntryID,
		PackageID:       d.PackageID,
		RecipientMsisdn: d.RecipientMsisdn,
		NetworkID:       d.NetworkID,
		SharedBundle:    d.SharedBundle,
		Amount:          d.Amount,
		Status:          string(d.Status),
		ExternalCode:    NullString(d.ExternalCode),
		Message:         d.Message,
		RefundEntryID:   NullString(d.RefundEntryID),
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainBundleOrder converts a bundle_orders row to a domain BundleOrder.
func ToDomainBundleOrder(m models.BundleOrder) domain.BundleOrder {
	return domain.BundleOrder{
		OrderID:         m.OrderID,
		AccountID:       m.AccountID,
		EntryID:         m.EntryID,
		PackageID:       m.PackageID,
		RecipientMsisdn: m.RecipientMsisdn,
		NetworkID:       m.NetworkID,
		SharedBundle:    m.SharedBundle,
		Amount:          m.Amount,
		Status:          domain.OrderStatus(m.Status),
		ExternalCode:    m.ExternalCode.String,
		Message:         m.Message,
		RefundEntryID:   m.RefundEntryID.String,
		CreatedAt:       m.CreatedAt,
	}
}

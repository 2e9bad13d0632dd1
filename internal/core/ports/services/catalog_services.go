package services

import (
	"context"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// CatalogSvcFacade exposes the bundle catalog and network detection.
type CatalogSvcFacade interface {
	ListNetworks(ctx context.Context) []domain.Network
	// ListPackages returns all packages, or only those for networkID when it is non-zero.
	ListPackages(ctx context.Context, networkID int) ([]domain.BundlePackage, error)
	GetPackage(ctx context.Context, packageID string) (*domain.BundlePackage, error)
	// DetectNetwork normalises phone and returns it with its operator.
	DetectNetwork(ctx context.Context, phone string) (string, *domain.Network, error)
}

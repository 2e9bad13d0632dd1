package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
)

type catalogService struct {
	packages []domain.BundlePackage
	byID     map[string]domain.BundlePackage
}

// NewCatalogService serves the given packages. A nil slice means the built-in catalog.
func NewCatalogService(packages []domain.BundlePackage) portssvc.CatalogSvcFacade {
	if packages == nil {
		packages = domain.DefaultCatalog()
	}
	byID := make(map[string]domain.BundlePackage, len(packages))
	for _, p := range packages {
		byID[p.ID] = p
	}
	return &catalogService{packages: packages, byID: byID}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) ListNetworks(ctx context.Context) []domain.Network {
	networks := make([]domain.Network, len(domain.Networks))
	copy(networks, domain.Networks)
	return networks
}

func (s *catalogService) ListPackages(ctx context.Context, networkID int) ([]domain.BundlePackage, error) {
	if networkID != 0 {
		if _, ok := domain.NetworkByID(networkID); !ok {
			return nil, fmt.Errorf("%w: unknown network %d", apperrors.ErrValidation, networkID)
		}
	}
	result := make([]domain.BundlePackage, 0, len(s.packages))
	for _, p := range s.packages {
		if networkID == 0 || p.NetworkID == networkID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *catalogService) GetPackage(ctx context.Context, packageID string) (*domain.BundlePackage, error) {
	p, ok := s.byID[packageID]
	if !ok {
		return nil, fmt.Errorf("package %q: %w", packageID, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (s *catalogService) DetectNetwork(ctx context.Context, phone string) (string, *domain.Network, error) {
	normalized := domain.NormalizePhoneNumber(phone)
	if !domain.IsValidPhoneNumber(normalized) {
		return normalized, nil, fmt.Errorf("%w: invalid Ghana phone number", apperrors.ErrValidation)
	}
	network, ok := domain.DetectNetwork(normalized)
	if !ok {
		return normalized, nil, fmt.Errorf("%w: unsupported network prefix", apperrors.ErrValidation)
	}
	return normalized, &network, nil
}

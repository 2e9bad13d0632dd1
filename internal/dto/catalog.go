package dto

import (
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/utils"
)

// PackageResponse defines the data returned for a bundle package.
type PackageResponse struct {
	ID         string `json:"id"`
	NetworkID  int    `json:"networkID"`
	Name       string `json:"name"`
	DataAmount string `json:"dataAmount"`
	Validity   string `json:"validity"`
	Price      int64  `json:"price"`
	PriceGHS   string `json:"priceGhs"`
}

// ToPackageResponse converts a domain.BundlePackage to PackageResponse DTO.
// The provider's bundle id stays server-side.
func ToPackageResponse(p *domain.BundlePackage) PackageResponse {
	return PackageResponse{
		ID:         p.ID,
		NetworkID:  p.NetworkID,
		Name:       p.Name,
		DataAmount: p.DataAmount,
		Validity:   p.Validity,
		Price:      p.Price,
		PriceGHS:   utils.FormatPesewas(p.Price),
	}
}

// ToPackageResponses converts a slice of packages.
func ToPackageResponses(pkgs []domain.BundlePackage) []PackageResponse {
	res := make([]PackageResponse, len(pkgs))
	for i := range pkgs {
		res[i] = ToPackageResponse(&pkgs[i])
	}
	return res
}

// ListPackagesParams defines query parameters for listing packages.
type ListPackagesParams struct {
	NetworkID int `form:"networkId" binding:"omitempty,oneof=1 2 3"`
}

// DetectNetworkParams defines query parameters for network detection.
type DetectNetworkParams struct {
	Phone string `form:"phone" binding:"required"`
}

// DetectNetworkResponse is the normalised number and its operator.
type DetectNetworkResponse struct {
	Phone   string          `json:"phone"`
	Network *domain.Network `json:"network"`
}

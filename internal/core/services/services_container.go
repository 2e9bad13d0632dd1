package services

import (
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/platform/config"
)

// Integrations holds the clients for systems outside this service.
type Integrations struct {
	Gateway   portssvc.PaymentGateway
	Deliverer portssvc.BundleDeliverer
	// Publisher may be nil, in which case no ledger events are emitted.
	Publisher portssvc.LedgerEventPublisher
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, integrations Integrations) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	var ledgerOptions []LedgerOption
	if integrations.Publisher != nil {
		ledgerOptions = append(ledgerOptions, WithEventPublisher(integrations.Publisher))
	}
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.LedgerRepo, ledgerOptions...)
	container.Catalog = NewCatalogService(nil)
	container.Checkout = NewCheckoutService(
		container.Ledger,
		container.Catalog,
		repos.OrderRepo,
		integrations.Deliverer,
		cfg.RefundOnDeliveryFailure,
	)
	container.Deposit = NewDepositService(container.Ledger, integrations.Gateway, repos.UserRepo)

	container.User = NewUserService(repos.UserRepo, cfg.RefreshTokenSecret)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)
	container.Admin = NewAdminService(repos.UserRepo, repos.LedgerRepo, repos.ReportingRepo, cfg.IsAdminEmail)

	return container
}

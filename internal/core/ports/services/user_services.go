package services

import (
	"context"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
)

// UserReaderSvc defines read operations for users.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriterSvc defines write operations for users.
type UserWriterSvc interface {
	// Register creates a local user and their wallet.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	// CreateOAuthUser returns the existing user for the external identity or email, creating one if needed.
	CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProvider, providerUserID string, emailVerified bool) (*domain.User, error)
	SaveRefreshToken(ctx context.Context, userID string, rawToken string, expiry time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserAuthSvc verifies local credentials.
type UserAuthSvc interface {
	// Authenticate returns apperrors.ErrUnauthorized for unknown emails and bad passwords alike.
	Authenticate(ctx context.Context, email string, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}

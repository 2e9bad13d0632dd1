package mapping

import (
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/models"
)

// ToModelUser converts a domain User to its row form.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:                 d.UserID,
		Email:                  d.Email,
		Name:                   d.Name,
		Phone:                  NullString(d.Phone),
		PasswordHash:           d.PasswordHash,
		AuthProvider:           string(d.AuthProvider),
		ProviderUserID:         NullString(d.ProviderUserID),
		EmailVerified:          d.EmailVerified,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
		RefreshTokenHash:       NullString(d.RefreshTokenHash),
		RefreshTokenExpiryTime: NullTime(d.RefreshTokenExpiryTime),
	}
}

// ToDomainUser converts a users row to a domain User.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:                 m.UserID,
		Email:                  m.Email,
		Name:                   m.Name,
		Phone:                  m.Phone.String,
		PasswordHash:           m.PasswordHash,
		AuthProvider:           domain.AuthProvider(m.AuthProvider),
		ProviderUserID:         m.ProviderUserID.String,
		EmailVerified:          m.EmailVerified,
		Timestamps:             domain.Timestamps{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		RefreshTokenHash:       m.RefreshTokenHash.String,
		RefreshTokenExpiryTime: TimePtr(m.RefreshTokenExpiryTime),
	}
}

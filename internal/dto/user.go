package dto

import (
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// UserResponse defines the public view of a user.
type UserResponse struct {
	UserID        string              `json:"userID"`
	Email         string              `json:"email"`
	Name          string              `json:"name"`
	Phone         string              `json:"phone,omitempty"`
	AuthProvider  domain.AuthProvider `json:"authProvider"`
	EmailVerified bool                `json:"emailVerified"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Email:         u.Email,
		Name:          u.Name,
		Phone:         u.Phone,
		AuthProvider:  u.AuthProvider,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// ProfileResponse is the signed-in user with their wallet.
type ProfileResponse struct {
	User    UserResponse   `json:"user"`
	Wallet  WalletResponse `json:"wallet"`
	IsAdmin bool           `json:"isAdmin"`
}

package dto

import (
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/utils"
)

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// UserBalanceResponse is a user row on the admin dashboard.
type UserBalanceResponse struct {
	UserResponse
	Balance    int64  `json:"balance"`
	BalanceGHS string `json:"balanceGhs"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserBalanceResponse `json:"users"`
}

// ToListUsersResponse converts admin user rows.
func ToListUsersResponse(users []domain.UserBalance) ListUsersResponse {
	res := ListUsersResponse{Users: make([]UserBalanceResponse, len(users))}
	for i := range users {
		res.Users[i] = UserBalanceResponse{
			UserResponse: ToUserResponse(&users[i].User),
			Balance:      users[i].Balance,
			BalanceGHS:   utils.FormatPesewas(users[i].Balance),
		}
	}
	return res
}

// StatsResponse is the admin dashboard summary.
type StatsResponse struct {
	domain.PlatformStats
	TotalBalancesGHS  string `json:"totalBalancesGhs"`
	TotalDepositsGHS  string `json:"totalDepositsGhs"`
	TotalPurchasesGHS string `json:"totalPurchasesGhs"`
	TotalRefundsGHS   string `json:"totalRefundsGhs"`
}

// ToStatsResponse converts domain.PlatformStats to StatsResponse DTO
func ToStatsResponse(s *domain.PlatformStats) StatsResponse {
	return StatsResponse{
		PlatformStats:     *s,
		TotalBalancesGHS:  utils.FormatPesewas(s.TotalBalances),
		TotalDepositsGHS:  utils.FormatPesewas(s.TotalDeposits),
		TotalPurchasesGHS: utils.FormatPesewas(s.TotalPurchases),
		TotalRefundsGHS:   utils.FormatPesewas(s.TotalRefunds),
	}
}

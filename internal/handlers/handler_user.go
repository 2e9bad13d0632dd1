package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type userHandler struct {
	userService   portssvc.UserReaderSvc
	ledgerService portssvc.LedgerReaderSvc
	adminService  portssvc.AdminSvcFacade
}

func newUserHandler(us portssvc.UserReaderSvc, ls portssvc.LedgerReaderSvc, as portssvc.AdminSvcFacade) *userHandler {
	return &userHandler{userService: us, ledgerService: ls, adminService: as}
}

func registerUserRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newUserHandler(services.User, services.Ledger, services.Admin)
	rg.GET("/me", h.getMe)
}

// getMe godoc
// @Summary Current user
// @Description Returns the signed-in user's profile with their wallet balance.
// @Tags users
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *userHandler) getMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	account, err := h.ledgerService.GetAccount(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve wallet")
		return
	}
	isAdmin, err := h.adminService.IsAdmin(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:    dto.ToUserResponse(user),
		Wallet:  dto.ToWalletResponse(account),
		IsAdmin: isAdmin,
	})
}

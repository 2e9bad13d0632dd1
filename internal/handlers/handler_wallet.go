package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/SscSPs/bundle_wallet_app/internal/middleware"
	"github.com/SscSPs/bundle_wallet_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// walletHandler serves the caller's own wallet. The account id is always the
// authenticated user id, never a path parameter.
type walletHandler struct {
	ledgerService  portssvc.LedgerReaderSvc
	depositService portssvc.DepositSvcFacade
}

func newWalletHandler(ls portssvc.LedgerReaderSvc, ds portssvc.DepositSvcFacade) *walletHandler {
	return &walletHandler{ledgerService: ls, depositService: ds}
}

// RegisterWalletRoutes registers the wallet endpoints on an authenticated group.
func RegisterWalletRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerReaderSvc, depositService portssvc.DepositSvcFacade) {
	h := newWalletHandler(ledgerService, depositService)

	wallet := rg.Group("/wallet")
	{
		wallet.GET("", h.getWallet)
		wallet.GET("/entries", h.listEntries)
		wallet.GET("/entries/:entry_id", h.getEntry)
		wallet.POST("/deposits/initialize", h.initializeDeposit)
		wallet.POST("/deposits/verify", h.verifyDeposit)
	}
}

// getWallet godoc
// @Summary Get wallet balance
// @Description Returns the caller's current balance in pesewas and cedis.
// @Tags wallet
// @Produce json
// @Success 200 {object} dto.WalletResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallet [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	account, err := h.ledgerService.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve wallet")
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletResponse(account))
}

// listEntries godoc
// @Summary List wallet transactions
// @Description Lists the caller's ledger entries newest first, including failed attempts.
// @Tags wallet
// @Produce json
// @Param limit query int false "Page size (max 100)" default(20)
// @Param nextToken query string false "Cursor from a previous page"
// @Param status query string false "Filter by status" Enums(success, failed)
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallet/entries [get]
func (h *walletHandler) listEntries(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err)
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a wallet transaction
// @Tags wallet
// @Produce json
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallet/entries/{entry_id} [get]
func (h *walletHandler) getEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entry, err := h.ledgerService.GetEntry(c.Request.Context(), userID, c.Param("entry_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// initializeDeposit godoc
// @Summary Start a deposit
// @Description Opens a Paystack payment for the given cedi amount. The wallet is credited once the payment is confirmed.
// @Tags wallet
// @Accept json
// @Produce json
// @Param deposit body dto.InitializeDepositRequest true "Amount in GHS"
// @Success 200 {object} domain.PaymentInit
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallet/deposits/initialize [post]
func (h *walletHandler) initializeDeposit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.InitializeDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err)
		return
	}
	amount, err := utils.ParseCedis(req.AmountGHS)
	if err != nil {
		respondBadRequest(c, "Invalid amount", err)
		return
	}

	payment, err := h.depositService.InitializeDeposit(c.Request.Context(), userID, amount)
	if err != nil {
		respondError(c, err, "Failed to start deposit")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Deposit initialized",
		slog.String("reference", payment.Reference), slog.Int64("amount", amount))
	c.JSON(http.StatusOK, payment)
}

// verifyDeposit godoc
// @Summary Confirm a deposit
// @Description Verifies a Paystack payment and credits the wallet. Safe to call after the webhook already credited it.
// @Tags wallet
// @Accept json
// @Produce json
// @Param deposit body dto.VerifyDepositRequest true "Payment reference"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Payment belongs to another account"
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallet/deposits/verify [post]
func (h *walletHandler) verifyDeposit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.VerifyDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err)
		return
	}

	entry, err := h.depositService.VerifyDeposit(c.Request.Context(), userID, req.Reference)
	if err != nil {
		respondError(c, err, "Failed to verify deposit")
		return
	}
	middleware.TrackEvent(c, "deposit_verified", map[string]any{"amount": entry.Amount})
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

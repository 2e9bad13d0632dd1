package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	paystackSignatureHeader = "x-paystack-signature"
	// maxWebhookBody bounds what we read before checking the signature.
	maxWebhookBody = 1 << 20
)

type webhookHandler struct {
	depositService portssvc.DepositSvcFacade
}

// RegisterWebhookRoutes registers the unauthenticated gateway callbacks.
func RegisterWebhookRoutes(r gin.IRoutes, depositService portssvc.DepositSvcFacade) {
	h := &webhookHandler{depositService: depositService}
	r.POST("/webhooks/paystack", h.paystack)
}

// paystack godoc
// @Summary Paystack webhook
// @Description Credits the wallet for a signed charge.success event. Other events are acknowledged and ignored.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param x-paystack-signature header string true "HMAC-SHA512 of the body"
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Router /webhooks/paystack [post]
func (h *webhookHandler) paystack(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid body"})
		return
	}

	entry, err := h.depositService.HandleWebhook(ctx, payload, c.GetHeader(paystackSignatureHeader))
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		logger.Warn("Rejected webhook with bad signature")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid signature"})
		return
	case err != nil:
		// Paystack retries anything but 200, which cannot fix a payload we reject.
		// Infrastructure failures still get a 500 so the event is redelivered.
		if statusForError(err) >= http.StatusInternalServerError {
			logger.Error("Failed to process webhook", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process webhook"})
			return
		}
		logger.Warn("Ignoring unprocessable webhook", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	case entry == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	logger.Info("Webhook credited wallet",
		slog.String("account_id", entry.AccountID),
		slog.String("entry_id", entry.EntryID),
		slog.String("reference", entry.ReferenceCode))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

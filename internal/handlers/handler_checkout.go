package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/SscSPs/bundle_wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// idempotencyKeyHeader may carry the checkout key instead of the request body.
const idempotencyKeyHeader = "Idempotency-Key"

type checkoutHandler struct {
	checkoutService portssvc.CheckoutSvcFacade
}

func newCheckoutHandler(cs portssvc.CheckoutSvcFacade) *checkoutHandler {
	return &checkoutHandler{checkoutService: cs}
}

// RegisterCheckoutRoutes registers checkout and order history on an authenticated group.
func RegisterCheckoutRoutes(rg *gin.RouterGroup, checkoutService portssvc.CheckoutSvcFacade) {
	h := newCheckoutHandler(checkoutService)
	rg.POST("/checkout", h.checkout)
	rg.GET("/orders", h.listOrders)
}

// checkout godoc
// @Summary Buy a cart of data bundles
// @Description Purchases and delivers the items one at a time, stopping at the first failure. Items already bought are kept.
// @Description Retrying with the same idempotency key never charges an item twice.
// @Tags checkout
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Checkout key, overrides the body field"
// @Param cart body dto.CheckoutRequest true "Cart"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /checkout [post]
func (h *checkoutHandler) checkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid cart", err)
		return
	}

	key := c.GetHeader(idempotencyKeyHeader)
	if key == "" {
		key = req.IdempotencyKey
	}
	if key == "" {
		key = uuid.NewString()
	}
	if len(key) > 64 {
		respondBadRequest(c, "Idempotency key must be at most 64 characters", nil)
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("idempotency_key", key))
	logger.Info("Received checkout", slog.Int("items", len(req.Items)))

	result, err := h.checkoutService.Checkout(c.Request.Context(), userID, key, req.ToDomainItems())
	if err != nil {
		respondError(c, err, "Checkout failed")
		return
	}
	middleware.TrackEvent(c, "checkout_finished", map[string]any{
		"state":     string(result.State),
		"items":     len(req.Items),
		"succeeded": len(result.Succeeded),
	})
	c.JSON(http.StatusOK, dto.ToCheckoutResponse(key, result))
}

// listOrders godoc
// @Summary List bundle orders
// @Description Lists the caller's bundle orders newest first.
// @Tags checkout
// @Produce json
// @Param limit query int false "Page size (max 100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.OrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders [get]
func (h *checkoutHandler) listOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err)
		return
	}

	orders, err := h.checkoutService.ListOrders(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list orders")
		return
	}
	resp := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		resp[i] = dto.ToOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, resp)
}

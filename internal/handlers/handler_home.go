package handlers

import (
	"net/http"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// HomeResponse is the public landing payload.
type HomeResponse struct {
	Message  string   `json:"message"`
	Currency string   `json:"currency"`
	Networks []string `json:"networks"`
}

// getHome godoc
// @Summary API landing
// @Description Names the service and the operators it sells bundles for.
// @Tags root
// @Produce json
// @Success 200 {object} HomeResponse
// @Router / [get]
func getHome(c *gin.Context) {
	names := make([]string, len(domain.Networks))
	for i, n := range domain.Networks {
		names[i] = n.Name
	}
	c.JSON(http.StatusOK, HomeResponse{
		Message:  "Bundle Wallet API v1",
		Currency: domain.CurrencyGHS,
		Networks: names,
	})
}

package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

// RegisterCatalogRoutes registers the public catalog endpoints.
func RegisterCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := &catalogHandler{catalogService: catalogService}

	catalog := rg.Group("/catalog")
	{
		catalog.GET("/networks", h.listNetworks)
		catalog.GET("/networks/detect", h.detectNetwork)
		catalog.GET("/packages", h.listPackages)
		catalog.GET("/packages/:package_id", h.getPackage)
	}
}

// listNetworks godoc
// @Summary List networks
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Network
// @Router /catalog/networks [get]
func (h *catalogHandler) listNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.ListNetworks(c.Request.Context()))
}

// detectNetwork godoc
// @Summary Detect a number's network
// @Description Normalises a Ghanaian mobile number and returns its operator.
// @Tags catalog
// @Produce json
// @Param phone query string true "Phone number"
// @Success 200 {object} dto.DetectNetworkResponse
// @Failure 400 {object} ErrorResponse
// @Router /catalog/networks/detect [get]
func (h *catalogHandler) detectNetwork(c *gin.Context) {
	var params dto.DetectNetworkParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Phone number is required", nil)
		return
	}
	phone, network, err := h.catalogService.DetectNetwork(c.Request.Context(), params.Phone)
	if err != nil {
		respondError(c, err, "Failed to detect network")
		return
	}
	c.JSON(http.StatusOK, dto.DetectNetworkResponse{Phone: phone, Network: network})
}

// listPackages godoc
// @Summary List bundle packages
// @Tags catalog
// @Produce json
// @Param networkId query int false "Only packages for this network" Enums(1, 2, 3)
// @Success 200 {array} dto.PackageResponse
// @Failure 400 {object} ErrorResponse
// @Router /catalog/packages [get]
func (h *catalogHandler) listPackages(c *gin.Context) {
	var params dto.ListPackagesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err)
		return
	}
	pkgs, err := h.catalogService.ListPackages(c.Request.Context(), params.NetworkID)
	if err != nil {
		respondError(c, err, "Failed to list packages")
		return
	}
	c.JSON(http.StatusOK, dto.ToPackageResponses(pkgs))
}

// getPackage godoc
// @Summary Get a bundle package
// @Tags catalog
// @Produce json
// @Param package_id path string true "Package ID"
// @Success 200 {object} dto.PackageResponse
// @Failure 404 {object} ErrorResponse
// @Router /catalog/packages/{package_id} [get]
func (h *catalogHandler) getPackage(c *gin.Context) {
	pkg, err := h.catalogService.GetPackage(c.Request.Context(), c.Param("package_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve package")
		return
	}
	c.JSON(http.StatusOK, dto.ToPackageResponse(pkg))
}

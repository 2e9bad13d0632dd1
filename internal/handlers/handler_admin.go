package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/SscSPs/bundle_wallet_app/internal/middleware"
	"github.com/SscSPs/bundle_wallet_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Ledger"

type adminHandler struct {
	adminService portssvc.AdminSvcFacade
}

// RegisterAdminRoutes registers the operator endpoints behind AdminMiddleware.
func RegisterAdminRoutes(rg *gin.RouterGroup, adminService portssvc.AdminSvcFacade) {
	h := &adminHandler{adminService: adminService}

	admin := rg.Group("/admin", middleware.AdminMiddleware(adminService))
	{
		admin.GET("/users", h.listUsers)
		admin.GET("/entries", h.listEntries)
		admin.GET("/entries/export", h.exportEntries)
		admin.GET("/stats", h.getStats)
	}
}

// listUsers godoc
// @Summary List users with balances
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (max 100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *adminHandler) listUsers(c *gin.Context) {
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err)
		return
	}
	users, err := h.adminService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// listEntries godoc
// @Summary List all ledger entries
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (max 100)" default(20)
// @Param nextToken query string false "Cursor from a previous page"
// @Param status query string false "Filter by status" Enums(success, failed)
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/entries [get]
func (h *adminHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err)
		return
	}
	resp, err := h.adminService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getStats godoc
// @Summary Platform stats
// @Tags admin
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *adminHandler) getStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load stats")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}

// exportEntries godoc
// @Summary Export ledger entries
// @Description Downloads the newest ledger entries as an XLSX workbook.
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param limit query int false "Number of entries (max 5000)" default(5000)
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/entries/export [get]
func (h *adminHandler) exportEntries(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondBadRequest(c, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	entries, err := h.adminService.ExportEntries(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to export entries")
		return
	}

	f, err := buildEntriesWorkbook(entries)
	if err != nil {
		respondError(c, err, "Failed to build export")
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger_%s.xlsx\"", time.Now().UTC().Format("20060102")))
	if err := f.Write(c.Writer); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to write export", slog.String("error", err.Error()))
	}
}

var exportHeaders = []string{
	"Created At", "Account", "Kind", "Status", "Amount (GHS)",
	"Balance Before (GHS)", "Balance After (GHS)", "Reference", "Description",
}

func buildEntriesWorkbook(entries []domain.LedgerEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeaders); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, e := range entries {
		row := []any{
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.AccountID,
			string(e.Kind),
			string(e.Status),
			utils.FormatPesewas(e.Amount),
			utils.FormatPesewas(e.BalanceBefore),
			utils.FormatPesewas(e.BalanceAfter),
			e.ReferenceCode,
			e.Description,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(exportSheetName, "A", "A", 22)
	_ = f.SetColWidth(exportSheetName, "B", "B", 38)
	_ = f.SetColWidth(exportSheetName, "C", "G", 14)
	_ = f.SetColWidth(exportSheetName, "H", "H", 40)
	_ = f.SetColWidth(exportSheetName, "I", "I", 45)
	return f, nil
}

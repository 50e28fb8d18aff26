package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/middleware"
)

const dashboardFallback = "Server error while fetching dashboard data."

// DashboardHandler serves the account summary and history
type DashboardHandler struct {
	dashboards  usecase.DashboardUseCase
	maxPageSize int
	logger      coreport.Logger
}

// NewDashboardHandler creates a new dashboard handler instance
func NewDashboardHandler(dashboards usecase.DashboardUseCase, maxPageSize int, logger coreport.Logger) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, maxPageSize: maxPageSize, logger: logger}
}

// Dashboard handles GET /dashboard?page=&limit=
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, h.logger, errs.ErrSessionInvalid, dashboardFallback)
		return
	}

	page := entity.NewPageRequest(c.Query("page"), c.Query("limit"), h.maxPageSize)
	dashboard, err := h.dashboards.GetDashboard(c.Request.Context(), principal.AccountID, page)
	if err != nil {
		respondError(c, h.logger, err, dashboardFallback)
		return
	}

	c.JSON(http.StatusOK, dto.NewDashboardResponse(dashboard))
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/gin-gonic/gin"
)

// ReportBuilder defines what the handler needs from the report service.
type ReportBuilder interface {
	MonthlyReport(ctx context.Context, q cqrs.GetMonthlyReportQuery) (*models.MonthlyReport, error)
}

type ReportHandler struct {
	reports ReportBuilder
}

func NewReportHandler(reports ReportBuilder) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetMonthlyReport serves GET /api/reports/monthly/:userId?month=YYYY-MM.
// An absent month defaults to the current one.
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}

	report, err := h.reports.MonthlyReport(c.Request.Context(), cqrs.GetMonthlyReportQuery{
		UserID: c.Param("userId"),
		Month:  month,
	})
	if err != nil {
		if _, parseErr := time.Parse("2006-01", month); parseErr != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "month must be in YYYY-MM format")
			return
		}
		middleware.RespondWithError(c, http.StatusBadGateway, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, report)
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/gin-gonic/gin"
)

type mockReportBuilder struct {
	monthlyFn func(context.Context, cqrs.GetMonthlyReportQuery) (*models.MonthlyReport, error)
}

func (m *mockReportBuilder) MonthlyReport(ctx context.Context, q cqrs.GetMonthlyReportQuery) (*models.MonthlyReport, error) {
	if m.monthlyFn != nil {
		return m.monthlyFn(ctx, q)
	}
	return nil, fmt.Errorf("not configured")
}

func newReportTestRouter(reports ReportBuilder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(reports)
	r.GET("/api/reports/monthly/:userId", h.GetMonthlyReport)
	return r
}

func TestGetMonthlyReport(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		monthlyFn      func(context.Context, cqrs.GetMonthlyReportQuery) (*models.MonthlyReport, error)
		expectedStatus int
	}{
		{
			name: "success",
			url:  "/api/reports/monthly/usr-001?month=2024-03",
			monthlyFn: func(ctx context.Context, q cqrs.GetMonthlyReportQuery) (*models.MonthlyReport, error) {
				return &models.MonthlyReport{
					Month: q.Month, TotalIncome: 50000, TotalExpense: 5000, Balance: 45000,
					CategoryWiseExpense: map[string]float64{"Food": 2000, "Rent": 3000},
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "bad request - malformed month",
			url:  "/api/reports/monthly/usr-001?month=March",
			monthlyFn: func(ctx context.Context, q cqrs.GetMonthlyReportQuery) (*models.MonthlyReport, error) {
				return nil, fmt.Errorf("month must be in YYYY-MM format")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad gateway - transaction service down",
			url:  "/api/reports/monthly/usr-001?month=2024-03",
			monthlyFn: func(ctx context.Context, q cqrs.GetMonthlyReportQuery) (*models.MonthlyReport, error) {
				return nil, fmt.Errorf("failed to fetch transactions: connection refused")
			},
			expectedStatus: http.StatusBadGateway,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newReportTestRouter(&mockReportBuilder{monthlyFn: tt.monthlyFn})
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetMonthlyReport_DefaultsToCurrentMonth(t *testing.T) {
	var gotMonth string
	router := newReportTestRouter(&mockReportBuilder{
		monthlyFn: func(ctx context.Context, q cqrs.GetMonthlyReportQuery) (*models.MonthlyReport, error) {
			gotMonth = q.Month
			return &models.MonthlyReport{Month: q.Month, CategoryWiseExpense: map[string]float64{}}, nil
		},
	})

	req, _ := http.NewRequest(http.MethodGet, "/api/reports/monthly/usr-001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var report models.MonthlyReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if gotMonth == "" || report.Month != gotMonth {
		t.Errorf("expected a defaulted month, got query %q / body %q", gotMonth, report.Month)
	}
}

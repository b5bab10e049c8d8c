package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/models"
)

// TransactionSummarizer is the slice of the transaction service the report
// builder needs: the user's transactions within a date range.
type TransactionSummarizer interface {
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error)
}

// ReportService builds financial reports from transaction data fetched over
// HTTP. It holds no state of its own.
type ReportService struct {
	transactions TransactionSummarizer
}

func NewReportService(transactions TransactionSummarizer) *ReportService {
	return &ReportService{transactions: transactions}
}

// MonthlyReport aggregates one calendar month: income and expense totals,
// the resulting balance, and expense grouped by category.
func (s *ReportService) MonthlyReport(ctx context.Context, q cqrs.GetMonthlyReportQuery) (*models.MonthlyReport, error) {
	start, err := time.Parse("2006-01", q.Month)
	if err != nil {
		return nil, fmt.Errorf("month must be in YYYY-MM format")
	}
	end := start.AddDate(0, 1, -1)

	transactions, err := s.transactions.ListByDateRange(ctx, q.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	report := &models.MonthlyReport{
		Month:               q.Month,
		CategoryWiseExpense: make(map[string]float64),
	}
	for _, txn := range transactions {
		switch txn.Type {
		case models.TransactionIncome:
			report.TotalIncome += txn.Amount
		case models.TransactionExpense:
			report.TotalExpense += txn.Amount
			report.CategoryWiseExpense[txn.Category] += txn.Amount
		}
	}
	report.TotalIncome = round2(report.TotalIncome)
	report.TotalExpense = round2(report.TotalExpense)
	report.Balance = round2(report.TotalIncome - report.TotalExpense)
	for category, amount := range report.CategoryWiseExpense {
		report.CategoryWiseExpense[category] = round2(amount)
	}
	return report, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

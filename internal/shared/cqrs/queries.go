package cqrs

import "time"

// ---------- User queries ----------

// GetUserQuery fetches a single user by ID.
type GetUserQuery struct {
	UserID string
}

// GetUserByUsernameQuery fetches a single user by username.
type GetUserByUsernameQuery struct {
	Username string
}

// ---------- Transaction queries ----------

// ListTransactionsQuery fetches a user's transactions, optionally filtered
// by type or date range.
type ListTransactionsQuery struct {
	UserID    string
	Type      string
	StartDate time.Time
	EndDate   time.Time
}

// GetTransactionSummaryQuery aggregates a user's income/expense totals.
type GetTransactionSummaryQuery struct {
	UserID string
}

// ---------- Budget queries ----------

// ListBudgetsQuery fetches all budgets belonging to a user.
type ListBudgetsQuery struct {
	UserID string
}

// ---------- Report queries ----------

// GetMonthlyReportQuery builds the report for one calendar month.
type GetMonthlyReportQuery struct {
	UserID string
	Month  string // "YYYY-MM"
}

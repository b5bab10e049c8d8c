package models

import "time"

// Transaction types
const (
	TransactionIncome  = "INCOME"
	TransactionExpense = "EXPENSE"
)

// Budget periods
const (
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
	PeriodYearly  = "YEARLY"
)

// Payment methods
const (
	PaymentCash       = "CASH"
	PaymentCreditCard = "CREDIT_CARD"
	PaymentDebitCard  = "DEBIT_CARD"
	PaymentUPI        = "UPI"
	PaymentNetBanking = "NET_BANKING"
	PaymentOther      = "OTHER"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	PhoneNumber  string    `json:"phoneNumber"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

type Transaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Amount        float64   `json:"amount"`
	Type          string    `json:"type"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	Date          time.Time `json:"transactionDate"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time `json:"createdTimestamp"`
}

type Budget struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Category    string    `json:"category"`
	LimitAmount float64   `json:"budgetAmount"`
	SpentAmount float64   `json:"spentAmount"`
	Period      string    `json:"period"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdTimestamp"`
	UpdatedAt   time.Time `json:"updatedTimestamp"`
}

// TransactionSummary aggregates a user's ledger into income/expense totals.
type TransactionSummary struct {
	TotalIncome       float64 `json:"totalIncome"`
	TotalExpense      float64 `json:"totalExpense"`
	Balance           float64 `json:"balance"`
	TotalTransactions int64   `json:"totalTransactions"`
}

// MonthlyReport is the report-service response for a single month.
type MonthlyReport struct {
	Month               string             `json:"month"`
	TotalIncome         float64            `json:"totalIncome"`
	TotalExpense        float64            `json:"totalExpense"`
	Balance             float64            `json:"balance"`
	CategoryWiseExpense map[string]float64 `json:"categoryWiseExpense"`
}

package cqrs

import "time"

type RegisterUserCommand struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
}

type UpdateUserCommand struct {
	UserID      string
	Username    string
	Email       string
	FullName    string
	PhoneNumber string
}

// SetUserActiveCommand toggles the soft-disable flag. Distinct from
// DeleteUserCommand, which removes the account and its dependent records.
type SetUserActiveCommand struct {
	UserID   string
	IsActive bool
}

type DeleteUserCommand struct {
	UserID string
}

type LoginCommand struct {
	UsernameOrEmail string
	Password        string
}

type CreateTransactionCommand struct {
	UserID        string
	Amount        float64
	Type          string
	Category      string
	Description   string
	Date          time.Time
	PaymentMethod string
}

type UpdateTransactionCommand struct {
	TransactionID string
	UserID        string
	Amount        float64
	Type          string
	Category      string
	Description   string
	Date          time.Time
	PaymentMethod string
}

type DeleteTransactionCommand struct {
	TransactionID string
}

type DeleteUserTransactionsCommand struct {
	UserID   string
	Category string // empty means all categories
}

type CreateBudgetCommand struct {
	UserID      string
	Category    string
	LimitAmount float64
	Period      string
	StartDate   time.Time
	EndDate     time.Time
}

type DeleteBudgetCommand struct {
	BudgetID string
}

type DeleteUserBudgetsCommand struct {
	UserID   string
	Category string // empty means all categories
}

package events

import "time"

// Event types
const (
	UserCreated     = "user.created"
	UserUpdated     = "user.updated"
	UserDeactivated = "user.deactivated"
	UserReactivated = "user.reactivated"
	UserDeleted     = "user.deleted"

	TransactionCreated = "transaction.created"
	TransactionDeleted = "transaction.deleted"

	BudgetSpentUpdated = "budget.spent.updated"
)

// Stream names
const (
	UserEventsStream        = "user.events"
	TransactionEventsStream = "transaction.events"
	BudgetEventsStream      = "budget.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// User events
type UserCreatedEvent struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserUpdatedEvent struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserStatusEvent struct {
	UserID   string `json:"userId"`
	IsActive bool   `json:"isActive"`
}

// UserDeletedEvent is published after a cascade delete completes. Consumers
// can use it to clean up any remaining per-user state.
type UserDeletedEvent struct {
	UserID string `json:"userId"`
}

// Transaction events
type TransactionCreatedEvent struct {
	TransactionID string  `json:"transactionId"`
	UserID        string  `json:"userId"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
}

type TransactionDeletedEvent struct {
	TransactionID string  `json:"transactionId"`
	UserID        string  `json:"userId"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
}

// Budget events
type BudgetSpentUpdatedEvent struct {
	BudgetID  string  `json:"budgetId"`
	UserID    string  `json:"userId"`
	Category  string  `json:"category"`
	NewSpent  float64 `json:"newSpent"`
	NewStatus string  `json:"newStatus"`
}

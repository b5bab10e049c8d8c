package models

import "time"

// UserView is the read-optimised projection of a user.
// It never exposes PasswordHash.
type UserView struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdTimestamp"`
	UpdatedAt   time.Time `json:"updatedTimestamp"`
}

// BudgetView is the API projection of a budget with the derived fields the
// write model doesn't store: remaining amount and threshold status.
type BudgetView struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Category        string    `json:"category"`
	LimitAmount     float64   `json:"budgetAmount"`
	SpentAmount     float64   `json:"spentAmount"`
	RemainingAmount float64   `json:"remainingAmount"`
	Period          string    `json:"period"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Status          string    `json:"status"`
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Sarthak8822/Finance/internal/shared/models"
)

// ErrNotFound is returned when a budget ID does not exist.
var ErrNotFound = errors.New("budget not found")

// BudgetRepository handles all budget persistence against PostgreSQL.
// Budgets have no separate read model; list volumes are tiny.
type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(b *models.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, category, limit_amount, spent_amount, period, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(query,
		b.ID, b.UserID, b.Category, b.LimitAmount, b.SpentAmount,
		b.Period, b.StartDate, b.EndDate, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (r *BudgetRepository) GetByID(id string) (*models.Budget, error) {
	query := `
		SELECT id, user_id, category, limit_amount, spent_amount, period, start_date, end_date, created_at, updated_at
		FROM budgets
		WHERE id = $1
	`
	var b models.Budget
	err := r.db.QueryRow(query, id).Scan(
		&b.ID, &b.UserID, &b.Category, &b.LimitAmount, &b.SpentAmount,
		&b.Period, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &b, nil
}

// ListByUser returns a user's budgets. Empty list when there are none.
func (r *BudgetRepository) ListByUser(userID string) ([]models.Budget, error) {
	query := `
		SELECT id, user_id, category, limit_amount, spent_amount, period, start_date, end_date, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Category, &b.LimitAmount, &b.SpentAmount,
			&b.Period, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// AdjustSpent adds delta (which may be negative) to the spent amount of every
// budget matching the user and category, clamping at zero, and returns the
// updated rows so the caller can announce the new spent amounts.
func (r *BudgetRepository) AdjustSpent(userID, category string, delta float64) ([]models.Budget, error) {
	query := `
		UPDATE budgets
		SET spent_amount = GREATEST(spent_amount + $3, 0), updated_at = NOW()
		WHERE user_id = $1 AND category = $2
		RETURNING id, user_id, category, limit_amount, spent_amount,
		          period, start_date, end_date, created_at, updated_at
	`
	rows, err := r.db.Query(query, userID, category, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust spent amount: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Category, &b.LimitAmount, &b.SpentAmount,
			&b.Period, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByUser removes every budget owned by userID. Deleting an empty
// set succeeds with count 0 so the user-service cascade can re-run safely.
func (r *BudgetRepository) DeleteAllByUser(userID string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM budgets WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete budgets for user %s: %w", userID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows, nil
}

func (r *BudgetRepository) DeleteByUserAndCategory(userID, category string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM budgets WHERE user_id = $1 AND category = $2`, userID, category)
	if err != nil {
		return 0, fmt.Errorf("failed to delete budgets in category %s: %w", category, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows, nil
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/models"
)

// ErrNotFound is returned when a transaction ID does not exist.
var ErrNotFound = errors.New("transaction not found")

// TransactionWriteRepository handles all state-mutating operations for
// transactions against the PostgreSQL write store.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

func (r *TransactionWriteRepository) Create(t *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, amount, type, category, description, transaction_date, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		t.ID, t.UserID, t.Amount, t.Type, t.Category,
		nullString(t.Description), t.Date, nullString(t.PaymentMethod), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionWriteRepository) GetByID(id string) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, amount, type, category, description, transaction_date, payment_method, created_at
		FROM transactions
		WHERE id = $1
	`
	var t models.Transaction
	var description, paymentMethod sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Category,
		&description, &t.Date, &paymentMethod, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	t.Description = description.String
	t.PaymentMethod = paymentMethod.String
	return &t, nil
}

func (r *TransactionWriteRepository) Update(t *models.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $2, type = $3, category = $4, description = $5, transaction_date = $6, payment_method = $7
		WHERE id = $1
	`
	result, err := r.db.Exec(query,
		t.ID, t.Amount, t.Type, t.Category,
		nullString(t.Description), t.Date, nullString(t.PaymentMethod),
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
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

func (r *TransactionWriteRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
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

// DeleteAllByUser removes every transaction owned by userID and returns how
// many were removed. Deleting an empty set succeeds with count 0: the cascade
// orchestrator in user-service may retry after a partial failure, and the
// second pass must be a no-op.
func (r *TransactionWriteRepository) DeleteAllByUser(userID string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions for user %s: %w", userID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows, nil
}

// DeleteByUserAndCategory removes a user's transactions in one category.
func (r *TransactionWriteRepository) DeleteByUserAndCategory(userID, category string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM transactions WHERE user_id = $1 AND category = $2`, userID, category)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions in category %s: %w", category, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// scanTransactions is shared by the read repository's list queries.
func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var description, paymentMethod sql.NullString
		var date, createdAt time.Time

		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Category,
			&description, &date, &paymentMethod, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Description = description.String
		t.PaymentMethod = paymentMethod.String
		t.Date = date
		t.CreatedAt = createdAt
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

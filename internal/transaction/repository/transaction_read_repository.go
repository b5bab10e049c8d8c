package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/models"
	sharedredis "github.com/Sarthak8822/Finance/internal/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

const summaryKeyPrefix = "transaction:summary:"

// TransactionReadRepository handles list and aggregate reads. The per-user
// summary is cached in Redis with a short TTL and invalidated on every write,
// since the report service polls it.
type TransactionReadRepository struct {
	db           *sql.DB
	summaryCache *sharedredis.ViewCache[models.TransactionSummary]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:           db,
		summaryCache: sharedredis.NewViewCache[models.TransactionSummary](redisClient, time.Minute),
	}
}

const selectColumns = `id, user_id, amount, type, category, description, transaction_date, payment_method, created_at`

// ListByUser returns all of a user's transactions, newest first. A user with
// no transactions gets an empty list, not an error.
func (r *TransactionReadRepository) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE user_id = $1 ORDER BY transaction_date DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return scanTransactions(rows)
}

func (r *TransactionReadRepository) ListByUserAndType(ctx context.Context, userID, txType string) ([]models.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE user_id = $1 AND type = $2 ORDER BY transaction_date DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, txType)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by type: %w", err)
	}
	return scanTransactions(rows)
}

func (r *TransactionReadRepository) ListByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3 ORDER BY transaction_date DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by date range: %w", err)
	}
	return scanTransactions(rows)
}

// Summary returns income/expense totals for a user, Redis-cached.
func (r *TransactionReadRepository) Summary(ctx context.Context, userID string) (*models.TransactionSummary, error) {
	cacheKey := summaryKeyPrefix + userID
	if summary, ok := r.summaryCache.Get(ctx, cacheKey); ok {
		return summary, nil
	}

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0),
			COUNT(*)
		FROM transactions
		WHERE user_id = $1
	`
	var summary models.TransactionSummary
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&summary.TotalIncome, &summary.TotalExpense, &summary.TotalTransactions,
	); err != nil {
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	r.summaryCache.Set(ctx, cacheKey, &summary)
	return &summary, nil
}

// InvalidateSummary drops the cached summary after a write.
func (r *TransactionReadRepository) InvalidateSummary(ctx context.Context, userID string) {
	r.summaryCache.Delete(ctx, summaryKeyPrefix+userID)
}

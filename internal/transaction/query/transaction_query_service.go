package query

import (
	"context"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/transaction/repository"
)

// TransactionQueryService serves ledger reads.
type TransactionQueryService struct {
	readRepo *repository.TransactionReadRepository
}

func NewTransactionQueryService(readRepo *repository.TransactionReadRepository) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo}
}

func (s *TransactionQueryService) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.Transaction, error) {
	ctx := context.Background()
	switch {
	case q.Type != "":
		return s.readRepo.ListByUserAndType(ctx, q.UserID, q.Type)
	case !q.StartDate.IsZero() && !q.EndDate.IsZero():
		return s.readRepo.ListByUserAndDateRange(ctx, q.UserID, q.StartDate, q.EndDate)
	default:
		return s.readRepo.ListByUser(ctx, q.UserID)
	}
}

func (s *TransactionQueryService) GetSummary(q cqrs.GetTransactionSummaryQuery) (*models.TransactionSummary, error) {
	return s.readRepo.Summary(context.Background(), q.UserID)
}

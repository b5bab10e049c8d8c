package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/events"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/shared/utils"
)

// TransactionStore is the write-side persistence surface the command
// service needs.
type TransactionStore interface {
	Create(t *models.Transaction) error
	GetByID(id string) (*models.Transaction, error)
	Update(t *models.Transaction) error
	Delete(id string) error
	DeleteAllByUser(userID string) (int64, error)
	DeleteByUserAndCategory(userID, category string) (int64, error)
}

// SummaryInvalidator drops a user's cached ledger summary after a write.
type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context, userID string)
}

// EventPublisher appends events to a stream. Publish failures are logged,
// never returned to the caller; the write already committed.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// TransactionCommandService writes ledger state to PostgreSQL and publishes
// transaction events so the budget service can track spending.
type TransactionCommandService struct {
	store     TransactionStore
	summaries SummaryInvalidator
	publisher EventPublisher
}

func NewTransactionCommandService(
	store TransactionStore,
	summaries SummaryInvalidator,
	publisher EventPublisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		store:     store,
		summaries: summaries,
		publisher: publisher,
	}
}

func (s *TransactionCommandService) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	transaction := &models.Transaction{
		ID:            utils.GenerateID("txn"),
		UserID:        cmd.UserID,
		Amount:        cmd.Amount,
		Type:          cmd.Type,
		Category:      cmd.Category,
		Description:   cmd.Description,
		Date:          cmd.Date,
		PaymentMethod: cmd.PaymentMethod,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Create(transaction); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.summaries.InvalidateSummary(ctx, cmd.UserID)
	s.publishCreated(ctx, transaction)
	return transaction, nil
}

// UpdateTransaction rewrites a transaction in place. Spending trackers only
// see creations and deletions, so an edit that changes the amount, type, or
// category is announced as the old transaction deleted plus the new one
// created.
func (s *TransactionCommandService) UpdateTransaction(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	transaction, err := s.store.GetByID(cmd.TransactionID)
	if err != nil {
		return nil, err
	}
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	previous := *transaction

	transaction.Amount = cmd.Amount
	transaction.Type = cmd.Type
	transaction.Category = cmd.Category
	transaction.Description = cmd.Description
	transaction.Date = cmd.Date
	transaction.PaymentMethod = cmd.PaymentMethod
	if err := s.store.Update(transaction); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.summaries.InvalidateSummary(ctx, transaction.UserID)
	if previous.Amount != transaction.Amount ||
		previous.Type != transaction.Type ||
		previous.Category != transaction.Category {
		s.publishDeleted(ctx, &previous)
		s.publishCreated(ctx, transaction)
	}
	return transaction, nil
}

func (s *TransactionCommandService) DeleteTransaction(cmd cqrs.DeleteTransactionCommand) error {
	transaction, err := s.store.GetByID(cmd.TransactionID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(cmd.TransactionID); err != nil {
		return err
	}

	ctx := context.Background()
	s.summaries.InvalidateSummary(ctx, transaction.UserID)
	s.publishDeleted(ctx, transaction)
	return nil
}

// DeleteUserTransactions bulk-deletes a user's transactions, optionally
// scoped to a category. The unscoped form is what the user-service cascade
// calls; it succeeds on an empty set so the cascade can be re-run safely.
func (s *TransactionCommandService) DeleteUserTransactions(cmd cqrs.DeleteUserTransactionsCommand) (int64, error) {
	var (
		deleted int64
		err     error
	)
	if cmd.Category == "" {
		deleted, err = s.store.DeleteAllByUser(cmd.UserID)
	} else {
		deleted, err = s.store.DeleteByUserAndCategory(cmd.UserID, cmd.Category)
	}
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.summaries.InvalidateSummary(context.Background(), cmd.UserID)
	}
	log.Printf("Deleted %d transactions for user %s", deleted, cmd.UserID)
	return deleted, nil
}

func (s *TransactionCommandService) publishCreated(ctx context.Context, t *models.Transaction) {
	err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Amount:        t.Amount,
		Type:          t.Type,
		Category:      t.Category,
	})
	if err != nil {
		log.Printf("Failed to publish transaction.created event: %v", err)
	}
}

func (s *TransactionCommandService) publishDeleted(ctx context.Context, t *models.Transaction) {
	err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionDeleted, events.TransactionDeletedEvent{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Amount:        t.Amount,
		Type:          t.Type,
		Category:      t.Category,
	})
	if err != nil {
		log.Printf("Failed to publish transaction.deleted event: %v", err)
	}
}

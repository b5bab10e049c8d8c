package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Sarthak8822/Finance/internal/budget"
	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/events"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/shared/utils"
)

// BudgetStore is the persistence surface the command service writes through.
type BudgetStore interface {
	Create(*models.Budget) error
	Delete(id string) error
	DeleteAllByUser(userID string) (int64, error)
	DeleteByUserAndCategory(userID, category string) (int64, error)
	AdjustSpent(userID, category string, delta float64) ([]models.Budget, error)
}

// EventMarker deduplicates redelivered transaction events.
type EventMarker interface {
	IsProcessed(ctx context.Context, eventID string) bool
	MarkProcessed(ctx context.Context, eventID string)
}

// EventPublisher appends events to a stream. Publish failures are logged,
// never returned; the spent adjustment already committed.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// BudgetCommandService writes budget state and keeps spent amounts current
// by consuming the transaction event stream.
type BudgetCommandService struct {
	store     BudgetStore
	marker    EventMarker
	publisher EventPublisher
}

func NewBudgetCommandService(store BudgetStore, marker EventMarker, publisher EventPublisher) *BudgetCommandService {
	return &BudgetCommandService{store: store, marker: marker, publisher: publisher}
}

func (s *BudgetCommandService) CreateBudget(cmd cqrs.CreateBudgetCommand) (*models.Budget, error) {
	if cmd.LimitAmount < 0 {
		return nil, fmt.Errorf("budget amount must not be negative")
	}
	if cmd.EndDate.Before(cmd.StartDate) {
		return nil, fmt.Errorf("end date must not be before start date")
	}

	budget := &models.Budget{
		ID:          utils.GenerateID("bgt"),
		UserID:      cmd.UserID,
		Category:    cmd.Category,
		LimitAmount: cmd.LimitAmount,
		SpentAmount: 0,
		Period:      cmd.Period,
		StartDate:   cmd.StartDate,
		EndDate:     cmd.EndDate,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.store.Create(budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *BudgetCommandService) DeleteBudget(cmd cqrs.DeleteBudgetCommand) error {
	return s.store.Delete(cmd.BudgetID)
}

// DeleteUserBudgets bulk-deletes a user's budgets, optionally scoped to a
// category. The unscoped form is the cascade endpoint; it succeeds on an
// empty set.
func (s *BudgetCommandService) DeleteUserBudgets(cmd cqrs.DeleteUserBudgetsCommand) (int64, error) {
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
	log.Printf("Deleted %d budgets for user %s", deleted, cmd.UserID)
	return deleted, nil
}

// HandleTransactionEvent is the transaction stream subscriber handler. An
// EXPENSE creation raises the matching budget's spent amount; an EXPENSE
// deletion lowers it. Duplicate deliveries are detected via the marker and
// skipped.
func (s *BudgetCommandService) HandleTransactionEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TransactionCreated:
		dataBytes, _ := json.Marshal(event.Data)
		var data events.TransactionCreatedEvent
		if err := json.Unmarshal(dataBytes, &data); err != nil {
			return fmt.Errorf("failed to unmarshal transaction.created event: %w", err)
		}
		return s.applySpentChange(ctx, "created:"+data.TransactionID, data.UserID, data.Category, data.Type, data.Amount)

	case events.TransactionDeleted:
		dataBytes, _ := json.Marshal(event.Data)
		var data events.TransactionDeletedEvent
		if err := json.Unmarshal(dataBytes, &data); err != nil {
			return fmt.Errorf("failed to unmarshal transaction.deleted event: %w", err)
		}
		return s.applySpentChange(ctx, "deleted:"+data.TransactionID, data.UserID, data.Category, data.Type, -data.Amount)
	}
	return nil
}

func (s *BudgetCommandService) applySpentChange(ctx context.Context, eventID, userID, category, txType string, delta float64) error {
	if txType != models.TransactionExpense {
		return nil
	}
	if s.marker.IsProcessed(ctx, eventID) {
		log.Printf("Transaction event %s already processed, skipping", eventID)
		return nil
	}
	updated, err := s.store.AdjustSpent(userID, category, delta)
	if err != nil {
		return fmt.Errorf("failed to apply spent change: %w", err)
	}
	s.marker.MarkProcessed(ctx, eventID)
	log.Printf("Adjusted spent for user %s category %s by %.2f", userID, category, delta)

	for _, b := range updated {
		s.publishSpentUpdated(ctx, b)
	}
	return nil
}

func (s *BudgetCommandService) publishSpentUpdated(ctx context.Context, b models.Budget) {
	err := s.publisher.Publish(ctx, events.BudgetEventsStream, events.BudgetSpentUpdated, events.BudgetSpentUpdatedEvent{
		BudgetID:  b.ID,
		UserID:    b.UserID,
		Category:  b.Category,
		NewSpent:  b.SpentAmount,
		NewStatus: budget.Status(b.SpentAmount, b.LimitAmount),
	})
	if err != nil {
		log.Printf("Failed to publish budget.spent.updated event: %v", err)
	}
}

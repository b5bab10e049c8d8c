package command

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/events"
)

// Cascade step names, reported inside CascadeDeleteError.
const (
	StepTransactions = "transactions"
	StepBudgets      = "budgets"
	StepAccount      = "account"
)

// ErrDeleteInProgress is returned when a cascade delete for the same user
// is already running.
var ErrDeleteInProgress = errors.New("delete already in progress for user")

// TransactionEraser is the slice of the transaction service the cascade
// needs: how many ledger records a user has, and bulk removal of all of them.
type TransactionEraser interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

// BudgetEraser is the budget-service counterpart of TransactionEraser.
type BudgetEraser interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

// CascadeDeleteError reports which step of a cascading delete failed. Steps
// already completed stay deleted; there is no compensation, so the caller
// retries the whole operation and completed steps fall through as no-ops.
type CascadeDeleteError struct {
	UserID string
	Step   string
	Err    error
}

func (e *CascadeDeleteError) Error() string {
	return fmt.Sprintf("cascade delete for user %s failed at %s step: %v", e.UserID, e.Step, e.Err)
}

func (e *CascadeDeleteError) Unwrap() error {
	return e.Err
}

// DeleteUser removes a user and all dependent records, in dependency order:
// transactions first, then budgets, then the account row. Each bulk step is
// skipped when the user has no records of that kind, and the account row is
// only touched after both dependent stores report success.
//
// Only one cascade per user may run at a time; a second call while one is
// in flight fails fast with ErrDeleteInProgress.
func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	if !s.acquire(cmd.UserID) {
		return ErrDeleteInProgress
	}
	defer s.release(cmd.UserID)

	if _, err := s.store.GetByID(cmd.UserID); err != nil {
		return err
	}

	if err := s.eraseStep(ctx, cmd.UserID, StepTransactions, s.ledger); err != nil {
		return err
	}
	if err := s.eraseStep(ctx, cmd.UserID, StepBudgets, s.budgets); err != nil {
		return err
	}

	if err := s.store.Delete(cmd.UserID); err != nil {
		return &CascadeDeleteError{UserID: cmd.UserID, Step: StepAccount, Err: err}
	}
	s.views.Invalidate(ctx, cmd.UserID)

	s.publish(events.UserEventsStream, events.UserDeleted, events.UserDeletedEvent{
		UserID: cmd.UserID,
	})
	return nil
}

type eraser interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

// eraseStep deletes all of a user's records in one downstream store. A user
// with nothing to delete never triggers the bulk call at all.
func (s *UserCommandService) eraseStep(ctx context.Context, userID, step string, store eraser) error {
	count, err := store.CountByUser(ctx, userID)
	if err != nil {
		return &CascadeDeleteError{UserID: userID, Step: step, Err: err}
	}
	if count == 0 {
		return nil
	}

	deleted, err := store.DeleteAllByUser(ctx, userID)
	if err != nil {
		return &CascadeDeleteError{UserID: userID, Step: step, Err: err}
	}
	log.Printf("cascade delete: removed %d %s for user %s", deleted, step, userID)
	return nil
}

func (s *UserCommandService) acquire(userID string) bool {
	s.inFlightMux.Lock()
	defer s.inFlightMux.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *UserCommandService) release(userID string) {
	s.inFlightMux.Lock()
	defer s.inFlightMux.Unlock()
	delete(s.inFlight, userID)
}

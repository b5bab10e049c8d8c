package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/events"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/shared/utils"
	"github.com/Sarthak8822/Finance/internal/user/repository"
)

var (
	// ErrInvalidCredentials covers both unknown identifiers and wrong
	// passwords so login failures are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned when a deactivated account tries to
	// log in.
	ErrAccountDisabled = errors.New("account is deactivated")
)

// UserStore is the write-side persistence surface the command service needs.
type UserStore interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsernameOrEmail(identifier string) (*models.User, error)
	Update(user *models.User) error
	SetActive(id string, active bool) error
	Delete(id string) error
}

// ViewInvalidator drops a user's cached read projection after a write.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// UserCommandService owns every state change to a user account, including
// the cascading delete that spans the transaction and budget services.
type UserCommandService struct {
	store       UserStore
	views       ViewInvalidator
	publisher   *events.Publisher
	ledger      TransactionEraser
	budgets     BudgetEraser
	inFlight    map[string]struct{}
	inFlightMux sync.Mutex
}

func NewUserCommandService(
	store UserStore,
	views ViewInvalidator,
	publisher *events.Publisher,
	ledger TransactionEraser,
	budgets BudgetEraser,
) *UserCommandService {
	return &UserCommandService{
		store:     store,
		views:     views,
		publisher: publisher,
		ledger:    ledger,
		budgets:   budgets,
		inFlight:  make(map[string]struct{}),
	}
}

func (s *UserCommandService) RegisterUser(cmd cqrs.RegisterUserCommand) (*models.User, error) {
	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: hash,
		FullName:     cmd.FullName,
		PhoneNumber:  cmd.PhoneNumber,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(user); err != nil {
		return nil, err
	}

	s.publish(events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	return user, nil
}

// Authenticate checks credentials against either username or email and
// returns the matching user. Disabled accounts cannot log in.
func (s *UserCommandService) Authenticate(cmd cqrs.LoginCommand) (*models.User, error) {
	user, err := s.store.GetByUsernameOrEmail(cmd.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserCommandService) UpdateUser(cmd cqrs.UpdateUserCommand) (*models.User, error) {
	user, err := s.store.GetByID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Username != "" {
		user.Username = cmd.Username
	}
	if cmd.Email != "" {
		user.Email = cmd.Email
	}
	if cmd.FullName != "" {
		user.FullName = cmd.FullName
	}
	if cmd.PhoneNumber != "" {
		user.PhoneNumber = cmd.PhoneNumber
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(user); err != nil {
		return nil, err
	}
	s.views.Invalidate(context.Background(), user.ID)

	s.publish(events.UserEventsStream, events.UserUpdated, events.UserUpdatedEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	return user, nil
}

// SetUserActive soft-disables or re-enables an account. Dependent records
// stay untouched either way.
func (s *UserCommandService) SetUserActive(cmd cqrs.SetUserActiveCommand) error {
	if err := s.store.SetActive(cmd.UserID, cmd.IsActive); err != nil {
		return err
	}
	s.views.Invalidate(context.Background(), cmd.UserID)

	eventType := events.UserDeactivated
	if cmd.IsActive {
		eventType = events.UserReactivated
	}
	s.publish(events.UserEventsStream, eventType, events.UserStatusEvent{
		UserID:   cmd.UserID,
		IsActive: cmd.IsActive,
	})
	return nil
}

func (s *UserCommandService) publish(stream, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.Background(), stream, eventType, data); err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}

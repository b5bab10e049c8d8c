package query

import (
	"context"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/user/repository"
)

// UserQueryService serves user projections, cache-first.
type UserQueryService struct {
	readRepo *repository.UserReadRepository
}

func NewUserQueryService(readRepo *repository.UserReadRepository) *UserQueryService {
	return &UserQueryService{readRepo: readRepo}
}

func (s *UserQueryService) GetUser(q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.readRepo.GetView(context.Background(), q.UserID)
}

func (s *UserQueryService) GetUserByUsername(q cqrs.GetUserByUsernameQuery) (*models.UserView, error) {
	return s.readRepo.GetViewByUsername(context.Background(), q.Username)
}

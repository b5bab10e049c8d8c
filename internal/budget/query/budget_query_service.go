package query

import (
	"github.com/Sarthak8822/Finance/internal/budget"
	"github.com/Sarthak8822/Finance/internal/budget/repository"
	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/models"
)

// BudgetQueryService serves budget reads, attaching the derived fields
// (remaining amount and threshold status) the write model doesn't store.
type BudgetQueryService struct {
	repo *repository.BudgetRepository
}

func NewBudgetQueryService(repo *repository.BudgetRepository) *BudgetQueryService {
	return &BudgetQueryService{repo: repo}
}

func (s *BudgetQueryService) ListBudgets(q cqrs.ListBudgetsQuery) ([]models.BudgetView, error) {
	budgets, err := s.repo.ListByUser(q.UserID)
	if err != nil {
		return nil, err
	}

	views := make([]models.BudgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, budgetToView(&b))
	}
	return views, nil
}

func budgetToView(b *models.Budget) models.BudgetView {
	return models.BudgetView{
		ID:              b.ID,
		UserID:          b.UserID,
		Category:        b.Category,
		LimitAmount:     b.LimitAmount,
		SpentAmount:     b.SpentAmount,
		RemainingAmount: b.LimitAmount - b.SpentAmount,
		Period:          b.Period,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Status:          budget.Status(b.SpentAmount, b.LimitAmount),
	}
}

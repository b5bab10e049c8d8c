package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Sarthak8822/Finance/internal/budget/repository"
	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// BudgetCommander defines the write-side operations used by BudgetHandler.
type BudgetCommander interface {
	CreateBudget(cqrs.CreateBudgetCommand) (*models.Budget, error)
	DeleteBudget(cqrs.DeleteBudgetCommand) error
	DeleteUserBudgets(cqrs.DeleteUserBudgetsCommand) (int64, error)
}

// BudgetQuerier defines the read-side operations used by BudgetHandler.
type BudgetQuerier interface {
	ListBudgets(cqrs.ListBudgetsQuery) ([]models.BudgetView, error)
}

type BudgetHandler struct {
	commands BudgetCommander
	queries  BudgetQuerier
}

type CreateBudgetRequest struct {
	UserID       string  `json:"userId" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	BudgetAmount float64 `json:"budgetAmount" validate:"gte=0"`
	Period       string  `json:"period" validate:"required,oneof=WEEKLY MONTHLY YEARLY"`
	StartDate    string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string  `json:"endDate" validate:"required,datetime=2006-01-02"`
}

func NewBudgetHandler(commands BudgetCommander, queries BudgetQuerier) *BudgetHandler {
	return &BudgetHandler{commands: commands, queries: queries}
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)

	budget, err := h.commands.CreateBudget(cqrs.CreateBudgetCommand{
		UserID:      req.UserID,
		Category:    req.Category,
		LimitAmount: req.BudgetAmount,
		Period:      req.Period,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	views, err := h.queries.ListBudgets(cqrs.ListBudgetsQuery{
		UserID: c.Param("userId"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	err := h.commands.DeleteBudget(cqrs.DeleteBudgetCommand{
		BudgetID: c.Param("budgetId"),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Budget not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete budget")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// DeleteAllByUser is the bulk endpoint the user-service cascade calls.
// Idempotent: a user with no budgets reports zero deletions.
func (h *BudgetHandler) DeleteAllByUser(c *gin.Context) {
	deleted, err := h.commands.DeleteUserBudgets(cqrs.DeleteUserBudgetsCommand{
		UserID: c.Param("userId"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete budgets")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "All budgets deleted successfully",
		"deletedCount": deleted,
	})
}

func (h *BudgetHandler) DeleteByCategory(c *gin.Context) {
	deleted, err := h.commands.DeleteUserBudgets(cqrs.DeleteUserBudgetsCommand{
		UserID:   c.Param("userId"),
		Category: c.Param("category"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete budgets")
		return
	}
	if deleted == 0 {
		middleware.RespondWithError(c, http.StatusNotFound, "No budgets found for category")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Budgets deleted successfully",
		"deletedCount": deleted,
	})
}

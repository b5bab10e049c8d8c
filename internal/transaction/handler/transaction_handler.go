package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/transaction/repository"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(cqrs.CreateTransactionCommand) (*models.Transaction, error)
	UpdateTransaction(cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	DeleteTransaction(cqrs.DeleteTransactionCommand) error
	DeleteUserTransactions(cqrs.DeleteUserTransactionsCommand) (int64, error)
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	ListTransactions(cqrs.ListTransactionsQuery) ([]models.Transaction, error)
	GetSummary(cqrs.GetTransactionSummaryQuery) (*models.TransactionSummary, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

type TransactionRequest struct {
	UserID          string  `json:"userId" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	Type            string  `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Category        string  `json:"category" validate:"required"`
	Description     string  `json:"description"`
	TransactionDate string  `json:"transactionDate" validate:"required,datetime=2006-01-02"`
	PaymentMethod   string  `json:"paymentMethod" validate:"omitempty,oneof=CASH CREDIT_CARD DEBIT_CARD UPI NET_BANKING OTHER"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	date, _ := time.Parse(dateLayout, req.TransactionDate)

	transaction, err := h.commands.CreateTransaction(cqrs.CreateTransactionCommand{
		UserID:        req.UserID,
		Amount:        req.Amount,
		Type:          req.Type,
		Category:      req.Category,
		Description:   req.Description,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{
		UserID: c.Param("userId"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) ListTransactionsByType(c *gin.Context) {
	txType := c.Param("type")
	if txType != models.TransactionIncome && txType != models.TransactionExpense {
		middleware.RespondWithError(c, http.StatusBadRequest, "Type must be INCOME or EXPENSE")
		return
	}

	transactions, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{
		UserID: c.Param("userId"),
		Type:   txType,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) ListTransactionsByDateRange(c *gin.Context) {
	start, err := time.Parse(dateLayout, c.Query("startDate"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "startDate must be in YYYY-MM-DD format")
		return
	}
	end, err := time.Parse(dateLayout, c.Query("endDate"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "endDate must be in YYYY-MM-DD format")
		return
	}

	transactions, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{
		UserID:    c.Param("userId"),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetSummary(c *gin.Context) {
	summary, err := h.queries.GetSummary(cqrs.GetTransactionSummaryQuery{
		UserID: c.Param("userId"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to compute summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	date, _ := time.Parse(dateLayout, req.TransactionDate)

	transaction, err := h.commands.UpdateTransaction(cqrs.UpdateTransactionCommand{
		TransactionID: c.Param("transactionId"),
		UserID:        req.UserID,
		Amount:        req.Amount,
		Type:          req.Type,
		Category:      req.Category,
		Description:   req.Description,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	err := h.commands.DeleteTransaction(cqrs.DeleteTransactionCommand{
		TransactionID: c.Param("transactionId"),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// DeleteAllByUser is the bulk endpoint the user-service cascade calls.
// Idempotent: deleting a user with no transactions reports zero deletions.
func (h *TransactionHandler) DeleteAllByUser(c *gin.Context) {
	deleted, err := h.commands.DeleteUserTransactions(cqrs.DeleteUserTransactionsCommand{
		UserID: c.Param("userId"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete transactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "All transactions deleted successfully",
		"deletedCount": deleted,
	})
}

func (h *TransactionHandler) DeleteByCategory(c *gin.Context) {
	deleted, err := h.commands.DeleteUserTransactions(cqrs.DeleteUserTransactionsCommand{
		UserID:   c.Param("userId"),
		Category: c.Param("category"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete transactions")
		return
	}
	if deleted == 0 {
		middleware.RespondWithError(c, http.StatusNotFound, "No transactions found for category")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Transactions deleted successfully",
		"deletedCount": deleted,
	})
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/transaction/repository"
	"github.com/gin-gonic/gin"
)

// ---- mock implementations ----

type mockTransactionCommander struct {
	createFn     func(cqrs.CreateTransactionCommand) (*models.Transaction, error)
	updateFn     func(cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	deleteFn     func(cqrs.DeleteTransactionCommand) error
	deleteUserFn func(cqrs.DeleteUserTransactionsCommand) (int64, error)
}

func (m *mockTransactionCommander) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockTransactionCommander) UpdateTransaction(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockTransactionCommander) DeleteTransaction(cmd cqrs.DeleteTransactionCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return fmt.Errorf("not configured")
}
func (m *mockTransactionCommander) DeleteUserTransactions(cmd cqrs.DeleteUserTransactionsCommand) (int64, error) {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(cmd)
	}
	return 0, fmt.Errorf("not configured")
}

type mockTransactionQuerier struct {
	listFn    func(cqrs.ListTransactionsQuery) ([]models.Transaction, error)
	summaryFn func(cqrs.GetTransactionSummaryQuery) (*models.TransactionSummary, error)
}

func (m *mockTransactionQuerier) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.Transaction, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockTransactionQuerier) GetSummary(q cqrs.GetTransactionSummaryQuery) (*models.TransactionSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newTransactionTestRouter(cmds TransactionCommander, qrys TransactionQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTransactionHandler(cmds, qrys)
	api := r.Group("/api/transactions")
	api.POST("", h.CreateTransaction)
	api.GET("/user/:userId", h.ListTransactions)
	api.GET("/user/:userId/type/:type", h.ListTransactionsByType)
	api.GET("/user/:userId/summary", h.GetSummary)
	api.GET("/user/:userId/date-range", h.ListTransactionsByDateRange)
	api.PUT("/:transactionId", h.UpdateTransaction)
	api.DELETE("/:transactionId", h.DeleteTransaction)
	api.DELETE("/user/:userId/all", h.DeleteAllByUser)
	api.DELETE("/user/:userId/category/:category", h.DeleteByCategory)
	return r
}

func txDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var testTransaction = &models.Transaction{
	ID: "txn-001", UserID: "usr-001", Amount: 250.0,
	Type: "EXPENSE", Category: "Food",
	Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), CreatedAt: time.Now(),
}

func validTransactionBody() map[string]interface{} {
	return map[string]interface{}{
		"userId": "usr-001", "amount": 250.0, "type": "EXPENSE",
		"category": "Food", "transactionDate": "2024-01-15", "paymentMethod": "UPI",
	}
}

// ---- tests ----

func TestCreateTransaction(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(cqrs.CreateTransactionCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name:           "success - creates transaction",
			body:           validTransactionBody(),
			createFn:       func(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) { return testTransaction, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing required fields",
			body:           map[string]interface{}{"userId": "usr-001"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - invalid type",
			body: map[string]interface{}{
				"userId": "usr-001", "amount": 10.0, "type": "TRANSFER",
				"category": "Food", "transactionDate": "2024-01-15",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - malformed date",
			body: map[string]interface{}{
				"userId": "usr-001", "amount": 10.0, "type": "EXPENSE",
				"category": "Food", "transactionDate": "15/01/2024",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "internal error - store failure",
			body:           validTransactionBody(),
			createFn:       func(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) { return nil, fmt.Errorf("db down") },
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransactionCommander{createFn: tt.createFn}
			router := newTransactionTestRouter(cmds, &mockTransactionQuerier{})
			w := txDoRequest(router, http.MethodPost, "/api/transactions", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListTransactions(t *testing.T) {
	router := newTransactionTestRouter(&mockTransactionCommander{}, &mockTransactionQuerier{
		listFn: func(q cqrs.ListTransactionsQuery) ([]models.Transaction, error) {
			if q.UserID != "usr-001" {
				t.Errorf("expected query for usr-001, got %s", q.UserID)
			}
			return []models.Transaction{*testTransaction}, nil
		},
	})
	w := txDoRequest(router, http.MethodGet, "/api/transactions/user/usr-001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got []models.Transaction
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].ID != "txn-001" {
		t.Errorf("unexpected transactions: %+v", got)
	}
}

func TestListTransactionsByType(t *testing.T) {
	tests := []struct {
		name           string
		txType         string
		expectedStatus int
	}{
		{name: "income", txType: "INCOME", expectedStatus: http.StatusOK},
		{name: "expense", txType: "EXPENSE", expectedStatus: http.StatusOK},
		{name: "invalid type", txType: "TRANSFER", expectedStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransactionTestRouter(&mockTransactionCommander{}, &mockTransactionQuerier{
				listFn: func(q cqrs.ListTransactionsQuery) ([]models.Transaction, error) {
					return []models.Transaction{}, nil
				},
			})
			w := txDoRequest(router, http.MethodGet, "/api/transactions/user/usr-001/type/"+tt.txType, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d", tt.name, tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestGetSummary(t *testing.T) {
	router := newTransactionTestRouter(&mockTransactionCommander{}, &mockTransactionQuerier{
		summaryFn: func(q cqrs.GetTransactionSummaryQuery) (*models.TransactionSummary, error) {
			return &models.TransactionSummary{TotalIncome: 1000, TotalExpense: 400, Balance: 600, TotalTransactions: 7}, nil
		},
	})
	w := txDoRequest(router, http.MethodGet, "/api/transactions/user/usr-001/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got models.TransactionSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Balance != 600 {
		t.Errorf("expected balance 600, got %v", got.Balance)
	}
}

func TestDeleteTransaction(t *testing.T) {
	tests := []struct {
		name           string
		deleteFn       func(cqrs.DeleteTransactionCommand) error
		expectedStatus int
	}{
		{
			name:           "success",
			deleteFn:       func(cmd cqrs.DeleteTransactionCommand) error { return nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			deleteFn:       func(cmd cqrs.DeleteTransactionCommand) error { return repository.ErrNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransactionCommander{deleteFn: tt.deleteFn}
			router := newTransactionTestRouter(cmds, &mockTransactionQuerier{})
			w := txDoRequest(router, http.MethodDelete, "/api/transactions/txn-001", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d", tt.name, tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestDeleteAllByUser(t *testing.T) {
	tests := []struct {
		name           string
		deleteUserFn   func(cqrs.DeleteUserTransactionsCommand) (int64, error)
		expectedStatus int
	}{
		{
			name:           "success with rows",
			deleteUserFn:   func(cmd cqrs.DeleteUserTransactionsCommand) (int64, error) { return 5, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "success on empty set - idempotent",
			deleteUserFn:   func(cmd cqrs.DeleteUserTransactionsCommand) (int64, error) { return 0, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "store failure",
			deleteUserFn:   func(cmd cqrs.DeleteUserTransactionsCommand) (int64, error) { return 0, fmt.Errorf("db down") },
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransactionCommander{deleteUserFn: tt.deleteUserFn}
			router := newTransactionTestRouter(cmds, &mockTransactionQuerier{})
			w := txDoRequest(router, http.MethodDelete, "/api/transactions/user/usr-001/all", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteByCategory(t *testing.T) {
	tests := []struct {
		name           string
		deleteUserFn   func(cqrs.DeleteUserTransactionsCommand) (int64, error)
		expectedStatus int
	}{
		{
			name:           "success",
			deleteUserFn:   func(cmd cqrs.DeleteUserTransactionsCommand) (int64, error) { return 2, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "nothing in category",
			deleteUserFn:   func(cmd cqrs.DeleteUserTransactionsCommand) (int64, error) { return 0, nil },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransactionCommander{deleteUserFn: tt.deleteUserFn}
			router := newTransactionTestRouter(cmds, &mockTransactionQuerier{})
			w := txDoRequest(router, http.MethodDelete, "/api/transactions/user/usr-001/category/Food", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d", tt.name, tt.expectedStatus, w.Code)
			}
		})
	}
}

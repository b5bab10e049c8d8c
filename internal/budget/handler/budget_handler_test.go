package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sarthak8822/Finance/internal/budget/repository"
	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/gin-gonic/gin"
)

// ---- mock implementations ----

type mockBudgetCommander struct {
	createFn     func(cqrs.CreateBudgetCommand) (*models.Budget, error)
	deleteFn     func(cqrs.DeleteBudgetCommand) error
	deleteUserFn func(cqrs.DeleteUserBudgetsCommand) (int64, error)
}

func (m *mockBudgetCommander) CreateBudget(cmd cqrs.CreateBudgetCommand) (*models.Budget, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBudgetCommander) DeleteBudget(cmd cqrs.DeleteBudgetCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return fmt.Errorf("not configured")
}
func (m *mockBudgetCommander) DeleteUserBudgets(cmd cqrs.DeleteUserBudgetsCommand) (int64, error) {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(cmd)
	}
	return 0, fmt.Errorf("not configured")
}

type mockBudgetQuerier struct {
	listFn func(cqrs.ListBudgetsQuery) ([]models.BudgetView, error)
}

func (m *mockBudgetQuerier) ListBudgets(q cqrs.ListBudgetsQuery) ([]models.BudgetView, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newBudgetTestRouter(cmds BudgetCommander, qrys BudgetQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBudgetHandler(cmds, qrys)
	api := r.Group("/api/budgets")
	api.POST("", h.CreateBudget)
	api.GET("/user/:userId", h.ListBudgets)
	api.DELETE("/:budgetId", h.DeleteBudget)
	api.DELETE("/user/:userId/all", h.DeleteAllByUser)
	api.DELETE("/user/:userId/category/:category", h.DeleteByCategory)
	return r
}

func budgetDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
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

var testBudget = &models.Budget{
	ID: "bgt-001", UserID: "usr-001", Category: "Food",
	LimitAmount: 500, SpentAmount: 0, Period: "MONTHLY",
	StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
}

func validBudgetBody() map[string]interface{} {
	return map[string]interface{}{
		"userId": "usr-001", "category": "Food", "budgetAmount": 500.0,
		"period": "MONTHLY", "startDate": "2024-01-01", "endDate": "2024-01-31",
	}
}

// ---- tests ----

func TestCreateBudget(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(cqrs.CreateBudgetCommand) (*models.Budget, error)
		expectedStatus int
	}{
		{
			name:           "success - creates budget",
			body:           validBudgetBody(),
			createFn:       func(cmd cqrs.CreateBudgetCommand) (*models.Budget, error) { return testBudget, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing fields",
			body:           map[string]interface{}{"userId": "usr-001"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - unknown period",
			body: map[string]interface{}{
				"userId": "usr-001", "category": "Food", "budgetAmount": 500.0,
				"period": "DAILY", "startDate": "2024-01-01", "endDate": "2024-01-31",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - dates reversed",
			body: map[string]interface{}{
				"userId": "usr-001", "category": "Food", "budgetAmount": 500.0,
				"period": "MONTHLY", "startDate": "2024-01-31", "endDate": "2024-01-01",
			},
			createFn: func(cmd cqrs.CreateBudgetCommand) (*models.Budget, error) {
				return nil, fmt.Errorf("end date must not be before start date")
			},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockBudgetCommander{createFn: tt.createFn}
			router := newBudgetTestRouter(cmds, &mockBudgetQuerier{})
			w := budgetDoRequest(router, http.MethodPost, "/api/budgets", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListBudgets(t *testing.T) {
	router := newBudgetTestRouter(&mockBudgetCommander{}, &mockBudgetQuerier{
		listFn: func(q cqrs.ListBudgetsQuery) ([]models.BudgetView, error) {
			return []models.BudgetView{{
				ID: "bgt-001", UserID: q.UserID, Category: "Food",
				LimitAmount: 500, SpentAmount: 400, RemainingAmount: 100, Status: "WARNING",
			}}, nil
		},
	})
	w := budgetDoRequest(router, http.MethodGet, "/api/budgets/user/usr-001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got []models.BudgetView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].Status != "WARNING" {
		t.Errorf("unexpected budgets: %+v", got)
	}
}

func TestDeleteBudget(t *testing.T) {
	tests := []struct {
		name           string
		deleteFn       func(cqrs.DeleteBudgetCommand) error
		expectedStatus int
	}{
		{
			name:           "success",
			deleteFn:       func(cmd cqrs.DeleteBudgetCommand) error { return nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			deleteFn:       func(cmd cqrs.DeleteBudgetCommand) error { return repository.ErrNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockBudgetCommander{deleteFn: tt.deleteFn}
			router := newBudgetTestRouter(cmds, &mockBudgetQuerier{})
			w := budgetDoRequest(router, http.MethodDelete, "/api/budgets/bgt-001", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d", tt.name, tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestDeleteAllBudgetsByUser(t *testing.T) {
	tests := []struct {
		name           string
		deleteUserFn   func(cqrs.DeleteUserBudgetsCommand) (int64, error)
		expectedStatus int
	}{
		{
			name:           "success with rows",
			deleteUserFn:   func(cmd cqrs.DeleteUserBudgetsCommand) (int64, error) { return 3, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "success on empty set - idempotent",
			deleteUserFn:   func(cmd cqrs.DeleteUserBudgetsCommand) (int64, error) { return 0, nil },
			expectedStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockBudgetCommander{deleteUserFn: tt.deleteUserFn}
			router := newBudgetTestRouter(cmds, &mockBudgetQuerier{})
			w := budgetDoRequest(router, http.MethodDelete, "/api/budgets/user/usr-001/all", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d", tt.name, tt.expectedStatus, w.Code)
			}
		})
	}
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/shared/token"
	"github.com/Sarthak8822/Finance/internal/user/command"
	"github.com/Sarthak8822/Finance/internal/user/repository"
	"github.com/gin-gonic/gin"
)

// ---- mock implementations ----

type mockUserCommander struct {
	registerFn  func(cqrs.RegisterUserCommand) (*models.User, error)
	authFn      func(cqrs.LoginCommand) (*models.User, error)
	updateFn    func(cqrs.UpdateUserCommand) (*models.User, error)
	setActiveFn func(cqrs.SetUserActiveCommand) error
	deleteFn    func(context.Context, cqrs.DeleteUserCommand) error
}

func (m *mockUserCommander) RegisterUser(cmd cqrs.RegisterUserCommand) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserCommander) Authenticate(cmd cqrs.LoginCommand) (*models.User, error) {
	if m.authFn != nil {
		return m.authFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserCommander) UpdateUser(cmd cqrs.UpdateUserCommand) (*models.User, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserCommander) SetUserActive(cmd cqrs.SetUserActiveCommand) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(cmd)
	}
	return fmt.Errorf("not configured")
}
func (m *mockUserCommander) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, cmd)
	}
	return fmt.Errorf("not configured")
}

type mockUserQuerier struct {
	getFn           func(cqrs.GetUserQuery) (*models.UserView, error)
	getByUsernameFn func(cqrs.GetUserByUsernameQuery) (*models.UserView, error)
}

func (m *mockUserQuerier) GetUser(q cqrs.GetUserQuery) (*models.UserView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserQuerier) GetUserByUsername(q cqrs.GetUserByUsernameQuery) (*models.UserView, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newUserTestRouter(cmds UserCommander, qrys UserQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(cmds, qrys, token.New("test-secret", time.Hour))
	api := r.Group("/api/users")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.GET("/:userId", h.GetUser)
	api.GET("/username/:username", h.GetUserByUsername)
	api.PUT("/:userId", h.UpdateUser)
	api.PUT("/:userId/deactivate", h.DeactivateUser)
	api.PUT("/:userId/reactivate", h.ReactivateUser)
	api.DELETE("/:userId", h.DeleteUser)
	return r
}

func userDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
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

var testUser = &models.User{
	ID: "usr-001", Username: "ankit", Email: "ankit@example.com",
	FullName: "Ankit Sharma", IsActive: true,
}

// ---- tests ----

func TestRegister(t *testing.T) {
	validBody := map[string]interface{}{
		"username": "ankit", "email": "ankit@example.com",
		"password": "s3cretpass", "fullName": "Ankit Sharma",
	}

	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(cqrs.RegisterUserCommand) (*models.User, error)
		expectedStatus int
	}{
		{
			name:           "success",
			body:           validBody,
			registerFn:     func(cmd cqrs.RegisterUserCommand) (*models.User, error) { return testUser, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - short password",
			body:           map[string]interface{}{"username": "ankit", "email": "a@b.com", "password": "short", "fullName": "A"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - invalid email",
			body:           map[string]interface{}{"username": "ankit", "email": "not-an-email", "password": "s3cretpass", "fullName": "A"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "conflict - username taken",
			body: validBody,
			registerFn: func(cmd cqrs.RegisterUserCommand) (*models.User, error) {
				return nil, repository.ErrUsernameTaken
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "conflict - email taken",
			body: validBody,
			registerFn: func(cmd cqrs.RegisterUserCommand) (*models.User, error) {
				return nil, repository.ErrEmailTaken
			},
			expectedStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{registerFn: tt.registerFn}, &mockUserQuerier{})
			w := userDoRequest(router, http.MethodPost, "/api/users/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		authFn         func(cqrs.LoginCommand) (*models.User, error)
		expectedStatus int
		expectToken    bool
	}{
		{
			name:           "success - returns token",
			authFn:         func(cmd cqrs.LoginCommand) (*models.User, error) { return testUser, nil },
			expectedStatus: http.StatusOK,
			expectToken:    true,
		},
		{
			name: "unauthorized - bad credentials",
			authFn: func(cmd cqrs.LoginCommand) (*models.User, error) {
				return nil, command.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unauthorized - deactivated account",
			authFn: func(cmd cqrs.LoginCommand) (*models.User, error) {
				return nil, command.ErrAccountDisabled
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{authFn: tt.authFn}, &mockUserQuerier{})
			w := userDoRequest(router, http.MethodPost, "/api/users/login", map[string]string{
				"usernameOrEmail": "ankit", "password": "s3cretpass",
			})
			if w.Code != tt.expectedStatus {
				t.Fatalf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectToken {
				var resp struct {
					Token string      `json:"token"`
					User  models.User `json:"user"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to decode login response: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected a signed token in the response")
				}

				// The issued token must round-trip through validation.
				subject, err := token.New("test-secret", time.Hour).Validate(resp.Token)
				if err != nil {
					t.Fatalf("issued token failed validation: %v", err)
				}
				if subject != testUser.Username {
					t.Errorf("expected token subject %q, got %q", testUser.Username, subject)
				}
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	router := newUserTestRouter(&mockUserCommander{}, &mockUserQuerier{
		getFn: func(q cqrs.GetUserQuery) (*models.UserView, error) {
			if q.UserID != "usr-001" {
				return nil, repository.ErrNotFound
			}
			return &models.UserView{ID: "usr-001", Username: "ankit"}, nil
		},
	})

	w := userDoRequest(router, http.MethodGet, "/api/users/usr-001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("user view must never expose password data")
	}

	w = userDoRequest(router, http.MethodGet, "/api/users/usr-missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	tests := []struct {
		name           string
		deleteFn       func(context.Context, cqrs.DeleteUserCommand) error
		expectedStatus int
	}{
		{
			name:           "success",
			deleteFn:       func(ctx context.Context, cmd cqrs.DeleteUserCommand) error { return nil },
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			deleteFn: func(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
				return repository.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "conflict - delete already running",
			deleteFn: func(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
				return command.ErrDeleteInProgress
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "internal error - ledger step failed",
			deleteFn: func(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
				return &command.CascadeDeleteError{
					UserID: cmd.UserID,
					Step:   command.StepTransactions,
					Err:    fmt.Errorf("transaction service unavailable"),
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{deleteFn: tt.deleteFn}, &mockUserQuerier{})
			w := userDoRequest(router, http.MethodDelete, "/api/users/usr-001", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			// The response never reveals which cascade step failed.
			if strings.Contains(w.Body.String(), "transactions") || strings.Contains(w.Body.String(), "unavailable") {
				t.Errorf("[%s] response leaks cascade detail: %s", tt.name, w.Body.String())
			}
		})
	}
}

func TestDeactivateReactivate(t *testing.T) {
	var got []cqrs.SetUserActiveCommand
	router := newUserTestRouter(&mockUserCommander{
		setActiveFn: func(cmd cqrs.SetUserActiveCommand) error {
			got = append(got, cmd)
			return nil
		},
	}, &mockUserQuerier{})

	w := userDoRequest(router, http.MethodPut, "/api/users/usr-001/deactivate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("deactivate: expected status 200, got %d", w.Code)
	}
	w = userDoRequest(router, http.MethodPut, "/api/users/usr-001/reactivate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reactivate: expected status 200, got %d", w.Code)
	}

	if len(got) != 2 || got[0].IsActive || !got[1].IsActive {
		t.Errorf("unexpected commands: %+v", got)
	}
}

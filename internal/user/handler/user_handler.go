package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/Sarthak8822/Finance/internal/shared/cqrs"
	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/shared/token"
	"github.com/Sarthak8822/Finance/internal/user/command"
	"github.com/Sarthak8822/Finance/internal/user/repository"
	"github.com/gin-gonic/gin"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	RegisterUser(cqrs.RegisterUserCommand) (*models.User, error)
	Authenticate(cqrs.LoginCommand) (*models.User, error)
	UpdateUser(cqrs.UpdateUserCommand) (*models.User, error)
	SetUserActive(cqrs.SetUserActiveCommand) error
	DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(cqrs.GetUserQuery) (*models.UserView, error)
	GetUserByUsername(cqrs.GetUserByUsernameQuery) (*models.UserView, error)
}

type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
	tokens   *token.Service
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,e164"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Username    string `json:"username" validate:"omitempty,min=3,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,e164"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier, tokens *token.Service) *UserHandler {
	return &UserHandler{commands: commands, queries: queries, tokens: tokens}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.RegisterUser(cqrs.RegisterUserCommand{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) || errors.Is(err, repository.ErrEmailTaken) {
			middleware.RespondWithError(c, http.StatusConflict, err.Error())
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and issues a signed token. The token subject
// is the username; downstream services trust the signature alone.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.Authenticate(cqrs.LoginCommand{
		UsernameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
	})
	if err != nil {
		if errors.Is(err, command.ErrInvalidCredentials) || errors.Is(err, command.ErrAccountDisabled) {
			middleware.RespondWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	signed, err := h.tokens.Issue(user.Username)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  user,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	view, err := h.queries.GetUser(cqrs.GetUserQuery{UserID: c.Param("userId")})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	view, err := h.queries.GetUserByUsername(cqrs.GetUserByUsernameQuery{Username: c.Param("username")})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.UpdateUser(cqrs.UpdateUserCommand{
		UserID:      c.Param("userId"),
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, repository.ErrUsernameTaken), errors.Is(err, repository.ErrEmailTaken):
			middleware.RespondWithError(c, http.StatusConflict, err.Error())
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeactivateUser(c *gin.Context) {
	h.setActive(c, false, "User deactivated successfully")
}

func (h *UserHandler) ReactivateUser(c *gin.Context) {
	h.setActive(c, true, "User reactivated successfully")
}

func (h *UserHandler) setActive(c *gin.Context, active bool, message string) {
	err := h.commands.SetUserActive(cqrs.SetUserActiveCommand{
		UserID:   c.Param("userId"),
		IsActive: active,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update user status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// DeleteUser runs the cascading delete. A failed cascade comes back as a
// generic 500; which step failed, and any partial cleanup, is visible in
// the logs only. A concurrent delete for the same user is rejected with 409.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{
		UserID: c.Param("userId"),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, command.ErrDeleteInProgress):
			middleware.RespondWithError(c, http.StatusConflict, "Delete already in progress")
		default:
			log.Printf("delete user %s: %v", c.Param("userId"), err)
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User and all associated data deleted successfully"})
}

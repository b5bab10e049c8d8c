package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

// UserWriteRepository handles all state-mutating operations for users.
// It operates exclusively against the PostgreSQL write store (source of truth).
type UserWriteRepository struct {
	db *sql.DB
}

func NewUserWriteRepository(db *sql.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

func (r *UserWriteRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, full_name, phone_number,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.FullName, nullString(user.PhoneNumber),
		user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "email") {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID fetches the full write model (including PasswordHash) for internal operations.
func (r *UserWriteRepository) GetByID(id string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, full_name, phone_number,
			   is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRow(query, id))
}

// GetByUsernameOrEmail resolves a login identifier against either column.
func (r *UserWriteRepository) GetByUsernameOrEmail(identifier string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, full_name, phone_number,
			   is_active, created_at, updated_at
		FROM users
		WHERE username = $1 OR email = $1
	`
	return r.scanUser(r.db.QueryRow(query, identifier))
}

func (r *UserWriteRepository) Update(user *models.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, full_name = $4, phone_number = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.db.Exec(query,
		user.ID, user.Username, user.Email, user.FullName,
		nullString(user.PhoneNumber), user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "email") {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(result)
}

// SetActive toggles the soft-disable flag without touching any other field.
func (r *UserWriteRepository) SetActive(id string, active bool) error {
	query := `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.Exec(query, id, active)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return requireRow(result)
}

// Delete removes the user row. Dependent transaction and budget rows live in
// other services and must already be gone when this is called.
func (r *UserWriteRepository) Delete(id string) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(result)
}

func (r *UserWriteRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var phone sql.NullString

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FullName, &phone, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if phone.Valid {
		user.PhoneNumber = phone.String
	}
	return &user, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

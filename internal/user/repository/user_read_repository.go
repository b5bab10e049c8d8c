package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/models"
	sharedredis "github.com/Sarthak8822/Finance/internal/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

const userViewTTL = 5 * time.Minute

// UserReadRepository serves user projections, cache-first with a PostgreSQL
// fallback. Projections never carry the password hash.
type UserReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.UserView]
}

func NewUserReadRepository(db *sql.DB, redisClient *goredis.Client) *UserReadRepository {
	return &UserReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.UserView](redisClient, userViewTTL),
	}
}

func (r *UserReadRepository) GetView(ctx context.Context, userID string) (*models.UserView, error) {
	key := "user:view:" + userID
	if view, ok := r.cache.Get(ctx, key); ok {
		return view, nil
	}

	view, err := r.queryView(`WHERE id = $1`, userID)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, view)
	return view, nil
}

// GetViewByUsername bypasses the cache; username lookups are rare enough
// that keeping a second key per user is not worth the invalidation paths.
func (r *UserReadRepository) GetViewByUsername(ctx context.Context, username string) (*models.UserView, error) {
	return r.queryView(`WHERE username = $1`, username)
}

// Invalidate drops the cached projection after any write to the user row.
func (r *UserReadRepository) Invalidate(ctx context.Context, userID string) {
	r.cache.Delete(ctx, "user:view:"+userID)
}

func (r *UserReadRepository) queryView(where, arg string) (*models.UserView, error) {
	query := `
		SELECT id, username, email, full_name, phone_number, is_active, created_at, updated_at
		FROM users ` + where

	var view models.UserView
	var phone sql.NullString
	err := r.db.QueryRow(query, arg).Scan(
		&view.ID, &view.Username, &view.Email, &view.FullName,
		&phone, &view.IsActive, &view.CreatedAt, &view.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		view.PhoneNumber = phone.String
	}
	return &view, nil
}

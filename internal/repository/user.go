package repository

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// UserRepository defines interface for user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsername returns (nil, nil) when no user has the given name.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type userRepository struct {
	store store.Store
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.store.HSet(ctx, store.UserKey(user.ID), encodeUser(user)); err != nil {
		return err
	}
	if err := r.store.HSet(ctx, store.UsernamesKey, map[string]interface{}{user.Username: user.ID}); err != nil {
		return err
	}
	// Membership in users:all drives the bookmark cleanup scan on post deletion.
	return r.store.SAdd(ctx, store.AllUsersKey, user.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	fields, err := r.store.HGetAll(ctx, store.UserKey(id))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, models.NewNotFoundError("User", id)
	}
	return decodeUser(fields)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	id, err := r.store.HGet(ctx, store.UsernamesKey, username)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func encodeUser(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":          u.ID,
		"username":    u.Username,
		"displayName": u.DisplayName,
		"role":        u.Role,
		"password":    u.Password,
		"createdAt":   u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeUser(fields map[string]string) (*models.User, error) {
	user := &models.User{
		ID:          fields["id"],
		Username:    fields["username"],
		DisplayName: fields["displayName"],
		Role:        fields["role"],
		Password:    fields["password"],
	}
	var err error
	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["createdAt"]); err != nil {
		return nil, fmt.Errorf("corrupt createdAt field on user %s: %w", user.ID, err)
	}
	return user, nil
}

package repositories

import (
	"context"

	"cafe/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetLocked(ctx context.Context, id string, locked bool) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

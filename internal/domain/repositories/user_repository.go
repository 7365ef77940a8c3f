package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/medichat/backend/internal/domain/entities"
)

// UserRepository defines the interface for user account operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// UpdateLocation stores the user's coordinates
	UpdateLocation(ctx context.Context, id uuid.UUID, latitude, longitude float64) error
}

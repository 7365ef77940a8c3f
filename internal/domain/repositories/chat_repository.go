package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/medichat/backend/internal/domain/entities"
)

// ChatRepository defines the interface for chat transcript persistence
type ChatRepository interface {
	// CreateRoom creates a chat room
	CreateRoom(ctx context.Context, room *entities.ChatRoom) error

	// GetRoom retrieves a chat room by ID
	GetRoom(ctx context.Context, id int64) (*entities.ChatRoom, error)

	// ListRoomsByUser lists a user's chat rooms, newest first
	ListRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ChatRoom, error)

	// CreateMessage appends a message to a room's transcript
	CreateMessage(ctx context.Context, message *entities.ChatMessage) error

	// ListMessages lists a room's messages in chronological order
	ListMessages(ctx context.Context, roomID int64, limit int) ([]*entities.ChatMessage, error)

	// DeleteRoom removes a room and its transcript
	DeleteRoom(ctx context.Context, id int64) error
}

// InferenceRepository stores classifier outputs for audit
type InferenceRepository interface {
	// Create persists an inference result with its predictions
	Create(ctx context.Context, result *entities.InferenceResult) error

	// GetByID retrieves an inference result by ID
	GetByID(ctx context.Context, id int64) (*entities.InferenceResult, error)
}

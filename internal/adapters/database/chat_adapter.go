package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// ChatAdapter implements ChatRepository
type ChatAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewChatAdapter creates a new chat adapter
func NewChatAdapter(client *postgres.Client) repositories.ChatRepository {
	return &ChatAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CreateRoom creates a chat room
func (a *ChatAdapter) CreateRoom(ctx context.Context, room *entities.ChatRoom) error {
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	record := goqu.Record{
		"user_id":    room.UserID,
		"title":      room.Title,
		"created_at": room.CreatedAt,
		"updated_at": room.UpdatedAt,
	}

	query, args, err := a.db.Insert("chat_rooms").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&room.ID); err != nil {
		return apperrors.NewInternalError("failed to create chat room", err)
	}

	return nil
}

// GetRoom retrieves a chat room by ID
func (a *ChatAdapter) GetRoom(ctx context.Context, id int64) (*entities.ChatRoom, error) {
	query, args, err := a.db.Select("id", "user_id", "title", "created_at", "updated_at").
		From("chat_rooms").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	room := &entities.ChatRoom{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&room.ID, &room.UserID, &room.Title, &room.CreatedAt, &room.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("chat room %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get chat room", err)
	}

	return room, nil
}

// ListRoomsByUser lists a user's chat rooms, newest first
func (a *ChatAdapter) ListRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ChatRoom, error) {
	query, args, err := a.db.Select("id", "user_id", "title", "created_at", "updated_at").
		From("chat_rooms").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query chat rooms", err)
	}
	defer rows.Close()

	var rooms []*entities.ChatRoom
	for rows.Next() {
		room := &entities.ChatRoom{}
		if err := rows.Scan(&room.ID, &room.UserID, &room.Title, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan chat room", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate chat rooms", err)
	}

	return rooms, nil
}

// CreateMessage appends a message to a room's transcript
func (a *ChatAdapter) CreateMessage(ctx context.Context, message *entities.ChatMessage) error {
	message.CreatedAt = time.Now()

	record := goqu.Record{
		"room_id":    message.RoomID,
		"sender":     message.Sender,
		"content":    message.Content,
		"created_at": message.CreatedAt,
	}

	query, args, err := a.db.Insert("chat_messages").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&message.ID); err != nil {
		return apperrors.NewInternalError("failed to create chat message", err)
	}

	return nil
}

// ListMessages lists a room's messages in chronological order
func (a *ChatAdapter) ListMessages(ctx context.Context, roomID int64, limit int) ([]*entities.ChatMessage, error) {
	ds := a.db.Select("id", "room_id", "sender", "content", "created_at").
		From("chat_messages").
		Where(goqu.Ex{"room_id": roomID}).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query chat messages", err)
	}
	defer rows.Close()

	var messages []*entities.ChatMessage
	for rows.Next() {
		message := &entities.ChatMessage{}
		if err := rows.Scan(&message.ID, &message.RoomID, &message.Sender, &message.Content, &message.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan chat message", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate chat messages", err)
	}

	return messages, nil
}

// DeleteRoom removes a room and its transcript
func (a *ChatAdapter) DeleteRoom(ctx context.Context, id int64) error {
	msgQuery, msgArgs, err := a.db.Delete("chat_messages").Where(goqu.Ex{"room_id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, msgQuery, msgArgs...); err != nil {
		return apperrors.NewInternalError("failed to delete chat messages", err)
	}

	query, args, err := a.db.Delete("chat_rooms").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete chat room", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("chat room %d not found", id))
	}

	return nil
}

// InferenceAdapter implements InferenceRepository. Predictions are stored as
// a JSONB column alongside the input text.
type InferenceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewInferenceAdapter creates a new inference adapter
func NewInferenceAdapter(client *postgres.Client) repositories.InferenceRepository {
	return &InferenceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists an inference result with its predictions
func (a *InferenceAdapter) Create(ctx context.Context, result *entities.InferenceResult) error {
	result.CreatedAt = time.Now()

	predictions, err := json.Marshal(result.Predictions)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal predictions", err)
	}

	record := goqu.Record{
		"chat_message_id": result.ChatMessageID,
		"input_text":      result.InputText,
		"predictions":     predictions,
		"inference_time":  result.InferenceTime,
		"created_at":      result.CreatedAt,
	}

	query, args, err := a.db.Insert("inference_results").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&result.ID); err != nil {
		return apperrors.NewInternalError("failed to create inference result", err)
	}

	return nil
}

// GetByID retrieves an inference result by ID
func (a *InferenceAdapter) GetByID(ctx context.Context, id int64) (*entities.InferenceResult, error) {
	query, args, err := a.db.Select("id", "chat_message_id", "input_text", "predictions", "inference_time", "created_at").
		From("inference_results").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	result := &entities.InferenceResult{}
	var predictions []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&result.ID,
		&result.ChatMessageID,
		&result.InputText,
		&predictions,
		&result.InferenceTime,
		&result.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("inference result %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get inference result", err)
	}

	if len(predictions) > 0 {
		if err := json.Unmarshal(predictions, &result.Predictions); err != nil {
			return nil, apperrors.NewInternalError("failed to unmarshal predictions", err)
		}
	}

	return result, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/providers"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/observability"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// ChatReply bundles everything the intake flow produced for one user message.
type ChatReply struct {
	UserMessage     *entities.ChatMessage      `json:"user_message"`
	BotMessage      *entities.ChatMessage      `json:"bot_message"`
	Predictions     []entities.DiseasePrediction `json:"predictions,omitempty"`
	Recommendations *entities.RecommendationSet  `json:"recommendations,omitempty"`
}

// ChatService runs the symptom-intake conversation: it persists the
// transcript, calls the classifier, and hands confident predictions to the
// recommendation engine.
type ChatService struct {
	rooms           repositories.ChatRepository
	inferences      repositories.InferenceRepository
	users           repositories.UserRepository
	classifier      providers.SymptomClassifier
	recommendations *RecommendationService
	bus             providers.EventBus

	confidenceThreshold float64
	chatRadiusKm        float64
	chatLimit           int

	metrics *observability.Metrics
}

// SetMetrics attaches classifier call counters; the service works without them.
func (s *ChatService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// NewChatService creates a new chat service. bus may be nil; inferences may
// be nil when classifier audit is disabled.
func NewChatService(
	rooms repositories.ChatRepository,
	inferences repositories.InferenceRepository,
	users repositories.UserRepository,
	classifier providers.SymptomClassifier,
	recommendations *RecommendationService,
	bus providers.EventBus,
	confidenceThreshold float64,
	chatRadiusKm float64,
	chatLimit int,
) *ChatService {
	return &ChatService{
		rooms:               rooms,
		inferences:          inferences,
		users:               users,
		classifier:          classifier,
		recommendations:     recommendations,
		bus:                 bus,
		confidenceThreshold: confidenceThreshold,
		chatRadiusKm:        chatRadiusKm,
		chatLimit:           chatLimit,
	}
}

// CreateRoom opens a new conversation for a user.
func (s *ChatService) CreateRoom(ctx context.Context, userID uuid.UUID, title string) (*entities.ChatRoom, error) {
	if strings.TrimSpace(title) == "" {
		title = "증상 상담"
	}
	room := &entities.ChatRoom{UserID: userID, Title: title}
	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// ListRooms lists a user's conversations, newest first.
func (s *ChatService) ListRooms(ctx context.Context, userID uuid.UUID) ([]*entities.ChatRoom, error) {
	return s.rooms.ListRoomsByUser(ctx, userID)
}

// getOwnedRoom resolves a room and verifies it belongs to the caller. Every
// room-scoped operation goes through this check; transcripts are private.
func (s *ChatService) getOwnedRoom(ctx context.Context, userID uuid.UUID, roomID int64) (*entities.ChatRoom, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.UserID != userID {
		return nil, apperrors.NewUnauthorizedError("chat room belongs to another user")
	}
	return room, nil
}

// ListMessages returns a room's transcript in chronological order.
func (s *ChatService) ListMessages(ctx context.Context, userID uuid.UUID, roomID int64, limit int) ([]*entities.ChatMessage, error) {
	if _, err := s.getOwnedRoom(ctx, userID, roomID); err != nil {
		return nil, err
	}
	return s.rooms.ListMessages(ctx, roomID, limit)
}

// DeleteRoom removes a conversation and its transcript.
func (s *ChatService) DeleteRoom(ctx context.Context, userID uuid.UUID, roomID int64) error {
	if _, err := s.getOwnedRoom(ctx, userID, roomID); err != nil {
		return err
	}
	return s.rooms.DeleteRoom(ctx, roomID)
}

// HandleMessage processes one symptom message end to end: persist it, run the
// classifier, and when the top prediction clears the confidence threshold and
// the user has a stored location, attach hospital recommendations to the
// reply. The bot's reply is always persisted to the transcript.
func (s *ChatService) HandleMessage(ctx context.Context, userID uuid.UUID, roomID int64, content string) (*ChatReply, error) {
	ctx, span := observability.StartSpan(ctx, "ChatService.HandleMessage")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("message content must not be empty")
	}

	room, err := s.getOwnedRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	userMsg := &entities.ChatMessage{RoomID: roomID, Sender: entities.SenderUser, Content: content}
	if err := s.rooms.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}
	s.publishMessage(ctx, userMsg)

	reply := &ChatReply{UserMessage: userMsg}

	predictions, err := s.classifier.Analyze(ctx, content)
	if s.metrics != nil {
		observability.RecordClassifierCall(ctx, s.metrics, err == nil)
	}
	if err != nil {
		logger.Error().Err(err).Int64("room_id", roomID).Msg("symptom classification failed")
		reply.BotMessage, err = s.sendBotMessage(ctx, roomID,
			"죄송합니다. 잠시 후 다시 시도해 주세요.")
		return reply, err
	}
	reply.Predictions = predictions

	if s.inferences != nil {
		record := &entities.InferenceResult{
			ChatMessageID: userMsg.ID,
			InputText:     content,
			Predictions:   predictions,
		}
		if err := s.inferences.Create(ctx, record); err != nil {
			logger.Warn().Err(err).Msg("failed to persist inference result")
		}
	}

	reply.BotMessage, err = s.respond(ctx, room, predictions, reply)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *ChatService) respond(ctx context.Context, room *entities.ChatRoom, predictions []entities.DiseasePrediction, reply *ChatReply) (*entities.ChatMessage, error) {
	logger := observability.LoggerFromContext(ctx)

	if len(predictions) == 0 {
		return s.sendBotMessage(ctx, room.ID,
			"증상을 파악하지 못했습니다. 증상을 조금 더 자세히 설명해 주시겠어요?")
	}

	top := predictions[0]
	if top.Score < s.confidenceThreshold {
		return s.sendBotMessage(ctx, room.ID,
			fmt.Sprintf("말씀하신 증상으로는 '%s'이(가) 의심되지만 확신이 낮습니다. 증상을 조금 더 자세히 설명해 주시겠어요?", top.DiseaseName))
	}

	user, err := s.users.GetByID(ctx, room.UserID)
	if err != nil {
		return nil, err
	}
	if !user.HasLocation() {
		return s.sendBotMessage(ctx, room.ID,
			fmt.Sprintf("'%s'이(가) 의심됩니다. 주변 병원을 추천하려면 먼저 위치를 등록해 주세요.", top.DiseaseName))
	}

	set, err := s.recommendations.RecommendByDiseaseName(ctx, top.DiseaseName, RecommendRequest{
		Latitude:  *user.Latitude,
		Longitude: *user.Longitude,
		RadiusKm:  s.chatRadiusKm,
		Limit:     s.chatLimit,
		UserID:    user.ID,
	})
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypePrecondition) {
			logger.Warn().Err(err).Str("disease", top.DiseaseName).Msg("predicted disease not in catalog")
			return s.sendBotMessage(ctx, room.ID,
				fmt.Sprintf("'%s'이(가) 의심되지만 해당 질환의 병원 정보를 찾지 못했습니다.", top.DiseaseName))
		}
		return nil, err
	}
	reply.Recommendations = set

	return s.sendBotMessage(ctx, room.ID, formatRecommendationReply(top.DiseaseName, s.chatRadiusKm, set))
}

func (s *ChatService) sendBotMessage(ctx context.Context, roomID int64, content string) (*entities.ChatMessage, error) {
	msg := &entities.ChatMessage{RoomID: roomID, Sender: entities.SenderBot, Content: content}
	if err := s.rooms.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.publishMessage(ctx, msg)
	return msg, nil
}

func (s *ChatService) publishMessage(ctx context.Context, msg *entities.ChatMessage) {
	if s.bus == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	event := entities.NewEvent(entities.EventTypeChatMessageCreated, msg.RoomID, payload)
	if err := s.bus.Publish(ctx, providers.GetChatRoomChannel(msg.RoomID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Int64("room_id", msg.RoomID).Msg("failed to publish chat event")
	}
}

func formatRecommendationReply(diseaseName string, radiusKm float64, set *entities.RecommendationSet) string {
	if len(set.Recommendations) == 0 {
		return fmt.Sprintf("'%s'이(가) 의심되지만 반경 %.0fkm 안에서 적합한 병원을 찾지 못했습니다.", diseaseName, radiusKm)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "'%s'이(가) 의심됩니다. 주변 병원을 추천해 드릴게요.\n", diseaseName)
	for _, rec := range set.Recommendations {
		fmt.Fprintf(&b, "%d. %s (%.1fkm) - %s\n", rec.Rank, rec.Name, rec.DistanceKm, rec.Reason)
	}
	return strings.TrimRight(b.String(), "\n")
}

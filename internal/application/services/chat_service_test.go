package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/providers"
	apperrors "github.com/medichat/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	svc        *ChatService
	rooms      *stubChatRepo
	inferences *stubInferenceRepo
	users      *stubUserRepo
	classifier *stubClassifier
	bus        *recordingEventBus
	room       *entities.ChatRoom
	user       *entities.User
}

func newChatFixture(t *testing.T, withLocation bool) *chatFixture {
	t.Helper()

	rooms := newStubChatRepo()
	inferences := &stubInferenceRepo{}
	users := newStubUserRepo()
	classifier := &stubClassifier{}
	bus := newRecordingEventBus()

	user := &entities.User{ID: uuid.New(), Email: "p@example.com", IsActive: true}
	if withLocation {
		lat, lon := seoulLat, seoulLon
		user.Latitude, user.Longitude = &lat, &lon
	}
	require.NoError(t, users.Create(context.Background(), user))

	svc, _, _ := hypertensionFixture()
	chat := NewChatService(rooms, inferences, users, classifier, svc, bus, 0.8, 5.0, 3)

	room, err := chat.CreateRoom(context.Background(), user.ID, "두통 상담")
	require.NoError(t, err)

	return &chatFixture{
		svc: chat, rooms: rooms, inferences: inferences, users: users,
		classifier: classifier, bus: bus, room: room, user: user,
	}
}

func TestHandleMessage_ConfidentPredictionRecommends(t *testing.T) {
	f := newChatFixture(t, true)
	f.classifier.predictions = []entities.DiseasePrediction{
		{DiseaseID: 1, DiseaseName: "고혈압", Score: 0.93},
	}

	reply, err := f.svc.HandleMessage(context.Background(), f.user.ID, f.room.ID, "머리가 아프고 뒷목이 당겨요")

	require.NoError(t, err)
	require.NotNil(t, reply.Recommendations)
	assert.Equal(t, "고혈압", reply.Recommendations.DiseaseName)
	assert.NotEmpty(t, reply.Recommendations.Recommendations)
	assert.Equal(t, entities.SenderBot, reply.BotMessage.Sender)
	assert.Contains(t, reply.BotMessage.Content, "고혈압")
	assert.Contains(t, reply.BotMessage.Content, "1.")

	// User message, then bot reply, both on the room channel.
	events := f.bus.published[providers.GetChatRoomChannel(f.room.ID)]
	require.Len(t, events, 2)
	assert.Equal(t, entities.EventTypeChatMessageCreated, events[0].Type)
}

func TestHandleMessage_LowConfidenceAsksForDetail(t *testing.T) {
	f := newChatFixture(t, true)
	f.classifier.predictions = []entities.DiseasePrediction{
		{DiseaseID: 1, DiseaseName: "고혈압", Score: 0.42},
	}

	reply, err := f.svc.HandleMessage(context.Background(), f.user.ID, f.room.ID, "머리가 좀 아파요")

	require.NoError(t, err)
	assert.Nil(t, reply.Recommendations)
	assert.Contains(t, reply.BotMessage.Content, "자세히")
}

func TestHandleMessage_ThresholdIsInclusive(t *testing.T) {
	f := newChatFixture(t, true)
	f.classifier.predictions = []entities.DiseasePrediction{
		{DiseaseID: 1, DiseaseName: "고혈압", Score: 0.8},
	}

	reply, err := f.svc.HandleMessage(context.Background(), f.user.ID, f.room.ID, "뒷목이 당기고 어지러워요")

	require.NoError(t, err)
	assert.NotNil(t, reply.Recommendations)
}

func TestHandleMessage_NoLocationPromptsForIt(t *testing.T) {
	f := newChatFixture(t, false)
	f.classifier.predictions = []entities.DiseasePrediction{
		{DiseaseID: 1, DiseaseName: "고혈압", Score: 0.95},
	}

	reply, err := f.svc.HandleMessage(context.Background(), f.user.ID, f.room.ID, "머리가 아파요")

	require.NoError(t, err)
	assert.Nil(t, reply.Recommendations)
	assert.Contains(t, reply.BotMessage.Content, "위치")
}

func TestHandleMessage_ClassifierFailureStillReplies(t *testing.T) {
	f := newChatFixture(t, true)
	f.classifier.err = apperrors.NewExternalError("classifier unreachable", nil)

	reply, err := f.svc.HandleMessage(context.Background(), f.user.ID, f.room.ID, "기침이 나요")

	require.NoError(t, err)
	require.NotNil(t, reply.BotMessage)
	assert.Equal(t, entities.SenderBot, reply.BotMessage.Sender)
	// The user's message is kept even when classification fails.
	messages, err := f.svc.ListMessages(context.Background(), f.user.ID, f.room.ID, 10)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestHandleMessage_PersistsInference(t *testing.T) {
	f := newChatFixture(t, true)
	f.classifier.predictions = []entities.DiseasePrediction{
		{DiseaseID: 1, DiseaseName: "고혈압", Score: 0.9},
		{DiseaseID: 2, DiseaseName: "편두통", Score: 0.07},
	}

	reply, err := f.svc.HandleMessage(context.Background(), f.user.ID, f.room.ID, "뒷목이 당겨요")

	require.NoError(t, err)
	require.Len(t, f.inferences.results, 1)
	stored := f.inferences.results[0]
	assert.Equal(t, reply.UserMessage.ID, stored.ChatMessageID)
	assert.Len(t, stored.Predictions, 2)
}

func TestHandleMessage_EmptyContentRejected(t *testing.T) {
	f := newChatFixture(t, true)

	_, err := f.svc.HandleMessage(context.Background(), f.user.ID, f.room.ID, "   ")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestHandleMessage_UnknownRoom(t *testing.T) {
	f := newChatFixture(t, true)

	_, err := f.svc.HandleMessage(context.Background(), f.user.ID, 9999, "머리가 아파요")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestHandleMessage_OtherUsersRoomRejected(t *testing.T) {
	f := newChatFixture(t, true)
	intruder := uuid.New()

	_, err := f.svc.HandleMessage(context.Background(), intruder, f.room.ID, "머리가 아파요")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	assert.Empty(t, f.rooms.messages)
}

func TestListMessages_OtherUsersRoomRejected(t *testing.T) {
	f := newChatFixture(t, true)
	intruder := uuid.New()

	_, err := f.svc.ListMessages(context.Background(), intruder, f.room.ID, 10)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}

func TestDeleteRoom_RemovesRoomAndMessages(t *testing.T) {
	f := newChatFixture(t, true)
	_, err := f.svc.HandleMessage(context.Background(), f.user.ID, f.room.ID, "기침이 나요")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRoom(context.Background(), f.user.ID, f.room.ID))

	_, err = f.rooms.GetRoom(context.Background(), f.room.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Empty(t, f.rooms.messages)
}

func TestDeleteRoom_OtherUsersRoomRejected(t *testing.T) {
	f := newChatFixture(t, true)
	intruder := uuid.New()

	err := f.svc.DeleteRoom(context.Background(), intruder, f.room.ID)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	_, err = f.rooms.GetRoom(context.Background(), f.room.ID)
	assert.NoError(t, err)
}

func TestCreateRoom_DefaultTitle(t *testing.T) {
	f := newChatFixture(t, true)

	room, err := f.svc.CreateRoom(context.Background(), f.user.ID, "  ")

	require.NoError(t, err)
	assert.Equal(t, "증상 상담", room.Title)
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/providers"
	"github.com/medichat/backend/internal/domain/repositories"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// In-memory stubs shared by the service tests.

type stubHospitalRepo struct {
	hospitals []*entities.Hospital
	nextID    int64
}

func (s *stubHospitalRepo) Create(_ context.Context, h *entities.Hospital) error {
	s.nextID++
	h.ID = s.nextID
	s.hospitals = append(s.hospitals, h)
	return nil
}

func (s *stubHospitalRepo) GetByID(_ context.Context, id int64) (*entities.Hospital, error) {
	for _, h := range s.hospitals {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital %d not found", id))
}

func (s *stubHospitalRepo) List(_ context.Context, _ repositories.HospitalFilter) ([]*entities.Hospital, error) {
	return s.hospitals, nil
}

func (s *stubHospitalRepo) FindByDepartments(_ context.Context, _ []int64) ([]*entities.Hospital, error) {
	return s.hospitals, nil
}

type stubReferenceRepo struct {
	departments       map[int64][]*entities.Department
	requiredEquipment map[int64][]string
	hospitalEquipment map[int64][]string
	specialists       map[int64]int
	details           map[int64][]entities.EquipmentDetail
}

func (s *stubReferenceRepo) DepartmentsForDisease(_ context.Context, diseaseID int64) ([]*entities.Department, error) {
	return s.departments[diseaseID], nil
}

func (s *stubReferenceRepo) RequiredEquipment(_ context.Context, diseaseID int64) ([]string, error) {
	return s.requiredEquipment[diseaseID], nil
}

func (s *stubReferenceRepo) HospitalEquipmentNames(_ context.Context, hospitalID int64) ([]string, error) {
	return s.hospitalEquipment[hospitalID], nil
}

func (s *stubReferenceRepo) SpecialistCount(_ context.Context, hospitalID int64, _ []int64) (int, error) {
	return s.specialists[hospitalID], nil
}

func (s *stubReferenceRepo) EquipmentDetails(_ context.Context, hospitalID int64, _ []string) ([]entities.EquipmentDetail, error) {
	return s.details[hospitalID], nil
}

type stubDiseaseRepo struct {
	diseases []*entities.Disease
}

func (s *stubDiseaseRepo) GetByID(_ context.Context, id int64) (*entities.Disease, error) {
	for _, d := range s.diseases {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("disease %d not found", id))
}

func (s *stubDiseaseRepo) GetByName(_ context.Context, name string) (*entities.Disease, error) {
	for _, d := range s.diseases {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("disease %q not found", name))
}

func (s *stubDiseaseRepo) List(_ context.Context, _ int) ([]*entities.Disease, error) {
	return s.diseases, nil
}

type stubUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*entities.User{}}
}

func (s *stubUserRepo) Create(_ context.Context, u *entities.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUserRepo) UpdateLocation(_ context.Context, id uuid.UUID, latitude, longitude float64) error {
	u, ok := s.users[id]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	u.Latitude = &latitude
	u.Longitude = &longitude
	return nil
}

type stubChatRepo struct {
	rooms    map[int64]*entities.ChatRoom
	messages []*entities.ChatMessage
	nextID   int64
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{rooms: map[int64]*entities.ChatRoom{}}
}

func (s *stubChatRepo) CreateRoom(_ context.Context, room *entities.ChatRoom) error {
	s.nextID++
	room.ID = s.nextID
	s.rooms[room.ID] = room
	return nil
}

func (s *stubChatRepo) GetRoom(_ context.Context, id int64) (*entities.ChatRoom, error) {
	if room, ok := s.rooms[id]; ok {
		return room, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("chat room %d not found", id))
}

func (s *stubChatRepo) ListRoomsByUser(_ context.Context, userID uuid.UUID) ([]*entities.ChatRoom, error) {
	var rooms []*entities.ChatRoom
	for _, room := range s.rooms {
		if room.UserID == userID {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (s *stubChatRepo) DeleteRoom(_ context.Context, id int64) error {
	if _, ok := s.rooms[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("chat room %d not found", id))
	}
	delete(s.rooms, id)
	var kept []*entities.ChatMessage
	for _, m := range s.messages {
		if m.RoomID != id {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}

func (s *stubChatRepo) CreateMessage(_ context.Context, message *entities.ChatMessage) error {
	s.nextID++
	message.ID = s.nextID
	s.messages = append(s.messages, message)
	return nil
}

func (s *stubChatRepo) ListMessages(_ context.Context, roomID int64, _ int) ([]*entities.ChatMessage, error) {
	var messages []*entities.ChatMessage
	for _, m := range s.messages {
		if m.RoomID == roomID {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

type stubInferenceRepo struct {
	results []*entities.InferenceResult
}

func (s *stubInferenceRepo) Create(_ context.Context, result *entities.InferenceResult) error {
	result.ID = int64(len(s.results) + 1)
	s.results = append(s.results, result)
	return nil
}

func (s *stubInferenceRepo) GetByID(_ context.Context, id int64) (*entities.InferenceResult, error) {
	for _, r := range s.results {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.NewNotFoundError("inference result not found")
}

type stubClassifier struct {
	predictions []entities.DiseasePrediction
	err         error
}

func (s *stubClassifier) Analyze(_ context.Context, _ string) ([]entities.DiseasePrediction, error) {
	return s.predictions, s.err
}

func (s *stubClassifier) Healthy(_ context.Context) bool {
	return s.err == nil
}

type stubAuditRepo struct {
	batches [][]*entities.Recommendation
}

func (s *stubAuditRepo) CreateBatch(_ context.Context, recommendations []*entities.Recommendation) error {
	s.batches = append(s.batches, recommendations)
	return nil
}

type stubEquipmentRepo struct {
	categories map[string]*entities.EquipmentCategory
	holdings   map[int64]map[int64]int
}

func newStubEquipmentRepo(categories ...*entities.EquipmentCategory) *stubEquipmentRepo {
	repo := &stubEquipmentRepo{
		categories: map[string]*entities.EquipmentCategory{},
		holdings:   map[int64]map[int64]int{},
	}
	for _, c := range categories {
		repo.categories[c.Name] = c
	}
	return repo
}

func (s *stubEquipmentRepo) GetCategoryByName(_ context.Context, name string) (*entities.EquipmentCategory, error) {
	if c, ok := s.categories[name]; ok {
		return c, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("equipment category %q not found", name))
}

func (s *stubEquipmentRepo) ListCategories(_ context.Context) ([]*entities.EquipmentCategory, error) {
	var out []*entities.EquipmentCategory
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubEquipmentRepo) UpsertHolding(_ context.Context, hospitalID, categoryID int64, quantity int) error {
	if s.holdings[hospitalID] == nil {
		s.holdings[hospitalID] = map[int64]int{}
	}
	s.holdings[hospitalID][categoryID] += quantity
	return nil
}

type recordingEventBus struct {
	published map[string][]*entities.Event
}

func newRecordingEventBus() *recordingEventBus {
	return &recordingEventBus{published: map[string][]*entities.Event{}}
}

func (b *recordingEventBus) Publish(_ context.Context, channel string, event *entities.Event) error {
	b.published[channel] = append(b.published[channel], event)
	return nil
}

func (b *recordingEventBus) Subscribe(_ context.Context, _ string) (<-chan *entities.Event, error) {
	return nil, nil
}

func (b *recordingEventBus) Unsubscribe(_ context.Context, _ string) error { return nil }

func (b *recordingEventBus) Close() error { return nil }

var _ providers.EventBus = (*recordingEventBus)(nil)

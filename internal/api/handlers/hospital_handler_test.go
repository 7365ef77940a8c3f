package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/medichat/backend/internal/api/handlers"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	apperrors "github.com/medichat/backend/pkg/errors"
)

type MockHospitalRepository struct {
	mock.Mock
}

func (m *MockHospitalRepository) Create(ctx context.Context, hospital *entities.Hospital) error {
	args := m.Called(ctx, hospital)
	return args.Error(0)
}

func (m *MockHospitalRepository) GetByID(ctx context.Context, id int64) (*entities.Hospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Hospital), args.Error(1)
}

func (m *MockHospitalRepository) List(ctx context.Context, filter repositories.HospitalFilter) ([]*entities.Hospital, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Hospital), args.Error(1)
}

func (m *MockHospitalRepository) FindByDepartments(ctx context.Context, departmentIDs []int64) ([]*entities.Hospital, error) {
	args := m.Called(ctx, departmentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Hospital), args.Error(1)
}

func TestGetHospital(t *testing.T) {
	repo := new(MockHospitalRepository)
	handler := handlers.NewHospitalHandler(repo)

	repo.On("GetByID", mock.Anything, int64(7)).Return(&entities.Hospital{
		ID:       7,
		Name:     "서초속편한내과의원",
		Category: entities.CategoryClinic,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/hospitals/7", nil)
	req.SetPathValue("id", "7")
	rec := httptest.NewRecorder()

	handler.GetHospital(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body entities.Hospital
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, "서초속편한내과의원", body.Name)
	repo.AssertExpectations(t)
}

func TestGetHospitalNotFound(t *testing.T) {
	repo := new(MockHospitalRepository)
	handler := handlers.NewHospitalHandler(repo)

	repo.On("GetByID", mock.Anything, int64(99)).
		Return(nil, apperrors.NewNotFoundError("hospital not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/hospitals/99", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()

	handler.GetHospital(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHospitalInvalidID(t *testing.T) {
	repo := new(MockHospitalRepository)
	handler := handlers.NewHospitalHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/hospitals/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()

	handler.GetHospital(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "GetByID")
}

func TestListHospitalsDefaults(t *testing.T) {
	repo := new(MockHospitalRepository)
	handler := handlers.NewHospitalHandler(repo)

	repo.On("List", mock.Anything, repositories.HospitalFilter{Limit: 30}).
		Return([]*entities.Hospital{
			{ID: 1, Name: "A내과의원"},
			{ID: 2, Name: "B내과의원"},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/hospitals", nil)
	rec := httptest.NewRecorder()

	handler.ListHospitals(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Hospitals []entities.Hospital `json:"hospitals"`
		Count     int                 `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Hospitals, 2)
	repo.AssertExpectations(t)
}

func TestListHospitalsWithCategoryFilter(t *testing.T) {
	repo := new(MockHospitalRepository)
	handler := handlers.NewHospitalHandler(repo)

	repo.On("List", mock.Anything, repositories.HospitalFilter{
		Category: entities.CategoryGeneralHospital,
		Limit:    5,
		Offset:   10,
	}).Return([]*entities.Hospital{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/hospitals?category=종합병원&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()

	handler.ListHospitals(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

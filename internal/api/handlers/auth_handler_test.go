package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medichat/backend/internal/api/handlers"
	"github.com/medichat/backend/internal/api/middleware"
	"github.com/medichat/backend/internal/application/services"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/providers"
	apperrors "github.com/medichat/backend/pkg/errors"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLocation(ctx context.Context, id uuid.UUID, latitude, longitude float64) error {
	args := m.Called(ctx, id, latitude, longitude)
	return args.Error(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.Coordinates), args.Error(1)
}

func locationRequest(t *testing.T, userID uuid.UUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/api/users/me/location", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestUpdateLocation_AddressIsGeocoded(t *testing.T) {
	userID := uuid.New()
	users := new(MockUserRepository)
	users.On("UpdateLocation", mock.Anything, userID, 37.5013, 127.0046).Return(nil)
	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", mock.Anything, "서울 서초구 반포대로 222").
		Return(&providers.Coordinates{Latitude: 37.5013, Longitude: 127.0046}, nil)

	auth := services.NewAuthService(users, "test-secret", time.Hour)
	handler := handlers.NewAuthHandler(auth, geocoder)

	req := locationRequest(t, userID, `{"address":"서울 서초구 반포대로 222"}`)
	rec := httptest.NewRecorder()
	handler.UpdateLocation(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
	geocoder.AssertExpectations(t)
}

func TestUpdateLocation_RawCoordinatesSkipGeocoder(t *testing.T) {
	userID := uuid.New()
	users := new(MockUserRepository)
	users.On("UpdateLocation", mock.Anything, userID, 37.5, 127.0).Return(nil)
	geocoder := new(MockGeocoder)

	auth := services.NewAuthService(users, "test-secret", time.Hour)
	handler := handlers.NewAuthHandler(auth, geocoder)

	req := locationRequest(t, userID, `{"latitude":37.5,"longitude":127.0}`)
	rec := httptest.NewRecorder()
	handler.UpdateLocation(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
	geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestUpdateLocation_UnresolvableAddressIsBadRequest(t *testing.T) {
	userID := uuid.New()
	users := new(MockUserRepository)
	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", mock.Anything, "없는 주소").
		Return(nil, apperrors.NewValidationError("address not found: 없는 주소"))

	auth := services.NewAuthService(users, "test-secret", time.Hour)
	handler := handlers.NewAuthHandler(auth, geocoder)

	req := locationRequest(t, userID, `{"address":"없는 주소"}`)
	rec := httptest.NewRecorder()
	handler.UpdateLocation(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	users.AssertNotCalled(t, "UpdateLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

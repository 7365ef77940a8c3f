package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/observability"
	apperrors "github.com/medichat/backend/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account registration, password login and JWT issuance.
type AuthService struct {
	users     repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(users repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, email, password, nickname string) (*entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email is required")
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("email %s is already registered", email))
	} else if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Nickname:     strings.TrimSpace(nickname),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

// Login checks the password and issues a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return "", nil, apperrors.NewUnauthorizedError("invalid email or password")
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, apperrors.NewUnauthorizedError("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifyToken validates a signed token and returns the user ID it carries.
func (s *AuthService) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, apperrors.NewUnauthorizedError("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, apperrors.NewUnauthorizedError("token has no subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, apperrors.NewUnauthorizedError("invalid token subject")
	}
	return userID, nil
}

// UpdateLocation stores the user's coordinates after range validation.
func (s *AuthService) UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return apperrors.NewValidationError("latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return apperrors.NewValidationError("longitude must be between -180 and 180")
	}
	return s.users.UpdateLocation(ctx, userID, latitude, longitude)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issueToken(user *entities.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}

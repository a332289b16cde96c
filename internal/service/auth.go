package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authd/internal/models"
	"authd/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ( // Define custom errors
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHashing            = errors.New("password hashing failed")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	IssueToken(userID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (*models.Claims, error)
}

type authService struct {
	repo     repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewAuthService(repo repository.UserRepository, secret []byte, tokenTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// HashPassword applies a salted bcrypt hash at the default cost. The salt is
// randomized per call, so hashing the same input twice yields different strings.
func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashing, err)
	}
	return string(hash), nil
}

// VerifyPassword recomputes the hash using the salt and cost embedded in
// hashedPassword and compares in constant time. A mismatch is (false, nil);
// a malformed hash is an error, not a boolean answer.
func (s *authService) VerifyPassword(password, hashedPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrHashing, err)
	}
}

// Register hashes the supplied password and persists a new user record.
// Email uniqueness is left entirely to the store.
func (s *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	passwordHash, err := s.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, username, email, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the supplied credentials against the stored record.
// An unknown email and a wrong password both yield ErrInvalidCredentials so
// the caller cannot tell which identities exist.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	ok, err := s.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("Failed to verify password", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken signs a new HS256 token whose subject is the user ID and whose
// expiration is issuance time plus the configured validity window.
func (s *authService) IssueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("Failed to sign JWT token", zap.Error(err))
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken verifies the signature and expiration of a bearer token and
// returns its claims.
func (s *authService) ValidateToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is what we expect
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

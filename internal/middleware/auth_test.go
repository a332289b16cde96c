package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"authd/internal/models"
	"authd/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthService struct {
	claims *models.Claims
	err    error
}

func (f *fakeAuthService) Register(context.Context, string, string, string) (*models.User, error) {
	return nil, nil
}

func (f *fakeAuthService) Authenticate(context.Context, string, string) (*models.User, error) {
	return nil, nil
}

func (f *fakeAuthService) IssueToken(uuid.UUID) (string, error) { return "", nil }

func (f *fakeAuthService) ValidateToken(string) (*models.Claims, error) {
	return f.claims, f.err
}

func newProtectedRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(svc, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id")})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := newProtectedRouter(&fakeAuthService{})

	rec := doGet(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_BadHeaderFormat(t *testing.T) {
	router := newProtectedRouter(&fakeAuthService{})

	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		rec := doGet(router, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	router := newProtectedRouter(&fakeAuthService{err: service.ErrTokenExpired})

	rec := doGet(router, "Bearer expired.jwt.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token expired")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := newProtectedRouter(&fakeAuthService{err: service.ErrTokenInvalid})

	rec := doGet(router, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	claims := &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}
	router := newProtectedRouter(&fakeAuthService{claims: claims})

	rec := doGet(router, "Bearer valid.jwt.token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
}

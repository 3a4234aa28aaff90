package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/debts/internal/application/adapter"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
)

type stubTokenService struct {
	claims *adapter.TokenClaims
	err    error
}

func (s stubTokenService) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	return s.claims, s.err
}

func newEngine(auth *AuthMiddleware, limiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers := []gin.HandlerFunc{auth.Authenticate()}
	if limiter != nil {
		handlers = append(handlers, limiter.Middleware())
	}
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		c.String(http.StatusOK, userID.String())
	})
	engine.POST("/scan", handlers...)
	return engine
}

func doRequest(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/scan", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		service    stubTokenService
		wantStatus int
		wantCode   domainerror.AuthErrorCode
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeMissingToken},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeInvalidToken},
		{name: "empty bearer", header: "Bearer   ", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeMissingToken},
		{
			name:       "expired",
			header:     "Bearer token",
			service:    stubTokenService{err: domainerror.ErrExpiredToken},
			wantStatus: http.StatusUnauthorized,
			wantCode:   domainerror.ErrCodeExpiredToken,
		},
		{
			name:       "invalid",
			header:     "Bearer token",
			service:    stubTokenService{err: domainerror.ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
			wantCode:   domainerror.ErrCodeInvalidToken,
		},
		{
			name:       "valid",
			header:     "Bearer token",
			service:    stubTokenService{claims: &adapter.TokenClaims{UserID: userID}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newEngine(NewAuthMiddleware(tt.service), nil)
			rec := doRequest(engine, tt.header)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				require.Contains(t, rec.Body.String(), string(tt.wantCode))
				return
			}
			require.Equal(t, userID.String(), rec.Body.String())
		})
	}
}

func TestRateLimiter_PerUserWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiterWithConfig(2, time.Minute)
	limiter.now = func() time.Time { return now }

	first := uuid.New()
	second := uuid.New()
	service := &switchingTokenService{userID: first}
	engine := newEngine(NewAuthMiddleware(service), limiter)

	rec := doRequest(engine, "Bearer token")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = doRequest(engine, "Bearer token")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	now = now.Add(20 * time.Second)
	rec = doRequest(engine, "Bearer token")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "40", rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), string(domainerror.ErrCodeRateLimited))

	// Another user has a window of their own
	service.userID = second
	rec = doRequest(engine, "Bearer token")
	require.Equal(t, http.StatusOK, rec.Code)

	// The first user's window expires
	service.userID = first
	now = now.Add(time.Minute)
	rec = doRequest(engine, "Bearer token")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRateLimiterWithConfig_Defaults(t *testing.T) {
	limiter := NewRateLimiterWithConfig(0, -time.Second)
	require.Equal(t, defaultMaxRequests, limiter.maxRequests)
	require.Equal(t, defaultWindowDuration, limiter.duration)
}

func TestRateLimiter_SweepsExpiredWindows(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiterWithConfig(1, time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i < sweepEvery-1; i++ {
		require.True(t, limiter.check(uuid.NewString()).allowed)
	}
	require.Len(t, limiter.windows, sweepEvery-1)

	now = now.Add(2 * time.Minute)
	require.True(t, limiter.check("fresh").allowed)
	require.Len(t, limiter.windows, 1)
}

type switchingTokenService struct {
	userID uuid.UUID
}

func (s *switchingTokenService) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	return &adapter.TokenClaims{UserID: s.userID}, nil
}

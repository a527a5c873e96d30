package middlewarectx_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/middlewarectx"
	customjwt "github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/jwt"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*customjwt.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*customjwt.Claims)
	return claims, args.Error(1)
}

type UserProviderMock struct {
	mock.Mock
}

func (m *UserProviderMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error
}

func TestJWTMiddleware(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		assert.Equal(t, "u1", r.Context().Value(middlewarectx.UserID))
		assert.Equal(t, "ornitologa@example.com", r.Context().Value(middlewarectx.Email))
		w.WriteHeader(http.StatusOK)
	})

	authMock.On("ValidateToken", mock.Anything, "good-token").
		Return(&customjwt.Claims{UserID: "u1", Email: "ornitologa@example.com"}, nil).Once()

	mw := middlewarectx.JWTMiddleware(authMock, logger)(next)

	req := httptest.NewRequest(http.MethodGet, "/recordings", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, rr.Code)
	authMock.AssertExpectations(t)
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	mw := middlewarectx.JWTMiddleware(new(AuthServiceMock), newNoopLogger())(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/recordings", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	authMock := new(AuthServiceMock)
	authMock.On("ValidateToken", mock.Anything, "bad-token").
		Return(nil, errors.New("signature invalid")).Once()

	mw := middlewarectx.JWTMiddleware(authMock, newNoopLogger())(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/recordings", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid or expired token", decodeError(t, rr.Body))
}

func TestAllowedEmailsMiddleware(t *testing.T) {
	allowed := []string{"ornitologa@example.com", "curador@example.com"}

	tests := []struct {
		name       string
		email      string
		wantStatus int
	}{
		{"allowed email", "ornitologa@example.com", http.StatusOK},
		{"case-insensitive match", "Curador@Example.COM", http.StatusOK},
		{"unknown email", "intruso@example.com", http.StatusUnauthorized},
		{"missing email", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := middlewarectx.AllowedEmailsMiddleware(newNoopLogger(), allowed)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodGet, "/recordings", nil)
			if tt.email != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, tt.email))
			}
			rr := httptest.NewRecorder()
			mw.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "unauthorized. invalid email", decodeError(t, rr.Body))
			}
		})
	}
}

func TestRequireVerificationMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		err        error
		wantStatus int
	}{
		{"verified account", &models.User{Email: "a@b.c", Verified: true}, nil, http.StatusOK},
		{"unverified account", &models.User{Email: "a@b.c", Verified: false}, nil, http.StatusForbidden},
		{"lookup failure", nil, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserProviderMock)
			users.On("GetUserByEmail", mock.Anything, "a@b.c").Return(tt.user, tt.err).Once()

			mw := middlewarectx.RequireVerificationMiddleware(newNoopLogger(), users)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodGet, "/recordings", nil)
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, "a@b.c"))
			rr := httptest.NewRecorder()
			mw.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			users.AssertExpectations(t)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	mw := middlewarectx.RateLimitMiddleware(newNoopLogger(), rate.Limit(1), 2)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/recordings", nil))
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qrenoo/config"
	"qrenoo/internal/delivery/dto"
	"qrenoo/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserIDFromContext(r.Context())
		email, _ := GetUserEmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, userID.String()+"|"+email)
	})
}

func TestAuthenticate(t *testing.T) {
	jwtService := jwt.NewJWTService(config.AuthConfig{JWTSecret: "secret", TokenExpiry: time.Hour})
	handler := NewAuthMiddleware(jwtService).Authenticate(echoUser())
	userID := uuid.New()

	token, err := jwtService.GenerateAccessToken(userID, "pro@example.com")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, userID.String()+"|pro@example.com", rec.Body.String())
			}
		})
	}
}

type mockAccessChecker struct {
	mock.Mock
}

func (m *mockAccessChecker) CheckAccess(ctx context.Context, userID uuid.UUID, feature string, redirectTarget string) (*dto.AccessDecision, error) {
	args := m.Called(userID, feature, redirectTarget)
	decision, _ := args.Get(0).(*dto.AccessDecision)
	return decision, args.Error(1)
}

func TestRequireFeature(t *testing.T) {
	userID := uuid.New()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	t.Run("allowed", func(t *testing.T) {
		checker := &mockAccessChecker{}
		checker.On("CheckAccess", userID, "export_rendezvous", "").
			Return(&dto.AccessDecision{Allowed: true, Feature: "export_rendezvous"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithUser(context.Background(), userID, ""))
		rec := httptest.NewRecorder()
		NewFeatureMiddleware(checker, quietLogger()).RequireFeature("export_rendezvous")(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		checker.AssertExpectations(t)
	})

	t.Run("denied redirects", func(t *testing.T) {
		checker := &mockAccessChecker{}
		checker.On("CheckAccess", userID, "export_rendezvous", "").
			Return(&dto.AccessDecision{Feature: "export_rendezvous", RedirectURL: "/pricing?feature=export_rendezvous"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithUser(context.Background(), userID, ""))
		rec := httptest.NewRecorder()
		NewFeatureMiddleware(checker, quietLogger()).RequireFeature("export_rendezvous")(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/pricing?feature=export_rendezvous", rec.Header().Get("Location"))
	})

	t.Run("lookup failure", func(t *testing.T) {
		checker := &mockAccessChecker{}
		checker.On("CheckAccess", userID, "export_rendezvous", "").Return(nil, errors.New("db down"))

		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithUser(context.Background(), userID, ""))
		rec := httptest.NewRecorder()
		NewFeatureMiddleware(checker, quietLogger()).RequireFeature("export_rendezvous")(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("no caller", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewFeatureMiddleware(&mockAccessChecker{}, quietLogger()).RequireFeature("export_rendezvous")(ok).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

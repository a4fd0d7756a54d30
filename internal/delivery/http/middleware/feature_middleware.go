package middleware

import (
	"context"
	"net/http"

	"qrenoo/internal/delivery/dto"
	"qrenoo/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AccessChecker resolves whether a user may use a feature
type AccessChecker interface {
	CheckAccess(ctx context.Context, userID uuid.UUID, feature string, redirectTarget string) (*dto.AccessDecision, error)
}

type FeatureMiddleware struct {
	checker AccessChecker
	log     *logrus.Logger
}

func NewFeatureMiddleware(checker AccessChecker, log *logrus.Logger) *FeatureMiddleware {
	return &FeatureMiddleware{checker: checker, log: log}
}

// RequireFeature redirects to the pricing page unless the caller's plan enables the feature.
// It must run after Authenticate.
func (m *FeatureMiddleware) RequireFeature(feature string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "")
				return
			}

			decision, err := m.checker.CheckAccess(r.Context(), userID, feature, "")
			if err != nil {
				m.log.Warnf("Failed to check feature %s for %s: %+v", feature, userID, err)
				response.InternalServerError(w, "Failed to check feature access")
				return
			}

			if !decision.Allowed {
				response.Redirect(w, decision.RedirectURL, "Your plan does not include this feature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

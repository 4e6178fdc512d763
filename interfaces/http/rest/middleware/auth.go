package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"agentxrp-backend/domain/core/entities"
	"agentxrp-backend/domain/core/valueobjects"
	"agentxrp-backend/pkg/auth"
	"agentxrp-backend/pkg/common"
	pkgerrors "agentxrp-backend/pkg/errors"

	"go.uber.org/zap"
)

// APIKeyResolver finds the agent owning an API key
type APIKeyResolver interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*entities.Agent, error)
}

// Authenticate resolves "Authorization: Bearer <api_key>" to an agent and
// stores its identity in the request context. Requests without a known key
// are answered with 401.
func Authenticate(agents APIKeyResolver, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("missing bearer token"))
				return
			}
			if !valueobjects.IsAPIKey(token) {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("invalid API key"))
				return
			}

			agent, err := agents.GetByAPIKey(r.Context(), token)
			if err != nil {
				if pkgerrors.IsNotFound(err) {
					errs.Handle(w, r, pkgerrors.NewUnauthorizedError("invalid API key"))
					return
				}
				errs.Handle(w, r, err)
				return
			}

			logger.Debug("Authenticated agent",
				zap.String("agentID", agent.ID()),
				zap.String("name", agent.Name()),
			)

			ctx := common.WithIdentity(r.Context(), common.Identity{
				AgentID: agent.ID(),
				Name:    agent.Name(),
				Karma:   agent.Karma(),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit rejects clients that exceed their per-IP token bucket
func RateLimit(limiter *auth.IPRateLimiter, perMinute int, errs *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				errs.Handle(w, r, pkgerrors.Wrap(err, "rate limiter"))
				return
			}
			if !allowed {
				errs.Handle(w, r, pkgerrors.NewRateLimitError(perMinute, "minute"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// clientIP relies on chi's RealIP having rewritten RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

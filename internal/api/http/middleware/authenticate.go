package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
)

const bearerPrefix = "Bearer "

// IdentityResolver maps a bearer token to the caller it was issued for.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (model.Identity, error)
}

// ErrorResponder writes a classified error response.
type ErrorResponder interface {
	Respond(w http.ResponseWriter, r *http.Request, err error)
}

// Authenticate validates bearer tokens and injects the caller identity into
// the request context.
type Authenticate struct {
	resolver       IdentityResolver
	contextManager model.ContextManager
	errors         ErrorResponder
	logger         *logger.Logger
}

func NewAuthenticate(resolver IdentityResolver, contextManager model.ContextManager, errors ErrorResponder, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		resolver:       resolver,
		contextManager: contextManager,
		errors:         errors,
		logger:         logger,
	}
}

// Handle rejects requests without a token as access denied and requests
// with an unusable token as invalid token, whatever the underlying cause.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), bearerPrefix))
		if token == "" {
			m.errors.Respond(w, r, model.NewAccessDeniedError())
			return
		}

		identity, err := m.resolver.ResolveIdentity(r.Context(), token)
		if err != nil {
			if model.KindOf(err) != model.KindInternal {
				err = model.NewInvalidTokenError(err)
			}
			m.errors.Respond(w, r, err)
			return
		}

		m.logger.Debug("Authenticate middleware: request authenticated",
			"user_id", identity.UserID)

		ctx := m.contextManager.SetIdentityToContext(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

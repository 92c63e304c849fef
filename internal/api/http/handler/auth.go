package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
)

// AuthService defines registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, params model.CreateUserParams) (model.Session, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	Profile(ctx context.Context, userID uuid.UUID) (model.User, error)
}

// Auth handles the /auth endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	errors         *ErrorResponder
	logger         *logger.Logger
}

func NewAuth(authService AuthService, contextManager model.ContextManager, errors *ErrorResponder, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		errors:         errors,
		logger:         logger,
	}
}

func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	session, err := h.authService.Register(r.Context(), model.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	h.logger.Debug("Auth handler: registration completed",
		"user_id", session.User.ID)

	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// Profile returns the caller attached by the authentication middleware.
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		h.errors.Respond(w, r, model.NewAccessDeniedError())
		return
	}

	user, err := h.authService.Profile(r.Context(), identity.UserID)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

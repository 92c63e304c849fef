package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
)

const msgUserDeleted = "User deleted successfully"

// UserService defines user directory operations.
type UserService interface {
	Create(ctx context.Context, params model.CreateUserParams) (model.User, error)
	Get(ctx context.Context, id string) (model.User, error)
	List(ctx context.Context, req model.PageRequest) (model.UserPage, error)
	Update(ctx context.Context, id string, params model.UpdateUserParams) (model.User, error)
	SoftDelete(ctx context.Context, id string) error
}

// Users handles the /users endpoints.
type Users struct {
	userService UserService
	errors      *ErrorResponder
	logger      *logger.Logger
}

func NewUsers(userService UserService, errors *ErrorResponder, logger *logger.Logger) *Users {
	return &Users{
		userService: userService,
		errors:      errors,
		logger:      logger,
	}
}

// List reads page and limit from the query string. Missing or unparsable
// values fall back to the defaults.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	result, err := h.userService.List(r.Context(), model.NewPageRequest(page, limit))
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserListResponse(result))
}

func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	user, err := h.userService.Create(r.Context(), model.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	user, err := h.userService.Update(r.Context(), chi.URLParam(r, "id"), model.UpdateUserParams{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.userService.SoftDelete(r.Context(), id); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	h.logger.Debug("Users handler: user deleted",
		"user_id", id)

	writeJSON(w, http.StatusOK, messageResponse{Message: msgUserDeleted})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
)

const (
	MsgValidation         = "Validation Error"
	MsgInvalidCredentials = "Invalid credentials"
	MsgAccessDenied       = "Access denied. No token provided."
	MsgInvalidToken       = "Invalid token."
	MsgUserNotFound       = "User not found"
	MsgInternal           = "Internal server error"
	MsgRouteNotFound      = "Route not found"
	MsgTooManyRequests    = "Too many requests from this IP, please try again later."
	MsgRequestTimeout     = "Request timed out"
	MsgRequestRejected    = "Request rejected"
)

type violationResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Message string              `json:"message"`
	Errors  []violationResponse `json:"errors,omitempty"`
	Detail  string              `json:"detail,omitempty"`
}

// classify maps err to its status code and wire body. Internal detail is
// included only when exposeDetail is set.
func classify(err error, exposeDetail bool) (int, errorResponse) {
	var modelErr *model.Error
	if !errors.As(err, &modelErr) {
		modelErr = model.NewInternalError(err)
	}

	switch modelErr.Kind {
	case model.KindValidation:
		resp := errorResponse{Message: MsgValidation}
		for _, v := range modelErr.Violations {
			resp.Errors = append(resp.Errors, violationResponse{Field: v.Field, Message: v.Message})
		}
		return http.StatusBadRequest, resp
	case model.KindDuplicateEmail:
		field := modelErr.Field
		if field == "" {
			field = "email"
		}
		return http.StatusBadRequest, errorResponse{Message: field + " already exists"}
	case model.KindInvalidCredentials:
		return http.StatusUnauthorized, errorResponse{Message: MsgInvalidCredentials}
	case model.KindAccessDenied:
		return http.StatusUnauthorized, errorResponse{Message: MsgAccessDenied}
	case model.KindInvalidToken:
		return http.StatusUnauthorized, errorResponse{Message: MsgInvalidToken}
	case model.KindNotFound:
		return http.StatusNotFound, errorResponse{Message: MsgUserNotFound}
	case model.KindInternal:
		return http.StatusInternalServerError, internalResponse(err, exposeDetail)
	}
	return http.StatusInternalServerError, internalResponse(err, exposeDetail)
}

func internalResponse(err error, exposeDetail bool) errorResponse {
	resp := errorResponse{Message: MsgInternal}
	if exposeDetail && err != nil {
		resp.Detail = err.Error()
	}
	return resp
}

// ErrorResponder logs a failed request and writes its classified response.
type ErrorResponder struct {
	contextManager model.ContextManager
	logger         *logger.Logger
	exposeDetail   bool
}

func NewErrorResponder(contextManager model.ContextManager, logger *logger.Logger, exposeDetail bool) *ErrorResponder {
	return &ErrorResponder{
		contextManager: contextManager,
		logger:         logger,
		exposeDetail:   exposeDetail,
	}
}

func (e *ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err, e.exposeDetail)

	args := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"status", status,
		"kind", model.KindOf(err).String(),
	}
	if identity, ok := e.contextManager.GetIdentityFromContext(r.Context()); ok {
		args = append(args, "user_id", identity.UserID)
	}
	if err != nil {
		args = append(args, "error", err.Error())
	}

	if status >= http.StatusInternalServerError {
		e.logger.Error("HTTP handler: request failed", args...)
	} else {
		e.logger.Info("HTTP handler: request rejected", args...)
	}

	writeJSON(w, status, body)
}

// RouteNotFound answers requests that match no route.
func RouteNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Message: MsgRouteNotFound})
}

// TooManyRequests answers requests rejected by the rate limiter.
func TooManyRequests(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Message: MsgTooManyRequests})
}

// RequestTimeout answers requests that ran past their deadline.
func RequestTimeout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusGatewayTimeout, errorResponse{Message: MsgRequestTimeout})
}

// RequestRejected answers requests refused by the security headers check.
func RequestRejected(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: MsgRequestRejected})
}

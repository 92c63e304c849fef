package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	httpctx "github.com/dtroode/userkeeper/internal/api/http/context"
	"github.com/dtroode/userkeeper/internal/mocks"
	"github.com/dtroode/userkeeper/internal/model"
	"github.com/dtroode/userkeeper/internal/testutil"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        model.NewValidationError([]model.Violation{{Field: "name", Message: "Name must be between 2 and 50 characters"}, {Field: "email", Message: "Please provide a valid email"}}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Validation Error","errors":[{"field":"name","message":"Name must be between 2 and 50 characters"},{"field":"email","message":"Please provide a valid email"}]}`,
		},
		{
			name:       "duplicate email",
			err:        model.NewDuplicateError("email", model.ErrDuplicateEmail),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"email already exists"}`,
		},
		{
			name:       "invalid credentials",
			err:        model.NewInvalidCredentialsError(),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Invalid credentials"}`,
		},
		{
			name:       "access denied",
			err:        model.NewAccessDeniedError(),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Access denied. No token provided."}`,
		},
		{
			name:       "invalid token",
			err:        model.NewInvalidTokenError(model.ErrTokenExpired),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Invalid token."}`,
		},
		{
			name:       "not found",
			err:        model.NewNotFoundError(model.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"User not found"}`,
		},
		{
			name:       "internal hides detail",
			err:        model.NewInternalError(errors.New("pq: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Internal server error"}`,
		},
		{
			name:       "plain error is internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			newTestResponder().Respond(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
		})
	}
}

func TestErrorResponder_ExposesDetailOutsideProduction(t *testing.T) {
	responder := NewErrorResponder(httpctx.NewManager(), testutil.MakeNoopLogger(), true)

	rr := httptest.NewRecorder()
	responder.Respond(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pool closed"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"message":"Internal server error","detail":"pool closed"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	responder.Respond(rr, httptest.NewRequest(http.MethodGet, "/", nil), model.NewNotFoundError(model.ErrNotFound))
	assert.JSONEq(t, `{"message":"User not found"}`, rr.Body.String())
}

func TestErrorResponder_LogsCaller(t *testing.T) {
	ctxMgr := mocks.NewContextManager(t)
	responder := NewErrorResponder(ctxMgr, testutil.MakeNoopLogger(), false)

	req := httptest.NewRequest(http.MethodPut, "/users/1", nil)
	ctxMgr.On("GetIdentityFromContext", req.Context()).
		Return(model.Identity{UserID: uuid.New(), Role: model.RoleUser}, true).
		Once()

	rr := httptest.NewRecorder()
	responder.Respond(rr, req, model.NewNotFoundError(model.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouteNotFound(t *testing.T) {
	rr := httptest.NewRecorder()
	RouteNotFound(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, rr.Body.String())
}

func TestTooManyRequests(t *testing.T) {
	rr := httptest.NewRecorder()
	TooManyRequests(rr, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"message":"Too many requests from this IP, please try again later."}`, rr.Body.String())
}

func TestFixedResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{name: "timeout", handler: RequestTimeout, wantStatus: http.StatusGatewayTimeout, wantBody: `{"message":"Request timed out"}`},
		{name: "rejected", handler: RequestRejected, wantStatus: http.StatusBadRequest, wantBody: `{"message":"Request rejected"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			tt.handler(rr, httptest.NewRequest(http.MethodGet, "/users", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
		})
	}
}

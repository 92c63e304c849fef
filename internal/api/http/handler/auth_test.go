package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpctx "github.com/dtroode/userkeeper/internal/api/http/context"
	"github.com/dtroode/userkeeper/internal/mocks"
	"github.com/dtroode/userkeeper/internal/model"
	"github.com/dtroode/userkeeper/internal/testutil"
)

func newTestAuthHandler(t *testing.T) (*Auth, *mocks.AuthService, *httpctx.Manager) {
	t.Helper()
	svc := mocks.NewAuthService(t)
	ctxMgr := httpctx.NewManager()
	return NewAuth(svc, ctxMgr, newTestResponder(), testutil.MakeNoopLogger()), svc, ctxMgr
}

func TestAuth_Register(t *testing.T) {
	h, svc, _ := newTestAuthHandler(t)
	id := uuid.MustParse("7f1c2a9e-3c1b-4b57-9d9e-2f7f0c7a1b11")

	svc.On("Register", mock.Anything, model.CreateUserParams{Name: "Jane", Email: "jane@example.com", Password: "secret1"}).
		Return(model.Session{Token: "tok", User: model.User{ID: id, Name: "Jane", Email: "jane@example.com", Role: model.RoleUser, PasswordHash: "digest"}}, nil)

	rr := httptest.NewRecorder()
	h.Register(rr, newRequest(http.MethodPost, "/auth/register", `{"name":"Jane","email":"jane@example.com","password":"secret1"}`))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"token":"tok","user":{"id":"7f1c2a9e-3c1b-4b57-9d9e-2f7f0c7a1b11","name":"Jane","email":"jane@example.com","role":"user"}}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "digest")
}

func TestAuth_Register_MalformedBody(t *testing.T) {
	h, _, _ := newTestAuthHandler(t)

	rr := httptest.NewRecorder()
	h.Register(rr, newRequest(http.MethodPost, "/auth/register", `{"name":`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Validation Error","errors":[{"field":"body","message":"Request body must be valid JSON"}]}`, rr.Body.String())
}

func TestAuth_Login_FailuresAreIndistinguishable(t *testing.T) {
	h, svc, _ := newTestAuthHandler(t)

	svc.On("Login", mock.Anything, "jane@example.com", "wrong").Return(model.Session{}, model.NewInvalidCredentialsError())
	svc.On("Login", mock.Anything, "ghost@example.com", "wrong").Return(model.Session{}, model.NewInvalidCredentialsError())

	wrongPassword := httptest.NewRecorder()
	h.Login(wrongPassword, newRequest(http.MethodPost, "/auth/login", `{"email":"jane@example.com","password":"wrong"}`))
	unknownEmail := httptest.NewRecorder()
	h.Login(unknownEmail, newRequest(http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"wrong"}`))

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.Bytes(), unknownEmail.Body.Bytes())
}

func TestAuth_Profile(t *testing.T) {
	h, svc, ctxMgr := newTestAuthHandler(t)
	id := uuid.New()
	login := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	svc.On("Profile", mock.Anything, id).Return(model.User{ID: id, Name: "Jane", Email: "jane@example.com", Role: model.RoleUser, IsActive: true, LastLogin: &login}, nil)

	req := newRequest(http.MethodGet, "/auth/profile", "")
	req = req.WithContext(ctxMgr.SetIdentityToContext(req.Context(), model.Identity{UserID: id, Role: model.RoleUser}))

	rr := httptest.NewRecorder()
	h.Profile(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, true, body["isActive"])
	assert.Equal(t, "2025-03-01T12:00:00Z", body["lastLogin"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passwordHash")
}

func TestAuth_Profile_NoIdentity(t *testing.T) {
	h, _, _ := newTestAuthHandler(t)

	rr := httptest.NewRecorder()
	h.Profile(rr, newRequest(http.MethodGet, "/auth/profile", ""))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"Access denied. No token provided."}`, rr.Body.String())
}

package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/userkeeper/internal/mocks"
	"github.com/dtroode/userkeeper/internal/model"
	"github.com/dtroode/userkeeper/internal/testutil"
)

func newTestUsersHandler(t *testing.T) (*Users, *mocks.UserService) {
	t.Helper()
	svc := mocks.NewUserService(t)
	return NewUsers(svc, newTestResponder(), testutil.MakeNoopLogger()), svc
}

func TestUsers_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		wantReq model.PageRequest
	}{
		{name: "explicit page", query: "?page=2&limit=5", wantReq: model.PageRequest{Page: 2, Limit: 5}},
		{name: "defaults", query: "", wantReq: model.PageRequest{Page: 1, Limit: 10}},
		{name: "unparsable values", query: "?page=abc&limit=-4", wantReq: model.PageRequest{Page: 1, Limit: 10}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc := newTestUsersHandler(t)

			svc.On("List", mock.Anything, tt.wantReq).Return(model.UserPage{
				Users:      []model.User{{ID: uuid.New(), Name: "Jane"}},
				Pagination: model.NewPagination(tt.wantReq, 1),
			}, nil)

			rr := httptest.NewRecorder()
			h.List(rr, newRequest(http.MethodGet, "/users"+tt.query, ""))

			require.Equal(t, http.StatusOK, rr.Code)
			body := decodeBody(t, rr)
			assert.Len(t, body["users"], 1)
			pagination := body["pagination"].(map[string]any)
			assert.Equal(t, float64(tt.wantReq.Page), pagination["page"])
			assert.Equal(t, float64(tt.wantReq.Limit), pagination["limit"])
		})
	}
}

func TestUsers_List_EmptyIsArray(t *testing.T) {
	h, svc := newTestUsersHandler(t)
	svc.On("List", mock.Anything, model.NewPageRequest(1, 10)).Return(model.UserPage{Pagination: model.NewPagination(model.NewPageRequest(1, 10), 0)}, nil)

	rr := httptest.NewRecorder()
	h.List(rr, newRequest(http.MethodGet, "/users", ""))

	assert.JSONEq(t, `{"users":[],"pagination":{"page":1,"limit":10,"total":0,"pages":0}}`, rr.Body.String())
}

func TestUsers_Get(t *testing.T) {
	h, svc := newTestUsersHandler(t)
	id := uuid.New()

	svc.On("Get", mock.Anything, id.String()).Return(model.User{ID: id, Name: "Jane", IsActive: false}, nil)
	svc.On("Get", mock.Anything, "missing").Return(model.User{}, model.NewNotFoundError(model.ErrNotFound))

	rr := httptest.NewRecorder()
	h.Get(rr, withURLParam(newRequest(http.MethodGet, "/users/"+id.String(), ""), "id", id.String()))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, decodeBody(t, rr)["isActive"])

	rr = httptest.NewRecorder()
	h.Get(rr, withURLParam(newRequest(http.MethodGet, "/users/missing", ""), "id", "missing"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rr.Body.String())
}

func TestUsers_Create(t *testing.T) {
	h, svc := newTestUsersHandler(t)
	params := model.CreateUserParams{Name: "Jane", Email: "jane@example.com", Password: "secret1"}

	svc.On("Create", mock.Anything, params).Return(model.User{ID: uuid.New(), Name: "Jane", Email: "jane@example.com", Role: model.RoleUser, IsActive: true}, nil).Once()

	rr := httptest.NewRecorder()
	h.Create(rr, newRequest(http.MethodPost, "/users", `{"name":"Jane","email":"jane@example.com","password":"secret1"}`))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "user", decodeBody(t, rr)["role"])

	svc.On("Create", mock.Anything, params).Return(model.User{}, model.NewDuplicateError("email", model.ErrDuplicateEmail)).Once()

	rr = httptest.NewRecorder()
	h.Create(rr, newRequest(http.MethodPost, "/users", `{"name":"Jane","email":"jane@example.com","password":"secret1"}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"email already exists"}`, rr.Body.String())
}

func TestUsers_Update(t *testing.T) {
	h, svc := newTestUsersHandler(t)
	id := uuid.New().String()

	svc.On("Update", mock.Anything, id, model.UpdateUserParams{Name: "Jane", Email: "broken"}).
		Return(model.User{}, model.NewValidationError([]model.Violation{{Field: "email", Message: "Please provide a valid email"}}))

	rr := httptest.NewRecorder()
	h.Update(rr, withURLParam(newRequest(http.MethodPut, "/users/"+id, `{"name":"Jane","email":"broken"}`), "id", id))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Validation Error","errors":[{"field":"email","message":"Please provide a valid email"}]}`, rr.Body.String())
}

func TestUsers_Delete(t *testing.T) {
	h, svc := newTestUsersHandler(t)
	id := uuid.New().String()

	svc.On("SoftDelete", mock.Anything, id).Return(nil).Once()
	svc.On("SoftDelete", mock.Anything, id).Return(model.NewInternalError(errors.New("pool closed"))).Once()

	rr := httptest.NewRecorder()
	h.Delete(rr, withURLParam(newRequest(http.MethodDelete, "/users/"+id, ""), "id", id))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Delete(rr, withURLParam(newRequest(http.MethodDelete, "/users/"+id, ""), "id", id))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rr.Body.String())
}

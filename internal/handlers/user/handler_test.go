package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cowork/infras/otel/mocks"
	"cowork/internal/domains/user/model/dto"
	"cowork/internal/handlers/user"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

const userID = "0f8fad5b-d9cb-469f-a165-70867728950e"

type stubService struct {
	params    gDto.QueryParams
	filter    gDto.FilterGroup
	getCalled bool
	deleteErr error
}

func (s *stubService) Create(_ context.Context, req dto.CreateUserRequest) (dto.UserResponse, error) {
	return dto.UserResponse{ID: userID, Email: req.Email}, nil
}

func (s *stubService) GetAll(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error) {
	s.params = params
	s.filter = filter

	return dto.GetUsersResponse{TotalPage: 1}, nil
}

func (s *stubService) Count(context.Context, gDto.QueryParams, gDto.FilterGroup) (int, error) {
	return 0, nil
}

func (s *stubService) Get(_ context.Context, id string) (dto.UserResponse, error) {
	s.getCalled = true

	return dto.UserResponse{ID: id}, nil
}

func (s *stubService) Update(context.Context, dto.UpdateUserRequest, string) error {
	return nil
}

func (s *stubService) Delete(context.Context, string) error {
	return s.deleteErr
}

func serve(svc *stubService, method, target, body string) *httptest.ResponseRecorder {
	handler := user.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))

	return recorder
}

func TestHandler_GetUsers(t *testing.T) {
	svc := &stubService{}

	recorder := serve(svc, http.MethodGet, "/v1/users/?name=som&role=admin&email=Ann@Example.com&sort_by=password", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "created_at", svc.params.SortBy)

	where, args := svc.filter.GetWhereClause()
	assert.Equal(t, "(users.email = :email AND users.role = :role AND LOWER(users.name) LIKE LOWER(:name) )", where)
	assert.Equal(t, "ann@example.com", args["email"])
	assert.Equal(t, "%som%", args["name"])
}

func TestHandler_GetUserByID(t *testing.T) {
	t.Run("MalformedID", func(t *testing.T) {
		svc := &stubService{}

		recorder := serve(svc, http.MethodGet, "/v1/users/42", "")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "No user with the id of 42")
		assert.False(t, svc.getCalled)
	})

	t.Run("Found", func(t *testing.T) {
		svc := &stubService{}

		recorder := serve(svc, http.MethodGet, "/v1/users/"+userID, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), userID)
	})
}

func TestHandler_CreateUser(t *testing.T) {
	body := `{"name":"Ann","email":"ann@example.com","password":"secret1","role":"admin"}`

	recorder := serve(&stubService{}, http.MethodPost, "/v1/users/", body)

	assert.Equal(t, http.StatusCreated, recorder.Code)

	recorder = serve(&stubService{}, http.MethodPost, "/v1/users/", `{"name":"Ann","email":"nope","password":"secret1"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "email must be a valid email address")
}

func TestHandler_DeleteUser(t *testing.T) {
	svc := &stubService{deleteErr: failure.NotFound("No user with the id of " + userID)}

	recorder := serve(svc, http.MethodDelete, "/v1/users/"+userID, "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

package coworkingspace_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cowork/infras/otel/mocks"
	"cowork/internal/domains/coworkingspace/model/dto"
	"cowork/internal/handlers/coworkingspace"
	gDto "cowork/shared/dto"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	created dto.CreateCoworkingSpaceRequest
	filter  gDto.FilterGroup
	params  gDto.QueryParams
	calls   int
}

func (s *stubService) Create(_ context.Context, req dto.CreateCoworkingSpaceRequest) (dto.CoworkingSpaceResponse, error) {
	s.created = req

	return dto.CoworkingSpaceResponse{ID: "space-1", Name: req.Name}, nil
}

func (s *stubService) GetAll(_ context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCoworkingSpacesResponse, error) {
	s.params = req
	s.filter = filter

	return dto.GetCoworkingSpacesResponse{TotalPage: 1}, nil
}

func (s *stubService) Count(context.Context, gDto.QueryParams, gDto.FilterGroup) (int, error) {
	return 0, nil
}

func (s *stubService) Get(_ context.Context, id string) (dto.CoworkingSpaceResponse, error) {
	s.calls++

	return dto.CoworkingSpaceResponse{ID: id}, nil
}

func (s *stubService) Update(_ context.Context, _ dto.UpdateCoworkingSpaceRequest, id string) (dto.CoworkingSpaceResponse, error) {
	s.calls++

	return dto.CoworkingSpaceResponse{ID: id}, nil
}

func (s *stubService) Delete(context.Context, string) error {
	s.calls++

	return nil
}

func newRouter(svc *stubService) http.Handler {
	handler := coworkingspace.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router
}

func TestHandler_CreateCoworkingSpace(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := &stubService{}
		recorder := httptest.NewRecorder()

		body := `{"name":"Hub One","address":"1 Main Road","district":"Pathum Wan","province":"Bangkok",` +
			`"postalCode":"10330","region":"Central","openTime":"09:00","closeTime":"17:00"}`
		newRouter(svc).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/coworkingspaces", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, "09:00", svc.created.OpenTime)
	})

	t.Run("InvalidClock", func(t *testing.T) {
		svc := &stubService{}
		recorder := httptest.NewRecorder()

		body := `{"name":"Hub One","address":"1 Main Road","district":"Pathum Wan","province":"Bangkok",` +
			`"postalCode":"10330","region":"Central","openTime":"9 o'clock","closeTime":"17:00"}`
		newRouter(svc).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/coworkingspaces", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Empty(t, svc.created.Name)
	})

	t.Run("NameLongerThanColumn", func(t *testing.T) {
		svc := &stubService{}
		recorder := httptest.NewRecorder()

		body := `{"name":"` + strings.Repeat("n", 51) + `","address":"1 Main Road","district":"Pathum Wan","province":"Bangkok",` +
			`"postalCode":"10330","region":"Central","openTime":"09:00","closeTime":"17:00"}`
		newRouter(svc).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/coworkingspaces", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "name must be at most 50")
		assert.Empty(t, svc.created.Name)
	})
}

func TestHandler_GetCoworkingSpaces(t *testing.T) {
	svc := &stubService{}
	recorder := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/coworkingspaces?province=Bangkok&sort_by=password", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	where, args := svc.filter.GetWhereClause()
	assert.Equal(t, "(coworking_spaces.province = :province)", where)
	assert.Equal(t, "Bangkok", args["province"])
	assert.NotEqual(t, "password", svc.params.SortBy)
}

func TestHandler_CoworkingSpaceByID(t *testing.T) {
	const spaceID = "22222222-2222-2222-2222-222222222222"

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			svc := &stubService{}
			recorder := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(recorder, httptest.NewRequest(method, "/coworkingspaces/abc", strings.NewReader(`{"tel":"021234567"}`)))

			assert.Equal(t, http.StatusNotFound, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "No coworking space with the id of abc")
			assert.Zero(t, svc.calls)

			recorder = httptest.NewRecorder()

			newRouter(svc).ServeHTTP(recorder, httptest.NewRequest(method, "/coworkingspaces/"+spaceID, strings.NewReader(`{"tel":"021234567"}`)))

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, 1, svc.calls)
		})
	}
}

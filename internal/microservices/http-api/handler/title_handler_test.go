package handler_test

import (
	"net/http"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTitleRouter(t *testing.T, svc *MockTitleService, caller *permission.Principal) *gin.Engine {
	r, api := newEngine(t, caller)
	handler.NewTitleHandler(svc, 2).RegisterRoutes(api.Group("/titles"))
	return r
}

func TestTitleHandler_List(t *testing.T) {
	t.Run("Filters and envelope", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, nil)

		rating := 7.5
		svc.On("List", mock.Anything, mock.MatchedBy(func(q dto.TitleQuery) bool {
			return q.Genre == "drama" && q.Category == "film" && q.YearMin != nil && *q.YearMin == 1990 && q.Page == 2
		}), 2).Return([]dto.TitleResponse{{ID: 3, Name: "Heat", Year: 1995, Rating: &rating}}, int64(5), nil)

		w := send(r, http.MethodGet, "/api/v1/titles?genre=drama&category=film&year_min=1990&page=2", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.EqualValues(t, 5, body["count"])
		assert.Equal(t, "/api/v1/titles?category=film&genre=drama&page=3&year_min=1990", body["next"])
		assert.Equal(t, "/api/v1/titles?category=film&genre=drama&year_min=1990", body["previous"])
		results := body["results"].([]interface{})
		assert.Len(t, results, 1)
		assert.Equal(t, 7.5, results[0].(map[string]interface{})["rating"])
		svc.AssertExpectations(t)
	})

	t.Run("Page out of range", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, nil)
		svc.On("List", mock.Anything, mock.Anything, 2).Return(nil, int64(0), service.ErrPageNotFound)

		w := send(r, http.MethodGet, "/api/v1/titles?page=9", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid page parameter", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, nil)

		w := send(r, http.MethodGet, "/api/v1/titles?page=abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "List")
	})
}

func TestTitleHandler_Get(t *testing.T) {
	t.Run("Success with null rating", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, nil)
		svc.On("Get", mock.Anything, int64(4)).Return(&dto.TitleResponse{ID: 4, Name: "Alien", Year: 1979, Genre: []dto.GenreResponse{}}, nil)

		w := send(r, http.MethodGet, "/api/v1/titles/4", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Contains(t, body, "rating")
		assert.Nil(t, body["rating"])
	})

	t.Run("Non-numeric id", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, nil)

		w := send(r, http.MethodGet, "/api/v1/titles/abc", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		svc.AssertNotCalled(t, "Get")
	})

	t.Run("Not found", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, nil)
		svc.On("Get", mock.Anything, int64(99)).Return(nil, service.ErrTitleNotFound)

		w := send(r, http.MethodGet, "/api/v1/titles/99", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTitleHandler_Create(t *testing.T) {
	t.Run("Admin creates", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, admin("root"))
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req dto.CreateTitleRequest) bool {
			return req.Name == "Heat" && *req.Year == 1995 && len(req.Genre) == 1
		})).Return(&dto.TitleResponse{ID: 1, Name: "Heat", Year: 1995}, nil)

		w := send(r, http.MethodPost, "/api/v1/titles", map[string]interface{}{
			"name": "Heat", "year": 1995, "genre": []string{"drama"},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Missing year", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, admin("root"))

		w := send(r, http.MethodPost, "/api/v1/titles", map[string]interface{}{"name": "Heat"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w), "fields")
		svc.AssertNotCalled(t, "Create")
	})

	t.Run("Bad genre slug", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, admin("root"))

		w := send(r, http.MethodPost, "/api/v1/titles", map[string]interface{}{
			"name": "Heat", "year": 1995, "genre": []string{"not a slug"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create")
	})

	t.Run("Future year from service", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, admin("root"))
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, service.NewValidationError("year", "year cannot be in the future"))

		w := send(r, http.MethodPost, "/api/v1/titles", map[string]interface{}{"name": "Heat", "year": 3000})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		fields := decode(t, w)["fields"].(map[string]interface{})
		assert.Contains(t, fields, "year")
	})

	t.Run("Anonymous", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, nil)

		w := send(r, http.MethodPost, "/api/v1/titles", map[string]interface{}{"name": "Heat", "year": 1995})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Regular user", func(t *testing.T) {
		svc := new(MockTitleService)
		r := setupTitleRouter(t, svc, user("bob"))

		w := send(r, http.MethodPost, "/api/v1/titles", map[string]interface{}{"name": "Heat", "year": 1995})

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "Create")
	})
}

func TestTitleHandler_Delete(t *testing.T) {
	svc := new(MockTitleService)
	r := setupTitleRouter(t, svc, admin("root"))
	svc.On("Delete", mock.Anything, int64(2)).Return(nil)

	w := send(r, http.MethodDelete, "/api/v1/titles/2", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

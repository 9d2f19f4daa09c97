package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pavelgrishin/worklink-backend/internal/http/middleware"
	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

func TestJobHandler_CreateJob_Unauthorized(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := &JobHandler{}
	r.POST("/jobs", handler.CreateJob)

	req, _ := http.NewRequest(http.MethodPost, "/jobs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJobHandler_CreateJob_ForbiddenForFreelancer(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	// Проверка роли выполняется до обращения к хранилищу.
	handler := NewJobHandler(service.NewJobService(nil, nil, nil, nil, nil))
	r.POST("/jobs", asActor(uuid.New(), models.RoleFreelancer), handler.CreateJob)

	body := strings.NewReader(`{"title": "Вакансия", "budget": "1000"}`)
	req, _ := http.NewRequest(http.MethodPost, "/jobs", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestJobHandler_CreateJob_InvalidBody(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := NewJobHandler(service.NewJobService(nil, nil, nil, nil, nil))
	r.POST("/jobs", asActor(uuid.New(), models.RoleHirer), handler.CreateJob)

	body := strings.NewReader(`{"title": "Вакансия", "budget": "0"}`)
	req, _ := http.NewRequest(http.MethodPost, "/jobs", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobHandler_GetJob_InvalidID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := &JobHandler{}
	r.GET("/jobs/:id", handler.GetJob)

	req, _ := http.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobHandler_AcceptApplication_Unauthorized(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := &JobHandler{}
	r.POST("/applications/:id/accept", handler.AcceptApplication)

	req, _ := http.NewRequest(http.MethodPost, "/applications/"+uuid.NewString()+"/accept", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

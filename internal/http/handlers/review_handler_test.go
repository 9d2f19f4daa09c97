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

func TestReviewHandler_CreateReview_Unauthorized(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := &ReviewHandler{}
	r.POST("/jobs/:id/reviews", handler.CreateReview)

	req, _ := http.NewRequest(http.MethodPost, "/jobs/"+uuid.NewString()+"/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewHandler_CreateReview_InvalidJobID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := &ReviewHandler{}
	r.POST("/jobs/:id/reviews", asActor(uuid.New(), models.RoleHirer), handler.CreateReview)

	req, _ := http.NewRequest(http.MethodPost, "/jobs/invalid/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_CreateReview_RatingValidation(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	// Оценки валидируются binding-тегами до вызова сервиса.
	handler := NewReviewHandler(service.NewReviewService(nil, nil, nil, nil))
	r.POST("/jobs/:id/reviews", asActor(uuid.New(), models.RoleHirer), handler.CreateReview)

	body := strings.NewReader(`{"comment": "ок", "service_as_described": 7, "recommend_to_a_friend": 5, "communication_level": 5}`)
	req, _ := http.NewRequest(http.MethodPost, "/jobs/"+uuid.NewString()+"/reviews", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_ListFreelancerReviews_InvalidID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := &ReviewHandler{}
	r.GET("/users/:id/reviews", handler.ListFreelancerReviews)

	req, _ := http.NewRequest(http.MethodGet, "/users/invalid/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

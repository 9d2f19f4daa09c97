package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pavelgrishin/worklink-backend/internal/dto"
	"github.com/pavelgrishin/worklink-backend/internal/http/handlers/common"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview POST /jobs/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.CreateReviewRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), actor, service.CreateReviewInput{
		JobID:              jobID,
		Comment:            req.Comment,
		ServiceAsDescribed: req.ServiceAsDescribed,
		RecommendToAFriend: req.RecommendToAFriend,
		CommunicationLevel: req.CommunicationLevel,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListJobReviews GET /jobs/:id/reviews
func (h *ReviewHandler) ListJobReviews(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	reviews, err := h.reviews.ListJobReviews(c.Request.Context(), jobID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// ListFreelancerReviews GET /users/:id/reviews
func (h *ReviewHandler) ListFreelancerReviews(c *gin.Context) {
	freelancerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	reviews, err := h.reviews.ListFreelancerReviews(c.Request.Context(), freelancerID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

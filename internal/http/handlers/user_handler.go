package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pavelgrishin/worklink-backend/internal/dto"
	"github.com/pavelgrishin/worklink-backend/internal/http/handlers/common"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

type UserHandler struct {
	users   *service.UserService
	reviews *service.ReviewService
}

func NewUserHandler(users *service.UserService, reviews *service.ReviewService) *UserHandler {
	return &UserHandler{users: users, reviews: reviews}
}

// GetMe GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), actor.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe PUT /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), actor, repository.ProfileUpdate{
		Fullname:    req.Fullname,
		Profession:  req.Profession,
		Experience:  req.Experience,
		Skills:      req.Skills,
		CompanyName: req.CompanyName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListFreelancers GET /users/freelancers
func (h *UserHandler) ListFreelancers(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	users, err := h.users.ListFreelancers(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetFreelancerRating GET /users/:id/rating
func (h *UserHandler) GetFreelancerRating(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	rating, err := h.reviews.FreelancerRating(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.RatingResponse{Rating: rating})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pavelgrishin/worklink-backend/internal/dto"
	"github.com/pavelgrishin/worklink-backend/internal/http/handlers/common"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

type MediaHandler struct {
	media *service.MediaService
}

func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadJobImage POST /jobs/:id/media
func (h *MediaHandler) UploadJobImage(c *gin.Context) {
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

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		_ = c.Error(apperror.New(apperror.ErrCodeBadRequest, "файл обязателен"))
		return
	}
	defer file.Close()

	media, err := h.media.UploadJobImage(c.Request.Context(), actor, jobID, file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, media)
}

// UploadResume POST /users/me/resume
func (h *MediaHandler) UploadResume(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		_ = c.Error(apperror.New(apperror.ErrCodeBadRequest, "файл обязателен"))
		return
	}
	defer file.Close()

	media, err := h.media.UploadResume(c.Request.Context(), actor, file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, media)
}

// ListJobMedia GET /jobs/:id/media
func (h *MediaHandler) ListJobMedia(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	files, err := h.media.ListJobMedia(c.Request.Context(), jobID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, files)
}

// DeleteMedia DELETE /media/:id
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	mediaID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.media.DeleteMedia(c.Request.Context(), actor, mediaID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "файл удалён"})
}

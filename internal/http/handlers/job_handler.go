package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pavelgrishin/worklink-backend/internal/dto"
	"github.com/pavelgrishin/worklink-backend/internal/http/handlers/common"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

type JobHandler struct {
	jobs *service.JobService
}

func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// CreateJob POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.CreateJobRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	budget, err := parseAmount(req.Budget)
	if err != nil {
		_ = c.Error(err)
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), actor, service.CreateJobInput{
		Title:          req.Title,
		Description:    req.Description,
		Budget:         budget,
		RequiredSkills: req.RequiredSkills,
		Deadline:       req.Deadline,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// ListJobs GET /jobs?search=&status=
func (h *JobHandler) ListJobs(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if status := c.Query("status"); status != "" {
		jobs, err := h.jobs.ListJobsByStatus(c.Request.Context(), status)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, jobs)
		return
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), actor, c.Query("search"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// ListMyJobs GET /jobs/my
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	jobs, err := h.jobs.ListMyJobs(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// ListBookmarked GET /jobs/bookmarked
func (h *JobHandler) ListBookmarked(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	jobs, err := h.jobs.ListBookmarkedJobs(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJob GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// RenameJob PUT /jobs/:id/title
func (h *JobHandler) RenameJob(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	var req dto.RenameJobRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.jobs.RenameJob(c.Request.Context(), actor, jobID, req.Title); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "вакансия обновлена"})
}

// SetDescription PUT /jobs/:id/description
func (h *JobHandler) SetDescription(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	var req dto.SetJobDescriptionRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.jobs.SetJobDescription(c.Request.Context(), actor, jobID, req.Description); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "вакансия обновлена"})
}

// SetBudget PUT /jobs/:id/budget
func (h *JobHandler) SetBudget(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	var req dto.SetJobBudgetRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	budget, err := parseAmount(req.Budget)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.jobs.SetJobBudget(c.Request.Context(), actor, jobID, budget); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "вакансия обновлена"})
}

// SetDeadline PUT /jobs/:id/deadline
func (h *JobHandler) SetDeadline(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	var req dto.SetJobDeadlineRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.jobs.SetJobDeadline(c.Request.Context(), actor, jobID, req.Deadline); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "вакансия обновлена"})
}

// SetSkills PUT /jobs/:id/skills
func (h *JobHandler) SetSkills(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	var req dto.SetJobSkillsRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.jobs.SetJobSkills(c.Request.Context(), actor, jobID, req.Skills); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "вакансия обновлена"})
}

// UpdateStatus PUT /jobs/:id/status
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	var req dto.UpdateJobStatusRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	job, err := h.jobs.UpdateJobStatus(c.Request.Context(), actor, jobID, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob DELETE /jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	if err := h.jobs.DeleteJob(c.Request.Context(), actor, jobID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "вакансия удалена"})
}

// ToggleBookmark POST /jobs/:id/bookmark
func (h *JobHandler) ToggleBookmark(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	bookmarked, err := h.jobs.ToggleBookmark(c.Request.Context(), actor, jobID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.BookmarkResponse{Bookmarked: bookmarked})
}

// CreateApplication POST /jobs/:id/applications
func (h *JobHandler) CreateApplication(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	rate, err := parseAmount(req.ProposedRate)
	if err != nil {
		_ = c.Error(err)
		return
	}

	app, err := h.jobs.CreateApplication(c.Request.Context(), actor, jobID, req.Proposal, rate)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// ListApplications GET /jobs/:id/applications
func (h *JobHandler) ListApplications(c *gin.Context) {
	actor, jobID, ok := h.actorAndJobID(c)
	if !ok {
		return
	}

	apps, err := h.jobs.ListApplications(c.Request.Context(), actor, jobID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

// ListMyApplications GET /applications/my
func (h *JobHandler) ListMyApplications(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	apps, err := h.jobs.ListMyApplications(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

// AcceptApplication POST /applications/:id/accept
func (h *JobHandler) AcceptApplication(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	applicationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	txn, err := h.jobs.AcceptApplication(c.Request.Context(), actor, applicationID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

// RejectApplication POST /applications/:id/reject
func (h *JobHandler) RejectApplication(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	applicationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.jobs.RejectApplication(c.Request.Context(), actor, applicationID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "отклик отклонён"})
}

func (h *JobHandler) actorAndJobID(c *gin.Context) (service.Actor, uuid.UUID, bool) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return service.Actor{}, uuid.Nil, false
	}
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return service.Actor{}, uuid.Nil, false
	}
	return actor, jobID, true
}

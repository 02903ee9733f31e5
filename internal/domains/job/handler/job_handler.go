package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"addressbook-backend/internal/domains/job"
	"addressbook-backend/internal/shared/response"
	"addressbook-backend/internal/shared/utils"
)

type JobHandler struct {
	service job.Service
}

func NewJobHandler(svc job.Service) *JobHandler {
	return &JobHandler{service: svc}
}

// RegisterRoutes mounts the job endpoints on an authenticated group.
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", h.List)
		jobs.GET("/:id", h.GetByID)
		jobs.POST("", h.Create)
		jobs.PUT("/:id", h.Update)
		jobs.DELETE("/:id", h.Delete)
	}
}

// GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, jobs)
}

// GET /api/jobs/:id
func (h *JobHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.NotFound(c, job.ErrJobNotFound.Error())
		return
	}

	j, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, j)
}

// POST /api/jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req job.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, fmt.Sprintf("/api/jobs/%d", created.ID), created)
}

// PUT /api/jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.NotFound(c, job.ErrJobNotFound.Error())
		return
	}

	var req job.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, req); err != nil {
		h.handleError(c, err)
		return
	}
	response.NoContent(c)
}

// DELETE /api/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.NoContent(c)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *JobHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, job.ErrJobNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, job.ErrJobInUse), errors.Is(err, job.ErrInvalidTitle):
		response.ErrorResponse(c, job.ToHTTPStatus(err), job.ToErrorCode(err), err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[JOB] Request failed")
		response.InternalServerError(c)
	}
}

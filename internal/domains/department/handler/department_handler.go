package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"addressbook-backend/internal/domains/department"
	"addressbook-backend/internal/shared/response"
	"addressbook-backend/internal/shared/utils"
)

type DepartmentHandler struct {
	service department.Service
}

func NewDepartmentHandler(svc department.Service) *DepartmentHandler {
	return &DepartmentHandler{service: svc}
}

// RegisterRoutes mounts the department endpoints on an authenticated group.
func (h *DepartmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	departments := rg.Group("/departments")
	{
		departments.GET("", h.List)
		departments.GET("/:id", h.GetByID)
		departments.POST("", h.Create)
		departments.PUT("/:id", h.Update)
		departments.DELETE("/:id", h.Delete)
	}
}

// GET /api/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, departments)
}

// GET /api/departments/:id
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.NotFound(c, department.ErrDepartmentNotFound.Error())
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, d)
}

// POST /api/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req department.DepartmentRequest
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
	response.Created(c, fmt.Sprintf("/api/departments/%d", created.ID), created)
}

// PUT /api/departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.NotFound(c, department.ErrDepartmentNotFound.Error())
		return
	}

	var req department.DepartmentRequest
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

// DELETE /api/departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
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

func (h *DepartmentHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, department.ErrDepartmentNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, department.ErrDepartmentInUse), errors.Is(err, department.ErrInvalidName):
		response.ErrorResponse(c, department.ToHTTPStatus(err), department.ToErrorCode(err), err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[DEPARTMENT] Request failed")
		response.InternalServerError(c)
	}
}

package handler

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"addressbook-backend/internal/domains/addressbook"
	"addressbook-backend/internal/infrastructure/storage"
	"addressbook-backend/internal/shared/response"
	"addressbook-backend/internal/shared/utils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFileName  = "AddressBook.xlsx"
)

type EntryHandler struct {
	service addressbook.Service
}

func NewEntryHandler(svc addressbook.Service) *EntryHandler {
	return &EntryHandler{service: svc}
}

// RegisterRoutes mounts the address book endpoints on an authenticated group.
func (h *EntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/addressbook")
	{
		entries.GET("", h.List)
		entries.GET("/search", h.Search)
		entries.GET("/export", h.Export)
		entries.GET("/:id", h.GetByID)
		entries.POST("", h.Create)
		entries.PUT("/:id", h.Update)
		entries.DELETE("/:id", h.Delete)
	}
}

// GET /api/addressbook
func (h *EntryHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, addressbook.ToResponses(entries))
}

// GET /api/addressbook/:id
func (h *EntryHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.NotFound(c, addressbook.ErrEntryNotFound.Error())
		return
	}

	entry, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, entry.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// POST /api/addressbook (multipart/form-data)
// ════════════════════════════════════════════════════════════════

func (h *EntryHandler) Create(c *gin.Context) {
	req, cleanup, ok := h.bindEntryForm(c)
	if !ok {
		return
	}
	defer cleanup()

	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, fmt.Sprintf("/api/addressbook/%d", entry.ID), entry.ToResponse())
}

// PUT /api/addressbook/:id (multipart/form-data, password and photo optional)
func (h *EntryHandler) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.NotFound(c, addressbook.ErrEntryNotFound.Error())
		return
	}

	req, cleanup, ok := h.bindEntryForm(c)
	if !ok {
		return
	}
	defer cleanup()

	if _, err := h.service.Update(c.Request.Context(), id, req); err != nil {
		h.handleError(c, err)
		return
	}
	response.NoContent(c)
}

// DELETE /api/addressbook/:id
func (h *EntryHandler) Delete(c *gin.Context) {
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

// GET /api/addressbook/search?searchTerm=&startDate=&endDate=
func (h *EntryHandler) Search(c *gin.Context) {
	filter, err := addressbook.NewSearchFilter(c.Query("searchTerm"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	entries, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, addressbook.ToResponses(entries))
}

// GET /api/addressbook/export
func (h *EntryHandler) Export(c *gin.Context) {
	data, err := h.service.Export(c.Request.Context(), requestBaseURL(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFileName))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// bindEntryForm reads the multipart form and opens the optional photo.
// cleanup closes the photo and must be called once the service returned.
func (h *EntryHandler) bindEntryForm(c *gin.Context) (addressbook.EntryRequest, func(), bool) {
	noop := func() {}

	var req addressbook.EntryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid form data: "+err.Error())
		return req, noop, false
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return req, noop, true
		}
		response.BadRequest(c, "invalid photo upload")
		return req, noop, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "invalid photo upload")
		return req, noop, false
	}

	req.Photo = &addressbook.PhotoUpload{Filename: fileHeader.Filename, Content: file}
	return req, func() { file.Close() }, true
}

func (h *EntryHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, verrs)
	case errors.Is(err, addressbook.ErrEntryNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, addressbook.ErrInvalidReference),
		errors.Is(err, addressbook.ErrPasswordRequired),
		errors.Is(err, addressbook.ErrInvalidSearchDate):
		response.ErrorResponse(c, addressbook.ToHTTPStatus(err), addressbook.ToErrorCode(err), err.Error())
	case errors.Is(err, storage.ErrInvalidImage):
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_PHOTO", err.Error())
	case errors.Is(err, storage.ErrPhotoTooLarge):
		response.ErrorResponse(c, http.StatusRequestEntityTooLarge, "PHOTO_TOO_LARGE", err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[ADDRESSBOOK] Request failed")
		response.InternalServerError(c)
	}
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}


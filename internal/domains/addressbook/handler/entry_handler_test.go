package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"addressbook-backend/internal/domains/addressbook"
	"addressbook-backend/internal/infrastructure/storage"
)

type stubService struct {
	entries map[int64]addressbook.Entry

	createErr error
	updateErr error

	lastRequest  addressbook.EntryRequest
	lastPhoto    []byte
	lastFilter   addressbook.SearchFilter
	lastBaseURL  string
	deletedIDs   []int64
	exportOutput []byte
}

func newStubService() *stubService {
	return &stubService{entries: map[int64]addressbook.Entry{
		1: {
			ID:           1,
			FullName:     "Ada Lovelace",
			JobID:        1,
			DepartmentID: 2,
			MobileNumber: "0100",
			DateOfBirth:  time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
			Email:        "ada@example.com",
			Age:          34,
		},
	}}
}

func (s *stubService) List(context.Context) ([]addressbook.Entry, error) {
	out := []addressbook.Entry{}
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubService) GetByID(_ context.Context, id int64) (*addressbook.Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, addressbook.ErrEntryNotFound
	}
	return &e, nil
}

func (s *stubService) capture(req addressbook.EntryRequest) {
	s.lastRequest = req
	s.lastPhoto = nil
	if req.Photo != nil {
		s.lastPhoto, _ = io.ReadAll(req.Photo.Content)
	}
}

func (s *stubService) Create(_ context.Context, req addressbook.EntryRequest) (*addressbook.Entry, error) {
	s.capture(req)
	if s.createErr != nil {
		return nil, s.createErr
	}
	e := addressbook.Entry{ID: 7, FullName: req.FullName, Email: req.Email, JobID: req.JobID, DepartmentID: req.DepartmentID}
	return &e, nil
}

func (s *stubService) Update(_ context.Context, id int64, req addressbook.EntryRequest) (*addressbook.Entry, error) {
	s.capture(req)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if _, ok := s.entries[id]; !ok {
		return nil, addressbook.ErrEntryNotFound
	}
	e := addressbook.Entry{ID: id, FullName: req.FullName}
	return &e, nil
}

func (s *stubService) Delete(_ context.Context, id int64) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *stubService) Search(_ context.Context, filter addressbook.SearchFilter) ([]addressbook.Entry, error) {
	s.lastFilter = filter
	return nil, nil
}

func (s *stubService) Export(_ context.Context, baseURL string) ([]byte, error) {
	s.lastBaseURL = baseURL
	return s.exportOutput, nil
}

func newRouter(svc addressbook.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewEntryHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func multipartBody(t *testing.T, fields map[string]string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if photo != nil {
		part, err := w.CreateFormFile("photo", "me.png")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"fullName":     "Grace Hopper",
		"jobId":        "1",
		"departmentId": "2",
		"mobileNumber": "0123",
		"dateOfBirth":  "1990-01-01",
		"email":        "grace@example.com",
		"password":     "secret",
	}
}

func serveForm(r http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEntryHandler_Create(t *testing.T) {
	svc := newStubService()
	r := newRouter(svc)

	body, ct := multipartBody(t, validFields(), []byte("fake-png"))
	w := serveForm(r, http.MethodPost, "/api/addressbook", body, ct)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/addressbook/7", w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), `"fullName":"Grace Hopper"`)
	assert.NotContains(t, w.Body.String(), "password")

	assert.Equal(t, int64(1), svc.lastRequest.JobID)
	assert.Equal(t, int64(2), svc.lastRequest.DepartmentID)
	assert.Equal(t, "secret", svc.lastRequest.Password)
	require.NotNil(t, svc.lastRequest.Photo)
	assert.Equal(t, "me.png", svc.lastRequest.Photo.Filename)
	assert.Equal(t, []byte("fake-png"), svc.lastPhoto)
}

func TestEntryHandler_CreateWithoutPhoto(t *testing.T) {
	svc := newStubService()
	r := newRouter(svc)

	body, ct := multipartBody(t, validFields(), nil)
	w := serveForm(r, http.MethodPost, "/api/addressbook", body, ct)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, svc.lastRequest.Photo)
}

func TestEntryHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "invalid reference",
			err:      addressbook.ErrInvalidReference,
			wantCode: http.StatusBadRequest,
			wantBody: `{"code":"INVALID_REFERENCE","message":"entry creation failed: invalid job ID or department ID"}`,
		},
		{
			name:     "password required",
			err:      addressbook.ErrPasswordRequired,
			wantCode: http.StatusBadRequest,
			wantBody: `{"code":"PASSWORD_REQUIRED","message":"password is required"}`,
		},
		{
			name:     "validation",
			err:      validation.Errors{"email": errors.New("invalid email format")},
			wantCode: http.StatusBadRequest,
			wantBody: `{"code":"VALIDATION_ERROR","message":"request validation failed","details":{"email":"invalid email format"}}`,
		},
		{
			name:     "bad image",
			err:      storage.ErrInvalidImage,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "image too large",
			err:      storage.ErrPhotoTooLarge,
			wantCode: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "unexpected",
			err:      errors.New("connection reset"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"code":"INTERNAL_SERVER_ERROR","message":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStubService()
			svc.createErr = tt.err
			r := newRouter(svc)

			body, ct := multipartBody(t, validFields(), nil)
			w := serveForm(r, http.MethodPost, "/api/addressbook", body, ct)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestEntryHandler_CreateRejectsMalformedForm(t *testing.T) {
	r := newRouter(newStubService())

	fields := validFields()
	fields["jobId"] = "not-a-number"
	body, ct := multipartBody(t, fields, nil)
	w := serveForm(r, http.MethodPost, "/api/addressbook", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntryHandler_Update(t *testing.T) {
	svc := newStubService()
	r := newRouter(svc)

	fields := validFields()
	delete(fields, "password")
	body, ct := multipartBody(t, fields, nil)
	w := serveForm(r, http.MethodPut, "/api/addressbook/1", body, ct)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, svc.lastRequest.Password)

	body, ct = multipartBody(t, fields, nil)
	w = serveForm(r, http.MethodPut, "/api/addressbook/99", body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body, ct = multipartBody(t, fields, nil)
	w = serveForm(r, http.MethodPut, "/api/addressbook/abc", body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntryHandler_GetAndList(t *testing.T) {
	r := newRouter(newStubService())

	w := serveForm(r, http.MethodGet, "/api/addressbook/1", &bytes.Buffer{}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dateOfBirth":"1990-05-20"`)
	assert.Contains(t, w.Body.String(), `"age":34`)

	w = serveForm(r, http.MethodGet, "/api/addressbook/2", &bytes.Buffer{}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serveForm(r, http.MethodGet, "/api/addressbook", &bytes.Buffer{}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fullName":"Ada Lovelace"`)
}

func TestEntryHandler_Delete(t *testing.T) {
	svc := newStubService()
	r := newRouter(svc)

	w := serveForm(r, http.MethodDelete, "/api/addressbook/42", &bytes.Buffer{}, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int64{42}, svc.deletedIDs)
}

func TestEntryHandler_Search(t *testing.T) {
	svc := newStubService()
	r := newRouter(svc)

	w := serveForm(r, http.MethodGet, "/api/addressbook/search?searchTerm=ada&startDate=1990-01-01&endDate=1999-12-31", &bytes.Buffer{}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, "ada", svc.lastFilter.Term)
	require.NotNil(t, svc.lastFilter.StartDate)
	require.NotNil(t, svc.lastFilter.EndDate)
	assert.Equal(t, time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), *svc.lastFilter.StartDate)

	w = serveForm(r, http.MethodGet, "/api/addressbook/search?startDate=yesterday", &bytes.Buffer{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_DATE")
}

func TestEntryHandler_Export(t *testing.T) {
	svc := newStubService()
	svc.exportOutput = []byte("xlsx-bytes")
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/addressbook/export", nil)
	req.Host = "example.com:8080"
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "AddressBook.xlsx")
	assert.Equal(t, "xlsx-bytes", w.Body.String())
	assert.Equal(t, "https://example.com:8080", svc.lastBaseURL)
}

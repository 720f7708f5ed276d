package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/auth"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockMediaService is a mock implementation of MediaService
type mockMediaService struct {
	err         error
	uploaded    string
	uploadedLen int
	gotPath     string
}

func (m *mockMediaService) Upload(ctx context.Context, bucket, filename string, body io.Reader, contentType string) (*models.UploadResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, _ := io.ReadAll(body)
	m.uploaded, m.uploadedLen = filename, len(data)
	return &models.UploadResult{Bucket: bucket, Path: "generated.png", URL: "https://cdn.example.com/" + bucket + "/generated.png"}, nil
}

func (m *mockMediaService) Download(ctx context.Context, bucket, objectPath string) (io.ReadCloser, string, error) {
	m.gotPath = objectPath
	if m.err != nil {
		return nil, "", m.err
	}
	return io.NopCloser(strings.NewReader("file-content")), "text/plain", nil
}

func (m *mockMediaService) DownloadURL(ctx context.Context, bucket, objectPath string) (string, error) {
	m.gotPath = objectPath
	return "https://signed.example.com/" + objectPath, m.err
}

func (m *mockMediaService) Delete(ctx context.Context, bucket, objectPath string) error {
	m.gotPath = objectPath
	return m.err
}

// withRole authenticates every request with the role from the X-Role header
func withRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), "user-1", r.Header.Get("X-Role"))))
	})
}

func newMediaRouter(svc MediaService) chi.Router {
	h := NewMediaHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	h.RegisterRoutes(r, withRole, adminOnly)
	return r
}

func multipartUpload(t *testing.T, target, role string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Role", role)
	return req
}

func TestMediaHandler_Upload(t *testing.T) {
	tests := []struct {
		name           string
		bucket         string
		role           string
		expectedStatus int
	}{
		{name: "student uploads avatar", bucket: models.BucketAvatars, role: auth.RoleStudent, expectedStatus: http.StatusCreated},
		{name: "student cannot upload thumbnail", bucket: models.BucketThumbnails, role: auth.RoleStudent, expectedStatus: http.StatusForbidden},
		{name: "admin uploads thumbnail", bucket: models.BucketThumbnails, role: auth.RoleAdmin, expectedStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockMediaService{}
			w := httptest.NewRecorder()
			newMediaRouter(svc).ServeHTTP(w, multipartUpload(t, "/media/"+tt.bucket, tt.role))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, "photo.png", svc.uploaded)
				assert.Equal(t, len("png-bytes"), svc.uploadedLen)
				assert.Contains(t, w.Body.String(), "generated.png")
			} else {
				assert.Empty(t, svc.uploaded)
			}
		})
	}
}

func TestMediaHandler_UploadWithoutFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/media/avatars", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	newMediaRouter(&mockMediaService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_Download(t *testing.T) {
	t.Run("stream", func(t *testing.T) {
		svc := &mockMediaService{}
		w := httptest.NewRecorder()
		newMediaRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/course-notes/2026/notes.txt", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "file-content", w.Body.String())
		assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
		assert.Equal(t, "2026/notes.txt", svc.gotPath)
	})

	t.Run("presigned", func(t *testing.T) {
		w := httptest.NewRecorder()
		newMediaRouter(&mockMediaService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/course-notes/notes.txt?presign=true", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "https://signed.example.com/notes.txt")
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		newMediaRouter(&mockMediaService{err: models.ErrFileNotFound}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/avatars/none.png", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMediaHandler_DeleteRequiresAdmin(t *testing.T) {
	svc := &mockMediaService{}
	router := newMediaRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/media/avatars/a.png", nil)
	req.Header.Set("X-Role", auth.RoleStudent)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.gotPath)

	req = httptest.NewRequest(http.MethodDelete, "/media/avatars/a.png", nil)
	req.Header.Set("X-Role", auth.RoleAdmin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "a.png", svc.gotPath)
}

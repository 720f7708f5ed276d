package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/auth"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadMemory is the part of a multipart form kept in memory; the rest spills to temp files
const maxUploadMemory = 8 << 20

// MediaService is the interface that wraps methods for stored files.
type MediaService interface {
	// Method Upload stores a file under a generated name keeping the original extension.
	//
	// Notes accept pdf, doc and txt files; thumbnails and avatars accept images.
	Upload(ctx context.Context, bucket, filename string, body io.Reader, contentType string) (*models.UploadResult, error)
	// Method Download opens a stored file. A missing file yields models.ErrFileNotFound.
	Download(ctx context.Context, bucket, objectPath string) (io.ReadCloser, string, error)
	DownloadURL(ctx context.Context, bucket, objectPath string) (string, error)
	Delete(ctx context.Context, bucket, objectPath string) error
}

// MediaHandler handles file upload and download HTTP requests
type MediaHandler struct {
	BaseHandler
	mediaService MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		mediaService: mediaService,
	}
}

// RegisterRoutes registers media routes.
// Downloads are public; uploads need authentication and deletes the admin role.
func (h *MediaHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/media/{bucket}", func(r chi.Router) {
		r.Get("/*", h.Download)
		r.With(authMiddleware).Post("/", h.Upload)
		r.With(adminMiddleware).Delete("/*", h.Delete)
	})
}

// Upload handles POST /media/{bucket}
// @Summary Upload file
// @Description Upload a file as multipart field "file". Students may only upload to the avatars bucket.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param bucket path string true "Bucket (course-thumbnails, course-notes, avatars)"
// @Param file formData file true "File"
// @Success 201 {object} models.UploadResult "Stored file"
// @Failure 400 {object} map[string]string "Invalid file"
// @Failure 403 {object} map[string]string "Admin role required"
// @Router /api/v1/media/{bucket} [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	if bucket != models.BucketAvatars && auth.GetRole(r.Context()) != auth.RoleAdmin {
		h.RespondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := h.mediaService.Upload(r.Context(), bucket, header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		h.RespondServiceError(w, err, "upload file")
		return
	}

	h.RespondJSON(w, http.StatusCreated, result)
}

// Download handles GET /media/{bucket}/{path}
// @Summary Download file
// @Description Stream a stored file, or with presign=true return a temporary download URL
// @Tags media
// @Produce octet-stream
// @Param bucket path string true "Bucket"
// @Param path path string true "Object path"
// @Param presign query bool false "Return a presigned URL instead of the content"
// @Success 200 {file} file "File content"
// @Failure 404 {object} map[string]string "File not found"
// @Router /api/v1/media/{bucket}/{path} [get]
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	bucket, objectPath := chi.URLParam(r, "bucket"), chi.URLParam(r, "*")

	presign, err := queryBool(r, "presign")
	if err != nil {
		h.RespondServiceError(w, err, "download file")
		return
	}
	if presign != nil && *presign {
		url, err := h.mediaService.DownloadURL(r.Context(), bucket, objectPath)
		if err != nil {
			h.RespondServiceError(w, err, "presign download")
			return
		}
		h.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
		return
	}

	body, contentType, err := h.mediaService.Download(r.Context(), bucket, objectPath)
	if err != nil {
		h.RespondServiceError(w, err, "download file")
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil && !errors.Is(err, context.Canceled) {
		h.Logger.Warn("failed to stream file", zap.String("bucket", bucket), zap.String("path", objectPath), zap.Error(err))
	}
}

// Delete handles DELETE /media/{bucket}/{path}
// @Summary Delete file
// @Tags media
// @Security BearerAuth
// @Param bucket path string true "Bucket"
// @Param path path string true "Object path"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "File not found"
// @Router /api/v1/media/{bucket}/{path} [delete]
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.mediaService.Delete(r.Context(), chi.URLParam(r, "bucket"), chi.URLParam(r, "*")); err != nil {
		h.RespondServiceError(w, err, "delete file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/objectstore"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStore defines the interface for object storage operations
type ObjectStore interface {
	// Upload stores body under bucket/objectPath and returns its public URL
	Upload(ctx context.Context, bucket, objectPath string, body io.Reader, contentType string) (string, error)
	// Download opens an object for reading. A missing object yields objectstore.ErrObjectNotFound.
	Download(ctx context.Context, bucket, objectPath string) (io.ReadCloser, string, error)
	// Delete removes an object and reports whether it existed
	Delete(ctx context.Context, bucket, objectPath string) (bool, error)
	// PresignDownload returns a time-limited download URL
	PresignDownload(ctx context.Context, bucket, objectPath string, expires time.Duration) (string, error)
}

// noteExtensions maps allowed note file extensions to their file type
var noteExtensions = map[string]models.FileType{
	".pdf":  models.FileTypePDF,
	".doc":  models.FileTypeDOC,
	".docx": models.FileTypeDOC,
	".txt":  models.FileTypeTXT,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// mediaService implements MediaService
type mediaService struct {
	store  ObjectStore
	logger *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(store ObjectStore, logger *zap.Logger) *mediaService {
	return &mediaService{
		store:  store,
		logger: logger,
	}
}

// Upload stores a file in a bucket under a generated name that keeps the original extension
func (s *mediaService) Upload(ctx context.Context, bucket, filename string, body io.Reader, contentType string) (*models.UploadResult, error) {
	ext := strings.ToLower(path.Ext(filename))
	if err := checkUpload(bucket, ext, contentType); err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	objectPath := uuid.NewString() + ext
	url, err := s.store.Upload(ctx, bucket, objectPath, body, contentType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("file uploaded", zap.String("bucket", bucket), zap.String("path", objectPath))
	return &models.UploadResult{Bucket: bucket, Path: objectPath, URL: url}, nil
}

// Download opens a stored file
func (s *mediaService) Download(ctx context.Context, bucket, objectPath string) (io.ReadCloser, string, error) {
	if !knownBucket(bucket) {
		return nil, "", fmt.Errorf("%w: unknown bucket %q", models.ErrInvalidInput, bucket)
	}
	body, contentType, err := s.store.Download(ctx, bucket, objectPath)
	if errors.Is(err, objectstore.ErrObjectNotFound) {
		return nil, "", models.ErrFileNotFound
	}
	return body, contentType, err
}

// DownloadURL returns a temporary download link for a stored file
func (s *mediaService) DownloadURL(ctx context.Context, bucket, objectPath string) (string, error) {
	if !knownBucket(bucket) {
		return "", fmt.Errorf("%w: unknown bucket %q", models.ErrInvalidInput, bucket)
	}
	return s.store.PresignDownload(ctx, bucket, objectPath, objectstore.DefaultPresignExpiry)
}

// Delete removes a stored file
func (s *mediaService) Delete(ctx context.Context, bucket, objectPath string) error {
	if !knownBucket(bucket) {
		return fmt.Errorf("%w: unknown bucket %q", models.ErrInvalidInput, bucket)
	}
	existed, err := s.store.Delete(ctx, bucket, objectPath)
	if err != nil {
		return err
	}
	if !existed {
		return models.ErrFileNotFound
	}

	s.logger.Info("file deleted", zap.String("bucket", bucket), zap.String("path", objectPath))
	return nil
}

func knownBucket(bucket string) bool {
	switch bucket {
	case models.BucketThumbnails, models.BucketNotes, models.BucketAvatars:
		return true
	}
	return false
}

// checkUpload validates the extension and content type of a file for its bucket
func checkUpload(bucket, ext, contentType string) error {
	switch bucket {
	case models.BucketNotes:
		if _, ok := noteExtensions[ext]; !ok {
			return fmt.Errorf("%w: notes must be pdf, doc or txt files", models.ErrInvalidInput)
		}
	case models.BucketThumbnails, models.BucketAvatars:
		if !imageExtensions[ext] {
			return fmt.Errorf("%w: unsupported image extension %q", models.ErrInvalidInput, ext)
		}
		if contentType != "" && !strings.HasPrefix(contentType, "image/") {
			return fmt.Errorf("%w: content type %q is not an image", models.ErrInvalidInput, contentType)
		}
	default:
		return fmt.Errorf("%w: unknown bucket %q", models.ErrInvalidInput, bucket)
	}
	return nil
}

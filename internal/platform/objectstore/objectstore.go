// Package objectstore stores uploaded course assets in S3-compatible storage.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// DefaultPresignExpiry is used when no expiry is given
const DefaultPresignExpiry = 15 * time.Minute

// ErrObjectNotFound is returned when the object does not exist
var ErrObjectNotFound = errors.New("object not found")

// S3Store implements object storage on a single S3 bucket.
// Logical buckets (course-thumbnails, course-notes, avatars) are key prefixes.
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewS3Store creates a new S3 store
func NewS3Store(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		if cfg.Endpoint != "" {
			publicBaseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload stores body under bucket/objectPath and returns its public URL
func (s *S3Store) Upload(ctx context.Context, bucket, objectPath string, body io.Reader, contentType string) (string, error) {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("failed to upload object", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return s.PublicURL(bucket, objectPath), nil
}

// Download opens the object for reading; the caller closes it
func (s *S3Store) Download(ctx context.Context, bucket, objectPath string) (io.ReadCloser, string, error) {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return nil, "", err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("failed to download object: %w", err)
	}
	return out.Body, aws.ToString(out.ContentType), nil
}

// Delete removes the object and reports whether it existed
func (s *S3Store) Delete(ctx context.Context, bucket, objectPath string) (bool, error) {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object: %w", err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		s.logger.Error("failed to delete object", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("failed to delete object: %w", err)
	}

	s.logger.Info("deleted object", zap.String("key", key))
	return true, nil
}

// PresignDownload returns a temporary GET URL for a private object
func (s *S3Store) PresignDownload(ctx context.Context, bucket, objectPath string, expires time.Duration) (string, error) {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return "", err
	}
	if expires <= 0 {
		expires = DefaultPresignExpiry
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}

// PublicURL returns the public URL of an object
func (s *S3Store) PublicURL(bucket, objectPath string) string {
	key, _ := objectKey(bucket, objectPath)
	return s.publicBaseURL + "/" + key
}

// objectKey joins a logical bucket and object path, rejecting traversal
func objectKey(bucket, objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if bucket == "" || strings.Contains(bucket, "/") || clean == "/" {
		return "", fmt.Errorf("invalid object location %q/%q", bucket, objectPath)
	}
	return bucket + clean, nil
}

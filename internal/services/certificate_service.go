package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/tasks"
	"go.uber.org/zap"
)

// CertificateRepository is the interface that wraps methods for Certificate table data access
type CertificateRepository interface {
	// Method Get retrieves the certificate of a user for a course.
	//
	// If none exists, models.ErrCertificateNotFound is returned.
	Get(ctx context.Context, userID, courseID string) (*models.Certificate, error)
	GetByID(ctx context.Context, id string) (*models.Certificate, error)
	// Method Create stores a certificate. It returns false when the user already holds one for the course.
	Create(ctx context.Context, c *models.Certificate) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Certificate, error)
}

// ProfileReader retrieves single profiles
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// EmailEnqueuer schedules templated emails for background delivery
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, to, template string, vars ...string) error
}

// certificateService implements CertificateService
type certificateService struct {
	certificateRepo CertificateRepository
	profileRepo     ProfileReader
	courseRepo      CourseReader
	emails          EmailEnqueuer
	baseURL         string
	logger          *zap.Logger
	now             func() time.Time
}

// NewCertificateService creates a new certificate service. emails may be nil to skip notifications.
func NewCertificateService(
	certificateRepo CertificateRepository,
	profileRepo ProfileReader,
	courseRepo CourseReader,
	emails EmailEnqueuer,
	baseURL string,
	logger *zap.Logger,
) *certificateService {
	return &certificateService{
		certificateRepo: certificateRepo,
		profileRepo:     profileRepo,
		courseRepo:      courseRepo,
		emails:          emails,
		baseURL:         baseURL,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Issue issues the certificate of a user for a course. Issuing twice returns the first certificate.
func (s *certificateService) Issue(ctx context.Context, userID, courseID string) (*models.Certificate, error) {
	existing, err := s.certificateRepo.Get(ctx, userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrCertificateNotFound) {
		return nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	now := s.now()
	certificate := &models.Certificate{
		UserID:    userID,
		CourseID:  courseID,
		IssueDate: now,
		Data: models.CertificateData{
			UserName:    profile.Name,
			CourseTitle: course.Title,
			Instructor:  course.Instructor,
			IssuedAt:    now,
		},
	}

	created, err := s.certificateRepo.Create(ctx, certificate)
	if err != nil {
		return nil, err
	}
	if !created {
		return s.certificateRepo.Get(ctx, userID, courseID)
	}

	s.logger.Info("certificate issued",
		zap.String("certificate_id", certificate.ID),
		zap.String("user_id", userID),
		zap.String("course_id", courseID),
	)

	if s.emails != nil {
		link := fmt.Sprintf("%s/api/v1/certificates/%s", s.baseURL, certificate.ID)
		if err := s.emails.EnqueueEmail(ctx, profile.Email, tasks.EmailCertificate, profile.Name, course.Title, link); err != nil {
			s.logger.Warn("failed to enqueue certificate email", zap.String("certificate_id", certificate.ID), zap.Error(err))
		}
	}

	return certificate, nil
}

// GetByID retrieves a certificate owned by the user. Certificates of other users are reported
// as not found unless asAdmin is set.
func (s *certificateService) GetByID(ctx context.Context, userID, id string, asAdmin bool) (*models.Certificate, error) {
	certificate, err := s.certificateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if certificate.UserID != userID && !asAdmin {
		return nil, models.ErrCertificateNotFound
	}
	return certificate, nil
}

// GetByCourse retrieves the certificate of a user for a course
func (s *certificateService) GetByCourse(ctx context.Context, userID, courseID string) (*models.Certificate, error) {
	return s.certificateRepo.Get(ctx, userID, courseID)
}

// ListMine retrieves all certificates of a user
func (s *certificateService) ListMine(ctx context.Context, userID string) ([]models.Certificate, error) {
	return s.certificateRepo.ListByUser(ctx, userID)
}

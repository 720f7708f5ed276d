package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
)

// EnrollmentRepository is the interface that wraps methods for CourseEnrollment table data access
type EnrollmentRepository interface {
	// Method Get retrieves the enrollment of a user in a course.
	//
	// If the user is not enrolled, models.ErrEnrollmentNotFound is returned.
	Get(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	// Method ListByUser retrieves all enrollments of a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	// Method EnrollWithProgress creates the enrollment and its empty progress row in one transaction.
	//
	// It returns false and writes nothing when the user is already enrolled.
	EnrollWithProgress(ctx context.Context, e *models.Enrollment, p *models.CourseProgress) (bool, error)
	// Method MarkCompleted flags the enrollment as completed.
	MarkCompleted(ctx context.Context, userID, courseID string, certificateIssued bool) error
}

// CourseReader retrieves single courses
type CourseReader interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
}

// enrollmentService implements EnrollmentService
type enrollmentService struct {
	enrollmentRepo EnrollmentRepository
	courseRepo     CourseReader
	logger         *zap.Logger
	now            func() time.Time
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollmentRepo EnrollmentRepository, courseRepo CourseReader, logger *zap.Logger) *enrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Enroll enrolls a user in a course.
// Enrolling twice is a no-op: the existing enrollment is returned and created is false.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, bool, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, false, err
	}

	existing, err := s.enrollmentRepo.Get(ctx, userID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, models.ErrEnrollmentNotFound) {
		return nil, false, err
	}

	now := s.now()
	enrollment := &models.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: now,
	}
	created, err := s.enrollmentRepo.EnrollWithProgress(ctx, enrollment, models.NewCourseProgress(userID, courseID, now))
	if err != nil {
		return nil, false, fmt.Errorf("failed to enroll: %w", err)
	}
	if !created {
		// a concurrent request won the insert
		existing, err := s.enrollmentRepo.Get(ctx, userID, courseID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	s.logger.Info("user enrolled", zap.String("user_id", userID), zap.String("course_id", courseID))
	return enrollment, true, nil
}

// Get retrieves the enrollment of a user in a course
func (s *enrollmentService) Get(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	return s.enrollmentRepo.Get(ctx, userID, courseID)
}

// ListMine retrieves all enrollments of a user
func (s *enrollmentService) ListMine(ctx context.Context, userID string) ([]models.Enrollment, error) {
	return s.enrollmentRepo.ListByUser(ctx, userID)
}

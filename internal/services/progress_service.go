package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
)

// ProgressRepository is the interface that wraps methods for CourseProgress table data access
type ProgressRepository interface {
	// Method Get retrieves progress of a user in a course.
	//
	// If no progress exists, models.ErrProgressNotFound is returned.
	Get(ctx context.Context, userID, courseID string) (*models.CourseProgress, error)
	// Method Upsert creates or overwrites the progress row.
	Upsert(ctx context.Context, p *models.CourseProgress) error
}

// CourseContentReader lists the completable items of a course
type CourseContentReader interface {
	GetVideos(ctx context.Context, courseID string) ([]models.Video, error)
	GetQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error)
}

// CertificateIssuer issues course certificates
type CertificateIssuer interface {
	Issue(ctx context.Context, userID, courseID string) (*models.Certificate, error)
}

// progressService implements ProgressService
type progressService struct {
	progressRepo   ProgressRepository
	enrollmentRepo EnrollmentRepository
	content        CourseContentReader
	certificates   CertificateIssuer
	logger         *zap.Logger
	now            func() time.Time

	// locks serializes read-modify-write of one user's progress in one course
	locks sync.Map
}

// NewProgressService creates a new progress service
func NewProgressService(
	progressRepo ProgressRepository,
	enrollmentRepo EnrollmentRepository,
	content CourseContentReader,
	certificates CertificateIssuer,
	logger *zap.Logger,
) *progressService {
	return &progressService{
		progressRepo:   progressRepo,
		enrollmentRepo: enrollmentRepo,
		content:        content,
		certificates:   certificates,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Get retrieves progress of a user in a course
func (s *progressService) Get(ctx context.Context, userID, courseID string) (*models.CourseProgress, error) {
	if _, err := s.requireEnrollment(ctx, userID, courseID); err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.Get(ctx, userID, courseID)
	if errors.Is(err, models.ErrProgressNotFound) {
		return models.NewCourseProgress(userID, courseID, s.now()), nil
	}
	return progress, err
}

// MarkVideoComplete records a watched video and recomputes the overall progress
func (s *progressService) MarkVideoComplete(ctx context.Context, userID, courseID, videoID string) (*models.CourseProgress, error) {
	return s.markComplete(ctx, userID, courseID, func(p *models.CourseProgress, videos []models.Video, _ []models.Quiz) error {
		if !slices.ContainsFunc(videos, func(v models.Video) bool { return v.ID == videoID }) {
			return models.ErrVideoNotFound
		}
		p.CompletedVideos = addID(p.CompletedVideos, videoID)
		return nil
	})
}

// MarkQuizComplete records a passed quiz and recomputes the overall progress
func (s *progressService) MarkQuizComplete(ctx context.Context, userID, courseID, quizID string) (*models.CourseProgress, error) {
	return s.markComplete(ctx, userID, courseID, func(p *models.CourseProgress, _ []models.Video, quizzes []models.Quiz) error {
		if !slices.ContainsFunc(quizzes, func(q models.Quiz) bool { return q.ID == quizID }) {
			return models.ErrQuizNotFound
		}
		p.CompletedQuizzes = addID(p.CompletedQuizzes, quizID)
		return nil
	})
}

func (s *progressService) markComplete(
	ctx context.Context,
	userID, courseID string,
	apply func(p *models.CourseProgress, videos []models.Video, quizzes []models.Quiz) error,
) (*models.CourseProgress, error) {
	enrollment, err := s.requireEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(userID, courseID)
	defer unlock()

	videos, err := s.content.GetVideos(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course videos: %w", err)
	}
	quizzes, err := s.content.GetQuizzes(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course quizzes: %w", err)
	}

	progress, err := s.progressRepo.Get(ctx, userID, courseID)
	if errors.Is(err, models.ErrProgressNotFound) {
		progress = models.NewCourseProgress(userID, courseID, s.now())
	} else if err != nil {
		return nil, err
	}

	if err := apply(progress, videos, quizzes); err != nil {
		return nil, err
	}
	progress.OverallProgress = computeProgress(progress, videos, quizzes)
	progress.LastAccessed = s.now()

	if err := s.progressRepo.Upsert(ctx, progress); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	if progress.OverallProgress == 100 && !enrollment.IsCompleted {
		s.complete(ctx, userID, courseID)
	}

	return progress, nil
}

// complete marks the enrollment completed and issues the certificate.
// Both steps are best effort: progress is already saved.
func (s *progressService) complete(ctx context.Context, userID, courseID string) {
	issued := false
	if s.certificates != nil {
		if _, err := s.certificates.Issue(ctx, userID, courseID); err != nil {
			s.logger.Warn("failed to issue certificate",
				zap.String("user_id", userID),
				zap.String("course_id", courseID),
				zap.Error(err),
			)
		} else {
			issued = true
		}
	}

	if err := s.enrollmentRepo.MarkCompleted(ctx, userID, courseID, issued); err != nil {
		s.logger.Warn("failed to mark enrollment completed",
			zap.String("user_id", userID),
			zap.String("course_id", courseID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("course completed",
		zap.String("user_id", userID),
		zap.String("course_id", courseID),
		zap.Bool("certificate_issued", issued),
	)
}

func (s *progressService) requireEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.Get(ctx, userID, courseID)
	if errors.Is(err, models.ErrEnrollmentNotFound) {
		return nil, models.ErrNotEnrolled
	}
	return enrollment, err
}

func (s *progressService) lock(userID, courseID string) func() {
	m, _ := s.locks.LoadOrStore(userID+"/"+courseID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// computeProgress returns the share of completed items among the course's current videos and
// quizzes as a rounded percentage, kept below 100 until every item is done. Completed ids of removed
// items do not count.
func computeProgress(p *models.CourseProgress, videos []models.Video, quizzes []models.Quiz) int {
	total := len(videos) + len(quizzes)
	if total == 0 {
		return 0
	}

	done := 0
	for _, v := range videos {
		if slices.Contains(p.CompletedVideos, v.ID) {
			done++
		}
	}
	for _, q := range quizzes {
		if slices.Contains(p.CompletedQuizzes, q.ID) {
			done++
		}
	}

	if done >= total {
		return 100
	}
	// 100 is reserved for a fully completed course
	pct := int(math.Round(float64(done) * 100 / float64(total)))
	return min(max(pct, 0), 99)
}

func addID(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// courseContent adapts the video and quiz repositories to CourseContentReader
type courseContent struct {
	videos  VideoRepository
	quizzes CourseQuizRepository
}

// NewCourseContent creates a CourseContentReader over the video and quiz repositories
func NewCourseContent(videos VideoRepository, quizzes CourseQuizRepository) CourseContentReader {
	return &courseContent{videos: videos, quizzes: quizzes}
}

func (c *courseContent) GetVideos(ctx context.Context, courseID string) ([]models.Video, error) {
	return c.videos.GetByCourseID(ctx, courseID)
}

func (c *courseContent) GetQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error) {
	return c.quizzes.GetByCourseID(ctx, courseID)
}

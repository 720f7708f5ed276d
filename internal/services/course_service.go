package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
)

// CourseRepository is the interface that wraps methods for Course table data access
type CourseRepository interface {
	// Method GetByID retrieves a course by its ID.
	//
	// If the course does not exist, models.ErrCourseNotFound is returned.
	GetByID(ctx context.Context, id string) (*models.Course, error)
	// Method List retrieves courses matching the filter, featured courses first, then newest.
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	// Method Create inserts a new course, assigning an ID and timestamps.
	Create(ctx context.Context, course *models.Course) error
	// Method Update applies a partial update.
	//
	// An empty update yields models.ErrInvalidInput, a missing course models.ErrCourseNotFound.
	Update(ctx context.Context, id string, req *models.UpdateCourseRequest) error
	// Method DeleteCascade deletes the course together with its videos, notes and quizzes.
	DeleteCascade(ctx context.Context, id string) error
}

// VideoRepository is the interface that wraps methods for Video table data access
type VideoRepository interface {
	// Method GetByCourseID retrieves the videos of a course ordered by their position.
	GetByCourseID(ctx context.Context, courseID string) ([]models.Video, error)
	// Method ReplaceForCourse atomically replaces all videos of a course, renumbering them 1..n.
	ReplaceForCourse(ctx context.Context, courseID string, videos []models.Video) error
}

// NoteRepository is the interface that wraps methods for Note table data access
type NoteRepository interface {
	GetByCourseID(ctx context.Context, courseID string) ([]models.Note, error)
	ReplaceForCourse(ctx context.Context, courseID string, notes []models.Note) error
}

// CourseQuizRepository is the read side of quiz data access used by the course service
type CourseQuizRepository interface {
	GetByCourseID(ctx context.Context, courseID string) ([]models.Quiz, error)
}

// courseService implements CourseService
type courseService struct {
	courseRepo CourseRepository
	videoRepo  VideoRepository
	noteRepo   NoteRepository
	quizRepo   CourseQuizRepository
	logger     *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo CourseRepository,
	videoRepo VideoRepository,
	noteRepo NoteRepository,
	quizRepo CourseQuizRepository,
	logger *zap.Logger,
) *courseService {
	return &courseService{
		courseRepo: courseRepo,
		videoRepo:  videoRepo,
		noteRepo:   noteRepo,
		quizRepo:   quizRepo,
		logger:     logger,
	}
}

// List retrieves courses matching the filter
func (s *courseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	if filter.Level != nil && !filter.Level.Valid() {
		return nil, fmt.Errorf("%w: invalid level %q", models.ErrInvalidInput, *filter.Level)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Count < 1 || filter.Count > 100 {
		filter.Count = 20
	}
	filter.Search = strings.TrimSpace(filter.Search)

	return s.courseRepo.List(ctx, filter)
}

// Get retrieves a course with its videos, notes and quizzes
func (s *courseService) Get(ctx context.Context, id string) (*models.CourseWithContent, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.GetByCourseID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course videos: %w", err)
	}
	notes, err := s.noteRepo.GetByCourseID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course notes: %w", err)
	}
	quizzes, err := s.quizRepo.GetByCourseID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course quizzes: %w", err)
	}

	return &models.CourseWithContent{
		Course:  *course,
		Videos:  videos,
		Notes:   notes,
		Quizzes: quizzes,
	}, nil
}

// Create creates a new course
func (s *courseService) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	title := strings.TrimSpace(req.Title)
	category := strings.TrimSpace(req.Category)
	if title == "" || category == "" {
		return nil, fmt.Errorf("%w: title and category are required", models.ErrInvalidInput)
	}
	if !req.Level.Valid() {
		return nil, fmt.Errorf("%w: invalid level %q", models.ErrInvalidInput, req.Level)
	}

	course := &models.Course{
		Title:       title,
		Description: req.Description,
		Category:    category,
		Thumbnail:   req.Thumbnail,
		Instructor:  req.Instructor,
		Duration:    req.Duration,
		Level:       req.Level,
		Rating:      req.Rating,
		Featured:    req.Featured,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("title", course.Title))
	return course, nil
}

// Update applies a partial update and returns the updated course
func (s *courseService) Update(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, error) {
	if req.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrInvalidInput)
	}
	if req.Level != nil && !req.Level.Valid() {
		return nil, fmt.Errorf("%w: invalid level %q", models.ErrInvalidInput, *req.Level)
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", models.ErrInvalidInput)
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", models.ErrInvalidInput)
	}

	if err := s.courseRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.courseRepo.GetByID(ctx, id)
}

// SetFeatured toggles whether a course is featured
func (s *courseService) SetFeatured(ctx context.Context, id string, featured bool) (*models.Course, error) {
	return s.Update(ctx, id, &models.UpdateCourseRequest{Featured: &featured})
}

// Delete deletes a course and all of its content
func (s *courseService) Delete(ctx context.Context, id string) error {
	if err := s.courseRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

// ReplaceVideos replaces the whole video list of a course.
// Replaced videos lose their enrichment; the sweep picks them up again.
func (s *courseService) ReplaceVideos(ctx context.Context, courseID string, req *models.ReplaceVideosRequest) ([]models.Video, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(req.Videos))
	for i, in := range req.Videos {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: video %d has no title", models.ErrInvalidInput, i+1)
		}
		videos = append(videos, models.Video{
			CourseID:    courseID,
			Title:       title,
			Description: in.Description,
			URL:         in.URL,
			Duration:    in.Duration,
			Thumbnail:   in.Thumbnail,
		})
	}

	if err := s.videoRepo.ReplaceForCourse(ctx, courseID, videos); err != nil {
		return nil, err
	}

	return videos, nil
}

// ReplaceNotes replaces the whole note list of a course
func (s *courseService) ReplaceNotes(ctx context.Context, courseID string, req *models.ReplaceNotesRequest) ([]models.Note, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	notes := make([]models.Note, 0, len(req.Notes))
	for i, in := range req.Notes {
		if strings.TrimSpace(in.Title) == "" {
			return nil, fmt.Errorf("%w: note %d has no title", models.ErrInvalidInput, i+1)
		}
		if !in.FileType.Valid() {
			return nil, fmt.Errorf("%w: note %d has unsupported file type %q", models.ErrInvalidInput, i+1, in.FileType)
		}
		notes = append(notes, models.Note{
			CourseID:    courseID,
			Title:       strings.TrimSpace(in.Title),
			Description: in.Description,
			FileURL:     in.FileURL,
			FileType:    in.FileType,
		})
	}

	if err := s.noteRepo.ReplaceForCourse(ctx, courseID, notes); err != nil {
		return nil, err
	}

	return notes, nil
}

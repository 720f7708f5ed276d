package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
)

// QuizRepository is the interface that wraps methods for Quiz table data access
type QuizRepository interface {
	// Method GetByID retrieves a quiz by its ID.
	//
	// If the quiz does not exist, models.ErrQuizNotFound is returned.
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
	// Method GetByCourseID retrieves the quizzes of a course, oldest first.
	GetByCourseID(ctx context.Context, courseID string) ([]models.Quiz, error)
	// Method Create inserts a new quiz, assigning an ID.
	Create(ctx context.Context, quiz *models.Quiz) error
	// Method Update replaces course, title, description and questions of a quiz.
	Update(ctx context.Context, quiz *models.Quiz) error
	// Method Delete deletes a quiz.
	Delete(ctx context.Context, id string) error
}

// QuizAttemptRepository is the interface that wraps methods for QuizAttempt table data access
type QuizAttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	// Method ListByUser retrieves attempts of a user. An empty quizID lists attempts of all quizzes.
	ListByUser(ctx context.Context, userID string, quizID string) ([]models.QuizAttempt, error)
}

// QuizProgressRecorder marks quizzes as completed in a user's course progress
type QuizProgressRecorder interface {
	MarkQuizComplete(ctx context.Context, userID, courseID, quizID string) (*models.CourseProgress, error)
}

// quizService implements QuizService
type quizService struct {
	quizRepo    QuizRepository
	attemptRepo QuizAttemptRepository
	courseRepo  CourseReader
	progress    QuizProgressRecorder
	logger      *zap.Logger
	now         func() time.Time
}

// NewQuizService creates a new quiz service. attemptRepo and progress may be nil when
// attempts are not stored.
func NewQuizService(
	quizRepo QuizRepository,
	attemptRepo QuizAttemptRepository,
	courseRepo CourseReader,
	progress QuizProgressRecorder,
	logger *zap.Logger,
) *quizService {
	return &quizService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		courseRepo:  courseRepo,
		progress:    progress,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetByCourse retrieves the quizzes of a course
func (s *quizService) GetByCourse(ctx context.Context, courseID string) ([]models.Quiz, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.quizRepo.GetByCourseID(ctx, courseID)
}

// GetByID retrieves a quiz
func (s *quizService) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	return s.quizRepo.GetByID(ctx, id)
}

// Create creates a quiz after validating its questions
func (s *quizService) Create(ctx context.Context, req *models.QuizRequest) (*models.Quiz, error) {
	quiz, err := s.buildQuiz(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}

	s.logger.Info("quiz created", zap.String("quiz_id", quiz.ID), zap.String("course_id", quiz.CourseID))
	return quiz, nil
}

// Update replaces a quiz
func (s *quizService) Update(ctx context.Context, id string, req *models.QuizRequest) (*models.Quiz, error) {
	existing, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quiz, err := s.buildQuiz(ctx, req)
	if err != nil {
		return nil, err
	}
	quiz.ID = existing.ID
	quiz.CreatedAt = existing.CreatedAt

	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}

	return quiz, nil
}

// Delete deletes a quiz
func (s *quizService) Delete(ctx context.Context, id string) error {
	return s.quizRepo.Delete(ctx, id)
}

func (s *quizService) buildQuiz(ctx context.Context, req *models.QuizRequest) (*models.Quiz, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	questions := models.Questions(req.Questions)
	if err := questions.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	return &models.Quiz{
		CourseID:    req.CourseID,
		Title:       title,
		Description: req.Description,
		Questions:   questions,
	}, nil
}

// SubmitAttempt scores the answers, stores the attempt and, when the score reaches
// models.PassingScore, marks the quiz completed in the user's progress.
func (s *quizService) SubmitAttempt(ctx context.Context, userID, quizID string, req *models.SubmitAttemptRequest) (*models.QuizAttempt, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(req.Answers) != len(quiz.Questions) {
		return nil, fmt.Errorf("%w: expected %d answers, got %d", models.ErrInvalidInput, len(quiz.Questions), len(req.Answers))
	}

	score := scoreAnswers(quiz.Questions, req.Answers)
	attempt := &models.QuizAttempt{
		UserID:      userID,
		QuizID:      quiz.ID,
		CourseID:    quiz.CourseID,
		Answers:     req.Answers,
		Score:       score,
		Passed:      score >= models.PassingScore,
		SubmittedAt: s.now(),
	}

	if s.attemptRepo != nil {
		if err := s.attemptRepo.Create(ctx, attempt); err != nil {
			return nil, err
		}
	}

	if attempt.Passed && s.progress != nil {
		_, err := s.progress.MarkQuizComplete(ctx, userID, quiz.CourseID, quiz.ID)
		switch {
		case errors.Is(err, models.ErrNotEnrolled):
			s.logger.Debug("passed quiz of a course the user is not enrolled in",
				zap.String("user_id", userID),
				zap.String("quiz_id", quiz.ID),
			)
		case err != nil:
			s.logger.Warn("failed to record quiz completion",
				zap.String("user_id", userID),
				zap.String("quiz_id", quiz.ID),
				zap.Error(err),
			)
		}
	}

	return attempt, nil
}

// ListAttempts retrieves the attempts of a user, optionally for one quiz
func (s *quizService) ListAttempts(ctx context.Context, userID, quizID string) ([]models.QuizAttempt, error) {
	if s.attemptRepo == nil {
		return []models.QuizAttempt{}, nil
	}
	return s.attemptRepo.ListByUser(ctx, userID, quizID)
}

// scoreAnswers returns the rounded percentage of correct answers
func scoreAnswers(questions models.Questions, answers []int) int {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	return int(math.Round(float64(correct) * 100 / float64(len(questions))))
}

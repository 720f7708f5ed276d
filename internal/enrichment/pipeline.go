// Package enrichment attaches playable videos, transcripts, summaries and quizzes to lessons
// and generates synthetic courses. Every external call falls back to a local tier.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/textgen"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/videosearch"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CourseStore defines the course storage used by the pipeline
type CourseStore interface {
	// GetByID retrieves a course by its ID
	//
	// Returns models.ErrCourseNotFound if the course does not exist.
	GetByID(ctx context.Context, id string) (*models.Course, error)
	// ListTitles returns the titles of all courses
	ListTitles(ctx context.Context) ([]string, error)
	// CreateWithContent inserts a course with its videos and notes atomically
	CreateWithContent(ctx context.Context, course *models.Course, videos []models.Video, notes []models.Note) error
	// DeleteAll removes every course and its content
	DeleteAll(ctx context.Context) error
}

// VideoStore defines the video storage used by the pipeline
type VideoStore interface {
	// GetByID retrieves a video by its ID
	//
	// Returns models.ErrVideoNotFound if the video does not exist.
	GetByID(ctx context.Context, id string) (*models.Video, error)
	// GetByCourseID retrieves the videos of a course ordered by position
	GetByCourseID(ctx context.Context, courseID string) ([]models.Video, error)
	// ListUnenriched returns up to "limit" videos lacking a URL or analyzed content
	ListUnenriched(ctx context.Context, limit int) ([]models.Video, error)
	// UpdateEnrichment writes all enriched fields of a video in a single update
	//
	// Returns models.ErrVideoNotFound if the video does not exist.
	UpdateEnrichment(ctx context.Context, id string, e *models.VideoEnrichment) error
}

// QuizStore defines the quiz storage used by the pipeline
type QuizStore interface {
	// ExistsForCourse reports whether the course already has a quiz
	ExistsForCourse(ctx context.Context, courseID string) (bool, error)
	// Create inserts a quiz and assigns its ID
	Create(ctx context.Context, quiz *models.Quiz) error
}

// Options tunes the pipeline
type Options struct {
	// MinTranscriptLength is the shortest generated transcript accepted before using the template
	MinTranscriptLength int
	// Concurrency bounds bulk operations; 1 runs them strictly sequentially
	Concurrency int
}

// Pipeline enriches lesson videos and generates courses
type Pipeline struct {
	courses  CourseStore
	videos   VideoStore
	quizzes  QuizStore
	gen      textgen.Generator
	selector *selector
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
	perm     func(n int) []int

	// quizMu serializes the check-then-insert of a course's first quiz
	quizMu sync.Mutex
}

// NewPipeline creates a new enrichment pipeline.
// "gen" and "search" may be nil, in which case only local fallback tiers are used.
func NewPipeline(
	courses CourseStore,
	videos VideoStore,
	quizzes QuizStore,
	gen textgen.Generator,
	search videosearch.Searcher,
	opts Options,
	logger *zap.Logger,
) *Pipeline {
	if opts.MinTranscriptLength <= 0 {
		opts.MinTranscriptLength = 200
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Pipeline{
		courses:  courses,
		videos:   videos,
		quizzes:  quizzes,
		gen:      gen,
		selector: &selector{gen: gen, search: search, logger: logger},
		opts:     opts,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		perm:     rand.Perm,
	}
}

// ProcessVideo enriches one video of a course.
//
// Only malformed input returns an error wrapping models.ErrInvalidInput. Collaborator failures
// fall through to local tiers. A failed quiz insert after a successful video update is reported
// in the result's Warnings.
func (p *Pipeline) ProcessVideo(ctx context.Context, videoID, courseID string) (*models.EnrichmentResult, error) {
	course, video, err := p.loadTarget(ctx, videoID, courseID)
	if err != nil {
		return nil, err
	}

	log := p.logger.With(zap.String("video_id", video.ID), zap.String("course_id", course.ID))
	log.Info("enriching video")

	sel := p.selector.SelectVideo(ctx, video.Title, course.Title, course.Category)
	thumbnail, thumbnailSource := SelectThumbnail(video.Title, course.Title, course.Category, sel)

	transcript, transcriptSource := p.generateTranscript(ctx, course, video, sel.URL)
	result, analysisSource := p.analyze(ctx, course, video, transcript)

	content := models.AnalyzedContent{
		Transcript:       transcript,
		Summary:          result.Summary,
		Keywords:         result.Keywords,
		Questions:        result.Questions,
		TranscriptSource: transcriptSource,
		AnalysisSource:   analysisSource,
		GeneratedAt:      p.now(),
	}
	description := video.Description
	if strings.TrimSpace(description) == "" {
		description = result.Summary
	}

	enrichment := &models.VideoEnrichment{
		URL:             sel.URL,
		Thumbnail:       thumbnail,
		Description:     description,
		AnalyzedContent: content,
		DownloadInfo:    sel.DownloadInfo(),
	}
	if err := p.videos.UpdateEnrichment(ctx, video.ID, enrichment); err != nil {
		return nil, fmt.Errorf("failed to save enrichment: %w", err)
	}

	out := &models.EnrichmentResult{
		VideoID:         video.ID,
		CourseID:        course.ID,
		Title:           video.Title,
		Description:     description,
		VideoURL:        sel.URL,
		Thumbnail:       thumbnail,
		VideoSource:     sel.Source,
		ThumbnailSource: thumbnailSource,
		AnalyzedContent: content,
		DownloadInfo:    enrichment.DownloadInfo,
	}

	created, err := p.ensureQuiz(ctx, course, result.Questions)
	if err != nil {
		log.Error("video enriched but quiz was not saved", zap.Error(err))
		out.Warnings = append(out.Warnings, "quiz not saved: "+err.Error())
	}
	out.QuizCreated = created

	log.Info("video enriched",
		zap.String("video_source", sel.Source),
		zap.String("thumbnail_source", thumbnailSource),
		zap.String("transcript_source", transcriptSource),
		zap.String("analysis_source", analysisSource),
		zap.Bool("quiz_created", created),
	)
	return out, nil
}

// loadTarget validates the ids and loads the video and its course
func (p *Pipeline) loadTarget(ctx context.Context, videoID, courseID string) (*models.Course, *models.Video, error) {
	if _, err := uuid.Parse(videoID); err != nil {
		return nil, nil, fmt.Errorf("%w: videoId must be a UUID", models.ErrInvalidInput)
	}
	if _, err := uuid.Parse(courseID); err != nil {
		return nil, nil, fmt.Errorf("%w: courseId must be a UUID", models.ErrInvalidInput)
	}

	video, err := p.videos.GetByID(ctx, videoID)
	if errors.Is(err, models.ErrVideoNotFound) {
		return nil, nil, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load video: %w", err)
	}
	if video.CourseID != courseID {
		return nil, nil, fmt.Errorf("%w: video %s does not belong to course %s", models.ErrInvalidInput, videoID, courseID)
	}

	course, err := p.courses.GetByID(ctx, courseID)
	if errors.Is(err, models.ErrCourseNotFound) {
		return nil, nil, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load course: %w", err)
	}
	if strings.TrimSpace(course.Title) == "" || strings.TrimSpace(course.Category) == "" {
		return nil, nil, fmt.Errorf("%w: course must have a title and a category", models.ErrInvalidInput)
	}
	return course, video, nil
}

// ensureQuiz inserts the course's first quiz from the generated questions
func (p *Pipeline) ensureQuiz(ctx context.Context, course *models.Course, questions []models.QuizQuestion) (bool, error) {
	p.quizMu.Lock()
	defer p.quizMu.Unlock()

	exists, err := p.quizzes.ExistsForCourse(ctx, course.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check quiz: %w", err)
	}
	if exists {
		return false, nil
	}

	quiz := &models.Quiz{
		CourseID:    course.ID,
		Title:       course.Title + " Quiz",
		Description: fmt.Sprintf("Check your understanding of %s.", course.Title),
		Questions:   models.Questions(questions),
	}
	if err := p.quizzes.Create(ctx, quiz); err != nil {
		return false, fmt.Errorf("failed to create quiz: %w", err)
	}
	return true, nil
}

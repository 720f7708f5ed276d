package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/mailer"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enricher is the interface that wraps the enrichment pipeline operations run in the background
type Enricher interface {
	// ProcessVideo enriches one video of a course.
	//
	// An error wrapping models.ErrInvalidInput means the video or course does not qualify and
	// retrying will not help.
	ProcessVideo(ctx context.Context, videoID, courseID string) (*models.EnrichmentResult, error)
	// ReprocessCourse enriches every video of a course, optionally only those lacking content.
	ReprocessCourse(ctx context.Context, courseID string, onlyMissing bool) (*models.BatchResult, error)
	// SweepUnenriched enriches up to limit videos that have no analyzed content or no URL.
	SweepUnenriched(ctx context.Context, limit int) (*models.BatchResult, error)
	// Populate generates count courses. progress is called after every created course.
	Populate(ctx context.Context, count int, clearExisting bool, progress func(done int)) (*models.PopulateResult, error)
}

// Mailer sends an HTML email
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// TokenCleaner removes expired refresh tokens
type TokenCleaner interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

var emailTemplates = map[string]mailer.Template{
	EmailConfirmation: mailer.ConfirmationTemplate,
	EmailCertificate:  mailer.CertificateTemplate,
}

// Handlers executes background tasks
type Handlers struct {
	enricher   Enricher
	mailer     Mailer
	tokens     TokenCleaner
	sweepLimit int
	logger     *zap.Logger
	now        func() time.Time
}

// NewHandlers creates task handlers. Any collaborator may be nil, in which case the tasks
// needing it fail without retry.
func NewHandlers(enricher Enricher, m Mailer, tokens TokenCleaner, sweepLimit int, logger *zap.Logger) *Handlers {
	if sweepLimit < 1 {
		sweepLimit = 10
	}
	return &Handlers{
		enricher:   enricher,
		mailer:     m,
		tokens:     tokens,
		sweepLimit: sweepLimit,
		logger:     logger,
		now:        time.Now,
	}
}

// Register registers all task handlers on mux
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeProcessVideo, h.HandleProcessVideo)
	mux.HandleFunc(TypeReprocessCourse, h.HandleReprocessCourse)
	mux.HandleFunc(TypeSweep, h.HandleSweep)
	mux.HandleFunc(TypePopulate, h.HandlePopulate)
	mux.HandleFunc(TypeSendEmail, h.HandleSendEmail)
	mux.HandleFunc(TypeCleanupTokens, h.HandleCleanupTokens)
}

var errNotConfigured = errors.New("handler dependency not configured")

// HandleProcessVideo handles TypeProcessVideo
func (h *Handlers) HandleProcessVideo(ctx context.Context, t *asynq.Task) error {
	var p ProcessVideoPayload
	if err := decodePayload(t, &p); err != nil {
		return err
	}
	if h.enricher == nil {
		return fmt.Errorf("%w: %w", errNotConfigured, asynq.SkipRetry)
	}

	result, err := h.enricher.ProcessVideo(ctx, p.VideoID, p.CourseID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			h.logger.Warn("video not enrichable, dropping task",
				zap.String("video_id", p.VideoID),
				zap.String("course_id", p.CourseID),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	writeResult(t, models.NewProcessVideoResponse(result))
	h.logger.Info("video enriched",
		zap.String("video_id", result.VideoID),
		zap.String("video_source", result.VideoSource),
		zap.String("analysis_source", result.AnalyzedContent.AnalysisSource),
		zap.Strings("warnings", result.Warnings),
	)
	return nil
}

// HandleReprocessCourse handles TypeReprocessCourse
func (h *Handlers) HandleReprocessCourse(ctx context.Context, t *asynq.Task) error {
	var p ReprocessCoursePayload
	if err := decodePayload(t, &p); err != nil {
		return err
	}
	if h.enricher == nil {
		return fmt.Errorf("%w: %w", errNotConfigured, asynq.SkipRetry)
	}

	result, err := h.enricher.ReprocessCourse(ctx, p.CourseID, p.OnlyMissing)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) || errors.Is(err, models.ErrCourseNotFound) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	writeResult(t, result)
	h.logger.Info("course reprocessed",
		zap.String("course_id", p.CourseID),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return nil
}

// HandleSweep handles TypeSweep
func (h *Handlers) HandleSweep(ctx context.Context, t *asynq.Task) error {
	var p SweepPayload
	if len(t.Payload()) > 0 {
		if err := decodePayload(t, &p); err != nil {
			return err
		}
	}
	if p.Limit < 1 {
		p.Limit = h.sweepLimit
	}
	if h.enricher == nil {
		return fmt.Errorf("%w: %w", errNotConfigured, asynq.SkipRetry)
	}

	result, err := h.enricher.SweepUnenriched(ctx, p.Limit)
	if err != nil {
		return err
	}

	writeResult(t, result)
	if result.Total > 0 {
		h.logger.Info("enrichment sweep finished",
			zap.Int("total", result.Total),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
		)
	}
	return nil
}

// HandlePopulate handles TypePopulate
func (h *Handlers) HandlePopulate(ctx context.Context, t *asynq.Task) error {
	var p PopulatePayload
	if err := decodePayload(t, &p); err != nil {
		return err
	}
	if h.enricher == nil {
		return fmt.Errorf("%w: %w", errNotConfigured, asynq.SkipRetry)
	}

	taskID, _ := asynq.GetTaskID(ctx)
	progress := func(done int) {
		h.logger.Info("populate progress",
			zap.String("task_id", taskID),
			zap.Int("done", done),
			zap.Int("count", p.Count),
		)
	}

	result, err := h.enricher.Populate(ctx, p.Count, p.ClearExisting, progress)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	writeResult(t, result)
	h.logger.Info(result.Message, zap.String("task_id", taskID))
	return nil
}

// HandleSendEmail handles TypeSendEmail
func (h *Handlers) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	var p EmailPayload
	if err := decodePayload(t, &p); err != nil {
		return err
	}
	if h.mailer == nil {
		return fmt.Errorf("%w: %w", errNotConfigured, asynq.SkipRetry)
	}

	tmpl, ok := emailTemplates[p.Template]
	if !ok {
		return fmt.Errorf("unknown email template %q: %w", p.Template, asynq.SkipRetry)
	}
	if p.To == "" {
		return fmt.Errorf("email recipient is required: %w", asynq.SkipRetry)
	}

	subject, body := tmpl.Render(p.Vars...)
	if err := h.mailer.Send(p.To, subject, body); err != nil {
		return err
	}

	h.logger.Info("email sent", zap.String("template", p.Template), zap.String("to", p.To))
	return nil
}

// HandleCleanupTokens handles TypeCleanupTokens
func (h *Handlers) HandleCleanupTokens(ctx context.Context, t *asynq.Task) error {
	if h.tokens == nil {
		return fmt.Errorf("%w: %w", errNotConfigured, asynq.SkipRetry)
	}

	deleted, err := h.tokens.DeleteExpired(ctx, h.now())
	if err != nil {
		return err
	}

	h.logger.Info("expired tokens removed", zap.Int("count", deleted))
	return nil
}

// writeResult stores the outcome on the task for inspection. Tasks not created by a server
// carry no result writer.
func writeResult(t *asynq.Task, v any) {
	w := t.ResultWriter()
	if w == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	w.Write(data)
}

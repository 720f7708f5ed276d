package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// taskClient is the subset of *asynq.Client used by Enqueuer
type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer puts background jobs on their queues
type Enqueuer struct {
	client taskClient
	logger *zap.Logger
}

// NewEnqueuer creates a new enqueuer on top of an asynq client
func NewEnqueuer(client *asynq.Client, logger *zap.Logger) *Enqueuer {
	return &Enqueuer{
		client: client,
		logger: logger,
	}
}

// EnqueueProcessVideo schedules enrichment of a single video
func (e *Enqueuer) EnqueueProcessVideo(ctx context.Context, videoID, courseID string) (string, error) {
	task, err := NewProcessVideoTask(videoID, courseID)
	if err != nil {
		return "", err
	}
	return e.enqueue(ctx, task, asynq.Queue(QueueEnrichment), asynq.MaxRetry(3), asynq.Timeout(10*time.Minute))
}

// EnqueueReprocessCourse schedules re-enrichment of all videos of a course.
// A second request for the same course while one is pending is a no-op.
func (e *Enqueuer) EnqueueReprocessCourse(ctx context.Context, courseID string, onlyMissing bool) (string, error) {
	task, err := NewReprocessCourseTask(courseID, onlyMissing)
	if err != nil {
		return "", err
	}
	return e.enqueue(ctx, task,
		asynq.Queue(QueueEnrichment),
		asynq.MaxRetry(1),
		asynq.Timeout(time.Hour),
		asynq.Unique(time.Hour),
		asynq.Retention(24*time.Hour),
	)
}

// EnqueueSweep schedules a sweep over videos lacking enrichment
func (e *Enqueuer) EnqueueSweep(ctx context.Context, limit int) (string, error) {
	task, err := NewSweepTask(limit)
	if err != nil {
		return "", err
	}
	return e.enqueue(ctx, task,
		asynq.Queue(QueueEnrichment),
		asynq.MaxRetry(0),
		asynq.Timeout(time.Hour),
		asynq.Unique(time.Hour),
	)
}

// EnqueuePopulate schedules generation of count courses
func (e *Enqueuer) EnqueuePopulate(ctx context.Context, count int, clearExisting bool) (string, error) {
	task, err := NewPopulateTask(count, clearExisting)
	if err != nil {
		return "", err
	}
	return e.enqueue(ctx, task,
		asynq.Queue(QueueEnrichment),
		asynq.MaxRetry(0),
		asynq.Timeout(time.Hour),
		asynq.Retention(24*time.Hour),
	)
}

// EnqueueEmail schedules a templated email
func (e *Enqueuer) EnqueueEmail(ctx context.Context, to, template string, vars ...string) error {
	task, err := NewEmailTask(to, template, vars...)
	if err != nil {
		return err
	}
	_, err = e.enqueue(ctx, task, asynq.Queue(QueueEmail), asynq.MaxRetry(5))
	return err
}

// EnqueueCleanupTokens schedules removal of expired refresh tokens
func (e *Enqueuer) EnqueueCleanupTokens(ctx context.Context) error {
	_, err := e.enqueue(ctx, NewCleanupTokensTask(), asynq.Queue(QueueDefault), asynq.Unique(time.Hour))
	return err
}

// enqueue returns the id of the queued task. A duplicate of a unique task is not an error
// and yields an empty id.
func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (string, error) {
	info, err := e.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		e.logger.Info("task already queued", zap.String("type", task.Type()))
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s task: %w", task.Type(), err)
	}

	e.logger.Debug("task enqueued",
		zap.String("type", task.Type()),
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue),
	)
	return info.ID, nil
}

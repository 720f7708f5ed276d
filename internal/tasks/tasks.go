// Package tasks defines the background jobs run by the worker: enrichment, course population,
// email delivery and token cleanup. Jobs travel through Redis using asynq.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeProcessVideo    = "enrichment:process_video"
	TypeReprocessCourse = "enrichment:reprocess_course"
	TypeSweep           = "enrichment:sweep"
	TypePopulate        = "catalog:populate"
	TypeSendEmail       = "email:send"
	TypeCleanupTokens   = "auth:cleanup_tokens"
)

// Queue names
const (
	QueueEnrichment = "enrichment"
	QueueEmail      = "email"
	QueueDefault    = "default"
)

// Queues returns queue priorities for the worker server
func Queues() map[string]int {
	return map[string]int{
		QueueEmail:      5,
		QueueEnrichment: 3,
		QueueDefault:    1,
	}
}

// Email templates known to the worker
const (
	EmailConfirmation = "confirmation"
	EmailCertificate  = "certificate"
)

// ProcessVideoPayload is the payload of TypeProcessVideo
type ProcessVideoPayload struct {
	VideoID  string `json:"videoId"`
	CourseID string `json:"courseId"`
}

// ReprocessCoursePayload is the payload of TypeReprocessCourse
type ReprocessCoursePayload struct {
	CourseID    string `json:"courseId"`
	OnlyMissing bool   `json:"onlyMissing"`
}

// SweepPayload is the payload of TypeSweep
type SweepPayload struct {
	Limit int `json:"limit"`
}

// PopulatePayload is the payload of TypePopulate
type PopulatePayload struct {
	Count         int  `json:"count"`
	ClearExisting bool `json:"clearExisting"`
}

// EmailPayload is the payload of TypeSendEmail.
// Vars fill the {{1}}, {{2}}, ... placeholders of the named template.
type EmailPayload struct {
	To       string   `json:"to"`
	Template string   `json:"template"`
	Vars     []string `json:"vars"`
}

// NewProcessVideoTask creates a task enriching a single video
func NewProcessVideoTask(videoID, courseID string) (*asynq.Task, error) {
	return newTask(TypeProcessVideo, ProcessVideoPayload{VideoID: videoID, CourseID: courseID})
}

// NewReprocessCourseTask creates a task re-enriching every video of a course
func NewReprocessCourseTask(courseID string, onlyMissing bool) (*asynq.Task, error) {
	return newTask(TypeReprocessCourse, ReprocessCoursePayload{CourseID: courseID, OnlyMissing: onlyMissing})
}

// NewSweepTask creates a task enriching up to limit videos that lack content
func NewSweepTask(limit int) (*asynq.Task, error) {
	return newTask(TypeSweep, SweepPayload{Limit: limit})
}

// NewPopulateTask creates a task generating count courses
func NewPopulateTask(count int, clearExisting bool) (*asynq.Task, error) {
	return newTask(TypePopulate, PopulatePayload{Count: count, ClearExisting: clearExisting})
}

// NewEmailTask creates a task sending a templated email
func NewEmailTask(to, template string, vars ...string) (*asynq.Task, error) {
	return newTask(TypeSendEmail, EmailPayload{To: to, Template: template, Vars: vars})
}

// NewCleanupTokensTask creates a task removing expired refresh tokens
func NewCleanupTokensTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupTokens, nil)
}

func newTask(typename string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", typename, err)
	}
	return asynq.NewTask(typename, data), nil
}

// decodePayload unmarshals a task payload. A malformed payload will never succeed, so the
// error is marked to skip retries.
func decodePayload(t *asynq.Task, dst any) error {
	if err := json.Unmarshal(t.Payload(), dst); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}

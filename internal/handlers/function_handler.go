package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EnrichmentService is the interface that wraps the content-enrichment operations.
type EnrichmentService interface {
	// Method ProcessVideo selects a video and thumbnail, generates transcript, summary, keywords and
	// questions, stores them on the video and creates the course's first quiz.
	//
	// Only malformed input (bad ids, unknown video or course, course without title or category)
	// returns an error wrapping models.ErrInvalidInput. Text-generation and video-search failures
	// fall back to local content.
	ProcessVideo(ctx context.Context, videoID, courseID string) (*models.EnrichmentResult, error)
	// Method GenerateCourseDetails produces course metadata and a lesson list for a title.
	GenerateCourseDetails(ctx context.Context, title string) (*models.CourseDetails, error)
	// Method Populate creates up to count synthetic courses in distinct categories, skipping titles
	// that already exist. "progress" receives the running number of inserted courses.
	Populate(ctx context.Context, count int, clearExisting bool, progress func(done int)) (*models.PopulateResult, error)
}

// EnrichmentEnqueuer schedules enrichment work on the task queue
type EnrichmentEnqueuer interface {
	EnqueueProcessVideo(ctx context.Context, videoID, courseID string) (string, error)
	EnqueueReprocessCourse(ctx context.Context, courseID string, onlyMissing bool) (string, error)
	EnqueuePopulate(ctx context.Context, count int, clearExisting bool) (string, error)
}

// queuedResponse is returned when work was handed to the worker
type queuedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TaskID  string `json:"taskId,omitempty"`
}

// FunctionHandler serves the JSON function endpoints under /functions/v1.
//
// Responses always carry the structured body of the function: {status, ...} for process-video and
// {success, ...} for the course generators. Invalid input is answered with 400; every other
// failure with 200 and an error body, since callers branch on the body.
type FunctionHandler struct {
	BaseHandler
	enrichment EnrichmentService
	enqueuer   EnrichmentEnqueuer
}

// NewFunctionHandler creates a new function handler. enqueuer may be nil, which disables async mode.
func NewFunctionHandler(enrichment EnrichmentService, enqueuer EnrichmentEnqueuer, logger *zap.Logger) *FunctionHandler {
	return &FunctionHandler{
		BaseHandler: BaseHandler{Logger: logger},
		enrichment:  enrichment,
		enqueuer:    enqueuer,
	}
}

// RegisterRoutes registers the function routes
// Note: This assumes the router is already scoped to /functions/v1
func (h *FunctionHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Post("/process-video", h.ProcessVideo)
		r.Post("/generate-course-details", h.GenerateCourseDetails)
		r.Post("/populate-courses", h.PopulateCourses)
		r.Post("/reprocess-course", h.ReprocessCourse)
	})
}

// ProcessVideo handles POST /process-video
// @Summary Enrich a lesson video
// @Description Select a playable video and thumbnail, generate transcript, summary, keywords and quiz questions and store them. With async=true the work is queued instead.
// @Tags functions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param async query bool false "Queue the work and return immediately"
// @Param request body models.ProcessVideoRequest true "Video and course ids"
// @Success 200 {object} models.ProcessVideoResponse "Enrichment result or {status:error}"
// @Success 202 {object} queuedResponse "Queued"
// @Failure 400 {object} models.ProcessVideoResponse "Invalid input"
// @Router /functions/v1/process-video [post]
func (h *FunctionHandler) ProcessVideo(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondJSON(w, http.StatusBadRequest, processVideoError("invalid request body"))
		return
	}
	if strings.TrimSpace(req.VideoID) == "" || strings.TrimSpace(req.CourseID) == "" {
		h.RespondJSON(w, http.StatusBadRequest, processVideoError("videoId and courseId are required"))
		return
	}

	if h.async(r) {
		id, err := h.enqueuer.EnqueueProcessVideo(r.Context(), req.VideoID, req.CourseID)
		if err != nil {
			h.RequestLogger(r).Error("failed to enqueue video processing", zap.String("video_id", req.VideoID), zap.Error(err))
			h.RespondJSON(w, http.StatusOK, processVideoError("failed to queue video processing"))
			return
		}
		h.RespondJSON(w, http.StatusAccepted, queuedResponse{Status: "queued", Message: "video processing queued", TaskID: id})
		return
	}

	result, err := h.enrichment.ProcessVideo(r.Context(), req.VideoID, req.CourseID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			h.RespondJSON(w, http.StatusBadRequest, processVideoError(err.Error()))
			return
		}
		h.RequestLogger(r).Error("failed to process video", zap.String("video_id", req.VideoID), zap.Error(err))
		h.RespondJSON(w, http.StatusOK, processVideoError("failed to process video"))
		return
	}

	h.RespondJSON(w, http.StatusOK, models.NewProcessVideoResponse(result))
}

// GenerateCourseDetails handles POST /generate-course-details
// @Summary Generate course details
// @Description Generate description, category, duration, level, instructor and a lesson list for a course title
// @Tags functions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenerateCourseDetailsRequest true "Course title"
// @Success 200 {object} models.GenerateCourseDetailsResponse "Course details or {success:false}"
// @Failure 400 {object} models.GenerateCourseDetailsResponse "Invalid input"
// @Router /functions/v1/generate-course-details [post]
func (h *FunctionHandler) GenerateCourseDetails(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCourseDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondJSON(w, http.StatusBadRequest, models.GenerateCourseDetailsResponse{Message: "invalid request body"})
		return
	}

	details, err := h.enrichment.GenerateCourseDetails(r.Context(), req.Title)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			h.RespondJSON(w, http.StatusBadRequest, models.GenerateCourseDetailsResponse{Message: err.Error()})
			return
		}
		h.RequestLogger(r).Error("failed to generate course details", zap.String("title", req.Title), zap.Error(err))
		h.RespondJSON(w, http.StatusOK, models.GenerateCourseDetailsResponse{Message: "failed to generate course details"})
		return
	}

	h.RespondJSON(w, http.StatusOK, models.GenerateCourseDetailsResponse{Success: true, CourseDetails: details})
}

// PopulateCourses handles POST /populate-courses
// @Summary Populate the catalog
// @Description Generate up to count courses in distinct categories, skipping titles that already exist. With async=true the work is queued instead.
// @Tags functions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param async query bool false "Queue the work and return immediately"
// @Param request body models.PopulateCoursesRequest true "Count and clear flag"
// @Success 200 {object} models.PopulateResult "Result with the number of inserted courses"
// @Success 202 {object} models.PopulateResult "Queued"
// @Failure 400 {object} models.PopulateResult "Invalid input"
// @Router /functions/v1/populate-courses [post]
func (h *FunctionHandler) PopulateCourses(w http.ResponseWriter, r *http.Request) {
	var req models.PopulateCoursesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondJSON(w, http.StatusBadRequest, models.PopulateResult{Message: "invalid request body"})
		return
	}
	if req.Count < 1 {
		h.RespondJSON(w, http.StatusBadRequest, models.PopulateResult{Message: "count must be at least 1"})
		return
	}

	if h.async(r) {
		if _, err := h.enqueuer.EnqueuePopulate(r.Context(), req.Count, req.ClearExisting); err != nil {
			h.RequestLogger(r).Error("failed to enqueue course population", zap.Error(err))
			h.RespondJSON(w, http.StatusOK, models.PopulateResult{Message: "failed to queue course population"})
			return
		}
		h.RespondJSON(w, http.StatusAccepted, models.PopulateResult{Success: true, Message: "course population queued"})
		return
	}

	result, err := h.enrichment.Populate(r.Context(), req.Count, req.ClearExisting, nil)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			h.RespondJSON(w, http.StatusBadRequest, models.PopulateResult{Message: err.Error()})
			return
		}
		h.RequestLogger(r).Error("failed to populate courses", zap.Error(err))
		h.RespondJSON(w, http.StatusOK, models.PopulateResult{Message: "failed to populate courses"})
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// ReprocessCourse handles POST /reprocess-course
// @Summary Re-enrich a course
// @Description Queue enrichment of every video of a course, or only of videos lacking content
// @Tags functions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ReprocessCourseRequest true "Course id"
// @Success 202 {object} queuedResponse "Queued"
// @Failure 400 {object} queuedResponse "Invalid input"
// @Router /functions/v1/reprocess-course [post]
func (h *FunctionHandler) ReprocessCourse(w http.ResponseWriter, r *http.Request) {
	var req models.ReprocessCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.CourseID) == "" {
		h.RespondJSON(w, http.StatusBadRequest, queuedResponse{Status: models.StatusError, Message: "courseId is required"})
		return
	}
	if h.enqueuer == nil {
		h.RespondJSON(w, http.StatusOK, queuedResponse{Status: models.StatusError, Message: "task queue is not configured"})
		return
	}

	id, err := h.enqueuer.EnqueueReprocessCourse(r.Context(), req.CourseID, req.OnlyMissing)
	if err != nil {
		h.RequestLogger(r).Error("failed to enqueue course reprocessing", zap.String("course_id", req.CourseID), zap.Error(err))
		h.RespondJSON(w, http.StatusOK, queuedResponse{Status: models.StatusError, Message: "failed to queue course reprocessing"})
		return
	}

	h.RespondJSON(w, http.StatusAccepted, queuedResponse{Status: "queued", Message: "course reprocessing queued", TaskID: id})
}

// async reports whether the caller asked for queued execution and a queue is available
func (h *FunctionHandler) async(r *http.Request) bool {
	if h.enqueuer == nil {
		return false
	}
	v, err := queryBool(r, "async")
	return err == nil && v != nil && *v
}

func processVideoError(message string) models.ProcessVideoResponse {
	return models.ProcessVideoResponse{Status: models.StatusError, Message: message}
}

package handlers

import (
	"context"
	"net/http"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EnrollmentService is the interface that wraps methods for enrollment business logic.
type EnrollmentService interface {
	// Method Enroll enrolls a user in a course and creates their empty progress.
	//
	// Enrolling twice returns the existing enrollment with created set to false.
	// If the course does not exist, models.ErrCourseNotFound is returned.
	Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, bool, error)
	// Method Get retrieves the enrollment of a user in a course.
	//
	// If the user is not enrolled, models.ErrEnrollmentNotFound is returned.
	Get(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	// Method ListMine retrieves all enrollments of a user.
	ListMine(ctx context.Context, userID string) ([]models.Enrollment, error)
}

// ProgressService is the interface that wraps methods for learning progress business logic.
type ProgressService interface {
	// Method Get retrieves progress of a user in a course.
	//
	// If the user is not enrolled, models.ErrNotEnrolled is returned.
	Get(ctx context.Context, userID, courseID string) (*models.CourseProgress, error)
	// Method MarkVideoComplete records a watched video and recomputes the overall progress.
	//
	// Reaching 100% completes the enrollment and issues a certificate.
	MarkVideoComplete(ctx context.Context, userID, courseID, videoID string) (*models.CourseProgress, error)
	// Method MarkQuizComplete records a passed quiz and recomputes the overall progress.
	MarkQuizComplete(ctx context.Context, userID, courseID, quizID string) (*models.CourseProgress, error)
}

// EnrollmentHandler handles enrollment and progress HTTP requests
type EnrollmentHandler struct {
	BaseHandler
	enrollmentService EnrollmentService
	progressService   ProgressService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService EnrollmentService, progressService ProgressService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       BaseHandler{Logger: logger},
		enrollmentService: enrollmentService,
		progressService:   progressService,
	}
}

// RegisterRoutes registers enrollment and progress routes; all of them require authentication
func (h *EnrollmentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/enrollments", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListMine)
		r.Post("/{courseId}", h.Enroll)
		r.Get("/{courseId}", h.Get)
	})
	r.Route("/progress", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/{courseId}", h.GetProgress)
		r.Post("/{courseId}/videos/{videoId}/complete", h.CompleteVideo)
		r.Post("/{courseId}/quizzes/{quizId}/complete", h.CompleteQuiz)
	})
}

// Enroll handles POST /enrollments/{courseId}
// @Summary Enroll in course
// @Description Enroll the authenticated user. Enrolling again returns the existing enrollment with status 200.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 201 {object} models.Enrollment "New enrollment"
// @Success 200 {object} models.Enrollment "Existing enrollment"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/enrollments/{courseId} [post]
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	enrollment, created, err := h.enrollmentService.Enroll(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.RespondServiceError(w, err, "enroll")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.RespondJSON(w, status, enrollment)
}

// Get handles GET /enrollments/{courseId}
// @Summary Get enrollment
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.Enrollment "Enrollment"
// @Failure 404 {object} map[string]string "Not enrolled"
// @Router /api/v1/enrollments/{courseId} [get]
func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Get(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.RespondServiceError(w, err, "get enrollment")
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollment)
}

// ListMine handles GET /enrollments
// @Summary My enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Enrollment "Enrollments"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/v1/enrollments [get]
func (h *EnrollmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.ListMine(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "list enrollments")
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollments)
}

// GetProgress handles GET /progress/{courseId}
// @Summary Get progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.CourseProgress "Progress"
// @Failure 403 {object} map[string]string "Not enrolled"
// @Router /api/v1/progress/{courseId} [get]
func (h *EnrollmentHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	progress, err := h.progressService.Get(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.RespondServiceError(w, err, "get progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// CompleteVideo handles POST /progress/{courseId}/videos/{videoId}/complete
// @Summary Complete video
// @Description Mark a video as watched. Completing every video and quiz issues a certificate.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.CourseProgress "Progress"
// @Failure 403 {object} map[string]string "Not enrolled"
// @Failure 404 {object} map[string]string "Video not in course"
// @Router /api/v1/progress/{courseId}/videos/{videoId}/complete [post]
func (h *EnrollmentHandler) CompleteVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	progress, err := h.progressService.MarkVideoComplete(r.Context(), userID, chi.URLParam(r, "courseId"), chi.URLParam(r, "videoId"))
	if err != nil {
		h.RespondServiceError(w, err, "update progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// CompleteQuiz handles POST /progress/{courseId}/quizzes/{quizId}/complete
// @Summary Complete quiz
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} models.CourseProgress "Progress"
// @Failure 403 {object} map[string]string "Not enrolled"
// @Failure 404 {object} map[string]string "Quiz not in course"
// @Router /api/v1/progress/{courseId}/quizzes/{quizId}/complete [post]
func (h *EnrollmentHandler) CompleteQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	progress, err := h.progressService.MarkQuizComplete(r.Context(), userID, chi.URLParam(r, "courseId"), chi.URLParam(r, "quizId"))
	if err != nil {
		h.RespondServiceError(w, err, "update progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

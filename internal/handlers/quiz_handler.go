package handlers

import (
	"context"
	"net/http"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// QuizService is the interface that wraps methods for quiz business logic.
type QuizService interface {
	// Method GetByCourse retrieves the quizzes of a course.
	//
	// If the course does not exist, models.ErrCourseNotFound is returned.
	GetByCourse(ctx context.Context, courseID string) ([]models.Quiz, error)
	// Method GetByID retrieves a quiz.
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
	// Method Create creates a quiz. Every question needs 2 to 6 options and an in-range correct answer.
	Create(ctx context.Context, req *models.QuizRequest) (*models.Quiz, error)
	// Method Update replaces a quiz.
	Update(ctx context.Context, id string, req *models.QuizRequest) (*models.Quiz, error)
	// Method Delete deletes a quiz.
	Delete(ctx context.Context, id string) error
	// Method SubmitAttempt scores the answers and stores the attempt.
	//
	// A passing attempt by an enrolled user marks the quiz complete in their progress.
	SubmitAttempt(ctx context.Context, userID, quizID string, req *models.SubmitAttemptRequest) (*models.QuizAttempt, error)
	// Method ListAttempts retrieves the attempts of a user, optionally for a single quiz.
	ListAttempts(ctx context.Context, userID, quizID string) ([]models.QuizAttempt, error)
}

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	BaseHandler
	quizService QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: BaseHandler{Logger: logger},
		quizService: quizService,
	}
}

// RegisterRoutes registers quiz routes. Reading and answering needs authentication, authoring the admin role.
func (h *QuizHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/quizzes", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/", h.ListByCourse)
			r.Get("/attempts", h.ListAttempts)
			r.Get("/{id}", h.Get)
			r.Post("/{id}/attempts", h.SubmitAttempt)
		})
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// ListByCourse handles GET /quizzes?courseId=
// @Summary List course quizzes
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param courseId query string true "Course ID"
// @Success 200 {array} models.Quiz "Quizzes"
// @Failure 400 {object} map[string]string "courseId required"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /api/v1/quizzes [get]
func (h *QuizHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")
	if courseID == "" {
		h.RespondError(w, http.StatusBadRequest, "courseId is required")
		return
	}

	quizzes, err := h.quizService.GetByCourse(r.Context(), courseID)
	if err != nil {
		h.RespondServiceError(w, err, "list quizzes")
		return
	}

	h.RespondJSON(w, http.StatusOK, quizzes)
}

// Get handles GET /quizzes/{id}
// @Summary Get quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} models.Quiz "Quiz"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /api/v1/quizzes/{id} [get]
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.RespondServiceError(w, err, "get quiz")
		return
	}

	h.RespondJSON(w, http.StatusOK, quiz)
}

// Create handles POST /quizzes
// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.QuizRequest true "Quiz"
// @Success 201 {object} models.Quiz "Created quiz"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /api/v1/quizzes [post]
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.QuizRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	quiz, err := h.quizService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "create quiz")
		return
	}

	h.RespondJSON(w, http.StatusCreated, quiz)
}

// Update handles PUT /quizzes/{id}
// @Summary Replace quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Param request body models.QuizRequest true "Quiz"
// @Success 200 {object} models.Quiz "Updated quiz"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /api/v1/quizzes/{id} [put]
func (h *QuizHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.QuizRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	quiz, err := h.quizService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.RespondServiceError(w, err, "update quiz")
		return
	}

	h.RespondJSON(w, http.StatusOK, quiz)
}

// Delete handles DELETE /quizzes/{id}
// @Summary Delete quiz
// @Tags quizzes
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /api/v1/quizzes/{id} [delete]
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.quizService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.RespondServiceError(w, err, "delete quiz")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitAttempt handles POST /quizzes/{id}/attempts
// @Summary Submit quiz answers
// @Description Score the chosen option per question. Passing marks the quiz complete in the course progress.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Param request body models.SubmitAttemptRequest true "Answers"
// @Success 201 {object} models.QuizAttempt "Scored attempt"
// @Failure 400 {object} map[string]string "Answer count does not match"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /api/v1/quizzes/{id}/attempts [post]
func (h *QuizHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var req models.SubmitAttemptRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	attempt, err := h.quizService.SubmitAttempt(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.RespondServiceError(w, err, "submit attempt")
		return
	}

	h.RespondJSON(w, http.StatusCreated, attempt)
}

// ListAttempts handles GET /quizzes/attempts
// @Summary My quiz attempts
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param quizId query string false "Only attempts of this quiz"
// @Success 200 {array} models.QuizAttempt "Attempts"
// @Router /api/v1/quizzes/attempts [get]
func (h *QuizHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	attempts, err := h.quizService.ListAttempts(r.Context(), userID, r.URL.Query().Get("quizId"))
	if err != nil {
		h.RespondServiceError(w, err, "list attempts")
		return
	}

	h.RespondJSON(w, http.StatusOK, attempts)
}

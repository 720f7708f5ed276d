package handlers

import (
	"context"
	"net/http"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for course catalog business logic.
type CourseService interface {
	// Method List retrieves courses matching the filter, featured first.
	//
	// Page defaults to 1 and count to 20. An unknown level yields models.ErrInvalidInput.
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	// Method Get retrieves a course with its videos, notes and quizzes.
	//
	// If the course does not exist, models.ErrCourseNotFound is returned.
	Get(ctx context.Context, id string) (*models.CourseWithContent, error)
	// Method Create creates a course.
	Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	// Method Update applies a partial update and returns the updated course.
	Update(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, error)
	// Method SetFeatured toggles the featured flag.
	SetFeatured(ctx context.Context, id string, featured bool) (*models.Course, error)
	// Method Delete deletes a course together with its videos, notes and quizzes.
	Delete(ctx context.Context, id string) error
	// Method ReplaceVideos replaces the whole video list of a course in one transaction.
	ReplaceVideos(ctx context.Context, courseID string, req *models.ReplaceVideosRequest) ([]models.Video, error)
	// Method ReplaceNotes replaces the whole note list of a course in one transaction.
	ReplaceNotes(ctx context.Context, courseID string, req *models.ReplaceNotesRequest) ([]models.Note, error)
}

// CourseHandler handles course-related HTTP requests
type CourseHandler struct {
	BaseHandler
	courseService CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		courseService: courseService,
	}
}

// RegisterRoutes registers all course handler routes.
// Reads are public; writes require the admin role.
func (h *CourseHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Patch("/{id}", h.Update)
			r.Put("/{id}/featured", h.SetFeatured)
			r.Delete("/{id}", h.Delete)
			r.Put("/{id}/videos", h.ReplaceVideos)
			r.Put("/{id}/notes", h.ReplaceNotes)
		})
	})
}

// List handles GET /courses
// @Summary List courses
// @Description List courses with optional category, level, featured and search filters. Featured courses come first.
// @Tags courses
// @Produce json
// @Param category query string false "Category"
// @Param level query string false "Level (beginner, intermediate, advanced)"
// @Param featured query bool false "Only featured or only non-featured courses"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number (default 1)"
// @Param count query int false "Items per page (default 20, max 100)"
// @Success 200 {array} models.Course "Courses"
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses [get]
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.CourseFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if level := q.Get("level"); level != "" {
		l := models.Level(level)
		filter.Level = &l
	}

	var err error
	if filter.Featured, err = queryBool(r, "featured"); err != nil {
		h.RespondServiceError(w, err, "list courses")
		return
	}
	if filter.Page, err = queryInt(r, "page", 1); err != nil {
		h.RespondServiceError(w, err, "list courses")
		return
	}
	if filter.Count, err = queryInt(r, "count", 20); err != nil {
		h.RespondServiceError(w, err, "list courses")
		return
	}

	courses, err := h.courseService.List(r.Context(), filter)
	if err != nil {
		h.RespondServiceError(w, err, "list courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// Get handles GET /courses/{id}
// @Summary Get course
// @Description Get a course with its videos, notes and quizzes
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.CourseWithContent "Course"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{id} [get]
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.RespondServiceError(w, err, "get course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// Create handles POST /courses
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCourseRequest true "Course"
// @Success 201 {object} models.Course "Created course"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	course, err := h.courseService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "create course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, course)
}

// Update handles PATCH /courses/{id}
// @Summary Update course
// @Description Partially update a course. Only provided fields change.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body models.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} models.Course "Updated course"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{id} [patch]
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCourseRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	course, err := h.courseService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.RespondServiceError(w, err, "update course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// featuredRequest toggles the featured flag
type featuredRequest struct {
	Featured *bool `json:"featured" validate:"required"`
}

// SetFeatured handles PUT /courses/{id}/featured
// @Summary Toggle featured
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body featuredRequest true "Featured flag"
// @Success 200 {object} models.Course "Updated course"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /api/v1/courses/{id}/featured [put]
func (h *CourseHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	var req featuredRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	course, err := h.courseService.SetFeatured(r.Context(), chi.URLParam(r, "id"), *req.Featured)
	if err != nil {
		h.RespondServiceError(w, err, "update course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// Delete handles DELETE /courses/{id}
// @Summary Delete course
// @Description Delete a course with its videos, notes and quizzes
// @Tags courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{id} [delete]
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.courseService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.RespondServiceError(w, err, "delete course")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReplaceVideos handles PUT /courses/{id}/videos
// @Summary Replace course videos
// @Description Replace all videos of a course. Videos are renumbered in request order and enriched later.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body models.ReplaceVideosRequest true "Videos"
// @Success 200 {array} models.Video "Stored videos"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{id}/videos [put]
func (h *CourseHandler) ReplaceVideos(w http.ResponseWriter, r *http.Request) {
	var req models.ReplaceVideosRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	videos, err := h.courseService.ReplaceVideos(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.RespondServiceError(w, err, "replace videos")
		return
	}

	h.RespondJSON(w, http.StatusOK, videos)
}

// ReplaceNotes handles PUT /courses/{id}/notes
// @Summary Replace course notes
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body models.ReplaceNotesRequest true "Notes"
// @Success 200 {array} models.Note "Stored notes"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{id}/notes [put]
func (h *CourseHandler) ReplaceNotes(w http.ResponseWriter, r *http.Request) {
	var req models.ReplaceNotesRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	notes, err := h.courseService.ReplaceNotes(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.RespondServiceError(w, err, "replace notes")
		return
	}

	h.RespondJSON(w, http.StatusOK, notes)
}

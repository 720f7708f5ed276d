package handlers

import (
	"context"
	"net/http"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/auth"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CertificateService is the interface that wraps methods for reading certificates.
type CertificateService interface {
	// Method GetByID retrieves a certificate. Certificates of other users are hidden unless asAdmin is set.
	GetByID(ctx context.Context, userID, id string, asAdmin bool) (*models.Certificate, error)
	// Method GetByCourse retrieves the certificate of a user for a course.
	//
	// If none was issued, models.ErrCertificateNotFound is returned.
	GetByCourse(ctx context.Context, userID, courseID string) (*models.Certificate, error)
	ListMine(ctx context.Context, userID string) ([]models.Certificate, error)
}

// CertificateHandler handles certificate HTTP requests
type CertificateHandler struct {
	BaseHandler
	certificateService CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certificateService CertificateService, logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler:        BaseHandler{Logger: logger},
		certificateService: certificateService,
	}
}

// RegisterRoutes registers certificate routes
func (h *CertificateHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/certificates", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListMine)
		r.Get("/course/{courseId}", h.GetByCourse)
		r.Get("/{id}", h.Get)
	})
}

// ListMine handles GET /certificates
// @Summary My certificates
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Certificate "Certificates"
// @Router /api/v1/certificates [get]
func (h *CertificateHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	certificates, err := h.certificateService.ListMine(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "list certificates")
		return
	}

	h.RespondJSON(w, http.StatusOK, certificates)
}

// Get handles GET /certificates/{id}
// @Summary Get certificate
// @Description Get a certificate by ID. Admins can read every certificate.
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Certificate ID"
// @Success 200 {object} models.Certificate "Certificate"
// @Failure 404 {object} map[string]string "Certificate not found"
// @Router /api/v1/certificates/{id} [get]
func (h *CertificateHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	asAdmin := auth.GetRole(r.Context()) == auth.RoleAdmin
	certificate, err := h.certificateService.GetByID(r.Context(), userID, chi.URLParam(r, "id"), asAdmin)
	if err != nil {
		h.RespondServiceError(w, err, "get certificate")
		return
	}

	h.RespondJSON(w, http.StatusOK, certificate)
}

// GetByCourse handles GET /certificates/course/{courseId}
// @Summary Get course certificate
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.Certificate "Certificate"
// @Failure 404 {object} map[string]string "No certificate for this course"
// @Router /api/v1/certificates/course/{courseId} [get]
func (h *CertificateHandler) GetByCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	certificate, err := h.certificateService.GetByCourse(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.RespondServiceError(w, err, "get certificate")
		return
	}

	h.RespondJSON(w, http.StatusOK, certificate)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileService is the interface that wraps methods for a user's own profile.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	// Method UpdateProfile applies a partial update of name and avatar.
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error)
}

// AdminService is the interface that wraps methods for user administration.
type AdminService interface {
	// Method ListUsers retrieves a page of users matching search over name and email.
	ListUsers(ctx context.Context, search string, page, count int) ([]models.Profile, error)
	// Method UpdateRole changes the role of a user. Admins cannot demote themselves.
	UpdateRole(ctx context.Context, actorID, userID string, role models.Role) error
	// Method DeleteUser deletes a user. Admins cannot delete themselves.
	DeleteUser(ctx context.Context, actorID, userID string) error
}

// UserHandler handles profile and user administration HTTP requests
type UserHandler struct {
	BaseHandler
	profileService ProfileService
	adminService   AdminService
}

// NewUserHandler creates a new user handler
func NewUserHandler(profileService ProfileService, adminService AdminService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		profileService: profileService,
		adminService:   adminService,
	}
}

// RegisterRoutes registers profile routes for authenticated users and user administration routes for admins
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/profile", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetProfile)
		r.Patch("/", h.UpdateProfile)
	})
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Get("/", h.ListUsers)
		r.Patch("/{id}/role", h.UpdateRole)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// GetProfile handles GET /profile
// @Summary Get profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile "Profile"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/v1/profile [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "get profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /profile
// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} models.Profile "Updated profile"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /api/v1/profile [patch]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "update profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// ListUsers handles GET /admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search in name and email"
// @Param page query int false "Page number (default 1)"
// @Param count query int false "Items per page (default 20)"
// @Success 200 {array} models.Profile "Users"
// @Failure 403 {object} map[string]string "Admin role required"
// @Router /api/v1/admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.RespondServiceError(w, err, "list users")
		return
	}
	count, err := queryInt(r, "count", 20)
	if err != nil {
		h.RespondServiceError(w, err, "list users")
		return
	}

	users, err := h.adminService.ListUsers(r.Context(), r.URL.Query().Get("search"), page, count)
	if err != nil {
		h.RespondServiceError(w, err, "list users")
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// UpdateRole handles PATCH /admin/users/{id}/role
// @Summary Change user role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body models.UpdateRoleRequest true "Role"
// @Success 200 {object} map[string]string "Role updated"
// @Failure 400 {object} map[string]string "Invalid role or self-demotion"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/v1/admin/users/{id}/role [patch]
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.adminService.UpdateRole(r.Context(), actorID, chi.URLParam(r, "id"), req.Role); err != nil {
		h.RespondServiceError(w, err, "update role")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "role updated"})
}

// DeleteUser handles DELETE /admin/users/{id}
// @Summary Delete user
// @Tags admin
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Self-deletion"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/v1/admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		h.RespondServiceError(w, err, "delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

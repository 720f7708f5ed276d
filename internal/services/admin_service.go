package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
)

// AdminProfileRepository is the interface that wraps methods for user administration
type AdminProfileRepository interface {
	// Method List retrieves profiles matching search over name and email, newest first.
	List(ctx context.Context, search string, page, count int) ([]models.Profile, error)
	// Method UpdateRole changes the role of a user.
	//
	// If the user does not exist, models.ErrUserNotFound is returned.
	UpdateRole(ctx context.Context, id string, role models.Role) error
	// Method Delete deletes a user together with their learning records.
	Delete(ctx context.Context, id string) error
}

// adminService implements AdminService
type adminService struct {
	profileRepo AdminProfileRepository
	logger      *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(profileRepo AdminProfileRepository, logger *zap.Logger) *adminService {
	return &adminService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// ListUsers retrieves a page of users
func (s *adminService) ListUsers(ctx context.Context, search string, page, count int) ([]models.Profile, error) {
	return s.profileRepo.List(ctx, strings.TrimSpace(search), page, count)
}

// UpdateRole changes the role of a user. Admins cannot demote themselves.
func (s *adminService) UpdateRole(ctx context.Context, actorID, userID string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: invalid role %q", models.ErrInvalidInput, role)
	}
	if actorID == userID && role != models.RoleAdmin {
		return fmt.Errorf("%w: admins cannot demote themselves", models.ErrInvalidInput)
	}

	if err := s.profileRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	s.logger.Info("user role updated", zap.String("user_id", userID), zap.String("role", string(role)), zap.String("by", actorID))
	return nil
}

// DeleteUser deletes a user. Admins cannot delete themselves.
func (s *adminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return fmt.Errorf("%w: admins cannot delete themselves", models.ErrInvalidInput)
	}

	if err := s.profileRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.String("user_id", userID), zap.String("by", actorID))
	return nil
}

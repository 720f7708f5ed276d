package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
)

// ProfileUpdater is the interface that wraps profile self-service data access
type ProfileUpdater interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// Method Update applies a partial update of name and avatar.
	Update(ctx context.Context, id string, req *models.UpdateProfileRequest) error
}

// profileService implements ProfileService
type profileService struct {
	profileRepo ProfileUpdater
	logger      *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo ProfileUpdater, logger *zap.Logger) *profileService {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// GetProfile retrieves the profile of a user
func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, userID)
}

// UpdateProfile updates name and avatar of the user's own profile
func (s *profileService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if req.Name == nil && req.Avatar == nil {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrInvalidInput)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", models.ErrInvalidInput)
		}
		req.Name = &name
	}

	if err := s.profileRepo.Update(ctx, userID, req); err != nil {
		return nil, err
	}

	return s.profileRepo.GetByID(ctx, userID)
}

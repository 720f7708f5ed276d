package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/auth"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/tasks"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ProfileRepository is the interface that wraps methods for Profile table data access
type ProfileRepository interface {
	// Method Create inserts a new profile, assigning an ID and the student role when unset.
	Create(ctx context.Context, p *models.Profile) error
	// Method GetByID retrieves a profile by ID.
	//
	// If the profile does not exist, models.ErrUserNotFound is returned.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// Method GetByEmail retrieves a profile by email (case-insensitive).
	//
	// If the profile does not exist, models.ErrUserNotFound is returned.
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method SetConfirmationToken replaces the email confirmation token of a profile.
	SetConfirmationToken(ctx context.Context, id, token string) error
	// Method ConfirmEmail confirms the profile owning the token.
	//
	// An unknown token yields models.ErrTokenNotFound.
	ConfirmEmail(ctx context.Context, token string) error
}

// UserTokenRepository is the interface that wraps methods for UserToken table data access
type UserTokenRepository interface {
	Create(ctx context.Context, userToken *models.UserToken) error
	// Method GetByToken retrieves a refresh token record.
	//
	// An unknown token yields models.ErrTokenNotFound.
	GetByToken(ctx context.Context, token string) (*models.UserToken, error)
	// Method UpdateToken rotates a refresh token of a user.
	UpdateToken(ctx context.Context, oldToken, newToken, userID string, expiresAt time.Time) error
	DeleteByToken(ctx context.Context, token string) error
}

// authService implements AuthService
type authService struct {
	profileRepo    ProfileRepository
	userTokenRepo  UserTokenRepository
	tokenGenerator *auth.TokenGenerator
	emails         EmailEnqueuer
	baseURL        string
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService creates a new auth service. emails may be nil to skip confirmation emails.
func NewAuthService(
	profileRepo ProfileRepository,
	userTokenRepo UserTokenRepository,
	tokenGenerator *auth.TokenGenerator,
	emails EmailEnqueuer,
	baseURL string,
	logger *zap.Logger,
) *authService {
	return &authService{
		profileRepo:    profileRepo,
		userTokenRepo:  userTokenRepo,
		tokenGenerator: tokenGenerator,
		emails:         emails,
		baseURL:        baseURL,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// passwordRules: at least 8 characters with a letter and a digit
var passwordRules = []*regexp.Regexp{
	regexp.MustCompile(`.{8,}`),
	regexp.MustCompile(`[A-Za-z]`),
	regexp.MustCompile(`[0-9]`),
}

// SignUp registers a new student and sends the email confirmation link
func (s *authService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.Profile, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", models.ErrInvalidInput)
	}
	for _, rule := range passwordRules {
		if !rule.MatchString(req.Password) {
			return nil, fmt.Errorf("%w: password must be at least 8 characters long and contain a letter and a digit", models.ErrInvalidInput)
		}
	}

	exists, err := s.profileRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Name:              name,
		Email:             email,
		PasswordHash:      string(passwordHash),
		Role:              models.RoleStudent,
		ConfirmationToken: uuid.NewString(),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", profile.ID))
	s.sendConfirmation(ctx, profile)
	return profile, nil
}

// SignIn authenticates a user by email and password and issues a token pair
func (s *authService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.TokenPair, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	if !profile.EmailConfirmed {
		return nil, models.ErrEmailNotConfirmed
	}

	return s.issueTokens(ctx, profile)
}

// SignOut revokes a refresh token
func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	return s.userTokenRepo.DeleteByToken(ctx, strings.TrimSpace(refreshToken))
}

// Refresh exchanges a valid refresh token for a new token pair. The old refresh token is rotated out.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if err := s.tokenGenerator.ValidateRefreshToken(refreshToken); err != nil {
		// drop it in case it is still stored
		if delErr := s.userTokenRepo.DeleteByToken(ctx, refreshToken); delErr != nil {
			s.logger.Warn("failed to delete invalid refresh token", zap.Error(delErr))
		}
		return nil, models.ErrTokenNotFound
	}

	userToken, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !userToken.ExpiresAt.IsZero() && !userToken.ExpiresAt.After(s.now()) {
		return nil, models.ErrTokenNotFound
	}

	profile, err := s.profileRepo.GetByID(ctx, userToken.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, newRefreshToken, err := s.tokenGenerator.GenerateTokens(profile.ID, string(profile.Role))
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.tokenGenerator.RefreshTokenExpiry())
	if err := s.userTokenRepo.UpdateToken(ctx, refreshToken, newRefreshToken, profile.ID, expiresAt); err != nil {
		return nil, err
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// ResendConfirmation issues a new confirmation token and resends the link.
// Unknown and already confirmed addresses are silently ignored.
func (s *authService) ResendConfirmation(ctx context.Context, email string) error {
	profile, err := s.profileRepo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, models.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if profile.EmailConfirmed {
		return nil
	}

	profile.ConfirmationToken = uuid.NewString()
	if err := s.profileRepo.SetConfirmationToken(ctx, profile.ID, profile.ConfirmationToken); err != nil {
		return err
	}

	s.sendConfirmation(ctx, profile)
	return nil
}

// ConfirmEmail confirms the email owning the token
func (s *authService) ConfirmEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is required", models.ErrInvalidInput)
	}
	return s.profileRepo.ConfirmEmail(ctx, token)
}

// Me retrieves the profile of the authenticated user
func (s *authService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, userID)
}

func (s *authService) issueTokens(ctx context.Context, profile *models.Profile) (*models.TokenPair, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(profile.ID, string(profile.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	userToken := &models.UserToken{
		UserID:    profile.ID,
		Token:     refreshToken,
		ExpiresAt: s.now().Add(s.tokenGenerator.RefreshTokenExpiry()),
	}
	if err := s.userTokenRepo.Create(ctx, userToken); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authService) sendConfirmation(ctx context.Context, profile *models.Profile) {
	if s.emails == nil {
		return
	}
	link := fmt.Sprintf("%s/api/v1/auth/confirm?token=%s", s.baseURL, url.QueryEscape(profile.ConfirmationToken))
	if err := s.emails.EnqueueEmail(ctx, profile.Email, tasks.EmailConfirmation, profile.Name, link); err != nil {
		s.logger.Warn("failed to enqueue confirmation email", zap.String("user_id", profile.ID), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method SignUp registers a new student and sends an email confirmation link.
	//
	// "req" parameter contains email, password and display name.
	//
	// If the email is already registered, models.ErrEmailTaken is returned. Weak passwords yield models.ErrInvalidInput.
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.Profile, error)
	// Method SignIn validates credentials and issues an access and refresh token pair.
	//
	// Wrong credentials yield models.ErrInvalidCredentials, an unconfirmed email models.ErrEmailNotConfirmed.
	SignIn(ctx context.Context, req *models.SignInRequest) (*models.TokenPair, error)
	// Method SignOut revokes a refresh token.
	SignOut(ctx context.Context, refreshToken string) error
	// Method Refresh exchanges a refresh token for a new token pair.
	//
	// If the refresh token is invalid, expired or revoked, models.ErrTokenNotFound is returned.
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	// Method ResendConfirmation sends a fresh confirmation link. Unknown and confirmed addresses are ignored.
	ResendConfirmation(ctx context.Context, email string) error
	// Method ConfirmEmail confirms the email owning the token.
	ConfirmEmail(ctx context.Context, token string) error
	// Method Me retrieves the profile of the authenticated user.
	Me(ctx context.Context, userID string) (*models.Profile, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/signin", h.SignIn)
		r.Post("/signout", h.SignOut)
		r.Post("/refresh", h.Refresh)
		r.Post("/resend-confirmation", h.ResendConfirmation)
		r.Get("/confirm", h.ConfirmEmail)
		r.With(authMiddleware).Get("/me", h.Me)
	})
}

// SignUp handles POST /auth/signup
// @Summary Register a new user
// @Description Register a student account. A confirmation link is emailed; sign in is possible after confirming.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignUpRequest true "Sign up request"
// @Success 201 {object} models.Profile "Registered user"
// @Failure 400 {object} map[string]string "Invalid request body or weak password"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.authService.SignUp(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "sign up")
		return
	}

	h.RespondJSON(w, http.StatusCreated, profile)
}

// SignIn handles POST /auth/signin
// @Summary Sign in
// @Description Authenticate with email and password. Tokens are returned in the body and as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignInRequest true "Sign in request"
// @Success 200 {object} models.TokenPair "Token pair"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid email or password"
// @Failure 403 {object} map[string]string "Email not confirmed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.authService.SignIn(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "sign in")
		return
	}

	h.setTokenCookies(w, pair)
	h.RespondJSON(w, http.StatusOK, pair)
}

// SignOut handles POST /auth/signout
// @Summary Sign out
// @Description Revoke the refresh token given in the body or the refresh_token cookie and clear the cookies
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest false "Refresh token"
// @Success 200 {object} map[string]string "Signed out"
// @Failure 400 {object} map[string]string "Refresh token required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshToken(w, r)
	if !ok {
		return
	}

	if err := h.authService.SignOut(r.Context(), refreshToken); err != nil {
		h.RespondServiceError(w, err, "sign out")
		return
	}

	h.clearTokenCookies(w)
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "signed out successfully"})
}

// Refresh handles POST /auth/refresh
// @Summary Refresh tokens
// @Description Exchange a refresh token (body or refresh_token cookie) for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest false "Refresh token"
// @Success 200 {object} models.TokenPair "Token pair"
// @Failure 400 {object} map[string]string "Refresh token required"
// @Failure 401 {object} map[string]string "Invalid or expired refresh token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshToken(w, r)
	if !ok {
		return
	}

	pair, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.RespondServiceError(w, err, "refresh tokens")
		return
	}

	h.setTokenCookies(w, pair)
	h.RespondJSON(w, http.StatusOK, pair)
}

// ResendConfirmation handles POST /auth/resend-confirmation
// @Summary Resend confirmation email
// @Description Send a new confirmation link. The response is the same whether or not the address is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Email"
// @Success 202 {object} map[string]string "Accepted"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/auth/resend-confirmation [post]
func (h *AuthHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authService.ResendConfirmation(r.Context(), req.Email); err != nil {
		h.RespondServiceError(w, err, "resend confirmation")
		return
	}

	h.RespondJSON(w, http.StatusAccepted, map[string]string{"message": "if the address is registered and unconfirmed, a new link was sent"})
}

// ConfirmEmail handles GET /auth/confirm
// @Summary Confirm email
// @Description Confirm an email address with the token from the confirmation link
// @Tags auth
// @Produce json
// @Param token query string true "Confirmation token"
// @Success 200 {object} map[string]string "Email confirmed"
// @Failure 400 {object} map[string]string "Token required"
// @Failure 401 {object} map[string]string "Unknown token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/auth/confirm [get]
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.ConfirmEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
		h.RespondServiceError(w, err, "confirm email")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "email confirmed"})
}

// Me handles GET /auth/me
// @Summary Current user
// @Description Get the profile of the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile "Profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	profile, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "get profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// refreshToken reads the refresh token from the request body, then from the refresh_token cookie
func (h *AuthHandler) refreshToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken, true
	}

	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		h.RespondError(w, http.StatusBadRequest, "refresh token required")
		return "", false
	}
	return cookie.Value, true
}

// setTokenCookies sets access and refresh tokens as HTTP-only cookies
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, pair *models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   604800, // 7 days
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{"access_token", "refresh_token"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

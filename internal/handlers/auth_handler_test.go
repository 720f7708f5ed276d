package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/auth"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	err             error
	gotRefreshToken string
	gotConfirmToken string
}

func (m *mockAuthService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Profile{ID: "user-1", Email: req.Email, Name: req.Name, Role: models.RoleStudent}, nil
}

func (m *mockAuthService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.TokenPair, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *mockAuthService) SignOut(ctx context.Context, refreshToken string) error {
	m.gotRefreshToken = refreshToken
	return m.err
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	m.gotRefreshToken = refreshToken
	if m.err != nil {
		return nil, m.err
	}
	return &models.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (m *mockAuthService) ResendConfirmation(ctx context.Context, email string) error {
	return m.err
}

func (m *mockAuthService) ConfirmEmail(ctx context.Context, token string) error {
	m.gotConfirmToken = token
	return m.err
}

func (m *mockAuthService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	return &models.Profile{ID: userID}, m.err
}

// asStudent authenticates every request as student-1
func asStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), "student-1", auth.RoleStudent)))
	})
}

func newAuthRouter(svc AuthService) chi.Router {
	h := NewAuthHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	h.RegisterRoutes(r, asStudent)
	return r
}

func cookieValue(w *httptest.ResponseRecorder, name string) string {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func TestAuthHandler_SignUp(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		err            error
		expectedStatus int
	}{
		{name: "success", body: `{"email":"a@b.co","password":"secret123","name":"Ann"}`, expectedStatus: http.StatusCreated},
		{name: "weak password", body: `{"email":"a@b.co","password":"short","name":"Ann"}`, expectedStatus: http.StatusBadRequest},
		{name: "email taken", body: `{"email":"a@b.co","password":"secret123","name":"Ann"}`, err: models.ErrEmailTaken, expectedStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newAuthRouter(&mockAuthService{err: tt.err}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuthHandler_SignIn(t *testing.T) {
	t.Run("sets cookies", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"email":"a@b.co","password":"secret123"}`
		newAuthRouter(&mockAuthService{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "access", cookieValue(w, "access_token"))
		assert.Equal(t, "refresh", cookieValue(w, "refresh_token"))

		var pair models.TokenPair
		require.NoError(t, json.NewDecoder(w.Body).Decode(&pair))
		assert.Equal(t, "access", pair.AccessToken)
	})

	t.Run("unconfirmed email", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"email":"a@b.co","password":"secret123"}`
		newAuthRouter(&mockAuthService{err: models.ErrEmailNotConfirmed}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body)))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, cookieValue(w, "access_token"))
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		cookie         string
		err            error
		expectedStatus int
		expectedToken  string
	}{
		{name: "token in body", body: `{"refreshToken":"from-body"}`, expectedStatus: http.StatusOK, expectedToken: "from-body"},
		{name: "token in cookie", cookie: "from-cookie", expectedStatus: http.StatusOK, expectedToken: "from-cookie"},
		{name: "no token", expectedStatus: http.StatusBadRequest},
		{name: "revoked token", body: `{"refreshToken":"old"}`, err: models.ErrTokenNotFound, expectedStatus: http.StatusUnauthorized, expectedToken: "old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{err: tt.err}
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(tt.body))
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "refresh_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			newAuthRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedToken, svc.gotRefreshToken)
		})
	}
}

func TestAuthHandler_SignOutClearsCookies(t *testing.T) {
	svc := &mockAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "r1"})
	w := httptest.NewRecorder()
	newAuthRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r1", svc.gotRefreshToken)
	for _, cookie := range w.Result().Cookies() {
		assert.Equal(t, -1, cookie.MaxAge, cookie.Name)
	}
}

func TestAuthHandler_ConfirmAndMe(t *testing.T) {
	svc := &mockAuthService{}
	router := newAuthRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/confirm?token=abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", svc.gotConfirmToken)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student-1")
}

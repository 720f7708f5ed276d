package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "invalid input", err: fmt.Errorf("%w: bad level", models.ErrInvalidInput), expected: http.StatusBadRequest},
		{name: "course not found", err: models.ErrCourseNotFound, expected: http.StatusNotFound},
		{name: "wrapped file not found", err: fmt.Errorf("download: %w", models.ErrFileNotFound), expected: http.StatusNotFound},
		{name: "email taken", err: models.ErrEmailTaken, expected: http.StatusConflict},
		{name: "invalid credentials", err: models.ErrInvalidCredentials, expected: http.StatusUnauthorized},
		{name: "token not found", err: models.ErrTokenNotFound, expected: http.StatusUnauthorized},
		{name: "not enrolled", err: models.ErrNotEnrolled, expected: http.StatusForbidden},
		{name: "unknown", err: errors.New("db down"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFor(tt.err))
		})
	}
}

func TestRespondServiceError_HidesInternalErrors(t *testing.T) {
	h := &BaseHandler{Logger: zap.NewNop()}
	w := httptest.NewRecorder()

	h.RespondServiceError(w, errors.New("dial tcp 10.0.0.1:3306: refused"), "list courses")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to list courses")
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedOK     bool
		expectedStatus int
		expectedError  string
	}{
		{
			name:       "valid",
			body:       `{"email":"a@b.co","password":"secret123","name":"Ann"}`,
			expectedOK: true,
		},
		{
			name:           "malformed json",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "validation uses json names",
			body:           `{"email":"not-an-email","password":"short","name":"Ann"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "email: email, password: min=8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{Logger: zap.NewNop()}
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var req models.SignUpRequest
			ok := h.DecodeAndValidate(w, r, &req)

			assert.Equal(t, tt.expectedOK, ok)
			if !tt.expectedOK {
				assert.Equal(t, tt.expectedStatus, w.Code)
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestQueryParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&featured=true&count=x&flag=maybe", nil)

	page, err := queryInt(r, "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	def, err := queryInt(r, "missing", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, def)

	_, err = queryInt(r, "count", 20)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	featured, err := queryBool(r, "featured")
	require.NoError(t, err)
	require.NotNil(t, featured)
	assert.True(t, *featured)

	absent, err := queryBool(r, "absent")
	require.NoError(t, err)
	assert.Nil(t, absent)

	_, err = queryBool(r, "flag")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

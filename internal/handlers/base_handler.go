package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/auth"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/middleware"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = newValidator()

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RequestLogger returns the handler logger tagged with the request id
func (h *BaseHandler) RequestLogger(r *http.Request) *zap.Logger {
	return middleware.LoggerWithRequest(r.Context(), h.Logger)
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a service error to an HTTP status. Unknown errors are logged and
// answered with a generic 500 message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, action string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("failed to "+action, zap.Error(err))
		h.RespondError(w, status, "failed to "+action)
		return
	}
	h.RespondError(w, status, err.Error())
}

// DecodeAndValidate decodes a JSON body into dst and validates its struct tags.
// It writes a 400 response and returns false on failure.
func (h *BaseHandler) DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.Logger.Debug("failed to decode request body", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		h.RespondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// UserID returns the authenticated user, writing a 401 response when there is none
func (h *BaseHandler) UserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrCourseNotFound),
		errors.Is(err, models.ErrVideoNotFound),
		errors.Is(err, models.ErrNoteNotFound),
		errors.Is(err, models.ErrQuizNotFound),
		errors.Is(err, models.ErrEnrollmentNotFound),
		errors.Is(err, models.ErrProgressNotFound),
		errors.Is(err, models.ErrCertificateNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrTokenNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrEmailNotConfirmed), errors.Is(err, models.ErrNotEnrolled):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// validationMessage flattens validator errors to "field: rule" pairs
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fieldPath(fe.Namespace()), rule))
	}
	return strings.Join(parts, ", ")
}

// fieldPath drops the struct name: "ReplaceVideosRequest.videos[0].title" becomes "videos[0].title"
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// queryInt parses an integer query parameter, returning def when it is absent
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", models.ErrInvalidInput, name)
	}
	return v, nil
}

// queryBool parses a boolean query parameter; nil means absent
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", models.ErrInvalidInput, name)
	}
	return &v, nil
}

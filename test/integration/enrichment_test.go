package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/auth"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/catalog"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/enrichment"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/handlers"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/textgen"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errOffline = errors.New("dial tcp: connection refused")

// offlineGenerator is a text generator whose provider cannot be reached
type offlineGenerator struct{}

func (offlineGenerator) GenerateText(ctx context.Context, system, user string) (string, error) {
	return "", errOffline
}

func (offlineGenerator) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error {
	return errOffline
}

func (offlineGenerator) Chat(ctx context.Context, system string, history []textgen.Message, user string) (string, error) {
	return "", errOffline
}

func (offlineGenerator) Close() error { return nil }

// testServer is the API wired against an in-process catalog
type testServer struct {
	router     chi.Router
	stores     *catalog.Stores
	adminToken string
	userToken  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	stores, err := catalog.Open(config.StorageDriverMemory, nil)
	require.NoError(t, err)

	pipeline := enrichment.NewPipeline(
		stores.Courses,
		stores.Videos,
		stores.Quizzes,
		offlineGenerator{},
		nil,
		enrichment.Options{MinTranscriptLength: 200, Concurrency: 2},
		logger,
	)

	tokenGenerator := auth.NewTokenGenerator("integration-secret", time.Hour, 24*time.Hour)
	adminToken, _, err := tokenGenerator.GenerateTokens("admin-1", auth.RoleAdmin)
	require.NoError(t, err)
	userToken, _, err := tokenGenerator.GenerateTokens("student-1", auth.RoleStudent)
	require.NoError(t, err)
	adminMiddleware := auth.RoleMiddleware(tokenGenerator, auth.RoleAdmin)

	courseService := services.NewCourseService(stores.Courses, stores.Videos, stores.Notes, stores.Quizzes, logger)
	courseHandler := handlers.NewCourseHandler(courseService, logger)
	functionHandler := handlers.NewFunctionHandler(pipeline, nil, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		courseHandler.RegisterRoutes(r, adminMiddleware)
	})
	r.Route("/functions/v1", func(r chi.Router) {
		functionHandler.RegisterRoutes(r, adminMiddleware)
	})

	return &testServer{router: r, stores: stores, adminToken: adminToken, userToken: userToken}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestIntegration_ProcessVideo(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/courses", s.adminToken, models.CreateCourseRequest{
		Title:       "Intro to Python",
		Description: "Learn Python from scratch",
		Category:    "Programming",
		Instructor:  "Ada Lovelace",
		Level:       models.LevelBeginner,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	course := decode[models.Course](t, w)

	videos := []models.Video{{Title: "Getting Started"}}
	require.NoError(t, s.stores.Videos.ReplaceForCourse(context.Background(), course.ID, videos))
	video := videos[0]

	t.Run("students cannot call functions", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/functions/v1/process-video", s.userToken,
			models.ProcessVideoRequest{VideoID: video.ID, CourseID: course.ID})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing ids are rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/functions/v1/process-video", s.adminToken,
			models.ProcessVideoRequest{VideoID: video.ID})
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[models.ProcessVideoResponse](t, w)
		assert.Equal(t, models.StatusError, resp.Status)
	})

	t.Run("unknown video is rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/functions/v1/process-video", s.adminToken,
			models.ProcessVideoRequest{VideoID: "00000000-0000-4000-8000-000000000000", CourseID: course.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("offline generator falls back to local content", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/functions/v1/process-video", s.adminToken,
			models.ProcessVideoRequest{VideoID: video.ID, CourseID: course.ID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[models.ProcessVideoResponse](t, w)
		assert.Equal(t, models.StatusSuccess, resp.Status)
		assert.Equal(t, video.ID, resp.VideoID)
		assert.NotEmpty(t, resp.VideoURL)
		assert.NotEmpty(t, resp.Thumbnail)
		require.NotNil(t, resp.AnalyzedContent)
		assert.Contains(t, resp.AnalyzedContent.Transcript, "Intro to Python")
		assert.NotEmpty(t, resp.AnalyzedContent.Summary)
		assert.NotEmpty(t, resp.AnalyzedContent.Keywords)
		assert.NotEmpty(t, resp.AnalyzedContent.Questions)
	})

	t.Run("course detail shows the stored enrichment and quiz", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/courses/"+course.ID, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		detail := decode[models.CourseWithContent](t, w)
		require.Len(t, detail.Videos, 1)
		assert.NotNil(t, detail.Videos[0].AnalyzedContent)
		assert.NotEmpty(t, detail.Videos[0].URL)
		require.Len(t, detail.Quizzes, 1)
		assert.NotEmpty(t, detail.Quizzes[0].Questions)
	})

	t.Run("processing again keeps a single quiz", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/functions/v1/process-video", s.adminToken,
			models.ProcessVideoRequest{VideoID: video.ID, CourseID: course.ID})
		require.Equal(t, http.StatusOK, w.Code)

		quizzes, err := s.stores.Quizzes.GetByCourseID(context.Background(), course.ID)
		require.NoError(t, err)
		assert.Len(t, quizzes, 1)
	})
}

func TestIntegration_GenerateCourseDetails(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	s := newTestServer(t)

	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectSuccess  bool
	}{
		{
			name:           "title present",
			body:           models.GenerateCourseDetailsRequest{Title: "Go Concurrency in Practice"},
			expectedStatus: http.StatusOK,
			expectSuccess:  true,
		},
		{
			name:           "blank title",
			body:           models.GenerateCourseDetailsRequest{Title: "   "},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/functions/v1/generate-course-details", s.adminToken, tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			resp := decode[models.GenerateCourseDetailsResponse](t, w)
			assert.Equal(t, tt.expectSuccess, resp.Success)
			if !tt.expectSuccess {
				return
			}
			require.NotNil(t, resp.CourseDetails)
			assert.NotEmpty(t, resp.CourseDetails.Description)
			assert.NotEmpty(t, resp.CourseDetails.Category)
			assert.True(t, resp.CourseDetails.Level.Valid())
			assert.NotEmpty(t, resp.CourseDetails.Videos)
		})
	}
}

func TestIntegration_PopulateCourses(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/functions/v1/populate-courses", s.adminToken, models.PopulateCoursesRequest{Count: 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[models.PopulateResult](t, w)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Count)

	w = s.do(t, http.MethodGet, "/api/v1/courses", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	courses := decode[[]models.Course](t, w)
	require.Len(t, courses, 3)

	categories := make(map[string]bool)
	for _, c := range courses {
		categories[c.Category] = true
		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.Description)
	}
	assert.Len(t, categories, 3, "populated courses use distinct categories")

	t.Run("async mode needs a task queue", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/functions/v1/populate-courses?async=true", s.adminToken, models.PopulateCoursesRequest{Count: 1})
		assert.NotEqual(t, http.StatusAccepted, w.Code)
	})

	t.Run("clear existing replaces the catalog", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/functions/v1/populate-courses", s.adminToken,
			models.PopulateCoursesRequest{Count: 2, ClearExisting: true})
		require.Equal(t, http.StatusOK, w.Code)

		titles, err := s.stores.Courses.ListTitles(context.Background())
		require.NoError(t, err)
		assert.Len(t, titles, 2)
	})

	t.Run("invalid count", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/functions/v1/populate-courses", s.adminToken, models.PopulateCoursesRequest{Count: 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

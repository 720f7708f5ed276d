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

// mockCourseService is a mock implementation of CourseService
type mockCourseService struct {
	courses   []models.Course
	course    *models.CourseWithContent
	err       error
	gotFilter models.CourseFilter
	created   *models.CreateCourseRequest
	featured  *bool
	deleted   string
}

func (m *mockCourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	m.gotFilter = filter
	return m.courses, m.err
}

func (m *mockCourseService) Get(ctx context.Context, id string) (*models.CourseWithContent, error) {
	return m.course, m.err
}

func (m *mockCourseService) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Course{ID: "course-1", Title: req.Title, Level: req.Level}, nil
}

func (m *mockCourseService) Update(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, error) {
	return &models.Course{ID: id}, m.err
}

func (m *mockCourseService) SetFeatured(ctx context.Context, id string, featured bool) (*models.Course, error) {
	m.featured = &featured
	return &models.Course{ID: id, Featured: featured}, m.err
}

func (m *mockCourseService) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return m.err
}

func (m *mockCourseService) ReplaceVideos(ctx context.Context, courseID string, req *models.ReplaceVideosRequest) ([]models.Video, error) {
	return nil, m.err
}

func (m *mockCourseService) ReplaceNotes(ctx context.Context, courseID string, req *models.ReplaceNotesRequest) ([]models.Note, error) {
	return nil, m.err
}

// adminOnly rejects requests without an X-Role: admin header and stores the user in the context
func adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Role") != auth.RoleAdmin {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), "admin-1", auth.RoleAdmin)))
	})
}

func newCourseRouter(svc CourseService) chi.Router {
	h := NewCourseHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	h.RegisterRoutes(r, adminOnly)
	return r
}

func TestCourseHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		validate       func(t *testing.T, f models.CourseFilter)
	}{
		{
			name:           "defaults",
			query:          "",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, f models.CourseFilter) {
				assert.Equal(t, 1, f.Page)
				assert.Equal(t, 20, f.Count)
				assert.Nil(t, f.Featured)
				assert.Nil(t, f.Level)
			},
		},
		{
			name:           "filters",
			query:          "?category=Design&level=advanced&featured=false&search=ux&page=2&count=5",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, f models.CourseFilter) {
				assert.Equal(t, "Design", f.Category)
				require.NotNil(t, f.Level)
				assert.Equal(t, models.LevelAdvanced, *f.Level)
				require.NotNil(t, f.Featured)
				assert.False(t, *f.Featured)
				assert.Equal(t, "ux", f.Search)
				assert.Equal(t, 2, f.Page)
				assert.Equal(t, 5, f.Count)
			},
		},
		{
			name:           "bad page",
			query:          "?page=two",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCourseService{courses: []models.Course{{ID: "c1"}}}
			w := httptest.NewRecorder()
			newCourseRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses/"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validate != nil {
				tt.validate(t, svc.gotFilter)
			}
		})
	}
}

func TestCourseHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockCourseService{course: &models.CourseWithContent{Course: models.Course{ID: "c1", Title: "Go"}}}
		w := httptest.NewRecorder()
		newCourseRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses/c1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Go"`)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockCourseService{err: models.ErrCourseNotFound}
		w := httptest.NewRecorder()
		newCourseRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCourseHandler_Create(t *testing.T) {
	valid := `{"title":"Go","description":"Learn Go","category":"Programming","instructor":"Rob","level":"beginner"}`

	tests := []struct {
		name           string
		role           string
		body           string
		expectedStatus int
	}{
		{name: "admin creates", role: auth.RoleAdmin, body: valid, expectedStatus: http.StatusCreated},
		{name: "student forbidden", role: auth.RoleStudent, body: valid, expectedStatus: http.StatusForbidden},
		{name: "invalid level", role: auth.RoleAdmin, body: strings.Replace(valid, "beginner", "expert", 1), expectedStatus: http.StatusBadRequest},
		{name: "missing title", role: auth.RoleAdmin, body: strings.Replace(valid, `"title":"Go",`, "", 1), expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCourseService{}
			req := httptest.NewRequest(http.MethodPost, "/courses/", strings.NewReader(tt.body))
			req.Header.Set("X-Role", tt.role)
			w := httptest.NewRecorder()
			newCourseRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var course models.Course
				require.NoError(t, json.NewDecoder(w.Body).Decode(&course))
				assert.Equal(t, "course-1", course.ID)
				assert.Equal(t, models.LevelBeginner, course.Level)
			} else {
				assert.Nil(t, svc.created)
			}
		})
	}
}

func TestCourseHandler_SetFeaturedAndDelete(t *testing.T) {
	svc := &mockCourseService{}
	router := newCourseRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/courses/c1/featured", strings.NewReader(`{"featured":false}`))
	req.Header.Set("X-Role", auth.RoleAdmin)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.featured)
	assert.False(t, *svc.featured)

	req = httptest.NewRequest(http.MethodPut, "/courses/c1/featured", strings.NewReader(`{}`))
	req.Header.Set("X-Role", auth.RoleAdmin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/courses/c1", nil)
	req.Header.Set("X-Role", auth.RoleAdmin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "c1", svc.deleted)
}

package services

import (
	"context"
	"testing"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCourseService(courses *mockCourseRepository) (*courseService, *mockVideoRepository, *mockNoteRepository, *mockQuizRepository) {
	videos := &mockVideoRepository{}
	notes := &mockNoteRepository{}
	quizzes := newMockQuizRepository()
	return NewCourseService(courses, videos, notes, quizzes, zap.NewNop()), videos, notes, quizzes
}

func TestCourseService_List(t *testing.T) {
	expert := models.Level("expert")
	beginner := models.LevelBeginner

	tests := []struct {
		name          string
		filter        models.CourseFilter
		expectedPage  int
		expectedCount int
		expectedError bool
	}{
		{name: "defaults", filter: models.CourseFilter{}, expectedPage: 1, expectedCount: 20},
		{name: "explicit paging", filter: models.CourseFilter{Page: 3, Count: 50}, expectedPage: 3, expectedCount: 50},
		{name: "count over limit", filter: models.CourseFilter{Count: 500}, expectedPage: 1, expectedCount: 20},
		{name: "valid level", filter: models.CourseFilter{Level: &beginner}, expectedPage: 1, expectedCount: 20},
		{name: "invalid level", filter: models.CourseFilter{Level: &expert}, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockCourseRepository()
			repo.listed = []models.Course{{ID: "c1"}}
			svc, _, _, _ := newTestCourseService(repo)

			courses, err := svc.List(context.Background(), tt.filter)

			if tt.expectedError {
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Len(t, courses, 1)
			assert.Equal(t, tt.expectedPage, repo.gotFilter.Page)
			assert.Equal(t, tt.expectedCount, repo.gotFilter.Count)
		})
	}
}

func TestCourseService_Get(t *testing.T) {
	repo := newMockCourseRepository(&models.Course{ID: "c1", Title: "Go"})
	svc, videos, notes, quizzes := newTestCourseService(repo)
	videos.videos = []models.Video{{ID: "v1", CourseID: "c1", Order: 1}}
	notes.notes = []models.Note{{ID: "n1", CourseID: "c1"}}
	quizzes.quizzes["q1"] = &models.Quiz{ID: "q1", CourseID: "c1"}

	course, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Go", course.Title)
	assert.Len(t, course.Videos, 1)
	assert.Len(t, course.Notes, 1)
	assert.Len(t, course.Quizzes, 1)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrCourseNotFound)

	videos.err = errDB
	_, err = svc.Get(context.Background(), "c1")
	assert.ErrorIs(t, err, errDB)
	assert.Contains(t, err.Error(), "failed to get course videos")
}

func TestCourseService_Create(t *testing.T) {
	tests := []struct {
		name          string
		req           models.CreateCourseRequest
		expectedError error
	}{
		{
			name: "success",
			req:  models.CreateCourseRequest{Title: " Go Basics ", Category: "Programming", Level: models.LevelBeginner, Instructor: "Rob"},
		},
		{
			name:          "blank title",
			req:           models.CreateCourseRequest{Title: " ", Category: "Programming", Level: models.LevelBeginner},
			expectedError: models.ErrInvalidInput,
		},
		{
			name:          "invalid level",
			req:           models.CreateCourseRequest{Title: "Go", Category: "Programming", Level: "expert"},
			expectedError: models.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockCourseRepository()
			svc, _, _, _ := newTestCourseService(repo)

			course, err := svc.Create(context.Background(), &tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, repo.courses)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "course-new", course.ID)
			assert.Equal(t, "Go Basics", course.Title)
		})
	}
}

func TestCourseService_Update(t *testing.T) {
	title := "Advanced Go"
	blank := "  "

	repo := newMockCourseRepository(&models.Course{ID: "c1", Title: "Go"})
	svc, _, _, _ := newTestCourseService(repo)

	_, err := svc.Update(context.Background(), "c1", &models.UpdateCourseRequest{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Update(context.Background(), "c1", &models.UpdateCourseRequest{Title: &blank})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Update(context.Background(), "missing", &models.UpdateCourseRequest{Title: &title})
	assert.ErrorIs(t, err, models.ErrCourseNotFound)

	course, err := svc.Update(context.Background(), "c1", &models.UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Advanced Go", course.Title)

	course, err = svc.SetFeatured(context.Background(), "c1", true)
	require.NoError(t, err)
	assert.True(t, course.Featured)
}

func TestCourseService_Delete(t *testing.T) {
	repo := newMockCourseRepository(&models.Course{ID: "c1"})
	svc, _, _, _ := newTestCourseService(repo)

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, repo.deleted)
	assert.ErrorIs(t, svc.Delete(context.Background(), "c1"), models.ErrCourseNotFound)
}

func TestCourseService_ReplaceVideos(t *testing.T) {
	repo := newMockCourseRepository(&models.Course{ID: "c1"})
	svc, videos, _, _ := newTestCourseService(repo)

	result, err := svc.ReplaceVideos(context.Background(), "c1", &models.ReplaceVideosRequest{Videos: []models.VideoInput{
		{Title: " Intro "},
		{Title: "Goroutines", URL: "https://www.youtube.com/watch?v=abc"},
	}})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Intro", result[0].Title)
	assert.Equal(t, 1, result[0].Order)
	assert.Equal(t, 2, result[1].Order)
	assert.Equal(t, "c1", videos.replaced[1].CourseID)

	_, err = svc.ReplaceVideos(context.Background(), "c1", &models.ReplaceVideosRequest{Videos: []models.VideoInput{{Title: ""}}})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.ReplaceVideos(context.Background(), "missing", &models.ReplaceVideosRequest{})
	assert.ErrorIs(t, err, models.ErrCourseNotFound)
}

func TestCourseService_ReplaceNotes(t *testing.T) {
	repo := newMockCourseRepository(&models.Course{ID: "c1"})
	svc, _, notes, _ := newTestCourseService(repo)

	result, err := svc.ReplaceNotes(context.Background(), "c1", &models.ReplaceNotesRequest{Notes: []models.NoteInput{
		{Title: "Cheat sheet", FileURL: "https://cdn/notes/a.pdf", FileType: models.FileTypePDF},
	}})
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Len(t, notes.replaced, 1)

	_, err = svc.ReplaceNotes(context.Background(), "c1", &models.ReplaceNotesRequest{Notes: []models.NoteInput{
		{Title: "Slides", FileURL: "https://cdn/notes/a.ppt", FileType: "ppt"},
	}})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

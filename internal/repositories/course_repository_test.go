package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var courseRowColumns = []string{"id", "title", "description", "category", "thumbnail", "instructor", "duration",
	"level", "enrolled_count", "rating", "featured", "created_at", "updated_at"}

// setupCourseTestRepository creates a course repository with a mock database
func setupCourseTestRepository(t *testing.T) (*courseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCourseRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func courseRow(id, title string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(courseRowColumns).
		AddRow(id, title, "Learn it", "Programming", "", "Ada", "4 weeks", "beginner", 3, 4.5, true, now, now)
}

func TestNewCourseRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewCourseRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCourseRepository_GetByID(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		errorContains string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM courses WHERE id = \?`).
					WithArgs("c1").
					WillReturnRows(courseRow("c1", "Intro to Python"))
			},
		},
		{
			name: "course not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM courses WHERE id = \?`).
					WithArgs("c1").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrCourseNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM courses WHERE id = \?`).
					WithArgs("c1").
					WillReturnError(errors.New("database error"))
			},
			errorContains: "failed to get course by id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			course, err := repo.GetByID(context.Background(), "c1")

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, course)
			case tt.errorContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Intro to Python", course.Title)
				assert.Equal(t, models.LevelBeginner, course.Level)
				assert.True(t, course.Featured)
				assert.Equal(t, 4.5, course.Rating)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_List(t *testing.T) {
	repo, mock, cleanup := setupCourseTestRepository(t)
	defer cleanup()

	level := models.LevelBeginner
	featured := true
	mock.ExpectQuery(`SELECT .* FROM courses\s+WHERE category = \? AND level = \? AND featured = \? AND \(title LIKE \? OR description LIKE \?\).*LIMIT \? OFFSET \?`).
		WithArgs("Programming", level, true, "%py%", "%py%", 10, 10).
		WillReturnRows(courseRow("c1", "Intro to Python"))

	courses, err := repo.List(context.Background(), models.CourseFilter{
		Category: "Programming",
		Level:    &level,
		Featured: &featured,
		Search:   "py",
		Page:     2,
		Count:    10,
	})

	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_ListTitles(t *testing.T) {
	repo, mock, cleanup := setupCourseTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT title FROM courses`).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Go Basics").AddRow("Rust Basics"))

	titles, err := repo.ListTitles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Go Basics", "Rust Basics"}, titles)
}

func TestCourseRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupCourseTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO courses`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{Title: "Go Basics", Category: "Programming"}
	err := repo.Create(context.Background(), course)

	require.NoError(t, err)
	assert.Len(t, course.ID, 36)
	assert.Equal(t, models.LevelBeginner, course.Level)
	assert.False(t, course.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_CreateWithContent(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		errorContains string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO courses`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO videos`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO videos`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO notes`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "video insert fails rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO courses`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO videos`).WillReturnError(errors.New("boom"))
				mock.ExpectRollback()
			},
			errorContains: "failed to create video",
		},
		{
			name: "begin fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("begin error"))
			},
			errorContains: "failed to begin transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			course := &models.Course{Title: "Go Basics"}
			videos := []models.Video{{Title: "One", Order: 1}, {Title: "Two", Order: 2}}
			notes := []models.Note{{Title: "Notes", FileType: models.FileTypePDF}}
			err := repo.CreateWithContent(context.Background(), course, videos, notes)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
				assert.Equal(t, course.ID, videos[1].CourseID)
				assert.Equal(t, course.ID, notes[0].CourseID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_Update(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		repo, mock, cleanup := setupCourseTestRepository(t)
		defer cleanup()

		title := "New title"
		featured := false
		mock.ExpectExec(`UPDATE courses SET title = \?, featured = \? WHERE id = \?`).
			WithArgs(title, featured, "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), "c1", &models.UpdateCourseRequest{Title: &title, Featured: &featured})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no fields", func(t *testing.T) {
		repo, _, cleanup := setupCourseTestRepository(t)
		defer cleanup()

		err := repo.Update(context.Background(), "c1", &models.UpdateCourseRequest{})

		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestCourseRepository_DeleteCascade(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM videos WHERE course_id = \?`).WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec(`DELETE FROM notes WHERE course_id = \?`).WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`DELETE FROM quizzes WHERE course_id = \?`).WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`DELETE FROM courses WHERE id = \?`).WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "course not found rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM videos`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`DELETE FROM notes`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`DELETE FROM quizzes`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`DELETE FROM courses`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			expectedError: models.ErrCourseNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.DeleteCascade(context.Background(), "c1")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_DeleteAll(t *testing.T) {
	repo, mock, cleanup := setupCourseTestRepository(t)
	defer cleanup()

	mock.ExpectBegin()
	for _, table := range []string{"quiz_attempts", "course_progress", "course_enrollments", "quizzes", "notes", "videos", "courses"} {
		mock.ExpectExec(`DELETE FROM ` + table).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	assert.NoError(t, repo.DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name          string
		page, count   int
		expectedPage  int
		expectedCount int
	}{
		{name: "defaults", page: 0, count: 0, expectedPage: 1, expectedCount: 20},
		{name: "kept", page: 3, count: 15, expectedPage: 3, expectedCount: 15},
		{name: "capped", page: 1, count: 500, expectedPage: 1, expectedCount: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, count := normalizePage(tt.page, tt.count)
			assert.Equal(t, tt.expectedPage, page)
			assert.Equal(t, tt.expectedCount, count)
		})
	}
}

package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRepository_EnrollWithProgress(t *testing.T) {
	tests := []struct {
		name            string
		setupMock       func(sqlmock.Sqlmock)
		expectedCreated bool
		errorContains   string
	}{
		{
			name: "new enrollment",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT IGNORE INTO course_enrollments`).
					WithArgs("u1", "c1", sqlmock.AnyArg(), false, false).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO course_progress`).
					WithArgs("u1", "c1", []byte("[]"), []byte("[]"), 0, sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE courses SET enrolled_count = enrolled_count \+ 1 WHERE id = \?`).
					WithArgs("c1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedCreated: true,
		},
		{
			name: "already enrolled writes nothing else",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT IGNORE INTO course_enrollments`).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			expectedCreated: false,
		},
		{
			name: "progress insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT IGNORE INTO course_enrollments`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO course_progress`).WillReturnError(errors.New("boom"))
				mock.ExpectRollback()
			},
			errorContains: "failed to upsert progress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			repo := NewEnrollmentRepository(db)

			tt.setupMock(mock)

			now := time.Now()
			created, err := repo.EnrollWithProgress(context.Background(),
				&models.Enrollment{UserID: "u1", CourseID: "c1", EnrollmentDate: now},
				models.NewCourseProgress("u1", "c1", now))

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedCreated, created)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(`SELECT .* FROM course_enrollments WHERE user_id = \? AND course_id = \?`).
		WithArgs("u1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "course_id", "enrollment_date", "is_completed", "certificate_issued"}))

	_, err = repo.Get(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, models.ErrEnrollmentNotFound)
}

func TestEnrollmentRepository_MarkCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(`UPDATE course_enrollments SET is_completed = TRUE, certificate_issued = \?`).
		WithArgs(true, "u1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkCompleted(context.Background(), "u1", "c1", true))
}

func TestProgressRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProgressRepository(db)

	mock.ExpectQuery(`SELECT .* FROM course_progress WHERE user_id = \? AND course_id = \?`).
		WithArgs("u1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "course_id", "completed_videos", "completed_quizzes", "overall_progress", "last_accessed"}).
			AddRow("u1", "c1", []byte(`["v1","v2"]`), []byte(`[]`), 50, time.Now()))

	progress, err := repo.Get(context.Background(), "u1", "c1")

	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, progress.CompletedVideos)
	assert.Equal(t, []string{}, progress.CompletedQuizzes)
	assert.Equal(t, 50, progress.OverallProgress)
}

func TestProgressRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProgressRepository(db)

	mock.ExpectExec(`INSERT INTO course_progress .* ON DUPLICATE KEY UPDATE`).
		WithArgs("u1", "c1", []byte(`["v1"]`), []byte(`["q1"]`), 100, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = repo.Upsert(context.Background(), &models.CourseProgress{
		UserID:           "u1",
		CourseID:         "c1",
		CompletedVideos:  []string{"v1"},
		CompletedQuizzes: []string{"q1"},
		OverallProgress:  100,
		LastAccessed:     time.Now(),
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

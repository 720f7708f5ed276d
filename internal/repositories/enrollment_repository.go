package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// Get retrieves the enrollment of a user in a course
func (r *enrollmentRepository) Get(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	query := `
		SELECT user_id, course_id, enrollment_date, is_completed, certificate_issued
		FROM course_enrollments
		WHERE user_id = ? AND course_id = ?
		LIMIT 1
	`

	var e models.Enrollment
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(
		&e.UserID,
		&e.CourseID,
		&e.EnrollmentDate,
		&e.IsCompleted,
		&e.CertificateIssued,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &e, nil
}

// ListByUser retrieves all enrollments of a user, newest first
func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	query := `
		SELECT user_id, course_id, enrollment_date, is_completed, certificate_issued
		FROM course_enrollments
		WHERE user_id = ?
		ORDER BY enrollment_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.UserID, &e.CourseID, &e.EnrollmentDate, &e.IsCompleted, &e.CertificateIssued); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return enrollments, nil
}

// EnrollWithProgress creates the enrollment, its empty progress row and bumps the course's
// enrolled count in one transaction. It returns false without writing anything when the
// user is already enrolled.
func (r *enrollmentRepository) EnrollWithProgress(ctx context.Context, e *models.Enrollment, p *models.CourseProgress) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT IGNORE INTO course_enrollments (user_id, course_id, enrollment_date, is_completed, certificate_issued)
		VALUES (?, ?, ?, ?, ?)
	`, e.UserID, e.CourseID, e.EnrollmentDate, e.IsCompleted, e.CertificateIssued)
	if err != nil {
		return false, fmt.Errorf("failed to create enrollment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := upsertProgress(ctx, tx, p); err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE courses SET enrolled_count = enrolled_count + 1 WHERE id = ?`, e.CourseID); err != nil {
		return false, fmt.Errorf("failed to increment enrolled count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

// MarkCompleted flags an enrollment as completed and records whether a certificate was issued
func (r *enrollmentRepository) MarkCompleted(ctx context.Context, userID, courseID string, certificateIssued bool) error {
	query := `
		UPDATE course_enrollments
		SET is_completed = TRUE, certificate_issued = ?
		WHERE user_id = ? AND course_id = ?
	`
	result, err := r.db.ExecContext(ctx, query, certificateIssued, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to mark enrollment completed: %w", err)
	}

	return requireAffected(result, models.ErrEnrollmentNotFound)
}

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new course progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// Get retrieves progress of a user in a course
func (r *progressRepository) Get(ctx context.Context, userID, courseID string) (*models.CourseProgress, error) {
	query := `
		SELECT user_id, course_id, completed_videos, completed_quizzes, overall_progress, last_accessed
		FROM course_progress
		WHERE user_id = ? AND course_id = ?
		LIMIT 1
	`

	var p models.CourseProgress
	var videosRaw, quizzesRaw []byte
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(
		&p.UserID,
		&p.CourseID,
		&videosRaw,
		&quizzesRaw,
		&p.OverallProgress,
		&p.LastAccessed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if p.CompletedVideos, err = decodeIDSet(videosRaw); err != nil {
		return nil, fmt.Errorf("failed to decode completed videos: %w", err)
	}
	if p.CompletedQuizzes, err = decodeIDSet(quizzesRaw); err != nil {
		return nil, fmt.Errorf("failed to decode completed quizzes: %w", err)
	}

	return &p, nil
}

// Upsert creates or overwrites progress of a user in a course
func (r *progressRepository) Upsert(ctx context.Context, p *models.CourseProgress) error {
	return upsertProgress(ctx, r.db, p)
}

func upsertProgress(ctx context.Context, db execer, p *models.CourseProgress) error {
	videos, err := encodeIDSet(p.CompletedVideos)
	if err != nil {
		return fmt.Errorf("failed to encode completed videos: %w", err)
	}
	quizzes, err := encodeIDSet(p.CompletedQuizzes)
	if err != nil {
		return fmt.Errorf("failed to encode completed quizzes: %w", err)
	}

	query := `
		INSERT INTO course_progress (user_id, course_id, completed_videos, completed_quizzes, overall_progress, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			completed_videos = VALUES(completed_videos),
			completed_quizzes = VALUES(completed_quizzes),
			overall_progress = VALUES(overall_progress),
			last_accessed = VALUES(last_accessed)
	`
	_, err = db.ExecContext(ctx, query, p.UserID, p.CourseID, videos, quizzes, p.OverallProgress, p.LastAccessed)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

func encodeIDSet(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

func decodeIDSet(raw []byte) ([]string, error) {
	ids := []string{}
	if len(raw) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/google/uuid"
)

type quizAttemptRepository struct {
	db *sql.DB
}

// NewQuizAttemptRepository creates a new quiz attempt repository
func NewQuizAttemptRepository(db *sql.DB) *quizAttemptRepository {
	return &quizAttemptRepository{
		db: db,
	}
}

// Create stores a quiz attempt
func (r *quizAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.SubmittedAt.IsZero() {
		attempt.SubmittedAt = time.Now().UTC()
	}

	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (id, user_id, quiz_id, course_id, answers, score, passed, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.QuizID,
		attempt.CourseID,
		answers,
		attempt.Score,
		attempt.Passed,
		attempt.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}

	return nil
}

// ListByUser retrieves attempts of a user, optionally limited to one quiz, newest first
func (r *quizAttemptRepository) ListByUser(ctx context.Context, userID string, quizID string) ([]models.QuizAttempt, error) {
	query := `
		SELECT id, user_id, quiz_id, course_id, answers, score, passed, submitted_at
		FROM quiz_attempts
		WHERE user_id = ?`
	args := []any{userID}
	if quizID != "" {
		query += ` AND quiz_id = ?`
		args = append(args, quizID)
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.QuizAttempt{}
	for rows.Next() {
		var a models.QuizAttempt
		var answers []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.CourseID, &answers, &a.Score, &a.Passed, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers: %w", err)
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return attempts, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/google/uuid"
)

type quizRepository struct {
	db *sql.DB
}

// NewQuizRepository creates a new quiz repository
func NewQuizRepository(db *sql.DB) *quizRepository {
	return &quizRepository{
		db: db,
	}
}

// GetByID retrieves a quiz by its ID
func (r *quizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	query := `
		SELECT id, course_id, title, description, questions, created_at
		FROM quizzes
		WHERE id = ?
		LIMIT 1
	`

	var quiz models.Quiz
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&quiz.ID,
		&quiz.CourseID,
		&quiz.Title,
		&quiz.Description,
		&quiz.Questions,
		&quiz.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}

	return &quiz, nil
}

// GetByCourseID retrieves all quizzes of a course
func (r *quizRepository) GetByCourseID(ctx context.Context, courseID string) ([]models.Quiz, error) {
	query := `
		SELECT id, course_id, title, description, questions, created_at
		FROM quizzes
		WHERE course_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		var quiz models.Quiz
		err := rows.Scan(
			&quiz.ID,
			&quiz.CourseID,
			&quiz.Title,
			&quiz.Description,
			&quiz.Questions,
			&quiz.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return quizzes, nil
}

// ExistsForCourse checks if a course has at least one quiz
func (r *quizRepository) ExistsForCourse(ctx context.Context, courseID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM quizzes WHERE course_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check quiz existence: %w", err)
	}

	return exists, nil
}

// Create creates a new quiz
func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	quiz.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO quizzes (id, course_id, title, description, questions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		quiz.ID,
		quiz.CourseID,
		quiz.Title,
		quiz.Description,
		quiz.Questions,
		quiz.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	return nil
}

// Update replaces title, description and questions of a quiz
func (r *quizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	query := `
		UPDATE quizzes
		SET course_id = ?, title = ?, description = ?, questions = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		quiz.CourseID,
		quiz.Title,
		quiz.Description,
		quiz.Questions,
		quiz.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}

	return requireAffected(result, models.ErrQuizNotFound)
}

// Delete deletes a quiz
func (r *quizRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	return requireAffected(result, models.ErrQuizNotFound)
}

// requireAffected returns notFound when the statement changed no rows
func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

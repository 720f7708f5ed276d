package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/google/uuid"
)

type noteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *sql.DB) *noteRepository {
	return &noteRepository{
		db: db,
	}
}

// GetByCourseID retrieves the notes of a course ordered by position
func (r *noteRepository) GetByCourseID(ctx context.Context, courseID string) ([]models.Note, error) {
	query := `
		SELECT id, course_id, title, description, file_url, file_type, sort_order, created_at
		FROM notes
		WHERE course_id = ?
		ORDER BY sort_order, created_at
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		err := rows.Scan(
			&note.ID,
			&note.CourseID,
			&note.Title,
			&note.Description,
			&note.FileURL,
			&note.FileType,
			&note.Order,
			&note.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// Create creates a new note
func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	if err := insertNote(ctx, r.db, note, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// ReplaceForCourse atomically replaces all notes of a course with the given list
func (r *noteRepository) ReplaceForCourse(ctx context.Context, courseID string, notes []models.Note) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE course_id = ?`, courseID); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}

	now := time.Now().UTC()
	for i := range notes {
		notes[i].CourseID = courseID
		notes[i].Order = i + 1
		if err := insertNote(ctx, tx, &notes[i], now); err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertNote(ctx context.Context, db execer, note *models.Note, now time.Time) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.Order < 1 {
		note.Order = 1
	}
	note.CreatedAt = now

	query := `
		INSERT INTO notes (id, course_id, title, description, file_url, file_type, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		note.ID,
		note.CourseID,
		note.Title,
		note.Description,
		note.FileURL,
		note.FileType,
		note.Order,
		note.CreatedAt,
	)
	return err
}

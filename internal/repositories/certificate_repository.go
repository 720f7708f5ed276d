package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/google/uuid"
)

type certificateRepository struct {
	db *sql.DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *sql.DB) *certificateRepository {
	return &certificateRepository{
		db: db,
	}
}

// Get retrieves the certificate of a user for a course
func (r *certificateRepository) Get(ctx context.Context, userID, courseID string) (*models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, issue_date, certificate_data
		FROM certificates
		WHERE user_id = ? AND course_id = ?
		LIMIT 1
	`
	return r.getOne(ctx, query, userID, courseID)
}

// GetByID retrieves a certificate by its ID
func (r *certificateRepository) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, issue_date, certificate_data
		FROM certificates
		WHERE id = ?
		LIMIT 1
	`
	return r.getOne(ctx, query, id)
}

func (r *certificateRepository) getOne(ctx context.Context, query string, args ...any) (*models.Certificate, error) {
	var c models.Certificate
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.UserID, &c.CourseID, &c.IssueDate, &c.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCertificateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	return &c, nil
}

// Create stores a certificate. It returns false when the user already holds one for the course.
func (r *certificateRepository) Create(ctx context.Context, c *models.Certificate) (bool, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query := `
		INSERT IGNORE INTO certificates (id, user_id, course_id, issue_date, certificate_data)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.CourseID, c.IssueDate, c.Data)
	if err != nil {
		return false, fmt.Errorf("failed to create certificate: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// ListByUser retrieves all certificates of a user, newest first
func (r *certificateRepository) ListByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, issue_date, certificate_data
		FROM certificates
		WHERE user_id = ?
		ORDER BY issue_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	certificates := []models.Certificate{}
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(&c.ID, &c.UserID, &c.CourseID, &c.IssueDate, &c.Data); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certificates = append(certificates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return certificates, nil
}

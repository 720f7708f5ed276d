package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const profileColumns = `id, name, email, password_hash, role, avatar, email_confirmed, confirmation_token, created_at`

// profileRepository implements user profile persistence
type profileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) *profileRepository {
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var token sql.NullString
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.PasswordHash,
		&p.Role,
		&p.Avatar,
		&p.EmailConfirmed,
		&token,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ConfirmationToken = token.String
	return &p, nil
}

// Create inserts a new profile into the database
func (r *profileRepository) Create(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Role == "" {
		p.Role = models.RoleStudent
	}
	p.Email = strings.ToLower(p.Email)
	p.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO profiles (id, name, email, password_hash, role, avatar, email_confirmed, confirmation_token, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Email,
		p.PasswordHash,
		p.Role,
		p.Avatar,
		p.EmailConfirmed,
		nullString(p.ConfirmationToken),
		p.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create profile", zap.Error(err))
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by ID
func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ? LIMIT 1`, id)
}

// GetByEmail retrieves a profile by email (case-insensitive)
func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = ? LIMIT 1`, strings.ToLower(email))
}

func (r *profileRepository) getOne(ctx context.Context, query string, args ...any) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get profile", zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// ExistsByEmail checks if a profile with the given email exists
func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// Update applies a partial update of name and avatar
func (r *profileRepository) Update(ctx context.Context, id string, req *models.UpdateProfileRequest) error {
	var setParts []string
	var args []any

	if req.Name != nil {
		setParts = append(setParts, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Avatar != nil {
		setParts = append(setParts, "avatar = ?")
		args = append(args, *req.Avatar)
	}
	if len(setParts) == 0 {
		return fmt.Errorf("%w: no fields to update", models.ErrInvalidInput)
	}

	query := fmt.Sprintf("UPDATE profiles SET %s WHERE id = ?", strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return requireAffected(result, models.ErrUserNotFound)
}

// SetConfirmationToken stores a new email confirmation token
func (r *profileRepository) SetConfirmationToken(ctx context.Context, id, token string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET confirmation_token = ? WHERE id = ?`, token, id)
	if err != nil {
		return fmt.Errorf("failed to set confirmation token: %w", err)
	}

	return requireAffected(result, models.ErrUserNotFound)
}

// ConfirmEmail marks the profile owning the token as confirmed and clears the token
func (r *profileRepository) ConfirmEmail(ctx context.Context, token string) error {
	query := `
		UPDATE profiles
		SET email_confirmed = TRUE, confirmation_token = NULL
		WHERE confirmation_token = ?
	`
	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}

	return requireAffected(result, models.ErrTokenNotFound)
}

// List retrieves profiles with optional search over name and email
func (r *profileRepository) List(ctx context.Context, search string, page, count int) ([]models.Profile, error) {
	page, count = normalizePage(page, count)

	query := `SELECT ` + profileColumns + ` FROM profiles`
	var args []any
	if search != "" {
		query += ` WHERE name LIKE ? OR email LIKE ?`
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, count, (page-1)*count)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return profiles, nil
}

// UpdateRole changes the role of a user
func (r *profileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	return requireAffected(result, models.ErrUserNotFound)
}

// Delete deletes a user together with their learning records in one transaction
func (r *profileRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"quiz_attempts", "course_progress", "course_enrollments", "certificates", "user_tokens"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete %s of user: %w", table, err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if err := requireAffected(result, models.ErrUserNotFound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

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

const videoColumns = `id, course_id, title, description, url, duration, thumbnail, sort_order,
	analyzed_content, download_info, created_at, updated_at`

type videoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *sql.DB) *videoRepository {
	return &videoRepository{
		db: db,
	}
}

func scanVideo(row rowScanner) (*models.Video, error) {
	var video models.Video
	err := row.Scan(
		&video.ID,
		&video.CourseID,
		&video.Title,
		&video.Description,
		&video.URL,
		&video.Duration,
		&video.Thumbnail,
		&video.Order,
		&video.AnalyzedContent,
		&video.DownloadInfo,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByID retrieves a video by its ID
func (r *videoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = ? LIMIT 1`

	video, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video by id: %w", err)
	}

	return video, nil
}

// GetByCourseID retrieves the videos of a course ordered by position
func (r *videoRepository) GetByCourseID(ctx context.Context, courseID string) ([]models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE course_id = ? ORDER BY sort_order, created_at`
	return r.queryVideos(ctx, query, courseID)
}

// ListUnenriched returns up to limit videos that have no playable URL or no analyzed content.
// Videos of courses without a title or category cannot be enriched and are left out.
func (r *videoRepository) ListUnenriched(ctx context.Context, limit int) ([]models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE (analyzed_content IS NULL OR url = '')
			AND course_id IN (SELECT id FROM courses WHERE TRIM(title) <> '' AND TRIM(category) <> '')
		ORDER BY created_at
		LIMIT ?
	`
	return r.queryVideos(ctx, query, limit)
}

func (r *videoRepository) queryVideos(ctx context.Context, query string, args ...any) ([]models.Video, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return videos, nil
}

// Create creates a new video
func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := insertVideo(ctx, r.db, video, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// UpdateEnrichment writes all enriched fields of a video in a single statement
func (r *videoRepository) UpdateEnrichment(ctx context.Context, id string, e *models.VideoEnrichment) error {
	query := `
		UPDATE videos
		SET url = ?, thumbnail = ?, description = ?, analyzed_content = ?, download_info = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		e.URL,
		e.Thumbnail,
		e.Description,
		e.AnalyzedContent,
		e.DownloadInfo,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update video enrichment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return models.ErrVideoNotFound
	}

	return nil
}

// ReplaceForCourse atomically replaces all videos of a course with the given list.
// Videos are renumbered 1..n in the given order.
func (r *videoRepository) ReplaceForCourse(ctx context.Context, courseID string, videos []models.Video) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM videos WHERE course_id = ?`, courseID); err != nil {
		return fmt.Errorf("failed to delete videos: %w", err)
	}

	now := time.Now().UTC()
	for i := range videos {
		videos[i].CourseID = courseID
		videos[i].Order = i + 1
		if err := insertVideo(ctx, tx, &videos[i], now); err != nil {
			return fmt.Errorf("failed to insert video: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertVideo(ctx context.Context, db execer, video *models.Video, now time.Time) error {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	if video.Order < 1 {
		video.Order = 1
	}
	video.CreatedAt = now
	video.UpdatedAt = now

	query := `
		INSERT INTO videos (id, course_id, title, description, url, duration, thumbnail, sort_order,
			analyzed_content, download_info, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		video.ID,
		video.CourseID,
		video.Title,
		video.Description,
		video.URL,
		video.Duration,
		video.Thumbnail,
		video.Order,
		video.AnalyzedContent,
		video.DownloadInfo,
		video.CreatedAt,
		video.UpdatedAt,
	)
	return err
}

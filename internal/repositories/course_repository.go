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
)

const courseColumns = `id, title, description, category, thumbnail, instructor, duration, level,
	enrolled_count, rating, featured, created_at, updated_at`

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.Thumbnail,
		&course.Instructor,
		&course.Duration,
		&course.Level,
		&course.EnrolledCount,
		&course.Rating,
		&course.Featured,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ? LIMIT 1`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return course, nil
}

// List retrieves courses with filtering and pagination
func (r *courseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	var whereClauses []string
	var args []any

	if filter.Category != "" {
		whereClauses = append(whereClauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Level != nil {
		whereClauses = append(whereClauses, "level = ?")
		args = append(args, *filter.Level)
	}
	if filter.Featured != nil {
		whereClauses = append(whereClauses, "featured = ?")
		args = append(args, *filter.Featured)
	}
	if filter.Search != "" {
		whereClauses = append(whereClauses, "(title LIKE ? OR description LIKE ?)")
		args = append(args, "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	page, count := normalizePage(filter.Page, filter.Count)
	query := fmt.Sprintf(`
		SELECT %s
		FROM courses
		%s
		ORDER BY featured DESC, created_at DESC, id
		LIMIT ? OFFSET ?
	`, courseColumns, whereClause)
	args = append(args, count, (page-1)*count)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, *course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// ListTitles returns the titles of all courses
func (r *courseRepository) ListTitles(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT title FROM courses`)
	if err != nil {
		return nil, fmt.Errorf("failed to query course titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan course title: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return titles, nil
}

// Create creates a new course, assigning an ID when the course has none
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	prepareCourse(course, time.Now().UTC())
	if _, err := insertCourse(ctx, r.db, course); err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// CreateWithContent inserts a course together with its videos and notes in one transaction
func (r *courseRepository) CreateWithContent(ctx context.Context, course *models.Course, videos []models.Video, notes []models.Note) error {
	now := time.Now().UTC()
	prepareCourse(course, now)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := insertCourse(ctx, tx, course); err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	for i := range videos {
		videos[i].CourseID = course.ID
		if err := insertVideo(ctx, tx, &videos[i], now); err != nil {
			return fmt.Errorf("failed to create video: %w", err)
		}
	}
	for i := range notes {
		notes[i].CourseID = course.ID
		if err := insertNote(ctx, tx, &notes[i], now); err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update updates a course (partial update)
func (r *courseRepository) Update(ctx context.Context, id string, req *models.UpdateCourseRequest) error {
	var setParts []string
	var args []any

	if req.Title != nil {
		setParts = append(setParts, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *req.Description)
	}
	if req.Category != nil {
		setParts = append(setParts, "category = ?")
		args = append(args, *req.Category)
	}
	if req.Thumbnail != nil {
		setParts = append(setParts, "thumbnail = ?")
		args = append(args, *req.Thumbnail)
	}
	if req.Instructor != nil {
		setParts = append(setParts, "instructor = ?")
		args = append(args, *req.Instructor)
	}
	if req.Duration != nil {
		setParts = append(setParts, "duration = ?")
		args = append(args, *req.Duration)
	}
	if req.Level != nil {
		setParts = append(setParts, "level = ?")
		args = append(args, *req.Level)
	}
	if req.Rating != nil {
		setParts = append(setParts, "rating = ?")
		args = append(args, *req.Rating)
	}
	if req.Featured != nil {
		setParts = append(setParts, "featured = ?")
		args = append(args, *req.Featured)
	}

	if len(setParts) == 0 {
		return fmt.Errorf("%w: no fields to update", models.ErrInvalidInput)
	}

	query := fmt.Sprintf("UPDATE courses SET %s WHERE id = ?", strings.Join(setParts, ", "))
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	return nil
}

// DeleteCascade deletes a course and its videos, notes and quizzes in one transaction
func (r *courseRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"videos", "notes", "quizzes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE course_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete %s of course: %w", table, err)
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return models.ErrCourseNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteAll removes every course with its catalog content, enrollments and progress
func (r *courseRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"quiz_attempts", "course_progress", "course_enrollments", "quizzes", "notes", "videos", "courses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func prepareCourse(course *models.Course, now time.Time) {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.Level == "" {
		course.Level = models.LevelBeginner
	}
	course.CreatedAt = now
	course.UpdatedAt = now
}

func insertCourse(ctx context.Context, db execer, course *models.Course) (sql.Result, error) {
	query := `
		INSERT INTO courses (id, title, description, category, thumbnail, instructor, duration, level,
			enrolled_count, rating, featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return db.ExecContext(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Category,
		course.Thumbnail,
		course.Instructor,
		course.Duration,
		course.Level,
		course.EnrolledCount,
		course.Rating,
		course.Featured,
		course.CreatedAt,
		course.UpdatedAt,
	)
}

// normalizePage applies default pagination values
func normalizePage(page, count int) (int, int) {
	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 20
	}
	if count > 100 {
		count = 100
	}
	return page, count
}

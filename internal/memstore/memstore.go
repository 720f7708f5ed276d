// Package memstore is an in-memory catalog store for courses, videos, notes and quizzes.
//
// A Store is an explicit instance: callers construct it with New and pass it where a catalog
// repository is needed. Reset clears all tables.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/google/uuid"
)

// Store holds all catalog tables behind one lock
type Store struct {
	mu      sync.RWMutex
	courses map[string]models.Course
	videos  map[string]models.Video
	notes   map[string]models.Note
	quizzes map[string]models.Quiz
	now     func() time.Time
}

// New creates an empty store
func New() *Store {
	s := &Store{now: func() time.Time { return time.Now().UTC() }}
	s.Reset()
	return s
}

// Reset removes every record
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses = map[string]models.Course{}
	s.videos = map[string]models.Video{}
	s.notes = map[string]models.Note{}
	s.quizzes = map[string]models.Quiz{}
}

// Courses returns the course table view
func (s *Store) Courses() *Courses { return &Courses{s: s} }

// Videos returns the video table view
func (s *Store) Videos() *Videos { return &Videos{s: s} }

// Notes returns the note table view
func (s *Store) Notes() *Notes { return &Notes{s: s} }

// Quizzes returns the quiz table view
func (s *Store) Quizzes() *Quizzes { return &Quizzes{s: s} }

// Courses is the course table of a Store
type Courses struct{ s *Store }

// GetByID retrieves a course by ID
func (c *Courses) GetByID(_ context.Context, id string) (*models.Course, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	course, ok := c.s.courses[id]
	if !ok {
		return nil, models.ErrCourseNotFound
	}
	return &course, nil
}

// List retrieves courses matching the filter, featured and newest first
func (c *Courses) List(_ context.Context, filter models.CourseFilter) ([]models.Course, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := []models.Course{}
	for _, course := range c.s.courses {
		if filter.Category != "" && course.Category != filter.Category {
			continue
		}
		if filter.Level != nil && course.Level != *filter.Level {
			continue
		}
		if filter.Featured != nil && course.Featured != *filter.Featured {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(course.Title), search) &&
			!strings.Contains(strings.ToLower(course.Description), search) {
			continue
		}
		matched = append(matched, course)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Featured != matched[j].Featured {
			return matched[i].Featured
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	page, count := filter.Page, filter.Count
	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 20
	}
	start := (page - 1) * count
	if start >= len(matched) {
		return []models.Course{}, nil
	}
	end := min(start+count, len(matched))
	return matched[start:end], nil
}

// ListTitles returns the titles of all courses
func (c *Courses) ListTitles(_ context.Context) ([]string, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	titles := make([]string, 0, len(c.s.courses))
	for _, course := range c.s.courses {
		titles = append(titles, course.Title)
	}
	sort.Strings(titles)
	return titles, nil
}

// Create stores a new course
func (c *Courses) Create(_ context.Context, course *models.Course) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	c.s.insertCourse(course)
	return nil
}

// CreateWithContent stores a course with its videos and notes atomically
func (c *Courses) CreateWithContent(_ context.Context, course *models.Course, videos []models.Video, notes []models.Note) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	c.s.insertCourse(course)
	for i := range videos {
		videos[i].CourseID = course.ID
		c.s.insertVideo(&videos[i])
	}
	for i := range notes {
		notes[i].CourseID = course.ID
		c.s.insertNote(&notes[i])
	}
	return nil
}

// Update applies a partial update to a course
func (c *Courses) Update(_ context.Context, id string, req *models.UpdateCourseRequest) error {
	if req.Empty() {
		return models.ErrInvalidInput
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	course, ok := c.s.courses[id]
	if !ok {
		return models.ErrCourseNotFound
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Thumbnail != nil {
		course.Thumbnail = *req.Thumbnail
	}
	if req.Instructor != nil {
		course.Instructor = *req.Instructor
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Rating != nil {
		course.Rating = *req.Rating
	}
	if req.Featured != nil {
		course.Featured = *req.Featured
	}
	course.UpdatedAt = c.s.now()
	c.s.courses[id] = course
	return nil
}

// DeleteCascade removes a course with its videos, notes and quizzes
func (c *Courses) DeleteCascade(_ context.Context, id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if _, ok := c.s.courses[id]; !ok {
		return models.ErrCourseNotFound
	}
	c.s.deleteCourseContent(id)
	delete(c.s.courses, id)
	return nil
}

// DeleteAll removes every course and its content
func (c *Courses) DeleteAll(_ context.Context) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	c.s.courses = map[string]models.Course{}
	c.s.videos = map[string]models.Video{}
	c.s.notes = map[string]models.Note{}
	c.s.quizzes = map[string]models.Quiz{}
	return nil
}

// Videos is the video table of a Store
type Videos struct{ s *Store }

// GetByID retrieves a video by ID
func (v *Videos) GetByID(_ context.Context, id string) (*models.Video, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	video, ok := v.s.videos[id]
	if !ok {
		return nil, models.ErrVideoNotFound
	}
	return &video, nil
}

// GetByCourseID retrieves the videos of a course ordered by position
func (v *Videos) GetByCourseID(_ context.Context, courseID string) ([]models.Video, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	videos := []models.Video{}
	for _, video := range v.s.videos {
		if video.CourseID == courseID {
			videos = append(videos, video)
		}
	}
	sort.Slice(videos, func(i, j int) bool {
		if videos[i].Order != videos[j].Order {
			return videos[i].Order < videos[j].Order
		}
		return videos[i].CreatedAt.Before(videos[j].CreatedAt)
	})
	return videos, nil
}

// ListUnenriched returns up to limit videos without URL or analyzed content.
// Videos of courses lacking a title or category are skipped.
func (v *Videos) ListUnenriched(_ context.Context, limit int) ([]models.Video, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	videos := []models.Video{}
	for _, video := range v.s.videos {
		if video.AnalyzedContent != nil && video.URL != "" {
			continue
		}
		course, ok := v.s.courses[video.CourseID]
		if !ok || strings.TrimSpace(course.Title) == "" || strings.TrimSpace(course.Category) == "" {
			continue
		}
		videos = append(videos, video)
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].CreatedAt.Before(videos[j].CreatedAt) })
	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

// Create stores a new video
func (v *Videos) Create(_ context.Context, video *models.Video) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	v.s.insertVideo(video)
	return nil
}

// UpdateEnrichment overwrites all enriched fields of a video
func (v *Videos) UpdateEnrichment(_ context.Context, id string, e *models.VideoEnrichment) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	video, ok := v.s.videos[id]
	if !ok {
		return models.ErrVideoNotFound
	}
	content := e.AnalyzedContent
	info := e.DownloadInfo
	video.URL = e.URL
	video.Thumbnail = e.Thumbnail
	video.Description = e.Description
	video.AnalyzedContent = &content
	video.DownloadInfo = &info
	video.UpdatedAt = v.s.now()
	v.s.videos[id] = video
	return nil
}

// ReplaceForCourse atomically replaces the videos of a course, renumbering them 1..n
func (v *Videos) ReplaceForCourse(_ context.Context, courseID string, videos []models.Video) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for id, video := range v.s.videos {
		if video.CourseID == courseID {
			delete(v.s.videos, id)
		}
	}
	for i := range videos {
		videos[i].CourseID = courseID
		videos[i].Order = i + 1
		v.s.insertVideo(&videos[i])
	}
	return nil
}

// Notes is the note table of a Store
type Notes struct{ s *Store }

// GetByCourseID retrieves the notes of a course ordered by position
func (n *Notes) GetByCourseID(_ context.Context, courseID string) ([]models.Note, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()

	notes := []models.Note{}
	for _, note := range n.s.notes {
		if note.CourseID == courseID {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Order < notes[j].Order })
	return notes, nil
}

// Create stores a new note
func (n *Notes) Create(_ context.Context, note *models.Note) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	n.s.insertNote(note)
	return nil
}

// ReplaceForCourse atomically replaces the notes of a course
func (n *Notes) ReplaceForCourse(_ context.Context, courseID string, notes []models.Note) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	for id, note := range n.s.notes {
		if note.CourseID == courseID {
			delete(n.s.notes, id)
		}
	}
	for i := range notes {
		notes[i].CourseID = courseID
		notes[i].Order = i + 1
		n.s.insertNote(&notes[i])
	}
	return nil
}

// Quizzes is the quiz table of a Store
type Quizzes struct{ s *Store }

// GetByID retrieves a quiz by ID
func (q *Quizzes) GetByID(_ context.Context, id string) (*models.Quiz, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()

	quiz, ok := q.s.quizzes[id]
	if !ok {
		return nil, models.ErrQuizNotFound
	}
	return &quiz, nil
}

// GetByCourseID retrieves the quizzes of a course, oldest first
func (q *Quizzes) GetByCourseID(_ context.Context, courseID string) ([]models.Quiz, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()

	quizzes := []models.Quiz{}
	for _, quiz := range q.s.quizzes {
		if quiz.CourseID == courseID {
			quizzes = append(quizzes, quiz)
		}
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].CreatedAt.Before(quizzes[j].CreatedAt) })
	return quizzes, nil
}

// ExistsForCourse reports whether a course has a quiz
func (q *Quizzes) ExistsForCourse(_ context.Context, courseID string) (bool, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()

	for _, quiz := range q.s.quizzes {
		if quiz.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

// Create stores a new quiz
func (q *Quizzes) Create(_ context.Context, quiz *models.Quiz) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	quiz.CreatedAt = q.s.now()
	q.s.quizzes[quiz.ID] = cloneQuiz(*quiz)
	return nil
}

// Update replaces a quiz
func (q *Quizzes) Update(_ context.Context, quiz *models.Quiz) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	existing, ok := q.s.quizzes[quiz.ID]
	if !ok {
		return models.ErrQuizNotFound
	}
	updated := cloneQuiz(*quiz)
	updated.CreatedAt = existing.CreatedAt
	q.s.quizzes[quiz.ID] = updated
	return nil
}

// Delete removes a quiz
func (q *Quizzes) Delete(_ context.Context, id string) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	if _, ok := q.s.quizzes[id]; !ok {
		return models.ErrQuizNotFound
	}
	delete(q.s.quizzes, id)
	return nil
}

// insertCourse, insertVideo and insertNote require the write lock

func (s *Store) insertCourse(course *models.Course) {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.Level == "" {
		course.Level = models.LevelBeginner
	}
	now := s.now()
	course.CreatedAt = now
	course.UpdatedAt = now
	s.courses[course.ID] = *course
}

func (s *Store) insertVideo(video *models.Video) {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	if video.Order < 1 {
		video.Order = 1
	}
	now := s.now()
	video.CreatedAt = now
	video.UpdatedAt = now
	s.videos[video.ID] = *video
}

func (s *Store) insertNote(note *models.Note) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.Order < 1 {
		note.Order = 1
	}
	note.CreatedAt = s.now()
	s.notes[note.ID] = *note
}

func (s *Store) deleteCourseContent(courseID string) {
	for id, video := range s.videos {
		if video.CourseID == courseID {
			delete(s.videos, id)
		}
	}
	for id, note := range s.notes {
		if note.CourseID == courseID {
			delete(s.notes, id)
		}
	}
	for id, quiz := range s.quizzes {
		if quiz.CourseID == courseID {
			delete(s.quizzes, id)
		}
	}
}

func cloneQuiz(q models.Quiz) models.Quiz {
	q.Questions = append(models.Questions(nil), q.Questions...)
	return q
}

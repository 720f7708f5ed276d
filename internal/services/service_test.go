package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
)

var errDB = errors.New("database is unavailable")

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct {
	courses   map[string]*models.Course
	listed    []models.Course
	gotFilter models.CourseFilter
	err       error
	updateErr error
	deleted   []string
}

func newMockCourseRepository(courses ...*models.Course) *mockCourseRepository {
	m := &mockCourseRepository{courses: map[string]*models.Course{}}
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.courses[id]
	if !ok {
		return nil, models.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	m.gotFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.listed, nil
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.err != nil {
		return m.err
	}
	course.ID = "course-new"
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepository) Update(ctx context.Context, id string, req *models.UpdateCourseRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	c, ok := m.courses[id]
	if !ok {
		return models.ErrCourseNotFound
	}
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Featured != nil {
		c.Featured = *req.Featured
	}
	return nil
}

func (m *mockCourseRepository) DeleteCascade(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.courses[id]; !ok {
		return models.ErrCourseNotFound
	}
	delete(m.courses, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// mockVideoRepository is a mock implementation of VideoRepository
type mockVideoRepository struct {
	videos   []models.Video
	err      error
	replaced []models.Video
}

func (m *mockVideoRepository) GetByCourseID(ctx context.Context, courseID string) ([]models.Video, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.videos, nil
}

func (m *mockVideoRepository) ReplaceForCourse(ctx context.Context, courseID string, videos []models.Video) error {
	if m.err != nil {
		return m.err
	}
	for i := range videos {
		videos[i].ID = "video-" + string(rune('a'+i))
		videos[i].Order = i + 1
	}
	m.replaced = videos
	return nil
}

// mockNoteRepository is a mock implementation of NoteRepository
type mockNoteRepository struct {
	notes    []models.Note
	err      error
	replaced []models.Note
}

func (m *mockNoteRepository) GetByCourseID(ctx context.Context, courseID string) ([]models.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.notes, nil
}

func (m *mockNoteRepository) ReplaceForCourse(ctx context.Context, courseID string, notes []models.Note) error {
	if m.err != nil {
		return m.err
	}
	m.replaced = notes
	return nil
}

// mockQuizRepository is a mock implementation of QuizRepository
type mockQuizRepository struct {
	quizzes map[string]*models.Quiz
	err     error
	created []*models.Quiz
	updated []*models.Quiz
}

func newMockQuizRepository(quizzes ...*models.Quiz) *mockQuizRepository {
	m := &mockQuizRepository{quizzes: map[string]*models.Quiz{}}
	for _, q := range quizzes {
		m.quizzes[q.ID] = q
	}
	return m
}

func (m *mockQuizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	if m.err != nil {
		return nil, m.err
	}
	q, ok := m.quizzes[id]
	if !ok {
		return nil, models.ErrQuizNotFound
	}
	return q, nil
}

func (m *mockQuizRepository) GetByCourseID(ctx context.Context, courseID string) ([]models.Quiz, error) {
	if m.err != nil {
		return nil, m.err
	}
	quizzes := []models.Quiz{}
	for _, q := range m.quizzes {
		if q.CourseID == courseID {
			quizzes = append(quizzes, *q)
		}
	}
	return quizzes, nil
}

func (m *mockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if m.err != nil {
		return m.err
	}
	quiz.ID = "quiz-new"
	m.quizzes[quiz.ID] = quiz
	m.created = append(m.created, quiz)
	return nil
}

func (m *mockQuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	if m.err != nil {
		return m.err
	}
	m.quizzes[quiz.ID] = quiz
	m.updated = append(m.updated, quiz)
	return nil
}

func (m *mockQuizRepository) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.quizzes[id]; !ok {
		return models.ErrQuizNotFound
	}
	delete(m.quizzes, id)
	return nil
}

// mockEnrollmentRepository is a mock implementation of EnrollmentRepository
type mockEnrollmentRepository struct {
	mu             sync.Mutex
	enrollments    map[string]*models.Enrollment
	err            error
	enrollCalls    int
	progress       []*models.CourseProgress
	completedCalls int
	certIssued     bool
	markErr        error
}

func newMockEnrollmentRepository(enrollments ...*models.Enrollment) *mockEnrollmentRepository {
	m := &mockEnrollmentRepository{enrollments: map[string]*models.Enrollment{}}
	for _, e := range enrollments {
		m.enrollments[e.UserID+"/"+e.CourseID] = e
	}
	return m
}

func (m *mockEnrollmentRepository) Get(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.enrollments[userID+"/"+courseID]
	if !ok {
		return nil, models.ErrEnrollmentNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	list := []models.Enrollment{}
	for _, e := range m.enrollments {
		if e.UserID == userID {
			list = append(list, *e)
		}
	}
	return list, nil
}

func (m *mockEnrollmentRepository) EnrollWithProgress(ctx context.Context, e *models.Enrollment, p *models.CourseProgress) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollCalls++
	if m.err != nil {
		return false, m.err
	}
	key := e.UserID + "/" + e.CourseID
	if _, ok := m.enrollments[key]; ok {
		return false, nil
	}
	m.enrollments[key] = e
	m.progress = append(m.progress, p)
	return true, nil
}

func (m *mockEnrollmentRepository) MarkCompleted(ctx context.Context, userID, courseID string, certificateIssued bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completedCalls++
	m.certIssued = certificateIssued
	if m.markErr != nil {
		return m.markErr
	}
	if e, ok := m.enrollments[userID+"/"+courseID]; ok {
		e.IsCompleted = true
		e.CertificateIssued = certificateIssued
	}
	return nil
}

// mockProgressRepository is a mock implementation of ProgressRepository
type mockProgressRepository struct {
	mu       sync.Mutex
	progress map[string]*models.CourseProgress
	err      error
	upserts  int
}

func newMockProgressRepository() *mockProgressRepository {
	return &mockProgressRepository{progress: map[string]*models.CourseProgress{}}
}

func (m *mockProgressRepository) Get(ctx context.Context, userID, courseID string) (*models.CourseProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.progress[userID+"/"+courseID]
	if !ok {
		return nil, models.ErrProgressNotFound
	}
	cp := *p
	cp.CompletedVideos = append([]string(nil), p.CompletedVideos...)
	cp.CompletedQuizzes = append([]string(nil), p.CompletedQuizzes...)
	return &cp, nil
}

func (m *mockProgressRepository) Upsert(ctx context.Context, p *models.CourseProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.upserts++
	cp := *p
	m.progress[p.UserID+"/"+p.CourseID] = &cp
	return nil
}

// mockProfileRepository is a mock implementation of the profile repository interfaces
type mockProfileRepository struct {
	profiles     map[string]*models.Profile
	err          error
	created      []*models.Profile
	roleUpdates  map[string]models.Role
	deleted      []string
	confirmToken string
}

func newMockProfileRepository(profiles ...*models.Profile) *mockProfileRepository {
	m := &mockProfileRepository{profiles: map[string]*models.Profile{}, roleUpdates: map[string]models.Role{}}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *mockProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	if m.err != nil {
		return m.err
	}
	p.ID = "user-new"
	m.profiles[p.ID] = p
	m.created = append(m.created, p)
	return nil
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return p, nil
}

func (m *mockProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *mockProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockProfileRepository) SetConfirmationToken(ctx context.Context, id, token string) error {
	p, ok := m.profiles[id]
	if !ok {
		return models.ErrUserNotFound
	}
	p.ConfirmationToken = token
	return nil
}

func (m *mockProfileRepository) ConfirmEmail(ctx context.Context, token string) error {
	m.confirmToken = token
	for _, p := range m.profiles {
		if p.ConfirmationToken == token {
			p.EmailConfirmed = true
			p.ConfirmationToken = ""
			return nil
		}
	}
	return models.ErrTokenNotFound
}

func (m *mockProfileRepository) Update(ctx context.Context, id string, req *models.UpdateProfileRequest) error {
	if m.err != nil {
		return m.err
	}
	p, ok := m.profiles[id]
	if !ok {
		return models.ErrUserNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Avatar != nil {
		p.Avatar = *req.Avatar
	}
	return nil
}

func (m *mockProfileRepository) List(ctx context.Context, search string, page, count int) ([]models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	list := []models.Profile{}
	for _, p := range m.profiles {
		list = append(list, *p)
	}
	return list, nil
}

func (m *mockProfileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.profiles[id]; !ok {
		return models.ErrUserNotFound
	}
	m.roleUpdates[id] = role
	return nil
}

func (m *mockProfileRepository) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.profiles[id]; !ok {
		return models.ErrUserNotFound
	}
	delete(m.profiles, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// mockEmailEnqueuer is a mock implementation of EmailEnqueuer
type mockEmailEnqueuer struct {
	err      error
	to       []string
	template []string
	vars     [][]string
}

func (m *mockEmailEnqueuer) EnqueueEmail(ctx context.Context, to, template string, vars ...string) error {
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, to)
	m.template = append(m.template, template)
	m.vars = append(m.vars, vars)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

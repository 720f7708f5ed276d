package models

import "time"

// Enrollment marks that a user has joined a course
type Enrollment struct {
	UserID            string    `json:"userId"`
	CourseID          string    `json:"courseId"`
	EnrollmentDate    time.Time `json:"enrollmentDate"`
	IsCompleted       bool      `json:"isCompleted"`
	CertificateIssued bool      `json:"certificateIssued"`
}

// CourseProgress tracks per-user completion of a course
type CourseProgress struct {
	UserID           string    `json:"userId"`
	CourseID         string    `json:"courseId"`
	CompletedVideos  []string  `json:"completedVideos"`
	CompletedQuizzes []string  `json:"completedQuizzes"`
	OverallProgress  int       `json:"overallProgress"`
	LastAccessed     time.Time `json:"lastAccessed"`
}

// NewCourseProgress returns an empty progress record
func NewCourseProgress(userID, courseID string, now time.Time) *CourseProgress {
	return &CourseProgress{
		UserID:           userID,
		CourseID:         courseID,
		CompletedVideos:  []string{},
		CompletedQuizzes: []string{},
		LastAccessed:     now,
	}
}

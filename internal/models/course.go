package models

import "time"

// Level represents the difficulty level of a course
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Valid reports whether the level is one of the known levels
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Course represents a course in the catalog
type Course struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Thumbnail     string    `json:"thumbnail"`
	Instructor    string    `json:"instructor"`
	Duration      string    `json:"duration"`
	Level         Level     `json:"level"`
	EnrolledCount int       `json:"enrolledCount"`
	Rating        float64   `json:"rating"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CourseFilter holds list filters and pagination for courses
type CourseFilter struct {
	Category string
	Level    *Level
	Featured *bool
	Search   string
	Page     int
	Count    int
}

// CourseWithContent is a course together with its videos, notes and quizzes
type CourseWithContent struct {
	Course
	Videos  []Video `json:"videos"`
	Notes   []Note  `json:"notes"`
	Quizzes []Quiz  `json:"quizzes"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required,max=100"`
	Thumbnail   string  `json:"thumbnail" validate:"omitempty,url"`
	Instructor  string  `json:"instructor" validate:"required,max=255"`
	Duration    string  `json:"duration" validate:"max=50"`
	Level       Level   `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
	Featured    bool    `json:"featured"`
}

// UpdateCourseRequest represents a request to update a course (partial update)
type UpdateCourseRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Instructor  *string  `json:"instructor,omitempty" validate:"omitempty,max=255"`
	Duration    *string  `json:"duration,omitempty" validate:"omitempty,max=50"`
	Level       *Level   `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Rating      *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Featured    *bool    `json:"featured,omitempty"`
}

// Empty reports whether the update carries no fields
func (r *UpdateCourseRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Category == nil && r.Thumbnail == nil &&
		r.Instructor == nil && r.Duration == nil && r.Level == nil && r.Rating == nil && r.Featured == nil
}

package models

import "time"

// FileType is the type of a downloadable note
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeDOC FileType = "doc"
	FileTypeTXT FileType = "txt"
)

// Valid reports whether the file type is supported
func (f FileType) Valid() bool {
	switch f {
	case FileTypePDF, FileTypeDOC, FileTypeTXT:
		return true
	}
	return false
}

// Note represents a downloadable document attached to a course
type Note struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"fileUrl"`
	FileType    FileType  `json:"fileType"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NoteInput is one entry of a course's note list replacement
type NoteInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	FileURL     string   `json:"fileUrl" validate:"required"`
	FileType    FileType `json:"fileType" validate:"required,oneof=pdf doc txt"`
}

// ReplaceNotesRequest replaces all notes of a course
type ReplaceNotesRequest struct {
	Notes []NoteInput `json:"notes" validate:"dive"`
}

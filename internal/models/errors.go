package models

import "errors"

// Sentinel errors shared by repositories, services and handlers
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrCourseNotFound      = errors.New("course not found")
	ErrVideoNotFound       = errors.New("video not found")
	ErrNoteNotFound        = errors.New("note not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrProgressNotFound    = errors.New("progress not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTokenNotFound       = errors.New("token not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailNotConfirmed   = errors.New("email not confirmed")
	ErrNotEnrolled         = errors.New("user is not enrolled in the course")
	ErrFileNotFound        = errors.New("file not found")
)

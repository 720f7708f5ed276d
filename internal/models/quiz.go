package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OptionsPerQuestion is the fixed number of answer options of a quiz question
const OptionsPerQuestion = 4

// PassingScore is the minimum percentage that completes a quiz
const PassingScore = 70

// QuizQuestion is a single multiple-choice question
type QuizQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Validate checks that the question has text, exactly four options and an answer index in range
func (q QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question text is empty", ErrInvalidInput)
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("%w: question must have %d options, got %d", ErrInvalidInput, OptionsPerQuestion, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option %d is empty", ErrInvalidInput, i)
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionsPerQuestion {
		return fmt.Errorf("%w: correct answer index %d out of range", ErrInvalidInput, q.CorrectAnswer)
	}
	return nil
}

// Questions is an ordered list of quiz questions stored as a JSON column
type Questions []QuizQuestion

// Validate checks that there is at least one question and all questions are valid
func (qs Questions) Validate() error {
	if len(qs) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidInput)
	}
	for i, q := range qs {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// Value implements driver.Valuer
func (qs Questions) Value() (driver.Value, error) {
	if qs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]QuizQuestion(qs))
}

// Scan implements sql.Scanner
func (qs *Questions) Scan(src any) error {
	return scanJSON(src, (*[]QuizQuestion)(qs))
}

// Quiz represents a quiz attached to a course
type Quiz struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Questions   Questions `json:"questions"`
	CreatedAt   time.Time `json:"createdAt"`
}

// QuizRequest is used to create or replace a quiz
type QuizRequest struct {
	CourseID    string         `json:"courseId" validate:"required,uuid"`
	Title       string         `json:"title" validate:"required,max=255"`
	Description string         `json:"description"`
	Questions   []QuizQuestion `json:"questions" validate:"required,min=1"`
}

// QuizAttempt is one submission of answers to a quiz
type QuizAttempt struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	QuizID      string    `json:"quizId"`
	CourseID    string    `json:"courseId"`
	Answers     []int     `json:"answers"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// SubmitAttemptRequest carries the chosen option index per question
type SubmitAttemptRequest struct {
	Answers []int `json:"answers" validate:"required,min=1"`
}

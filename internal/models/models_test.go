package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() QuizQuestion {
	return QuizQuestion{
		Text:          "What does a goroutine do?",
		Options:       []string{"Runs concurrently", "Allocates memory", "Closes a file", "Nothing"},
		CorrectAnswer: 0,
	}
}

func TestQuizQuestion_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(q *QuizQuestion)
		expectError bool
	}{
		{name: "valid", mutate: func(q *QuizQuestion) {}},
		{name: "empty text", mutate: func(q *QuizQuestion) { q.Text = "  " }, expectError: true},
		{name: "three options", mutate: func(q *QuizQuestion) { q.Options = q.Options[:3] }, expectError: true},
		{name: "five options", mutate: func(q *QuizQuestion) { q.Options = append(q.Options, "extra") }, expectError: true},
		{name: "blank option", mutate: func(q *QuizQuestion) { q.Options[2] = "" }, expectError: true},
		{name: "negative answer", mutate: func(q *QuizQuestion) { q.CorrectAnswer = -1 }, expectError: true},
		{name: "answer out of range", mutate: func(q *QuizQuestion) { q.CorrectAnswer = 4 }, expectError: true},
		{name: "last option", mutate: func(q *QuizQuestion) { q.CorrectAnswer = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			q.Options = append([]string(nil), q.Options...)
			tt.mutate(&q)

			err := q.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQuestions_Validate(t *testing.T) {
	assert.ErrorIs(t, Questions{}.Validate(), ErrInvalidInput)
	assert.NoError(t, Questions{validQuestion()}.Validate())

	bad := validQuestion()
	bad.CorrectAnswer = 9
	err := Questions{validQuestion(), bad}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question 2")
}

func TestQuestions_ScanValue(t *testing.T) {
	var empty Questions
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	var scanned Questions
	require.NoError(t, scanned.Scan([]byte(`[{"text":"q","options":["a","b","c","d"],"correctAnswer":2}]`)))
	require.Len(t, scanned, 1)
	assert.Equal(t, 2, scanned[0].CorrectAnswer)

	require.NoError(t, scanned.Scan(nil))
	assert.Error(t, scanned.Scan(42))
}

func TestLevel_Valid(t *testing.T) {
	assert.True(t, LevelBeginner.Valid())
	assert.True(t, LevelAdvanced.Valid())
	assert.False(t, Level("expert").Valid())
	assert.True(t, FileTypePDF.Valid())
	assert.False(t, FileType("exe").Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("owner").Valid())
}

func TestNewProcessVideoResponse(t *testing.T) {
	result := &EnrichmentResult{
		VideoID:   "v1",
		Title:     "Getting Started",
		VideoURL:  "https://www.youtube.com/watch?v=abc",
		Thumbnail: "https://img/1.jpg",
		AnalyzedContent: AnalyzedContent{
			Transcript: "text",
			Questions:  []QuizQuestion{validQuestion()},
		},
	}

	resp := NewProcessVideoResponse(result)
	body, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	for _, key := range []string{"status", "videoId", "analyzedContent", "videoUrl", "title", "thumbnail", "downloadInfo"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, StatusSuccess, decoded["status"])
	assert.NotContains(t, decoded, "warnings")
}

func TestUpdateCourseRequest_Empty(t *testing.T) {
	assert.True(t, (&UpdateCourseRequest{}).Empty())
	featured := true
	assert.False(t, (&UpdateCourseRequest{Featured: &featured}).Empty())
}

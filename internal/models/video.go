package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Video represents a lesson video of a course
type Video struct {
	ID              string           `json:"id"`
	CourseID        string           `json:"courseId"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	URL             string           `json:"url"`
	Duration        string           `json:"duration"`
	Thumbnail       string           `json:"thumbnail"`
	Order           int              `json:"order"`
	AnalyzedContent *AnalyzedContent `json:"analyzedContent,omitempty"`
	DownloadInfo    *DownloadInfo    `json:"downloadInfo,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Content sources recorded in AnalyzedContent
const (
	SourceGenerated = "generated"
	SourceTemplate  = "template"
)

// AnalyzedContent is the enrichment payload attached to a video
type AnalyzedContent struct {
	Transcript       string         `json:"transcript"`
	Summary          string         `json:"summary"`
	Keywords         []string       `json:"keywords"`
	Questions        []QuizQuestion `json:"questions"`
	TranscriptSource string         `json:"transcriptSource"`
	AnalysisSource   string         `json:"analysisSource"`
	GeneratedAt      time.Time      `json:"generatedAt"`
}

// Value implements driver.Valuer for the JSON column
func (a AnalyzedContent) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for the JSON column
func (a *AnalyzedContent) Scan(src any) error {
	return scanJSON(src, a)
}

// DownloadInfo describes how the selected video can be fetched
type DownloadInfo struct {
	Available bool   `json:"available"`
	Platform  string `json:"platform"`
	VideoID   string `json:"videoId,omitempty"`
	URL       string `json:"url"`
	Source    string `json:"source"`
}

// Value implements driver.Valuer for the JSON column
func (d DownloadInfo) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for the JSON column
func (d *DownloadInfo) Scan(src any) error {
	return scanJSON(src, d)
}

// VideoEnrichment holds every field written by a single enrichment update
type VideoEnrichment struct {
	URL             string
	Thumbnail       string
	Description     string
	AnalyzedContent AnalyzedContent
	DownloadInfo    DownloadInfo
}

// VideoInput is one entry of a course's video list replacement
type VideoInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	URL         string `json:"url" validate:"omitempty,url"`
	Duration    string `json:"duration" validate:"max=50"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,url"`
}

// ReplaceVideosRequest replaces all videos of a course
type ReplaceVideosRequest struct {
	Videos []VideoInput `json:"videos" validate:"dive"`
}

func scanJSON(src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

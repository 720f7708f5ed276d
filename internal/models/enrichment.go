package models

// ProcessVideoRequest is the input of the process-video function
type ProcessVideoRequest struct {
	VideoID  string `json:"videoId"`
	CourseID string `json:"courseId"`
}

// EnrichmentResult is the outcome of enriching one video
type EnrichmentResult struct {
	VideoID         string
	CourseID        string
	Title           string
	Description     string
	VideoURL        string
	Thumbnail       string
	VideoSource     string
	ThumbnailSource string
	AnalyzedContent AnalyzedContent
	DownloadInfo    DownloadInfo
	QuizCreated     bool
	// Warnings lists secondary writes that failed after the video row was updated
	Warnings []string
}

// Status values of function responses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ProcessVideoResponse is the process-video function response
type ProcessVideoResponse struct {
	Status          string           `json:"status"`
	Message         string           `json:"message,omitempty"`
	VideoID         string           `json:"videoId,omitempty"`
	AnalyzedContent *AnalyzedContent `json:"analyzedContent,omitempty"`
	VideoURL        string           `json:"videoUrl,omitempty"`
	Title           string           `json:"title,omitempty"`
	Description     string           `json:"description,omitempty"`
	Thumbnail       string           `json:"thumbnail,omitempty"`
	DownloadInfo    *DownloadInfo    `json:"downloadInfo,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// NewProcessVideoResponse converts an enrichment result to the function response
func NewProcessVideoResponse(r *EnrichmentResult) ProcessVideoResponse {
	content := r.AnalyzedContent
	info := r.DownloadInfo
	return ProcessVideoResponse{
		Status:          StatusSuccess,
		VideoID:         r.VideoID,
		AnalyzedContent: &content,
		VideoURL:        r.VideoURL,
		Title:           r.Title,
		Description:     r.Description,
		Thumbnail:       r.Thumbnail,
		DownloadInfo:    &info,
		Warnings:        r.Warnings,
	}
}

// GenerateCourseDetailsRequest is the input of the generate-course-details function
type GenerateCourseDetailsRequest struct {
	Title string `json:"title"`
}

// CourseDetails is generated course metadata
type CourseDetails struct {
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Duration    string               `json:"duration"`
	Level       Level                `json:"level"`
	Instructor  string               `json:"instructor"`
	Videos      []CourseDetailsVideo `json:"videos"`
}

// CourseDetailsVideo is one suggested video of generated course metadata
type CourseDetailsVideo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
	Duration    string `json:"duration"`
}

// GenerateCourseDetailsResponse is the generate-course-details function response
type GenerateCourseDetailsResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message,omitempty"`
	CourseDetails *CourseDetails `json:"courseDetails,omitempty"`
}

// PopulateCoursesRequest is the input of the populate-courses function
type PopulateCoursesRequest struct {
	Count         int  `json:"count"`
	ClearExisting bool `json:"clearExisting"`
}

// PopulateResult is the populate-courses function response
type PopulateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ReprocessCourseRequest asks for background re-enrichment of all videos of a course
type ReprocessCourseRequest struct {
	CourseID string `json:"courseId"`
	// OnlyMissing skips videos that already carry analyzed content
	OnlyMissing bool `json:"onlyMissing"`
}

// BatchResult summarizes a bulk enrichment run
type BatchResult struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

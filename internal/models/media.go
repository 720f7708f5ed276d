package models

// Storage buckets
const (
	BucketThumbnails = "course-thumbnails"
	BucketNotes      = "course-notes"
	BucketAvatars    = "avatars"
)

// UploadResult describes a stored object
type UploadResult struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// Package videosearch finds lesson videos on the public video platform.
package videosearch

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// PlatformYouTube identifies videos hosted on YouTube
const PlatformYouTube = "youtube"

// Result is one candidate video
type Result struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     string `json:"duration"`
	URL          string `json:"url"`
}

// Searcher searches for videos matching a free-text query.
type Searcher interface {
	// Search returns at most max results for query, best match first.
	Search(ctx context.Context, query string, max int) ([]Result, error)
}

var (
	videoIDPattern  = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:[^\s"'<>]*&)?v=|embed/|shorts/|v/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
	isoDurationExpr = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
)

// ExtractVideoID finds the first platform video URL in text and returns its id
func ExtractVideoID(text string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// WatchURL returns the canonical watch URL of a video
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// EmbedURL returns the embeddable player URL of a video
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}

// ThumbnailURL returns the platform-provided thumbnail of a video
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}

// FormatDuration converts an ISO-8601 duration such as PT1H2M3S into h:mm:ss or m:ss
func FormatDuration(iso string) (string, error) {
	m := isoDurationExpr.FindStringSubmatch(iso)
	if m == nil || iso == "P" || iso == "PT" {
		return "", fmt.Errorf("invalid ISO-8601 duration: %q", iso)
	}
	part := func(i int) int {
		if m[i] == "" {
			return 0
		}
		n, _ := strconv.Atoi(m[i])
		return n
	}
	hours := part(1)*24 + part(2)
	minutes, seconds := part(3), part(4)
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds), nil
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds), nil
}

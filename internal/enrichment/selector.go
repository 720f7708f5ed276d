package enrichment

import (
	"context"
	"fmt"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/textgen"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/videosearch"
	"go.uber.org/zap"
)

// Video selection sources, in tier order
const (
	VideoSourceLLM     = "llm"
	VideoSourceSearch  = "search"
	VideoSourceKeyword = "keyword"
	VideoSourceDefault = "default"
)

// Thumbnail selection sources, in tier order
const (
	ThumbnailSourceKeyword  = "keyword"
	ThumbnailSourcePlatform = "platform"
	ThumbnailSourceDefault  = "default"
)

const videoLookupSystemPrompt = "You recommend educational videos. Answer with a single YouTube URL and nothing else."

// Selection is the video chosen for a lesson
type Selection struct {
	URL          string
	VideoID      string
	Source       string
	Topic        *Topic
	ThumbnailURL string
	Duration     string
}

// DownloadInfo describes how the selected video can be fetched
func (s Selection) DownloadInfo() models.DownloadInfo {
	info := models.DownloadInfo{URL: s.URL, Source: s.Source}
	if s.VideoID != "" {
		info.Available = true
		info.Platform = videosearch.PlatformYouTube
		info.VideoID = s.VideoID
	}
	return info
}

// selector picks lesson videos and thumbnails through the fallback tiers
type selector struct {
	gen    textgen.Generator
	search videosearch.Searcher
	logger *zap.Logger
}

// SelectVideo tries the generator, then video search, then the keyword table, then the default bucket
func (s *selector) SelectVideo(ctx context.Context, videoTitle, courseTitle, category string) Selection {
	if sel, ok := s.fromGenerator(ctx, videoTitle, courseTitle, category); ok {
		return sel
	}
	if sel, ok := s.fromSearch(ctx, videoTitle, courseTitle); ok {
		return sel
	}
	return staticVideo(videoTitle, courseTitle, category)
}

func (s *selector) fromGenerator(ctx context.Context, videoTitle, courseTitle, category string) (Selection, bool) {
	if s.gen == nil {
		return Selection{}, false
	}
	prompt := fmt.Sprintf("Find a popular, embeddable YouTube tutorial for the lesson \"%s\" of the %s course \"%s\".",
		videoTitle, category, courseTitle)
	text, err := s.gen.GenerateText(ctx, videoLookupSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("video lookup via text generation failed", zap.Error(err))
		return Selection{}, false
	}
	id, ok := videosearch.ExtractVideoID(text)
	if !ok {
		s.logger.Debug("text generation returned no video URL", zap.String("output", truncate(text, 200)))
		return Selection{}, false
	}
	return Selection{URL: videosearch.WatchURL(id), VideoID: id, Source: VideoSourceLLM}, true
}

func (s *selector) fromSearch(ctx context.Context, videoTitle, courseTitle string) (Selection, bool) {
	if s.search == nil {
		return Selection{}, false
	}
	results, err := s.search.Search(ctx, courseTitle+" "+videoTitle+" tutorial", 1)
	if err != nil {
		s.logger.Warn("video search failed", zap.Error(err))
		return Selection{}, false
	}
	if len(results) == 0 || results[0].ID == "" {
		return Selection{}, false
	}
	r := results[0]
	return Selection{
		URL:          videosearch.WatchURL(r.ID),
		VideoID:      r.ID,
		Source:       VideoSourceSearch,
		ThumbnailURL: r.ThumbnailURL,
		Duration:     r.Duration,
	}, true
}

// staticVideo picks from the keyword table, or the default bucket when nothing matches
func staticVideo(videoTitle, courseTitle, category string) Selection {
	source := VideoSourceKeyword
	topic, ok := MatchKeyword(videoTitle, courseTitle, category)
	if !ok {
		topic = defaultTopic
		source = VideoSourceDefault
	}
	url := topic.Videos[pickIndex(videoTitle, len(topic.Videos))]
	id, _ := videosearch.ExtractVideoID(url)
	return Selection{URL: url, VideoID: id, Source: source, Topic: topic}
}

// SelectThumbnail tries the keyword image table, then the platform thumbnail of sel, then a default image
func SelectThumbnail(videoTitle, courseTitle, category string, sel Selection) (string, string) {
	if topic, ok := MatchKeyword(videoTitle, courseTitle, category); ok {
		return topic.Thumbnails[pickIndex(videoTitle, len(topic.Thumbnails))], ThumbnailSourceKeyword
	}
	if sel.ThumbnailURL != "" {
		return sel.ThumbnailURL, ThumbnailSourcePlatform
	}
	if sel.VideoID != "" {
		return videosearch.ThumbnailURL(sel.VideoID), ThumbnailSourcePlatform
	}
	return defaultTopic.Thumbnails[pickIndex(videoTitle, len(defaultTopic.Thumbnails))], ThumbnailSourceDefault
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

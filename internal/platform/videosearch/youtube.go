package videosearch

import (
	"context"
	"fmt"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeSearcher implements Searcher over the YouTube Data API v3
type YouTubeSearcher struct {
	service    *youtube.Service
	maxResults int
	logger     *zap.Logger
}

// NewYouTubeSearcher creates a searcher authenticated with the configured API key.
// Extra options are appended after the key (used to point the client at a test server).
func NewYouTubeSearcher(ctx context.Context, cfg config.VideoSearchConfig, logger *zap.Logger, opts ...option.ClientOption) (*YouTubeSearcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY is required for video search")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults < 1 {
		maxResults = 5
	}
	return &YouTubeSearcher{service: service, maxResults: maxResults, logger: logger}, nil
}

// Search runs search.list for embeddable videos, then videos.list for their durations
func (s *YouTubeSearcher) Search(ctx context.Context, query string, max int) ([]Result, error) {
	if max < 1 || max > s.maxResults {
		max = s.maxResults
	}

	resp, err := s.service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		VideoEmbeddable("true").
		SafeSearch("strict").
		MaxResults(int64(max)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	results := make([]Result, 0, len(resp.Items))
	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		id := item.Id.VideoId
		results = append(results, Result{
			ID:           id,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails, id),
			URL:          WatchURL(id),
		})
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return results, nil
	}

	details, err := s.service.Videos.List([]string{"contentDetails"}).Id(ids...).Context(ctx).Do()
	if err != nil {
		// Durations are optional
		s.logger.Warn("youtube video details lookup failed", zap.Error(err))
		return results, nil
	}
	durations := make(map[string]string, len(details.Items))
	for _, v := range details.Items {
		if v.ContentDetails == nil {
			continue
		}
		if d, err := FormatDuration(v.ContentDetails.Duration); err == nil {
			durations[v.Id] = d
		}
	}
	for i := range results {
		results[i].Duration = durations[results[i].ID]
	}
	return results, nil
}

func bestThumbnail(t *youtube.ThumbnailDetails, id string) string {
	if t != nil {
		for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
			if th != nil && th.Url != "" {
				return th.Url
			}
		}
	}
	return ThumbnailURL(id)
}

package videosearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "watch url", text: "https://www.youtube.com/watch?v=rfscVS0vtbw", want: "rfscVS0vtbw", wantOK: true},
		{name: "watch url with params first", text: "youtube.com/watch?feature=share&v=rfscVS0vtbw&t=10", want: "rfscVS0vtbw", wantOK: true},
		{name: "short url in prose", text: "Try this one: https://youtu.be/W6NZfCO5SIk it is great", want: "W6NZfCO5SIk", wantOK: true},
		{name: "embed url", text: "https://www.youtube.com/embed/Ke90Tje7VS0", want: "Ke90Tje7VS0", wantOK: true},
		{name: "shorts url", text: "https://youtube.com/shorts/abcdefghijk", want: "abcdefghijk", wantOK: true},
		{name: "other platform", text: "https://vimeo.com/123456", wantOK: false},
		{name: "id too short", text: "https://youtu.be/abc", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		iso     string
		want    string
		wantErr bool
	}{
		{iso: "PT4M5S", want: "4:05"},
		{iso: "PT45S", want: "0:45"},
		{iso: "PT1H2M3S", want: "1:02:03"},
		{iso: "PT2H", want: "2:00:00"},
		{iso: "P1DT1H", want: "25:00:00"},
		{iso: "PT", wantErr: true},
		{iso: "4:05", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			got, err := FormatDuration(tt.iso)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLHelpers(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", WatchURL("abc"))
	assert.Equal(t, "https://www.youtube.com/embed/abc", EmbedURL("abc"))
	assert.Equal(t, "https://img.youtube.com/vi/abc/hqdefault.jpg", ThumbnailURL("abc"))
}

func newTestSearcher(t *testing.T, handler http.HandlerFunc) *YouTubeSearcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewYouTubeSearcher(context.Background(), config.VideoSearchConfig{APIKey: "key", MaxResults: 5}, zap.NewNop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return s
}

func TestYouTubeSearcher_Search(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			assert.Equal(t, "python tutorial", r.URL.Query().Get("q"))
			assert.Equal(t, "video", r.URL.Query().Get("type"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{
						"id": map[string]any{"videoId": "rfscVS0vtbw"},
						"snippet": map[string]any{
							"title":       "Learn Python",
							"description": "Full course",
							"thumbnails":  map[string]any{"high": map[string]any{"url": "https://i.ytimg.com/vi/rfscVS0vtbw/hq.jpg"}},
						},
					},
					{
						"id":      map[string]any{"videoId": "kqtD5dpn9C8"},
						"snippet": map[string]any{"title": "Python in 1 hour"},
					},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/videos"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"id": "rfscVS0vtbw", "contentDetails": map[string]any{"duration": "PT4H26M52S"}},
					{"id": "kqtD5dpn9C8", "contentDetails": map[string]any{"duration": "PT1H0M3S"}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})

	results, err := s.Search(context.Background(), "python tutorial", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "rfscVS0vtbw", results[0].ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=rfscVS0vtbw", results[0].URL)
	assert.Equal(t, "https://i.ytimg.com/vi/rfscVS0vtbw/hq.jpg", results[0].ThumbnailURL)
	assert.Equal(t, "4:26:52", results[0].Duration)
	assert.Equal(t, "https://img.youtube.com/vi/kqtD5dpn9C8/hqdefault.jpg", results[1].ThumbnailURL)
	assert.Equal(t, "1:00:03", results[1].Duration)
}

func TestYouTubeSearcher_SearchError(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"quota exceeded"}}`, http.StatusForbidden)
	})

	_, err := s.Search(context.Background(), "anything", 1)
	assert.Error(t, err)
}

func TestNewYouTubeSearcher_RequiresKey(t *testing.T) {
	_, err := NewYouTubeSearcher(context.Background(), config.VideoSearchConfig{}, zap.NewNop())
	assert.Error(t, err)
}

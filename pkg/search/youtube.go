package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	minVideoMinutes = 3
	maxVideoMinutes = 30
	minVideoViews   = 1000
	maxDescription  = 200
)

// YouTubeSearch finds beginner-friendly videos for a hobby through the
// YouTube Data API v3.
type YouTubeSearch struct {
	svc *youtube.Service
	err error
}

// NewYouTubeSearch builds the tool. An empty apiKey yields a tool that
// answers with a "not configured" payload.
func NewYouTubeSearch(ctx context.Context, apiKey string, opts ...option.ClientOption) *YouTubeSearch {
	if apiKey == "" {
		return &YouTubeSearch{}
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	return &YouTubeSearch{svc: svc, err: err}
}

// YouTubeArgs are the tool arguments.
type YouTubeArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// Video is one curated search hit.
type Video struct {
	Title              string  `json:"title"`
	Channel            string  `json:"channel"`
	URL                string  `json:"url"`
	Thumbnail          string  `json:"thumbnail"`
	Duration           string  `json:"duration"`
	DurationMinutes    float64 `json:"duration_minutes"`
	ViewCount          uint64  `json:"view_count"`
	ViewCountFormatted string  `json:"view_count_formatted"`
	Description        string  `json:"description"`
}

type youTubeResponse struct {
	Error      string  `json:"error,omitempty"`
	Query      string  `json:"query,omitempty"`
	Videos     []Video `json:"videos"`
	TotalFound *int    `json:"total_found,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// Search runs the query and returns the tool result as a JSON string.
// Failures are reported inside the payload, never as an error.
func (y *YouTubeSearch) Search(ctx context.Context, args YouTubeArgs) string {
	if y.svc == nil && y.err == nil {
		return encode(youTubeResponse{Error: "YOUTUBE_API_KEY environment variable not set", Videos: []Video{}})
	}
	if y.err != nil {
		return encode(youTubeResponse{Error: fmt.Sprintf("Error searching YouTube: %v", y.err), Videos: []Video{}})
	}

	limit := clampResults(args.MaxResults)
	videos, err := y.search(ctx, args.Query, limit)
	if err != nil {
		slog.Warn("search.youtube: request failed", "query", args.Query, "error", err)
		return encode(youTubeResponse{Error: fmt.Sprintf("YouTube API error: %v", err), Videos: []Video{}})
	}
	if videos == nil {
		return encode(youTubeResponse{Query: args.Query, Videos: []Video{}, Message: "No videos found for this query"})
	}
	total := len(videos)
	return encode(youTubeResponse{Query: args.Query, Videos: videos, TotalFound: &total})
}

func (y *YouTubeSearch) search(ctx context.Context, query string, limit int) ([]Video, error) {
	found, err := y.svc.Search.List([]string{"id", "snippet"}).
		Q(query).
		MaxResults(int64(min(limit*2, 20))).
		Type("video").
		VideoDuration("medium").
		RelevanceLanguage("en").
		SafeSearch("strict").
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(found.Items))
	for _, item := range found.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	details, err := y.svc.Videos.List([]string{"contentDetails", "statistics", "snippet"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	videos := make([]Video, 0, limit)
	for _, item := range details.Items {
		if item.ContentDetails == nil || item.Snippet == nil {
			continue
		}
		minutes := DurationMinutes(item.ContentDetails.Duration)
		var views uint64
		if item.Statistics != nil {
			views = item.Statistics.ViewCount
		}
		if minutes < minVideoMinutes || minutes > maxVideoMinutes || views < minVideoViews {
			continue
		}

		v := Video{
			Title:              item.Snippet.Title,
			Channel:            item.Snippet.ChannelTitle,
			URL:                "https://www.youtube.com/watch?v=" + item.Id,
			Duration:           FormatDuration(item.ContentDetails.Duration),
			DurationMinutes:    minutes,
			ViewCount:          views,
			ViewCountFormatted: FormatCount(views),
			Description:        truncate(item.Snippet.Description, maxDescription),
		}
		if t := item.Snippet.Thumbnails; t != nil && t.High != nil {
			v.Thumbnail = t.High.Url
		}
		videos = append(videos, v)
		if len(videos) >= limit {
			break
		}
	}

	sort.SliceStable(videos, func(i, j int) bool { return videos[i].ViewCount > videos[j].ViewCount })
	return videos, nil
}

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

func durationParts(iso string) (h, m, s string, ok bool) {
	match := isoDuration.FindStringSubmatch(iso)
	if match == nil {
		return "", "", "", false
	}
	return match[1], match[2], match[3], true
}

// DurationMinutes converts an ISO 8601 duration such as PT15M32S to minutes.
func DurationMinutes(iso string) float64 {
	h, m, s, ok := durationParts(iso)
	if !ok {
		return 0
	}
	return float64(atoi(h)*60+atoi(m)) + float64(atoi(s))/60
}

// FormatDuration renders an ISO 8601 duration as "1h 5m" or "15m 32s".
// Seconds are dropped once hours are present.
func FormatDuration(iso string) string {
	h, m, s, ok := durationParts(iso)
	if !ok {
		return iso
	}
	var parts []string
	if h != "" {
		parts = append(parts, h+"h")
	}
	switch {
	case m != "":
		parts = append(parts, m+"m")
	case h != "":
		parts = append(parts, "0m")
	}
	if s != "" && h == "" {
		parts = append(parts, s+"s")
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}

// FormatCount abbreviates view counts: 1.2M, 3.4K, 950.
func FormatCount(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatUint(n, 10)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func clampResults(n int) int {
	if n <= 0 {
		return 5
	}
	if n > 10 {
		return 10
	}
	return n
}

func encode(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}

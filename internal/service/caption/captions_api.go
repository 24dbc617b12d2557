package caption

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noteflow-ai/noteflow/internal/model"
)

// CaptionsAPI is the official captioning API: it lists a video's caption
// tracks and downloads one as subtitle bytes. Requires a configured
// credential; absence of the credential means the capability is unavailable,
// not an error.
type CaptionsAPI interface {
	ListTracks(ctx context.Context, videoID string) ([]model.CaptionTrack, error)
	DownloadTrack(ctx context.Context, trackID string) ([]byte, error)
}

// captionsAPIStrategy is the first strategy in the chain. Every failure,
// including a missing credential, is swallowed and reported as no result so
// the chain falls through silently.
type captionsAPIStrategy struct {
	api CaptionsAPI // nil when no credential is configured
}

// NewCaptionsAPIStrategy creates the official-API strategy. Pass nil when
// no credential is configured; the strategy then always falls through.
func NewCaptionsAPIStrategy(api CaptionsAPI) Strategy {
	return &captionsAPIStrategy{api: api}
}

func (s *captionsAPIStrategy) Name() string {
	return SourceCaptionsAPI
}

func (s *captionsAPIStrategy) Attempt(ctx context.Context, videoID string) model.Outcome {
	if s.api == nil {
		return model.Outcome{
			Strategy: s.Name(),
			Status:   model.OutcomeNotFound,
			Detail:   "captions API credential not configured",
		}
	}

	tracks, err := s.api.ListTracks(ctx, videoID)
	if err != nil || len(tracks) == 0 {
		return s.miss(err)
	}

	track := preferEnglish(tracks)

	data, err := s.api.DownloadTrack(ctx, track.ID)
	if err != nil {
		return s.miss(err)
	}

	text := StripSubtitleText(string(data))
	if text == "" {
		return s.miss(nil)
	}

	return model.Outcome{
		Strategy:  s.Name(),
		Languages: []string{track.Language},
		Status:    model.OutcomeSuccess,
		Text:      text,
	}
}

// miss converts any failure into a silent fallthrough outcome
func (s *captionsAPIStrategy) miss(err error) model.Outcome {
	outcome := model.Outcome{
		Strategy: s.Name(),
		Status:   model.OutcomeNotFound,
	}
	if err != nil {
		outcome.Detail = err.Error()
	}
	return outcome
}

// preferEnglish returns the first English-variant track, or the first track.
// The official API is preferred over later strategies whenever it returns
// anything at all, even a non-English track; this mirrors the long-standing
// production behavior.
func preferEnglish(tracks []model.CaptionTrack) model.CaptionTrack {
	for _, track := range tracks {
		if strings.HasPrefix(strings.ToLower(track.Language), "en") {
			return track
		}
	}
	return tracks[0]
}

// youtubeCaptionsAPI implements CaptionsAPI against the YouTube Data API v3
type youtubeCaptionsAPI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeCaptionsAPI creates a CaptionsAPI backed by the YouTube Data
// API. Returns nil when apiKey is empty so callers can pass the result
// straight into NewCaptionsAPIStrategy.
func NewYouTubeCaptionsAPI(apiKey string) CaptionsAPI {
	if apiKey == "" {
		return nil
	}
	return &youtubeCaptionsAPI{
		apiKey:     apiKey,
		baseURL:    "https://www.googleapis.com/youtube/v3",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type captionListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Language   string `json:"language"`
			Name       string `json:"name"`
			TrackKind  string `json:"trackKind"`
			IsAutoSync bool   `json:"isAutoSynced"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *youtubeCaptionsAPI) ListTracks(ctx context.Context, videoID string) ([]model.CaptionTrack, error) {
	url := fmt.Sprintf("%s/captions?part=snippet&videoId=%s&key=%s", c.baseURL, videoID, c.apiKey)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var response captionListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse caption list response: %w", err)
	}

	tracks := make([]model.CaptionTrack, 0, len(response.Items))
	for _, item := range response.Items {
		tracks = append(tracks, model.CaptionTrack{
			ID:           item.ID,
			Language:     item.Snippet.Language,
			LanguageName: item.Snippet.Name,
			Generated:    item.Snippet.TrackKind == "asr",
		})
	}
	return tracks, nil
}

func (c *youtubeCaptionsAPI) DownloadTrack(ctx context.Context, trackID string) ([]byte, error) {
	url := fmt.Sprintf("%s/captions/%s?tfmt=vtt&key=%s", c.baseURL, trackID, c.apiKey)
	return c.get(ctx, url)
}

func (c *youtubeCaptionsAPI) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("captions API returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

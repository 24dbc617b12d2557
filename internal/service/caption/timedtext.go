package caption

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/noteflow-ai/noteflow/internal/model"
)

const timedTextBaseURL = "https://video.google.com/timedtext"

// timedTextClient implements ScrapingClient against YouTube's unofficial
// timedtext endpoint. It needs no API key, which is exactly why it is less
// reliable than the official captions API.
type timedTextClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTimedTextClient creates a ScrapingClient backed by the public
// timedtext endpoint
func NewTimedTextClient() ScrapingClient {
	return &timedTextClient{
		baseURL: timedTextBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type timedTextBody struct {
	Texts []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Value string  `xml:",chardata"`
}

type timedTextTrackList struct {
	Tracks []timedTextTrack `xml:"track"`
}

type timedTextTrack struct {
	ID       string `xml:"id,attr"`
	LangCode string `xml:"lang_code,attr"`
	LangName string `xml:"lang_translated,attr"`
	Name     string `xml:"name,attr"`
	Kind     string `xml:"kind,attr"`
}

func (c *timedTextClient) Fetch(ctx context.Context, videoID, language string) ([]model.TranscriptSegment, error) {
	params := url.Values{}
	params.Set("v", videoID)

	// An "a." prefix selects the auto-generated (ASR) track
	if lang, ok := strings.CutPrefix(language, "a."); ok {
		params.Set("lang", lang)
		params.Set("kind", "asr")
	} else {
		params.Set("lang", language)
	}

	return c.fetchSegments(ctx, params)
}

func (c *timedTextClient) FetchTranslated(ctx context.Context, videoID, sourceLanguage, targetLanguage string) ([]model.TranscriptSegment, error) {
	params := url.Values{}
	params.Set("v", videoID)
	if lang, ok := strings.CutPrefix(sourceLanguage, "a."); ok {
		params.Set("lang", lang)
		params.Set("kind", "asr")
	} else {
		params.Set("lang", sourceLanguage)
	}
	params.Set("tlang", targetLanguage)

	return c.fetchSegments(ctx, params)
}

func (c *timedTextClient) ListTranscripts(ctx context.Context, videoID string) ([]model.CaptionTrack, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("type", "list")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrNoTranscriptFound
	}

	var list timedTextTrackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse track list: %w", err)
	}

	tracks := make([]model.CaptionTrack, 0, len(list.Tracks))
	for _, track := range list.Tracks {
		languageName := track.LangName
		if languageName == "" {
			languageName = track.LangCode
		}
		tracks = append(tracks, model.CaptionTrack{
			ID:           track.ID,
			Language:     track.LangCode,
			LanguageName: languageName,
			Generated:    track.Kind == "asr",
			// The endpoint translates any track it serves
			Translatable: true,
		})
	}
	return tracks, nil
}

func (c *timedTextClient) fetchSegments(ctx context.Context, params url.Values) ([]model.TranscriptSegment, error) {
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		// The endpoint answers 200 with an empty body when the requested
		// track does not exist
		return nil, ErrNoTranscriptFound
	}

	var parsed timedTextBody
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}

	segments := make([]model.TranscriptSegment, 0, len(parsed.Texts))
	for _, line := range parsed.Texts {
		text := strings.TrimSpace(html.UnescapeString(line.Value))
		if text == "" {
			continue
		}
		segments = append(segments, model.TranscriptSegment{
			Text:  text,
			Start: line.Start,
			End:   line.Start + line.Dur,
		})
	}
	if len(segments) == 0 {
		return nil, ErrNoTranscriptFound
	}
	return segments, nil
}

func (c *timedTextClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build transcript request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNoTranscriptFound
	case resp.StatusCode != http.StatusOK:
		return nil, &FetchError{Err: fmt.Errorf("transcript endpoint returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	return body, nil
}

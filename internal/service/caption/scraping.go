package caption

import (
	"context"
	"errors"
	"strings"

	"github.com/noteflow-ai/noteflow/internal/model"
)

// Recognized domain failures from the scraping API. Anything else returned
// by a ScrapingClient is treated as an unexpected internal error and stops
// the strategy instead of being masked as "no transcript found".
var (
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	ErrVideoUnavailable    = errors.New("video is unavailable")
	ErrNoTranscriptFound   = errors.New("no transcript found for requested language")
)

// FetchError marks a transient scraping failure (network hiccup, blocked
// request) that is safe to retry on the next language or round.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "transcript fetch failed: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ScrapingClient fetches transcripts from the unofficial transcript
// endpoint. Language codes with an "a." prefix denote auto-generated tracks.
type ScrapingClient interface {
	Fetch(ctx context.Context, videoID, language string) ([]model.TranscriptSegment, error)
	ListTranscripts(ctx context.Context, videoID string) ([]model.CaptionTrack, error)
	FetchTranslated(ctx context.Context, videoID, sourceLanguage, targetLanguage string) ([]model.TranscriptSegment, error)
}

// languageCandidates is the ordered fallback list: manual English, then
// auto-generated English, then the other supported languages
var languageCandidates = []string{
	"en",   // English
	"a.en", // Auto-generated English
	"ar",   // Arabic
	"a.ar", // Auto-generated Arabic
	"es",   // Spanish
	"fr",   // French
	"de",   // German
	"pt",   // Portuguese
	"ru",   // Russian
	"hi",   // Hindi
	"ja",   // Japanese
	"ko",   // Korean
}

// scrapingStrategy sweeps the language candidates, retries the full sweep
// with exponential backoff, then falls back to auto-translating the first
// translatable track into English.
type scrapingStrategy struct {
	client ScrapingClient
	policy RetryPolicy
}

// NewScrapingStrategy creates the scraping-API strategy
func NewScrapingStrategy(client ScrapingClient, policy RetryPolicy) Strategy {
	return &scrapingStrategy{
		client: client,
		policy: policy,
	}
}

func (s *scrapingStrategy) Name() string {
	return SourceScrapingAPI
}

func (s *scrapingStrategy) Attempt(ctx context.Context, videoID string) model.Outcome {
	var tried []string

	for attempt := 0; attempt < s.policy.MaxAttempts; attempt++ {
		for _, language := range languageCandidates {
			if attempt == 0 {
				tried = append(tried, language)
			}

			segments, err := s.client.Fetch(ctx, videoID, language)
			if err == nil {
				if text := joinSegments(segments); text != "" {
					return model.Outcome{
						Strategy:  s.Name(),
						Languages: []string{language},
						Status:    model.OutcomeSuccess,
						Text:      text,
					}
				}
				continue
			}

			switch {
			case errors.Is(err, ErrTranscriptsDisabled):
				// Terminal for this strategy: no other language can work
				return model.Outcome{
					Strategy:  s.Name(),
					Languages: tried,
					Status:    model.OutcomeDisabled,
				}

			case errors.Is(err, ErrVideoUnavailable):
				return model.Outcome{
					Strategy:  s.Name(),
					Languages: tried,
					Status:    model.OutcomeUnavailable,
				}

			case errors.Is(err, ErrNoTranscriptFound):
				continue

			default:
				var fetchErr *FetchError
				if errors.As(err, &fetchErr) {
					// Recognized transient failure: try the next language
					continue
				}
				// Unexpected internal error (e.g. malformed response shape):
				// do not mask it as a missing transcript
				return model.Outcome{
					Strategy:  s.Name(),
					Languages: tried,
					Status:    model.OutcomeTransient,
					Detail:    err.Error(),
				}
			}
		}

		if attempt < s.policy.MaxAttempts-1 {
			s.policy.Sleep(s.policy.Delay(attempt))
		}
	}

	// Last resort for this strategy: auto-translate the first translatable
	// track into English
	if outcome, ok := s.attemptTranslation(ctx, videoID, tried); ok {
		return outcome
	}

	return model.Outcome{
		Strategy:  s.Name(),
		Languages: tried,
		Status:    model.OutcomeNotFound,
	}
}

func (s *scrapingStrategy) attemptTranslation(ctx context.Context, videoID string, tried []string) (model.Outcome, bool) {
	tracks, err := s.client.ListTranscripts(ctx, videoID)
	if err != nil {
		return model.Outcome{}, false
	}

	for _, track := range tracks {
		if !track.Translatable {
			continue
		}

		segments, err := s.client.FetchTranslated(ctx, videoID, track.Language, "en")
		if err != nil {
			return model.Outcome{}, false
		}

		if text := joinSegments(segments); text != "" {
			return model.Outcome{
				Strategy:  SourceScrapingTranslated,
				Languages: append(tried, track.Language+"→en"),
				Status:    model.OutcomeSuccess,
				Text:      text,
			}, true
		}
		return model.Outcome{}, false
	}

	return model.Outcome{}, false
}

// joinSegments concatenates segment text with single spaces
func joinSegments(segments []model.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
